package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// marker makes empty generations visible to Generations.
const marker = ".generation"

// S3API is the part of *s3.Client the backend uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	DeleteObjects(ctx context.Context, in *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// maxDeleteBatch is the DeleteObjects limit per request.
const maxDeleteBatch = 1000

type S3 struct {
	client S3API
	bucket string
	batch  int
}

func NewS3(client S3API, bucket string) *S3 {
	return &S3{client: client, bucket: bucket, batch: maxDeleteBatch}
}

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3FromOptions builds an S3 client for an S3-compatible endpoint such as
// MinIO. Static credentials are used when AccessKey is set.
func NewS3FromOptions(ctx context.Context, o S3Options) (*S3, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loaders...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(opts *s3.Options) {
		if o.Endpoint != "" {
			opts.BaseEndpoint = aws.String(o.Endpoint)
			opts.UsePathStyle = true
		}
	})
	return NewS3(client, o.Bucket), nil
}

func objectKey(generation, method, url string) string {
	return generation + "/" + Key(method, url)
}

func (s *S3) Open(ctx context.Context, generation string) error {
	if err := validGeneration(generation); err != nil {
		return err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(generation + "/" + marker),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return fmt.Errorf("failed to open generation %s: %w", generation, err)
	}
	return nil
}

func (s *S3) Generations(ctx context.Context) ([]string, error) {
	names := make([]string, 0)

	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Delimiter:         aws.String("/"),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, p := range out.CommonPrefixes {
			names = append(names, strings.TrimSuffix(aws.ToString(p.Prefix), "/"))
		}
		if !aws.ToBool(out.IsTruncated) {
			return names, nil
		}
		token = out.NextContinuationToken
	}
}

func (s *S3) Delete(ctx context.Context, generation string) (bool, error) {
	if err := validGeneration(generation); err != nil {
		return false, err
	}

	// collect every key before deleting; continuation tokens are not
	// stable once the listed objects are gone
	var keys []types.ObjectIdentifier
	var token *string
	for {
		out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(generation + "/"),
			ContinuationToken: token,
		})
		if err != nil {
			return false, err
		}
		for _, obj := range out.Contents {
			keys = append(keys, types.ObjectIdentifier{Key: obj.Key})
		}
		if !aws.ToBool(out.IsTruncated) {
			break
		}
		token = out.NextContinuationToken
	}

	existed := len(keys) > 0
	for len(keys) > 0 {
		n := min(len(keys), s.batch)
		_, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(s.bucket),
			Delete: &types.Delete{Objects: keys[:n], Quiet: aws.Bool(true)},
		})
		if err != nil {
			return true, fmt.Errorf("failed to delete generation %s: %w", generation, err)
		}
		keys = keys[n:]
	}
	return existed, nil
}

func (s *S3) Put(ctx context.Context, generation string, e Entry) error {
	if err := validGeneration(generation); err != nil {
		return err
	}

	// entries imply their generation; the marker is written lazily
	if err := s.Open(ctx, generation); err != nil {
		return err
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey(generation, e.Method, e.URL)),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put %s %s: %w", e.Method, e.URL, err)
	}
	return nil
}

func (s *S3) Match(ctx context.Context, generation, method, url string) (*Entry, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey(generation, method, url)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, err
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("malformed cache object for %s %s: %w", method, url, err)
	}
	return &e, nil
}

func (s *S3) Close() error { return nil }
