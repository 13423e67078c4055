package client

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/songbook/internal/common"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// HealthProbe checks a service through the standard gRPC health protocol.
type HealthProbe struct {
	endpoint    string
	service     string
	accessToken string
	conn        *grpc.ClientConn
	client      healthpb.HealthClient
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (p *HealthProbe) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if p.accessToken != "" {
		ctx = withAccessToken(ctx, p.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewHealthProbe creates a probe for endpoint. The connection is established
// lazily by grpc on the first check. service may be empty to ask for the
// overall server status.
func NewHealthProbe(endpoint, service, accessToken string, opts ...grpc.DialOption) (*HealthProbe, error) {
	p := &HealthProbe{endpoint: endpoint, service: service, accessToken: accessToken}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(p.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, err
	}
	p.conn = conn
	p.client = healthpb.NewHealthClient(conn)
	return p, nil
}

func (p *HealthProbe) Probe(ctx context.Context) error {
	resp, err := p.client.Check(ctx, &healthpb.HealthCheckRequest{Service: p.service})
	if err != nil {
		return p.mapError(err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (p *HealthProbe) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

func (p *HealthProbe) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded, codes.NotFound:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
