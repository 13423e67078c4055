package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/songbook/internal/client/client"
	"github.com/dmitrijs2005/songbook/internal/client/models"
	"github.com/dmitrijs2005/songbook/internal/logging"
)

// SyncReport summarizes one Sync run.
type SyncReport struct {
	Pushed    int
	Failed    int
	Purged    int64
	Pulled    int
	Favorites int
	Conflicts []models.Conflict
}

type SyncService interface {
	Sync(ctx context.Context, userID string) (*SyncReport, error)
}

type syncService struct {
	client client.Client
	store  LocalStore
	logger logging.Logger

	// one run at a time; the online watcher and the REPL may both trigger
	mu sync.Mutex
}

func NewSyncService(c client.Client, st LocalStore, logger logging.Logger) SyncService {
	return &syncService{client: c, store: st, logger: logger.With("module", "sync")}
}

func (s *syncService) Sync(ctx context.Context, userID string) (*SyncReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	report := &SyncReport{}

	if err := s.replayOutbox(ctx, report); err != nil {
		return report, err
	}

	purged, err := s.store.ClearSyncedChanges(ctx)
	if err != nil {
		return report, fmt.Errorf("error purging outbox: %w", err)
	}
	report.Purged = purged

	if err := s.pullSongs(ctx, report); err != nil {
		return report, err
	}

	if err := s.pullFavorites(ctx, userID, report); err != nil {
		return report, err
	}

	s.logger.Info(ctx, "sync finished",
		"pushed", report.Pushed, "failed", report.Failed, "pulled", report.Pulled,
		"conflicts", len(report.Conflicts), "favorites", report.Favorites)
	return report, nil
}

func (s *syncService) replayOutbox(ctx context.Context, report *SyncReport) error {
	changes, err := s.store.GetUnsyncedChanges(ctx)
	if err != nil {
		return fmt.Errorf("error retrieving outbox: %w", err)
	}

	for _, ch := range changes {
		if err := s.client.PushChange(ctx, ch); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			report.Failed++
			s.logger.Warn(ctx, "change replay failed", "id", ch.ID, "type", ch.Type, "error", err)
			continue
		}

		if err := s.store.MarkChangeSynced(ctx, ch.ID); err != nil {
			report.Failed++
			s.logger.Error(ctx, "marking change synced", "id", ch.ID, "error", err)
			continue
		}
		report.Pushed++
	}
	return nil
}

func (s *syncService) pullSongs(ctx context.Context, report *SyncReport) error {
	server, err := s.client.FetchSongs(ctx)
	if err != nil {
		return fmt.Errorf("error fetching songs: %w", err)
	}

	held, err := s.store.GetAllSongs(ctx)
	if err != nil {
		return fmt.Errorf("error reading local songs: %w", err)
	}

	local := make([]models.Song, 0)
	for _, song := range held {
		if song.Source == models.SourceLocal || song.Source == models.SourceLocalMerged {
			local = append(local, song)
		}
	}

	conflicts, err := s.store.MergeServerAndLocal(ctx, server, local)
	if err != nil {
		return fmt.Errorf("error merging songs: %w", err)
	}
	if err := s.store.TouchLastSync(ctx); err != nil {
		return fmt.Errorf("error stamping last sync: %w", err)
	}

	report.Pulled = len(server)
	report.Conflicts = conflicts
	return nil
}

func (s *syncService) pullFavorites(ctx context.Context, userID string, report *SyncReport) error {
	ids, err := s.client.FetchFavorites(ctx, userID)
	if err != nil {
		return fmt.Errorf("error fetching favorites: %w", err)
	}
	if err := s.store.ReplaceFavoritesForUser(ctx, userID, ids); err != nil {
		return fmt.Errorf("error replacing favorites: %w", err)
	}
	report.Favorites = len(ids)
	return nil
}
