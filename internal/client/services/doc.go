// Package services holds the sync agent: the outbox replay and pull cycle
// (SyncService) and offline-aware favorite toggling (FavoriteService).
package services
