package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/songbook/internal/client/models"
)

var errOffline = errors.New("offline: sync runs automatically once the server is reachable")

func (a *App) printSongs(songs []models.Song) {
	if len(songs) == 0 {
		fmt.Fprintln(a.out, "No songs.")
		return
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLANG\tSOURCE")
	for _, s := range songs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, s.Title, s.Language, s.Source)
	}
	_ = w.Flush()
}

func (a *App) Songs(ctx context.Context) error {
	songs, err := a.store.GetAllSongs(ctx)
	if err != nil {
		return err
	}
	a.printSongs(songs)
	return nil
}

func (a *App) Song(ctx context.Context, id string) error {
	song, err := a.store.GetSongByID(ctx, id)
	if err != nil {
		return err
	}
	if song == nil {
		fmt.Fprintf(a.out, "Song %s not found.\n", id)
		return nil
	}

	fav, err := a.store.IsFavorite(ctx, a.config.UserID, id)
	if err != nil {
		return err
	}

	star := ""
	if fav {
		star = " *"
	}
	fmt.Fprintf(a.out, "%s%s [%s, %s]\n\n%s\n", song.Title, star, song.Language, song.Source, song.Content)
	return nil
}

func (a *App) Count(ctx context.Context) error {
	n, err := a.store.GetSongCount(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%d songs\n", n)
	return nil
}

func (a *App) Search(ctx context.Context, prefix string) error {
	songs, err := a.store.SearchSongsByTitle(ctx, prefix)
	if err != nil {
		return err
	}
	a.printSongs(songs)
	return nil
}

func (a *App) Lang(ctx context.Context, code string) error {
	songs, err := a.store.GetSongsByLanguage(ctx, code)
	if err != nil {
		return err
	}
	a.printSongs(songs)
	return nil
}

func (a *App) Favorite(ctx context.Context, id string, isFavorite bool) error {
	queued, err := a.favoriteService.Toggle(ctx, a.config.UserID, id, isFavorite, a.isOnline())
	if err != nil {
		return err
	}
	if queued {
		fmt.Fprintln(a.out, "Saved locally, queued for sync.")
	} else {
		fmt.Fprintln(a.out, "Saved.")
	}
	return nil
}

func (a *App) Favorites(ctx context.Context) error {
	ids, err := a.store.GetFavoriteSongIDs(ctx, a.config.UserID)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		fmt.Fprintln(a.out, "No favorites.")
		return nil
	}
	fmt.Fprintln(a.out, strings.Join(ids, "\n"))
	return nil
}

func (a *App) Queue(ctx context.Context) error {
	changes, err := a.store.GetPendingChanges(ctx)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		fmt.Fprintln(a.out, "Outbox is empty.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTYPE\tSONG\tFAV\tSYNCED\tQUEUED")
	for _, c := range changes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%t\t%t\t%s\n", c.ID, c.Type, c.SongID, c.IsFavorite, c.Synced, c.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func (a *App) Conflicts(ctx context.Context) error {
	conflicts, err := a.store.GetConflicts(ctx, true)
	if err != nil {
		return err
	}
	if len(conflicts) == 0 {
		fmt.Fprintln(a.out, "No conflicts.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SONG\tLOCAL\tSERVER\tFOUND")
	for _, c := range conflicts {
		fmt.Fprintf(w, "%s\t%s (%d)\t%s (%d)\t%s\n", c.SongID,
			c.Local.Title, c.Local.LastModified, c.Server.Title, c.Server.LastModified,
			c.Timestamp.Format(time.RFC3339))
	}
	return w.Flush()
}

func (a *App) Resolve(ctx context.Context, id string) error {
	if err := a.store.ResolveConflict(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Conflict %s marked resolved.\n", id)
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if !a.isOnline() {
		return errOffline
	}

	rep, err := a.syncService.Sync(ctx, a.config.UserID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Pushed %d (failed %d), pulled %d songs, %d favorites, %d conflicts.\n",
		rep.Pushed, rep.Failed, rep.Pulled, rep.Favorites, len(rep.Conflicts))
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	if err := a.store.ClearAllData(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Local songs, favorites and sync metadata cleared.")
	return nil
}

func (a *App) Status(ctx context.Context) error {
	count, err := a.store.GetSongCount(ctx)
	if err != nil {
		return err
	}
	pending, err := a.store.GetUnsyncedChanges(ctx)
	if err != nil {
		return err
	}
	conflicts, err := a.store.GetConflicts(ctx, true)
	if err != nil {
		return err
	}
	last, err := a.store.GetLastSyncTime(ctx)
	if err != nil {
		return err
	}

	lastSync := "never"
	if !last.IsZero() {
		lastSync = last.Local().Format(time.RFC3339)
	}

	fmt.Fprintf(a.out, "mode: %s\nuser: %s\nsongs: %d\npending changes: %d\nopen conflicts: %d\nlast sync: %s\n",
		a.Mode(), a.config.UserID, count, len(pending), len(conflicts), lastSync)
	return nil
}
