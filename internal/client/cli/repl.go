package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

const helpText = `Available commands:
  songs             list all songs
  song <id>         show one song
  count             number of stored songs
  search <title>    songs whose title starts with <title>
  lang <code>       songs in a language
  fav <id>          mark a song favorite
  unfav <id>        unmark a favorite
  favs              list favorite song ids
  queue             show the pending outbox
  conflicts         list unresolved conflicts
  resolve <id>      mark a conflict resolved
  sync              synchronize with the server
  clear             drop songs, favorites and sync metadata
  status            connection and store status
  exit | quit       leave the program`

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Songs(ctx context.Context) error
	Song(ctx context.Context, id string) error
	Count(ctx context.Context) error
	Search(ctx context.Context, prefix string) error
	Lang(ctx context.Context, code string) error
	Favorite(ctx context.Context, id string, isFavorite bool) error
	Favorites(ctx context.Context) error
	Queue(ctx context.Context) error
	Conflicts(ctx context.Context) error
	Resolve(ctx context.Context, id string) error
	Sync(ctx context.Context) error
	Clear(ctx context.Context) error
	Status(ctx context.Context) error
}

func newScanner(r io.Reader) *bufio.Scanner {
	return bufio.NewScanner(r)
}

// runREPL reads commands line by line and dispatches them to a. Command
// errors are printed and the loop continues. It returns on EOF, "exit" or
// "quit", or when ctx is done.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}

		printlnFn(fmt.Sprintf("songbook %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			printlnFn(helpText)

		case "songs", "l", "list":
			err = a.Songs(ctx)

		case "song":
			if len(args) != 1 {
				printlnFn("Usage: song <id>")
				continue
			}
			err = a.Song(ctx, args[0])

		case "count":
			err = a.Count(ctx)

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <title>")
				continue
			}
			err = a.Search(ctx, strings.Join(args, " "))

		case "lang":
			if len(args) != 1 {
				printlnFn("Usage: lang <code>")
				continue
			}
			err = a.Lang(ctx, args[0])

		case "fav", "unfav":
			if len(args) != 1 {
				printlnFn("Usage: " + cmd + " <id>")
				continue
			}
			err = a.Favorite(ctx, args[0], cmd == "fav")

		case "favs":
			err = a.Favorites(ctx)

		case "queue":
			err = a.Queue(ctx)

		case "conflicts":
			err = a.Conflicts(ctx)

		case "resolve":
			if len(args) != 1 {
				printlnFn("Usage: resolve <id>")
				continue
			}
			err = a.Resolve(ctx, args[0])

		case "sync":
			err = a.Sync(ctx)

		case "clear":
			err = a.Clear(ctx)

		case "status":
			err = a.Status(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
