package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"unilist/feature/universities/fetcher"
	"unilist/feature/universities/listsync"
	"unilist/feature/universities/models"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const browseHelp = `commands:
  next           fetch the next page
  p <s>          expand/collapse province s
  u <s> <r>      expand/collapse university r of province s
  f <s> <r>      add/remove university r of province s to favorites
  collapse       collapse everything
  refresh        re-read favorites
  retry          clear the list and start over
  favs           show the favorites list
  fu <r>         expand/collapse favorite r
  rm <r>         remove favorite r
  quit           exit`

var errQuit = errors.New("quit")

// browseCmd runs the list view-models against the terminal.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse universities in the terminal",
	Long:  "Reads commands from stdin and prints the list after every change.\n\n" + browseHelp,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		pages, err := rt.fetcher()
		if err != nil {
			return err
		}
		favs, err := rt.favorites()
		if err != nil {
			return err
		}

		b := newBrowser(pages, favs, rt.logger, rt.cfg.List, cmd.OutOrStdout())
		return b.run(cmd.Context(), cmd.InOrStdin())
	},
}

func init() {
	RootCmd.AddCommand(browseCmd)
}

// browser wires a home and a favorites view-model to a text terminal.
type browser struct {
	home      *listsync.Home
	favorites *listsync.Favorites
	out       io.Writer
	mu        sync.Mutex
	showFavs  bool
}

func newBrowser(f fetcher.Fetcher, s listsync.FavoritesStore, logger *zap.Logger, cfg listsync.Config, out io.Writer) *browser {
	return &browser{
		home:      listsync.NewHome(f, s, logger, cfg),
		favorites: listsync.NewFavorites(s, logger, cfg),
		out:       out,
	}
}

// run starts both view-models, reads commands from in until quit or EOF
// and waits for the view-models to stop.
func (b *browser) run(ctx context.Context, in io.Reader) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(4)
	go func() { defer wg.Done(); _ = b.home.Run(ctx) }()
	go func() { defer wg.Done(); _ = b.favorites.Run(ctx) }()
	go func() { defer wg.Done(); b.print(b.home.Events(), false) }()
	go func() { defer wg.Done(); b.print(b.favorites.Events(), true) }()

	b.home.FetchNextPage()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := b.exec(scanner.Text()); err != nil {
			if errors.Is(err, errQuit) {
				break
			}
			b.printf("%v\n", err)
		}
	}

	_ = b.home.Flush(ctx)
	_ = b.favorites.Flush(ctx)
	cancel()
	wg.Wait()
	return scanner.Err()
}

// exec runs one command line.
func (b *browser) exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	args, err := atois(fields[1:])
	if err != nil {
		return err
	}

	switch cmd := fields[0]; {
	case cmd == "quit" || cmd == "q" || cmd == "exit":
		return errQuit
	case cmd == "help" || cmd == "?":
		b.printf("%s\n", browseHelp)
	case cmd == "next" || cmd == "n":
		b.home.FetchNextPage()
	case cmd == "p" && len(args) == 1:
		b.setView(false)
		b.home.ToggleProvince(args[0])
	case cmd == "u" && len(args) == 2:
		b.setView(false)
		b.home.ToggleUniversity(models.Path{Section: args[0], Row: args[1]})
	case cmd == "f" && len(args) == 2:
		b.setView(false)
		b.home.ToggleFavorite(models.Path{Section: args[0], Row: args[1]})
	case cmd == "collapse":
		if b.viewingFavorites() {
			b.favorites.CollapseAll()
		} else {
			b.home.CollapseAll()
		}
	case cmd == "refresh":
		b.setView(false)
		b.home.Refresh()
	case cmd == "retry":
		b.setView(false)
		b.home.Retry()
	case cmd == "favs":
		b.setView(true)
		b.favorites.Load()
	case cmd == "fu" && len(args) == 1:
		b.setView(true)
		b.favorites.ToggleUniversity(args[0])
	case cmd == "rm" && len(args) == 1:
		b.setView(true)
		b.favorites.RemoveFavorite(args[0])
	case cmd == "home":
		b.setView(false)
		b.home.Refresh()
	default:
		return fmt.Errorf("unknown command %q, type help", line)
	}
	return nil
}

func (b *browser) setView(favorites bool) {
	b.mu.Lock()
	b.showFavs = favorites
	b.mu.Unlock()
}

func (b *browser) viewingFavorites() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.showFavs
}

// print renders events until the channel closes. Reload events redraw the
// list they belong to when it is the one on screen.
func (b *browser) print(events <-chan listsync.Event, favorites bool) {
	for e := range events {
		b.mu.Lock()
		switch e.Kind {
		case listsync.EventShowLoading:
			fmt.Fprintln(b.out, "loading...")
		case listsync.EventHideLoading:
		case listsync.EventShowError, listsync.EventShowNotice:
			fmt.Fprintf(b.out, "%s: %s\n", e.Title, e.Message)
		default:
			if favorites == b.showFavs {
				if favorites {
					renderFavorites(b.out, b.favorites.Snapshot())
				} else {
					renderHome(b.out, b.home.Snapshot())
				}
			}
		}
		b.mu.Unlock()
	}
}

func (b *browser) printf(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fmt.Fprintf(b.out, format, args...)
}

func atois(fields []string) ([]int, error) {
	out := make([]int, len(fields))
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid index %q", f)
		}
		out[i] = n
	}
	return out, nil
}

// renderHome writes the province tree.
func renderHome(w io.Writer, s listsync.HomeState) {
	for i, p := range s.Provinces {
		marker := "+"
		if p.Expanded {
			marker = "-"
		}
		fmt.Fprintf(w, "%s [%d] %s (%d)\n", marker, i, p.Name, len(p.Universities))
		if !p.Expanded {
			continue
		}
		for j, u := range p.Universities {
			renderUniversity(w, "    ", j, u)
		}
	}
	fmt.Fprintf(w, "page %d/%d\n", s.Cursor.CurrentPage, s.Cursor.TotalPages)
}

// renderFavorites writes the favorites list.
func renderFavorites(w io.Writer, s listsync.FavoritesState) {
	if len(s.Universities) == 0 {
		fmt.Fprintln(w, "no favorites")
		return
	}
	fmt.Fprintln(w, "favorites:")
	for i, u := range s.Universities {
		renderUniversity(w, "  ", i, u)
	}
}

func renderUniversity(w io.Writer, indent string, row int, u models.University) {
	star := " "
	if u.Favorite {
		star = "*"
	}
	fmt.Fprintf(w, "%s%s [%d] %s\n", indent, star, row, u.Name)
	if !u.Expanded {
		return
	}
	for _, d := range u.Details() {
		fmt.Fprintf(w, "%s      %s: %s\n", indent, d.Category, d.Value)
	}
}
