package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"virtual-bookclub/backend/internal/app"
	"virtual-bookclub/backend/internal/catalog"
	"virtual-bookclub/backend/internal/config"
	"virtual-bookclub/backend/internal/logger"
	"virtual-bookclub/backend/internal/model"
	"virtual-bookclub/backend/internal/present"
	"virtual-bookclub/backend/internal/search"
)

const historyFile = ".bookclub_history"

const usage = `Commands:
  genre <genre> [n]     books in a genre, e.g. "genre mystery 3"
  author <name> [n]     books by an author
  title <title> [n]     books with a matching title
  genres                list the genres
  help                  show this help
  exit                  quit`

func main() {
	mode := flag.String("mode", "", "search mode: genre, author or title (omit for interactive mode)")
	text := flag.String("q", "", "query text")
	limit := flag.Int("n", 0, "number of books (default from config)")
	width := flag.Int("width", present.DefaultWidth, "wrap output at this width")
	offline := flag.Bool("offline", false, "use the bundled catalog instead of Open Library")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger.Configure(cfg.Env, cfg.Debug)
	if *offline {
		cfg.Catalog.Provider = config.CatalogStatic
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "startup:", err)
		os.Exit(1)
	}

	defaultLimit := cfg.Search.DefaultResults
	if *limit > 0 {
		defaultLimit = *limit
	}

	if *mode != "" || *text != "" {
		m, _ := model.ParseMode(*mode)
		q := model.SearchQuery{Mode: m, Text: *text, Limit: defaultLimit}
		if err := run(ctx, a, q, os.Stdout, *width); err != nil {
			os.Exit(1)
		}
		return
	}

	interactive(ctx, a, defaultLimit, *width)
}

func interactive(ctx context.Context, a *app.App, defaultLimit, width int) {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)
	line.SetCompleter(complete)

	historyPath := filepath.Join(os.TempDir(), historyFile)
	if home, err := os.UserHomeDir(); err == nil {
		historyPath = filepath.Join(home, historyFile)
	}
	if f, err := os.Open(historyPath); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyPath); err == nil {
			_, _ = line.WriteHistory(f)
			f.Close()
		}
	}()

	fmt.Printf("Virtual Book Club (%s catalog). Type \"help\" for commands.\n", a.Catalog.Name())
	for {
		input, err := line.Prompt("bookclub> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return
			}
			fmt.Fprintln(os.Stderr, "read:", err)
			return
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)

		switch strings.ToLower(input) {
		case "exit", "quit":
			return
		case "help":
			fmt.Println(usage)
			continue
		case "genres":
			fmt.Println(strings.Join(catalog.Genres, ", "))
			continue
		}

		q, err := parseCommand(input, defaultLimit)
		if err != nil {
			fmt.Println(err)
			continue
		}
		_ = run(ctx, a, q, os.Stdout, width)
	}
}

// run executes one search and prints it. Errors are printed as user messages.
func run(ctx context.Context, a *app.App, q model.SearchQuery, w io.Writer, width int) error {
	results, err := a.Search.Search(ctx, "cli", q)
	if err != nil {
		var verr *search.ValidationError
		switch {
		case errors.As(err, &verr):
			for field, msg := range verr.Fields {
				fmt.Fprintf(w, "%s %s\n", field, msg)
			}
		case catalog.IsUnavailable(err):
			fmt.Fprintln(w, present.MsgSearchUnavailable)
		default:
			fmt.Fprintln(w, "search failed:", err)
		}
		return err
	}
	return present.RenderText(w, a.Presenter.Build(results), width)
}

// parseCommand reads "<mode> <text> [n]"
func parseCommand(input string, defaultLimit int) (model.SearchQuery, error) {
	fields := strings.Fields(input)
	if len(fields) < 2 {
		return model.SearchQuery{}, fmt.Errorf("expected \"<mode> <text> [n]\", type \"help\"")
	}

	mode, ok := model.ParseMode(fields[0])
	if !ok {
		return model.SearchQuery{}, fmt.Errorf("unknown mode %q: use genre, author or title", fields[0])
	}

	q := model.SearchQuery{Mode: mode, Limit: defaultLimit}
	rest := fields[1:]
	if len(rest) > 1 {
		if n, err := strconv.Atoi(rest[len(rest)-1]); err == nil {
			q.Limit = n
			rest = rest[:len(rest)-1]
		}
	}
	q.Text = strings.Join(rest, " ")
	return q, nil
}

func complete(input string) []string {
	var out []string
	lower := strings.ToLower(input)
	for _, m := range model.Modes {
		if strings.HasPrefix(string(m), lower) {
			out = append(out, string(m)+" ")
		}
	}
	if strings.HasPrefix(lower, "genre ") {
		prefix := strings.TrimPrefix(lower, "genre ")
		for _, g := range catalog.Genres {
			if strings.HasPrefix(strings.ToLower(g), prefix) {
				out = append(out, "genre "+g)
			}
		}
	}
	return out
}
