// Command postvault captures social posts into a personal library: it runs
// the HTTP server the browser extension talks to, and offers the same
// pipeline from the command line.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/koomastudio/postvault"
	"github.com/koomastudio/postvault/bloom"
	"github.com/koomastudio/postvault/extract"
	"github.com/koomastudio/postvault/goquery"
	pvhttp "github.com/koomastudio/postvault/http"
	"github.com/koomastudio/postvault/ingest"
	"github.com/koomastudio/postvault/mem"
	"github.com/koomastudio/postvault/rod"
	pvslog "github.com/koomastudio/postvault/slog"
	"github.com/koomastudio/postvault/sqlite"
)

// Outbound fetches are paced politely per host.
const fetchRPS = 1.0

// Sizing for the duplicate-content hint filter.
const (
	bloomCapacity = 100_000
	bloomFPRate   = 0.01
)

func main() {
	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path and listen address. Set before calling Run().
	DBPath string
	Addr   string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	UserService      postvault.UserService
	PostService      postvault.PostService
	SavedPostService postvault.SavedPostService
	TokenService     postvault.TokenService

	// NewBrowserFetcher constructs the rendered-page fetcher used when a
	// command asks for --browser. Overridable in tests.
	NewBrowserFetcher func() (postvault.Fetcher, error)
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	// A missing .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	return &Main{
		DBPath: defaultDBPath(),
		Addr:   defaultAddr(),
		NewBrowserFetcher: func() (postvault.Fetcher, error) {
			f, err := rod.NewFetcher()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	logger := slog.New(slog.NewTextHandler(stderr, nil))

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Logger: logger,
		Addr:   m.Addr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("postvault"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'postvault --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Open database
	m.DB = sqlite.NewDB(m.DBPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set POSTVAULT_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
	}
	defer m.Close()

	// Wire core services into dependencies
	m.UserService = sqlite.NewUserService(m.DB)
	m.PostService = sqlite.NewPostService(m.DB)
	m.SavedPostService = sqlite.NewSavedPostService(m.DB)
	m.TokenService = sqlite.NewTokenService(m.DB)
	deps.DB = m.DB
	deps.Users = m.UserService
	deps.Posts = m.PostService
	deps.SavedPosts = m.SavedPostService
	deps.Collections = sqlite.NewCollectionService(m.DB)
	deps.Tokens = m.TokenService

	// Extraction pipeline: goquery parsing over a polite HTTP fetcher, or a
	// headless browser when the command asks for rendered pages.
	var base postvault.Fetcher = pvhttp.NewFetcher()
	if browserRequested(cmd, cli) {
		base, err = m.NewBrowserFetcher()
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
	}
	fetcher := pvslog.NewLoggingFetcher(base, logger)
	defer fetcher.Close()

	extractor := extract.New(fetcher, parseSource)
	extractor.Limiter = extract.NewHostLimiter(fetchRPS)
	deps.Extractor = pvslog.NewLoggingExtractor(extractor, logger)

	svc := ingest.NewService()
	svc.Logger = logger
	svc.TokenService = deps.Tokens
	svc.UserService = deps.Users
	svc.PostService = deps.Posts
	svc.SavedPostService = deps.SavedPosts
	svc.Extractor = deps.Extractor
	svc.Limiter = pvslog.NewLoggingRateLimiter(mem.NewRateLimiter(), logger)
	svc.Parse = parseSource
	svc.Duplicates = bloom.NewFilter(bloomCapacity, bloomFPRate)
	deps.Ingest = svc

	return kongCtx.Run(deps)
}

// browserRequested reports whether the parsed command asked for rendered-page
// fetching.
func browserRequested(cmd string, cli *CLI) bool {
	switch cmd {
	case "extract":
		return cli.Extract.Browser
	case "save":
		return cli.Save.Browser
	}
	return false
}

func parseSource(markup string) (postvault.DocumentSource, error) {
	src, err := goquery.NewSource(markup)
	if err != nil {
		return nil, err
	}
	return src, nil
}

func defaultDBPath() string {
	if path := os.Getenv("POSTVAULT_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "postvault.db"
	}
	dir := filepath.Join(home, ".postvault")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "postvault.db")
}

func defaultAddr() string {
	if addr := os.Getenv("POSTVAULT_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}
