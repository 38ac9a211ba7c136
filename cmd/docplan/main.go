package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docplan"
	"github.com/fwojciec/docplan/crawl"
	"github.com/fwojciec/docplan/fs"
	"github.com/fwojciec/docplan/gemini"
	"github.com/fwojciec/docplan/goquery"
	"github.com/fwojciec/docplan/htmltomarkdown"
	dochttp "github.com/fwojciec/docplan/http"
	"github.com/fwojciec/docplan/rod"
	docslog "github.com/fwojciec/docplan/slog"
	"github.com/fwojciec/docplan/sqlite"
	"github.com/fwojciec/docplan/yaml"
	"google.golang.org/genai"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run().
	DBPath string

	// SQLite database used by the run history.
	DB *sqlite.DB

	// Browser and Fetcher are started on demand and closed by Close.
	Browser *rod.Browser
	Fetcher *dochttp.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	if m.Browser != nil {
		errs = append(errs, m.Browser.Close())
	}
	if m.Fetcher != nil {
		errs = append(errs, m.Fetcher.Close())
	}
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docplan"),
		kong.Description("Crawl documentation sites with selector-driven extraction plans."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'docplan --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	logger := newLogger(stderr, cli.Verbose)

	plans, err := loadPlans(cli.PlanFile)
	if err != nil {
		return err
	}
	deps.Plans = plans

	store := fs.NewStore(cli.Output)
	deps.Projects = store

	if cmd == "auto" || cmd == "manual" || cmd == "history" {
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set DOCPLAN_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		deps.Runs = sqlite.NewRunService(m.DB)
	}
	defer m.Close()

	if cmd == "plans" || cmd == "history" {
		return kongCtx.Run(deps)
	}

	m.Fetcher = dochttp.NewFetcher()
	var fetcher docplan.Fetcher = m.Fetcher
	if cli.Verbose {
		fetcher = docslog.NewLoggingFetcher(fetcher, logger)
	}

	var renderer docplan.Renderer
	var browser docplan.Browser
	if needsBrowser(cmd, cli, plans) {
		m.Browser, err = rod.NewBrowser(rod.WithStealth(cli.Stealth))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		renderer, browser = m.Browser, m.Browser
		if cli.Verbose {
			renderer = docslog.NewLoggingRenderer(renderer, logger)
			browser = docslog.NewLoggingBrowser(browser, logger)
		}
	}

	extractor := goquery.NewExtractor(htmltomarkdown.NewConverter())

	var planner docplan.Planner
	var comparer docplan.Comparer
	switch cmd {
	case "auto":
		planner, _, err = newPlanner(ctx, cli.Auto.Planner, cli.Model)
	case "validate":
		planner, comparer, err = newPlanner(ctx, cli.Validate.Planner, cli.Model)
	}
	if err != nil {
		return err
	}
	if cli.Verbose {
		if planner != nil {
			planner = docslog.NewLoggingPlanner(planner, logger)
		}
		if comparer != nil {
			comparer = docslog.NewLoggingComparer(comparer, logger)
		}
	}

	discoverer := goquery.NewDiscoverer()
	discoverer.StripQuery = true

	deps.Scheduler = &crawl.Scheduler{
		Fetcher:   fetcher,
		Browser:   browser,
		Extractor: extractor,
		Artifacts: store,
		Logger:    logger,
	}
	deps.Runner = &crawl.Runner{
		Renderer:   renderer,
		Fetcher:    fetcher,
		Discoverer: discoverer,
		Executor:   deps.Scheduler,
		Planner:    planner,
		Projects:   store,
		Runs:       deps.Runs,
		Logger:     logger,
	}
	deps.Validator = &crawl.Validator{
		Artifacts: store,
		Projects:  store,
		Renderer:  renderer,
		Extractor: extractor,
		Comparer:  comparer,
		Planner:   planner,
		Limiter:   crawl.NewDomainLimiter(1.0),
		Logger:    logger,
	}

	return kongCtx.Run(deps)
}

// needsBrowser reports whether cmd renders pages. A manual static plan read
// with --entry-fetch never does.
func needsBrowser(cmd string, cli *CLI, plans yaml.Plans) bool {
	switch cmd {
	case "auto", "validate":
		return true
	case "manual":
		plan, err := plans.Find(cli.Manual.Plan)
		if err != nil {
			return false
		}
		return plan.FetchStrategy == docplan.StrategyDynamic || !cli.Manual.EntryFetch
	}
	return false
}

// newPlanner selects the plan source. The Gemini planner also yields a
// comparer; the framework planner has none.
func newPlanner(ctx context.Context, kind, model string) (docplan.Planner, docplan.Comparer, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	switch kind {
	case "framework":
		return goquery.NewFrameworkPlanner(), nil, nil
	case "auto":
		if apiKey == "" {
			return goquery.NewFrameworkPlanner(), nil, nil
		}
	case "gemini":
		if apiKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}
	return gemini.NewPlanner(client.Models, gemini.WithModel(model)),
		gemini.NewComparer(client.Models, gemini.WithModel(model)),
		nil
}

// loadPlans returns the built-in manual plans merged with those in path.
func loadPlans(path string) (yaml.Plans, error) {
	plans := yaml.DefaultPlans()
	if path == "" {
		return plans, nil
	}
	extra, err := yaml.LoadPlansFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plans from %q: %w", path, err)
	}
	return plans.Merge(extra), nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func defaultDBPath() string {
	if path := os.Getenv("DOCPLAN_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "docplan.db"
	}
	dir := filepath.Join(home, ".docplan")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "docplan.db")
}
