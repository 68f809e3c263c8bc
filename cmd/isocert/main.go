package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/isocert"
	"github.com/fwojciec/isocert/gemini"
	"github.com/fwojciec/isocert/goquery"
	"github.com/fwojciec/isocert/htmltomarkdown"
	isohttp "github.com/fwojciec/isocert/http"
	"github.com/fwojciec/isocert/mysql"
	"github.com/fwojciec/isocert/openai"
	"github.com/fwojciec/isocert/prometheus"
	"github.com/fwojciec/isocert/readability"
	isoredis "github.com/fwojciec/isocert/redis"
	"github.com/fwojciec/isocert/rod"
	"github.com/fwojciec/isocert/scrape"
	"github.com/fwojciec/isocert/search"
	isoslog "github.com/fwojciec/isocert/slog"
	"github.com/fwojciec/isocert/sqlite"
	"github.com/fwojciec/isocert/trafilatura"
	"google.golang.org/genai"
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
	// Getenv reads environment variables. Defaults to os.Getenv.
	Getenv func(string) string

	// Config is loaded during Run.
	Config Config

	// Scrapers overrides the default scraper set when non-nil.
	Scrapers []isocert.Scraper

	// LLM overrides the configured language model when non-nil.
	LLM isocert.LLM

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{Getenv: os.Getenv}
}

// Close releases everything opened by Run, most recent first.
func (m *Main) Close() error {
	var firstErr error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

func (m *Main) onClose(fn func() error) {
	m.closers = append(m.closers, fn)
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
		kong.Name("isocert"),
		kong.Description("Look up ISO certifications of Korean companies"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'isocert --help' to see available commands")
	}
	if cmd := args[0]; cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	m.Config, err = LoadConfig(cli.Config, m.Getenv)
	if err != nil {
		return err
	}
	if cli.LogLevel != "" {
		m.Config.Log.Level = cli.LogLevel
	}
	if cli.Browser {
		m.Config.Search.Browser = true
	}
	logger := m.Config.Log.NewLogger(stderr)
	deps.Config = m.Config
	deps.Logger = logger

	defer m.Close()

	certs, cache, err := m.openStores(ctx, logger)
	if err != nil {
		return err
	}
	deps.Certifications = certs

	switch strings.Fields(kongCtx.Command())[0] {
	case "search":
		svc, err := m.searchService(ctx, certs, cache, nil, logger)
		if err != nil {
			return err
		}
		deps.Search = isoslog.NewLoggingSearchService(svc, logger)
	case "serve":
		metrics := prometheus.New()
		svc, err := m.searchService(ctx, certs, cache, metrics, logger)
		if err != nil {
			return err
		}
		deps.Search = isoslog.NewLoggingSearchService(svc, logger)
		deps.Server = isohttp.NewServer(deps.Search, metrics.Handler(), logger)
	}

	return kongCtx.Run(deps)
}

// openStores opens the relational store and the cache. A configured Redis
// replaces the relational cache table.
func (m *Main) openStores(ctx context.Context, logger *slog.Logger) (isocert.CertificationService, isocert.CacheService, error) {
	var certs isocert.CertificationService
	var cache isocert.CacheService

	switch m.Config.Database.Driver {
	case "mysql":
		db, err := mysql.Connect(ctx, m.Config.MySQLDSN())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to mysql: %w", err)
		}
		m.onClose(db.Close)
		if err := mysql.Migrate(ctx, db); err != nil {
			return nil, nil, err
		}
		certs = mysql.NewCertificationService(db)
		cache = mysql.NewCacheService(db)
	default:
		if dir := filepath.Dir(m.Config.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db := sqlite.NewDB(m.Config.Database.Path)
		if err := db.Open(); err != nil {
			return nil, nil, fmt.Errorf("failed to open database at %q (set ISOCERT_DB to change it): %w", m.Config.Database.Path, err)
		}
		m.onClose(db.Close)
		certs = sqlite.NewCertificationService(db)
		cache = sqlite.NewCacheService(db)
	}

	if m.Config.Redis.URL != "" {
		client, err := isoredis.NewClient(ctx, m.Config.Redis)
		if err != nil {
			return nil, nil, err
		}
		m.onClose(client.Close)
		cache = isoredis.NewCacheService(client)
	}

	return certs, isoslog.NewLoggingCacheService(cache, logger), nil
}

// searchService assembles the cache gate and aggregator.
func (m *Main) searchService(ctx context.Context, certs isocert.CertificationFinder, cache isocert.CacheService, metrics *prometheus.Metrics, logger *slog.Logger) (*search.Service, error) {
	sources := m.Scrapers
	if sources == nil {
		var err error
		sources, err = m.defaultScrapers(logger)
		if err != nil {
			return nil, err
		}
	}
	scrapers := make([]isocert.Scraper, len(sources))
	for i, s := range sources {
		scrapers[i] = isoslog.NewLoggingScraper(s, logger)
	}

	agg := &search.Aggregator{
		Relational: isoslog.NewLoggingCertificationFinder(certs, m.Config.Database.Driver, logger),
		Scrapers:   scrape.NewPool(logger, scrapers...),
		Timeout:    m.Config.Search.Timeout,
		Logger:     logger,
	}

	llm, err := m.newLLM(ctx)
	if err != nil {
		return nil, err
	}
	if llm != nil {
		finder := search.NewLLMFinder(isoslog.NewLoggingLLM(llm, logger))
		agg.LLM = isoslog.NewLoggingCertificationFinder(finder, "llm", logger)
	}

	svc := search.NewService(cache, agg, logger)
	svc.TTL = m.Config.Search.CacheTTL
	if metrics != nil {
		agg.Metrics = metrics
		svc.Metrics = metrics
	}
	return svc, nil
}

// defaultScrapers builds the live web sources in merge order.
func (m *Main) defaultScrapers(logger *slog.Logger) ([]isocert.Scraper, error) {
	limiter := scrape.NewDomainLimiter(m.Config.Search.RateLimit)
	wrap := func(f isocert.Fetcher) isocert.Fetcher {
		f = scrape.NewLimitedFetcher(f, limiter)
		f = scrape.NewRetryFetcher(f, scrape.DefaultRetryDelays(), logger)
		return isoslog.NewLoggingFetcher(f, logger)
	}

	httpFetcher := isohttp.NewFetcher()
	m.onClose(httpFetcher.Close)
	fetcher := wrap(httpFetcher)

	siteFetcher := fetcher
	if m.Config.Search.Browser {
		browser, err := rod.NewFetcher(rod.WithUserAgent(isohttp.DefaultUserAgent, isohttp.DefaultAcceptLanguage))
		if err != nil {
			return nil, fmt.Errorf("failed to start browser (Chrome or Chromium must be installed): %w", err)
		}
		m.onClose(browser.Close)
		siteFetcher = wrap(browser)
	}

	return []isocert.Scraper{
		goquery.NewKSAScraper(fetcher),
		isohttp.NewGoogleNewsScraper(fetcher),
		goquery.NewNaverNewsScraper(fetcher),
		goquery.NewCompanyWebsiteScraper(siteFetcher,
			goquery.WithExtractors(trafilatura.NewExtractor(), readability.NewExtractor()),
			goquery.WithConverter(htmltomarkdown.NewConverter()),
		),
		goquery.NewNaverBlogScraper(fetcher),
	}, nil
}

// newLLM returns the configured model, or nil when none is available.
func (m *Main) newLLM(ctx context.Context) (isocert.LLM, error) {
	if m.LLM != nil {
		return m.LLM, nil
	}

	switch m.Config.LLMProvider() {
	case "gemini":
		if m.Config.LLM.GeminiAPIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set. Get a key at https://aistudio.google.com/apikey")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  m.Config.LLM.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewLLM(client, m.Config.LLM.Model), nil
	case "openai":
		if m.Config.LLM.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		return openai.NewLLM(m.Config.LLM.OpenAIAPIKey, m.Config.LLM.Model), nil
	default:
		return nil, nil
	}
}
