package cli

import (
	"log/slog"

	"github.com/colthorp/wikifreq/internal/analysis"
	"github.com/colthorp/wikifreq/internal/api"
	"github.com/colthorp/wikifreq/internal/cache"
	"github.com/colthorp/wikifreq/internal/config"
	"github.com/colthorp/wikifreq/internal/logging"
	"github.com/colthorp/wikifreq/internal/text"
)

// app holds the dependencies shared by every command.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	store   *cache.Store
	manager *cache.Manager
}

// appOptions are per-command overrides of the loaded config.
type appOptions struct {
	quiet    bool
	parallel int // 0 keeps the configured value
}

// newApp loads config from the global flags and wires the pipeline:
// HTTP client, wiki queries, analyzer and the cache in front of it.
func newApp(opts appOptions) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if opts.parallel > 0 {
		cfg.Parallel = opts.parallel
	}

	logger := logging.New(logging.Options{Verbose: verbose})

	client := api.NewClient(api.ClientOptions{
		BaseURL:   cfg.APIURL,
		UserAgent: cfg.ResolvedUserAgent(),
		Timeout:   cfg.TimeoutDuration(),
		Retries:   cfg.Retries,
		Logger:    logger,
	})
	return assemble(cfg, client, cache.NewFilesystemBackend(cfg.ResolvedCacheDir(), logger), logger, opts.quiet)
}

// assemble builds an app over the given transport and cache backend.
func assemble(cfg *config.Config, transport api.Transport, backend cache.Backend, logger *slog.Logger, quiet bool) (*app, error) {
	stopWords, err := loadStopWords(cfg)
	if err != nil {
		return nil, err
	}

	wiki := api.NewWikiAPI(transport, logger)
	analyzer := analysis.NewAnalyzer(wiki, text.NewNormalizer(stopWords), analysis.Options{
		Parallel: cfg.GetParallel(),
		Logger:   logger,
		Quiet:    quiet,
	})
	store := cache.NewStore(backend, cache.WithExpiry(cfg.ExpiryDuration()), cache.WithLogger(logger))

	return &app{
		cfg:     cfg,
		logger:  logger,
		store:   store,
		manager: cache.NewManager(analyzer, store, logger, quiet),
	}, nil
}

func loadStopWords(cfg *config.Config) (text.StopWords, error) {
	if cfg.StopWordsFile == "" {
		return text.EnglishStopWords(), nil
	}
	return text.LoadStopWordsFile(cfg.StopWordsFile)
}

// openStore builds just the cache store, for commands that never fetch.
func openStore() (*cache.Store, string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, "", err
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	logger := logging.New(logging.Options{Verbose: verbose})
	root := cfg.ResolvedCacheDir()
	backend := cache.NewFilesystemBackend(root, logger)
	return cache.NewStore(backend, cache.WithExpiry(cfg.ExpiryDuration()), cache.WithLogger(logger)), root, nil
}
