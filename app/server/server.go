package server

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"faqbot/app/api"
	"faqbot/batch"
	"faqbot/centers"
	"faqbot/config"
	"faqbot/corpus"
	"faqbot/dataapi"
	"faqbot/events"
	"faqbot/index"
	"faqbot/metrics"
	"faqbot/model"
	"faqbot/notify"
	"faqbot/predefined"
	"faqbot/resolver"
	"faqbot/retriever"
	"faqbot/runstore"
	"faqbot/scrape"
	"faqbot/store"
)

type Server struct {
	cfg *config.Config
	log *zap.Logger
	app *fiber.App
}

func NewServer(cfg *config.Config, log *zap.Logger) *Server {
	return &Server{cfg: cfg, log: log}
}

func (s *Server) Stop() {
	if s.app != nil {
		if err := s.app.Shutdown(); err != nil {
			s.log.Error("shutdown failed", zap.Error(err))
		}
	}
	s.log.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()
	cfg := s.cfg

	// Postgres is optional: without it the roster endpoints are disabled
	// and the index falls back to the file-backed variant.
	var pg *store.PostgresStore
	if cfg.PostgresDSN != "" {
		var err error
		pg, err = store.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			s.log.Fatal("could not connect to Postgres", zap.Error(err))
		}
		if err := pg.Init(ctx); err != nil {
			s.log.Fatal("could not create tables", zap.Error(err))
		}
	}

	embedder := model.NewHTTPEmbedder(cfg.EmbeddingURL, cfg.EmbeddingModel, "")
	entries := corpus.Entries()

	var idx index.Index
	if cfg.IndexBackend == "pgvector" {
		probe, err := embedder.Embed(ctx, entries[0].Question)
		if err != nil {
			s.log.Fatal("could not probe embedding dimension", zap.Error(err))
		}
		pgIdx, err := index.NewPgIndex(ctx, pg.Pool(), len(probe))
		if err != nil {
			s.log.Fatal("could not init pgvector index", zap.Error(err))
		}
		if err := retriever.BuildOrLoadPg(ctx, embedder, entries, pgIdx, s.log); err != nil {
			s.log.Fatal("could not build pgvector index", zap.Error(err))
		}
		idx = pgIdx
	} else {
		memIdx, err := retriever.BuildOrLoadMemory(ctx, embedder, entries, cfg.IndexPath, s.log)
		if err != nil {
			s.log.Fatal("could not build index", zap.Error(err))
		}
		idx = memIdx
	}

	ret := retriever.New(embedder, idx, entries, cfg.SimilarityThreshold, s.log)
	matcher := predefined.NewMatcher(predefined.Entries)

	llm := model.NewClient(model.ClientOpts{
		URL:         cfg.LLMURL,
		APIKey:      cfg.LLMKey,
		Model:       cfg.LLMModel,
		Timeout:     cfg.LLMTimeout,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
	}, s.log)

	var apiClient *dataapi.Client
	var engine *dataapi.Engine
	if cfg.DataAPIBaseURL != "" {
		apiClient = dataapi.NewClient(cfg.DataAPIBaseURL, cfg.DataAPIKey, cfg.DataAPITimeout, s.log)
		engine = dataapi.NewEngine(apiClient, s.log)
	}

	var fetcher *scrape.Fetcher
	if cfg.ScrapeBaseURL != "" {
		fetcher = scrape.NewFetcher(cfg.ScrapeBaseURL, cfg.ScrapeURLPattern)
	}

	res := newResolver(matcher, ret, apiClient, engine, fetcher, llm, s.log)

	csvGen := events.NewGenerator(cfg.CSVDir)
	discoverer := events.NewDiscoverer(llm, csvGen, s.log)

	var runs runstore.Store
	if cfg.RunStoreKind == "redis" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			s.log.Fatal("could not connect to Redis", zap.Error(err))
		}
		runs = runstore.NewRedisStore(client)
	} else {
		runs = runstore.NewMemoryStore()
	}

	var notifier batch.Notifier
	if cfg.SESSender != "" {
		mailer, err := notify.NewMailer(ctx, cfg.SESRegion, cfg.SESSender, s.log)
		if err != nil {
			s.log.Warn("mailer disabled", zap.Error(err))
		} else {
			notifier = mailer
		}
	}

	coordinator := batch.NewCoordinator(runs, discoverer, notifier, cfg.MaxConcurrent, s.log)

	var roster *centers.Service
	if pg != nil && apiClient != nil && cfg.SlugAPIURL != "" {
		roster = centers.NewService(cfg.SlugAPIURL, apiClient, pg, s.log)
	}

	go func() {
		if err := metrics.Serve(cfg.MetricsAddr); err != nil {
			s.log.Error("metrics listener failed", zap.Error(err))
		}
	}()

	var (
		app = fiber.New(fiber.Config{
			ErrorHandler: api.ErrorHandler(s.log),
		})
		checkHandler  = api.NewCheckHandler()
		faqHandler    = api.NewFAQHandler(res, s.log)
		eventsHandler = api.NewEventsHandler(discoverer, coordinator, roster, s.log)
		check         = app.Group("/check")
		ev            = app.Group("/events")
		cron          = app.Group("/cron")
	)
	s.app = app

	check.Get("/healthy", checkHandler.HandleHealthy)
	app.Post("/faq", faqHandler.HandleFAQ)
	ev.Post("/discover", eventsHandler.HandleDiscover)
	ev.Post("/batch", eventsHandler.HandleBatch)
	ev.Get("/status/:run_id", eventsHandler.HandleStatus)
	cron.Post("/sync-centers", eventsHandler.HandleSyncCenters)
	cron.Post("/run-batch", eventsHandler.HandleRunBatch)
	cron.Post("/sync-and-run", eventsHandler.HandleSyncAndRun)

	if err := app.Listen(cfg.ListenAddr); err != nil {
		s.log.Error("could not start server", zap.Error(err))
	}
}

// newResolver adapts optional dependencies to the resolver's interfaces,
// passing typed nils through as untyped ones.
func newResolver(
	matcher *predefined.Matcher,
	ret *retriever.Retriever,
	apiClient *dataapi.Client,
	engine *dataapi.Engine,
	fetcher *scrape.Fetcher,
	llm *model.Client,
	log *zap.Logger,
) *resolver.Resolver {
	var facilities resolver.FacilityClient
	if apiClient != nil {
		facilities = apiClient
	}
	var data resolver.DataEngine
	if engine != nil {
		data = engine
	}
	var pages resolver.PageFetcher
	if fetcher != nil {
		pages = fetcher
	}
	return resolver.New(matcher, ret, facilities, data, pages, llm, log)
}
