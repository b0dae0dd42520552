package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"karaoke-browser/domain/repository"
	"karaoke-browser/infrastructure/cache"
	"karaoke-browser/infrastructure/catalog"
	youtubeclient "karaoke-browser/infrastructure/clients/youtube"
	"karaoke-browser/infrastructure/configuration"
	"karaoke-browser/infrastructure/eventbus"
	"karaoke-browser/infrastructure/logger"
	"karaoke-browser/infrastructure/natsbus"
	"karaoke-browser/infrastructure/persistence"
	"karaoke-browser/infrastructure/pubsub"
	"karaoke-browser/infrastructure/realtime"
	"karaoke-browser/infrastructure/servicebus"
	httpHandler "karaoke-browser/interfaces/http"
	"karaoke-browser/server"
	"karaoke-browser/usecase"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	configuration.Reload()

	app := configuration.C.App
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	store, cacheBackend, closeStore := InitiateCache(ctx)
	closers = append(closers, closeStore)
	resultCache := cache.NewResultCache(store, configuration.C.Cache.Prefix, configuration.C.Cache.CacheTTL())

	library, libraryBackend, closeLibrary, err := InitiateLibrary(ctx)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Library store initialization failed")
	}
	closers = append(closers, closeLibrary)

	hub := realtime.NewSessionHub()
	publisher, closeEvents := InitiateEvents(ctx, hub)
	closers = append(closers, closeEvents)

	categories, err := catalog.Load(configuration.C.Catalog.Path)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Invalid category catalog")
	}

	pool, err := usecase.NewCredentialPool(configuration.C.YouTube.APIKeys)
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("No YouTube API keys configured. Provide YOUTUBE_API_KEYS via environment.")
	}
	yt := configuration.C.YouTube
	provider, err := youtubeclient.NewYouTubeClient(ctx, &youtubeclient.Config{
		Endpoint:          yt.Endpoint,
		MaxResults:        yt.MaxResults,
		QuerySuffix:       yt.QuerySuffix,
		RequestsPerSecond: yt.RequestsPerSecond,
		Burst:             yt.Burst,
		Timeout:           yt.Timeout(),
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Fatal("Failed to initialize YouTube client")
	}

	fetcher := usecase.NewFetcher(provider, resultCache, usecase.NewRotationState(pool), publisher)
	karaokeUseCase := usecase.NewKaraokeUseCase(fetcher, categories, publisher)
	libraryUseCase := usecase.NewLibraryUseCase(library)

	logger.GetLogger().WithFields(map[string]interface{}{
		"credentials": pool.Size(),
		"cache":       cacheBackend,
		"library":     libraryBackend,
		"categories":  len(categories.List()),
	}).Info("Karaoke browser initialized")

	router := server.InitiateRouter(server.Handlers{
		Karaoke: httpHandler.NewKaraokeHandler(karaokeUseCase, hub),
		Library: httpHandler.NewLibraryHandler(libraryUseCase),
		Auth:    httpHandler.NewAuthHandler(app.SecretKey),
		Health: httpHandler.NewHealthHandler(karaokeUseCase, map[string]string{
			"cache":   cacheBackend,
			"library": libraryBackend,
		}),
	}, app.AllowedOrigins, app.SecretKey)

	// Idle session pruning
	g.Go(func() error {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				karaokeUseCase.PruneIdle(now, app.SessionIdle())
			}
		}
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           server.Instrument(router),
			ReadHeaderTimeout: 10 * time.Second,
			// SSE streams stay open, so no write timeout.
			WriteTimeout: 0,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// InitiateCache picks the key-value store behind the result cache. Any backend
// that cannot start falls back to memory.
func InitiateCache(ctx context.Context) (repository.IKeyValueStore, string, func()) {
	cfg := configuration.C.Cache
	noop := func() {}

	switch cfg.Backend {
	case "redis":
		rc := configuration.C.RedisClient
		client, err := cache.NewCache(ctx, fmt.Sprintf("%s:%s", rc.Host, rc.Port), rc.Username, rc.Password)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - falling back to memory cache")
			break
		}
		return cache.NewRedisStore(client, rc.Namespace), "redis", func() { _ = client.Close() }
	case "leveldb":
		store, err := cache.NewLevelDBStore(cfg.LevelDBPath, cfg.MaxBytes)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("LevelDB not available - falling back to memory cache")
			break
		}
		return store, "leveldb", func() { _ = store.Close() }
	case "memory":
	default:
		logger.GetLogger().WithField("backend", cfg.Backend).Warn("Unknown cache backend - using memory")
	}
	return cache.NewMemoryStore(cfg.MaxBytes), "memory", noop
}

// InitiateLibrary opens the favorites/history store. A configured server
// database that is unreachable degrades to the local SQLite file.
func InitiateLibrary(ctx context.Context) (repository.ILibrary, string, func(), error) {
	db := configuration.C.Database

	switch db.Library {
	case "postgres":
		conn, err := persistence.NewPostgreSQLDB()
		if err == nil {
			err = persistence.EnsureLibrarySchema(conn, persistence.DialectPostgres)
			if err == nil {
				return persistence.NewLibraryRepository(conn, persistence.DialectPostgres), "postgres", func() { _ = conn.Close() }, nil
			}
			_ = conn.Close()
		}
		logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - falling back to SQLite")
	case "mssql":
		conn, err := persistence.NewMSSQLDB()
		if err == nil {
			err = persistence.EnsureLibrarySchemaMSSQL(conn)
			if err == nil {
				return persistence.NewLibraryRepositoryMSSQL(conn), "mssql", func() { _ = conn.Close() }, nil
			}
			_ = conn.Close()
		}
		logger.GetLogger().WithField("error", err).Warn("MSSQL not available - falling back to SQLite")
	case "mongo":
		client, err := persistence.NewMongoDb(ctx, db.Mongo.Host, db.Mongo.Port, db.Mongo.User, db.Mongo.Password)
		if err == nil {
			repo := persistence.NewLibraryRepositoryMongo(client.Database(db.Mongo.Name))
			if err = repo.EnsureIndexes(ctx); err == nil {
				logger.GetLogger().Info("MongoDB connected successfully")
				return repo, "mongo", func() { _ = client.Disconnect(context.Background()) }, nil
			}
			_ = client.Disconnect(context.Background())
		}
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - falling back to SQLite")
	}

	conn, err := persistence.NewSQLiteDB(db.Sqlite.Path)
	if err != nil {
		return nil, "", nil, fmt.Errorf("open sqlite %s: %w", db.Sqlite.Path, err)
	}
	if err := persistence.EnsureLibrarySchema(conn, persistence.DialectSQLite); err != nil {
		_ = conn.Close()
		return nil, "", nil, err
	}
	return persistence.NewLibraryRepository(conn, persistence.DialectSQLite), "sqlite", func() { _ = conn.Close() }, nil
}

// InitiateEvents fans events out to the SSE hub plus every configured broker.
// Brokers that fail to start are skipped.
func InitiateEvents(ctx context.Context, hub *realtime.SessionHub) (repository.IEventPublisher, func()) {
	ev := configuration.C.Events
	fanout := eventbus.NewFanout(hub)
	var closers []func()

	if ev.LogEvents {
		fanout.Add(eventbus.LogPublisher{})
	}

	if ev.Pubsub.ProjectID != "" {
		client, err := pubsub.NewPubSub(ctx, ev.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without PubSub events")
		} else if p, err := pubsub.NewEventPublisher(ctx, client, ev.Pubsub.Topic); err != nil {
			logger.GetLogger().WithField("error", err).Warn("PubSub topic not available - continuing without PubSub events")
			_ = client.Close()
		} else {
			fanout.Add(p)
			closers = append(closers, func() { p.Close(); _ = client.Close() })
		}
	}

	if ev.ServiceBus.Namespace != "" {
		client, err := servicebus.NewServiceBus(ev.ServiceBus.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus events")
		} else if p, err := servicebus.NewEventPublisher(client, ev.ServiceBus.Queue); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Service Bus sender not available - continuing without Service Bus events")
			_ = client.Close(context.Background())
		} else {
			async := eventbus.NewAsync("servicebus", p, 0)
			fanout.Add(async)
			closers = append(closers, func() {
				async.Close()
				p.Close(context.Background())
				_ = client.Close(context.Background())
			})
		}
	}

	if ev.Nats.URL != "" {
		nc, err := natsbus.Connect(ev.Nats.URL)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("NATS not available - continuing without NATS events")
		} else {
			fanout.Add(natsbus.NewPublisher(nc, ev.Nats.Subject))
			closers = append(closers, nc.Close)
		}
	}

	logger.GetLogger().WithField("publishers", fanout.Len()).Info("Event publishers wired")
	return fanout, func() {
		for _, c := range closers {
			c()
		}
	}
}
