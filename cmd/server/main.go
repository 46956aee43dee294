package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"petshop_back_end/internal/cache"
	"petshop_back_end/internal/config"
	"petshop_back_end/internal/database"
	"petshop_back_end/internal/events"
	"petshop_back_end/internal/repository"
	"petshop_back_end/internal/routes"
	"petshop_back_end/internal/services"
	"petshop_back_end/internal/utils"
)

func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Store initialisation failed: %v", err)
	}

	rdb := database.ConnectRedis(ctx, cfg)
	redisClient := cache.FromRedis(rdb)
	store.Products = cache.NewCachedProductRepository(store.Products, redisClient)

	deps := services.Deps{Store: store}

	// Idempotency keys fall back to process memory so retries still dedupe on one instance.
	if redisClient != nil {
		deps.Idempotency = cache.NewIdempotencyStore(redisClient)
		deps.Carts = cache.NewCartPublisher(redisClient)
	} else {
		deps.Idempotency = cache.NewIdempotencyStore(cache.NewMemoryClient())
	}

	if es := database.ConnectElastic(cfg); es != nil {
		index := services.NewElasticIndex(es)
		if err := index.EnsureIndex(ctx); err != nil {
			log.Printf("⚠️ Elasticsearch index setup failed, search uses the catalog scan: %v", err)
		} else {
			deps.Search = index
		}
	}

	if mc := database.ConnectMinIO(ctx, cfg); mc != nil {
		deps.Images = services.NewMinioImageStore(mc, cfg)
	}

	if cfg.AMQPURL != "" {
		publisher, err := events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			log.Printf("⚠️ RabbitMQ unavailable, order events are dropped: %v", err)
		} else {
			deps.Events = publisher
		}
	}

	if mailer := utils.NewMailer(cfg); mailer != nil {
		deps.Mailer = mailer
	}

	svc := services.New(deps)
	if cfg.ReconcileInterval > 0 {
		go svc.Reconciler.Run(ctx, cfg.ReconcileInterval)
	}

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Dependencies{Config: cfg, Services: svc, Redis: rdb})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Println("🚀 Pet shop API listening on port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ HTTP shutdown: %v", err)
	}
	if deps.Events != nil {
		if err := deps.Events.Close(); err != nil {
			log.Printf("⚠️ RabbitMQ close: %v", err)
		}
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Printf("⚠️ Store close: %v", err)
	}
	log.Println("🔌 Bye")
}

// openStore picks the document store from STORE_BACKEND.
func openStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.StoreBackend {
	case "memory":
		log.Println("⚠️ Using the in-memory store, data is lost on restart")
		return repository.NewMemoryStore(), nil
	case "scylla":
		manager := database.NewScyllaManager(cfg)
		if err := manager.EnsureSchema(repository.ScyllaSchema); err != nil {
			return nil, err
		}
		session, err := manager.Session()
		if err != nil {
			return nil, err
		}
		store := repository.NewScyllaStore(session)
		store.Close = func(context.Context) error {
			manager.Close()
			return nil
		}
		return store, nil
	default:
		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		client, db, err := database.ConnectMongo(connectCtx, cfg)
		if err != nil {
			return nil, err
		}
		return repository.NewMongoStore(connectCtx, client, db)
	}
}
