package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "sharedledger/docs"
	"sharedledger/internal/config"
	"sharedledger/internal/events/kafka"
	"sharedledger/internal/identity"
	"sharedledger/internal/ledger"
	"sharedledger/internal/presets"
	"sharedledger/internal/remote"
	"sharedledger/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var (
	local            *store.Local
	registry         *presets.Registry
	engine           *ledger.Engine
	refresher        *ledger.Refresher
	directory        *identity.Directory
	writeReloadDelay time.Duration
	nowFunc          = func() time.Time { return time.Now().UTC() }
)

// @title Shared Ledger API
// @version 1.0
// @description Running account between a service provider and a client: costs, payments, presets and a PDF statement.
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	kv, closeStore, err := openStore(cfg)
	if err != nil {
		log.Fatal("Failed to open store: ", err)
	}
	defer closeStore()

	local = store.NewLocal(kv)
	if err := local.SeedSyncURL(context.Background(), cfg.SyncURL); err != nil {
		log.Printf("Error seeding sync url: %v", err)
	}

	remoteClient := remote.NewClient(local, nil)
	mirrors := remote.Fanout{remoteClient}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer publisher.Close()
		mirrors = append(mirrors, publisher)
		log.Printf("Mirroring changes to Kafka topic %s", cfg.KafkaTopic)
	}

	directory = cfg.Directory()
	registry = presets.New(local)
	engine = ledger.New(local, remoteClient, mirrors, registry)
	writeReloadDelay = cfg.WriteReloadDelay

	refresher = ledger.NewRefresher(engine, cfg.RefreshInterval)
	if snap, _, err := refresher.Refresh(context.Background()); err == nil {
		log.Printf("Loaded %d costs and %d payments from %s data", len(snap.Costs), len(snap.Payments), snap.Source)
	}
	refresher.Start()
	defer refresher.Stop()

	r := gin.Default()

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Content-Length", "Accept-Encoding", "Authorization", roleHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
	}))

	registerRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
}

// registerRoutes mounts every API route on r
func registerRoutes(r *gin.Engine) {
	r.POST("/api/session", createSession)
	r.GET("/api/ledger", getLedger)
	r.POST("/api/sync", syncLedger)
	r.POST("/api/costs", createCost)
	r.POST("/api/payments", createPayment)
	r.DELETE("/api/entries/:kind/:id", deleteEntry)
	r.GET("/api/summary", getSummary)
	r.GET("/api/presets", getPresets)
	r.POST("/api/presets", createPreset)
	r.PUT("/api/presets/:id", updatePreset)
	r.DELETE("/api/presets/:id", deletePreset)
	r.GET("/api/settings/sync-url", getSyncURL)
	r.PUT("/api/settings/sync-url", updateSyncURL)
	r.GET("/api/statement.pdf", exportStatement)
}

// openStore opens the configured key-value backend and returns its closer
func openStore(cfg *config.Config) (store.KV, func(), error) {
	if cfg.Store == config.StoreFile {
		kv, err := store.NewFileKV(cfg.DataPath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("Using file store at %s", cfg.DataPath)
		return kv, func() {}, nil
	}

	if err := migrateDatabase(cfg); err != nil {
		return nil, nil, err
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL())
	if err != nil {
		return nil, nil, fmt.Errorf("create connection pool: %w", err)
	}
	log.Println("Using postgres store")
	return store.NewPostgresKV(pool), pool.Close, nil
}

// migrateDatabase waits for the database and brings the schema up to date
func migrateDatabase(cfg *config.Config) error {
	var db *sql.DB
	var err error

	// Connect to database with retry logic
	maxRetries := 30
	retryInterval := time.Second * 2

	for i := 0; i < maxRetries; i++ {
		db, err = sql.Open("postgres", cfg.DatabaseURL())
		if err != nil {
			log.Printf("Attempt %d: Error opening database: %v", i+1, err)
			time.Sleep(retryInterval)
			continue
		}

		if err = db.Ping(); err != nil {
			log.Printf("Attempt %d: Error connecting to database: %v", i+1, err)
			db.Close()
			time.Sleep(retryInterval)
			continue
		}

		log.Println("Successfully connected to database")
		break
	}
	if err != nil {
		return fmt.Errorf("connect after %d attempts: %w", maxRetries, err)
	}
	defer db.Close()

	if _, err := os.Stat(cfg.MigrationsPath); os.IsNotExist(err) {
		log.Printf("Migrations directory not found at %s, skipping migrations", cfg.MigrationsPath)
		return nil
	}

	log.Println("Running database migrations...")
	if err := runMigrations(db, cfg.MigrationsPath); err != nil {
		return err
	}

	if version, dirty, err := getMigrationVersion(db, cfg.MigrationsPath); err == nil {
		if dirty {
			log.Printf("Current migration version: %d (DIRTY - migration failed)", version)
		} else {
			log.Printf("Current migration version: %d", version)
		}
	}
	log.Println("Database migrations completed successfully")
	return nil
}
