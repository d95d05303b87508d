package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/musicmixer/api/internal/client"
	"github.com/musicmixer/api/internal/config"
	"github.com/musicmixer/api/internal/middleware"
	"github.com/musicmixer/api/internal/server"
	"github.com/musicmixer/api/internal/service"
	"github.com/musicmixer/api/internal/store"
	ws "github.com/musicmixer/api/internal/websocket"
	"github.com/musicmixer/api/internal/worker"
)

const jobTTL = 24 * time.Hour

// @title          MusicMixer API
// @version        1.0
// @description    Backend for the MusicMixer demo: mock music generation and delegated lyric writing.
// @host           localhost:3001
// @BasePath       /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	llmClient := client.NewLLMClient(&cfg.LLM)
	if cfg.Generation.IsDelegated() && !llmClient.IsConfigured() {
		log.Println("Warning: delegated mode without LLM_API_KEY, lyric requests will fail")
	}

	// Redis is only dialled when something needs it
	needRedis := cfg.History.Backend == config.HistoryRedis || cfg.Jobs.Enabled || cfg.RateLimit.GeneratePerMin > 0
	var redisClient *redis.Client
	redisUp := false
	if needRedis {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Warning: Redis not available: %v", err)
		} else {
			redisUp = true
		}
		cancel()
	}

	// Generation history
	var history service.HistoryStore
	if cfg.History.Backend == config.HistoryRedis {
		history = store.NewRedisHistory(redisClient, cfg.History.TTL, cfg.History.Capacity)
	} else {
		history = store.NewMemoryHistory(cfg.History.Capacity)
	}

	// Initialize R2 archive (optional - continues if not configured)
	var archive client.ArchiveStore
	if cfg.R2.AccessKeyID != "" && cfg.R2.SecretAccessKey != "" {
		r2Archive, err := client.NewR2Archive(&cfg.R2)
		if err != nil {
			log.Printf("Warning: R2 client not initialized: %v", err)
		} else {
			archive = r2Archive
		}
	} else {
		log.Println("Info: R2 storage not configured, generations are not archived")
	}

	// Initialize services
	generationService := service.NewGenerationService(cfg.Generation, llmClient, history, archive)
	catalogService := service.NewCatalogService()

	opts := server.Options{
		Config:     cfg,
		Generation: generationService,
		Catalog:    catalogService,
		Services: server.Services{
			LLM:     llmClient.IsConfigured(),
			Redis:   redisUp,
			Archive: archive != nil,
			Jobs:    cfg.Jobs.Enabled,
		},
	}

	if cfg.RateLimit.GeneratePerMin > 0 {
		opts.Limiter = middleware.NewRateLimiter(redisClient)
	}

	var workerServer *asynq.Server
	if cfg.Jobs.Enabled {
		redisOpt := asynq.RedisClientOpt{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}

		asynqClient := asynq.NewClient(redisOpt)
		defer asynqClient.Close()

		hub := ws.NewHub()
		go hub.Run()

		jobService := service.NewJobService(store.NewRedisJobStore(redisClient, jobTTL), asynqClient)
		opts.Jobs = jobService
		opts.Hub = hub

		workerServer = newWorkerServer(cfg, redisOpt)
		mux := asynq.NewServeMux()
		mux.HandleFunc(service.TaskTypeGenerate, worker.NewGenerationWorker(generationService, jobService, hub).ProcessTask)

		go func() {
			if err := workerServer.Run(mux); err != nil {
				log.Printf("Asynq worker error: %v", err)
			}
		}()
	}

	app := server.NewApp(opts)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		if workerServer != nil {
			workerServer.Shutdown()
		}
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// Start server
	addr := ":" + cfg.Server.Port
	log.Printf("Server starting on %s (mode: %s)", addr, generationService.Mode())
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func newWorkerServer(cfg *config.Config, redisOpt asynq.RedisClientOpt) *asynq.Server {
	asynqLogLevel := asynq.InfoLevel
	if strings.EqualFold(cfg.Server.LogLevel, "debug") {
		asynqLogLevel = asynq.DebugLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "warn") {
		asynqLogLevel = asynq.WarnLevel
	} else if strings.EqualFold(cfg.Server.LogLevel, "error") {
		asynqLogLevel = asynq.ErrorLevel
	}

	return asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Jobs.Concurrency,
		Queues: map[string]int{
			service.QueueGeneration: 1,
		},
		LogLevel: asynqLogLevel,
	})
}
