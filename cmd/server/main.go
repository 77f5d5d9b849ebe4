// Campus Concierge - multi-agent student support server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/campus-concierge/internal/agent"
	"github.com/ashureev/campus-concierge/internal/api"
	"github.com/ashureev/campus-concierge/internal/config"
	"github.com/ashureev/campus-concierge/internal/jobs"
	"github.com/ashureev/campus-concierge/internal/kb"
	"github.com/ashureev/campus-concierge/internal/llm"
	"github.com/ashureev/campus-concierge/internal/memory"
	"github.com/ashureev/campus-concierge/internal/middleware"
	"github.com/ashureev/campus-concierge/internal/router"
	"github.com/ashureev/campus-concierge/internal/store"
	"github.com/ashureev/campus-concierge/internal/tools"
	"github.com/ashureev/campus-concierge/internal/transcript"
	"github.com/ashureev/campus-concierge/internal/ws"
	"github.com/ashureev/campus-concierge/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	if err := store.SeedStudents(context.Background(), repo, cfg.StudentCSV); err != nil {
		slog.Error("Failed to seed student records", "error", err)
		os.Exit(1)
	}

	// Student records are read once before serving begins; agents only
	// ever see this snapshot.
	students, err := repo.AllStudents(context.Background())
	if err != nil {
		slog.Error("Failed to load student records", "error", err)
		os.Exit(1)
	}
	slog.Info("Student records loaded", "count", len(students))

	mem, err := memory.Open(cfg.MemoryPath)
	if err != nil {
		slog.Error("Failed to open memory store", "error", err)
		os.Exit(1)
	}
	slog.Info("Memory store ready", "path", cfg.MemoryPath, "sessions", mem.SessionCount())

	// LLM client: Anthropic when a key is configured, otherwise degrade
	// to the mock. Call failures also degrade per request.
	var primary llm.Client
	if anthropicClient, err := llm.NewAnthropic(cfg.LLM.AnthropicAPIKey, cfg.LLM.Model, cfg.LLM.MaxTokens); err != nil {
		slog.Info("LLM backend disabled, mock answers only", "reason", err)
	} else {
		primary = anthropicClient
		slog.Info("LLM backend ready", "model", anthropicClient.Model())
	}
	client := llm.WithFallback(primary)

	toolset := tools.New(students, mem)
	base := kb.Default(cfg.Router.FuzzyCutoff)

	orientation := agent.NewOrientation(client, toolset, mem)
	tech := agent.NewTechSupport(client, toolset, mem)
	progress := agent.NewProgress(client, toolset, mem)
	faq := agent.NewFAQ(client, toolset, mem)

	agents := map[string]agent.Agent{
		orientation.Name(): orientation,
		tech.Name():        tech,
		progress.Name():    progress,
		faq.Name():         faq,
		// Composites are reachable only by pinning; the classifier never
		// picks them.
		"SequentialAgent": agent.NewSequential("SequentialAgent", orientation, progress),
		"ParallelAgent":   agent.NewParallel("ParallelAgent", tech, faq),
	}

	engine := router.NewEngine(agents, base, mem, router.Options{
		FuzzyCutoff:     cfg.Router.FuzzyCutoff,
		GenericMaxWords: cfg.Router.GenericMaxWords,
	})

	transcriptLog, err := transcript.New(transcript.Config{
		Enabled:       cfg.Transcript.Enabled,
		Dir:           cfg.Transcript.Dir,
		GlobalEnabled: cfg.Transcript.GlobalEnabled,
		GlobalPath:    cfg.Transcript.GlobalPath,
		QueueSize:     cfg.Transcript.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize transcript logger", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := transcriptLog.Close(); closeErr != nil {
			slog.Error("Failed to close transcript logger", "error", closeErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobManager := jobs.NewManager(ctx)
	registry := ws.NewRegistry()

	// Session TTL sweep on the loop primitive. Swept sessions also lose
	// their live chat sockets.
	sweep := jobs.NewLoop(func() bool {
		removed := mem.SweepExpired(cfg.SessionTTL)
		for _, sess := range removed {
			registry.Close(sess.Username, sess.ID)
		}
		if len(removed) > 0 {
			slog.Info("Swept expired sessions", "removed", len(removed))
		}
		return true
	}, cfg.SweepEvery)
	sweep.Start()
	defer sweep.Stop()
	slog.Info("Session sweep started", "interval", cfg.SweepEvery, "ttl", cfg.SessionTTL)

	// Initialize handlers.
	apiHandler := api.NewHandler(engine, mem, jobManager, client, transcriptLog, cfg)
	wsHandler := ws.NewHandler(engine, mem, registry, transcriptLog, cfg.IsDevelopment())

	// Setup router.
	r := chi.NewRouter()

	// Global middleware.
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/health"))
	r.Use(middleware.CORS(cfg.FrontendURL))

	apiHandler.RegisterRoutes(r)
	r.Get("/ws/chat", wsHandler.ServeHTTP)

	// Serve embedded frontend (SPA catch-all).
	r.Handle("/*", web.SPAHandler())

	// Create server.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // WebSocket connections stay open
		IdleTimeout:  120 * time.Second,
	}

	// Start server.
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}
