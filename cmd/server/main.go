package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"journal-dashboard/config"
	"journal-dashboard/internal/charts"
	"journal-dashboard/internal/dashboard"
	"journal-dashboard/internal/database"
	"journal-dashboard/internal/handlers"
	"journal-dashboard/internal/middleware"
	"journal-dashboard/internal/models"
	"journal-dashboard/internal/query"
	"journal-dashboard/internal/repository"
	"journal-dashboard/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Credential storage
	store, closeStore := openStateStore(cfg)
	defer closeStore()

	// Initialize services
	api := services.NewJournalClient(cfg.APIBaseURL, cfg.HTTPTimeout)
	guard := services.NewSessionGuard(store, api)

	defaultRange, err := query.ParseRangeMode(cfg.DefaultRange)
	if err != nil {
		log.Printf("Invalid DEFAULT_RANGE %q, using 30d", cfg.DefaultRange)
		defaultRange = query.Range30d
	}
	host := dashboard.NewHost(func(session *models.Session) *dashboard.Controller {
		return dashboard.New(dashboard.Options{
			API:          api.WithToken(session.Token),
			Charts:       charts.NewMemoryLibrary(),
			Session:      session,
			PageSize:     cfg.PageSize,
			DefaultRange: defaultRange,
			DateLayout:   cfg.DateLabelLayout,
		})
	})
	services.StartAutoRefresh(ctx, cfg.AutoRefreshInterval, host.Current)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg, guard, host)
	dashboardHandler := handlers.NewDashboardHandler(host)
	entriesHandler := handlers.NewEntriesHandler(host)
	statisticsHandler := handlers.NewStatisticsHandler(host)
	searchHandler := handlers.NewSearchHandler(host)
	subscriptionHandler := handlers.NewSubscriptionHandler(host)

	// Initialize Gin
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())
	r.Use(middleware.CORS(cfg))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public routes
	public := r.Group("/api")
	{
		// Health check
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":        "ok",
				"message":       "Journal dashboard is running",
				"state_backend": cfg.StateBackend,
			})
		})

		auth := public.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
		}
	}

	// Dashboard routes
	protected := r.Group("/api")
	protected.Use(middleware.RequireSession(guard, cfg.LoginURL))
	{
		protected.GET("/dashboard", dashboardHandler.GetDashboard)
		protected.POST("/dashboard/refresh", dashboardHandler.Refresh)

		protected.GET("/entries", entriesHandler.GetEntries)
		protected.POST("/entries", entriesHandler.CreateEntry)
		protected.POST("/entries/next", entriesHandler.NextPage)
		protected.POST("/entries/prev", entriesHandler.PrevPage)
		protected.POST("/entries/filter", entriesHandler.ApplyFilter)

		protected.GET("/statistics", statisticsHandler.GetStatistics)
		protected.GET("/search", searchHandler.Search)
		protected.POST("/subscription", subscriptionHandler.ChangePlan)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Journal API: %s", cfg.APIBaseURL)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// openStateStore connects the configured credential backend.
func openStateStore(cfg *config.Config) (repository.ClientStateStore, func()) {
	switch cfg.StateBackend {
	case "mongo":
		mongodb, err := database.NewMongoDB(cfg.MongoDBURI, cfg.MongoDBDatabase, cfg.StateTTL)
		if err != nil {
			log.Fatal("Failed to connect to MongoDB:", err)
		}
		return repository.NewMongoStateRepository(mongodb.ClientState()), func() { mongodb.Disconnect() }
	case "redis":
		client, err := database.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal("Failed to connect to Redis:", err)
		}
		return repository.NewRedisStateRepository(client, cfg.StateTTL), func() { client.Close() }
	default:
		log.Printf("Storing session in %s", cfg.StateFile)
		return repository.NewFileStateRepository(cfg.StateFile), func() {}
	}
}
