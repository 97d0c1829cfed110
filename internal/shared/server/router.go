package server

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tailorcv-backend/internal/bio"
	"tailorcv-backend/internal/extract"
	"tailorcv-backend/internal/generation"
	"tailorcv-backend/internal/jobposts"
	"tailorcv-backend/internal/llm"
	"tailorcv-backend/internal/llm/gemini"
	"tailorcv-backend/internal/onboarding"
	"tailorcv-backend/internal/resumes"
	"tailorcv-backend/internal/shared/cache"
	"tailorcv-backend/internal/shared/config"
	"tailorcv-backend/internal/shared/server/middleware"
	"tailorcv-backend/internal/shared/server/respond"
	"tailorcv-backend/internal/shared/storage/db"
	"tailorcv-backend/internal/users"
)

// NewRouter constructs the gin engine with middleware, dependencies, and
// routes registered. Missing external services degrade to in-memory
// fallbacks so the API stays runnable in dev.
func NewRouter(cfg config.Config) *gin.Engine {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(),
	)

	// Storage
	var sqlDB *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err := db.Connect(context.Background(), cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
		if err != nil {
			log.Printf("failed to connect database, falling back to memory: %v", err)
		} else if err := db.RunMigrations(context.Background(), conn); err != nil {
			log.Printf("failed to run migrations, falling back to memory: %v", err)
		} else {
			sqlDB = conn
		}
	}

	// Cache for the onboarding gate
	var store cache.Store
	if cfg.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Printf("failed to connect redis, falling back to memory cache: %v", err)
			store = cache.NewMemoryStore(nil)
		} else {
			store = redisStore
		}
	} else {
		store = cache.NewMemoryStore(nil)
	}

	// Generative model
	var model llm.Client
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.New(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout)
		if err != nil {
			log.Printf("failed to configure gemini client: %v", err)
			model = llm.PlaceholderClient{}
		} else {
			model = client
		}
	} else {
		log.Printf("no Gemini API key configured; model calls will fail")
		model = llm.PlaceholderClient{}
	}

	// Repositories
	var userRepo users.Repo
	var resumeRepo resumes.Repo
	var bioRepo bio.Repo
	var jobPostRepo jobposts.Repo
	if sqlDB != nil {
		userRepo = &users.PGRepo{DB: sqlDB}
		resumeRepo = &resumes.PGRepo{DB: sqlDB}
		bioRepo = &bio.PGRepo{DB: sqlDB}
		jobPostRepo = &jobposts.PGRepo{DB: sqlDB}
	} else {
		userRepo = users.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		bioRepo = bio.NewMemoryRepo()
		jobPostRepo = jobposts.NewMemoryRepo()
	}

	// Services
	resumeSvc := resumes.NewService(resumeRepo)
	bioSvc := bio.NewService(bioRepo)
	jobPostSvc := jobposts.NewService(jobPostRepo)
	extractor := &extract.Extractor{
		DocToolPath:    cfg.DocToolPath,
		DocToolTimeout: cfg.DocToolTimeout,
	}
	gate := onboarding.NewGate(store)
	onboardingSvc := &onboarding.Service{
		Extractor: extractor,
		Model:     model,
		Resumes:   resumeSvc,
		Users:     userRepo,
		Bios:      bioSvc,
	}
	generationSvc := &generation.Service{
		Model:    model,
		Resumes:  resumeSvc,
		Bios:     bioSvc,
		JobPosts: jobPostSvc,
	}

	// Handlers
	onboardingHandler := onboarding.NewHandler(gate, onboardingSvc)
	generationHandler := generation.NewHandler(generationSvc)
	resumeHandler := resumes.NewHandler(resumeSvc)
	bioHandler := bio.NewHandler(bioSvc)
	jobPostHandler := jobposts.NewHandler(jobPostSvc)
	userHandler := users.NewHandler(userRepo)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true, "db": sqlDB != nil})
	})

	rateLimit := middleware.RateLimit(middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"GENERATE": {Rate: 0.2, Burst: 3},
		},
		GroupFor: func(c *gin.Context) string {
			if c.FullPath() == "/api/v1/generate/" {
				return "GENERATE"
			}
			return ""
		},
	})

	api := r.Group("/api/v1")

	onboardingHandler.RegisterRoutes(api.Group("/onboard"), middleware.RequireAuth())

	generate := api.Group("/generate", middleware.RequireAuth(), rateLimit)
	generationHandler.RegisterRoutes(generate)

	authed := api.Group("", middleware.RequireAuth())
	userHandler.RegisterRoutes(authed)
	resumeHandler.RegisterRoutes(authed.Group("/resumes"))
	bioHandler.RegisterRoutes(authed.Group("/bio"))
	jobPostHandler.RegisterRoutes(authed.Group("/job-posts"))

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
