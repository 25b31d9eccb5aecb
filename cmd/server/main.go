package main

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/voxpoll/voxpoll-backend/internal/config"
	"github.com/voxpoll/voxpoll-backend/internal/database"
	"github.com/voxpoll/voxpoll-backend/internal/handlers"
	"github.com/voxpoll/voxpoll-backend/internal/middleware"
	"github.com/voxpoll/voxpoll-backend/internal/repository"
	"github.com/voxpoll/voxpoll-backend/internal/routes"
	"github.com/voxpoll/voxpoll-backend/internal/services"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	// Connect to PostgreSQL
	log.Printf("Connecting to PostgreSQL...")
	pg, err := database.ConnectPostgres(cfg.PostgresURI)
	if err != nil {
		log.Fatal("Failed to connect to PostgreSQL: ", err)
	}
	defer pg.Close()
	if err := database.InitPostgresTables(pg); err != nil {
		log.Fatal("Failed to initialize PostgreSQL tables: ", err)
	}

	// Connect to Redis
	log.Printf("Connecting to Redis...")
	rdb, err := database.ConnectRedis(cfg.RedisURI)
	if err != nil {
		log.Fatal("Failed to connect to Redis: ", err)
	}
	defer rdb.Close()

	// Log connection attempt (without showing password)
	log.Printf("Connecting to MongoDB...")
	if cfg.MongoURI != "" {
		log.Printf("MongoDB URI: %s", maskURI(cfg.MongoURI))
	}
	mongoClient, mongoDB, err := database.ConnectMongo(cfg.MongoURI)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer database.DisconnectMongo(mongoClient)

	collections, err := database.NewCollections(mongoDB)
	if err != nil {
		log.Fatal("Failed to resolve MongoDB collections: ", err)
	}
	if err := database.EnsureIndexes(context.Background(), collections); err != nil {
		log.Printf("⚠️  WARNING: failed to ensure MongoDB indexes: %v", err)
	} else {
		log.Println("✅ MongoDB indexes ensured")
	}

	// Repositories
	userRepo := repository.NewUserRepository(pg)
	profileRepo := repository.NewProfileRepository(pg)
	pollRepo := repository.NewPollRepository(collections)
	optionsRepo := repository.NewOptionsRepository(collections)
	actionsRepo := repository.NewUserActionsRepository(collections)
	listRepo := repository.NewPollListRepository(collections)

	// Services
	cache := services.NewCacheService(rdb)
	sessions := services.NewSessionService(rdb)
	profiles := services.NewProfileService(profileRepo, cache)
	polls := services.NewPollService(pollRepo, optionsRepo)
	actions := services.NewUserActionsService(pollRepo, optionsRepo, actionsRepo)
	lists := services.NewPollListService(listRepo, profiles, actionsRepo)
	categories := services.NewCategoryService(pollRepo, cache)

	// Cloudinary is optional; profile picture uploads 500 without it
	var cloudinary *services.CloudinaryService
	if cfg.CloudinaryName != "" && cfg.CloudinaryAPIKey != "" && cfg.CloudinaryAPISecret != "" {
		cloudinary, err = services.NewCloudinaryService(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
		if err != nil {
			log.Printf("Warning: Failed to initialize Cloudinary: %v", err)
			cloudinary = nil
		} else {
			log.Println("✅ Cloudinary service initialized")
		}
	} else {
		log.Println("Warning: Cloudinary credentials not found. File uploads will not be available")
	}

	// Setup router
	r := chi.NewRouter()

	// Custom CORS: set headers and respond to OPTIONS with 200 so preflight never gets 403
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Production: SecurityHeaders → HostCheck → GlobalRateLimit → LoginRateLimit
	// Non-production: Redis-based rate limit only
	if cfg.IsProduction() {
		for _, mw := range middleware.ProductionSecurity(cfg.AllowedHost) {
			r.Use(mw)
		}
		log.Println("✅ Production security enabled (security headers, per-IP + login rate limiting)")
	} else {
		r.Use(middleware.RateLimit(rdb))
	}

	// Health check (no auth)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, routes.Handlers{
		Auth:       handlers.NewAuthHandler(userRepo, profiles, sessions),
		Polls:      handlers.NewPollHandler(polls, lists, userRepo),
		Options:    handlers.NewOptionsHandler(polls, userRepo),
		Actions:    handlers.NewActionsHandler(actions),
		Profiles:   handlers.NewProfileHandler(profiles, cloudinary),
		Categories: handlers.NewCategoryHandler(categories),
	}, sessions)

	log.Printf("🚀 VoxPoll backend running on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

// maskURI hides the password portion of a connection URI for logging.
func maskURI(uri string) string {
	if !strings.Contains(uri, "@") {
		return uri
	}
	parts := strings.SplitN(uri, "@", 2)
	if idx := strings.LastIndex(parts[0], ":"); idx > strings.Index(parts[0], "//")+1 {
		return parts[0][:idx] + ":***@" + parts[1]
	}
	return uri
}
