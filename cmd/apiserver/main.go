package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	redisDriver "github.com/redis/go-redis/v9"

	"secretmsg/internal/config"
	"secretmsg/internal/confirm"
	"secretmsg/internal/handlers/apiserver"
	appKafka "secretmsg/internal/kafka"
	"secretmsg/internal/middleware"
	appRedis "secretmsg/internal/redis"
	"secretmsg/internal/services"
	"secretmsg/internal/storage"
)

func main() {
	// 1. Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	log.Println("API server configuration loaded.")

	// 2. Initialize database connection
	db, err := storage.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	log.Println("API server database connected.")

	if err := storage.AutoMigrateTables(db); err != nil {
		log.Printf("warning: database migration may have failed: %v", err)
	}

	// 3. Initialize Redis client and token blacklist
	redisClient := redisDriver.NewClient(&redisDriver.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("failed to connect to Redis: %v", err)
	}
	log.Println("Connected to Redis.")

	tokenBlacklist := appRedis.NewRedisTokenBlacklist(redisClient)

	// 4. Initialize repositories
	userRepo := storage.NewGormUserRepository(db)
	profileRepo := storage.NewGormProfileRepository(db)
	messageRepo := storage.NewGormMessageRepository(db)
	requestRepo := storage.NewGormFriendRequestRepository(db)
	ownedCollections := storage.OwnedTables(db, cfg.Account.OwnedTables)

	// 5. Initialize Kafka producer (optional notification events)
	var producer appKafka.MessageProducer
	if cfg.Kafka.Enabled {
		producer, err = appKafka.NewConfluentKafkaProducer(cfg.Kafka)
		if err != nil {
			log.Fatalf("failed to create Kafka producer: %v", err)
		}
		defer producer.Close()
		log.Println("Kafka producer initialized.")
	} else {
		log.Println("Kafka eventing disabled; friend activity events will not be published.")
	}

	// 6. Initialize services
	editor := services.NewEditor()
	authService := services.NewAuthService(userRepo, profileRepo, cfg)
	messageService := services.NewMessageService(messageRepo, requestRepo, editor)
	friendService := services.NewFriendService(profileRepo, requestRepo, producer, cfg.Kafka)
	accountService := services.NewAccountService(ownedCollections, requestRepo, profileRepo, userRepo, tokenBlacklist)

	// 7. Initialize handlers
	authHandler := apiserver.NewAuthHandler(authService)
	messageHandler := apiserver.NewMessageHandler(messageService)
	socialHandler := apiserver.NewSocialHandler(friendService)
	confirmHandler := apiserver.NewConfirmHandler(confirm.NewRegistry(), messageService, accountService, tokenBlacklist)

	// 8. Set up HTTP routes
	r := mux.NewRouter()
	r.Use(middleware.RequestTimeout(cfg.APIServer.RequestTimeout))

	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.HandleFunc("/register", authHandler.Register).Methods(http.MethodPost)
	authRouter.HandleFunc("/login", authHandler.Login).Methods(http.MethodPost)

	authMW := middleware.AuthMiddleware(cfg.Auth.JWTSecretKey, tokenBlacklist)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(authMW)

	// Dashboard
	apiRouter.HandleFunc("/users/me", authHandler.MeHandler).Methods(http.MethodGet)

	// Secret messages
	apiRouter.HandleFunc("/messages", messageHandler.ListMineHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/messages", messageHandler.SaveHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/messages/edit/cancel", messageHandler.CancelEditHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/messages/{messageID:[0-9]+}/edit", messageHandler.StartEditHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/users/{ownerID:[0-9]+}/messages", messageHandler.ViewFriendHandler).Methods(http.MethodGet)

	// Friend graph
	apiRouter.HandleFunc("/social/overview", socialHandler.OverviewHandler).Methods(http.MethodGet)
	apiRouter.HandleFunc("/friend-requests", socialHandler.SendRequestHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/friend-requests/{requestID:[0-9]+}/accept", socialHandler.ResolveRequestHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/friend-requests/{requestID:[0-9]+}", socialHandler.WithdrawRequestHandler).Methods(http.MethodDelete)

	// Destructive actions behind the two-phase confirmation flow
	apiRouter.HandleFunc("/actions", confirmHandler.RequestHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/actions/confirm", confirmHandler.ConfirmActionHandler).Methods(http.MethodPost)
	apiRouter.HandleFunc("/actions/decline", confirmHandler.DeclineHandler).Methods(http.MethodPost)

	// 9. CORS and server startup with graceful shutdown
	corsOptions := []handlers.CORSOption{
		handlers.AllowedOrigins(cfg.APIServer.CORS.AllowedOrigins),
		handlers.AllowedMethods(cfg.APIServer.CORS.AllowedMethods),
		handlers.AllowedHeaders(cfg.APIServer.CORS.AllowedHeaders),
		handlers.ExposedHeaders(cfg.APIServer.CORS.ExposedHeaders),
		handlers.MaxAge(cfg.APIServer.CORS.MaxAge),
	}
	if cfg.APIServer.CORS.AllowCredentials {
		corsOptions = append(corsOptions, handlers.AllowCredentials())
	}
	corsHandler := handlers.CORS(corsOptions...)(r)

	serverAddr := fmt.Sprintf("%s:%s", cfg.APIServer.Host, cfg.APIServer.Port)
	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      corsHandler,
		ReadTimeout:  cfg.APIServer.ReadTimeout,
		WriteTimeout: cfg.APIServer.WriteTimeout,
		IdleTimeout:  time.Second * 60,
	}

	go func() {
		log.Printf("API server listening on %s", serverAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("API server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received, stopping API server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("API server forced to shut down: %v", err)
	}

	log.Println("API server stopped.")
}
