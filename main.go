package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creator-studio/domain/model"
	"creator-studio/domain/repository"
	"creator-studio/infrastructure/cache"
	"creator-studio/infrastructure/clients/cloudinaryupload"
	"creator-studio/infrastructure/clients/facebookauth"
	"creator-studio/infrastructure/clients/googleauth"
	metaclient "creator-studio/infrastructure/clients/meta"
	"creator-studio/infrastructure/configuration"
	"creator-studio/infrastructure/logger"
	"creator-studio/infrastructure/persistence"
	"creator-studio/infrastructure/pubsub"
	"creator-studio/infrastructure/security"
	"creator-studio/infrastructure/servicebus"
	httpHandler "creator-studio/interfaces/http"
	"creator-studio/server"
	"creator-studio/usecase"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")
	app := configuration.C.App

	userRepository, accountRepository, err := initiateRepositories()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Database initialization failed")
		os.Exit(1)
	}

	cipher, err := security.NewTokenCipher(app.EncryptionKey)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Token cipher initialization failed")
		os.Exit(1)
	}

	// Mongo keeps the publish audit trail; the app runs without it.
	var publishRecords repository.IPublishRecord
	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Mongo.Host,
		configuration.C.Mongo.Port,
		configuration.C.Mongo.User,
		configuration.C.Mongo.Password,
		configuration.C.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB not available - continuing without publish history")
	} else if err := mongoDb.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Warn("MongoDB ping failed - continuing without publish history")
	} else {
		publishRecords = persistence.NewPublishRecordRepository(mongoDb, configuration.C.Mongo.Name)
		logger.GetLogger().Info("MongoDB connected successfully")
	}

	// Redis backs the OAuth state store; fall back to in-memory when absent.
	var states cache.IStateStore
	redisClient, err := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.Redis.Host, configuration.C.Redis.Port),
		configuration.C.Redis.Username,
		configuration.C.Redis.Password,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Redis not available - using in-memory OAuth state store")
		states = cache.NewMemoryStateStore()
	} else {
		states = cache.NewRedisStateStore(redisClient)
		logger.GetLogger().Info("Redis client initialized successfully.")
	}

	// Optional post-published event fan-out.
	var notifiers []repository.IPostEventNotifier
	if pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Pub/Sub not available - continuing without Pub/Sub events")
	} else {
		notifiers = append(notifiers, pubsub.NewPostEventPubSub(pubSubClient, configuration.C.Pubsub.Topic))
	}
	if sbClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without Service Bus events")
	} else {
		notifiers = append(notifiers, servicebus.NewPostEventServiceBus(sbClient, configuration.C.ServiceBus.Queue))
	}

	// Login providers; unconfigured ones simply don't register.
	identityProviders := map[string]repository.IIdentityProvider{}
	if cfg := configuration.C.OAuth.Google; cfg.ClientID != "" {
		identityProviders[model.ProviderGoogle] = googleauth.NewGoogleClient(
			cfg.ClientID, cfg.ClientSecret, app.BaseURL+"/auth/google/callback")
	}
	if cfg := configuration.C.OAuth.Facebook; cfg.ClientID != "" {
		identityProviders[model.ProviderFacebook] = facebookauth.NewFacebookClient(
			cfg.ClientID, cfg.ClientSecret, app.BaseURL+"/auth/facebook/callback")
	}

	graph := metaclient.NewGraphClient(
		configuration.C.OAuth.Meta.ClientID,
		configuration.C.OAuth.Meta.ClientSecret,
	)

	var uploader *cloudinaryupload.Uploader
	if c := configuration.C.Cloudinary; c.CloudName != "" {
		uploader, err = cloudinaryupload.NewUploader(c.CloudName, c.APIKey, c.APISecret, c.Folder)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Cloudinary not available - using local uploads")
			uploader = nil
		}
	}

	sessionUsecase := usecase.NewSessionUsecase(app.SecretKey)
	authUsecase := usecase.NewAuthUsecase(identityProviders, userRepository, states)
	connectionUsecase := usecase.NewConnectionUsecase(
		graph, accountRepository, states, cipher,
		configuration.C.OAuth.Meta.ClientID,
		app.BaseURL+"/connect/instagram/callback",
	)
	publishUsecase := usecase.NewPublishUsecase(graph, accountRepository, publishRecords, notifiers, cipher)
	userUsecase := usecase.NewUserUsecase(userRepository)

	authHandler := httpHandler.NewAuthHandler(authUsecase, sessionUsecase, app.BaseURL)
	connectionHandler := httpHandler.NewConnectionHandler(connectionUsecase, app.BaseURL)
	publishHandler := httpHandler.NewPublishHandler(publishUsecase)
	uploadHandler := httpHandler.NewUploadHandler(uploader, app.UploadDir, app.BaseURL)
	userHandler := httpHandler.NewUserHandler(userUsecase)

	router := server.InitiateRouter(
		sessionUsecase,
		authHandler,
		connectionHandler,
		publishHandler,
		uploadHandler,
		userHandler,
		app.UploadDir,
	)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
			} else {
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		}
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
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

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateRepositories connects the configured database vendor and returns
// the user and social-account repositories. DB_VENDOR overrides the
// environment-based choice: mssql and mysql are explicit, production
// defaults to MSSQL, everything else to PostgreSQL.
func initiateRepositories() (repository.IUser, repository.ISocialAccount, error) {
	vendor := os.Getenv("DB_VENDOR")
	if vendor == "" {
		if env := os.Getenv("ENV"); env == "production" || env == "prod" {
			vendor = "mssql"
		} else {
			vendor = "psql"
		}
	}

	switch vendor {
	case "mssql":
		db, err := persistence.NewMSSQLDB()
		if err != nil {
			return nil, nil, err
		}
		if err := persistence.EnsureCoreSchemaMSSQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring core schema")
		}
		logDBPing(db)
		return persistence.NewUserRepositoryMSSQL(db), persistence.NewSocialAccountRepositoryMSSQL(db), nil
	case "mysql":
		db, err := persistence.NewMySQLDB()
		if err != nil {
			return nil, nil, err
		}
		if err := persistence.EnsureCoreSchemaMySQL(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring core schema")
		}
		logGormPing(db)
		return persistence.NewUserRepositoryMySQL(db), persistence.NewSocialAccountRepositoryMySQL(db), nil
	default:
		db, err := persistence.NewPostgreSQLDB()
		if err != nil {
			return nil, nil, err
		}
		if err := persistence.EnsureCoreSchema(db); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring core schema")
		}
		logDBPing(db)
		return persistence.NewUserRepository(db), persistence.NewSocialAccountRepository(db), nil
	}
}

func logDBPing(db *sql.DB) {
	logger.GetLogger().WithField("PrimaryDB", db.Ping()).Info("Database connected.")
}

func logGormPing(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Cannot access underlying MySQL connection")
		return
	}
	logDBPing(sqlDB)
}
