package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pressmark-io/blog-backend/api"
	"github.com/pressmark-io/blog-backend/config"
	"github.com/pressmark-io/blog-backend/database"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	c := config.New()

	gormLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  config.PostgresDSN(c),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	if config.GetBool(c, "DB_AUTO_MIGRATE", true) {
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database schema")
		}
	}

	currentDB := database.New(db)

	server, err := api.NewServer(currentDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(server.Start)

	group.Go(func() error {
		<-groupCtx.Done()
		server.ShutdownGracefully(30 * time.Second)
		return groupCtx.Err()
	})

	if err := group.Wait(); err != nil {
		fmt.Printf("Closing server: %v\n", err)
	}
}
