package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"github.com/studiokarsa/trackline-backend/api"
	"github.com/studiokarsa/trackline-backend/database"
	"github.com/studiokarsa/trackline-backend/models"
	"github.com/studiokarsa/trackline-backend/services/notify"
	"github.com/studiokarsa/trackline-backend/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	appEnv := getEnv("APP_ENV", "development")
	if appEnv != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	db, err := openDatabase()
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Error running migrations")
	}

	currentDB := database.New(db)

	if err := seedAdmin(currentDB); err != nil {
		log.Fatal().Err(err).Msg("Error seeding admin account")
	}

	blobs, err := newBlobStore()
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing blob storage")
	}

	messenger, err := newMessenger(appEnv)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing WhatsApp messenger")
	}

	baseURL := getEnv("APP_BASE_URL", "http://localhost:8080")
	dispatcher := notify.NewDispatcher(messenger, currentDB.NotificationRepo(), baseURL)

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, blobs, dispatcher)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// openDatabase connects to the primary database and, when configured,
// registers a read replica for the query path.
func openDatabase() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if replicaDSN := os.Getenv("DATABASE_REPLICA_URL"); replicaDSN != "" {
		err = db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: []gorm.Dialector{postgres.Open(replicaDSN)},
		}))
		if err != nil {
			return nil, err
		}
		log.Info().Msg("Read replica registered")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, err
	}
	return db, nil
}

// seedAdmin creates the initial admin account from ADMIN_USERNAME and
// ADMIN_PASSWORD when the users table is empty.
func seedAdmin(db database.Database) error {
	count, err := db.UserRepo().Count()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Warn().Msg("No admin account exists and ADMIN_USERNAME/ADMIN_PASSWORD are unset, skipping seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if err := db.UserRepo().Add(&models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: string(hash),
	}); err != nil {
		return err
	}

	log.Info().Str("username", username).Msg("Seeded admin account")
	return nil
}

// newBlobStore picks the upload backend from STORAGE_DRIVER.
func newBlobStore() (storage.BlobStore, error) {
	switch driver := getEnv("STORAGE_DRIVER", "local"); driver {
	case "s3":
		bucket := os.Getenv("S3_BUCKET")
		if bucket == "" {
			return nil, fmt.Errorf("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
		return storage.NewS3Store(context.Background(), bucket)
	case "local":
		return storage.NewLocalStore(getEnv("STORAGE_LOCAL_DIR", "./uploads"))
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER: %s", driver)
	}
}

// newMessenger picks the WhatsApp gateway from WHATSAPP_PROVIDER. Outside
// production an unset provider falls back to console output.
func newMessenger(appEnv string) (notify.Messenger, error) {
	provider := os.Getenv("WHATSAPP_PROVIDER")
	if provider == "" && appEnv != "production" {
		log.Info().Msg("WHATSAPP_PROVIDER unset, WhatsApp messages will be logged to the console")
		return notify.NewConsoleMessenger(), nil
	}

	switch provider {
	case "fonnte":
		return notify.NewFonnteMessenger(
			os.Getenv("FONNTE_API_KEY"),
			getEnv("FONNTE_API_URL", notify.DefaultFonnteURL),
		)
	case "twilio":
		return notify.NewTwilioMessenger(
			os.Getenv("TWILIO_ACCOUNT_SID"),
			os.Getenv("TWILIO_AUTH_TOKEN"),
			os.Getenv("TWILIO_WHATSAPP_FROM"),
		)
	case "console":
		return notify.NewConsoleMessenger(), nil
	default:
		return nil, fmt.Errorf("unsupported WHATSAPP_PROVIDER: %s", provider)
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

// getEnv returns the value of the environment variable key or a fallback value.
func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
