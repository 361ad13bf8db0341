package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/toogather/wabot/internal/config"
	"github.com/toogather/wabot/internal/database"
	"github.com/toogather/wabot/internal/domain/service"
	"github.com/toogather/wabot/internal/google"
	"github.com/toogather/wabot/internal/handlers"
	"github.com/toogather/wabot/internal/store"
	"github.com/toogather/wabot/internal/wa"
	"github.com/toogather/wabot/migrator/sqlite"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg := config.Load()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("Failed to load timezone %q: %v", cfg.Timezone, err)
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Println("Running migrations...")
	if err := sqlite.Migrate(db.DB()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	sentLog, err := store.OpenSentReminderLog(cfg.DataDir)
	if err != nil {
		log.Fatalf("Failed to open sent reminder log: %v", err)
	}
	subscribers := store.OpenSubscriberRegistry(cfg.DataDir)

	googleClient, err := google.NewClient(google.ClientOptions{
		CredentialsFile: cfg.GoogleCredentialsFile,
		Location:        loc,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Google client: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	waClient, err := wa.Dial(ctx, cfg.GatewayURL, cfg.GatewayToken)
	if err != nil {
		log.Fatalf("Failed to connect to WhatsApp gateway: %v", err)
	}
	defer waClient.Close()

	services := service.NewInstance(service.Options{
		DM:                database.NewInstance(db),
		Calendar:          google.NewCalendar(googleClient, cfg.CalendarID),
		Sheets:            google.NewSheets(googleClient, cfg.SpreadsheetID),
		Transport:         waClient,
		SentLog:           sentLog,
		Subscribers:       subscribers,
		Location:          loc,
		ReminderChannelID: cfg.ReminderChannelID,
		QuoteTime:         cfg.QuoteTime,
	})

	services.Reminder.Start()
	defer services.Reminder.Stop()
	services.OneShot.Start()
	defer services.OneShot.Stop()
	services.Quotes.Start()
	defer services.Quotes.Stop()

	handler := handlers.New(waClient, services, cfg, loc)

	log.Println("Bot connected, waiting for messages...")
	for {
		select {
		case msg, ok := <-waClient.Messages():
			if !ok {
				log.Println("Gateway connection closed")
				return
			}
			handler.HandleMessage(ctx, msg)
		case <-ctx.Done():
			log.Println("Shutting down...")
			return
		}
	}
}
