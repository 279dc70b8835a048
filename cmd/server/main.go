package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/leaflens/leaflens-api/cmd/config"
	migration "github.com/leaflens/leaflens-api/cmd/database/migrate"
	"github.com/leaflens/leaflens-api/internal/utils"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, dueCheckWorker, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to set up app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go dueCheckWorker.Run(ctx)

	go func() {
		if err := app.Listen(":8080"); err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()

	if err := app.Shutdown(); err != nil {
		log.Printf("error shutting down server: %v", err)
	}
}
