package migration

import (
	"fmt"
	"log"

	"github.com/leaflens/leaflens-api/entities"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.JournalEntry{}); err != nil {
		log.Fatalf("Error migrating journal entry database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.PlantReminder{}); err != nil {
		log.Fatalf("Error migrating plant reminder database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.NotificationSetting{}); err != nil {
		log.Fatalf("Error migrating notification setting database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.ProTransaction{}); err != nil {
		log.Fatalf("Error migrating pro transaction database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}
