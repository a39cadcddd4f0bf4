package infra

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"log"
	"os"

	"kayipbul/internal/models/db_models"
)

// InitPostgresql opens the database holding both the relational tables and
// the pgvector index, going through the shared dial policy so a slow or
// misresolved local instance does not kill startup.
func InitPostgresql() *gorm.DB {

	dsn := os.Getenv("POSTGRES_URL")

	var connectionPool *gorm.DB
	policy := DefaultDialPolicy()

	err := policy.Do(dsn, func(target string) error {
		db, openErr := gorm.Open(postgres.Open(target), &gorm.Config{})
		if openErr != nil {
			return openErr
		}
		connectionPool = db
		return nil
	})
	if err != nil {
		log.Printf("Error connecting to database: %v", err)
		log.Fatal("Error connecting to database")
	}

	if err := connectionPool.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		log.Printf("Error creating vector extension: %v", err)
	}

	if err := connectionPool.AutoMigrate(
		&db_models.User{},
		&db_models.Report{},
		&db_models.ImageEmbedding{},
		&db_models.ImageMatch{},
		&db_models.NotificationState{},
	); err != nil {
		log.Printf("Error migrating database schema: %v", err)
		log.Fatal("Error migrating database schema")
	}

	return connectionPool
}

func ClosePostgresql(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting database instance: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("PostgreSQL database connection closed successfully")
	}
}
