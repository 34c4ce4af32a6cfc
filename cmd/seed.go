package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/genzspace/genzflow/internal"
	"github.com/genzspace/genzflow/internal/database"
	"github.com/genzspace/genzflow/internal/department"
	"github.com/genzspace/genzflow/internal/employee"
	"github.com/genzspace/genzflow/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample departments and employees for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.App.Env)

		db, err := database.Open(cfg.Database, logger.LoggerWrapper())
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer func() { _ = database.Close(db) }()

		if clearData {
			fmt.Println("Clearing existing data...")
			for _, table := range []string{"tasks", "projects", "employees", "departments"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear %s: %v", table, err)
				}
			}
		}

		err = database.RunInTransaction(db, func(tx *gorm.DB) error {
			return seed(tx, cfg.Security.BCryptCost)
		})
		if err != nil {
			log.Fatalf("seed failed: %v", err)
		}

		fmt.Println("Seeding complete")
	},
}

func seed(db *gorm.DB, bcryptCost int) error {
	departments := []string{"Engineering", "Human Resources", "Product", "Operations"}
	for _, name := range departments {
		var count int64
		if err := db.Model(&department.Department{}).Where("name = ?", name).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&department.Department{Name: name}).Error; err != nil {
			return err
		}
		fmt.Println("Seeded department:", name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcryptCost)
	if err != nil {
		return err
	}

	samples := []struct {
		name  string
		email string
		role  internal.Role
	}{
		{"Ava Founder", "ava@genzflow.dev", internal.RoleCEO},
		{"Harper People", "harper@genzflow.dev", internal.RoleHR},
		{"Morgan Lead", "morgan@genzflow.dev", internal.RoleManager},
		{"Dev One", "dev1@genzflow.dev", internal.RoleDeveloper},
	}

	for _, sample := range samples {
		var count int64
		if err := db.Model(&employee.Employee{}).Where("email = ?", sample.email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		emp := &employee.Employee{
			Name:         sample.name,
			Email:        sample.email,
			PasswordHash: string(hash),
			Role:         sample.role,
			IsActive:     true,
			JoinDate:     time.Now().Truncate(24 * time.Hour),
		}
		if err := db.Create(emp).Error; err != nil {
			return err
		}
		fmt.Println("Seeded employee:", sample.email)
	}

	return nil
}
