package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"github.com/cre8tar/c8r/internal/db"
	"github.com/cre8tar/c8r/internal/models"
	"github.com/cre8tar/c8r/pkg/config"
	"github.com/cre8tar/c8r/pkg/logging"
)

// defaultTasks is the launch task catalog. Seeding is idempotent: tasks
// are matched by title, existing rows are left untouched.
var defaultTasks = []models.Task{
	{Title: "Subscribe to a plan", Description: "Activate any paid subscription", RewardAmount: 1000, Kind: models.TaskSubscription},
	{Title: "Create a plugin", Description: "Publish a plugin to the marketplace", RewardAmount: 200, Kind: models.TaskPluginCreate},
	{Title: "Refer a friend", Description: "Bring a new user to the platform", RewardAmount: 100, Kind: models.TaskReferral},
	{Title: "Mint an avatar", Description: "Mint your first avatar NFT", RewardAmount: 50, Kind: models.TaskAvatarMint},
	{Title: "Add a plugin", Description: "Install a plugin on your avatar", RewardAmount: 30, Kind: models.TaskPluginAdd},
	{Title: "Share on social media", Description: "Share your avatar publicly", RewardAmount: 25, Kind: models.TaskSocialShare},
	{Title: "Daily login", Description: "Sign in once every 24 hours", RewardAmount: 10, Kind: models.TaskDailyLogin},
}

func main() {
	demo := flag.Bool("demo", false, "also create demo accounts with starting balances")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	if err := seedTasks(database); err != nil {
		logger.Fatal("Failed to seed tasks", zap.Error(err))
	}
	logger.Info("Task catalog seeded", zap.Int("tasks", len(defaultTasks)))

	if *demo {
		if err := seedDemoAccounts(database); err != nil {
			logger.Fatal("Failed to seed demo accounts", zap.Error(err))
		}
		logger.Info("Demo accounts seeded")
	}
}

func seedTasks(database *db.DB) error {
	for _, task := range defaultTasks {
		task.ID = uuid.NewString()
		task.Active = true
		if err := database.DB.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "title"}},
				DoNothing: true,
			}).
			Create(&task).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedDemoAccounts(database *db.DB) error {
	accounts := []models.Account{
		{UserID: "00000000-0000-4000-8000-000000000001", Balance: 5000},
		{UserID: "00000000-0000-4000-8000-000000000002", Balance: 1500},
	}
	for _, account := range accounts {
		if err := database.DB.
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoNothing: true,
			}).
			Create(&account).Error; err != nil {
			return err
		}
	}
	return nil
}
