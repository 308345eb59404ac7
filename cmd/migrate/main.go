package main

import (
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sfoudy/golf-sweepstakes/internal/golf"
	"github.com/sfoudy/golf-sweepstakes/internal/models"
	"github.com/sfoudy/golf-sweepstakes/pkg/config"
	"github.com/sfoudy/golf-sweepstakes/pkg/database"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|seed]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := db.Migrate(); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		logrus.Info("Migrations applied")

	case "seed":
		if err := db.Migrate(); err != nil {
			logrus.Fatalf("Failed to run migrations: %v", err)
		}
		if err := seed(db); err != nil {
			logrus.Fatalf("Failed to seed: %v", err)
		}
		logrus.Info("Seed data created")

	default:
		log.Fatalf("Unknown command: %s", os.Args[1])
	}
}

// seed creates a demo competition with two entrants for local development.
func seed(db *database.DB) error {
	masters := golf.Tournaments["masters"]

	competition := models.Competition{
		Title:      "Office Masters Pool",
		MajorType:  masters.ID,
		StartDate:  masters.StartDate,
		EndDate:    masters.EndDate,
		AccessCode: models.GenerateAccessCode(),
		CreatedBy:  "seed-user",
	}
	if err := db.Create(&competition).Error; err != nil {
		return err
	}

	entrants := map[string][]string{
		"alex": {"Scottie Scheffler", "Rory McIlroy", "Ludvig Aberg", "Tommy Fleetwood"},
		"sam":  {"Jon Rahm", "Xander Schauffele", "Collin Morikawa", "Viktor Hovland"},
	}

	for username, picks := range entrants {
		participant := models.Participant{
			CompetitionID: competition.ID,
			Username:      username,
		}
		for _, name := range picks {
			participant.PlayerSelections = append(participant.PlayerSelections, models.PlayerSelection{
				PlayerName: name,
			})
		}
		if err := db.Create(&participant).Error; err != nil {
			return err
		}
	}

	logrus.Infof("Seeded competition %s with access code %s", competition.ID, competition.AccessCode)
	return nil
}
