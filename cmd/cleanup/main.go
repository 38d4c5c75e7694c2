// Command cleanup runs one retention pass: invitations past their expiry are
// deleted along with their uploaded media. The same pass runs inside the
// server on a schedule; this binary exists for cron setups and manual runs.
package main

import (
	"log"
	"os"
	"time"

	"everafter/config"
	"everafter/internal/database"
	"everafter/services/cleanup"
	"everafter/services/uploads"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("[cleanup] config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Printf("[cleanup] database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	uploadsSvc, err := uploads.NewService(cfg.UploadsDir)
	if err != nil {
		log.Printf("[cleanup] uploads: %v", err)
		os.Exit(1)
	}

	summary, err := cleanup.NewService(db.Invitations, uploadsSvc).Run(time.Now())
	if err != nil {
		log.Printf("[cleanup] pass failed: %v", err)
		os.Exit(1)
	}

	// Per-invitation errors are already logged; they do not fail the run.
	log.Printf("[cleanup] done: %d invitations deleted, %d files removed, %d errors",
		summary.Invitations, summary.Files, summary.Errors)
}
