// Command refreshdb wipes the database and rebuilds the schema from scratch,
// reseeding the built-in templates. It refuses to run without --force.
package main

import (
	"fmt"
	"log"
	"os"

	"everafter/config"
	"everafter/internal/database"
)

func main() {
	if !forced(os.Args[1:]) {
		fmt.Fprintln(os.Stderr, "refreshdb destroys ALL data: users, invitations, guests, and page views.")
		fmt.Fprintln(os.Stderr, "Run again with --force if that is really what you want.")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("[refreshdb] config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Printf("[refreshdb] database: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Reset(db.Connection()); err != nil {
		log.Printf("[refreshdb] reset: %v", err)
		os.Exit(1)
	}

	log.Printf("[refreshdb] database at %s rebuilt", cfg.DatabasePath)
}

func forced(args []string) bool {
	for _, arg := range args {
		if arg == "--force" || arg == "-f" {
			return true
		}
	}
	return false
}
