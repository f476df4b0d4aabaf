// load-csv seeds the database from the CSV fixture set.
//
// Usage: load-csv -dir ./static/data
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"reviewhub/database"
	"reviewhub/internal/config"
	"reviewhub/internal/loader"
)

func main() {
	dir := flag.String("dir", "static/data", "directory holding the CSV fixtures")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := loader.New(db, *dir, logger).Run(); err != nil {
		log.Fatalf("Import failed: %v", err)
	}
	logger.Info("import_complete", "dir", *dir)
}
