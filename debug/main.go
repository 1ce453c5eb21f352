package main

import (
	"os"

	"github.com/emrgen/shazam/internal/config"
	"github.com/emrgen/shazam/internal/server"
	"github.com/sirupsen/logrus"
)

// runs the api against a local sqlite database with debug logging
func main() {
	logrus.SetLevel(logrus.DebugLevel)

	cfg := config.LoadConfig()
	if os.Getenv("SHAZAM_DATABASE_URL") == "" {
		cfg.DatabaseURL = "./.tmp/shazam-debug.db"
		if err := os.MkdirAll("./.tmp", 0o755); err != nil {
			logrus.Fatal(err)
		}
	}
	if cfg.SweepSchedule == "" {
		cfg.SweepSchedule = "@every 1m"
	}

	err := server.Start(cfg)
	if err != nil {
		logrus.Fatal(err)
	}
}
