package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/rodanhr/hrbot/core/cmd"
	"github.com/rodanhr/hrbot/internal/app"
)

func main() {
	// Local development convenience; a missing .env is fine.
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "configs/config.yaml",
		LoadConfig:        app.LoadConfig,
		Bootstrap:         app.Bootstrap,
	})
	if err != nil {
		log.Fatalf("hrbot: %v", err)
	}
}
