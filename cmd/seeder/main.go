//cmd/seeder/main.go
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/karibuhq/wabroadcast-backend/internal/config"
	"github.com/karibuhq/wabroadcast-backend/internal/db"
	"github.com/karibuhq/wabroadcast-backend/internal/logging"
)

func main() {
	logger := logging.New("seeder")

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("no .env file found, relying on OS environment variables")
	}
	cfg := config.Load()

	pool, err := db.Open(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	defer pool.Close()

	seedFiles := []string{
		"migrations/schema.sql",
		"seed/organizations.sql",
		"seed/members.sql",
	}

	for _, file := range seedFiles {
		content, err := os.ReadFile(file)
		if err != nil {
			logger.Fatal().Err(err).Str("file", file).Msg("failed to read seed file")
		}

		if _, err := pool.Exec(string(content)); err != nil {
			logger.Fatal().Err(err).Str("file", file).Msg("failed to execute seed file")
		}
		logger.Info().Str("file", file).Msg("seeded")
	}

	logger.Info().Msg("database seeding completed")
}
