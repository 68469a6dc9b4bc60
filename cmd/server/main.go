package main

import (
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/NarwhalsOrg/BankingApp/internal/httpserver"
	"github.com/NarwhalsOrg/BankingApp/internal/middleware"
	"github.com/NarwhalsOrg/BankingApp/pkg/configpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	var conn *sql.DB

	if config.StorageDriver == "postgres" {
		conn, err = sql.Open(config.DBDriver, config.DBSource)
		if err != nil {
			logger.Fatal().Err(err).Msg("cannot connect to db")
		}
	}

	server, err := httpserver.New(conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}

	logger.Info().
		Str("address", config.ServerAddress).
		Str("storage", config.StorageDriver).
		Msg("starting server")

	if err := server.Run(); err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}
