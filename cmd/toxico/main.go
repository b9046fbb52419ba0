// Command toxico is the operator CLI for the iamtoxico Shopify and Printify
// accounts. It uses the same clients and configuration as the API server.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found")
	}

	app, cleanup := newApp(os.Stdout, logger)
	err := app.Run(context.Background(), os.Args)
	cleanup()
	if err != nil {
		logger.Fatal().Err(err).Msg("Command failed")
	}
}
