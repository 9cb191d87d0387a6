package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/gokatarajesh/triviago/internal/app"
	"github.com/gokatarajesh/triviago/internal/cli"
	"github.com/gokatarajesh/triviago/internal/config"
)

func main() {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load("configs/.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Printf("Warning: could not load .env file: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	opts := cli.Options{
		In:  os.Stdin,
		Out: os.Stdout,
		Err: os.Stderr,
		Build: func(ctx context.Context) (*app.Application, error) {
			return app.New(ctx, cfg, os.Stderr)
		},
	}
	if err := cli.Execute(ctx, opts, os.Args[1:]); err != nil {
		stop()
		os.Exit(1)
	}
}
