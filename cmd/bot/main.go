package main

import (
	"github.com/redis/go-redis/v9"
	flag "github.com/spf13/pflag"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/app"
	"github.com/shrimpsizemoose/studyplan/internal/bot"
)

func main() {
	configPath := flag.StringP("config", "c", "config.toml", "Path to config file")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start planner service: %v", err)
	}
	defer service.Close()
	cfg := service.Config

	var tokens *app.TokenManager
	if cfg.Auth.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.Auth.RedisURL)
		if err != nil {
			logger.Error.Fatalf("Failed to parse redis URL: %v", err)
		}
		tokens = app.NewTokenManager(redis.NewClient(opt), cfg.Auth.TokenKeyTemplate)
		defer tokens.Close()
	} else {
		logger.Info.Println("No [auth] redis_url configured, /token is disabled")
	}

	b, err := bot.New(cfg, service, tokens)
	if err != nil {
		logger.Error.Fatalf("Failed to create bot: %v", err)
	}

	logger.Info.Println("Bot initialized successfully")
	if err := b.Start(); err != nil {
		logger.Error.Fatalf("Bot error: %v", err)
	}
}
