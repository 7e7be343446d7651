package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	flag "github.com/spf13/pflag"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/studyplan/internal/app"
	"github.com/shrimpsizemoose/studyplan/internal/handlers"
)

func main() {
	configPath := flag.StringP("config", "c", "config.toml", "Path to config file")
	port := flag.StringP("port", "p", "", "Listen address, overrides [server] port")
	flag.Parse()

	service, err := app.NewService(*configPath)
	if err != nil {
		logger.Error.Fatalf("Failed to start planner service: %v", err)
	}
	defer service.Close()

	if *port != "" {
		service.Config.Server.Port = *port
	}

	mux := http.NewServeMux()
	handlers.NewPlannerHandler(service).Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	logger.Info.Printf("Starting studyplan server on %s", service.Config.Server.Port)
	logger.Debug.Printf("Database: %s, auth enabled: %v",
		service.Config.DBConfig().Type, service.Auth.Enabled())
	if err := http.ListenAndServe(service.Config.Server.Port, mux); err != nil {
		logger.Error.Fatalf("studyplan server failed: %v", err)
	}
}
