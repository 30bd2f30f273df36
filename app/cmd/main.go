package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"faqbot/app/server"
	"faqbot/config"
	"faqbot/logger"
)

func init() {
	// A .env file is optional; real deployments set the environment.
	_ = godotenv.Load()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("error loading config: ", err)
	}

	zl := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer zl.Sync()

	s := server.NewServer(cfg, zl)

	go s.Run()

	sigch := make(chan os.Signal, 1)
	signal.Notify(sigch, os.Interrupt, syscall.SIGTERM)
	<-sigch
	zl.Info("received shutdown signal, shutting down server")
	s.Stop()
}
