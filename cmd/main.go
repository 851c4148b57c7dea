package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pukarojha/wherewego_api/config"
	"github.com/pukarojha/wherewego_api/internal/db"
	deps "github.com/pukarojha/wherewego_api/internal/debs"
	api "github.com/pukarojha/wherewego_api/internal/http/rest"
)

const (
	allowConnectionsAfterShutdown = 1 * time.Second
)

func main() {
	cfg := config.New()
	deps := deps.New(cfg)

	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}
	a := &api.API{
		Config: cfg,
		Deps:   deps,
		DB:     database.Pool(),
	}
	go deps.WebSocket.Run()
	go func() {
		log.Printf("Server running on port %v ...", cfg.Port)
		log.Fatal(a.Serve())
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	log.Println("Request to shutdown server. Doing nothing for ", allowConnectionsAfterShutdown)
	waitTimer := time.NewTimer(allowConnectionsAfterShutdown)
	<-waitTimer.C

	log.Println("Shutting down server...")

	database.Close()
	log.Fatal(a.Shutdown())
}
