package deps

import (
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pukarojha/wherewego_api/config"
	"github.com/pukarojha/wherewego_api/internal/db"
	googlemaps "github.com/pukarojha/wherewego_api/internal/http/google"
	"github.com/pukarojha/wherewego_api/internal/trip"
	"github.com/pukarojha/wherewego_api/util/websockets"
)

type Dependencies struct {
	DB        *db.DB
	Google    *googlemaps.GoogleMapsClient
	Trips     *trip.Store
	WebSocket *websockets.WebSocketManager
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	deps := Dependencies{
		DB:        database,
		Google:    googlemaps.NewGoogleMapsClient(cfg.GoogleMapsAPIKey),
		Trips:     trip.NewStore(),
		WebSocket: websockets.NewWebSocketManager(),
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
