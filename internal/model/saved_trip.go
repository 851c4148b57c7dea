package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Saved trip slots. The app pins exactly these four shortcuts.
const (
	SlotHome   = "home"
	SlotWork   = "work"
	SlotGym    = "gym"
	SlotSchool = "school"
)

var SavedTripSlots = []string{SlotHome, SlotWork, SlotGym, SlotSchool}

func ValidSavedTripSlot(slot string) bool {
	for _, s := range SavedTripSlots {
		if s == slot {
			return true
		}
	}
	return false
}

type SavedTrip struct {
	ID        int64        `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Slot      string       `json:"slot"`
	Name      string       `json:"name"`
	Address   string       `json:"address"`
	Location  pgtype.Point `json:"location"`
	PlaceID   *string      `json:"place_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

type SavedTripRequest struct {
	Name      string  `json:"name" validate:"omitempty,max=50"`
	Address   string  `json:"address" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"required,latitude"`
	Longitude float64 `json:"longitude" validate:"required,longitude"`
	PlaceID   string  `json:"place_id,omitempty"`
}

type SavedTripResponse struct {
	Slot      string  `json:"slot"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	PlaceID   *string `json:"place_id,omitempty"`
}
