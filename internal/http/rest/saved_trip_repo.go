package rest

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pukarojha/wherewego_api/internal/model"
)

// UpsertSavedTripRepo writes a shortcut slot. A place occupies at most one
// slot per user, so moving a place to a new slot evicts it from its old one
// in the same transaction.
func (api *API) UpsertSavedTripRepo(ctx context.Context, trip model.SavedTrip) error {
	evictStmt := `
        DELETE FROM saved_trips
        WHERE user_id = $1 AND slot <> $2 AND place_id = $3
    `
	upsertStmt := `
        INSERT INTO saved_trips (user_id, slot, name, address, location, place_id)
        VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326), $7)
        ON CONFLICT (user_id, slot)
        DO UPDATE SET name = EXCLUDED.name,
                      address = EXCLUDED.address,
                      location = EXCLUDED.location,
                      place_id = EXCLUDED.place_id,
                      updated_at = NOW()
    `
	err := api.Deps.DB.RunInTx(ctx, func(tx pgx.Tx) error {
		if trip.PlaceID != nil {
			if _, err := tx.Exec(ctx, evictStmt, trip.UserID, trip.Slot, trip.PlaceID); err != nil {
				return err
			}
		}
		_, err := tx.Exec(ctx, upsertStmt,
			trip.UserID,
			trip.Slot,
			trip.Name,
			trip.Address,
			trip.Location.P.X,
			trip.Location.P.Y,
			trip.PlaceID,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("saving trip slot: %w", err)
	}
	return nil
}

// GetSavedTripsRepo returns all four slots keyed by name; slots the user has
// not filled are nil.
func (api *API) GetSavedTripsRepo(ctx context.Context, userID uuid.UUID) (map[string]*model.SavedTripResponse, error) {
	stmt := `
		SELECT slot, name, address,
			   ST_X(location::geometry) as longitude,
			   ST_Y(location::geometry) as latitude,
			   place_id
		FROM saved_trips
		WHERE user_id = $1
	`
	rows, err := api.Deps.DB.Pool().Query(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("getting saved trips: %w", err)
	}
	defer rows.Close()

	trips := make(map[string]*model.SavedTripResponse, len(model.SavedTripSlots))
	for _, slot := range model.SavedTripSlots {
		trips[slot] = nil
	}

	for rows.Next() {
		var trip model.SavedTripResponse
		err := rows.Scan(
			&trip.Slot,
			&trip.Name,
			&trip.Address,
			&trip.Longitude,
			&trip.Latitude,
			&trip.PlaceID,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning saved trip: %w", err)
		}
		trips[trip.Slot] = &trip
	}
	return trips, nil
}

func (api *API) DeleteSavedTripRepo(ctx context.Context, userID uuid.UUID, slot string) error {
	stmt := `DELETE FROM saved_trips WHERE user_id = $1 AND slot = $2`

	result, err := api.Deps.DB.Pool().Exec(ctx, stmt, userID, slot)
	if err != nil {
		return fmt.Errorf("removing saved trip: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("no saved trip in slot %q", slot)
	}
	return nil
}

func (api *API) ClearSavedTripsRepo(ctx context.Context, userID uuid.UUID) error {
	stmt := `DELETE FROM saved_trips WHERE user_id = $1`

	if _, err := api.Deps.DB.Pool().Exec(ctx, stmt, userID); err != nil {
		return fmt.Errorf("clearing saved trips: %w", err)
	}
	return nil
}
