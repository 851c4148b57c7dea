package util

import (
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pukarojha/wherewego_api/internal/model"
	"github.com/twpayne/go-polyline"
)

var rgxInstructionTags = regexp.MustCompile(`<[^>]*>`)

// DecodePolyline decodes a provider-encoded overview polyline into an ordered
// point sequence. Deltas are relative to the previous point, so the decoded
// length equals the number of encoded pairs. An empty string decodes to an
// empty sequence; a truncated or non-ASCII encoding returns an error rather
// than a silently shortened path.
func DecodePolyline(shape string) ([]model.GeoPoint, error) {
	if shape == "" {
		return []model.GeoPoint{}, nil
	}

	coords, rest, err := polyline.DecodeCoords([]byte(shape))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("failed to decode polyline: %d trailing bytes", len(rest))
	}

	points := make([]model.GeoPoint, len(coords))
	for i, c := range coords {
		points[i] = model.GeoPoint{Latitude: c[0], Longitude: c[1]}
	}
	return points, nil
}

// EncodePolyline is the inverse of DecodePolyline at 1e-5 precision.
func EncodePolyline(points []model.GeoPoint) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// StripInstructionTags removes the <...> markup spans the provider embeds in
// turn-by-turn instructions. Stripping twice equals stripping once.
func StripInstructionTags(instruction string) string {
	return rgxInstructionTags.ReplaceAllString(instruction, "")
}

// FormatArrival renders "now plus duration" the way the route card shows it,
// e.g. "10:15 PM".
func FormatArrival(now time.Time, durationSeconds int) string {
	return now.Add(time.Duration(durationSeconds) * time.Second).Format("3:04 PM")
}

// PointToLatLon returns the latitude and longitude of a pgtype.Point.
func PointToLatLon(point pgtype.Point) (float64, float64) {
	return point.P.Y, point.P.X
}

// PointFromLatLon creates a pgtype.Point from latitude and longitude.
func PointFromLatLon(lat, lon float64) pgtype.Point {
	return pgtype.Point{
		P: pgtype.Vec2{
			X: lon,
			Y: lat,
		},
	}
}
