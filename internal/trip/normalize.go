package trip

import (
	"fmt"
	"time"

	googlemaps "github.com/pukarojha/wherewego_api/internal/http/google"
	"github.com/pukarojha/wherewego_api/internal/model"
	"github.com/pukarojha/wherewego_api/util"
)

// viewport padding around a route so the polyline never touches the map edge
const regionPaddingFactor = 1.5

// NormalizeRoutes turns the provider's raw routes into candidate routes the
// app can display. Provider order is preserved exactly: index 0 is shown as
// the primary route by convention, but the provider does not guarantee it is
// the fastest, so nothing here re-sorts. Zero raw routes normalize to an
// empty slice, not an error; a malformed overview polyline is an error so a
// truncated path never reaches the map.
func NormalizeRoutes(rawRoutes []googlemaps.Route, waypointCount int, now time.Time) ([]model.CandidateRoute, error) {
	candidates := make([]model.CandidateRoute, 0, len(rawRoutes))

	for i, raw := range rawRoutes {
		points, err := util.DecodePolyline(raw.OverviewPolyline.Points)
		if err != nil {
			return nil, fmt.Errorf("route %d: %w", i, err)
		}

		candidate := model.CandidateRoute{
			ID:       i,
			Polyline: points,
			Summary:  raw.Summary,
			Steps:    []model.RouteStep{},
		}

		// Flatten legs in order; one leg per origin/waypoint/destination
		// segment, so totals are sums across all legs.
		for _, leg := range raw.Legs {
			candidate.DistanceMeters += leg.Distance.Value
			candidate.DurationSeconds += leg.Duration.Value
			for _, step := range leg.Steps {
				candidate.Steps = append(candidate.Steps, model.RouteStep{
					InstructionHTML:  step.HTMLInstructions,
					InstructionPlain: util.StripInstructionTags(step.HTMLInstructions),
					DistanceText:     step.Distance.Text,
					DistanceMeters:   step.Distance.Value,
					DurationSeconds:  step.Duration.Value,
					Maneuver:         step.Maneuver,
					StartLocation:    toGeoPoint(step.StartLocation),
					EndLocation:      toGeoPoint(step.EndLocation),
				})
			}
		}

		if len(raw.Legs) > 0 {
			first, last := raw.Legs[0], raw.Legs[len(raw.Legs)-1]
			candidate.StartLocation = toGeoPoint(first.StartLocation)
			candidate.EndLocation = toGeoPoint(last.EndLocation)
			if len(raw.Legs) == 1 {
				candidate.DistanceText = first.Distance.Text
				candidate.DurationText = first.Duration.Text
			} else {
				candidate.DistanceText = formatDistance(candidate.DistanceMeters)
				candidate.DurationText = formatDuration(candidate.DurationSeconds)
			}
		}

		candidate.ArrivalTime = util.FormatArrival(now, candidate.DurationSeconds)
		candidate.Description = describeRoute(i, raw.Summary, waypointCount)

		candidates = append(candidates, candidate)
	}

	return candidates, nil
}

func describeRoute(index int, summary string, waypointCount int) string {
	switch {
	case waypointCount == 1:
		return fmt.Sprintf("1 stop via %s", summary)
	case waypointCount > 1:
		return fmt.Sprintf("%d stops via %s", waypointCount, summary)
	case index == 0:
		return "Fastest route, the usual traffic"
	default:
		return fmt.Sprintf("Via %s", summary)
	}
}

// RegionForPolyline fits a map viewport around a decoded path, padded the way
// the preview screen frames it. Empty paths have no region.
func RegionForPolyline(points []model.GeoPoint) *model.MapRegion {
	if len(points) == 0 {
		return nil
	}

	minLat, maxLat := points[0].Latitude, points[0].Latitude
	minLng, maxLng := points[0].Longitude, points[0].Longitude
	for _, p := range points[1:] {
		if p.Latitude < minLat {
			minLat = p.Latitude
		}
		if p.Latitude > maxLat {
			maxLat = p.Latitude
		}
		if p.Longitude < minLng {
			minLng = p.Longitude
		}
		if p.Longitude > maxLng {
			maxLng = p.Longitude
		}
	}

	return &model.MapRegion{
		Latitude:       (minLat + maxLat) / 2,
		Longitude:      (minLng + maxLng) / 2,
		LatitudeDelta:  (maxLat - minLat) * regionPaddingFactor,
		LongitudeDelta: (maxLng - minLng) * regionPaddingFactor,
	}
}

func toGeoPoint(ll googlemaps.LatLng) model.GeoPoint {
	return model.GeoPoint{Latitude: ll.Lat, Longitude: ll.Lng}
}

func formatDistance(meters int) string {
	if meters < 1000 {
		return fmt.Sprintf("%d m", meters)
	}
	return fmt.Sprintf("%.1f km", float64(meters)/1000)
}

func formatDuration(seconds int) string {
	minutes := (seconds + 30) / 60
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d hr %d min", minutes/60, minutes%60)
}
