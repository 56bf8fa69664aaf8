package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jeffail/gabs/v2"
	"github.com/go-resty/resty/v2"

	"servihogar/internal/lib/sl"
)

// Service turns device coordinates into a human-readable address via a
// Nominatim-compatible reverse geocoder. Lookups are best effort: any
// failure degrades to the raw coordinate pair so a job is never blocked
// on the geocoder being down.
type Service struct {
	client *resty.Client
	log    *slog.Logger
}

func NewGeocodeService(baseURL string, logger *slog.Logger) *Service {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(5 * time.Second).
		SetHeader("User-Agent", "servihogar/1.0")

	return &Service{
		client: client,
		log:    logger.With(sl.Module("geocode-service")),
	}
}

// Reverse resolves lat/lon into a display address. Never returns an empty
// string: on any failure it falls back to "lat, lon".
func (s *Service) Reverse(ctx context.Context, lat, lon float64) string {
	fallback := fmt.Sprintf("%.6f, %.6f", lat, lon)

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"lat":    fmt.Sprintf("%f", lat),
			"lon":    fmt.Sprintf("%f", lon),
			"format": "jsonv2",
		}).
		Get("/reverse")
	if err != nil {
		s.log.Warn("reverse geocode failed", sl.Err(err))
		return fallback
	}
	if resp.IsError() {
		s.log.Warn("reverse geocode error status", slog.Int("status", resp.StatusCode()))
		return fallback
	}

	parsed, err := gabs.ParseJSON(resp.Body())
	if err != nil {
		s.log.Warn("reverse geocode bad body", sl.Err(err))
		return fallback
	}

	if name, ok := parsed.Path("display_name").Data().(string); ok && name != "" {
		return name
	}
	return fallback
}
