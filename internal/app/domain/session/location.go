package session

import (
	"context"
	"fmt"
	"math"

	"github.com/FACorreiaa/hidden-gems/internal/app/models"
)

// LocationProvider is the geolocation collaborator: one lookup yields
// coordinates or a permission/availability failure.
type LocationProvider interface {
	CurrentLocation(ctx context.Context) (models.Location, error)
}

// LocationFunc adapts a function to LocationProvider.
type LocationFunc func(ctx context.Context) (models.Location, error)

func (f LocationFunc) CurrentLocation(ctx context.Context) (models.Location, error) {
	return f(ctx)
}

// ClientLocation is the answer reported by the browser's own geolocation
// prompt.
type ClientLocation struct {
	Granted   bool    `json:"granted"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

var _ LocationProvider = ClientLocation{}

func (c ClientLocation) CurrentLocation(context.Context) (models.Location, error) {
	if !c.Granted {
		return models.Location{}, models.ErrLocationUnavailable
	}
	if !validCoordinate(c.Latitude, 90) || !validCoordinate(c.Longitude, 180) {
		return models.Location{}, fmt.Errorf("%w: coordinates out of range", models.ErrLocationUnavailable)
	}
	return models.Location{Latitude: c.Latitude, Longitude: c.Longitude}, nil
}

func validCoordinate(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v) <= limit
}
