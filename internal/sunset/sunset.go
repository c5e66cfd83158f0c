// Package sunset provides sources of today's sunset time.
package sunset

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Source names accepted by sunset.source.
const (
	SourceAPI   = "api"
	SourceLocal = "local"
)

var (
	// ErrTransient covers transport failures and non-200 responses.
	ErrTransient = errors.New("sunset source unavailable")
	// ErrMalformed covers undecodable bodies and missing fields.
	ErrMalformed = errors.New("malformed sunset response")
	// ErrUnknownSource is returned by New for an unsupported source.
	ErrUnknownSource = errors.New("unknown sunset source")
)

// Fetcher returns today's sunset as an ISO-8601 UTC string.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lng float64) (string, error)
}

// New builds the fetcher for source.
func New(source string, api *APIClient, local *SolarCalculator) (Fetcher, error) {
	switch strings.ToLower(strings.TrimSpace(source)) {
	case SourceAPI, "":
		return api, nil
	case SourceLocal:
		return local, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
}
