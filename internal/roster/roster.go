// Package roster defines the rider type and the startlist fetcher seam.
package roster

import (
	"context"

	"peloton/internal/registry"
)

// Rider is one startlist entry. Key is the stable source-derived identifier;
// two riders with equal names but different keys are different riders.
type Rider struct {
	Name string
	Key  string
}

// Fetcher retrieves the current startlist for a race.
//
// Implementations signal "startlist unavailable" by returning an empty
// roster and no error; an error means the fetch itself failed and is
// treated the same way by the caller. A fetcher must never invent riders
// for an unpublished startlist.
type Fetcher interface {
	FetchStartlist(ctx context.Context, race registry.Race) ([]Rider, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, race registry.Race) ([]Rider, error)

func (f FetcherFunc) FetchStartlist(ctx context.Context, race registry.Race) ([]Rider, error) {
	return f(ctx, race)
}
