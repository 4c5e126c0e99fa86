package route

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLocationRequired is returned when route generation gets a blank location.
	ErrLocationRequired = errors.New("location is required")
	// ErrNoUser is returned when route generation has no signed-in user.
	ErrNoUser = errors.New("no user signed in")
	// ErrFetchFailed wraps any prospect source failure.
	ErrFetchFailed = errors.New("failed to generate route")
)

// Fetcher returns prospective clients near a location.
type Fetcher interface {
	FetchProspects(ctx context.Context, location string) ([]Candidate, error)
}

// Service generates routes from a prospect source and a visit ledger.
type Service struct {
	fetcher Fetcher
	ledger  Ledger
}

// NewService creates a route service.
func NewService(fetcher Fetcher, l Ledger) *Service {
	return &Service{fetcher: fetcher, ledger: l}
}

// Generate fetches prospects near location and annotates them with the user's
// visit history. This is the only operation that calls the prospect source.
func (s *Service) Generate(ctx context.Context, username, location string) (*Route, error) {
	if username == "" {
		return nil, ErrNoUser
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrLocationRequired
	}

	candidates, err := s.fetcher.FetchProspects(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	prospects := Merge(candidates, s.ledger.List(username))
	return New(username, s.ledger, prospects), nil
}

// Ledger returns the ledger routes write through to.
func (s *Service) Ledger() Ledger {
	return s.ledger
}
