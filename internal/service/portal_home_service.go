package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/contactportal/backend/internal/model"
)

// CounterContributor supplies portal home counters.
type CounterContributor interface {
	// PrepareCounters returns values only for the requested counters it knows.
	PrepareCounters(ctx context.Context, user *model.User, counters []string) (map[string]int, error)
	Counters() []string
}

// PortalHomeValues are the values the portal home template renders.
type PortalHomeValues struct {
	PortalLayout
	Counters []string
}

// PortalHomeService builds the /my landing page and its counters.
type PortalHomeService struct {
	contributors []CounterContributor
}

// NewPortalHomeService creates a PortalHomeService.
func NewPortalHomeService(contributors ...CounterContributor) *PortalHomeService {
	return &PortalHomeService{contributors: contributors}
}

// HomeValues returns the layout values of the portal home and the counters
// its template asks for.
func (s *PortalHomeService) HomeValues(user *model.User) *PortalHomeValues {
	var counters []string
	for _, c := range s.contributors {
		counters = append(counters, c.Counters()...)
	}
	return &PortalHomeValues{
		PortalLayout: portalLayout(user, "home"),
		Counters:     counters,
	}
}

// Counters merges the requested counters from every contributor. Unknown
// counter names are absent from the result.
func (s *PortalHomeService) Counters(ctx context.Context, user *model.User, counters []string) (map[string]int, error) {
	values := map[string]int{}
	for _, c := range s.contributors {
		if !slices.ContainsFunc(c.Counters(), func(name string) bool { return slices.Contains(counters, name) }) {
			continue
		}
		v, err := c.PrepareCounters(ctx, user, counters)
		if err != nil {
			return nil, fmt.Errorf("prepare counters: %w", err)
		}
		for k, n := range v {
			values[k] = n
		}
	}
	return values, nil
}
