package service

import (
	"context"

	"github.com/nribeiro/voyago/internal/domain"
	"github.com/nribeiro/voyago/internal/fanout"
	"github.com/nribeiro/voyago/internal/provider"
	"github.com/nribeiro/voyago/internal/rank"
	"github.com/nribeiro/voyago/internal/upstream"
)

// homeSliceSize caps each content section on the home page.
const homeSliceSize = 3

// ShowcaseSource supplies the curated content the showcase endpoints serve.
// Backed by the embedded fixture set regardless of mock mode: showcase
// content is editorial, not live search data.
type ShowcaseSource interface {
	ShowcaseData() provider.Showcase
	ShowcaseStays() []domain.Stay
	ShowcaseActivities() []domain.Activity
}

// FlightShowcase is the flight landing page content: categorized deals plus
// destination imagery.
type FlightShowcase struct {
	Deals        []domain.Flight                `json:"deals"`
	Cheapest     *domain.Flight                 `json:"cheapest"`
	Fastest      *domain.Flight                 `json:"fastest"`
	BestValue    *domain.Flight                 `json:"bestValue"`
	Destinations []provider.FeaturedDestination `json:"destinations"`
}

// HotelShowcase is the hotel landing page content.
type HotelShowcase struct {
	Stays     []domain.Stay `json:"stays"`
	Cheapest  *domain.Stay  `json:"cheapest"`
	BestRated *domain.Stay  `json:"bestRated"`
	BestValue *domain.Stay  `json:"bestValue"`
}

// TourShowcase is the tour landing page content.
type TourShowcase struct {
	Tours     []domain.Activity `json:"tours"`
	BestRated *domain.Activity  `json:"bestRated"`
	BestValue *domain.Activity  `json:"bestValue"`
}

// HomeSection pairs a content slice with the error that degraded it, so one
// failed section never blanks the whole page.
type HomeSection[T any] struct {
	Data  T                  `json:"data"`
	Error *upstream.AppError `json:"error,omitempty"`
}

// HomeShowcase is the aggregate home page payload.
type HomeShowcase struct {
	FeaturedDestinations HomeSection[[]provider.FeaturedDestination] `json:"featuredDestinations"`
	FlightDeals          HomeSection[[]domain.Flight]                `json:"flightDeals"`
	TopStays             HomeSection[[]domain.Stay]                  `json:"topStays"`
	TopTours             HomeSection[[]domain.Activity]              `json:"topTours"`
	Stats                provider.ShowcaseStats                      `json:"stats"`
}

// ShowcaseService assembles the curated landing page content. Flight deals
// and rated sets go through the categorizers so the client gets the same
// picks the search pages would compute.
type ShowcaseService struct {
	source ShowcaseSource
}

// NewShowcaseService constructs a ShowcaseService over the given source.
func NewShowcaseService(source ShowcaseSource) *ShowcaseService {
	return &ShowcaseService{source: source}
}

// Flights returns the flight landing page content.
func (s *ShowcaseService) Flights(context.Context) FlightShowcase {
	data := s.source.ShowcaseData()
	categorized := rank.CategorizeFlights(data.FlightDeals)
	return FlightShowcase{
		Deals:        categorized.All,
		Cheapest:     categorized.Cheapest,
		Fastest:      categorized.Fastest,
		BestValue:    categorized.BestValue,
		Destinations: data.FeaturedDestinations,
	}
}

// Hotels returns the hotel landing page content.
func (s *ShowcaseService) Hotels(context.Context) HotelShowcase {
	categorized := rank.CategorizeStays(s.source.ShowcaseStays())
	return HotelShowcase{
		Stays:     categorized.All,
		Cheapest:  categorized.Cheapest,
		BestRated: categorized.BestRated,
		BestValue: categorized.BestValue,
	}
}

// Tours returns the tour landing page content.
func (s *ShowcaseService) Tours(context.Context) TourShowcase {
	categorized := rank.CategorizeActivities(s.source.ShowcaseActivities())
	return TourShowcase{
		Tours:     categorized.All,
		BestRated: categorized.BestRated,
		BestValue: categorized.BestValue,
	}
}

// Home assembles the home page: the sections are fetched concurrently and a
// failing section degrades to its fallback plus an error descriptor instead
// of failing the page.
func (s *ShowcaseService) Home(ctx context.Context) HomeShowcase {
	data := s.source.ShowcaseData()

	destinations := fanout.Go(ctx, "showcase", nil, func(context.Context) ([]provider.FeaturedDestination, error) {
		return data.FeaturedDestinations, nil
	})
	flights := fanout.Go(ctx, "showcase", nil, func(ctx context.Context) ([]domain.Flight, error) {
		return topN(s.Flights(ctx).Deals, homeSliceSize), nil
	})
	stays := fanout.Go(ctx, "showcase", nil, func(ctx context.Context) ([]domain.Stay, error) {
		return topN(s.Hotels(ctx).Stays, homeSliceSize), nil
	})
	tours := fanout.Go(ctx, "showcase", nil, func(ctx context.Context) ([]domain.Activity, error) {
		return topN(s.Tours(ctx).Tours, homeSliceSize), nil
	})

	return HomeShowcase{
		FeaturedDestinations: section(destinations.Wait()),
		FlightDeals:          section(flights.Wait()),
		TopStays:             section(stays.Wait()),
		TopTours:             section(tours.Wait()),
		Stats:                data.Stats,
	}
}

// section converts a fanout result into the wire section shape.
func section[T any](r fanout.Result[T]) HomeSection[T] {
	return HomeSection[T]{Data: r.Data, Error: r.Err}
}

// topN returns the first n elements without reslicing past the end.
func topN[T any](items []T, n int) []T {
	if len(items) < n {
		n = len(items)
	}
	return items[:n]
}
