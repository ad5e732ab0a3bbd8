package rank

import (
	"sort"

	"github.com/nribeiro/voyago/internal/domain"
)

// Flight criterion weights. Price dominates, then total travel time, then
// number of stops.
const (
	flightPriceWeight    = 0.5
	flightDurationWeight = 0.3
	flightStopsWeight    = 0.2
)

// CategorizedFlights holds the named picks and the score-ordered full list.
// All picks are nil and All is empty when the input is empty.
type CategorizedFlights struct {
	Cheapest  *domain.Flight
	Fastest   *domain.Flight
	BestValue *domain.Flight
	// All is a permutation of the input ordered by non-increasing
	// composite score.
	All []domain.Flight
}

// CategorizeFlights computes the cheapest, fastest, and best-value picks for
// a flight result set. All three criteria are inverted: lower price, shorter
// duration, and fewer stops all score higher.
func CategorizeFlights(flights []domain.Flight) CategorizedFlights {
	if len(flights) == 0 {
		return CategorizedFlights{All: []domain.Flight{}}
	}

	prices := make([]float64, len(flights))
	durations := make([]float64, len(flights))
	stops := make([]float64, len(flights))
	for i, f := range flights {
		prices[i] = f.Price.Total
		durations[i] = float64(f.DurationMinutes)
		stops[i] = float64(f.Stops)
	}

	minPrice, maxPrice := minMax(prices)
	minDur, maxDur := minMax(durations)
	minStops, maxStops := minMax(stops)

	scores := make([]float64, len(flights))
	for i := range flights {
		scores[i] = normalizeInverse(prices[i], minPrice, maxPrice)*flightPriceWeight +
			normalizeInverse(durations[i], minDur, maxDur)*flightDurationWeight +
			normalizeInverse(stops[i], minStops, maxStops)*flightStopsWeight
	}

	all := make([]domain.Flight, len(flights))
	order := make([]int, len(flights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	for i, idx := range order {
		all[i] = flights[idx]
	}

	cheapest := flights[0]
	fastest := flights[0]
	for _, f := range flights[1:] {
		if f.Price.Total < cheapest.Price.Total {
			cheapest = f
		}
		if f.DurationMinutes < fastest.DurationMinutes {
			fastest = f
		}
	}
	bestValue := all[0]

	return CategorizedFlights{
		Cheapest:  &cheapest,
		Fastest:   &fastest,
		BestValue: &bestValue,
		All:       all,
	}
}
