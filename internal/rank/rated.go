package rank

import (
	"sort"

	"github.com/nribeiro/voyago/internal/domain"
)

// Rated criterion weights, shared by stays and activities/tours.
const (
	ratedPriceWeight  = 0.40
	ratedRatingWeight = 0.35
	ratedReviewWeight = 0.25
)

// wellRatedFloor is the minimum rating a result needs to qualify for the
// "cheapest" pick's preferred pool.
const wellRatedFloor = 4.0

// minReviewsForBestRated is the review count a result needs to qualify for
// the "best rated" pick's preferred pool.
const minReviewsForBestRated = 5

// CategorizedRated holds the named picks and the score-ordered full list for
// any result shape with a price, an optional rating, and a review count.
type CategorizedRated[T any] struct {
	Cheapest  *T
	BestRated *T
	BestValue *T
	// All is a permutation of the input ordered by non-increasing
	// composite score.
	All []T
}

// categorizeRated scores items by inverted price, direct rating (nil counts
// as 0), and direct review count, then derives the three picks:
//
//   - Cheapest prefers items rated at least 4.0 when any exist, otherwise
//     falls back to the globally cheapest.
//   - BestRated prefers items with at least 5 reviews and a non-nil rating
//     when any exist, otherwise the highest rating across the whole set.
//   - BestValue is the top composite score.
//
// First occurrence wins ties in the pick scans (strict comparisons).
func categorizeRated[T any](
	items []T,
	price func(T) float64,
	rating func(T) *float64,
	reviews func(T) int,
) CategorizedRated[T] {
	if len(items) == 0 {
		return CategorizedRated[T]{All: []T{}}
	}

	ratingOrZero := func(it T) float64 {
		if r := rating(it); r != nil {
			return *r
		}
		return 0
	}

	prices := make([]float64, len(items))
	ratings := make([]float64, len(items))
	reviewCounts := make([]float64, len(items))
	for i, it := range items {
		prices[i] = price(it)
		ratings[i] = ratingOrZero(it)
		reviewCounts[i] = float64(reviews(it))
	}

	minPrice, maxPrice := minMax(prices)
	minRating, maxRating := minMax(ratings)
	minReviews, maxReviews := minMax(reviewCounts)

	scores := make([]float64, len(items))
	for i := range items {
		scores[i] = normalizeInverse(prices[i], minPrice, maxPrice)*ratedPriceWeight +
			normalizeDirect(ratings[i], minRating, maxRating)*ratedRatingWeight +
			normalizeDirect(reviewCounts[i], minReviews, maxReviews)*ratedReviewWeight
	}

	all := make([]T, len(items))
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	for i, idx := range order {
		all[i] = items[idx]
	}

	// Cheapest: restrict to well-rated items when any exist.
	cheapestPool := items
	var wellRated []T
	for _, it := range items {
		if r := rating(it); r != nil && *r >= wellRatedFloor {
			wellRated = append(wellRated, it)
		}
	}
	if len(wellRated) > 0 {
		cheapestPool = wellRated
	}
	cheapest := cheapestPool[0]
	for _, it := range cheapestPool[1:] {
		if price(it) < price(cheapest) {
			cheapest = it
		}
	}

	// Best rated: restrict to items with enough reviews when any exist.
	ratingPool := items
	var reviewed []T
	for _, it := range items {
		if reviews(it) >= minReviewsForBestRated && rating(it) != nil {
			reviewed = append(reviewed, it)
		}
	}
	if len(reviewed) > 0 {
		ratingPool = reviewed
	}
	bestRated := ratingPool[0]
	for _, it := range ratingPool[1:] {
		if ratingOrZero(it) > ratingOrZero(bestRated) {
			bestRated = it
		}
	}

	bestValue := all[0]

	return CategorizedRated[T]{
		Cheapest:  &cheapest,
		BestRated: &bestRated,
		BestValue: &bestValue,
		All:       all,
	}
}

// CategorizeStays categorizes accommodation results by nightly price,
// rating, and review count.
func CategorizeStays(stays []domain.Stay) CategorizedRated[domain.Stay] {
	return categorizeRated(stays,
		func(s domain.Stay) float64 { return s.PricePerNight.Total },
		func(s domain.Stay) *float64 { return s.Rating },
		func(s domain.Stay) int { return s.ReviewCount },
	)
}

// CategorizeActivities categorizes tour/activity results by price, rating,
// and review count.
func CategorizeActivities(activities []domain.Activity) CategorizedRated[domain.Activity] {
	return categorizeRated(activities,
		func(a domain.Activity) float64 { return a.Price.Total },
		func(a domain.Activity) *float64 { return a.Rating },
		func(a domain.Activity) int { return a.ReviewCount },
	)
}
