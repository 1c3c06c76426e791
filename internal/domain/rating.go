package domain

import (
	"math"
	"strconv"
	"time"
)

// Rating value bounds.
const (
	MinRatingValue = 1
	MaxRatingValue = 5
)

// AverageNotAvailable is the aggregate average for a store with no ratings.
// Rendered as-is to clients; never a numeric placeholder.
const AverageNotAvailable = "not available"

// Rating represents a single user's rating of a store. At most one row exists
// per (user, store) pair; resubmitting overwrites the value in place.
type Rating struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	StoreID   string    `json:"store_id"`
	Value     int       `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RatingAggregate is the derived count/average for one store. It is computed
// fresh from rating rows on every read and never persisted.
type RatingAggregate struct {
	Count   int    `json:"count"`
	Average string `json:"average"`
}

// AggregateRatings computes the aggregate for storeID from raw rating rows.
// The average is the arithmetic mean rounded to one decimal, ties rounded
// away from zero: a mean of 4.25 renders "4.3", not "4.2".
func AggregateRatings(storeID string, ratings []Rating) RatingAggregate {
	var sum, count int
	for _, r := range ratings {
		if r.StoreID != storeID {
			continue
		}
		sum += r.Value
		count++
	}

	if count == 0 {
		return RatingAggregate{Count: 0, Average: AverageNotAvailable}
	}

	// math.Round rounds half away from zero; FormatFloat alone would round
	// ties to even and turn 4.25 into "4.2".
	avg := math.Round(float64(sum)/float64(count)*10) / 10
	return RatingAggregate{
		Count:   count,
		Average: strconv.FormatFloat(avg, 'f', 1, 64),
	}
}
