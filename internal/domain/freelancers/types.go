package freelancers

import (
	"math"
	"time"
)

var QueryTimeoutDuration = time.Second * 5

// Aggregate is a freelancer's public rating. It is always derived from the visible
// reviews that name the freelancer as reviewee, never maintained incrementally.
type Aggregate struct {
	FreelancerID int64   `json:"freelancer_id"`
	Average      float64 `json:"average"`
	Count        int     `json:"count"`
}

// ComputeAggregate averages ratings and rounds half-up to two decimals.
func ComputeAggregate(freelancerID int64, ratings []int) Aggregate {
	agg := Aggregate{FreelancerID: freelancerID, Count: len(ratings)}
	if len(ratings) == 0 {
		return agg
	}

	sum := 0
	for _, r := range ratings {
		sum += r
	}
	agg.Average = math.Round(float64(sum)*100/float64(len(ratings))) / 100
	return agg
}
