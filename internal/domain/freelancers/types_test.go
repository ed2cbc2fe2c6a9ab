package freelancers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeAggregate(t *testing.T) {
	cases := []struct {
		name    string
		ratings []int
		avg     float64
		count   int
	}{
		{name: "none", ratings: nil, avg: 0, count: 0},
		{name: "single", ratings: []int{4}, avg: 4, count: 1},
		{name: "blind_pair", ratings: []int{5, 4}, avg: 4.5, count: 2},
		{name: "repeating_thirds", ratings: []int{5, 4, 4}, avg: 4.33, count: 3},
		{name: "rounds_half_up", ratings: []int{5, 5, 4}, avg: 4.67, count: 3},
		{name: "two_thirds_down", ratings: []int{1, 1, 2}, avg: 1.33, count: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			agg := ComputeAggregate(42, tc.ratings)
			assert.Equal(t, int64(42), agg.FreelancerID)
			assert.Equal(t, tc.avg, agg.Average)
			assert.Equal(t, tc.count, agg.Count)
		})
	}
}

func TestComputeAggregateIsIdempotent(t *testing.T) {
	ratings := []int{5, 3, 4, 4, 2}
	first := ComputeAggregate(7, ratings)
	second := ComputeAggregate(7, ratings)
	assert.Equal(t, first, second)
}
