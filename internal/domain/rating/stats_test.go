package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeStoreStatsEmpty(t *testing.T) {
	stats := ComputeStoreStats(nil)

	assert.Equal(t, int64(0), stats.TotalRatings)
	assert.Equal(t, float64(0), stats.AverageRating)
	assert.False(t, math.IsNaN(stats.AverageRating))
}

func TestComputeStoreStats(t *testing.T) {
	stats := ComputeStoreStats([]int{5, 4, 4, 1})

	assert.Equal(t, int64(4), stats.TotalRatings)
	assert.InDelta(t, 3.5, stats.AverageRating, 1e-9)
	assert.Equal(t, int64(1), stats.FiveStar)
	assert.Equal(t, int64(2), stats.FourStar)
	assert.Equal(t, int64(0), stats.ThreeStar)
	assert.Equal(t, int64(0), stats.TwoStar)
	assert.Equal(t, int64(1), stats.OneStar)
}

func TestHistogram(t *testing.T) {
	stats := ComputeStoreStats([]int{5, 5, 3, 2})

	hist := stats.Histogram()
	assert.Equal(t, int64(2), hist[5])
	assert.Equal(t, int64(0), hist[4])
	assert.Equal(t, int64(1), hist[3])
	assert.Equal(t, int64(1), hist[2])
	assert.Equal(t, int64(0), hist[1])
}

func TestComputeSystemStats(t *testing.T) {
	pairs := []Pair{
		{UserID: 1, StoreID: 10, Value: 5},
		{UserID: 1, StoreID: 11, Value: 3},
		{UserID: 2, StoreID: 10, Value: 4},
	}

	stats := ComputeSystemStats(pairs)
	assert.Equal(t, int64(3), stats.TotalRatings)
	assert.InDelta(t, 4.0, stats.OverallAverage, 1e-9)
	assert.Equal(t, int64(2), stats.RatedStores)
	assert.Equal(t, int64(2), stats.ActiveRaters)
}

func TestComputeSystemStatsEmpty(t *testing.T) {
	stats := ComputeSystemStats(nil)
	assert.Equal(t, int64(0), stats.TotalRatings)
	assert.Equal(t, float64(0), stats.OverallAverage)
	assert.Equal(t, int64(0), stats.RatedStores)
	assert.Equal(t, int64(0), stats.ActiveRaters)
}

func TestValidateValue(t *testing.T) {
	for v := MinValue; v <= MaxValue; v++ {
		assert.NoError(t, ValidateValue(v), "value %d", v)
	}
	assert.Error(t, ValidateValue(0))
	assert.Error(t, ValidateValue(6))
	assert.Error(t, ValidateValue(-1))
}

func TestCanRate(t *testing.T) {
	assert.NoError(t, CanRate(1, 2))
	assert.Error(t, CanRate(2, 2))
}
