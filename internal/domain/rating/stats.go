package rating

// ===============================
// Derived statistics
// ===============================

// StoreStats is the per-store aggregate: count, arithmetic mean and a
// per-star histogram. Average is 0 when there are no ratings, never NaN.
type StoreStats struct {
	TotalRatings  int64   `json:"total_ratings"`
	AverageRating float64 `json:"average_rating"`

	FiveStar  int64 `json:"five_star"`
	FourStar  int64 `json:"four_star"`
	ThreeStar int64 `json:"three_star"`
	TwoStar   int64 `json:"two_star"`
	OneStar   int64 `json:"one_star"`
}

// Histogram returns the per-value counts indexed by star value.
func (s StoreStats) Histogram() map[int]int64 {
	return map[int]int64{
		1: s.OneStar,
		2: s.TwoStar,
		3: s.ThreeStar,
		4: s.FourStar,
		5: s.FiveStar,
	}
}

type SystemStats struct {
	TotalRatings   int64   `json:"total_ratings"`
	OverallAverage float64 `json:"overall_average"`
	RatedStores    int64   `json:"rated_stores"`
	ActiveRaters   int64   `json:"active_raters"`
}

// ComputeStoreStats recomputes the aggregate from scratch on every call.
func ComputeStoreStats(values []int) StoreStats {
	var stats StoreStats
	var sum int64
	for _, v := range values {
		stats.TotalRatings++
		sum += int64(v)
		switch v {
		case 1:
			stats.OneStar++
		case 2:
			stats.TwoStar++
		case 3:
			stats.ThreeStar++
		case 4:
			stats.FourStar++
		case 5:
			stats.FiveStar++
		}
	}
	if stats.TotalRatings > 0 {
		stats.AverageRating = float64(sum) / float64(stats.TotalRatings)
	}
	return stats
}

// ComputeSystemStats aggregates across every (user, store) rating pair.
func ComputeSystemStats(pairs []Pair) SystemStats {
	var stats SystemStats
	var sum int64
	stores := make(map[uint]struct{})
	raters := make(map[uint]struct{})
	for _, p := range pairs {
		stats.TotalRatings++
		sum += int64(p.Value)
		stores[p.StoreID] = struct{}{}
		raters[p.UserID] = struct{}{}
	}
	if stats.TotalRatings > 0 {
		stats.OverallAverage = float64(sum) / float64(stats.TotalRatings)
	}
	stats.RatedStores = int64(len(stores))
	stats.ActiveRaters = int64(len(raters))
	return stats
}

// Pair is the minimal projection of a rating used by system-wide stats.
type Pair struct {
	UserID  uint
	StoreID uint
	Value   int
}
