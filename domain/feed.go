package domain

// BucketName identifies one of the three candidate pools blended into a feed.
// The set is closed: slicing and interleaving assume exactly these three.
type BucketName int

const (
	BucketPersonal BucketName = iota
	BucketCategory
	BucketFresh
)

func (b BucketName) String() string {
	switch b {
	case BucketPersonal:
		return "personal"
	case BucketCategory:
		return "category"
	case BucketFresh:
		return "fresh"
	}
	return "unknown"
}

// ScoredCandidate pairs a product id with its model (or fallback) score.
// Larger is better; ties keep retrieval order.
type ScoredCandidate struct {
	ProductID string
	Score     float64
}

// BucketRatios are independent fractions of the final feed size per bucket.
// They need not sum to 1.0; each is floor-rounded to a slot count.
type BucketRatios struct {
	Personal float64
	Category float64
	Fresh    float64
}

// BucketSlices holds the per-bucket id slices handed to the interleaver.
type BucketSlices struct {
	Personal []string
	Category []string
	Fresh    []string
}

// FeedResult is the hydrated, ordered feed returned to the caller.
type FeedResult struct {
	Feed []Product `json:"feed"`
}
