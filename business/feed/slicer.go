package feed

import "lookFeed/domain"

// SliceBuckets allocates finalSize slots across the three scored buckets by
// ratio. Each ratio is floored independently, so the three slices may
// undershoot finalSize; the deficit is backfilled only from the personal
// bucket's next-ranked, not-yet-taken entries. Ratios express a target mix,
// not a hard guarantee.
func SliceBuckets(
	personal, category, fresh []domain.ScoredCandidate,
	finalSize int,
	ratios domain.BucketRatios,
) domain.BucketSlices {
	nPersonal := int(ratios.Personal * float64(finalSize))
	nCategory := int(ratios.Category * float64(finalSize))
	nFresh := int(ratios.Fresh * float64(finalSize))

	slices := domain.BucketSlices{
		Personal: takeIDs(personal, nPersonal),
		Category: takeIDs(category, nCategory),
		Fresh:    takeIDs(fresh, nFresh),
	}

	combined := len(slices.Personal) + len(slices.Category) + len(slices.Fresh)
	if combined < finalSize {
		deficit := finalSize - combined
		end := nPersonal + deficit
		if end > len(personal) {
			end = len(personal)
		}
		if nPersonal < end {
			for _, c := range personal[nPersonal:end] {
				slices.Personal = append(slices.Personal, c.ProductID)
			}
		}
	}

	return slices
}

func takeIDs(candidates []domain.ScoredCandidate, n int) []string {
	if n > len(candidates) {
		n = len(candidates)
	}
	if n < 0 {
		n = 0
	}

	out := make([]string, 0, n)
	for _, c := range candidates[:n] {
		out = append(out, c.ProductID)
	}

	return out
}
