package feed

// FilterSeen removes ids present in the shown-set, preserving order.
// Pure function; applying it twice is the same as applying it once.
func FilterSeen(ids []string, shown map[string]struct{}) []string {
	if len(shown) == 0 {
		return ids
	}

	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, seen := shown[id]; seen {
			continue
		}
		out = append(out, id)
	}

	return out
}
