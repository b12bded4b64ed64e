package feed

import "lookFeed/domain"

// interleavePattern is the fixed cadence: three personal picks, then one
// category, then one fresh.
var interleavePattern = [5]domain.BucketName{
	domain.BucketPersonal,
	domain.BucketPersonal,
	domain.BucketPersonal,
	domain.BucketCategory,
	domain.BucketFresh,
}

// drainOrder is also the fallback iteration order when a pattern slot's
// queue is empty.
var drainOrder = [3]domain.BucketName{
	domain.BucketPersonal,
	domain.BucketCategory,
	domain.BucketFresh,
}

type bucketQueues [3][]string

// pop returns the next id from the named queue that has not been emitted
// yet. Duplicates are discarded as they surface, so the result keeps filling
// even when the same id sits in more than one bucket.
func (q *bucketQueues) pop(b domain.BucketName, emitted map[string]struct{}) (string, bool) {
	for len(q[b]) > 0 {
		id := q[b][0]
		q[b] = q[b][1:]
		if _, dup := emitted[id]; dup {
			continue
		}
		return id, true
	}
	return "", false
}

func (q *bucketQueues) empty() bool {
	return len(q[domain.BucketPersonal]) == 0 &&
		len(q[domain.BucketCategory]) == 0 &&
		len(q[domain.BucketFresh]) == 0
}

// Interleave merges the bucket slices into one ordered, de-duplicated
// sequence of at most finalSize ids. Phase one walks the fixed cyclic
// pattern, stealing from the first non-empty queue when the named one has
// run dry so the result keeps filling at the same rate. Phase two drains
// whatever remains in fixed order. First occurrence wins on duplicates.
func Interleave(slices domain.BucketSlices, finalSize int) []string {
	if finalSize <= 0 {
		return nil
	}

	queues := bucketQueues{
		domain.BucketPersonal: slices.Personal,
		domain.BucketCategory: slices.Category,
		domain.BucketFresh:    slices.Fresh,
	}

	emitted := make(map[string]struct{}, finalSize)
	result := make([]string, 0, finalSize)

	appendID := func(id string) {
		emitted[id] = struct{}{}
		result = append(result, id)
	}

	for step := 0; len(result) < finalSize && !queues.empty(); step++ {
		bucket := interleavePattern[step%len(interleavePattern)]

		if id, ok := queues.pop(bucket, emitted); ok {
			appendID(id)
			continue
		}

		for _, fallback := range drainOrder {
			if id, ok := queues.pop(fallback, emitted); ok {
				appendID(id)
				break
			}
		}
	}

	// Can only still be short when the buckets held fewer distinct ids than
	// finalSize; the drain keeps the output as full as the pools allow.
	for _, bucket := range drainOrder {
		for len(result) < finalSize {
			id, ok := queues.pop(bucket, emitted)
			if !ok {
				break
			}
			appendID(id)
		}
	}

	return result
}
