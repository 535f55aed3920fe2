package search

// Normalize converts a backend response into a Result, dropping null or
// empty hits and keeping order. A nil response yields an empty result.
func Normalize(resp *SearchResponse) *Result {
	if resp == nil {
		return &Result{Data: []Hit{}}
	}
	return &Result{Data: normalizeHits(resp.Hits), Total: resp.Total}
}

func normalizeHits(hits []*Hit) []Hit {
	data := make([]Hit, 0, len(hits))
	for _, h := range hits {
		if h.IsZero() {
			continue
		}
		data = append(data, *h)
	}
	return data
}
