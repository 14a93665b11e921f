package result

import "github.com/kailas-cloud/coursedex/internal/domain"

// Bucket is one facet value with the number of matching documents.
type Bucket struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Response is the parsed outcome of one batched search call.
type Response struct {
	Hits   []domain.DocumentRef
	Total  int
	TookMs int
	Facets map[string][]Bucket
}

// Result is a hydrated search response ready for the caller.
type Result struct {
	Items  []domain.SearchItem
	Total  int
	TookMs int
	Facets map[string][]Bucket
}

// FacetOptions returns buckets for every name, substituting empty lists for missing facets.
func (r *Result) FacetOptions(names []string) map[string][]Bucket {
	out := make(map[string][]Bucket, len(names))
	for _, n := range names {
		b := r.Facets[n]
		if b == nil {
			b = []Bucket{}
		}
		out[n] = b
	}
	return out
}
