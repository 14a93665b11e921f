package search

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/buger/jsonparser"

	"github.com/kailas-cloud/coursedex/internal/domain"
	"github.com/kailas-cloud/coursedex/internal/domain/search/result"
)

// Parse reads hits, total and took from responses[0] and facet buckets from
// responses[i+1] for facetNames[i]. Missing facet data yields an empty bucket list.
func Parse(responses []json.RawMessage, facetNames []string) (result.Response, error) {
	if len(responses) == 0 {
		return result.Response{}, fmt.Errorf("%w: empty response batch", domain.ErrIndexUnavailable)
	}
	base := responses[0]

	hits, err := parseHits(base)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	total, err := parseTotal(base)
	if err != nil {
		return result.Response{}, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	took, err := jsonparser.GetInt(base, "took")
	if err != nil && !errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return result.Response{}, fmt.Errorf("%w: parse took: %w", domain.ErrIndexUnavailable, err)
	}

	facets := make(map[string][]result.Bucket, len(facetNames))
	for i, name := range facetNames {
		if i+1 >= len(responses) {
			facets[name] = []result.Bucket{}
			continue
		}
		facets[name] = parseBuckets(responses[i+1], name)
	}

	return result.Response{
		Hits:   hits,
		Total:  total,
		TookMs: int(took),
		Facets: facets,
	}, nil
}

func parseHits(data []byte) ([]domain.DocumentRef, error) {
	hits := []domain.DocumentRef{}
	var itemErr error
	_, err := jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, err error) {
		if err != nil || itemErr != nil {
			return
		}
		id, err := jsonparser.GetString(value, "_id")
		if err != nil {
			itemErr = fmt.Errorf("hit %d: missing _id", len(hits))
			return
		}
		index, _ := jsonparser.GetString(value, "_index")
		score, _ := jsonparser.GetFloat(value, "_score")
		hits = append(hits, domain.DocumentRef{
			ID:    id,
			Kind:  hitKind(value),
			Index: index,
			Score: score,
		})
	}, "hits", "hits")
	if err != nil {
		return nil, fmt.Errorf("parse hits: %w", err)
	}
	if itemErr != nil {
		return nil, fmt.Errorf("parse hits: %w", itemErr)
	}
	return hits, nil
}

func hitKind(hit []byte) domain.Kind {
	if t, err := jsonparser.GetString(hit, "_source", "type"); err == nil {
		if k := domain.Kind(t); k.IsValid() {
			return k
		}
	}
	if _, _, _, err := jsonparser.Get(hit, "_source", "employee"); err == nil {
		return domain.KindEmployee
	}
	return domain.KindClass
}

// parseTotal accepts both {"total": {"value": n}} and the legacy {"total": n}.
func parseTotal(data []byte) (int, error) {
	value, typ, _, err := jsonparser.Get(data, "hits", "total")
	if err != nil {
		if errors.Is(err, jsonparser.KeyPathNotFoundError) {
			return 0, nil
		}
		return 0, fmt.Errorf("parse total: %w", err)
	}
	switch typ {
	case jsonparser.Number:
		n, err := jsonparser.ParseInt(value)
		if err != nil {
			return 0, fmt.Errorf("parse total: %w", err)
		}
		return int(n), nil
	case jsonparser.Object:
		n, err := jsonparser.GetInt(value, "value")
		if err != nil {
			return 0, fmt.Errorf("parse total value: %w", err)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("parse total: unexpected %s", typ)
	}
}

func parseBuckets(data []byte, name string) []result.Bucket {
	buckets := []result.Bucket{}
	_, err := jsonparser.ArrayEach(data, func(value []byte, _ jsonparser.ValueType, _ int, err error) {
		if err != nil {
			return
		}
		key, ok := bucketKey(value)
		if !ok {
			return
		}
		count, _ := jsonparser.GetInt(value, "doc_count")
		buckets = append(buckets, result.Bucket{Value: key, Count: int(count)})
	}, "aggregations", name, "buckets")
	if err != nil {
		return []result.Bucket{}
	}
	return buckets
}

func bucketKey(bucket []byte) (string, bool) {
	value, typ, _, err := jsonparser.Get(bucket, "key")
	if err != nil {
		return "", false
	}
	switch typ {
	case jsonparser.String:
		s, err := jsonparser.ParseString(value)
		if err != nil {
			return "", false
		}
		return s, true
	case jsonparser.Number:
		return string(value), true
	case jsonparser.Boolean:
		b, err := jsonparser.ParseBoolean(value)
		if err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	default:
		return "", false
	}
}
