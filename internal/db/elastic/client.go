// Package elastic is the search index client: batched _msearch over go-elasticsearch.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"github.com/elastic/go-elasticsearch/v8"
	jsoniter "github.com/json-iterator/go"

	"github.com/kailas-cloud/coursedex/internal/db"
	"github.com/kailas-cloud/coursedex/internal/domain"
	"github.com/kailas-cloud/coursedex/internal/metrics"
)

// Config holds connection parameters for the index cluster.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	APIKey    string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client runs batched searches against Elasticsearch.
type Client struct {
	es      *elasticsearch.Client
	timeout time.Duration
}

// NewClient creates an index client. Nothing is dialed until the first request.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}
	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		APIKey:    cfg.APIKey,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Client{es: es, timeout: cfg.Timeout}, nil
}

// Ping checks cluster connectivity.
func (c *Client) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return &db.Error{Op: db.OpPing, Err: fmt.Errorf("status %d", res.StatusCode)}
	}
	return nil
}

// MultiSearch sends bodies as one _msearch request across indices and returns
// one raw response per body, in order. Any failed item fails the batch.
func (c *Client) MultiSearch(
	ctx context.Context, indices []string, bodies []map[string]any,
) ([]json.RawMessage, error) {
	if len(bodies) == 0 {
		return nil, nil
	}
	parent := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	payload, err := EncodeNDJSON(bodies)
	if err != nil {
		return nil, fmt.Errorf("encode msearch: %w", err)
	}

	metrics.MultiSearchQueries.Observe(float64(len(bodies)))
	start := time.Now()
	responses, err := c.msearch(ctx, indices, payload, len(bodies))
	if err != nil && parent.Err() != nil {
		// The caller gave up; that is not an index outage.
		err = parent.Err()
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.MultiSearchDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return responses, err
}

func (c *Client) msearch(
	ctx context.Context, indices []string, payload []byte, want int,
) ([]json.RawMessage, error) {
	res, err := c.es.Msearch(bytes.NewReader(payload),
		c.es.Msearch.WithContext(ctx),
		c.es.Msearch.WithIndex(indices...),
	)
	if err != nil {
		// Our own index.timeout_ms deadline lands here too.
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, &db.Error{Op: db.OpMultiSearch, Err: err})
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrIndexUnavailable, err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable,
			&db.Error{Op: db.OpMultiSearch, Err: statusError(res.StatusCode, body)})
	}

	responses, err := SplitResponses(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}
	if len(responses) != want {
		return nil, fmt.Errorf("%w: sent %d queries, got %d responses",
			domain.ErrIndexUnavailable, want, len(responses))
	}
	return responses, nil
}

// EncodeNDJSON renders bodies as _msearch header/body line pairs.
// Headers are empty; target indices go on the request path.
func EncodeNDJSON(bodies []map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	for i, body := range bodies {
		line, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		buf.WriteString("{}\n")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// SplitResponses extracts the per-query items of an _msearch envelope.
// An item carrying an "error" object fails the whole batch.
func SplitResponses(envelope []byte) ([]json.RawMessage, error) {
	var (
		out     []json.RawMessage
		itemErr error
	)
	_, err := jsonparser.ArrayEach(envelope, func(value []byte, typ jsonparser.ValueType, _ int, err error) {
		if err != nil || itemErr != nil {
			return
		}
		if typ != jsonparser.Object {
			itemErr = fmt.Errorf("response %d: not an object", len(out))
			return
		}
		if reason, ok := itemError(value); ok {
			itemErr = fmt.Errorf("response %d: %s", len(out), reason)
			return
		}
		item := make(json.RawMessage, len(value))
		copy(item, value)
		out = append(out, item)
	}, "responses")
	if err != nil {
		return nil, fmt.Errorf("parse responses: %w", err)
	}
	if itemErr != nil {
		return nil, itemErr
	}
	return out, nil
}

func itemError(item []byte) (string, bool) {
	errVal, typ, _, err := jsonparser.Get(item, "error")
	if err != nil {
		return "", false
	}
	if typ == jsonparser.Object {
		if reason, err := jsonparser.GetString(errVal, "reason"); err == nil {
			return reason, true
		}
		if t, err := jsonparser.GetString(errVal, "type"); err == nil {
			return t, true
		}
	}
	return string(errVal), true
}

func statusError(code int, body []byte) error {
	if reason, err := jsonparser.GetString(body, "error", "reason"); err == nil {
		return fmt.Errorf("status %d: %s", code, reason)
	}
	return fmt.Errorf("status %s", strconv.Itoa(code))
}
