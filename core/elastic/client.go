package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
)

// matchAll is the query body used to scan a whole index.
const matchAll = `{"query":{"match_all":{}}}`

// Hit is a single document returned from an index scan.
type Hit struct {
	// ID is the document identifier (_id).
	ID string `json:"_id"`
	// Source is the document body (_source) as decoded JSON.
	Source map[string]any `json:"_source"`
}

// Page is one batch of hits plus the token needed to fetch the next batch.
type Page struct {
	// Hits are the documents in this batch. Empty when the scan is exhausted.
	Hits []Hit
	// ScrollID is the cursor token for the next ContinueScroll call.
	ScrollID string
}

// Client defines the interface for the Elasticsearch operations the
// comparison needs. Keeping it narrow makes the client easy to mock
// (see core/elastic/mocks).
type Client interface {
	// Ping verifies the service is reachable.
	Ping(ctx context.Context) error
	// IndexExists checks whether an index exists.
	IndexExists(ctx context.Context, index string) (bool, error)
	// Count returns the number of documents in an index.
	Count(ctx context.Context, index string) (int64, error)
	// OpenScroll starts a match-all scan over an index and returns the
	// first page.
	OpenScroll(ctx context.Context, index string, size int, keepAlive time.Duration) (*Page, error)
	// ContinueScroll fetches the next page for a previously opened scroll.
	ContinueScroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*Page, error)
	// ClearScroll releases a server-side scroll context.
	ClearScroll(ctx context.Context, scrollID string) error
	// MultiGet fetches documents by id from an index. The result map only
	// contains ids that were found.
	MultiGet(ctx context.Context, index string, ids []string) (map[string]map[string]any, error)
}

// NewClient creates a new Elasticsearch client based on the configuration.
func NewClient(cfg Config) (Client, error) {
	// Ensure timeout defaults if not set
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Create custom transport with strict timeouts
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{cfg.Host},
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}

	return &clientWrapper{es: es}, nil
}

type clientWrapper struct {
	es *elasticsearch.Client
}

// searchResponse is the subset of the search/scroll reply we decode.
type searchResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// countResponse is the subset of the _count reply we decode.
type countResponse struct {
	Count int64 `json:"count"`
}

// mgetResponse is the subset of the _mget reply we decode.
type mgetResponse struct {
	Docs []struct {
		ID     string         `json:"_id"`
		Found  bool           `json:"found"`
		Source map[string]any `json:"_source"`
	} `json:"docs"`
}

func (c *clientWrapper) Ping(ctx context.Context) error {
	res, err := c.es.Ping(c.es.Ping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apiError("ping", res)
	}
	return nil
}

func (c *clientWrapper) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := c.es.Indices.Exists(
		[]string{index},
		c.es.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("failed to check index %q: %w", index, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if res.IsError() {
		return false, apiError("index exists", res)
	}
	return true, nil
}

func (c *clientWrapper) Count(ctx context.Context, index string) (int64, error) {
	res, err := c.es.Count(
		c.es.Count.WithContext(ctx),
		c.es.Count.WithIndex(index),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count index %q: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, apiError("count", res)
	}

	var out countResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode count response: %w", err)
	}
	return out.Count, nil
}

func (c *clientWrapper) OpenScroll(ctx context.Context, index string, size int, keepAlive time.Duration) (*Page, error) {
	res, err := c.es.Search(
		c.es.Search.WithContext(ctx),
		c.es.Search.WithIndex(index),
		c.es.Search.WithSize(size),
		c.es.Search.WithScroll(keepAlive),
		// _doc sort is the cheapest order for a full scan
		c.es.Search.WithSort("_doc"),
		c.es.Search.WithBody(bytes.NewReader([]byte(matchAll))),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open scroll on %q: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apiError("open scroll", res)
	}
	return decodePage(res.Body)
}

func (c *clientWrapper) ContinueScroll(ctx context.Context, scrollID string, keepAlive time.Duration) (*Page, error) {
	res, err := c.es.Scroll(
		c.es.Scroll.WithContext(ctx),
		c.es.Scroll.WithScrollID(scrollID),
		c.es.Scroll.WithScroll(keepAlive),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to continue scroll: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apiError("continue scroll", res)
	}
	return decodePage(res.Body)
}

func (c *clientWrapper) ClearScroll(ctx context.Context, scrollID string) error {
	res, err := c.es.ClearScroll(
		c.es.ClearScroll.WithContext(ctx),
		c.es.ClearScroll.WithScrollID(scrollID),
	)
	if err != nil {
		return fmt.Errorf("failed to clear scroll: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return apiError("clear scroll", res)
	}
	return nil
}

func (c *clientWrapper) MultiGet(ctx context.Context, index string, ids []string) (map[string]map[string]any, error) {
	if len(ids) == 0 {
		return map[string]map[string]any{}, nil
	}

	body, err := json.Marshal(map[string]any{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("failed to encode mget request: %w", err)
	}

	res, err := c.es.Mget(
		bytes.NewReader(body),
		c.es.Mget.WithContext(ctx),
		c.es.Mget.WithIndex(index),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mget from %q: %w", index, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, apiError("mget", res)
	}

	var out mgetResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode mget response: %w", err)
	}

	docs := make(map[string]map[string]any, len(out.Docs))
	for _, doc := range out.Docs {
		if doc.Found {
			docs[doc.ID] = doc.Source
		}
	}
	return docs, nil
}

func decodePage(r io.Reader) (*Page, error) {
	var out searchResponse
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	return &Page{Hits: out.Hits.Hits, ScrollID: out.ScrollID}, nil
}

// apiError turns a non-2xx Elasticsearch response into an error carrying
// the server-provided reason.
func apiError(op string, res *esapi.Response) error {
	var body struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	if err := json.NewDecoder(res.Body).Decode(&body); err == nil && body.Error.Reason != "" {
		return fmt.Errorf("%s: %s: %s (%s)", op, res.Status(), body.Error.Reason, body.Error.Type)
	}
	return fmt.Errorf("%s: %s", op, res.Status())
}
