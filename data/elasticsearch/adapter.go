package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/ncobase/searchkit/data/elasticsearch/client"
	"github.com/ncobase/searchkit/data/search"
)

// Adapter implements search.Backend on go-elasticsearch.
type Adapter struct {
	client *client.Client
}

// NewAdapter creates a backend over c
func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.Elasticsearch
}

// Ping reports whether the cluster answers.
func (a *Adapter) Ping(ctx context.Context) bool {
	es := a.client.GetClient()
	res, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

func (a *Adapter) Search(ctx context.Context, index string, body search.Query) (*search.SearchResponse, error) {
	reader, err := client.Encode(body)
	if err != nil {
		return nil, err
	}

	es := a.client.GetClient()
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(reader),
		es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search error: %w", err)
	}
	return decodeHits(res, "search")
}

func (a *Adapter) OpenScroll(ctx context.Context, index string, body search.Query, ttl time.Duration, size int) (*search.SearchResponse, error) {
	reader, err := client.Encode(body)
	if err != nil {
		return nil, err
	}

	es := a.client.GetClient()
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(reader),
		es.Search.WithTrackTotalHits(true),
		es.Search.WithScroll(ttl),
		es.Search.WithSize(size),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch scroll error: %w", err)
	}
	return decodeHits(res, "scroll")
}

func (a *Adapter) Scroll(ctx context.Context, scrollID string, ttl time.Duration) (*search.SearchResponse, error) {
	es := a.client.GetClient()
	res, err := es.Scroll(
		es.Scroll.WithContext(ctx),
		es.Scroll.WithScrollID(scrollID),
		es.Scroll.WithScroll(ttl),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch scroll error: %w", err)
	}
	return decodeHits(res, "scroll")
}

func (a *Adapter) ClearScroll(ctx context.Context, scrollID string) error {
	es := a.client.GetClient()
	res, err := es.ClearScroll(
		es.ClearScroll.WithContext(ctx),
		es.ClearScroll.WithScrollID(scrollID),
	)
	if err != nil {
		return fmt.Errorf("elasticsearch clear scroll error: %w", err)
	}
	// an already expired cursor answers 404
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return nil
	}
	return client.Decode(res, "clear_scroll", nil)
}

func (a *Adapter) Count(ctx context.Context, index string, body search.Query) (int64, error) {
	reader, err := client.Encode(body)
	if err != nil {
		return 0, err
	}

	es := a.client.GetClient()
	res, err := es.Count(
		es.Count.WithContext(ctx),
		es.Count.WithIndex(index),
		es.Count.WithBody(reader),
	)
	if err != nil {
		return 0, fmt.Errorf("elasticsearch count error: %w", err)
	}

	var out struct {
		Count int64 `json:"count"`
	}
	if err := client.Decode(res, "count", &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

func (a *Adapter) IndexExists(ctx context.Context, index string) (bool, error) {
	es := a.client.GetClient()
	res, err := es.Indices.Exists([]string{index}, es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to check elasticsearch index existence: %w", err)
	}
	return exists(res, "index_exists")
}

func (a *Adapter) CreateIndex(ctx context.Context, index string, body map[string]any) error {
	reader, err := client.Encode(body)
	if err != nil {
		return err
	}

	es := a.client.GetClient()
	res, err := es.Indices.Create(index,
		es.Indices.Create.WithContext(ctx),
		es.Indices.Create.WithBody(reader),
	)
	if err != nil {
		return fmt.Errorf("failed to create elasticsearch index: %w", err)
	}
	return client.Decode(res, "create_index", nil)
}

func (a *Adapter) IndexDocument(ctx context.Context, index, id string, doc map[string]any, refresh bool) (*search.WriteResult, error) {
	res, err := a.client.IndexDocument(ctx, index, id, doc, refresh)
	if err != nil {
		return nil, err
	}
	return decodeWrite(res, "index")
}

func (a *Adapter) DocumentExists(ctx context.Context, index, id string) (bool, error) {
	es := a.client.GetClient()
	res, err := es.Exists(index, id, es.Exists.WithContext(ctx))
	if err != nil {
		return false, fmt.Errorf("failed to check elasticsearch document existence: %w", err)
	}
	return exists(res, "exists")
}

func (a *Adapter) UpdateDocument(ctx context.Context, index, id string, doc map[string]any, refresh bool) (*search.WriteResult, error) {
	reader, err := client.Encode(map[string]any{"doc": doc})
	if err != nil {
		return nil, err
	}

	es := a.client.GetClient()
	res, err := es.Update(index, id, reader,
		es.Update.WithContext(ctx),
		es.Update.WithRefresh(client.RefreshParam(refresh)),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch update error: %w", err)
	}
	return decodeWrite(res, "update")
}

func (a *Adapter) DeleteDocument(ctx context.Context, index, id string, refresh bool) (*search.WriteResult, error) {
	es := a.client.GetClient()
	res, err := es.Delete(index, id,
		es.Delete.WithContext(ctx),
		es.Delete.WithRefresh(client.RefreshParam(refresh)),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch deletion error: %w", err)
	}
	return decodeWrite(res, "delete")
}

func (a *Adapter) DeleteByQuery(ctx context.Context, index string, body search.Query, refresh bool) (int64, error) {
	reader, err := client.Encode(body)
	if err != nil {
		return 0, err
	}

	es := a.client.GetClient()
	res, err := es.DeleteByQuery([]string{index}, reader,
		es.DeleteByQuery.WithContext(ctx),
		es.DeleteByQuery.WithConflicts("proceed"),
		es.DeleteByQuery.WithRefresh(refresh),
	)
	if err != nil {
		return 0, fmt.Errorf("elasticsearch delete by query error: %w", err)
	}

	var out struct {
		Deleted int64 `json:"deleted"`
	}
	if err := client.Decode(res, "delete_by_query", &out); err != nil {
		return 0, err
	}
	return out.Deleted, nil
}

type rawHit struct {
	Index  string         `json:"_index"`
	ID     string         `json:"_id"`
	Score  *float64       `json:"_score"`
	Source map[string]any `json:"_source"`
}

type rawSearch struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Total json.RawMessage `json:"total"`
		Hits  []*rawHit       `json:"hits"`
	} `json:"hits"`
}

func decodeHits(res *esapi.Response, op string) (*search.SearchResponse, error) {
	var raw rawSearch
	if err := client.Decode(res, op, &raw); err != nil {
		return nil, err
	}

	out := &search.SearchResponse{
		Total:    totalHits(raw.Hits.Total),
		Hits:     make([]*search.Hit, len(raw.Hits.Hits)),
		ScrollID: raw.ScrollID,
	}
	for i, h := range raw.Hits.Hits {
		if h == nil {
			continue
		}
		hit := &search.Hit{Index: h.Index, ID: h.ID, Source: h.Source}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits[i] = hit
	}
	return out, nil
}

// totalHits reads hits.total as an object or, on older clusters, a number.
func totalHits(raw json.RawMessage) int64 {
	if len(raw) == 0 {
		return 0
	}
	var obj struct {
		Value int64 `json:"value"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		return obj.Value
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	return 0
}

func decodeWrite(res *esapi.Response, op string) (*search.WriteResult, error) {
	var raw struct {
		Result string `json:"result"`
		Shards struct {
			Successful int `json:"successful"`
		} `json:"_shards"`
	}
	if err := client.Decode(res, op, &raw); err != nil {
		return nil, err
	}
	return &search.WriteResult{Result: raw.Result, Successful: raw.Shards.Successful}, nil
}

func exists(res *esapi.Response, op string) (bool, error) {
	switch res.StatusCode {
	case http.StatusOK:
		res.Body.Close()
		return true, nil
	case http.StatusNotFound:
		res.Body.Close()
		return false, nil
	default:
		return false, client.Decode(res, op, nil)
	}
}
