package opensearch

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ncobase/searchkit/data/opensearch/client"
	"github.com/ncobase/searchkit/data/search"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Adapter implements search.Backend on opensearch-go.
type Adapter struct {
	client *client.Client
}

// NewAdapter creates a backend over c
func NewAdapter(c *client.Client) *Adapter {
	return &Adapter{client: c}
}

func (a *Adapter) Type() search.Engine {
	return search.OpenSearch
}

func (a *Adapter) Ping(ctx context.Context) bool {
	res, err := a.client.GetClient().Ping(ctx, &opensearchapi.PingReq{})
	return err == nil && res != nil && !res.IsError()
}

func (a *Adapter) Search(ctx context.Context, index string, body search.Query) (*search.SearchResponse, error) {
	reader, err := client.Encode(body)
	if err != nil {
		return nil, err
	}

	res, err := a.client.GetClient().Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    reader,
		Params:  opensearchapi.SearchParams{TrackTotalHits: true},
	})
	if err != nil {
		return nil, client.WrapError("search", err)
	}
	return convertHits(res.Hits.Total.Value, res.Hits.Hits, res.ScrollID), nil
}

func (a *Adapter) OpenScroll(ctx context.Context, index string, body search.Query, ttl time.Duration, size int) (*search.SearchResponse, error) {
	reader, err := client.Encode(body)
	if err != nil {
		return nil, err
	}

	res, err := a.client.GetClient().Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{index},
		Body:    reader,
		Params: opensearchapi.SearchParams{
			Scroll:         ttl,
			Size:           &size,
			TrackTotalHits: true,
		},
	})
	if err != nil {
		return nil, client.WrapError("scroll", err)
	}
	return convertHits(res.Hits.Total.Value, res.Hits.Hits, res.ScrollID), nil
}

func (a *Adapter) Scroll(ctx context.Context, scrollID string, ttl time.Duration) (*search.SearchResponse, error) {
	res, err := a.client.GetClient().Scroll.Get(ctx, opensearchapi.ScrollGetReq{
		ScrollID: scrollID,
		Params:   opensearchapi.ScrollGetParams{Scroll: ttl},
	})
	if err != nil {
		return nil, client.WrapError("scroll", err)
	}
	return convertHits(res.Hits.Total.Value, res.Hits.Hits, res.ScrollID), nil
}

func (a *Adapter) ClearScroll(ctx context.Context, scrollID string) error {
	res, err := a.client.GetClient().Scroll.Delete(ctx, opensearchapi.ScrollDeleteReq{
		ScrollIDs: []string{scrollID},
	})
	// an already expired cursor answers 404
	if res != nil && res.Inspect().Response != nil && res.Inspect().Response.StatusCode == http.StatusNotFound {
		return nil
	}
	return client.WrapError("clear_scroll", err)
}

func (a *Adapter) Count(ctx context.Context, index string, body search.Query) (int64, error) {
	reader, err := client.Encode(body)
	if err != nil {
		return 0, err
	}

	res, err := a.client.GetClient().Indices.Count(ctx, &opensearchapi.IndicesCountReq{
		Indices: []string{index},
		Body:    reader,
	})
	if err != nil {
		return 0, client.WrapError("count", err)
	}
	return int64(res.Count), nil
}

func (a *Adapter) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := a.client.GetClient().Indices.Exists(ctx, opensearchapi.IndicesExistsReq{
		Indices: []string{index},
	})
	return exists(res, "index_exists", err)
}

func (a *Adapter) CreateIndex(ctx context.Context, index string, body map[string]any) error {
	reader, err := client.Encode(body)
	if err != nil {
		return err
	}

	_, err = a.client.GetClient().Indices.Create(ctx, opensearchapi.IndicesCreateReq{
		Index: index,
		Body:  reader,
	})
	return client.WrapError("create_index", err)
}

func (a *Adapter) IndexDocument(ctx context.Context, index, id string, doc map[string]any, refresh bool) (*search.WriteResult, error) {
	reader, err := client.Encode(doc)
	if err != nil {
		return nil, err
	}

	res, err := a.client.GetClient().Index(ctx, opensearchapi.IndexReq{
		Index:      index,
		DocumentID: id,
		Body:       reader,
		Params:     opensearchapi.IndexParams{Refresh: client.RefreshParam(refresh)},
	})
	if err != nil {
		return nil, client.WrapError("index", err)
	}
	return &search.WriteResult{Result: res.Result, Successful: res.Shards.Successful}, nil
}

func (a *Adapter) DocumentExists(ctx context.Context, index, id string) (bool, error) {
	res, err := a.client.GetClient().Document.Exists(ctx, opensearchapi.DocumentExistsReq{
		Index:      index,
		DocumentID: id,
	})
	return exists(res, "exists", err)
}

func (a *Adapter) UpdateDocument(ctx context.Context, index, id string, doc map[string]any, refresh bool) (*search.WriteResult, error) {
	reader, err := client.Encode(map[string]any{"doc": doc})
	if err != nil {
		return nil, err
	}

	res, err := a.client.GetClient().Update(ctx, opensearchapi.UpdateReq{
		Index:      index,
		DocumentID: id,
		Body:       reader,
		Params:     opensearchapi.UpdateParams{Refresh: client.RefreshParam(refresh)},
	})
	if err != nil {
		return nil, client.WrapError("update", err)
	}
	return &search.WriteResult{Result: res.Result, Successful: res.Shards.Successful}, nil
}

func (a *Adapter) DeleteDocument(ctx context.Context, index, id string, refresh bool) (*search.WriteResult, error) {
	res, err := a.client.GetClient().Document.Delete(ctx, opensearchapi.DocumentDeleteReq{
		Index:      index,
		DocumentID: id,
		Params:     opensearchapi.DocumentDeleteParams{Refresh: client.RefreshParam(refresh)},
	})
	if err != nil {
		return nil, client.WrapError("delete", err)
	}
	return &search.WriteResult{Result: res.Result, Successful: res.Shards.Successful}, nil
}

func (a *Adapter) DeleteByQuery(ctx context.Context, index string, body search.Query, refresh bool) (int64, error) {
	reader, err := client.Encode(body)
	if err != nil {
		return 0, err
	}

	osc := a.client.GetClient()
	res, err := osc.Document.DeleteByQuery(ctx, opensearchapi.DocumentDeleteByQueryReq{
		Indices: []string{index},
		Body:    reader,
		Params:  opensearchapi.DocumentDeleteByQueryParams{Conflicts: "proceed"},
	})
	if err != nil {
		return 0, client.WrapError("delete_by_query", err)
	}

	if refresh {
		if _, err := osc.Indices.Refresh(ctx, &opensearchapi.IndicesRefreshReq{Indices: []string{index}}); err != nil {
			return 0, client.WrapError("refresh", err)
		}
	}
	return int64(res.Deleted), nil
}

func convertHits(total int, hits []opensearchapi.SearchHit, scrollID *string) *search.SearchResponse {
	out := &search.SearchResponse{
		Total: int64(total),
		Hits:  make([]*search.Hit, 0, len(hits)),
	}
	if scrollID != nil {
		out.ScrollID = *scrollID
	}
	for _, h := range hits {
		var source map[string]any
		if len(h.Source) > 0 {
			// a source that is not an object leaves the hit with a nil Source
			_ = json.Unmarshal(h.Source, &source)
		}
		out.Hits = append(out.Hits, &search.Hit{
			Index:  h.Index,
			ID:     h.ID,
			Score:  float64(h.Score),
			Source: source,
		})
	}
	return out
}

func exists(res *opensearch.Response, op string, err error) (bool, error) {
	if res != nil {
		switch res.StatusCode {
		case http.StatusOK:
			return true, nil
		case http.StatusNotFound:
			return false, nil
		}
	}
	if err == nil && res != nil {
		return false, &search.QueryError{Engine: search.OpenSearch, Op: op, Status: res.StatusCode}
	}
	return false, client.WrapError(op, err)
}
