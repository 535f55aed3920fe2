package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/ncobase/searchkit/data/search"
)

// Client Elasticsearch client
type Client struct {
	client *elasticsearch.Client
}

// NewClient new Elasticsearch client
func NewClient(addresses []string, username, password string) (*Client, error) {
	if len(addresses) == 0 {
		return nil, errors.New("elasticsearch addresses are empty")
	}

	cfg := elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}

	return &Client{client: es}, nil
}

// GetClient get Elasticsearch client
func (c *Client) GetClient() *elasticsearch.Client {
	return c.client
}

// IndexDocument index document to Elasticsearch, returning the raw acknowledgement.
// An empty documentID lets Elasticsearch assign one.
func (c *Client) IndexDocument(ctx context.Context, indexName, documentID string, document any, refresh bool) (*esapi.Response, error) {
	if c == nil || c.client == nil {
		return nil, errors.New("elasticsearch client is nil, cannot index documents")
	}

	body, err := Encode(document)
	if err != nil {
		return nil, err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: documentID,
		Body:       body,
		Refresh:    RefreshParam(refresh),
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch indexing error: %w", err)
	}
	return res, nil
}

// Encode marshals v into a request body
func Encode(v any) (io.Reader, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error encoding body: %w", err)
	}
	return bytes.NewReader(data), nil
}

// Decode closes res and decodes its body into out. A response with an error
// status becomes a *search.QueryError.
func Decode(res *esapi.Response, op string, out any) error {
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	if res.IsError() {
		return ResponseError(res, op)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("elasticsearch %s parsing error: %w", op, err)
	}
	return nil
}

// ResponseError converts an error response into a *search.QueryError.
func ResponseError(res *esapi.Response, op string) error {
	qe := &search.QueryError{Engine: search.Elasticsearch, Op: op, Status: res.StatusCode}

	var body struct {
		Error json.RawMessage `json:"error"`
	}
	if res.Body == nil || json.NewDecoder(res.Body).Decode(&body) != nil || len(body.Error) == 0 {
		return qe
	}

	var structured struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if json.Unmarshal(body.Error, &structured) == nil && structured.Type != "" {
		qe.Reason = structured.Type + ": " + structured.Reason
		return qe
	}

	var reason string
	if json.Unmarshal(body.Error, &reason) == nil {
		qe.Reason = reason
	}
	return qe
}

// RefreshParam renders the refresh flag for single-document writes
func RefreshParam(refresh bool) string {
	if refresh {
		return "true"
	}
	return "false"
}
