package client

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/ncobase/searchkit/data/search"
	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// Client OpenSearch client
type Client struct {
	client *opensearchapi.Client
}

// NewClient creates a new OpenSearch client
func NewClient(addresses []string, username, password string, insecure bool) (*Client, error) {
	if len(addresses) == 0 {
		return nil, errors.New("opensearch addresses are empty")
	}

	// Configure transport with TLS options
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: insecure,
		},
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:  addresses,
				Username:   username,
				Password:   password,
				Transport:  transport,
				MaxRetries: 3,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	return &Client{client: client}, nil
}

// GetClient returns the OpenSearch client
func (c *Client) GetClient() *opensearchapi.Client {
	return c.client
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

// WrapError turns an OpenSearch error response into a *search.QueryError.
// Transport failures are returned wrapped but otherwise untouched.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var structErr *opensearch.StructError
	if errors.As(err, &structErr) {
		return &search.QueryError{
			Engine: search.OpenSearch,
			Op:     op,
			Status: structErr.Status,
			Reason: structErr.Err.Type + ": " + structErr.Err.Reason,
		}
	}

	var stringErr *opensearch.StringError
	if errors.As(err, &stringErr) {
		return &search.QueryError{
			Engine: search.OpenSearch,
			Op:     op,
			Status: stringErr.Status,
			Reason: stringErr.Err,
		}
	}

	return fmt.Errorf("opensearch %s error: %w", op, err)
}

// RefreshParam renders the refresh flag for single-document writes
func RefreshParam(refresh bool) string {
	if refresh {
		return "true"
	}
	return "false"
}
