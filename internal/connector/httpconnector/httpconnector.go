package httpconnector

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MichalMitros/product-sync/internal/connector"
	"github.com/MichalMitros/product-sync/internal/platform/models"
)

// maxErrorBody is number of response body bytes kept in error message.
const maxErrorBody = 512

// Connector talks to target exposing generic JSON product resource:
//
//	POST {base}/products              creates product, responds with productResponse
//	PUT  {base}/products/{id}         updates product, responds with productResponse
//	GET  {base}/products/{id}         responds with productResponse including fields
//	GET  {base}/products/{id}/updated-at responds with productResponse without fields
type Connector struct {
	client    *http.Client
	baseURL   string
	userAgent string
}

// NewConnector returns new Connector.
func NewConnector(client *http.Client, baseURL, userAgent string) *Connector {
	return &Connector{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

type productResponse struct {
	ID        string          `json:"id"`
	UpdatedAt time.Time       `json:"updatedAt"`
	Fields    models.FieldSet `json:"fields,omitempty"`
}

// Push creates or updates product in target.
func (c *Connector) Push(ctx context.Context, record models.SyncRecord, payload models.FieldSet) (models.PushResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return models.PushResult{}, fmt.Errorf("can't marshal payload: %w: %w", connector.ErrPermanent, err)
	}

	method, path := http.MethodPost, "/products"
	if record.ExternalID != nil {
		method, path = http.MethodPut, "/products/"+url.PathEscape(*record.ExternalID)
	}

	var resp productResponse
	if err := c.do(ctx, method, path, body, &resp); err != nil {
		return models.PushResult{}, err
	}

	externalID := resp.ID
	if externalID == "" && record.ExternalID != nil {
		externalID = *record.ExternalID
	}

	return models.PushResult{ExternalID: externalID, Timestamp: resp.UpdatedAt}, nil
}

// Pull fetches product data from target.
func (c *Connector) Pull(ctx context.Context, record models.SyncRecord) (models.PullResult, error) {
	if record.ExternalID == nil {
		return models.PullResult{}, fmt.Errorf("%w: record %d is not linked with target", connector.ErrPermanent, record.ID)
	}

	var resp productResponse
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(*record.ExternalID), nil, &resp); err != nil {
		return models.PullResult{}, err
	}

	return models.PullResult{Payload: resp.Fields, Timestamp: resp.UpdatedAt}, nil
}

// FetchUpdatedAt fetches product modification time from target.
func (c *Connector) FetchUpdatedAt(ctx context.Context, record models.SyncRecord) (time.Time, error) {
	if record.ExternalID == nil {
		return time.Time{}, fmt.Errorf("%w: record %d is not linked with target", connector.ErrPermanent, record.ID)
	}

	var resp productResponse
	path := "/products/" + url.PathEscape(*record.ExternalID) + "/updated-at"
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return time.Time{}, err
	}

	return resp.UpdatedAt, nil
}

func (c *Connector) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("can't build http request: %w: %w", connector.ErrPermanent, err)
	}

	req.Header.Add("Accept", "application/json")
	req.Header.Add("Accept-Encoding", "gzip")
	req.Header.Add("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("can't get http response: %w: %w", connector.ErrTransient, err)
	}

	respBody, err := responseBody(resp)
	if err != nil {
		_ = resp.Body.Close()
		return fmt.Errorf("%w: %w", connector.ErrTransient, err)
	}
	defer respBody.Close()

	if err := statusError(resp.StatusCode, respBody); err != nil {
		return err
	}

	if err := json.NewDecoder(respBody).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("can't decode response: %w: %w", connector.ErrTransient, err)
	}

	return nil
}

// statusError classifies unsuccessful response.
func statusError(status int, body io.Reader) error {
	if status >= 200 && status < 300 {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(body, maxErrorBody))
	detail := strings.TrimSpace(string(msg))

	switch {
	case status == http.StatusRequestTimeout, status == http.StatusTooManyRequests, status >= 500:
		return fmt.Errorf("%w: status %d: %s", connector.ErrTransient, status, detail)
	default:
		return fmt.Errorf("%w: status %d: %s", connector.ErrPermanent, status, detail)
	}
}

// responseBody returns response body, decompressed when target sent it gzipped.
func responseBody(resp *http.Response) (io.ReadCloser, error) {
	if resp.Header.Get("Content-Encoding") != "gzip" {
		return resp.Body, nil
	}

	decompressed, err := gzip.NewReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("can't decompress response: %w", err)
	}

	return &decompressedReadCloser{
		compressed:   resp.Body,
		decompressed: decompressed,
	}, nil
}

// decompressedReadCloser wraps decompressed Reader and compressed ReadCloser.
// It reads from decompressed Reader, but closes compressed ReadCloser.
type decompressedReadCloser struct {
	compressed   io.ReadCloser
	decompressed io.Reader
}

// Read reads uncompressed bytes from underlying Reader into p.
func (r decompressedReadCloser) Read(p []byte) (n int, err error) {
	return r.decompressed.Read(p)
}

// Close closes underlying compressed ReadCloser.
func (r decompressedReadCloser) Close() error {
	return r.compressed.Close()
}
