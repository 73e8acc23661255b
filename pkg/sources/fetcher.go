package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samvad-hq/image-gallery/pkg/httpclient"
)

// Fetcher retrieves one source and returns the image URL it points to.
type Fetcher interface {
	Fetch(ctx context.Context, src Source) (string, error)
}

// HTTPClient aliases the shared httpclient.Client interface for clarity within sources.
type HTTPClient = httpclient.Client

// DefaultHTTPClient returns the resty-backed client used when none is injected.
func DefaultHTTPClient(timeout time.Duration) HTTPClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return httpclient.NewRestyClient(timeout)
}

// JSONFieldFetcher GETs a source and extracts a string field from its JSON object body.
type JSONFieldFetcher struct {
	client HTTPClient
}

// NewJSONFieldFetcher builds a fetcher on client (or the default client).
func NewJSONFieldFetcher(client HTTPClient) *JSONFieldFetcher {
	if client == nil {
		client = DefaultHTTPClient(0)
	}
	return &JSONFieldFetcher{client: client}
}

// Fetch returns the value of src.Field from the response body. Every failure
// is a *NetworkError.
func (f *JSONFieldFetcher) Fetch(ctx context.Context, src Source) (string, error) {
	field := src.Field
	if field == "" {
		field = DefaultField
	}

	resp, err := f.client.Get(ctx, src.URL, src.Headers)
	if err != nil {
		return "", &NetworkError{SourceURL: src.URL, Err: err}
	}
	if !resp.IsSuccess() {
		return "", &NetworkError{
			SourceURL:  src.URL,
			StatusCode: resp.StatusCode(),
			Snippet:    responseSnippet(resp.Body()),
			Err:        ErrResponseNotOK,
		}
	}

	value, err := extractField(resp.Body(), field)
	if err != nil {
		return "", &NetworkError{SourceURL: src.URL, StatusCode: resp.StatusCode(), Err: err}
	}
	return value, nil
}

func extractField(body []byte, field string) (string, error) {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode response body: %w", err)
	}

	raw, ok := payload[field]
	if !ok {
		return "", fmt.Errorf("response has no %q field", field)
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return "", fmt.Errorf("field %q is not a string", field)
	}
	if value == "" {
		return "", fmt.Errorf("field %q is empty", field)
	}
	return value, nil
}
