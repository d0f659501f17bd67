package ephemeris

import (
	"context"
	"fmt"
	"strings"

	xhttp "AstroChart/pkg/http"
)

// HTTPServiceBase centralises client construction and JSON POSTs to the
// ephemeris sidecar.
type HTTPServiceBase struct {
	baseURL string
	client  *xhttp.Client
}

func NewHTTPServiceBase(baseURL string, client *xhttp.Client) *HTTPServiceBase {
	return &HTTPServiceBase{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// PostJSON posts payload to path under baseURL and decodes JSON into dest.
func (b *HTTPServiceBase) PostJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("ephemeris http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Body:   payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}
