
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"sankara-chandas/internal/models"
)

// Remote asks a meter identification service over HTTP. The service takes
// the verse as form field input_text and answers with
// {"matched": bool, "candidates": [...]}.
type Remote struct {
	client   *http.Client
	endpoint string
}

func NewRemote(client *http.Client, endpoint string) *Remote {
	if client == nil {
		client = http.DefaultClient
	}
	return &Remote{client: client, endpoint: endpoint}
}

func (r *Remote) Identify(ctx context.Context, text string) (models.MeterResult, error) {
	if strings.TrimSpace(text) == "" {
		return models.MeterResult{}, ErrMalformed
	}
	form := url.Values{"input_text": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return models.MeterResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return models.MeterResult{}, fmt.Errorf("identify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return models.MeterResult{}, fmt.Errorf("identify: http status %d", resp.StatusCode)
	}

	var out models.MeterResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return models.MeterResult{}, fmt.Errorf("identify: decode reply: %w", err)
	}
	return out, nil
}
