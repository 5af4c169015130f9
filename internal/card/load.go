package card

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"cardlens/internal/log"
)

const fetchTimeout = 15 * time.Second

// Load fetches and decodes the card configuration from source, which is
// either an http(s) URL or a local file path. Exactly one attempt is made:
// a transport error, a non-2xx status, or malformed JSON is a fatal startup
// error for the caller. Responses are never cached.
func Load(ctx context.Context, source string) (Config, error) {
	var (
		data []byte
		err  error
	)

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source)
	} else {
		data, err = os.ReadFile(source) //nolint:gosec // G304: source is the user-provided config location
	}
	if err != nil {
		return nil, fmt.Errorf("loading card config from %s: %w", source, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decoding card config: %w", err)
	}

	log.Info(log.CatCard, "card config loaded", "source", source, "cards", len(cfg))
	return cfg, nil
}

func fetch(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	// The config must be fetched fresh every session.
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	return io.ReadAll(resp.Body)
}
