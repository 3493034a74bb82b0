package wiki

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
)

// Translator turns source-language words into the target language.
type Translator interface {
	Translate(ctx context.Context, words []string) ([]string, error)
}

// Identity returns the words unchanged. It stands in when no translation
// endpoint is configured.
type Identity struct{}

func (Identity) Translate(_ context.Context, words []string) ([]string, error) {
	return append([]string(nil), words...), nil
}

// LibreTranslate calls the /translate endpoint of a LibreTranslate server.
type LibreTranslate struct {
	Endpoint   string
	Source     string
	Target     string
	APIKey     string
	HTTPClient *http.Client
}

// NewLibreTranslate returns a translator for baseURL. The source language is
// inferred by the server when source is empty.
func NewLibreTranslate(baseURL, source, target string) *LibreTranslate {
	if source == "" {
		source = "auto"
	}
	return &LibreTranslate{
		Endpoint:   strings.TrimRight(baseURL, "/") + "/translate",
		Source:     source,
		Target:     target,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type libreRequest struct {
	Q      []string `json:"q"`
	Source string   `json:"source"`
	Target string   `json:"target"`
	Format string   `json:"format"`
	APIKey string   `json:"api_key,omitempty"`
}

type libreResponse struct {
	TranslatedText []string `json:"translatedText"`
	Error          string   `json:"error"`
}

// Translate sends all words in one batch and returns translations in the
// same order.
func (t *LibreTranslate) Translate(ctx context.Context, words []string) ([]string, error) {
	log := logger.FromContext(ctx).WithPrefix("translate")
	if len(words) == 0 {
		return nil, nil
	}
	log.Debug("translating %d words %s->%s", len(words), t.Source, t.Target)

	body, err := json.Marshal(libreRequest{Q: words, Source: t.Source, Target: t.Target, Format: "text", APIKey: t.APIKey})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := t.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		log.Error("translate request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	var out libreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("translate: decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		log.Error("translate returned status %d: %s", resp.StatusCode, out.Error)
		return nil, fmt.Errorf("translate: status %d: %s", resp.StatusCode, out.Error)
	}
	if len(out.TranslatedText) != len(words) {
		return nil, fmt.Errorf("translate: got %d translations for %d words", len(out.TranslatedText), len(words))
	}
	return out.TranslatedText, nil
}
