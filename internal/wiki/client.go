// Package wiki turns a Wikipedia article into vocabulary for a new deck.
package wiki

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/vytor/flashdeck/internal/logger"
)

// ErrArticleNotFound is returned when the API has no extract for a title.
var ErrArticleNotFound = errors.New("wiki: article not found")

// Client talks to the MediaWiki query API of one language edition.
type Client struct {
	httpClient *http.Client
	endpoint   string
	userAgent  string
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default client (10s timeout).
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) { cl.httpClient = c }
}

// WithEndpoint points the client at a different api.php URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(cl *Client) { cl.endpoint = endpoint }
}

// NewClient returns a client for https://{lang}.wikipedia.org/w/api.php.
func NewClient(lang string, opts ...ClientOption) *Client {
	if lang == "" {
		lang = "es"
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		endpoint:   fmt.Sprintf("https://%s.wikipedia.org/w/api.php", lang),
		userAgent:  "flashdeck/1.0 (vocabulary import)",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type queryResponse struct {
	Query struct {
		Pages map[string]struct {
			PageID  int64   `json:"pageid"`
			Title   string  `json:"title"`
			Missing *string `json:"missing,omitempty"`
			Extract string  `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// FetchArticle returns the full HTML extract of the article titled title.
func (c *Client) FetchArticle(ctx context.Context, title string) (string, error) {
	log := logger.FromContext(ctx).WithPrefix("wiki")
	log.Debug("fetching article: %s", title)

	q := url.Values{}
	q.Set("action", "query")
	q.Set("format", "json")
	q.Set("prop", "extracts")
	q.Set("redirects", "1")
	q.Set("titles", title)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("article request failed: %v", err)
		return "", err
	}
	defer resp.Body.Close()
	log.Debug("article response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Error("article request failed: status=%d, body=%s", resp.StatusCode, string(body))
		return "", fmt.Errorf("wiki: status %d for %q: %s", resp.StatusCode, title, string(body))
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Error("failed to decode article response: %v", err)
		return "", fmt.Errorf("wiki: decode response: %w", err)
	}

	for _, page := range out.Query.Pages {
		if page.Missing != nil || strings.TrimSpace(page.Extract) == "" {
			break
		}
		log.Debug("fetched article %q (%d bytes)", page.Title, len(page.Extract))
		return page.Extract, nil
	}
	return "", fmt.Errorf("%w: %q", ErrArticleNotFound, title)
}

// TitleFromURL extracts the article title from a wiki URL such as
// https://es.wikipedia.org/wiki/Madrid. Anything that is not a URL is
// returned trimmed, so plain titles pass through.
func TitleFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("wiki: empty article reference")
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw, nil
	}
	if t := u.Query().Get("title"); t != "" {
		return t, nil
	}
	title := path.Base(u.EscapedPath())
	if title == "." || title == "/" || title == "wiki" {
		return "", fmt.Errorf("wiki: no article title in %q", raw)
	}
	title, err = url.PathUnescape(title)
	if err != nil {
		return "", fmt.Errorf("wiki: bad title in %q: %w", raw, err)
	}
	return strings.ReplaceAll(title, "_", " "), nil
}
