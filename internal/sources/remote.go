package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ziadkadry99/filmguide/internal/glossary"
)

// RemoteConfig holds connection details for a hosted glossary table
// exposed through a PostgREST-style API.
type RemoteConfig struct {
	URL    string `json:"url"`
	Table  string `json:"table"`
	APIKey string `json:"-"`
}

// RemoteSource reads the glossary table over HTTP.
type RemoteSource struct {
	config     RemoteConfig
	httpClient *http.Client
	backoffs   []time.Duration
}

// NewRemoteSource creates a RemoteSource. An empty table name defaults to
// "glossary".
func NewRemoteSource(config RemoteConfig) *RemoteSource {
	if config.Table == "" {
		config.Table = "glossary"
	}
	return &RemoteSource{
		config:     config,
		httpClient: newHTTPClient(30 * time.Second),
		backoffs:   []time.Duration{0, 500 * time.Millisecond, 1 * time.Second, 2 * time.Second},
	}
}

// Name implements Source.
func (s *RemoteSource) Name() string {
	return "remote:" + s.config.Table
}

// remoteRow is one row of the glossary table. wikipedia_url may be null.
type remoteRow struct {
	Term         string  `json:"term"`
	Definition   string  `json:"definition"`
	WikipediaURL *string `json:"wikipedia_url"`
}

// Load fetches every row ordered by term.
func (s *RemoteSource) Load(ctx context.Context) (Result, error) {
	res := Result{Source: s.Name()}
	if s.config.URL == "" {
		return res, fmt.Errorf("remote glossary url not configured")
	}

	q := url.Values{}
	q.Set("select", "term,definition,wikipedia_url")
	q.Set("order", "term.asc")
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s",
		strings.TrimRight(s.config.URL, "/"),
		url.PathEscape(s.config.Table),
		q.Encode(),
	)

	headers := http.Header{}
	headers.Set("Accept", "application/json")
	if s.config.APIKey != "" {
		headers.Set("apikey", s.config.APIKey)
		headers.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	body, err := fetch(ctx, s.httpClient, endpoint, headers, s.backoffs)
	if err != nil {
		return res, err
	}

	var rows []remoteRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return res, fmt.Errorf("decoding glossary rows: %w", err)
	}

	for _, r := range rows {
		e := glossary.Entry{
			Term:       strings.TrimSpace(r.Term),
			Definition: strings.TrimSpace(r.Definition),
		}
		if r.WikipediaURL != nil {
			e.ReferenceLink = strings.TrimSpace(*r.WikipediaURL)
		}
		if !e.Valid() {
			res.Skipped++
			continue
		}
		res.Entries = append(res.Entries, e)
	}
	if len(res.Entries) == 0 {
		return res, ErrNoRows
	}
	return res, nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// fetch performs a GET with a bounded retry on network errors, 5xx and 429.
func fetch(ctx context.Context, client *http.Client, rawURL string, headers http.Header, backoffs []time.Duration) ([]byte, error) {
	if len(backoffs) == 0 {
		backoffs = []time.Duration{0}
	}

	var resp *http.Response
	for i, d := range backoffs {
		if d > 0 {
			select {
			case <-time.After(d):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		for k, v := range headers {
			req.Header[k] = v
		}

		resp, err = client.Do(req)
		if err != nil {
			if i < len(backoffs)-1 && ctx.Err() == nil {
				continue
			}
			return nil, fmt.Errorf("fetching %s: %w", redact(rawURL), err)
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			if i < len(backoffs)-1 {
				continue
			}
			return nil, fmt.Errorf("server error: %s", resp.Status)
		}
		break
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return b, nil
}

// redact drops the query string so keys passed as parameters never reach
// logs.
func redact(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.RawQuery = ""
	return u.String()
}
