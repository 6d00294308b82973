// Package search queries the Serper Google Search API for the two lookups a
// petition needs from the open web: the INSS agency nearest the claimant and
// recent case law on the claim type.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ruraldraft-backend/agent"
	"ruraldraft-backend/cache"
)

const defaultBaseURL = "https://google.serper.dev"

var (
	ErrNotConfigured = errors.New("serper API key not configured")
	ErrNoResult      = errors.New("search returned no usable result")
)

// Client is a Serper API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cache      cache.Cache
	maxResults int
}

// Option is a functional option for Client
type Option func(*Client)

// WithBaseURL overrides the API endpoint
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithCache caches results
func WithCache(ch cache.Cache) Option {
	return func(c *Client) {
		c.cache = ch
	}
}

// WithMaxResults caps the number of jurisprudence results
func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// NewClient creates a Serper client
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.Nop{},
		maxResults: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type serperRequest struct {
	Q  string `json:"q"`
	GL string `json:"gl"`
	HL string `json:"hl"`
}

type placesResponse struct {
	KnowledgeGraph *struct {
		Description string            `json:"description"`
		Attributes  map[string]string `json:"attributes"`
	} `json:"knowledgeGraph,omitempty"`
	Places []struct {
		Title   string `json:"title"`
		Address string `json:"address"`
	} `json:"places"`
}

type searchResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic"`
}

// INSSAddress looks up the INSS agency nearest to the claimant's address.
func (c *Client) INSSAddress(ctx context.Context, userAddress string) (string, error) {
	location := addressLocation(userAddress)
	key := cache.Key("inss", location)

	var cached string
	if found, err := c.cache.GetJSON(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	var resp placesResponse
	q := "endereço agência INSS previdencia social mais próxima " + location
	if err := c.post(ctx, "/places", q, &resp); err != nil {
		return "", err
	}

	addr := placesAddress(resp)
	if addr == "" {
		return "", ErrNoResult
	}
	_ = c.cache.SetJSON(ctx, key, addr)
	return addr, nil
}

// Jurisprudence searches recent rural case law for docType.
func (c *Client) Jurisprudence(ctx context.Context, docType string) ([]agent.Reference, error) {
	key := cache.Key("jurisprudence", docType)

	var cached []agent.Reference
	if found, err := c.cache.GetJSON(ctx, key, &cached); err == nil && found {
		return cached, nil
	}

	var resp searchResponse
	q := fmt.Sprintf("jurisprudência %s rural recentes", strings.TrimSpace(docType))
	if err := c.post(ctx, "/search", q, &resp); err != nil {
		return nil, err
	}

	refs := make([]agent.Reference, 0, c.maxResults)
	for _, item := range resp.Organic {
		if len(refs) == c.maxResults {
			break
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = "Sem título"
		}
		refs = append(refs, agent.Reference{
			Title:   title,
			Snippet: strings.TrimSpace(item.Snippet),
			Link:    item.Link,
		})
	}
	if len(refs) == 0 {
		return nil, ErrNoResult
	}
	_ = c.cache.SetJSON(ctx, key, refs)
	return refs, nil
}

func (c *Client) post(ctx context.Context, path, query string, out interface{}) error {
	if c.apiKey == "" {
		return ErrNotConfigured
	}

	body, err := json.Marshal(serperRequest{Q: query, GL: "br", HL: "pt-br"})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("serper error: %d - %s", resp.StatusCode, string(msg))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// addressLocation keeps the last two comma-separated parts of an address,
// where the city and state usually are.
func addressLocation(address string) string {
	parts := strings.Split(address, ",")
	if len(parts) > 2 {
		parts = parts[len(parts)-2:]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	loc := strings.TrimSpace(strings.Join(parts, " "))
	if loc == "" {
		return strings.TrimSpace(address)
	}
	return loc
}

func placesAddress(resp placesResponse) string {
	if kg := resp.KnowledgeGraph; kg != nil {
		for k, v := range kg.Attributes {
			lk := strings.ToLower(k)
			if strings.Contains(lk, "address") || strings.Contains(lk, "endereço") {
				return v
			}
		}
		if kg.Description != "" {
			return kg.Description
		}
	}
	if len(resp.Places) > 0 {
		p := resp.Places[0]
		return strings.TrimSpace(p.Title + " - " + p.Address)
	}
	return ""
}
