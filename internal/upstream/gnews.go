package upstream

import (
	"context"
	"fmt"
	"net/url"
)

// NewsClient talks to the GNews-compatible headlines API.
type NewsClient struct {
	client  *Client
	baseURL string
	apiKey  string
}

// NewNewsClient builds a news client.
func NewNewsClient(client *Client, baseURL, apiKey string) *NewsClient {
	return &NewsClient{client: client, baseURL: baseURL, apiKey: apiKey}
}

// ArticleItem is one upstream headline. The provider's own article IDs
// are not stable, so identity is derived downstream from the content.
type ArticleItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	Image       string `json:"image"`
	PublishedAt string `json:"publishedAt"`
	Source      struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"source"`
}

// HeadlinesResponse is the top-headlines payload.
type HeadlinesResponse struct {
	TotalArticles int           `json:"totalArticles"`
	Articles      []ArticleItem `json:"articles"`
}

// TopHeadlines fetches the current headlines for a category.
func (n *NewsClient) TopHeadlines(ctx context.Context, category string) (*HeadlinesResponse, error) {
	if n.apiKey == "" {
		return nil, fmt.Errorf("news API key is missing")
	}

	endpoint := fmt.Sprintf("%s/top-headlines?category=%s&lang=en",
		n.baseURL, url.QueryEscape(category))

	var out HeadlinesResponse
	if err := n.client.GetJSON(ctx, endpoint, n.headers(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Passthrough proxies an arbitrary news API GET for the cached proxy routes.
func (n *NewsClient) Passthrough(ctx context.Context, pathAndQuery string) ([]byte, error) {
	return n.client.Get(ctx, n.baseURL+pathAndQuery, n.headers())
}

func (n *NewsClient) headers() map[string]string {
	if n.apiKey == "" {
		return nil
	}
	return map[string]string{"X-Api-Key": n.apiKey}
}
