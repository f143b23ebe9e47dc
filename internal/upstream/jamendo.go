package upstream

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// MusicClient talks to the Jamendo tracks API.
type MusicClient struct {
	client   *Client
	baseURL  string
	clientID string
}

// NewMusicClient builds a Jamendo client.
func NewMusicClient(client *Client, baseURL, clientID string) *MusicClient {
	return &MusicClient{client: client, baseURL: baseURL, clientID: clientID}
}

// TrackItem is one upstream track.
type TrackItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ArtistName   string `json:"artist_name"`
	AlbumImage   string `json:"album_image"`
	Audio        string `json:"audio"`
	Duration     int    `json:"duration"`
	ShareURL     string `json:"shareurl"`
	LicenseCCURL string `json:"license_ccurl"`
	ReleaseDate  string `json:"releasedate"`
}

// TracksResponse is the tracks listing payload.
type TracksResponse struct {
	Results []TrackItem `json:"results"`
}

// Tracks fetches up to 20 popular tracks for a tag.
func (m *MusicClient) Tracks(ctx context.Context, tag string) (*TracksResponse, error) {
	endpoint := fmt.Sprintf("%s/tracks/?client_id=%s&format=json&limit=20&tags=%s&boost=popularity_month&imagesize=600",
		m.baseURL, m.clientID, url.QueryEscape(tag))

	var out TracksResponse
	if err := m.client.GetJSON(ctx, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Passthrough proxies an arbitrary Jamendo GET for the cached proxy
// routes, appending the client ID.
func (m *MusicClient) Passthrough(ctx context.Context, pathAndQuery string) ([]byte, error) {
	sep := "?"
	if strings.Contains(pathAndQuery, "?") {
		sep = "&"
	}
	return m.client.Get(ctx, m.baseURL+pathAndQuery+sep+"client_id="+m.clientID, nil)
}
