package upstream

import (
	"context"
	"fmt"
	"time"
)

// TMDBClient talks to the TMDB v3 API.
type TMDBClient struct {
	client  *Client
	baseURL string
	token   string
}

// NewTMDBClient builds a TMDB client.
func NewTMDBClient(client *Client, baseURL, token string) *TMDBClient {
	return &TMDBClient{client: client, baseURL: baseURL, token: token}
}

// TMDBListItem is one entry of a category listing. Only the ID matters;
// full records come from the detail endpoint.
type TMDBListItem struct {
	ID int64 `json:"id"`
}

// TMDBListResponse is the shape of the category listing endpoints.
type TMDBListResponse struct {
	Results []TMDBListItem `json:"results"`
	Dates   *struct {
		Minimum string `json:"minimum"`
		Maximum string `json:"maximum"`
	} `json:"dates"`
}

// TMDBReleaseEvent is one regional release entry.
type TMDBReleaseEvent struct {
	Type        int    `json:"type"`
	ReleaseDate string `json:"release_date"`
}

// TMDBRegionReleases groups release events by region.
type TMDBRegionReleases struct {
	Region   string             `json:"iso_3166_1"`
	Releases []TMDBReleaseEvent `json:"release_dates"`
}

// TMDBMovieDetail is the movie detail payload with release dates appended.
type TMDBMovieDetail struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Overview      string  `json:"overview"`
	Tagline       string  `json:"tagline"`
	Status        string  `json:"status"`
	Runtime       int     `json:"runtime"`
	IMDBID        string  `json:"imdb_id"`
	Homepage      string  `json:"homepage"`
	Budget        int64   `json:"budget"`
	Revenue       int64   `json:"revenue"`
	PosterPath    string  `json:"poster_path"`
	BackdropPath  string  `json:"backdrop_path"`
	ReleaseDate   string  `json:"release_date"`
	OriginalLang  string  `json:"original_language"`
	OriginalTitle string  `json:"original_title"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int64   `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	Genres        []struct {
		Name string `json:"name"`
	} `json:"genres"`
	ReleaseDates struct {
		Results []TMDBRegionReleases `json:"results"`
	} `json:"release_dates"`
}

// ErrUnknownCategory is returned for category names the API has no
// endpoint for.
type ErrUnknownCategory struct{ Category string }

func (e *ErrUnknownCategory) Error() string {
	return fmt.Sprintf("unknown movie category: %s", e.Category)
}

// ListMovies fetches the listing for a category. The upcoming category is
// a discover query windowed from now to one month out.
func (t *TMDBClient) ListMovies(ctx context.Context, category string, now time.Time) (*TMDBListResponse, error) {
	today := now.Format("2006-01-02")
	monthLater := now.Add(30 * 24 * time.Hour).Format("2006-01-02")

	var endpoint string
	switch category {
	case "trending":
		endpoint = t.baseURL + "/trending/movie/week?language=en-US&region=US|IN"
	case "popular":
		endpoint = t.baseURL + "/movie/popular?language=en-US&region=US|IN"
	case "upcoming":
		endpoint = fmt.Sprintf("%s/discover/movie?language=en-US&region=US|IN&primary_release_date.gte=%s&primary_release_date.lte=%s&with_release_type=3|2|4&sort_by=popularity.desc",
			t.baseURL, today, monthLater)
	case "now_playing":
		endpoint = t.baseURL + "/movie/now_playing?language=en-US&region=US|IN"
	case "top_rated":
		endpoint = t.baseURL + "/movie/top_rated?language=en-US&region=US|IN"
	default:
		return nil, &ErrUnknownCategory{Category: category}
	}

	var out TMDBListResponse
	if err := t.client.GetJSON(ctx, endpoint, t.headers(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MovieDetail fetches the full record for one movie, including regional
// release dates.
func (t *TMDBClient) MovieDetail(ctx context.Context, id int64) (*TMDBMovieDetail, error) {
	endpoint := fmt.Sprintf("%s/movie/%d?append_to_response=credits,release_dates", t.baseURL, id)

	var out TMDBMovieDetail
	if err := t.client.GetJSON(ctx, endpoint, t.headers(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Passthrough proxies an arbitrary TMDB GET for the cached proxy routes.
func (t *TMDBClient) Passthrough(ctx context.Context, pathAndQuery string) ([]byte, error) {
	return t.client.Get(ctx, t.baseURL+pathAndQuery, t.headers())
}

func (t *TMDBClient) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + t.token}
}
