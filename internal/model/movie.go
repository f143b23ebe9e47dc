package model

import "time"

// Movie is a cached TMDB movie record. ReleaseDate is the preferred
// regional release date resolved at ingest time, not necessarily the
// provider's generic release_date.
type Movie struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Overview      string     `json:"overview"`
	Tagline       string     `json:"tagline"`
	Status        string     `json:"status"`
	Runtime       int        `json:"runtime"`
	IMDBID        string     `json:"imdbId"`
	Homepage      string     `json:"homepage"`
	Budget        int64      `json:"budget"`
	Revenue       int64      `json:"revenue"`
	PosterPath    *string    `json:"posterPath"`
	BackdropPath  *string    `json:"backdropPath"`
	MediaType     string     `json:"mediaType"`
	ReleaseDate   *time.Time `json:"releaseDate"`
	OriginalLang  string     `json:"originalLang"`
	OriginalTitle string     `json:"originalTitle"`
	VoteAverage   float64    `json:"voteAverage"`
	VoteCount     int64      `json:"voteCount"`
	Popularity    float64    `json:"popularity"`
	Genres        []string   `json:"genres"`
	CachedAt      time.Time  `json:"cachedAt"`
	ExpireAt      time.Time  `json:"expireAt"`
}

// MoviesResult is the list read model served to the frontend, with the
// provider date window for windowed categories and the data provenance.
type MoviesResult struct {
	Movies  []Movie `json:"movies"`
	MinDate string  `json:"minDate,omitempty"`
	MaxDate string  `json:"maxDate,omitempty"`
	Source  string  `json:"source"`
}

// MovieList is the cached ordering of movie IDs for one category
// (trending, popular, upcoming, now_playing, top_rated). MinDate and
// MaxDate carry the provider's date window for windowed categories.
type MovieList struct {
	Category string    `json:"category"`
	MovieIDs []int64   `json:"movieIds"`
	MinDate  string    `json:"minDate"`
	MaxDate  string    `json:"maxDate"`
	CachedAt time.Time `json:"cachedAt"`
	ExpireAt time.Time `json:"expireAt"`
}
