package model

import "time"

// MusicTrack is a cached Jamendo track.
type MusicTrack struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Artist       string    `json:"artist"`
	Image        string    `json:"image"`
	Audio        string    `json:"audio"`
	Duration     int       `json:"duration"`
	ShareURL     string    `json:"shareUrl"`
	License      string    `json:"license"`
	ReleasedDate string    `json:"releasedDate"`
	CachedAt     time.Time `json:"cachedAt"`
}

// MusicResult is the music read model served to the frontend.
type MusicResult struct {
	Tracks []MusicTrack `json:"tracks"`
	Source string       `json:"source"`
}

// MusicList is the cached ordering of track IDs for one tag/category.
type MusicList struct {
	Category string    `json:"category"`
	TrackIDs []string  `json:"trackIds"`
	CachedAt time.Time `json:"cachedAt"`
	ExpireAt time.Time `json:"expireAt"`
}
