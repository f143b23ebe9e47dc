package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"pulsehub-api/internal/service"
	"pulsehub-api/pkg/apierror"
	"pulsehub-api/pkg/response"
)

// MusicHandler serves the track listing endpoint.
type MusicHandler struct {
	music *service.MusicService
}

// NewMusicHandler creates a music handler.
func NewMusicHandler(music *service.MusicService) *MusicHandler {
	return &MusicHandler{music: music}
}

// ListByTag handles GET /api/v1/music/{tag}
func (h *MusicHandler) ListByTag(w http.ResponseWriter, r *http.Request) {
	tag := chi.URLParam(r, "tag")
	if tag == "" {
		response.Error(w, apierror.BadRequest("tag is required"))
		return
	}

	result, err := h.music.GetTracksByTag(r.Context(), tag)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	response.OK(w, result)
}
