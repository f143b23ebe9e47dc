package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pulsehub-api/internal/service"
	"pulsehub-api/pkg/apierror"
	"pulsehub-api/pkg/response"
)

// MovieHandler serves the movie list and detail endpoints.
type MovieHandler struct {
	movies *service.MovieService
}

// NewMovieHandler creates a movie handler.
func NewMovieHandler(movies *service.MovieService) *MovieHandler {
	return &MovieHandler{movies: movies}
}

// ListByCategory handles GET /api/v1/movies/{category}
func (h *MovieHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	result, err := h.movies.GetMoviesByCategory(r.Context(), category)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	response.OK(w, result)
}

// Detail handles GET /api/v1/movie/{id}
func (h *MovieHandler) Detail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(w, apierror.BadRequest("movie id must be a positive integer"))
		return
	}

	movie, err := h.movies.GetMovieDetail(r.Context(), id)
	if err != nil {
		response.Error(w, serviceError(err))
		return
	}
	if movie == nil {
		response.Error(w, apierror.NotFound("movie not found"))
		return
	}
	response.OK(w, movie)
}
