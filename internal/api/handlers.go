package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tenvelde/receptenapi/internal/apperror"
	"github.com/tenvelde/receptenapi/internal/catalog"
	"github.com/tenvelde/receptenapi/internal/metrics"
	"github.com/tenvelde/receptenapi/internal/service"
)

func (s *Server) listRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.List(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipes)
}

func (s *Server) getRecipe(w http.ResponseWriter, r *http.Request) {
	recipe, err := s.recipes.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) saveRecipe(w http.ResponseWriter, r *http.Request) {
	var raw catalog.RawRecipe
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	recipe, err := s.recipes.Save(r.Context(), raw)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	metrics.ObserveRecipeSaved()
	s.writeJSON(w, http.StatusOK, recipe)
}

func (s *Server) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.recipes.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "recipe deleted"})
}

func (s *Server) searchRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.recipes.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, recipes)
}

func (s *Server) scrape(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	start := time.Now()
	recipe, err := s.scrapes.ScrapeAndSave(r.Context(), url)
	if err != nil {
		metrics.ObserveScrape("error", time.Since(start))
		s.writeServiceError(w, err)
		return
	}
	metrics.ObserveScrape("ok", time.Since(start))
	metrics.ObserveRecipeSaved()
	s.writeJSON(w, http.StatusOK, recipe)
}

type imageURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) setImageByURL(w http.ResponseWriter, r *http.Request) {
	var req imageURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := s.recipes.SetImageByURL(r.Context(), chi.URLParam(r, "id"), req.URL); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "image stored"})
}

func (s *Server) uploadImage(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, service.MaxImageBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "image exceeds the 10MB limit")
			return
		}
		s.writeError(w, http.StatusBadRequest, "read body failed")
		return
	}
	contentType := r.Header.Get("Content-Type")
	if err := s.recipes.SetImageFromBytes(r.Context(), chi.URLParam(r, "id"), data, contentType); err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "image stored"})
}

func (s *Server) getImage(w http.ResponseWriter, r *http.Request) {
	image, err := s.recipes.GetImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", image.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image.Data); err != nil {
		s.logger.Error("write image failed", zap.Error(err))
	}
}

type dateLinkRequest struct {
	Date     string `json:"date"`
	RecipeID string `json:"recipeId"`
}

func (s *Server) linkDate(w http.ResponseWriter, r *http.Request) {
	var req dateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	link, err := s.links.Link(r.Context(), date, req.RecipeID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, link)
}

func (s *Server) unlinkDate(w http.ResponseWriter, r *http.Request) {
	var req dateLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid date")
		return
	}
	link, err := s.links.Unlink(r.Context(), date, req.RecipeID)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, link)
}

func (s *Server) datesWithRecipes(w http.ResponseWriter, r *http.Request) {
	groups, err := s.links.DatesWithRecipes(r.Context())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, groups)
}

func (s *Server) icalFeed(w http.ResponseWriter, r *http.Request) {
	feed, err := s.feed.Generate(r.Context(), s.clock.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	metrics.ObserveICalFeed()
	w.Header().Set("Content-Type", "text/calendar")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		s.logger.Error("write calendar failed", zap.Error(err))
	}
}

func (s *Server) today(w http.ResponseWriter, r *http.Request) {
	recipeID, err := s.links.FirstRecipeForToday(r.Context(), s.clock.Now())
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	var payload struct {
		RecipeID *string `json:"recipeId"`
	}
	if recipeID != "" {
		payload.RecipeID = &recipeID
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// parseDate accepts a bare calendar day or a full RFC 3339 timestamp;
// time-of-day is dropped downstream either way.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, apperror.ErrConflict):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, apperror.ErrValidation):
		s.writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperror.ErrUpstream):
		s.writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.logger.Error("internal error", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
