package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"review_insights/internal/app"
	"review_insights/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 500
	maxScrape    = 5000
)

type Handlers struct {
	Q *app.QueryService
	S *app.ScrapeService
	// RunConfig builds the default per-run parameters; query params override max and sort.
	RunConfig func(productID string) (domain.FetchConfig, error)
	// ScrapeTimeout bounds a synchronous scrape request. Zero means 10 minutes.
	ScrapeTimeout time.Duration
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Group(func(r chi.Router) {
		r.Use(Timeout(15 * time.Second))
		r.Get("/v1/products/{id}/insights", h.getInsights)
		r.Get("/v1/products/{id}/reviews", h.listReviews)
	})

	if h.S != nil {
		d := h.ScrapeTimeout
		if d <= 0 {
			d = 10 * time.Minute
		}
		s.mux.Group(func(r chi.Router) {
			r.Use(Timeout(d))
			r.Post("/v1/products/{id}/scrape", h.scrape)
		})
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached answers 304 when the client already holds this representation.
func writeCached(w http.ResponseWriter, r *http.Request, v any, what string) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag) // include ETag on 304
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("what", what).Msg("failed to write body")
	}
}

func productParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := app.ExtractProductID(chi.URLParam(r, "id"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "product id must be numeric")
		return "", false
	}
	return id, true
}

func (h *Handlers) getInsights(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	rep, err := h.Q.LatestRun(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no run stored for this product")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("product", id).Msg("latest run lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	writeCached(w, r, rep, "insights")
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}

	q := domain.ReviewsQuery{Limit: defaultLimit}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > maxLimit {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 500")
			return
		}
		q.Limit = l
	}
	sent, err := domain.ParseSentiment(r.URL.Query().Get("sentiment"))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid sentiment", "sentiment must be Positive, Negative or Neutral")
		return
	}
	q.Sentiment = sent

	out, err := h.Q.ListReviews(r.Context(), id, q)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "no run stored for this product")
		return
	}
	if err != nil {
		log.Error().Err(err).Str("product", id).Msg("list reviews failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	writeCached(w, r, out, "reviews")
}

func (h *Handlers) scrape(w http.ResponseWriter, r *http.Request) {
	id, ok := productParam(w, r)
	if !ok {
		return
	}
	cfg, err := h.RunConfig(id)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid run", err.Error())
		return
	}
	if ms := r.URL.Query().Get("max"); ms != "" {
		n, err := strconv.Atoi(ms)
		if err != nil || n <= 0 || n > maxScrape {
			writeProblem(w, http.StatusBadRequest, "Invalid max", "max must be an integer between 1 and 5000")
			return
		}
		cfg.MaxReviews = n
	}
	if ss := r.URL.Query().Get("sort"); ss != "" {
		so, err := domain.ParseSortOrder(ss)
		if err != nil {
			writeProblem(w, http.StatusBadRequest, "Invalid sort", "sort must be relevancy, newest, ratingHigh or ratingLow")
			return
		}
		cfg.Sort = so
	}

	rep, err := h.S.Trigger(r.Context(), cfg)
	switch {
	case errors.Is(err, domain.ErrRunInProgress):
		writeProblem(w, http.StatusConflict, "Run In Progress", "a scrape is already running, retry later")
		return
	case errors.Is(err, domain.ErrInvalidProductRef):
		writeProblem(w, http.StatusBadRequest, "Invalid ID", err.Error())
		return
	case err != nil:
		log.Error().Err(err).Str("product", id).Msg("scrape run not fully published")
		writeProblem(w, http.StatusInternalServerError, "Run Not Stored", "the run finished but could not be saved")
		return
	}

	rep.Reviews = nil // summary only; reviews are paged via /reviews
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		log.Error().Err(err).Msg("failed to write scrape body")
	}
}
