package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/gift-finder/internal/pipeline"
	"github.com/jonathan/gift-finder/internal/types"
)

const maxBodyBytes = 64 << 10

// Recommender is the pipeline surface the API serves.
type Recommender interface {
	Recommend(ctx context.Context, text string, onProgress pipeline.ProgressCallback) (*pipeline.Recommendation, error)
	Resolve(ctx context.Context, ideas []types.ProductIdea, onProgress pipeline.ProgressCallback) []types.CandidateView
}

// RecommendRequest is the body of POST /recommendations.
type RecommendRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// ResolveRequest is the body of POST /candidates/resolve. Names is shorthand
// for ideas that carry only a name.
type ResolveRequest struct {
	Ideas []types.ProductIdea `json:"ideas,omitempty" validate:"required_without=Names,max=50,dive"`
	Names []string            `json:"names,omitempty" validate:"required_without=Ideas,max=50,dive,required"`
}

// ResolveResponse is the result of POST /candidates/resolve.
type ResolveResponse struct {
	Candidates []types.CandidateView `json:"candidates"`
}

var validate = validator.New()

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &ErrValidation{Message: "invalid request body: " + err.Error()}
	}
	if err := validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return &ErrValidation{Field: strings.ToLower(fe.Field()), Message: fmt.Sprintf("failed %q check", fe.Tag())}
		}
		return &ErrValidation{Message: err.Error()}
	}
	return nil
}

// handleRecommend runs the full pipeline and returns the recommendation as JSON.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	rec, err := s.recommender.Recommend(r.Context(), req.Text, nil)
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleRecommendStream runs the pipeline and streams progress events, then
// the recommendation, over SSE.
func (s *Server) handleRecommendStream(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	onProgress := func(ev pipeline.Event) {
		if err := sse.WriteEvent(EventProgress, ev); err != nil {
			s.logger.Warn("failed to write SSE event", "error", err)
		}
	}

	rec, err := s.recommender.Recommend(r.Context(), req.Text, onProgress)
	if err != nil {
		s.logger.Error("streaming recommendation failed", "error", err)
		sse.WriteError(err)
		return
	}
	if err := sse.WriteEvent(EventResult, rec); err != nil {
		s.logger.Warn("failed to write SSE result", "error", err)
	}
}

// handleResolve enriches caller-supplied ideas without the parsing and research stages.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req ResolveRequest
	if err := decodeRequest(w, r, &req); err != nil {
		s.errorResponse(w, err)
		return
	}

	ideas := req.Ideas
	if len(ideas) == 0 {
		ideas = types.IdeasFromNames(req.Names...)
	}

	candidates := s.recommender.Resolve(r.Context(), ideas, nil)
	s.jsonResponse(w, http.StatusOK, ResolveResponse{Candidates: candidates})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
