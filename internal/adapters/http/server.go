package httpadapter

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"parley/internal/domain"
	"parley/internal/questions"
	appsvc "parley/internal/services/applications"
	"parley/internal/services/dashboard"
	"parley/internal/services/session"
)

// Server exposes the interview pipeline over HTTP.
type Server struct {
	sessions  *session.Service
	dashboard *dashboard.Service
	apps      *appsvc.Service
	bank      *questions.Bank
}

func New(sessions *session.Service, dash *dashboard.Service, apps *appsvc.Service, bank *questions.Bank) *Server {
	return &Server{sessions: sessions, dashboard: dash, apps: apps, bank: bank}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.getHealthz)
	r.Route("/interviews/{id}", func(r chi.Router) {
		r.Post("/start", s.postStart)
		r.Post("/responses", s.postResponse)
		r.Post("/complete", s.postComplete)
		r.Post("/cancel", s.postCancel)
	})
	r.Route("/dashboard", func(r chi.Router) {
		r.Get("/statistics", s.getStatistics)
		r.Get("/candidates", s.getCandidates)
		r.Get("/candidates/{id}", s.getCandidate)
	})
	r.Route("/applications", func(r chi.Router) {
		r.Post("/", s.postApplication)
		r.Post("/{id}/accept", s.postAccept)
	})
	r.Get("/questions", s.getQuestions)
	return r
}

// Wire types. Domain models stay free of HTTP concerns.

type questionView struct {
	Number   int    `json:"number"`
	Prompt   string `json:"prompt"`
	Category string `json:"category,omitempty"`
}

type responseView struct {
	QuestionNumber int     `json:"question_number"`
	Question       string  `json:"question"`
	Answer         string  `json:"answer"`
	Sentiment      float64 `json:"sentiment_score"`
	Confidence     float64 `json:"confidence_score"`
	Clarity        float64 `json:"clarity_score"`
	Overall        float64 `json:"overall_score"`
	CreatedAt      string  `json:"created_at"`
}

type interviewView struct {
	ID            string         `json:"id"`
	CandidateID   string         `json:"candidate_id"`
	CandidateName string         `json:"candidate_name"`
	Role          string         `json:"role"`
	Status        string         `json:"status"`
	Questions     []questionView `json:"questions"`
	Responses     []responseView `json:"responses"`
	OverallScore  *float64       `json:"overall_score"`
	ScheduledAt   *time.Time     `json:"scheduled_at,omitempty"`
	StartedAt     *time.Time     `json:"started_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
}

func viewInterview(iv *domain.Interview) interviewView {
	v := interviewView{
		ID:            iv.ID,
		CandidateID:   iv.CandidateID,
		CandidateName: iv.CandidateName,
		Role:          iv.Role,
		Status:        string(iv.Status),
		Questions:     viewQuestions(iv.Questions),
		Responses:     make([]responseView, 0, len(iv.Responses)),
		OverallScore:  iv.OverallScore,
		ScheduledAt:   iv.ScheduledAt,
		StartedAt:     iv.StartedAt,
		CompletedAt:   iv.CompletedAt,
	}
	for _, r := range iv.Responses {
		v.Responses = append(v.Responses, viewResponse(r))
	}
	return v
}

func viewQuestions(qs []domain.Question) []questionView {
	out := make([]questionView, 0, len(qs))
	for i, q := range qs {
		out = append(out, questionView{Number: i + 1, Prompt: q.Prompt, Category: q.Category})
	}
	return out
}

func viewResponse(r domain.Response) responseView {
	return responseView{
		QuestionNumber: r.QuestionNumber,
		Question:       r.Question,
		Answer:         r.Answer,
		Sentiment:      r.Sentiment,
		Confidence:     r.Confidence,
		Clarity:        r.Clarity,
		Overall:        r.Overall,
		CreatedAt:      r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) getHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) postStart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	qs, err := s.sessions.Start(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":        id,
		"status":    string(domain.StatusInProgress),
		"questions": viewQuestions(qs),
	})
}

func (s *Server) postResponse(w http.ResponseWriter, r *http.Request) {
	var body struct {
		QuestionNumber int    `json:"question_number"`
		Answer         string `json:"answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	resp, more, err := s.sessions.SubmitResponse(r.Context(), chi.URLParam(r, "id"), body.QuestionNumber, body.Answer)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"response":       viewResponse(*resp),
		"more_questions": more,
	})
}

func (s *Server) postComplete(w http.ResponseWriter, r *http.Request) {
	iv, err := s.sessions.Complete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":            iv.ID,
		"status":        string(iv.Status),
		"overall_score": iv.OverallScore,
	})
}

func (s *Server) postCancel(w http.ResponseWriter, r *http.Request) {
	iv, err := s.sessions.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": iv.ID, "status": string(iv.Status)})
}

func (s *Server) getStatistics(w http.ResponseWriter, r *http.Request) {
	st, err := s.dashboard.Statistics(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	byRole := make([]map[string]any, 0, len(st.ByRole))
	for _, rs := range st.ByRole {
		byRole = append(byRole, map[string]any{
			"role":          rs.Role,
			"count":         rs.Count,
			"average_score": rs.AverageScore,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_interviews":     st.TotalInterviews,
		"completed_interviews": st.CompletedInterviews,
		"average_score":        st.AverageScore,
		"by_role":              byRole,
	})
}

func (s *Server) getCandidates(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}
	out, err := s.dashboard.Candidates(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	views := make([]map[string]any, 0, len(out))
	for _, c := range out {
		views = append(views, map[string]any{
			"interview_id":   c.InterviewID,
			"candidate_id":   c.CandidateID,
			"candidate_name": c.CandidateName,
			"role":           c.Role,
			"status":         string(c.Status),
			"overall_score":  c.OverallScore,
			"completed_at":   c.CompletedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": views})
}

func parseFilter(r *http.Request) (domain.CandidateFilter, error) {
	var f domain.CandidateFilter
	q := r.URL.Query()
	f.Role = strings.TrimSpace(q.Get("role"))
	if v := q.Get("min_score"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return f, errors.New("min_score must be a number")
		}
		f.MinScore = &min
	}
	if v := q.Get("status"); v != "" {
		st := domain.InterviewStatus(v)
		if !st.IsValid() {
			return f, errors.New("unknown status " + strconv.Quote(v))
		}
		f.Status = &st
	}
	return f, nil
}

func (s *Server) getCandidate(w http.ResponseWriter, r *http.Request) {
	iv, err := s.dashboard.Candidate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, viewInterview(iv))
}

func (s *Server) postApplication(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CandidateID   string `json:"candidate_id"`
		CandidateName string `json:"candidate_name"`
		Role          string `json:"role"`
		CoverLetter   string `json:"cover_letter"`
		PortfolioURL  string `json:"portfolio_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	app, err := s.apps.Create(r.Context(), appsvc.CreateInput{
		CandidateID:   body.CandidateID,
		CandidateName: body.CandidateName,
		Role:          body.Role,
		CoverLetter:   body.CoverLetter,
		PortfolioURL:  body.PortfolioURL,
	})
	if err != nil {
		if session.IsGuardError(err) {
			writeError(w, err)
		} else {
			writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		}
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":               app.ID,
		"candidate_id":     app.CandidateID,
		"role":             app.Role,
		"status":           string(app.Status),
		"portfolio_domain": app.PortfolioDomain,
	})
}

func (s *Server) postAccept(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ScheduledAt time.Time `json:"scheduled_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ScheduledAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, errorBody("scheduled_at is required"))
		return
	}
	iv, err := s.apps.AcceptAndSchedule(r.Context(), chi.URLParam(r, "id"), body.ScheduledAt)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"interview_id": iv.ID,
		"status":       string(iv.Status),
		"scheduled_at": iv.ScheduledAt,
	})
}

func (s *Server) getQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	qs := s.bank.List(q.Get("role"), q.Get("category"))
	writeJSON(w, http.StatusOK, map[string]any{"questions": viewQuestions(qs)})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("http: write response: %v", err)
	}
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// writeError maps domain sentinels onto status codes. Unknown errors are
// logged and reported as 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
	case errors.Is(err, domain.ErrEmptyAnswer):
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrOutOfSequence),
		errors.Is(err, domain.ErrIncompleteInterview):
		writeJSON(w, http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, domain.ErrQuestionSupply),
		errors.Is(err, domain.ErrScoringUnavailable):
		writeJSON(w, http.StatusBadGateway, errorBody(err.Error()))
	default:
		log.Printf("http: internal error: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
	}
}
