package adaptive

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/codequest/backend/internal/models"
)

type Handler struct {
	selector  *Selector
	processor *Processor
	store     *Store
}

func NewHandler(selector *Selector, processor *Processor, store *Store) *Handler {
	return &Handler{selector: selector, processor: processor, store: store}
}

func getUserID(r *http.Request) (int64, bool) {
	uid, ok := r.Context().Value("user_id").(int64)
	return uid, ok
}

func (h *Handler) NextQuestion(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	question, err := h.selector.PickNext(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoEligibleQuestion) {
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "no eligible question"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to pick next question"})
		return
	}

	writeJSON(w, http.StatusOK, question)
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	vars := mux.Vars(r)
	questionID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question ID"})
		return
	}

	var req models.SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	resp, err := h.processor.Submit(r.Context(), userID, questionID, req.IsCorrect, req.TimeSpentSeconds)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuestionNotFound):
			writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Question not found"})
		case errors.Is(err, ErrConflict):
			writeJSON(w, http.StatusConflict, models.ErrorResponse{Error: "Concurrent update, retry the submission"})
		default:
			writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to submit answer"})
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) GetSkills(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	ratings, err := h.store.ListRatings(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load skill ratings"})
		return
	}

	views := make([]models.SkillRatingView, 0, len(ratings))
	for i := range ratings {
		sr := &ratings[i]
		views = append(views, models.SkillRatingView{
			SkillID:         sr.SkillID,
			Rating:          sr.Rating,
			TotalAttempts:   sr.TotalAttempts,
			CorrectAnswers:  sr.CorrectAnswers,
			Accuracy:        sr.Accuracy(),
			LastPracticedAt: sr.LastPracticedAt,
		})
	}

	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) GetWeakConcepts(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserID(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, models.ErrorResponse{Error: "Authentication required"})
		return
	}

	limit := intQueryParam(r.URL.Query(), "limit", 20)
	concepts, err := h.store.DueForReview(r.Context(), userID, time.Now().UTC(), limit)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, models.ErrorResponse{Error: "Failed to load weak concepts"})
		return
	}

	if concepts == nil {
		concepts = []models.WeakConcept{}
	}
	writeJSON(w, http.StatusOK, concepts)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func intQueryParam(query url.Values, key string, defaultVal int) int {
	s := query.Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	return v
}
