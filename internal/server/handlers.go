package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mesh-intelligence/quizbank/pkg/types"
)

// Fixed response messages. Store errors are logged, never sent.
const (
	msgFetchFailed     = "Failed to fetch questions"
	msgSaveFailed      = "Failed to save questions"
	msgSaved           = "Questions saved successfully"
	msgDeleteFailed    = "Failed to delete question"
	msgDeleted         = "Question deleted successfully"
	msgDeleteAllFailed = "Failed to delete questions"
	msgDeletedAll      = "All questions deleted successfully"
	msgInvalidBody     = "Invalid request body"
)

// maxBodyBytes caps the save payload.
const maxBodyBytes = 32 << 20

// questionsPayload is the request and response envelope for the collection.
type questionsPayload struct {
	Questions []types.Question `json:"questions"`
}

type messagePayload struct {
	Message string `json:"message"`
}

func (s *Server) handleGetQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.store.List(r.Context())
	if err != nil {
		s.log.Error("listing questions", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgFetchFailed)
		return
	}
	s.metrics.stored.Set(float64(len(questions)))
	writeJSON(w, http.StatusOK, questionsPayload{Questions: questions})
}

func (s *Server) handleSaveQuestions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Questions *[]types.Question `json:"questions"`
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil || body.Questions == nil {
		if err == nil {
			err = errors.New("missing questions field")
		}
		s.log.Warn("rejecting save request", "error", err)
		writeMessage(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	questions := *body.Questions
	if err := s.store.ReplaceAll(r.Context(), questions); err != nil {
		s.log.Error("replacing questions", "count", len(questions), "error", err)
		writeMessage(w, http.StatusInternalServerError, msgSaveFailed)
		return
	}
	s.metrics.stored.Set(float64(len(questions)))
	s.log.Info("questions replaced", "count", len(questions))
	writeMessage(w, http.StatusOK, msgSaved)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	sl := r.PathValue("sl")
	if err := s.store.DeleteBySL(r.Context(), sl); err != nil {
		s.log.Error("deleting question", "sl", sl, "error", err)
		writeMessage(w, http.StatusInternalServerError, msgDeleteFailed)
		return
	}
	writeMessage(w, http.StatusOK, msgDeleted)
}

func (s *Server) handleDeleteByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.store.DeleteByID(r.Context(), id); err != nil {
		s.log.Error("deleting question", "id", id, "error", err)
		writeMessage(w, http.StatusInternalServerError, msgDeleteFailed)
		return
	}
	writeMessage(w, http.StatusOK, msgDeleted)
}

func (s *Server) handleDeleteQuestions(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteAll(r.Context()); err != nil {
		s.log.Error("deleting all questions", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgDeleteAllFailed)
		return
	}
	s.metrics.stored.Set(0)
	writeMessage(w, http.StatusOK, msgDeletedAll)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messagePayload{Message: message})
}
