package server

import (
	"errors"
	"net/http"

	"github.com/amonks/remindme/feedback"
	"github.com/amonks/remindme/version"
)

const invalidVersionMessage = "Invalid version format. Use x.y.z format"

type healthResponse struct {
	Status string `json:"status"`
}

type feedbackResponse struct {
	Message  string          `json:"message"`
	Feedback feedback.Record `json:"feedback"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

func (s *Server) handleLatestVersion(w http.ResponseWriter, r *http.Request) {
	record, err := s.versions.Latest(r.Context(), r.URL.Query().Get("major"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, record)
	case errors.Is(err, version.ErrInvalidMajor):
		s.writeError(w, r, http.StatusBadRequest, "Invalid major version", err)
	case errors.Is(err, version.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Message: "No version found",
			Error:   "NO_VERSION",
			Details: "No version found for the specified criteria",
		})
	default:
		s.writeError(w, r, http.StatusInternalServerError, "Error fetching version", err)
	}
}

func (s *Server) handlePublishVersion(w http.ResponseWriter, r *http.Request) {
	var req version.PublishRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	result, err := s.versions.Publish(r.Context(), req)
	if err != nil {
		s.writeVersionError(w, r, err, "Error creating version")
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, result.Record)
}

func (s *Server) handleDeleteVersion(w http.ResponseWriter, r *http.Request) {
	if err := s.versions.Unpublish(r.Context(), r.PathValue("version")); err != nil {
		s.writeVersionError(w, r, err, "Error deleting version")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Version deleted successfully"})
}

// writeVersionError maps version sentinels to status codes.
func (s *Server) writeVersionError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, version.ErrInvalidFormat):
		s.logRequestError(r, http.StatusBadRequest, err)
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: invalidVersionMessage})
	case errors.Is(err, version.ErrVersionOutOfRange):
		s.writeError(w, r, http.StatusBadRequest, "Version number is too large", err)
	case errors.Is(err, version.ErrInvalidType):
		s.writeError(w, r, http.StatusBadRequest, "Invalid version type. Use major, minor or patch", err)
	case errors.Is(err, version.ErrMissingReleaseNotes):
		s.writeError(w, r, http.StatusBadRequest, "Release notes are required", err)
	case errors.Is(err, version.ErrNotFound):
		s.logRequestError(r, http.StatusNotFound, err)
		writeJSON(w, http.StatusNotFound, messageResponse{Message: "Version not found"})
	case errors.Is(err, version.ErrDuplicateVersion):
		s.writeError(w, r, http.StatusConflict, "Version already exists", err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, fallback, err)
	}
}

func (s *Server) handleSubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var submission feedback.Submission
	if err := decodeJSON(r, &submission); err != nil {
		s.writeError(w, r, http.StatusBadRequest, "Error submitting feedback", err)
		return
	}
	record, err := s.feedback.Submit(r.Context(), submission)
	switch {
	case err == nil:
		writeJSON(w, http.StatusCreated, feedbackResponse{
			Message:  "Feedback submitted successfully",
			Feedback: record,
		})
	case errors.Is(err, feedback.ErrInvalidType), errors.Is(err, feedback.ErrMissingField):
		s.writeError(w, r, http.StatusBadRequest, "Error submitting feedback", err)
	default:
		s.writeError(w, r, http.StatusInternalServerError, "Error submitting feedback", err)
	}
}

func (s *Server) handleListFeedback(w http.ResponseWriter, r *http.Request) {
	records, err := s.feedback.List(r.Context())
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, "Error fetching feedbacks", err)
		return
	}
	if records == nil {
		records = []feedback.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
