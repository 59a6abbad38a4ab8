package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dkazakov/studentapi/internal/common"
)

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Invalid request body"})
		return false
	}
	return true
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	s.logger.Info(r.Context(), "login attempt", "username", req.Username)

	bundle, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// Unknown user and wrong password produce the identical response.
		s.logger.Warn(r.Context(), "failed login attempt", "username", req.Username)
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "Invalid username or password"})
		return
	}

	s.logger.Info(r.Context(), "login successful", "username", req.Username)
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: toTokenResponse(bundle), Message: "Login successful"})
}

func (s *Server) refreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	bundle, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		// Expired, unknown, and orphaned tokens converge on one response;
		// the internal distinction is for the log only.
		s.logger.Warn(r.Context(), "refresh rejected", "reason", err.Error())
		writeJSON(w, http.StatusUnauthorized, apiResponse{Success: false, Message: "Invalid refresh token"})
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: toTokenResponse(bundle), Message: "Token refreshed"})
}

func (s *Server) listStudents(w http.ResponseWriter, r *http.Request) {
	students, err := s.students.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	out := make([]studentResponse, 0, len(students))
	for _, st := range students {
		out = append(out, toStudentResponse(st))
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: out, Message: "Students retrieved successfully"})
}

func (s *Server) getStudent(w http.ResponseWriter, r *http.Request) {
	st, err := s.students.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Student not found"})
			return
		}
		s.internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: toStudentResponse(st), Message: "Student retrieved successfully"})
}

func (s *Server) createStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Validation failed", Errors: errs})
		return
	}

	created, err := s.students.Create(r.Context(), req.toModel())
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			writeJSON(w, http.StatusConflict, apiResponse{Success: false, Message: "A student with this email already exists"})
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "student created", "id", created.ID)
	writeJSON(w, http.StatusCreated, apiResponse{Success: true, Data: toStudentResponse(created), Message: "Student created successfully"})
}

func (s *Server) updateStudent(w http.ResponseWriter, r *http.Request) {
	var req studentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if errs := req.validate(); len(errs) > 0 {
		writeJSON(w, http.StatusBadRequest, apiResponse{Success: false, Message: "Validation failed", Errors: errs})
		return
	}

	student := req.toModel()
	student.ID = r.PathValue("id")

	updated, err := s.students.Update(r.Context(), student)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Student not found"})
		case errors.Is(err, common.ErrorAlreadyExists):
			writeJSON(w, http.StatusConflict, apiResponse{Success: false, Message: "A student with this email already exists"})
		default:
			s.internalError(w, r, err)
		}
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: toStudentResponse(updated), Message: "Student updated successfully"})
}

func (s *Server) deleteStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.students.Delete(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Message: "Student not found"})
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "student deleted", "id", id)
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Student deleted successfully"})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			s.logger.Error(r.Context(), "health check failed", "error", err.Error())
			writeJSON(w, http.StatusServiceUnavailable, apiResponse{Success: false, Message: "unhealthy"})
			return
		}
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "healthy"})
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "request failed", "error", err.Error())
	writeJSON(w, http.StatusInternalServerError, apiResponse{Success: false, Message: "An error occurred processing your request."})
}
