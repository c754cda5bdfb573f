package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/clockport/attendance-backend-go/internal/domain/attendance"
	"github.com/clockport/attendance-backend-go/internal/handler/http/response"
)

type AttendanceHandler struct {
	service attendance.Service
}

func NewAttendanceHandler(service attendance.Service) *AttendanceHandler {
	return &AttendanceHandler{service: service}
}

func userIDFromContext(r *http.Request) (string, bool) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", false
	}
	userID, ok := claims["user_id"].(string)
	return userID, ok && userID != ""
}

func (h *AttendanceHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid token")
		return
	}

	var req attendance.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = userID

	resp, err := h.service.CheckIn(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Checked in", resp)
}

func (h *AttendanceHandler) RequestOvertime(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid token")
		return
	}

	resp, err := h.service.RequestOvertime(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Overtime started", resp)
}

func (h *AttendanceHandler) CheckOut(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid token")
		return
	}

	var req attendance.CheckOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.UserID = userID

	resp, err := h.service.CheckOut(r.Context(), &req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked out", resp)
}

func (h *AttendanceHandler) GetToday(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromContext(r)
	if !ok {
		response.Unauthorized(w, "Missing or invalid token")
		return
	}

	resp, err := h.service.GetToday(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}
