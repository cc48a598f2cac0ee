package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/handler/http/middleware"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/handler/http/response"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	SubmitRequest(w http.ResponseWriter, r *http.Request)
	ListRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	DeleteRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
	MarkAllRead(w http.ResponseWriter, r *http.Request)

	GetMyBalance(w http.ResponseWriter, r *http.Request)
	GetBalance(w http.ResponseWriter, r *http.Request)

	GenerateDocument(w http.ResponseWriter, r *http.Request)
	DownloadDocument(w http.ResponseWriter, r *http.Request)
	DeleteDocument(w http.ResponseWriter, r *http.Request)
	GenerateAllDocuments(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{
		leaveService: leaveService,
	}
}

// actorOrUnauthorized writes a 401 when the request carries no caller.
func actorOrUnauthorized(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Unauthorized")
	}
	return actor, ok
}

// idParam parses a positive numeric path parameter.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, ok := validator.ParseID(chi.URLParam(r, name))
	if !ok {
		response.BadRequest(w, "Invalid "+name, map[string]string{name: name + " must be a positive integer"})
	}
	return id, ok
}

// SubmitRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	var req leave.SubmitLeaveRequestRequest

	// 1. Decode JSON
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitRequest decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := l.leaveService.SubmitRequest(r.Context(), actor, req)
	if err != nil {
		slog.Error("SubmitRequest service error", "error", err, "user_id", actor.ID)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted successfully", created)
}

// ListRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := leave.LeaveRequestFilter{
		Mine: query.Get("mine") == "true" || query.Get("mine") == "1",
	}
	if v := query.Get("etat"); v != "" {
		filter.State = &v
	}
	if v := query.Get("nature"); v != "" {
		filter.Nature = &v
	}

	details := map[string]string{}
	for _, p := range []struct {
		key    string
		target *int
	}{{"page", &filter.Page}, {"limit", &filter.Limit}} {
		v := query.Get(p.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			details[p.key] = p.key + " must be a number"
			continue
		}
		*p.target = n
	}
	if len(details) > 0 {
		response.BadRequest(w, "Invalid query parameters", details)
		return
	}

	result, err := l.leaveService.ListRequests(r.Context(), actor, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Requests, &response.Meta{
		Page:       result.Page,
		Limit:      result.Limit,
		TotalItems: result.TotalCount,
		TotalPages: result.TotalPages,
		Showing:    result.Showing,
	})
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	requestID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	request, err := l.leaveService.GetRequest(r.Context(), actor, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, request)
}

// DeleteRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	requestID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := l.leaveService.DeleteRequest(r.Context(), actor, requestID); err != nil {
		slog.Error("DeleteRequest service error", "error", err, "request_id", requestID)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request deleted successfully", nil)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	requestID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	approved, err := l.leaveService.ApproveRequest(r.Context(), actor, requestID)
	if err != nil {
		slog.Error("ApproveRequest service error", "error", err, "request_id", requestID)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved successfully", approved)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	requestID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	rejected, err := l.leaveService.RejectRequest(r.Context(), actor, requestID)
	if err != nil {
		slog.Error("RejectRequest service error", "error", err, "request_id", requestID)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected successfully", rejected)
}

// MarkRead implements LeaveHandler.
func (l *LeaveHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	requestID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := l.leaveService.MarkRequestRead(r.Context(), actor, requestID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request marked as read", nil)
}

// MarkAllRead implements LeaveHandler.
func (l *LeaveHandlerImpl) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	updated, err := l.leaveService.MarkAllRead(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave requests marked as read", leave.MarkAllReadResponse{Updated: updated})
}

// GetMyBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	balance, err := l.leaveService.GetBalance(r.Context(), actor, actor.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// GetBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	userID, ok := idParam(w, r, "userID")
	if !ok {
		return
	}

	balance, err := l.leaveService.GetBalance(r.Context(), actor, userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, balance)
}

// GenerateDocument implements LeaveHandler.
func (l *LeaveHandlerImpl) GenerateDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	requestID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	doc, err := l.leaveService.GenerateDocument(r.Context(), actor, requestID)
	if err != nil {
		slog.Error("GenerateDocument service error", "error", err, "request_id", requestID)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave document generated successfully", doc)
}

// DownloadDocument implements LeaveHandler. ?inline=1 asks the browser to
// display the PDF instead of saving it.
func (l *LeaveHandlerImpl) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	requestID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	doc, err := l.leaveService.DownloadDocument(r.Context(), actor, requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	inline := r.URL.Query().Get("inline")
	response.File(w, "application/pdf", doc.FileName(), doc.Content, inline == "1" || inline == "true")
}

// DeleteDocument implements LeaveHandler.
func (l *LeaveHandlerImpl) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}
	requestID, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := l.leaveService.DeleteDocument(r.Context(), actor, requestID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave document deleted successfully", nil)
}

// GenerateAllDocuments implements LeaveHandler.
func (l *LeaveHandlerImpl) GenerateAllDocuments(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOrUnauthorized(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.GenerateAllDocuments(r.Context(), actor)
	if err != nil {
		slog.Error("GenerateAllDocuments service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("Leave documents generated", "success", result.SuccessCount, "errors", result.ErrorCount)
	response.SuccessWithMessage(w, "Leave documents generated", result)
}
