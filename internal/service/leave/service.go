package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/metrics"
)

// Events pushed to the requester's notification stream.
const (
	EventRequestApproved   = "leave_request.approved"
	EventRequestRejected   = "leave_request.rejected"
	EventDocumentGenerated = "leave_request.document_generated"
)

type LeaveServiceImpl struct {
	policy leave.Policy
	leave.LeaveRequestRepository
	leave.LeaveBalanceRepository
	leave.DocumentRepository
	user.UserRepository
	requestService  *RequestService
	documentService *DocumentService
	notifier        leave.Notifier
}

func NewLeaveService(
	policy leave.Policy,
	requestRepository leave.LeaveRequestRepository,
	balanceRepository leave.LeaveBalanceRepository,
	documentRepository leave.DocumentRepository,
	userRepository user.UserRepository,
	tx leave.Transactor,
	renderer leave.DocumentRenderer,
	notifier leave.Notifier,
) leave.LeaveService {
	return &LeaveServiceImpl{
		policy:                 policy,
		LeaveRequestRepository: requestRepository,
		LeaveBalanceRepository: balanceRepository,
		DocumentRepository:     documentRepository,
		UserRepository:         userRepository,
		requestService:         NewRequestService(requestRepository, balanceRepository, tx),
		documentService:        NewDocumentService(documentRepository, renderer),
		notifier:               notifier,
	}
}

// SubmitRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) SubmitRequest(ctx context.Context, actor user.Actor, req leave.SubmitLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if actor.IsSystem() || !user.HasPermission(actor.Role, user.PermissionLeaveCreate) {
		return leave.LeaveRequestResponse{}, leave.ErrPermissionDenied
	}

	created, err := l.requestService.Submit(ctx, actor.ID, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.LeaveRequestTransitions.WithLabelValues(metrics.TransitionSubmitted).Inc()
	slog.Info("Leave request submitted", "request_id", created.ID, "user_id", actor.ID, "days", created.Days)

	return leave.NewLeaveRequestResponse(created), nil
}

// ApproveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ApproveRequest(ctx context.Context, actor user.Actor, requestID int64) (leave.LeaveRequestResponse, error) {
	if _, err := l.loadDecidable(ctx, actor, requestID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	approved, balance, err := l.requestService.Approve(ctx, requestID, actor.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.LeaveRequestTransitions.WithLabelValues(metrics.TransitionApproved).Inc()
	slog.Info("Leave request approved",
		"request_id", approved.ID,
		"approver_id", actor.ID,
		"days", approved.Days,
		"available_days", balance.AvailableDays,
	)

	response := leave.NewLeaveRequestResponse(approved)
	l.notify(approved.UserID, EventRequestApproved, response)
	return response, nil
}

// RejectRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) RejectRequest(ctx context.Context, actor user.Actor, requestID int64) (leave.LeaveRequestResponse, error) {
	if _, err := l.loadDecidable(ctx, actor, requestID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	rejected, err := l.requestService.Reject(ctx, requestID, actor.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	metrics.LeaveRequestTransitions.WithLabelValues(metrics.TransitionRejected).Inc()
	slog.Info("Leave request rejected", "request_id", rejected.ID, "approver_id", actor.ID)

	response := leave.NewLeaveRequestResponse(rejected)
	l.notify(rejected.UserID, EventRequestRejected, response)
	return response, nil
}

// loadDecidable returns a request the actor may approve or reject. The
// pending check here is a fast path; the conditional update is the guard.
func (l *LeaveServiceImpl) loadDecidable(ctx context.Context, actor user.Actor, requestID int64) (leave.LeaveRequest, error) {
	if !user.HasPermission(actor.Role, user.PermissionLeaveApprove) {
		return leave.LeaveRequest{}, leave.ErrPermissionDenied
	}

	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}

	if request.UserID == actor.ID {
		return leave.LeaveRequest{}, leave.ErrSelfDecision
	}
	if !l.policy.ApproveScope(actor).Matches(request.Requester) {
		return leave.LeaveRequest{}, leave.ErrOutOfScope
	}
	if request.State != leave.StatePending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}

	return request, nil
}

// DeleteRequest implements leave.LeaveService. The requester may withdraw
// their own pending request; an administrator may remove one in view.
func (l *LeaveServiceImpl) DeleteRequest(ctx context.Context, actor user.Actor, requestID int64) error {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return err
	}

	owner := request.UserID == actor.ID
	adminInScope := actor.Role == user.RoleAdmin && l.policy.ViewScope(actor).Matches(request.Requester)
	if !owner && !adminInScope {
		return leave.ErrOutOfScope
	}

	if err := l.requestService.Delete(ctx, requestID); err != nil {
		return err
	}

	metrics.LeaveRequestTransitions.WithLabelValues(metrics.TransitionDeleted).Inc()
	slog.Info("Leave request deleted", "request_id", requestID, "user_id", actor.ID)
	return nil
}

// MarkRequestRead implements leave.LeaveService.
func (l *LeaveServiceImpl) MarkRequestRead(ctx context.Context, actor user.Actor, requestID int64) error {
	return l.LeaveRequestRepository.MarkRead(ctx, requestID, actor.ID)
}

// MarkAllRead implements leave.LeaveService.
func (l *LeaveServiceImpl) MarkAllRead(ctx context.Context, actor user.Actor) (int64, error) {
	return l.LeaveRequestRepository.MarkAllRead(ctx, actor.ID)
}

// GetRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetRequest(ctx context.Context, actor user.Actor, requestID int64) (leave.LeaveRequestResponse, error) {
	request, err := l.loadVisible(ctx, actor, requestID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.NewLeaveRequestResponse(request), nil
}

func (l *LeaveServiceImpl) loadVisible(ctx context.Context, actor user.Actor, requestID int64) (leave.LeaveRequest, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !l.policy.ViewScope(actor).Matches(request.Requester) {
		return leave.LeaveRequest{}, leave.ErrOutOfScope
	}
	return request, nil
}

// ListRequests implements leave.LeaveService.
func (l *LeaveServiceImpl) ListRequests(ctx context.Context, actor user.Actor, filter leave.LeaveRequestFilter) (leave.ListLeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	scope := l.policy.ViewScope(actor)
	if filter.Mine {
		self := actor.ID
		scope = leave.Scope{OwnerID: &self}
	}

	requests, total, err := l.LeaveRequestRepository.List(ctx, scope, filter)
	if err != nil {
		return leave.ListLeaveRequestResponse{}, err
	}

	return leave.NewListLeaveRequestResponse(requests, total, filter), nil
}

// GetBalance implements leave.LeaveService.
func (l *LeaveServiceImpl) GetBalance(ctx context.Context, actor user.Actor, userID int64) (leave.LeaveBalanceResponse, error) {
	if userID != actor.ID {
		target, err := l.UserRepository.GetByID(ctx, userID)
		if err != nil {
			return leave.LeaveBalanceResponse{}, err
		}
		position := leave.Position{
			UserID:          target.ID,
			Role:            target.Role,
			DepartmentID:    target.DepartmentID,
			SousDirectionID: target.SousDirectionID,
			DirectionID:     target.DirectionID,
		}
		if !l.policy.ViewScope(actor).Matches(position) {
			return leave.LeaveBalanceResponse{}, leave.ErrOutOfScope
		}
	}

	balance, err := l.LeaveBalanceRepository.GetLatestByUserID(ctx, userID)
	if err != nil {
		return leave.LeaveBalanceResponse{}, err
	}
	return leave.NewLeaveBalanceResponse(balance), nil
}

// RefreshOnLeave implements leave.LeaveService.
func (l *LeaveServiceImpl) RefreshOnLeave(ctx context.Context, day time.Time) (int64, error) {
	return l.requestService.RefreshOnLeave(ctx, day)
}

// GenerateDocument implements leave.LeaveService.
func (l *LeaveServiceImpl) GenerateDocument(ctx context.Context, actor user.Actor, requestID int64) (leave.DocumentResponse, error) {
	if !user.HasPermission(actor.Role, user.PermissionDocumentManage) {
		return leave.DocumentResponse{}, leave.ErrPermissionDenied
	}
	request, err := l.loadVisible(ctx, actor, requestID)
	if err != nil {
		return leave.DocumentResponse{}, err
	}

	doc, err := l.documentService.Generate(ctx, requestID)
	if err != nil {
		return leave.DocumentResponse{}, err
	}

	response := leave.NewDocumentResponse(doc)
	l.notify(request.UserID, EventDocumentGenerated, response)
	return response, nil
}

// GenerateAllDocuments implements leave.LeaveService.
func (l *LeaveServiceImpl) GenerateAllDocuments(ctx context.Context, actor user.Actor) (leave.BatchResult, error) {
	if !user.HasPermission(actor.Role, user.PermissionDocumentManage) {
		return leave.BatchResult{}, leave.ErrPermissionDenied
	}

	ids, err := l.DocumentRepository.ListPendingGeneration(ctx, l.policy.ViewScope(actor))
	if err != nil {
		return leave.BatchResult{}, fmt.Errorf("failed to list requests without document: %w", err)
	}

	return l.documentService.GenerateAll(ctx, ids), nil
}

// DownloadDocument implements leave.LeaveService.
func (l *LeaveServiceImpl) DownloadDocument(ctx context.Context, actor user.Actor, requestID int64) (leave.Document, error) {
	if !user.HasPermission(actor.Role, user.PermissionDocumentView) {
		return leave.Document{}, leave.ErrPermissionDenied
	}
	if _, err := l.loadVisible(ctx, actor, requestID); err != nil {
		return leave.Document{}, err
	}
	return l.DocumentRepository.Get(ctx, requestID)
}

// DeleteDocument implements leave.LeaveService. It works in any state.
func (l *LeaveServiceImpl) DeleteDocument(ctx context.Context, actor user.Actor, requestID int64) error {
	if !user.HasPermission(actor.Role, user.PermissionDocumentManage) {
		return leave.ErrPermissionDenied
	}
	if _, err := l.loadVisible(ctx, actor, requestID); err != nil {
		return err
	}
	if err := l.DocumentRepository.Clear(ctx, requestID); err != nil {
		return err
	}

	slog.Info("Leave document deleted", "request_id", requestID, "user_id", actor.ID)
	return nil
}

func (l *LeaveServiceImpl) notify(userID int64, event string, data any) {
	if l.notifier != nil {
		l.notifier.Notify(userID, event, data)
	}
}
