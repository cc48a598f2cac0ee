package leave

import (
	"context"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
)

type LeaveService interface {
	// Request
	SubmitRequest(ctx context.Context, actor user.Actor, req SubmitLeaveRequestRequest) (LeaveRequestResponse, error)
	ApproveRequest(ctx context.Context, actor user.Actor, requestID int64) (LeaveRequestResponse, error)
	RejectRequest(ctx context.Context, actor user.Actor, requestID int64) (LeaveRequestResponse, error)
	DeleteRequest(ctx context.Context, actor user.Actor, requestID int64) error
	MarkRequestRead(ctx context.Context, actor user.Actor, requestID int64) error
	MarkAllRead(ctx context.Context, actor user.Actor) (int64, error)
	GetRequest(ctx context.Context, actor user.Actor, requestID int64) (LeaveRequestResponse, error)
	ListRequests(ctx context.Context, actor user.Actor, filter LeaveRequestFilter) (ListLeaveRequestResponse, error)
	// Balance
	GetBalance(ctx context.Context, actor user.Actor, userID int64) (LeaveBalanceResponse, error)
	RefreshOnLeave(ctx context.Context, day time.Time) (int64, error)
	// Document
	GenerateDocument(ctx context.Context, actor user.Actor, requestID int64) (DocumentResponse, error)
	GenerateAllDocuments(ctx context.Context, actor user.Actor) (BatchResult, error)
	DownloadDocument(ctx context.Context, actor user.Actor, requestID int64) (Document, error)
	DeleteDocument(ctx context.Context, actor user.Actor, requestID int64) error
}
