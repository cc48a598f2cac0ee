package leave

import (
	"context"
	"time"
)

// LeaveRequestRepository - interface for demandes table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id int64) (LeaveRequest, error)
	List(ctx context.Context, scope Scope, filter LeaveRequestFilter) ([]LeaveRequest, int64, error)

	// Decide moves a pending request to the given state. It matches only
	// pending rows: ErrLeaveRequestAlreadyProcessed when the request exists
	// but is decided, ErrLeaveRequestNotFound when it does not exist.
	Decide(ctx context.Context, id int64, state State, approverID int64) (LeaveRequest, error)

	// DeletePending removes a pending request with the same error contract
	// as Decide, ErrOnlyPendingDeletable replacing the processed error.
	DeletePending(ctx context.Context, id int64) error

	MarkRead(ctx context.Context, id, userID int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

// LeaveBalanceRepository - interface for conges table
type LeaveBalanceRepository interface {
	GetLatestByUserID(ctx context.Context, userID int64) (LeaveBalance, error)

	// Debit applies LeaveBalance.Debit to the latest row of the user.
	// ErrBalanceNotFound when the user has no row.
	Debit(ctx context.Context, userID int64, days int) (LeaveBalance, error)

	// RefreshOnLeave recomputes the on-leave flag for the given day and
	// returns the number of rows changed.
	RefreshOnLeave(ctx context.Context, day time.Time) (int64, error)
}

// DocumentRepository - generated certificates stored on demandes
type DocumentRepository interface {
	GetDocumentData(ctx context.Context, id int64) (DocumentData, error)

	// Save stores the binary of an approved request, replacing any previous
	// one. ErrDocumentRequiresApproval when the request is not approved.
	Save(ctx context.Context, id int64, content []byte, generatedAt time.Time) error

	// Get returns ErrDocumentNotFound when nothing was generated.
	Get(ctx context.Context, id int64) (Document, error)
	Clear(ctx context.Context, id int64) error

	// ListPendingGeneration returns approved requests without a document.
	ListPendingGeneration(ctx context.Context, scope Scope) ([]int64, error)
}

// Transactor runs fn in one database transaction. Repositories called with
// the ctx passed to fn join that transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// DocumentRenderer turns an approved request into a certificate.
type DocumentRenderer interface {
	Render(data DocumentData) ([]byte, error)
}

// Notifier delivers live events to a user.
type Notifier interface {
	Notify(userID int64, event string, data any)
}
