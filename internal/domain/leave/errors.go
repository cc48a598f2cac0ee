package leave

import "errors"

// Error classes. Every specific error below wraps exactly one of them so the
// HTTP layer can map by class.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
)

var (
	ErrLeaveRequestNotFound         = classify(ErrNotFound, "Leave request not found")
	ErrBalanceNotFound              = classify(ErrNotFound, "Leave balance not found")
	ErrDocumentNotFound             = classify(ErrNotFound, "Leave document not found")
	ErrLeaveRequestAlreadyProcessed = classify(ErrInvalidState, "Leave request already processed")
	ErrOnlyPendingDeletable         = classify(ErrInvalidState, "Only pending leave requests can be deleted")
	ErrDocumentRequiresApproval     = classify(ErrInvalidState, "Documents can only be generated for approved leave requests")
	ErrOutOfScope                   = classify(ErrForbidden, "Leave request is outside your scope")
	ErrSelfDecision                 = classify(ErrForbidden, "You cannot decide on your own leave request")
	ErrPermissionDenied             = classify(ErrForbidden, "You do not have permission to perform this action")
)

type classifiedError struct {
	msg   string
	class error
}

func classify(class error, msg string) error {
	return &classifiedError{msg: msg, class: class}
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.class }
