package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
)

// RequestService owns the request state machine. Callers establish the
// actor's authority before calling it.
type RequestService struct {
	leave.LeaveRequestRepository
	leave.LeaveBalanceRepository
	tx leave.Transactor
}

func NewRequestService(requestRepository leave.LeaveRequestRepository, balanceRepository leave.LeaveBalanceRepository, tx leave.Transactor) *RequestService {
	return &RequestService{
		LeaveRequestRepository: requestRepository,
		LeaveBalanceRepository: balanceRepository,
		tx:                     tx,
	}
}

// Submit creates a pending request. The balance is not touched until approval.
func (r *RequestService) Submit(ctx context.Context, userID int64, req leave.SubmitLeaveRequestRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	start, end := req.Period()
	days, err := leave.CalculateDays(start, end)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("calculate duration: %w", err)
	}

	var motif *string
	if req.Motif != nil && *req.Motif != "" {
		motif = req.Motif
	}

	created, err := r.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		UserID:    userID,
		Nature:    req.Nature,
		Motif:     motif,
		StartDate: start,
		EndDate:   end,
		Days:      days,
		State:     leave.StatePending,
	})
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return created, nil
}

// Approve moves a pending request to approved and debits the requester's
// balance in the same transaction. Losing a concurrent race surfaces as
// leave.ErrLeaveRequestAlreadyProcessed; a missing ledger row rolls back.
func (r *RequestService) Approve(ctx context.Context, requestID int64, approverID int64) (leave.LeaveRequest, leave.LeaveBalance, error) {
	var approved leave.LeaveRequest
	var balance leave.LeaveBalance

	err := r.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		approved, err = r.LeaveRequestRepository.Decide(txCtx, requestID, leave.StateApproved, approverID)
		if err != nil {
			return err
		}

		balance, err = r.LeaveBalanceRepository.Debit(txCtx, approved.UserID, approved.Days)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, leave.LeaveBalance{}, err
	}

	return approved, balance, nil
}

// Reject moves a pending request to rejected. The ledger is never touched.
func (r *RequestService) Reject(ctx context.Context, requestID int64, approverID int64) (leave.LeaveRequest, error) {
	return r.LeaveRequestRepository.Decide(ctx, requestID, leave.StateRejected, approverID)
}

// Delete removes a request that is still pending. The pending check and the
// removal happen in one conditional statement inside a transaction.
func (r *RequestService) Delete(ctx context.Context, requestID int64) error {
	return r.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		return r.LeaveRequestRepository.DeletePending(txCtx, requestID)
	})
}

// RefreshOnLeave recomputes the on-leave flags for day.
func (r *RequestService) RefreshOnLeave(ctx context.Context, day time.Time) (int64, error) {
	return r.LeaveBalanceRepository.RefreshOnLeave(ctx, day)
}
