package leave

import (
	"errors"
	"strconv"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
)

// State is the stored `etat` code of a request.
type State int16

const (
	StatePending  State = 0
	StateApproved State = 1
	StateRejected State = 2
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateApproved:
		return "approved"
	case StateRejected:
		return "rejected"
	}
	return "unknown"
}

// ParseState converts the API name of a state.
func ParseState(s string) (State, bool) {
	switch s {
	case "pending":
		return StatePending, true
	case "approved":
		return StateApproved, true
	case "rejected":
		return StateRejected, true
	}
	return 0, false
}

// Leave categories. The category is a free-form label; only the exceptional
// one carries extra rules.
const (
	NatureOrdinary    = "Ordinaire"
	NatureExceptional = "Exceptionnel"
	NatureOther       = "Autre"
)

// Position locates a user in the organisation. DirectionID is the effective
// direction: set directly on the user or inherited through the department.
type Position struct {
	UserID          int64
	Role            user.Role
	DepartmentID    *int64
	SousDirectionID *int64
	DirectionID     *int64
}

// PositionOf returns the position of an actor.
func PositionOf(a user.Actor) Position {
	return Position{
		UserID:          a.ID,
		Role:            a.Role,
		DepartmentID:    a.DepartmentID,
		SousDirectionID: a.SousDirectionID,
		DirectionID:     a.DirectionID,
	}
}

// LeaveRequest entity ("demande")
type LeaveRequest struct {
	ID     int64
	UserID int64

	Nature    string
	Motif     *string
	StartDate time.Time
	EndDate   time.Time
	Days      int

	SubmittedAt time.Time
	State       State
	ApprovedBy  *int64
	DecidedAt   *time.Time
	Read        bool

	DocumentGenerated   bool
	DocumentGeneratedAt *time.Time

	// Relationships (for responses and scope checks)
	Requester      Position
	RequesterName  string
	RequesterEmail string
	ApproverName   *string
}

// LeaveBalance entity ("conges"). The latest row per user is authoritative.
type LeaveBalance struct {
	ID            int64
	UserID        int64
	AvailableDays int
	ConsumedDays  int
	OnLeave       bool

	Nature          *string
	DepartmentID    *int64
	SousDirectionID *int64
	DirectionID     *int64
	FunctionID      *int64
}

// Debit applies an approved duration to the counters. Available days never
// go below zero; consumed days grow by the full duration.
func (b LeaveBalance) Debit(days int) LeaveBalance {
	b.AvailableDays = FlooredDecrement(b.AvailableDays, days)
	b.ConsumedDays += days
	return b
}

// FlooredDecrement returns max(available-days, 0).
func FlooredDecrement(available, days int) int {
	if days >= available {
		return 0
	}
	return available - days
}

var errEndBeforeStart = errors.New("end date is before start date")

const secondsPerDay = 24 * 60 * 60

// CalculateDays returns the inclusive number of calendar days between two
// dates. Time of day and location are ignored.
func CalculateDays(start, end time.Time) (int, error) {
	s := truncateDate(start)
	e := truncateDate(end)
	if e.Before(s) {
		return 0, errEndBeforeStart
	}
	// Unix seconds rather than Sub: a Duration saturates past ~292 years.
	return int((e.Unix()-s.Unix())/secondsPerDay) + 1, nil
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DocumentData is everything the certificate renderer needs from an
// approved request.
type DocumentData struct {
	RequestID     int64
	RequesterName string
	Matricule     *string
	FunctionName  *string
	Department    *string
	DirectionName *string
	Nature        string
	Motif         *string
	StartDate     time.Time
	EndDate       time.Time
	Days          int
	SubmittedAt   time.Time
	ApproverName  *string
	DecidedAt     *time.Time
	State         State
}

// Document is a stored certificate.
type Document struct {
	RequestID   int64
	Content     []byte
	GeneratedAt time.Time
}

// FileName is the download name of the certificate.
func (d Document) FileName() string {
	return "conge-" + strconv.FormatInt(d.RequestID, 10) + ".pdf"
}
