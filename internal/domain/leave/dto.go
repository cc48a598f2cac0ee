package leave

import (
	"fmt"
	"strings"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/validator"
)

type SubmitLeaveRequestRequest struct {
	Nature    string  `json:"nature"`
	Motif     *string `json:"motif,omitempty"`
	StartDate string  `json:"date_debut"`
	EndDate   string  `json:"date_fin"`

	// Parsed by Validate
	start time.Time
	end   time.Time
}

func (r *SubmitLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	// Nature
	r.Nature = strings.TrimSpace(r.Nature)
	if r.Nature == "" {
		errs = append(errs, validator.ValidationError{
			Field:   "nature",
			Message: "nature is required",
		})
	}
	if len(r.Nature) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "nature",
			Message: "nature must not exceed 100 characters",
		})
	}

	// Motif is mandatory for exceptional leave only
	if strings.EqualFold(r.Nature, NatureExceptional) && (r.Motif == nil || validator.IsEmpty(*r.Motif)) {
		errs = append(errs, validator.ValidationError{
			Field:   "motif",
			Message: "motif is required for exceptional leave",
		})
	}

	// Dates
	startOK, endOK := false, false
	if validator.IsEmpty(r.StartDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_debut",
			Message: "date_debut is required",
		})
	} else if r.start, startOK = validator.IsValidDate(r.StartDate); !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "date_debut",
			Message: "date_debut must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.EndDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_fin",
			Message: "date_fin is required",
		})
	} else if r.end, endOK = validator.IsValidDate(r.EndDate); !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "date_fin",
			Message: "date_fin must be in YYYY-MM-DD format",
		})
	}

	if startOK && endOK && r.end.Before(r.start) {
		errs = append(errs, validator.ValidationError{
			Field:   "date_fin",
			Message: "date_fin must not be before date_debut",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Period returns the dates parsed by a successful Validate.
func (r *SubmitLeaveRequestRequest) Period() (time.Time, time.Time) {
	return r.start, r.end
}

type LeaveRequestFilter struct {
	State  *string `json:"etat,omitempty"`
	Nature *string `json:"nature,omitempty"`
	Mine   bool    `json:"mine"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`

	// Parsed by Validate
	StateValue *State `json:"-"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	// State validation
	if f.State != nil && *f.State != "" {
		state, ok := ParseState(*f.State)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "etat",
				Message: "etat must be one of: pending, approved, rejected",
			})
		} else {
			f.StateValue = &state
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Offset returns the row offset of the current page.
func (f LeaveRequestFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type LeaveRequestResponse struct {
	ID                  int64      `json:"id"`
	UserID              int64      `json:"user_id"`
	RequesterName       string     `json:"nomcomplet"`
	RequesterRole       string     `json:"role"`
	Nature              string     `json:"nature"`
	Motif               *string    `json:"motif,omitempty"`
	StartDate           string     `json:"date_debut"`
	EndDate             string     `json:"date_fin"`
	Days                int        `json:"jour_pres"`
	SubmittedAt         time.Time  `json:"date_dmd"`
	State               string     `json:"etat"`
	ApprovedBy          *int64     `json:"approved_by,omitempty"`
	ApproverName        *string    `json:"approved_by_name,omitempty"`
	DecidedAt           *time.Time `json:"date_decision,omitempty"`
	Read                bool       `json:"lu"`
	DocumentGenerated   bool       `json:"document_generated"`
	DocumentGeneratedAt *time.Time `json:"document_generated_at,omitempty"`
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:                  r.ID,
		UserID:              r.UserID,
		RequesterName:       r.RequesterName,
		RequesterRole:       string(r.Requester.Role),
		Nature:              r.Nature,
		Motif:               r.Motif,
		StartDate:           r.StartDate.Format(validator.DateLayout),
		EndDate:             r.EndDate.Format(validator.DateLayout),
		Days:                r.Days,
		SubmittedAt:         r.SubmittedAt,
		State:               r.State.String(),
		ApprovedBy:          r.ApprovedBy,
		ApproverName:        r.ApproverName,
		DecidedAt:           r.DecidedAt,
		Read:                r.Read,
		DocumentGenerated:   r.DocumentGenerated,
		DocumentGeneratedAt: r.DocumentGeneratedAt,
	}
}

type ListLeaveRequestResponse struct {
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
	TotalPages int                    `json:"total_pages"`
	Showing    string                 `json:"showing"`
	Requests   []LeaveRequestResponse `json:"requests"`
}

// NewListLeaveRequestResponse builds a page, e.g. "21-40 of 150 results".
func NewListLeaveRequestResponse(requests []LeaveRequest, total int64, filter LeaveRequestFilter) ListLeaveRequestResponse {
	items := make([]LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		items = append(items, NewLeaveRequestResponse(r))
	}

	totalPages := 0
	if filter.Limit > 0 {
		totalPages = int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	}

	showing := "0 results"
	if len(items) > 0 {
		from := filter.Offset() + 1
		to := filter.Offset() + len(items)
		showing = fmt.Sprintf("%d-%d of %d results", from, to, total)
	}

	return ListLeaveRequestResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Requests:   items,
	}
}

type LeaveBalanceResponse struct {
	UserID        int64   `json:"user_id"`
	AvailableDays int     `json:"jours_dispo"`
	ConsumedDays  int     `json:"jours_pris"`
	OnLeave       bool    `json:"conje"`
	Nature        *string `json:"nature,omitempty"`
}

func NewLeaveBalanceResponse(b LeaveBalance) LeaveBalanceResponse {
	return LeaveBalanceResponse{
		UserID:        b.UserID,
		AvailableDays: b.AvailableDays,
		ConsumedDays:  b.ConsumedDays,
		OnLeave:       b.OnLeave,
		Nature:        b.Nature,
	}
}

type DocumentResponse struct {
	RequestID   int64     `json:"request_id"`
	FileName    string    `json:"file_name"`
	Size        int       `json:"size"`
	GeneratedAt time.Time `json:"document_generated_at"`
}

func NewDocumentResponse(d Document) DocumentResponse {
	return DocumentResponse{
		RequestID:   d.RequestID,
		FileName:    d.FileName(),
		Size:        len(d.Content),
		GeneratedAt: d.GeneratedAt,
	}
}

// BatchResult reports a bulk document generation run.
type BatchResult struct {
	SuccessCount int      `json:"success_count"`
	ErrorCount   int      `json:"error_count"`
	Errors       []string `json:"errors"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
