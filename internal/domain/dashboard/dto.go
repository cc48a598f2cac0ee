package dashboard

import "github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"

// ========== COMBINED DASHBOARD ==========

// DashboardResponse is the combined response for the dashboard endpoint.
// Every count is restricted to the requests the caller may view.
type DashboardResponse struct {
	Requests  RequestSummaryResponse      `json:"requests"`
	Natures   []NatureCountResponse       `json:"natures"`
	OnLeave   int64                       `json:"on_leave_count"`
	Unread    int64                       `json:"unread_decisions"`
	MyBalance *leave.LeaveBalanceResponse `json:"my_balance,omitempty"`
	UpdatedAt string                      `json:"updated_at"`
}

// ========== REQUEST SUMMARY ==========

type RequestSummaryResponse struct {
	Total               int64 `json:"total"`
	Pending             int64 `json:"pending"`
	Approved            int64 `json:"approved"`
	Rejected            int64 `json:"rejected"`
	DocumentsToGenerate int64 `json:"documents_to_generate"`
}

// ========== NATURE BREAKDOWN ==========

type NatureCountResponse struct {
	Nature string `json:"nature"`
	Count  int64  `json:"count"`
	Days   int64  `json:"days"` // approved days only
}
