package leave

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
)

// memStore is an in-memory stand-in for the database. Transactions are
// serialized and roll back by restoring a snapshot.
type memStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	users    map[int64]user.User
	requests map[int64]leave.LeaveRequest
	balances map[int64]leave.LeaveBalance // by user
	docs     map[int64]leave.Document
	nextID   int64
	debits   int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[int64]user.User{},
		requests: map[int64]leave.LeaveRequest{},
		balances: map[int64]leave.LeaveBalance{},
		docs:     map[int64]leave.Document{},
		nextID:   100,
	}
}

type txMarker struct{}

func (s *memStore) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txMarker{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	requests, balances, docs, debits := maps.Clone(s.requests), maps.Clone(s.balances), maps.Clone(s.docs), s.debits
	s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txMarker{}, true)); err != nil {
		s.mu.Lock()
		s.requests, s.balances, s.docs, s.debits = requests, balances, docs, debits
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) position(userID int64) leave.Position {
	u := s.users[userID]
	return leave.Position{
		UserID:          u.ID,
		Role:            u.Role,
		DepartmentID:    u.DepartmentID,
		SousDirectionID: u.SousDirectionID,
		DirectionID:     u.DirectionID,
	}
}

func (s *memStore) hydrate(r leave.LeaveRequest) leave.LeaveRequest {
	r.Requester = s.position(r.UserID)
	r.RequesterName = s.users[r.UserID].FullName
	if r.ApprovedBy != nil {
		name := s.users[*r.ApprovedBy].FullName
		r.ApproverName = &name
	}
	return r
}

// leave.LeaveRequestRepository

func (s *memStore) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	request.ID = s.nextID
	request.SubmittedAt = time.Now()
	s.requests[request.ID] = request
	return s.hydrate(request), nil
}

func (s *memStore) GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return s.hydrate(r), nil
}

func (s *memStore) List(ctx context.Context, scope leave.Scope, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []leave.LeaveRequest
	for _, r := range s.requests {
		r = s.hydrate(r)
		if !scope.Matches(r.Requester) {
			continue
		}
		if filter.StateValue != nil && r.State != *filter.StateValue {
			continue
		}
		if filter.Nature != nil && *filter.Nature != "" && r.Nature != *filter.Nature {
			continue
		}
		matched = append(matched, r)
	}
	slices.SortFunc(matched, func(a, b leave.LeaveRequest) int { return int(b.ID - a.ID) })

	total := int64(len(matched))
	from := min(filter.Offset(), len(matched))
	to := min(from+filter.Limit, len(matched))
	return matched[from:to], total, nil
}

func (s *memStore) Decide(ctx context.Context, id int64, state leave.State, approverID int64) (leave.LeaveRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if r.State != leave.StatePending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	now := time.Now()
	r.State = state
	r.ApprovedBy = &approverID
	r.DecidedAt = &now
	s.requests[id] = r
	return s.hydrate(r), nil
}

func (s *memStore) DeletePending(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if r.State != leave.StatePending {
		return leave.ErrOnlyPendingDeletable
	}
	delete(s.requests, id)
	return nil
}

func (s *memStore) MarkRead(ctx context.Context, id, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok || r.UserID != userID {
		return leave.ErrLeaveRequestNotFound
	}
	r.Read = true
	s.requests[id] = r
	return nil
}

func (s *memStore) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, r := range s.requests {
		if r.UserID == userID && !r.Read && r.State != leave.StatePending {
			r.Read = true
			s.requests[id] = r
			n++
		}
	}
	return n, nil
}

// leave.LeaveBalanceRepository

func (s *memStore) GetLatestByUserID(ctx context.Context, userID int64) (leave.LeaveBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[userID]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	return b, nil
}

func (s *memStore) Debit(ctx context.Context, userID int64, days int) (leave.LeaveBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.balances[userID]
	if !ok {
		return leave.LeaveBalance{}, leave.ErrBalanceNotFound
	}
	b = b.Debit(days)
	s.balances[userID] = b
	s.debits++
	return b, nil
}

func (s *memStore) RefreshOnLeave(ctx context.Context, day time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var changed int64
	for userID, b := range s.balances {
		onLeave := false
		for _, r := range s.requests {
			if r.UserID == userID && r.State == leave.StateApproved && !day.Before(r.StartDate) && !day.After(r.EndDate) {
				onLeave = true
			}
		}
		if b.OnLeave != onLeave {
			b.OnLeave = onLeave
			s.balances[userID] = b
			changed++
		}
	}
	return changed, nil
}

// leave.DocumentRepository

func (s *memStore) GetDocumentData(ctx context.Context, id int64) (leave.DocumentData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return leave.DocumentData{}, leave.ErrLeaveRequestNotFound
	}
	r = s.hydrate(r)
	return leave.DocumentData{
		RequestID:     r.ID,
		RequesterName: r.RequesterName,
		Nature:        r.Nature,
		Motif:         r.Motif,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Days:          r.Days,
		SubmittedAt:   r.SubmittedAt,
		ApproverName:  r.ApproverName,
		DecidedAt:     r.DecidedAt,
		State:         r.State,
	}, nil
}

func (s *memStore) Save(ctx context.Context, id int64, content []byte, generatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	if r.State != leave.StateApproved {
		return leave.ErrDocumentRequiresApproval
	}
	r.DocumentGenerated = true
	r.DocumentGeneratedAt = &generatedAt
	s.requests[id] = r
	s.docs[id] = leave.Document{RequestID: id, Content: content, GeneratedAt: generatedAt}
	return nil
}

func (s *memStore) Get(ctx context.Context, id int64) (leave.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.requests[id]; !ok {
		return leave.Document{}, leave.ErrLeaveRequestNotFound
	}
	d, ok := s.docs[id]
	if !ok {
		return leave.Document{}, leave.ErrDocumentNotFound
	}
	return d, nil
}

func (s *memStore) Clear(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.requests[id]
	if !ok {
		return leave.ErrLeaveRequestNotFound
	}
	r.DocumentGenerated = false
	r.DocumentGeneratedAt = nil
	s.requests[id] = r
	delete(s.docs, id)
	return nil
}

func (s *memStore) ListPendingGeneration(ctx context.Context, scope leave.Scope) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for id, r := range s.requests {
		if r.State == leave.StateApproved && !r.DocumentGenerated && scope.Matches(s.position(r.UserID)) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

// user.UserRepository

type memUsers struct{ s *memStore }

func (m memUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m memUsers) GetByID(ctx context.Context, id int64) (user.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

// fakeRenderer fails for the request ids listed in failFor and panics for
// those in panicFor.
type fakeRenderer struct {
	mu       sync.Mutex
	calls    int
	failFor  map[int64]bool
	panicFor map[int64]bool
}

func (f *fakeRenderer) Render(data leave.DocumentData) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.panicFor[data.RequestID] {
		panic("font table corrupted")
	}
	if f.failFor[data.RequestID] {
		return nil, errors.New("renderer unavailable")
	}
	return []byte("%PDF-fake"), nil
}

type sentEvent struct {
	userID int64
	event  string
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []sentEvent
}

func (f *fakeNotifier) Notify(userID int64, event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, sentEvent{userID: userID, event: event})
}

func (f *fakeNotifier) sent() []sentEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sentEvent(nil), f.events...)
}
