package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/user"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/email"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/metrics"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/sse"
)

// Config holds notification service configuration
type Config struct {
	WorkerCount  int // default: 2
	QueueSize    int // default: 100
	Organisation string
}

type mailJob struct {
	userID  int64
	request leave.LeaveRequestResponse
}

// Dispatcher implements leave.Notifier. Events reach open streams at once;
// decision e-mails go through a bounded queue served by background workers.
type Dispatcher struct {
	hub    *sse.Hub
	users  user.UserRepository
	mailer email.EmailService
	config Config

	queue    chan mailJob
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewDispatcher creates a dispatcher and starts its mail workers. A nil or
// unconfigured mailer disables e-mail: no workers start and nothing is queued.
func NewDispatcher(hub *sse.Hub, users user.UserRepository, mailer email.EmailService, cfg Config) *Dispatcher {
	// Set defaults
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 100
	}

	if mailer != nil && !mailer.Enabled() {
		slog.Info("Decision e-mails disabled, SMTP host not configured")
		mailer = nil
	}

	d := &Dispatcher{
		hub:    hub,
		users:  users,
		mailer: mailer,
		config: cfg,
		queue:  make(chan mailJob, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	if mailer != nil {
		for i := 0; i < cfg.WorkerCount; i++ {
			d.wg.Add(1)
			go d.worker(i)
		}
		slog.Info("Notification dispatcher started", "workers", cfg.WorkerCount, "queue_size", cfg.QueueSize)
	}

	return d
}

// Notify implements leave.Notifier.
func (d *Dispatcher) Notify(userID int64, event string, data any) {
	d.hub.Notify(userID, event, data)

	if d.mailer == nil {
		return
	}
	request, ok := data.(leave.LeaveRequestResponse)
	if !ok || request.State == leave.StatePending.String() {
		return
	}

	select {
	case <-d.stopCh:
		return
	default:
	}

	select {
	case d.queue <- mailJob{userID: userID, request: request}:
	default:
		metrics.DecisionEmails.WithLabelValues(metrics.ResultDropped).Inc()
		slog.Warn("Decision mail queue full, dropping", "user_id", userID, "request_id", request.ID)
	}
}

// Close stops the workers once the queued mails are sent.
func (d *Dispatcher) Close() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})
	d.wg.Wait()
}

// worker sends queued decision mails until Close
func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()

	for {
		select {
		case job := <-d.queue:
			d.send(id, job)
		case <-d.stopCh:
			for {
				select {
				case job := <-d.queue:
					d.send(id, job)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) send(workerID int, job mailJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	recipient, err := d.users.GetByID(ctx, job.userID)
	if err != nil {
		metrics.DecisionEmails.WithLabelValues(metrics.ResultError).Inc()
		slog.Error("Failed to load decision mail recipient", "worker", workerID, "user_id", job.userID, "error", err)
		return
	}

	request := job.request
	mail := email.DecisionEmail{
		FullName:     recipient.FullName,
		RequestID:    request.ID,
		Nature:       request.Nature,
		StartDate:    request.StartDate,
		EndDate:      request.EndDate,
		Days:         request.Days,
		Approved:     request.State == leave.StateApproved.String(),
		Organisation: d.config.Organisation,
	}
	if request.ApproverName != nil {
		mail.ApproverName = *request.ApproverName
	}

	if err := d.mailer.SendDecision(recipient.Email, mail); err != nil {
		metrics.DecisionEmails.WithLabelValues(metrics.ResultError).Inc()
		slog.Error("Failed to send decision mail", "worker", workerID, "request_id", request.ID, "error", err)
		return
	}
	metrics.DecisionEmails.WithLabelValues(metrics.ResultSuccess).Inc()
}
