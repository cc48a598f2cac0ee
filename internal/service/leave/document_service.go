package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/domain/leave"
	"github.com/BoutayaneMokhtar/AirAlgerie-Project/internal/pkg/metrics"
)

// DocumentService renders and stores leave certificates.
type DocumentService struct {
	leave.DocumentRepository
	renderer leave.DocumentRenderer
	now      func() time.Time
}

func NewDocumentService(documentRepository leave.DocumentRepository, renderer leave.DocumentRenderer) *DocumentService {
	return &DocumentService{
		DocumentRepository: documentRepository,
		renderer:           renderer,
		now:                time.Now,
	}
}

// Generate renders the certificate of an approved request and stores it,
// replacing any earlier one. A renderer panic is returned as an error.
func (d *DocumentService) Generate(ctx context.Context, requestID int64) (doc leave.Document, err error) {
	defer func() {
		if p := recover(); p != nil {
			doc, err = leave.Document{}, fmt.Errorf("panic: %v", p)
		}

		result := metrics.ResultSuccess
		if err != nil {
			result = metrics.ResultError
		}
		metrics.DocumentsGenerated.WithLabelValues(result).Inc()
	}()

	return d.generate(ctx, requestID)
}

func (d *DocumentService) generate(ctx context.Context, requestID int64) (leave.Document, error) {
	data, err := d.DocumentRepository.GetDocumentData(ctx, requestID)
	if err != nil {
		return leave.Document{}, err
	}
	if data.State != leave.StateApproved {
		return leave.Document{}, leave.ErrDocumentRequiresApproval
	}

	content, err := d.renderer.Render(data)
	if err != nil {
		return leave.Document{}, fmt.Errorf("failed to render document: %w", err)
	}

	generatedAt := d.now().UTC()
	if err := d.DocumentRepository.Save(ctx, requestID, content, generatedAt); err != nil {
		return leave.Document{}, err
	}

	return leave.Document{RequestID: requestID, Content: content, GeneratedAt: generatedAt}, nil
}

// GenerateAll generates every listed document in order. A failure is
// recorded and the batch moves on.
func (d *DocumentService) GenerateAll(ctx context.Context, requestIDs []int64) leave.BatchResult {
	metrics.BatchRuns.Inc()

	result := leave.BatchResult{Errors: []string{}}
	for _, id := range requestIDs {
		if ctx.Err() != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("request %d: %v", id, ctx.Err()))
			continue
		}
		if _, err := d.Generate(ctx, id); err != nil {
			slog.Warn("Document generation failed", "request_id", id, "error", err)
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("request %d: %v", id, err))
			continue
		}
		result.SuccessCount++
	}

	slog.Info("Document batch finished", "success", result.SuccessCount, "errors", result.ErrorCount)
	return result
}
