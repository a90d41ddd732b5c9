package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mrlokans/locallibrary/internal/catalog"
	"github.com/mrlokans/locallibrary/internal/database/audit"
	"github.com/mrlokans/locallibrary/internal/entities"
)

// Service records catalog mutations in the audit trail.
type Service struct {
	repo *audit.Repository
	wg   sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo *audit.Repository) *Service {
	return &Service{repo: repo}
}

// Log records an audit event synchronously.
func (s *Service) Log(ctx context.Context, event *entities.AuditEvent) error {
	return s.repo.LogEvent(ctx, event)
}

// LogAsync records an audit event in the background. The write outlives the
// request, so only the values of ctx are kept, not its deadline.
func (s *Service) LogAsync(ctx context.Context, event *entities.AuditEvent) {
	ctx = context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Printf("[AUDIT] Failed to log audit event %s: %v", event.Action, err)
		}
	}()
}

// Flush waits for pending asynchronous writes.
func (s *Service) Flush() {
	s.wg.Wait()
}

// Observe turns a catalog mutation into an audit event. Rejected input is
// not recorded.
func (s *Service) Observe(ctx context.Context, e catalog.Event) {
	event := eventFor(e)
	if event == nil {
		return
	}
	s.LogAsync(ctx, event)
}

func eventFor(e catalog.Event) *entities.AuditEvent {
	if e.Outcome == catalog.OutcomeInvalid {
		return nil
	}

	event := &entities.AuditEvent{
		RequestID:  e.RequestID,
		EventType:  entities.AuditEventType(e.Op),
		Action:     fmt.Sprintf("%s_%s", e.Kind, e.Op),
		EntityType: e.Kind,
		EntityID:   e.ID,
		Status:     entities.AuditStatusSuccess,
	}

	switch e.Outcome {
	case catalog.OutcomeSuccess:
		event.Description = describe(e)
	case catalog.OutcomeReused:
		event.EventType = entities.AuditEventReuse
		event.Action = fmt.Sprintf("%s_reuse", e.Kind)
		event.Description = fmt.Sprintf("Reused existing %s: %s", e.Kind, e.Label)
	case catalog.OutcomeGone:
		event.Description = fmt.Sprintf("Deleted %s %s (already gone)", e.Kind, e.ID)
	case catalog.OutcomeBlocked:
		event.Status = entities.AuditStatusBlocked
		event.Description = fmt.Sprintf("Delete of %s %s blocked by dependents", e.Kind, e.ID)
		if v, ok := e.Err.(*catalog.IntegrityViolation); ok {
			event.Metadata = dependentsMetadata(v)
		}
	default:
		event.Status = entities.AuditStatusFailed
		event.Description = fmt.Sprintf("Failed to %s %s", e.Op, e.Kind)
	}

	if e.Err != nil && event.Status != entities.AuditStatusSuccess {
		event.ErrorMsg = truncate(e.Err.Error(), 500)
	}
	return event
}

func describe(e catalog.Event) string {
	verb := map[catalog.Operation]string{
		catalog.OpCreate: "Created",
		catalog.OpUpdate: "Updated",
		catalog.OpDelete: "Deleted",
	}[e.Op]
	if e.Label == "" {
		return fmt.Sprintf("%s %s %s", verb, e.Kind, e.ID)
	}
	return fmt.Sprintf("%s %s: %s", verb, e.Kind, e.Label)
}

func dependentsMetadata(v *catalog.IntegrityViolation) string {
	ids := make(map[entities.Kind][]string)
	for _, d := range v.Dependents {
		ids[d.Kind] = append(ids[d.Kind], d.ID)
	}
	data, err := json.Marshal(map[string]any{"dependents": ids})
	if err != nil {
		return ""
	}
	return string(data)
}

// ListEvents returns one page of events matching q, newest first, and the
// total number of matches.
func (s *Service) ListEvents(ctx context.Context, q entities.AuditQuery) ([]entities.AuditEvent, int64, error) {
	return s.repo.FindEvents(ctx, q)
}

// GetEventsForEntity returns the full history of one record.
func (s *Service) GetEventsForEntity(ctx context.Context, kind entities.Kind, id string) ([]entities.AuditEvent, error) {
	events, _, err := s.repo.FindEvents(ctx, entities.AuditQuery{Kind: kind, EntityID: id, Limit: -1})
	return events, err
}

// DeleteOldEvents removes events older than retention.
func (s *Service) DeleteOldEvents(ctx context.Context, retention time.Duration) (int64, error) {
	return s.repo.DeleteOlderThan(ctx, time.Now().Add(-retention))
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
