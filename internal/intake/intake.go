// Package intake turns completed forms into stored leads. It owns the
// simulated submission delay and the follow-up confirmation mail.
package intake

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/wolfman30/dentfinder/internal/leads"
	"github.com/wolfman30/dentfinder/internal/observability/metrics"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

var intakeTracer = otel.Tracer("dentfinder.internal.intake")

// Submission is a validated form ready to be recorded.
type Submission struct {
	Kind      leads.Kind
	Name      string
	Email     string
	Phone     string
	ListingID string
	Details   map[string]string
}

// Receipt is returned to the visitor after a successful submission.
type Receipt struct {
	ConfirmationID string    `json:"confirmation_id"`
	SubmittedAt    time.Time `json:"submitted_at"`
}

// Submitter records a submission.
type Submitter interface {
	Submit(ctx context.Context, sub Submission) (Receipt, error)
}

// Notifier is told about every stored lead.
type Notifier interface {
	NotifyLead(ctx context.Context, lead *leads.Lead) error
}

// Service is the default Submitter.
type Service struct {
	repo     leads.Repository
	notifier Notifier
	metrics  *metrics.FlowMetrics
	delay    time.Duration
	logger   *logging.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithNotifier sends a confirmation for every stored lead.
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithMetrics records submission latency.
func WithMetrics(m *metrics.FlowMetrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithDelay sets the simulated processing wait before a lead is stored.
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// NewService creates an intake service backed by repo.
func NewService(repo leads.Repository, logger *logging.Logger, opts ...Option) *Service {
	if repo == nil {
		panic("intake: leads repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	s := &Service{repo: repo, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit waits out the configured delay, stores the lead and sends the
// confirmation. A mail failure is logged and does not fail the submission.
func (s *Service) Submit(ctx context.Context, sub Submission) (Receipt, error) {
	ctx, span := intakeTracer.Start(ctx, "intake.submit")
	defer span.End()
	span.SetAttributes(attribute.String("dentfinder.lead_kind", string(sub.Kind)))

	start := time.Now()
	if err := s.wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "cancelled")
		return Receipt{}, fmt.Errorf("intake: submit: %w", err)
	}

	req := &leads.CreateLeadRequest{
		Kind:      sub.Kind,
		Name:      sanitize(sub.Name),
		Email:     strings.TrimSpace(sub.Email),
		Phone:     strings.TrimSpace(sub.Phone),
		ListingID: strings.TrimSpace(sub.ListingID),
		Details:   sanitizeDetails(sub.Details),
	}
	lead, err := s.repo.Create(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create lead failed")
		return Receipt{}, fmt.Errorf("intake: create lead: %w", err)
	}
	s.metrics.ObserveSubmitLatency(string(lead.Kind), time.Since(start).Seconds())
	s.logger.Info("lead captured", "lead_id", lead.ID, "kind", lead.Kind)

	if s.notifier != nil {
		if err := s.notifier.NotifyLead(ctx, lead); err != nil {
			s.logger.Warn("lead confirmation not delivered", "error", err, "lead_id", lead.ID)
		}
	}

	return Receipt{ConfirmationID: lead.ID, SubmittedAt: lead.CreatedAt}, nil
}

func (s *Service) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func sanitize(raw string) string {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	// The policy escapes entities; leads are stored as plain text.
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(strings.TrimSpace(raw))))
}

func sanitizeDetails(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		if cleaned := sanitize(v); cleaned != "" {
			out[k] = cleaned
		}
	}
	return out
}

var _ Submitter = (*Service)(nil)
