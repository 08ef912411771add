package notify

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/wolfman30/dentfinder/internal/leads"
	"github.com/wolfman30/dentfinder/pkg/logging"
)

// Service composes the mails sent after a lead is captured.
type Service struct {
	email         EmailSender
	operatorEmail string
	logger        *logging.Logger
}

// NewService creates a notification service. operatorEmail may be empty.
func NewService(email EmailSender, operatorEmail string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:         email,
		operatorEmail: strings.TrimSpace(operatorEmail),
		logger:        logger,
	}
}

// NotifyLead sends the visitor confirmation and, when configured, an operator copy.
// Every send is attempted; the first failure is returned.
func (s *Service) NotifyLead(ctx context.Context, lead *leads.Lead) error {
	if s == nil || s.email == nil || lead == nil {
		return nil
	}

	var firstErr error
	if lead.Email != "" {
		if err := s.email.Send(ctx, confirmationMessage(lead)); err != nil {
			s.logger.Warn("notify: confirmation email failed", "error", err, "lead_id", lead.ID)
			firstErr = fmt.Errorf("notify: send confirmation: %w", err)
		}
	}
	if s.operatorEmail != "" {
		if err := s.email.Send(ctx, operatorMessage(s.operatorEmail, lead)); err != nil {
			s.logger.Warn("notify: operator email failed", "error", err, "lead_id", lead.ID)
			if firstErr == nil {
				firstErr = fmt.Errorf("notify: send operator copy: %w", err)
			}
		}
	}
	return firstErr
}

func confirmationMessage(lead *leads.Lead) EmailMessage {
	var subject, intro string
	switch lead.Kind {
	case leads.KindEnrollment:
		subject = "We received your practice enrollment"
		intro = "Thanks for enrolling your practice. Our team will review the details and reach out shortly."
	default:
		subject = "Your appointment request is confirmed"
		intro = "Thanks for booking with Dentist Finder. The office will contact you to finalize your visit."
	}

	lines := []string{
		fmt.Sprintf("Hi %s,", lead.Name),
		"",
		intro,
		"",
		fmt.Sprintf("Confirmation: %s", lead.ID),
	}
	lines = append(lines, detailLines(lead.Details)...)

	return EmailMessage{
		To:      lead.Email,
		ToName:  lead.Name,
		Subject: subject,
		Body:    strings.Join(lines, "\n"),
		HTML:    htmlBody(lines),
		Tags:    leadTags(lead, AudienceVisitor),
	}
}

func operatorMessage(to string, lead *leads.Lead) EmailMessage {
	lines := []string{
		fmt.Sprintf("New %s lead: %s", lead.Kind, lead.Name),
		fmt.Sprintf("Email: %s", orDash(lead.Email)),
		fmt.Sprintf("Phone: %s", orDash(lead.Phone)),
	}
	if lead.ListingID != "" {
		lines = append(lines, fmt.Sprintf("Listing: %s", lead.ListingID))
	}
	lines = append(lines, detailLines(lead.Details)...)

	return EmailMessage{
		To:      to,
		Subject: fmt.Sprintf("New %s lead: %s", lead.Kind, lead.Name),
		Body:    strings.Join(lines, "\n"),
		Tags:    leadTags(lead, AudienceOperator),
	}
}

func leadTags(lead *leads.Lead, audience string) map[string]string {
	return map[string]string{
		TagLeadKind: string(lead.Kind),
		TagAudience: audience,
	}
}

func detailLines(details map[string]string) []string {
	if len(details) == 0 {
		return nil
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if details[k] == "" {
			continue
		}
		out = append(out, fmt.Sprintf("%s: %s", k, details[k]))
	}
	return out
}

func htmlBody(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		if line == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(line))
		b.WriteString("</p>")
	}
	return b.String()
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
