// Package insurance answers "is this subscriber covered". Only a simulated
// answer exists today; callers depend on EligibilityService so a real
// clearinghouse integration can replace it.
package insurance

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/dentfinder/pkg/logging"
)

var insuranceTracer = otel.Tracer("dentfinder.internal.insurance")

// Carriers offered in the carrier pickers.
var Carriers = []string{
	"Aetna",
	"Cigna",
	"Delta Dental",
	"Guardian",
	"Humana",
	"MetLife",
	"United Concordia",
	"Medicaid",
}

// Subscriber is the validated insurance form.
type Subscriber struct {
	Carrier        string
	Zip            string
	MemberID       string
	SubscriberName string
	DateOfBirth    string
}

// Eligibility is the outcome shown on the result step.
type Eligibility struct {
	Eligible bool   `json:"eligible"`
	Carrier  string `json:"carrier"`
	Message  string `json:"message"`
}

// EligibilityService checks coverage for a subscriber.
type EligibilityService interface {
	Check(ctx context.Context, sub Subscriber) (Eligibility, error)
}

// RandomService is a placeholder that reports eligible with a fixed
// probability. It performs no lookup.
type RandomService struct {
	mu     sync.Mutex
	rate   float64
	float  func() float64
	logger *logging.Logger
}

// NewRandomService creates the stub. rate is clamped to [0, 1]; a nil source
// uses math/rand/v2.
func NewRandomService(rate float64, source func() float64, logger *logging.Logger) *RandomService {
	if rate < 0 {
		rate = 0
	}
	if rate > 1 {
		rate = 1
	}
	if source == nil {
		source = rand.Float64
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RandomService{rate: rate, float: source, logger: logger}
}

// Check draws once from the source.
func (s *RandomService) Check(ctx context.Context, sub Subscriber) (Eligibility, error) {
	_, span := insuranceTracer.Start(ctx, "insurance.check")
	defer span.End()

	s.mu.Lock()
	draw := s.float()
	s.mu.Unlock()

	carrier := strings.TrimSpace(sub.Carrier)
	result := Eligibility{Eligible: draw < s.rate, Carrier: carrier}
	if result.Eligible {
		result.Message = "Good news! Your " + carrier + " plan appears to cover preventive dental care."
	} else {
		result.Message = "We couldn't confirm coverage with " + carrier + ". Please contact your carrier or call the practice."
	}
	span.SetAttributes(
		attribute.String("dentfinder.carrier", carrier),
		attribute.Bool("dentfinder.eligible", result.Eligible),
	)
	s.logger.Debug("simulated eligibility check", "carrier", carrier, "eligible", result.Eligible)
	return result, nil
}

var _ EligibilityService = (*RandomService)(nil)
