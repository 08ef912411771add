package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestFlowMetricsObserve(t *testing.T) {
	m := NewFlowMetrics(prometheus.NewRegistry())
	m.ObserveTransition("booking", "next", "ok")
	m.ObserveFormSubmission("enrollment", "invalid")
	m.ObserveEligibility(true)
	m.ObserveSubmitLatency("booking", 0.8)
}

func TestFlowMetricsNilSafe(t *testing.T) {
	var m *FlowMetrics
	m.ObserveTransition("booking", "next", "ok")
	m.ObserveFormSubmission("enrollment", "ok")
	m.ObserveEligibility(false)
	m.ObserveSubmitLatency("booking", 0.1)
}

func TestSnapshot(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewFlowMetrics(reg)
	m.ObserveTransition("booking", "next", "ok")
	m.ObserveTransition("booking", "next", "ok")
	m.ObserveTransition("cost", "next", "not_ready")
	m.ObserveEligibility(true)
	m.ObserveSubmitLatency("booking", 0.8)
	m.ObserveSubmitLatency("enrollment", 0.9)

	summary, err := Snapshot(reg)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(summary.Transitions) != 2 {
		t.Fatalf("expected 2 transition series, got %d", len(summary.Transitions))
	}
	top := summary.Transitions[0]
	if top.Value != 2 || top.Labels["flow"] != "booking" || top.Labels["outcome"] != "ok" {
		t.Fatalf("unexpected top series %+v", top)
	}
	if len(summary.Eligibility) != 1 || summary.Eligibility[0].Labels["eligible"] != "true" {
		t.Fatalf("unexpected eligibility %+v", summary.Eligibility)
	}
	if len(summary.FormSubmissions) != 0 {
		t.Fatalf("expected no form submissions, got %+v", summary.FormSubmissions)
	}
	if summary.Submissions != 2 {
		t.Fatalf("expected 2 submissions, got %d", summary.Submissions)
	}
}

type errGatherer struct{}

func (errGatherer) Gather() ([]*dto.MetricFamily, error) {
	return nil, errors.New("gather failed")
}

func TestSnapshotGatherError(t *testing.T) {
	if _, err := Snapshot(errGatherer{}); err == nil {
		t.Fatal("expected error")
	}
}
