package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

const namespace = "dentfinder"

// FlowMetrics exposes counters/histograms for forms and wizard flows.
type FlowMetrics struct {
	transitions   *prometheus.CounterVec
	formSubmits   *prometheus.CounterVec
	eligibility   *prometheus.CounterVec
	submitLatency *prometheus.HistogramVec
}

func NewFlowMetrics(reg prometheus.Registerer) *FlowMetrics {
	m := &FlowMetrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wizard",
			Name:      "transitions_total",
			Help:      "Wizard transitions by flow, action and outcome",
		}, []string{"flow", "action", "outcome"}),
		formSubmits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Standalone form submissions by form and outcome",
		}, []string{"form", "outcome"}),
		eligibility: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "insurance",
			Name:      "eligibility_checks_total",
			Help:      "Eligibility checks by result",
		}, []string{"eligible"}),
		submitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "intake",
			Name:      "submit_latency_seconds",
			Help:      "Latency of lead submissions including the simulated delay",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitions, m.formSubmits, m.eligibility, m.submitLatency)
	return m
}

func (m *FlowMetrics) ObserveTransition(flow, action, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(flow, action, outcome).Inc()
}

func (m *FlowMetrics) ObserveFormSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.formSubmits.WithLabelValues(form, outcome).Inc()
}

func (m *FlowMetrics) ObserveEligibility(eligible bool) {
	if m == nil {
		return
	}
	label := "false"
	if eligible {
		label = "true"
	}
	m.eligibility.WithLabelValues(label).Inc()
}

func (m *FlowMetrics) ObserveSubmitLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.submitLatency.WithLabelValues(kind).Observe(seconds)
}

// Summary is a flattened view of the counters for the admin dashboard.
type Summary struct {
	Transitions     []LabeledCount `json:"transitions"`
	FormSubmissions []LabeledCount `json:"form_submissions"`
	Eligibility     []LabeledCount `json:"eligibility"`
	Submissions     uint64         `json:"submissions"`
}

// LabeledCount is one counter series.
type LabeledCount struct {
	Labels map[string]string `json:"labels"`
	Value  float64           `json:"value"`
}

// Snapshot reads the flow counters back out of a gatherer.
func Snapshot(gatherer prometheus.Gatherer) (Summary, error) {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		Transitions:     []LabeledCount{},
		FormSubmissions: []LabeledCount{},
		Eligibility:     []LabeledCount{},
	}
	for _, mf := range mfs {
		switch mf.GetName() {
		case namespace + "_wizard_transitions_total":
			summary.Transitions = counters(mf)
		case namespace + "_forms_submissions_total":
			summary.FormSubmissions = counters(mf)
		case namespace + "_insurance_eligibility_checks_total":
			summary.Eligibility = counters(mf)
		case namespace + "_intake_submit_latency_seconds":
			for _, metric := range mf.GetMetric() {
				summary.Submissions += metric.GetHistogram().GetSampleCount()
			}
		}
	}
	return summary, nil
}

func counters(mf *dto.MetricFamily) []LabeledCount {
	out := make([]LabeledCount, 0, len(mf.GetMetric()))
	for _, metric := range mf.GetMetric() {
		labels := make(map[string]string, len(metric.GetLabel()))
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		out = append(out, LabeledCount{Labels: labels, Value: metric.GetCounter().GetValue()})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})
	return out
}
