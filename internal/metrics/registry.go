package metrics

import (
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// NewRegistry creates a private Prometheus registry with scribe's metrics
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	return reg, m
}

// Sample is one counter value or histogram count from a gathered registry
type Sample struct {
	Name   string            `json:"name" yaml:"name"`
	Labels map[string]string `json:"labels,omitempty" yaml:"labels,omitempty"`
	Value  float64           `json:"value" yaml:"value"`
}

// String renders the sample in exposition style: name{k="v"} value
func (s Sample) String() string {
	if len(s.Labels) == 0 {
		return s.Name
	}
	keys := make([]string, 0, len(s.Labels))
	for k := range s.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+`="`+s.Labels[k]+`"`)
	}
	return s.Name + "{" + strings.Join(parts, ",") + "}"
}

// Summary flattens the counters and histogram counts in g, sorted by name.
// Series that were never touched are not gathered.
func Summary(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}

			switch {
			case m.GetCounter() != nil:
				out = append(out, Sample{Name: mf.GetName(), Labels: labels, Value: m.GetCounter().GetValue()})
			case m.GetHistogram() != nil:
				out = append(out, Sample{Name: mf.GetName() + "_count", Labels: labels, Value: float64(m.GetHistogram().GetSampleCount())})
			case m.GetGauge() != nil:
				out = append(out, Sample{Name: mf.GetName(), Labels: labels, Value: m.GetGauge().GetValue()})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out, nil
}
