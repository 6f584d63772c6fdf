package observer

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kolkov/cmplog/internal/cmplog/meta"
)

// Stats exports extraction counters, labeled by pass.
//
// A nil *Stats is valid and records nothing.
type Stats struct {
	extractions *prometheus.CounterVec
	kept        *prometheus.CounterVec
	filtered    *prometheus.CounterVec
	overflowed  *prometheus.CounterVec
}

// NewStats creates the counters and registers them on reg.
func NewStats(reg prometheus.Registerer) (*Stats, error) {
	s := &Stats{
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmplog_extractions_total",
			Help: "Number of post-execution metadata extractions.",
		}, []string{"pass"}),
		kept: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmplog_indices_kept_total",
			Help: "Comparison indices stored as redqueen metadata.",
		}, []string{"pass"}),
		filtered: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmplog_indices_filtered_total",
			Help: "Comparison indices discarded by the loop filter.",
		}, []string{"pass"}),
		overflowed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cmplog_slot_overflows_total",
			Help: "Comparison indices that recorded more executions than the log holds.",
		}, []string{"pass"}),
	}
	for _, c := range []prometheus.Collector{s.extractions, s.kept, s.filtered, s.overflowed} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Stats) observe(p meta.Pass, res Result) {
	if s == nil {
		return
	}
	label := p.String()
	s.extractions.WithLabelValues(label).Inc()
	s.kept.WithLabelValues(label).Add(float64(res.Kept))
	s.filtered.WithLabelValues(label).Add(float64(res.Filtered))
	s.overflowed.WithLabelValues(label).Add(float64(res.Overflowed))
}
