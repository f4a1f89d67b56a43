package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "docsite"
)

var (
	// SectionLoadsTotal counts section loads by section id and outcome.
	SectionLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "section_loads_total",
			Help:      "Documentation section loads by outcome",
		},
		[]string{"section", "outcome"},
	)

	// SectionLoadSeconds tracks how long fetching and converting a section takes.
	SectionLoadSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "section_load_seconds",
			Help:      "Time to fetch and convert a documentation section",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	// PageRendersTotal counts rendered pages.
	PageRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Rendered pages by page name",
		},
		[]string{"page"},
	)

	// BuildsTotal counts static builds by result.
	BuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "builds_total",
			Help:      "Static site builds by result",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(SectionLoadsTotal)
	prometheus.MustRegister(SectionLoadSeconds)
	prometheus.MustRegister(PageRendersTotal)
	prometheus.MustRegister(BuildsTotal)
}

// ObserveSectionLoad records one finished section load.
func ObserveSectionLoad(section, outcome string, d time.Duration) {
	SectionLoadsTotal.WithLabelValues(section, outcome).Inc()
	SectionLoadSeconds.WithLabelValues(outcome).Observe(d.Seconds())
}

// ObservePageRender records one rendered page.
func ObservePageRender(page string) {
	PageRendersTotal.WithLabelValues(page).Inc()
}

// ObserveBuild records a finished static build.
func ObserveBuild(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	BuildsTotal.WithLabelValues(result).Inc()
}
