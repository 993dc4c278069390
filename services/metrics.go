package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PartialFailures counts aggregate store operations that failed while the
// relational side succeeded. Reads that degrade to empty lists count too.
var PartialFailures = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "legalcase_partial_failures_total",
	Help: "Aggregate store operations that failed after the relational side succeeded.",
}, []string{"operation"})
