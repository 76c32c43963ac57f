package metrics

import (
	"errors"
	"fmt"
	"time"

	"aim-crypto/go-envelope/pkg/models"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeOK         = "ok"
	OutcomeEncoding   = "encoding"
	OutcomeInvalidKey = "invalid_key"
	OutcomeDecryption = "decryption"
	OutcomeDecode     = "decode"
	OutcomeError      = "error"
)

// Collector records envelope operation outcomes and stretch latency. A nil
// *Collector is valid and records nothing. Register before first use.
type Collector struct {
	operations *prometheus.CounterVec
	stretch    *prometheus.HistogramVec
}

func New(namespace string) *Collector {
	return &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Envelope operations by name and outcome.",
		}, []string{"operation", "outcome"}),
		stretch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stretch_duration_seconds",
			Help:      "Password stretch latency by derivation path.",
			Buckets:   []float64{.0001, .001, .01, .05, .1, .25, .5, 1, 2.5},
		}, []string{"path"}),
	}
}

func (c *Collector) Register(reg prometheus.Registerer) error {
	if c == nil || reg == nil {
		return nil
	}
	if err := reg.Register(c.operations); err != nil {
		existing, ok := adopt[*prometheus.CounterVec](err)
		if !ok {
			return fmt.Errorf("register envelope operations: %w", err)
		}
		c.operations = existing
	}
	if err := reg.Register(c.stretch); err != nil {
		existing, ok := adopt[*prometheus.HistogramVec](err)
		if !ok {
			return fmt.Errorf("register envelope stretch: %w", err)
		}
		c.stretch = existing
	}
	return nil
}

// adopt returns the collector already registered under the same descriptor,
// so several handles sharing a registry feed the same series.
func adopt[T prometheus.Collector](err error) (T, bool) {
	var zero T
	var are prometheus.AlreadyRegisteredError
	if !errors.As(err, &are) {
		return zero, false
	}
	existing, ok := are.ExistingCollector.(T)
	return existing, ok
}

func (c *Collector) ObserveOperation(operation string, err error) {
	if c == nil {
		return
	}
	c.operations.WithLabelValues(operation, Outcome(err)).Inc()
}

func (c *Collector) ObserveStretch(path string, d time.Duration) {
	if c == nil {
		return
	}
	c.stretch.WithLabelValues(path).Observe(d.Seconds())
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	// A corrupt token wraps both sentinels and counts as a decryption failure.
	case errors.Is(err, models.ErrDecryption):
		return OutcomeDecryption
	case errors.Is(err, models.ErrEncoding):
		return OutcomeEncoding
	case errors.Is(err, models.ErrInvalidKey):
		return OutcomeInvalidKey
	case errors.Is(err, models.ErrDecode):
		return OutcomeDecode
	default:
		return OutcomeError
	}
}
