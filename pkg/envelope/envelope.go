package envelope

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"aim-crypto/go-envelope/internal/config"
	"aim-crypto/go-envelope/internal/keycodec"
	"aim-crypto/go-envelope/internal/metrics"
	"aim-crypto/go-envelope/internal/platform/privacylog"
	"aim-crypto/go-envelope/internal/primitives"
	"aim-crypto/go-envelope/internal/stretch"
	"aim-crypto/go-envelope/pkg/models"

	"github.com/prometheus/client_golang/prometheus"
)

type Options struct {
	Stretch models.StretchParams
	// Rand replaces crypto/rand for nonces and key generation.
	Rand   io.Reader
	Logger *slog.Logger
	// Registerer receives the operation and stretch metrics. Nil disables
	// metrics.
	Registerer       prometheus.Registerer
	MetricsNamespace string
}

// Crypto is an immutable capability handle. It is safe for concurrent use.
type Crypto struct {
	Asymmetric *Asymmetric
	Symmetric  *Symmetric
	Signatures *Signatures

	core *core
}

type core struct {
	p       *primitives.Provider
	stretch *stretch.Stretcher
	logger  *slog.Logger
	metrics *metrics.Collector
}

var ready = sync.OnceValues(func() (*Crypto, error) {
	return New(Options{})
})

// Ready returns the process-wide default handle, initializing it on first
// call.
func Ready() (*Crypto, error) {
	return ready()
}

func New(opts Options) (*Crypto, error) {
	p := primitives.New(opts.Rand)

	logger := slog.New(slog.DiscardHandler)
	if opts.Logger != nil {
		logger = slog.New(privacylog.WrapHandler(opts.Logger.Handler()))
	}

	var collector *metrics.Collector
	if opts.Registerer != nil {
		ns := opts.MetricsNamespace
		if ns == "" {
			ns = config.DefaultMetricsNamespace
		}
		collector = metrics.New(ns)
		if err := collector.Register(opts.Registerer); err != nil {
			return nil, err
		}
	}

	st, err := stretch.New(p, opts.Stretch, collector.ObserveStretch)
	if err != nil {
		return nil, fmt.Errorf("configure stretch: %w", err)
	}

	c := &core{p: p, stretch: st, logger: logger, metrics: collector}
	return &Crypto{
		Asymmetric: &Asymmetric{c: c},
		Symmetric:  &Symmetric{c: c},
		Signatures: &Signatures{c: c},
		core:       c,
	}, nil
}

// LoadOptions builds Options from a YAML config file and ENVELOPE_* env
// overrides. Logs go to stderr; metrics, when enabled, go to the default
// Prometheus registerer.
func LoadOptions(path string) (Options, error) {
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return Options{}, err
	}
	opts := Options{
		Stretch:          cfg.Stretch,
		Logger:           slog.New(cfg.Log.Handler(os.Stderr)),
		MetricsNamespace: cfg.Metrics.Namespace,
	}
	if cfg.Metrics.Enabled {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	return opts, nil
}

func (c *Crypto) StretchParams() models.StretchParams {
	return c.core.stretch.Params()
}

// Stretch derives the 32-byte key used for password-based operations.
func (c *Crypto) Stretch(password models.Key) (out []byte, err error) {
	defer func() { err = c.core.finish("stretch", err) }()
	return c.core.stretchKey(password)
}

func (c *core) stretchKey(password models.Key) ([]byte, error) {
	b, _, err := keycodec.Interpret(password)
	if err != nil {
		return nil, err
	}
	return c.stretch.Stretch(b)
}

func (c *core) secretBoxKey(password models.Key) (*[primitives.SecretBoxKeySize]byte, error) {
	b, err := c.stretchKey(password)
	if err != nil {
		return nil, err
	}
	key := new([primitives.SecretBoxKeySize]byte)
	copy(key[:], b)
	zeroBytes(b)
	return key, nil
}

// finish records the outcome of an operation. Key and token attrs pass
// through the privacy handler, which logs only their fingerprints.
func (c *core) finish(operation string, err error, attrs ...slog.Attr) error {
	c.metrics.ObserveOperation(operation, err)
	all := make([]slog.Attr, 0, len(attrs)+3)
	all = append(all, slog.String("operation", operation))
	for _, a := range attrs {
		if a.Key != "" {
			all = append(all, a)
		}
	}
	if err != nil {
		all = append(all, slog.String("outcome", metrics.Outcome(err)), slog.Any("error", err))
		c.logger.LogAttrs(context.Background(), slog.LevelDebug, "envelope operation failed", all...)
		return err
	}
	c.logger.LogAttrs(context.Background(), slog.LevelDebug, "envelope operation", all...)
	return nil
}

func publicKeyAttr(name string, pub []byte) slog.Attr {
	if len(pub) == 0 {
		return slog.Attr{}
	}
	return slog.String(name, keycodec.Encode(pub))
}

func nonEmptyAttr(name, value string) slog.Attr {
	if value == "" {
		return slog.Attr{}
	}
	return slog.String(name, value)
}
