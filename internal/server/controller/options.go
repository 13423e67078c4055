package controller

import (
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultNavigationTimeout  = 3 * time.Second
	DefaultRevalidateTimeout  = 30 * time.Second
	DefaultInstallConcurrency = 4
)

// Options describe one deployed version of the app shell.
type Options struct {
	// Prefix and Version form the generation name "<Prefix>-<Version>".
	Prefix  string
	Version string

	// Upstream is the origin the shell is served from. Relative shell
	// entries and proxied paths are resolved against it.
	Upstream *url.URL

	// Shell lists the resources cached on install. Entries are paths on
	// Upstream or absolute third-party URLs.
	Shell []string

	// ShellDocument and OfflinePage are navigation fallbacks, as paths on
	// Upstream. OfflinePage may be empty.
	ShellDocument string
	OfflinePage   string

	// ExcludedOrigins always go to the network, e.g. the data backend.
	ExcludedOrigins []string

	NavigationTimeout  time.Duration
	RevalidateTimeout  time.Duration
	InstallConcurrency int

	// SkipWaiting activates right after a successful install.
	SkipWaiting bool
}

func (o *Options) setDefaults() {
	if o.NavigationTimeout <= 0 {
		o.NavigationTimeout = DefaultNavigationTimeout
	}
	if o.RevalidateTimeout <= 0 {
		o.RevalidateTimeout = DefaultRevalidateTimeout
	}
	if o.InstallConcurrency <= 0 {
		o.InstallConcurrency = DefaultInstallConcurrency
	}
	if o.ShellDocument == "" {
		o.ShellDocument = "/index.html"
	}
}

// Generation returns the name of the cache generation owned by these options.
func (o Options) Generation() string {
	return o.Prefix + "-" + o.Version
}

type Option func(*Controller)

func WithHTTPClient(c *http.Client) Option {
	return func(ctl *Controller) { ctl.client = c }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(ctl *Controller) { ctl.tracer = tp.Tracer(tracerName) }
}

func WithClock(now func() time.Time) Option {
	return func(ctl *Controller) { ctl.now = now }
}

// WithPhaseHook registers fn to run after every phase change.
func WithPhaseHook(fn func(Phase)) Option {
	return func(ctl *Controller) { ctl.hooks = append(ctl.hooks, fn) }
}
