// SPDX-License-Identifier: Apache-2.0

package schema

// Option configures optional, off-by-default tracing for BuildWithOptions,
// mirroring view.Option/view.Options.
type Option func(*Options)

// Options holds the resolved effect of a set of Option values.
type Options struct {
	Verbose bool
	LogCb   func(format string, args ...any)
}

// WithVerbose enables verbose tracing through LogCb.
func WithVerbose() Option {
	return func(o *Options) { o.Verbose = true }
}

// WithLogCb installs the callback verbose tracing is written to.
func WithLogCb(logCb func(format string, args ...any)) Option {
	return func(o *Options) { o.LogCb = logCb }
}

func resolveOptions(opts []Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Options) logf(format string, args ...any) {
	if o != nil && o.Verbose && o.LogCb != nil {
		o.LogCb(format, args...)
	}
}
