package llm

// defaultTemperature keeps output consistent across runs.
const defaultTemperature = 0.1

// CallOptions tunes a single generation call.
type CallOptions struct {
	System      string
	Temperature float64
	MaxTokens   int
}

// Option mutates CallOptions.
type Option func(*CallOptions)

// WithSystem sets a system instruction for the call.
func WithSystem(system string) Option {
	return func(o *CallOptions) { o.System = system }
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(o *CallOptions) { o.Temperature = t }
}

// WithMaxTokens bounds the number of output tokens. Zero leaves the provider default.
func WithMaxTokens(n int) Option {
	return func(o *CallOptions) { o.MaxTokens = n }
}

// ResolveOptions applies opts over the defaults.
func ResolveOptions(opts []Option) CallOptions {
	o := CallOptions{Temperature: defaultTemperature}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
