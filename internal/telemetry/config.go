package telemetry

// Config holds configuration for the tracer
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Enabled determines whether spans are recorded at all.
	// When false, a noop tracer is used.
	Enabled bool

	// Endpoint is the OTLP/HTTP collector host:port. If empty, spans are
	// recorded but not exported.
	Endpoint string

	// Insecure disables TLS towards the collector
	Insecure bool

	// SampleRate is the fraction of traces to sample (0.0 to 1.0)
	SampleRate float64
}

// DefaultConfig returns tracing disabled, which is what an interactive
// client wants unless the user opts in
func DefaultConfig() Config {
	return Config{
		ServiceName:    "scribe",
		ServiceVersion: "dev",
		Enabled:        false,
		SampleRate:     1.0,
	}
}
