package aggregate

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithTopN sets how many strengths and schools a summary reports.
func WithTopN(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.topN = n
		}
	}
}
