package dedupe

const defaultCapacity = 32

type config struct {
	capacity int
}

// Option applies a configuration option to a Latest.
type Option func(*config)

// WithCapacity pre-sizes the internal index for the expected number of identities.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}
