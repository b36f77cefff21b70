package compensate

// Stats counts what one Compensate call did.
type Stats struct {
	Visited   int // nodes visited
	Rewritten int // leaves replaced with leaf = true
}

// Option configures a single Compensate call.
type Option func(*walkConfig)

type walkConfig struct {
	stats *Stats
}

// WithStats accumulates visit and rewrite counts into s.
func WithStats(s *Stats) Option {
	return func(c *walkConfig) {
		c.stats = s
	}
}

func newWalkConfig(opts []Option) walkConfig {
	var c walkConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c walkConfig) visited() {
	if c.stats != nil {
		c.stats.Visited++
	}
}

func (c walkConfig) rewrote() {
	if c.stats != nil {
		c.stats.Rewritten++
	}
}

// mapSlice applies fn to each element and returns in itself when every
// result is identical to its input. A new slice is allocated only from the
// first changed element on.
func mapSlice[T comparable](in []T, fn func(T) T) []T {
	var out []T
	for i, v := range in {
		nv := fn(v)
		if out == nil && nv != v {
			out = make([]T, len(in))
			copy(out, in[:i])
		}
		if out != nil {
			out[i] = nv
		}
	}
	if out == nil {
		return in
	}
	return out
}
