package scale

// Ordinal maps discrete domain values to range values in order. Unlike an
// implicit-domain scale it never grows: unknown inputs resolve to fallback.
type Ordinal[K comparable, V any] struct {
	domain   []K
	index    map[K]int
	rng      []V
	fallback V
}

// NewOrdinal pairs domain[i] with rng[i % len(rng)].
func NewOrdinal[K comparable, V any](domain []K, rng []V, fallback V) Ordinal[K, V] {
	index := make(map[K]int, len(domain))
	d := make([]K, 0, len(domain))
	for _, k := range domain {
		if _, dup := index[k]; dup {
			continue
		}
		index[k] = len(d)
		d = append(d, k)
	}
	r := make([]V, len(rng))
	copy(r, rng)
	return Ordinal[K, V]{domain: d, index: index, rng: r, fallback: fallback}
}

// Lookup reports the mapped value and whether k belongs to the domain.
func (s Ordinal[K, V]) Lookup(k K) (V, bool) {
	i, ok := s.index[k]
	if !ok || len(s.rng) == 0 {
		return s.fallback, false
	}
	return s.rng[i%len(s.rng)], true
}

func (s Ordinal[K, V]) Apply(k K) V {
	v, _ := s.Lookup(k)
	return v
}

func (s Ordinal[K, V]) Domain() []K {
	out := make([]K, len(s.domain))
	copy(out, s.domain)
	return out
}

func (s Ordinal[K, V]) Fallback() V { return s.fallback }
