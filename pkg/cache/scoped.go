package cache

// ScopedKeyer wraps a Keyer with a prefix so several deployments can share
// one backend without colliding.
//
// Example usage:
//
//	// Separate namespaces for staging and production on one Redis
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// TreeKey generates a prefixed key for converted trees.
func (k *ScopedKeyer) TreeKey(repHash string) string {
	return k.prefix + k.inner.TreeKey(repHash)
}

// ExportKey generates a prefixed key for PGN documents.
func (k *ScopedKeyer) ExportKey(repHash string, opts ExportKeyOpts) string {
	return k.prefix + k.inner.ExportKey(repHash, opts)
}
