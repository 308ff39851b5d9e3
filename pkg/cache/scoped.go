package cache

// ScopedKeyer wraps a Keyer with a prefix for multi-tenant isolation.
// This is useful in server deployments where different access tokens must
// not share cached responses: the same file path fetched with different
// credentials can return different trees.
//
// Example usage:
//
//	// Token-scoped keys for a served compile
//	tokenKeyer := NewScopedKeyer(NewDefaultKeyer(), "token:"+Hash([]byte(token))[:16]+":")
//
//	// Shared keys for a single-user CLI
//	defaultKeyer := NewDefaultKeyer()
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

// RequestKey generates a prefixed key for an API request path.
func (k *ScopedKeyer) RequestKey(path string) string {
	return k.prefix + k.inner.RequestKey(path)
}
