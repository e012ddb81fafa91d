package cache

// ScopedKeyer wraps a Keyer with a prefix so that several trees can share one
// backend without their keys meeting.
//
// Example usage:
//
//	// One namespace per family tree served by the API
//	treeKeyer := NewScopedKeyer(NewDefaultKeyer(), "tree:smith:")
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

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(personsHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(personsHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

// SourceKey generates a prefixed key for person source caching.
func (k *ScopedKeyer) SourceKey(kind, location string) string {
	return k.prefix + k.inner.SourceKey(kind, location)
}
