package cmdkit

import "github.com/cmdkit/cmdkit/invariant"

// Key identifies one typed entry in the custom-data side channel. Two keys
// created by separate NewKey calls are always distinct, even with the same
// name and type; the name exists for diagnostics only.
type Key[T any] struct {
	name string
}

// NewKey creates a new side-channel key resolving to T.
func NewKey[T any](name string) *Key[T] {
	return &Key[T]{name: name}
}

func (k *Key[T]) String() string {
	return k.name
}

// CustomHolder is anything carrying a custom-data side channel: execution
// contexts and commands. The core neither interprets nor validates the
// contents.
type CustomHolder interface {
	// Customs returns the live key/value mapping. Prefer SetCustom and
	// GetCustom over modifying it directly.
	Customs() map[interface{}]interface{}
}

// SetCustom stores a value on the holder under the given key.
func SetCustom[T any](h CustomHolder, key *Key[T], value T) {
	invariant.NotNil(key, "key")
	h.Customs()[key] = value
}

// GetCustom retrieves the value stored under key. The second return is
// false when nothing was stored or the stored value is of the wrong type.
func GetCustom[T any](h CustomHolder, key *Key[T]) (T, bool) {
	invariant.NotNil(key, "key")
	v, ok := h.Customs()[key]
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

func cloneCustoms(src map[interface{}]interface{}) map[interface{}]interface{} {
	dst := make(map[interface{}]interface{}, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
