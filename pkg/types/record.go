package types

// Record is any value with a stable identifier and named field access.
// Field returns false when the record has no field with that key.
type Record interface {
	RecordID() string
	Field(key string) (any, bool)
}

// Mutable is a Record that can produce modified copies of itself.
// WithID returns a copy carrying the given identifier. Apply returns a copy
// with the patch merged in, or ErrUnknownField / ErrInvalidData when a key
// or value does not fit the record.
type Mutable[T any] interface {
	Record
	WithID(id string) T
	Apply(patch Patch) (T, error)
}

// Patch is a partial update keyed by field name.
type Patch map[string]any

// Keys returns the patch keys in no particular order.
func (p Patch) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	return keys
}
