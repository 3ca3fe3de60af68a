package domain

import "encoding/json"

type optionalState uint8

const (
	optionalAbsent optionalState = iota
	optionalNull
	optionalValue
)

// Optional distinguishes a field that was not provided from one that was
// explicitly cleared. The zero value is absent.
type Optional[T any] struct {
	state optionalState
	value T
}

// Some wraps a provided value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{state: optionalValue, value: v}
}

// Null marks a field as explicitly cleared.
func Null[T any]() Optional[T] {
	return Optional[T]{state: optionalNull}
}

// Get returns the value and whether one was provided.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.state == optionalValue
}

// IsSet reports whether the field was provided at all, null included.
func (o Optional[T]) IsSet() bool {
	return o.state != optionalAbsent
}

// IsNull reports whether the field was explicitly cleared.
func (o Optional[T]) IsNull() bool {
	return o.state == optionalNull
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if o.state != optionalValue {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON is only invoked for keys present in the document, so an
// absent key stays absent.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		var zero T
		o.state, o.value = optionalNull, zero
		return nil
	}
	if err := json.Unmarshal(data, &o.value); err != nil {
		return err
	}
	o.state = optionalValue
	return nil
}

// Patch is a partial update body. Only provided fields are sent; cleared
// fields are sent as null.
type Patch map[string]any

// Put adds key to the patch when o was provided.
func Put[T any](p Patch, key string, o Optional[T]) {
	if !o.IsSet() {
		return
	}
	if v, ok := o.Get(); ok {
		p[key] = v
		return
	}
	p[key] = nil
}
