package mapper

import "github.com/vikasavnish/carecoord/internal/entity"

// Shape recognizes one way a server may wrap a collection.
type Shape interface {
	Name() string
	// Extract returns the raw records when the payload has this shape.
	Extract(payload any) ([]any, bool)
}

// Array matches a bare JSON array.
type Array struct{}

func (Array) Name() string { return "array" }

func (Array) Extract(payload any) ([]any, bool) {
	items, ok := payload.([]any)
	return items, ok
}

// WrappedArray matches an object holding the array under Key.
type WrappedArray struct {
	Key string
}

func (w WrappedArray) Name() string { return "wrapped:" + w.Key }

func (w WrappedArray) Extract(payload any) ([]any, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	items, ok := obj[w.Key].([]any)
	return items, ok
}

// Singleton matches a bare domain object, recognized by any of Keys, and
// treats it as a one-element collection.
type Singleton struct {
	Keys []string
}

func (Singleton) Name() string { return "singleton" }

func (s Singleton) Extract(payload any) ([]any, bool) {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, false
	}
	for _, k := range s.Keys {
		if v, ok := obj[k]; ok && !entity.IsBlank(v) {
			return []any{obj}, true
		}
	}
	return nil, false
}
