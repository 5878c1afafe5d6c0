package vdom

import "reflect"

// PropsDiff is a property change map. A value of Removed deletes the
// property; a nested PropsDiff patches a nested mapping key by key; any other
// value replaces the property wholesale.
type PropsDiff map[string]any

type removedMarker struct{}

func (removedMarker) String() string { return "<removed>" }

// Removed marks a property deleted in a PropsDiff.
var Removed any = removedMarker{}

// IsRemoved reports whether v is the Removed marker.
func IsRemoved(v any) bool {
	_, ok := v.(removedMarker)
	return ok
}

// DiffProps compares two property mappings and returns the changes, or nil
// when nothing was added, removed or changed.
//
// Nested mappings of the same type are diffed recursively. Hooks are opaque:
// a changed hook is always replaced wholesale.
func DiffProps(prev, next Props) PropsDiff {
	return diffMappings(prev, next)
}

func diffMappings(prev, next map[string]any) PropsDiff {
	var diff PropsDiff
	set := func(key string, value any) {
		if diff == nil {
			diff = make(PropsDiff)
		}
		diff[key] = value
	}

	for key, prevVal := range prev {
		nextVal, exists := next[key]
		if !exists {
			set(key, Removed)
			continue
		}
		if propsEqual(prevVal, nextVal) {
			continue
		}

		prevMap, prevOK := asMapping(prevVal)
		nextMap, nextOK := asMapping(nextVal)
		if prevOK && nextOK && reflect.TypeOf(prevVal) == reflect.TypeOf(nextVal) {
			if nested := diffMappings(prevMap, nextMap); nested != nil {
				set(key, nested)
			}
			continue
		}
		set(key, nextVal)
	}

	for key, nextVal := range next {
		if _, exists := prev[key]; !exists {
			set(key, nextVal)
		}
	}

	return diff
}

// asMapping returns v as a plain mapping. Hooks never qualify, even when
// their underlying type is a map.
func asMapping(v any) (map[string]any, bool) {
	if _, ok := v.(Hook); ok {
		return nil, false
	}
	switch m := v.(type) {
	case Props:
		return m, true
	case map[string]any:
		return m, true
	}
	return nil, false
}

// propsEqual compares two prop values for equality. Maps compare by
// identity so that differing nested mappings are diffed key by key.
func propsEqual(a, b any) bool {
	// Fast path for common types
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case int:
		bv, ok := b.(int)
		return ok && av == bv
	case int64:
		bv, ok := b.(int64)
		return ok && av == bv
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case nil:
		return b == nil
	}

	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	switch ta.Kind() {
	case reflect.Map:
		return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		return a == b
	case reflect.Func:
		// Functions are only equal when both are nil.
		return reflect.ValueOf(a).IsNil() && reflect.ValueOf(b).IsNil()
	}
	// Fallback to reflect for complex types
	return reflect.DeepEqual(a, b)
}
