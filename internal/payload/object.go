// Package payload provides nil-safe access to decoded Sentry JSON documents.
//
// Sentry responses are loosely shaped: fields come and go between API
// versions and self-hosted releases. Summaries read them through Object so a
// missing key is a nil value instead of a decode failure.
package payload

// Object is a decoded JSON object.
type Object map[string]any

// AsObject reports whether v is a JSON object and returns it.
func AsObject(v any) (Object, bool) {
	switch t := v.(type) {
	case Object:
		return t, true
	case map[string]any:
		return Object(t), true
	default:
		return nil, false
	}
}

// Has reports whether key is present, even when its value is null.
func (o Object) Has(key string) bool {
	if o == nil {
		return false
	}
	_, ok := o[key]
	return ok
}

// Get returns the raw value stored under key, or nil.
func (o Object) Get(key string) any {
	if o == nil {
		return nil
	}
	return o[key]
}

// GetOr returns the value under key, or fallback when the key is absent.
// A key that is present with a null value yields nil, not fallback.
func (o Object) GetOr(key string, fallback any) any {
	if !o.Has(key) {
		return fallback
	}
	return o[key]
}

// Object returns the nested object under key, or nil.
func (o Object) Object(key string) Object {
	obj, _ := AsObject(o.Get(key))
	return obj
}

// String returns the string under key, or "".
func (o Object) String(key string) string {
	s, _ := o.Get(key).(string)
	return s
}

// Slice returns the array under key, or nil.
func (o Object) Slice(key string) []any {
	s, _ := o.Get(key).([]any)
	return s
}

// Number converts a decoded JSON number to float64.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
