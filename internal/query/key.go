package query

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Key addresses one cache entry. Segments are ordered: resource first,
// then identifiers and parameter sets.
type Key []any

// String returns the canonical form of the key. Two keys built from equal
// parameters always serialize identically, whatever their field order.
func (k Key) String() string {
	parts := make([]string, len(k))
	for i, seg := range k {
		parts[i] = segment(seg)
	}
	return strings.Join(parts, "/")
}

// Resource is the first segment, used as a metrics label.
func (k Key) Resource() string {
	if len(k) == 0 {
		return ""
	}
	return segment(k[0])
}

// HasPrefix reports whether prefix matches the leading segments of k.
func (k Key) HasPrefix(prefix Key) bool {
	return matchPrefix(k.String(), prefix.String())
}

// Append returns a new key with segs added.
func (k Key) Append(segs ...any) Key {
	out := make(Key, 0, len(k)+len(segs))
	out = append(out, k...)
	return append(out, segs...)
}

// matchPrefix compares canonical strings on whole segments. Segments never
// contain a raw '/', so a string prefix ending on a separator is a segment prefix.
func matchPrefix(key, prefix string) bool {
	if prefix == "" {
		return true
	}
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}

func segment(v any) string {
	switch s := v.(type) {
	case nil:
		return "null"
	case string:
		return escape(s)
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case uint:
		return strconv.FormatUint(uint64(s), 10)
	case uint64:
		return strconv.FormatUint(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return escape(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	}
	return escape(canonicalJSON(v))
}

// canonicalJSON renders v with sorted object keys and empty members dropped.
func canonicalJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return string(raw)
	}
	out, err := json.Marshal(prune(generic))
	if err != nil {
		return string(raw)
	}
	return string(out)
}

func prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			val = prune(val)
			if isEmpty(val) {
				continue
			}
			out[k] = val
		}
		return out
	case []any:
		for i := range t {
			t[i] = prune(t[i])
		}
		return t
	}
	return v
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}

func escape(s string) string {
	return strings.NewReplacer("%", "%25", "/", "%2F").Replace(s)
}
