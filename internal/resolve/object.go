package resolve

import (
	"bytes"
	"encoding/json"
)

// Object is a resolved GraphQL object. Keys keep the order they were added in,
// which is the selection order, and MarshalJSON preserves it.
type Object struct {
	keys   []string
	values []any
}

func NewObject(capacity int) *Object {
	return &Object{
		keys:   make([]string, 0, capacity),
		values: make([]any, 0, capacity),
	}
}

func (o *Object) index(key string) int {
	for i, k := range o.keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Set replaces the value of key or appends it.
func (o *Object) Set(key string, value any) {
	if i := o.index(key); i >= 0 {
		o.values[i] = value
		return
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

func (o *Object) Get(key string) (any, bool) {
	if i := o.index(key); i >= 0 {
		return o.values[i], true
	}
	return nil, false
}

func (o *Object) Delete(key string) {
	i := o.index(key)
	if i < 0 {
		return
	}
	o.keys = append(o.keys[:i], o.keys[i+1:]...)
	o.values = append(o.values[:i], o.values[i+1:]...)
}

func (o *Object) Keys() []string {
	return o.keys
}

func (o *Object) Len() int {
	return len(o.keys)
}

// Objects returns the nested objects stored under key, whether it holds a
// single object or a list.
func (o *Object) Objects(key string) []*Object {
	v, _ := o.Get(key)
	switch v := v.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		return []*Object{v}
	case []any:
		out := make([]*Object, 0, len(v))
		for _, item := range v {
			if obj, ok := item.(*Object); ok && obj != nil {
				out = append(out, obj)
			}
		}
		return out
	}
	return nil
}

// Map converts the object and everything below it into plain maps and slices.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.keys))
	for i, k := range o.keys {
		out[k] = plain(o.values[i])
	}
	return out
}

func plain(v any) any {
	switch v := v.(type) {
	case *Object:
		if v == nil {
			return nil
		}
		return v.Map()
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = plain(v[i])
		}
		return out
	}
	return v
}

func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// setAt writes a slot reserved when the object was built. Distinct slots may
// be written from different goroutines.
func (o *Object) setAt(i int, value any) {
	o.values[i] = value
}
