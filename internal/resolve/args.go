package resolve

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ArgInt returns the named argument as an int64. ok is false when the argument
// is absent or null.
func ArgInt(args map[string]any, name string) (int64, bool, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return 0, false, nil
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, false, fmt.Errorf("argument %s: %w", name, err)
	}
	return n, true, nil
}

// ArgString returns the named argument as a string. ok is false when the
// argument is absent or null.
func ArgString(args map[string]any, name string) (string, bool) {
	s, ok := args[name].(string)
	return s, ok
}

// OptInt returns a pointer to the named argument or nil when it is not set.
func OptInt(args map[string]any, name string) (*int64, error) {
	n, ok, err := ArgInt(args, name)
	if err != nil || !ok {
		return nil, err
	}
	return &n, nil
}

// OptString returns a pointer to the named argument or nil when it is not set.
func OptString(args map[string]any, name string) *string {
	s, ok := ArgString(args, name)
	if !ok {
		return nil
	}
	return &s
}

func toInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%v is not an integer", n)
		}
		return int64(n), nil
	case json.Number:
		return n.Int64()
	}
	return 0, fmt.Errorf("unexpected integer type %T", v)
}

// ErrIntRange is returned when a value of an Int field does not fit in 32 bits.
var ErrIntRange = errors.New("Int cannot represent non 32-bit signed integer value")

// checkInt rejects values of Int fields that do not fit in a signed 32-bit integer.
func checkInt(typ string, v any) error {
	if strings.TrimSuffix(typ, "!") != "Int" || v == nil {
		return nil
	}
	n, err := toInt64(v)
	if err != nil {
		return err
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return fmt.Errorf("%w: %d", ErrIntRange, n)
	}
	return nil
}
