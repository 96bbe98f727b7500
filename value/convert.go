package value

import (
	"errors"
	"fmt"
	"math"

	json "github.com/goccy/go-json"
)

// ErrUnsupported indicates that a decoded document node has no Value
// representation (nil, sequences, channels, ...).
var ErrUnsupported = errors.New("value: unsupported type")

// FromAny converts a decoded YAML/JSON node into a Value.
// Accepted: string, bool, every Go integer and float type, map[string]any,
// map[any]any with string keys, and Value itself.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(int64(t)), nil
	case int8:
		return Int(int64(t)), nil
	case int16:
		return Int(int64(t)), nil
	case int32:
		return Int(int64(t)), nil
	case int64:
		return Int(t), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return fromFloat(float64(t))
	case float64:
		return fromFloat(t)
	case map[string]any:
		fields := make(map[string]Value, len(t))
		for k, raw := range t {
			f, err := FromAny(raw)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = f
		}

		return Value{kind: KindObject, fields: fields}, nil
	case map[any]any:
		fields := make(map[string]Value, len(t))
		for rk, raw := range t {
			k, ok := rk.(string)
			if !ok {
				return Value{}, fmt.Errorf("object key %v (%T): %w", rk, rk, ErrUnsupported)
			}
			f, err := FromAny(raw)
			if err != nil {
				return Value{}, fmt.Errorf("field %q: %w", k, err)
			}
			fields[k] = f
		}

		return Value{kind: KindObject, fields: fields}, nil
	default:
		return Value{}, fmt.Errorf("%T: %w", x, ErrUnsupported)
	}
}

func fromFloat(f float64) (Value, error) {
	if math.IsNaN(f) {
		return Value{}, fmt.Errorf("NaN: %w", ErrUnsupported)
	}

	return Number(f), nil
}

// MustFromAny is FromAny for literals in tests and examples. It panics on error.
func MustFromAny(x any) Value {
	v, err := FromAny(x)
	if err != nil {
		panic(fmt.Sprintf("value.MustFromAny: %v", err))
	}

	return v
}

// Interface converts v back to plain Go data: string, int64 (for
// integral numbers), float64, bool or map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		if v.num == math.Trunc(v.num) && math.Abs(v.num) < 1<<53 {
			return int64(v.num)
		}

		return v.num
	case KindBool:
		return v.flag
	case KindObject:
		m := make(map[string]any, len(v.fields))
		for k, f := range v.fields {
			m[k] = f.Interface()
		}

		return m
	default:
		return nil
	}
}

// MarshalJSON encodes v as its plain JSON counterpart.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// UnmarshalJSON decodes any JSON scalar or object into v.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = parsed

	return nil
}
