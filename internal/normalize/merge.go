package normalize

import (
	"math"
	"reflect"
	"strings"
)

// mergeInto overlays cand, a decoded JSON tree, onto dst, which already holds
// the default value for its position in the document.
//
// Objects merge key by key and unknown keys are dropped. Arrays are atomic:
// a candidate array replaces the default wholesale. Scalars take the
// candidate value when its JSON type fits the field; an explicit null resets
// the field to its zero value. Anything else leaves the default in place.
func mergeInto(dst reflect.Value, cand any) {
	switch dst.Kind() {
	case reflect.Struct:
		obj, ok := cand.(map[string]any)
		if !ok {
			return
		}
		t := dst.Type()
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name, tagged := jsonName(f)
			if name == "-" {
				continue
			}
			if f.Anonymous && !tagged && f.Type.Kind() == reflect.Struct {
				mergeInto(dst.Field(i), obj)
				continue
			}
			v, present := obj[name]
			if !present {
				continue
			}
			mergeInto(dst.Field(i), v)
		}
	case reflect.Slice:
		arr, ok := cand.([]any)
		if !ok {
			return
		}
		out := reflect.MakeSlice(dst.Type(), 0, len(arr))
		for _, e := range arr {
			elem := reflect.New(dst.Type().Elem()).Elem()
			if decodeElement(elem, e) {
				out = reflect.Append(out, elem)
			}
		}
		dst.Set(out)
	default:
		setScalar(dst, cand)
	}
}

// decodeElement fills a zero array element from cand. Elements whose JSON
// type does not fit are reported as rejected and dropped by the caller.
func decodeElement(elem reflect.Value, cand any) bool {
	switch elem.Kind() {
	case reflect.Struct:
		if _, ok := cand.(map[string]any); !ok {
			return false
		}
		emptySlices(elem)
		mergeInto(elem, cand)
		return true
	case reflect.Slice:
		if _, ok := cand.([]any); !ok {
			return false
		}
		mergeInto(elem, cand)
		return true
	default:
		if cand == nil {
			return false
		}
		return setScalar(elem, cand)
	}
}

func setScalar(dst reflect.Value, cand any) bool {
	if cand == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return true
	}
	switch dst.Kind() {
	case reflect.String:
		s, ok := cand.(string)
		if !ok {
			return false
		}
		dst.SetString(s)
	case reflect.Bool:
		b, ok := cand.(bool)
		if !ok {
			return false
		}
		dst.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f, ok := cand.(float64)
		if !ok || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return false
		}
		if f < math.MinInt64 || f >= math.MaxInt64 || dst.OverflowInt(int64(f)) {
			return false
		}
		dst.SetInt(int64(f))
	case reflect.Float32, reflect.Float64:
		f, ok := cand.(float64)
		if !ok || dst.OverflowFloat(f) {
			return false
		}
		dst.SetFloat(f)
	default:
		return false
	}
	return true
}

// emptySlices replaces nil slices under v with empty ones so freshly decoded
// array elements encode "[]" rather than "null" for fields they omit.
func emptySlices(v reflect.Value) {
	switch v.Kind() {
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if v.Type().Field(i).IsExported() {
				emptySlices(v.Field(i))
			}
		}
	case reflect.Slice:
		if v.IsNil() {
			v.Set(reflect.MakeSlice(v.Type(), 0, 0))
		}
	}
}

func jsonName(f reflect.StructField) (name string, tagged bool) {
	tag, ok := f.Tag.Lookup("json")
	if !ok {
		return f.Name, false
	}
	name, _, _ = strings.Cut(tag, ",")
	if name == "" {
		return f.Name, false
	}
	return name, true
}
