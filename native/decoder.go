// Package native decodes a parsed wordjson.Document into ordinary Go
// values via reflection, the way encoding/json's Unmarshal walks a
// map[string]interface{}/[]interface{} intermediate form into a
// caller's struct. Here there is no intermediate tree: Decode walks
// wordjson.Value directly, so a struct decode never builds the
// map/slice representation it doesn't need.
package native

import (
	"errors"
	"reflect"
	"strings"

	"github.com/biggeezerdevelopment/wordjson/internal/word"

	wordjson "github.com/biggeezerdevelopment/wordjson"
)

// Decode walks doc's root value into v, which must be a non-nil
// pointer. Struct fields are matched by their "json" tag (name before
// the first comma) or, absent a tag, by field name.
func Decode(doc *wordjson.Document, v interface{}) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.New("native: Decode requires a non-nil pointer")
	}
	return decodeValue(doc.Root(), rv.Elem())
}

func decodeValue(src wordjson.Value, dst reflect.Value) error {
	if dst.Kind() == reflect.Ptr {
		if src.IsNull() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return decodeValue(src, dst.Elem())
	}

	if dst.Kind() == reflect.Interface && dst.Type().NumMethod() == 0 {
		iv, err := toInterface(src)
		if err != nil {
			return err
		}
		dst.Set(reflect.ValueOf(iv))
		return nil
	}

	switch src.Tag() {
	case word.TagNull:
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	case word.TagTrue, word.TagFalse:
		b, _ := src.Bool()
		return decodeBool(b, dst)
	case word.TagInteger:
		i, _ := src.Int32()
		return decodeInt(int64(i), dst)
	case word.TagDouble:
		f, _ := src.Float64()
		return decodeFloat(f, dst)
	case word.TagString:
		s, _ := src.String()
		return decodeString(s, dst)
	case word.TagArray:
		return decodeArray(src, dst)
	case word.TagObject:
		return decodeObject(src, dst)
	default:
		return errors.New("native: unrecognized value tag")
	}
}

func decodeBool(src bool, dst reflect.Value) error {
	if dst.Kind() == reflect.Bool {
		dst.SetBool(src)
		return nil
	}
	return errors.New("native: cannot decode bool into " + dst.Type().String())
}

func decodeInt(src int64, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(src)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst.SetUint(uint64(src))
		return nil
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(float64(src))
		return nil
	}
	return errors.New("native: cannot decode integer into " + dst.Type().String())
}

func decodeFloat(src float64, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(src)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(int64(src))
		return nil
	}
	return errors.New("native: cannot decode number into " + dst.Type().String())
}

func decodeString(src string, dst reflect.Value) error {
	if dst.Kind() == reflect.String {
		dst.SetString(src)
		return nil
	}
	return errors.New("native: cannot decode string into " + dst.Type().String())
}

func decodeArray(src wordjson.Value, dst reflect.Value) error {
	n := src.Len()
	switch dst.Kind() {
	case reflect.Slice:
		if dst.IsNil() || dst.Cap() < n {
			dst.Set(reflect.MakeSlice(dst.Type(), n, n))
		} else {
			dst.SetLen(n)
		}
	case reflect.Array:
		if dst.Len() < n {
			return errors.New("native: array too small to hold decoded elements")
		}
	default:
		return errors.New("native: cannot decode array into " + dst.Type().String())
	}

	var firstErr error
	src.ForEach(func(i int, elem wordjson.Value) bool {
		if i >= dst.Len() {
			return false
		}
		if err := decodeValue(elem, dst.Index(i)); err != nil {
			firstErr = err
			return false
		}
		return true
	})
	return firstErr
}

func decodeObject(src wordjson.Value, dst reflect.Value) error {
	switch dst.Kind() {
	case reflect.Map:
		if dst.IsNil() {
			dst.Set(reflect.MakeMap(dst.Type()))
		}
		keyType := dst.Type().Key()
		if keyType.Kind() != reflect.String {
			return errors.New("native: map key must be string")
		}
		elemType := dst.Type().Elem()

		var firstErr error
		src.ForEachField(func(key string, val wordjson.Value) bool {
			elemVal := reflect.New(elemType).Elem()
			if err := decodeValue(val, elemVal); err != nil {
				firstErr = err
				return false
			}
			keyVal := reflect.New(keyType).Elem()
			keyVal.SetString(key)
			dst.SetMapIndex(keyVal, elemVal)
			return true
		})
		return firstErr

	case reflect.Struct:
		return decodeStruct(src, dst)

	default:
		return errors.New("native: cannot decode object into " + dst.Type().String())
	}
}

func decodeStruct(src wordjson.Value, dst reflect.Value) error {
	typ := dst.Type()
	fields := make(map[string]int, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag := field.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name := field.Name
		if tag != "" {
			if idx := strings.IndexByte(tag, ','); idx != -1 {
				name = tag[:idx]
			} else {
				name = tag
			}
		}
		if name == "" {
			name = field.Name
		}
		fields[name] = i
	}

	var firstErr error
	src.ForEachField(func(key string, val wordjson.Value) bool {
		idx, ok := fields[key]
		if !ok {
			return true
		}
		field := dst.Field(idx)
		if !field.CanSet() {
			return true
		}
		if err := decodeValue(val, field); err != nil {
			firstErr = err
			return false
		}
		return true
	})
	return firstErr
}

func toInterface(v wordjson.Value) (interface{}, error) {
	switch v.Tag() {
	case word.TagNull:
		return nil, nil
	case word.TagTrue, word.TagFalse:
		b, _ := v.Bool()
		return b, nil
	case word.TagInteger:
		i, _ := v.Int32()
		return int64(i), nil
	case word.TagDouble:
		f, _ := v.Float64()
		return f, nil
	case word.TagString:
		s, _ := v.String()
		return s, nil
	case word.TagArray:
		out := make([]interface{}, 0, v.Len())
		var firstErr error
		v.ForEach(func(_ int, elem wordjson.Value) bool {
			iv, err := toInterface(elem)
			if err != nil {
				firstErr = err
				return false
			}
			out = append(out, iv)
			return true
		})
		return out, firstErr
	case word.TagObject:
		out := make(map[string]interface{}, v.Len())
		var firstErr error
		v.ForEachField(func(key string, elem wordjson.Value) bool {
			iv, err := toInterface(elem)
			if err != nil {
				firstErr = err
				return false
			}
			out[key] = iv
			return true
		})
		return out, firstErr
	default:
		return nil, errors.New("native: unrecognized value tag")
	}
}
