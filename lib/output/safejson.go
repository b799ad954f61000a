// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"strings"
)

// circularMarker replaces any value that refers back to one of its own
// ancestors, so cyclic structures serialize instead of recursing.
const circularMarker = "[Circular]"

// maxSanitizeDepth bounds the sanitizer's recursion for acyclic but
// pathologically deep values.
const maxSanitizeDepth = 256

// MarshalSafe serializes v to JSON, tolerating values that
// encoding/json rejects or encodes lossily. The fast path is a plain
// json.Marshal, which preserves custom marshalers and struct tags. A
// value is rewritten into a safe deep copy first when the fast path
// would fail (circular references, unsupported kinds) or when it
// contains values that marshal but do not survive lossy consumers:
// big.Int marshals to a raw arbitrary-precision number, which a
// float64-based reader corrupts silently. After rewriting, cycles
// become the "[Circular]" marker, arbitrary-precision numbers and
// non-finite floats become strings, and unserializable kinds become
// placeholder strings. MarshalSafe itself never fails for those
// reasons.
func MarshalSafe(v any) ([]byte, error) {
	value := reflect.ValueOf(v)
	if !needsRewrite(value, map[uintptr]bool{}, 0) {
		if encoded, err := json.Marshal(v); err == nil {
			return encoded, nil
		}
	}
	return json.Marshal(sanitize(value, map[uintptr]bool{}, 0))
}

var (
	bigIntType     = reflect.TypeOf(big.Int{})
	bigFloatType   = reflect.TypeOf(big.Float{})
	jsonNumberType = reflect.TypeOf(json.Number(""))
)

// needsRewrite walks the value looking for anything the fast path
// would either reject or encode in a form lossy consumers cannot
// round-trip. Revisiting a pointer on the current path is a cycle, so
// a rewrite is needed regardless. Unexported struct fields are skipped
// since json.Marshal never sees them.
func needsRewrite(value reflect.Value, seen map[uintptr]bool, depth int) bool {
	if !value.IsValid() {
		return false
	}
	if depth > maxSanitizeDepth {
		return true
	}
	switch value.Type() {
	case bigIntType, bigFloatType, jsonNumberType:
		return true
	}

	switch value.Kind() {
	case reflect.Interface:
		if value.IsNil() {
			return false
		}
		return needsRewrite(value.Elem(), seen, depth+1)

	case reflect.Ptr:
		if value.IsNil() {
			return false
		}
		address := value.Pointer()
		if seen[address] {
			return true
		}
		seen[address] = true
		result := needsRewrite(value.Elem(), seen, depth+1)
		delete(seen, address)
		return result

	case reflect.Map:
		if value.IsNil() {
			return false
		}
		address := value.Pointer()
		if seen[address] {
			return true
		}
		seen[address] = true
		defer delete(seen, address)
		iter := value.MapRange()
		for iter.Next() {
			if needsRewrite(iter.Value(), seen, depth+1) {
				return true
			}
		}
		return false

	case reflect.Slice:
		if value.IsNil() {
			return false
		}
		address := value.Pointer()
		if seen[address] {
			return true
		}
		seen[address] = true
		defer delete(seen, address)
		for i := 0; i < value.Len(); i++ {
			if needsRewrite(value.Index(i), seen, depth+1) {
				return true
			}
		}
		return false

	case reflect.Array:
		for i := 0; i < value.Len(); i++ {
			if needsRewrite(value.Index(i), seen, depth+1) {
				return true
			}
		}
		return false

	case reflect.Struct:
		structType := value.Type()
		for i := 0; i < structType.NumField(); i++ {
			if !structType.Field(i).IsExported() {
				continue
			}
			if needsRewrite(value.Field(i), seen, depth+1) {
				return true
			}
		}
		return false

	case reflect.Float32, reflect.Float64:
		f := value.Float()
		return math.IsNaN(f) || math.IsInf(f, 0)

	case reflect.Func, reflect.Chan, reflect.UnsafePointer,
		reflect.Complex64, reflect.Complex128:
		return true

	default:
		return false
	}
}

// WriteJSON writes v as indented JSON to w, followed by a newline.
// Non-streaming envelopes go through this so human-facing JSON stays
// readable while still surviving unsafe values.
func WriteJSON(w io.Writer, v any) error {
	encoded, err := MarshalSafe(v)
	if err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, encoded, "", "  "); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	indented.WriteByte('\n')
	_, err = w.Write(indented.Bytes())
	return err
}

// EncodeLine writes v as a single NDJSON line to w.
func EncodeLine(w io.Writer, v any) error {
	encoded, err := MarshalSafe(v)
	if err != nil {
		return fmt.Errorf("encode line: %w", err)
	}
	encoded = append(encoded, '\n')
	_, err = w.Write(encoded)
	return err
}

// sanitize deep-copies value into JSON-safe plain data. seen tracks
// the pointer identities of ancestors on the current path; revisiting
// one is a cycle.
func sanitize(value reflect.Value, seen map[uintptr]bool, depth int) any {
	if !value.IsValid() {
		return nil
	}
	if depth > maxSanitizeDepth {
		return circularMarker
	}

	// Arbitrary-precision numbers serialize as decimal strings.
	switch v := value.Interface().(type) {
	case *big.Int:
		if v == nil {
			return nil
		}
		return v.String()
	case big.Int:
		return v.String()
	case *big.Float:
		if v == nil {
			return nil
		}
		return v.Text('g', -1)
	case big.Float:
		return v.Text('g', -1)
	case json.Number:
		return v.String()
	}

	switch value.Kind() {
	case reflect.Interface:
		if value.IsNil() {
			return nil
		}
		return sanitize(value.Elem(), seen, depth+1)

	case reflect.Ptr:
		if value.IsNil() {
			return nil
		}
		address := value.Pointer()
		if seen[address] {
			return circularMarker
		}
		seen[address] = true
		result := sanitize(value.Elem(), seen, depth+1)
		delete(seen, address)
		return result

	case reflect.Map:
		if value.IsNil() {
			return nil
		}
		address := value.Pointer()
		if seen[address] {
			return circularMarker
		}
		seen[address] = true
		result := make(map[string]any, value.Len())
		iter := value.MapRange()
		for iter.Next() {
			result[fmt.Sprint(iter.Key().Interface())] = sanitize(iter.Value(), seen, depth+1)
		}
		delete(seen, address)
		return result

	case reflect.Slice:
		if value.IsNil() {
			return []any{}
		}
		address := value.Pointer()
		if seen[address] {
			return circularMarker
		}
		seen[address] = true
		result := sanitizeSequence(value, seen, depth)
		delete(seen, address)
		return result

	case reflect.Array:
		return sanitizeSequence(value, seen, depth)

	case reflect.Struct:
		return sanitizeStruct(value, seen, depth)

	case reflect.Float32, reflect.Float64:
		f := value.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Sprint(f)
		}
		return f

	case reflect.Func, reflect.Chan, reflect.UnsafePointer,
		reflect.Complex64, reflect.Complex128:
		return fmt.Sprintf("[unserializable %s]", value.Kind())

	default:
		return value.Interface()
	}
}

func sanitizeSequence(value reflect.Value, seen map[uintptr]bool, depth int) []any {
	result := make([]any, value.Len())
	for i := 0; i < value.Len(); i++ {
		result[i] = sanitize(value.Index(i), seen, depth+1)
	}
	return result
}

// sanitizeStruct copies exported fields into a map keyed by json tag
// name (falling back to the Go field name), honoring "-" exclusions.
func sanitizeStruct(value reflect.Value, seen map[uintptr]bool, depth int) map[string]any {
	structType := value.Type()
	result := make(map[string]any, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Name
		if tag := field.Tag.Get("json"); tag != "" {
			tagName, options, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
			if strings.Contains(options, "omitempty") && value.Field(i).IsZero() {
				continue
			}
		}
		result[name] = sanitize(value.Field(i), seen, depth+1)
	}
	return result
}
