// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"strings"
)

// Values is a validated input bag: property name to typed value.
type Values map[string]any

// Merge shallow-merges src into dst, later keys overwriting earlier
// ones, and returns dst. A nil dst is allocated on demand so callers
// can fold resolver outputs into a possibly-nil input.
func Merge(dst, src Values) Values {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(Values, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

// FieldError reports a single-field validation failure. These are the
// only errors Validate returns for well-formed schemas: the caller
// supplied a wrong type, an out-of-set enum literal, or omitted a
// required field.
type FieldError struct {
	// Field is the property name of the offending field.
	Field string
	// Message describes the failure in user-correctable terms.
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks raw against the schema and returns the validated
// values: present fields type-checked and coerced, absent fields filled
// from defaults. Unknown keys in raw are ignored (the raw flag bag
// includes global and inherited flags that other schemas own).
//
// The first failure aborts with a *FieldError; no partial Values are
// returned.
func (o *Object) Validate(raw map[string]any) (Values, error) {
	values := make(Values, len(o.fields))
	for _, field := range o.fields {
		descriptor := field.Descriptor()

		rawValue, present := raw[field.Name]
		if !present {
			if descriptor.HasDefault {
				values[field.Name] = descriptor.Default
				continue
			}
			if descriptor.Optional {
				continue
			}
			return nil, &FieldError{Field: field.Name, Message: "required"}
		}

		coerced, err := coerceValue(descriptor, rawValue)
		if err != nil {
			return nil, &FieldError{Field: field.Name, Message: err.Error()}
		}
		values[field.Name] = coerced
	}
	return values, nil
}

// coerceValue checks a raw value against the field descriptor and
// normalizes it: numbers of any Go width become float64, enum values
// are checked against the literal set.
func coerceValue(descriptor FieldDescriptor, rawValue any) (any, error) {
	switch descriptor.BaseType {
	case Bool:
		value, ok := rawValue.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", rawValue)
		}
		return value, nil

	case Number:
		value, ok := asFloat64(rawValue)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", rawValue)
		}
		return value, nil

	case String:
		value, ok := rawValue.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", rawValue)
		}
		return value, nil

	case Enum:
		value, ok := rawValue.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", rawValue)
		}
		for _, literal := range descriptor.Enum {
			if literal == value {
				return value, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %s", value, strings.Join(descriptor.Enum, ", "))

	default:
		return nil, fmt.Errorf("unsupported base type %q", descriptor.BaseType)
	}
}

// asFloat64 widens any Go numeric value to float64.
func asFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
