// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// BaseType classifies a field's innermost type once the optional
// wrapper (pointer or optional tag) and default wrapper (default tag)
// are removed.
type BaseType string

const (
	// String is a free-form string field.
	String BaseType = "string"
	// Number covers integer and floating-point fields.
	Number BaseType = "number"
	// Bool is a boolean field.
	Bool BaseType = "boolean"
	// Enum is a string field restricted to a declared literal set.
	Enum BaseType = "enum"
)

// FieldDescriptor is the language-agnostic shape of a single schema
// field: its base type with wrappers unwrapped, plus the metadata the
// flag deriver and help output need. Descriptors are computed from
// reflection on demand and never cached across schema instances.
type FieldDescriptor struct {
	// BaseType is the innermost type of the field.
	BaseType BaseType

	// Optional is true when the field may be absent from the input:
	// the Go field is a pointer, or carries an optional:"true" tag.
	Optional bool

	// HasDefault is true when the field carries a default tag.
	HasDefault bool

	// Default is the parsed default value, typed to match BaseType
	// (string, float64, or bool). Nil when HasDefault is false.
	Default any

	// Description is the human-readable help text from the desc tag.
	Description string

	// Enum is the ordered list of allowed literals from the enum tag.
	// Nil for non-enum fields.
	Enum []string
}

// Field is one introspected field of an [Object].
type Field struct {
	// Name is the property name used in raw input bags: the json tag
	// name when present, otherwise the Go field name with its first
	// rune lowered.
	Name string

	// GoName is the declared Go struct field name.
	GoName string

	descriptor FieldDescriptor
}

// Descriptor returns the field's introspected shape.
func (f Field) Descriptor() FieldDescriptor { return f.descriptor }

// newField introspects a single struct field. It unwraps the optional
// wrapper (pointer type or optional tag) and the default wrapper
// (default tag) in any combination, recovering the innermost base type,
// the parsed default value, and the description.
func newField(structField reflect.StructField) (Field, error) {
	fieldType := structField.Type
	optional := structField.Tag.Get("optional") == "true"
	if fieldType.Kind() == reflect.Ptr {
		optional = true
		fieldType = fieldType.Elem()
	}

	base, err := baseTypeOf(fieldType, structField.Tag.Get("enum") != "")
	if err != nil {
		return Field{}, fmt.Errorf("field %s: %w", structField.Name, err)
	}

	descriptor := FieldDescriptor{
		BaseType:    base,
		Optional:    optional,
		Description: structField.Tag.Get("desc"),
	}

	if enumTag := structField.Tag.Get("enum"); enumTag != "" {
		descriptor.Enum = strings.Split(enumTag, ",")
	}

	if defaultString, ok := structField.Tag.Lookup("default"); ok {
		defaultValue, err := parseDefault(base, descriptor.Enum, defaultString)
		if err != nil {
			return Field{}, fmt.Errorf("field %s: default: %w", structField.Name, err)
		}
		descriptor.HasDefault = true
		descriptor.Default = defaultValue
	}

	return Field{
		Name:       propertyName(structField),
		GoName:     structField.Name,
		descriptor: descriptor,
	}, nil
}

// baseTypeOf maps a Go type to a schema base type. The enum flag marks
// string fields that carry an enum tag.
func baseTypeOf(fieldType reflect.Type, isEnum bool) (BaseType, error) {
	switch fieldType.Kind() {
	case reflect.String:
		if isEnum {
			return Enum, nil
		}
		return String, nil
	case reflect.Bool:
		return Bool, nil
	case reflect.Int, reflect.Int32, reflect.Int64,
		reflect.Float32, reflect.Float64:
		return Number, nil
	default:
		return "", fmt.Errorf("unsupported type %s", fieldType)
	}
}

// parseDefault parses a default tag string into the value type matching
// the base type, so defaults merge into validated input with the same
// dynamic type a parsed flag value would have.
func parseDefault(base BaseType, enum []string, value string) (any, error) {
	switch base {
	case String:
		return value, nil
	case Enum:
		for _, literal := range enum {
			if literal == value {
				return value, nil
			}
		}
		return nil, fmt.Errorf("%q is not one of %s", value, strings.Join(enum, ", "))
	case Bool:
		return strconv.ParseBool(value)
	case Number:
		return strconv.ParseFloat(value, 64)
	default:
		return nil, fmt.Errorf("unsupported base type %q", base)
	}
}

// propertyName returns the raw-input key for a struct field: the json
// tag name when present, otherwise the Go name with a lowered first
// rune (matching the camelCase convention of flag bags).
func propertyName(structField reflect.StructField) string {
	if tag := structField.Tag.Get("json"); tag != "" {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" && name != "-" {
			return name
		}
	}
	name := structField.Name
	return strings.ToLower(name[:1]) + name[1:]
}
