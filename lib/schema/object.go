// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"fmt"
	"reflect"
)

// Object is an introspected input schema built from a struct type.
// Fields are discovered once at construction; the Object is immutable
// afterward and safe for concurrent reads.
type Object struct {
	goType reflect.Type
	fields []Field
	byName map[string]int
}

// New builds an Object from a struct value or pointer to struct.
// Embedded structs are flattened into the parent's field list, matching
// how flag bags are flat key/value maps.
func New(prototype any) (*Object, error) {
	goType := reflect.TypeOf(prototype)
	if goType == nil {
		return nil, fmt.Errorf("schema: nil prototype")
	}
	if goType.Kind() == reflect.Ptr {
		goType = goType.Elem()
	}
	if goType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: prototype must be a struct or pointer to struct, got %T", prototype)
	}

	object := &Object{goType: goType, byName: make(map[string]int)}
	if err := object.collectFields(goType); err != nil {
		return nil, err
	}
	return object, nil
}

// MustNew is New for package-level schema declarations. Panics on
// invalid input (programming error, not runtime data).
func MustNew(prototype any) *Object {
	object, err := New(prototype)
	if err != nil {
		panic(fmt.Sprintf("schema.MustNew: %v", err))
	}
	return object
}

// collectFields introspects structType's exported fields, recursing
// into embedded structs.
func (o *Object) collectFields(structType reflect.Type) error {
	for i := 0; i < structType.NumField(); i++ {
		structField := structType.Field(i)

		if structField.Anonymous && structField.Type.Kind() == reflect.Struct {
			if err := o.collectFields(structField.Type); err != nil {
				return fmt.Errorf("embedded %s: %w", structField.Name, err)
			}
			continue
		}
		if !structField.IsExported() {
			continue
		}
		if structField.Tag.Get("json") == "-" {
			continue
		}

		field, err := newField(structField)
		if err != nil {
			return err
		}
		if _, exists := o.byName[field.Name]; exists {
			return fmt.Errorf("duplicate field %q", field.Name)
		}
		o.byName[field.Name] = len(o.fields)
		o.fields = append(o.fields, field)
	}
	return nil
}

// Fields returns the introspected fields in declaration order.
func (o *Object) Fields() []Field { return o.fields }

// Field looks up a field by property name.
func (o *Object) Field(name string) (Field, bool) {
	index, ok := o.byName[name]
	if !ok {
		return Field{}, false
	}
	return o.fields[index], true
}

// FieldNames returns property names in declaration order. The merged
// validator uses this to pick each schema's own subset from a shared
// raw input bag.
func (o *Object) FieldNames() []string {
	names := make([]string, len(o.fields))
	for i, field := range o.fields {
		names[i] = field.Name
	}
	return names
}
