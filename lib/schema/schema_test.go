// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"strings"
	"testing"
)

type basicInput struct {
	Name    string  `json:"name" desc:"display name"`
	Count   int     `json:"count" default:"10" desc:"how many"`
	Verbose bool    `json:"verbose" optional:"true"`
	Tag     *string `json:"tag" desc:"optional tag"`
	Mode    string  `json:"mode" enum:"fast,slow" default:"fast"`
}

func TestNew_FieldIntrospection(t *testing.T) {
	object := MustNew(basicInput{})

	tests := []struct {
		name        string
		base        BaseType
		optional    bool
		hasDefault  bool
		wantDefault any
	}{
		{"name", String, false, false, nil},
		{"count", Number, false, true, float64(10)},
		{"verbose", Bool, true, false, nil},
		{"tag", String, true, false, nil},
		{"mode", Enum, false, true, "fast"},
	}
	for _, tt := range tests {
		field, ok := object.Field(tt.name)
		if !ok {
			t.Fatalf("Field(%q) not found", tt.name)
		}
		descriptor := field.Descriptor()
		if descriptor.BaseType != tt.base {
			t.Errorf("%s: base type = %q, want %q", tt.name, descriptor.BaseType, tt.base)
		}
		if descriptor.Optional != tt.optional {
			t.Errorf("%s: optional = %v, want %v", tt.name, descriptor.Optional, tt.optional)
		}
		if descriptor.HasDefault != tt.hasDefault {
			t.Errorf("%s: hasDefault = %v, want %v", tt.name, descriptor.HasDefault, tt.hasDefault)
		}
		if tt.hasDefault && descriptor.Default != tt.wantDefault {
			t.Errorf("%s: default = %v (%T), want %v", tt.name, descriptor.Default, descriptor.Default, tt.wantDefault)
		}
	}
}

func TestNew_PointerPrototype(t *testing.T) {
	object, err := New(&basicInput{})
	if err != nil {
		t.Fatalf("New(&basicInput{}): %v", err)
	}
	if len(object.Fields()) != 5 {
		t.Fatalf("fields = %d, want 5", len(object.Fields()))
	}
}

func TestNew_EnumLiterals(t *testing.T) {
	object := MustNew(basicInput{})
	field, _ := object.Field("mode")
	enum := field.Descriptor().Enum
	if len(enum) != 2 || enum[0] != "fast" || enum[1] != "slow" {
		t.Fatalf("enum literals = %v, want [fast slow]", enum)
	}
}

func TestNew_PropertyNaming(t *testing.T) {
	type named struct {
		ExplicitTag string `json:"explicit_tag"`
		NoTag       string
	}
	object := MustNew(named{})
	if _, ok := object.Field("explicit_tag"); !ok {
		t.Errorf("json tag name not used for lookup")
	}
	if _, ok := object.Field("noTag"); !ok {
		t.Errorf("untagged field should be camelCased, names = %v", object.FieldNames())
	}
}

func TestNew_EmbeddedStructFlattened(t *testing.T) {
	type pagination struct {
		Limit int `json:"limit" default:"20"`
	}
	type query struct {
		pagination
		Filter string `json:"filter" optional:"true"`
	}
	_ = query{pagination: pagination{}}

	object, err := New(query{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	names := object.FieldNames()
	if len(names) != 2 || names[0] != "limit" || names[1] != "filter" {
		t.Fatalf("field names = %v, want [limit filter]", names)
	}
}

func TestNew_Errors(t *testing.T) {
	type unsupported struct {
		Data map[string]string `json:"data"`
	}
	// The duplicate property arrives through embedding so the fixture
	// stays clean under vet's structtag check.
	type duplicateBase struct {
		A string `json:"same"`
	}
	type duplicate struct {
		duplicateBase
		B string `json:"same"`
	}
	type badDefault struct {
		Mode string `json:"mode" enum:"a,b" default:"c"`
	}
	type badBool struct {
		Flag bool `json:"flag" default:"definitely"`
	}

	for _, tt := range []struct {
		name      string
		prototype any
	}{
		{"nil prototype", nil},
		{"non-struct", 42},
		{"unsupported field type", unsupported{}},
		{"duplicate property name", duplicate{}},
		{"enum default outside literal set", badDefault{}},
		{"unparseable bool default", badBool{}},
	} {
		if _, err := New(tt.prototype); err == nil {
			t.Errorf("%s: New succeeded, want error", tt.name)
		}
	}
}

func TestNew_SkipsUnexportedAndExcluded(t *testing.T) {
	type mixed struct {
		Kept    string `json:"kept"`
		hidden  string
		Dropped string `json:"-"`
	}
	_ = mixed{hidden: ""}

	object := MustNew(mixed{})
	if names := object.FieldNames(); len(names) != 1 || names[0] != "kept" {
		t.Fatalf("field names = %v, want [kept]", names)
	}
}

func TestValidate_DefaultsAndRequired(t *testing.T) {
	object := MustNew(basicInput{})

	values, err := object.Validate(map[string]any{"name": "alpha"})
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if values["count"] != float64(10) {
		t.Errorf("count default = %v, want 10", values["count"])
	}
	if values["mode"] != "fast" {
		t.Errorf("mode default = %v, want fast", values["mode"])
	}
	if _, present := values["tag"]; present {
		t.Errorf("absent optional field should stay absent")
	}

	_, err = object.Validate(map[string]any{})
	var fieldError *FieldError
	if !errors.As(err, &fieldError) {
		t.Fatalf("missing required field: err = %v, want *FieldError", err)
	}
	if fieldError.Field != "name" || fieldError.Message != "required" {
		t.Errorf("FieldError = %+v, want name/required", fieldError)
	}
}

func TestValidate_Coercion(t *testing.T) {
	object := MustNew(basicInput{})

	tests := []struct {
		name    string
		raw     map[string]any
		wantErr string
		check   func(Values) error
	}{
		{
			name: "int widened to float64",
			raw:  map[string]any{"name": "a", "count": int64(7)},
			check: func(v Values) error {
				if v["count"] != float64(7) {
					return errors.New("count not widened")
				}
				return nil
			},
		},
		{
			name:    "string for number rejected",
			raw:     map[string]any{"name": "a", "count": "7"},
			wantErr: "expected number",
		},
		{
			name:    "non-bool rejected",
			raw:     map[string]any{"name": "a", "verbose": "yes"},
			wantErr: "expected boolean",
		},
		{
			name:    "enum outside set rejected",
			raw:     map[string]any{"name": "a", "mode": "turbo"},
			wantErr: "not one of fast, slow",
		},
		{
			name: "unknown keys ignored",
			raw:  map[string]any{"name": "a", "json": true, "stream": true},
			check: func(v Values) error {
				if _, present := v["json"]; present {
					return errors.New("unknown key leaked into values")
				}
				return nil
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := object.Validate(tt.raw)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("err = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if tt.check != nil {
				if err := tt.check(values); err != nil {
					t.Error(err)
				}
			}
		})
	}
}

func TestMerge(t *testing.T) {
	merged := Merge(nil, Values{"a": 1})
	if merged["a"] != 1 {
		t.Fatalf("merge into nil dst lost value")
	}

	dst := Values{"a": 1, "b": 2}
	merged = Merge(dst, Values{"b": 3, "c": 4})
	if merged["a"] != 1 || merged["b"] != 3 || merged["c"] != 4 {
		t.Fatalf("merged = %v, want later keys to win", merged)
	}

	if got := Merge(dst, nil); len(got) != 3 {
		t.Fatalf("merging nil src changed dst: %v", got)
	}
}
