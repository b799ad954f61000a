// Copyright 2026 The Chassis Authors
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/chassis-cli/chassis/lib/schema"
)

// FlagDefinition describes one long-form CLI flag: either declared
// explicitly on a builder, contributed by a preset, or derived from an
// input schema field. Within one command, LongFlag values are unique —
// explicit and earlier declarations win, later ones are silently
// skipped.
type FlagDefinition struct {
	// Name is the source field name (camelCase), the key the raw flag
	// bag and schemas use.
	Name string

	// LongFlag is the kebab-case flag name, without dashes.
	LongFlag string

	// FlagString is the display form: "--force" for booleans,
	// "--limit <n>" for numbers, "--format <value>" otherwise.
	FlagString string

	// Usage is the help text.
	Usage string

	// Boolean flags take no value.
	Boolean bool

	// Required is true when the source field has no default and is
	// not optional.
	Required bool

	// Base is the value type used for pflag registration.
	Base schema.BaseType

	// Default is the registration default (string, float64, or bool),
	// nil when the flag has none.
	Default any

	// Enum is the allowed literal set for enum flags.
	Enum []string
}

// StringFlag declares an explicit string flag. The long flag name is
// the kebab-case form of name.
func StringFlag(name, usage string) FlagDefinition {
	return newFlagDefinition(name, usage, schema.String, nil)
}

// BoolFlag declares an explicit boolean flag.
func BoolFlag(name, usage string) FlagDefinition {
	return newFlagDefinition(name, usage, schema.Bool, nil)
}

// NumberFlag declares an explicit numeric flag.
func NumberFlag(name, usage string) FlagDefinition {
	return newFlagDefinition(name, usage, schema.Number, nil)
}

// EnumFlag declares an explicit flag restricted to the given literals.
func EnumFlag(name, usage string, literals ...string) FlagDefinition {
	definition := newFlagDefinition(name, usage, schema.Enum, literals)
	return definition
}

func newFlagDefinition(name, usage string, base schema.BaseType, enum []string) FlagDefinition {
	longFlag := kebabCase(name)
	return FlagDefinition{
		Name:       name,
		LongFlag:   longFlag,
		FlagString: flagString(longFlag, base),
		Usage:      usage,
		Boolean:    base == schema.Bool,
		Base:       base,
		Enum:       enum,
	}
}

// WithDefault returns a copy of the definition carrying a default
// value. A flag with a default is never required.
func (d FlagDefinition) WithDefault(value any) FlagDefinition {
	d.Default = value
	d.Required = false
	return d
}

// AsRequired returns a copy of the definition marked required.
func (d FlagDefinition) AsRequired() FlagDefinition {
	d.Required = true
	return d
}

// DeriveFlags converts a schema's fields into flag definitions,
// skipping any field whose long flag is already in existing. The set
// is extended as flags are emitted, so explicit declarations win over
// derived ones and earlier schemas win over later ones.
func DeriveFlags(object *schema.Object, existing map[string]bool) []FlagDefinition {
	var definitions []FlagDefinition
	for _, field := range object.Fields() {
		longFlag := kebabCase(field.Name)
		if existing[longFlag] {
			continue
		}
		existing[longFlag] = true

		descriptor := field.Descriptor()
		definition := FlagDefinition{
			Name:       field.Name,
			LongFlag:   longFlag,
			FlagString: flagString(longFlag, descriptor.BaseType),
			Usage:      descriptor.Description,
			Boolean:    descriptor.BaseType == schema.Bool,
			Required:   !descriptor.Optional && !descriptor.HasDefault,
			Base:       descriptor.BaseType,
			Enum:       descriptor.Enum,
		}
		if descriptor.HasDefault {
			definition.Default = descriptor.Default
		}
		definitions = append(definitions, definition)
	}
	return definitions
}

// flagString renders the display form of a flag by base type: booleans
// are bare, numbers take <n>, everything else takes <value>.
func flagString(longFlag string, base schema.BaseType) string {
	switch base {
	case schema.Bool:
		return "--" + longFlag
	case schema.Number:
		return "--" + longFlag + " <n>"
	default:
		return "--" + longFlag + " <value>"
	}
}

// kebabCase converts a camelCase field name to its kebab-case flag
// name: "outputDir" becomes "output-dir", a single lowercase word
// passes through unchanged. A leading uppercase letter produces a
// leading hyphen ("Name" becomes "-name"); schema fields are expected
// to be lower-camel by convention, and the mapping is kept stable
// rather than special-cased.
func kebabCase(name string) string {
	var builder strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			builder.WriteByte('-')
			builder.WriteRune(r - 'A' + 'a')
			continue
		}
		builder.WriteRune(r)
	}
	return builder.String()
}

// Register binds the definition into a pflag FlagSet. The usage string
// for enum flags lists the allowed literals.
func (d FlagDefinition) Register(flagSet *pflag.FlagSet) {
	usage := d.Usage
	if len(d.Enum) > 0 {
		usage = strings.TrimSpace(usage + " (one of: " + strings.Join(d.Enum, ", ") + ")")
	}

	switch d.Base {
	case schema.Bool:
		defaultValue, _ := d.Default.(bool)
		flagSet.Bool(d.LongFlag, defaultValue, usage)
	case schema.Number:
		defaultValue, _ := asFlagFloat(d.Default)
		flagSet.Float64(d.LongFlag, defaultValue, usage)
	default:
		defaultValue, _ := d.Default.(string)
		flagSet.String(d.LongFlag, defaultValue, usage)
	}
}

// asFlagFloat widens a definition default to float64 for registration.
func asFlagFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// rawFlagValues reads the merged post-parse values for the given
// definitions back out of the FlagSet into a raw bag. A flag
// contributes a value when the user set it or when its definition
// carries a default; required-field detection depends on genuinely
// absent flags staying absent. Each value is keyed by the camelCase
// field name and, when different, by the kebab-case flag name too, so
// preset resolvers can read either synonym.
func rawFlagValues(definitions []FlagDefinition, flagSet *pflag.FlagSet) map[string]any {
	raw := make(map[string]any, len(definitions))
	for _, definition := range definitions {
		if !flagSet.Changed(definition.LongFlag) && definition.Default == nil {
			continue
		}
		value, err := lookupFlagValue(definition, flagSet)
		if err != nil {
			continue
		}
		raw[definition.Name] = value
		if definition.LongFlag != definition.Name {
			raw[definition.LongFlag] = value
		}
	}
	return raw
}

func lookupFlagValue(definition FlagDefinition, flagSet *pflag.FlagSet) (any, error) {
	switch definition.Base {
	case schema.Bool:
		return flagSet.GetBool(definition.LongFlag)
	case schema.Number:
		return flagSet.GetFloat64(definition.LongFlag)
	default:
		return flagSet.GetString(definition.LongFlag)
	}
}

// findDefinition returns the definition owning a long flag, if any.
func findDefinition(definitions []FlagDefinition, longFlag string) (FlagDefinition, bool) {
	for _, definition := range definitions {
		if definition.LongFlag == longFlag {
			return definition, true
		}
	}
	return FlagDefinition{}, false
}

// validateEnumFlags rejects out-of-set values for enum flags before
// schema validation runs, so explicit enum options (which have no
// backing schema) are still enforced.
func validateEnumFlags(definitions []FlagDefinition, flagSet *pflag.FlagSet) error {
	for _, definition := range definitions {
		if len(definition.Enum) == 0 || !flagSet.Changed(definition.LongFlag) {
			continue
		}
		value, err := flagSet.GetString(definition.LongFlag)
		if err != nil {
			continue
		}
		allowed := false
		for _, literal := range definition.Enum {
			if literal == value {
				allowed = true
				break
			}
		}
		if !allowed {
			return Validationf("--%s: %q is not one of %s",
				definition.LongFlag, value, strings.Join(definition.Enum, ", "))
		}
	}
	return nil
}
