// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"fmt"
	"slices"

	"github.com/spf13/cast"
)

// ParamType is the declared type of a task parameter.
type ParamType int

const (
	// ParamString is a plain string.
	ParamString ParamType = iota
	// ParamNumber is any JSON number.
	ParamNumber
	// ParamBoolean is a JSON boolean.
	ParamBoolean
	// ParamPath is a string that names a filesystem path.
	ParamPath
	// ParamSelect is a string constrained to a fixed set of values.
	ParamSelect
	// ParamArray is a homogeneous array of some inner type.
	ParamArray
)

// String renders the param type's surface name.
func (t ParamType) String() string {
	switch t {
	case ParamString:
		return "string"
	case ParamNumber:
		return "number"
	case ParamBoolean:
		return "boolean"
	case ParamPath:
		return "path"
	case ParamSelect:
		return "select"
	case ParamArray:
		return "array"
	default:
		return "unknown"
	}
}

// Param is a task parameter declaration: its type and optional default.
type Param struct {
	Type ParamType
	// Default is the value substituted when an invocation omits this
	// argument. nil means "no default" (the argument is required).
	Default any
	// Select is the list of allowed string values when Type == ParamSelect.
	Select []string
	// Array is the inner element type when Type == ParamArray.
	Array *Param
}

// Validate checks value against the param's declared type, returning a
// TypeError describing the mismatch.
func (p Param) Validate(name string, value any) error {
	switch p.Type {
	case ParamString, ParamPath:
		if _, err := cast.ToStringE(value); err != nil {
			return &TypeError{Key: name, Detail: fmt.Sprintf("expected string, got %T", value)}
		}
	case ParamNumber:
		if _, err := cast.ToFloat64E(value); err != nil {
			return &TypeError{Key: name, Detail: fmt.Sprintf("expected number, got %T", value)}
		}
	case ParamBoolean:
		if _, err := cast.ToBoolE(value); err != nil {
			return &TypeError{Key: name, Detail: fmt.Sprintf("expected boolean, got %T", value)}
		}
	case ParamSelect:
		s, err := cast.ToStringE(value)
		if err != nil {
			return &TypeError{Key: name, Detail: fmt.Sprintf("expected string, got %T", value)}
		}
		if !slices.Contains(p.Select, s) {
			return &TypeError{Key: name, Detail: fmt.Sprintf("%q is not one of %v", s, p.Select)}
		}
	case ParamArray:
		arr, ok := value.([]any)
		if !ok {
			return &TypeError{Key: name, Detail: fmt.Sprintf("expected array, got %T", value)}
		}
		if p.Array != nil {
			for i, elem := range arr {
				if err := p.Array.Validate(fmt.Sprintf("%s[%d]", name, i), elem); err != nil {
					return err
				}
			}
		}
	default:
		return &TypeError{Key: name, Detail: "unknown param type"}
	}
	return nil
}
