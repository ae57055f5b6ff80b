// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

// renderContext is the root value templated fields are evaluated against,
// a dot-rooted struct so templates spell fields ".Args.name" / ".Env.NAME".
type renderContext struct {
	Args map[string]any
	Env  map[string]any
}

// helperFuncs builds a fresh FuncMap for every rendered string; the
// helpers are pure functions of their arguments and the render context.
func helperFuncs() template.FuncMap {
	return template.FuncMap{
		"fmt_precision": fmtPrecision,
	}
}

// fmtPrecision formats a numeric value to the given number of decimal
// digits, exposed to templates as the `fmt_precision` helper.
func fmtPrecision(value any, digits int) (string, error) {
	f, err := toFloat(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%.*f", digits, f), nil
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	default:
		return 0, fmt.Errorf("fmt_precision: %T is not numeric", value)
	}
}

// renderString renders a single templated string against ctx.
func renderString(field, str string, ctx renderContext) (string, error) {
	tmpl, err := template.New(field).Option("missingkey=error").Funcs(helperFuncs()).Parse(str)
	if err != nil {
		return "", &TemplateRenderError{Field: field, Err: err}
	}
	var out strings.Builder
	if err := tmpl.Execute(&out, ctx); err != nil {
		return "", &TemplateRenderError{Field: field, Err: err}
	}
	return out.String(), nil
}

// renderJSONValue renders a templated value recursively: strings are
// rendered then re-parsed as JSON when possible (letting a template slot
// expand into a number or object naturally); arrays and objects recurse;
// other primitives pass through unchanged.
func renderJSONValue(field string, value any, ctx renderContext) (any, error) {
	switch v := value.(type) {
	case string:
		rendered, err := renderString(field, v, ctx)
		if err != nil {
			return nil, err
		}
		var reparsed any
		if err := json.Unmarshal([]byte(rendered), &reparsed); err == nil {
			return reparsed, nil
		}
		return rendered, nil
	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			rendered, err := renderJSONValue(fmt.Sprintf("%s[%d]", field, i), elem, ctx)
			if err != nil {
				return nil, err
			}
			out[i] = rendered
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			rendered, err := renderJSONValue(field+"."+k, elem, ctx)
			if err != nil {
				return nil, err
			}
			out[k] = rendered
		}
		return out, nil
	default:
		return v, nil
	}
}

// renderArgMap renders every string value of an ordered arg map,
// preserving key order.
func renderArgMap(field string, m *ArgMap, ctx renderContext) (*ArgMap, error) {
	out := NewArgMap()
	if m == nil {
		return out, nil
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		rendered, err := renderJSONValue(field+"."+pair.Key, pair.Value, ctx)
		if err != nil {
			return nil, err
		}
		out.Set(pair.Key, rendered)
	}
	return out, nil
}
