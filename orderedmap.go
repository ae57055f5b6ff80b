// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ArgMap is an ordered map of argument/param names to JSON values.
//
// Iteration order is insertion order, which is authoritative per the
// workspace's determinism invariant: it drives env override chains, param
// echoing, and the deterministic JSON rendering of an Invocation's args.
type ArgMap = orderedmap.OrderedMap[string, any]

// NewArgMap constructs an empty ArgMap.
func NewArgMap() *ArgMap {
	return orderedmap.New[string, any]()
}

// ParamMap is an ordered map of declared task parameters.
type ParamMap = orderedmap.OrderedMap[string, Param]

// NewParamMap constructs an empty ParamMap.
func NewParamMap() *ParamMap {
	return orderedmap.New[string, Param]()
}

// EnvMap is an ordered map of environment variable names to JSON values.
type EnvMap = orderedmap.OrderedMap[string, any]

// NewEnvMap constructs an empty EnvMap.
func NewEnvMap() *EnvMap {
	return orderedmap.New[string, any]()
}

// cloneArgMap performs a shallow copy preserving key order.
func cloneArgMap(m *ArgMap) *ArgMap {
	out := NewArgMap()
	if m == nil {
		return out
	}
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out.Set(pair.Key, pair.Value)
	}
	return out
}

// argMapEqual compares two ArgMaps by key/value, ignoring order -- used
// only for test assertions, never for Invocation identity (which is
// order-sensitive per the JSON-rendering invariant).
func argMapEqual(a, b *ArgMap) bool {
	if a.Len() != b.Len() {
		return false
	}
	for pair := a.Oldest(); pair != nil; pair = pair.Next() {
		v, ok := b.Get(pair.Key)
		if !ok || v != pair.Value {
			return false
		}
	}
	return true
}
