// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"encoding/json"
	"strings"
)

// TaskRef is a syntactic reference to a task as it appears inside a
// taskfile, before the taskfile it points at is known.
//
// Kept distinct from ResolvedRef so an unresolved reference can never
// accidentally be used as graph-node identity: hashing and equality are
// defined only on the resolved form.
type TaskRef struct {
	// Alias is the import alias the task is defined under, empty for a
	// same-file reference.
	Alias string
	// Name is the task's name within its defining taskfile.
	Name string
}

// ParseTaskRef parses the surface form "alias:name" or bare "name" into a
// TaskRef. The split happens on the first colon only.
func ParseTaskRef(s string) TaskRef {
	if alias, name, ok := strings.Cut(s, ":"); ok {
		return TaskRef{Alias: alias, Name: name}
	}
	return TaskRef{Name: s}
}

// String renders the TaskRef back to its surface form.
func (r TaskRef) String() string {
	if r.Alias == "" {
		return r.Name
	}
	return r.Alias + ":" + r.Name
}

// IsImported reports whether this reference points at an imported
// taskfile.
func (r TaskRef) IsImported() bool {
	return r.Alias != ""
}

// ResolvedRef pins a TaskRef to a concrete (taskfile, task name) pair. It
// is the unit of identity for graph nodes, the oracle, and the scheduler.
type ResolvedRef struct {
	Taskfile TaskfileID
	Name     string
}

// String renders a human-readable form, e.g. "name (at /abs/path)".
func (r ResolvedRef) String() string {
	return r.Name + " (at " + string(r.Taskfile) + ")"
}

// Invocation pairs a reference (syntactic or resolved) with an ordered
// map of argument values. Two flavors exist: SyntacticInvocation (R =
// TaskRef) as it appears in a Dep, and ResolvedInvocation (R =
// ResolvedRef) once the reference has been looked up against a concrete
// taskfile.
type Invocation[R comparable] struct {
	Ref  R
	Args *ArgMap
}

// SyntacticInvocation is an Invocation keyed by an unresolved TaskRef.
type SyntacticInvocation = Invocation[TaskRef]

// ResolvedInvocation is an Invocation keyed by a ResolvedRef. Its identity
// (for the scheduler and the oracle) is its JSON-rendered form: two
// ResolvedInvocations are the same job iff their ref and args render
// identically.
type ResolvedInvocation = Invocation[ResolvedRef]

// Key returns a stable, order-sensitive identity for this invocation,
// suitable for use as a map key (ResolvedRef alone is not unique when the
// same task is invoked with different parametric args -- two resolved
// invocations of "compile" with different `name` args must be distinct
// graph nodes).
func (inv Invocation[R]) Key() string {
	b, err := json.Marshal(argsAsOrderedPairs(inv.Args))
	if err != nil {
		// args are always JSON-safe by construction (validated at
		// instantiation time); a marshal failure here is a programmer error
		panic(err)
	}
	return anyKey(inv.Ref) + "\x00" + string(b)
}

func anyKey(r any) string {
	b, err := json.Marshal(r)
	if err != nil {
		panic(err)
	}
	return string(b)
}

// argsAsOrderedPairs renders an ArgMap as an ordered slice of [name,
// value] pairs so that json.Marshal preserves insertion order (Go's
// encoding/json sorts plain map keys, which would break the ordered-map
// determinism invariant).
func argsAsOrderedPairs(m *ArgMap) [][2]any {
	if m == nil {
		return nil
	}
	out := make([][2]any, 0, m.Len())
	for pair := m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, [2]any{pair.Key, pair.Value})
	}
	return out
}
