// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

package taskforge

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvocation(name string) ResolvedInvocation {
	return ResolvedInvocation{Ref: ResolvedRef{Taskfile: "/virtual", Name: name}, Args: NewArgMap()}
}

func beginTask(t *testing.T, rm RunManager, inv ResolvedInvocation) TaskExecutionContext {
	t.Helper()
	rexec, err := rm.Begin([]ResolvedInvocation{inv})
	require.NoError(t, err)
	tctx, err := rexec.EnterTask(inv)
	require.NoError(t, err)
	return tctx
}

func TestPlainRunManagerPrintsLines(t *testing.T) {
	var buf bytes.Buffer
	rm := NewPlainRunManager(&buf)

	tctx := beginTask(t, rm, testInvocation("build"))
	tctx.Line(Line{Stream: StreamStdout, Text: "building..."})
	tctx.Done(nil)

	assert.Contains(t, buf.String(), "building...")
}

func TestPlainRunManagerReportsFailure(t *testing.T) {
	var buf bytes.Buffer
	rm := NewPlainRunManager(&buf)

	tctx := beginTask(t, rm, testInvocation("build"))
	tctx.Done(errors.New("boom"))

	assert.Contains(t, buf.String(), "task failed")
}

func TestPlainRunManagerReportsUpToDate(t *testing.T) {
	var buf bytes.Buffer
	rm := NewPlainRunManager(&buf)

	tctx := beginTask(t, rm, testInvocation("build"))
	tctx.UpToDate()

	assert.Contains(t, buf.String(), "up to date")
}

func TestCompactRunManagerDiscardsLinesPrintsSummary(t *testing.T) {
	var buf bytes.Buffer
	rm := NewCompactRunManager(&buf)

	tctx := beginTask(t, rm, testInvocation("build"))
	tctx.Line(Line{Stream: StreamStdout, Text: "should not appear"})
	tctx.Done(nil)

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "OK")
}

func TestCompactRunManagerReportsFailure(t *testing.T) {
	var buf bytes.Buffer
	rm := NewCompactRunManager(&buf)

	tctx := beginTask(t, rm, testInvocation("build"))
	tctx.Done(errors.New("boom"))

	assert.Contains(t, buf.String(), "FAIL")
}

func TestSilentRunManagerDiscardsEverything(t *testing.T) {
	rm := SilentRunManager{}
	tctx := beginTask(t, rm, testInvocation("build"))
	tctx.Line(Line{Stream: StreamStdout, Text: "noise"})
	tctx.UpToDate()
	tctx.Done(errors.New("boom"))
	// nothing to assert: this is a no-op sink, the test documents that
	// calling it does not panic
}
