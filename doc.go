// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025-Present Defense Unicorns

// Package taskforge is a file-aware task runner.
//
// Given a declarative catalog of named tasks spread across one or more
// taskfiles, it resolves the transitive dependency graph of a requested
// task invocation, decides which tasks are out of date by comparing
// source and output files, and executes their recipes in a correct
// order -- sequentially or with bounded concurrency.
package taskforge
