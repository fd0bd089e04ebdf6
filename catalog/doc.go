// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package catalog loads shader units and program descriptors and keeps
// their compiled GPU handles.
//
// A Catalog owns one table of ShaderUnits and Programs. Loading builds a
// new table and installs it in one step; releasing destroys every handle
// of the current table and marks its entries invalid, so a *Program kept
// across a reload reports Valid() == false and a zero handle instead of a
// dangling one.
//
// Loading never fails as a whole because of one bad file. Parse, compile
// and link failures are recorded on the affected unit or program, returned
// by Errors and logged; the remaining entries load normally.
package catalog
