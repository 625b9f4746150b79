// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pose holds the small vector types carried by geometry
// updates and the quaternion to axis-angle conversion used when a
// rotation is applied to a geometry.
//
// The conversion is deliberately exact and branch-light so that its
// output can be compared bit-for-bit in tests: the same four inputs
// always produce the same axis and angle.
//
// This package depends on no other svsviewer packages.
package pose
