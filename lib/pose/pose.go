// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pose

import "math"

// axisEpsilon is the smallest sin(angle/2) for which the quaternion's
// vector part is normalized into a unit axis. Below it the rotation
// is within numerical noise of identity.
const axisEpsilon = 1e-5

// Vec3 is an (x, y, z) triple. Used for positions, scales, colours
// (r, g, b) and rotation axes.
type Vec3 [3]float64

// X returns the first component.
func (v Vec3) X() float64 { return v[0] }

// Y returns the second component.
func (v Vec3) Y() float64 { return v[1] }

// Z returns the third component.
func (v Vec3) Z() float64 { return v[2] }

// Quaternion is a rotation in (x, y, z, w) order, matching the order
// of the four numbers following the "r" tag on the wire.
type Quaternion [4]float64

// Identity is the quaternion for no rotation.
var Identity = Quaternion{0, 0, 0, 1}

// AxisAngle returns the rotation as an axis and an angle in degrees.
// See [QuaternionToAxisAngle].
func (q Quaternion) AxisAngle() (Vec3, float64) {
	return QuaternionToAxisAngle(q[0], q[1], q[2], q[3])
}

// QuaternionToAxisAngle converts the quaternion (x, y, z, w) into a
// rotation axis and an angle in degrees.
//
// The angle is 2*acos(w), with w clamped to [-1, 1] so that slightly
// non-unit input never produces NaN. The axis is the vector part
// divided by sin(angle/2) when that value exceeds 1e-5; otherwise the
// vector part is returned unnormalized. In that case the angle is
// effectively zero and the axis direction does not affect the result.
//
// The function is total: non-unit input is accepted without error.
func QuaternionToAxisAngle(x, y, z, w float64) (Vec3, float64) {
	s := math.Sqrt(math.Max(0, 1-w*w))
	angle := 2 * math.Acos(clamp(w, -1, 1)) * 180 / math.Pi

	if s > axisEpsilon {
		return Vec3{x / s, y / s, z / s}, angle
	}
	return Vec3{x, y, z}, angle
}

func clamp(value, low, high float64) float64 {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}
