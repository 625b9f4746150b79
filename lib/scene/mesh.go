// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"errors"
	"math"

	"github.com/bureau-foundation/svsviewer/lib/pose"
	"github.com/bureau-foundation/svsviewer/lib/sgel"
)

// Mesh is a renderable form of a vertex list, produced by a
// [MeshBuilder]. The registry treats it as opaque apart from the
// vertex count.
type Mesh interface {
	VertexCount() int
}

// MeshBuilder turns the vertex list of an update into a [Mesh]. A
// renderer would reconstruct a convex hull here. Build is called once
// per update command, before any geometry is modified; an error
// aborts the command.
type MeshBuilder interface {
	Build(vertices []sgel.Vertex) (Mesh, error)
}

// MeshBuilderFunc adapts a function to [MeshBuilder].
type MeshBuilderFunc func(vertices []sgel.Vertex) (Mesh, error)

// Build calls f.
func (f MeshBuilderFunc) Build(vertices []sgel.Vertex) (Mesh, error) {
	return f(vertices)
}

// BoundsMesh is the [Mesh] produced by [BoundsBuilder]: the vertex
// count and axis-aligned bounding box of the input.
type BoundsMesh struct {
	Count int
	Min   pose.Vec3
	Max   pose.Vec3
}

// VertexCount returns Count.
func (mesh *BoundsMesh) VertexCount() int { return mesh.Count }

// Size returns the extent of the bounding box on each axis.
func (mesh *BoundsMesh) Size() pose.Vec3 {
	return pose.Vec3{mesh.Max[0] - mesh.Min[0], mesh.Max[1] - mesh.Min[1], mesh.Max[2] - mesh.Min[2]}
}

// ErrNoVertices is returned by [BoundsBuilder] for an empty list.
var ErrNoVertices = errors.New("mesh requires at least one vertex")

// BoundsBuilder is the registry's default [MeshBuilder]. It does not
// triangulate; it records bounds so the inspector can describe the
// shape.
type BoundsBuilder struct{}

// Build returns a *BoundsMesh for vertices.
func (BoundsBuilder) Build(vertices []sgel.Vertex) (Mesh, error) {
	if len(vertices) == 0 {
		return nil, ErrNoVertices
	}
	mesh := &BoundsMesh{
		Count: len(vertices),
		Min:   pose.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)},
		Max:   pose.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)},
	}
	for _, vertex := range vertices {
		point := pose.Vec3{vertex.X, vertex.Y, vertex.Z}
		for axis := range point {
			mesh.Min[axis] = math.Min(mesh.Min[axis], point[axis])
			mesh.Max[axis] = math.Max(mesh.Max[axis], point[axis])
		}
	}
	return mesh, nil
}
