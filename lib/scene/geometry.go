// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"fmt"

	"github.com/bureau-foundation/svsviewer/lib/pose"
	"github.com/bureau-foundation/svsviewer/lib/sgel"
)

// ShapeKind identifies which shape payload a geometry carries.
type ShapeKind int

const (
	// ShapeNone: the geometry has only a pose.
	ShapeNone ShapeKind = iota
	// ShapeMesh: built from a vertex list.
	ShapeMesh
	// ShapeSphere: a ball of a given radius.
	ShapeSphere
	// ShapeText: a text label.
	ShapeText
)

func (kind ShapeKind) String() string {
	switch kind {
	case ShapeNone:
		return "none"
	case ShapeMesh:
		return "mesh"
	case ShapeSphere:
		return "sphere"
	case ShapeText:
		return "text"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(kind))
	}
}

// Shape is a geometry's shape payload. Only the fields for Kind are
// meaningful.
type Shape struct {
	Kind ShapeKind

	// Vertices and Mesh are set for ShapeMesh. Mesh is what the
	// registry's [MeshBuilder] produced from Vertices.
	Vertices []sgel.Vertex
	Mesh     Mesh

	// Radius is set for ShapeSphere.
	Radius float64

	// Text is set for ShapeText.
	Text string
}

// String summarizes the shape for display.
func (shape Shape) String() string {
	switch shape.Kind {
	case ShapeNone:
		return "none"
	case ShapeMesh:
		return fmt.Sprintf("mesh (%d vertices)", len(shape.Vertices))
	case ShapeSphere:
		return fmt.Sprintf("sphere (radius %g)", shape.Radius)
	case ShapeText:
		return fmt.Sprintf("text %q", shape.Text)
	default:
		return shape.Kind.String()
	}
}

// Geometry is one named primitive inside a scene.
type Geometry struct {
	Scene string
	Name  string

	Position pose.Vec3
	Rotation pose.Quaternion
	Scale    pose.Vec3

	// Axis and AngleDegrees cache Rotation in axis-angle form, as
	// computed by [pose.QuaternionToAxisAngle].
	Axis         pose.Vec3
	AngleDegrees float64

	// Color is nil until the protocol sets one.
	Color *pose.Vec3

	Shape     Shape
	Layer     uint32
	LineWidth float64
}

func newGeometry(scene, name string) *Geometry {
	geometry := &Geometry{
		Scene:     scene,
		Name:      name,
		Rotation:  pose.Identity,
		Scale:     pose.Vec3{1, 1, 1},
		LineWidth: 1,
	}
	geometry.Axis, geometry.AngleDegrees = geometry.Rotation.AxisAngle()
	return geometry
}

// Key returns the geometry's address.
func (geometry *Geometry) Key() GeometryKey {
	return GeometryKey{Scene: geometry.Scene, Geometry: geometry.Name}
}

// applyUpdate copies the set fields of update onto geometry. mesh is
// the prebuilt mesh for update.Vertices.
func (geometry *Geometry) applyUpdate(update sgel.UpdateGeometry, mesh Mesh) {
	if update.Position != nil {
		geometry.Position = *update.Position
	}
	if update.Rotation != nil {
		geometry.Rotation = *update.Rotation
		geometry.Axis, geometry.AngleDegrees = geometry.Rotation.AxisAngle()
	}
	if update.Scale != nil {
		geometry.Scale = *update.Scale
	}
	if update.Color != nil {
		color := *update.Color
		geometry.Color = &color
	}
	if update.Layer != nil {
		geometry.Layer = *update.Layer
	}
	if update.LineWidth != nil {
		geometry.LineWidth = *update.LineWidth
	}

	switch {
	case update.Vertices != nil:
		geometry.Shape = Shape{Kind: ShapeMesh, Vertices: update.Vertices, Mesh: mesh}
	case update.Radius != nil:
		geometry.Shape = Shape{Kind: ShapeSphere, Radius: *update.Radius}
	case update.Text != nil:
		geometry.Shape = Shape{Kind: ShapeText, Text: *update.Text}
	}
}

// GeometryKey addresses one geometry.
type GeometryKey struct {
	Scene    string
	Geometry string
}

func (key GeometryKey) String() string {
	return key.Scene + "/" + key.Geometry
}
