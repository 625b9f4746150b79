// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"fmt"

	"github.com/bureau-foundation/svsviewer/lib/pose"
	"github.com/bureau-foundation/svsviewer/lib/sgel"
)

// Snapshot is a self-contained copy of the registry's state, suitable
// for encoding. Scenes and geometries are sorted by name; layers by
// number.
type Snapshot struct {
	Scenes []SceneSnapshot `cbor:"scenes"`
	Layers []LayerSnapshot `cbor:"layers,omitempty"`
}

// SceneSnapshot is one scene within a [Snapshot].
type SceneSnapshot struct {
	Name       string             `cbor:"name"`
	Geometries []GeometrySnapshot `cbor:"geometries,omitempty"`
}

// GeometrySnapshot is one geometry within a [SceneSnapshot]. Meshes
// are not stored; [Registry.Restore] rebuilds them from Vertices.
type GeometrySnapshot struct {
	Name      string          `cbor:"name"`
	Position  pose.Vec3       `cbor:"position"`
	Rotation  pose.Quaternion `cbor:"rotation"`
	Scale     pose.Vec3       `cbor:"scale"`
	Color     *pose.Vec3      `cbor:"color,omitempty"`
	Shape     ShapeKind       `cbor:"shape"`
	Vertices  []pose.Vec3     `cbor:"vertices,omitempty"`
	Radius    float64         `cbor:"radius,omitempty"`
	Text      string          `cbor:"text,omitempty"`
	Layer     uint32          `cbor:"layer,omitempty"`
	LineWidth float64         `cbor:"line_width"`
}

// LayerSnapshot is the settings of one layer, keyed by option name.
type LayerSnapshot struct {
	Number  int            `cbor:"number"`
	Options map[string]int `cbor:"options"`
}

// GeometryCount returns the number of geometries across all scenes.
func (snapshot *Snapshot) GeometryCount() int {
	count := 0
	for _, scene := range snapshot.Scenes {
		count += len(scene.Geometries)
	}
	return count
}

// Snapshot captures the registry's current state.
func (registry *Registry) Snapshot() *Snapshot {
	snapshot := &Snapshot{Scenes: make([]SceneSnapshot, 0, registry.scenes.Len())}
	for name, scene := range registry.scenes.All() {
		sceneSnapshot := SceneSnapshot{Name: name}
		for _, geometry := range scene.geometries.All() {
			sceneSnapshot.Geometries = append(sceneSnapshot.Geometries, snapshotGeometry(geometry))
		}
		snapshot.Scenes = append(snapshot.Scenes, sceneSnapshot)
	}
	for _, layer := range registry.Layers() {
		options := make(map[string]int, len(layer.Options))
		for option, value := range layer.Options {
			options[option.String()] = value
		}
		snapshot.Layers = append(snapshot.Layers, LayerSnapshot{Number: layer.Number, Options: options})
	}
	return snapshot
}

func snapshotGeometry(geometry *Geometry) GeometrySnapshot {
	result := GeometrySnapshot{
		Name:      geometry.Name,
		Position:  geometry.Position,
		Rotation:  geometry.Rotation,
		Scale:     geometry.Scale,
		Shape:     geometry.Shape.Kind,
		Radius:    geometry.Shape.Radius,
		Text:      geometry.Shape.Text,
		Layer:     geometry.Layer,
		LineWidth: geometry.LineWidth,
	}
	if geometry.Color != nil {
		color := *geometry.Color
		result.Color = &color
	}
	for _, vertex := range geometry.Shape.Vertices {
		result.Vertices = append(result.Vertices, pose.Vec3{vertex.X, vertex.Y, vertex.Z})
	}
	return result
}

// Restore replaces the registry's scenes and layers with snapshot.
// Meshes are rebuilt with the registry's [MeshBuilder]. On error the
// registry is left unchanged.
func (registry *Registry) Restore(snapshot *Snapshot) error {
	restored := New(Options{Logger: registry.logger, MeshBuilder: registry.meshBuilder, Saver: registry.saver})

	for _, sceneSnapshot := range snapshot.Scenes {
		created, err := restored.CreateScene(sceneSnapshot.Name)
		if err != nil {
			return fmt.Errorf("restoring snapshot: %w", err)
		}
		if !created {
			return fmt.Errorf("restoring snapshot: duplicate scene %q", sceneSnapshot.Name)
		}
		scene, _ := restored.Scene(sceneSnapshot.Name)
		for _, geometrySnapshot := range sceneSnapshot.Geometries {
			geometry, err := restored.restoreGeometry(sceneSnapshot.Name, geometrySnapshot)
			if err != nil {
				return fmt.Errorf("restoring snapshot: scene %q: %w", sceneSnapshot.Name, err)
			}
			if _, replaced := scene.geometries.Put(geometry.Name, geometry); replaced {
				return fmt.Errorf("restoring snapshot: scene %q: duplicate geometry %q", sceneSnapshot.Name, geometry.Name)
			}
		}
	}

	for _, layer := range snapshot.Layers {
		options := make(map[sgel.LayerOption]int, len(layer.Options))
		for name, value := range layer.Options {
			option, known := sgel.LayerOptionByName(name)
			if !known {
				return fmt.Errorf("restoring snapshot: layer %d: unknown option %q", layer.Number, name)
			}
			options[option] = value
		}
		restored.SetLayer(layer.Number, options)
	}

	registry.scenes = restored.scenes
	registry.layers = restored.layers
	return nil
}

func (registry *Registry) restoreGeometry(sceneName string, snapshot GeometrySnapshot) (*Geometry, error) {
	if err := ValidateName(snapshot.Name); err != nil {
		return nil, err
	}
	geometry := newGeometry(sceneName, snapshot.Name)
	geometry.Position = snapshot.Position
	geometry.Rotation = snapshot.Rotation
	geometry.Axis, geometry.AngleDegrees = geometry.Rotation.AxisAngle()
	geometry.Scale = snapshot.Scale
	geometry.Layer = snapshot.Layer
	geometry.LineWidth = snapshot.LineWidth
	if snapshot.Color != nil {
		color := *snapshot.Color
		geometry.Color = &color
	}

	switch snapshot.Shape {
	case ShapeNone:
	case ShapeMesh:
		vertices := make([]sgel.Vertex, len(snapshot.Vertices))
		for index, point := range snapshot.Vertices {
			vertices[index] = sgel.Vertex{X: point[0], Y: point[1], Z: point[2]}
		}
		mesh, err := registry.meshBuilder.Build(vertices)
		if err != nil {
			return nil, fmt.Errorf("geometry %q: building mesh: %w", snapshot.Name, err)
		}
		geometry.Shape = Shape{Kind: ShapeMesh, Vertices: vertices, Mesh: mesh}
	case ShapeSphere:
		geometry.Shape = Shape{Kind: ShapeSphere, Radius: snapshot.Radius}
	case ShapeText:
		geometry.Shape = Shape{Kind: ShapeText, Text: snapshot.Text}
	default:
		return nil, fmt.Errorf("geometry %q: unknown shape kind %d", snapshot.Name, int(snapshot.Shape))
	}
	return geometry, nil
}
