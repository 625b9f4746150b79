// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bureau-foundation/svsviewer/lib/sgel"
)

// ErrNoSaver is returned for a save command when the registry has no
// [Saver].
var ErrNoSaver = errors.New("no snapshot saver configured")

// Saver writes a snapshot for a save command. path is the argument of
// the command, unresolved.
type Saver interface {
	SaveSnapshot(path string, snapshot *Snapshot) error
}

// ChangeKind identifies what a command did.
type ChangeKind int

// Change kinds, one per command type.
const (
	ChangeSaved ChangeKind = iota + 1
	ChangeLayer
	ChangeSceneCreated
	ChangeScenesDeleted
	ChangeGeometriesCreated
	ChangeGeometriesDeleted
	ChangeGeometriesUpdated
)

func (kind ChangeKind) String() string {
	switch kind {
	case ChangeSaved:
		return "saved"
	case ChangeLayer:
		return "layer"
	case ChangeSceneCreated:
		return "scene-created"
	case ChangeScenesDeleted:
		return "scenes-deleted"
	case ChangeGeometriesCreated:
		return "geometries-created"
	case ChangeGeometriesDeleted:
		return "geometries-deleted"
	case ChangeGeometriesUpdated:
		return "geometries-updated"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(kind))
	}
}

// Change reports the effect of one applied command. Scenes and
// Geometries list the affected keys and are empty when the command
// matched nothing or only named things that already existed.
type Change struct {
	Kind ChangeKind

	Scenes     []string
	Geometries []GeometryKey

	// Layer is the layer number for ChangeLayer.
	Layer int
	// Path is the save path for ChangeSaved.
	Path string
}

// Empty reports whether the change touched nothing in the namespace.
// Save and layer changes are never empty.
func (change Change) Empty() bool {
	switch change.Kind {
	case ChangeSaved, ChangeLayer:
		return false
	default:
		return len(change.Scenes) == 0 && len(change.Geometries) == 0
	}
}

// Apply interprets command against the registry.
//
// An UpdateGeometry carrying vertices has them built into a [Mesh]
// once, before any geometry is touched. If the build fails, the
// command has no effect.
func (registry *Registry) Apply(command sgel.Command) (Change, error) {
	change, err := registry.apply(command)
	if err != nil {
		return Change{}, fmt.Errorf("applying %s: %w", command.Verb(), err)
	}
	registry.logger.Debug("command applied",
		"command", command.Verb(),
		"change", change.Kind.String(),
		"scenes", len(change.Scenes),
		"geometries", len(change.Geometries),
	)
	return change, nil
}

// ApplyAll applies commands in order and stops at the first error.
// Changes from commands applied before the error are returned with it.
func (registry *Registry) ApplyAll(commands []sgel.Command) ([]Change, error) {
	changes := make([]Change, 0, len(commands))
	for _, command := range commands {
		change, err := registry.Apply(command)
		if err != nil {
			return changes, err
		}
		changes = append(changes, change)
	}
	return changes, nil
}

func (registry *Registry) apply(command sgel.Command) (Change, error) {
	switch command := command.(type) {
	case sgel.Save:
		if registry.saver == nil {
			return Change{}, ErrNoSaver
		}
		if err := registry.saver.SaveSnapshot(command.Path, registry.Snapshot()); err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeSaved, Path: command.Path}, nil

	case sgel.Layer:
		registry.SetLayer(command.Number, command.Options)
		return Change{Kind: ChangeLayer, Layer: command.Number}, nil

	case sgel.CreateScene:
		created, err := registry.CreateScene(command.Name)
		if err != nil {
			return Change{}, err
		}
		change := Change{Kind: ChangeSceneCreated}
		if created {
			change.Scenes = []string{command.Name}
		}
		return change, nil

	case sgel.DeleteScene:
		return Change{Kind: ChangeScenesDeleted, Scenes: registry.DeleteScenes(command.Scene)}, nil

	case sgel.CreateGeometry:
		created, err := registry.CreateGeometry(command.Scene, command.Name)
		if err != nil {
			return Change{}, err
		}
		return Change{Kind: ChangeGeometriesCreated, Geometries: created}, nil

	case sgel.DeleteGeometry:
		return Change{Kind: ChangeGeometriesDeleted, Geometries: registry.DeleteGeometries(command.Scene, command.Geometry)}, nil

	case sgel.UpdateGeometry:
		return registry.update(command)

	default:
		panic(fmt.Sprintf("scene: unknown command type %T", command))
	}
}

func (registry *Registry) update(update sgel.UpdateGeometry) (Change, error) {
	if fields := update.ShapeFields(); len(fields) > 1 {
		return Change{}, fmt.Errorf("conflicting shape fields %v", fields)
	}

	var mesh Mesh
	if update.Vertices != nil {
		update.Vertices = slices.Clone(update.Vertices)
		built, err := registry.meshBuilder.Build(update.Vertices)
		if err != nil {
			return Change{}, fmt.Errorf("building mesh from %d vertices: %w", len(update.Vertices), err)
		}
		mesh = built
	}

	change := Change{Kind: ChangeGeometriesUpdated}
	for _, geometry := range registry.FindGeometries(update.Scene, update.Geometry) {
		geometry.applyUpdate(update, mesh)
		change.Geometries = append(change.Geometries, geometry.Key())
	}
	return change, nil
}
