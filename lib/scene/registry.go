// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/bureau-foundation/svsviewer/lib/sgel"
	"github.com/bureau-foundation/svsviewer/lib/wildcard"
)

// ErrInvalidName is returned when a scene or geometry name is empty or
// contains the wildcard character.
var ErrInvalidName = errors.New("invalid name")

// Scene is a named namespace of geometries.
type Scene struct {
	name       string
	geometries *wildcard.Map[*Geometry]
}

func newScene(name string) *Scene {
	return &Scene{name: name, geometries: wildcard.New[*Geometry]()}
}

// Name returns the scene's name.
func (scene *Scene) Name() string { return scene.name }

// Len returns the number of geometries in the scene.
func (scene *Scene) Len() int { return scene.geometries.Len() }

// Geometry returns the geometry called name.
func (scene *Scene) Geometry(name string) (*Geometry, bool) {
	return scene.geometries.Get(name)
}

// Geometries returns the scene's geometries sorted by name.
func (scene *Scene) Geometries() []*Geometry {
	return scene.geometries.Values()
}

// Find returns the geometries matched by matcher, sorted by name.
func (scene *Scene) Find(matcher sgel.NameMatcher) []*Geometry {
	return lookup(scene.geometries, matcher)
}

// LayerSettings holds the render options set for one layer.
type LayerSettings struct {
	Number  int
	Options map[sgel.LayerOption]int
}

// Options configures a [Registry].
type Options struct {
	// Logger receives a debug record per applied command.
	Logger *slog.Logger

	// MeshBuilder converts vertex lists. Nil selects [BoundsBuilder].
	MeshBuilder MeshBuilder

	// Saver handles save commands. Nil makes save commands fail with
	// [ErrNoSaver].
	Saver Saver
}

// Registry owns every scene. See the package documentation for the
// concurrency contract.
type Registry struct {
	logger      *slog.Logger
	meshBuilder MeshBuilder
	saver       Saver

	scenes *wildcard.Map[*Scene]
	layers map[int]*LayerSettings
}

// New returns an empty registry.
func New(options Options) *Registry {
	if options.MeshBuilder == nil {
		options.MeshBuilder = BoundsBuilder{}
	}
	if options.Logger == nil {
		options.Logger = slog.New(slog.DiscardHandler)
	}
	return &Registry{
		logger:      options.Logger,
		meshBuilder: options.MeshBuilder,
		saver:       options.Saver,
		scenes:      wildcard.New[*Scene](),
		layers:      make(map[int]*LayerSettings),
	}
}

// ValidateName reports whether name can be stored as a scene or
// geometry key.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty", ErrInvalidName)
	}
	if strings.ContainsRune(name, wildcard.Wildcard) {
		return fmt.Errorf("%w: %q contains %q", ErrInvalidName, name, wildcard.Wildcard)
	}
	return nil
}

// CreateScene creates a scene called name. It reports false, without
// error, when the scene already exists.
func (registry *Registry) CreateScene(name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, fmt.Errorf("creating scene: %w", err)
	}
	if registry.scenes.Contains(name) {
		return false, nil
	}
	registry.scenes.Put(name, newScene(name))
	return true, nil
}

// DeleteScenes deletes every scene matched by matcher and returns
// their names.
func (registry *Registry) DeleteScenes(matcher sgel.NameMatcher) []string {
	var removed []string
	for _, scene := range registry.FindScenes(matcher) {
		registry.scenes.Remove(scene.name)
		removed = append(removed, scene.name)
	}
	return removed
}

// CreateGeometry creates a geometry called name in every scene matched
// by sceneMatcher that does not already hold one by that name. It
// returns the keys of the geometries it created.
func (registry *Registry) CreateGeometry(sceneMatcher sgel.NameMatcher, name string) ([]GeometryKey, error) {
	if err := ValidateName(name); err != nil {
		return nil, fmt.Errorf("creating geometry: %w", err)
	}
	var created []GeometryKey
	for _, scene := range registry.FindScenes(sceneMatcher) {
		if scene.geometries.Contains(name) {
			continue
		}
		geometry := newGeometry(scene.name, name)
		scene.geometries.Put(name, geometry)
		created = append(created, geometry.Key())
	}
	return created, nil
}

// DeleteGeometries deletes every geometry matched by geometryMatcher
// in every scene matched by sceneMatcher.
func (registry *Registry) DeleteGeometries(sceneMatcher, geometryMatcher sgel.NameMatcher) []GeometryKey {
	var removed []GeometryKey
	for _, scene := range registry.FindScenes(sceneMatcher) {
		for _, geometry := range scene.Find(geometryMatcher) {
			scene.geometries.Remove(geometry.Name)
			removed = append(removed, geometry.Key())
		}
	}
	return removed
}

// FindScenes returns the scenes matched by matcher, sorted by name.
func (registry *Registry) FindScenes(matcher sgel.NameMatcher) []*Scene {
	return lookup(registry.scenes, matcher)
}

// FindGeometries returns the geometries matched by geometryMatcher in
// every scene matched by sceneMatcher, ordered by scene then name.
func (registry *Registry) FindGeometries(sceneMatcher, geometryMatcher sgel.NameMatcher) []*Geometry {
	var found []*Geometry
	for _, scene := range registry.FindScenes(sceneMatcher) {
		found = append(found, scene.Find(geometryMatcher)...)
	}
	return found
}

// Scene returns the scene called name.
func (registry *Registry) Scene(name string) (*Scene, bool) {
	return registry.scenes.Get(name)
}

// Scenes returns every scene sorted by name.
func (registry *Registry) Scenes() []*Scene {
	return registry.scenes.Values()
}

// Len returns the number of scenes.
func (registry *Registry) Len() int {
	return registry.scenes.Len()
}

// GeometryCount returns the number of geometries across all scenes.
func (registry *Registry) GeometryCount() int {
	count := 0
	for _, scene := range registry.scenes.All() {
		count += scene.Len()
	}
	return count
}

// Layer returns the options set for layer number.
func (registry *Registry) Layer(number int) (LayerSettings, bool) {
	settings, ok := registry.layers[number]
	if !ok {
		return LayerSettings{}, false
	}
	return LayerSettings{Number: number, Options: maps.Clone(settings.Options)}, true
}

// Layers returns every configured layer sorted by number.
func (registry *Registry) Layers() []LayerSettings {
	numbers := slices.Sorted(maps.Keys(registry.layers))
	layers := make([]LayerSettings, 0, len(numbers))
	for _, number := range numbers {
		settings, _ := registry.Layer(number)
		layers = append(layers, settings)
	}
	return layers
}

// SetLayer merges options into layer number; options already set and
// not named keep their values.
func (registry *Registry) SetLayer(number int, options map[sgel.LayerOption]int) {
	settings, ok := registry.layers[number]
	if !ok {
		settings = &LayerSettings{Number: number, Options: make(map[sgel.LayerOption]int)}
		registry.layers[number] = settings
	}
	maps.Copy(settings.Options, options)
}

func lookup[V any](names *wildcard.Map[V], matcher sgel.NameMatcher) []V {
	switch matcher.Mode {
	case sgel.MatchExact:
		value, ok := names.Get(matcher.Pattern)
		if !ok {
			return nil
		}
		return []V{value}
	case sgel.MatchWildcard:
		entries := names.GetWithWildcards(matcher.Pattern)
		values := make([]V, len(entries))
		for index, entry := range entries {
			values[index] = entry.Value
		}
		return values
	default:
		panic(fmt.Sprintf("scene: unknown match mode %d", int(matcher.Mode)))
	}
}
