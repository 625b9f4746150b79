// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sgel

import (
	"fmt"
	"strings"

	"github.com/bureau-foundation/svsviewer/lib/pose"
)

// MatchMode selects how a [NameMatcher] pattern is compared against
// scene and geometry names.
type MatchMode int

const (
	// MatchExact compares the pattern byte for byte; '*' is literal.
	MatchExact MatchMode = iota
	// MatchWildcard treats '*' as "zero or more characters".
	MatchWildcard
)

// String returns "exact" or "wildcard".
func (mode MatchMode) String() string {
	switch mode {
	case MatchExact:
		return "exact"
	case MatchWildcard:
		return "wildcard"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(mode))
	}
}

// NameMatcher addresses scenes or geometries by name.
type NameMatcher struct {
	Pattern string
	Mode    MatchMode
}

// Exact returns a matcher for exactly name.
func Exact(name string) NameMatcher {
	return NameMatcher{Pattern: name, Mode: MatchExact}
}

// Wildcard returns a matcher for the glob pattern.
func Wildcard(pattern string) NameMatcher {
	return NameMatcher{Pattern: pattern, Mode: MatchWildcard}
}

func (matcher NameMatcher) String() string {
	return fmt.Sprintf("%s(%q)", matcher.Mode, matcher.Pattern)
}

// LayerOption is one of the per-layer render settings carried by a
// [Layer] command.
type LayerOption int

// Layer options, selected on the wire by the first character of the
// option token.
const (
	LayerLighting LayerOption = iota
	LayerFlat
	LayerClearDepth
	LayerDrawNames
	LayerWireframe
)

// LayerOptions lists every option in wire order.
var LayerOptions = []LayerOption{LayerLighting, LayerFlat, LayerClearDepth, LayerDrawNames, LayerWireframe}

// String returns the option's lower-case name.
func (option LayerOption) String() string {
	switch option {
	case LayerLighting:
		return "lighting"
	case LayerFlat:
		return "flat"
	case LayerClearDepth:
		return "clear_depth"
	case LayerDrawNames:
		return "draw_names"
	case LayerWireframe:
		return "wireframe"
	default:
		return fmt.Sprintf("LayerOption(%d)", int(option))
	}
}

// LayerOptionByName returns the option whose [LayerOption.String] is
// name.
func LayerOptionByName(name string) (LayerOption, bool) {
	for _, option := range LayerOptions {
		if option.String() == name {
			return option, true
		}
	}
	return 0, false
}

// Tag returns the single character that selects this option on the wire.
func (option LayerOption) Tag() byte {
	switch option {
	case LayerLighting:
		return 'l'
	case LayerFlat:
		return 'f'
	case LayerClearDepth:
		return 'd'
	case LayerDrawNames:
		return 'n'
	case LayerWireframe:
		return 'w'
	default:
		panic(fmt.Sprintf("sgel: unknown layer option %d", int(option)))
	}
}

// layerOptionForTag maps the first character of an option token to
// its option.
func layerOptionForTag(tag byte) (LayerOption, bool) {
	switch tag {
	case 'l':
		return LayerLighting, true
	case 'f':
		return LayerFlat, true
	case 'd':
		return LayerClearDepth, true
	case 'n':
		return LayerDrawNames, true
	case 'w':
		return LayerWireframe, true
	default:
		return 0, false
	}
}

// Vertex is one point of a geometry's vertex list.
type Vertex struct {
	X, Y, Z float64
}

// Command is a parsed protocol command. The set of implementations is
// closed: [Save], [Layer], [CreateScene], [DeleteScene],
// [CreateGeometry], [DeleteGeometry] and [UpdateGeometry]. Consumers
// switch on the concrete type.
type Command interface {
	// Verb returns the command's kind as a short lower-case word,
	// used in logs.
	Verb() string

	sealed()
}

// Save asks the viewer to write its current state to Path.
type Save struct {
	Path string
}

// Layer sets render options for a layer. Options holds the value for
// each option named on the line; options not named are absent.
type Layer struct {
	Number  int
	Options map[LayerOption]int
}

// CreateScene creates a scene if no scene with Name exists.
type CreateScene struct {
	Name string
}

// DeleteScene deletes every scene matched by Scene.
type DeleteScene struct {
	Scene NameMatcher
}

// CreateGeometry creates a geometry called Name in every scene matched
// by Scene, skipping scenes that already hold a geometry by that name.
type CreateGeometry struct {
	Scene NameMatcher
	Name  string
}

// DeleteGeometry deletes every geometry matched by Geometry inside
// every scene matched by Scene.
type DeleteGeometry struct {
	Scene    NameMatcher
	Geometry NameMatcher
}

// UpdateGeometry modifies every geometry matched by Geometry inside
// every scene matched by Scene. Nil fields are left unchanged.
//
// Vertices, Radius and Text are alternative shapes; a parsed command
// sets at most one of them.
type UpdateGeometry struct {
	Scene    NameMatcher
	Geometry NameMatcher

	Position  *pose.Vec3
	Rotation  *pose.Quaternion
	Scale     *pose.Vec3
	Color     *pose.Vec3
	Vertices  []Vertex
	Radius    *float64
	Text      *string
	Layer     *uint32
	LineWidth *float64
}

// Shape field names reported by [UpdateGeometry.ShapeFields] and in
// [ErrConflictingShapeFields] errors.
const (
	FieldVertices = "vertices"
	FieldRadius   = "radius"
	FieldText     = "text"
)

// ShapeFields returns the names of the shape payloads that are set, in
// the order vertices, radius, text.
func (update UpdateGeometry) ShapeFields() []string {
	var fields []string
	if update.Vertices != nil {
		fields = append(fields, FieldVertices)
	}
	if update.Radius != nil {
		fields = append(fields, FieldRadius)
	}
	if update.Text != nil {
		fields = append(fields, FieldText)
	}
	return fields
}

func (Save) Verb() string           { return "save" }
func (Layer) Verb() string          { return "layer" }
func (CreateScene) Verb() string    { return "create-scene" }
func (DeleteScene) Verb() string    { return "delete-scene" }
func (CreateGeometry) Verb() string { return "create-geometry" }
func (DeleteGeometry) Verb() string { return "delete-geometry" }
func (UpdateGeometry) Verb() string { return "update-geometry" }

func (Save) sealed()           {}
func (Layer) sealed()          {}
func (CreateScene) sealed()    {}
func (DeleteScene) sealed()    {}
func (CreateGeometry) sealed() {}
func (DeleteGeometry) sealed() {}
func (UpdateGeometry) sealed() {}

// Describe returns a one-line human-readable rendering of command for
// logs and the parse subcommand. Unlike [Format] it never fails and is
// not meant to be parsed back.
func Describe(command Command) string {
	switch command := command.(type) {
	case Save:
		return fmt.Sprintf("save path=%q", command.Path)
	case Layer:
		var builder strings.Builder
		fmt.Fprintf(&builder, "layer %d", command.Number)
		for _, option := range LayerOptions {
			if value, set := command.Options[option]; set {
				fmt.Fprintf(&builder, " %s=%d", option, value)
			}
		}
		return builder.String()
	case CreateScene:
		return fmt.Sprintf("create-scene name=%q", command.Name)
	case DeleteScene:
		return fmt.Sprintf("delete-scene scene=%s", command.Scene)
	case CreateGeometry:
		return fmt.Sprintf("create-geometry scene=%s name=%q", command.Scene, command.Name)
	case DeleteGeometry:
		return fmt.Sprintf("delete-geometry scene=%s geometry=%s", command.Scene, command.Geometry)
	case UpdateGeometry:
		return describeUpdate(command)
	default:
		panic(fmt.Sprintf("sgel: unknown command type %T", command))
	}
}

func describeUpdate(update UpdateGeometry) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "update-geometry scene=%s geometry=%s", update.Scene, update.Geometry)
	if update.Position != nil {
		fmt.Fprintf(&builder, " position=%v", *update.Position)
	}
	if update.Rotation != nil {
		fmt.Fprintf(&builder, " rotation=%v", *update.Rotation)
	}
	if update.Scale != nil {
		fmt.Fprintf(&builder, " scale=%v", *update.Scale)
	}
	if update.Color != nil {
		fmt.Fprintf(&builder, " color=%v", *update.Color)
	}
	if update.Vertices != nil {
		fmt.Fprintf(&builder, " vertices=%d", len(update.Vertices))
	}
	if update.Radius != nil {
		fmt.Fprintf(&builder, " radius=%v", *update.Radius)
	}
	if update.Text != nil {
		fmt.Fprintf(&builder, " text=%q", *update.Text)
	}
	if update.Layer != nil {
		fmt.Fprintf(&builder, " layer=%d", *update.Layer)
	}
	if update.LineWidth != nil {
		fmt.Fprintf(&builder, " line_width=%v", *update.LineWidth)
	}
	return builder.String()
}
