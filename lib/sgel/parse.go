// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sgel

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/bureau-foundation/svsviewer/lib/pose"
)

// ParseLine tokenizes and parses one protocol line.
func ParseLine(line string) ([]Command, error) {
	return Parse(Tokenize(line))
}

// Parse turns the fields of one line into commands. The first field
// selects the command: "save", "layer", or otherwise a draw command
// (optionally introduced by "draw").
//
// A draw command yields up to three commands, in order: the scene step
// (CreateScene or DeleteScene), the geometry step (CreateGeometry or
// DeleteGeometry), and an UpdateGeometry when payload tags follow the
// geometry. A draw command naming only an existing scene or geometry,
// without payload, yields an empty list.
//
// On failure the returned error is a [*ParseError] and no commands are
// returned.
func Parse(tokens []string) ([]Command, error) {
	if len(tokens) == 0 {
		return nil, newParseError(ErrEmptyInput, tokens, "cannot parse a command from an empty line")
	}

	switch tokens[0] {
	case "save":
		if len(tokens) != 2 {
			return nil, newParseError(ErrArityMismatch, tokens, "save: expected 1 argument, got %d", len(tokens)-1)
		}
		return []Command{Save{Path: tokens[1]}}, nil
	case "layer":
		layer, err := parseLayer(tokens)
		if err != nil {
			return nil, err
		}
		return []Command{layer}, nil
	default:
		return parseDraw(tokens)
	}
}

func parseLayer(tokens []string) (Command, error) {
	if len(tokens) < 4 {
		return nil, newParseError(ErrArityMismatch, tokens, "layer: requires a layer number and at least one option/value pair")
	}
	if len(tokens)%2 != 0 {
		return nil, newParseError(ErrArityMismatch, tokens, "layer: unmatched option/value arguments")
	}

	number, err := strconv.ParseInt(tokens[1], 10, 32)
	if err != nil {
		return nil, newParseError(ErrMalformedNumber, tokens, "layer: could not parse layer number %q", tokens[1])
	}

	options := make(map[LayerOption]int)
	for index := 2; index+1 < len(tokens); index += 2 {
		name, valueToken := tokens[index], tokens[index+1]

		value, err := strconv.ParseInt(valueToken, 10, 32)
		if err != nil {
			return nil, newParseError(ErrMalformedNumber, tokens, "layer: could not parse integer from option value %q", valueToken)
		}

		if name == "" {
			return nil, newParseError(ErrUnknownOption, tokens, "layer: empty option name")
		}
		option, known := layerOptionForTag(name[0])
		if !known {
			return nil, newParseError(ErrUnknownOption, tokens, "layer: unknown option %q", name)
		}
		options[option] = int(value)
	}

	return Layer{Number: int(number), Options: options}, nil
}

func parseDraw(tokens []string) ([]Command, error) {
	cursor := &cursor{tokens: tokens}
	if token, _ := cursor.peek(); token == "draw" {
		cursor.next()
	}

	scenePattern, ok := cursor.next()
	if !ok {
		return nil, newParseError(ErrArityMismatch, tokens, "draw: scene pattern required")
	}
	if pattern, isDelete := strings.CutPrefix(scenePattern, "-"); isDelete {
		if !cursor.done() {
			return nil, newParseError(ErrArityMismatch, tokens, "draw: extra fields after scene removal")
		}
		return []Command{DeleteScene{Scene: Wildcard(pattern)}}, nil
	}

	var commands []Command
	sceneMatcher := Wildcard(scenePattern)
	if name, isCreate := strings.CutPrefix(scenePattern, "+"); isCreate {
		commands = append(commands, CreateScene{Name: name})
		sceneMatcher = Exact(name)
	}

	geometryPattern, ok := cursor.next()
	if !ok {
		return commands, nil
	}
	if pattern, isDelete := strings.CutPrefix(geometryPattern, "-"); isDelete {
		if !cursor.done() {
			return nil, newParseError(ErrArityMismatch, tokens, "draw: extra fields after geometry removal")
		}
		return append(commands, DeleteGeometry{Scene: sceneMatcher, Geometry: Wildcard(pattern)}), nil
	}

	geometryMatcher := Wildcard(geometryPattern)
	if name, isCreate := strings.CutPrefix(geometryPattern, "+"); isCreate {
		commands = append(commands, CreateGeometry{Scene: sceneMatcher, Name: name})
		geometryMatcher = Exact(name)
	}

	if cursor.done() {
		return commands, nil
	}

	update, err := parseUpdate(cursor, sceneMatcher, geometryMatcher)
	if err != nil {
		return nil, err
	}
	return append(commands, update), nil
}

// Section names used in payload error messages.
const (
	sectionPosition  = "position (p)"
	sectionRotation  = "rotation (r)"
	sectionScale     = "scale (s)"
	sectionColor     = "color (c)"
	sectionVertices  = "vertices (v)"
	sectionRadius    = "ball radius (b)"
	sectionText      = "text (t)"
	sectionLayer     = "layer (l)"
	sectionLineWidth = "line width (w)"
)

// parseUpdate consumes the payload tags remaining in cursor. Tags may
// repeat; later values replace earlier ones, except that a second
// vertex list is rejected.
func parseUpdate(cursor *cursor, sceneMatcher, geometryMatcher NameMatcher) (UpdateGeometry, error) {
	update := UpdateGeometry{Scene: sceneMatcher, Geometry: geometryMatcher}

	for !cursor.done() {
		tag, _ := cursor.next()
		switch tag {
		case "p":
			values, err := cursor.floats(3, sectionPosition)
			if err != nil {
				return UpdateGeometry{}, err
			}
			update.Position = &pose.Vec3{values[0], values[1], values[2]}
		case "r":
			values, err := cursor.floats(4, sectionRotation)
			if err != nil {
				return UpdateGeometry{}, err
			}
			update.Rotation = &pose.Quaternion{values[0], values[1], values[2], values[3]}
		case "s":
			values, err := cursor.floats(3, sectionScale)
			if err != nil {
				return UpdateGeometry{}, err
			}
			update.Scale = &pose.Vec3{values[0], values[1], values[2]}
		case "c":
			values, err := cursor.floats(3, sectionColor)
			if err != nil {
				return UpdateGeometry{}, err
			}
			update.Color = &pose.Vec3{values[0], values[1], values[2]}
		case "v":
			if update.Vertices != nil {
				parseErr := newParseError(ErrConflictingShapeFields, cursor.tokens, "%s: found more than one set of vertices", sectionVertices)
				parseErr.Fields = []string{FieldVertices}
				return UpdateGeometry{}, parseErr
			}
			vertices, err := cursor.vertices()
			if err != nil {
				return UpdateGeometry{}, err
			}
			update.Vertices = vertices
		case "b":
			radius, err := cursor.float(sectionRadius)
			if err != nil {
				return UpdateGeometry{}, err
			}
			update.Radius = &radius
		case "t":
			text, ok := cursor.next()
			if !ok {
				return UpdateGeometry{}, newParseError(ErrArityMismatch, cursor.tokens, "%s: argument missing", sectionText)
			}
			update.Text = &text
		case "l":
			layer, err := cursor.integer(sectionLayer)
			if err != nil {
				return UpdateGeometry{}, err
			}
			if layer < 0 {
				return UpdateGeometry{}, newParseError(ErrInvalidRange, cursor.tokens, "%s: argument must be non-negative, got %d", sectionLayer, layer)
			}
			layerIndex := uint32(layer)
			update.Layer = &layerIndex
		case "w":
			width, err := cursor.float(sectionLineWidth)
			if err != nil {
				return UpdateGeometry{}, err
			}
			update.LineWidth = &width
		default:
			return UpdateGeometry{}, newParseError(ErrUnknownTag, cursor.tokens, "unknown geometry tag %q", tag)
		}
	}

	if fields := update.ShapeFields(); len(fields) > 1 {
		parseErr := newParseError(ErrConflictingShapeFields, cursor.tokens,
			"conflicting shape fields: %s (at most one of vertices, radius, text)", strings.Join(fields, ", "))
		parseErr.Fields = fields
		return UpdateGeometry{}, parseErr
	}

	return update, nil
}

// cursor walks the tokens of one line.
type cursor struct {
	tokens []string
	index  int
}

func (c *cursor) done() bool {
	return c.index >= len(c.tokens)
}

func (c *cursor) peek() (string, bool) {
	if c.done() {
		return "", false
	}
	return c.tokens[c.index], true
}

func (c *cursor) next() (string, bool) {
	token, ok := c.peek()
	if ok {
		c.index++
	}
	return token, ok
}

// float consumes one finite number.
func (c *cursor) float(section string) (float64, error) {
	token, ok := c.next()
	if !ok {
		return 0, newParseError(ErrArityMismatch, c.tokens, "%s: argument missing", section)
	}
	value, numeric := parseNumber(token)
	if !numeric {
		return 0, newParseError(ErrMalformedNumber, c.tokens, "%s: argument %q is not a valid floating point number", section, token)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, newParseError(ErrInvalidRange, c.tokens, "%s: argument %q is not finite", section, token)
	}
	return value, nil
}

// floats consumes exactly count finite numbers.
func (c *cursor) floats(count int, section string) ([]float64, error) {
	values := make([]float64, 0, count)
	for len(values) < count && !c.done() {
		value, err := c.float(section)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	if len(values) != count {
		return nil, newParseError(ErrArityMismatch, c.tokens, "%s: expected %d arguments but found only %d", section, count, len(values))
	}
	return values, nil
}

// vertices greedily consumes numeric tokens and groups them into
// triples. At least one number is required and the count must be a
// multiple of three.
func (c *cursor) vertices() ([]Vertex, error) {
	var flat []float64
	for {
		token, ok := c.peek()
		if !ok {
			break
		}
		value, numeric := parseNumber(token)
		if !numeric {
			break
		}
		c.next()
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, newParseError(ErrInvalidRange, c.tokens, "%s: argument %q is not finite", sectionVertices, token)
		}
		flat = append(flat, value)
	}

	if len(flat) == 0 {
		return nil, newParseError(ErrArityMismatch, c.tokens, "%s: no number arguments provided", sectionVertices)
	}
	if len(flat)%3 != 0 {
		return nil, newParseError(ErrArityMismatch, c.tokens, "%s: found %d numbers (must be a multiple of 3)", sectionVertices, len(flat))
	}

	vertices := make([]Vertex, 0, len(flat)/3)
	for index := 0; index < len(flat); index += 3 {
		vertices = append(vertices, Vertex{X: flat[index], Y: flat[index+1], Z: flat[index+2]})
	}
	return vertices, nil
}

// integer consumes one 32-bit signed integer.
func (c *cursor) integer(section string) (int64, error) {
	token, ok := c.next()
	if !ok {
		return 0, newParseError(ErrArityMismatch, c.tokens, "%s: argument missing", section)
	}
	value, err := strconv.ParseInt(token, 10, 32)
	if err != nil {
		return 0, newParseError(ErrMalformedNumber, c.tokens, "%s: argument %q is not a valid integer", section, token)
	}
	return value, nil
}

// parseNumber reports whether token is a number, returning its value.
// Out-of-range magnitudes parse as infinity (or zero on underflow) and
// still count as numbers; the caller decides whether they are allowed.
func parseNumber(token string) (float64, bool) {
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		var numberError *strconv.NumError
		if errors.As(err, &numberError) && errors.Is(numberError.Err, strconv.ErrRange) {
			return value, true
		}
		return 0, false
	}
	return value, true
}
