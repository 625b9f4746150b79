// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package sgel

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ErrNotExpressible is returned by [Format] for commands that have no
// wire encoding: tokens containing '"' or a line break, exact
// matchers outside the create forms the parser produces, patterns
// beginning with '+' or '-', empty layer option sets, and updates
// carrying more than one shape.
var ErrNotExpressible = errors.New("command cannot be expressed as a protocol line")

// Format encodes command as one protocol line (without a trailing
// newline). Parsing the result yields a command equal to the input.
//
// Draw commands are always written with the "draw" prefix. Matchers
// must be wildcard matchers: the protocol expresses exact matching
// only as a side effect of creating a scene or geometry on the same
// line, which [FormatLine] models for command sequences.
func Format(command Command) (string, error) {
	var fields []string
	var err error

	switch command := command.(type) {
	case Save:
		var token string
		token, err = encodeToken(command.Path)
		fields = []string{"save", token}
	case Layer:
		fields, err = formatLayer(command)
	case CreateScene:
		fields, err = drawFields("+", command.Name)
	case DeleteScene:
		var pattern string
		pattern, err = wildcardPattern(command.Scene)
		if err == nil {
			fields, err = drawFields("-", pattern)
		}
	case CreateGeometry:
		var scene string
		scene, err = wildcardPattern(command.Scene)
		if err == nil {
			fields, err = drawFields("", scene, "+", command.Name)
		}
	case DeleteGeometry:
		fields, err = formatDeleteGeometry(command)
	case UpdateGeometry:
		fields, err = formatUpdate(command)
	default:
		panic(fmt.Sprintf("sgel: unknown command type %T", command))
	}
	if err != nil {
		return "", fmt.Errorf("formatting %s: %w", command.Verb(), err)
	}
	return strings.Join(fields, " "), nil
}

// FormatLine encodes a command sequence as a single draw line when the
// sequence has a shape the parser produces for one line, for example
// CreateScene followed by CreateGeometry in Exact of that scene. A
// single command is passed to [Format].
func FormatLine(commands []Command) (string, error) {
	switch len(commands) {
	case 0:
		return "", fmt.Errorf("formatting empty command list: %w", ErrNotExpressible)
	case 1:
		return Format(commands[0])
	}

	var pairs []string
	var scene NameMatcher
	rest := commands

	switch first := rest[0].(type) {
	case CreateScene:
		pairs = append(pairs, "+", first.Name)
		scene = Exact(first.Name)
		rest = rest[1:]
	case CreateGeometry:
		pattern, err := wildcardPattern(first.Scene)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, "", pattern)
		scene = first.Scene
	default:
		return "", fmt.Errorf("formatting %s as the start of a line: %w", first.Verb(), ErrNotExpressible)
	}

	var geometry NameMatcher
	switch step := rest[0].(type) {
	case CreateGeometry:
		if step.Scene != scene {
			return "", fmt.Errorf("formatting create-geometry in %s after %s: %w", step.Scene, scene, ErrNotExpressible)
		}
		pairs = append(pairs, "+", step.Name)
		geometry = Exact(step.Name)
		rest = rest[1:]
	case DeleteGeometry:
		if step.Scene != scene || len(rest) != 1 {
			return "", fmt.Errorf("formatting delete-geometry in %s after %s: %w", step.Scene, scene, ErrNotExpressible)
		}
		pattern, err := wildcardPattern(step.Geometry)
		if err != nil {
			return "", err
		}
		fields, err := drawFields(append(pairs, "-", pattern)...)
		if err != nil {
			return "", err
		}
		return strings.Join(fields, " "), nil
	case UpdateGeometry:
		pattern, err := wildcardPattern(step.Geometry)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, "", pattern)
		geometry = step.Geometry
	default:
		return "", fmt.Errorf("formatting %s after %s: %w", step.Verb(), commands[0].Verb(), ErrNotExpressible)
	}

	fields, err := drawFields(pairs...)
	if err != nil {
		return "", err
	}
	if len(rest) == 0 {
		return strings.Join(fields, " "), nil
	}

	update, ok := rest[0].(UpdateGeometry)
	if !ok || len(rest) != 1 || update.Scene != scene || update.Geometry != geometry {
		return "", fmt.Errorf("formatting %s as the payload of %s %s: %w", rest[0].Verb(), scene, geometry, ErrNotExpressible)
	}
	payload, err := updatePayload(update)
	if err != nil {
		return "", err
	}
	return strings.Join(append(fields, payload...), " "), nil
}

func formatLayer(layer Layer) ([]string, error) {
	if len(layer.Options) == 0 {
		return nil, fmt.Errorf("layer %d has no options: %w", layer.Number, ErrNotExpressible)
	}
	fields := []string{"layer", strconv.Itoa(layer.Number)}
	for _, option := range LayerOptions {
		if value, set := layer.Options[option]; set {
			fields = append(fields, string(option.Tag()), strconv.Itoa(value))
		}
	}
	if len(fields)-2 != 2*len(layer.Options) {
		return nil, fmt.Errorf("layer %d has unknown options: %w", layer.Number, ErrNotExpressible)
	}
	return fields, nil
}

func formatDeleteGeometry(command DeleteGeometry) ([]string, error) {
	scene, err := wildcardPattern(command.Scene)
	if err != nil {
		return nil, err
	}
	geometry, err := wildcardPattern(command.Geometry)
	if err != nil {
		return nil, err
	}
	return drawFields("", scene, "-", geometry)
}

func formatUpdate(update UpdateGeometry) ([]string, error) {
	scene, err := wildcardPattern(update.Scene)
	if err != nil {
		return nil, err
	}
	geometry, err := wildcardPattern(update.Geometry)
	if err != nil {
		return nil, err
	}
	payload, err := updatePayload(update)
	if err != nil {
		return nil, err
	}
	fields, err := drawFields("", scene, "", geometry)
	if err != nil {
		return nil, err
	}
	return append(fields, payload...), nil
}

// updatePayload renders the tags of update in the order p r s c v b t
// l w. An update without fields is rejected: the line it would produce
// parses to no update at all.
func updatePayload(update UpdateGeometry) ([]string, error) {
	if shapes := update.ShapeFields(); len(shapes) > 1 {
		return nil, fmt.Errorf("update sets %s: %w", strings.Join(shapes, ", "), ErrNotExpressible)
	}

	var fields []string
	if update.Position != nil {
		fields = append(fields, "p")
		fields = appendFloats(fields, update.Position[:]...)
	}
	if update.Rotation != nil {
		fields = append(fields, "r")
		fields = appendFloats(fields, update.Rotation[:]...)
	}
	if update.Scale != nil {
		fields = append(fields, "s")
		fields = appendFloats(fields, update.Scale[:]...)
	}
	if update.Color != nil {
		fields = append(fields, "c")
		fields = appendFloats(fields, update.Color[:]...)
	}
	if update.Vertices != nil {
		if len(update.Vertices) == 0 {
			return nil, fmt.Errorf("update has an empty vertex list: %w", ErrNotExpressible)
		}
		fields = append(fields, "v")
		for _, vertex := range update.Vertices {
			fields = appendFloats(fields, vertex.X, vertex.Y, vertex.Z)
		}
	}
	if update.Radius != nil {
		fields = append(fields, "b")
		fields = appendFloats(fields, *update.Radius)
	}
	if update.Text != nil {
		token, err := encodeToken(*update.Text)
		if err != nil {
			return nil, err
		}
		fields = append(fields, "t", token)
	}
	if update.Layer != nil {
		if *update.Layer > math.MaxInt32 {
			return nil, fmt.Errorf("layer index %d exceeds the protocol range: %w", *update.Layer, ErrNotExpressible)
		}
		fields = append(fields, "l", strconv.FormatUint(uint64(*update.Layer), 10))
	}
	if update.LineWidth != nil {
		fields = append(fields, "w")
		fields = appendFloats(fields, *update.LineWidth)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("update sets no fields: %w", ErrNotExpressible)
	}
	return fields, nil
}

// drawFields builds "draw" followed by prefix/name pairs, each pair
// becoming one token.
func drawFields(pairs ...string) ([]string, error) {
	if len(pairs)%2 != 0 {
		panic("sgel: drawFields requires prefix/name pairs")
	}
	fields := []string{"draw"}
	for index := 0; index < len(pairs); index += 2 {
		prefix, name := pairs[index], pairs[index+1]
		if err := checkName(name); err != nil {
			return nil, err
		}
		token, err := encodeToken(prefix + name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, token)
	}
	return fields, nil
}

func wildcardPattern(matcher NameMatcher) (string, error) {
	if matcher.Mode != MatchWildcard {
		return "", fmt.Errorf("matcher %s: only wildcard matchers stand alone: %w", matcher, ErrNotExpressible)
	}
	return matcher.Pattern, nil
}

// checkName rejects names the parser would read as a create or delete
// prefix.
func checkName(name string) error {
	if strings.HasPrefix(name, "+") || strings.HasPrefix(name, "-") {
		return fmt.Errorf("name %q begins with a command prefix: %w", name, ErrNotExpressible)
	}
	return nil
}

// encodeToken quotes token when it is empty or contains any Unicode
// whitespace, which the tokenizer would otherwise split on or trim.
// Backslashes are doubled; the tokenizer collapses them again.
func encodeToken(token string) (string, error) {
	if strings.ContainsRune(token, '"') {
		return "", fmt.Errorf("token %q contains a double quote: %w", token, ErrNotExpressible)
	}
	if strings.ContainsAny(token, "\n\r") {
		return "", fmt.Errorf("token %q contains a line break: %w", token, ErrNotExpressible)
	}
	if token != "" && strings.IndexFunc(token, unicode.IsSpace) < 0 && !strings.Contains(token, `\`) {
		return token, nil
	}
	return `"` + strings.ReplaceAll(token, `\`, `\\`) + `"`, nil
}

func appendFloats(fields []string, values ...float64) []string {
	for _, value := range values {
		fields = append(fields, strconv.FormatFloat(value, 'g', -1, 64))
	}
	return fields
}
