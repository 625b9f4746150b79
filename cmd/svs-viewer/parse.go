// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
	"github.com/bureau-foundation/svsviewer/lib/sgel"
	"github.com/bureau-foundation/svsviewer/transport"
)

func parseCommand(stdout io.Writer, stdin io.Reader) *cli.Command {
	var params struct {
		Canonical    bool `flag:"canonical"      desc:"print each line re-encoded in canonical form instead of a description"`
		MaxLineBytes int  `flag:"max-line-bytes" desc:"longest accepted line in bytes (0 = transport default)"`
	}

	return &cli.Command{
		Name:    "parse",
		Summary: "Check a file of protocol lines without a server",
		Description: `Read protocol lines from FILE (or standard input) and report what
each one parses to, using the same tokenizer and parser as the server.
Each output line is prefixed with its input line number.

Exits 1 when any line fails to parse.`,
		Usage:  "svs-viewer parse [FILE] [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) > 1 {
				return cli.Validation("parse takes at most one file, got %d arguments", len(args))
			}
			input := stdin
			name := "<stdin>"
			if len(args) == 1 && args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					if errors.Is(err, fs.ErrNotExist) {
						return cli.NotFound("%w", err)
					}
					return cli.Internal("%w", err)
				}
				defer file.Close()
				input = file
				name = args[0]
			}

			maxLine := params.MaxLineBytes
			if maxLine <= 0 {
				maxLine = transport.DefaultMaxLineBytes
			}
			lines, failures, err := lintLines(input, stdout, params.Canonical, maxLine)
			if err != nil {
				return cli.Internal("reading %s: %w", name, err)
			}
			if failures > 0 {
				fmt.Fprintf(os.Stderr, "%s: %d of %d lines failed to parse\n", name, failures, lines)
				return &cli.ExitError{Code: 1}
			}
			return nil
		},
		Examples: []cli.Example{
			{
				Description: "Describe every command in a capture",
				Command:     "svs-viewer parse session.txt",
			},
			{
				Description: "Normalize a capture from standard input",
				Command:     "cat session.txt | svs-viewer parse --canonical",
			},
		},
	}
}

// lintLines parses every line of input and writes one result per
// line, or per command for descriptions, to output. It returns the
// number of lines read and how many failed.
func lintLines(input io.Reader, output io.Writer, canonical bool, maxLineBytes int) (lines, failures int, err error) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, min(maxLineBytes, 64*1024)), maxLineBytes)
	writer := bufio.NewWriter(output)
	defer writer.Flush()

	for scanner.Scan() {
		lines++
		commands, parseErr := sgel.ParseLine(scanner.Text())
		if parseErr != nil {
			failures++
			fmt.Fprintf(writer, "%d: error: %v\n", lines, parseErr)
			continue
		}
		if len(commands) == 0 {
			fmt.Fprintf(writer, "%d: (no commands)\n", lines)
			continue
		}
		if canonical {
			formatted, formatErr := sgel.FormatLine(commands)
			if formatErr == nil {
				fmt.Fprintf(writer, "%d: %s\n", lines, formatted)
				continue
			}
			if !errors.Is(formatErr, sgel.ErrNotExpressible) {
				failures++
				fmt.Fprintf(writer, "%d: error: %v\n", lines, formatErr)
				continue
			}
		}
		for _, command := range commands {
			fmt.Fprintf(writer, "%d: %s\n", lines, sgel.Describe(command))
		}
	}
	if err := scanner.Err(); err != nil {
		return lines, failures, err
	}
	return lines, failures, writer.Flush()
}
