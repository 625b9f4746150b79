// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"

	"github.com/bureau-foundation/svsviewer/cmd/svs-viewer/cli"
	"github.com/bureau-foundation/svsviewer/lib/codec"
	"github.com/bureau-foundation/svsviewer/lib/scene"
	"github.com/bureau-foundation/svsviewer/lib/snapshot"
)

func inspectCommand(stdout io.Writer) *cli.Command {
	var params struct {
		Diagnose bool `flag:"diagnose" desc:"print the decoded CBOR payload in diagnostic notation"`
	}

	return &cli.Command{
		Name:    "inspect",
		Summary: "Verify a snapshot file and summarize its contents",
		Description: `Read a snapshot written by a "save" command, check its header and
digest, restore it into a scratch registry, and print a summary of its
scenes, geometries and layers.

With --diagnose, print the raw payload in CBOR diagnostic notation
instead. The digest is still verified.`,
		Usage:  "svs-viewer inspect SNAPSHOT [flags]",
		Params: func() any { return &params },
		Run: func(_ context.Context, args []string) error {
			if len(args) != 1 {
				return cli.Validation("inspect takes exactly one snapshot path")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return cli.NotFound("%w", err)
				}
				return cli.Internal("%w", err)
			}

			if params.Diagnose {
				header, payload, err := snapshot.DecodePayload(data)
				if err != nil {
					return cli.Validation("%s: %w", args[0], err)
				}
				notation, err := codec.Diagnose(payload)
				if err != nil {
					return cli.Validation("%s: %w", args[0], err)
				}
				fmt.Fprintf(stdout, "# %s %s\n%s\n", header.Compression, header.Digest, notation)
				return nil
			}

			decoded, header, err := snapshot.Decode(data)
			if err != nil {
				return cli.Validation("%s: %w", args[0], err)
			}
			if err := scene.New(scene.Options{}).Restore(decoded); err != nil {
				return cli.Validation("%s: %w", args[0], err)
			}
			return writeSnapshotSummary(stdout, args[0], header, decoded)
		},
		Examples: []cli.Example{
			{
				Description: "Summarize a snapshot",
				Command:     "svs-viewer inspect ~/.cache/svs-viewer/snapshots/demo.svss",
			},
		},
	}
}

func writeSnapshotSummary(output io.Writer, path string, header snapshot.Header, decoded *scene.Snapshot) error {
	writer := tabwriter.NewWriter(output, 0, 4, 2, ' ', 0)
	fmt.Fprintf(writer, "file\t%s\n", path)
	fmt.Fprintf(writer, "format\tv%d, %s\n", header.Version, header.Compression)
	fmt.Fprintf(writer, "digest\t%s\n", header.Digest)
	fmt.Fprintf(writer, "size\t%d bytes (%d stored)\n", header.Size, header.StoredSize)
	fmt.Fprintf(writer, "scenes\t%d\n", len(decoded.Scenes))
	fmt.Fprintf(writer, "geometries\t%d\n", decoded.GeometryCount())
	fmt.Fprintf(writer, "layers\t%d\n", len(decoded.Layers))
	if len(decoded.Scenes) > 0 {
		fmt.Fprintln(writer)
		fmt.Fprintln(writer, "SCENE\tGEOMETRY\tSHAPE\tLAYER")
		for _, sceneSnapshot := range decoded.Scenes {
			if len(sceneSnapshot.Geometries) == 0 {
				fmt.Fprintf(writer, "%s\t-\t\t\n", sceneSnapshot.Name)
				continue
			}
			for _, geometry := range sceneSnapshot.Geometries {
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\n", sceneSnapshot.Name, geometry.Name, geometry.Shape, geometry.Layer)
			}
		}
	}
	return writer.Flush()
}
