// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/bureau-foundation/svsviewer/lib/scene"
	"github.com/bureau-foundation/svsviewer/lib/sgel"
)

func sampleRegistry(t *testing.T, geometries int) *scene.Registry {
	t.Helper()
	registry := scene.New(scene.Options{})
	lines := []string{"layer 1 l 1 w 0"}
	for index := range geometries {
		lines = append(lines,
			fmt.Sprintf("draw +S%d +box%d v 0 0 0 1 1 1 2 2 2 p %d 0 0", index%3, index, index),
			fmt.Sprintf("draw +S%d +label%d t \"label %d\" c 1 0 0", index%3, index, index),
		)
	}
	for _, line := range lines {
		commands, err := sgel.ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q) error: %v", line, err)
		}
		if _, err := registry.ApplyAll(commands); err != nil {
			t.Fatalf("ApplyAll(%q) error: %v", line, err)
		}
	}
	return registry
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	snapshot := sampleRegistry(t, 20).Snapshot()

	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		t.Run(compression.String(), func(t *testing.T) {
			data, err := Encode(snapshot, compression)
			if err != nil {
				t.Fatalf("Encode error: %v", err)
			}
			if string(data[:4]) != Magic || data[4] != FormatVersion {
				t.Fatalf("header prefix = %q %d", data[:4], data[4])
			}

			decoded, header, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode error: %v", err)
			}
			if header.Compression != compression {
				t.Errorf("header compression = %s, want %s", header.Compression, compression)
			}
			if compression != CompressionNone && header.StoredSize >= header.Size {
				t.Errorf("stored %d bytes for a %d byte payload", header.StoredSize, header.Size)
			}
			if !reflect.DeepEqual(decoded, snapshot) {
				t.Errorf("decoded snapshot differs:\n got  %+v\n want %+v", decoded, snapshot)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	first, err := Encode(sampleRegistry(t, 5).Snapshot(), CompressionZstd)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	second, err := Encode(sampleRegistry(t, 5).Snapshot(), CompressionZstd)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("equal states encoded to different bytes")
	}
}

func TestEncodeFallsBackWhenIncompressible(t *testing.T) {
	data, err := Encode(&scene.Snapshot{}, CompressionLZ4)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	_, header, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if header.Compression != CompressionNone {
		t.Errorf("compression = %s, want none for a tiny payload", header.Compression)
	}
}

func TestDecodeRejectsCorruption(t *testing.T) {
	data, err := Encode(sampleRegistry(t, 3).Snapshot(), CompressionNone)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	corrupt := map[string][]byte{
		"short":        data[:10],
		"magic":        append([]byte("XXXX"), data[4:]...),
		"version":      withByte(data, 4, 9),
		"compression":  withByte(data, 5, 7),
		"digest":       withByte(data, 6, data[6]^0xff),
		"payload":      withByte(data, len(data)-1, data[len(data)-1]^0x01),
		"truncated":    data[:len(data)-1],
		"empty length": data[:fixedHeaderSize],
	}
	for name, input := range corrupt {
		if _, _, err := Decode(input); !errors.Is(err, ErrCorrupt) {
			t.Errorf("Decode(%s) error = %v, want ErrCorrupt", name, err)
		}
	}
}

func withByte(data []byte, index int, value byte) []byte {
	modified := bytes.Clone(data)
	modified[index] = value
	return modified
}

func TestStoreSaveSnapshot(t *testing.T) {
	directory := t.TempDir()
	store := &Store{Directory: filepath.Join(directory, "snapshots"), Compression: CompressionZstd}
	registry := scene.New(scene.Options{Saver: store})
	populated := sampleRegistry(t, 4)
	if err := registry.Restore(populated.Snapshot()); err != nil {
		t.Fatalf("Restore error: %v", err)
	}

	commands, err := sgel.ParseLine("save session-1")
	if err != nil {
		t.Fatalf("ParseLine error: %v", err)
	}
	if _, err := registry.ApplyAll(commands); err != nil {
		t.Fatalf("ApplyAll(save) error: %v", err)
	}

	path := filepath.Join(directory, "snapshots", "session-1"+Extension)
	loaded, header, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if header.Compression != CompressionZstd {
		t.Errorf("compression = %s, want zstd", header.Compression)
	}
	if !reflect.DeepEqual(loaded, populated.Snapshot()) {
		t.Error("saved snapshot differs from registry state")
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("snapshot directory holds %d entries, want only the snapshot", len(entries))
	}
}

func TestStoreResolve(t *testing.T) {
	store := &Store{Directory: "/var/snapshots"}
	tests := map[string]string{
		"run":             "/var/snapshots/run.svss",
		"nested/run.cbor": "/var/snapshots/nested/run.cbor",
		"a/../b":          "/var/snapshots/b.svss",
	}
	for input, want := range tests {
		got, err := store.Resolve(input)
		if err != nil || got != want {
			t.Errorf("Resolve(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
}

func TestStoreRejectsPathsOutsideDirectory(t *testing.T) {
	directory := t.TempDir()
	store := &Store{Directory: filepath.Join(directory, "snapshots")}
	registry := scene.New(scene.Options{})

	for _, path := range []string{"/tmp/abs", "../escape", "nested/../../escape", ".."} {
		if _, err := store.Resolve(path); !errors.Is(err, ErrPathOutsideDirectory) {
			t.Errorf("Resolve(%q) error = %v, want ErrPathOutsideDirectory", path, err)
		}
		if err := store.SaveSnapshot(path, registry.Snapshot()); !errors.Is(err, ErrPathOutsideDirectory) {
			t.Errorf("SaveSnapshot(%q) error = %v, want ErrPathOutsideDirectory", path, err)
		}
	}
	entries, err := os.ReadDir(directory)
	if err != nil {
		t.Fatalf("ReadDir error: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("rejected saves left %d entries next to the store directory", len(entries))
	}
}

func TestParseCompression(t *testing.T) {
	for _, compression := range []Compression{CompressionNone, CompressionLZ4, CompressionZstd} {
		parsed, err := ParseCompression(compression.String())
		if err != nil || parsed != compression {
			t.Errorf("ParseCompression(%q) = %s, %v", compression.String(), parsed, err)
		}
	}
	if _, err := ParseCompression("gzip"); err == nil {
		t.Error("ParseCompression(gzip) succeeded")
	}
}
