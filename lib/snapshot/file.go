// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bureau-foundation/svsviewer/lib/codec"
	"github.com/bureau-foundation/svsviewer/lib/scene"
)

// Magic opens every snapshot file.
const Magic = "SVSS"

// FormatVersion is the header version written by Encode.
const FormatVersion = 1

// Extension is appended to save paths that have none.
const Extension = ".svss"

// maxPayloadBytes bounds the declared payload size accepted by Decode.
const maxPayloadBytes = 1 << 30

const fixedHeaderSize = len(Magic) + 1 + 1 + len(Digest{})

// ErrCorrupt is wrapped by every Decode failure caused by file
// contents.
var ErrCorrupt = errors.New("corrupt snapshot")

// Header describes a snapshot file.
type Header struct {
	Version     uint8
	Compression Compression
	Digest      Digest

	// Size is the uncompressed payload length; StoredSize is the
	// length on disk after the header.
	Size       int
	StoredSize int
}

// Encode serializes snapshot. The requested compression is replaced by
// CompressionNone when it would not reduce the size.
func Encode(snapshot *scene.Snapshot, compression Compression) ([]byte, error) {
	payload, err := codec.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot payload: %w", err)
	}

	stored, err := compress(payload, compression)
	if errors.Is(err, errIncompressible) {
		compression, stored = CompressionNone, payload
	} else if err != nil {
		return nil, err
	}

	digest := DigestPayload(payload)
	var buffer bytes.Buffer
	buffer.Grow(fixedHeaderSize + binary.MaxVarintLen64 + len(stored))
	buffer.WriteString(Magic)
	buffer.WriteByte(FormatVersion)
	buffer.WriteByte(byte(compression))
	buffer.Write(digest[:])
	buffer.Write(binary.AppendUvarint(nil, uint64(len(payload))))
	buffer.Write(stored)
	return buffer.Bytes(), nil
}

// DecodePayload parses the header of data, decompresses the payload
// and verifies its digest. It returns the uncompressed CBOR payload.
func DecodePayload(data []byte) (Header, []byte, error) {
	if len(data) < fixedHeaderSize {
		return Header{}, nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrCorrupt, len(data))
	}
	if string(data[:len(Magic)]) != Magic {
		return Header{}, nil, fmt.Errorf("%w: bad magic %q", ErrCorrupt, data[:len(Magic)])
	}

	header := Header{
		Version:     data[4],
		Compression: Compression(data[5]),
	}
	copy(header.Digest[:], data[6:fixedHeaderSize])
	if header.Version != FormatVersion {
		return header, nil, fmt.Errorf("%w: unsupported format version %d", ErrCorrupt, header.Version)
	}

	size, sizeLength := binary.Uvarint(data[fixedHeaderSize:])
	if sizeLength <= 0 || size > maxPayloadBytes {
		return header, nil, fmt.Errorf("%w: invalid payload length", ErrCorrupt)
	}
	header.Size = int(size)
	stored := data[fixedHeaderSize+sizeLength:]
	header.StoredSize = len(stored)

	payload, err := decompress(stored, header.Compression, header.Size)
	if err != nil {
		return header, nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if DigestPayload(payload) != header.Digest {
		return header, nil, fmt.Errorf("%w: digest mismatch", ErrCorrupt)
	}
	return header, payload, nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (*scene.Snapshot, Header, error) {
	header, payload, err := DecodePayload(data)
	if err != nil {
		return nil, header, err
	}
	var snapshot scene.Snapshot
	if err := codec.Unmarshal(payload, &snapshot); err != nil {
		return nil, header, fmt.Errorf("%w: decoding payload: %w", ErrCorrupt, err)
	}
	return &snapshot, header, nil
}

// ReadFile reads and decodes the snapshot at path.
func ReadFile(path string) (*scene.Snapshot, Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Header{}, err
	}
	snapshot, header, err := Decode(data)
	if err != nil {
		return nil, header, fmt.Errorf("reading %s: %w", path, err)
	}
	return snapshot, header, nil
}

// WriteFile encodes snapshot and writes it to path through a temporary
// file in the same directory.
func WriteFile(path string, snapshot *scene.Snapshot, compression Compression) (Header, error) {
	data, err := Encode(snapshot, compression)
	if err != nil {
		return Header{}, err
	}
	header, _, err := DecodePayload(data)
	if err != nil {
		return Header{}, fmt.Errorf("verifying encoded snapshot: %w", err)
	}

	directory := filepath.Dir(path)
	temporary, err := os.CreateTemp(directory, ".snapshot-*")
	if err != nil {
		return Header{}, fmt.Errorf("creating temporary file: %w", err)
	}
	temporaryPath := temporary.Name()
	defer os.Remove(temporaryPath)

	if _, err := temporary.Write(data); err != nil {
		temporary.Close()
		return Header{}, fmt.Errorf("writing %s: %w", temporaryPath, err)
	}
	if err := temporary.Sync(); err != nil {
		temporary.Close()
		return Header{}, fmt.Errorf("syncing %s: %w", temporaryPath, err)
	}
	if err := temporary.Close(); err != nil {
		return Header{}, fmt.Errorf("closing %s: %w", temporaryPath, err)
	}
	if err := os.Rename(temporaryPath, path); err != nil {
		return Header{}, fmt.Errorf("renaming snapshot into place: %w", err)
	}
	return header, nil
}
