// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot stores registry snapshots on disk.
//
// A snapshot file is a fixed header followed by the payload:
//
//	offset  size  field
//	0       4     magic "SVSS"
//	4       1     format version (1)
//	5       1     compression tag (0 none, 1 lz4, 2 zstd)
//	6       32    BLAKE3 keyed digest of the uncompressed payload
//	38      var   uvarint uncompressed payload length
//	...           payload, compressed per the tag
//
// The uncompressed payload is the Core Deterministic CBOR encoding
// (lib/codec) of a [scene.Snapshot], so equal registry states produce
// identical payload bytes and identical digests. When compression does
// not shrink the payload it is stored with tag 0.
//
// [Store] implements [scene.Saver]: save paths resolve inside its
// directory, absolute paths and paths climbing out with ".." are
// rejected, and files are written by rename so a reader never sees a
// partial snapshot.
package snapshot
