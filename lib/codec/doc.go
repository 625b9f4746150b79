// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec is the viewer's single CBOR configuration.
//
// Snapshot payloads are CBOR. Encoding uses Core Deterministic
// Encoding (RFC 8949 §4.2): map keys are sorted, integers use their
// shortest form, and lengths are always definite. The same registry
// state therefore always encodes to the same bytes, which is what
// lets a snapshot digest identify a state.
//
//	data, err := codec.Marshal(snapshot)
//	err = codec.Unmarshal(data, &snapshot)
//
// [Diagnose] renders a payload in CBOR diagnostic notation for the
// inspect command.
//
// Types stored through this package carry `cbor` struct tags.
package codec
