// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Digest is the BLAKE3 keyed hash of an uncompressed payload.
type Digest [32]byte

// String returns the digest in hex.
func (digest Digest) String() string {
	return hex.EncodeToString(digest[:])
}

// Short returns the first 12 hex characters, for display.
func (digest Digest) Short() string {
	return digest.String()[:12]
}

// payloadDomainKey separates snapshot digests from any other BLAKE3
// use of the same bytes: the ASCII domain name, zero-padded.
var payloadDomainKey = [32]byte{
	's', 'v', 's', '-', 'v', 'i', 'e', 'w', 'e', 'r', '.', 's', 'n', 'a', 'p', 's',
	'h', 'o', 't', '.', 'p', 'a', 'y', 'l', 'o', 'a', 'd', 0, 0, 0, 0, 0,
}

// DigestPayload hashes an uncompressed payload.
func DigestPayload(payload []byte) Digest {
	hasher, err := blake3.NewKeyed(payloadDomainKey[:])
	if err != nil {
		panic("snapshot: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(payload)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}
