// Package crypto exposes the hashing primitives used by landscaper.
//
// Contents
//
//   - Method content hashes derived from the method name (MethodHash)
//   - Short fingerprints of serialised landscapes, used to compare replicas
//     in logs and tests (Fingerprint)
//
// Both use BLAKE2b-256 from golang.org/x/crypto.
package crypto
