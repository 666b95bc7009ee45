// Package hash computes content hashes of parsed programs.
package hash

import (
	"crypto/sha256"

	"github.com/chazu/bcgen/compiler"
)

// HashProgram computes the SHA-256 content hash of prog.
//
// The hash is computed over a deterministic serialization of the AST, so
// two sources that differ only in whitespace, comments, redundant
// parentheses or integer spelling ("007" and "7") hash the same.
func HashProgram(prog *compiler.Program) [32]byte {
	return sha256.Sum256(Serialize(prog))
}
