// Package dist packages compiled programs as content-addressed bundles.
// A bundle carries the bytecode, both final-output sequences and the symbol
// dump, encoded as canonical CBOR, with a hash over the bytecode text.
package dist

import (
	"crypto/sha256"
	"strings"
)

// HashVersion identifies the hashing scheme recorded in bundles.
const HashVersion byte = 1

// Bundle is the distributable form of one compilation unit.
type Bundle struct {
	Hash        [32]byte `cbor:"1,keyasint"`
	Name        string   `cbor:"2,keyasint"`
	Source      string   `cbor:"3,keyasint,omitempty"` // program text
	Bytecode    []string `cbor:"4,keyasint"`
	FinalOutput []string `cbor:"5,keyasint,omitempty"` // evaluator values
	LoadOutput  []string `cbor:"6,keyasint,omitempty"` // backward LOAD scan
	Symbols     string   `cbor:"7,keyasint,omitempty"` // symbol table dump
	Fold        string   `cbor:"8,keyasint,omitempty"`
	HashVersion byte     `cbor:"9,keyasint"`
	SourceHash  [32]byte `cbor:"10,keyasint"` // layout-insensitive program hash
}

// HashBytecode returns the content hash of a bytecode listing: sha256 over
// the newline-joined instructions.
func HashBytecode(lines []string) [32]byte {
	return sha256.Sum256([]byte(strings.Join(lines, "\n")))
}

// NewBundle creates a bundle for name and stamps its hash.
func NewBundle(name string, bytecode []string) *Bundle {
	b := &Bundle{
		Name:        name,
		Bytecode:    bytecode,
		HashVersion: HashVersion,
	}
	b.Hash = HashBytecode(bytecode)
	return b
}

// Verify reports whether the stored hash matches the bytecode.
func (b *Bundle) Verify() bool {
	return b.Hash == HashBytecode(b.Bytecode)
}
