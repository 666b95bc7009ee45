package dist

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dist: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// MarshalBundle serializes a Bundle to CBOR bytes.
func MarshalBundle(b *Bundle) ([]byte, error) {
	return cborEncMode.Marshal(b)
}

// UnmarshalBundle deserializes a Bundle from CBOR bytes and checks that its
// hash matches its bytecode.
func UnmarshalBundle(data []byte) (*Bundle, error) {
	var b Bundle
	if err := cbor.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("dist: unmarshal bundle: %w", err)
	}
	if b.HashVersion != HashVersion {
		return nil, fmt.Errorf("dist: unsupported hash version %d", b.HashVersion)
	}
	if !b.Verify() {
		return nil, fmt.Errorf("dist: hash mismatch for bundle %q: declared %x, computed %x",
			b.Name, b.Hash, HashBytecode(b.Bytecode))
	}
	return &b, nil
}

// WriteFile encodes b and writes it to path.
func WriteFile(path string, b *Bundle) error {
	data, err := MarshalBundle(b)
	if err != nil {
		return fmt.Errorf("dist: marshal bundle: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("dist: write %s: %w", path, err)
	}
	return nil
}

// ReadFile reads and verifies a bundle from path.
func ReadFile(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dist: read %s: %w", path, err)
	}
	return UnmarshalBundle(data)
}
