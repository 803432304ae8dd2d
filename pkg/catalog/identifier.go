package catalog

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2s"
)

// Identifier computes the content identifier of an entry. A stored
// identifier is ignored.
func Identifier(e Entry) (uint32, error) {
	sigs, err := e.Signatures()
	if err != nil {
		return 0, err
	}
	return SignatureIdentifier(e.Name, e.Version, sigs), nil
}

// SignatureIdentifier returns the first four bytes of a BLAKE2s-256 digest
// over name, version and every signature in order, big endian.
func SignatureIdentifier(name string, version uint32, sigs []Signature) uint32 {
	// blake2s.New256 only fails for an oversized key.
	h, _ := blake2s.New256(nil)
	h.Write([]byte(name))
	h.Write([]byte{0})
	_ = binary.Write(h, binary.BigEndian, version)
	for _, s := range sigs {
		h.Write([]byte{byte(s.Kind), byte(s.Return), byte(len(s.Params))})
		for _, p := range s.Params {
			h.Write([]byte{byte(p)})
		}
		h.Write([]byte(s.Name))
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	return binary.BigEndian.Uint32(sum[:4])
}
