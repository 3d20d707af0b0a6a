package library

import (
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Keccak256 is the legacy (pre-FIPS) Keccak used by Ethereum, over the concatenation of data.
func Keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, b := range data {
		h.Write(b)
	}
	return h.Sum(nil)
}

func Keccak256Hex(data ...[]byte) string {
	return fmt.Sprintf("%x", Keccak256(data...))
}
