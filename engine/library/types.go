package library

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
)

// AddressLength is the byte length of every address the engine hands out.
const AddressLength = 20

// Address identifies authorities, relationships, identities, actions and signing keys.
type Address [AddressLength]byte

// ZeroAddress is the empty address, used as "not set".
var ZeroAddress Address

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAddress accepts a hex address with or without the 0x prefix.
func ParseAddress(s string) (a Address, e error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != AddressLength*2 {
		return a, fmt.Errorf("invalid address length %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("invalid address: %w", err)
	}
	copy(a[:], b)
	return a, nil
}

// AddressFromBytes uses the trailing AddressLength bytes of b.
func AddressFromBytes(b []byte) (a Address) {
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return
}

// CallerContext is what the environment knows about whoever submitted a transaction.
type CallerContext struct {
	From  Address
	Nonce uint64
}

// DeriveAddress returns the address of an entity created by from at the given nonce.
// The same (from, nonce) pair always yields the same address, which is what lets a
// journal replay reproduce every address.
func DeriveAddress(from Address, nonce uint64) Address {
	n := make([]byte, 8)
	binary.BigEndian.PutUint64(n, nonce)
	return AddressFromBytes(Keccak256(from[:], n))
}

// Signature is a recoverable secp256k1 signature in Ethereum (v, r, s) form.
type Signature struct {
	V byte
	R [32]byte
	S [32]byte
}

// SignatureFromCompact splits a 65 byte [v || r || s] signature.
func SignatureFromCompact(b []byte) (s Signature, e error) {
	if len(b) != 65 {
		return s, fmt.Errorf("compact signature must be 65 bytes, got %d", len(b))
	}
	s.V = b[0]
	copy(s.R[:], b[1:33])
	copy(s.S[:], b[33:65])
	return s, nil
}

// Compact returns [v || r || s].
func (s Signature) Compact() []byte {
	b := make([]byte, 0, 65)
	b = append(b, s.V)
	b = append(b, s.R[:]...)
	return append(b, s.S[:]...)
}

// Hex renders r || s || v, the layout web3 clients print.
func (s Signature) Hex() string {
	b := make([]byte, 0, 65)
	b = append(b, s.R[:]...)
	b = append(b, s.S[:]...)
	b = append(b, s.V)
	return "0x" + hex.EncodeToString(b)
}

// ParseSignature reads the r || s || v hex layout Hex produces.
func ParseSignature(h string) (s Signature, e error) {
	b, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X"))
	if err != nil {
		return s, fmt.Errorf("invalid signature: %w", err)
	}
	if len(b) != 65 {
		return s, fmt.Errorf("signature must be 65 bytes, got %d", len(b))
	}
	copy(s.R[:], b[:32])
	copy(s.S[:], b[32:64])
	s.V = b[64]
	return s, nil
}

// Wallet is the node's own nostr key, used to sign notifications it republishes.
type Wallet struct {
	PrivateKey string
	SeedWords  string
	Account    string
}
