// Package signer holds the secp256k1 keys behind relationships and produces and recovers
// the (v, r, s) signatures that authorize actions.
//
// An action is authorized by signing its address. The digest is the one web3 clients
// produce for eth.accounts.sign(keccak256(address)):
//
//	keccak256("\x19Ethereum Signed Message:\n32" || keccak256(address))
package signer

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"fedid/engine/library"
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

const personalMessagePrefix = "\x19Ethereum Signed Message:\n32"

var ErrRecovery = errors.New("could not recover signer")

// Key is a relationship signing key.
type Key struct {
	private *btcec.PrivateKey
}

func GenerateKey() (*Key, error) {
	sk, err := btcec.NewPrivateKey()
	if err != nil {
		return nil, err
	}
	return &Key{private: sk}, nil
}

// KeyFromHex parses a 32 byte hex private key, with or without 0x.
func KeyFromHex(s string) (*Key, error) {
	b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	if len(b) != btcec.PrivKeyBytesLen {
		return nil, fmt.Errorf("private key must be %d bytes, got %d", btcec.PrivKeyBytesLen, len(b))
	}
	sk, _ := btcec.PrivKeyFromBytes(b)
	return &Key{private: sk}, nil
}

func (k *Key) Hex() string {
	return "0x" + hex.EncodeToString(k.private.Serialize())
}

// Address is the signing key address a relationship is bound to.
func (k *Key) Address() library.Address {
	return AddressOf(k.private.PubKey())
}

func AddressOf(pub *btcec.PublicKey) library.Address {
	return library.AddressFromBytes(library.Keccak256(pub.SerializeUncompressed()[1:]))
}

// Digest is the 32 byte message hash that is actually signed for an action.
func Digest(action library.Address) []byte {
	return library.Keccak256([]byte(personalMessagePrefix), library.Keccak256(action[:]))
}

// Sign produces the authorization signature for the given action.
func (k *Key) Sign(action library.Address) (library.Signature, error) {
	return k.SignDigest(Digest(action))
}

func (k *Key) SignDigest(digest []byte) (library.Signature, error) {
	compact, err := ecdsa.SignCompact(k.private, digest, false)
	if err != nil {
		return library.Signature{}, err
	}
	return library.SignatureFromCompact(compact)
}

// Recover returns the address whose key produced sig over the action's digest.
func Recover(action library.Address, sig library.Signature) (library.Address, error) {
	return RecoverDigest(Digest(action), sig)
}

func RecoverDigest(digest []byte, sig library.Signature) (library.Address, error) {
	v := sig.V
	if v < 27 {
		v += 27
	}
	if v != 27 && v != 28 {
		return library.ZeroAddress, fmt.Errorf("%w: invalid recovery id %d", ErrRecovery, sig.V)
	}
	sig.V = v
	pub, _, err := ecdsa.RecoverCompact(sig.Compact(), digest)
	if err != nil {
		return library.ZeroAddress, fmt.Errorf("%w: %s", ErrRecovery, err)
	}
	return AddressOf(pub), nil
}
