package chains

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/hkdf"
)

// deriveKey produces the secp256k1 key for (mnemonic, family tag, index).
// The BIP39 seed is expanded with HKDF-SHA256 bound to the family tag and
// index, so the same mnemonic yields independent keys per chain family.
// Derivation is deterministic: the registry relies on repeated calls
// returning the same account.
func deriveKey(mnemonic string, tag string, index uint32) (*btcec.PrivateKey, error) {
	seed := bip39.NewSeed(mnemonic, "")
	defer clear(seed)

	info := make([]byte, 0, len(tag)+4)
	info = append(info, []byte(tag)...)
	info = binary.BigEndian.AppendUint32(info, index)

	keyBytes := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, seed, nil, info), keyBytes); err != nil {
		return nil, fmt.Errorf("failed to derive key material: %w", err)
	}
	defer clear(keyBytes)

	priv, _ := btcec.PrivKeyFromBytes(keyBytes)
	if priv.Key.IsZero() {
		return nil, fmt.Errorf("derived key is zero")
	}
	return priv, nil
}
