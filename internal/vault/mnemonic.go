// Package vault provides the secret primitives the lifecycle manager builds
// on: BIP39 mnemonic generation and the password-based cipher used for
// at-rest protection.
package vault

import (
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// Standard mnemonic lengths (BIP39 word counts).
var validWordCounts = map[int]bool{12: true, 15: true, 18: true, 21: true, 24: true}

// NewMnemonic generates a new random 12-word mnemonic.
func NewMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128) // 128 bits = 12 words
	if err != nil {
		return "", fmt.Errorf("failed to generate entropy: %w", err)
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("failed to build mnemonic: %w", err)
	}

	return mnemonic, nil
}

// NormalizeMnemonic collapses whitespace and lowercases the phrase so
// storage and comparison are stable regardless of how it was typed.
func NormalizeMnemonic(mnemonic string) string {
	return strings.ToLower(strings.Join(strings.Fields(mnemonic), " "))
}

// ValidateMnemonic checks that the phrase has a standard BIP39 word count.
// Checksum validation is intentionally not enforced: imported phrases from
// other wallets may use wordlists this daemon does not carry.
func ValidateMnemonic(mnemonic string) error {
	words := strings.Fields(mnemonic)
	if len(words) == 0 {
		return fmt.Errorf("mnemonic is empty")
	}
	if !validWordCounts[len(words)] {
		return fmt.Errorf("mnemonic must have 12, 15, 18, 21 or 24 words, got %d", len(words))
	}
	return nil
}

// Seed derives the 64-byte BIP39 seed used for account derivation.
// Empty passphrase: the mnemonic itself is the whole backup.
func Seed(mnemonic string) []byte {
	return bip39.NewSeed(NormalizeMnemonic(mnemonic), "")
}
