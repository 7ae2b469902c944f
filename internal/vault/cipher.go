package vault

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// ErrDecryptFailed is returned when the ciphertext cannot be authenticated
// with the supplied password. Wrong password and corrupted ciphertext are
// deliberately indistinguishable.
var ErrDecryptFailed = errors.New("decrypt failed")

const (
	saltLen      = 32
	scryptKeyLen = 32
)

// Cipher is the password-based symmetric scheme protecting the mnemonic at
// rest: scrypt key derivation plus XChaCha20-Poly1305. KDF cost is a field so
// tests can run with cheap parameters.
type Cipher struct {
	scryptN int
	scryptR int
	scryptP int
}

// NewCipher creates a Cipher with production KDF cost.
// N=2^15 (~32MB, tens of milliseconds) keeps unlock interactive while still
// making offline brute force expensive.
func NewCipher() *Cipher {
	return &Cipher{scryptN: 1 << 15, scryptR: 8, scryptP: 1}
}

// NewCipherWithCost creates a Cipher with explicit scrypt parameters.
func NewCipherWithCost(n, r, p int) *Cipher {
	return &Cipher{scryptN: n, scryptR: r, scryptP: p}
}

// envelope is the serialized ciphertext blob written to storage.
type envelope struct {
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipher_text"`
}

// Encrypt seals plaintext under a password-derived key. The returned blob is
// a self-contained JSON envelope carrying salt and nonce.
func (c *Cipher) Encrypt(plaintext, password []byte) ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	key, err := scrypt.Key(password, salt, c.scryptN, c.scryptR, c.scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	ct := aead.Seal(nil, nonce, plaintext, nil)

	blob, err := json.Marshal(envelope{
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		CipherText: base64.StdEncoding.EncodeToString(ct),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return blob, nil
}

// Decrypt opens a blob produced by Encrypt. Any authentication failure,
// including a wrong password, returns ErrDecryptFailed - never garbage.
func (c *Cipher) Decrypt(blob, password []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, ErrDecryptFailed
	}

	salt, err := base64.StdEncoding.DecodeString(env.Salt)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	nonce, err := base64.StdEncoding.DecodeString(env.Nonce)
	if err != nil || len(nonce) != chacha20poly1305.NonceSizeX {
		return nil, ErrDecryptFailed
	}
	ct, err := base64.StdEncoding.DecodeString(env.CipherText)
	if err != nil {
		return nil, ErrDecryptFailed
	}

	key, err := scrypt.Key(password, salt, c.scryptN, c.scryptR, c.scryptP, scryptKeyLen)
	if err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}
	defer clear(key)

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, ErrDecryptFailed
	}
	return plaintext, nil
}
