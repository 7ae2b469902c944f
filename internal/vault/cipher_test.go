package vault

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testCipher uses cheap scrypt parameters so the suite stays fast.
func testCipher() *Cipher {
	return NewCipherWithCost(1<<10, 8, 1)
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := testCipher()

	tests := []struct {
		name     string
		password string
	}{
		{"six_char_password", "secret"},
		{"long_password", "correct horse battery staple"},
		{"unicode_password", "пароль密码"},
		{"empty_password", ""},
	}

	mnemonic := "abandon ability able about above absent absorb abstract absurd abuse access accident"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blob, err := c.Encrypt([]byte(mnemonic), []byte(tt.password))
			require.NoError(t, err)
			assert.NotContains(t, string(blob), "abandon", "ciphertext must not leak plaintext")

			plaintext, err := c.Decrypt(blob, []byte(tt.password))
			require.NoError(t, err)
			assert.Equal(t, mnemonic, string(plaintext))
		})
	}
}

func TestDecryptWrongPassword(t *testing.T) {
	c := testCipher()

	blob, err := c.Encrypt([]byte("some secret words"), []byte("secret1"))
	require.NoError(t, err)

	_, err = c.Decrypt(blob, []byte("wrong"))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDecryptMalformedBlob(t *testing.T) {
	c := testCipher()

	_, err := c.Decrypt([]byte("not an envelope"), []byte("secret1"))
	assert.ErrorIs(t, err, ErrDecryptFailed)

	_, err = c.Decrypt([]byte(`{"salt":"!!","nonce":"!!","cipher_text":"!!"}`), []byte("secret1"))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestDecryptTamperedCiphertext(t *testing.T) {
	c := testCipher()

	blob, err := c.Encrypt([]byte("some secret words"), []byte("secret1"))
	require.NoError(t, err)

	// Flip one byte inside the envelope payload.
	tampered := make([]byte, len(blob))
	copy(tampered, blob)
	tampered[len(tampered)/2] ^= 0x01

	_, err = c.Decrypt(tampered, []byte("secret1"))
	assert.ErrorIs(t, err, ErrDecryptFailed)
}

func TestEnvelopesAreSalted(t *testing.T) {
	c := testCipher()

	a, err := c.Encrypt([]byte("same plaintext"), []byte("secret1"))
	require.NoError(t, err)
	b, err := c.Encrypt([]byte("same plaintext"), []byte("secret1"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "fresh salt and nonce per encryption")
}
