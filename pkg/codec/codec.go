package codec

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Codec protects a field value at rest. Encrypt is non-deterministic (fresh
// nonce per call), so equality and uniqueness checks must go through
// BlindIndex instead of comparing ciphertexts.
type Codec struct {
	aead   cipher.AEAD
	macKey []byte
}

func New(secret string) (*Codec, error) {
	encKey, err := deriveKey(secret, "sku-encryption")
	if err != nil {
		return nil, err
	}
	macKey, err := deriveKey(secret, "sku-blind-index")
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Codec{aead: aead, macKey: macKey}, nil
}

// deriveKey stretches the configured secret into a 32-byte key per purpose,
// so the cipher key and the blind-index key never coincide.
func deriveKey(secret, purpose string) ([]byte, error) {
	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte(purpose))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals the plaintext with AES-256-GCM and returns
// base64(nonce || ciphertext).
func (c *Codec) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. A value that cannot be decoded (wrong secret,
// truncated or tampered ciphertext, plain garbage) is returned unchanged so a
// corrupted record surfaces in responses instead of failing the request.
func (c *Codec) Decrypt(encoded string) string {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(raw) < c.aead.NonceSize() {
		return encoded
	}
	ns := c.aead.NonceSize()
	plain, err := c.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return encoded
	}
	return string(plain)
}

// BlindIndex returns a deterministic, keyed digest of the plaintext. Safe to
// store under a unique index and to use for exact-match lookups.
func (c *Codec) BlindIndex(plaintext string) string {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write([]byte(plaintext))
	return hex.EncodeToString(mac.Sum(nil))
}
