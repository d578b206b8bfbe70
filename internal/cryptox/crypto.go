// Package cryptox implements the optional at-rest encryption of journal
// content: AES-GCM sealing of byte payloads with a key derived from a user
// passphrase via argon2id.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
)

const (
	keyLen   = 32
	nonceLen = 12
	saltLen  = 16
)

var ErrWrongKey = errors.New("wrong encryption key")

// Cipher seals and opens byte payloads with a fixed 256-bit key. The zero
// value is not usable; construct with NewCipher.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a 32-byte key.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != keyLen {
		return nil, fmt.Errorf("key must be %d bytes, got %d", keyLen, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Cipher{aead: aead}, nil
}

// Seal encrypts plaintext with a fresh random nonce and returns
// nonce||ciphertext as a single blob, so storage needs one column per field.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal.
func (c *Cipher) Open(blob []byte) ([]byte, error) {
	if len(blob) < nonceLen {
		return nil, ErrWrongKey
	}
	plaintext, err := c.aead.Open(nil, blob[:nonceLen], blob[nonceLen:], nil)
	if err != nil {
		return nil, ErrWrongKey
	}
	return plaintext, nil
}

// MakeVerifier returns a value derived from the key that can be persisted in
// plaintext and later compared to detect a wrong passphrase at open time.
func MakeVerifier(key []byte) []byte {
	hash := sha256.Sum256(key)
	return hash[:]
}

// NewSalt returns a fresh random argon2 salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	return salt, nil
}
