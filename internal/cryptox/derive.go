package cryptox

import "golang.org/x/crypto/argon2"

// DeriveKey stretches a passphrase into an AES-256 key with argon2id.
// Parameters follow the argon2 package's recommended interactive settings.
func DeriveKey(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, 1, 64*1024, 4, keyLen)
}
