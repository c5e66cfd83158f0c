package repository

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "sb1:"
	nonceSize    = 24
)

var (
	ErrSealedNoKey   = errors.New("stored credential is sealed but no db.secret is configured")
	ErrSealedCorrupt = errors.New("stored credential cannot be opened")
)

// Sealer protects the WiFi passphrase at rest with NaCl secretbox. A Sealer
// without a key stores values as-is.
type Sealer struct {
	key *[32]byte
}

// NewSealer derives the box key from secret. Empty secret disables sealing.
func NewSealer(secret string) *Sealer {
	if secret == "" {
		return &Sealer{}
	}
	k := sha256.Sum256([]byte(secret))
	return &Sealer{key: &k}
}

// Seal returns the stored form of plain.
func (s *Sealer) Seal(plain string) (string, error) {
	if s == nil || s.key == nil || plain == "" {
		return plain, nil
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	box := secretbox.Seal(nonce[:], []byte(plain), &nonce, s.key)
	return sealedPrefix + base64.StdEncoding.EncodeToString(box), nil
}

// Open reverses Seal. Unsealed values pass through.
func (s *Sealer) Open(stored string) (string, error) {
	if !strings.HasPrefix(stored, sealedPrefix) {
		return stored, nil
	}
	if s == nil || s.key == nil {
		return "", ErrSealedNoKey
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(stored, sealedPrefix))
	if err != nil || len(raw) < nonceSize {
		return "", ErrSealedCorrupt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], raw[:nonceSize])
	plain, ok := secretbox.Open(nil, raw[nonceSize:], &nonce, s.key)
	if !ok {
		return "", ErrSealedCorrupt
	}
	return string(plain), nil
}
