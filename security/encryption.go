package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	ErrEmptySecret   = errors.New("encryption secret is required")
	ErrBadCiphertext = errors.New("malformed ciphertext")
)

// Service provides symmetric encryption, integrity hashing and masking of
// sensitive payment fields. Key material is derived once at construction
// and never exposed afterwards.
type Service struct {
	aead   cipher.AEAD
	macKey []byte
}

func New(secret string) (s *Service, err error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	key := sha256.Sum256([]byte(secret))
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("failed to build cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to build aead: %w", err)
	}

	mac := sha256.Sum256(append([]byte("mac:"), secret...))
	return &Service{aead: aead, macKey: mac[:]}, nil
}

// Envelope is the transportable form of an encrypted payload.
type Envelope struct {
	// Base64 nonce-prefixed ciphertext
	Data string `json:"data"`
	// Cipher identifier, fixed per service version
	Algorithm string `json:"algorithm"`
}

const algorithm = "AES-256-GCM"

func (s *Service) Encrypt(plaintext []byte) (env Envelope, err error) {
	nonce := make([]byte, s.aead.NonceSize())
	_, err = rand.Read(nonce)
	if err != nil {
		return env, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, plaintext, nil)
	env = Envelope{
		Data:      base64.StdEncoding.EncodeToString(sealed),
		Algorithm: algorithm,
	}
	return env, nil
}

func (s *Service) Decrypt(env Envelope) (plaintext []byte, err error) {
	raw, err := base64.StdEncoding.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ciphertext: %w", err)
	}

	if len(raw) < s.aead.NonceSize() {
		return nil, ErrBadCiphertext
	}

	nonce, sealed := raw[:s.aead.NonceSize()], raw[s.aead.NonceSize():]
	plaintext, err = s.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open ciphertext: %w", err)
	}
	return plaintext, nil
}

// Hash returns a deterministic hex HMAC-SHA256 digest of payload. The same
// digest is used for webhook signatures on both ends.
func (s *Service) Hash(payload []byte) (digest string) {
	mac := hmac.New(sha256.New, s.macKey)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the payload digest and compares it against
// signature in constant time.
func (s *Service) VerifySignature(payload []byte, signature string) (ok bool) {
	expected := s.Hash(payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}
