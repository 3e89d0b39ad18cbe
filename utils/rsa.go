package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"hash"
	"os"
	"strings"
)

// PayloadCipher decrypts credential envelopes encrypted by the mobile apps
// with the server's RSA public key.
type PayloadCipher struct {
	key       *rsa.PrivateKey
	publicPEM string
}

// LoadPayloadCipher reads a PEM private key (PKCS#1 or PKCS#8) from path.
// An empty path generates an ephemeral 2048-bit key.
func LoadPayloadCipher(path string) (*PayloadCipher, error) {
	if path == "" {
		key, err := rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, fmt.Errorf("failed to generate RSA key: %w", err)
		}
		return NewPayloadCipher(key)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read RSA key: %w", err)
	}
	key, err := ParseRSAPrivateKey(raw)
	if err != nil {
		return nil, err
	}
	return NewPayloadCipher(key)
}

// NewPayloadCipher wraps an existing key.
func NewPayloadCipher(key *rsa.PrivateKey) (*PayloadCipher, error) {
	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to encode RSA public key: %w", err)
	}
	block := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return &PayloadCipher{key: key, publicPEM: string(block)}, nil
}

// ParseRSAPrivateKey decodes a PEM encoded RSA private key.
func ParseRSAPrivateKey(raw []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, errors.New("no PEM block found in RSA key")
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA key: %w", err)
	}
	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, errors.New("private key is not RSA")
	}
	return key, nil
}

// PublicKeyPEM returns the PEM encoded public key handed to clients.
func (p *PayloadCipher) PublicKeyPEM() string {
	return p.publicPEM
}

// PublicKey exposes the public half of the key.
func (p *PayloadCipher) PublicKey() *rsa.PublicKey {
	return &p.key.PublicKey
}

// Decrypt decodes a base64 ciphertext and decrypts it. OAEP with SHA-256 is
// tried first, then OAEP with SHA-1, then PKCS#1 v1.5.
func (p *PayloadCipher) Decrypt(encoded string) ([]byte, error) {
	ciphertext, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid payload encoding: %w", err)
	}

	for _, h := range []func() hash.Hash{sha256.New, sha1.New} {
		if plain, err := rsa.DecryptOAEP(h(), rand.Reader, p.key, ciphertext, nil); err == nil {
			return plain, nil
		}
	}
	plain, err := rsa.DecryptPKCS1v15(rand.Reader, p.key, ciphertext)
	if err != nil {
		return nil, errors.New("failed to decrypt payload")
	}
	return plain, nil
}

// EncryptPayload is the client-side counterpart of Decrypt, used by tooling and tests.
func EncryptPayload(pub *rsa.PublicKey, plain []byte) (string, error) {
	ciphertext, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, pub, plain, nil)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.URLEncoding.DecodeString(s)
}
