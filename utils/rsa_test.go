package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadCipherRoundTripOAEP(t *testing.T) {
	pc, err := LoadPayloadCipher("")
	require.NoError(t, err)

	enc, err := EncryptPayload(pc.PublicKey(), []byte(`{"email":"a@b.c","password":"x"}`))
	require.NoError(t, err)

	plain, err := pc.Decrypt(enc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"a@b.c","password":"x"}`, string(plain))
	assert.Contains(t, pc.PublicKeyPEM(), "BEGIN PUBLIC KEY")
}

func TestPayloadCipherAcceptsPKCS1v15(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pc, err := NewPayloadCipher(key)
	require.NoError(t, err)

	ct, err := rsa.EncryptPKCS1v15(rand.Reader, &key.PublicKey, []byte("hello"))
	require.NoError(t, err)

	plain, err := pc.Decrypt(base64.StdEncoding.EncodeToString(ct))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(plain))
}

func TestPayloadCipherRejectsGarbage(t *testing.T) {
	pc, err := LoadPayloadCipher("")
	require.NoError(t, err)

	_, err = pc.Decrypt("not base64 at all!")
	assert.Error(t, err)

	_, err = pc.Decrypt(base64.StdEncoding.EncodeToString([]byte("short")))
	assert.Error(t, err)
}

func TestLoadPayloadCipherFromPKCS8File(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "key.pem")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0o600))

	pc, err := LoadPayloadCipher(path)
	require.NoError(t, err)
	assert.Equal(t, key.PublicKey.N, pc.PublicKey().N)
}
