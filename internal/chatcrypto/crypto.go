// Package chatcrypto implements the client-side message encryption layer:
// deterministic per-project key derivation and a fail-soft symmetric cipher
// for message bodies.
//
// Any process that knows a project id can derive the same key, so the key is
// only as strong as the hash of the project id. This mirrors the deployed
// scheme and is kept for migration fidelity.
package chatcrypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	keySize   = 32
	nonceSize = 12
)

// keySalt is a fixed application-level salt for project key derivation.
// Changing it invalidates every ciphertext produced by earlier builds.
var keySalt = []byte("teambridge/project-key/v1")

// DeriveProjectKey derives a 32-byte AES key from the project identifier via
// HKDF-SHA256 with a fixed salt. The derivation is deterministic: the same
// project id always yields the same key, and distinct ids yield distinct keys
// with overwhelming probability.
func DeriveProjectKey(projectID string) []byte {
	key := make([]byte, keySize)
	kdf := hkdf.New(sha256.New, []byte(projectID), keySalt, nil)
	if _, err := io.ReadFull(kdf, key); err != nil {
		// hkdf never fails for 32 bytes of output
		panic(err)
	}
	return key
}

// EncryptMessage encrypts a plaintext message body with AES-256-GCM under the
// key derived from projectID. A new random 12-byte nonce is generated per
// call, so encrypting the same plaintext twice produces different ciphertexts.
// The result is base64(nonce || ciphertext).
func EncryptMessage(plaintext string, projectID string) (string, error) {
	aesgcm, err := newGCM(projectID)
	if err != nil {
		return "", fmt.Errorf("cipher init error: %w", err)
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("nonce generation error: %w", err)
	}

	sealed := aesgcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// DecryptMessage decrypts a message body produced by EncryptMessage. It is
// deliberately fail-soft: on any failure (malformed base64, truncated
// payload, wrong project key, GCM auth failure) it returns an empty string
// instead of an error, so one corrupt message never breaks rendering of an
// entire conversation.
//
// An empty ciphertext short-circuits to an empty result without touching the
// cipher at all.
func DecryptMessage(ciphertext string, projectID string) string {
	if ciphertext == "" {
		return ""
	}

	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return ""
	}
	if len(raw) < nonceSize {
		return ""
	}

	aesgcm, err := newGCM(projectID)
	if err != nil {
		return ""
	}

	plaintext, err := aesgcm.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return ""
	}
	return string(plaintext)
}

func newGCM(projectID string) (cipher.AEAD, error) {
	block, err := aes.NewCipher(DeriveProjectKey(projectID))
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
