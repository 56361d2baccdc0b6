package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"vendor-payout-gateway/internal/core/domain"
	"vendor-payout-gateway/pkg/apperror"
)

const (
	aesKeyLength = 32
	ivLength     = 16
)

// ivAlphabet matches the gateway's IV format: 16 alphanumeric characters
// transmitted in the clear alongside the ciphertext.
const ivAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AESCryptoService implements ports.CryptoService using AES-256-CBC with
// PKCS7 padding, matching the gateway's wire format. The key is the shared
// secret padded with zero bytes or truncated to 32 bytes.
type AESCryptoService struct {
	key []byte
}

// NewAESCryptoService creates a crypto service from the shared secret.
func NewAESCryptoService(secret string) *AESCryptoService {
	key := make([]byte, aesKeyLength)
	copy(key, []byte(secret))
	return &AESCryptoService{key: key}
}

// Encrypt CBC-encrypts plaintext under a fresh random IV and returns the
// base64 ciphertext with the IV in the clear.
func (s *AESCryptoService) Encrypt(plaintext []byte) (*domain.Envelope, error) {
	iv, err := randomIV()
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, []byte(iv)).CryptBlocks(ciphertext, padded)

	return &domain.Envelope{
		EncData: base64.StdEncoding.EncodeToString(ciphertext),
		IV:      iv,
	}, nil
}

// Decrypt reverses Encrypt. It fails closed: any malformed base64, bad IV
// length, misaligned ciphertext, or invalid padding returns an error
// rather than partial plaintext.
func (s *AESCryptoService) Decrypt(env *domain.Envelope) ([]byte, error) {
	if len(env.IV) != ivLength {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("iv must be %d bytes, got %d", ivLength, len(env.IV)))
	}

	ciphertext, err := base64.StdEncoding.DecodeString(env.EncData)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("decoding ciphertext: %w", err))
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return nil, apperror.ErrEncryptionFailure(fmt.Errorf("ciphertext length %d not a multiple of block size", len(ciphertext)))
	}

	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, []byte(env.IV)).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return nil, apperror.ErrEncryptionFailure(err)
	}
	return unpadded, nil
}

// SelfTest round-trips a probe value through the codec. Run at startup so
// a misconfigured key surfaces before the first gateway call.
func (s *AESCryptoService) SelfTest() error {
	const probe = `{"probe":"codec-self-test"}`

	env, err := s.Encrypt([]byte(probe))
	if err != nil {
		return fmt.Errorf("codec self-test encrypt: %w", err)
	}
	out, err := s.Decrypt(env)
	if err != nil {
		return fmt.Errorf("codec self-test decrypt: %w", err)
	}
	if string(out) != probe {
		return fmt.Errorf("codec self-test: round-trip mismatch")
	}
	return nil
}

func randomIV() (string, error) {
	b := make([]byte, ivLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating iv: %w", err)
	}
	for i := range b {
		b[i] = ivAlphabet[int(b[i])%len(ivAlphabet)]
	}
	return string(b), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("invalid padded length %d", len(data))
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("invalid padding byte %d", padding)
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, fmt.Errorf("inconsistent padding")
		}
	}
	return data[:len(data)-padding], nil
}
