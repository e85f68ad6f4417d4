package util

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	fieldKeyLength = 32
	fieldIVLength  = aes.BlockSize
)

var ErrDecryption = errors.New("decryption failed")

// FieldCipher encrypts individual column values with AES-256-CBC under one
// process-wide key and IV. The IV is fixed, so equal plaintexts produce equal
// ciphertexts; stored data depends on that, see DESIGN.md before changing it.
type FieldCipher struct {
	block cipher.Block
	iv    []byte
}

func NewFieldCipher(key, iv string) (*FieldCipher, error) {
	if len(key) != fieldKeyLength {
		return nil, fmt.Errorf("encryption key must be %d bytes, got %d", fieldKeyLength, len(key))
	}
	if len(iv) != fieldIVLength {
		return nil, fmt.Errorf("encryption iv must be %d bytes, got %d", fieldIVLength, len(iv))
	}
	block, err := aes.NewCipher([]byte(key))
	if err != nil {
		return nil, err
	}
	return &FieldCipher{block: block, iv: []byte(iv)}, nil
}

// Encrypt returns the hex encoded ciphertext of plaintext (PKCS#7 padded).
func (c *FieldCipher) Encrypt(plaintext string) string {
	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(out, padded)
	return hex.EncodeToString(out)
}

func (c *FieldCipher) Decrypt(ciphertextHex string) (string, error) {
	raw, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryption, err)
	}
	if len(raw) == 0 || len(raw)%aes.BlockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a whole number of blocks", ErrDecryption)
	}
	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(out, raw)
	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(plain), nil
}

// HashToken is the one-way digest stored in place of reset tokens.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("%w: bad padding", ErrDecryption)
		}
	}
	return data[:len(data)-n], nil
}
