package walletconnect

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

var (
	errBadMAC     = errors.New("payload hmac mismatch")
	errBadPadding = errors.New("invalid pkcs7 padding")
)

// encryptedPayload is the hex-encoded envelope the bridge relays.
type encryptedPayload struct {
	Data string `json:"data"`
	HMAC string `json:"hmac"`
	IV   string `json:"iv"`
}

func newKey() ([]byte, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate session key: %w", err)
	}
	return key, nil
}

// encrypt seals plaintext with AES-256-CBC and signs ciphertext||iv with
// HMAC-SHA256 under the same key.
func encrypt(key, plaintext []byte) (encryptedPayload, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return encryptedPayload{}, err
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return encryptedPayload{}, err
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ct, padded)

	return encryptedPayload{
		Data: hex.EncodeToString(ct),
		HMAC: hex.EncodeToString(sign(key, ct, iv)),
		IV:   hex.EncodeToString(iv),
	}, nil
}

func decrypt(key []byte, p encryptedPayload) ([]byte, error) {
	ct, err := hex.DecodeString(p.Data)
	if err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	iv, err := hex.DecodeString(p.IV)
	if err != nil {
		return nil, fmt.Errorf("decode iv: %w", err)
	}
	mac, err := hex.DecodeString(p.HMAC)
	if err != nil {
		return nil, fmt.Errorf("decode hmac: %w", err)
	}
	if !hmac.Equal(mac, sign(key, ct, iv)) {
		return nil, errBadMAC
	}
	if len(iv) != aes.BlockSize || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return nil, errBadPadding
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)
	return pkcs7Unpad(out, aes.BlockSize)
}

func sign(key, ct, iv []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(ct)
	h.Write(iv)
	return h.Sum(nil)
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(append([]byte(nil), b...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 {
		return nil, errBadPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, errBadPadding
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, errBadPadding
		}
	}
	return b[:len(b)-n], nil
}
