// Package pbe implements the password-based cipher used for encrypted values in
// Maven settings and settings-security documents.
//
// An encrypted value is decorated with braces and holds base64 of
//
//	salt[8] | padLen[1] | AES-128-CBC(clear) | filler[padLen]
//
// where the AES key and IV are the two halves of SHA-256(password || salt).
package pbe

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	saltSize  = 8
	chunkSize = 16
	keySize   = 16
)

// SecurityMasterKey is the fixed password protecting the master password
// stored in settings-security.xml.
const SecurityMasterKey = "settings.security"

var decoratedPattern = regexp.MustCompile(`(?s)^.*?[^\\]?\{(.*?[^\\])\}.*$`)

// Cipher encrypts and decrypts decorated values
type Cipher struct {
	rand io.Reader
}

// New creates a cipher reading salt and filler bytes from crypto/rand
func New() *Cipher {
	return &Cipher{rand: rand.Reader}
}

// NewWithRand creates a cipher with a caller supplied random source
func NewWithRand(r io.Reader) *Cipher {
	return &Cipher{rand: r}
}

// IsEncrypted reports whether s contains a braced, encrypted payload
func IsEncrypted(s string) bool {
	if s == "" {
		return false
	}
	return decoratedPattern.MatchString(s)
}

// Decorate wraps an encrypted payload in braces
func Decorate(s string) string {
	return "{" + s + "}"
}

// Undecorate extracts the payload between the braces
func Undecorate(s string) (string, error) {
	m := decoratedPattern.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("value is not decorated")
	}
	return m[1], nil
}

// Encrypt encrypts clear with password and returns the base64 payload
func (c *Cipher) Encrypt(clear, password string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(c.rand, salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	mode, err := newMode(password, salt, true)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(clear), aes.BlockSize)
	encrypted := make([]byte, len(padded))
	mode.CryptBlocks(encrypted, padded)

	padLen := chunkSize - (saltSize+len(encrypted)+1)%chunkSize
	filler := make([]byte, padLen)
	if _, err := io.ReadFull(c.rand, filler); err != nil {
		return "", fmt.Errorf("failed to generate padding: %w", err)
	}

	var buf bytes.Buffer
	buf.Write(salt)
	buf.WriteByte(byte(padLen))
	buf.Write(encrypted)
	buf.Write(filler)

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncryptDecorated encrypts clear and wraps the result in braces
func (c *Cipher) EncryptDecorated(clear, password string) (string, error) {
	payload, err := c.Encrypt(clear, password)
	if err != nil {
		return "", err
	}
	return Decorate(payload), nil
}

// Decrypt decrypts a base64 payload produced by Encrypt
func (c *Cipher) Decrypt(payload, password string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(payload), ""))
	if err != nil {
		return "", fmt.Errorf("failed to decode payload: %w", err)
	}

	if len(data) < saltSize+1 {
		return "", fmt.Errorf("payload too short (%d bytes)", len(data))
	}

	salt := data[:saltSize]
	padLen := int(data[saltSize])
	encLen := len(data) - saltSize - 1 - padLen
	if encLen <= 0 || encLen%aes.BlockSize != 0 {
		return "", fmt.Errorf("payload has invalid length %d", encLen)
	}

	mode, err := newMode(password, salt, false)
	if err != nil {
		return "", err
	}

	clear := make([]byte, encLen)
	mode.CryptBlocks(clear, data[saltSize+1:saltSize+1+encLen])

	clear, err = pkcs7Unpad(clear, aes.BlockSize)
	if err != nil {
		return "", err
	}
	// A wrong password can still unpad cleanly
	if !utf8.Valid(clear) {
		return "", fmt.Errorf("decrypted value is not valid UTF-8")
	}
	return string(clear), nil
}

// DecryptDecorated decrypts the braced payload inside s
func (c *Cipher) DecryptDecorated(s, password string) (string, error) {
	payload, err := Undecorate(s)
	if err != nil {
		return "", err
	}
	return c.Decrypt(payload, password)
}

func newMode(password string, salt []byte, encrypt bool) (cipher.BlockMode, error) {
	h := sha256.New()
	h.Write([]byte(password))
	h.Write(salt)
	keyAndIV := h.Sum(nil)

	block, err := aes.NewCipher(keyAndIV[:keySize])
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := keyAndIV[keySize : keySize+aes.BlockSize]
	if encrypt {
		return cipher.NewCBCEncrypter(block, iv), nil
	}
	return cipher.NewCBCDecrypter(block, iv), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(data, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("bad block size")
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize {
		return nil, fmt.Errorf("bad padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("bad padding")
		}
	}
	return data[:len(data)-n], nil
}
