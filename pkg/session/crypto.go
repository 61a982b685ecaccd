package session

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	iterations = 100000
)

var sealedHeader = []byte("IGSAVER-ENC1\n")

func isSealed(content []byte) bool {
	return bytes.HasPrefix(content, sealedHeader)
}

// seal encrypts data with a key derived from passphrase. The output is the
// header line, the base64 salt on its own line, then the base64 ciphertext.
func seal(data []byte, passphrase string) ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
	ciphertext, err := encrypt(data, key)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Write(sealedHeader)
	buf.WriteString(base64.StdEncoding.EncodeToString(salt))
	buf.WriteByte('\n')
	buf.WriteString(base64.StdEncoding.EncodeToString(ciphertext))
	return buf.Bytes(), nil
}

func unseal(content []byte, passphrase string) ([]byte, error) {
	body := bytes.TrimPrefix(content, sealedHeader)
	parts := bytes.SplitN(bytes.TrimSpace(body), []byte("\n"), 2)
	if len(parts) != 2 {
		return nil, errors.New("malformed encrypted session")
	}

	salt, err := base64.StdEncoding.DecodeString(string(parts[0]))
	if err != nil {
		return nil, err
	}
	ciphertext, err := base64.StdEncoding.DecodeString(string(parts[1]))
	if err != nil {
		return nil, err
	}

	key := pbkdf2.Key([]byte(passphrase), salt, iterations, keySize, sha256.New)
	return decrypt(ciphertext, key)
}

// encrypt encrypts data using AES-GCM
func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

// decrypt decrypts data using AES-GCM
func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, ciphertext, nil)
}
