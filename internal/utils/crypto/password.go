package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/scrypt"
)

// scrypt parameters match Node's crypto.scrypt defaults so existing hashes stay valid.
const (
	scryptN      = 16384
	scryptR      = 8
	scryptP      = 1
	scryptKeyLen = 64
	saltBytes    = 16
)

var ErrMalformedHash = errors.New("malformed password hash")

// HashPassword returns "<hex key>.<hex salt>". The salt is used in its hex form as
// the scrypt salt.
func HashPassword(password string) (string, error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	salt := hex.EncodeToString(raw)

	key, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}
	return hex.EncodeToString(key) + "." + salt, nil
}

// VerifyPassword checks password against a stored scrypt hash. Legacy bcrypt hashes
// are accepted too.
func VerifyPassword(password, stored string) (bool, error) {
	if strings.HasPrefix(stored, "$2") {
		err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return err == nil, err
	}

	hashed, salt, ok := strings.Cut(stored, ".")
	if !ok || hashed == "" || salt == "" {
		return false, ErrMalformedHash
	}
	want, err := hex.DecodeString(hashed)
	if err != nil {
		return false, ErrMalformedHash
	}

	got, err := scrypt.Key([]byte(password), []byte(salt), scryptN, scryptR, scryptP, len(want))
	if err != nil {
		return false, fmt.Errorf("derive key: %w", err)
	}
	return subtle.ConstantTimeCompare(want, got) == 1, nil
}

// NeedsRehash reports whether stored uses a scheme other than the current scrypt format.
func NeedsRehash(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}
