package security

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	// inviteCodeAlphabet drops ambiguous glyphs (0/O, 1/I/L) so codes survive
	// being read aloud or retyped from a shared screenshot.
	inviteCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	// tokenAlphabet is URL-safe; 64 symbols yield 6 bits of entropy per char.
	tokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"

	InviteCodeLength = 8
	// ReturnTokenLength at 6 bits per char gives 192 bits of entropy.
	ReturnTokenLength = 32
)

var (
	errNegativeLength = errors.New("length must be non-negative")
	errEmptyAlphabet  = errors.New("alphabet must not be empty")
)

// RandomString returns a cryptographically secure, unbiased string of the
// requested length drawn from the alphabet.
func RandomString(length int, alphabet string) (string, error) {
	if length < 0 {
		return "", errNegativeLength
	}
	if length == 0 {
		return "", nil
	}
	if len(alphabet) == 0 {
		return "", errEmptyAlphabet
	}

	limit := big.NewInt(int64(len(alphabet)))
	value := make([]byte, length)
	for index := range value {
		position, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		value[index] = alphabet[position.Int64()]
	}

	return string(value), nil
}

// RandomInviteCode returns a short shareable pairing code.
func RandomInviteCode() (string, error) {
	return RandomString(InviteCodeLength, inviteCodeAlphabet)
}

// RandomReturnToken returns a rotating recovery token safe to embed in a URL.
func RandomReturnToken() (string, error) {
	return RandomString(ReturnTokenLength, tokenAlphabet)
}
