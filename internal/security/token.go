package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"math/big"
	"regexp"
	"strings"
)

const (
	sessionTokenBytes      = 32
	VerificationCodeLength = 6
	verificationAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var verificationCodePattern = regexp.MustCompile(`^[A-Z0-9]{6}$`)

type TokenGenerator struct{}

func NewTokenGenerator() TokenGenerator {
	return TokenGenerator{}
}

// GenerateSessionToken returns a URL-safe token usable as a cookie value.
func (TokenGenerator) GenerateSessionToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (TokenGenerator) GenerateVerificationCode() (string, error) {
	max := big.NewInt(int64(len(verificationAlphabet)))
	code := make([]byte, VerificationCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate verification code: %w", err)
		}
		code[i] = verificationAlphabet[n.Int64()]
	}
	return string(code), nil
}

func NormalizeVerificationCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func IsVerificationCodeFormat(code string) bool {
	return verificationCodePattern.MatchString(code)
}

// HashSessionToken derives the persisted lookup key for a session token.
func HashSessionToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
