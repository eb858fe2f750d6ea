package logger

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

const defaultHashSalt = "default-salt-change-in-production"

// Hasher turns user ids into short salted digests so log lines can be
// correlated per user without exposing the id. Set LOG_HASH_SALT in production.
type Hasher struct {
	salt []byte
}

func NewHasher(salt string) Hasher {
	if salt == "" {
		salt = defaultHashSalt
	}
	return Hasher{salt: []byte(salt)}
}

// UserID returns the first 8 hex characters of sha256(id || salt).
func (h Hasher) UserID(userID int64) string {
	d := sha256.New()
	_ = binary.Write(d, binary.BigEndian, userID)
	d.Write(h.salt)
	return hex.EncodeToString(d.Sum(nil))[:8]
}

// RedactNote replaces a free-text note (expense description, mail body) with
// its word and character counts.
func RedactNote(note string) string {
	if note == "" {
		return "<empty>"
	}
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(strings.Fields(note)), utf8.RuneCountInString(note))
}

// Preview keeps the first three characters of long values. Values of ten
// characters or fewer are reduced to their length.
func Preview(text string) string {
	n := utf8.RuneCountInString(text)
	switch {
	case n == 0:
		return "<empty>"
	case n <= 10:
		return fmt.Sprintf("<%d chars>", n)
	}
	return fmt.Sprintf("%s...<%d chars>", string([]rune(text)[:3]), n)
}

// RedactEmail keeps the first character of the local part and the domain.
func RedactEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		return Preview(email)
	}
	r, _ := utf8.DecodeRuneInString(local)
	return string(r) + "***@" + domain
}
