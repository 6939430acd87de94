package model

import (
	"crypto/sha256"
	"encoding/binary"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	base62Chars = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// ShortCodeLength is the length of generated short codes.
	ShortCodeLength = 6

	// maxShortAttempts bounds attempts at ShortCodeLength before falling
	// back to the full-length encoding.
	maxShortAttempts = 64
)

// linkNamespace scopes content-addressed link IDs.
var linkNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://linkpro.co/links"))

// GenerateID returns a UUIDv5 derived from the URL, creation time and an
// attempt counter. The counter is bumped until the ID is unused in store.
func GenerateID(store *Store, rawURL string, createdAt time.Time) string {
	base := rawURL + "\x00" + createdAt.UTC().Format(time.RFC3339Nano)
	for attempt := 0; ; attempt++ {
		id := uuid.NewSHA1(linkNamespace, []byte(base+"\x00"+strconv.Itoa(attempt))).String()
		if store == nil || !store.HasID(id) {
			return id
		}
	}
}

// GenerateShortCode hashes the canonical URL plus an attempt counter and
// returns the first ShortCodeLength base62 characters not already used in
// store.
func GenerateShortCode(store *Store, rawURL string) string {
	canonical, err := Canonicalize(rawURL)
	if err != nil {
		canonical = rawURL
	}

	for attempt := 0; ; attempt++ {
		encoded := EncodeBase62(HashURL(canonical + "#" + strconv.Itoa(attempt)))
		code := encoded
		if attempt < maxShortAttempts && len(encoded) >= ShortCodeLength {
			code = encoded[:ShortCodeLength]
		}
		if store == nil || !store.HasShortCode(code) {
			return code
		}
	}
}

// Canonicalize normalizes a URL for hashing: lowercase host, no default
// port, no trailing slash, no fragment.
func Canonicalize(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	u.Host = strings.ToLower(u.Host)

	if u.Scheme == "https" && strings.HasSuffix(u.Host, ":443") {
		u.Host = strings.TrimSuffix(u.Host, ":443")
	}
	if u.Scheme == "http" && strings.HasSuffix(u.Host, ":80") {
		u.Host = strings.TrimSuffix(u.Host, ":80")
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	u.Fragment = ""

	return u.String(), nil
}

// HashURL returns the first 8 bytes of the SHA-256 of s.
func HashURL(s string) uint64 {
	h := sha256.Sum256([]byte(s))
	return binary.BigEndian.Uint64(h[:8])
}

// EncodeBase62 encodes a number to a base62 string.
func EncodeBase62(num uint64) string {
	if num == 0 {
		return string(base62Chars[0])
	}
	var buf [11]byte
	i := len(buf)
	for num > 0 {
		i--
		buf[i] = base62Chars[num%62]
		num /= 62
	}
	return string(buf[i:])
}
