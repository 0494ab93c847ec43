package domain

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// DigestLen is the width of a block digest in bytes.
const DigestLen = 40

// Digest identifies a block. It renders as 80 lowercase hex characters.
type Digest [DigestLen]byte

// ParseDigest decodes a hex digest. Upper- and lowercase are accepted.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != 2*DigestLen {
		return d, &DigestParseError{
			Input:  s,
			Reason: fmt.Sprintf("want %d hex characters, got %d", 2*DigestLen, len(s)),
		}
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, &DigestParseError{Input: s, Reason: err.Error()}
	}
	return d, nil
}

// String returns the lowercase hex form.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns an abbreviated form for logs and the console.
func (d Digest) Short() string {
	s := d.String()
	return s[:8] + "…" + s[len(s)-8:]
}

// IsZero reports whether d is the zero digest.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(b []byte) error {
	parsed, err := ParseDigest(strings.TrimSpace(string(b)))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
