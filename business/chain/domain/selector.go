package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Selector keywords.
const (
	KeywordGenesis        = "genesis"
	KeywordTip            = "tip"
	KeywordHeight         = "height"
	KeywordDigest         = "digest"
	KeywordHeightOrDigest = "height_or_digest"
	KeywordIndex          = "index"
)

// BlockHeight is a position in the chain. Genesis is 0.
type BlockHeight uint64

// ParseBlockHeight parses a base-10 height.
func ParseBlockHeight(s string) (BlockHeight, error) {
	h, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, &HeightParseError{Input: s, Err: err}
	}
	return BlockHeight(h), nil
}

type selectorKind uint8

const (
	kindGenesis selectorKind = iota + 1
	kindTip
	kindHeight
	kindDigest
)

// BlockSelector names one block. The zero value is invalid; build one with
// Genesis, Tip, AtHeight or AtDigest, or by parsing.
type BlockSelector struct {
	kind   selectorKind
	height BlockHeight
	digest Digest
}

// Genesis selects the first block.
func Genesis() BlockSelector { return BlockSelector{kind: kindGenesis} }

// Tip selects the current chain tip.
func Tip() BlockSelector { return BlockSelector{kind: kindTip} }

// AtHeight selects the canonical block at h.
func AtHeight(h BlockHeight) BlockSelector { return BlockSelector{kind: kindHeight, height: h} }

// AtDigest selects the block with digest d.
func AtDigest(d Digest) BlockSelector { return BlockSelector{kind: kindDigest, digest: d} }

// IsGenesis reports whether s selects the genesis block.
func (s BlockSelector) IsGenesis() bool { return s.kind == kindGenesis }

// IsTip reports whether s selects the tip.
func (s BlockSelector) IsTip() bool { return s.kind == kindTip }

// Height returns the selected height and whether s is a height selector.
func (s BlockSelector) Height() (BlockHeight, bool) {
	return s.height, s.kind == kindHeight
}

// Digest returns the selected digest and whether s is a digest selector.
func (s BlockSelector) Digest() (Digest, bool) {
	return s.digest, s.kind == kindDigest
}

// Valid reports whether s was built by a constructor.
func (s BlockSelector) Valid() bool {
	return s.kind >= kindGenesis && s.kind <= kindDigest
}

// String renders the canonical text form.
func (s BlockSelector) String() string {
	switch s.kind {
	case kindGenesis:
		return KeywordGenesis
	case kindTip:
		return KeywordTip
	case kindHeight:
		return KeywordHeight + "/" + strconv.FormatUint(uint64(s.height), 10)
	case kindDigest:
		return KeywordDigest + "/" + s.digest.String()
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s BlockSelector) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("marshal invalid block selector")
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *BlockSelector) UnmarshalText(b []byte) error {
	parsed, err := ParseBlockSelector(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseBlockSelector parses the block grammar:
//
//	genesis | tip | height/<n> | digest/<hex> | height_or_digest/<value>
func ParseBlockSelector(s string) (BlockSelector, error) {
	key, value, hasValue := strings.Cut(s, "/")

	switch key {
	case KeywordGenesis:
		// "genesis/" is rejected too, so each selector has one spelling.
		if hasValue {
			return BlockSelector{}, ErrGenesisTakesNoArgument
		}
		return Genesis(), nil

	case KeywordTip:
		if hasValue {
			return BlockSelector{}, ErrTipTakesNoArgument
		}
		return Tip(), nil

	case KeywordHeight:
		h, err := ParseBlockHeight(value)
		if err != nil {
			return BlockSelector{}, err
		}
		return AtHeight(h), nil

	case KeywordDigest:
		d, err := ParseDigest(value)
		if err != nil {
			return BlockSelector{}, err
		}
		return AtDigest(d), nil

	case KeywordHeightOrDigest:
		return parseHeightOrDigest(value)

	default:
		return BlockSelector{}, &InvalidPrefixError{Prefix: key}
	}
}

// parseHeightOrDigest resolves free-text input that may be a height or a
// digest. Both interpretations are attempted.
func parseHeightOrDigest(value string) (BlockSelector, error) {
	h, hErr := ParseBlockHeight(value)
	d, dErr := ParseDigest(value)
	return pickHeightOrDigest(h, hErr, d, dErr)
}

// pickHeightOrDigest applies the tie-break: a valid digest wins over a
// valid height.
func pickHeightOrDigest(h BlockHeight, hErr error, d Digest, dErr error) (BlockSelector, error) {
	switch {
	case dErr == nil:
		return AtDigest(d), nil
	case hErr == nil:
		return AtHeight(h), nil
	default:
		return BlockSelector{}, &NeitherHeightNorDigestError{
			Height: hErr.(*HeightParseError),
			Digest: dErr.(*DigestParseError),
		}
	}
}
