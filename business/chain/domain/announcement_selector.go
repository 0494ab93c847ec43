package domain

import (
	"strconv"
	"strings"
)

// AnnouncementSelector names one announcement: the Index-th announcement
// carried by the selected block. Index is not checked against the block.
type AnnouncementSelector struct {
	Block BlockSelector
	Index uint64
}

// String renders the canonical text form, e.g. "height/7/0" or "tip/2".
func (a AnnouncementSelector) String() string {
	return a.Block.String() + "/" + strconv.FormatUint(a.Index, 10)
}

// MarshalText implements encoding.TextMarshaler.
func (a AnnouncementSelector) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AnnouncementSelector) UnmarshalText(b []byte) error {
	parsed, err := ParseAnnouncementSelector(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ParseAnnouncementSelector parses the announcement grammar:
//
//	genesis/<i> | tip/<i>
//	height/<n>/<i> | digest/<hex>/<i>
//	height_or_digest/<value>/index/<i>
func ParseAnnouncementSelector(s string) (AnnouncementSelector, error) {
	parts := strings.Split(s, "/")
	prefix := parts[0]

	switch len(parts) {
	case 2:
		switch prefix {
		case KeywordGenesis:
			return withIndex(Genesis(), parts[1])
		case KeywordTip:
			return withIndex(Tip(), parts[1])
		default:
			return AnnouncementSelector{}, &InvalidPrefixError{Prefix: prefix}
		}

	case 3:
		switch prefix {
		case KeywordGenesis:
			return AnnouncementSelector{}, ErrGenesisTakesNoArgument
		case KeywordTip:
			return AnnouncementSelector{}, ErrTipTakesNoArgument
		case KeywordHeight:
			h, err := ParseBlockHeight(parts[1])
			if err != nil {
				return AnnouncementSelector{}, err
			}
			return withIndex(AtHeight(h), parts[2])
		case KeywordDigest:
			d, err := ParseDigest(parts[1])
			if err != nil {
				return AnnouncementSelector{}, err
			}
			return withIndex(AtDigest(d), parts[2])
		default:
			return AnnouncementSelector{}, &InvalidPrefixError{Prefix: prefix}
		}

	case 4:
		switch {
		case prefix == KeywordGenesis:
			return AnnouncementSelector{}, ErrGenesisTakesNoArgument
		case prefix == KeywordTip:
			return AnnouncementSelector{}, ErrTipTakesNoArgument
		case prefix == KeywordHeightOrDigest && parts[2] == KeywordIndex:
			block, err := parseHeightOrDigest(parts[1])
			if err != nil {
				return AnnouncementSelector{}, err
			}
			return withIndex(block, parts[3])
		default:
			return AnnouncementSelector{}, &InvalidKeywordError{Prefix: prefix, Keyword: parts[2]}
		}

	default:
		return AnnouncementSelector{}, &WrongSegmentCountError{Count: len(parts)}
	}
}

func withIndex(block BlockSelector, raw string) (AnnouncementSelector, error) {
	i, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return AnnouncementSelector{}, &IndexError{Block: block, Input: raw, Err: err}
	}
	return AnnouncementSelector{Block: block, Index: i}, nil
}
