package domain

import (
	"errors"
	"fmt"
)

// Errors returned by the selector grammars.
var (
	ErrGenesisTakesNoArgument = errors.New("genesis selector does not take an argument")
	ErrTipTakesNoArgument     = errors.New("tip selector does not take an argument")
)

// HeightParseError reports a block height that is not a base-10 uint64.
type HeightParseError struct {
	Input string
	Err   error
}

func (e *HeightParseError) Error() string {
	return fmt.Sprintf("invalid block height %q: %v", e.Input, e.Err)
}

func (e *HeightParseError) Unwrap() error { return e.Err }

// DigestParseError reports a digest that is not DigestLen bytes of hex.
type DigestParseError struct {
	Input  string
	Reason string
}

func (e *DigestParseError) Error() string {
	return fmt.Sprintf("invalid digest %q: %s", e.Input, e.Reason)
}

// NeitherHeightNorDigestError carries both failures from a
// height_or_digest value.
type NeitherHeightNorDigestError struct {
	Height *HeightParseError
	Digest *DigestParseError
}

func (e *NeitherHeightNorDigestError) Error() string {
	return fmt.Sprintf("value is neither a height (%v) nor a digest (%s)", e.Height.Err, e.Digest.Reason)
}

// Unwrap exposes both underlying errors to errors.Is and errors.As.
func (e *NeitherHeightNorDigestError) Unwrap() []error {
	return []error{e.Height, e.Digest}
}

// WrongSegmentCountError reports an announcement selector with an
// unsupported number of "/"-separated segments.
type WrongSegmentCountError struct {
	Count int
}

func (e *WrongSegmentCountError) Error() string {
	return fmt.Sprintf("announcement selector has %d segments, want 2, 3 or 4", e.Count)
}

// InvalidKeywordError reports an unexpected keyword in the third segment of
// a four-segment announcement selector.
type InvalidKeywordError struct {
	Prefix  string
	Keyword string
}

func (e *InvalidKeywordError) Error() string {
	return fmt.Sprintf("invalid keyword %q after %q, want \"index\"", e.Keyword, e.Prefix)
}

// InvalidPrefixError reports an unknown selector prefix.
type InvalidPrefixError struct {
	Prefix string
}

func (e *InvalidPrefixError) Error() string {
	return fmt.Sprintf("invalid selector prefix %q", e.Prefix)
}

// IndexError reports an announcement index that failed to parse. Block is
// the selector that was already resolved when the failure happened.
type IndexError struct {
	Block BlockSelector
	Input string
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("invalid announcement index %q for %s: %v", e.Input, e.Block, e.Err)
}

func (e *IndexError) Unwrap() error { return e.Err }
