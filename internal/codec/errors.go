package codec

import "codeberg.org/mutker/envsensed/internal/errors"

const (
	ErrColorOverflow  = errors.ErrorCode("codec_color_overflow")
	ErrColorNegative  = errors.ErrorCode("codec_color_negative")
	ErrShortPayload   = errors.ErrorCode("codec_short_payload")
	ErrMalformedColor = errors.ErrorCode("codec_malformed_color")
)
