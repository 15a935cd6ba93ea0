package codecstack

import (
	"errors"
	"fmt"
)

// ErrInvalidBuffer reports a buffer whose bytes, shape and dtype disagree.
var ErrInvalidBuffer = errors.New("codecstack: invalid buffer")

// describeCodec names a codec for error messages: String() when available,
// the dynamic type otherwise.
func describeCodec(c Codec) string {
	if s, ok := c.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", c)
}

// StageEncodeError reports a failed encode at one stage of a stack.
// Stage is the codec's 0-indexed position in encode order.
type StageEncodeError struct {
	Stage int
	Codec Codec
	Err   error
}

func (e *StageEncodeError) Error() string {
	return fmt.Sprintf("codecstack: encode stage %d (%s): %v", e.Stage, describeCodec(e.Codec), e.Err)
}

func (e *StageEncodeError) Unwrap() error { return e.Err }

// StageDecodeError reports a failed decode at one stage of a stack.
// Stage is the codec's position in encode order; decode visits stages in
// reverse, so stage len-1 fails first.
type StageDecodeError struct {
	Stage int
	Codec Codec
	Err   error
}

func (e *StageDecodeError) Error() string {
	return fmt.Sprintf("codecstack: decode stage %d (%s): %v", e.Stage, describeCodec(e.Codec), e.Err)
}

func (e *StageDecodeError) Unwrap() error { return e.Err }

// ShapeMismatchError reports that EncodeDecode saw a decoded stage produce
// a shape other than the one captured entering the matching encode stage.
// Either the codec is faulty or the buffer was corrupted in between.
type ShapeMismatchError struct {
	Stage int
	Codec Codec
	Want  []int
	Got   []int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("codecstack: decode stage %d (%s): shape mismatch: want %v, got %v",
		e.Stage, describeCodec(e.Codec), e.Want, e.Got)
}

// DTypeMismatchError is the dtype counterpart of ShapeMismatchError.
type DTypeMismatchError struct {
	Stage int
	Codec Codec
	Want  DType
	Got   DType
}

func (e *DTypeMismatchError) Error() string {
	return fmt.Sprintf("codecstack: decode stage %d (%s): dtype mismatch: want %s, got %s",
		e.Stage, describeCodec(e.Codec), e.Want, e.Got)
}
