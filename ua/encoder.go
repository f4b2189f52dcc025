// Package ua implements the OPC-UA binary encoding (OPC-UA Part 6): a
// self-describing codec for primitives, strings, Guids, NodeIds, Variants,
// and the polymorphic structured types registered by the services package.
//
// Encoder and Decoder are the two dual objects the codec exposes. Encoder
// is append-only and grows a Go slice geometrically (via append); Decoder
// is a cursor over an immutable input that tracks bytes left. Every
// primitive has a WriteX/ReadX pair; the encoder validates range and
// fails with an EncodingError, the decoder only validates that enough
// bytes remain and fails with a DecodingError on short input.
package ua

import (
	"math"

	"opcuacore/uaerrors"
)

// Encoder accumulates encoded bytes. The zero value is ready to use.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an Encoder with cap pre-reserved, avoiding repeated
// reallocation for callers that know roughly how large the result will be.
func NewEncoder(sizeHint int) *Encoder {
	return &Encoder{buf: make([]byte, 0, sizeHint)}
}

// Bytes returns the accumulated buffer. The Encoder remains usable
// afterwards; callers that want an owned copy should clone it themselves.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len reports the number of bytes written so far.
func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) WriteByte(v byte) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) WriteBytes(v []byte) {
	e.buf = append(e.buf, v...)
}

func (e *Encoder) WriteBool(v bool) {
	if v {
		e.WriteByte(1)
	} else {
		e.WriteByte(0)
	}
}

func (e *Encoder) WriteUint8(v uint8) {
	e.WriteByte(v)
}

func (e *Encoder) WriteInt8(v int8) {
	e.WriteByte(byte(v))
}

func (e *Encoder) WriteUint16(v uint16) {
	e.buf = append(e.buf, byte(v), byte(v>>8))
}

func (e *Encoder) WriteInt16(v int16) {
	e.WriteUint16(uint16(v))
}

func (e *Encoder) WriteUint32(v uint32) {
	e.buf = append(e.buf, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
}

func (e *Encoder) WriteInt32(v int32) {
	e.WriteUint32(uint32(v))
}

func (e *Encoder) WriteUint64(v uint64) {
	e.buf = append(e.buf,
		byte(v), byte(v>>8), byte(v>>16), byte(v>>24),
		byte(v>>32), byte(v>>40), byte(v>>48), byte(v>>56))
}

func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

func (e *Encoder) WriteFloat32(v float32) {
	e.WriteUint32(math.Float32bits(v))
}

func (e *Encoder) WriteFloat64(v float64) {
	e.WriteUint64(math.Float64bits(v))
}

// WriteByteString writes a length-prefixed octet sequence. A nil slice
// encodes as the absent sentinel (length -1); a non-nil empty slice
// encodes as length 0. These two are semantically distinct per spec.
func (e *Encoder) WriteByteString(v []byte) error {
	if v == nil {
		e.WriteInt32(-1)
		return nil
	}
	if len(v) > math.MaxInt32 {
		return uaerrors.New(uaerrors.KindEncoding, "byte string of %d bytes exceeds int32 range", len(v))
	}
	e.WriteInt32(int32(len(v)))
	e.WriteBytes(v)
	return nil
}

// WriteString writes a length-prefixed UTF-8 string. An empty Go string
// ("") is not distinguishable from an absent string using this signature
// alone; callers that must round-trip the absent/empty distinction for
// String fields use WriteOptionalString.
func (e *Encoder) WriteString(v string) error {
	return e.WriteByteString([]byte(v))
}

// WriteOptionalString writes the absent sentinel when present is false,
// regardless of v, and the (possibly empty) string otherwise.
func (e *Encoder) WriteOptionalString(v string, present bool) error {
	if !present {
		return e.WriteByteString(nil)
	}
	return e.WriteString(v)
}
