package ua

import (
	"math"

	"opcuacore/uaerrors"
)

// Decoder is a read cursor over an immutable input buffer. It tracks
// bytes remaining and never interprets the bytes it reads — only
// DecodingError on short input, never a semantic validation failure.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps b for reading. b is not copied; callers must not
// mutate it while the Decoder is in use.
func NewDecoder(b []byte) *Decoder {
	return &Decoder{buf: b}
}

// Remaining reports the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// Offset reports the number of bytes consumed so far, letting a caller
// slice the remainder of the original input directly (e.g. to hand off
// an unparsed tail to another decoder).
func (d *Decoder) Offset() int {
	return d.pos
}

func (d *Decoder) need(n int) error {
	if d.Remaining() < n {
		return uaerrors.New(uaerrors.KindDecoding, "need %d bytes, have %d", n, d.Remaining())
	}
	return nil
}

func (d *Decoder) ReadByte() (byte, error) {
	if err := d.need(1); err != nil {
		return 0, err
	}
	b := d.buf[d.pos]
	d.pos++
	return b, nil
}

// ReadBytes consumes and returns exactly n bytes. The returned slice
// aliases the Decoder's input; callers that need to retain it beyond the
// input's lifetime must copy it.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, uaerrors.New(uaerrors.KindDecoding, "negative read length %d", n)
	}
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := d.buf[d.pos : d.pos+n]
	d.pos += n
	return b, nil
}

func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (d *Decoder) ReadUint8() (uint8, error) {
	return d.ReadByte()
}

func (d *Decoder) ReadInt8() (int8, error) {
	b, err := d.ReadByte()
	return int8(b), err
}

func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56, nil
}

func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

func (d *Decoder) ReadFloat32() (float32, error) {
	v, err := d.ReadUint32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (d *Decoder) ReadFloat64() (float64, error) {
	v, err := d.ReadUint64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// ReadByteString reads a length-prefixed octet sequence. A length of -1
// returns (nil, nil): the absent value, distinguishable from an empty
// non-nil slice (length 0).
func (d *Decoder) ReadByteString() ([]byte, error) {
	n, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, nil
	}
	b, err := d.ReadBytes(int(n))
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}

// ReadString reads a length-prefixed UTF-8 string. The absent sentinel
// decodes as "" with ok=false; an empty string decodes as "" with
// ok=true. Most callers treat both as "", but round-tripping code should
// check ok.
func (d *Decoder) ReadString() (s string, ok bool, err error) {
	b, err := d.ReadByteString()
	if err != nil {
		return "", false, err
	}
	if b == nil {
		return "", false, nil
	}
	return string(b), true, nil
}

// Finish returns a DecodingError if any bytes remain unconsumed. Used by
// the static one-shot Decode helpers to enforce "decode then assert zero
// remaining bytes."
func (d *Decoder) Finish() error {
	if d.Remaining() != 0 {
		return uaerrors.New(uaerrors.KindDecoding, "trailing %d bytes after decode", d.Remaining())
	}
	return nil
}
