package ua

import (
	"fmt"
	"sync"

	"opcuacore/uaerrors"
)

// Encodable is implemented by every structured type that can appear
// inside an ExtensionObject or as a service request/response body. The
// services package registers one decoder per BinaryEncodingID in its
// init(), and every struct implements EncodingID/Encode itself — this is
// the compile-time registry spec.md §9 describes in place of runtime
// reflection.
type Encodable interface {
	// EncodingID returns the type's numeric _Encoding_DefaultBinary id.
	EncodingID() uint32
	Encode(enc *Encoder)
}

// DecodeFunc constructs a zero Encodable of a registered type and decodes
// it from dec, returning the populated value.
type DecodeFunc func(dec *Decoder) (Encodable, error)

var (
	registryMu sync.RWMutex
	registry   = map[uint32]DecodeFunc{}
)

// RegisterType installs the decoder for a BinaryEncodingID. Called from
// package-level init() functions in services; a duplicate registration
// for the same id is a programming error and panics at startup, not at
// request time.
func RegisterType(id uint32, fn DecodeFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[id]; exists {
		panic(fmt.Sprintf("ua: type id %d already registered", id))
	}
	registry[id] = fn
}

// Lookup returns the registered decoder for id, if any.
func Lookup(id uint32) (DecodeFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	fn, ok := registry[id]
	return fn, ok
}

// Encode is a static one-shot helper: it encodes v into a fresh buffer.
func Encode(v Encodable) []byte {
	enc := NewEncoder(64)
	v.Encode(enc)
	return enc.Bytes()
}

// DecodeInto decodes a single Encodable value of known type from b,
// asserting that no trailing bytes remain.
func DecodeInto(b []byte, fn DecodeFunc) (Encodable, error) {
	dec := NewDecoder(b)
	v, err := fn(dec)
	if err != nil {
		return nil, err
	}
	if err := dec.Finish(); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeByID looks up the registered decoder for id and decodes b into
// it, asserting full consumption. Returns a NotSupported UaError if id is
// unregistered.
func DecodeByID(id uint32, b []byte) (Encodable, error) {
	fn, ok := Lookup(id)
	if !ok {
		return nil, uaerrors.New(uaerrors.KindNotSupported, "no registered type for binary encoding id %d", id)
	}
	return DecodeInto(b, fn)
}
