package ua

import "opcuacore/uaerrors"

// ExtensionObjectEncoding discriminates how an ExtensionObject's body is
// carried on the wire.
type ExtensionObjectEncoding uint8

const (
	ExtensionObjectNoBody ExtensionObjectEncoding = 0
	ExtensionObjectBinary ExtensionObjectEncoding = 1
	ExtensionObjectXML    ExtensionObjectEncoding = 2
)

// ExtensionObject is a self-describing (typeId, encoding, body) triple.
// When Encoding is Binary and TypeID resolves to a registered structured
// type, Body holds the decoded value; otherwise (unregistered type id, or
// a decode failure) Opaque holds the raw bytes and Body is nil. A decode
// failure here never propagates — it degrades to the opaque form.
type ExtensionObject struct {
	TypeID   *NodeID
	Encoding ExtensionObjectEncoding
	Body     Encodable
	Opaque   []byte
	XMLBody  string
}

// NewExtensionObject wraps a registered structured value for binary
// transmission, deriving its typeId from body.EncodingID() in namespace 0
// (the convention the services package's generated catalog follows).
func NewExtensionObject(body Encodable) *ExtensionObject {
	return &ExtensionObject{
		TypeID:   NewNumericNodeID(0, body.EncodingID()),
		Encoding: ExtensionObjectBinary,
		Body:     body,
	}
}

func (e *Encoder) WriteExtensionObject(x *ExtensionObject) error {
	if x == nil {
		// A nil ExtensionObject is written as an empty-NodeId, no-body object.
		if err := e.WriteNodeID(NewNumericNodeID(0, 0)); err != nil {
			return err
		}
		e.WriteByte(byte(ExtensionObjectNoBody))
		return nil
	}
	if err := e.WriteNodeID(x.TypeID); err != nil {
		return err
	}
	e.WriteByte(byte(x.Encoding))
	switch x.Encoding {
	case ExtensionObjectNoBody:
		return nil
	case ExtensionObjectBinary:
		var body []byte
		if x.Body != nil {
			inner := NewEncoder(32)
			x.Body.Encode(inner)
			body = inner.Bytes()
		} else {
			body = x.Opaque
		}
		return e.WriteByteString(body)
	case ExtensionObjectXML:
		return e.WriteString(x.XMLBody)
	default:
		return uaerrors.New(uaerrors.KindEncoding, "unknown ExtensionObject encoding %d", x.Encoding)
	}
}

// typeIDRegistryKey maps a NodeID naming a structured type to the numeric
// key the services package registers decoders under. Only the namespace-0
// numeric form is resolvable; anything else is treated as unregistered
// (the body decodes as opaque).
func typeIDRegistryKey(id *NodeID) (uint32, bool) {
	if id == nil || id.Type != NodeIDTypeNumeric || id.Namespace != 0 {
		return 0, false
	}
	return id.Numeric, true
}

func (d *Decoder) ReadExtensionObject() (*ExtensionObject, error) {
	typeID, err := d.ReadNodeID()
	if err != nil {
		return nil, err
	}
	encByte, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	x := &ExtensionObject{TypeID: typeID, Encoding: ExtensionObjectEncoding(encByte)}
	switch x.Encoding {
	case ExtensionObjectNoBody:
		return x, nil
	case ExtensionObjectBinary:
		raw, err := d.ReadByteString()
		if err != nil {
			return nil, err
		}
		x.Opaque = raw
		if key, ok := typeIDRegistryKey(typeID); ok {
			if fn, ok := Lookup(key); ok {
				if body, decErr := DecodeInto(raw, fn); decErr == nil {
					x.Body = body
					x.Opaque = nil
				}
				// Decode failure falls back to the opaque bytes already
				// stored above; it must never propagate.
			}
		}
		return x, nil
	case ExtensionObjectXML:
		s, _, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		x.XMLBody = s
		return x, nil
	default:
		return nil, uaerrors.New(uaerrors.KindDecoding, "unknown ExtensionObject encoding %d", encByte)
	}
}
