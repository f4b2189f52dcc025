package ua

import (
	"fmt"

	"opcuacore/uaerrors"
)

// NodeIDType discriminates the identifier shape carried by a NodeID. It
// does not necessarily match the wire encoding chosen for a given value —
// the encoder always picks the most compact form that fits (spec §4.1's
// "NodeId encodes in the most compact form that fits the value and
// namespace, regardless of which variant the caller constructed").
type NodeIDType uint8

const (
	NodeIDTypeNumeric NodeIDType = iota
	NodeIDTypeString
	NodeIDTypeGUID
	NodeIDTypeByteString
)

// Wire encoding tags for the leading byte. The top two bits are reserved
// by ExpandedNodeID for the namespace-URI and server-index flags.
const (
	encTwoByte   = 0x00
	encFourByte  = 0x01
	encNumeric   = 0x02
	encString    = 0x03
	encGUID      = 0x04
	encByteString = 0x05

	encTypeMask       = 0x3F
	encHasNamespaceURI = 0x80
	encHasServerIndex  = 0x40

	// stringPayloadLimit bounds String/ByteString NodeID identifiers.
	stringPayloadLimit = 4096
)

// NodeID is a compact node identifier: a namespace index plus exactly one
// of a numeric, string, Guid, or byte-string identifier.
type NodeID struct {
	Namespace  uint16
	Type       NodeIDType
	Numeric    uint32
	StringVal  string
	GUIDVal    Guid
	ByteString []byte
}

func NewNumericNodeID(ns uint16, id uint32) *NodeID {
	return &NodeID{Namespace: ns, Type: NodeIDTypeNumeric, Numeric: id}
}

func NewStringNodeID(ns uint16, id string) *NodeID {
	return &NodeID{Namespace: ns, Type: NodeIDTypeString, StringVal: id}
}

func NewGUIDNodeID(ns uint16, id Guid) *NodeID {
	return &NodeID{Namespace: ns, Type: NodeIDTypeGUID, GUIDVal: id}
}

func NewByteStringNodeID(ns uint16, id []byte) *NodeID {
	return &NodeID{Namespace: ns, Type: NodeIDTypeByteString, ByteString: id}
}

func (n *NodeID) String() string {
	switch n.Type {
	case NodeIDTypeNumeric:
		return fmt.Sprintf("ns=%d;i=%d", n.Namespace, n.Numeric)
	case NodeIDTypeString:
		return fmt.Sprintf("ns=%d;s=%s", n.Namespace, n.StringVal)
	case NodeIDTypeGUID:
		return fmt.Sprintf("ns=%d;g=%s", n.Namespace, n.GUIDVal.String())
	case NodeIDTypeByteString:
		return fmt.Sprintf("ns=%d;b=%x", n.Namespace, n.ByteString)
	default:
		return "ns=?;?"
	}
}

// writeNodeIDBody writes the leading byte (with flagBits OR'd in, for
// ExpandedNodeID's use) and the identifier payload. It never returns the
// chosen encoding byte to the caller; ExpandedNodeID needs it only
// internally.
func (e *Encoder) writeNodeIDBody(n *NodeID, flagBits byte) error {
	switch n.Type {
	case NodeIDTypeNumeric:
		switch {
		case n.Namespace == 0 && n.Numeric <= 255:
			e.WriteByte(encTwoByte | flagBits)
			e.WriteUint8(uint8(n.Numeric))
		case n.Namespace <= 255 && n.Numeric <= 65535:
			e.WriteByte(encFourByte | flagBits)
			e.WriteUint8(uint8(n.Namespace))
			e.WriteUint16(uint16(n.Numeric))
		default:
			e.WriteByte(encNumeric | flagBits)
			e.WriteUint16(n.Namespace)
			e.WriteUint32(n.Numeric)
		}
	case NodeIDTypeString:
		if len(n.StringVal) > stringPayloadLimit {
			return uaerrors.New(uaerrors.KindEncoding, "string NodeId identifier exceeds %d bytes", stringPayloadLimit)
		}
		e.WriteByte(encString | flagBits)
		e.WriteUint16(n.Namespace)
		if err := e.WriteString(n.StringVal); err != nil {
			return err
		}
	case NodeIDTypeGUID:
		e.WriteByte(encGUID | flagBits)
		e.WriteUint16(n.Namespace)
		e.WriteGuid(n.GUIDVal)
	case NodeIDTypeByteString:
		if len(n.ByteString) > stringPayloadLimit {
			return uaerrors.New(uaerrors.KindEncoding, "byte string NodeId identifier exceeds %d bytes", stringPayloadLimit)
		}
		e.WriteByte(encByteString | flagBits)
		e.WriteUint16(n.Namespace)
		if err := e.WriteByteString(n.ByteString); err != nil {
			return err
		}
	default:
		return uaerrors.New(uaerrors.KindEncoding, "unknown NodeId type %d", n.Type)
	}
	return nil
}

// WriteNodeID writes n in its most compact wire form.
func (e *Encoder) WriteNodeID(n *NodeID) error {
	return e.writeNodeIDBody(n, 0)
}

// readNodeIDBody reads the leading byte and identifier payload. It
// returns the flag bits (bits 6-7) found on the leading byte so
// ExpandedNodeID can interpret them.
func (d *Decoder) readNodeIDBody() (*NodeID, byte, error) {
	lead, err := d.ReadByte()
	if err != nil {
		return nil, 0, err
	}
	flags := lead & (encHasNamespaceURI | encHasServerIndex)
	switch lead & encTypeMask {
	case encTwoByte:
		v, err := d.ReadUint8()
		if err != nil {
			return nil, 0, err
		}
		return &NodeID{Type: NodeIDTypeNumeric, Numeric: uint32(v)}, flags, nil
	case encFourByte:
		ns, err := d.ReadUint8()
		if err != nil {
			return nil, 0, err
		}
		v, err := d.ReadUint16()
		if err != nil {
			return nil, 0, err
		}
		return &NodeID{Namespace: uint16(ns), Type: NodeIDTypeNumeric, Numeric: uint32(v)}, flags, nil
	case encNumeric:
		ns, err := d.ReadUint16()
		if err != nil {
			return nil, 0, err
		}
		v, err := d.ReadUint32()
		if err != nil {
			return nil, 0, err
		}
		return &NodeID{Namespace: ns, Type: NodeIDTypeNumeric, Numeric: v}, flags, nil
	case encString:
		ns, err := d.ReadUint16()
		if err != nil {
			return nil, 0, err
		}
		s, _, err := d.ReadString()
		if err != nil {
			return nil, 0, err
		}
		return &NodeID{Namespace: ns, Type: NodeIDTypeString, StringVal: s}, flags, nil
	case encGUID:
		ns, err := d.ReadUint16()
		if err != nil {
			return nil, 0, err
		}
		g, err := d.ReadGuid()
		if err != nil {
			return nil, 0, err
		}
		return &NodeID{Namespace: ns, Type: NodeIDTypeGUID, GUIDVal: g}, flags, nil
	case encByteString:
		ns, err := d.ReadUint16()
		if err != nil {
			return nil, 0, err
		}
		b, err := d.ReadByteString()
		if err != nil {
			return nil, 0, err
		}
		return &NodeID{Namespace: ns, Type: NodeIDTypeByteString, ByteString: b}, flags, nil
	default:
		return nil, 0, uaerrors.New(uaerrors.KindDecoding, "unknown NodeId encoding tag 0x%02x", lead&encTypeMask)
	}
}

// ReadNodeID reads a plain (non-expanded) NodeID.
func (d *Decoder) ReadNodeID() (*NodeID, error) {
	n, _, err := d.readNodeIDBody()
	return n, err
}
