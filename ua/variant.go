package ua

import (
	"time"

	"opcuacore/uaerrors"
)

// VariantKind is the built-in type identifier carried in a Variant's
// leading byte (bits 0-5). Kinds 0-25 are the defined primitive kinds;
// 26-31 are reserved on the wire and decode as ByteString.
type VariantKind uint8

const (
	VariantNull VariantKind = iota
	VariantBoolean
	VariantSByte
	VariantByte
	VariantInt16
	VariantUInt16
	VariantInt32
	VariantUInt32
	VariantInt64
	VariantUInt64
	VariantFloat
	VariantDouble
	VariantString
	VariantDateTime
	VariantGUID
	VariantByteString
	VariantXmlElement
	VariantNodeID
	VariantExpandedNodeID
	VariantStatusCode
	VariantQualifiedName
	VariantLocalizedText
	VariantExtensionObject
	VariantDataValue
	VariantVariant
	VariantDiagnosticInfo
)

const (
	variantKindMask       = 0x3F
	variantHasDimensions  = 0x40
	variantIsArray        = 0x80
	variantReservedFloor  = 26
	variantReservedCeil   = 31
)

// VariantShape discriminates a Variant's dimensionality.
type VariantShape uint8

const (
	ShapeScalar VariantShape = iota
	ShapeArray
	ShapeNdArray
)

// Variant is the universal value container: a type-id, a shape, and the
// value(s) that shape holds.
//
//   - Scalar: ScalarValue holds a single Go value of the kind named by Kind.
//   - Array: ArrayValue holds the flat sequence; ArrayAbsent distinguishes
//     a null array (wire length -1) from an empty one (length 0).
//   - NdArray: ArrayValue holds the flat sequence and Dimensions its
//     shape; product(Dimensions) == len(ArrayValue) is an invariant
//     enforced on construction and decode. A zero-length NdArray encodes
//     (and round-trips) as a plain empty Array, per spec.
type Variant struct {
	Kind        VariantKind
	Shape       VariantShape
	ScalarValue any
	ArrayValue  []any
	ArrayAbsent bool
	Dimensions  []int32
}

// NewScalarVariant builds a scalar Variant of the given kind.
func NewScalarVariant(kind VariantKind, value any) *Variant {
	return &Variant{Kind: kind, Shape: ShapeScalar, ScalarValue: value}
}

// NewArrayVariant builds a 1-D array Variant. Pass nil values for the
// absent array.
func NewArrayVariant(kind VariantKind, values []any) *Variant {
	if values == nil {
		return &Variant{Kind: kind, Shape: ShapeArray, ArrayAbsent: true}
	}
	return &Variant{Kind: kind, Shape: ShapeArray, ArrayValue: values}
}

// NewNdArrayVariant builds an N-D array Variant, validating
// product(dims) == len(values) for non-empty values.
func NewNdArrayVariant(kind VariantKind, values []any, dims []int32) (*Variant, error) {
	if len(values) > 0 {
		if err := checkDimensions(dims, len(values)); err != nil {
			return nil, err
		}
	}
	return &Variant{Kind: kind, Shape: ShapeNdArray, ArrayValue: values, Dimensions: dims}, nil
}

func checkDimensions(dims []int32, flatLen int) error {
	product := 1
	for _, d := range dims {
		product *= int(d)
	}
	if product != flatLen {
		return uaerrors.New(uaerrors.KindInvalidArgument,
			"variant shape product %d does not match flat length %d", product, flatLen)
	}
	return nil
}

func effectiveKind(kind VariantKind) VariantKind {
	if kind >= variantReservedFloor && kind <= variantReservedCeil {
		return VariantByteString
	}
	return kind
}

func (e *Encoder) writeVariantValue(kind VariantKind, v any) error {
	switch kind {
	case VariantNull:
		return nil
	case VariantBoolean:
		e.WriteBool(v.(bool))
	case VariantSByte:
		e.WriteInt8(v.(int8))
	case VariantByte:
		e.WriteUint8(v.(uint8))
	case VariantInt16:
		e.WriteInt16(v.(int16))
	case VariantUInt16:
		e.WriteUint16(v.(uint16))
	case VariantInt32:
		e.WriteInt32(v.(int32))
	case VariantUInt32:
		e.WriteUint32(v.(uint32))
	case VariantInt64:
		e.WriteInt64(v.(int64))
	case VariantUInt64:
		e.WriteUint64(v.(uint64))
	case VariantFloat:
		e.WriteFloat32(v.(float32))
	case VariantDouble:
		e.WriteFloat64(v.(float64))
	case VariantString:
		return e.WriteString(v.(string))
	case VariantDateTime:
		e.WriteDateTime(v.(time.Time))
	case VariantGUID:
		e.WriteGuid(v.(Guid))
	case VariantByteString:
		return e.WriteByteString(v.([]byte))
	case VariantXmlElement:
		return e.WriteString(v.(string))
	case VariantNodeID:
		return e.WriteNodeID(v.(*NodeID))
	case VariantExpandedNodeID:
		return e.WriteExpandedNodeID(v.(*ExpandedNodeID))
	case VariantStatusCode:
		e.WriteStatusCode(v.(StatusCode))
	case VariantQualifiedName:
		return e.WriteQualifiedName(v.(QualifiedName))
	case VariantLocalizedText:
		return e.WriteLocalizedText(v.(LocalizedText))
	case VariantExtensionObject:
		return e.WriteExtensionObject(v.(*ExtensionObject))
	case VariantDataValue:
		return e.WriteDataValue(v.(*DataValue))
	case VariantVariant:
		return e.WriteVariant(v.(*Variant))
	case VariantDiagnosticInfo:
		return e.WriteDiagnosticInfo(v.(*DiagnosticInfo))
	default:
		return uaerrors.New(uaerrors.KindEncoding, "unknown variant kind %d", kind)
	}
	return nil
}

// WriteVariant encodes v. A nil v encodes as a Null scalar.
func (e *Encoder) WriteVariant(v *Variant) error {
	if v == nil {
		e.WriteByte(byte(VariantNull))
		return nil
	}
	kind := effectiveKind(v.Kind)

	if v.Shape == ShapeScalar {
		if kind == VariantVariant {
			return uaerrors.New(uaerrors.KindEncoding, "variant-of-variant is not allowed at the scalar level")
		}
		e.WriteByte(byte(kind))
		return e.writeVariantValue(kind, v.ScalarValue)
	}

	// Array or NdArray. A zero-length NdArray degrades to a plain empty
	// array with no dimensions header, per spec.
	hasDims := v.Shape == ShapeNdArray && len(v.ArrayValue) > 0
	if v.Shape == ShapeNdArray && len(v.ArrayValue) > 0 {
		if err := checkDimensions(v.Dimensions, len(v.ArrayValue)); err != nil {
			return err
		}
	}

	lead := byte(kind) | variantIsArray
	if hasDims {
		lead |= variantHasDimensions
	}
	e.WriteByte(lead)

	if v.ArrayAbsent {
		e.WriteInt32(-1)
		return nil
	}
	e.WriteInt32(int32(len(v.ArrayValue)))
	for _, item := range v.ArrayValue {
		if err := e.writeVariantValue(kind, item); err != nil {
			return err
		}
	}
	if hasDims {
		e.WriteInt32(int32(len(v.Dimensions)))
		for _, d := range v.Dimensions {
			e.WriteInt32(d)
		}
	}
	return nil
}

func (d *Decoder) readVariantValue(kind VariantKind) (any, error) {
	switch kind {
	case VariantNull:
		return nil, nil
	case VariantBoolean:
		return d.ReadBool()
	case VariantSByte:
		return d.ReadInt8()
	case VariantByte:
		return d.ReadUint8()
	case VariantInt16:
		return d.ReadInt16()
	case VariantUInt16:
		return d.ReadUint16()
	case VariantInt32:
		return d.ReadInt32()
	case VariantUInt32:
		return d.ReadUint32()
	case VariantInt64:
		return d.ReadInt64()
	case VariantUInt64:
		return d.ReadUint64()
	case VariantFloat:
		return d.ReadFloat32()
	case VariantDouble:
		return d.ReadFloat64()
	case VariantString:
		s, _, err := d.ReadString()
		return s, err
	case VariantDateTime:
		return d.ReadDateTime()
	case VariantGUID:
		return d.ReadGuid()
	case VariantByteString:
		return d.ReadByteString()
	case VariantXmlElement:
		s, _, err := d.ReadString()
		return s, err
	case VariantNodeID:
		return d.ReadNodeID()
	case VariantExpandedNodeID:
		return d.ReadExpandedNodeID()
	case VariantStatusCode:
		return d.ReadStatusCode()
	case VariantQualifiedName:
		return d.ReadQualifiedName()
	case VariantLocalizedText:
		return d.ReadLocalizedText()
	case VariantExtensionObject:
		return d.ReadExtensionObject()
	case VariantDataValue:
		return d.ReadDataValue()
	case VariantVariant:
		return d.ReadVariant()
	case VariantDiagnosticInfo:
		return d.ReadDiagnosticInfo()
	default:
		return nil, uaerrors.New(uaerrors.KindDecoding, "unknown variant kind %d", kind)
	}
}

// ReadVariant decodes a Variant.
func (d *Decoder) ReadVariant() (*Variant, error) {
	lead, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	wireKind := VariantKind(lead & variantKindMask)
	kind := effectiveKind(wireKind)
	hasDims := lead&variantHasDimensions != 0
	isArray := lead&variantIsArray != 0

	if !isArray {
		if kind == VariantVariant {
			return nil, uaerrors.New(uaerrors.KindDecoding, "variant-of-variant is not allowed at the scalar level")
		}
		v, err := d.readVariantValue(kind)
		if err != nil {
			return nil, err
		}
		return &Variant{Kind: kind, Shape: ShapeScalar, ScalarValue: v}, nil
	}

	n, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		result := &Variant{Kind: kind, Shape: ShapeArray, ArrayAbsent: true}
		if hasDims {
			result.Shape = ShapeNdArray
		}
		return result, nil
	}

	values := make([]any, n)
	for i := range values {
		v, err := d.readVariantValue(kind)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}

	if !hasDims {
		return &Variant{Kind: kind, Shape: ShapeArray, ArrayValue: values}, nil
	}

	dimCount, err := d.ReadInt32()
	if err != nil {
		return nil, err
	}
	if dimCount < 0 {
		return nil, uaerrors.New(uaerrors.KindDecoding, "negative dimension count %d", dimCount)
	}
	dims := make([]int32, dimCount)
	for i := range dims {
		if dims[i], err = d.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if err := checkDimensions(dims, len(values)); err != nil {
		return nil, err
	}
	return &Variant{Kind: kind, Shape: ShapeNdArray, ArrayValue: values, Dimensions: dims}, nil
}
