package ua

import (
	"bytes"
	"testing"
	"time"
)

func TestWriteInt32(t *testing.T) {
	e := NewEncoder(4)
	e.WriteInt32(1_000_000_000)
	want := []byte{0x00, 0xCA, 0x9A, 0x3B}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("Int32(1e9) = % X, want % X", e.Bytes(), want)
	}
}

func TestWriteFloat32(t *testing.T) {
	e := NewEncoder(4)
	e.WriteFloat32(-6.5)
	want := []byte{0x00, 0x00, 0xD0, 0xC0}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("Float32(-6.5) = % X, want % X", e.Bytes(), want)
	}
}

func TestWriteString(t *testing.T) {
	e := NewEncoder(16)
	if err := e.WriteString("水Boy"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	want := []byte{0x06, 0x00, 0x00, 0x00, 0xE6, 0xB0, 0xB4, 0x42, 0x6F, 0x79}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("String(水Boy) = % X, want % X", e.Bytes(), want)
	}
}

func TestWriteXmlElement(t *testing.T) {
	e := NewEncoder(32)
	if err := e.WriteString("<A>Hot水</A>"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	want := []byte{
		0x0D, 0x00, 0x00, 0x00,
		0x3C, 0x41, 0x3E, 0x48, 0x6F, 0x74, 0xE6, 0xB0, 0xB4, 0x3C, 0x2F, 0x41, 0x3E,
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("XmlElement = % X, want % X", e.Bytes(), want)
	}
}

func TestWriteGuid(t *testing.T) {
	g := Guid{
		Data1: 0x72962B91,
		Data2: 0xFA75,
		Data3: 0x4AE6,
		Data4: [8]byte{0x8D, 0x28, 0xB4, 0x04, 0xDC, 0x7D, 0xAF, 0x63},
	}
	e := NewEncoder(16)
	e.WriteGuid(g)
	want := []byte{
		0x91, 0x2B, 0x96, 0x72, 0x75, 0xFA, 0xE6, 0x4A,
		0x8D, 0x28, 0xB4, 0x04, 0xDC, 0x7D, 0xAF, 0x63,
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("Guid = % X, want % X", e.Bytes(), want)
	}
	if got := g.String(); got != "72962B91-FA75-4AE6-8D28-B404DC7DAF63" {
		t.Fatalf("Guid.String() = %s", got)
	}

	d := NewDecoder(want)
	got, err := d.ReadGuid()
	if err != nil {
		t.Fatalf("ReadGuid: %v", err)
	}
	if got != g {
		t.Fatalf("round-trip Guid = %+v, want %+v", got, g)
	}
}

func TestNodeIDStringForm(t *testing.T) {
	e := NewEncoder(16)
	n := NewStringNodeID(1, "Hot水")
	if err := e.WriteNodeID(n); err != nil {
		t.Fatalf("WriteNodeID: %v", err)
	}
	want := []byte{
		0x03, 0x01, 0x00, 0x06, 0x00, 0x00, 0x00, 0x48, 0x6F, 0x74, 0xE6, 0xB0, 0xB4,
	}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("String NodeId = % X, want % X", e.Bytes(), want)
	}
}

func TestNodeIDTwoByteForm(t *testing.T) {
	e := NewEncoder(2)
	if err := e.WriteNodeID(NewNumericNodeID(0, 72)); err != nil {
		t.Fatalf("WriteNodeID: %v", err)
	}
	want := []byte{0x00, 0x48}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("TwoByte NodeId = % X, want % X", e.Bytes(), want)
	}
}

func TestNodeIDFourByteForm(t *testing.T) {
	e := NewEncoder(4)
	if err := e.WriteNodeID(NewNumericNodeID(5, 1025)); err != nil {
		t.Fatalf("WriteNodeID: %v", err)
	}
	want := []byte{0x01, 0x05, 0x01, 0x04}
	if !bytes.Equal(e.Bytes(), want) {
		t.Fatalf("FourByte NodeId = % X, want % X", e.Bytes(), want)
	}
}

func TestNodeIDChoosesMostCompactForm(t *testing.T) {
	// Constructed as a full Numeric NodeId, but ns=0 and value<=255 means
	// the encoder must still pick the TwoByte wire form.
	n := &NodeID{Namespace: 0, Type: NodeIDTypeNumeric, Numeric: 72}
	e := NewEncoder(2)
	if err := e.WriteNodeID(n); err != nil {
		t.Fatalf("WriteNodeID: %v", err)
	}
	if !bytes.Equal(e.Bytes(), []byte{0x00, 0x48}) {
		t.Fatalf("compact form not chosen: % X", e.Bytes())
	}
}

func TestDateTimeOutOfRangeEncodesZero(t *testing.T) {
	before := time.Date(1600, 1, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(10000, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := EncodeDateTime(before); got != 0 {
		t.Fatalf("before-epoch DateTime encoded as %d, want 0", got)
	}
	if got := EncodeDateTime(after); got != 0 {
		t.Fatalf("post-ceiling DateTime encoded as %d, want 0", got)
	}
}

func TestDateTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 15, 12, 30, 0, 0, time.UTC)
	ticks := EncodeDateTime(in)
	out := DecodeDateTime(ticks)
	if !out.Equal(in) {
		t.Fatalf("DateTime round-trip = %v, want %v", out, in)
	}
}

func TestAbsentVsEmptyString(t *testing.T) {
	eAbsent := NewEncoder(4)
	if err := eAbsent.WriteOptionalString("ignored", false); err != nil {
		t.Fatalf("WriteOptionalString: %v", err)
	}
	if !bytes.Equal(eAbsent.Bytes(), []byte{0xFF, 0xFF, 0xFF, 0xFF}) {
		t.Fatalf("absent string = % X, want FF FF FF FF", eAbsent.Bytes())
	}

	eEmpty := NewEncoder(4)
	if err := eEmpty.WriteString(""); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if !bytes.Equal(eEmpty.Bytes(), []byte{0x00, 0x00, 0x00, 0x00}) {
		t.Fatalf("empty string = % X, want 00 00 00 00", eEmpty.Bytes())
	}

	dAbsent := NewDecoder(eAbsent.Bytes())
	_, ok, err := dAbsent.ReadString()
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if ok {
		t.Fatalf("absent string decoded as present")
	}

	dEmpty := NewDecoder(eEmpty.Bytes())
	s, ok, err := dEmpty.ReadString()
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if !ok || s != "" {
		t.Fatalf("empty string decoded as (%q, %v), want (\"\", true)", s, ok)
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	e := NewEncoder(4)
	e.WriteInt32(42)
	e.WriteByte(0xFF)
	d := NewDecoder(e.Bytes())
	if _, err := d.ReadInt32(); err != nil {
		t.Fatalf("ReadInt32: %v", err)
	}
	if err := d.Finish(); err == nil {
		t.Fatalf("Finish should reject trailing byte")
	}
}

func TestDecodeRejectsShortInput(t *testing.T) {
	d := NewDecoder([]byte{0x01, 0x02})
	if _, err := d.ReadInt32(); err == nil {
		t.Fatalf("ReadInt32 on 2 bytes should fail")
	}
}

func TestStatusCodeSeverity(t *testing.T) {
	if StatusOK.Severity() != SeverityGood {
		t.Fatalf("Good status severity mismatch")
	}
	if !StatusBadTimeout.IsBad() {
		t.Fatalf("StatusBadTimeout should be Bad")
	}
	if !StatusUncertain.IsUncertain() {
		t.Fatalf("StatusUncertain should be Uncertain")
	}
}

func TestQualifiedNameRoundTrip(t *testing.T) {
	q := QualifiedName{NamespaceIndex: 2, Name: "Foo", NamePresent: true}
	e := NewEncoder(8)
	if err := e.WriteQualifiedName(q); err != nil {
		t.Fatalf("WriteQualifiedName: %v", err)
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadQualifiedName()
	if err != nil {
		t.Fatalf("ReadQualifiedName: %v", err)
	}
	if got != q {
		t.Fatalf("round-trip QualifiedName = %+v, want %+v", got, q)
	}
}

func TestExtensionObjectUnregisteredTypeFallsBackToOpaque(t *testing.T) {
	// A typeId with no registered decoder must still decode, with Body
	// nil and Opaque holding the raw bytes.
	x := &ExtensionObject{
		TypeID:   NewNumericNodeID(0, 999999),
		Encoding: ExtensionObjectBinary,
		Opaque:   []byte{0x01, 0x02, 0x03},
	}
	e := NewEncoder(16)
	if err := e.WriteExtensionObject(x); err != nil {
		t.Fatalf("WriteExtensionObject: %v", err)
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadExtensionObject()
	if err != nil {
		t.Fatalf("ReadExtensionObject should never fail: %v", err)
	}
	if got.Body != nil {
		t.Fatalf("expected unregistered type to decode as opaque, got Body=%v", got.Body)
	}
	if !bytes.Equal(got.Opaque, x.Opaque) {
		t.Fatalf("opaque mismatch: got % X, want % X", got.Opaque, x.Opaque)
	}
}

func TestVariantScalarRoundTrip(t *testing.T) {
	v := NewScalarVariant(VariantInt32, int32(-42))
	e := NewEncoder(8)
	if err := e.WriteVariant(v); err != nil {
		t.Fatalf("WriteVariant: %v", err)
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadVariant()
	if err != nil {
		t.Fatalf("ReadVariant: %v", err)
	}
	if got.Kind != VariantInt32 || got.Shape != ShapeScalar || got.ScalarValue.(int32) != -42 {
		t.Fatalf("round-trip scalar Variant = %+v", got)
	}
}

func TestVariantScalarOfVariantRejected(t *testing.T) {
	inner := NewScalarVariant(VariantInt32, int32(1))
	outer := NewScalarVariant(VariantVariant, inner)
	e := NewEncoder(8)
	if err := e.WriteVariant(outer); err == nil {
		t.Fatalf("scalar Variant-of-Variant should be rejected on encode")
	}
}

func TestVariantArrayOfVariantAccepted(t *testing.T) {
	inner := NewScalarVariant(VariantInt32, int32(7))
	arr := NewArrayVariant(VariantVariant, []any{inner})
	e := NewEncoder(16)
	if err := e.WriteVariant(arr); err != nil {
		t.Fatalf("array Variant-of-Variant should be accepted: %v", err)
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadVariant()
	if err != nil {
		t.Fatalf("ReadVariant: %v", err)
	}
	if got.Shape != ShapeArray || len(got.ArrayValue) != 1 {
		t.Fatalf("round-trip array-of-Variant = %+v", got)
	}
	elem := got.ArrayValue[0].(*Variant)
	if elem.ScalarValue.(int32) != 7 {
		t.Fatalf("inner Variant mismatch: %+v", elem)
	}
}

func TestVariantAbsentArray(t *testing.T) {
	v := NewArrayVariant(VariantString, nil)
	e := NewEncoder(8)
	if err := e.WriteVariant(v); err != nil {
		t.Fatalf("WriteVariant: %v", err)
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadVariant()
	if err != nil {
		t.Fatalf("ReadVariant: %v", err)
	}
	if !got.ArrayAbsent {
		t.Fatalf("expected absent array, got %+v", got)
	}
}

func TestVariantReservedKindDecodesAsByteString(t *testing.T) {
	e := NewEncoder(8)
	e.WriteByte(30) // reserved kind, scalar
	e.WriteInt32(-1)
	d := NewDecoder(e.Bytes())
	got, err := d.ReadVariant()
	if err != nil {
		t.Fatalf("ReadVariant: %v", err)
	}
	if got.Kind != VariantByteString {
		t.Fatalf("reserved kind 30 decoded as %d, want ByteString", got.Kind)
	}
}

func TestVariantNdArrayRoundTrip(t *testing.T) {
	values := []any{int32(1), int32(2), int32(3), int32(4), int32(5), int32(6)}
	v, err := NewNdArrayVariant(VariantInt32, values, []int32{2, 3})
	if err != nil {
		t.Fatalf("NewNdArrayVariant: %v", err)
	}
	e := NewEncoder(32)
	if err := e.WriteVariant(v); err != nil {
		t.Fatalf("WriteVariant: %v", err)
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadVariant()
	if err != nil {
		t.Fatalf("ReadVariant: %v", err)
	}
	if got.Shape != ShapeNdArray || len(got.Dimensions) != 2 {
		t.Fatalf("round-trip NdArray = %+v", got)
	}
	if got.Dimensions[0] != 2 || got.Dimensions[1] != 3 {
		t.Fatalf("dims mismatch: %v", got.Dimensions)
	}
}

func TestNdArrayShapeMismatchRejected(t *testing.T) {
	values := []any{int32(1), int32(2)}
	if _, err := NewNdArrayVariant(VariantInt32, values, []int32{2, 2}); err == nil {
		t.Fatalf("shape product mismatch should be rejected")
	}
}

func TestVariantZeroLengthNdArrayDegradesToPlainArray(t *testing.T) {
	v, err := NewNdArrayVariant(VariantInt32, nil, nil)
	if err != nil {
		t.Fatalf("NewNdArrayVariant: %v", err)
	}
	e := NewEncoder(8)
	if err := e.WriteVariant(v); err != nil {
		t.Fatalf("WriteVariant: %v", err)
	}
	// Lead byte must not carry the has-dimensions bit.
	if e.Bytes()[0]&variantHasDimensions != 0 {
		t.Fatalf("zero-length NdArray should degrade to a plain array, lead=0x%02X", e.Bytes()[0])
	}
}

func TestDataValueMaskAndPicoSecondGating(t *testing.T) {
	dv := &DataValue{
		HasValue:            true,
		Value:               NewScalarVariant(VariantInt32, int32(1)),
		HasSourceTimestamp:  true,
		SourceTimestamp:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		HasSourcePicoSeconds: true,
		SourcePicoSeconds:   20000, // must clamp to 9999
	}
	e := NewEncoder(32)
	if err := e.WriteDataValue(dv); err != nil {
		t.Fatalf("WriteDataValue: %v", err)
	}
	d := NewDecoder(e.Bytes())
	got, err := d.ReadDataValue()
	if err != nil {
		t.Fatalf("ReadDataValue: %v", err)
	}
	if got.SourcePicoSeconds != maxPicoSeconds {
		t.Fatalf("SourcePicoSeconds = %d, want clamped %d", got.SourcePicoSeconds, maxPicoSeconds)
	}
	if !got.HasValue || got.Value.ScalarValue.(int32) != 1 {
		t.Fatalf("Value mismatch: %+v", got)
	}
}

func TestDataValuePicoSecondsWithoutTimestampRejected(t *testing.T) {
	dv := &DataValue{HasSourcePicoSeconds: true, SourcePicoSeconds: 5}
	e := NewEncoder(8)
	if err := e.WriteDataValue(dv); err == nil {
		t.Fatalf("SourcePicoSeconds without SourceTimestamp should be rejected")
	}
}

func TestRegisterTypeAndDecodeByID(t *testing.T) {
	const testTypeID = 0x7FFE0001
	RegisterType(testTypeID, func(dec *Decoder) (Encodable, error) {
		v, err := dec.ReadInt32()
		if err != nil {
			return nil, err
		}
		return testEncodable(v), nil
	})

	enc := NewEncoder(4)
	testEncodable(123).Encode(enc)
	got, err := DecodeByID(testTypeID, enc.Bytes())
	if err != nil {
		t.Fatalf("DecodeByID: %v", err)
	}
	if got.(testEncodable) != 123 {
		t.Fatalf("DecodeByID = %v, want 123", got)
	}
}

type testEncodable int32

func (t testEncodable) EncodingID() uint32 { return 0x7FFE0001 }
func (t testEncodable) Encode(enc *Encoder) { enc.WriteInt32(int32(t)) }
