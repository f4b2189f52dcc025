package services

import (
	"opcuacore/ua"
)

// TimestampsToReturn controls which timestamps a Read call asks the
// server to populate on each returned DataValue.
type TimestampsToReturn uint32

const (
	TimestampsSource TimestampsToReturn = iota
	TimestampsServer
	TimestampsBoth
	TimestampsNeither
)

// ReadValueID names one attribute of one node to read.
type ReadValueID struct {
	NodeID       *ua.NodeID
	AttributeID  uint32
	IndexRange   string
	DataEncoding ua.QualifiedName
}

func (r *ReadValueID) encode(enc *ua.Encoder) error {
	if err := enc.WriteNodeID(r.NodeID); err != nil {
		return err
	}
	enc.WriteUint32(r.AttributeID)
	if err := enc.WriteString(r.IndexRange); err != nil {
		return err
	}
	return enc.WriteQualifiedName(r.DataEncoding)
}

func decodeReadValueID(dec *ua.Decoder) (ReadValueID, error) {
	var r ReadValueID
	var err error
	if r.NodeID, err = dec.ReadNodeID(); err != nil {
		return r, err
	}
	if r.AttributeID, err = dec.ReadUint32(); err != nil {
		return r, err
	}
	if r.IndexRange, _, err = dec.ReadString(); err != nil {
		return r, err
	}
	if r.DataEncoding, err = dec.ReadQualifiedName(); err != nil {
		return r, err
	}
	return r, nil
}

type ReadRequest struct {
	RequestHeader      *RequestHeader
	MaxAge             float64
	TimestampsToReturn TimestampsToReturn
	NodesToRead        []ReadValueID
}

func (r *ReadRequest) EncodingID() uint32 { return TypeIDReadRequest }

func (r *ReadRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteFloat64(r.MaxAge)
	enc.WriteUint32(uint32(r.TimestampsToReturn))
	enc.WriteInt32(int32(len(r.NodesToRead)))
	for i := range r.NodesToRead {
		_ = r.NodesToRead[i].encode(enc)
	}
}

func decodeReadRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &ReadRequest{RequestHeader: h}
	if r.MaxAge, err = dec.ReadFloat64(); err != nil {
		return nil, err
	}
	ttr, err := dec.ReadUint32()
	if err != nil {
		return nil, err
	}
	r.TimestampsToReturn = TimestampsToReturn(ttr)
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.NodesToRead = make([]ReadValueID, n)
		for i := range r.NodesToRead {
			if r.NodesToRead[i], err = decodeReadValueID(dec); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type ReadResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []*ua.DataValue
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *ReadResponse) EncodingID() uint32 { return TypeIDReadResponse }

func (r *ReadResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteInt32(int32(len(r.Results)))
	for _, dv := range r.Results {
		_ = enc.WriteDataValue(dv)
	}
	enc.WriteInt32(int32(len(r.DiagnosticInfos)))
	for _, d := range r.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeReadResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &ReadResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Results = make([]*ua.DataValue, n)
		for i := range r.Results {
			if r.Results[i], err = dec.ReadDataValue(); err != nil {
				return nil, err
			}
		}
	}
	m, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if m > 0 {
		r.DiagnosticInfos = make([]*ua.DiagnosticInfo, m)
		for i := range r.DiagnosticInfos {
			if r.DiagnosticInfos[i], err = dec.ReadDiagnosticInfo(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// BrowseDescription names one node and the reference-traversal rules for
// a single Browse call entry.
type BrowseDescription struct {
	NodeID          *ua.NodeID
	BrowseDirection uint32
	ReferenceTypeID *ua.NodeID
	IncludeSubtypes bool
	NodeClassMask   uint32
	ResultMask      uint32
}

func (b *BrowseDescription) encode(enc *ua.Encoder) error {
	if err := enc.WriteNodeID(b.NodeID); err != nil {
		return err
	}
	enc.WriteUint32(b.BrowseDirection)
	if err := enc.WriteNodeID(b.ReferenceTypeID); err != nil {
		return err
	}
	enc.WriteBool(b.IncludeSubtypes)
	enc.WriteUint32(b.NodeClassMask)
	enc.WriteUint32(b.ResultMask)
	return nil
}

func decodeBrowseDescription(dec *ua.Decoder) (BrowseDescription, error) {
	var b BrowseDescription
	var err error
	if b.NodeID, err = dec.ReadNodeID(); err != nil {
		return b, err
	}
	if b.BrowseDirection, err = dec.ReadUint32(); err != nil {
		return b, err
	}
	if b.ReferenceTypeID, err = dec.ReadNodeID(); err != nil {
		return b, err
	}
	if b.IncludeSubtypes, err = dec.ReadBool(); err != nil {
		return b, err
	}
	if b.NodeClassMask, err = dec.ReadUint32(); err != nil {
		return b, err
	}
	if b.ResultMask, err = dec.ReadUint32(); err != nil {
		return b, err
	}
	return b, nil
}

type ReferenceDescription struct {
	ReferenceTypeID *ua.NodeID
	IsForward       bool
	NodeID          *ua.ExpandedNodeID
	BrowseName      ua.QualifiedName
	DisplayName     ua.LocalizedText
	NodeClass       uint32
	TypeDefinition  *ua.ExpandedNodeID
}

func (r *ReferenceDescription) encode(enc *ua.Encoder) error {
	if err := enc.WriteNodeID(r.ReferenceTypeID); err != nil {
		return err
	}
	enc.WriteBool(r.IsForward)
	if err := enc.WriteExpandedNodeID(r.NodeID); err != nil {
		return err
	}
	if err := enc.WriteQualifiedName(r.BrowseName); err != nil {
		return err
	}
	if err := enc.WriteLocalizedText(r.DisplayName); err != nil {
		return err
	}
	enc.WriteUint32(r.NodeClass)
	return enc.WriteExpandedNodeID(r.TypeDefinition)
}

func decodeReferenceDescription(dec *ua.Decoder) (*ReferenceDescription, error) {
	r := &ReferenceDescription{}
	var err error
	if r.ReferenceTypeID, err = dec.ReadNodeID(); err != nil {
		return nil, err
	}
	if r.IsForward, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	if r.NodeID, err = dec.ReadExpandedNodeID(); err != nil {
		return nil, err
	}
	if r.BrowseName, err = dec.ReadQualifiedName(); err != nil {
		return nil, err
	}
	if r.DisplayName, err = dec.ReadLocalizedText(); err != nil {
		return nil, err
	}
	if r.NodeClass, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.TypeDefinition, err = dec.ReadExpandedNodeID(); err != nil {
		return nil, err
	}
	return r, nil
}

type BrowseResult struct {
	StatusCode        ua.StatusCode
	ContinuationPoint []byte
	References        []*ReferenceDescription
}

func (b *BrowseResult) encode(enc *ua.Encoder) error {
	enc.WriteStatusCode(b.StatusCode)
	if err := enc.WriteByteString(b.ContinuationPoint); err != nil {
		return err
	}
	enc.WriteInt32(int32(len(b.References)))
	for _, r := range b.References {
		if err := r.encode(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeBrowseResult(dec *ua.Decoder) (BrowseResult, error) {
	var b BrowseResult
	var err error
	if b.StatusCode, err = dec.ReadStatusCode(); err != nil {
		return b, err
	}
	if b.ContinuationPoint, err = dec.ReadByteString(); err != nil {
		return b, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return b, err
	}
	if n > 0 {
		b.References = make([]*ReferenceDescription, n)
		for i := range b.References {
			if b.References[i], err = decodeReferenceDescription(dec); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

type BrowseRequest struct {
	RequestHeader              *RequestHeader
	View                       *ua.NodeID
	RequestedMaxReferencesPerNode uint32
	NodesToBrowse              []BrowseDescription
}

func (r *BrowseRequest) EncodingID() uint32 { return TypeIDBrowseRequest }

func (r *BrowseRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	_ = enc.WriteNodeID(r.View)
	enc.WriteUint32(r.RequestedMaxReferencesPerNode)
	enc.WriteInt32(int32(len(r.NodesToBrowse)))
	for i := range r.NodesToBrowse {
		_ = r.NodesToBrowse[i].encode(enc)
	}
}

func decodeBrowseRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &BrowseRequest{RequestHeader: h}
	if r.View, err = dec.ReadNodeID(); err != nil {
		return nil, err
	}
	if r.RequestedMaxReferencesPerNode, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.NodesToBrowse = make([]BrowseDescription, n)
		for i := range r.NodesToBrowse {
			if r.NodesToBrowse[i], err = decodeBrowseDescription(dec); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type BrowseResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []BrowseResult
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *BrowseResponse) EncodingID() uint32 { return TypeIDBrowseResponse }

func (r *BrowseResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteInt32(int32(len(r.Results)))
	for i := range r.Results {
		_ = r.Results[i].encode(enc)
	}
	enc.WriteInt32(int32(len(r.DiagnosticInfos)))
	for _, d := range r.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeBrowseResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &BrowseResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Results = make([]BrowseResult, n)
		for i := range r.Results {
			if r.Results[i], err = decodeBrowseResult(dec); err != nil {
				return nil, err
			}
		}
	}
	m, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if m > 0 {
		r.DiagnosticInfos = make([]*ua.DiagnosticInfo, m)
		for i := range r.DiagnosticInfos {
			if r.DiagnosticInfos[i], err = dec.ReadDiagnosticInfo(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// RelativePathElement/RelativePath/BrowsePath support
// TranslateBrowsePathsToNodeIds, used to resolve a symbolic path (e.g.
// "/Objects/Server/ServerStatus") down to a concrete NodeID.
type RelativePathElement struct {
	ReferenceTypeID *ua.NodeID
	IsInverse       bool
	IncludeSubtypes bool
	TargetName      ua.QualifiedName
}

func (e *RelativePathElement) encode(enc *ua.Encoder) error {
	if err := enc.WriteNodeID(e.ReferenceTypeID); err != nil {
		return err
	}
	enc.WriteBool(e.IsInverse)
	enc.WriteBool(e.IncludeSubtypes)
	return enc.WriteQualifiedName(e.TargetName)
}

func decodeRelativePathElement(dec *ua.Decoder) (RelativePathElement, error) {
	var e RelativePathElement
	var err error
	if e.ReferenceTypeID, err = dec.ReadNodeID(); err != nil {
		return e, err
	}
	if e.IsInverse, err = dec.ReadBool(); err != nil {
		return e, err
	}
	if e.IncludeSubtypes, err = dec.ReadBool(); err != nil {
		return e, err
	}
	if e.TargetName, err = dec.ReadQualifiedName(); err != nil {
		return e, err
	}
	return e, nil
}

type BrowsePath struct {
	StartingNode *ua.NodeID
	RelativePath []RelativePathElement
}

func (b *BrowsePath) encode(enc *ua.Encoder) error {
	if err := enc.WriteNodeID(b.StartingNode); err != nil {
		return err
	}
	enc.WriteInt32(int32(len(b.RelativePath)))
	for i := range b.RelativePath {
		if err := b.RelativePath[i].encode(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeBrowsePath(dec *ua.Decoder) (BrowsePath, error) {
	var b BrowsePath
	var err error
	if b.StartingNode, err = dec.ReadNodeID(); err != nil {
		return b, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return b, err
	}
	if n > 0 {
		b.RelativePath = make([]RelativePathElement, n)
		for i := range b.RelativePath {
			if b.RelativePath[i], err = decodeRelativePathElement(dec); err != nil {
				return b, err
			}
		}
	}
	return b, nil
}

type BrowsePathTarget struct {
	TargetID        *ua.ExpandedNodeID
	RemainingPathIndex uint32
}

func (t *BrowsePathTarget) encode(enc *ua.Encoder) error {
	if err := enc.WriteExpandedNodeID(t.TargetID); err != nil {
		return err
	}
	enc.WriteUint32(t.RemainingPathIndex)
	return nil
}

func decodeBrowsePathTarget(dec *ua.Decoder) (BrowsePathTarget, error) {
	var t BrowsePathTarget
	var err error
	if t.TargetID, err = dec.ReadExpandedNodeID(); err != nil {
		return t, err
	}
	if t.RemainingPathIndex, err = dec.ReadUint32(); err != nil {
		return t, err
	}
	return t, nil
}

type BrowsePathResult struct {
	StatusCode ua.StatusCode
	Targets    []BrowsePathTarget
}

func (r *BrowsePathResult) encode(enc *ua.Encoder) error {
	enc.WriteStatusCode(r.StatusCode)
	enc.WriteInt32(int32(len(r.Targets)))
	for i := range r.Targets {
		if err := r.Targets[i].encode(enc); err != nil {
			return err
		}
	}
	return nil
}

func decodeBrowsePathResult(dec *ua.Decoder) (BrowsePathResult, error) {
	var r BrowsePathResult
	var err error
	if r.StatusCode, err = dec.ReadStatusCode(); err != nil {
		return r, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return r, err
	}
	if n > 0 {
		r.Targets = make([]BrowsePathTarget, n)
		for i := range r.Targets {
			if r.Targets[i], err = decodeBrowsePathTarget(dec); err != nil {
				return r, err
			}
		}
	}
	return r, nil
}

type TranslateBrowsePathsToNodeIdsRequest struct {
	RequestHeader *RequestHeader
	BrowsePaths   []BrowsePath
}

func (r *TranslateBrowsePathsToNodeIdsRequest) EncodingID() uint32 {
	return TypeIDTranslateBrowsePathsToNodeIdsRequest
}

func (r *TranslateBrowsePathsToNodeIdsRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteInt32(int32(len(r.BrowsePaths)))
	for i := range r.BrowsePaths {
		_ = r.BrowsePaths[i].encode(enc)
	}
}

func decodeTranslateBrowsePathsToNodeIdsRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &TranslateBrowsePathsToNodeIdsRequest{RequestHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.BrowsePaths = make([]BrowsePath, n)
		for i := range r.BrowsePaths {
			if r.BrowsePaths[i], err = decodeBrowsePath(dec); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type TranslateBrowsePathsToNodeIdsResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []BrowsePathResult
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *TranslateBrowsePathsToNodeIdsResponse) EncodingID() uint32 {
	return TypeIDTranslateBrowsePathsToNodeIdsResponse
}

func (r *TranslateBrowsePathsToNodeIdsResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteInt32(int32(len(r.Results)))
	for i := range r.Results {
		_ = r.Results[i].encode(enc)
	}
	enc.WriteInt32(int32(len(r.DiagnosticInfos)))
	for _, d := range r.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeTranslateBrowsePathsToNodeIdsResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &TranslateBrowsePathsToNodeIdsResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Results = make([]BrowsePathResult, n)
		for i := range r.Results {
			if r.Results[i], err = decodeBrowsePathResult(dec); err != nil {
				return nil, err
			}
		}
	}
	m, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if m > 0 {
		r.DiagnosticInfos = make([]*ua.DiagnosticInfo, m)
		for i := range r.DiagnosticInfos {
			if r.DiagnosticInfos[i], err = dec.ReadDiagnosticInfo(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func init() {
	ua.RegisterType(TypeIDReadRequest, decodeReadRequest)
	ua.RegisterType(TypeIDReadResponse, decodeReadResponse)
	ua.RegisterType(TypeIDBrowseRequest, decodeBrowseRequest)
	ua.RegisterType(TypeIDBrowseResponse, decodeBrowseResponse)
	ua.RegisterType(TypeIDTranslateBrowsePathsToNodeIdsRequest, decodeTranslateBrowsePathsToNodeIdsRequest)
	ua.RegisterType(TypeIDTranslateBrowsePathsToNodeIdsResponse, decodeTranslateBrowsePathsToNodeIdsResponse)
}
