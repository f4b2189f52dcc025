package services

import (
	"opcuacore/ua"
)

// MonitoringMode mirrors the standard enumeration a monitored item can be
// placed into.
type MonitoringMode uint32

const (
	MonitoringModeDisabled MonitoringMode = iota
	MonitoringModeSampling
	MonitoringModeReporting
)

type MonitoringFilter struct {
	// Object holds a pre-encoded filter body (e.g. a DataChangeFilter) as an
	// opaque ExtensionObject; this core doesn't decode filter internals,
	// it only ships them to the server untouched.
	Object *ua.ExtensionObject
}

type MonitoringParameters struct {
	ClientHandle     uint32
	SamplingInterval float64
	Filter           *ua.ExtensionObject
	QueueSize        uint32
	DiscardOldest    bool
}

func (p *MonitoringParameters) encode(enc *ua.Encoder) error {
	enc.WriteUint32(p.ClientHandle)
	enc.WriteFloat64(p.SamplingInterval)
	if err := enc.WriteExtensionObject(p.Filter); err != nil {
		return err
	}
	enc.WriteUint32(p.QueueSize)
	enc.WriteBool(p.DiscardOldest)
	return nil
}

func decodeMonitoringParameters(dec *ua.Decoder) (MonitoringParameters, error) {
	var p MonitoringParameters
	var err error
	if p.ClientHandle, err = dec.ReadUint32(); err != nil {
		return p, err
	}
	if p.SamplingInterval, err = dec.ReadFloat64(); err != nil {
		return p, err
	}
	if p.Filter, err = dec.ReadExtensionObject(); err != nil {
		return p, err
	}
	if p.QueueSize, err = dec.ReadUint32(); err != nil {
		return p, err
	}
	if p.DiscardOldest, err = dec.ReadBool(); err != nil {
		return p, err
	}
	return p, nil
}

type MonitoredItemCreateRequest struct {
	ItemToMonitor  ReadValueID
	MonitoringMode MonitoringMode
	RequestedParameters MonitoringParameters
}

func (r *MonitoredItemCreateRequest) encode(enc *ua.Encoder) error {
	if err := r.ItemToMonitor.encode(enc); err != nil {
		return err
	}
	enc.WriteUint32(uint32(r.MonitoringMode))
	return r.RequestedParameters.encode(enc)
}

func decodeMonitoredItemCreateRequest(dec *ua.Decoder) (MonitoredItemCreateRequest, error) {
	var r MonitoredItemCreateRequest
	var err error
	if r.ItemToMonitor, err = decodeReadValueID(dec); err != nil {
		return r, err
	}
	mode, err := dec.ReadUint32()
	if err != nil {
		return r, err
	}
	r.MonitoringMode = MonitoringMode(mode)
	if r.RequestedParameters, err = decodeMonitoringParameters(dec); err != nil {
		return r, err
	}
	return r, nil
}

type MonitoredItemCreateResult struct {
	StatusCode             ua.StatusCode
	MonitoredItemID        uint32
	RevisedSamplingInterval float64
	RevisedQueueSize       uint32
	FilterResult           *ua.ExtensionObject
}

func (r *MonitoredItemCreateResult) encode(enc *ua.Encoder) error {
	enc.WriteStatusCode(r.StatusCode)
	enc.WriteUint32(r.MonitoredItemID)
	enc.WriteFloat64(r.RevisedSamplingInterval)
	enc.WriteUint32(r.RevisedQueueSize)
	return enc.WriteExtensionObject(r.FilterResult)
}

func decodeMonitoredItemCreateResult(dec *ua.Decoder) (MonitoredItemCreateResult, error) {
	var r MonitoredItemCreateResult
	var err error
	if r.StatusCode, err = dec.ReadStatusCode(); err != nil {
		return r, err
	}
	if r.MonitoredItemID, err = dec.ReadUint32(); err != nil {
		return r, err
	}
	if r.RevisedSamplingInterval, err = dec.ReadFloat64(); err != nil {
		return r, err
	}
	if r.RevisedQueueSize, err = dec.ReadUint32(); err != nil {
		return r, err
	}
	if r.FilterResult, err = dec.ReadExtensionObject(); err != nil {
		return r, err
	}
	return r, nil
}

type CreateMonitoredItemsRequest struct {
	RequestHeader      *RequestHeader
	SubscriptionID     uint32
	TimestampsToReturn TimestampsToReturn
	ItemsToCreate      []MonitoredItemCreateRequest
}

func (r *CreateMonitoredItemsRequest) EncodingID() uint32 { return TypeIDCreateMonitoredItemsRequest }

func (r *CreateMonitoredItemsRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteUint32(uint32(r.TimestampsToReturn))
	enc.WriteInt32(int32(len(r.ItemsToCreate)))
	for i := range r.ItemsToCreate {
		_ = r.ItemsToCreate[i].encode(enc)
	}
}

func decodeCreateMonitoredItemsRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &CreateMonitoredItemsRequest{RequestHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
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
		r.ItemsToCreate = make([]MonitoredItemCreateRequest, n)
		for i := range r.ItemsToCreate {
			if r.ItemsToCreate[i], err = decodeMonitoredItemCreateRequest(dec); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type CreateMonitoredItemsResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []MonitoredItemCreateResult
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *CreateMonitoredItemsResponse) EncodingID() uint32 { return TypeIDCreateMonitoredItemsResponse }

func (r *CreateMonitoredItemsResponse) Encode(enc *ua.Encoder) {
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

func decodeCreateMonitoredItemsResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &CreateMonitoredItemsResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Results = make([]MonitoredItemCreateResult, n)
		for i := range r.Results {
			if r.Results[i], err = decodeMonitoredItemCreateResult(dec); err != nil {
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

type MonitoredItemModifyRequest struct {
	MonitoredItemID     uint32
	RequestedParameters MonitoringParameters
}

func (r *MonitoredItemModifyRequest) encode(enc *ua.Encoder) error {
	enc.WriteUint32(r.MonitoredItemID)
	return r.RequestedParameters.encode(enc)
}

func decodeMonitoredItemModifyRequest(dec *ua.Decoder) (MonitoredItemModifyRequest, error) {
	var r MonitoredItemModifyRequest
	var err error
	if r.MonitoredItemID, err = dec.ReadUint32(); err != nil {
		return r, err
	}
	if r.RequestedParameters, err = decodeMonitoringParameters(dec); err != nil {
		return r, err
	}
	return r, nil
}

type MonitoredItemModifyResult struct {
	StatusCode              ua.StatusCode
	RevisedSamplingInterval float64
	RevisedQueueSize        uint32
	FilterResult            *ua.ExtensionObject
}

func (r *MonitoredItemModifyResult) encode(enc *ua.Encoder) error {
	enc.WriteStatusCode(r.StatusCode)
	enc.WriteFloat64(r.RevisedSamplingInterval)
	enc.WriteUint32(r.RevisedQueueSize)
	return enc.WriteExtensionObject(r.FilterResult)
}

func decodeMonitoredItemModifyResult(dec *ua.Decoder) (MonitoredItemModifyResult, error) {
	var r MonitoredItemModifyResult
	var err error
	if r.StatusCode, err = dec.ReadStatusCode(); err != nil {
		return r, err
	}
	if r.RevisedSamplingInterval, err = dec.ReadFloat64(); err != nil {
		return r, err
	}
	if r.RevisedQueueSize, err = dec.ReadUint32(); err != nil {
		return r, err
	}
	if r.FilterResult, err = dec.ReadExtensionObject(); err != nil {
		return r, err
	}
	return r, nil
}

type ModifyMonitoredItemsRequest struct {
	RequestHeader      *RequestHeader
	SubscriptionID     uint32
	TimestampsToReturn TimestampsToReturn
	ItemsToModify      []MonitoredItemModifyRequest
}

func (r *ModifyMonitoredItemsRequest) EncodingID() uint32 { return TypeIDModifyMonitoredItemsRequest }

func (r *ModifyMonitoredItemsRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteUint32(uint32(r.TimestampsToReturn))
	enc.WriteInt32(int32(len(r.ItemsToModify)))
	for i := range r.ItemsToModify {
		_ = r.ItemsToModify[i].encode(enc)
	}
}

func decodeModifyMonitoredItemsRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &ModifyMonitoredItemsRequest{RequestHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
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
		r.ItemsToModify = make([]MonitoredItemModifyRequest, n)
		for i := range r.ItemsToModify {
			if r.ItemsToModify[i], err = decodeMonitoredItemModifyRequest(dec); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type ModifyMonitoredItemsResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []MonitoredItemModifyResult
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *ModifyMonitoredItemsResponse) EncodingID() uint32 { return TypeIDModifyMonitoredItemsResponse }

func (r *ModifyMonitoredItemsResponse) Encode(enc *ua.Encoder) {
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

func decodeModifyMonitoredItemsResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &ModifyMonitoredItemsResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Results = make([]MonitoredItemModifyResult, n)
		for i := range r.Results {
			if r.Results[i], err = decodeMonitoredItemModifyResult(dec); err != nil {
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

type SetMonitoringModeRequest struct {
	RequestHeader    *RequestHeader
	SubscriptionID   uint32
	MonitoringMode   MonitoringMode
	MonitoredItemIDs []uint32
}

func (r *SetMonitoringModeRequest) EncodingID() uint32 { return TypeIDSetMonitoringModeRequest }

func (r *SetMonitoringModeRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteUint32(uint32(r.MonitoringMode))
	enc.WriteInt32(int32(len(r.MonitoredItemIDs)))
	for _, id := range r.MonitoredItemIDs {
		enc.WriteUint32(id)
	}
}

func decodeSetMonitoringModeRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &SetMonitoringModeRequest{RequestHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	mode, err := dec.ReadUint32()
	if err != nil {
		return nil, err
	}
	r.MonitoringMode = MonitoringMode(mode)
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.MonitoredItemIDs = make([]uint32, n)
		for i := range r.MonitoredItemIDs {
			if r.MonitoredItemIDs[i], err = dec.ReadUint32(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type SetMonitoringModeResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []ua.StatusCode
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *SetMonitoringModeResponse) EncodingID() uint32 { return TypeIDSetMonitoringModeResponse }

func (r *SetMonitoringModeResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteInt32(int32(len(r.Results)))
	for _, s := range r.Results {
		enc.WriteStatusCode(s)
	}
	enc.WriteInt32(int32(len(r.DiagnosticInfos)))
	for _, d := range r.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeSetMonitoringModeResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &SetMonitoringModeResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Results = make([]ua.StatusCode, n)
		for i := range r.Results {
			if r.Results[i], err = dec.ReadStatusCode(); err != nil {
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

type SetTriggeringRequest struct {
	RequestHeader   *RequestHeader
	SubscriptionID  uint32
	TriggeringItemID uint32
	LinksToAdd      []uint32
	LinksToRemove   []uint32
}

func (r *SetTriggeringRequest) EncodingID() uint32 { return TypeIDSetTriggeringRequest }

func (r *SetTriggeringRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteUint32(r.TriggeringItemID)
	enc.WriteInt32(int32(len(r.LinksToAdd)))
	for _, id := range r.LinksToAdd {
		enc.WriteUint32(id)
	}
	enc.WriteInt32(int32(len(r.LinksToRemove)))
	for _, id := range r.LinksToRemove {
		enc.WriteUint32(id)
	}
}

func decodeSetTriggeringRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &SetTriggeringRequest{RequestHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.TriggeringItemID, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.LinksToAdd = make([]uint32, n)
		for i := range r.LinksToAdd {
			if r.LinksToAdd[i], err = dec.ReadUint32(); err != nil {
				return nil, err
			}
		}
	}
	m, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if m > 0 {
		r.LinksToRemove = make([]uint32, m)
		for i := range r.LinksToRemove {
			if r.LinksToRemove[i], err = dec.ReadUint32(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type SetTriggeringResponse struct {
	ResponseHeader      *ResponseHeader
	AddResults          []ua.StatusCode
	AddDiagnosticInfos  []*ua.DiagnosticInfo
	RemoveResults       []ua.StatusCode
	RemoveDiagnosticInfos []*ua.DiagnosticInfo
}

func (r *SetTriggeringResponse) EncodingID() uint32 { return TypeIDSetTriggeringResponse }

func (r *SetTriggeringResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteInt32(int32(len(r.AddResults)))
	for _, s := range r.AddResults {
		enc.WriteStatusCode(s)
	}
	enc.WriteInt32(int32(len(r.AddDiagnosticInfos)))
	for _, d := range r.AddDiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
	enc.WriteInt32(int32(len(r.RemoveResults)))
	for _, s := range r.RemoveResults {
		enc.WriteStatusCode(s)
	}
	enc.WriteInt32(int32(len(r.RemoveDiagnosticInfos)))
	for _, d := range r.RemoveDiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeSetTriggeringResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &SetTriggeringResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.AddResults = make([]ua.StatusCode, n)
		for i := range r.AddResults {
			if r.AddResults[i], err = dec.ReadStatusCode(); err != nil {
				return nil, err
			}
		}
	}
	m, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if m > 0 {
		r.AddDiagnosticInfos = make([]*ua.DiagnosticInfo, m)
		for i := range r.AddDiagnosticInfos {
			if r.AddDiagnosticInfos[i], err = dec.ReadDiagnosticInfo(); err != nil {
				return nil, err
			}
		}
	}
	p, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if p > 0 {
		r.RemoveResults = make([]ua.StatusCode, p)
		for i := range r.RemoveResults {
			if r.RemoveResults[i], err = dec.ReadStatusCode(); err != nil {
				return nil, err
			}
		}
	}
	q, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if q > 0 {
		r.RemoveDiagnosticInfos = make([]*ua.DiagnosticInfo, q)
		for i := range r.RemoveDiagnosticInfos {
			if r.RemoveDiagnosticInfos[i], err = dec.ReadDiagnosticInfo(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type DeleteMonitoredItemsRequest struct {
	RequestHeader    *RequestHeader
	SubscriptionID   uint32
	MonitoredItemIDs []uint32
}

func (r *DeleteMonitoredItemsRequest) EncodingID() uint32 { return TypeIDDeleteMonitoredItemsRequest }

func (r *DeleteMonitoredItemsRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteInt32(int32(len(r.MonitoredItemIDs)))
	for _, id := range r.MonitoredItemIDs {
		enc.WriteUint32(id)
	}
}

func decodeDeleteMonitoredItemsRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &DeleteMonitoredItemsRequest{RequestHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.MonitoredItemIDs = make([]uint32, n)
		for i := range r.MonitoredItemIDs {
			if r.MonitoredItemIDs[i], err = dec.ReadUint32(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type DeleteMonitoredItemsResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []ua.StatusCode
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *DeleteMonitoredItemsResponse) EncodingID() uint32 { return TypeIDDeleteMonitoredItemsResponse }

func (r *DeleteMonitoredItemsResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteInt32(int32(len(r.Results)))
	for _, s := range r.Results {
		enc.WriteStatusCode(s)
	}
	enc.WriteInt32(int32(len(r.DiagnosticInfos)))
	for _, d := range r.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeDeleteMonitoredItemsResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &DeleteMonitoredItemsResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Results = make([]ua.StatusCode, n)
		for i := range r.Results {
			if r.Results[i], err = dec.ReadStatusCode(); err != nil {
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
	ua.RegisterType(TypeIDCreateMonitoredItemsRequest, decodeCreateMonitoredItemsRequest)
	ua.RegisterType(TypeIDCreateMonitoredItemsResponse, decodeCreateMonitoredItemsResponse)
	ua.RegisterType(TypeIDModifyMonitoredItemsRequest, decodeModifyMonitoredItemsRequest)
	ua.RegisterType(TypeIDModifyMonitoredItemsResponse, decodeModifyMonitoredItemsResponse)
	ua.RegisterType(TypeIDSetMonitoringModeRequest, decodeSetMonitoringModeRequest)
	ua.RegisterType(TypeIDSetMonitoringModeResponse, decodeSetMonitoringModeResponse)
	ua.RegisterType(TypeIDSetTriggeringRequest, decodeSetTriggeringRequest)
	ua.RegisterType(TypeIDSetTriggeringResponse, decodeSetTriggeringResponse)
	ua.RegisterType(TypeIDDeleteMonitoredItemsRequest, decodeDeleteMonitoredItemsRequest)
	ua.RegisterType(TypeIDDeleteMonitoredItemsResponse, decodeDeleteMonitoredItemsResponse)
}
