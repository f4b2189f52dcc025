package services

import (
	"opcuacore/ua"
)

type CreateSubscriptionRequest struct {
	RequestHeader             *RequestHeader
	RequestedPublishingInterval float64
	RequestedLifetimeCount    uint32
	RequestedMaxKeepAliveCount uint32
	MaxNotificationsPerPublish uint32
	PublishingEnabled         bool
	Priority                  uint8
}

func (r *CreateSubscriptionRequest) EncodingID() uint32 { return TypeIDCreateSubscriptionRequest }

func (r *CreateSubscriptionRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteFloat64(r.RequestedPublishingInterval)
	enc.WriteUint32(r.RequestedLifetimeCount)
	enc.WriteUint32(r.RequestedMaxKeepAliveCount)
	enc.WriteUint32(r.MaxNotificationsPerPublish)
	enc.WriteBool(r.PublishingEnabled)
	enc.WriteUint8(r.Priority)
}

func decodeCreateSubscriptionRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &CreateSubscriptionRequest{RequestHeader: h}
	if r.RequestedPublishingInterval, err = dec.ReadFloat64(); err != nil {
		return nil, err
	}
	if r.RequestedLifetimeCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.RequestedMaxKeepAliveCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.MaxNotificationsPerPublish, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.PublishingEnabled, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	if r.Priority, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	return r, nil
}

type CreateSubscriptionResponse struct {
	ResponseHeader             *ResponseHeader
	SubscriptionID             uint32
	RevisedPublishingInterval  float64
	RevisedLifetimeCount       uint32
	RevisedMaxKeepAliveCount   uint32
}

func (r *CreateSubscriptionResponse) EncodingID() uint32 { return TypeIDCreateSubscriptionResponse }

func (r *CreateSubscriptionResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteFloat64(r.RevisedPublishingInterval)
	enc.WriteUint32(r.RevisedLifetimeCount)
	enc.WriteUint32(r.RevisedMaxKeepAliveCount)
}

func decodeCreateSubscriptionResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &CreateSubscriptionResponse{ResponseHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.RevisedPublishingInterval, err = dec.ReadFloat64(); err != nil {
		return nil, err
	}
	if r.RevisedLifetimeCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.RevisedMaxKeepAliveCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	return r, nil
}

type ModifySubscriptionRequest struct {
	RequestHeader              *RequestHeader
	SubscriptionID             uint32
	RequestedPublishingInterval float64
	RequestedLifetimeCount     uint32
	RequestedMaxKeepAliveCount uint32
	MaxNotificationsPerPublish uint32
	Priority                   uint8
}

func (r *ModifySubscriptionRequest) EncodingID() uint32 { return TypeIDModifySubscriptionRequest }

func (r *ModifySubscriptionRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteFloat64(r.RequestedPublishingInterval)
	enc.WriteUint32(r.RequestedLifetimeCount)
	enc.WriteUint32(r.RequestedMaxKeepAliveCount)
	enc.WriteUint32(r.MaxNotificationsPerPublish)
	enc.WriteUint8(r.Priority)
}

func decodeModifySubscriptionRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &ModifySubscriptionRequest{RequestHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.RequestedPublishingInterval, err = dec.ReadFloat64(); err != nil {
		return nil, err
	}
	if r.RequestedLifetimeCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.RequestedMaxKeepAliveCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.MaxNotificationsPerPublish, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.Priority, err = dec.ReadUint8(); err != nil {
		return nil, err
	}
	return r, nil
}

type ModifySubscriptionResponse struct {
	ResponseHeader            *ResponseHeader
	RevisedPublishingInterval float64
	RevisedLifetimeCount      uint32
	RevisedMaxKeepAliveCount  uint32
}

func (r *ModifySubscriptionResponse) EncodingID() uint32 { return TypeIDModifySubscriptionResponse }

func (r *ModifySubscriptionResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteFloat64(r.RevisedPublishingInterval)
	enc.WriteUint32(r.RevisedLifetimeCount)
	enc.WriteUint32(r.RevisedMaxKeepAliveCount)
}

func decodeModifySubscriptionResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &ModifySubscriptionResponse{ResponseHeader: h}
	if r.RevisedPublishingInterval, err = dec.ReadFloat64(); err != nil {
		return nil, err
	}
	if r.RevisedLifetimeCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.RevisedMaxKeepAliveCount, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	return r, nil
}

type DeleteSubscriptionsRequest struct {
	RequestHeader   *RequestHeader
	SubscriptionIDs []uint32
}

func (r *DeleteSubscriptionsRequest) EncodingID() uint32 { return TypeIDDeleteSubscriptionsRequest }

func (r *DeleteSubscriptionsRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteInt32(int32(len(r.SubscriptionIDs)))
	for _, id := range r.SubscriptionIDs {
		enc.WriteUint32(id)
	}
}

func decodeDeleteSubscriptionsRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &DeleteSubscriptionsRequest{RequestHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.SubscriptionIDs = make([]uint32, n)
		for i := range r.SubscriptionIDs {
			if r.SubscriptionIDs[i], err = dec.ReadUint32(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type DeleteSubscriptionsResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []ua.StatusCode
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *DeleteSubscriptionsResponse) EncodingID() uint32 { return TypeIDDeleteSubscriptionsResponse }

func (r *DeleteSubscriptionsResponse) Encode(enc *ua.Encoder) {
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

func decodeDeleteSubscriptionsResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &DeleteSubscriptionsResponse{ResponseHeader: h}
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

type SetPublishingModeRequest struct {
	RequestHeader     *RequestHeader
	PublishingEnabled bool
	SubscriptionIDs   []uint32
}

func (r *SetPublishingModeRequest) EncodingID() uint32 { return TypeIDSetPublishingModeRequest }

func (r *SetPublishingModeRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteBool(r.PublishingEnabled)
	enc.WriteInt32(int32(len(r.SubscriptionIDs)))
	for _, id := range r.SubscriptionIDs {
		enc.WriteUint32(id)
	}
}

func decodeSetPublishingModeRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &SetPublishingModeRequest{RequestHeader: h}
	if r.PublishingEnabled, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.SubscriptionIDs = make([]uint32, n)
		for i := range r.SubscriptionIDs {
			if r.SubscriptionIDs[i], err = dec.ReadUint32(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type SetPublishingModeResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []ua.StatusCode
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *SetPublishingModeResponse) EncodingID() uint32 { return TypeIDSetPublishingModeResponse }

func (r *SetPublishingModeResponse) Encode(enc *ua.Encoder) {
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

func decodeSetPublishingModeResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &SetPublishingModeResponse{ResponseHeader: h}
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

type TransferSubscriptionsRequest struct {
	RequestHeader   *RequestHeader
	SubscriptionIDs []uint32
	SendInitialValues bool
}

func (r *TransferSubscriptionsRequest) EncodingID() uint32 { return TypeIDTransferSubscriptionsRequest }

func (r *TransferSubscriptionsRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteInt32(int32(len(r.SubscriptionIDs)))
	for _, id := range r.SubscriptionIDs {
		enc.WriteUint32(id)
	}
	enc.WriteBool(r.SendInitialValues)
}

func decodeTransferSubscriptionsRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &TransferSubscriptionsRequest{RequestHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.SubscriptionIDs = make([]uint32, n)
		for i := range r.SubscriptionIDs {
			if r.SubscriptionIDs[i], err = dec.ReadUint32(); err != nil {
				return nil, err
			}
		}
	}
	if r.SendInitialValues, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	return r, nil
}

type TransferResult struct {
	StatusCode         ua.StatusCode
	AvailableSequenceNumbers []uint32
}

func (t *TransferResult) encode(enc *ua.Encoder) {
	enc.WriteStatusCode(t.StatusCode)
	enc.WriteInt32(int32(len(t.AvailableSequenceNumbers)))
	for _, n := range t.AvailableSequenceNumbers {
		enc.WriteUint32(n)
	}
}

func decodeTransferResult(dec *ua.Decoder) (TransferResult, error) {
	var t TransferResult
	var err error
	if t.StatusCode, err = dec.ReadStatusCode(); err != nil {
		return t, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return t, err
	}
	if n > 0 {
		t.AvailableSequenceNumbers = make([]uint32, n)
		for i := range t.AvailableSequenceNumbers {
			if t.AvailableSequenceNumbers[i], err = dec.ReadUint32(); err != nil {
				return t, err
			}
		}
	}
	return t, nil
}

type TransferSubscriptionsResponse struct {
	ResponseHeader  *ResponseHeader
	Results         []TransferResult
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *TransferSubscriptionsResponse) EncodingID() uint32 { return TypeIDTransferSubscriptionsResponse }

func (r *TransferSubscriptionsResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteInt32(int32(len(r.Results)))
	for i := range r.Results {
		r.Results[i].encode(enc)
	}
	enc.WriteInt32(int32(len(r.DiagnosticInfos)))
	for _, d := range r.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeTransferSubscriptionsResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &TransferSubscriptionsResponse{ResponseHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.Results = make([]TransferResult, n)
		for i := range r.Results {
			if r.Results[i], err = decodeTransferResult(dec); err != nil {
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
	ua.RegisterType(TypeIDCreateSubscriptionRequest, decodeCreateSubscriptionRequest)
	ua.RegisterType(TypeIDCreateSubscriptionResponse, decodeCreateSubscriptionResponse)
	ua.RegisterType(TypeIDModifySubscriptionRequest, decodeModifySubscriptionRequest)
	ua.RegisterType(TypeIDModifySubscriptionResponse, decodeModifySubscriptionResponse)
	ua.RegisterType(TypeIDDeleteSubscriptionsRequest, decodeDeleteSubscriptionsRequest)
	ua.RegisterType(TypeIDDeleteSubscriptionsResponse, decodeDeleteSubscriptionsResponse)
	ua.RegisterType(TypeIDSetPublishingModeRequest, decodeSetPublishingModeRequest)
	ua.RegisterType(TypeIDSetPublishingModeResponse, decodeSetPublishingModeResponse)
	ua.RegisterType(TypeIDTransferSubscriptionsRequest, decodeTransferSubscriptionsRequest)
	ua.RegisterType(TypeIDTransferSubscriptionsResponse, decodeTransferSubscriptionsResponse)
}
