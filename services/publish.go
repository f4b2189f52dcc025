package services

import (
	"time"

	"opcuacore/ua"
)

// SubscriptionAcknowledgement tells the server which sequence numbers of
// a subscription's NotificationMessages this client has consumed and may
// be discarded from its retransmission queue.
type SubscriptionAcknowledgement struct {
	SubscriptionID uint32
	SequenceNumber uint32
}

func (a *SubscriptionAcknowledgement) encode(enc *ua.Encoder) {
	enc.WriteUint32(a.SubscriptionID)
	enc.WriteUint32(a.SequenceNumber)
}

func decodeSubscriptionAcknowledgement(dec *ua.Decoder) (SubscriptionAcknowledgement, error) {
	var a SubscriptionAcknowledgement
	var err error
	if a.SubscriptionID, err = dec.ReadUint32(); err != nil {
		return a, err
	}
	if a.SequenceNumber, err = dec.ReadUint32(); err != nil {
		return a, err
	}
	return a, nil
}

type PublishRequest struct {
	RequestHeader                *RequestHeader
	SubscriptionAcknowledgements []SubscriptionAcknowledgement
}

func (r *PublishRequest) EncodingID() uint32 { return TypeIDPublishRequest }

func (r *PublishRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteInt32(int32(len(r.SubscriptionAcknowledgements)))
	for i := range r.SubscriptionAcknowledgements {
		r.SubscriptionAcknowledgements[i].encode(enc)
	}
}

func decodePublishRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &PublishRequest{RequestHeader: h}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.SubscriptionAcknowledgements = make([]SubscriptionAcknowledgement, n)
		for i := range r.SubscriptionAcknowledgements {
			if r.SubscriptionAcknowledgements[i], err = decodeSubscriptionAcknowledgement(dec); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// MonitoredItemNotification is one changed value inside a
// DataChangeNotification, keyed by the ClientHandle the item was created
// with (not its server-side MonitoredItemId).
type MonitoredItemNotification struct {
	ClientHandle uint32
	Value        *ua.DataValue
}

func (n *MonitoredItemNotification) encode(enc *ua.Encoder) error {
	enc.WriteUint32(n.ClientHandle)
	return enc.WriteDataValue(n.Value)
}

func decodeMonitoredItemNotification(dec *ua.Decoder) (MonitoredItemNotification, error) {
	var n MonitoredItemNotification
	var err error
	if n.ClientHandle, err = dec.ReadUint32(); err != nil {
		return n, err
	}
	if n.Value, err = dec.ReadDataValue(); err != nil {
		return n, err
	}
	return n, nil
}

// DataChangeNotification carries the binary encoding id 811, matching the
// standard schema's DataChangeNotification_Encoding_DefaultBinary.
const TypeIDDataChangeNotification = 811

type DataChangeNotification struct {
	MonitoredItems  []MonitoredItemNotification
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (n *DataChangeNotification) EncodingID() uint32 { return TypeIDDataChangeNotification }

func (n *DataChangeNotification) Encode(enc *ua.Encoder) {
	enc.WriteInt32(int32(len(n.MonitoredItems)))
	for i := range n.MonitoredItems {
		_ = n.MonitoredItems[i].encode(enc)
	}
	enc.WriteInt32(int32(len(n.DiagnosticInfos)))
	for _, d := range n.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeDataChangeNotification(dec *ua.Decoder) (ua.Encodable, error) {
	n := &DataChangeNotification{}
	count, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		n.MonitoredItems = make([]MonitoredItemNotification, count)
		for i := range n.MonitoredItems {
			if n.MonitoredItems[i], err = decodeMonitoredItemNotification(dec); err != nil {
				return nil, err
			}
		}
	}
	m, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if m > 0 {
		n.DiagnosticInfos = make([]*ua.DiagnosticInfo, m)
		for i := range n.DiagnosticInfos {
			if n.DiagnosticInfos[i], err = dec.ReadDiagnosticInfo(); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

// EventFieldList carries the resolved select-clause values for one event
// occurrence, keyed by ClientHandle like MonitoredItemNotification.
type EventFieldList struct {
	ClientHandle uint32
	EventFields  []*ua.Variant
}

func (e *EventFieldList) encode(enc *ua.Encoder) error {
	enc.WriteUint32(e.ClientHandle)
	enc.WriteInt32(int32(len(e.EventFields)))
	for _, v := range e.EventFields {
		if err := enc.WriteVariant(v); err != nil {
			return err
		}
	}
	return nil
}

func decodeEventFieldList(dec *ua.Decoder) (EventFieldList, error) {
	var e EventFieldList
	var err error
	if e.ClientHandle, err = dec.ReadUint32(); err != nil {
		return e, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return e, err
	}
	if n > 0 {
		e.EventFields = make([]*ua.Variant, n)
		for i := range e.EventFields {
			if e.EventFields[i], err = dec.ReadVariant(); err != nil {
				return e, err
			}
		}
	}
	return e, nil
}

const TypeIDEventNotificationList = 917

type EventNotificationList struct {
	Events []EventFieldList
}

func (n *EventNotificationList) EncodingID() uint32 { return TypeIDEventNotificationList }

func (n *EventNotificationList) Encode(enc *ua.Encoder) {
	enc.WriteInt32(int32(len(n.Events)))
	for i := range n.Events {
		_ = n.Events[i].encode(enc)
	}
}

func decodeEventNotificationList(dec *ua.Decoder) (ua.Encodable, error) {
	n := &EventNotificationList{}
	count, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if count > 0 {
		n.Events = make([]EventFieldList, count)
		for i := range n.Events {
			if n.Events[i], err = decodeEventFieldList(dec); err != nil {
				return nil, err
			}
		}
	}
	return n, nil
}

const TypeIDStatusChangeNotification = 821

// StatusChangeNotification informs the client that the subscription
// itself transitioned state, e.g. Bad_Timeout after the server gave up
// on an unacknowledged subscription, or Bad_SubscriptionIdInvalid after a
// failed transfer.
type StatusChangeNotification struct {
	Status             ua.StatusCode
	DiagnosticInfo     *ua.DiagnosticInfo
}

func (n *StatusChangeNotification) EncodingID() uint32 { return TypeIDStatusChangeNotification }

func (n *StatusChangeNotification) Encode(enc *ua.Encoder) {
	enc.WriteStatusCode(n.Status)
	_ = enc.WriteDiagnosticInfo(n.DiagnosticInfo)
}

func decodeStatusChangeNotification(dec *ua.Decoder) (ua.Encodable, error) {
	n := &StatusChangeNotification{}
	var err error
	if n.Status, err = dec.ReadStatusCode(); err != nil {
		return nil, err
	}
	if n.DiagnosticInfo, err = dec.ReadDiagnosticInfo(); err != nil {
		return nil, err
	}
	return n, nil
}

// NotificationMessage is the envelope PublishResponse delivers: a
// sequence number (for acknowledgement and gap detection) and a set of
// ExtensionObject-wrapped notification payloads, each one of
// DataChangeNotification, EventNotificationList, or
// StatusChangeNotification.
type NotificationMessage struct {
	SequenceNumber uint32
	PublishTime    time.Time
	NotificationData []*ua.ExtensionObject
}

func (m *NotificationMessage) encode(enc *ua.Encoder) error {
	enc.WriteUint32(m.SequenceNumber)
	enc.WriteDateTime(m.PublishTime)
	enc.WriteInt32(int32(len(m.NotificationData)))
	for _, obj := range m.NotificationData {
		if err := enc.WriteExtensionObject(obj); err != nil {
			return err
		}
	}
	return nil
}

func decodeNotificationMessage(dec *ua.Decoder) (*NotificationMessage, error) {
	m := &NotificationMessage{}
	var err error
	if m.SequenceNumber, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if m.PublishTime, err = dec.ReadDateTime(); err != nil {
		return nil, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		m.NotificationData = make([]*ua.ExtensionObject, n)
		for i := range m.NotificationData {
			if m.NotificationData[i], err = dec.ReadExtensionObject(); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

type PublishResponse struct {
	ResponseHeader           *ResponseHeader
	SubscriptionID           uint32
	AvailableSequenceNumbers []uint32
	MoreNotifications        bool
	NotificationMessage      *NotificationMessage
	Results                  []ua.StatusCode
	DiagnosticInfos          []*ua.DiagnosticInfo
}

func (r *PublishResponse) EncodingID() uint32 { return TypeIDPublishResponse }

func (r *PublishResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteInt32(int32(len(r.AvailableSequenceNumbers)))
	for _, n := range r.AvailableSequenceNumbers {
		enc.WriteUint32(n)
	}
	enc.WriteBool(r.MoreNotifications)
	_ = r.NotificationMessage.encode(enc)
	enc.WriteInt32(int32(len(r.Results)))
	for _, s := range r.Results {
		enc.WriteStatusCode(s)
	}
	enc.WriteInt32(int32(len(r.DiagnosticInfos)))
	for _, d := range r.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodePublishResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &PublishResponse{ResponseHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		r.AvailableSequenceNumbers = make([]uint32, n)
		for i := range r.AvailableSequenceNumbers {
			if r.AvailableSequenceNumbers[i], err = dec.ReadUint32(); err != nil {
				return nil, err
			}
		}
	}
	if r.MoreNotifications, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	if r.NotificationMessage, err = decodeNotificationMessage(dec); err != nil {
		return nil, err
	}
	m, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if m > 0 {
		r.Results = make([]ua.StatusCode, m)
		for i := range r.Results {
			if r.Results[i], err = dec.ReadStatusCode(); err != nil {
				return nil, err
			}
		}
	}
	p, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if p > 0 {
		r.DiagnosticInfos = make([]*ua.DiagnosticInfo, p)
		for i := range r.DiagnosticInfos {
			if r.DiagnosticInfos[i], err = dec.ReadDiagnosticInfo(); err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

type RepublishRequest struct {
	RequestHeader  *RequestHeader
	SubscriptionID uint32
	RetransmitSequenceNumber uint32
}

func (r *RepublishRequest) EncodingID() uint32 { return TypeIDRepublishRequest }

func (r *RepublishRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteUint32(r.SubscriptionID)
	enc.WriteUint32(r.RetransmitSequenceNumber)
}

func decodeRepublishRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &RepublishRequest{RequestHeader: h}
	if r.SubscriptionID, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.RetransmitSequenceNumber, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	return r, nil
}

type RepublishResponse struct {
	ResponseHeader      *ResponseHeader
	NotificationMessage *NotificationMessage
}

func (r *RepublishResponse) EncodingID() uint32 { return TypeIDRepublishResponse }

func (r *RepublishResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	_ = r.NotificationMessage.encode(enc)
}

func decodeRepublishResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &RepublishResponse{ResponseHeader: h}
	if r.NotificationMessage, err = decodeNotificationMessage(dec); err != nil {
		return nil, err
	}
	return r, nil
}

func init() {
	ua.RegisterType(TypeIDPublishRequest, decodePublishRequest)
	ua.RegisterType(TypeIDPublishResponse, decodePublishResponse)
	ua.RegisterType(TypeIDRepublishRequest, decodeRepublishRequest)
	ua.RegisterType(TypeIDRepublishResponse, decodeRepublishResponse)
	ua.RegisterType(TypeIDDataChangeNotification, decodeDataChangeNotification)
	ua.RegisterType(TypeIDEventNotificationList, decodeEventNotificationList)
	ua.RegisterType(TypeIDStatusChangeNotification, decodeStatusChangeNotification)
}
