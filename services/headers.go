// Package services holds the structured request/response catalog: each
// type names a stable _Encoding_DefaultBinary numeric id and knows how to
// encode/decode itself through the ua codec. The exhaustive OPC-UA schema
// catalog is generated offline in a full implementation; this package
// hand-writes the representative subset this client's L2/L3 layers and
// subscription lifecycle actually exercise, registering each with
// ua.RegisterType in its init().
package services

import (
	"time"

	"opcuacore/ua"
)

// Binary encoding ids, taken from the standard OPC-UA Part 6 schema so
// that a real server's responses decode correctly.
const (
	TypeIDOpenSecureChannelRequest   = 446
	TypeIDOpenSecureChannelResponse  = 449
	TypeIDCloseSecureChannelRequest  = 452
	TypeIDCloseSecureChannelResponse = 455
	TypeIDServiceFault               = 397
	TypeIDCreateSessionRequest       = 461
	TypeIDCreateSessionResponse      = 464
	TypeIDActivateSessionRequest     = 467
	TypeIDActivateSessionResponse    = 470
	TypeIDCloseSessionRequest        = 473
	TypeIDCloseSessionResponse       = 476
	TypeIDReadRequest                = 631
	TypeIDReadResponse               = 634
	TypeIDBrowseRequest              = 527
	TypeIDBrowseResponse             = 530
	TypeIDTranslateBrowsePathsToNodeIdsRequest  = 554
	TypeIDTranslateBrowsePathsToNodeIdsResponse = 557
	TypeIDCreateSubscriptionRequest  = 787
	TypeIDCreateSubscriptionResponse = 790
	TypeIDModifySubscriptionRequest  = 793
	TypeIDModifySubscriptionResponse = 796
	TypeIDDeleteSubscriptionsRequest  = 847
	TypeIDDeleteSubscriptionsResponse = 850
	TypeIDSetPublishingModeRequest    = 799
	TypeIDSetPublishingModeResponse   = 802
	TypeIDCreateMonitoredItemsRequest  = 751
	TypeIDCreateMonitoredItemsResponse = 754
	TypeIDModifyMonitoredItemsRequest  = 763
	TypeIDModifyMonitoredItemsResponse = 766
	TypeIDSetMonitoringModeRequest     = 769
	TypeIDSetMonitoringModeResponse    = 772
	TypeIDSetTriggeringRequest         = 775
	TypeIDSetTriggeringResponse        = 778
	TypeIDDeleteMonitoredItemsRequest  = 781
	TypeIDDeleteMonitoredItemsResponse = 784
	TypeIDPublishRequest               = 826
	TypeIDPublishResponse              = 829
	TypeIDRepublishRequest             = 832
	TypeIDRepublishResponse            = 835
	TypeIDTransferSubscriptionsRequest  = 841
	TypeIDTransferSubscriptionsResponse = 844
)

// RequestHeader is stamped onto every outgoing service request except
// OpenSecureChannel; it is the session's sole authorization mechanism.
type RequestHeader struct {
	AuthenticationToken *ua.NodeID
	Timestamp           time.Time
	RequestHandle       uint32
	ReturnDiagnostics   uint32
	AuditEntryID        string
	TimeoutHint         uint32
	AdditionalHeader    *ua.ExtensionObject
}

func (h *RequestHeader) encode(enc *ua.Encoder) error {
	if h.AuthenticationToken == nil {
		h.AuthenticationToken = ua.NewNumericNodeID(0, 0)
	}
	if err := enc.WriteNodeID(h.AuthenticationToken); err != nil {
		return err
	}
	enc.WriteDateTime(h.Timestamp)
	enc.WriteUint32(h.RequestHandle)
	enc.WriteUint32(h.ReturnDiagnostics)
	if err := enc.WriteString(h.AuditEntryID); err != nil {
		return err
	}
	enc.WriteUint32(h.TimeoutHint)
	return enc.WriteExtensionObject(h.AdditionalHeader)
}

func decodeRequestHeader(dec *ua.Decoder) (*RequestHeader, error) {
	h := &RequestHeader{}
	var err error
	if h.AuthenticationToken, err = dec.ReadNodeID(); err != nil {
		return nil, err
	}
	if h.Timestamp, err = dec.ReadDateTime(); err != nil {
		return nil, err
	}
	if h.RequestHandle, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if h.ReturnDiagnostics, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if h.AuditEntryID, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if h.TimeoutHint, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if h.AdditionalHeader, err = dec.ReadExtensionObject(); err != nil {
		return nil, err
	}
	return h, nil
}

// ResponseHeader is the mirror of RequestHeader on every reply.
// ServiceResult carries the Bad/Good status that the secure-conversation
// and session layers inspect to decide whether to reject the caller's
// future with a ServiceFault.
type ResponseHeader struct {
	Timestamp          time.Time
	RequestHandle      uint32
	ServiceResult      ua.StatusCode
	ServiceDiagnostics *ua.DiagnosticInfo
	StringTable        []string
	AdditionalHeader   *ua.ExtensionObject
}

func (h *ResponseHeader) encode(enc *ua.Encoder) error {
	enc.WriteDateTime(h.Timestamp)
	enc.WriteUint32(h.RequestHandle)
	enc.WriteStatusCode(h.ServiceResult)
	if err := enc.WriteDiagnosticInfo(h.ServiceDiagnostics); err != nil {
		return err
	}
	enc.WriteInt32(int32(len(h.StringTable)))
	for _, s := range h.StringTable {
		if err := enc.WriteString(s); err != nil {
			return err
		}
	}
	return enc.WriteExtensionObject(h.AdditionalHeader)
}

func decodeResponseHeader(dec *ua.Decoder) (*ResponseHeader, error) {
	h := &ResponseHeader{}
	var err error
	if h.Timestamp, err = dec.ReadDateTime(); err != nil {
		return nil, err
	}
	if h.RequestHandle, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if h.ServiceResult, err = dec.ReadStatusCode(); err != nil {
		return nil, err
	}
	if h.ServiceDiagnostics, err = dec.ReadDiagnosticInfo(); err != nil {
		return nil, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if n > 0 {
		h.StringTable = make([]string, n)
		for i := range h.StringTable {
			if h.StringTable[i], _, err = dec.ReadString(); err != nil {
				return nil, err
			}
		}
	}
	if h.AdditionalHeader, err = dec.ReadExtensionObject(); err != nil {
		return nil, err
	}
	return h, nil
}

// ServiceFault is returned in place of the expected response type whenever
// a service call fails at the server; its header's ServiceResult carries
// the Bad status code the caller should surface as a KindServiceFault.
type ServiceFault struct {
	ResponseHeader *ResponseHeader
}

func (s *ServiceFault) EncodingID() uint32 { return TypeIDServiceFault }

func (s *ServiceFault) Encode(enc *ua.Encoder) {
	_ = s.ResponseHeader.encode(enc)
}

func decodeServiceFault(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	return &ServiceFault{ResponseHeader: h}, nil
}

func init() {
	ua.RegisterType(TypeIDServiceFault, decodeServiceFault)
}
