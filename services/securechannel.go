package services

import (
	"time"

	"opcuacore/ua"
)

// SecurityTokenRequestType discriminates an OpenSecureChannelRequest's
// purpose: issuing a brand-new channel or renewing an existing one's
// token ahead of expiry.
type SecurityTokenRequestType uint32

const (
	RequestTypeIssue SecurityTokenRequestType = 0
	RequestTypeRenew SecurityTokenRequestType = 1
)

// MessageSecurityMode mirrors the standard enumeration; only None is
// exercised by this client (SecurityMode=Sign/SignAndEncrypt are reserved
// hooks, not implemented).
type MessageSecurityMode uint32

const (
	SecurityModeInvalid        MessageSecurityMode = 0
	SecurityModeNone           MessageSecurityMode = 1
	SecurityModeSign           MessageSecurityMode = 2
	SecurityModeSignAndEncrypt MessageSecurityMode = 3
)

// SecurityPolicyNone is the only security policy URI this client issues
// channels against.
const SecurityPolicyNone = "http://opcfoundation.org/UA/SecurityPolicies#None"

type OpenSecureChannelRequest struct {
	RequestHeader     *RequestHeader
	ClientProtocolVersion uint32
	RequestType       SecurityTokenRequestType
	SecurityMode      MessageSecurityMode
	ClientNonce       []byte
	RequestedLifetime uint32
}

func (r *OpenSecureChannelRequest) EncodingID() uint32 { return TypeIDOpenSecureChannelRequest }

func (r *OpenSecureChannelRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteUint32(r.ClientProtocolVersion)
	enc.WriteUint32(uint32(r.RequestType))
	enc.WriteUint32(uint32(r.SecurityMode))
	_ = enc.WriteByteString(r.ClientNonce)
	enc.WriteUint32(r.RequestedLifetime)
}

func decodeOpenSecureChannelRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &OpenSecureChannelRequest{RequestHeader: h}
	if r.ClientProtocolVersion, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	reqType, err := dec.ReadUint32()
	if err != nil {
		return nil, err
	}
	r.RequestType = SecurityTokenRequestType(reqType)
	mode, err := dec.ReadUint32()
	if err != nil {
		return nil, err
	}
	r.SecurityMode = MessageSecurityMode(mode)
	if r.ClientNonce, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	if r.RequestedLifetime, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	return r, nil
}

// ChannelSecurityToken identifies the channel and its currently-active
// symmetric key generation.
type ChannelSecurityToken struct {
	ChannelID       uint32
	TokenID         uint32
	CreatedAt       time.Time
	RevisedLifetime uint32 // milliseconds
}

func (s *ChannelSecurityToken) encode(enc *ua.Encoder) {
	enc.WriteUint32(s.ChannelID)
	enc.WriteUint32(s.TokenID)
	enc.WriteDateTime(s.CreatedAt)
	enc.WriteUint32(s.RevisedLifetime)
}

func decodeChannelSecurityToken(dec *ua.Decoder) (ChannelSecurityToken, error) {
	var s ChannelSecurityToken
	var err error
	if s.ChannelID, err = dec.ReadUint32(); err != nil {
		return s, err
	}
	if s.TokenID, err = dec.ReadUint32(); err != nil {
		return s, err
	}
	if s.CreatedAt, err = dec.ReadDateTime(); err != nil {
		return s, err
	}
	if s.RevisedLifetime, err = dec.ReadUint32(); err != nil {
		return s, err
	}
	return s, nil
}

type OpenSecureChannelResponse struct {
	ResponseHeader       *ResponseHeader
	ServerProtocolVersion uint32
	SecurityToken        ChannelSecurityToken
	ServerNonce          []byte
}

func (r *OpenSecureChannelResponse) EncodingID() uint32 { return TypeIDOpenSecureChannelResponse }

func (r *OpenSecureChannelResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	enc.WriteUint32(r.ServerProtocolVersion)
	r.SecurityToken.encode(enc)
	_ = enc.WriteByteString(r.ServerNonce)
}

func decodeOpenSecureChannelResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &OpenSecureChannelResponse{ResponseHeader: h}
	if r.ServerProtocolVersion, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	if r.SecurityToken, err = decodeChannelSecurityToken(dec); err != nil {
		return nil, err
	}
	if r.ServerNonce, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	return r, nil
}

type CloseSecureChannelRequest struct {
	RequestHeader *RequestHeader
}

func (r *CloseSecureChannelRequest) EncodingID() uint32 { return TypeIDCloseSecureChannelRequest }

func (r *CloseSecureChannelRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
}

func decodeCloseSecureChannelRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	return &CloseSecureChannelRequest{RequestHeader: h}, nil
}

type CloseSecureChannelResponse struct {
	ResponseHeader *ResponseHeader
}

func (r *CloseSecureChannelResponse) EncodingID() uint32 { return TypeIDCloseSecureChannelResponse }

func (r *CloseSecureChannelResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
}

func decodeCloseSecureChannelResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	return &CloseSecureChannelResponse{ResponseHeader: h}, nil
}

func init() {
	ua.RegisterType(TypeIDOpenSecureChannelRequest, decodeOpenSecureChannelRequest)
	ua.RegisterType(TypeIDOpenSecureChannelResponse, decodeOpenSecureChannelResponse)
	ua.RegisterType(TypeIDCloseSecureChannelRequest, decodeCloseSecureChannelRequest)
	ua.RegisterType(TypeIDCloseSecureChannelResponse, decodeCloseSecureChannelResponse)
}
