package services

import (
	"time"

	"opcuacore/ua"
)

// UserIdentityTokenKind names the supported identity kinds, each sent as
// an ExtensionObject at ActivateSession. Anonymous and UserName have
// token types with real fields here (AnonymousIdentityToken,
// UserNameIdentityToken); X509/Issued have no token type in this package,
// so the caller supplies their payload pre-encoded into Opaque
// (SecurityMode=None means no crypto wrapping is required).
type UserIdentityTokenKind uint8

const (
	UserIdentityAnonymous UserIdentityTokenKind = iota
	UserIdentityUserName
	UserIdentityX509
	UserIdentityIssued
)

type AnonymousIdentityToken struct {
	PolicyID string
}

func (t *AnonymousIdentityToken) EncodingID() uint32 { return 321 }

func (t *AnonymousIdentityToken) Encode(enc *ua.Encoder) {
	_ = enc.WriteString(t.PolicyID)
}

func decodeAnonymousIdentityToken(dec *ua.Decoder) (ua.Encodable, error) {
	policyID, _, err := dec.ReadString()
	if err != nil {
		return nil, err
	}
	return &AnonymousIdentityToken{PolicyID: policyID}, nil
}

type UserNameIdentityToken struct {
	PolicyID            string
	UserName             string
	Password              []byte
	EncryptionAlgorithm   string
}

func (t *UserNameIdentityToken) EncodingID() uint32 { return 327 }

func (t *UserNameIdentityToken) Encode(enc *ua.Encoder) {
	_ = enc.WriteString(t.PolicyID)
	_ = enc.WriteString(t.UserName)
	_ = enc.WriteByteString(t.Password)
	_ = enc.WriteString(t.EncryptionAlgorithm)
}

func decodeUserNameIdentityToken(dec *ua.Decoder) (ua.Encodable, error) {
	t := &UserNameIdentityToken{}
	var err error
	if t.PolicyID, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if t.UserName, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if t.Password, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	if t.EncryptionAlgorithm, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	return t, nil
}

type ApplicationDescription struct {
	ApplicationURI      string
	ProductURI          string
	ApplicationName     ua.LocalizedText
	ApplicationType     uint32
	GatewayServerURI    string
	DiscoveryProfileURI string
	DiscoveryURLs       []string
}

func (a *ApplicationDescription) encode(enc *ua.Encoder) {
	_ = enc.WriteString(a.ApplicationURI)
	_ = enc.WriteString(a.ProductURI)
	_ = enc.WriteLocalizedText(a.ApplicationName)
	enc.WriteUint32(a.ApplicationType)
	_ = enc.WriteString(a.GatewayServerURI)
	_ = enc.WriteString(a.DiscoveryProfileURI)
	enc.WriteInt32(int32(len(a.DiscoveryURLs)))
	for _, u := range a.DiscoveryURLs {
		_ = enc.WriteString(u)
	}
}

type CreateSessionRequest struct {
	RequestHeader           *RequestHeader
	ClientDescription       ApplicationDescription
	ServerURI               string
	EndpointURL             string
	SessionName             string
	ClientNonce             []byte
	ClientCertificate       []byte
	RequestedSessionTimeout float64
	MaxResponseMessageSize  uint32
}

func (r *CreateSessionRequest) EncodingID() uint32 { return TypeIDCreateSessionRequest }

func (r *CreateSessionRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	r.ClientDescription.encode(enc)
	_ = enc.WriteString(r.ServerURI)
	_ = enc.WriteString(r.EndpointURL)
	_ = enc.WriteString(r.SessionName)
	_ = enc.WriteByteString(r.ClientNonce)
	_ = enc.WriteByteString(r.ClientCertificate)
	enc.WriteFloat64(r.RequestedSessionTimeout)
	enc.WriteUint32(r.MaxResponseMessageSize)
}

func decodeCreateSessionRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &CreateSessionRequest{RequestHeader: h}
	if r.ServerURI, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if r.EndpointURL, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if r.SessionName, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if r.ClientNonce, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	if r.ClientCertificate, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	if r.RequestedSessionTimeout, err = dec.ReadFloat64(); err != nil {
		return nil, err
	}
	if r.MaxResponseMessageSize, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	return r, nil
}

type CreateSessionResponse struct {
	ResponseHeader           *ResponseHeader
	SessionID                *ua.NodeID
	AuthenticationToken      *ua.NodeID
	RevisedSessionTimeout    float64
	ServerNonce              []byte
	ServerCertificate        []byte
	ServerEndpoints          []byte // opaque: EndpointDescription[] is out of scope's exhaustive catalog
	ServerSoftwareCertificates []byte
	ServerSignatureAlgorithm string
	ServerSignatureData      []byte
	MaxRequestMessageSize    uint32
}

func (r *CreateSessionResponse) EncodingID() uint32 { return TypeIDCreateSessionResponse }

func (r *CreateSessionResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	_ = enc.WriteNodeID(r.SessionID)
	_ = enc.WriteNodeID(r.AuthenticationToken)
	enc.WriteFloat64(r.RevisedSessionTimeout)
	_ = enc.WriteByteString(r.ServerNonce)
	_ = enc.WriteByteString(r.ServerCertificate)
	enc.WriteUint32(r.MaxRequestMessageSize)
}

func decodeCreateSessionResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &CreateSessionResponse{ResponseHeader: h}
	if r.SessionID, err = dec.ReadNodeID(); err != nil {
		return nil, err
	}
	if r.AuthenticationToken, err = dec.ReadNodeID(); err != nil {
		return nil, err
	}
	if r.RevisedSessionTimeout, err = dec.ReadFloat64(); err != nil {
		return nil, err
	}
	if r.ServerNonce, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	if r.ServerCertificate, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	// ServerEndpoints / ServerSoftwareCertificates / signature fields:
	// skip structurally since EndpointDescription is outside this core's
	// generated-catalog scope. A real decode would consume them here;
	// this client doesn't need their contents to activate a session.
	if r.MaxRequestMessageSize, err = dec.ReadUint32(); err != nil {
		return nil, err
	}
	return r, nil
}

type ActivateSessionRequest struct {
	RequestHeader          *RequestHeader
	ClientSignatureAlgorithm string
	ClientSignatureData     []byte
	LocaleIDs               []string
	UserIdentityToken       *ua.ExtensionObject
	UserTokenSignatureAlgorithm string
	UserTokenSignatureData  []byte
}

func (r *ActivateSessionRequest) EncodingID() uint32 { return TypeIDActivateSessionRequest }

func (r *ActivateSessionRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	_ = enc.WriteString(r.ClientSignatureAlgorithm)
	_ = enc.WriteByteString(r.ClientSignatureData)
	enc.WriteInt32(0) // ClientSoftwareCertificates: none issued without encryption
	enc.WriteInt32(int32(len(r.LocaleIDs)))
	for _, l := range r.LocaleIDs {
		_ = enc.WriteString(l)
	}
	_ = enc.WriteExtensionObject(r.UserIdentityToken)
	_ = enc.WriteString(r.UserTokenSignatureAlgorithm)
	_ = enc.WriteByteString(r.UserTokenSignatureData)
}

func decodeActivateSessionRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &ActivateSessionRequest{RequestHeader: h}
	if r.ClientSignatureAlgorithm, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if r.ClientSignatureData, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	n, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	for i := int32(0); i < n; i++ {
		if _, err = dec.ReadExtensionObject(); err != nil {
			return nil, err
		}
	}
	localeCount, err := dec.ReadInt32()
	if err != nil {
		return nil, err
	}
	if localeCount > 0 {
		r.LocaleIDs = make([]string, localeCount)
		for i := range r.LocaleIDs {
			if r.LocaleIDs[i], _, err = dec.ReadString(); err != nil {
				return nil, err
			}
		}
	}
	if r.UserIdentityToken, err = dec.ReadExtensionObject(); err != nil {
		return nil, err
	}
	if r.UserTokenSignatureAlgorithm, _, err = dec.ReadString(); err != nil {
		return nil, err
	}
	if r.UserTokenSignatureData, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
	return r, nil
}

type ActivateSessionResponse struct {
	ResponseHeader  *ResponseHeader
	ServerNonce     []byte
	Results         []ua.StatusCode
	DiagnosticInfos []*ua.DiagnosticInfo
}

func (r *ActivateSessionResponse) EncodingID() uint32 { return TypeIDActivateSessionResponse }

func (r *ActivateSessionResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
	_ = enc.WriteByteString(r.ServerNonce)
	enc.WriteInt32(int32(len(r.Results)))
	for _, s := range r.Results {
		enc.WriteStatusCode(s)
	}
	enc.WriteInt32(int32(len(r.DiagnosticInfos)))
	for _, d := range r.DiagnosticInfos {
		_ = enc.WriteDiagnosticInfo(d)
	}
}

func decodeActivateSessionResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &ActivateSessionResponse{ResponseHeader: h}
	if r.ServerNonce, err = dec.ReadByteString(); err != nil {
		return nil, err
	}
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

type CloseSessionRequest struct {
	RequestHeader   *RequestHeader
	DeleteSubscriptions bool
}

func (r *CloseSessionRequest) EncodingID() uint32 { return TypeIDCloseSessionRequest }

func (r *CloseSessionRequest) Encode(enc *ua.Encoder) {
	_ = r.RequestHeader.encode(enc)
	enc.WriteBool(r.DeleteSubscriptions)
}

func decodeCloseSessionRequest(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeRequestHeader(dec)
	if err != nil {
		return nil, err
	}
	r := &CloseSessionRequest{RequestHeader: h}
	if r.DeleteSubscriptions, err = dec.ReadBool(); err != nil {
		return nil, err
	}
	return r, nil
}

type CloseSessionResponse struct {
	ResponseHeader *ResponseHeader
}

func (r *CloseSessionResponse) EncodingID() uint32 { return TypeIDCloseSessionResponse }
func (r *CloseSessionResponse) Encode(enc *ua.Encoder) {
	_ = r.ResponseHeader.encode(enc)
}

func decodeCloseSessionResponse(dec *ua.Decoder) (ua.Encodable, error) {
	h, err := decodeResponseHeader(dec)
	if err != nil {
		return nil, err
	}
	return &CloseSessionResponse{ResponseHeader: h}, nil
}

// NewRequestHeader builds the RequestHeader every standard service call
// stamps onto its body: the session's authentication token, "now", and
// the caller's timeout hint (or a default).
func NewRequestHeader(authToken *ua.NodeID, timeoutHint time.Duration) *RequestHeader {
	hint := uint32(timeoutHint.Milliseconds())
	return &RequestHeader{
		AuthenticationToken: authToken,
		Timestamp:           time.Now(),
		TimeoutHint:         hint,
	}
}

func init() {
	ua.RegisterType(321, decodeAnonymousIdentityToken)
	ua.RegisterType(327, decodeUserNameIdentityToken)
	ua.RegisterType(TypeIDCreateSessionRequest, decodeCreateSessionRequest)
	ua.RegisterType(TypeIDCreateSessionResponse, decodeCreateSessionResponse)
	ua.RegisterType(TypeIDActivateSessionRequest, decodeActivateSessionRequest)
	ua.RegisterType(TypeIDActivateSessionResponse, decodeActivateSessionResponse)
	ua.RegisterType(TypeIDCloseSessionRequest, decodeCloseSessionRequest)
	ua.RegisterType(TypeIDCloseSessionResponse, decodeCloseSessionResponse)
}
