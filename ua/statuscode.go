package ua

import "fmt"

// StatusCode is a 32-bit result code. The top two bits carry severity;
// the remaining bits identify the specific condition. Equality is by raw
// code value; String renders the symbolic name when one is known.
type StatusCode uint32

// Severity classifies a StatusCode's top two bits.
type Severity uint8

const (
	SeverityGood      Severity = 0
	SeverityUncertain Severity = 1
	SeverityBad       Severity = 2
)

// Severity extracts the 2-bit severity field from the code.
func (s StatusCode) Severity() Severity {
	return Severity(uint32(s) >> 30 & 0x3)
}

func (s StatusCode) IsGood() bool      { return s.Severity() == SeverityGood }
func (s StatusCode) IsUncertain() bool { return s.Severity() == SeverityUncertain }
func (s StatusCode) IsBad() bool       { return s.Severity() == SeverityBad }

// Representative well-known status codes. The exhaustive catalog (every
// Bad_* condition defined by the OPC-UA schema) is out of scope; these
// are the codes this module's own layers produce or compare against.
const (
	StatusOK                      StatusCode = 0x00000000
	StatusUncertain                StatusCode = 0x40000000
	StatusBad                      StatusCode = 0x80000000
	StatusBadUnexpectedError       StatusCode = 0x80010000
	StatusBadInternalError         StatusCode = 0x80020000
	StatusBadTimeout               StatusCode = 0x800A0000
	StatusBadServiceUnsupported    StatusCode = 0x800B0000
	StatusBadRequestTooLarge       StatusCode = 0x80B80000
	StatusBadResponseTooLarge      StatusCode = 0x80B90000
	StatusBadSequenceNumberInvalid StatusCode = 0x80470000
	StatusBadSecureChannelClosed   StatusCode = 0x80560000
	StatusBadSessionClosed         StatusCode = 0x80570000
	StatusBadSessionIDInvalid      StatusCode = 0x80250000
	StatusBadSessionNotActivated   StatusCode = 0x80580000
	StatusBadConnectionClosed      StatusCode = 0x80AE0000
	StatusBadNotConnected          StatusCode = 0x80AD0000
	StatusBadNodeIDInvalid         StatusCode = 0x80330000
	StatusBadNodeIDUnknown         StatusCode = 0x80340000
	StatusBadMethodInvalid         StatusCode = 0x80350000
	StatusBadArgumentsMissing      StatusCode = 0x80360000
	StatusBadInvalidArgument       StatusCode = 0x80AB0000
	StatusBadOutOfRange            StatusCode = 0x80310000
	StatusBadNotSupported          StatusCode = 0x80400000
	StatusBadSubscriptionIDInvalid StatusCode = 0x80790000
	StatusBadMonitoredItemIDInvalid StatusCode = 0x80470001
	StatusGoodSubscriptionTransferred StatusCode = 0x002D0000
)

var statusNames = map[StatusCode]string{
	StatusOK:                       "Good",
	StatusUncertain:                "Uncertain",
	StatusBad:                      "Bad",
	StatusBadUnexpectedError:       "BadUnexpectedError",
	StatusBadInternalError:         "BadInternalError",
	StatusBadTimeout:               "BadTimeout",
	StatusBadServiceUnsupported:    "BadServiceUnsupported",
	StatusBadRequestTooLarge:       "BadRequestTooLarge",
	StatusBadResponseTooLarge:      "BadResponseTooLarge",
	StatusBadSequenceNumberInvalid: "BadSequenceNumberInvalid",
	StatusBadSecureChannelClosed:   "BadSecureChannelClosed",
	StatusBadSessionClosed:         "BadSessionClosed",
	StatusBadSessionIDInvalid:      "BadSessionIdInvalid",
	StatusBadSessionNotActivated:   "BadSessionNotActivated",
	StatusBadConnectionClosed:      "BadConnectionClosed",
	StatusBadNotConnected:          "BadNotConnected",
	StatusBadNodeIDInvalid:         "BadNodeIdInvalid",
	StatusBadNodeIDUnknown:         "BadNodeIdUnknown",
	StatusBadMethodInvalid:         "BadMethodInvalid",
	StatusBadArgumentsMissing:      "BadArgumentsMissing",
	StatusBadInvalidArgument:       "BadInvalidArgument",
	StatusBadOutOfRange:            "BadOutOfRange",
	StatusBadNotSupported:          "BadNotSupported",
	StatusBadSubscriptionIDInvalid: "BadSubscriptionIdInvalid",
	StatusGoodSubscriptionTransferred: "GoodSubscriptionTransferred",
}

func (s StatusCode) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%08X", uint32(s))
}

func (e *Encoder) WriteStatusCode(s StatusCode) {
	e.WriteUint32(uint32(s))
}

func (d *Decoder) ReadStatusCode() (StatusCode, error) {
	v, err := d.ReadUint32()
	return StatusCode(v), err
}
