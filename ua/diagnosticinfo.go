package ua

const (
	diagMaskSymbolicID         = 0x01
	diagMaskNamespaceURI       = 0x02
	diagMaskLocalizedText      = 0x04
	diagMaskLocale             = 0x08
	diagMaskAdditionalInfo     = 0x10
	diagMaskInnerStatusCode    = 0x20
	diagMaskInnerDiagnosticInfo = 0x40
)

// DiagnosticInfo is a recursive diagnostic record. Each field's presence
// is carried in a leading mask byte; SymbolicId/NamespaceURI/Locale/
// LocalizedText are indices into a server-provided string table (carried
// as plain int32s here — the table itself is a session-layer concern).
type DiagnosticInfo struct {
	HasSymbolicID    bool
	SymbolicID       int32
	HasNamespaceURI  bool
	NamespaceURI     int32
	HasLocale        bool
	Locale           int32
	HasLocalizedText bool
	LocalizedText    int32
	HasAdditionalInfo bool
	AdditionalInfo    string
	HasInnerStatusCode bool
	InnerStatusCode    StatusCode
	InnerDiagnosticInfo *DiagnosticInfo
}

func (e *Encoder) WriteDiagnosticInfo(di *DiagnosticInfo) error {
	if di == nil {
		e.WriteByte(0)
		return nil
	}
	var mask byte
	if di.HasSymbolicID {
		mask |= diagMaskSymbolicID
	}
	if di.HasNamespaceURI {
		mask |= diagMaskNamespaceURI
	}
	if di.HasLocalizedText {
		mask |= diagMaskLocalizedText
	}
	if di.HasLocale {
		mask |= diagMaskLocale
	}
	if di.HasAdditionalInfo {
		mask |= diagMaskAdditionalInfo
	}
	if di.HasInnerStatusCode {
		mask |= diagMaskInnerStatusCode
	}
	if di.InnerDiagnosticInfo != nil {
		mask |= diagMaskInnerDiagnosticInfo
	}
	e.WriteByte(mask)
	if di.HasSymbolicID {
		e.WriteInt32(di.SymbolicID)
	}
	if di.HasNamespaceURI {
		e.WriteInt32(di.NamespaceURI)
	}
	if di.HasLocale {
		e.WriteInt32(di.Locale)
	}
	if di.HasLocalizedText {
		e.WriteInt32(di.LocalizedText)
	}
	if di.HasAdditionalInfo {
		if err := e.WriteString(di.AdditionalInfo); err != nil {
			return err
		}
	}
	if di.HasInnerStatusCode {
		e.WriteStatusCode(di.InnerStatusCode)
	}
	if di.InnerDiagnosticInfo != nil {
		if err := e.WriteDiagnosticInfo(di.InnerDiagnosticInfo); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) ReadDiagnosticInfo() (*DiagnosticInfo, error) {
	mask, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if mask == 0 {
		return nil, nil
	}
	di := &DiagnosticInfo{}
	if mask&diagMaskSymbolicID != 0 {
		di.HasSymbolicID = true
		if di.SymbolicID, err = d.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if mask&diagMaskNamespaceURI != 0 {
		di.HasNamespaceURI = true
		if di.NamespaceURI, err = d.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if mask&diagMaskLocale != 0 {
		di.HasLocale = true
		if di.Locale, err = d.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if mask&diagMaskLocalizedText != 0 {
		di.HasLocalizedText = true
		if di.LocalizedText, err = d.ReadInt32(); err != nil {
			return nil, err
		}
	}
	if mask&diagMaskAdditionalInfo != 0 {
		di.HasAdditionalInfo = true
		if di.AdditionalInfo, _, err = d.ReadString(); err != nil {
			return nil, err
		}
	}
	if mask&diagMaskInnerStatusCode != 0 {
		di.HasInnerStatusCode = true
		if di.InnerStatusCode, err = d.ReadStatusCode(); err != nil {
			return nil, err
		}
	}
	if mask&diagMaskInnerDiagnosticInfo != 0 {
		if di.InnerDiagnosticInfo, err = d.ReadDiagnosticInfo(); err != nil {
			return nil, err
		}
	}
	return di, nil
}
