package ua

import "opcuacore/uaerrors"

// maxQualifiedNameLength bounds QualifiedName.Name, per spec.
const maxQualifiedNameLength = 512

const (
	qnameMaskNamePresent = 0x01
)

// QualifiedName is a namespace-indexed name. Name presence is carried in
// a leading mask byte, distinct from the empty string.
type QualifiedName struct {
	NamespaceIndex uint16
	Name           string
	NamePresent    bool
}

func (e *Encoder) WriteQualifiedName(q QualifiedName) error {
	if len(q.Name) > maxQualifiedNameLength {
		return uaerrors.New(uaerrors.KindEncoding, "QualifiedName.Name exceeds %d chars", maxQualifiedNameLength)
	}
	var mask byte
	if q.NamePresent {
		mask |= qnameMaskNamePresent
	}
	e.WriteByte(mask)
	e.WriteUint16(q.NamespaceIndex)
	if q.NamePresent {
		if err := e.WriteString(q.Name); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) ReadQualifiedName() (QualifiedName, error) {
	mask, err := d.ReadByte()
	if err != nil {
		return QualifiedName{}, err
	}
	ns, err := d.ReadUint16()
	if err != nil {
		return QualifiedName{}, err
	}
	q := QualifiedName{NamespaceIndex: ns}
	if mask&qnameMaskNamePresent != 0 {
		q.NamePresent = true
		q.Name, _, err = d.ReadString()
		if err != nil {
			return QualifiedName{}, err
		}
	}
	return q, nil
}

const (
	ltextMaskLocalePresent = 0x01
	ltextMaskTextPresent   = 0x02
)

// LocalizedText is a human-readable string with an optional locale tag.
// Presence of each field is carried in a leading mask byte.
type LocalizedText struct {
	Locale        string
	LocalePresent bool
	Text          string
	TextPresent   bool
}

func (e *Encoder) WriteLocalizedText(t LocalizedText) error {
	var mask byte
	if t.LocalePresent {
		mask |= ltextMaskLocalePresent
	}
	if t.TextPresent {
		mask |= ltextMaskTextPresent
	}
	e.WriteByte(mask)
	if t.LocalePresent {
		if err := e.WriteString(t.Locale); err != nil {
			return err
		}
	}
	if t.TextPresent {
		if err := e.WriteString(t.Text); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) ReadLocalizedText() (LocalizedText, error) {
	mask, err := d.ReadByte()
	if err != nil {
		return LocalizedText{}, err
	}
	var t LocalizedText
	if mask&ltextMaskLocalePresent != 0 {
		t.LocalePresent = true
		t.Locale, _, err = d.ReadString()
		if err != nil {
			return LocalizedText{}, err
		}
	}
	if mask&ltextMaskTextPresent != 0 {
		t.TextPresent = true
		t.Text, _, err = d.ReadString()
		if err != nil {
			return LocalizedText{}, err
		}
	}
	return t, nil
}
