package ua

import (
	"time"

	"opcuacore/uaerrors"
)

const (
	dataValueMaskValue           = 0x01
	dataValueMaskStatusCode      = 0x02
	dataValueMaskSourceTimestamp = 0x04
	dataValueMaskServerTimestamp = 0x08
	dataValueMaskSourcePicoSecs  = 0x10
	dataValueMaskServerPicoSecs  = 0x20

	maxPicoSeconds = 9999
)

// DataValue pairs a Variant with its quality and two timestamps. Each
// field's presence is carried in a leading mask byte. The picosecond
// fields refine their paired timestamp's sub-100ns residue and are only
// meaningful — and only ever written — when that timestamp is present;
// values above maxPicoSeconds are clamped rather than rejected.
type DataValue struct {
	Value    *Variant
	HasValue bool

	Status    StatusCode
	HasStatus bool

	SourceTimestamp    time.Time
	HasSourceTimestamp bool
	SourcePicoSeconds  uint16
	HasSourcePicoSeconds bool

	ServerTimestamp    time.Time
	HasServerTimestamp bool
	ServerPicoSeconds  uint16
	HasServerPicoSeconds bool
}

func clampPicoSeconds(p uint16) uint16 {
	if p > maxPicoSeconds {
		return maxPicoSeconds
	}
	return p
}

func (e *Encoder) WriteDataValue(dv *DataValue) error {
	if dv == nil {
		e.WriteByte(0)
		return nil
	}
	if dv.HasSourcePicoSeconds && !dv.HasSourceTimestamp {
		return uaerrors.New(uaerrors.KindEncoding, "SourcePicoSeconds set without SourceTimestamp")
	}
	if dv.HasServerPicoSeconds && !dv.HasServerTimestamp {
		return uaerrors.New(uaerrors.KindEncoding, "ServerPicoSeconds set without ServerTimestamp")
	}

	var mask byte
	if dv.HasValue {
		mask |= dataValueMaskValue
	}
	if dv.HasStatus {
		mask |= dataValueMaskStatusCode
	}
	if dv.HasSourceTimestamp {
		mask |= dataValueMaskSourceTimestamp
	}
	if dv.HasServerTimestamp {
		mask |= dataValueMaskServerTimestamp
	}
	if dv.HasSourcePicoSeconds {
		mask |= dataValueMaskSourcePicoSecs
	}
	if dv.HasServerPicoSeconds {
		mask |= dataValueMaskServerPicoSecs
	}
	e.WriteByte(mask)

	if dv.HasValue {
		if err := e.WriteVariant(dv.Value); err != nil {
			return err
		}
	}
	if dv.HasStatus {
		e.WriteStatusCode(dv.Status)
	}
	if dv.HasSourceTimestamp {
		e.WriteDateTime(dv.SourceTimestamp)
	}
	if dv.HasSourcePicoSeconds {
		e.WriteUint16(clampPicoSeconds(dv.SourcePicoSeconds))
	}
	if dv.HasServerTimestamp {
		e.WriteDateTime(dv.ServerTimestamp)
	}
	if dv.HasServerPicoSeconds {
		e.WriteUint16(clampPicoSeconds(dv.ServerPicoSeconds))
	}
	return nil
}

func (d *Decoder) ReadDataValue() (*DataValue, error) {
	mask, err := d.ReadByte()
	if err != nil {
		return nil, err
	}
	if mask == 0 {
		return &DataValue{}, nil
	}
	dv := &DataValue{}
	if mask&dataValueMaskValue != 0 {
		dv.HasValue = true
		if dv.Value, err = d.ReadVariant(); err != nil {
			return nil, err
		}
	}
	if mask&dataValueMaskStatusCode != 0 {
		dv.HasStatus = true
		if dv.Status, err = d.ReadStatusCode(); err != nil {
			return nil, err
		}
	}
	if mask&dataValueMaskSourceTimestamp != 0 {
		dv.HasSourceTimestamp = true
		if dv.SourceTimestamp, err = d.ReadDateTime(); err != nil {
			return nil, err
		}
	}
	if mask&dataValueMaskSourcePicoSecs != 0 {
		dv.HasSourcePicoSeconds = true
		if dv.SourcePicoSeconds, err = d.ReadUint16(); err != nil {
			return nil, err
		}
	}
	if mask&dataValueMaskServerTimestamp != 0 {
		dv.HasServerTimestamp = true
		if dv.ServerTimestamp, err = d.ReadDateTime(); err != nil {
			return nil, err
		}
	}
	if mask&dataValueMaskServerPicoSecs != 0 {
		dv.HasServerPicoSeconds = true
		if dv.ServerPicoSeconds, err = d.ReadUint16(); err != nil {
			return nil, err
		}
	}
	return dv, nil
}
