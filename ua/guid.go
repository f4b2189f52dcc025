package ua

import (
	"fmt"
)

// Guid is a 16-byte globally unique identifier. Data1/Data2/Data3 are
// big-endian in display (string) form but little-endian on the wire;
// Data4 is 8 raw bytes carried as-is in both forms.
type Guid struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

func (g Guid) String() string {
	return fmt.Sprintf("%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

func (e *Encoder) WriteGuid(g Guid) {
	e.WriteUint32(g.Data1)
	e.WriteUint16(g.Data2)
	e.WriteUint16(g.Data3)
	e.WriteBytes(g.Data4[:])
}

func (d *Decoder) ReadGuid() (Guid, error) {
	var g Guid
	var err error
	if g.Data1, err = d.ReadUint32(); err != nil {
		return Guid{}, err
	}
	if g.Data2, err = d.ReadUint16(); err != nil {
		return Guid{}, err
	}
	if g.Data3, err = d.ReadUint16(); err != nil {
		return Guid{}, err
	}
	b, err := d.ReadBytes(8)
	if err != nil {
		return Guid{}, err
	}
	copy(g.Data4[:], b)
	return g, nil
}
