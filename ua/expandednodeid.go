package ua

// ExpandedNodeID augments a NodeID with an optional namespace URI and
// optional server index; their presence is signalled by the two reserved
// high bits of the NodeID's leading byte.
type ExpandedNodeID struct {
	NodeID       *NodeID
	NamespaceURI string
	HasNamespaceURI bool
	ServerIndex     uint32
	HasServerIndex  bool
}

func NewExpandedNodeID(n *NodeID) *ExpandedNodeID {
	return &ExpandedNodeID{NodeID: n}
}

func (e *Encoder) WriteExpandedNodeID(x *ExpandedNodeID) error {
	var flags byte
	if x.HasNamespaceURI {
		flags |= encHasNamespaceURI
	}
	if x.HasServerIndex {
		flags |= encHasServerIndex
	}
	if err := e.writeNodeIDBody(x.NodeID, flags); err != nil {
		return err
	}
	if x.HasNamespaceURI {
		if err := e.WriteString(x.NamespaceURI); err != nil {
			return err
		}
	}
	if x.HasServerIndex {
		e.WriteUint32(x.ServerIndex)
	}
	return nil
}

func (d *Decoder) ReadExpandedNodeID() (*ExpandedNodeID, error) {
	n, flags, err := d.readNodeIDBody()
	if err != nil {
		return nil, err
	}
	x := &ExpandedNodeID{NodeID: n}
	if flags&encHasNamespaceURI != 0 {
		x.HasNamespaceURI = true
		uri, _, err := d.ReadString()
		if err != nil {
			return nil, err
		}
		x.NamespaceURI = uri
	}
	if flags&encHasServerIndex != 0 {
		x.HasServerIndex = true
		idx, err := d.ReadUint32()
		if err != nil {
			return nil, err
		}
		x.ServerIndex = idx
	}
	return x, nil
}
