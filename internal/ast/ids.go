package ast

// NodeID identifies a node inside a Builder. Zero is reserved.
type NodeID uint32

const NoNodeID NodeID = 0

func (id NodeID) IsValid() bool { return id != NoNodeID }
