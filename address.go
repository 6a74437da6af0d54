package xmssmt

// A hash-domain address: 16 raw bytes, bit-packed exactly as in the
// original reference's SET_*_ADDRESS macros. Depending on which
// discriminator bits are set, the same 16 bytes are interpreted as one
// of three views: an OTS (WOTS+) address, an L-tree address, or a plain
// tree-node address. Callers build a view by copying the shared layer
// and tree-index prefix and then setting the OTS/L-tree bit, mirroring
// how the reference derives ots_addr/ltree_addr/node_addr from a common
// addr buffer.
type address [16]byte

// setLayerAddress sets the XMSSMT layer number (SET_LAYER_ADDRESS).
func (a *address) setLayerAddress(v uint32) {
	a[6] = (a[6] & 3) | byte((v<<2)&255)
	a[5] = (a[5] & 252) | byte((v>>6)&255)
}

// setTreeAddress sets the index of the subtree within its layer
// (SET_TREE_ADDRESS).
func (a *address) setTreeAddress(v uint64) {
	a[9] = (a[9] & 3) | byte((v<<2)&255)
	a[8] = byte((v >> 6) & 255)
	a[7] = byte((v >> 14) & 255)
	a[6] = (a[6] & 252) | byte((v>>22)&255)
}

// setSubTreeFrom copies the layer and tree-address prefix shared by
// every view derived from a common address (the reference's
// memcpy(ots_addr, addr, 10)).
func (a *address) setSubTreeFrom(other address) {
	copy(a[:10], other[:10])
}

// setOTSBit marks this address as an OTS (WOTS+) address (SET_OTS_BIT).
func (a *address) setOTSBit(b uint32) {
	a[9] = (a[9] & 253) | byte(b<<1)
}

// setOTSAddress sets the WOTS+ keypair (leaf) index (SET_OTS_ADDRESS).
// Requires the OTS bit to already be set.
func (a *address) setOTSAddress(v uint32) {
	a[12] = (a[12] & 1) | byte((v<<1)&255)
	a[11] = byte((v >> 7) & 255)
	a[10] = byte((v >> 15) & 255)
	a[9] = (a[9] & 254) | byte((v>>23)&1)
}

// zeroiseOTSAddr clears the chain index, hash index and key/bitmask
// selector before deriving the per-leaf WOTS+ seed (ZEROISE_OTS_ADDR).
func (a *address) zeroiseOTSAddr() {
	a[12] &= 254
	a[13] = 0
	a[14] = 0
	a[15] = 0
}

// setLTreeBit marks this address as an L-tree address (SET_LTREE_BIT).
func (a *address) setLTreeBit(b uint32) {
	a[9] = (a[9] & 254) | byte(b)
}

// setLTreeAddress sets which L-tree this address refers to
// (SET_LTREE_ADDRESS). Requires the L-tree bit to already be set.
func (a *address) setLTreeAddress(v uint32) {
	a[12] = byte(v & 255)
	a[11] = byte((v >> 8) & 255)
	a[10] = byte((v >> 16) & 255)
}

func (a *address) setLTreeTreeHeight(v uint32) {
	a[13] = (a[13] & 3) | byte((v<<2)&255)
}

func (a *address) setLTreeTreeIndex(v uint32) {
	a[15] = (a[15] & 3) | byte((v<<2)&255)
	a[14] = byte((v >> 6) & 255)
	a[13] = (a[13] & 252) | byte((v>>14)&3)
}

// setNodePadding clears the fields that do not apply to a plain
// tree-node address (SET_NODE_PADDING).
func (a *address) setNodePadding() {
	a[10] = 0
	a[11] &= 3
}

func (a *address) setNodeTreeHeight(v uint32) {
	a[12] = (a[12] & 3) | byte((v<<2)&255)
	a[11] = (a[11] & 252) | byte((v>>6)&3)
}

func (a *address) setNodeTreeIndex(v uint32) {
	a[15] = (a[15] & 3) | byte((v<<2)&255)
	a[14] = byte((v >> 6) & 255)
	a[13] = byte((v >> 14) & 255)
	a[12] = (a[12] & 252) | byte((v>>22)&3)
}

// isOTS reports whether this address currently represents an OTS view.
func (a *address) isOTS() bool { return a[9]&2 != 0 }

// isLTree reports whether this address currently represents an L-tree
// view (and is not an OTS view; the two bits are mutually exclusive in
// every addr the core constructs).
func (a *address) isLTree() bool { return a[9]&2 == 0 && a[9]&1 != 0 }

// setTreeHeight sets the tree-height field of whichever view this
// address currently represents. Not defined for an OTS view, which has
// no tree-height field.
func (a *address) setTreeHeight(v uint32) {
	if a.isLTree() {
		a.setLTreeTreeHeight(v)
	} else {
		a.setNodeTreeHeight(v)
	}
}

// setTreeIndex sets the tree-index field of whichever view this
// address currently represents.
func (a *address) setTreeIndex(v uint32) {
	if a.isLTree() {
		a.setLTreeTreeIndex(v)
	} else {
		a.setNodeTreeIndex(v)
	}
}

// The reference's wots.c (not present in the retrieved sources) keys
// each WOTS+ chain step by a (chain, hash-step, key-or-bitmask)
// triple. The chain and hash-step indices take bytes 13 and 14, which
// ZEROISE_OTS_ADDR clears and which the OTS view does not otherwise
// use. The key/bitmask selector (0, 1 or 2) takes the low two bits of
// byte 15, which every view leaves free: the L-tree and node
// tree-index fields start at bit 2 of that byte.

func (a *address) setChain(v uint32) {
	a[13] = byte(v)
}

func (a *address) setHash(v uint32) {
	a[14] = byte(v)
}

func (a *address) setKeyAndMask(v uint32) {
	a[15] = (a[15] & 252) | byte(v&3)
}

// setLTree is an alias for setLTreeAddress, named to match the generic
// leaf-generation call sites that do not care which view they are
// filling in.
func (a *address) setLTree(v uint32) { a.setLTreeAddress(v) }

// setOTS is an alias for setOTSAddress.
func (a *address) setOTS(v uint32) { a.setOTSAddress(v) }

func (a *address) toBytes() []byte {
	buf := make([]byte, 16)
	copy(buf, a[:])
	return buf
}

func (a *address) writeInto(buf []byte) {
	copy(buf, a[:])
}
