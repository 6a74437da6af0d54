package xmssmt

// The BDS (Buchmann-Dahmen-Szydlo) tree traversal algorithm: incremental
// maintenance of the authentication path of a single XMSS subtree in
// O(h) work per signature, instead of recomputing it from scratch.
//
// This is a direct translation of treehash_setup, treehash_update and
// compute_authpath_wots_fast from the reference implementation: the
// stack/stacklevels/auth/keep/treehash/retain arrays are kept exactly
// as there, as flat n-byte-stride buffers, rather than turned into
// a more "Go-ish" tree of objects, since the algorithm's correctness
// depends closely on that indexing.

// One instance of Merkle's TreeHash algorithm, used to incrementally
// grow the node at a given height that BDS will need k rounds from now.
type treehashInst struct {
	h          uint32 // height this instance computes a node for
	nextIdx    uint64 // index of the next leaf to feed in
	stackUsage uint32
	completed  bool
	node       []byte // the n-byte node, once completed
}

// Per-layer BDS traversal state, as described in the data model: the
// authentication path under construction, the stack of partial node
// hashes, the lookahead treehash instances and the retained nodes for
// the top k levels.
type bdsState struct {
	stack       []byte // (h+1)*n bytes
	stackLevels []uint32
	stackOffset uint32

	auth []byte // h*n bytes: current authentication path

	keep []byte // ceil(h/2)*n bytes

	treehash []treehashInst // h-k instances, for heights 0..h-k-1

	retain []byte // retained nodes for the top k levels
}

func retainSize(k uint32) uint32 {
	if k == 0 {
		return 0
	}
	return (1 << k) - k - 1
}

// bdsK returns the BDS retain parameter k for this subtree height: the
// number of top levels whose nodes are kept in the retain array rather
// than recomputed by a lookahead treehash instance. k is the largest
// value of at most 2 that is strictly less than the tree height and
// leaves h-k even (2 is the value suggested by Buchmann, Dahmen and
// Szydlo), so odd heights get k=1. For a tree of height 1 no such k
// exists and 0 is returned.
func (ctx *Context) bdsK() uint32 {
	h := ctx.treeHeight
	k := uint32(2)
	for k > 0 && (k >= h || (h-k)%2 != 0) {
		k--
	}
	return k
}

func newBDSState(ctx *Context) *bdsState {
	h := ctx.treeHeight
	k := ctx.bdsK()
	n := ctx.p.N

	st := &bdsState{
		stack:       make([]byte, (h+1)*n),
		stackLevels: make([]uint32, h+1),
		auth:        make([]byte, h*n),
		keep:        make([]byte, ((h+1)/2)*n),
		retain:      make([]byte, retainSize(k)*n),
	}
	if h > k {
		st.treehash = make([]treehashInst, h-k)
		for i := range st.treehash {
			st.treehash[i].node = make([]byte, n)
		}
	}
	return st
}

func (ctx *Context) treehashMinHeightOnStack(st *bdsState, th *treehashInst) uint32 {
	r := ctx.treeHeight
	for i := uint32(0); i < th.stackUsage; i++ {
		if st.stackLevels[st.stackOffset-i-1] < r {
			r = st.stackLevels[st.stackOffset-i-1]
		}
	}
	return r
}

// threeAddrViews derives the ots/ltree/node address views sharing the
// given address's layer and tree prefix, exactly as the reference's
// memcpy(ots_addr, addr, 10) idiom.
func threeAddrViews(addr address) (otsAddr, lTreeAddr, nodeAddr address) {
	otsAddr.setSubTreeFrom(addr)
	otsAddr.setOTSBit(1)

	lTreeAddr.setSubTreeFrom(addr)
	lTreeAddr.setOTSBit(0)
	lTreeAddr.setLTreeBit(1)

	nodeAddr.setSubTreeFrom(addr)
	nodeAddr.setOTSBit(0)
	nodeAddr.setLTreeBit(0)
	nodeAddr.setNodePadding()
	return
}

// treehashSetup computes the root of the subtree of the given height at
// the given leaf index, and along the way captures the BDS state
// (auth path, lookahead treehash node captures and retain entries)
// needed to incrementally advance authentication paths from index 0.
func (ctx *Context) treehashSetup(node []byte, height uint32, index uint64,
	st *bdsState, skSeed, pubSeed []byte, addr address) {
	n := ctx.p.N
	h := ctx.treeHeight
	k := ctx.bdsK()

	otsAddr, lTreeAddr, nodeAddr := threeAddrViews(addr)

	lastNode := index + (1 << height)

	for i := range st.treehash {
		st.treehash[i].h = uint32(i)
		st.treehash[i].completed = true
		st.treehash[i].stackUsage = 0
	}

	st.stackOffset = 0
	idx := index
	var i uint64
	for ; idx < lastNode; idx++ {
		lTreeAddr.setLTreeAddress(uint32(idx))
		otsAddr.setOTSAddress(uint32(idx))

		leaf := ctx.genLeaf(skSeed, pubSeed, lTreeAddr, otsAddr)
		copy(st.stack[st.stackOffset*n:], leaf)
		st.stackLevels[st.stackOffset] = 0
		st.stackOffset++

		if h > k && i == 3 {
			copy(st.treehash[0].node, st.stack[(st.stackOffset-1)*n:st.stackOffset*n])
		}

		for st.stackOffset > 1 &&
			st.stackLevels[st.stackOffset-1] == st.stackLevels[st.stackOffset-2] {
			nodeh := st.stackLevels[st.stackOffset-1]
			if i>>nodeh == 1 {
				copy(st.auth[nodeh*n:], st.stack[(st.stackOffset-1)*n:st.stackOffset*n])
			} else {
				if nodeh < h-k && i>>nodeh == 3 {
					copy(st.treehash[nodeh].node,
						st.stack[(st.stackOffset-1)*n:st.stackOffset*n])
				} else if nodeh >= h-k {
					off := int(1<<uint(int(h)-1-int(nodeh))) + int(nodeh) - int(h) +
						int(((i>>nodeh)-3)>>1)
					copy(st.retain[uint32(off)*n:uint32(off+1)*n],
						st.stack[(st.stackOffset-1)*n:st.stackOffset*n])
				}
			}

			nodeAddr.setNodeTreeHeight(st.stackLevels[st.stackOffset-1])
			nodeAddr.setNodeTreeIndex(uint32(idx >> (st.stackLevels[st.stackOffset-1] + 1)))
			combined := ctx.h(
				st.stack[(st.stackOffset-2)*n:(st.stackOffset-1)*n],
				st.stack[(st.stackOffset-1)*n:st.stackOffset*n],
				pubSeed, nodeAddr)
			copy(st.stack[(st.stackOffset-2)*n:(st.stackOffset-1)*n], combined)
			st.stackLevels[st.stackOffset-2]++
			st.stackOffset--
		}
		i++
	}

	copy(node, st.stack[:n])
}

// treehashUpdate runs a single round of the lookahead TreeHash
// instance th: it feeds in the next leaf and folds the stack while
// levels match, completing the instance once it reaches its target
// height.
func (ctx *Context) treehashUpdate(th *treehashInst, st *bdsState,
	skSeed, pubSeed []byte, addr address) {
	n := ctx.p.N
	otsAddr, lTreeAddr, nodeAddr := threeAddrViews(addr)

	lTreeAddr.setLTreeAddress(uint32(th.nextIdx))
	otsAddr.setOTSAddress(uint32(th.nextIdx))

	nodeBuf := make([]byte, 2*n)
	copy(nodeBuf, ctx.genLeaf(skSeed, pubSeed, lTreeAddr, otsAddr))
	var nodeHeight uint32

	for th.stackUsage > 0 && st.stackLevels[st.stackOffset-1] == nodeHeight {
		copy(nodeBuf[n:], nodeBuf[:n])
		copy(nodeBuf[:n], st.stack[(st.stackOffset-1)*n:st.stackOffset*n])
		nodeAddr.setNodeTreeHeight(nodeHeight)
		nodeAddr.setNodeTreeIndex(uint32(th.nextIdx >> (nodeHeight + 1)))
		combined := ctx.h(nodeBuf[:n], nodeBuf[n:], pubSeed, nodeAddr)
		copy(nodeBuf[:n], combined)
		nodeHeight++
		th.stackUsage--
		st.stackOffset--
	}

	if nodeHeight == th.h {
		copy(th.node, nodeBuf[:n])
		th.completed = true
	} else {
		copy(st.stack[st.stackOffset*n:], nodeBuf[:n])
		th.stackUsage++
		st.stackLevels[st.stackOffset] = nodeHeight
		st.stackOffset++
		th.nextIdx++
	}
}

// computeAuthPathWotsFast returns the authentication path for leafIdx
// (which was already maintained by the previous round) and advances
// the BDS state so that the path for leafIdx+1 will be ready next
// time. This is the heart of the algorithm described by Buchmann,
// Dahmen and Szydlo.
func (ctx *Context) computeAuthPathWotsFast(authPath []byte, leafIdx uint32,
	st *bdsState, skSeed, pubSeed []byte, addr address) {
	n := ctx.p.N
	h := ctx.treeHeight
	k := ctx.bdsK()

	copy(authPath, st.auth)

	otsAddr, lTreeAddr, nodeAddr := threeAddrViews(addr)

	tau := h
	for i := uint32(0); i < h; i++ {
		if (leafIdx>>i)&1 == 0 {
			tau = i
			break
		}
	}

	buf := make([]byte, 2*n)
	if tau > 0 {
		copy(buf[:n], st.auth[(tau-1)*n:tau*n])
		copy(buf[n:], st.keep[((tau-1)>>1)*n:((tau-1)>>1+1)*n])
	}
	if (leafIdx>>(tau+1))&1 == 0 && tau < h-1 {
		copy(st.keep[(tau>>1)*n:(tau>>1+1)*n], st.auth[tau*n:(tau+1)*n])
	}

	if tau == 0 {
		lTreeAddr.setLTreeAddress(leafIdx)
		otsAddr.setOTSAddress(leafIdx)
		copy(st.auth[:n], ctx.genLeaf(skSeed, pubSeed, lTreeAddr, otsAddr))
	} else if tau == h {
		// leafIdx was the last leaf of this subtree (all h bits set):
		// there is no node above height h-1 to fold into auth, and the
		// next call will be for a fresh subtree that treehashSetup sets
		// up from scratch, so there is nothing left to advance here.
	} else {
		nodeAddr.setNodeTreeHeight(tau - 1)
		nodeAddr.setNodeTreeIndex(leafIdx >> tau)
		combined := ctx.h(buf[:n], buf[n:], pubSeed, nodeAddr)
		copy(st.auth[tau*n:(tau+1)*n], combined)

		for i := uint32(0); i < tau; i++ {
			if i < h-k {
				copy(st.auth[i*n:(i+1)*n], st.treehash[i].node)
			} else {
				offset := int(1<<uint(int(h)-1-int(i))) + int(i) - int(h)
				rowIdx := int((leafIdx>>i)-1) >> 1
				idx := uint32(offset + rowIdx)
				copy(st.auth[i*n:(i+1)*n], st.retain[idx*n:(idx+1)*n])
			}
		}

		bound := tau
		if h-k < bound {
			bound = h - k
		}
		for i := uint32(0); i < bound; i++ {
			startIdx := uint64(leafIdx) + 1 + 3*(uint64(1)<<i)
			if startIdx < (uint64(1) << h) {
				st.treehash[i].h = i
				st.treehash[i].nextIdx = startIdx
				st.treehash[i].completed = false
			}
		}
	}

	rounds := (h - k) >> 1
	for i := uint32(0); i < rounds; i++ {
		lMin := h
		level := h - k
		for j := uint32(0); j < h-k; j++ {
			var low uint32
			if st.treehash[j].completed {
				low = h
			} else if st.treehash[j].stackUsage == 0 {
				low = j
			} else {
				low = ctx.treehashMinHeightOnStack(st, &st.treehash[j])
			}
			if low < lMin {
				level = j
				lMin = low
			}
		}
		if level != h-k {
			ctx.treehashUpdate(&st.treehash[level], st, skSeed, pubSeed, addr)
		}
	}
}

// validateAuthPath recomputes the root given a leaf, its index and its
// authentication path, used on the verify side.
func (ctx *Context) validateAuthPath(root, leaf []byte, leafIdx uint32,
	authPath []byte, pubSeed []byte, addr address) {
	n := ctx.p.N
	h := ctx.treeHeight
	buf := make([]byte, 2*n)

	if leafIdx&1 == 1 {
		copy(buf[n:], leaf)
		copy(buf[:n], authPath[:n])
	} else {
		copy(buf[:n], leaf)
		copy(buf[n:], authPath[:n])
	}
	authPath = authPath[n:]

	for i := uint32(0); i < h-1; i++ {
		addr.setNodeTreeHeight(i)
		leafIdx >>= 1
		addr.setNodeTreeIndex(leafIdx)
		if leafIdx&1 == 1 {
			combined := ctx.h(buf[:n], buf[n:], pubSeed, addr)
			copy(buf[n:], combined)
			copy(buf[:n], authPath[:n])
		} else {
			combined := ctx.h(buf[:n], buf[n:], pubSeed, addr)
			copy(buf[:n], combined)
			copy(buf[n:], authPath[:n])
		}
		authPath = authPath[n:]
	}
	addr.setNodeTreeHeight(h - 1)
	leafIdx >>= 1
	addr.setNodeTreeIndex(leafIdx)
	copy(root, ctx.h(buf[:n], buf[n:], pubSeed, addr))
}
