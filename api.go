// Go implementation of the XMSS[MT] post-quantum stateful hash-based signature
// scheme as described in the RFC draft
// https://datatracker.ietf.org/doc/draft-irtf-cfrg-xmss-hash-based-signatures/
package xmssmt

// Contains the majority of the API: key generation, signing and
// verification, built on top of the BDS traversal state in bds.go.

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

// XMSS[MT] instance.
// Create one using NewContextFromName, NewContextFromOid or NewContext.
type Context struct {
	// Number of worker goroutines ("threads") for expensive operations.
	// Not read by any operation of this package: all work runs on the
	// calling goroutine.
	Threads int

	p            Params // parameters.
	wotsLogW     uint8  // logarithm of the Winternitz parameter
	wotsLen1     uint32 // WOTS+ chains for message
	wotsLen2     uint32 // WOTS+ chains for checksum
	wotsLen      uint32 // total number of WOTS+ chains
	wotsSigBytes uint32 // length of WOTS+ signature
	treeHeight   uint32 // height of a subtree
	indexBytes   uint32 // size of an index
	sigBytes     uint32 // size of signature
	pkBytes      uint32 // size of public key
	skBytes      uint32 // size of secret key

	mt   bool    // true for XMSSMT; false for XMSS
	oid  uint32  // OID of this configuration, if it has any
	name *string // name of algorithm
}

// Sequence number of signatures.
// (Corresponds with leaf indices in the implementation.)
type SignatureSeqNo uint64

// XMSS[MT] private key.
//
// Signing mutates the BDS traversal state, so a PrivateKey is only safe
// for one in-flight Sign() at a time; Sign() takes an internal lock for
// the duration of the call.  A PrivateKey does not own any persistent
// storage: callers that need the secret key and signature counter to
// survive a restart are responsible for serializing it (see
// OpenPrivateKeyContainer and its Save method) before and after every
// Sign() call.
type PrivateKey struct {
	skSeed  []byte         // first part of the private key
	skPrf   []byte         // other part of the private key
	pubSeed []byte         // first part of the public key
	root    []byte         // root node, the other part of the public key
	seqNo   SignatureSeqNo // next unused signature sequence number

	ctx *Context // context, which contains algorithm parameters.

	// Per-layer BDS traversal state, one per XMSSMT layer (just one
	// for plain XMSS).  states[j] maintains the authentication path of
	// the subtree currently active at layer j.
	states []*bdsState
	// Current root of the subtree active at layer j.  roots[D-1] is
	// the overall public key root and never changes.
	roots [][]byte
	// Index (in units of 2^treeHeight leaves) of the subtree currently
	// loaded into states[j].
	curIdxTree []uint64

	mux sync.Mutex
}

// XMSS[MT] public key
type PublicKey struct {
	ctx     *Context // context which contains algorithm parameters
	pubSeed []byte
	root    []byte // root node
}

// Represents a XMSS[MT] signature
type Signature struct {
	ctx   *Context       // context which contains algorithm parameter
	seqNo SignatureSeqNo // sequence number of this signature. (Same as index.)
	drv   []byte         // digest randomized value (R)

	// The signature consists of several barebones XMSS signatures.
	// sigs[0] signs the message digest, sigs[1] signs the root of the
	// subtree for sigs[0], sigs[2] signs the root of the subtree for
	// sigs[1], ..., sigs[d-1] signs the root of the subtree for sigs[d-2].
	sigs []subTreeSig
}

// Represents a signature made by a subtree. This is basically
// an XMSS signature without all the decorations.
type subTreeSig struct {
	wotsSig  []byte
	authPath []byte
}

type Error interface {
	error
	Locked() bool // Is this error because something (like a file) was locked?
	Inner() error // Returns the wrapped error, if any
}

// Generate a new keypair for the given XMSS[MT] instance alg.
//
// Use ListNames() to list the supported instances of XMSS[MT].
//
// For more flexibility use NewContextFromName() to create a Context and
// then call Context.GenerateKeyPair() or Context.Derive().
func GenerateKeyPair(alg string) (*PrivateKey, *PublicKey, Error) {
	ctx := NewContextFromName(alg)
	if ctx == nil {
		return nil, nil, errorf("%s is not a valid algorithm name", alg)
	}
	return ctx.GenerateKeyPair()
}

// Create a signature on msg using sk, advancing its signature counter.
func Sign(sk *PrivateKey, msg []byte) ([]byte, Error) {
	theSig, err := sk.Sign(msg)
	if err != nil {
		return nil, err
	}
	sig, err2 := theSig.MarshalBinary()
	if err2 != nil {
		return nil, wrapErrorf(err2, "Signature.MarshalBinary")
	}
	return sig, nil
}

// Checks whether sig is a valid signature of pk on msg.
func Verify(pk, sig, msg []byte) (bool, Error) {
	var theSig Signature
	var thePk PublicKey
	err := theSig.UnmarshalBinary(sig)
	if err != nil {
		return false, wrapErrorf(err, "Failed to unmarshal signature")
	}
	err = thePk.UnmarshalBinary(pk)
	if err != nil {
		return false, wrapErrorf(err, "Failed to unmarshal public key")
	}
	return thePk.Verify(&theSig, msg)
}

// Check whether the sig is a valid signature of this public key
// for the given message.
func (pk *PublicKey) Verify(sig *Signature, msg []byte) (bool, Error) {
	return pk.VerifyFrom(sig, bytes.NewReader(msg))
}

// Reads a message from the io.Reader and verifies whether the provided
// signature is valid for this public key and message.
func (pk *PublicKey) VerifyFrom(sig *Signature, msg io.Reader) (bool, Error) {
	pad := pk.ctx.newScratchPad()

	rxMsg, err := pk.ctx.hashMessage(pad, msg, sig.drv,
		pk.root, uint64(sig.seqNo))
	if err != nil {
		return false, wrapErrorf(err, "Failed to hash message")
	}

	mask := uint64(1)<<pk.ctx.treeHeight - 1

	var layer uint32
	for layer = 0; layer < pk.ctx.p.D; layer++ {
		idxLeaf := uint32(uint64(sig.seqNo)>>(pk.ctx.treeHeight*layer)) & uint32(mask)
		idxTree := uint64(sig.seqNo) >> (pk.ctx.treeHeight * (layer + 1))

		var layerAddr address
		layerAddr.setLayerAddress(layer)
		layerAddr.setTreeAddress(idxTree)

		otsAddr, lTreeAddr, nodeAddr := threeAddrViews(layerAddr)
		otsAddr.setOTSAddress(idxLeaf)
		lTreeAddr.setLTreeAddress(idxLeaf)

		rxSig := sig.sigs[layer]
		wotsPk := pk.ctx.wotsPkFromSig(rxSig.wotsSig, rxMsg, pk.pubSeed, otsAddr)
		leaf := pk.ctx.lTree(wotsPk, pk.pubSeed, lTreeAddr)

		root := make([]byte, pk.ctx.p.N)
		pk.ctx.validateAuthPath(root, leaf, idxLeaf, rxSig.authPath, pk.pubSeed, nodeAddr)

		rxMsg = root
	}

	if subtle.ConstantTimeCompare(rxMsg, pk.root) != 1 {
		return false, errorf("Invalid signature")
	}

	return true, nil
}

// Returns representation of signature with parameters compressed into
// the reserved space of the Oid prefix.  See Params.MarshalBinary().
func (sig *Signature) MarshalBinary() ([]byte, error) {
	ret := make([]byte, 4+sig.ctx.sigBytes)
	err := sig.WriteInto(ret)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Initializes the Signature as stored by MarshalBinary.
func (sig *Signature) UnmarshalBinary(buf []byte) error {
	var params Params
	err := params.UnmarshalBinary(buf[:4])
	if err != nil {
		return err
	}
	sig.ctx, err = NewContext(params)
	if err != nil {
		return err
	}
	sig.seqNo = SignatureSeqNo(decodeUint64(buf[4 : 4+sig.ctx.indexBytes]))
	sig.drv = make([]byte, params.N)
	sig.sigs = make([]subTreeSig, params.D)
	copy(sig.drv, buf[4+sig.ctx.indexBytes:4+sig.ctx.indexBytes+params.N])
	stOff := 4 + sig.ctx.indexBytes + params.N
	stLen := sig.ctx.wotsSigBytes + params.N*sig.ctx.treeHeight
	var i uint32
	for i = 0; i < params.D; i++ {
		stSig := &sig.sigs[i]
		stSig.wotsSig = make([]byte, sig.ctx.wotsSigBytes)
		stSig.authPath = make([]byte, params.N*sig.ctx.treeHeight)
		copy(stSig.wotsSig, buf[stOff+i*stLen:stOff+i*stLen+sig.ctx.wotsSigBytes])
		copy(stSig.authPath, buf[stOff+i*stLen+sig.ctx.wotsSigBytes:stOff+(i+1)*stLen])
	}
	return nil
}

// Writes signature to buf in the same way as returned
// by Signature.MarshalBinary().
func (sig *Signature) WriteInto(buf []byte) error {
	err := sig.ctx.p.WriteInto(buf)
	if err != nil {
		return err
	}
	encodeUint64Into(uint64(sig.seqNo), buf[4:4+sig.ctx.indexBytes])
	copy(buf[4+sig.ctx.indexBytes:], sig.drv)
	stOff := 4 + sig.ctx.indexBytes + sig.ctx.p.N
	stLen := sig.ctx.wotsSigBytes + sig.ctx.p.N*sig.ctx.treeHeight
	for i, stSig := range sig.sigs {
		copy(buf[stOff+uint32(i)*stLen:], stSig.wotsSig)
		copy(buf[stOff+uint32(i)*stLen+sig.ctx.wotsSigBytes:], stSig.authPath)
	}
	return nil
}

// Returns the sequence number of this signature.
func (sig *Signature) SeqNo() SignatureSeqNo {
	return sig.seqNo
}

func (sig Signature) String() string {
	return fmt.Sprintf("%s seqno=%d/%d",
		sig.ctx.p, sig.seqNo, sig.ctx.p.MaxSignatureSeqNo())
}

// Initializes the PublicKey as stored by MarshalText.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	buf, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return err
	}
	return pk.UnmarshalBinary(buf)
}

// Returns base64 encoded version of the public key
func (pk *PublicKey) MarshalText() ([]byte, error) {
	buf, err := pk.MarshalBinary()
	if err != nil {
		return nil, err
	}
	return []byte(base64.StdEncoding.EncodeToString(buf)), nil
}

// Writes the public key into buf in the same way as returned
// by PublicKey.MarshalBinary()
func (pk *PublicKey) WriteInto(buf []byte) error {
	err := pk.ctx.p.WriteInto(buf)
	if err != nil {
		return err
	}
	copy(buf[4:], pk.root)
	copy(buf[4+pk.ctx.p.N:], pk.pubSeed)
	return nil
}

// Returns representation of the public key with parameters compressed into
// the reserved space of the Oid prefix.  See Params.MarshalBinary().
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	ret := make([]byte, 4+pk.ctx.p.N*2)
	err := pk.WriteInto(ret)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

// Initializes the PublicKey as was stored by MarshalBinary.
func (pk *PublicKey) UnmarshalBinary(buf []byte) error {
	var params Params
	err := params.UnmarshalBinary(buf[:4])
	if err != nil {
		return err
	}
	pk.ctx, err = NewContext(params)
	if err != nil {
		return err
	}
	pk.root = make([]byte, params.N)
	pk.pubSeed = make([]byte, params.N)
	copy(pk.root, buf[4:4+params.N])
	copy(pk.pubSeed, buf[4+params.N:4+params.N*2])
	return nil
}

// Generates an XMSS[MT] public/private keypair from fresh randomness.
func (ctx *Context) GenerateKeyPair() (*PrivateKey, *PublicKey, Error) {
	pubSeed := make([]byte, ctx.p.N)
	skSeed := make([]byte, ctx.p.N)
	skPrf := make([]byte, ctx.p.N)
	_, err := rand.Read(pubSeed)
	if err != nil {
		return nil, nil, wrapErrorf(err, "crypto.rand.Read()")
	}
	_, err = rand.Read(skSeed)
	if err != nil {
		return nil, nil, wrapErrorf(err, "crypto.rand.Read()")
	}
	_, err = rand.Read(skPrf)
	if err != nil {
		return nil, nil, wrapErrorf(err, "crypto.rand.Read()")
	}
	return ctx.Derive(pubSeed, skSeed, skPrf)
}

// Derives an XMSS[MT] public/private keypair from the given seeds.
// pubSeed, skSeed and skPrf should be secret random ctx.p.N length byte
// slices.
//
// This builds the initial BDS traversal state for every layer, which
// costs O(2^treeHeight) hash evaluations per layer.
func (ctx *Context) Derive(pubSeed, skSeed, skPrf []byte) (*PrivateKey, *PublicKey, Error) {
	if len(pubSeed) != int(ctx.p.N) || len(skSeed) != int(ctx.p.N) || len(skPrf) != int(ctx.p.N) {
		return nil, nil, errorf(
			"skPrf, skSeed and pubSeed should have length %d", ctx.p.N)
	}

	sk := &PrivateKey{
		skSeed:     append([]byte{}, skSeed...),
		skPrf:      append([]byte{}, skPrf...),
		pubSeed:    append([]byte{}, pubSeed...),
		ctx:        ctx,
		states:     make([]*bdsState, ctx.p.D),
		roots:      make([][]byte, ctx.p.D),
		curIdxTree: make([]uint64, ctx.p.D),
	}

	var layer uint32
	for layer = 0; layer < ctx.p.D; layer++ {
		st := newBDSState(ctx)
		var addr address
		addr.setLayerAddress(layer)
		addr.setTreeAddress(0)
		root := make([]byte, ctx.p.N)
		ctx.treehashSetup(root, ctx.treeHeight, 0, st, sk.skSeed, sk.pubSeed, addr)
		sk.states[layer] = st
		sk.roots[layer] = root
	}
	sk.root = sk.roots[ctx.p.D-1]

	return sk, sk.PublicKey(), nil
}

// Signs the given message.
func (sk *PrivateKey) Sign(msg []byte) (*Signature, Error) {
	return sk.SignFrom(bytes.NewReader(msg))
}

// Reads a message from the io.Reader and signs it.
func (sk *PrivateKey) SignFrom(msg io.Reader) (*Signature, Error) {
	sk.mux.Lock()
	defer sk.mux.Unlock()

	ctx := sk.ctx
	if sk.seqNo > SignatureSeqNo(ctx.p.MaxSignatureSeqNo()) {
		return nil, errorf("No more signatures available for this key")
	}

	seqNo := sk.seqNo
	pad := ctx.newScratchPad()
	mask := uint64(1)<<ctx.treeHeight - 1

	// Roll over any subtree whose index changed.  All new subtree roots
	// are computed here, before the loop below uses a lower layer's
	// root as the message the next layer up signs.
	var layer uint32
	for layer = ctx.p.D - 1; ; layer-- {
		idxTree := uint64(seqNo) >> (ctx.treeHeight * (layer + 1))
		if idxTree != sk.curIdxTree[layer] {
			var addr address
			addr.setLayerAddress(layer)
			addr.setTreeAddress(idxTree)
			root := make([]byte, ctx.p.N)
			ctx.treehashSetup(root, ctx.treeHeight, 0, sk.states[layer],
				sk.skSeed, sk.pubSeed, addr)
			sk.roots[layer] = root
			sk.curIdxTree[layer] = idxTree
		}
		if layer == 0 {
			break
		}
	}

	drv := ctx.prfUint64(pad, uint64(seqNo), sk.skPrf)
	mhash, err := ctx.hashMessage(pad, msg, drv, sk.root, uint64(seqNo))
	if err != nil {
		return nil, wrapErrorf(err, "Failed to hash message")
	}

	sig := &Signature{
		ctx:   ctx,
		seqNo: seqNo,
		sigs:  make([]subTreeSig, ctx.p.D),
		drv:   drv,
	}

	toSign := mhash
	for layer = 0; layer < ctx.p.D; layer++ {
		idxTree := uint64(seqNo) >> (ctx.treeHeight * (layer + 1))
		idxLeaf := uint32(uint64(seqNo)>>(ctx.treeHeight*layer)) & uint32(mask)

		var layerAddr address
		layerAddr.setLayerAddress(layer)
		layerAddr.setTreeAddress(idxTree)

		otsAddr, _, _ := threeAddrViews(layerAddr)
		otsAddr.setOTSAddress(idxLeaf)

		seed := ctx.getWotsSeed(sk.skSeed, otsAddr)
		wotsSig := ctx.wotsSign(toSign, seed, sk.pubSeed, otsAddr)

		// A layer moves to its next leaf only once every signature under
		// its current leaf is made, so its BDS state is advanced only on
		// the last of those (for layer 0: on every signature).
		authPath := make([]byte, ctx.p.N*ctx.treeHeight)
		lowerMask := uint64(1)<<(ctx.treeHeight*layer) - 1
		if uint64(seqNo)&lowerMask == lowerMask {
			ctx.computeAuthPathWotsFast(authPath, idxLeaf, sk.states[layer],
				sk.skSeed, sk.pubSeed, layerAddr)
		} else {
			copy(authPath, sk.states[layer].auth)
		}

		sig.sigs[layer] = subTreeSig{wotsSig: wotsSig, authPath: authPath}
		toSign = sk.roots[layer]
	}

	sk.seqNo++
	return sig, nil
}

// Return new context for the given XMSS[MT] oid (and nil if it's unknown
// or NewContext does not support its parameters).
func NewContextFromOid(mt bool, oid uint32) *Context {
	var lut map[uint32]regEntry
	if mt {
		lut = registryOidMTLut
	} else {
		lut = registryOidLut
	}
	entry, ok := lut[oid]
	if ok {
		ctx, err := NewContext(entry.params)
		if err != nil {
			return nil
		}
		ctx.oid = oid
		ctx.mt = mt
		ctx.name = &entry.name
		return ctx
	} else {
		return nil
	}
}

// Return new context for the given XMSS[MT] algorithm name (and nil if the
// algorithm name is unknown or NewContext does not support its parameters).
func NewContextFromName(name string) *Context {
	entry, ok := registryNameLut[name]
	if !ok {
		return nil
	}
	ctx, err := NewContext(entry.params)
	if err != nil {
		return nil
	}
	ctx.name = &name
	ctx.oid = entry.oid
	ctx.mt = entry.mt
	return ctx
}

// Creates a new context.
func NewContext(params Params) (ctx *Context, err Error) {
	ctx = new(Context)
	ctx.p = params
	ctx.mt = (ctx.p.D > 1)

	if ctx.p.N != 16 && ctx.p.N != 32 && ctx.p.N != 64 {
		return nil, errorf("Only N=16,32,64 are supported")
	}

	if params.D == 0 {
		return nil, errorf("D can't be zero")
	}

	if params.FullHeight%params.D != 0 {
		return nil, errorf("D does not divide FullHeight")
	}

	ctx.treeHeight = params.FullHeight / params.D

	if params.WotsW != 4 && params.WotsW != 16 && params.WotsW != 256 {
		return nil, errorf("Only WotsW=4,16,256 is supported")
	}

	if ctx.mt {
		ctx.indexBytes = (params.FullHeight + 7) / 8
	} else {
		ctx.indexBytes = 4
	}

	ctx.wotsLogW = params.WotsLogW()
	ctx.wotsLen1 = params.WotsLen1()
	ctx.wotsLen2 = params.WotsLen2()
	ctx.wotsLen = params.WotsLen()
	ctx.wotsSigBytes = params.WotsSignatureSize()
	ctx.sigBytes = (ctx.indexBytes + params.N +
		params.D*ctx.wotsSigBytes + params.FullHeight*params.N)
	ctx.pkBytes = 2 * params.N
	ctx.skBytes = ctx.indexBytes + 4*params.N

	return
}

func (sk *PrivateKey) Context() *Context {
	return sk.ctx
}

func (pk *PublicKey) Context() *Context {
	return pk.ctx
}

func (sig *Signature) Context() *Context {
	return sig.ctx
}

// Returns the PublicKey for this PrivateKey.
func (sk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{
		ctx:     sk.ctx,
		pubSeed: sk.pubSeed,
		root:    sk.root,
	}
}

// Returns the signature sequence number used next.
func (sk *PrivateKey) SeqNo() SignatureSeqNo {
	sk.mux.Lock()
	defer sk.mux.Unlock()
	return sk.seqNo
}
