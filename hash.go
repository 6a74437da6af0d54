package xmssmt

// The hashes used by WOTS+, the Merkle tree and message digestion:
// PRF (keyed pseudorandom function), F (WOTS+ chain step), H (node
// combination / RAND_HASH) and Hmsg (message digest). All are built
// from a single secure hash or XOF per RFC 8391 §5.1's bitmask-and-key
// construction.

import (
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"io"

	"github.com/templexxx/xor"
	"golang.org/x/crypto/sha3"
)

const (
	HASH_PADDING_F    = 0
	HASH_PADDING_H    = 1
	HASH_PADDING_HASH = 2
	HASH_PADDING_PRF  = 3
)

// Contains preallocated hash state to avoid allocation on the hot
// signing path. See scratchPad.
type hashScratchPad struct {
	shake sha3.ShakeHash // only used for the SHAKE and SHAKE256 families
}

func (ctx *Context) newHashScratchPad() (pad hashScratchPad) {
	if ctx.p.Func == SHAKE {
		switch ctx.p.N {
		case 16, 32:
			pad.shake = sha3.NewShake128()
		case 64:
			pad.shake = sha3.NewShake256()
		}
	}
	if ctx.p.Func == SHAKE256 {
		pad.shake = sha3.NewShake256()
	}
	return
}

// Compute the hash of in. out must be an n-byte slice.
func (ctx *Context) hashInto(pad scratchPad, in, out []byte) {
	if ctx.p.Func == SHA2 {
		switch ctx.p.N {
		case 16:
			ret := sha256.Sum256(in)
			copy(out, ret[:16])
		case 32:
			ret := sha256.Sum256(in)
			copy(out, ret[:])
		case 64:
			ret := sha512.Sum512(in)
			copy(out, ret[:])
		}
	} else { // SHAKE or SHAKE256
		h := pad.hash.shake
		h.Reset()
		h.Write(in)
		h.Read(out[:ctx.p.N])
	}
}

// Compute PRF(key, i)
func (ctx *Context) prfUint64(pad scratchPad, i uint64, key []byte) []byte {
	ret := make([]byte, ctx.p.N)
	ctx.prfUint64Into(pad, i, key, ret)
	return ret
}

func (ctx *Context) prfUint64Into(pad scratchPad, i uint64, key, out []byte) {
	buf := pad.prfBuf()
	encodeUint64Into(HASH_PADDING_PRF, buf[:ctx.p.N])
	copy(buf[ctx.p.N:], key)
	encodeUint64Into(i, buf[ctx.p.N*2:])
	ctx.hashInto(pad, buf, out)
}

// Compute PRF(key, domain), the seed derivation hash used to turn a
// secret seed plus some domain bytes (an address, or a plain chain
// counter) into a fresh seed. Used off the hot path, so it allocates
// rather than borrowing a scratchPad buffer of a fixed address size.
func (ctx *Context) prf(domain, key []byte) []byte {
	n := int(ctx.p.N)
	buf := make([]byte, 0, n+len(key)+len(domain))
	buf = append(buf, encodeUint64(HASH_PADDING_PRF, n)...)
	buf = append(buf, key...)
	buf = append(buf, domain...)
	ret := make([]byte, n)
	ctx.hashInto(ctx.newScratchPad(), buf, ret)
	return ret
}

// Compute hash of a message and return it. Hmsg is keyed with
// R ‖ root ‖ toByte(idx) (see the resolved message-hash-keying note).
func (ctx *Context) hashMessage(pad scratchPad, msg io.Reader,
	R, root []byte, idx uint64) ([]byte, error) {
	ret := make([]byte, ctx.p.N)
	err := ctx.hashMessageInto(pad, msg, R, root, idx, ret)
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func (ctx *Context) hashMessageInto(pad scratchPad, msg io.Reader,
	R, root []byte, idx uint64, out []byte) error {
	var h io.Writer
	if ctx.p.Func == SHA2 {
		switch ctx.p.N {
		case 16, 32:
			h = sha256.New()
		case 64:
			h = sha512.New()
		}
	} else { // SHAKE or SHAKE256
		h2 := pad.hash.shake
		h2.Reset()
		h = h2
	}

	h.Write(encodeUint64(HASH_PADDING_HASH, int(ctx.p.N)))
	h.Write(R)
	h.Write(root)
	h.Write(encodeUint64(idx, int(ctx.p.N)))

	if _, err := io.Copy(h, msg); err != nil {
		return err
	}

	if ctx.p.Func == SHA2 {
		copy(out, (h.(hash.Hash)).Sum(nil))
	} else { // SHAKE or SHAKE256
		(h.(io.Reader)).Read(out)
	}
	return nil
}

// Compute the hash F used for a single WOTS+ chain step.
func (ctx *Context) f(in, pubSeed []byte, addr address) []byte {
	ret := make([]byte, ctx.p.N)
	ctx.fInto(ctx.newScratchPad(), in, pubSeed, addr, ret)
	return ret
}

func (ctx *Context) fInto(pad scratchPad, in, pubSeed []byte,
	addr address, out []byte) {
	n := ctx.p.N
	buf := pad.fBuf()
	encodeUint64Into(HASH_PADDING_F, buf[:n])

	key := buf[n : 2*n]
	bitmask := buf[2*n : 3*n]

	addr.setKeyAndMask(0)
	ctx.prfAddrInto(pad, addr, pubSeed, key)
	addr.setKeyAndMask(1)
	ctx.prfAddrInto(pad, addr, pubSeed, bitmask)

	xor.BytesSameLen(bitmask, in, bitmask)
	ctx.hashInto(pad, buf, out)
}

// Compute RAND_HASH, used to combine two child nodes (or an L-tree
// node pair) into their parent.
func (ctx *Context) h(left, right, pubSeed []byte, addr address) []byte {
	ret := make([]byte, ctx.p.N)
	ctx.hInto(ctx.newScratchPad(), left, right, pubSeed, addr, ret)
	return ret
}

func (ctx *Context) hInto(pad scratchPad, left, right, pubSeed []byte,
	addr address, out []byte) {
	n := ctx.p.N
	buf := pad.hBuf()
	encodeUint64Into(HASH_PADDING_H, buf[:n])

	key := buf[n : 2*n]
	bmLeft := buf[2*n : 3*n]
	bmRight := buf[3*n : 4*n]

	addr.setKeyAndMask(0)
	ctx.prfAddrInto(pad, addr, pubSeed, key)
	addr.setKeyAndMask(1)
	ctx.prfAddrInto(pad, addr, pubSeed, bmLeft)
	addr.setKeyAndMask(2)
	ctx.prfAddrInto(pad, addr, pubSeed, bmRight)

	xor.BytesSameLen(bmLeft, left, bmLeft)
	xor.BytesSameLen(bmRight, right, bmRight)
	ctx.hashInto(pad, buf, out)
}

// Compute PRF(key, addr) and store it into out.
func (ctx *Context) prfAddrInto(pad scratchPad, addr address, key, out []byte) {
	buf := pad.prfBuf()
	encodeUint64Into(HASH_PADDING_PRF, buf[:ctx.p.N])
	copy(buf[ctx.p.N:], key)
	addr.writeInto(buf[ctx.p.N*2:])
	ctx.hashInto(pad, buf[:ctx.p.N*2+16], out)
}
