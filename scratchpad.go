package xmssmt

// A scratchpad used by a single goroutine to avoid allocating on the
// hot signing/verification path. Sign and Verify grab one with
// newScratchPad and reuse it for the PRF and message hash; ctx.f and
// ctx.h, used by WOTS+, the L-tree and BDS, take a fresh one per call.
type scratchPad struct {
	buf []byte
	n   uint32

	hash hashScratchPad
}

func (pad scratchPad) fBuf() []byte {
	return pad.buf[:3*pad.n]
}

func (pad scratchPad) hBuf() []byte {
	return pad.buf[3*pad.n : 7*pad.n]
}

func (pad scratchPad) prfBuf() []byte {
	return pad.buf[7*pad.n : 9*pad.n+16]
}

func (ctx *Context) newScratchPad() scratchPad {
	n := ctx.p.N
	pad := scratchPad{
		buf:  make([]byte, 9*n+16),
		n:    n,
		hash: ctx.newHashScratchPad(),
	}
	return pad
}
