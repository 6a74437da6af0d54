package xmssmt

import (
	"bytes"
	"testing"
)

func testHashMessage(ctx *Context, t *testing.T) {
	msg := []byte("test message!")
	R := make([]byte, ctx.p.N)
	root := make([]byte, ctx.p.N)
	var idx uint64 = 123456789123456789
	for i := 0; i < int(ctx.p.N); i++ {
		R[i] = byte(2 * i)
		root[i] = byte(i)
	}
	h1, err := ctx.hashMessage(ctx.newScratchPad(),
		bytes.NewReader(msg), R, root, idx)
	if err != nil {
		t.Fatalf("%s hashMessage: %v", ctx.Name(), err)
	}
	if uint32(len(h1)) != ctx.p.N {
		t.Fatalf("%s hashMessage returned %d bytes, expected %d",
			ctx.Name(), len(h1), ctx.p.N)
	}

	h2, err := ctx.hashMessage(ctx.newScratchPad(),
		bytes.NewReader(msg), R, root, idx)
	if err != nil {
		t.Fatalf("%s hashMessage: %v", ctx.Name(), err)
	}
	if !bytes.Equal(h1, h2) {
		t.Errorf("%s hashMessage is not deterministic", ctx.Name())
	}

	// Changing idx (the leaf/signature index it's bound to) must change
	// the digest, or two different leaves could be tricked into signing
	// the same value.
	h3, err := ctx.hashMessage(ctx.newScratchPad(),
		bytes.NewReader(msg), R, root, idx+1)
	if err != nil {
		t.Fatalf("%s hashMessage: %v", ctx.Name(), err)
	}
	if bytes.Equal(h1, h3) {
		t.Errorf("%s hashMessage does not depend on idx", ctx.Name())
	}
}

func TestHashMessage(t *testing.T) {
	testHashMessage(NewContextFromOid(false, 1), t)
	testHashMessage(NewContextFromOid(false, 4), t)
	testHashMessage(NewContextFromOid(false, 7), t)
	testHashMessage(NewContextFromOid(false, 10), t)
}

func testPrf(ctx *Context, t *testing.T) {
	key := make([]byte, ctx.p.N)
	for i := range key {
		key[i] = byte(i)
	}
	v1 := ctx.prfUint64(ctx.newScratchPad(), 42, key)
	v2 := ctx.prfUint64(ctx.newScratchPad(), 42, key)
	if !bytes.Equal(v1, v2) {
		t.Errorf("%s prfUint64 is not deterministic", ctx.Name())
	}
	v3 := ctx.prfUint64(ctx.newScratchPad(), 43, key)
	if bytes.Equal(v1, v3) {
		t.Errorf("%s prfUint64 does not depend on its index", ctx.Name())
	}
}

func TestPrf(t *testing.T) {
	testPrf(NewContextFromOid(false, 1), t)
	testPrf(NewContextFromOid(false, 4), t)
	testPrf(NewContextFromOid(false, 7), t)
	testPrf(NewContextFromOid(false, 10), t)
}

func testF(ctx *Context, t *testing.T) {
	in := make([]byte, ctx.p.N)
	pubSeed := make([]byte, ctx.p.N)
	for i := 0; i < int(ctx.p.N); i++ {
		pubSeed[i] = byte(2 * i)
		in[i] = byte(i)
	}
	var addr address
	addr.setOTSBit(1)
	addr.setChain(3)

	v1 := ctx.f(in, pubSeed, addr)
	v2 := ctx.f(in, pubSeed, addr)
	if uint32(len(v1)) != ctx.p.N {
		t.Fatalf("%s f returned %d bytes, expected %d", ctx.Name(), len(v1), ctx.p.N)
	}
	if !bytes.Equal(v1, v2) {
		t.Errorf("%s f is not deterministic", ctx.Name())
	}
	if bytes.Equal(v1, in) {
		t.Errorf("%s f returned its input unchanged", ctx.Name())
	}
}

func TestF(t *testing.T) {
	testF(NewContextFromOid(false, 1), t)
	testF(NewContextFromOid(false, 4), t)
	testF(NewContextFromOid(false, 7), t)
	testF(NewContextFromOid(false, 10), t)
}

func testH(ctx *Context, t *testing.T) {
	left := make([]byte, ctx.p.N)
	right := make([]byte, ctx.p.N)
	pubSeed := make([]byte, ctx.p.N)
	for i := 0; i < int(ctx.p.N); i++ {
		pubSeed[i] = byte(2 * i)
		left[i] = byte(i)
		right[i] = byte(i + int(ctx.p.N))
	}
	var addr address
	addr.setNodePadding()

	v1 := ctx.h(left, right, pubSeed, addr)
	v2 := ctx.h(right, left, pubSeed, addr)
	if uint32(len(v1)) != ctx.p.N {
		t.Fatalf("%s h returned %d bytes, expected %d", ctx.Name(), len(v1), ctx.p.N)
	}
	if bytes.Equal(v1, v2) {
		t.Errorf("%s h is not sensitive to the order of its children", ctx.Name())
	}
}

func TestH(t *testing.T) {
	testH(NewContextFromOid(false, 1), t)
	testH(NewContextFromOid(false, 4), t)
	testH(NewContextFromOid(false, 7), t)
	testH(NewContextFromOid(false, 10), t)
}

func BenchmarkF(b *testing.B) {
	ctx, _ := NewContext(Params{Func: SHAKE, N: 16, WotsW: 16, FullHeight: 1, D: 1})
	in := make([]byte, ctx.p.N)
	pubSeed := make([]byte, ctx.p.N)
	var addr address
	pad := ctx.newScratchPad()
	out := make([]byte, ctx.p.N)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx.fInto(pad, in, pubSeed, addr, out)
	}
}

func BenchmarkH(b *testing.B) {
	ctx, _ := NewContext(Params{Func: SHAKE, N: 16, WotsW: 16, FullHeight: 1, D: 1})
	left := make([]byte, ctx.p.N)
	right := make([]byte, ctx.p.N)
	pubSeed := make([]byte, ctx.p.N)
	var addr address
	pad := ctx.newScratchPad()
	out := make([]byte, ctx.p.N)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx.hInto(pad, left, right, pubSeed, addr, out)
	}
}
