package xmssmt

import (
	"bytes"
	"math/rand"
	"testing"
)

func fillTestSeeds(n uint32) (pubSeed, skSeed, msg []byte) {
	pubSeed = make([]byte, n)
	skSeed = make([]byte, n)
	msg = make([]byte, n)
	for i := 0; i < int(n); i++ {
		pubSeed[i] = byte(2 * i)
		skSeed[i] = byte(i)
		msg[i] = byte(3 * i)
	}
	return
}

func testWotsSignThenVerify(ctx *Context, t *testing.T) {
	pubSeed, skSeed, msg := fillTestSeeds(ctx.p.N)
	var addr address
	addr.setOTSAddress(7)

	sig := ctx.wotsSign(msg, skSeed, pubSeed, addr)
	pk1 := ctx.wotsPkFromSig(sig, msg, pubSeed, addr)
	pk2 := ctx.wotsPkGen(skSeed, pubSeed, addr)
	if !bytes.Equal(pk1, pk2) {
		t.Errorf("%s: public key recovered from signature does not match "+
			"the one generated directly", ctx.Name())
	}
}

func TestWotsSignThenVerify(t *testing.T) {
	testWotsSignThenVerify(NewContextFromOid(false, 1), t)
	testWotsSignThenVerify(NewContextFromOid(false, 4), t)
	testWotsSignThenVerify(NewContextFromOid(false, 7), t)
	testWotsSignThenVerify(NewContextFromOid(false, 10), t)

	for _, f := range []HashFunc{SHA2, SHAKE} {
		for _, w := range []uint16{4, 16, 256} {
			ctx, err := NewContext(Params{Func: f, N: 16, WotsW: w, FullHeight: 1, D: 1})
			if err != nil {
				t.Fatalf("NewContext: %v", err)
			}
			testWotsSignThenVerify(ctx, t)
		}
	}
}

// A signature should fail to recover the right public key if the message
// that's verified differs from the one that was signed.
func TestWotsTamperedMessage(t *testing.T) {
	ctx := NewContextFromOid(false, 1)
	pubSeed, skSeed, msg := fillTestSeeds(ctx.p.N)
	var addr address
	addr.setOTSAddress(3)

	sig := ctx.wotsSign(msg, skSeed, pubSeed, addr)
	pk := ctx.wotsPkGen(skSeed, pubSeed, addr)

	tamperedMsg := append([]byte{}, msg...)
	tamperedMsg[0] ^= 1
	pkFromTampered := ctx.wotsPkFromSig(sig, tamperedMsg, pubSeed, addr)
	if bytes.Equal(pk, pkFromTampered) {
		t.Errorf("public key recovered from a tampered message matched " +
			"the real public key")
	}
}

// Signing is supposed to be deterministic: the same seed, message and
// address must always produce the same WOTS+ signature.
func TestWotsSignDeterministic(t *testing.T) {
	ctx := NewContextFromOid(false, 1)
	pubSeed, skSeed, msg := fillTestSeeds(ctx.p.N)
	var addr address
	addr.setOTSAddress(1)

	sig1 := ctx.wotsSign(msg, skSeed, pubSeed, addr)
	sig2 := ctx.wotsSign(msg, skSeed, pubSeed, addr)
	if !bytes.Equal(sig1, sig2) {
		t.Errorf("wotsSign is not deterministic")
	}
}

func TestWotsChainLengths(t *testing.T) {
	ctx := NewContextFromOid(false, 1)
	msg := make([]byte, ctx.p.N)
	rand.New(rand.NewSource(1)).Read(msg)
	lengths := ctx.wotsChainLengths(msg)
	if uint32(len(lengths)) != ctx.wotsLen {
		t.Fatalf("wotsChainLengths returned %d lengths, expected %d",
			len(lengths), ctx.wotsLen)
	}
	for _, l := range lengths {
		if uint16(l) >= ctx.p.WotsW {
			t.Errorf("chain length %d is not below WotsW=%d", l, ctx.p.WotsW)
		}
	}
}

func benchmarkWotsSign(b *testing.B, sha bool, N uint32, WotsW uint16) {
	f := SHA2
	if !sha {
		f = SHAKE
	}

	ctx, _ := NewContext(Params{
		Func:       f,
		N:          N,
		FullHeight: 10,
		D:          1,
		WotsW:      WotsW,
	})
	pubSeed, skSeed, msg := fillTestSeeds(ctx.p.N)
	var addr address
	addr.setOTSAddress(0)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		rand.Read(msg)
		ctx.wotsSign(msg, skSeed, pubSeed, addr)
	}
}

func BenchmarkWotsSign_SHA256_16_w16(b *testing.B)  { benchmarkWotsSign(b, true, 16, 16) }
func BenchmarkWotsSign_SHA256_16_w256(b *testing.B) { benchmarkWotsSign(b, true, 16, 256) }
func BenchmarkWotsSign_SHAKE_16_w16(b *testing.B)   { benchmarkWotsSign(b, false, 16, 16) }
func BenchmarkWotsSign_SHAKE_16_w256(b *testing.B)  { benchmarkWotsSign(b, false, 16, 256) }
func BenchmarkWotsSign_SHAKE_32_w16(b *testing.B)   { benchmarkWotsSign(b, false, 32, 16) }
func BenchmarkWotsSign_SHAKE_32_w256(b *testing.B)  { benchmarkWotsSign(b, false, 32, 256) }

func benchmarkWotsPkGen(b *testing.B, sha bool, N uint32, WotsW uint16) {
	f := SHA2
	if !sha {
		f = SHAKE
	}

	ctx, _ := NewContext(Params{
		Func:       f,
		N:          N,
		FullHeight: 10,
		D:          1,
		WotsW:      WotsW,
	})
	pubSeed, skSeed, _ := fillTestSeeds(ctx.p.N)
	var addr address
	addr.setOTSAddress(0)

	b.ResetTimer()
	for n := 0; n < b.N; n++ {
		ctx.wotsPkGen(skSeed, pubSeed, addr)
	}
}

func BenchmarkWotsPkGen_SHA256_16_w16(b *testing.B)  { benchmarkWotsPkGen(b, true, 16, 16) }
func BenchmarkWotsPkGen_SHA256_16_w256(b *testing.B) { benchmarkWotsPkGen(b, true, 16, 256) }
func BenchmarkWotsPkGen_SHAKE_16_w16(b *testing.B)   { benchmarkWotsPkGen(b, false, 16, 16) }
func BenchmarkWotsPkGen_SHAKE_16_w256(b *testing.B)  { benchmarkWotsPkGen(b, false, 16, 256) }
func BenchmarkWotsPkGen_SHAKE_32_w16(b *testing.B)   { benchmarkWotsPkGen(b, false, 32, 16) }
func BenchmarkWotsPkGen_SHAKE_32_w256(b *testing.B)  { benchmarkWotsPkGen(b, false, 32, 256) }
