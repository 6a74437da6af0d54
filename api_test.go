package xmssmt

import (
	"bytes"
	"testing"
)

func testSignThenVerify(sk *PrivateKey, pk *PublicKey, t *testing.T) {
	msg := []byte("test message")
	sig, err := sk.Sign(msg)
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}
	sigOk, err := pk.Verify(sig, msg)
	if !sigOk {
		t.Fatalf("Verifying signature failed: %v", err)
	}
	sigOk, _ = pk.Verify(sig, []byte("wrong message"))
	if sigOk {
		t.Fatalf("Verifying signature did not fail on a tampered message")
	}
}

func testGenerateSignVerify(params Params, t *testing.T) {
	ctx, err := NewContext(params)
	if err != nil {
		t.Fatalf("NewContext(): %v", err)
	}
	sk, pk, err := ctx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}
	testSignThenVerify(sk, pk, t)
}

func TestWotsW4(t *testing.T) {
	testGenerateSignVerify(Params{SHAKE, 32, 4, 1, 4, RFC}, t)
}
func TestWotsW16(t *testing.T) {
	testGenerateSignVerify(Params{SHAKE, 32, 4, 1, 16, RFC}, t)
}
func TestWotsW256(t *testing.T) {
	testGenerateSignVerify(Params{SHAKE, 32, 4, 1, 256, RFC}, t)
}

// Derive must be deterministic: the same three seeds always produce the
// same public root, and the first signature produced is reproducible.
func TestDeriveDeterministic(t *testing.T) {
	ctx := NewContextFromName("XMSS-SHA2_10_256")
	pubSeed := make([]byte, ctx.p.N)
	skSeed := make([]byte, ctx.p.N)
	skPrf := make([]byte, ctx.p.N)
	for i := range pubSeed {
		pubSeed[i] = byte(2 * i)
		skSeed[i] = byte(i)
		skPrf[i] = byte(3 * i)
	}

	sk1, pk1, err := ctx.Derive(pubSeed, skSeed, skPrf)
	if err != nil {
		t.Fatalf("Derive(): %v", err)
	}
	sk2, pk2, err := ctx.Derive(pubSeed, skSeed, skPrf)
	if err != nil {
		t.Fatalf("Derive(): %v", err)
	}
	if !bytes.Equal(sk1.root, sk2.root) {
		t.Fatalf("Derive() is not deterministic: roots differ")
	}

	pk1Bytes, _ := pk1.MarshalBinary()
	pk2Bytes, _ := pk2.MarshalBinary()
	if !bytes.Equal(pk1Bytes, pk2Bytes) {
		t.Fatalf("Derive() is not deterministic: public keys differ")
	}

	msg := []byte("hello")
	sig1, err := sk1.Sign(msg)
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}
	sig2, err := sk2.Sign(msg)
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}
	sig1Bytes, _ := sig1.MarshalBinary()
	sig2Bytes, _ := sig2.MarshalBinary()
	if !bytes.Equal(sig1Bytes, sig2Bytes) {
		t.Fatalf("Sign() from identical derived keys produced different signatures")
	}
}

// Consecutive signatures exercise the BDS incremental authentication-path
// advance (computeAuthPathWotsFast) across the whole subtree, not just
// treehashSetup's initial computation.
func TestSignConsecutive(t *testing.T) {
	ctx := NewContextFromName("XMSS-SHA2_10_256")
	sk, pk, err := ctx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}

	for i := 0; i < 40; i++ {
		msg := []byte{byte(i)}
		sig, err := sk.Sign(msg)
		if err != nil {
			t.Fatalf("Sign() at seqno %d: %v", i, err)
		}
		if sig.SeqNo() != SignatureSeqNo(i) {
			t.Fatalf("expected seqno %d, got %d", i, sig.SeqNo())
		}
		ok, err := pk.Verify(sig, msg)
		if !ok {
			t.Fatalf("signature %d failed to verify: %v", i, err)
		}
	}
}

// With D>1 (XMSSMT), enough consecutive signatures must force layer 0's
// subtree to roll over (and layer 1 to move on to its next leaf); the
// resulting signatures must still verify against the (unchanged)
// top-level public key.
func TestSignAcrossSubtreeRollover(t *testing.T) {
	ctx, err := NewContext(Params{Func: SHA2, N: 32, FullHeight: 4, D: 2, WotsW: 16})
	if err != nil {
		t.Fatalf("NewContext(): %v", err)
	}
	sk, pk, err := ctx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}

	// treeHeight is 2, so layer 0's subtree rolls over every 4 signatures.
	for i := 0; i < 12; i++ {
		msg := []byte{byte(i)}
		sig, err := sk.Sign(msg)
		if err != nil {
			t.Fatalf("Sign() at seqno %d: %v", i, err)
		}
		ok, err := pk.Verify(sig, msg)
		if !ok {
			t.Fatalf("signature %d failed to verify across subtree rollover: %v", i, err)
		}
	}
}

func TestSignatureExhaustion(t *testing.T) {
	ctx, err := NewContext(Params{Func: SHA2, N: 32, FullHeight: 2, D: 1, WotsW: 16})
	if err != nil {
		t.Fatalf("NewContext(): %v", err)
	}
	sk, _, err := ctx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}

	max := ctx.p.MaxSignatureSeqNo()
	for i := uint64(0); i <= max; i++ {
		if _, err := sk.Sign([]byte("msg")); err != nil {
			t.Fatalf("Sign() at seqno %d: %v", i, err)
		}
	}
	if _, err := sk.Sign([]byte("one too many")); err == nil {
		t.Fatalf("expected signing to fail once the key is exhausted")
	}
}

func TestPublicKeyMarshalRoundtrip(t *testing.T) {
	ctx := NewContextFromName("XMSS-SHA2_10_256")
	_, pk, err := ctx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}

	buf, merr := pk.MarshalBinary()
	if merr != nil {
		t.Fatalf("MarshalBinary(): %v", merr)
	}
	var pk2 PublicKey
	if err := pk2.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary(): %v", err)
	}
	buf2, _ := pk2.MarshalBinary()
	if !bytes.Equal(buf, buf2) {
		t.Fatalf("public key did not round-trip through Marshal/UnmarshalBinary")
	}

	text, merr := pk.MarshalText()
	if merr != nil {
		t.Fatalf("MarshalText(): %v", merr)
	}
	var pk3 PublicKey
	if err := pk3.UnmarshalText(text); err != nil {
		t.Fatalf("UnmarshalText(): %v", err)
	}
	buf3, _ := pk3.MarshalBinary()
	if !bytes.Equal(buf, buf3) {
		t.Fatalf("public key did not round-trip through Marshal/UnmarshalText")
	}
}

func TestSignatureMarshalRoundtrip(t *testing.T) {
	ctx := NewContextFromName("XMSS-SHA2_10_256")
	sk, pk, err := ctx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}
	msg := []byte("roundtrip me")
	sig, err := sk.Sign(msg)
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}
	buf, merr := sig.MarshalBinary()
	if merr != nil {
		t.Fatalf("MarshalBinary(): %v", merr)
	}
	var sig2 Signature
	if err := sig2.UnmarshalBinary(buf); err != nil {
		t.Fatalf("UnmarshalBinary(): %v", err)
	}
	ok, err := pk.Verify(&sig2, msg)
	if !ok {
		t.Fatalf("unmarshaled signature failed to verify: %v", err)
	}
}
