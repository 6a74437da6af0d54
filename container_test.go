package xmssmt

import (
	"bytes"
	"io/ioutil"
	"os"
	"testing"
)

func TestContainerSaveLoad(t *testing.T) {
	dir, err := ioutil.TempDir("", "xmssmt-container-test")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)
	path := dir + "/key"

	ctx, err := NewContext(Params{Func: SHA2, N: 32, FullHeight: 4, D: 1, WotsW: 16})
	if err != nil {
		t.Fatalf("NewContext(): %v", err)
	}
	sk, pk, err := ctx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}

	ctr, err := OpenPrivateKeyContainer(path)
	if err != nil {
		t.Fatalf("OpenPrivateKeyContainer: %v", err)
	}
	if ctr.Exists() {
		t.Fatalf("container should not report an existing key yet")
	}

	msg := []byte("persist me")
	sig, err := sk.Sign(msg)
	if err != nil {
		t.Fatalf("Sign(): %v", err)
	}
	if err := ctr.Save(sk); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	if err := ctr.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}

	if !ctr.Exists() {
		t.Fatalf("container should report an existing key after Save()")
	}

	ctr2, err := OpenPrivateKeyContainer(path)
	if err != nil {
		t.Fatalf("OpenPrivateKeyContainer: %v", err)
	}
	defer ctr2.Close()

	sk2, pk2, err := ctr2.Load()
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}

	if sk2.seqNo != sk.seqNo {
		t.Fatalf("sequence number was not preserved: got %d, expected %d",
			sk2.seqNo, sk.seqNo)
	}
	if !bytes.Equal(sk2.root, sk.root) {
		t.Fatalf("root was not preserved across Save/Load")
	}

	pkBuf, _ := pk.MarshalBinary()
	pk2Buf, _ := pk2.MarshalBinary()
	if !bytes.Equal(pkBuf, pk2Buf) {
		t.Fatalf("public key changed across Save/Load")
	}

	ok, err := pk2.Verify(sig, msg)
	if !ok {
		t.Fatalf("signature made before Save() failed to verify after Load(): %v", err)
	}

	// The reloaded key's BDS state must still be usable to keep signing.
	msg2 := []byte("sign again after reload")
	sig2, err := sk2.Sign(msg2)
	if err != nil {
		t.Fatalf("Sign() after Load(): %v", err)
	}
	ok, err = pk2.Verify(sig2, msg2)
	if !ok {
		t.Fatalf("signature made after Load() failed to verify: %v", err)
	}
	if sig2.SeqNo() != sk.seqNo {
		t.Fatalf("signature after reload used seqno %d, expected %d",
			sig2.SeqNo(), sk.seqNo)
	}
}

// A second Open while the lockfile is held must fail.
func TestContainerLock(t *testing.T) {
	dir, err := ioutil.TempDir("", "xmssmt-container-lock-test")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)
	path := dir + "/key"

	ctr1, err := OpenPrivateKeyContainer(path)
	if err != nil {
		t.Fatalf("OpenPrivateKeyContainer: %v", err)
	}
	defer ctr1.Close()

	_, lockErr := OpenPrivateKeyContainer(path)
	if lockErr == nil {
		t.Fatalf("expected a second OpenPrivateKeyContainer on the same path to fail")
	}
	if !lockErr.Locked() {
		t.Fatalf("expected the error to report Locked()==true")
	}
}

// Tampering with the saved state file must be caught by the xxhash
// integrity check on Load().
func TestContainerDetectsCorruption(t *testing.T) {
	dir, err := ioutil.TempDir("", "xmssmt-container-corrupt-test")
	if err != nil {
		t.Fatalf("TempDir: %v", err)
	}
	defer os.RemoveAll(dir)
	path := dir + "/key"

	ctx, err := NewContext(Params{Func: SHA2, N: 32, FullHeight: 4, D: 1, WotsW: 16})
	if err != nil {
		t.Fatalf("NewContext(): %v", err)
	}
	sk, _, err := ctx.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair(): %v", err)
	}

	ctr, err := OpenPrivateKeyContainer(path)
	if err != nil {
		t.Fatalf("OpenPrivateKeyContainer: %v", err)
	}
	if err := ctr.Save(sk); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	if err := ctr.Close(); err != nil {
		t.Fatalf("Close(): %v", err)
	}

	raw, err := ioutil.ReadFile(path + ".state")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	raw[len(raw)-1] ^= 0xff
	if err := ioutil.WriteFile(path+".state", raw, 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctr2, err := OpenPrivateKeyContainer(path)
	if err != nil {
		t.Fatalf("OpenPrivateKeyContainer: %v", err)
	}
	defer ctr2.Close()

	if _, _, err := ctr2.Load(); err == nil {
		t.Fatalf("expected Load() to detect the corrupted state file")
	}
}
