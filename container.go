package xmssmt

// An fsContainer is a file-backed store for an XMSS[MT] secret
// key, its signature counter and the BDS traversal state of every
// layer.  Signing mutates that state on every call, so unlike the
// subtree cache this used to hold, the container must be saved again
// after every Sign() whose result the caller intends to keep -- this
// package does not call Save for you.
//
// This lives outside the signing core itself (PrivateKey has no
// reference to a container) because ownership of persistent storage
// is a caller concern: callers that only need an in-memory key can use
// Context.GenerateKeyPair()/Context.Derive() directly.

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"github.com/cespare/xxhash"
	"github.com/hashicorp/go-multierror"
	"github.com/nightlyone/lockfile"
)

const (
	// First 8 bytes (in hex) of the secret key file
	FS_CONTAINER_KEY_MAGIC = "4089430a5ced6844"

	// First 8 bytes (in hex) of the BDS state file
	FS_CONTAINER_STATE_MAGIC = "e77957607ef79446"
)

// File-backed store for a PrivateKey, backed by three files:
//
//	path/to/key        secret key, parameters and signature counter
//	path/to/key.lock    a lockfile
//	path/to/key.state   serialized per-layer BDS traversal state
type fsContainer struct {
	flock lockfile.Lockfile // file lock
	path  string            // absolute base path

	closed bool
}

// Header of the key file.
type fsKeyHeader struct {
	Magic  [8]byte // Should be FS_CONTAINER_KEY_MAGIC
	Params Params  // Parameters
	SeqNo  SignatureSeqNo
}

// Header of the BDS state file.
type fsStateHeader struct {
	Magic [8]byte // Should be FS_CONTAINER_STATE_MAGIC
	D     uint32  // number of layers serialized after the header
}

// OpenPrivateKeyContainer locks path+".lock" and returns a handle that
// can Save or Load a PrivateKey under path.  The caller must Close()
// the container when done to release the lock.
func OpenPrivateKeyContainer(path string) (*fsContainer, Error) {
	var ctr fsContainer
	var err error

	ctr.path, err = filepath.Abs(path)
	if err != nil {
		return nil, wrapErrorf(err,
			"Could not turn %s into an absolute path", path)
	}

	lockFilePath := ctr.path + ".lock"
	ctr.flock, err = lockfile.New(lockFilePath)
	if err != nil {
		return nil, wrapErrorf(err,
			"Failed to create lockfile %s", lockFilePath)
	}

	// TryLock succeeds again for the process named in the lockfile, so a
	// lock this process already holds is refused here.
	if owner, oerr := ctr.flock.GetOwner(); oerr == nil && owner.Pid == os.Getpid() {
		err2 := errorf("%s is locked", path)
		err2.locked = true
		return nil, err2
	}

	err = ctr.flock.TryLock()
	if _, ok := err.(interface {
		Temporary() bool
	}); ok {
		err2 := errorf("%s is locked", path)
		err2.locked = true
		return nil, err2
	}
	if err != nil {
		return nil, wrapErrorf(err, "Failed to lock %s", lockFilePath)
	}

	return &ctr, nil
}

// Exists reports whether a key has already been saved at this path.
func (ctr *fsContainer) Exists() bool {
	_, err := os.Stat(ctr.path)
	return err == nil
}

// Save writes sk's secret material, signature counter and BDS state to
// the container's files, replacing whatever was saved before.
func (ctr *fsContainer) Save(sk *PrivateKey) Error {
	if ctr.closed {
		return errorf("Container is closed")
	}

	sk.mux.Lock()
	defer sk.mux.Unlock()

	if err := ctr.writeKeyFile(sk); err != nil {
		return err
	}
	if err := ctr.writeStateFile(sk); err != nil {
		return err
	}
	return nil
}

// Load reconstructs the PrivateKey (and its PublicKey) previously
// saved into this container.
func (ctr *fsContainer) Load() (*PrivateKey, *PublicKey, Error) {
	file, err := os.Open(ctr.path)
	if err != nil {
		return nil, nil, wrapErrorf(err, "Failed to open keyfile %s", ctr.path)
	}
	defer file.Close()

	var keyHeader fsKeyHeader
	if err = binary.Read(file, binary.BigEndian, &keyHeader); err != nil {
		return nil, nil, wrapErrorf(err, "Failed to read keyfile header")
	}
	if FS_CONTAINER_KEY_MAGIC != hex.EncodeToString(keyHeader.Magic[:]) {
		return nil, nil, errorf("Keyfile has invalid magic")
	}

	ctx, cerr := NewContext(keyHeader.Params)
	if cerr != nil {
		return nil, nil, cerr
	}

	privateKey := make([]byte, keyHeader.Params.PrivateKeySize())
	if _, err = io.ReadAtLeast(file, privateKey, len(privateKey)); err != nil {
		return nil, nil, wrapErrorf(err, "Failed to read private key")
	}
	n := keyHeader.Params.N

	sk := &PrivateKey{
		skSeed:     append([]byte{}, privateKey[:n]...),
		skPrf:      append([]byte{}, privateKey[n:2*n]...),
		pubSeed:    append([]byte{}, privateKey[2*n:3*n]...),
		seqNo:      keyHeader.SeqNo,
		ctx:        ctx,
		states:     make([]*bdsState, ctx.p.D),
		roots:      make([][]byte, ctx.p.D),
		curIdxTree: make([]uint64, ctx.p.D),
	}

	if err := ctr.readStateFile(sk); err != nil {
		return nil, nil, err
	}
	sk.root = sk.roots[ctx.p.D-1]

	return sk, sk.PublicKey(), nil
}

// writeKeyFile atomically replaces the key file with sk's current
// secret seeds, parameters and signature counter.  (1) write to a
// temp file, (2) fsync it, (3) rename it into place, (4) fsync the
// parent directory so a crash can't leave the rename unobserved.
func (ctr *fsContainer) writeKeyFile(sk *PrivateKey) Error {
	tmpPath := ctr.path + ".tmp"
	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return wrapErrorf(err, "failed to create temporary key file")
	}

	keyHeader := fsKeyHeader{
		Params: sk.ctx.p,
		SeqNo:  sk.seqNo,
	}
	magic, _ := hex.DecodeString(FS_CONTAINER_KEY_MAGIC)
	copy(keyHeader.Magic[:], magic)
	if err = binary.Write(tmpFile, binary.BigEndian, &keyHeader); err != nil {
		tmpFile.Close()
		return wrapErrorf(err, "failed to write temporary key file")
	}

	privateKey := make([]byte, 0, 3*sk.ctx.p.N)
	privateKey = append(privateKey, sk.skSeed...)
	privateKey = append(privateKey, sk.skPrf...)
	privateKey = append(privateKey, sk.pubSeed...)
	if _, err = tmpFile.Write(privateKey); err != nil {
		tmpFile.Close()
		return wrapErrorf(err, "failed to write temporary key file")
	}

	if err = tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return wrapErrorf(err, "failed to sync temporary key file")
	}
	if err = tmpFile.Close(); err != nil {
		return wrapErrorf(err, "failed to close temporary key file")
	}
	if err = os.Rename(tmpPath, ctr.path); err != nil {
		return wrapErrorf(err, "failed to replace key file")
	}

	dirName := filepath.Dir(ctr.path)
	dirFd, err := syscall.Open(dirName, syscall.O_DIRECTORY, syscall.O_RDWR)
	if err != nil {
		return wrapErrorf(err, "failed to sync key file: open(%s):", dirName)
	}
	if err = syscall.Fsync(dirFd); err != nil {
		syscall.Close(dirFd)
		return wrapErrorf(err, "failed to sync key file")
	}
	if err = syscall.Close(dirFd); err != nil {
		return wrapErrorf(err, "failed to sync key file (close)")
	}

	return nil
}

// writeStateFile atomically replaces the BDS state file.  Unlike the
// subtree cache this file format succeeded, the whole thing is
// O(height) per layer, so it's written out as one flat sequential
// blob rather than memory-mapped per-subtree.
func (ctr *fsContainer) writeStateFile(sk *PrivateKey) Error {
	statePath := ctr.path + ".state"
	tmpPath := statePath + ".tmp"

	// Build the body in memory first so we can append an xxhash
	// checksum: BDS state is small (O(height) per layer) so, unlike
	// the whole-subtree cache this file replaced, there's no benefit
	// to streaming it through a memory-mapped file.
	var body bytes.Buffer

	header := fsStateHeader{D: sk.ctx.p.D}
	magic, _ := hex.DecodeString(FS_CONTAINER_STATE_MAGIC)
	copy(header.Magic[:], magic)
	if err := binary.Write(&body, binary.BigEndian, &header); err != nil {
		return wrapErrorf(err, "failed to write state file header")
	}

	var layer uint32
	for layer = 0; layer < sk.ctx.p.D; layer++ {
		if err := binary.Write(&body, binary.BigEndian, sk.curIdxTree[layer]); err != nil {
			return wrapErrorf(err, "failed to write state file")
		}
		if err := writeBDSState(&body, sk.states[layer]); err != nil {
			return wrapErrorf(err, "failed to write state file")
		}
		if _, err := body.Write(sk.roots[layer]); err != nil {
			return wrapErrorf(err, "failed to write state file")
		}
	}

	checksum := xxhash.Sum64(body.Bytes())

	tmpFile, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return wrapErrorf(err, "failed to create temporary state file")
	}
	if _, err = tmpFile.Write(body.Bytes()); err != nil {
		tmpFile.Close()
		return wrapErrorf(err, "failed to write temporary state file")
	}
	if err = binary.Write(tmpFile, binary.BigEndian, checksum); err != nil {
		tmpFile.Close()
		return wrapErrorf(err, "failed to write state file checksum")
	}
	if err = tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return wrapErrorf(err, "failed to sync temporary state file")
	}
	if err = tmpFile.Close(); err != nil {
		return wrapErrorf(err, "failed to close temporary state file")
	}
	if err = os.Rename(tmpPath, statePath); err != nil {
		return wrapErrorf(err, "failed to replace state file")
	}
	return nil
}

func (ctr *fsContainer) readStateFile(sk *PrivateKey) Error {
	statePath := ctr.path + ".state"
	raw, err := os.ReadFile(statePath)
	if err != nil {
		return wrapErrorf(err, "Failed to open state file %s", statePath)
	}
	if len(raw) < 8 {
		return errorf("State file is too short")
	}
	body, wantChecksum := raw[:len(raw)-8], raw[len(raw)-8:]
	if xxhash.Sum64(body) != binary.BigEndian.Uint64(wantChecksum) {
		return errorf("State file checksum mismatch")
	}

	file := bytes.NewReader(body)

	var header fsStateHeader
	if err = binary.Read(file, binary.BigEndian, &header); err != nil {
		return wrapErrorf(err, "Failed to read state file header")
	}
	if FS_CONTAINER_STATE_MAGIC != hex.EncodeToString(header.Magic[:]) {
		return errorf("State file has invalid magic")
	}
	if header.D != sk.ctx.p.D {
		return errorf("State file does not match key parameters")
	}

	var layer uint32
	for layer = 0; layer < sk.ctx.p.D; layer++ {
		if err = binary.Read(file, binary.BigEndian, &sk.curIdxTree[layer]); err != nil {
			return wrapErrorf(err, "Failed to read state file")
		}
		st, err2 := readBDSState(file, sk.ctx)
		if err2 != nil {
			return wrapErrorf(err2, "Failed to read state file")
		}
		sk.states[layer] = st
		root := make([]byte, sk.ctx.p.N)
		if _, err = io.ReadFull(file, root); err != nil {
			return wrapErrorf(err, "Failed to read state file")
		}
		sk.roots[layer] = root
	}

	return nil
}

func writeBDSState(w io.Writer, st *bdsState) error {
	if err := binary.Write(w, binary.BigEndian, st.stackOffset); err != nil {
		return err
	}
	if _, err := w.Write(st.stack); err != nil {
		return err
	}
	for _, l := range st.stackLevels {
		if err := binary.Write(w, binary.BigEndian, l); err != nil {
			return err
		}
	}
	if _, err := w.Write(st.auth); err != nil {
		return err
	}
	if _, err := w.Write(st.keep); err != nil {
		return err
	}
	if _, err := w.Write(st.retain); err != nil {
		return err
	}
	for _, th := range st.treehash {
		if err := binary.Write(w, binary.BigEndian, th.h); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, th.nextIdx); err != nil {
			return err
		}
		if err := binary.Write(w, binary.BigEndian, th.stackUsage); err != nil {
			return err
		}
		var completed uint8
		if th.completed {
			completed = 1
		}
		if err := binary.Write(w, binary.BigEndian, completed); err != nil {
			return err
		}
		if _, err := w.Write(th.node); err != nil {
			return err
		}
	}
	return nil
}

func readBDSState(r io.Reader, ctx *Context) (*bdsState, error) {
	st := newBDSState(ctx)
	if err := binary.Read(r, binary.BigEndian, &st.stackOffset); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, st.stack); err != nil {
		return nil, err
	}
	for i := range st.stackLevels {
		if err := binary.Read(r, binary.BigEndian, &st.stackLevels[i]); err != nil {
			return nil, err
		}
	}
	if _, err := io.ReadFull(r, st.auth); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, st.keep); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, st.retain); err != nil {
		return nil, err
	}
	for i := range st.treehash {
		th := &st.treehash[i]
		if err := binary.Read(r, binary.BigEndian, &th.h); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &th.nextIdx); err != nil {
			return nil, err
		}
		if err := binary.Read(r, binary.BigEndian, &th.stackUsage); err != nil {
			return nil, err
		}
		var completed uint8
		if err := binary.Read(r, binary.BigEndian, &completed); err != nil {
			return nil, err
		}
		th.completed = completed != 0
		if _, err := io.ReadFull(r, th.node); err != nil {
			return nil, err
		}
	}
	return st, nil
}

// Close releases the lock on the container.  It does not Save: callers
// must call Save explicitly before Close if they want their changes
// kept.
func (ctr *fsContainer) Close() Error {
	var err error
	if err2 := ctr.flock.Unlock(); err2 != nil {
		err = multierror.Append(err, wrapErrorf(err2,
			"Could not release file lock"))
	}
	ctr.closed = true

	if err != nil {
		return wrapErrorf(err, "")
	}
	return nil
}
