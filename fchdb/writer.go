// writer.go -- constant DB built on top of an FCH MPHF
//
// Ported from go-mph's dbwriter.go: same on-disk layout
// (header, checksummed records, mmap'able offset table, marshaled MPH,
// strong trailer checksum), adapted to build exactly one FCH instance
// instead of choosing between CHD and BBHash.
//
// (c) Sudhi Herle 2018
//
// License GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package fchdb

import (
	"crypto/rand"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/dchest/siphash"
	"github.com/opencoff/go-fch"
)

const (
	_DBKeysOnly = 1 << iota
)

const _Magic = "FCH1"

type wstate int

const (
	_Aborted wstate = -1
	_Open    wstate = 0
	_Frozen  wstate = 1
)

// record bookkeeping for one key, kept until Freeze() builds the MPHF.
type value struct {
	off  uint64
	vlen uint32
}

// Writer builds a read-only, disk-resident key/value database indexed by an
// FCH minimal perfect hash function. Keys are uint64; values are arbitrary
// byte sequences stored sequentially in the file with a per-record siphash
// checksum. Call Add/AddKeyVals to populate, then Freeze to build the MPHF
// and finalize the file.
type Writer struct {
	fd      *os.File
	builder *fch.Builder

	keymap map[uint64]*value

	salt []byte
	off  uint64

	valSize uint64

	fntmp string
	fn    string
	state wstate
}

// New prepares file fn to hold a constant DB built over an FCH MPHF with the
// given bitsPerKey budget (see fch.New). The file is written to a temporary
// name and atomically renamed into place on Freeze.
func New(fn string, bitsPerKey float64, opts ...fch.Option) (*Writer, error) {
	builder, err := fch.New(bitsPerKey, opts...)
	if err != nil {
		return nil, err
	}

	tmp := fmt.Sprintf("%s.tmp.%d", fn, os.Getpid())
	fd, err := os.OpenFile(tmp, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return nil, err
	}

	w := &Writer{
		fd:      fd,
		builder: builder,
		keymap:  make(map[uint64]*value),
		salt:    randSalt(16),
		off:     64,
		fn:      fn,
		fntmp:   tmp,
	}

	var z [64]byte
	if _, err := writeAll(fd, z[:]); err != nil {
		return nil, err
	}

	return w, nil
}

// Len returns the number of distinct keys added so far.
func (w *Writer) Len() int {
	return len(w.keymap)
}

// Filename returns the final (post-Freeze) path of the database.
func (w *Writer) Filename() string {
	return w.fn
}

// AddKeyVals adds a batch of key/value pairs, stopping at the shorter of
// the two slices. Returns the number of records actually added; duplicate
// keys are silently skipped in the batch form (use Add for strict behavior).
func (w *Writer) AddKeyVals(keys []uint64, vals [][]byte) (int, error) {
	if w.state != _Open {
		return 0, ErrFrozen
	}

	n := len(keys)
	if len(vals) < n {
		n = len(vals)
	}

	var z int
	for i := 0; i < n; i++ {
		if err := w.addRecord(keys[i], vals[i]); err != nil {
			if err == ErrExists {
				continue
			}
			return z, err
		}
		z++
	}
	return z, nil
}

// Add adds a single key/value pair. Returns ErrExists for a duplicate key.
func (w *Writer) Add(key uint64, val []byte) error {
	if w.state != _Open {
		return ErrFrozen
	}
	return w.addRecord(key, val)
}

// Abort discards the in-progress database and removes the temp file.
func (w *Writer) Abort() error {
	if w.state != _Open {
		return ErrFrozen
	}
	return w.abort()
}

func (w *Writer) abort() error {
	if err := os.Remove(w.fd.Name()); err != nil {
		return err
	}
	if err := w.fd.Close(); err != nil {
		return err
	}
	w.state = _Aborted
	return nil
}

// Freeze builds the FCH over the accumulated keys, writes the offset table
// and marshaled MPHF, appends a strong checksum, and atomically renames the
// temp file into its final location.
func (w *Writer) Freeze() (err error) {
	defer func(e *error) {
		if *e != nil {
			w.abort()
		}
	}(&err)

	if w.state != _Open {
		return ErrFrozen
	}

	keys := make([]fch.Key, 0, len(w.keymap))
	for k := range w.keymap {
		keys = append(keys, fch.Uint64Key(k))
	}

	f, err := w.builder.Build(keys)
	if err != nil {
		return err
	}

	h := sha512.New512_256()
	tee := io.MultiWriter(w.fd, h)

	pgsz := uint64(os.Getpagesize())
	pgszM1 := pgsz - 1
	offtbl := (w.off + pgszM1) &^ pgszM1

	if offtbl > w.off {
		zeroes := make([]byte, offtbl-w.off)
		if _, err = writeAll(w.fd, zeroes); err != nil {
			return err
		}
		w.off = offtbl
	}

	var ehdr [64]byte
	be := binary.BigEndian
	copy(ehdr[:4], _Magic)

	i := 4
	if w.valSize == 0 {
		be.PutUint32(ehdr[i:i+4], uint32(_DBKeysOnly))
	}
	i += 4
	i += copy(ehdr[i:], w.salt)
	be.PutUint64(ehdr[i:i+8], f.Len())
	i += 8
	be.PutUint64(ehdr[i:i+8], offtbl)

	h.Write(ehdr[:])

	if err = w.marshalOffsets(tee, f); err != nil {
		return err
	}

	offtbl = (w.off + 7) &^ uint64(7)
	if offtbl > w.off {
		zeroes := make([]byte, offtbl-w.off)
		if _, err = writeAll(tee, zeroes); err != nil {
			return err
		}
		w.off = offtbl
	}

	nw, err := f.MarshalBinary(tee)
	if err != nil {
		return err
	}
	w.off += uint64(nw)

	cksum := h.Sum(nil)
	if _, err = writeAll(w.fd, cksum); err != nil {
		return err
	}

	if _, err = w.fd.Seek(0, 0); err != nil {
		return err
	}
	if _, err = writeAll(w.fd, ehdr[:]); err != nil {
		return err
	}

	if err = w.fd.Sync(); err != nil {
		return err
	}
	if err = w.fd.Close(); err != nil {
		return err
	}
	if err = os.Rename(w.fntmp, w.fn); err != nil {
		return err
	}

	w.state = _Frozen
	return nil
}

func (w *Writer) marshalOffsets(tee io.Writer, f *fch.FCH) error {
	if w.valSize == 0 {
		return w.marshalKeys(tee, f)
	}

	n := f.Len()
	offset := make([]uint64, 2*n)
	vlen := make([]uint32, n)

	for k, r := range w.keymap {
		i := f.Lookup(fch.Uint64Key(k))

		vlen[i] = r.vlen
		j := i * 2
		offset[j] = k
		offset[j+1] = r.off
	}

	bs := u64sToByteSlice(offset)
	if _, err := writeAll(tee, bs); err != nil {
		return err
	}

	bs = u32sToByteSlice(vlen)
	if _, err := writeAll(tee, bs); err != nil {
		return err
	}

	w.off += n * (8 + 8 + 4)
	return nil
}

func (w *Writer) marshalKeys(tee io.Writer, f *fch.FCH) error {
	n := f.Len()
	offset := make([]uint64, n)
	for k := range w.keymap {
		i := f.Lookup(fch.Uint64Key(k))
		offset[i] = k
	}

	bs := u64sToByteSlice(offset)
	if _, err := writeAll(tee, bs); err != nil {
		return err
	}
	w.off += n * 8
	return nil
}

func (w *Writer) addRecord(key uint64, val []byte) error {
	if uint64(len(val)) > uint64(1<<32)-1 {
		return ErrValueTooLarge
	}
	if _, ok := w.keymap[key]; ok {
		return ErrExists
	}

	v := &value{
		off:  w.off,
		vlen: uint32(len(val)),
	}
	w.keymap[key] = v

	if len(val) > 0 {
		if err := w.writeRecord(val, v.off); err != nil {
			return err
		}
		w.valSize += uint64(len(val))
	}

	return nil
}

func (w *Writer) writeRecord(val []byte, off uint64) error {
	var o [8]byte
	var c [8]byte

	be := binary.BigEndian
	be.PutUint64(o[:], off)

	h := siphash.New(w.salt)
	h.Write(o[:])
	h.Write(val)
	be.PutUint64(c[:], h.Sum64())

	if _, err := writeAll(w.fd, c[:]); err != nil {
		return err
	}
	if _, err := writeAll(w.fd, val); err != nil {
		return err
	}

	w.off += uint64(len(val)) + 8
	return nil
}

func writeAll(w io.Writer, buf []byte) (int, error) {
	n, err := w.Write(buf)
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return n, fmt.Errorf("fchdb: short write: exp %d, wrote %d", len(buf), n)
	}
	return n, nil
}

func randSalt(n int) []byte {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		panic("fchdb: can't read crypto/rand")
	}
	return b
}
