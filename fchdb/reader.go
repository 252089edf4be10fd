// reader.go -- query interface for a frozen fchdb database
//
// Ported from go-mph's dbreader.go: mmap the offset table,
// verify the strong trailer checksum once at open time, then verify each
// record's siphash checksum opportunistically as it is read.
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
	"crypto/sha512"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dchest/siphash"
	"github.com/hashicorp/golang-lru/arc/v2"
	"github.com/opencoff/go-fch"
	"github.com/opencoff/go-mmap"
)

// Reader is the read-only query interface for a database built with Writer.
// It holds a memory-mapped offset table and an FCH index; value records are
// read from disk on demand and cached.
type Reader struct {
	mph *fch.FCH

	cache *arc.ARCCache[uint64, []byte]

	flags uint32

	offset []uint64
	vlen   []uint32

	nkeys  uint64
	salt   []byte
	offtbl uint64

	mm *mmap.Mapping
	fd *os.File
	fn string
}

// Open opens a previously frozen database in file fn. cacheSize bounds the
// number of decoded value records held in memory (0 selects a default of
// 128).
func Open(fn string, cacheSize int) (rd *Reader, err error) {
	fd, err := os.Open(fn)
	if err != nil {
		return nil, err
	}

	if cacheSize <= 0 {
		cacheSize = 128
	}

	rd = &Reader{
		salt: make([]byte, 16),
		fd:   fd,
		fn:   fn,
	}

	st, err := fd.Stat()
	if err != nil {
		return nil, fmt.Errorf("%s: can't stat: %w", fn, err)
	}
	if st.Size() < (64 + 32) {
		return nil, fmt.Errorf("%s: %w: file too small", fn, ErrCorrupt)
	}

	var hdrb [64]byte
	if _, err = io.ReadFull(fd, hdrb[:]); err != nil {
		return nil, fmt.Errorf("%s: can't read header: %w", fn, err)
	}

	offtbl, err := rd.decodeHeader(hdrb[:], st.Size())
	if err != nil {
		return nil, err
	}

	if err = rd.verifyChecksum(hdrb[:], offtbl, st.Size()); err != nil {
		return nil, err
	}

	tblsz := rd.nkeys * (8 + 8 + 4)
	if (rd.flags & _DBKeysOnly) > 0 {
		tblsz = rd.nkeys * 8
	}
	if uint64(st.Size()) < (64 + 32 + tblsz) {
		return nil, fmt.Errorf("%s: %w: header/size mismatch", fn, ErrCorrupt)
	}

	rd.cache, err = arc.NewARC[uint64, []byte](cacheSize)
	if err != nil {
		return nil, err
	}

	mmapsz := st.Size() - int64(offtbl) - 32
	mm := mmap.New(fd)
	mapping, err := mm.Map(mmapsz, int64(offtbl), mmap.PROT_READ, mmap.F_READAHEAD)
	if err != nil {
		return nil, fmt.Errorf("%s: can't mmap %d bytes at off %d: %w", fn, mmapsz, offtbl, err)
	}

	offsz := rd.nkeys * (8 + 8)
	vlensz := rd.nkeys * 4
	if (rd.flags & _DBKeysOnly) > 0 {
		offsz = rd.nkeys * 8
		vlensz = 0
	}

	bs := mapping.Bytes()
	rd.mm = mapping
	rd.offset = bsToUint64Slice(bs[:offsz])
	if vlensz > 0 {
		rd.vlen = bsToUint32Slice(bs[offsz : offsz+vlensz])
	}

	// The writer pads the offset table to an 8-byte boundary before the
	// marshaled FCH index.
	idxoff := (offsz + vlensz + 7) &^ uint64(7)
	mph, err := fch.Unmarshal(bs[idxoff:])
	if err != nil {
		return nil, fmt.Errorf("%s: can't unmarshal FCH index: %w", fn, err)
	}
	rd.mph = mph

	return rd, nil
}

// Len returns the size of the MPHF key space.
func (rd *Reader) Len() int {
	return int(rd.nkeys)
}

// Close releases the mmap, closes the file and purges the cache.
func (rd *Reader) Close() {
	rd.mm.Unmap()
	rd.fd.Close()
	rd.cache.Purge()
	rd.salt = nil
	rd.mph = nil
	rd.fd = nil
	rd.fn = ""
}

// Lookup returns the value for key, or ok=false if absent.
func (rd *Reader) Lookup(key uint64) ([]byte, bool) {
	v, err := rd.Find(key)
	if err != nil {
		return nil, false
	}
	return v, true
}

// Find returns the value for key, or an error if the key is absent, the
// record checksum fails, or disk i/o fails.
func (rd *Reader) Find(key uint64) ([]byte, error) {
	if v, ok := rd.cache.Get(key); ok {
		return v, nil
	}

	i := rd.mph.Lookup(fch.Uint64Key(key))
	if i >= rd.nkeys {
		return nil, ErrNoKey
	}

	if (rd.flags & _DBKeysOnly) > 0 {
		if rd.offset[i] != key {
			return nil, ErrNoKey
		}
		rd.cache.Add(key, nil)
		return nil, nil
	}

	j := i * 2
	if rd.offset[j] != key {
		return nil, ErrNoKey
	}

	vlen := rd.vlen[i]
	off := rd.offset[j+1]
	val, err := rd.decodeRecord(off, vlen)
	if err != nil {
		return nil, err
	}

	rd.cache.Add(key, val)
	return val, nil
}

// IterFunc calls fp on every stored record. Iteration stops, propagating
// the error, if fp returns non-nil.
func (rd *Reader) IterFunc(fp func(k uint64, v []byte) error) error {
	switch {
	case rd.flags&_DBKeysOnly > 0:
		for i := uint64(0); i < rd.nkeys; i++ {
			if err := fp(rd.offset[i], nil); err != nil {
				return err
			}
		}
	default:
		for i := uint64(0); i < rd.nkeys; i++ {
			j := i * 2
			k := rd.offset[j]
			vl := rd.vlen[i]
			off := rd.offset[j+1]
			val, err := rd.decodeRecord(off, vl)
			if err != nil {
				return fmt.Errorf("iter: key %x: read-record: %w", k, err)
			}
			if err := fp(k, val); err != nil {
				return err
			}
		}
	}
	return nil
}

// Desc provides a human description of the database.
func (rd *Reader) Desc() string {
	var w strings.Builder

	if (rd.flags & _DBKeysOnly) > 0 {
		fmt.Fprintf(&w, "fchdb: <KEYS> %d keys, hash-salt %#x, offtbl at %#x\n",
			rd.nkeys, rd.salt, rd.offtbl)
	} else {
		fmt.Fprintf(&w, "fchdb: <KEYS+VALS> %d keys, hash-salt %#x, offtbl at %#x\n",
			rd.nkeys, rd.salt, rd.offtbl)
	}
	fmt.Fprintf(&w, "  fch: %d keys, %d bits\n", rd.mph.Len(), rd.mph.NumBits())
	return w.String()
}

// DumpMeta writes the database metadata to w.
func (rd *Reader) DumpMeta(w io.Writer) {
	fmt.Fprintf(w, "%s", rd.Desc())

	if (rd.flags & _DBKeysOnly) > 0 {
		for i := uint64(0); i < rd.nkeys; i++ {
			fmt.Fprintf(w, "  %3d: %x\n", i, rd.offset[i])
		}
		return
	}
	for i := uint64(0); i < rd.nkeys; i++ {
		j := i * 2
		fmt.Fprintf(w, "  %3d: %#x, %d bytes at %#x\n", i, rd.offset[j], rd.vlen[i], rd.offset[j+1])
	}
}

func (rd *Reader) decodeRecord(off uint64, vlen uint32) ([]byte, error) {
	if _, err := rd.fd.Seek(int64(off), 0); err != nil {
		return nil, err
	}

	data := make([]byte, uint64(vlen)+8)
	if _, err := io.ReadFull(rd.fd, data); err != nil {
		return nil, err
	}

	be := binary.BigEndian
	csum := be.Uint64(data[:8])

	var o [8]byte
	be.PutUint64(o[:], off)

	h := siphash.New(rd.salt)
	h.Write(o[:])
	h.Write(data[8:])
	exp := h.Sum64()

	if csum != exp {
		return nil, fmt.Errorf("%s: corrupted record at off %d (exp %#x, saw %#x): %w", rd.fn, off, exp, csum, ErrCorrupt)
	}
	return data[8:], nil
}

func (rd *Reader) verifyChecksum(hdrb []byte, offtbl uint64, sz int64) error {
	h := sha512.New512_256()
	h.Write(hdrb)

	remsz := sz - int64(offtbl) - 32

	if _, err := rd.fd.Seek(int64(offtbl), 0); err != nil {
		return err
	}

	nw, err := io.CopyN(h, rd.fd, remsz)
	if err != nil {
		return fmt.Errorf("%s: metadata i/o error: %w", rd.fn, err)
	}
	if nw != remsz {
		return fmt.Errorf("%s: partial read while verifying checksum, exp %d, saw %d", rd.fn, remsz, nw)
	}

	var expsum [32]byte
	if _, err = rd.fd.Seek(sz-32, 0); err != nil {
		return err
	}
	if _, err = io.ReadFull(rd.fd, expsum[:]); err != nil {
		return fmt.Errorf("%s: checksum i/o error: %w", rd.fn, err)
	}

	csum := h.Sum(nil)
	if subtle.ConstantTimeCompare(csum, expsum[:]) != 1 {
		return fmt.Errorf("%s: %w: checksum mismatch", rd.fn, ErrCorrupt)
	}

	_, err = rd.fd.Seek(int64(offtbl), 0)
	return err
}

func (rd *Reader) decodeHeader(b []byte, sz int64) (uint64, error) {
	magic := string(b[:4])
	if magic != _Magic {
		return 0, fmt.Errorf("%s: %w: bad magic %q", rd.fn, ErrCorrupt, magic)
	}

	be := binary.BigEndian
	i := 4

	rd.flags = be.Uint32(b[i : i+4])
	i += 4

	rd.salt = append([]byte(nil), b[i:i+16]...)
	i += 16
	rd.nkeys = be.Uint64(b[i : i+8])
	i += 8
	rd.offtbl = be.Uint64(b[i : i+8])

	if rd.offtbl < 64 || rd.offtbl >= uint64(sz-32) {
		return 0, fmt.Errorf("%s: %w: bad offset table pointer", rd.fn, ErrCorrupt)
	}

	return rd.offtbl, nil
}
