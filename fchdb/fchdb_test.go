// fchdb_test.go -- test suite for the constant DB layer
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
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func newAsserter(t *testing.T) func(cond bool, msg string, args ...interface{}) {
	return func(cond bool, msg string, args ...interface{}) {
		if cond {
			return
		}
		t.Fatalf("Assertion failed: "+msg, args...)
	}
}

func TestWriterReaderRoundtrip(t *testing.T) {
	assert := newAsserter(t)

	dir := t.TempDir()
	fn := filepath.Join(dir, "test.fchdb")

	w, err := New(fn, 3.0)
	assert(err == nil, "New: %s", err)

	want := make(map[uint64][]byte)
	for i := uint64(0); i < 500; i++ {
		val := []byte(fmt.Sprintf("value-%d", i))
		want[i] = val
		err := w.Add(i, val)
		assert(err == nil, "Add(%d): %s", i, err)
	}

	err = w.Freeze()
	assert(err == nil, "Freeze: %s", err)

	rd, err := Open(fn, 64)
	assert(err == nil, "Open: %s", err)
	defer rd.Close()

	assert(rd.Len() >= len(want), "Len() = %d, want >= %d", rd.Len(), len(want))

	for k, v := range want {
		got, ok := rd.Lookup(k)
		assert(ok, "Lookup(%d): not found", k)
		assert(string(got) == string(v), "Lookup(%d) = %q, want %q", k, got, v)
	}

	_, ok := rd.Lookup(999999999)
	assert(!ok, "Lookup for absent key unexpectedly succeeded")
}

func TestWriterDuplicateKey(t *testing.T) {
	assert := newAsserter(t)

	dir := t.TempDir()
	fn := filepath.Join(dir, "dup.fchdb")

	w, err := New(fn, 2.0)
	assert(err == nil, "New: %s", err)
	defer os.Remove(fn)

	err = w.Add(1, []byte("a"))
	assert(err == nil, "Add: %s", err)

	err = w.Add(1, []byte("b"))
	assert(err == ErrExists, "Add duplicate key: err = %v, want ErrExists", err)

	w.Abort()
}

func TestWriterKeysOnly(t *testing.T) {
	assert := newAsserter(t)

	dir := t.TempDir()
	fn := filepath.Join(dir, "keysonly.fchdb")

	w, err := New(fn, 3.0)
	assert(err == nil, "New: %s", err)

	for i := uint64(0); i < 200; i++ {
		err := w.Add(i, nil)
		assert(err == nil, "Add(%d): %s", i, err)
	}

	err = w.Freeze()
	assert(err == nil, "Freeze: %s", err)

	rd, err := Open(fn, 32)
	assert(err == nil, "Open: %s", err)
	defer rd.Close()

	for i := uint64(0); i < 200; i++ {
		v, ok := rd.Lookup(i)
		assert(ok, "Lookup(%d): not found", i)
		assert(len(v) == 0, "Lookup(%d) = %v, want empty", i, v)
	}
}
