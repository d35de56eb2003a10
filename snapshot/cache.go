// Copyright 2023 Sneller, Inc.
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package snapshot

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dchest/siphash"
	"golang.org/x/exp/constraints"

	"github.com/SnellerInc/fsa"
)

// Fingerprint returns a file-name-safe key for src.
func Fingerprint(src []byte) string {
	const (
		k0 = 0x9f17c3fd5efd3ce4
		k1 = 0xdbf1ba5f07eee2c0
	)
	lo, hi := siphash.Hash128(k0, k1, src)
	mem := make([]byte, 0, 16)
	mem = binary.LittleEndian.AppendUint64(mem, lo)
	mem = binary.LittleEndian.AppendUint64(mem, hi)
	return base64.URLEncoding.EncodeToString(mem)
}

// Cache keeps snapshots in a directory, keyed by
// Fingerprint. The first character of the key selects
// a subdirectory.
type Cache struct {
	Dir string
	// Algo is the compression passed to Encode.
	Algo string
	// Logf, if non-nil, reports hits, misses
	// and discarded entries.
	Logf func(f string, args ...interface{})
}

func (c *Cache) logf(f string, args ...interface{}) {
	if c.Logf != nil {
		c.Logf(f, args...)
	}
}

func (c *Cache) path(key string) string {
	return filepath.Join(c.Dir, key[:1], key)
}

func (c *Cache) write(key string, buf []byte) error {
	p := c.path(key)
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	_, err = f.Write(buf)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(f.Name(), p)
	}
	if err != nil {
		os.Remove(f.Name())
	}
	return err
}

// Load returns the Dfa cached under key, building and
// storing it with build when it is missing or unreadable.
// A failure to store the result is logged, not returned.
func Load[V constraints.Ordered](c *Cache, key string, build func() (*fsa.Dfa[V], error)) (*fsa.Dfa[V], error) {
	buf, err := os.ReadFile(c.path(key))
	switch {
	case err == nil:
		d, err := Decode[V](buf)
		if err == nil {
			c.logf("cache hit %s", key)
			return d, nil
		}
		c.logf("discarding cache entry %s: %v", key, err)
	case errors.Is(err, fs.ErrNotExist):
		c.logf("cache miss %s", key)
	default:
		return nil, err
	}
	d, err := build()
	if err != nil {
		return nil, err
	}
	buf, err = Encode(nil, d, c.Algo)
	if err != nil {
		return nil, err
	}
	if err := c.write(key, buf); err != nil {
		c.logf("storing cache entry %s: %v", key, err)
	}
	return d, nil
}
