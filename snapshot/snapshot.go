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

// Package snapshot stores frozen Dfas in a compact
// binary form.
//
// A snapshot is laid out as
//
//	"FSA1" | algo (1 byte) | uvarint raw size | checksum (8 bytes LE) | payload
//
// where the payload is the compressed JSON of an fsa.Table
// and the checksum is the siphash of the uncompressed JSON.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"

	"github.com/dchest/siphash"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"golang.org/x/exp/constraints"

	"github.com/SnellerInc/fsa"
)

// ErrBadSnapshot is returned by Decode for input
// that is not a well-formed snapshot.
var ErrBadSnapshot = errors.New("snapshot: malformed input")

const (
	magic = "FSA1"

	algoZstd byte = 1
	algoS2   byte = 2

	// largest uncompressed table we will allocate for
	maxRawSize = 1 << 30
	// largest accepted ratio of raw size to payload size
	maxRatio = 1024

	checksumK0 = 0x5a1c7e0f6b3d2e91
	checksumK1 = 0x0d4f8a2b97c6e513
)

var (
	zstdDecoder       *zstd.Decoder
	zstdEncoder       *zstd.Encoder
	zstdBetterEncoder *zstd.Encoder
)

func init() {
	z, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(runtime.GOMAXPROCS(0)),
		zstd.WithDecoderMaxMemory(maxRawSize))
	if err != nil {
		panic(err)
	}
	zstdDecoder = z
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
	zstdBetterEncoder, err = zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
		zstd.WithEncoderConcurrency(1))
	if err != nil {
		panic(err)
	}
}

// Algorithms lists the compression names accepted by Encode.
var Algorithms = []string{"zstd", "zstd-better", "s2"}

func compress(algo string, src, dst []byte) ([]byte, byte, error) {
	switch algo {
	case "", "zstd":
		return zstdEncoder.EncodeAll(src, dst), algoZstd, nil
	case "zstd-better":
		return zstdBetterEncoder.EncodeAll(src, dst), algoZstd, nil
	case "s2":
		return append(dst, s2.Encode(nil, src)...), algoS2, nil
	default:
		return nil, 0, fmt.Errorf("snapshot: unknown compression %q", algo)
	}
}

func decompress(algo byte, src, dst []byte) error {
	into := dst[:0:len(dst)]
	var ret []byte
	var err error
	switch algo {
	case algoZstd:
		ret, err = zstdDecoder.DecodeAll(src, into)
	case algoS2:
		ret, err = s2.Decode(into, src)
	default:
		return fmt.Errorf("%w: unknown compression %d", ErrBadSnapshot, algo)
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	if len(ret) != len(dst) {
		return fmt.Errorf("%w: expected %d bytes decompressed; got %d", ErrBadSnapshot, len(dst), len(ret))
	}
	return nil
}

// Encode appends the snapshot of d to dst, compressing
// the table with algo (one of Algorithms; empty means zstd).
func Encode[V constraints.Ordered](dst []byte, d *fsa.Dfa[V], algo string) ([]byte, error) {
	tbl := d.Table()
	raw, err := json.Marshal(&tbl)
	if err != nil {
		return nil, err
	}
	dst = append(dst, magic...)
	// reserve the algorithm byte
	at := len(dst)
	dst = append(dst, 0)
	dst = binary.AppendUvarint(dst, uint64(len(raw)))
	dst = binary.LittleEndian.AppendUint64(dst, siphash.Hash(checksumK0, checksumK1, raw))
	dst, id, err := compress(algo, raw, dst)
	if err != nil {
		return nil, err
	}
	dst[at] = id
	return dst, nil
}

// Decode rebuilds the Dfa stored in src.
// Errors caused by corrupt input wrap ErrBadSnapshot.
func Decode[V constraints.Ordered](src []byte) (*fsa.Dfa[V], error) {
	if !bytes.HasPrefix(src, []byte(magic)) || len(src) < len(magic)+1 {
		return nil, fmt.Errorf("%w: bad magic", ErrBadSnapshot)
	}
	src = src[len(magic):]
	algo := src[0]
	src = src[1:]
	size, n := binary.Uvarint(src)
	if n <= 0 || size > maxRawSize {
		return nil, fmt.Errorf("%w: bad size", ErrBadSnapshot)
	}
	src = src[n:]
	if len(src) < 8 {
		return nil, fmt.Errorf("%w: truncated", ErrBadSnapshot)
	}
	sum := binary.LittleEndian.Uint64(src)
	payload := src[8:]
	if size > uint64(len(payload))*maxRatio {
		return nil, fmt.Errorf("%w: %d bytes cannot expand to %d", ErrBadSnapshot, len(payload), size)
	}
	if algo == algoS2 {
		if n, err := s2.DecodedLen(payload); err != nil || uint64(n) != size {
			return nil, fmt.Errorf("%w: s2 block length does not match header", ErrBadSnapshot)
		}
	}
	raw := make([]byte, size)
	if err := decompress(algo, payload, raw); err != nil {
		return nil, err
	}
	if siphash.Hash(checksumK0, checksumK1, raw) != sum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrBadSnapshot)
	}
	var tbl fsa.Table[V]
	if err := json.Unmarshal(raw, &tbl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadSnapshot, err)
	}
	return fsa.FromTable(&tbl)
}
