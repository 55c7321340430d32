// Package publicrecord builds the public values committed by a run: the
// output bitstream as base64 text and the operation code, ABI-encoded as the
// tuple (string, uint8).
package publicrecord

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/sha3"
)

const wordSize = 32

// ErrMalformedRecord is returned by Decode for bytes that are not a
// canonical encoding of a record.
var ErrMalformedRecord = errors.New("publicrecord: malformed record")

// Record is the public output of one run.
type Record struct {
	Output    string // standard padded base64 of the output container
	Operation uint8
}

// New builds a record from the encoded output container.
func New(videoData []byte, operation uint8) Record {
	return Record{
		Output:    base64.StdEncoding.EncodeToString(videoData),
		Operation: operation,
	}
}

// EncodedSize returns the length of Encode's output for a string of n bytes.
func EncodedSize(n int) int {
	return 4*wordSize + padded(n)
}

func padded(n int) int {
	return (n + wordSize - 1) / wordSize * wordSize
}

// Encode returns the ABI encoding of the record as a single dynamic tuple:
//
//	word 0  offset of the tuple (0x20)
//	word 1  offset of the string within the tuple (0x40)
//	word 2  operation, left-padded
//	word 3  string length in bytes
//	...     string bytes, right-padded with zeros to a word boundary
func (r Record) Encode() []byte {
	out := make([]byte, EncodedSize(len(r.Output)))
	putWord(out[0:], wordSize)
	putWord(out[wordSize:], 2*wordSize)
	out[3*wordSize-1] = r.Operation
	putWord(out[3*wordSize:], uint64(len(r.Output)))
	copy(out[4*wordSize:], r.Output)
	return out
}

// putWord writes v big-endian into the low 8 bytes of a zeroed word.
func putWord(dst []byte, v uint64) {
	binary.BigEndian.PutUint64(dst[wordSize-8:wordSize], v)
}

// readWord reads a word that must fit in 64 bits.
func readWord(src []byte) (uint64, bool) {
	for _, b := range src[:wordSize-8] {
		if b != 0 {
			return 0, false
		}
	}
	return binary.BigEndian.Uint64(src[wordSize-8 : wordSize]), true
}

// Decode parses the output of Encode. Only the canonical encoding is
// accepted: fixed offsets, zero padding and no trailing bytes.
func Decode(data []byte) (Record, error) {
	if len(data) < 4*wordSize || len(data)%wordSize != 0 {
		return Record{}, fmt.Errorf("%w: length %d", ErrMalformedRecord, len(data))
	}

	if off, ok := readWord(data[0:]); !ok || off != wordSize {
		return Record{}, fmt.Errorf("%w: tuple offset", ErrMalformedRecord)
	}
	if off, ok := readWord(data[wordSize:]); !ok || off != 2*wordSize {
		return Record{}, fmt.Errorf("%w: string offset", ErrMalformedRecord)
	}

	opWord := data[2*wordSize : 3*wordSize]
	for _, b := range opWord[:wordSize-1] {
		if b != 0 {
			return Record{}, fmt.Errorf("%w: operation out of range", ErrMalformedRecord)
		}
	}

	n, ok := readWord(data[3*wordSize:])
	if !ok || n > uint64(len(data)) {
		return Record{}, fmt.Errorf("%w: string length", ErrMalformedRecord)
	}
	strLen := int(n)
	if len(data) != EncodedSize(strLen) {
		return Record{}, fmt.Errorf("%w: length %d for string of %d bytes", ErrMalformedRecord, len(data), strLen)
	}

	body := data[4*wordSize:]
	for _, b := range body[strLen:] {
		if b != 0 {
			return Record{}, fmt.Errorf("%w: non-zero padding", ErrMalformedRecord)
		}
	}

	return Record{
		Output:    string(body[:strLen]),
		Operation: opWord[wordSize-1],
	}, nil
}

// Digest returns the Keccak-256 hash of Encode().
func (r Record) Digest() [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(r.Encode())
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return sum
}

// Hex returns Digest as 0x-prefixed lowercase hex.
func (r Record) Hex() string {
	d := r.Digest()
	return "0x" + hex.EncodeToString(d[:])
}

// Video decodes the output container carried by the record.
func (r Record) Video() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.Output)
}
