package bytecode

import (
	"encoding/binary"
	"fmt"
)

// Function is one compiled function's code. Code is a zero-copy slice into
// the original image buffer.
type Function struct {
	Code []byte
}

// Image is a decoded bytecode file: a string table, a function table, and
// the index of the function execution starts at.
type Image struct {
	StartFunc uint32
	Strings   []string
	Funcs     []Function
}

// Decode parses the binary image format:
//
//	u32 start_function_index
//	u32 string_count
//	string_count * (u32 length, length bytes)
//	u32 function_count
//	function_count * (u32 code_length, code_length bytes)
//
// All integers are little-endian. Function code is sliced directly from buf
// rather than copied.
func Decode(buf []byte) (*Image, error) {
	r := &reader{buf: buf}

	start, err := r.u32()
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading start function index: %w", err)
	}

	stringCount, err := r.u32()
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading string count: %w", err)
	}
	strs := make([]string, 0, stringCount)
	for i := uint32(0); i < stringCount; i++ {
		s, err := r.lenPrefixed()
		if err != nil {
			return nil, fmt.Errorf("bytecode: reading string %d: %w", i, err)
		}
		strs = append(strs, string(s))
	}

	funcCount, err := r.u32()
	if err != nil {
		return nil, fmt.Errorf("bytecode: reading function count: %w", err)
	}
	funcs := make([]Function, 0, funcCount)
	for i := uint32(0); i < funcCount; i++ {
		code, err := r.lenPrefixed()
		if err != nil {
			return nil, fmt.Errorf("bytecode: reading function %d: %w", i, err)
		}
		funcs = append(funcs, Function{Code: code})
	}

	if int(start) >= len(funcs) {
		return nil, fmt.Errorf("bytecode: start function index %d out of range (%d functions)", start, len(funcs))
	}

	return &Image{StartFunc: start, Strings: strs, Funcs: funcs}, nil
}

type reader struct {
	buf []byte
	off int
}

func (r *reader) u32() (uint32, error) {
	if r.off+4 > len(r.buf) {
		return 0, fmt.Errorf("unexpected end of image")
	}
	v := binary.LittleEndian.Uint32(r.buf[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) lenPrefixed() ([]byte, error) {
	n, err := r.u32()
	if err != nil {
		return nil, err
	}
	if r.off+int(n) > len(r.buf) {
		return nil, fmt.Errorf("unexpected end of image")
	}
	b := r.buf[r.off : r.off+int(n)]
	r.off += int(n)
	return b, nil
}

// ReadU32 decodes a little-endian u32 operand at the start of b.
func ReadU32(b []byte) uint32 {
	return binary.LittleEndian.Uint32(b)
}

// ReadU64 decodes a little-endian u64 operand at the start of b.
func ReadU64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}
