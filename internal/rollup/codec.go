package rollup

import (
	"encoding/binary"
	"fmt"
	"math/bits"
	"unicode/utf8"

	"github.com/holiman/uint256"
)

// The canonical transaction encoding is the SCALE layout: strings carry a
// compact length prefix, fixed-width integers are little-endian.

const (
	compactSingleMax = 1<<6 - 1
	compactTwoMax    = 1<<14 - 1
	compactFourMax   = 1<<30 - 1
)

type encoder struct {
	buf []byte
}

func (e *encoder) compact(n uint64) {
	switch {
	case n <= compactSingleMax:
		e.buf = append(e.buf, byte(n<<2))
	case n <= compactTwoMax:
		e.buf = binary.LittleEndian.AppendUint16(e.buf, uint16(n<<2)|0b01)
	case n <= compactFourMax:
		e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(n<<2)|0b10)
	default:
		size := (bits.Len64(n) + 7) / 8
		e.buf = append(e.buf, byte((size-4)<<2)|0b11)
		for i := 0; i < size; i++ {
			e.buf = append(e.buf, byte(n>>(8*i)))
		}
	}
}

func (e *encoder) str(s string) {
	e.compact(uint64(len(s)))
	e.buf = append(e.buf, s...)
}

func (e *encoder) u64(v uint64) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
}

// u128 writes the low 128 bits of v as 16 little-endian bytes.
func (e *encoder) u128(v *uint256.Int) {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v[0])
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v[1])
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) take(n int, what string) ([]byte, error) {
	if n < 0 || len(d.data)-d.off < n {
		return nil, fmt.Errorf("%w: truncated %s at offset %d", ErrDecode, what, d.off)
	}
	b := d.data[d.off : d.off+n]
	d.off += n
	return b, nil
}

// compact reads a compact integer and rejects non-canonical forms.
func (d *decoder) compact(what string) (uint64, error) {
	head, err := d.take(1, what)
	if err != nil {
		return 0, err
	}

	switch head[0] & 0b11 {
	case 0b00:
		return uint64(head[0] >> 2), nil
	case 0b01:
		d.off--
		b, err := d.take(2, what)
		if err != nil {
			return 0, err
		}
		n := uint64(binary.LittleEndian.Uint16(b) >> 2)
		if n <= compactSingleMax {
			return 0, fmt.Errorf("%w: non-canonical %s length", ErrDecode, what)
		}
		return n, nil
	case 0b10:
		d.off--
		b, err := d.take(4, what)
		if err != nil {
			return 0, err
		}
		n := uint64(binary.LittleEndian.Uint32(b) >> 2)
		if n <= compactTwoMax {
			return 0, fmt.Errorf("%w: non-canonical %s length", ErrDecode, what)
		}
		return n, nil
	default:
		size := int(head[0]>>2) + 4
		if size > 8 {
			return 0, fmt.Errorf("%w: %s length exceeds 64 bits", ErrDecode, what)
		}
		b, err := d.take(size, what)
		if err != nil {
			return 0, err
		}
		var n uint64
		for i := size - 1; i >= 0; i-- {
			n = n<<8 | uint64(b[i])
		}
		if n <= compactFourMax || b[size-1] == 0 {
			return 0, fmt.Errorf("%w: non-canonical %s length", ErrDecode, what)
		}
		return n, nil
	}
}

func (d *decoder) str(what string) (string, error) {
	n, err := d.compact(what)
	if err != nil {
		return "", err
	}
	if n > uint64(len(d.data)-d.off) {
		return "", fmt.Errorf("%w: %s length %d exceeds remaining %d bytes", ErrDecode, what, n, len(d.data)-d.off)
	}
	b, err := d.take(int(n), what)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrDecode, what)
	}
	return string(b), nil
}

func (d *decoder) u64(what string) (uint64, error) {
	b, err := d.take(8, what)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *decoder) u128(what string) (uint256.Int, error) {
	b, err := d.take(16, what)
	if err != nil {
		return uint256.Int{}, err
	}
	return uint256.Int{binary.LittleEndian.Uint64(b[:8]), binary.LittleEndian.Uint64(b[8:]), 0, 0}, nil
}

func (d *decoder) finish() error {
	if rest := len(d.data) - d.off; rest != 0 {
		return fmt.Errorf("%w: %d trailing bytes", ErrDecode, rest)
	}
	return nil
}
