package layout

import (
	"bytes"
	"crypto/sha256"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"orboracle/pkg/fixed"
)

// Discriminator returns the Anchor type id of name in namespace
// ("account", "event" or "global").
func Discriminator(namespace, name string) bin.TypeID {
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	return bin.TypeIDFromBytes(sum[:8])
}

// ErrDiscriminator is returned when data does not start with the expected type id.
var ErrDiscriminator = errors.New("layout: discriminator mismatch")

type writer struct {
	buf *bytes.Buffer
	enc *bin.Encoder
	err error
}

func newWriter(capacity int) *writer {
	buf := bytes.NewBuffer(make([]byte, 0, capacity))
	return &writer{buf: buf, enc: bin.NewBorshEncoder(buf)}
}

func (w *writer) raw(b []byte) {
	if w.err == nil {
		w.err = w.enc.WriteBytes(b, false)
	}
}

func (w *writer) typeID(id bin.TypeID) { w.raw(id[:]) }

func (w *writer) key(k solana.PublicKey) { w.raw(k[:]) }

func (w *writer) u8(v uint8) {
	if w.err == nil {
		w.err = w.enc.WriteUint8(v)
	}
}

func (w *writer) boolean(v bool) {
	if w.err == nil {
		w.err = w.enc.WriteBool(v)
	}
}

func (w *writer) u32(v uint32) {
	if w.err == nil {
		w.err = w.enc.WriteUint32(v, bin.LE)
	}
}

func (w *writer) u64(v uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint64(v, bin.LE)
	}
}

func (w *writer) i64(v int64) {
	if w.err == nil {
		w.err = w.enc.WriteInt64(v, bin.LE)
	}
}

func (w *writer) words(lo, hi uint64) {
	if w.err == nil {
		w.err = w.enc.WriteUint128(bin.Uint128{Lo: lo, Hi: hi}, bin.LE)
	}
}

func (w *writer) u128(v fixed.U128) { w.words(v.Lo(), v.Hi()) }

func (w *writer) i128(v fixed.I128) { w.words(v.Parts()) }

func (w *writer) str(s string) {
	w.u32(uint32(len(s)))
	w.raw([]byte(s))
}

// padded returns the encoded bytes zero extended to size.
func (w *writer) padded(size int) ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	if w.buf.Len() > size {
		return nil, errors.Errorf("layout: encoded %d bytes exceeds account size %d", w.buf.Len(), size)
	}

	out := make([]byte, size)
	copy(out, w.buf.Bytes())
	return out, nil
}

func (w *writer) bytes() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}

	return w.buf.Bytes(), nil
}

type reader struct {
	dec *bin.Decoder
	err error
}

func newReader(data []byte, id bin.TypeID) *reader {
	r := &reader{dec: bin.NewBorshDecoder(data)}
	got, err := r.dec.ReadTypeID()
	if err != nil {
		r.err = err
	} else if got != id {
		r.err = ErrDiscriminator
	}

	return r
}

func (r *reader) n(size int) []byte {
	if r.err != nil {
		return make([]byte, size)
	}

	b, err := r.dec.ReadNBytes(size)
	if err != nil {
		r.err = err
		return make([]byte, size)
	}

	return b
}

func (r *reader) key() solana.PublicKey {
	return solana.PublicKeyFromBytes(r.n(solana.PublicKeyLength))
}

func (r *reader) u8() uint8 {
	if r.err != nil {
		return 0
	}

	v, err := r.dec.ReadUint8()
	r.err = err
	return v
}

func (r *reader) boolean() bool {
	if r.err != nil {
		return false
	}

	v, err := r.dec.ReadBool()
	r.err = err
	return v
}

func (r *reader) u32() uint32 {
	if r.err != nil {
		return 0
	}

	v, err := r.dec.ReadUint32(bin.LE)
	r.err = err
	return v
}

func (r *reader) u64() uint64 {
	if r.err != nil {
		return 0
	}

	v, err := r.dec.ReadUint64(bin.LE)
	r.err = err
	return v
}

func (r *reader) i64() int64 {
	if r.err != nil {
		return 0
	}

	v, err := r.dec.ReadInt64(bin.LE)
	r.err = err
	return v
}

func (r *reader) words() (lo, hi uint64) {
	if r.err != nil {
		return 0, 0
	}

	v, err := r.dec.ReadUint128(bin.LE)
	r.err = err
	return v.Lo, v.Hi
}

func (r *reader) u128() fixed.U128 { return fixed.U128FromParts(r.words()) }

func (r *reader) i128() fixed.I128 { return fixed.I128FromParts(r.words()) }

func (r *reader) str(max int) string {
	size := int(r.u32())
	if r.err == nil && size > max {
		r.err = errors.Errorf("layout: string of %d bytes exceeds %d", size, max)
	}

	if r.err != nil {
		return ""
	}

	return string(r.n(size))
}

// count reads a vector length bounded by max.
func (r *reader) count(max int) int {
	size := int(r.u32())
	if r.err == nil && size > max {
		r.err = errors.Errorf("layout: vector of %d items exceeds %d", size, max)
	}

	if r.err != nil {
		return 0
	}

	return size
}
