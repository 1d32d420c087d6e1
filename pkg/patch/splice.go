package patch

import "github.com/bgrewell/los-kit/pkg/encoding"

// splice replaces buf[offset:offset+n] with repl. When the lengths match the bytes are overwritten in place, otherwise
// a new buffer is assembled so the replaced region never aliases the tail being moved.
func splice(buf []byte, offset, n int, repl []byte) []byte {
	if len(repl) == n {
		copy(buf[offset:offset+n], repl)
		return buf
	}
	out := make([]byte, 0, len(buf)-n+len(repl))
	out = append(out, buf[:offset]...)
	out = append(out, repl...)
	return append(out, buf[offset+n:]...)
}

// clone returns a private copy of buf so callers never see their input mutated.
func clone(buf []byte) []byte {
	return append(make([]byte, 0, len(buf)), buf...)
}

// editor copies the source buffer on the first write.
type editor struct {
	buf   []byte
	owned bool
}

func (e *editor) bytes() []byte {
	return e.buf
}

func (e *editor) own() {
	if !e.owned {
		e.buf = clone(e.buf)
		e.owned = true
	}
}

func (e *editor) splice(offset, n int, repl []byte) {
	e.own()
	e.buf = splice(e.buf, offset, n, repl)
}

func (e *editor) write(offset int, data []byte) {
	e.own()
	copy(e.buf[offset:], data)
}

func (e *editor) putUint32(offset int, value uint32) {
	e.own()
	encoding.WriteUint32BE(e.buf[offset:], value)
}
