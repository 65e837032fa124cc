package editor

import "github.com/xhd2015/covprobe/host"

// trackedPos is one offset inside a patch buffer that must move whenever
// bytes are inserted before it — a line-table boundary, an exception-table
// boundary, or the offset of a probe's own insert. Every such position
// uses the identical shift rule LineEntry.adjust uses in
// _examples/original_source/slipcover/slipcover.py: strictly-after
// positions move, everything at-or-before stays put.
type trackedPos struct{ value int }

func (p *trackedPos) adjust(insertOffset, insertLength int) {
	if p.value > insertOffset {
		p.value += insertLength
	}
}

// jumpOp is one decoded jump instruction, tracked through every insertion
// and length change until the final encode pass writes it back out. A
// direct port of slipcover.py's JumpOp.
type jumpOp struct {
	offset int // current byte offset of this instruction (including its own EXTENDED_ARG prefixes)
	length int // current total encoded length in bytes
	op     host.Opcode
	isRel  bool
	target int // current absolute byte offset this jump resolves to
}

func decodeJumps(code []byte) ([]*jumpOp, error) {
	var jumps []*jumpOp
	offset := 0
	for offset < len(code) {
		op, arg, next, ok := host.DecodeOne(code, offset)
		if !ok {
			return nil, errDecodeBoundary(offset)
		}
		if host.IsJump(op) {
			j := &jumpOp{offset: offset, length: next - offset, op: op}
			if host.IsRelativeJump(op) {
				j.isRel = true
				j.target = next + int(arg)
			} else {
				j.target = int(arg)
			}
			jumps = append(jumps, j)
		}
		offset = next
	}
	return jumps, nil
}

// adjust moves this jump's offset and/or target in response to insertLength
// bytes being inserted at insertOffset, exactly like JumpOp.adjust: the
// jump's own start uses >= (an insert "at" this jump's offset is an insert
// before it), its target uses > (matching LineEntry's boundary rule).
func (j *jumpOp) adjust(insertOffset, insertLength int) {
	if j.offset >= insertOffset {
		j.offset += insertLength
	}
	if j.target > insertOffset {
		j.target += insertLength
	}
}

// arg returns the raw operand this jump would currently encode to.
func (j *jumpOp) arg() uint32 {
	if j.isRel {
		return uint32(j.target - (j.offset + j.length))
	}
	return uint32(j.target)
}

func instrLen(arg uint32) int {
	return host.InstrWidth * (1 + host.ExtendedArgsNeeded(arg))
}

// adjustLength recomputes how many bytes this jump needs to encode its
// current arg() and returns the delta (0 if unchanged). Port of
// JumpOp.adjust_length.
func (j *jumpOp) adjustLength() int {
	needed := instrLen(j.arg())
	change := needed - j.length
	if change != 0 {
		if j.target > j.offset {
			j.target += change
		}
		j.length = needed
	}
	return change
}

// code returns this jump's final encoded bytes, exactly j.length long.
func (j *jumpOp) code() []byte {
	return wideEncodeLen(j.op, j.arg(), j.length)
}

// wideEncode encodes op+arg using the fixed worst-case width this package
// uses for probe-insert LOAD_CONSTs: two EXTENDED_ARG prefixes regardless
// of whether arg needs them, so a probe insert's length never depends on
// its constant-pool index.
func wideEncode(op host.Opcode, arg uint32) []byte {
	return wideEncodeLen(op, arg, wideOperandLen)
}

// wideEncodeLen encodes op+arg to exactly length bytes (length must be a
// positive multiple of host.InstrWidth, large enough to hold arg).
func wideEncodeLen(op host.Opcode, arg uint32, length int) []byte {
	n := length/host.InstrWidth - 1
	buf := make([]byte, 0, length)
	for i := n; i >= 1; i-- {
		b := byte((arg >> (uint(i) * 8)) & 0xFF)
		buf = append(buf, byte(host.OpExtendedArg), b)
	}
	buf = append(buf, byte(op), byte(arg&0xFF))
	return buf
}

// insertAt splices data into buf at position at, returning the (possibly
// reallocated) result.
func insertAt(buf []byte, at int, data []byte) []byte {
	out := make([]byte, 0, len(buf)+len(data))
	out = append(out, buf[:at]...)
	out = append(out, data...)
	out = append(out, buf[at:]...)
	return out
}

type decodeBoundaryError struct{ offset int }

func (e *decodeBoundaryError) Error() string {
	return "editor: offset is not an instruction boundary"
}

func errDecodeBoundary(offset int) error {
	return &decodeBoundaryError{offset: offset}
}

// growFixpoint repeatedly recomputes every jump's required length until no
// jump needs to grow or shrink, splicing bytes into patch as needed and
// shifting every other tracked position by the same delta. Port of
// instrument()'s "any_adjusted" loop: because every jump's length only
// ever needs finitely many EXTENDED_ARG prefixes, this converges.
func growFixpoint(patch []byte, jumps []*jumpOp, positions []*trackedPos) []byte {
	for {
		anyChanged := false
		for _, j := range jumps {
			change := j.adjustLength()
			if change == 0 {
				continue
			}
			anyChanged = true
			if change > 0 {
				patch = insertAt(patch, j.offset, make([]byte, change))
			} else {
				patch = append(patch[:j.offset], patch[j.offset-change:]...)
			}
			for _, k := range jumps {
				if k != j {
					k.adjust(j.offset, change)
				}
			}
			for _, p := range positions {
				p.adjust(j.offset, change)
			}
		}
		if !anyChanged {
			break
		}
	}
	return patch
}
