// Package editor implements the Bytecode Editor (spec.md 4.B): it rewrites
// a host.CodeUnit's instruction stream to insert or remove probe call
// sequences while preserving every jump target, the line table, the
// exception table, and the required stack depth.
//
// Grounded closely on _examples/original_source/slipcover/slipcover.py's
// get_jumps/JumpOp/make_lnotab/instrument/deinstrument: the jump-adjust +
// fixpoint-growth algorithm in jump.go is a direct port of JumpOp.adjust
// and JumpOp.adjust_length, adapted from CPython wordcode
// (dis.hasjrel/hasjabs, EXTENDED_ARG) to this package's
// host.Opcode/host.DecodeOne shape.
package editor

import (
	"fmt"

	"github.com/xhd2015/covprobe/host"
	"github.com/xhd2015/covprobe/probe"
)

// probeInsertLen is the fixed byte length of every probe's prelude
// sequence, satisfying invariant I1 ("every ProbeSite has insert length
// equal to a fixed, host-version-specific constant"):
//
//	NOP                    2 bytes  (patched to JUMP_FORWARD on deinstrument)
//	LOAD_CONST <signal>    6 bytes  (wide-encoded so width never depends on index)
//	LOAD_CONST <capsule>   6 bytes  (wide-encoded)
//	CALL 1                 2 bytes
//	POP                    2 bytes
const probeInsertLen = 18

const wideOperandLen = 6 // 2 EXTENDED_ARG prefixes + the real instruction, all 2 bytes wide

// Site is what the editor hands back to the driver for each inserted
// probe: the live runtime object plus enough placement information to
// later deinstrument or immediately disable it.
type Site struct {
	Probe    *probe.Probe
	Filename string
	Key      probe.Key
	Offset   int // byte offset, in the returned CodeUnit, of this site's leading NOP
}

// siteCapsule is the per-probe constant-pool value pushed as CALL's
// argument; it is what spec.md 4.B step 3 calls the "probe capsule".
type siteCapsule struct {
	probe   *probe.Probe
	jumpArg byte
}

// probeSignalNative is the single Go-implemented callable shared by every
// probe insert in every instrumented CodeUnit, added once per CodeUnit's
// constant pool (mirrors slipcover.py's note_coverage being appended to
// co_consts exactly once per instrument() call).
func probeSignalNative(vm *host.VM, args []host.Value) host.Value {
	c := args[0].(*siteCapsule)
	c.probe.Signal(byte(host.OpJumpForward), c.jumpArg)
	return nil
}

// Instrument returns a new CodeUnit with a probe prelude inserted before
// the first instruction of every line in sites, plus the list of Sites it
// created. cu is never mutated.
//
// sites maps a line number (an ordinary source line for line coverage, or
// one of branch.Instrument's negative pseudo-lines for branch coverage) to
// the probe.Key that probe should record.
func Instrument(cu *host.CodeUnit, sites map[int]probe.Key, filename string, rec probe.Recorder, threshold int) (*host.CodeUnit, []*Site, error) {
	if len(cu.Code)%host.InstrWidth != 0 {
		return nil, nil, fmt.Errorf("editor: malformed code length %d in %q", len(cu.Code), cu.Name)
	}

	jumps, err := decodeJumps(cu.Code)
	if err != nil {
		return nil, nil, fmt.Errorf("editor: %w", err)
	}

	consts := append([]host.Value(nil), cu.Consts...)
	signalIdx := len(consts)
	consts = append(consts, host.NativeFunc(probeSignalNative))

	type lineBound struct {
		start, end *trackedPos
		line       int
	}

	var patch []byte
	var lineBounds []lineBound
	var positions []*trackedPos // every non-jump position that must track insertions/growth
	var created []*Site
	var sitePos []*trackedPos

	prevOffset := -1
	prevLine := 0
	lineStart := &trackedPos{value: 0}

	flushPrev := func(uptoOriginal int) {
		if prevOffset < 0 {
			return
		}
		patch = append(patch, cu.Code[prevOffset:uptoOriginal]...)
		end := &trackedPos{value: len(patch)}
		lineBounds = append(lineBounds, lineBound{start: lineStart, end: end, line: prevLine})
		positions = append(positions, end)
	}

	for _, e := range cu.Lines {
		flushPrev(e.Start)
		prevOffset = e.Start
		prevLine = e.Line
		lineStart = &trackedPos{value: len(patch)}
		positions = append(positions, lineStart)

		key, ok := sites[e.Line]
		if !ok {
			continue
		}

		insertOffset := len(patch)
		p := probe.New(filename, key, rec, threshold)
		capsule := &siteCapsule{probe: p, jumpArg: byte(probeInsertLen - 2)}
		capsuleIdx := len(consts)
		consts = append(consts, capsule)

		insert := make([]byte, 0, probeInsertLen)
		insert = append(insert, byte(host.OpNop), 0) // patched on deinstrument
		insert = append(insert, wideEncode(host.OpLoadConst, uint32(signalIdx))...)
		insert = append(insert, wideEncode(host.OpLoadConst, uint32(capsuleIdx))...)
		insert = append(insert, byte(host.OpCall), 1)
		insert = append(insert, byte(host.OpPop), 0)
		if len(insert) != probeInsertLen {
			return nil, nil, fmt.Errorf("editor: internal error, insert length %d != %d", len(insert), probeInsertLen)
		}
		patch = append(patch, insert...)

		pos := &trackedPos{value: insertOffset}
		sitePos = append(sitePos, pos)
		positions = append(positions, pos)
		created = append(created, &Site{Probe: p, Filename: filename, Key: key, Offset: insertOffset})

		for _, j := range jumps {
			j.adjust(insertOffset, probeInsertLen)
		}
		for _, pp := range positions {
			if pp != pos { // pos itself is the insertion point, never shifts for its own insert
				pp.adjust(insertOffset, probeInsertLen)
			}
		}
	}
	flushPrev(len(cu.Code))

	excPos := make([][3]*trackedPos, len(cu.Exceptions))
	for i, r := range cu.Exceptions {
		excPos[i] = [3]*trackedPos{{value: r.Start}, {value: r.End}, {value: r.Handler}}
		positions = append(positions, excPos[i][0], excPos[i][1], excPos[i][2])
	}

	patch = growFixpoint(patch, jumps, positions)

	for _, j := range jumps {
		copy(patch[j.offset:j.offset+j.length], j.code())
	}

	for i, s := range created {
		s.Offset = sitePos[i].value
		s.Probe.SetImmediate(patch, s.Offset)
	}

	newLines := make([]host.LineEntry, 0, len(lineBounds))
	for _, l := range lineBounds {
		if l.start.value == l.end.value {
			continue
		}
		newLines = append(newLines, host.LineEntry{Start: l.start.value, End: l.end.value, Line: l.line})
	}

	newExceptions := make([]host.ExceptionRegion, len(cu.Exceptions))
	for i := range cu.Exceptions {
		newExceptions[i] = host.ExceptionRegion{
			Start:   excPos[i][0].value,
			End:     excPos[i][1].value,
			Handler: excPos[i][2].value,
		}
	}

	out := &host.CodeUnit{
		Name:       cu.Name,
		Filename:   cu.Filename,
		Code:       patch,
		Lines:      newLines,
		Consts:     consts,
		Exceptions: newExceptions,
		NumLocals:  cu.NumLocals,
		StackSize:  cu.StackSize + 3, // cost of a 1-arg CALL, per spec.md 4.B step 5
		FreeVars:   append([]string(nil), cu.FreeVars...),
		Inner:      append([]*host.CodeUnit(nil), cu.Inner...),
	}
	return out, created, nil
}

// Deinstrument returns a CodeUnit in which every site whose Key is in
// remove has its leading NOP turned into an unconditional forward jump
// spanning the rest of its insert. No bytes are deleted or added: sizes
// are preserved (spec.md 4.B contract), which is exactly what keeps every
// jump target and line-table entry valid without recomputation.
//
// Idempotent per P5: re-deinstrumenting a site whose byte is already the
// forward-jump opcode is a no-op, and if nothing in cu changes the
// original cu is returned byte-for-byte (same pointer).
func Deinstrument(cu *host.CodeUnit, sites []*Site, remove map[probe.Key]bool) *host.CodeUnit {
	changed := false
	for _, s := range sites {
		if remove[s.Key] && cu.Code[s.Offset] == byte(host.OpNop) {
			changed = true
			break
		}
	}
	if !changed {
		return cu
	}

	out := cu.Clone()
	for _, s := range sites {
		if !remove[s.Key] {
			continue
		}
		if out.Code[s.Offset] == byte(host.OpNop) {
			out.Code[s.Offset] = byte(host.OpJumpForward)
			out.Code[s.Offset+1] = byte(probeInsertLen - 2)
		}
	}
	return out
}
