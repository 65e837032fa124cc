package host

import (
	"fmt"
	"sync"

	"github.com/petermattis/goid"
)

// Frame is one activation of a CodeUnit: its program counter, its locals,
// and its operand stack. Frame.Code is exactly the pointer the replacer
// must consider swapping (spec.md 4.F item 5) — and exactly the pointer it
// must never touch while the frame is the active top frame of a goroutine
// (spec.md I6).
type Frame struct {
	Code   *CodeUnit
	PC     int
	Locals []Value
	Stack  []Value
}

func newFrame(cu *CodeUnit, args []Value) *Frame {
	f := &Frame{Code: cu, Locals: make([]Value, cu.NumLocals)}
	copy(f.Locals, args)
	return f
}

func (f *Frame) push(v Value) { f.Stack = append(f.Stack, v) }
func (f *Frame) pop() Value {
	n := len(f.Stack)
	v := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return v
}
func (f *Frame) peek() Value { return f.Stack[len(f.Stack)-1] }

// VM is the reference host interpreter. It serializes all bytecode
// execution behind a single mutex, modeling spec.md §5's "the host
// serializes bytecode execution with a single global execution lock" —
// every instruction step, every probe firing reachable from a CALL, and
// every caller of Lock/Unlock (the replacer, when swapping live
// CodeUnits) run under the same lock.
type VM struct {
	mu      sync.Mutex
	Globals map[string]Value
	active  map[int64]*Frame // goroutine id -> its current top frame

	// monitors/monitorOff back the structured monitoring backend
	// (spec.md 4.E, see monitor.go); nil until SetMonitor is first called,
	// so a process that never uses that backend pays nothing for it.
	monitors  map[*CodeUnit]Monitor
	monitorOff map[*CodeUnit]map[monitorKey]bool
}

// NewVM returns an empty VM with an initialized module namespace.
func NewVM() *VM {
	return &VM{
		Globals: map[string]Value{},
		active:  map[int64]*Frame{},
	}
}

// Lock/Unlock expose the host's execution lock to external collaborators
// that must run "under the lock" per spec.md §5, namely the replacer while
// it swaps live CodeUnit references.
func (vm *VM) Lock()   { vm.mu.Lock() }
func (vm *VM) Unlock() { vm.mu.Unlock() }

// IsFrameActive reports whether cu is the Code of any goroutine's current
// top frame. The caller must already hold the VM's lock (via Lock) so the
// check and any subsequent swap are atomic — otherwise a frame could
// become active between the check and the write, violating I6.
func (vm *VM) IsFrameActive(cu *CodeUnit) bool {
	for _, f := range vm.active {
		if f != nil && f.Code == cu {
			return true
		}
	}
	return false
}

// Run executes cu to completion (or to the first unhandled error) as a new
// top-level frame on the calling goroutine.
func (vm *VM) Run(cu *CodeUnit, args []Value) (Value, error) {
	f := newFrame(cu, args)
	return vm.drive(f)
}

// Generator is a suspended frame: a dormant CodeUnit reference the
// replacer is free to swap (I6) because it is not any goroutine's active
// top frame while suspended.
type Generator struct {
	frame *Frame
	done  bool
}

// NewGenerator creates a generator frame without running it.
func (vm *VM) NewGenerator(cu *CodeUnit, args []Value) *Generator {
	return &Generator{frame: newFrame(cu, args)}
}

// Resume runs a generator from where it last yielded (or from the start)
// until it yields again or returns. The frame is marked active only for
// the duration of this call.
func (vm *VM) Resume(g *Generator) (value Value, yielded bool, err error) {
	if g.done {
		return nil, false, fmt.Errorf("host: generator already finished")
	}
	v, halted, err := vm.driveOne(g.frame)
	if err != nil {
		g.done = true
		return nil, false, err
	}
	if halted {
		g.done = true
		return v, false, nil
	}
	return v, true, nil
}

// Code exposes the generator's currently-referenced CodeUnit, the pointer
// the replacer walks and may swap while the generator is dormant.
func (g *Generator) Code() *CodeUnit { return g.frame.Code }

// SetCode installs a new CodeUnit for a dormant generator frame (called by
// the replacer). The byte offset (PC) is preserved verbatim: this is only
// safe because de-instrument never changes any byte's offset (spec.md P2),
// so the old PC still lands on the same logical instruction in the new
// CodeUnit.
func (g *Generator) SetCode(cu *CodeUnit) { g.frame.Code = cu }

func (vm *VM) drive(f *Frame) (Value, error) {
	for {
		v, halted, err := vm.driveOne(f)
		if err != nil {
			return nil, err
		}
		if halted {
			return v, nil
		}
	}
}

// driveOne executes instructions until the frame halts (OpReturn), yields
// (OpYield), or errors, stepping one instruction at a time under the GIL so
// other goroutines may interleave between steps (this is what makes S6 —
// two concurrent first-signals racing — observable in tests). f is tagged
// as the calling goroutine's active frame for the whole call, including the
// gaps between steps, so a lock holder checking IsFrameActive sees it.
func (vm *VM) driveOne(f *Frame) (value Value, halted bool, err error) {
	gid := goid.Get()
	vm.mu.Lock()
	vm.active[gid] = f
	vm.mu.Unlock()
	defer func() {
		vm.mu.Lock()
		delete(vm.active, gid)
		vm.mu.Unlock()
	}()
	for {
		vm.mu.Lock()
		v, ctl, stepErr := vm.step(f)
		vm.mu.Unlock()

		if stepErr != nil {
			return nil, false, stepErr
		}
		switch ctl {
		case ctlReturn:
			return v, true, nil
		case ctlYield:
			return v, false, nil
		case ctlNone:
			continue
		}
	}
}

type control int

const (
	ctlNone control = iota
	ctlReturn
	ctlYield
)

// step executes exactly one instruction of f, including handling any
// exception region lookup triggered by OpRaise. Callers must hold vm.mu.
func (vm *VM) step(f *Frame) (Value, control, error) {
	if vm.monitors != nil {
		vm.fireStart(f)
		vm.fireLine(f, f.PC)
	}

	instrOff := f.PC
	op, arg, next, ok := DecodeOne(f.Code.Code, f.PC)
	if !ok {
		return nil, ctlNone, fmt.Errorf("host: pc %d is not an instruction boundary in %q", f.PC, f.Code.Name)
	}
	f.PC = next

	switch op {
	case OpNop:
		// no-op; also the byte a removed probe's jump replaces.
	case OpLoadConst:
		f.push(f.Code.Consts[arg])
	case OpLoadLocal:
		f.push(f.Locals[arg])
	case OpStoreLocal:
		f.Locals[arg] = f.pop()
	case OpLoadGlobal:
		name := f.Code.Consts[arg].(string)
		f.push(vm.Globals[name])
	case OpStoreGlobal:
		name := f.Code.Consts[arg].(string)
		vm.Globals[name] = f.pop()
	case OpPop:
		f.pop()
	case OpDup:
		f.push(f.peek())
	case OpAdd, OpSub, OpMul, OpDiv:
		b := asInt(f.pop())
		a := asInt(f.pop())
		switch op {
		case OpAdd:
			f.push(a + b)
		case OpSub:
			f.push(a - b)
		case OpMul:
			f.push(a * b)
		case OpDiv:
			if b == 0 {
				return nil, ctlNone, fmt.Errorf("host: division by zero")
			}
			f.push(a / b)
		}
	case OpCmpLT, OpCmpLE, OpCmpGT, OpCmpGE, OpCmpEQ, OpCmpNE:
		b := asInt(f.pop())
		a := asInt(f.pop())
		var r bool
		switch op {
		case OpCmpLT:
			r = a < b
		case OpCmpLE:
			r = a <= b
		case OpCmpGT:
			r = a > b
		case OpCmpGE:
			r = a >= b
		case OpCmpEQ:
			r = a == b
		case OpCmpNE:
			r = a != b
		}
		f.push(r)
	case OpNeg:
		f.push(-asInt(f.pop()))
	case OpNot:
		f.push(!asBool(f.pop()))
	case OpJump:
		f.PC = int(arg)
	case OpJumpIfFalse:
		taken := !asBool(f.pop())
		if taken {
			f.PC = int(arg)
		}
		if vm.monitors != nil {
			vm.fireBranch(f, instrOff, f.PC, taken)
		}
	case OpJumpIfFalseOrPop:
		taken := !asBool(f.peek())
		if taken {
			f.PC = int(arg)
		} else {
			f.pop()
		}
		if vm.monitors != nil {
			vm.fireBranch(f, instrOff, f.PC, taken)
		}
	case OpJumpIfTrueOrPop:
		taken := asBool(f.peek())
		if taken {
			f.PC = int(arg)
		} else {
			f.pop()
		}
		if vm.monitors != nil {
			vm.fireBranch(f, instrOff, f.PC, taken)
		}
	case OpJumpForward:
		f.PC = next + int(arg)
	case OpCall:
		argc := int(arg)
		args := make([]Value, argc)
		for i := argc - 1; i >= 0; i-- {
			args[i] = f.pop()
		}
		callee := f.pop()
		nf, isNative := callee.(NativeFunc)
		if !isNative {
			return nil, ctlNone, fmt.Errorf("host: call target is not a NativeFunc: %T", callee)
		}
		f.push(nf(vm, args))
	case OpMakeTuple:
		n := int(arg)
		elems := make([]Value, n)
		for i := n - 1; i >= 0; i-- {
			elems[i] = f.pop()
		}
		f.push(Tuple{Elems: elems})
	case OpReturn:
		var v Value
		if len(f.Stack) > 0 {
			v = f.pop()
		}
		return v, ctlReturn, nil
	case OpYield:
		v := f.pop()
		return v, ctlYield, nil
	case OpRaise:
		reason := f.pop()
		if handler, ok := f.Code.HandlerAt(f.PC - InstrWidth); ok {
			f.PC = handler
			f.push(reason)
			return nil, ctlNone, nil
		}
		return nil, ctlNone, fmt.Errorf("host: unhandled raise: %v", reason)
	default:
		return nil, ctlNone, fmt.Errorf("host: unknown opcode %v at pc %d", op, f.PC-InstrWidth)
	}
	return nil, ctlNone, nil
}

func asInt(v Value) int {
	switch n := v.(type) {
	case int:
		return n
	default:
		return 0
	}
}

func asBool(v Value) bool {
	switch b := v.(type) {
	case bool:
		return b
	case int:
		return b != 0
	default:
		return v != nil
	}
}
