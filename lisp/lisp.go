// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"math"
)

// LType is the type of an LVal
type LType uint

// Possible LType values
const (
	// LInvalid (0) is not a valid lisp type.
	LInvalid LType = iota
	// LInt values are signed 64-bit integers.
	LInt
	// LFloat values are 64-bit floating point numbers.
	LFloat
	// LBool values are true or false.
	LBool
	// LSymbol values are unevaluated names.
	LSymbol
	// LString values are immutable text.
	LString
	// LError values carry an error message and condition.
	LError
	// LSExpr values are lists which are reduced when evaluated.
	LSExpr
	// LQExpr values are quoted lists which evaluate to themselves.
	LQExpr
	// LFun values are primitives or closures.
	LFun
)

var lTypeStrings = []string{
	LInvalid: "INVALID",
	LInt:     "Integer",
	LFloat:   "Real",
	LBool:    "Boolean",
	LSymbol:  "Symbol",
	LString:  "String",
	LError:   "Error",
	LSExpr:   "S-Expression",
	LQExpr:   "Q-Expression",
	LFun:     "Function",
}

func (t LType) String() string {
	if int(t) >= len(lTypeStrings) {
		return lTypeStrings[LInvalid]
	}
	return lTypeStrings[t]
}

// VarArgSymbol is the formal marker which binds all remaining arguments as
// a single Q-Expression.
const VarArgSymbol = "&"

// LVal is a lisp value
type LVal struct {
	Type LType

	// Int holds an LInt value.
	Int int64

	// Float holds an LFloat value.
	Float float64

	// Bool holds an LBool value.
	Bool bool

	// Str holds the name of an LSymbol, the contents of an LString and the
	// message of an LError.
	Str string

	// Cells holds the elements of an LSExpr or LQExpr.  A closure stores its
	// formals in Cells[0] and its body in Cells[1].
	Cells []*LVal

	// Native holds the *LFunData of an LFun and the condition of an
	// LError.
	Native interface{}
}

// LBuiltin is a primitive function.  A builtin owns args and returns one
// value or an error.
type LBuiltin func(env *LEnv, args *LVal) (*LVal, error)

// LFunData is the implementation of an LFun.  Exactly one of Builtin and Env
// is non-nil.
type LFunData struct {
	// Name is the stable identity of a primitive.
	Name string
	// Builtin implements a primitive.
	Builtin LBuiltin
	// Env is the capture environment of a closure.
	Env *LEnv
}

// Int returns an LVal representing the number x.
func Int(x int64) *LVal {
	return &LVal{Type: LInt, Int: x}
}

// Float returns an LVal representing the number x.
func Float(x float64) *LVal {
	return &LVal{Type: LFloat, Float: x}
}

// Bool returns an LVal representing b.
func Bool(b bool) *LVal {
	return &LVal{Type: LBool, Bool: b}
}

// Symbol returns an LVal representing the symbol s.
func Symbol(s string) *LVal {
	return &LVal{Type: LSymbol, Str: s}
}

// String returns an LVal representing the string str.
func String(str string) *LVal {
	return &LVal{Type: LString, Str: str}
}

// SExpr returns an LVal representing an S-expression, a symbolic expression.
func SExpr(cells []*LVal) *LVal {
	return &LVal{Type: LSExpr, Cells: cells}
}

// QExpr returns an LVal representing a quoted expression.
func QExpr(cells []*LVal) *LVal {
	return &LVal{Type: LQExpr, Cells: cells}
}

// Nil returns an empty S-expression.
func Nil() *LVal {
	return SExpr(nil)
}

// Fun returns a primitive function identified by name.
func Fun(name string, fn LBuiltin) *LVal {
	return &LVal{
		Type:   LFun,
		Native: &LFunData{Name: name, Builtin: fn},
	}
}

// Lambda returns a closure with the given formals and body and an empty
// capture environment belonging to runtime.
func Lambda(runtime *Runtime, formals, body *LVal) *LVal {
	return &LVal{
		Type:   LFun,
		Cells:  []*LVal{formals, body},
		Native: &LFunData{Env: newScope(runtime)},
	}
}

// FunData returns the implementation of an LFun.  FunData returns nil for
// any other type.
func (v *LVal) FunData() *LFunData {
	if v.Type != LFun {
		return nil
	}
	fd, _ := v.Native.(*LFunData)
	return fd
}

// IsBuiltin reports whether v is a primitive function.
func (v *LVal) IsBuiltin() bool {
	fd := v.FunData()
	return fd != nil && fd.Builtin != nil
}

// Formals returns the unbound formal arguments of a closure.
func (v *LVal) Formals() *LVal {
	if v.Type != LFun || len(v.Cells) < 2 {
		return nil
	}
	return v.Cells[0]
}

// Body returns the body of a closure.
func (v *LVal) Body() *LVal {
	if v.Type != LFun || len(v.Cells) < 2 {
		return nil
	}
	return v.Cells[1]
}

// IsNil returns true if v is an empty S-expression.
func (v *LVal) IsNil() bool {
	return v.Type == LSExpr && len(v.Cells) == 0
}

// IsNumeric returns true if v has a numeric type.
func (v *LVal) IsNumeric() bool {
	return v.Type == LInt || v.Type == LFloat
}

// IsList returns true if v is an S-expression or a Q-expression.
func (v *LVal) IsList() bool {
	return v.Type == LSExpr || v.Type == LQExpr
}

// Len returns the number of cells in a list.
func (v *LVal) Len() int {
	return len(v.Cells)
}

// True reports the truthiness of v.  Numbers are false iff zero and lists are
// false iff empty.  Booleans are their own truth value.  Everything else is
// true.
func (v *LVal) True() bool {
	switch v.Type {
	case LInt:
		return v.Int != 0
	case LFloat:
		return v.Float != 0
	case LBool:
		return v.Bool
	case LSExpr, LQExpr:
		return len(v.Cells) != 0
	default:
		return true
	}
}

// Copy returns a deep copy of v.  Primitive functions share their
// implementation.  Closures receive a copy of their capture environment.
func (v *LVal) Copy() *LVal {
	if v == nil {
		return nil
	}
	cp := *v
	if v.Cells != nil {
		cp.Cells = copyCells(v.Cells)
	}
	if fd := v.FunData(); fd != nil && fd.Env != nil {
		cp.Native = &LFunData{
			Name: fd.Name,
			Env:  fd.Env.Copy(),
		}
	}
	return &cp
}

func copyCells(cells []*LVal) []*LVal {
	cp := make([]*LVal, len(cells))
	for i := range cells {
		cp[i] = cells[i].Copy()
	}
	return cp
}

// Equal returns true if v and other are structurally equal.  Values of
// different types are never equal.  Functions are equal when they are the
// same primitive or closures with equal formals and body.
func (v *LVal) Equal(other *LVal) bool {
	if v.Type != other.Type {
		return false
	}
	switch v.Type {
	case LInt:
		return v.Int == other.Int
	case LFloat:
		return v.Float == other.Float || math.IsNaN(v.Float) && math.IsNaN(other.Float)
	case LBool:
		return v.Bool == other.Bool
	case LSymbol, LString, LError:
		return v.Str == other.Str
	case LSExpr, LQExpr:
		return cellsEqual(v.Cells, other.Cells)
	case LFun:
		a, b := v.FunData(), other.FunData()
		if a.Builtin != nil || b.Builtin != nil {
			return a.Builtin != nil && b.Builtin != nil && a.Name == b.Name
		}
		return cellsEqual(v.Cells, other.Cells)
	}
	return false
}

func cellsEqual(a, b []*LVal) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// pop removes and returns the cell at index i.  The caller takes ownership
// of the returned value.
func (v *LVal) pop(i int) *LVal {
	c := v.Cells[i]
	copy(v.Cells[i:], v.Cells[i+1:])
	v.Cells[len(v.Cells)-1] = nil
	v.Cells = v.Cells[:len(v.Cells)-1]
	return c
}

// take removes and returns the cell at index i and releases the remaining
// cells of v.
func (v *LVal) take(i int) *LVal {
	c := v.Cells[i]
	v.Cells = nil
	return c
}

// String returns the literal form of v.
func (v *LVal) String() string {
	var buf bytes.Buffer
	writeLiteral(&buf, v)
	return buf.String()
}

// Display returns the form of v written by print.  Strings are not quoted
// and empty lists are blank.
func (v *LVal) Display() string {
	var buf bytes.Buffer
	writeDisplay(&buf, v)
	return buf.String()
}
