// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/mlisp/parser/ast"
)

// InitializeUserEnv installs the builtin library into env and applies config
// to it.  The first LError returned by a Config is returned.
func InitializeUserEnv(env *LEnv, config ...Config) *LVal {
	env.AddBuiltins()
	for _, fn := range config {
		lerr := fn(env)
		if lerr.Type == LError {
			return lerr
		}
	}
	return Nil()
}

// LEnv is a lisp environment.
type LEnv struct {
	Scope   map[string]*LVal
	Parent  *LEnv
	Runtime *Runtime
	order   []string
}

// Binding is a symbol bound in an LEnv.
type Binding struct {
	Name  string
	Value *LVal
}

// NewEnvRuntime initializes a new root LEnv for rt.  When rt is nil
// StandardRuntime() called to create a new Runtime for the returned LEnv.
func NewEnvRuntime(rt *Runtime) *LEnv {
	if rt == nil {
		rt = StandardRuntime()
	}
	env := newScope(rt)
	rt.Root = env
	return env
}

// NewEnv returns initializes and returns a new LEnv.  A nil parent creates a
// root environment with a new Runtime.
func NewEnv(parent *LEnv) *LEnv {
	if parent == nil {
		return NewEnvRuntime(nil)
	}
	env := newScope(parent.Runtime)
	env.Parent = parent
	return env
}

// newScope returns an environment with no parent which shares rt.  Closure
// capture environments are created this way.
func newScope(rt *Runtime) *LEnv {
	return &LEnv{
		Scope:   make(map[string]*LVal),
		Runtime: rt,
	}
}

// Root returns the global environment of env's runtime.
func (env *LEnv) Root() *LEnv {
	if env.Runtime != nil && env.Runtime.Root != nil {
		return env.Runtime.Root
	}
	root := env
	for root.Parent != nil {
		root = root.Parent
	}
	return root
}

// Copy returns a new LEnv with a deep copy of env's bindings and the same
// parent.
func (env *LEnv) Copy() *LEnv {
	if env == nil {
		return nil
	}
	cp := &LEnv{
		Scope:   make(map[string]*LVal, len(env.Scope)),
		Parent:  env.Parent,
		Runtime: env.Runtime,
		order:   make([]string, len(env.order)),
	}
	copy(cp.order, env.order)
	for k, v := range env.Scope {
		cp.Scope[k] = v.Copy()
	}
	return cp
}

// Get returns a copy of the value bound to name in env or its ancestors.  If
// name is not bound an LError is returned.
func (env *LEnv) Get(name string) *LVal {
	return fold(env.get(name))
}

func (env *LEnv) get(name string) (*LVal, error) {
	for e := env; e != nil; e = e.Parent {
		if v, ok := e.Scope[name]; ok {
			return v.Copy(), nil
		}
	}
	return nil, errorf(CondUnboundSymbol, "Unbound symbol '%s'", name)
}

// Put binds name to a copy of v in env, overwriting any existing binding in
// env.  Ancestors are not modified.
func (env *LEnv) Put(name string, v *LVal) {
	env.put(name, v.Copy())
}

// put binds name to v, which the caller no longer owns.
func (env *LEnv) put(name string, v *LVal) {
	if _, ok := env.Scope[name]; !ok {
		env.order = append(env.order, name)
	}
	env.Scope[name] = v
}

// Def binds name to a copy of v in the global environment.
func (env *LEnv) Def(name string, v *LVal) {
	root := env.Root()
	root.Put(name, v)
	env.Runtime.Logger.V(2).Info("global definition", "symbol", name, "type", v.Type.String())
}

// Bindings returns the symbols bound directly in env, in the order they were
// first bound.
func (env *LEnv) Bindings() []Binding {
	b := make([]Binding, 0, len(env.order))
	for _, name := range env.order {
		b = append(b, Binding{Name: name, Value: env.Scope[name]})
	}
	return b
}

// LoadString evaluates the statements in exprs.
func (env *LEnv) LoadString(name, exprs string) *LVal {
	return env.Load(name, strings.NewReader(exprs))
}

// LoadFile reads the file at path and evaluates the statements it contains.
func (env *LEnv) LoadFile(path string) *LVal {
	f, err := os.Open(path) //#nosec G304
	if err != nil {
		return ErrorConditionf(CondLoadError, "Could not load file: %v", err)
	}
	defer f.Close()
	env.Runtime.Logger.V(1).Info("loading file", "path", path)
	return env.Load(path, f)
}

// Load reads statements from r and evaluates them in order.  Evaluation stops
// at the first statement that produces an error, which is returned.
// Otherwise the value of the last statement is returned.  If
// env.Runtime.Reader has not been set then an error will be returned by Load.
func (env *LEnv) Load(name string, r io.Reader) *LVal {
	if env.Runtime.Reader == nil {
		return ErrorConditionf(CondLoadError, "no reader for environment runtime")
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return ErrorConditionf(CondLoadError, "%v", err)
	}
	ret := Nil()
	for _, expr := range exprs {
		ret = env.Eval(expr)
		if ret.Type == LError {
			return ret
		}
	}
	return ret
}

// Eval evaluates v in env at the top level.  A single value in a top level
// S-expression evaluates to itself.  Errors are returned as LError values.
func (env *LEnv) Eval(v *LVal) *LVal {
	return fold(env.eval(v, 0))
}

// EvalNode reads the syntax tree n and evaluates it in env.
func (env *LEnv) EvalNode(n *ast.Node) *LVal {
	return env.Eval(Read(n))
}

func (env *LEnv) eval(v *LVal, depth int) (*LVal, error) {
	switch v.Type {
	case LSymbol:
		return env.get(v.Str)
	case LSExpr:
		return env.evalSExpr(v, depth+1)
	case LError:
		return nil, (*ErrorVal)(v)
	default:
		return v, nil
	}
}

func (env *LEnv) evalSExpr(s *LVal, depth int) (*LVal, error) {
	for i, c := range s.Cells {
		v, err := env.eval(c, depth+1)
		if err != nil {
			return nil, err
		}
		s.Cells[i] = v
	}
	if len(s.Cells) == 0 {
		return s, nil
	}
	if len(s.Cells) == 1 && depth == 1 {
		return s.take(0), nil
	}
	fun := s.pop(0)
	if fun.Type != LFun {
		return nil, errorf(CondNotAFunction, "s-expr does not start with function")
	}
	return env.call(fun, s)
}

// FunCall applies fun to the values in args.  The elements of args are not
// evaluated.
func (env *LEnv) FunCall(fun *LVal, args *LVal) *LVal {
	if fun.Type != LFun {
		return ErrorConditionf(CondNotAFunction, "s-expr does not start with function")
	}
	return fold(env.call(fun.Copy(), SExpr(copyCells(args.Cells))))
}

// call applies fun to args.  Both values are owned by call.
func (env *LEnv) call(fun *LVal, args *LVal) (*LVal, error) {
	defer env.trace(fun)()
	fd := fun.FunData()
	if fd.Builtin != nil {
		return fd.Builtin(env, args)
	}
	partial, err := bind(fun, args)
	if err != nil {
		return nil, err
	}
	if partial {
		return fun.Copy(), nil
	}
	if err := env.Runtime.enter(); err != nil {
		return nil, err
	}
	defer env.Runtime.exit()
	fd.Env.Parent = env
	body := fun.Body().Copy()
	body.Type = LSExpr
	return fd.Env.eval(body, 0)
}

// bind consumes formals of the closure fun, binding them in its capture
// environment to the values in args.  bind returns true if formals remain
// unbound after args are exhausted.
func bind(fun *LVal, args *LVal) (partial bool, err error) {
	env := fun.FunData().Env
	formals := fun.Formals()
	given, total := len(args.Cells), len(formals.Cells)
	for len(args.Cells) > 0 {
		if len(formals.Cells) == 0 {
			return false, errorf(CondArityError,
				"Function passed too many arguments. Got %d, expected %d.", given, total)
		}
		sym := formals.pop(0)
		if sym.Str == VarArgSymbol {
			if len(formals.Cells) != 1 {
				return false, errVarArgFormat()
			}
			rest := formals.pop(0)
			env.put(rest.Str, QExpr(args.Cells))
			args.Cells = nil
			break
		}
		env.put(sym.Str, args.pop(0))
	}
	if len(formals.Cells) > 0 && formals.Cells[0].Str == VarArgSymbol {
		if len(formals.Cells) != 2 {
			return false, errVarArgFormat()
		}
		formals.pop(0)
		rest := formals.pop(0)
		env.put(rest.Str, QExpr(nil))
	}
	return len(formals.Cells) > 0, nil
}

func errVarArgFormat() error {
	return errorf(CondBadFormals, "Function format invalid. Symbol '%s' not followed by single symbol.", VarArgSymbol)
}

func (env *LEnv) String() string {
	var b strings.Builder
	for _, binding := range env.Bindings() {
		fmt.Fprintf(&b, "%s = %v\n", binding.Name, binding.Value)
	}
	return b.String()
}
