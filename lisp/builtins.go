// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
	"strings"
)

// LBuiltinDef is a built-in function
type LBuiltinDef interface {
	Name() string
	Formals() *LVal
	Docstring() string
	Eval(env *LEnv, args *LVal) (*LVal, error)
}

type langBuiltin struct {
	name    string
	formals *LVal
	fun     LBuiltin
	docs    string
}

func (fun *langBuiltin) Name() string {
	return fun.name
}

func (fun *langBuiltin) Formals() *LVal {
	return fun.formals
}

func (fun *langBuiltin) Docstring() string {
	return cleanDocstring(fun.docs)
}

func (fun *langBuiltin) Eval(env *LEnv, args *LVal) (*LVal, error) {
	return fun.fun(env, args)
}

// Formals returns a Q-expression of the symbols in argSymbols.
func Formals(argSymbols ...string) *LVal {
	cells := make([]*LVal, len(argSymbols))
	for i, sym := range argSymbols {
		cells[i] = Symbol(sym)
	}
	return QExpr(cells)
}

var langBuiltins = []*langBuiltin{
	{"list", Formals(VarArgSymbol, "args"), builtinList,
		`Returns its arguments as a Q-expression.`},
	{"head", Formals("lis"), builtinHead,
		`Returns a Q-expression containing only the first element of lis.
		Lis must not be empty.`},
	{"tail", Formals("lis"), builtinTail,
		`Returns lis without its first element. Lis must not be empty.`},
	{"eval", Formals("expr"), builtinEval,
		`Evaluates the Q-expression expr as an S-expression at the top
		level. A single element evaluates to itself.`},
	{"join", Formals(VarArgSymbol, "lists"), builtinJoin,
		`Returns the concatenation of Q-expressions, preserving order.`},
	{"cons", Formals("lis", "value"), builtinCons,
		`Returns lis with value prepended.`},
	{"len", Formals("lis"), builtinLen,
		`Returns the number of elements in lis as an Integer.`},
	{"init", Formals("lis"), builtinInit,
		`Returns lis without its last element. Lis must not be empty.`},
	{"lambda", Formals("formals", "body"), builtinLambda,
		`Returns a function. Formals is a Q-expression of symbols which
		may end with & followed by a single symbol bound to the
		remaining arguments. Body is a Q-expression evaluated when all
		formals are bound. Applying fewer arguments than formals returns
		a function awaiting the rest.`},
	{"def", Formals("symbols", VarArgSymbol, "values"), builtinDef,
		`Binds each symbol in the Q-expression symbols to the
		corresponding value in the global environment.`},
	{"=", Formals("symbols", VarArgSymbol, "values"), builtinPut,
		`Binds each symbol in the Q-expression symbols to the
		corresponding value in the current environment only.`},
	{"if", Formals("condition", "then", "else"), builtinIf,
		`Evaluates the Q-expression then when the Boolean condition is
		true and the Q-expression else otherwise. The other branch is
		never evaluated.`},
	{"and", Formals("a", "b", VarArgSymbol, "rest"), builtinAnd,
		`Returns false if any argument is false, otherwise returns the
		last argument.`},
	{"or", Formals("a", "b", VarArgSymbol, "rest"), builtinOr,
		`Returns the first true argument, otherwise returns false.`},
	{"not", Formals("expr"), builtinNot,
		`Returns true if expr is false and false otherwise. Zero and
		empty lists are false.`},
	{"==", Formals("a", "b", VarArgSymbol, "rest"), builtinEq,
		`Returns true if each argument is structurally equal to the one
		preceding it.`},
	{"!=", Formals("a", "b", VarArgSymbol, "rest"), builtinNEq,
		`Returns true if no two arguments are structurally equal.`},
	{">", Formals("a", "b", VarArgSymbol, "rest"), builtinGT,
		`Returns true if each number is greater than the one following it.`},
	{"<", Formals("a", "b", VarArgSymbol, "rest"), builtinLT,
		`Returns true if each number is less than the one following it.`},
	{">=", Formals("a", "b", VarArgSymbol, "rest"), builtinGEq,
		`Returns true if each number is greater than or equal to the one
		following it.`},
	{"<=", Formals("a", "b", VarArgSymbol, "rest"), builtinLEq,
		`Returns true if each number is less than or equal to the one
		following it.`},
	{"+", Formals(VarArgSymbol, "x"), builtinAdd,
		`Returns the sum of its arguments.`},
	{"-", Formals(VarArgSymbol, "x"), builtinSub,
		`Returns the first argument minus the others. A single argument
		is negated.`},
	{"*", Formals(VarArgSymbol, "x"), builtinMul,
		`Returns the product of its arguments.`},
	{"/", Formals(VarArgSymbol, "x"), builtinDiv,
		`Returns the first argument divided by the others. Integer
		division truncates. Division by zero is an error.`},
	{"%", Formals(VarArgSymbol, "x"), builtinMod,
		`Returns the remainder of dividing the first argument by the
		others. Reals use fmod semantics. Division by zero is an error.`},
	{"^", Formals(VarArgSymbol, "x"), builtinPow,
		`Raises the first argument to the power of the others. Integer
		powers are computed in floating point and truncated.`},
	{"min", Formals(VarArgSymbol, "x"), builtinMin,
		`Returns the least of its arguments.`},
	{"max", Formals(VarArgSymbol, "x"), builtinMax,
		`Returns the greatest of its arguments.`},
	{"inc", Formals("x"), builtinInc,
		`Returns x plus one.`},
	{"dec", Formals("x"), builtinDec,
		`Returns x minus one.`},
	{"stable", Formals(), builtinSTable,
		`Returns a Q-expression of alternating symbols and values bound
		in the current environment, excluding its ancestors.`},
	{"print", Formals(VarArgSymbol, "values"), builtinPrint,
		`Writes values to standard output without separators. Strings
		are written without quotes and empty lists are not written.`},
	{"println", Formals(VarArgSymbol, "values"), builtinPrintln,
		`Like print but writes a trailing newline.`},
	{"error", Formals("message"), builtinError,
		`Returns an error carrying the String message.`},
}

// DefaultBuiltins returns the default set of LBuiltinDefs added to LEnv
// objects when LEnv.AddBuiltins is called without arguments.
func DefaultBuiltins() []LBuiltinDef {
	defs := make([]LBuiltinDef, len(langBuiltins))
	for i := range langBuiltins {
		defs[i] = langBuiltins[i]
	}
	return defs
}

// AddBuiltins binds the given builtins in env.  When called without
// arguments AddBuiltins adds the DefaultBuiltins to env.
func (env *LEnv) AddBuiltins(funs ...LBuiltinDef) {
	if len(funs) == 0 {
		funs = DefaultBuiltins()
	}
	for _, f := range funs {
		env.put(f.Name(), Fun(f.Name(), f.Eval))
	}
}

func cleanDocstring(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, " ")
}

func checkArity(name string, args *LVal, n int) error {
	if len(args.Cells) != n {
		return errorf(CondArityError,
			"Function '%s' passed invalid number of arguments. Got %d, expected %d",
			name, len(args.Cells), n)
	}
	return nil
}

func checkMinArity(name string, args *LVal, n int) error {
	if len(args.Cells) < n {
		return errorf(CondArityError, "Function '%s' passed in < %d arguments", name, n)
	}
	return nil
}

func checkType(name string, v *LVal, typ LType) error {
	if v.Type != typ {
		return errorf(CondTypeError,
			"Function '%s' passed incorrect type. Got %s, Expected %s.", name, v.Type, typ)
	}
	return nil
}

func checkNotEmpty(name string, v *LVal) error {
	if len(v.Cells) == 0 {
		return errorf(CondEmptyList, "Function '%s' passed {}.", name)
	}
	return nil
}

// checkList checks that args holds exactly one Q-expression, which is
// returned.
func checkList(name string, args *LVal, nonEmpty bool) (*LVal, error) {
	if err := checkArity(name, args, 1); err != nil {
		return nil, err
	}
	lis := args.Cells[0]
	if err := checkType(name, lis, LQExpr); err != nil {
		return nil, err
	}
	if nonEmpty {
		if err := checkNotEmpty(name, lis); err != nil {
			return nil, err
		}
	}
	return args.take(0), nil
}

func builtinList(env *LEnv, args *LVal) (*LVal, error) {
	args.Type = LQExpr
	return args, nil
}

func builtinHead(env *LEnv, args *LVal) (*LVal, error) {
	lis, err := checkList("head", args, true)
	if err != nil {
		return nil, err
	}
	lis.Cells = lis.Cells[:1]
	return lis, nil
}

func builtinTail(env *LEnv, args *LVal) (*LVal, error) {
	lis, err := checkList("tail", args, true)
	if err != nil {
		return nil, err
	}
	lis.pop(0)
	return lis, nil
}

func builtinInit(env *LEnv, args *LVal) (*LVal, error) {
	lis, err := checkList("init", args, true)
	if err != nil {
		return nil, err
	}
	lis.pop(len(lis.Cells) - 1)
	return lis, nil
}

func builtinLen(env *LEnv, args *LVal) (*LVal, error) {
	lis, err := checkList("len", args, false)
	if err != nil {
		return nil, err
	}
	return Int(int64(len(lis.Cells))), nil
}

func builtinEval(env *LEnv, args *LVal) (*LVal, error) {
	expr, err := checkList("eval", args, false)
	if err != nil {
		return nil, err
	}
	expr.Type = LSExpr
	return env.eval(expr, 0)
}

func builtinJoin(env *LEnv, args *LVal) (*LVal, error) {
	for _, c := range args.Cells {
		if err := checkType("join", c, LQExpr); err != nil {
			return nil, err
		}
	}
	if len(args.Cells) == 0 {
		return QExpr(nil), nil
	}
	x := args.pop(0)
	for _, y := range args.Cells {
		x.Cells = append(x.Cells, y.Cells...)
	}
	return x, nil
}

func builtinCons(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkArity("cons", args, 2); err != nil {
		return nil, err
	}
	lis := args.Cells[0]
	if err := checkType("cons", lis, LQExpr); err != nil {
		return nil, err
	}
	lis.Cells = append([]*LVal{args.Cells[1]}, lis.Cells...)
	return lis, nil
}

func builtinLambda(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkArity("lambda", args, 2); err != nil {
		return nil, err
	}
	formals, body := args.Cells[0], args.Cells[1]
	if err := checkType("lambda", formals, LQExpr); err != nil {
		return nil, err
	}
	if err := checkType("lambda", body, LQExpr); err != nil {
		return nil, err
	}
	for _, sym := range formals.Cells {
		if sym.Type != LSymbol {
			return nil, errorf(CondTypeError,
				"Cannot define non-symbol. Got %s, expected %s.", sym.Type, LSymbol)
		}
	}
	return Lambda(env.Runtime, formals, body), nil
}

func builtinDef(env *LEnv, args *LVal) (*LVal, error) {
	return builtinVar(env, args, "def")
}

func builtinPut(env *LEnv, args *LVal) (*LVal, error) {
	return builtinVar(env, args, "=")
}

func builtinVar(env *LEnv, args *LVal, name string) (*LVal, error) {
	if err := checkMinArity(name, args, 1); err != nil {
		return nil, err
	}
	syms := args.Cells[0]
	if err := checkType(name, syms, LQExpr); err != nil {
		return nil, err
	}
	for _, sym := range syms.Cells {
		if sym.Type != LSymbol {
			return nil, errorf(CondTypeError,
				"Function '%s' cannot define non-symbol. Got %s, expected %s.", name, sym.Type, LSymbol)
		}
	}
	vals := args.Cells[1:]
	if len(syms.Cells) != len(vals) {
		return nil, errorf(CondArityError,
			"Function '%s' cannot define incorrect number of values to symbols. %d != %d.",
			name, len(vals), len(syms.Cells))
	}
	for i, sym := range syms.Cells {
		// Anonymous closures are labeled for profiling with the first
		// symbol they are bound to.
		if fd := vals[i].FunData(); fd != nil && fd.Builtin == nil && fd.Name == "" {
			fd.Name = sym.Str
		}
		if name == "def" {
			env.Def(sym.Str, vals[i])
		} else {
			env.put(sym.Str, vals[i])
		}
	}
	return Nil(), nil
}

func builtinIf(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkArity("if", args, 3); err != nil {
		return nil, err
	}
	for i, typ := range []LType{LBool, LQExpr, LQExpr} {
		if err := checkType("if", args.Cells[i], typ); err != nil {
			return nil, err
		}
	}
	branch := args.Cells[2]
	if args.Cells[0].Bool {
		branch = args.Cells[1]
	}
	branch.Type = LSExpr
	return env.eval(branch, 0)
}

func builtinAnd(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkMinArity("and", args, 2); err != nil {
		return nil, err
	}
	for _, c := range args.Cells {
		if !c.True() {
			return Bool(false), nil
		}
	}
	return args.Cells[len(args.Cells)-1], nil
}

func builtinOr(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkMinArity("or", args, 2); err != nil {
		return nil, err
	}
	for _, c := range args.Cells {
		if c.True() {
			return c, nil
		}
	}
	return Bool(false), nil
}

func builtinNot(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkArity("not", args, 1); err != nil {
		return nil, err
	}
	return Bool(!args.Cells[0].True()), nil
}

func builtinEq(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkMinArity("==", args, 2); err != nil {
		return nil, err
	}
	for i := 1; i < len(args.Cells); i++ {
		if !args.Cells[i-1].Equal(args.Cells[i]) {
			return Bool(false), nil
		}
	}
	return Bool(true), nil
}

func builtinNEq(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkMinArity("!=", args, 2); err != nil {
		return nil, err
	}
	for i := range args.Cells {
		for j := i + 1; j < len(args.Cells); j++ {
			if args.Cells[i].Equal(args.Cells[j]) {
				return Bool(false), nil
			}
		}
	}
	return Bool(true), nil
}

func builtinSTable(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkArity("stable", args, 0); err != nil {
		return nil, err
	}
	bindings := env.Bindings()
	table := QExpr(make([]*LVal, 0, 2*len(bindings)))
	for _, b := range bindings {
		table.Cells = append(table.Cells, Symbol(b.Name), b.Value.Copy())
	}
	return table, nil
}

func builtinPrint(env *LEnv, args *LVal) (*LVal, error) {
	if err := writeDisplayCells(env.Runtime.Stdout, args.Cells); err != nil {
		return nil, err
	}
	return Nil(), nil
}

func builtinPrintln(env *LEnv, args *LVal) (*LVal, error) {
	if err := writeDisplayCells(env.Runtime.Stdout, args.Cells); err != nil {
		return nil, err
	}
	if _, err := io.WriteString(env.Runtime.Stdout, "\n"); err != nil {
		return nil, errorf(CondUserError, "print: %v", err)
	}
	return Nil(), nil
}

func writeDisplayCells(w io.Writer, cells []*LVal) error {
	for _, c := range cells {
		if _, err := io.WriteString(w, c.Display()); err != nil {
			return errorf(CondUserError, "print: %v", err)
		}
	}
	return nil
}

func builtinError(env *LEnv, args *LVal) (*LVal, error) {
	if err := checkArity("error", args, 1); err != nil {
		return nil, err
	}
	msg := args.Cells[0]
	if err := checkType("error", msg, LString); err != nil {
		return nil, err
	}
	return nil, errorf(CondUserError, "%s", msg.Str)
}
