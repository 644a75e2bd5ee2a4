// Copyright © 2018 The ELPS authors

package lisp

import (
	"math"
)

// Arithmetic follows one coercion rule: two Integers compute as Integers and
// any Real operand promotes both operands to Real.

func builtinAdd(env *LEnv, args *LVal) (*LVal, error) { return arith("+", args) }
func builtinSub(env *LEnv, args *LVal) (*LVal, error) { return arith("-", args) }
func builtinMul(env *LEnv, args *LVal) (*LVal, error) { return arith("*", args) }
func builtinDiv(env *LEnv, args *LVal) (*LVal, error) { return arith("/", args) }
func builtinMod(env *LEnv, args *LVal) (*LVal, error) { return arith("%", args) }
func builtinPow(env *LEnv, args *LVal) (*LVal, error) { return arith("^", args) }
func builtinMin(env *LEnv, args *LVal) (*LVal, error) { return arith("min", args) }
func builtinMax(env *LEnv, args *LVal) (*LVal, error) { return arith("max", args) }
func builtinInc(env *LEnv, args *LVal) (*LVal, error) { return arith("inc", args) }
func builtinDec(env *LEnv, args *LVal) (*LVal, error) { return arith("dec", args) }

func arith(op string, args *LVal) (*LVal, error) {
	if len(args.Cells) == 0 {
		return nil, errorf(CondArityError, "No arguments passed to %s", op)
	}
	for _, c := range args.Cells {
		if !c.IsNumeric() {
			return nil, errorf(CondTypeError, "Cannot operate on %s", c.Type)
		}
	}
	x := args.pop(0)
	if len(args.Cells) == 0 {
		return unaryOp(op, x)
	}
	var err error
	for _, y := range args.Cells {
		x, err = binaryOp(op, x, y)
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

func unaryOp(op string, x *LVal) (*LVal, error) {
	var delta int64
	switch op {
	case "-":
		if x.Type == LInt {
			return Int(-x.Int), nil
		}
		return Float(-x.Float), nil
	case "inc":
		delta = 1
	case "dec":
		delta = -1
	default:
		return nil, errorf(CondArityError, "Bad unary operation")
	}
	if x.Type == LInt {
		return Int(x.Int + delta), nil
	}
	return Float(x.Float + float64(delta)), nil
}

func binaryOp(op string, x, y *LVal) (*LVal, error) {
	if x.Type == LInt && y.Type == LInt {
		return intOp(op, x.Int, y.Int)
	}
	return floatOp(op, toFloat(x), toFloat(y))
}

func toFloat(v *LVal) float64 {
	if v.Type == LInt {
		return float64(v.Int)
	}
	return v.Float
}

func intOp(op string, a, b int64) (*LVal, error) {
	switch op {
	case "+":
		return Int(a + b), nil
	case "-":
		return Int(a - b), nil
	case "*":
		return Int(a * b), nil
	case "/":
		if b == 0 {
			return nil, errDivisionByZero()
		}
		return Int(a / b), nil
	case "%":
		if b == 0 {
			return nil, errDivisionByZero()
		}
		return Int(a % b), nil
	case "^":
		// Approximate: large results lose precision in the float64
		// intermediate before truncation.
		return Int(int64(math.Pow(float64(a), float64(b)))), nil
	case "min":
		if a <= b {
			return Int(a), nil
		}
		return Int(b), nil
	case "max":
		if a >= b {
			return Int(a), nil
		}
		return Int(b), nil
	}
	return nil, errorf(CondArityError, "Invalid binary operation")
}

func floatOp(op string, a, b float64) (*LVal, error) {
	switch op {
	case "+":
		return Float(a + b), nil
	case "-":
		return Float(a - b), nil
	case "*":
		return Float(a * b), nil
	case "/":
		if b == 0 {
			return nil, errDivisionByZero()
		}
		return Float(a / b), nil
	case "%":
		if b == 0 {
			return nil, errDivisionByZero()
		}
		return Float(math.Mod(a, b)), nil
	case "^":
		return Float(math.Pow(a, b)), nil
	case "min":
		return Float(math.Min(a, b)), nil
	case "max":
		return Float(math.Max(a, b)), nil
	}
	return nil, errorf(CondArityError, "Invalid binary operation")
}

func errDivisionByZero() error {
	return errorf(CondDivisionByZero, "Division by zero")
}

func builtinGT(env *LEnv, args *LVal) (*LVal, error) { return compare(">", args) }
func builtinLT(env *LEnv, args *LVal) (*LVal, error) { return compare("<", args) }
func builtinGEq(env *LEnv, args *LVal) (*LVal, error) { return compare(">=", args) }
func builtinLEq(env *LEnv, args *LVal) (*LVal, error) { return compare("<=", args) }

// compare checks op over every adjacent pair of args.
func compare(op string, args *LVal) (*LVal, error) {
	if err := checkMinArity(op, args, 2); err != nil {
		return nil, err
	}
	result := true
	for i := 0; i+1 < len(args.Cells); i++ {
		x, y := args.Cells[i], args.Cells[i+1]
		if !x.IsNumeric() || !y.IsNumeric() {
			return nil, errorf(CondTypeError, "Invalid types for '%s': %s, %s", op, x.Type, y.Type)
		}
		if !ordered(op, x, y) {
			result = false
		}
	}
	return Bool(result), nil
}

func ordered(op string, x, y *LVal) bool {
	if x.Type == LInt && y.Type == LInt {
		a, b := x.Int, y.Int
		switch op {
		case ">":
			return a > b
		case "<":
			return a < b
		case ">=":
			return a >= b
		default:
			return a <= b
		}
	}
	a, b := toFloat(x), toFloat(y)
	switch op {
	case ">":
		return a > b
	case "<":
		return a < b
	case ">=":
		return a >= b
	default:
		return a <= b
	}
}
