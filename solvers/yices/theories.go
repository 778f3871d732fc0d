package yices

import (
	"math/big"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"

	"gosmt/smt"
)

// boolOps implements smt.BooleanBackend over yices terms.
type boolOps struct{ env *Env }

func (o boolOps) MakeBoolean(v bool) yices2.TermT {
	if v {
		return yices2.True()
	}
	return yices2.False()
}

func (o boolOps) MakeVariable(name string) (yices2.TermT, error) {
	return o.env.MakeVariable(smt.BooleanType, name)
}

func (o boolOps) Not(t yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Not(t), "not")
}

func (o boolOps) And(ts []yices2.TermT) (yices2.TermT, error) {
	switch len(ts) {
	case 0:
		return yices2.True(), nil
	case 1:
		return ts[0], nil
	}
	acc := ts[0]
	for _, t := range ts[1:] {
		next, err := checkTerm(yices2.And2(acc, t), "and")
		if err != nil {
			return yices2.NullTerm, err
		}
		acc = next
	}
	return acc, nil
}

func (o boolOps) Or(ts []yices2.TermT) (yices2.TermT, error) {
	switch len(ts) {
	case 0:
		return yices2.False(), nil
	case 1:
		return ts[0], nil
	}
	acc := ts[0]
	for _, t := range ts[1:] {
		next, err := checkTerm(yices2.Or2(acc, t), "or")
		if err != nil {
			return yices2.NullTerm, err
		}
		acc = next
	}
	return acc, nil
}

// Xor on booleans is disequality.
func (o boolOps) Xor(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Neq(a, b), "xor")
}

func (o boolOps) Implication(a, b yices2.TermT) (yices2.TermT, error) {
	na, err := checkTerm(yices2.Not(a), "implication")
	if err != nil {
		return yices2.NullTerm, err
	}
	return checkTerm(yices2.Or2(na, b), "implication")
}

func (o boolOps) Equivalence(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Eq(a, b), "equivalence")
}

func (o boolOps) IfThenElse(cond, then, els yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Ite(cond, then, els), "ite")
}

func (o boolOps) IsTrue(t yices2.TermT) bool {
	if yices2.TermConstructor(t) != yices2.TrmCnstrBoolConstant {
		return false
	}
	var v int32
	return yices2.BoolConstValue(t, &v) == 0 && v != 0
}

func (o boolOps) IsFalse(t yices2.TermT) bool {
	if yices2.TermConstructor(t) != yices2.TrmCnstrBoolConstant {
		return false
	}
	var v int32
	return yices2.BoolConstValue(t, &v) == 0 && v == 0
}

// bvOps implements smt.BitvectorBackend over yices terms.
type bvOps struct{ env *Env }

func (o bvOps) MakeBitvector(width int, value any) (yices2.TermT, error) {
	switch v := value.(type) {
	case int64:
		return checkTerm(yices2.BvconstInt64(uint32(width), v), "bitvector constant")
	case *big.Int:
		mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
		norm := new(big.Int).Mod(v, mod)
		bits := make([]int32, width)
		for i := 0; i < width; i++ {
			bits[i] = int32(norm.Bit(i))
		}
		return checkTerm(yices2.BvconstFromArray(bits), "bitvector constant")
	}
	return yices2.NullTerm, errors.Wrapf(smt.ErrInvalidArgument,
		"bitvector value has unsupported type %T", value)
}

func (o bvOps) MakeVariable(width int, name string) (yices2.TermT, error) {
	return o.env.MakeVariable(smt.BitvectorType(width), name)
}

func (o bvOps) Negate(t yices2.TermT) (yices2.TermT, error) {
	zero := yices2.BvconstInt64(yices2.TermBitsize(t), 0)
	return checkTerm(yices2.Bvsub(zero, t), "bvneg")
}

func (o bvOps) Add(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvadd(a, b), "bvadd")
}

func (o bvOps) Subtract(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvsub(a, b), "bvsub")
}

func (o bvOps) Multiply(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvmul(a, b), "bvmul")
}

func (o bvOps) Divide(a, b yices2.TermT, signed bool) (yices2.TermT, error) {
	if signed {
		return checkTerm(yices2.Bvsdiv(a, b), "bvsdiv")
	}
	return checkTerm(yices2.Bvdiv(a, b), "bvdiv")
}

func (o bvOps) Remainder(a, b yices2.TermT, signed bool) (yices2.TermT, error) {
	if signed {
		return checkTerm(yices2.Bvsrem(a, b), "bvsrem")
	}
	return checkTerm(yices2.Bvrem(a, b), "bvrem")
}

func (o bvOps) Not(t yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvnot(t), "bvnot")
}

func (o bvOps) And(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvand2(a, b), "bvand")
}

func (o bvOps) Or(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvor2(a, b), "bvor")
}

func (o bvOps) Xor(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvxor2(a, b), "bvxor")
}

func (o bvOps) ShiftLeft(t, shift yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvshl(t, shift), "bvshl")
}

func (o bvOps) ShiftRight(t, shift yices2.TermT, signed bool) (yices2.TermT, error) {
	if signed {
		return checkTerm(yices2.Bvashr(t, shift), "bvashr")
	}
	return checkTerm(yices2.Bvlshr(t, shift), "bvlshr")
}

func (o bvOps) Concat(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.Bvconcat2(a, b), "bvconcat")
}

// Extract keeps bits msb down to lsb; yices indexes from the low bit.
func (o bvOps) Extract(t yices2.TermT, msb, lsb int) (yices2.TermT, error) {
	return checkTerm(yices2.Bvextract(t, uint32(lsb), uint32(msb)), "bvextract")
}

func (o bvOps) Extend(t yices2.TermT, bits int, signed bool) (yices2.TermT, error) {
	if bits == 0 {
		return t, nil
	}
	zeros := yices2.BvconstInt64(uint32(bits), 0)
	if !signed {
		return checkTerm(yices2.Bvconcat2(zeros, t), "zero extend")
	}
	width := yices2.TermBitsize(t)
	sign, err := checkTerm(yices2.Bvextract(t, width-1, width-1), "sign extend")
	if err != nil {
		return yices2.NullTerm, err
	}
	negative, err := checkTerm(yices2.BveqAtom(sign, yices2.BvconstInt64(1, 1)), "sign extend")
	if err != nil {
		return yices2.NullTerm, err
	}
	ones := yices2.BvconstInt64(uint32(bits), -1)
	prefix, err := checkTerm(yices2.Ite(negative, ones, zeros), "sign extend")
	if err != nil {
		return yices2.NullTerm, err
	}
	return checkTerm(yices2.Bvconcat2(prefix, t), "sign extend")
}

func (o bvOps) Equal(a, b yices2.TermT) (yices2.TermT, error) {
	return checkTerm(yices2.BveqAtom(a, b), "bveq")
}

func (o bvOps) GreaterThan(a, b yices2.TermT, signed bool) (yices2.TermT, error) {
	if signed {
		return checkTerm(yices2.BvsgtAtom(a, b), "bvsgt")
	}
	return checkTerm(yices2.BvgtAtom(a, b), "bvgt")
}

func (o bvOps) GreaterOrEquals(a, b yices2.TermT, signed bool) (yices2.TermT, error) {
	if signed {
		return checkTerm(yices2.BvsgeAtom(a, b), "bvsge")
	}
	return checkTerm(yices2.BvgeAtom(a, b), "bvge")
}

func (o bvOps) LessThan(a, b yices2.TermT, signed bool) (yices2.TermT, error) {
	if signed {
		return checkTerm(yices2.BvsltAtom(a, b), "bvslt")
	}
	return checkTerm(yices2.BvltAtom(a, b), "bvlt")
}

func (o bvOps) LessOrEquals(a, b yices2.TermT, signed bool) (yices2.TermT, error) {
	if signed {
		return checkTerm(yices2.BvsleAtom(a, b), "bvsle")
	}
	return checkTerm(yices2.BvleAtom(a, b), "bvle")
}

// funcOps implements smt.FunctionBackend over yices terms.
type funcOps struct{ env *Env }

func (o funcOps) DeclareFunction(name string, result smt.Type, args []smt.Type) (smt.FunctionDeclaration, error) {
	if existing, ok := o.env.decls[name]; ok {
		if !sameSignature(existing, result, args) {
			return smt.FunctionDeclaration{}, errors.Wrapf(smt.ErrInvalidArgument,
				"function %q already declared with a different signature", name)
		}
		return existing, nil
	}
	rng, err := o.env.typeFor(result)
	if err != nil {
		return smt.FunctionDeclaration{}, err
	}
	var fn yices2.TermT
	if len(args) == 0 {
		fn = yices2.NewUninterpretedTerm(rng)
	} else {
		dom := make([]yices2.TypeT, len(args))
		for i, a := range args {
			if dom[i], err = o.env.typeFor(a); err != nil {
				return smt.FunctionDeclaration{}, err
			}
		}
		fn = yices2.NewUninterpretedTerm(yices2.FunctionType(dom, rng))
	}
	if fn == yices2.NullTerm {
		return smt.FunctionDeclaration{}, yicesErr("declare function")
	}
	yices2.SetTermName(fn, name)
	o.env.names[fn] = name
	decl := smt.NewFunctionDeclaration(name, result, args, fn)
	o.env.decls[name] = decl
	o.env.declFns[name] = fn
	return decl, nil
}

func sameSignature(d smt.FunctionDeclaration, result smt.Type, args []smt.Type) bool {
	if !d.ResultType.Equals(result) || len(d.ArgumentTypes) != len(args) {
		return false
	}
	for i, t := range d.ArgumentTypes {
		if !t.Equals(args[i]) {
			return false
		}
	}
	return true
}

// ApplyFunction applies a declared function. A nullary declaration is itself
// the term.
func (o funcOps) ApplyFunction(decl smt.FunctionDeclaration, args []yices2.TermT) (yices2.TermT, error) {
	fn, ok := decl.Symbol().(yices2.TermT)
	if !ok {
		return yices2.NullTerm, errors.Wrap(smt.ErrInvalidArgument,
			"function declaration belongs to a different solver environment")
	}
	if len(args) != len(decl.ArgumentTypes) {
		return yices2.NullTerm, errors.Wrapf(smt.ErrInvalidArgument,
			"function %s expects %d arguments, got %d", decl.Name, len(decl.ArgumentTypes), len(args))
	}
	if len(args) == 0 {
		return fn, nil
	}
	if len(args) == 1 {
		return checkTerm(yices2.Application1(fn, args[0]), "apply function")
	}
	return checkTerm(yices2.Application(fn, args), "apply function")
}
