package tree

import (
	"fmt"
	"math/big"

	"gosmt/smt"
)

// Operator vocabulary, SMT-LIB style. The FuncDeclKind carried on each
// application is what the visitor protocol reports.
var (
	opAnd      = smt.FuncDecl{Name: "and", Kind: smt.AndKind}
	opOr       = smt.FuncDecl{Name: "or", Kind: smt.OrKind}
	opNot      = smt.FuncDecl{Name: "not", Kind: smt.NotKind}
	opImplies  = smt.FuncDecl{Name: "=>", Kind: smt.ImpliesKind}
	opXor      = smt.FuncDecl{Name: "xor", Kind: smt.XorKind}
	opIte      = smt.FuncDecl{Name: "ite", Kind: smt.IteKind}
	opEq       = smt.FuncDecl{Name: "=", Kind: smt.EqKind}
	opDistinct = smt.FuncDecl{Name: "distinct", Kind: smt.DistinctKind}

	opAdd = smt.FuncDecl{Name: "+", Kind: smt.AddKind}
	opSub = smt.FuncDecl{Name: "-", Kind: smt.SubKind}
	opMul = smt.FuncDecl{Name: "*", Kind: smt.MulKind}
	opDiv = smt.FuncDecl{Name: "div", Kind: smt.DivKind}
	opRat = smt.FuncDecl{Name: "/", Kind: smt.DivKind}
	opMod = smt.FuncDecl{Name: "mod", Kind: smt.ModuloKind}
	opLt  = smt.FuncDecl{Name: "<", Kind: smt.LtKind}
	opLte = smt.FuncDecl{Name: "<=", Kind: smt.LteKind}
	opGt  = smt.FuncDecl{Name: ">", Kind: smt.GtKind}
	opGte = smt.FuncDecl{Name: ">=", Kind: smt.GteKind}

	opSelect = smt.FuncDecl{Name: "select", Kind: smt.OtherKind}
	opStore  = smt.FuncDecl{Name: "store", Kind: smt.OtherKind}
)

func bvOp(name string, kind smt.FuncDeclKind) smt.FuncDecl {
	return smt.FuncDecl{Name: name, Kind: kind}
}

func extractOpName(msb, lsb int) string {
	return fmt.Sprintf("(_ extract %d %d)", msb, lsb)
}

func extendOpName(bits int, signed bool) string {
	if signed {
		return fmt.Sprintf("(_ sign_extend %d)", bits)
	}
	return fmt.Sprintf("(_ zero_extend %d)", bits)
}

func (e *Env) foldArith(kind smt.FuncDeclKind, typ smt.Type, a, b *Node) (*Node, bool) {
	r := new(big.Rat)
	switch kind {
	case smt.AddKind:
		r.Add(a.num, b.num)
	case smt.SubKind:
		r.Sub(a.num, b.num)
	case smt.MulKind:
		r.Mul(a.num, b.num)
	default:
		return nil, false
	}
	if typ.Kind == smt.IntegerTypeKind && !r.IsInt() {
		return nil, false
	}
	return e.numConst(typ, r), true
}

// boolOps implements smt.BooleanBackend over an Env.
type boolOps struct{ env *Env }

func (o boolOps) MakeBoolean(v bool) *Node { return o.env.boolConst(v) }

func (o boolOps) MakeVariable(name string) (*Node, error) {
	return o.env.freeVar(smt.BooleanType, name)
}

func (o boolOps) Not(t *Node) (*Node, error) {
	if t.kind == kindApp && t.decl.Kind == smt.NotKind {
		return t.args[0], nil
	}
	return o.env.app(opNot, smt.BooleanType, t), nil
}

func (o boolOps) And(ts []*Node) (*Node, error) {
	switch len(ts) {
	case 0:
		return o.env.boolConst(true), nil
	case 1:
		return ts[0], nil
	}
	return o.env.app(opAnd, smt.BooleanType, ts...), nil
}

func (o boolOps) Or(ts []*Node) (*Node, error) {
	switch len(ts) {
	case 0:
		return o.env.boolConst(false), nil
	case 1:
		return ts[0], nil
	}
	return o.env.app(opOr, smt.BooleanType, ts...), nil
}

func (o boolOps) Xor(a, b *Node) (*Node, error) {
	return o.env.app(opXor, smt.BooleanType, a, b), nil
}

func (o boolOps) Implication(a, b *Node) (*Node, error) {
	return o.env.app(opImplies, smt.BooleanType, a, b), nil
}

func (o boolOps) Equivalence(a, b *Node) (*Node, error) {
	return o.env.app(opEq, smt.BooleanType, a, b), nil
}

func (o boolOps) IfThenElse(cond, then, els *Node) (*Node, error) {
	return o.env.app(opIte, then.typ, cond, then, els), nil
}

func (o boolOps) IsTrue(t *Node) bool  { return t.kind == kindBoolConst && t.bval }
func (o boolOps) IsFalse(t *Node) bool { return t.kind == kindBoolConst && !t.bval }

// numOps implements smt.NumeralBackend for one numeral type over an Env.
// Integer division and modulo are kept as terms rather than folded, so a
// numeral like DIV(125, 100) preserves its exact decimal meaning.
type numOps struct {
	env *Env
	typ smt.Type
}

func (o numOps) MakeNumber(v int64) *Node {
	return o.env.numConst(o.typ, new(big.Rat).SetInt64(v))
}

func (o numOps) MakeNumberBig(num, den any) (*Node, error) {
	n, ok := num.(*big.Int)
	if !ok {
		return nil, errInvalid("numerator has unsupported type %T", num)
	}
	r := new(big.Rat).SetInt(n)
	if den != nil {
		d, ok := den.(*big.Int)
		if !ok {
			return nil, errInvalid("denominator has unsupported type %T", den)
		}
		if d.Sign() == 0 {
			return nil, errInvalid("denominator is zero")
		}
		r.Quo(r, new(big.Rat).SetInt(d))
	}
	if o.typ.Kind == smt.IntegerTypeKind && !r.IsInt() {
		return nil, errInvalid("value %s is not an integer", r.RatString())
	}
	return o.env.numConst(o.typ, r), nil
}

func (o numOps) MakeNumberFromString(repr string) (*Node, error) {
	if o.typ.Kind == smt.IntegerTypeKind {
		return smt.DecimalAsInteger[*Node](o, repr)
	}
	r, ok := new(big.Rat).SetString(repr)
	if !ok {
		return nil, errInvalid("cannot parse numeral %q", repr)
	}
	return o.env.numConst(o.typ, r), nil
}

func (o numOps) MakeVariable(name string) (*Node, error) {
	return o.env.freeVar(o.typ, name)
}

func (o numOps) IsNumeral(t *Node) bool { return t.kind == kindNumConst }

func (o numOps) Negate(t *Node) (*Node, error) {
	if t.kind == kindNumConst {
		return o.env.numConst(o.typ, new(big.Rat).Neg(t.num)), nil
	}
	return o.env.app(opSub, o.typ, t), nil
}

func (o numOps) Add(a, b *Node) (*Node, error) {
	if a.kind == kindNumConst && b.kind == kindNumConst {
		if folded, ok := o.env.foldArith(smt.AddKind, o.typ, a, b); ok {
			return folded, nil
		}
	}
	return o.env.app(opAdd, o.typ, a, b), nil
}

func (o numOps) Subtract(a, b *Node) (*Node, error) {
	if a.kind == kindNumConst && b.kind == kindNumConst {
		if folded, ok := o.env.foldArith(smt.SubKind, o.typ, a, b); ok {
			return folded, nil
		}
	}
	return o.env.app(opSub, o.typ, a, b), nil
}

func (o numOps) LinearMultiply(a, b *Node) (*Node, bool) {
	if a.kind != kindNumConst && b.kind != kindNumConst {
		return nil, false
	}
	if a.kind == kindNumConst && b.kind == kindNumConst {
		if folded, ok := o.env.foldArith(smt.MulKind, o.typ, a, b); ok {
			return folded, true
		}
	}
	return o.env.app(opMul, o.typ, a, b), true
}

func (o numOps) NonLinearMultiply(a, b *Node) (*Node, error) {
	return o.env.app(opMul, o.typ, a, b), nil
}

func (o numOps) LinearDivide(a, b *Node) (*Node, bool) {
	if b.kind != kindNumConst || b.num.Sign() == 0 {
		return nil, false
	}
	return o.env.app(o.divOp(), o.typ, a, b), true
}

func (o numOps) NonLinearDivide(a, b *Node) (*Node, error) {
	return o.env.app(o.divOp(), o.typ, a, b), nil
}

func (o numOps) divOp() smt.FuncDecl {
	if o.typ.Kind == smt.IntegerTypeKind {
		return opDiv
	}
	return opRat
}

// LinearModulo exists for integers only; the rational manager falls back to
// its uninterpreted function.
func (o numOps) LinearModulo(a, b *Node) (*Node, bool) {
	if o.typ.Kind != smt.IntegerTypeKind || b.kind != kindNumConst || b.num.Sign() == 0 {
		return nil, false
	}
	return o.env.app(opMod, o.typ, a, b), true
}

func (o numOps) NonLinearModulo(a, b *Node) (*Node, error) {
	if o.typ.Kind != smt.IntegerTypeKind {
		return nil, smt.ErrNonLinearArithmetic
	}
	return o.env.app(opMod, o.typ, a, b), nil
}

// ModularCongruence builds (a - b) mod n = 0 for integers. For rationals
// every congruence holds, so the result is plain truth.
func (o numOps) ModularCongruence(a, b *Node, n int64) (*Node, error) {
	if o.typ.Kind != smt.IntegerTypeKind {
		return o.env.boolConst(true), nil
	}
	diff := o.env.app(opSub, o.typ, a, b)
	modulus := o.MakeNumber(n)
	reduced := o.env.app(opMod, o.typ, diff, modulus)
	return o.env.app(opEq, smt.BooleanType, reduced, o.MakeNumber(0)), nil
}

func (o numOps) Equal(a, b *Node) (*Node, error) {
	return o.env.app(opEq, smt.BooleanType, a, b), nil
}

func (o numOps) GreaterThan(a, b *Node) (*Node, error) {
	return o.env.app(opGt, smt.BooleanType, a, b), nil
}

func (o numOps) GreaterOrEquals(a, b *Node) (*Node, error) {
	return o.env.app(opGte, smt.BooleanType, a, b), nil
}

func (o numOps) LessThan(a, b *Node) (*Node, error) {
	return o.env.app(opLt, smt.BooleanType, a, b), nil
}

func (o numOps) LessOrEquals(a, b *Node) (*Node, error) {
	return o.env.app(opLte, smt.BooleanType, a, b), nil
}

// bvOps implements smt.BitvectorBackend over an Env.
type bvOps struct{ env *Env }

func (o bvOps) MakeBitvector(width int, value any) (*Node, error) {
	switch v := value.(type) {
	case int64:
		return o.env.bvConst(width, big.NewInt(v)), nil
	case *big.Int:
		return o.env.bvConst(width, v), nil
	}
	return nil, errInvalid("bitvector value has unsupported type %T", value)
}

func (o bvOps) MakeVariable(width int, name string) (*Node, error) {
	return o.env.freeVar(smt.BitvectorType(width), name)
}

func (o bvOps) Negate(t *Node) (*Node, error) {
	return o.env.app(bvOp("bvneg", smt.SubKind), t.typ, t), nil
}

func (o bvOps) Add(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("bvadd", smt.AddKind), a.typ, a, b), nil
}

func (o bvOps) Subtract(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("bvsub", smt.SubKind), a.typ, a, b), nil
}

func (o bvOps) Multiply(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("bvmul", smt.MulKind), a.typ, a, b), nil
}

func (o bvOps) Divide(a, b *Node, signed bool) (*Node, error) {
	if signed {
		return o.env.app(bvOp("bvsdiv", smt.DivKind), a.typ, a, b), nil
	}
	return o.env.app(bvOp("bvudiv", smt.DivKind), a.typ, a, b), nil
}

func (o bvOps) Remainder(a, b *Node, signed bool) (*Node, error) {
	if signed {
		return o.env.app(bvOp("bvsrem", smt.ModuloKind), a.typ, a, b), nil
	}
	return o.env.app(bvOp("bvurem", smt.ModuloKind), a.typ, a, b), nil
}

func (o bvOps) Not(t *Node) (*Node, error) {
	return o.env.app(bvOp("bvnot", smt.OtherKind), t.typ, t), nil
}

func (o bvOps) And(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("bvand", smt.OtherKind), a.typ, a, b), nil
}

func (o bvOps) Or(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("bvor", smt.OtherKind), a.typ, a, b), nil
}

func (o bvOps) Xor(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("bvxor", smt.OtherKind), a.typ, a, b), nil
}

func (o bvOps) ShiftLeft(t, shift *Node) (*Node, error) {
	return o.env.app(bvOp("bvshl", smt.OtherKind), t.typ, t, shift), nil
}

func (o bvOps) ShiftRight(t, shift *Node, signed bool) (*Node, error) {
	if signed {
		return o.env.app(bvOp("bvashr", smt.OtherKind), t.typ, t, shift), nil
	}
	return o.env.app(bvOp("bvlshr", smt.OtherKind), t.typ, t, shift), nil
}

func (o bvOps) Concat(a, b *Node) (*Node, error) {
	typ := smt.BitvectorType(a.typ.Width + b.typ.Width)
	return o.env.app(bvOp("concat", smt.OtherKind), typ, a, b), nil
}

func (o bvOps) Extract(t *Node, msb, lsb int) (*Node, error) {
	typ := smt.BitvectorType(msb - lsb + 1)
	decl := bvOp(extractOpName(msb, lsb), smt.OtherKind)
	return o.env.app(decl, typ, t), nil
}

func (o bvOps) Extend(t *Node, bits int, signed bool) (*Node, error) {
	typ := smt.BitvectorType(t.typ.Width + bits)
	decl := bvOp(extendOpName(bits, signed), smt.OtherKind)
	return o.env.app(decl, typ, t), nil
}

func (o bvOps) Equal(a, b *Node) (*Node, error) {
	return o.env.app(opEq, smt.BooleanType, a, b), nil
}

func (o bvOps) GreaterThan(a, b *Node, signed bool) (*Node, error) {
	return o.comparison("bvugt", "bvsgt", smt.GtKind, a, b, signed)
}

func (o bvOps) GreaterOrEquals(a, b *Node, signed bool) (*Node, error) {
	return o.comparison("bvuge", "bvsge", smt.GteKind, a, b, signed)
}

func (o bvOps) LessThan(a, b *Node, signed bool) (*Node, error) {
	return o.comparison("bvult", "bvslt", smt.LtKind, a, b, signed)
}

func (o bvOps) LessOrEquals(a, b *Node, signed bool) (*Node, error) {
	return o.comparison("bvule", "bvsle", smt.LteKind, a, b, signed)
}

func (o bvOps) comparison(unsigned, sign string, kind smt.FuncDeclKind, a, b *Node, signed bool) (*Node, error) {
	name := unsigned
	if signed {
		name = sign
	}
	return o.env.app(bvOp(name, kind), smt.BooleanType, a, b), nil
}

// fpOps implements smt.FloatingPointBackend over an Env.
type fpOps struct{ env *Env }

func (o fpOps) MakeNumber(value float64, exponent, mantissa int) (*Node, error) {
	return o.env.fpConst(smt.FloatingPointType(exponent, mantissa), value), nil
}

func (o fpOps) MakeVariable(exponent, mantissa int, name string) (*Node, error) {
	return o.env.freeVar(smt.FloatingPointType(exponent, mantissa), name)
}

func (o fpOps) Negate(t *Node) (*Node, error) {
	return o.env.app(bvOp("fp.neg", smt.SubKind), t.typ, t), nil
}

func (o fpOps) Add(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("fp.add", smt.AddKind), a.typ, a, b), nil
}

func (o fpOps) Subtract(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("fp.sub", smt.SubKind), a.typ, a, b), nil
}

func (o fpOps) Multiply(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("fp.mul", smt.MulKind), a.typ, a, b), nil
}

func (o fpOps) Divide(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("fp.div", smt.DivKind), a.typ, a, b), nil
}

func (o fpOps) Equal(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("fp.eq", smt.EqKind), smt.BooleanType, a, b), nil
}

func (o fpOps) GreaterThan(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("fp.gt", smt.GtKind), smt.BooleanType, a, b), nil
}

func (o fpOps) LessThan(a, b *Node) (*Node, error) {
	return o.env.app(bvOp("fp.lt", smt.LtKind), smt.BooleanType, a, b), nil
}

// arrayOps implements smt.ArrayBackend over an Env.
type arrayOps struct{ env *Env }

func (o arrayOps) MakeArray(index, element smt.Type, name string) (*Node, error) {
	return o.env.freeVar(smt.ArrayType(index, element), name)
}

func (o arrayOps) Select(array, index *Node) (*Node, error) {
	return o.env.app(opSelect, *array.typ.Element, array, index), nil
}

func (o arrayOps) Store(array, index, value *Node) (*Node, error) {
	return o.env.app(opStore, array.typ, array, index, value), nil
}

func (o arrayOps) Equivalence(a, b *Node) (*Node, error) {
	return o.env.app(opEq, smt.BooleanType, a, b), nil
}

// quantOps implements smt.QuantifiedBackend over an Env.
type quantOps struct{ env *Env }

func (o quantOps) BoundVariable(typ smt.Type, name string, index int) (*Node, error) {
	return o.env.boundVar(typ, name, index), nil
}

// MakeQuantifier accepts both explicit bound variables and free variables; a
// free variable is abstracted by rewriting the body.
func (o quantOps) MakeQuantifier(q smt.Quantifier, bound []*Node, body *Node) (*Node, error) {
	if len(bound) == 0 {
		return nil, errInvalid("quantifier binds no variables")
	}
	vars := make([]*Node, len(bound))
	replace := map[*Node]*Node{}
	for i, b := range bound {
		switch b.kind {
		case kindBoundVar:
			vars[i] = b
		case kindFreeVar:
			bv := o.env.boundVar(b.typ, b.name, len(bound)-1-i)
			vars[i] = bv
			replace[b] = bv
		default:
			return nil, errInvalid("quantifier can only bind variables, got %s", b.name)
		}
	}
	if len(replace) > 0 {
		body = o.env.replaceNodes(body, replace)
	}
	return o.env.quantNode(q, vars, body), nil
}

func (e *Env) replaceNodes(n *Node, replace map[*Node]*Node) *Node {
	if r, ok := replace[n]; ok {
		return r
	}
	switch n.kind {
	case kindApp:
		args := make([]*Node, len(n.args))
		changed := false
		for i, a := range n.args {
			args[i] = e.replaceNodes(a, replace)
			if args[i] != a {
				changed = true
			}
		}
		if changed {
			return e.app(n.decl, n.typ, args...)
		}
	case kindQuant:
		body := e.replaceNodes(n.body, replace)
		if body != n.body {
			return e.quantNode(n.quant, n.bound, body)
		}
	}
	return n
}

// funcOps implements smt.FunctionBackend over an Env.
type funcOps struct{ env *Env }

func (o funcOps) DeclareFunction(name string, result smt.Type, args []smt.Type) (smt.FunctionDeclaration, error) {
	return o.env.declareFunction(name, result, args)
}

// ApplyFunction builds the application. Nullary applications collapse to a
// free variable of the result type.
func (o funcOps) ApplyFunction(decl smt.FunctionDeclaration, args []*Node) (*Node, error) {
	if len(args) != len(decl.ArgumentTypes) {
		return nil, errInvalid("function %s expects %d arguments, got %d",
			decl.Name, len(decl.ArgumentTypes), len(args))
	}
	if len(args) == 0 {
		return o.env.freeVar(decl.ResultType, decl.Name)
	}
	return o.env.app(smt.FuncDecl{Name: decl.Name, Kind: smt.UFKind}, decl.ResultType, args...), nil
}
