package tree

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"gosmt/smt"
)

// The parser reads the SMT-LIB subset that Dump produces: declare-fun /
// declare-const declarations followed by assert commands. Multiple asserts
// combine into one conjunction.

type sexpr struct {
	atom string
	list []sexpr
}

func (s sexpr) isAtom() bool { return s.list == nil }

func tokenize(input string) []string {
	var tokens []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(input); i++ {
		c := input[i]
		switch {
		case c == '(' || c == ')':
			flush()
			tokens = append(tokens, string(c))
		case c == ';':
			flush()
			for i < len(input) && input[i] != '\n' {
				i++
			}
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return tokens
}

func readSexpr(tokens []string, pos int) (sexpr, int, error) {
	if pos >= len(tokens) {
		return sexpr{}, pos, errInvalid("unexpected end of input")
	}
	tok := tokens[pos]
	if tok == "(" {
		pos++
		var list []sexpr
		for pos < len(tokens) && tokens[pos] != ")" {
			child, next, err := readSexpr(tokens, pos)
			if err != nil {
				return sexpr{}, pos, err
			}
			list = append(list, child)
			pos = next
		}
		if pos >= len(tokens) {
			return sexpr{}, pos, errInvalid("missing closing parenthesis")
		}
		if list == nil {
			list = []sexpr{}
		}
		return sexpr{list: list}, pos + 1, nil
	}
	if tok == ")" {
		return sexpr{}, pos, errInvalid("unexpected closing parenthesis")
	}
	return sexpr{atom: tok}, pos + 1, nil
}

func parseScript(e *Env, input string) (*Node, error) {
	tokens := tokenize(input)
	var asserts []*Node
	p := &parser{env: e}
	pos := 0
	for pos < len(tokens) {
		expr, next, err := readSexpr(tokens, pos)
		if err != nil {
			return nil, err
		}
		pos = next
		if expr.isAtom() || len(expr.list) == 0 || !expr.list[0].isAtom() {
			return nil, errInvalid("unexpected toplevel form")
		}
		switch expr.list[0].atom {
		case "declare-fun":
			if err := p.declareFun(expr); err != nil {
				return nil, err
			}
		case "declare-const":
			if err := p.declareConst(expr); err != nil {
				return nil, err
			}
		case "assert":
			if len(expr.list) != 2 {
				return nil, errInvalid("assert takes one formula")
			}
			t, err := p.term(expr.list[1], nil)
			if err != nil {
				return nil, err
			}
			if t.typ.Kind != smt.BooleanTypeKind {
				return nil, errInvalid("asserted term has type %s, want Boolean", t.typ)
			}
			asserts = append(asserts, t)
		case "set-logic", "set-option", "check-sat", "exit":
			// Accepted and ignored.
		default:
			return nil, errInvalid("unsupported command %q", expr.list[0].atom)
		}
	}
	switch len(asserts) {
	case 0:
		return nil, errInvalid("input contains no assert")
	case 1:
		return asserts[0], nil
	}
	return e.app(opAnd, smt.BooleanType, asserts...), nil
}

type parser struct {
	env *Env
}

func (p *parser) declareFun(expr sexpr) error {
	if len(expr.list) != 4 || !expr.list[1].isAtom() || expr.list[2].isAtom() {
		return errInvalid("malformed declare-fun")
	}
	name := expr.list[1].atom
	result, err := parseSort(expr.list[3])
	if err != nil {
		return err
	}
	if len(expr.list[2].list) == 0 {
		_, err := p.env.freeVar(result, name)
		return err
	}
	args := make([]smt.Type, len(expr.list[2].list))
	for i, s := range expr.list[2].list {
		if args[i], err = parseSort(s); err != nil {
			return err
		}
	}
	_, err = p.env.declareFunction(name, result, args)
	return err
}

func (p *parser) declareConst(expr sexpr) error {
	if len(expr.list) != 3 || !expr.list[1].isAtom() {
		return errInvalid("malformed declare-const")
	}
	typ, err := parseSort(expr.list[2])
	if err != nil {
		return err
	}
	_, err = p.env.freeVar(typ, expr.list[1].atom)
	return err
}

func parseSort(s sexpr) (smt.Type, error) {
	if s.isAtom() {
		switch s.atom {
		case "Bool":
			return smt.BooleanType, nil
		case "Int":
			return smt.IntegerType, nil
		case "Real":
			return smt.RationalType, nil
		}
		return smt.Type{}, errInvalid("unknown sort %q", s.atom)
	}
	if len(s.list) == 3 && s.list[0].isAtom() {
		switch s.list[0].atom {
		case "_":
			if s.list[1].atom == "BitVec" {
				w, err := strconv.Atoi(s.list[2].atom)
				if err != nil || w <= 0 {
					return smt.Type{}, errInvalid("bad bitvector width %q", s.list[2].atom)
				}
				return smt.BitvectorType(w), nil
			}
		case "Array":
			idx, err := parseSort(s.list[1])
			if err != nil {
				return smt.Type{}, err
			}
			elem, err := parseSort(s.list[2])
			if err != nil {
				return smt.Type{}, err
			}
			return smt.ArrayType(idx, elem), nil
		}
	}
	if len(s.list) == 4 && s.list[0].isAtom() && s.list[0].atom == "_" && s.list[1].atom == "FloatingPoint" {
		e, err1 := strconv.Atoi(s.list[2].atom)
		m, err2 := strconv.Atoi(s.list[3].atom)
		if err1 != nil || err2 != nil {
			return smt.Type{}, errInvalid("bad floating-point sort")
		}
		return smt.FloatingPointType(e, m), nil
	}
	return smt.Type{}, errInvalid("unknown sort form")
}

// scope tracks quantifier-bound variables by name.
type scope struct {
	parent *scope
	vars   map[string]*Node
}

func (s *scope) lookup(name string) (*Node, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if n, ok := cur.vars[name]; ok {
			return n, true
		}
	}
	return nil, false
}

func (p *parser) term(s sexpr, sc *scope) (*Node, error) {
	if s.isAtom() {
		return p.atomTerm(s.atom, sc)
	}
	if len(s.list) == 0 {
		return nil, errInvalid("empty term")
	}
	head := s.list[0]

	if head.isAtom() {
		switch head.atom {
		case "forall", "exists":
			return p.quantifier(s, sc)
		case "_":
			return p.indexedConstant(s)
		}
		return p.application(head.atom, s.list[1:], sc)
	}
	// Indexed operator application: ((_ extract i j) t) and friends.
	return p.indexedApplication(head, s.list[1:], sc)
}

func (p *parser) atomTerm(atom string, sc *scope) (*Node, error) {
	switch atom {
	case "true":
		return p.env.boolConst(true), nil
	case "false":
		return p.env.boolConst(false), nil
	}
	if n, ok := sc.lookupOrNil(atom); ok {
		return n, nil
	}
	if typ, ok := p.env.symbols[atom]; ok {
		return p.env.freeVar(typ, atom)
	}
	if isNumeric(atom) {
		r, ok := new(big.Rat).SetString(atom)
		if !ok {
			return nil, errInvalid("cannot parse numeral %q", atom)
		}
		typ := smt.IntegerType
		if !r.IsInt() {
			typ = smt.RationalType
		}
		return p.env.numConst(typ, r), nil
	}
	return nil, errInvalid("unknown symbol %q", atom)
}

func (s *scope) lookupOrNil(name string) (*Node, bool) {
	if s == nil {
		return nil, false
	}
	return s.lookup(name)
}

func isNumeric(atom string) bool {
	if atom == "" {
		return false
	}
	for i := 0; i < len(atom); i++ {
		c := atom[i]
		if (c < '0' || c > '9') && c != '.' {
			return false
		}
	}
	return true
}

func (p *parser) quantifier(s sexpr, sc *scope) (*Node, error) {
	if len(s.list) != 3 || s.list[1].isAtom() {
		return nil, errInvalid("malformed quantifier")
	}
	q := smt.Forall
	if s.list[0].atom == "exists" {
		q = smt.Exists
	}
	binders := s.list[1].list
	inner := &scope{parent: sc, vars: map[string]*Node{}}
	bound := make([]*Node, len(binders))
	for i, b := range binders {
		if b.isAtom() || len(b.list) != 2 || !b.list[0].isAtom() {
			return nil, errInvalid("malformed quantifier binder")
		}
		typ, err := parseSort(b.list[1])
		if err != nil {
			return nil, err
		}
		name := b.list[0].atom
		bv := p.env.boundVar(typ, name, len(binders)-1-i)
		inner.vars[name] = bv
		bound[i] = bv
	}
	body, err := p.term(s.list[2], inner)
	if err != nil {
		return nil, err
	}
	if body.typ.Kind != smt.BooleanTypeKind {
		return nil, errInvalid("quantifier body has type %s, want Boolean", body.typ)
	}
	return p.env.quantNode(q, bound, body), nil
}

func (p *parser) indexedConstant(s sexpr) (*Node, error) {
	if len(s.list) == 3 && s.list[1].isAtom() && strings.HasPrefix(s.list[1].atom, "bv") {
		v, ok := new(big.Int).SetString(s.list[1].atom[2:], 10)
		if !ok {
			return nil, errInvalid("bad bitvector constant %q", s.list[1].atom)
		}
		w, err := strconv.Atoi(s.list[2].atom)
		if err != nil || w <= 0 {
			return nil, errInvalid("bad bitvector width %q", s.list[2].atom)
		}
		return p.env.bvConst(w, v), nil
	}
	return nil, errInvalid("unsupported indexed constant")
}

func (p *parser) indexedApplication(head sexpr, rest []sexpr, sc *scope) (*Node, error) {
	if len(head.list) < 2 || !head.list[0].isAtom() || head.list[0].atom != "_" {
		return nil, errInvalid("unsupported operator form")
	}
	op := head.list[1].atom
	switch op {
	case "extract":
		if len(head.list) != 4 || len(rest) != 1 {
			return nil, errInvalid("malformed extract")
		}
		msb, err1 := strconv.Atoi(head.list[2].atom)
		lsb, err2 := strconv.Atoi(head.list[3].atom)
		if err1 != nil || err2 != nil {
			return nil, errInvalid("malformed extract indices")
		}
		arg, err := p.term(rest[0], sc)
		if err != nil {
			return nil, err
		}
		return bvOps{env: p.env}.Extract(arg, msb, lsb)
	case "zero_extend", "sign_extend":
		if len(head.list) != 3 || len(rest) != 1 {
			return nil, errInvalid("malformed extension")
		}
		bits, err := strconv.Atoi(head.list[2].atom)
		if err != nil {
			return nil, errInvalid("malformed extension width")
		}
		arg, terr := p.term(rest[0], sc)
		if terr != nil {
			return nil, terr
		}
		return bvOps{env: p.env}.Extend(arg, bits, op == "sign_extend")
	case "to_fp":
		if len(head.list) != 4 || len(rest) != 1 || !rest[0].isAtom() {
			return nil, errInvalid("malformed floating-point constant")
		}
		exp, err1 := strconv.Atoi(head.list[2].atom)
		mant, err2 := strconv.Atoi(head.list[3].atom)
		v, err3 := strconv.ParseFloat(rest[0].atom, 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, errInvalid("malformed floating-point constant")
		}
		return p.env.fpConst(smt.FloatingPointType(exp, mant), v), nil
	}
	return nil, errInvalid("unsupported indexed operator %q", op)
}

func (p *parser) application(op string, rest []sexpr, sc *scope) (*Node, error) {
	args := make([]*Node, len(rest))
	for i, r := range rest {
		a, err := p.term(r, sc)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}

	// Unary minus over a constant folds to a negative numeral.
	if op == "-" && len(args) == 1 {
		if args[0].kind == kindNumConst {
			return p.env.numConst(args[0].typ, new(big.Rat).Neg(args[0].num)), nil
		}
		return p.env.app(opSub, args[0].typ, args[0]), nil
	}

	// Division of two constants in a Real context is a rational literal.
	if op == "/" && len(args) == 2 && args[0].kind == kindNumConst && args[1].kind == kindNumConst {
		if args[1].num.Sign() == 0 {
			return nil, errInvalid("division by zero literal")
		}
		r := new(big.Rat).Quo(args[0].num, args[1].num)
		return p.env.numConst(smt.RationalType, r), nil
	}

	if decl, ok := p.env.decls[op]; ok {
		return funcOps{env: p.env}.ApplyFunction(decl, args)
	}

	if len(args) == 0 {
		return nil, errInvalid("operator %q applied to no arguments", op)
	}
	coerceNumerals(p.env, op, args)

	switch op {
	case "and":
		return p.env.app(opAnd, smt.BooleanType, args...), nil
	case "or":
		return p.env.app(opOr, smt.BooleanType, args...), nil
	case "not":
		return p.env.app(opNot, smt.BooleanType, args...), nil
	case "=>":
		return p.env.app(opImplies, smt.BooleanType, args...), nil
	case "xor":
		return p.env.app(opXor, smt.BooleanType, args...), nil
	case "distinct":
		return p.env.app(opDistinct, smt.BooleanType, args...), nil
	case "=":
		return p.env.app(opEq, smt.BooleanType, args...), nil
	case "ite":
		if len(args) != 3 {
			return nil, errInvalid("ite takes three arguments")
		}
		return p.env.app(opIte, args[1].typ, args...), nil
	case "+":
		return p.env.app(opAdd, args[0].typ, args...), nil
	case "-":
		return p.env.app(opSub, args[0].typ, args...), nil
	case "*":
		return p.env.app(opMul, args[0].typ, args...), nil
	case "div":
		return p.env.app(opDiv, smt.IntegerType, args...), nil
	case "mod":
		return p.env.app(opMod, smt.IntegerType, args...), nil
	case "/":
		return p.env.app(opRat, smt.RationalType, args...), nil
	case "<":
		return p.env.app(opLt, smt.BooleanType, args...), nil
	case "<=":
		return p.env.app(opLte, smt.BooleanType, args...), nil
	case ">":
		return p.env.app(opGt, smt.BooleanType, args...), nil
	case ">=":
		return p.env.app(opGte, smt.BooleanType, args...), nil
	case "select":
		if len(args) != 2 || args[0].typ.Kind != smt.ArrayTypeKind {
			return nil, errInvalid("malformed select")
		}
		return p.env.app(opSelect, *args[0].typ.Element, args...), nil
	case "store":
		if len(args) != 3 || args[0].typ.Kind != smt.ArrayTypeKind {
			return nil, errInvalid("malformed store")
		}
		return p.env.app(opStore, args[0].typ, args...), nil
	}

	if decl, typ, ok := bvApplication(op, args); ok {
		return p.env.app(decl, typ, args...), nil
	}
	if decl, typ, ok := fpApplication(op, args); ok {
		return p.env.app(decl, typ, args...), nil
	}
	return nil, errors.Wrapf(smt.ErrInvalidArgument, "unsupported operator %q", op)
}

// coerceNumerals upgrades integer literals to rationals when an arithmetic or
// comparison operator mixes them with Real operands.
func coerceNumerals(e *Env, op string, args []*Node) {
	switch op {
	case "+", "-", "*", "/", "<", "<=", ">", ">=", "=":
	default:
		return
	}
	rational := false
	for _, a := range args {
		if a.typ.Kind == smt.RationalTypeKind {
			rational = true
			break
		}
	}
	if !rational && op != "/" {
		return
	}
	for i, a := range args {
		if a.kind == kindNumConst && a.typ.Kind == smt.IntegerTypeKind {
			args[i] = e.numConst(smt.RationalType, a.num)
		}
	}
}

func bvApplication(op string, args []*Node) (smt.FuncDecl, smt.Type, bool) {
	if args[0].typ.Kind != smt.BitvectorTypeKind {
		return smt.FuncDecl{}, smt.Type{}, false
	}
	width := args[0].typ
	switch op {
	case "bvneg", "bvsub":
		return bvOp(op, smt.SubKind), width, true
	case "bvadd":
		return bvOp(op, smt.AddKind), width, true
	case "bvmul":
		return bvOp(op, smt.MulKind), width, true
	case "bvudiv", "bvsdiv":
		return bvOp(op, smt.DivKind), width, true
	case "bvurem", "bvsrem":
		return bvOp(op, smt.ModuloKind), width, true
	case "bvnot", "bvand", "bvor", "bvxor", "bvshl", "bvlshr", "bvashr":
		return bvOp(op, smt.OtherKind), width, true
	case "concat":
		if len(args) != 2 || args[1].typ.Kind != smt.BitvectorTypeKind {
			return smt.FuncDecl{}, smt.Type{}, false
		}
		return bvOp(op, smt.OtherKind), smt.BitvectorType(args[0].typ.Width + args[1].typ.Width), true
	case "bvult", "bvslt":
		return bvOp(op, smt.LtKind), smt.BooleanType, true
	case "bvule", "bvsle":
		return bvOp(op, smt.LteKind), smt.BooleanType, true
	case "bvugt", "bvsgt":
		return bvOp(op, smt.GtKind), smt.BooleanType, true
	case "bvuge", "bvsge":
		return bvOp(op, smt.GteKind), smt.BooleanType, true
	}
	return smt.FuncDecl{}, smt.Type{}, false
}

func fpApplication(op string, args []*Node) (smt.FuncDecl, smt.Type, bool) {
	if args[0].typ.Kind != smt.FloatingPointTypeKind {
		return smt.FuncDecl{}, smt.Type{}, false
	}
	typ := args[0].typ
	switch op {
	case "fp.neg":
		return bvOp(op, smt.SubKind), typ, true
	case "fp.add":
		return bvOp(op, smt.AddKind), typ, true
	case "fp.sub":
		return bvOp(op, smt.SubKind), typ, true
	case "fp.mul":
		return bvOp(op, smt.MulKind), typ, true
	case "fp.div":
		return bvOp(op, smt.DivKind), typ, true
	case "fp.eq":
		return bvOp(op, smt.EqKind), smt.BooleanType, true
	case "fp.gt":
		return bvOp(op, smt.GtKind), smt.BooleanType, true
	case "fp.lt":
		return bvOp(op, smt.LtKind), smt.BooleanType, true
	}
	return smt.FuncDecl{}, smt.Type{}, false
}
