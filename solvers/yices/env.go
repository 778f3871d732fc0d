// Package yices is a formula environment backed by the yices2 solver. It
// covers booleans, bitvectors and uninterpreted functions, the theory surface
// yices2 handles natively here; the remaining theories report as unsupported.
package yices

import (
	"math/big"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"

	"gosmt/smt"
)

// Init initializes the global yices runtime. Call once per process, paired
// with Exit.
func Init() { yices2.Init() }

// Exit releases the global yices runtime.
func Exit() { yices2.Exit() }

// Env tracks the symbols created through one environment. Yices terms live in
// a process-global table, so the environment's own bookkeeping carries the
// name and type information the introspection layer reports.
type Env struct {
	names    map[yices2.TermT]string
	vars     map[string]yices2.TermT
	varTypes map[string]smt.Type
	decls    map[string]smt.FunctionDeclaration
	declFns  map[string]yices2.TermT
}

func NewEnv() *Env {
	return &Env{
		names:    map[yices2.TermT]string{},
		vars:     map[string]yices2.TermT{},
		varTypes: map[string]smt.Type{},
		decls:    map[string]smt.FunctionDeclaration{},
		declFns:  map[string]yices2.TermT{},
	}
}

func yicesErr(op string) error {
	return errors.Errorf("%s: %s", op, yices2.ErrorString())
}

func checkTerm(t yices2.TermT, op string) (yices2.TermT, error) {
	if t == yices2.NullTerm {
		return yices2.NullTerm, yicesErr(op)
	}
	return t, nil
}

func (e *Env) typeFor(typ smt.Type) (yices2.TypeT, error) {
	switch typ.Kind {
	case smt.BooleanTypeKind:
		return yices2.BoolType(), nil
	case smt.BitvectorTypeKind:
		return yices2.BvType(uint32(typ.Width)), nil
	}
	return yices2.TypeT(0), errors.Wrapf(smt.ErrUnsupportedTheory,
		"yices environment has no %s sort", typ)
}

// TypeOf implements smt.TermBackend. Only boolean and bitvector terms exist
// in this environment; anything else, such as a function handle passed off
// as a formula, is a caller bug.
func (e *Env) TypeOf(t yices2.TermT) smt.Type {
	typ := yices2.TypeOfTerm(t)
	if yices2.TypeIsBitvector(typ) {
		return smt.BitvectorType(int(yices2.TermBitsize(t)))
	}
	if !yices2.TypeIsBool(typ) {
		panic(errors.Errorf("term %s is not a formula", yices2.TermToString(t, 120, 1, 0)))
	}
	return smt.BooleanType
}

// MakeVariable implements smt.TermBackend. Same name and type return the same
// term; a name clash across types is rejected.
func (e *Env) MakeVariable(typ smt.Type, name string) (yices2.TermT, error) {
	if name == "" {
		return yices2.NullTerm, errors.Wrap(smt.ErrInvalidArgument, "variable name is empty")
	}
	if existing, ok := e.varTypes[name]; ok {
		if !existing.Equals(typ) {
			return yices2.NullTerm, errors.Wrapf(smt.ErrInvalidArgument,
				"symbol %q already declared with type %s", name, existing)
		}
		return e.vars[name], nil
	}
	ytyp, err := e.typeFor(typ)
	if err != nil {
		return yices2.NullTerm, err
	}
	term := yices2.NewUninterpretedTerm(ytyp)
	if term == yices2.NullTerm {
		return yices2.NullTerm, yicesErr("new uninterpreted term")
	}
	yices2.SetTermName(term, name)
	e.vars[name] = term
	e.varTypes[name] = typ
	e.names[term] = name
	return term, nil
}

// Name implements smt.TermBackend.
func (e *Env) Name(t yices2.TermT) string { return e.names[t] }

// Decompose implements smt.TermBackend. Yices exposes limited term
// introspection through this binding, so only constants and variables are
// classified; composite terms report as unsupported.
func (e *Env) Decompose(t yices2.TermT) (smt.TermShape[yices2.TermT], error) {
	switch yices2.TermConstructor(t) {
	case yices2.TrmCnstrBoolConstant:
		var v int32
		if code := yices2.BoolConstValue(t, &v); code != 0 {
			return smt.TermShape[yices2.TermT]{}, yicesErr("bool constant value")
		}
		return smt.TermShape[yices2.TermT]{Kind: smt.ConstantShape, Value: v != 0}, nil
	case yices2.TrmCnstrBvConstant:
		width := int(yices2.TermBitsize(t))
		bits := make([]int32, width)
		if code := yices2.BvConstValue(t, bits); code != 0 {
			return smt.TermShape[yices2.TermT]{}, yicesErr("bitvector constant value")
		}
		value := new(big.Int)
		for i := 0; i < width; i++ {
			if bits[i] != 0 {
				value.SetBit(value, i, 1)
			}
		}
		return smt.TermShape[yices2.TermT]{Kind: smt.ConstantShape, Value: value}, nil
	case yices2.TrmCnstrUninterpretedTerm, yices2.TrmCnstrVariable:
		return smt.TermShape[yices2.TermT]{Kind: smt.FreeVariableShape, Name: e.names[t]}, nil
	}
	return smt.TermShape[yices2.TermT]{}, errors.Wrap(smt.ErrUnsupportedOperation,
		"yices terms cannot be decomposed beyond constants and variables")
}

// ReplaceArgs implements smt.TermBackend.
func (e *Env) ReplaceArgs(t yices2.TermT, args []yices2.TermT) (yices2.TermT, error) {
	if len(args) == 0 {
		return t, nil
	}
	return yices2.NullTerm, errors.Wrap(smt.ErrUnsupportedOperation,
		"yices terms cannot be rebuilt through introspection")
}

// Dump implements smt.TermBackend. Symbols stay registered in the global
// yices table, so the output parses back without explicit declarations.
func (e *Env) Dump(t yices2.TermT) (string, error) {
	return yices2.TermToString(t, 512, 30, 0), nil
}

// Parse implements smt.TermBackend.
func (e *Env) Parse(s string) (yices2.TermT, error) {
	t := yices2.ParseTerm(s)
	if t == yices2.NullTerm {
		return yices2.NullTerm, yicesErr("parse term")
	}
	return t, nil
}

// Import implements smt.Importer. Yices terms live in one process-global
// table, so a term built through another yices environment is already valid
// here.
func (e *Env) Import(source any, term any) (yices2.TermT, bool) {
	if _, ok := source.(*Env); !ok {
		return yices2.NullTerm, false
	}
	t, ok := term.(yices2.TermT)
	if !ok {
		return yices2.NullTerm, false
	}
	return t, true
}
