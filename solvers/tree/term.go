// Package tree is a pure-Go solver environment backed by a hash-consed term
// DAG. It carries no solving power of its own; it exists as the reference
// environment for building, inspecting, rewriting, dumping and parsing
// formulas, and as the interchange point for cross-environment translation.
package tree

import (
	"fmt"
	"math/big"
	"strings"

	"gosmt/smt"
)

type kind int

const (
	kindBoolConst kind = iota
	kindNumConst
	kindBvConst
	kindFpConst
	kindFreeVar
	kindBoundVar
	kindApp
	kindQuant
)

// Node is one hash-consed term. Structurally equal terms share one node per
// environment, so node pointers double as cheap identity keys.
type Node struct {
	id   uint64
	kind kind
	typ  smt.Type
	name string

	bval bool
	num  *big.Rat
	bv   *big.Int
	fval float64

	decl smt.FuncDecl
	args []*Node

	quant smt.Quantifier
	bound []*Node
	body  *Node

	index int
}

// ID is the environment-unique node number.
func (n *Node) ID() uint64 { return n.id }

func (n *Node) String() string {
	var sb strings.Builder
	printTerm(&sb, n)
	return sb.String()
}

// Env is one term environment. Nodes of different environments must not be
// mixed; translation goes through the manager layer.
type Env struct {
	interned map[string]*Node
	symbols  map[string]smt.Type
	decls    map[string]smt.FunctionDeclaration
	nextID   uint64
}

func NewEnv() *Env {
	return &Env{
		interned: map[string]*Node{},
		symbols:  map[string]smt.Type{},
		decls:    map[string]smt.FunctionDeclaration{},
	}
}

// intern returns the existing node for key or stores the one built by build.
func (e *Env) intern(key string, build func() *Node) *Node {
	if n, ok := e.interned[key]; ok {
		return n
	}
	n := build()
	e.nextID++
	n.id = e.nextID
	e.interned[key] = n
	return n
}

func (e *Env) boolConst(v bool) *Node {
	return e.intern(fmt.Sprintf("b|%v", v), func() *Node {
		return &Node{kind: kindBoolConst, typ: smt.BooleanType, bval: v}
	})
}

func (e *Env) numConst(typ smt.Type, v *big.Rat) *Node {
	return e.intern(fmt.Sprintf("n|%s|%s", typ, v.RatString()), func() *Node {
		return &Node{kind: kindNumConst, typ: typ, num: new(big.Rat).Set(v)}
	})
}

func (e *Env) bvConst(width int, v *big.Int) *Node {
	// Normalize to the unsigned value modulo 2^width.
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width))
	norm := new(big.Int).Mod(v, mod)
	return e.intern(fmt.Sprintf("v|%d|%s", width, norm.String()), func() *Node {
		return &Node{kind: kindBvConst, typ: smt.BitvectorType(width), bv: norm}
	})
}

func (e *Env) fpConst(typ smt.Type, v float64) *Node {
	return e.intern(fmt.Sprintf("f|%s|%x", typ, v), func() *Node {
		return &Node{kind: kindFpConst, typ: typ, fval: v}
	})
}

func (e *Env) freeVar(typ smt.Type, name string) (*Node, error) {
	if name == "" {
		return nil, errInvalid("variable name is empty")
	}
	if existing, ok := e.symbols[name]; ok && !existing.Equals(typ) {
		return nil, errInvalid("symbol %q already declared with type %s", name, existing)
	}
	e.symbols[name] = typ
	return e.intern(fmt.Sprintf("x|%s|%s", typ, name), func() *Node {
		return &Node{kind: kindFreeVar, typ: typ, name: name}
	}), nil
}

func (e *Env) boundVar(typ smt.Type, name string, index int) *Node {
	return e.intern(fmt.Sprintf("d|%s|%s|%d", typ, name, index), func() *Node {
		return &Node{kind: kindBoundVar, typ: typ, name: name, index: index}
	})
}

func (e *Env) app(decl smt.FuncDecl, typ smt.Type, args ...*Node) *Node {
	var sb strings.Builder
	sb.WriteString("a|")
	sb.WriteString(decl.Name)
	sb.WriteString("|")
	sb.WriteString(typ.String())
	for _, a := range args {
		fmt.Fprintf(&sb, "|%d", a.id)
	}
	return e.intern(sb.String(), func() *Node {
		return &Node{kind: kindApp, typ: typ, name: decl.Name, decl: decl, args: args}
	})
}

func (e *Env) quantNode(q smt.Quantifier, bound []*Node, body *Node) *Node {
	var sb strings.Builder
	fmt.Fprintf(&sb, "q|%s", q)
	for _, b := range bound {
		fmt.Fprintf(&sb, "|%d", b.id)
	}
	fmt.Fprintf(&sb, "|%d", body.id)
	return e.intern(sb.String(), func() *Node {
		return &Node{kind: kindQuant, typ: smt.BooleanType, quant: q, bound: bound, body: body}
	})
}

// adopt deep-copies a node of another environment into this one, re-interning
// every subterm.
func (e *Env) adopt(n *Node) (*Node, error) {
	switch n.kind {
	case kindBoolConst:
		return e.boolConst(n.bval), nil
	case kindNumConst:
		return e.numConst(n.typ, n.num), nil
	case kindBvConst:
		return e.bvConst(n.typ.Width, n.bv), nil
	case kindFpConst:
		return e.fpConst(n.typ, n.fval), nil
	case kindFreeVar:
		return e.freeVar(n.typ, n.name)
	case kindBoundVar:
		return e.boundVar(n.typ, n.name, n.index), nil
	case kindApp:
		args := make([]*Node, len(n.args))
		for i, a := range n.args {
			adopted, err := e.adopt(a)
			if err != nil {
				return nil, err
			}
			args[i] = adopted
		}
		if n.decl.Kind == smt.UFKind {
			if _, err := e.declareFunction(n.decl.Name, n.typ, argTypes(args)); err != nil {
				return nil, err
			}
		}
		return e.app(n.decl, n.typ, args...), nil
	case kindQuant:
		bound := make([]*Node, len(n.bound))
		for i, b := range n.bound {
			adopted, err := e.adopt(b)
			if err != nil {
				return nil, err
			}
			bound[i] = adopted
		}
		body, err := e.adopt(n.body)
		if err != nil {
			return nil, err
		}
		return e.quantNode(n.quant, bound, body), nil
	}
	return nil, errInvalid("unknown node kind %d", n.kind)
}

func argTypes(args []*Node) []smt.Type {
	ts := make([]smt.Type, len(args))
	for i, a := range args {
		ts[i] = a.typ
	}
	return ts
}

func (e *Env) declareFunction(name string, result smt.Type, args []smt.Type) (smt.FunctionDeclaration, error) {
	if existing, ok := e.decls[name]; ok {
		if !existing.ResultType.Equals(result) || len(existing.ArgumentTypes) != len(args) {
			return smt.FunctionDeclaration{}, errInvalid("function %q already declared with a different signature", name)
		}
		for i, t := range existing.ArgumentTypes {
			if !t.Equals(args[i]) {
				return smt.FunctionDeclaration{}, errInvalid("function %q already declared with a different signature", name)
			}
		}
		return existing, nil
	}
	decl := smt.NewFunctionDeclaration(name, result, args, name)
	e.decls[name] = decl
	return decl, nil
}
