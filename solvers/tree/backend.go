package tree

import (
	"strings"

	"github.com/pkg/errors"

	"gosmt/smt"
)

func errInvalid(format string, args ...any) error {
	return errors.Wrapf(smt.ErrInvalidArgument, format, args...)
}

// TypeOf implements smt.TermBackend.
func (e *Env) TypeOf(n *Node) smt.Type { return n.typ }

// MakeVariable implements smt.TermBackend.
func (e *Env) MakeVariable(typ smt.Type, name string) (*Node, error) {
	return e.freeVar(typ, name)
}

// Name implements smt.TermBackend.
func (e *Env) Name(n *Node) string { return n.name }

// Decompose implements smt.TermBackend.
func (e *Env) Decompose(n *Node) (smt.TermShape[*Node], error) {
	switch n.kind {
	case kindBoolConst:
		return smt.TermShape[*Node]{Kind: smt.ConstantShape, Value: n.bval}, nil
	case kindNumConst:
		return smt.TermShape[*Node]{Kind: smt.ConstantShape, Value: n.num}, nil
	case kindBvConst:
		return smt.TermShape[*Node]{Kind: smt.ConstantShape, Value: n.bv}, nil
	case kindFpConst:
		return smt.TermShape[*Node]{Kind: smt.ConstantShape, Value: n.fval}, nil
	case kindFreeVar:
		return smt.TermShape[*Node]{Kind: smt.FreeVariableShape, Name: n.name}, nil
	case kindBoundVar:
		return smt.TermShape[*Node]{Kind: smt.BoundVariableShape, Name: n.name, Index: n.index}, nil
	case kindApp:
		return smt.TermShape[*Node]{Kind: smt.FuncAppShape, Decl: n.decl, Args: n.args}, nil
	case kindQuant:
		return smt.TermShape[*Node]{
			Kind: smt.QuantifierShape, Quantifier: n.quant, Bound: n.bound, Body: n.body,
		}, nil
	}
	return smt.TermShape[*Node]{}, errInvalid("unknown node kind %d", n.kind)
}

// ReplaceArgs implements smt.TermBackend. For quantified terms args must hold
// exactly the new body.
func (e *Env) ReplaceArgs(n *Node, args []*Node) (*Node, error) {
	switch n.kind {
	case kindApp:
		if len(args) != len(n.args) {
			return nil, errInvalid("application %s expects %d arguments, got %d",
				n.name, len(n.args), len(args))
		}
		for i, a := range args {
			if !a.typ.Equals(n.args[i].typ) {
				return nil, errInvalid("argument %d of %s has type %s, want %s",
					i, n.name, a.typ, n.args[i].typ)
			}
		}
		return e.app(n.decl, n.typ, args...), nil
	case kindQuant:
		if len(args) != 1 {
			return nil, errInvalid("quantifier rebuild expects one body argument, got %d", len(args))
		}
		if args[0].typ.Kind != smt.BooleanTypeKind {
			return nil, errInvalid("quantifier body has type %s, want Boolean", args[0].typ)
		}
		return e.quantNode(n.quant, n.bound, args[0]), nil
	}
	if len(args) == 0 {
		return n, nil
	}
	return nil, errInvalid("term %s takes no arguments", n.name)
}

// Import implements smt.Importer: terms of another tree environment are
// adopted directly, without a textual round trip.
func (e *Env) Import(source any, term any) (*Node, bool) {
	if _, ok := source.(*Env); !ok {
		return nil, false
	}
	n, ok := term.(*Node)
	if !ok {
		return nil, false
	}
	adopted, err := e.adopt(n)
	if err != nil {
		return nil, false
	}
	return adopted, true
}

// Simplify implements smt.Simplifier: bottom-up constant folding and a few
// local identities. The result is equivalent to the input.
func (e *Env) Simplify(n *Node) (*Node, error) {
	memo := map[*Node]*Node{}
	return e.simplify(n, memo)
}

func (e *Env) simplify(n *Node, memo map[*Node]*Node) (*Node, error) {
	if out, ok := memo[n]; ok {
		return out, nil
	}
	out := n
	switch n.kind {
	case kindApp:
		args := make([]*Node, len(n.args))
		changed := false
		for i, a := range n.args {
			s, err := e.simplify(a, memo)
			if err != nil {
				return nil, err
			}
			args[i] = s
			if s != a {
				changed = true
			}
		}
		out = e.simplifyApp(n, args, changed)
	case kindQuant:
		body, err := e.simplify(n.body, memo)
		if err != nil {
			return nil, err
		}
		if body != n.body {
			out = e.quantNode(n.quant, n.bound, body)
		}
	}
	memo[n] = out
	return out, nil
}

func (e *Env) simplifyApp(n *Node, args []*Node, changed bool) *Node {
	switch n.decl.Kind {
	case smt.NotKind:
		a := args[0]
		if a.kind == kindBoolConst {
			return e.boolConst(!a.bval)
		}
		if a.kind == kindApp && a.decl.Kind == smt.NotKind {
			return a.args[0]
		}
	case smt.AndKind:
		kept := args[:0:0]
		for _, a := range args {
			if a.kind == kindBoolConst {
				if !a.bval {
					return e.boolConst(false)
				}
				continue
			}
			kept = append(kept, a)
		}
		return e.rebuildVariadic(n, kept, true)
	case smt.OrKind:
		kept := args[:0:0]
		for _, a := range args {
			if a.kind == kindBoolConst {
				if a.bval {
					return e.boolConst(true)
				}
				continue
			}
			kept = append(kept, a)
		}
		return e.rebuildVariadic(n, kept, false)
	case smt.IteKind:
		if args[0].kind == kindBoolConst {
			if args[0].bval {
				return args[1]
			}
			return args[2]
		}
		if args[1] == args[2] {
			return args[1]
		}
	case smt.EqKind:
		if args[0] == args[1] {
			return e.boolConst(true)
		}
	case smt.AddKind, smt.SubKind, smt.MulKind:
		if len(args) == 2 && args[0].kind == kindNumConst && args[1].kind == kindNumConst {
			if folded, ok := e.foldArith(n.decl.Kind, n.typ, args[0], args[1]); ok {
				return folded
			}
		}
	}
	if changed {
		return e.app(n.decl, n.typ, args...)
	}
	return n
}

func (e *Env) rebuildVariadic(n *Node, kept []*Node, conjunction bool) *Node {
	switch len(kept) {
	case 0:
		return e.boolConst(conjunction)
	case 1:
		return kept[0]
	}
	return e.app(n.decl, n.typ, kept...)
}

// Dump implements smt.TermBackend: SMT-LIB style output with declarations of
// every symbol in the term.
func (e *Env) Dump(n *Node) (string, error) {
	if n.typ.Kind != smt.BooleanTypeKind {
		return "", errInvalid("can only dump boolean terms, got %s", n.typ)
	}
	var sb strings.Builder
	printDeclarations(&sb, n)
	sb.WriteString("(assert ")
	printTerm(&sb, n)
	sb.WriteString(")\n")
	return sb.String(), nil
}

// Parse implements smt.TermBackend.
func (e *Env) Parse(s string) (*Node, error) {
	return parseScript(e, s)
}
