package tree

import (
	"fmt"
	"math/big"
	"sort"
	"strings"

	"gosmt/smt"
)

func sortString(t smt.Type) string {
	switch t.Kind {
	case smt.BooleanTypeKind:
		return "Bool"
	case smt.IntegerTypeKind:
		return "Int"
	case smt.RationalTypeKind:
		return "Real"
	case smt.BitvectorTypeKind:
		return fmt.Sprintf("(_ BitVec %d)", t.Width)
	case smt.FloatingPointTypeKind:
		return fmt.Sprintf("(_ FloatingPoint %d %d)", t.Exponent, t.Mantissa)
	case smt.ArrayTypeKind:
		return fmt.Sprintf("(Array %s %s)", sortString(*t.Index), sortString(*t.Element))
	}
	return "Unknown"
}

type declaration struct {
	name   string
	result smt.Type
	args   []smt.Type
}

// printDeclarations emits one declare-fun per free variable and per
// uninterpreted function of the term, in name order.
func printDeclarations(sb *strings.Builder, n *Node) {
	decls := map[string]declaration{}
	collectDeclarations(n, decls, map[*Node]struct{}{})

	names := make([]string, 0, len(decls))
	for name := range decls {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		d := decls[name]
		sb.WriteString("(declare-fun ")
		sb.WriteString(name)
		sb.WriteString(" (")
		for i, a := range d.args {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(sortString(a))
		}
		sb.WriteString(") ")
		sb.WriteString(sortString(d.result))
		sb.WriteString(")\n")
	}
}

func collectDeclarations(n *Node, decls map[string]declaration, seen map[*Node]struct{}) {
	if _, ok := seen[n]; ok {
		return
	}
	seen[n] = struct{}{}
	switch n.kind {
	case kindFreeVar:
		decls[n.name] = declaration{name: n.name, result: n.typ}
	case kindApp:
		if n.decl.Kind == smt.UFKind {
			decls[n.decl.Name] = declaration{name: n.decl.Name, result: n.typ, args: argTypes(n.args)}
		}
		for _, a := range n.args {
			collectDeclarations(a, decls, seen)
		}
	case kindQuant:
		collectDeclarations(n.body, decls, seen)
	}
}

func printTerm(sb *strings.Builder, n *Node) {
	switch n.kind {
	case kindBoolConst:
		if n.bval {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}
	case kindNumConst:
		printNumeral(sb, n)
	case kindBvConst:
		fmt.Fprintf(sb, "(_ bv%s %d)", n.bv.String(), n.typ.Width)
	case kindFpConst:
		fmt.Fprintf(sb, "((_ to_fp %d %d) %v)", n.typ.Exponent, n.typ.Mantissa, n.fval)
	case kindFreeVar, kindBoundVar:
		sb.WriteString(n.name)
	case kindApp:
		sb.WriteString("(")
		sb.WriteString(n.decl.Name)
		for _, a := range n.args {
			sb.WriteString(" ")
			printTerm(sb, a)
		}
		sb.WriteString(")")
	case kindQuant:
		if n.quant == smt.Forall {
			sb.WriteString("(forall (")
		} else {
			sb.WriteString("(exists (")
		}
		for i, b := range n.bound {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(sb, "(%s %s)", b.name, sortString(b.typ))
		}
		sb.WriteString(") ")
		printTerm(sb, n.body)
		sb.WriteString(")")
	}
}

func printNumeral(sb *strings.Builder, n *Node) {
	if n.num.IsInt() {
		printInt(sb, n.num.Num())
		return
	}
	sb.WriteString("(/ ")
	printInt(sb, n.num.Num())
	fmt.Fprintf(sb, " %s)", n.num.Denom().String())
}

func printInt(sb *strings.Builder, v *big.Int) {
	if v.Sign() < 0 {
		fmt.Fprintf(sb, "(- %s)", new(big.Int).Neg(v).String())
		return
	}
	sb.WriteString(v.String())
}
