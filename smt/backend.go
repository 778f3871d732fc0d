package smt

import "context"

// ShapeKind tags TermShape.
type ShapeKind int

const (
	// ConstantShape is a literal value (boolean, numeral, bitvector or
	// floating-point constant).
	ConstantShape ShapeKind = iota
	// FreeVariableShape is a free variable or a nullary UF application.
	FreeVariableShape
	// BoundVariableShape is a quantifier-bound variable.
	BoundVariableShape
	// FuncAppShape is a function application with at least one argument.
	FuncAppShape
	// QuantifierShape is a forall/exists node.
	QuantifierShape
)

// TermShape is the one-level decomposition of a native term. Kind selects
// which fields are meaningful.
type TermShape[T comparable] struct {
	Kind ShapeKind

	// Constant payload: bool, *big.Rat or *big.Int depending on the type.
	Value any

	// Variable name (free variables) or de Bruijn index (bound variables).
	Name  string
	Index int

	// Function application head and arguments.
	Decl FuncDecl
	Args []T

	// Quantifier payload.
	Quantifier Quantifier
	Bound      []T
	Body       T
}

// TermBackend is the minimal surface a solver binding must provide. T is the
// native term handle; it must be usable as a map key.
type TermBackend[T comparable] interface {
	// TypeOf reports the formula type of a term.
	TypeOf(t T) Type

	// MakeVariable creates a free variable of the given type. Repeated calls
	// with the same name and type return the same term.
	MakeVariable(typ Type, name string) (T, error)

	// Name returns the display name of a variable or the head symbol of an
	// application.
	Name(t T) string

	// Decompose classifies one level of a term.
	Decompose(t T) (TermShape[T], error)

	// ReplaceArgs rebuilds an application with new arguments. For quantified
	// terms args holds exactly the new body. Argument types must match the
	// original application.
	ReplaceArgs(t T, args []T) (T, error)

	// Dump serializes a boolean term including declarations of its symbols.
	Dump(t T) (string, error)

	// Parse deserializes a boolean term produced by Dump, possibly by a
	// different environment.
	Parse(s string) (T, error)
}

// Simplifier is an optional backend capability: native simplification.
type Simplifier[T comparable] interface {
	Simplify(t T) (T, error)
}

// Substitutor is an optional backend capability: native parallel substitution.
type Substitutor[T comparable] interface {
	Substitute(t T, from, to []T) (T, error)
}

// TacticApplier is an optional backend capability: native tactic application.
// ok reports whether the backend handles the tactic at all.
type TacticApplier[T comparable] interface {
	ApplyTactic(ctx context.Context, t T, tactic Tactic) (out T, ok bool, err error)
}

// Importer is an optional backend capability: direct import of a term that
// belongs to another environment of the same technology, without a textual
// round trip. ok reports whether the term was recognized.
type Importer[T comparable] interface {
	Import(source any, term any) (T, bool)
}

// BooleanBackend builds boolean terms.
type BooleanBackend[T comparable] interface {
	MakeBoolean(value bool) T
	MakeVariable(name string) (T, error)
	Not(t T) (T, error)
	And(ts []T) (T, error)
	Or(ts []T) (T, error)
	Xor(a, b T) (T, error)
	Implication(a, b T) (T, error)
	Equivalence(a, b T) (T, error)
	IfThenElse(cond, then, els T) (T, error)
	IsTrue(t T) bool
	IsFalse(t T) bool
}

// NumeralBackend builds integer or rational terms; one instance serves one
// result type. Linear* handles the case where one operand is a literal and
// must always succeed for it; ok=false requests the UF fallback. NonLinear*
// either builds the real operation or fails with ErrNonLinearArithmetic.
type NumeralBackend[T comparable] interface {
	MakeNumber(value int64) T
	MakeNumberBig(num, den any) (T, error)
	MakeNumberFromString(repr string) (T, error)
	MakeVariable(name string) (T, error)
	IsNumeral(t T) bool

	Negate(t T) (T, error)
	Add(a, b T) (T, error)
	Subtract(a, b T) (T, error)

	LinearMultiply(a, b T) (T, bool)
	NonLinearMultiply(a, b T) (T, error)
	LinearDivide(a, b T) (T, bool)
	NonLinearDivide(a, b T) (T, error)
	LinearModulo(a, b T) (T, bool)
	NonLinearModulo(a, b T) (T, error)

	// ModularCongruence builds a == b (mod n). Backends for theories without
	// modular reasoning may return a true constant.
	ModularCongruence(a, b T, n int64) (T, error)

	Equal(a, b T) (T, error)
	GreaterThan(a, b T) (T, error)
	GreaterOrEquals(a, b T) (T, error)
	LessThan(a, b T) (T, error)
	LessOrEquals(a, b T) (T, error)
}

// BitvectorBackend builds fixed-width bitvector terms.
type BitvectorBackend[T comparable] interface {
	MakeBitvector(width int, value any) (T, error)
	MakeVariable(width int, name string) (T, error)

	Negate(t T) (T, error)
	Add(a, b T) (T, error)
	Subtract(a, b T) (T, error)
	Multiply(a, b T) (T, error)
	Divide(a, b T, signed bool) (T, error)
	Remainder(a, b T, signed bool) (T, error)

	Not(t T) (T, error)
	And(a, b T) (T, error)
	Or(a, b T) (T, error)
	Xor(a, b T) (T, error)

	ShiftLeft(t, shift T) (T, error)
	ShiftRight(t, shift T, signed bool) (T, error)
	Concat(a, b T) (T, error)
	Extract(t T, msb, lsb int) (T, error)
	Extend(t T, bits int, signed bool) (T, error)

	Equal(a, b T) (T, error)
	GreaterThan(a, b T, signed bool) (T, error)
	GreaterOrEquals(a, b T, signed bool) (T, error)
	LessThan(a, b T, signed bool) (T, error)
	LessOrEquals(a, b T, signed bool) (T, error)
}

// FloatingPointBackend builds IEEE floating-point terms.
type FloatingPointBackend[T comparable] interface {
	MakeNumber(value float64, exponent, mantissa int) (T, error)
	MakeVariable(exponent, mantissa int, name string) (T, error)

	Negate(t T) (T, error)
	Add(a, b T) (T, error)
	Subtract(a, b T) (T, error)
	Multiply(a, b T) (T, error)
	Divide(a, b T) (T, error)

	// Equal is FP-semantics equality (NaN != NaN).
	Equal(a, b T) (T, error)
	GreaterThan(a, b T) (T, error)
	LessThan(a, b T) (T, error)
}

// ArrayBackend builds array terms.
type ArrayBackend[T comparable] interface {
	MakeArray(index, element Type, name string) (T, error)
	Select(array, index T) (T, error)
	Store(array, index, value T) (T, error)
	Equivalence(a, b T) (T, error)
}

// QuantifiedBackend builds quantified terms.
type QuantifiedBackend[T comparable] interface {
	// BoundVariable creates the variable bound at the given de Bruijn index.
	BoundVariable(typ Type, name string, index int) (T, error)
	MakeQuantifier(q Quantifier, bound []T, body T) (T, error)
}

// FunctionBackend declares and applies uninterpreted functions.
type FunctionBackend[T comparable] interface {
	DeclareFunction(name string, result Type, args []Type) (FunctionDeclaration, error)
	ApplyFunction(decl FunctionDeclaration, args []T) (T, error)
}
