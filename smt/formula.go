package smt

// Formula is an opaque handle for a term managed by a solver environment.
// Handles are plain values; two handles compare equal exactly when they wrap
// the same native term of the same environment.
type Formula interface {
	isFormula()
}

// BooleanFormula is a formula of boolean type.
type BooleanFormula interface {
	Formula
	isBoolean()
}

// NumeralFormula is a formula of integer or rational type.
type NumeralFormula interface {
	Formula
	isNumeral()
}

// IntegerFormula is a formula of integer type.
type IntegerFormula interface {
	NumeralFormula
	isInteger()
}

// RationalFormula is a formula of rational type.
type RationalFormula interface {
	NumeralFormula
	isRational()
}

// BitvectorFormula is a formula of fixed-width bitvector type.
type BitvectorFormula interface {
	Formula
	isBitvector()
}

// FloatingPointFormula is a formula of IEEE floating-point type.
type FloatingPointFormula interface {
	Formula
	isFloatingPoint()
}

// ArrayFormula is a formula of array type.
type ArrayFormula interface {
	Formula
	isArray()
}

type boolFormula[T comparable] struct{ info T }

func (boolFormula[T]) isFormula() {}
func (boolFormula[T]) isBoolean() {}

type intFormula[T comparable] struct{ info T }

func (intFormula[T]) isFormula() {}
func (intFormula[T]) isNumeral() {}
func (intFormula[T]) isInteger() {}

type ratFormula[T comparable] struct{ info T }

func (ratFormula[T]) isFormula()  {}
func (ratFormula[T]) isNumeral()  {}
func (ratFormula[T]) isRational() {}

type bvFormula[T comparable] struct{ info T }

func (bvFormula[T]) isFormula()   {}
func (bvFormula[T]) isBitvector() {}

type fpFormula[T comparable] struct{ info T }

func (fpFormula[T]) isFormula()       {}
func (fpFormula[T]) isFloatingPoint() {}

type arrFormula[T comparable] struct{ info T }

func (arrFormula[T]) isFormula() {}
func (arrFormula[T]) isArray()   {}
