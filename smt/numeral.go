package smt

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// NumeralManager builds integer or rational formulas. F fixes the result
// formula interface so IntegerManager and RationalManager share one
// implementation.
//
// Multiply, Divide and Modulo dispatch three ways: if the deciding operand is
// a literal numeral the linear backend primitive is used; otherwise, with
// non-linear arithmetic enabled, the non-linear primitive; otherwise the
// operation is approximated by a binary uninterpreted function declared once
// per manager.
type NumeralManager[T comparable, F NumeralFormula] struct {
	creator   *Creator[T]
	backend   NumeralBackend[T]
	functions FunctionBackend[T]

	resultType          Type
	nonLinearArithmetic bool

	multUF FunctionDeclaration
	divUF  FunctionDeclaration
	modUF  FunctionDeclaration
}

func newNumeralManager[T comparable, F NumeralFormula](
	creator *Creator[T],
	backend NumeralBackend[T],
	functions FunctionBackend[T],
	resultType Type,
	nonLinearArithmetic bool,
) (*NumeralManager[T, F], error) {
	m := &NumeralManager[T, F]{
		creator:             creator,
		backend:             backend,
		functions:           functions,
		resultType:          resultType,
		nonLinearArithmetic: nonLinearArithmetic,
	}
	binary := []Type{resultType, resultType}
	var err error
	if m.multUF, err = functions.DeclareFunction(resultType.String()+"__*_", resultType, binary); err != nil {
		return nil, errors.Wrap(err, "declaring multiply fallback")
	}
	if m.divUF, err = functions.DeclareFunction(resultType.String()+"__/_", resultType, binary); err != nil {
		return nil, errors.Wrap(err, "declaring divide fallback")
	}
	if m.modUF, err = functions.DeclareFunction(resultType.String()+"__%_", resultType, binary); err != nil {
		return nil, errors.Wrap(err, "declaring modulo fallback")
	}
	return m, nil
}

func (m *NumeralManager[T, F]) Creator() *Creator[T] { return m.creator }

// ResultType is the numeral type this manager produces.
func (m *NumeralManager[T, F]) ResultType() Type { return m.resultType }

func (m *NumeralManager[T, F]) wrap(t T) F {
	return m.creator.Encapsulate(m.resultType, t).(F)
}

func (m *NumeralManager[T, F]) MakeNumberInt64(value int64) F {
	return m.wrap(m.backend.MakeNumber(value))
}

func (m *NumeralManager[T, F]) MakeNumberBig(value *big.Int) (F, error) {
	var zero F
	t, err := m.backend.MakeNumberBig(value, nil)
	if err != nil {
		return zero, err
	}
	return m.wrap(t), nil
}

// MakeNumber parses a decimal string, including fractional representations
// like "1.25". For integer managers a fractional value x.y becomes the term
// DIV(xy, 10^scale) so the numeral keeps its exact value.
func (m *NumeralManager[T, F]) MakeNumber(repr string) (F, error) {
	var zero F
	t, err := m.backend.MakeNumberFromString(repr)
	if err != nil {
		return zero, errors.Wrapf(err, "parsing numeral %q", repr)
	}
	return m.wrap(t), nil
}

// MakeNumberFloat64 goes through the value's shortest decimal form, so a
// fractional value on an integer manager takes the same DIV encoding as
// MakeNumber.
func (m *NumeralManager[T, F]) MakeNumberFloat64(value float64) (F, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		var zero F
		return zero, errInvalidf("numeral value %v is not finite", value)
	}
	return m.MakeNumber(strconv.FormatFloat(value, 'f', -1, 64))
}

func (m *NumeralManager[T, F]) MakeNumberRat(value *big.Rat) (F, error) {
	var zero F
	t, err := m.backend.MakeNumberBig(value.Num(), value.Denom())
	if err != nil {
		return zero, err
	}
	return m.wrap(t), nil
}

func (m *NumeralManager[T, F]) MakeVariable(name string) (F, error) {
	var zero F
	t, err := m.backend.MakeVariable(name)
	if err != nil {
		return zero, err
	}
	return m.wrap(t), nil
}

func (m *NumeralManager[T, F]) IsNumeral(f F) bool {
	return m.backend.IsNumeral(m.creator.ExtractInfo(f))
}

func (m *NumeralManager[T, F]) Negate(f F) (F, error) {
	var zero F
	t, err := m.backend.Negate(m.creator.ExtractInfo(f))
	if err != nil {
		return zero, err
	}
	return m.wrap(t), nil
}

func (m *NumeralManager[T, F]) Add(a, b F) (F, error) {
	var zero F
	t, err := m.backend.Add(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return zero, err
	}
	return m.wrap(t), nil
}

func (m *NumeralManager[T, F]) Subtract(a, b F) (F, error) {
	var zero F
	t, err := m.backend.Subtract(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return zero, err
	}
	return m.wrap(t), nil
}

// Sum folds the operands left to right starting from zero.
func (m *NumeralManager[T, F]) Sum(fs []F) (F, error) {
	acc := m.backend.MakeNumber(0)
	for _, f := range fs {
		next, err := m.backend.Add(acc, m.creator.ExtractInfo(f))
		if err != nil {
			var zero F
			return zero, err
		}
		acc = next
	}
	return m.wrap(acc), nil
}

// Multiply is linear when either operand is a literal numeral; the check is
// on the operands as given, so a non-literal term that happens to evaluate to
// a constant still counts as non-linear.
func (m *NumeralManager[T, F]) Multiply(a, b F) (F, error) {
	var zero F
	t1, t2 := m.creator.ExtractInfo(a), m.creator.ExtractInfo(b)
	if m.backend.IsNumeral(t1) || m.backend.IsNumeral(t2) {
		if t, ok := m.backend.LinearMultiply(t1, t2); ok {
			return m.wrap(t), nil
		}
		return m.ufApply(m.multUF, t1, t2)
	}
	if m.nonLinearArithmetic {
		t, err := m.backend.NonLinearMultiply(t1, t2)
		if err != nil {
			return zero, err
		}
		return m.wrap(t), nil
	}
	return m.ufApply(m.multUF, t1, t2)
}

// Divide is linear when the divisor is a literal numeral.
func (m *NumeralManager[T, F]) Divide(a, b F) (F, error) {
	var zero F
	t1, t2 := m.creator.ExtractInfo(a), m.creator.ExtractInfo(b)
	if m.backend.IsNumeral(t2) {
		if t, ok := m.backend.LinearDivide(t1, t2); ok {
			return m.wrap(t), nil
		}
		return m.ufApply(m.divUF, t1, t2)
	}
	if m.nonLinearArithmetic {
		t, err := m.backend.NonLinearDivide(t1, t2)
		if err != nil {
			return zero, err
		}
		return m.wrap(t), nil
	}
	return m.ufApply(m.divUF, t1, t2)
}

// Modulo is linear when the divisor is a literal numeral.
func (m *NumeralManager[T, F]) Modulo(a, b F) (F, error) {
	var zero F
	t1, t2 := m.creator.ExtractInfo(a), m.creator.ExtractInfo(b)
	if m.backend.IsNumeral(t2) {
		if t, ok := m.backend.LinearModulo(t1, t2); ok {
			return m.wrap(t), nil
		}
		return m.ufApply(m.modUF, t1, t2)
	}
	if m.nonLinearArithmetic {
		t, err := m.backend.NonLinearModulo(t1, t2)
		if err != nil {
			return zero, err
		}
		return m.wrap(t), nil
	}
	return m.ufApply(m.modUF, t1, t2)
}

func (m *NumeralManager[T, F]) ufApply(decl FunctionDeclaration, a, b T) (F, error) {
	var zero F
	t, err := m.functions.ApplyFunction(decl, []T{a, b})
	if err != nil {
		return zero, errors.Wrapf(err, "applying %s fallback", decl.Name)
	}
	return m.wrap(t), nil
}

// ModularCongruence builds a == b (mod n). n must be positive.
func (m *NumeralManager[T, F]) ModularCongruence(a, b F, n int64) (BooleanFormula, error) {
	if n <= 0 {
		return nil, errInvalidf("modulus %d is not positive", n)
	}
	t, err := m.backend.ModularCongruence(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b), n)
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}

func (m *NumeralManager[T, F]) Equal(a, b F) (BooleanFormula, error) {
	return m.compare(m.backend.Equal, a, b)
}

func (m *NumeralManager[T, F]) GreaterThan(a, b F) (BooleanFormula, error) {
	return m.compare(m.backend.GreaterThan, a, b)
}

func (m *NumeralManager[T, F]) GreaterOrEquals(a, b F) (BooleanFormula, error) {
	return m.compare(m.backend.GreaterOrEquals, a, b)
}

func (m *NumeralManager[T, F]) LessThan(a, b F) (BooleanFormula, error) {
	return m.compare(m.backend.LessThan, a, b)
}

func (m *NumeralManager[T, F]) LessOrEquals(a, b F) (BooleanFormula, error) {
	return m.compare(m.backend.LessOrEquals, a, b)
}

func (m *NumeralManager[T, F]) compare(op func(T, T) (T, error), a, b F) (BooleanFormula, error) {
	t, err := op(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}

// IntegerManager builds integer formulas.
type IntegerManager[T comparable] struct {
	*NumeralManager[T, IntegerFormula]
}

func NewIntegerManager[T comparable](
	creator *Creator[T], backend NumeralBackend[T], functions FunctionBackend[T],
	nonLinearArithmetic bool,
) (*IntegerManager[T], error) {
	inner, err := newNumeralManager[T, IntegerFormula](creator, backend, functions, IntegerType, nonLinearArithmetic)
	if err != nil {
		return nil, err
	}
	return &IntegerManager[T]{NumeralManager: inner}, nil
}

// RationalManager builds rational formulas.
type RationalManager[T comparable] struct {
	*NumeralManager[T, RationalFormula]
}

func NewRationalManager[T comparable](
	creator *Creator[T], backend NumeralBackend[T], functions FunctionBackend[T],
	nonLinearArithmetic bool,
) (*RationalManager[T], error) {
	inner, err := newNumeralManager[T, RationalFormula](creator, backend, functions, RationalType, nonLinearArithmetic)
	if err != nil {
		return nil, err
	}
	return &RationalManager[T]{NumeralManager: inner}, nil
}

// DecimalAsInteger turns a decimal string into an integer term, encoding a
// fractional value x.y as DIV(xy, 10^scale). Backends without fractional
// integer literals use it from MakeNumberFromString.
func DecimalAsInteger[T comparable](b NumeralBackend[T], repr string) (T, error) {
	var zero T
	dot := strings.IndexByte(repr, '.')
	if dot < 0 {
		i, ok := new(big.Int).SetString(repr, 10)
		if !ok {
			return zero, errInvalidf("cannot parse numeral %q", repr)
		}
		return b.MakeNumberBig(i, nil)
	}
	frac := repr[dot+1:]
	digits := repr[:dot] + frac
	num, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return zero, errInvalidf("cannot parse numeral %q", repr)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(len(frac))), nil)
	numTerm, err := b.MakeNumberBig(num, nil)
	if err != nil {
		return zero, err
	}
	denTerm, err := b.MakeNumberBig(scale, nil)
	if err != nil {
		return zero, err
	}
	t, ok := b.LinearDivide(numTerm, denTerm)
	if !ok {
		return zero, errors.Wrapf(ErrUnsupportedOperation, "dividing decimal %q by its scale", repr)
	}
	return t, nil
}
