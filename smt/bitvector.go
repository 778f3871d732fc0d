package smt

import "math/big"

// BitvectorManager builds fixed-width bitvector formulas.
type BitvectorManager[T comparable] struct {
	creator *Creator[T]
	backend BitvectorBackend[T]
}

func NewBitvectorManager[T comparable](creator *Creator[T], backend BitvectorBackend[T]) *BitvectorManager[T] {
	return &BitvectorManager[T]{creator: creator, backend: backend}
}

func (m *BitvectorManager[T]) Creator() *Creator[T] { return m.creator }

func (m *BitvectorManager[T]) wrap(t T) BitvectorFormula {
	return bvFormula[T]{info: t}
}

func (m *BitvectorManager[T]) width(f BitvectorFormula) int {
	return m.creator.GetFormulaType(f).Width
}

// MakeBitvector builds a constant of the given width. value may be an int64
// or a *big.Int; it is truncated to the width in two's complement.
func (m *BitvectorManager[T]) MakeBitvector(width int, value any) (BitvectorFormula, error) {
	if width <= 0 {
		return nil, errInvalidf("bitvector width %d is not positive", width)
	}
	switch value.(type) {
	case int64, *big.Int:
	default:
		return nil, errInvalidf("bitvector value has unsupported type %T", value)
	}
	t, err := m.backend.MakeBitvector(width, value)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BitvectorManager[T]) MakeVariable(width int, name string) (BitvectorFormula, error) {
	if width <= 0 {
		return nil, errInvalidf("bitvector width %d is not positive", width)
	}
	t, err := m.backend.MakeVariable(width, name)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BitvectorManager[T]) Negate(f BitvectorFormula) (BitvectorFormula, error) {
	t, err := m.backend.Negate(m.creator.ExtractInfo(f))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BitvectorManager[T]) Add(a, b BitvectorFormula) (BitvectorFormula, error) {
	return m.binary(m.backend.Add, a, b)
}

func (m *BitvectorManager[T]) Subtract(a, b BitvectorFormula) (BitvectorFormula, error) {
	return m.binary(m.backend.Subtract, a, b)
}

func (m *BitvectorManager[T]) Multiply(a, b BitvectorFormula) (BitvectorFormula, error) {
	return m.binary(m.backend.Multiply, a, b)
}

func (m *BitvectorManager[T]) Divide(a, b BitvectorFormula, signed bool) (BitvectorFormula, error) {
	return m.binarySigned(m.backend.Divide, a, b, signed)
}

func (m *BitvectorManager[T]) Remainder(a, b BitvectorFormula, signed bool) (BitvectorFormula, error) {
	return m.binarySigned(m.backend.Remainder, a, b, signed)
}

func (m *BitvectorManager[T]) Not(f BitvectorFormula) (BitvectorFormula, error) {
	t, err := m.backend.Not(m.creator.ExtractInfo(f))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BitvectorManager[T]) And(a, b BitvectorFormula) (BitvectorFormula, error) {
	return m.binary(m.backend.And, a, b)
}

func (m *BitvectorManager[T]) Or(a, b BitvectorFormula) (BitvectorFormula, error) {
	return m.binary(m.backend.Or, a, b)
}

func (m *BitvectorManager[T]) Xor(a, b BitvectorFormula) (BitvectorFormula, error) {
	return m.binary(m.backend.Xor, a, b)
}

func (m *BitvectorManager[T]) ShiftLeft(f, shift BitvectorFormula) (BitvectorFormula, error) {
	return m.binary(m.backend.ShiftLeft, f, shift)
}

func (m *BitvectorManager[T]) ShiftRight(f, shift BitvectorFormula, signed bool) (BitvectorFormula, error) {
	return m.binarySigned(m.backend.ShiftRight, f, shift, signed)
}

func (m *BitvectorManager[T]) Concat(a, b BitvectorFormula) (BitvectorFormula, error) {
	t, err := m.backend.Concat(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

// Extract keeps the bits from msb down to lsb, both inclusive.
func (m *BitvectorManager[T]) Extract(f BitvectorFormula, msb, lsb int) (BitvectorFormula, error) {
	w := m.width(f)
	if lsb < 0 || msb < lsb || msb >= w {
		return nil, errInvalidf("extract [%d:%d] out of range for width %d", msb, lsb, w)
	}
	t, err := m.backend.Extract(m.creator.ExtractInfo(f), msb, lsb)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

// Extend widens the bitvector by the given number of bits, sign- or
// zero-extending.
func (m *BitvectorManager[T]) Extend(f BitvectorFormula, bits int, signed bool) (BitvectorFormula, error) {
	if bits < 0 {
		return nil, errInvalidf("extension by %d bits", bits)
	}
	t, err := m.backend.Extend(m.creator.ExtractInfo(f), bits, signed)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BitvectorManager[T]) Equal(a, b BitvectorFormula) (BooleanFormula, error) {
	if err := m.sameWidth(a, b); err != nil {
		return nil, err
	}
	t, err := m.backend.Equal(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}

func (m *BitvectorManager[T]) GreaterThan(a, b BitvectorFormula, signed bool) (BooleanFormula, error) {
	return m.comparison(m.backend.GreaterThan, a, b, signed)
}

func (m *BitvectorManager[T]) GreaterOrEquals(a, b BitvectorFormula, signed bool) (BooleanFormula, error) {
	return m.comparison(m.backend.GreaterOrEquals, a, b, signed)
}

func (m *BitvectorManager[T]) LessThan(a, b BitvectorFormula, signed bool) (BooleanFormula, error) {
	return m.comparison(m.backend.LessThan, a, b, signed)
}

func (m *BitvectorManager[T]) LessOrEquals(a, b BitvectorFormula, signed bool) (BooleanFormula, error) {
	return m.comparison(m.backend.LessOrEquals, a, b, signed)
}

func (m *BitvectorManager[T]) binary(op func(T, T) (T, error), a, b BitvectorFormula) (BitvectorFormula, error) {
	if err := m.sameWidth(a, b); err != nil {
		return nil, err
	}
	t, err := op(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BitvectorManager[T]) binarySigned(op func(T, T, bool) (T, error), a, b BitvectorFormula, signed bool) (BitvectorFormula, error) {
	if err := m.sameWidth(a, b); err != nil {
		return nil, err
	}
	t, err := op(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b), signed)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BitvectorManager[T]) comparison(op func(T, T, bool) (T, error), a, b BitvectorFormula, signed bool) (BooleanFormula, error) {
	if err := m.sameWidth(a, b); err != nil {
		return nil, err
	}
	t, err := op(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b), signed)
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}

func (m *BitvectorManager[T]) sameWidth(a, b BitvectorFormula) error {
	if wa, wb := m.width(a), m.width(b); wa != wb {
		return errInvalidf("bitvector widths differ: %d and %d", wa, wb)
	}
	return nil
}
