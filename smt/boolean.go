package smt

// BooleanManager builds boolean formulas over a BooleanBackend.
type BooleanManager[T comparable] struct {
	creator *Creator[T]
	backend BooleanBackend[T]
}

func NewBooleanManager[T comparable](creator *Creator[T], backend BooleanBackend[T]) *BooleanManager[T] {
	return &BooleanManager[T]{creator: creator, backend: backend}
}

func (m *BooleanManager[T]) Creator() *Creator[T] { return m.creator }

func (m *BooleanManager[T]) wrap(t T) BooleanFormula {
	return m.creator.EncapsulateBoolean(t)
}

func (m *BooleanManager[T]) MakeBoolean(value bool) BooleanFormula {
	return m.wrap(m.backend.MakeBoolean(value))
}

func (m *BooleanManager[T]) MakeTrue() BooleanFormula  { return m.MakeBoolean(true) }
func (m *BooleanManager[T]) MakeFalse() BooleanFormula { return m.MakeBoolean(false) }

func (m *BooleanManager[T]) MakeVariable(name string) (BooleanFormula, error) {
	t, err := m.backend.MakeVariable(name)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BooleanManager[T]) Not(f BooleanFormula) (BooleanFormula, error) {
	t, err := m.backend.Not(m.creator.ExtractInfo(f))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BooleanManager[T]) And(fs ...BooleanFormula) (BooleanFormula, error) {
	ts := make([]T, len(fs))
	for i, f := range fs {
		ts[i] = m.creator.ExtractInfo(f)
	}
	t, err := m.backend.And(ts)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BooleanManager[T]) Or(fs ...BooleanFormula) (BooleanFormula, error) {
	ts := make([]T, len(fs))
	for i, f := range fs {
		ts[i] = m.creator.ExtractInfo(f)
	}
	t, err := m.backend.Or(ts)
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BooleanManager[T]) Xor(a, b BooleanFormula) (BooleanFormula, error) {
	t, err := m.backend.Xor(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BooleanManager[T]) Implication(a, b BooleanFormula) (BooleanFormula, error) {
	t, err := m.backend.Implication(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

func (m *BooleanManager[T]) Equivalence(a, b BooleanFormula) (BooleanFormula, error) {
	t, err := m.backend.Equivalence(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.wrap(t), nil
}

// IfThenElse builds a conditional over formulas of any single type. The
// branches must have the same type.
func (m *BooleanManager[T]) IfThenElse(cond BooleanFormula, then, els Formula) (Formula, error) {
	thenType := m.creator.GetFormulaType(then)
	if !thenType.Equals(m.creator.GetFormulaType(els)) {
		return nil, errInvalidf("if-then-else branches have different types %s and %s",
			thenType, m.creator.GetFormulaType(els))
	}
	t, err := m.backend.IfThenElse(
		m.creator.ExtractInfo(cond), m.creator.ExtractInfo(then), m.creator.ExtractInfo(els))
	if err != nil {
		return nil, err
	}
	return m.creator.Encapsulate(thenType, t), nil
}

func (m *BooleanManager[T]) IsTrue(f BooleanFormula) bool {
	return m.backend.IsTrue(m.creator.ExtractInfo(f))
}

func (m *BooleanManager[T]) IsFalse(f BooleanFormula) bool {
	return m.backend.IsFalse(m.creator.ExtractInfo(f))
}
