package smt

// ArrayManager builds array formulas with select/store semantics.
type ArrayManager[T comparable] struct {
	creator *Creator[T]
	backend ArrayBackend[T]
}

func NewArrayManager[T comparable](creator *Creator[T], backend ArrayBackend[T]) *ArrayManager[T] {
	return &ArrayManager[T]{creator: creator, backend: backend}
}

func (m *ArrayManager[T]) Creator() *Creator[T] { return m.creator }

func (m *ArrayManager[T]) MakeArray(name string, index, element Type) (ArrayFormula, error) {
	t, err := m.backend.MakeArray(index, element, name)
	if err != nil {
		return nil, err
	}
	return arrFormula[T]{info: t}, nil
}

// Select reads the element stored at index.
func (m *ArrayManager[T]) Select(array ArrayFormula, index Formula) (Formula, error) {
	typ := m.creator.GetFormulaType(array)
	if !m.creator.GetFormulaType(index).Equals(*typ.Index) {
		return nil, errInvalidf("array index has type %s, want %s",
			m.creator.GetFormulaType(index), typ.Index)
	}
	t, err := m.backend.Select(m.creator.ExtractInfo(array), m.creator.ExtractInfo(index))
	if err != nil {
		return nil, err
	}
	return m.creator.Encapsulate(*typ.Element, t), nil
}

// Store returns a new array equal to the input except at index.
func (m *ArrayManager[T]) Store(array ArrayFormula, index, value Formula) (ArrayFormula, error) {
	typ := m.creator.GetFormulaType(array)
	if !m.creator.GetFormulaType(index).Equals(*typ.Index) {
		return nil, errInvalidf("array index has type %s, want %s",
			m.creator.GetFormulaType(index), typ.Index)
	}
	if !m.creator.GetFormulaType(value).Equals(*typ.Element) {
		return nil, errInvalidf("array element has type %s, want %s",
			m.creator.GetFormulaType(value), typ.Element)
	}
	t, err := m.backend.Store(
		m.creator.ExtractInfo(array), m.creator.ExtractInfo(index), m.creator.ExtractInfo(value))
	if err != nil {
		return nil, err
	}
	return arrFormula[T]{info: t}, nil
}

// Equivalence is extensional array equality.
func (m *ArrayManager[T]) Equivalence(a, b ArrayFormula) (BooleanFormula, error) {
	ta, tb := m.creator.GetFormulaType(a), m.creator.GetFormulaType(b)
	if !ta.Equals(tb) {
		return nil, errInvalidf("array types differ: %s and %s", ta, tb)
	}
	t, err := m.backend.Equivalence(m.creator.ExtractInfo(a), m.creator.ExtractInfo(b))
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}
