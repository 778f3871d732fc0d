package smt

// QuantifiedManager builds quantified boolean formulas.
type QuantifiedManager[T comparable] struct {
	creator *Creator[T]
	backend QuantifiedBackend[T]
}

func NewQuantifiedManager[T comparable](creator *Creator[T], backend QuantifiedBackend[T]) *QuantifiedManager[T] {
	return &QuantifiedManager[T]{creator: creator, backend: backend}
}

func (m *QuantifiedManager[T]) Creator() *Creator[T] { return m.creator }

// BoundVariable creates the variable bound at the given de Bruijn index for
// use inside a quantified body.
func (m *QuantifiedManager[T]) BoundVariable(typ Type, name string, index int) (Formula, error) {
	if index < 0 {
		return nil, errInvalidf("bound variable index %d is negative", index)
	}
	t, err := m.backend.BoundVariable(typ, name, index)
	if err != nil {
		return nil, err
	}
	return m.creator.Encapsulate(typ, t), nil
}

// MakeQuantifier binds the given free variables in body.
func (m *QuantifiedManager[T]) MakeQuantifier(q Quantifier, bound []Formula, body BooleanFormula) (BooleanFormula, error) {
	if len(bound) == 0 {
		return nil, errInvalidf("quantifier binds no variables")
	}
	t, err := m.backend.MakeQuantifier(q, m.creator.extractAll(bound), m.creator.ExtractInfo(body))
	if err != nil {
		return nil, err
	}
	return m.creator.EncapsulateBoolean(t), nil
}

func (m *QuantifiedManager[T]) Forall(bound []Formula, body BooleanFormula) (BooleanFormula, error) {
	return m.MakeQuantifier(Forall, bound, body)
}

func (m *QuantifiedManager[T]) Exists(bound []Formula, body BooleanFormula) (BooleanFormula, error) {
	return m.MakeQuantifier(Exists, bound, body)
}
