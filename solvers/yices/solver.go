package yices

import (
	"math/big"

	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"gosmt/smt"
)

// Status is the satisfiability verdict of a check.
type Status int

const (
	StatusUnknown Status = iota
	StatusSat
	StatusUnsat
)

func (s Status) String() string {
	switch s {
	case StatusSat:
		return "sat"
	case StatusUnsat:
		return "unsat"
	}
	return "unknown"
}

// Solver wraps one yices context. Assertions accumulate in the context;
// Push/Pop manage backtracking points.
type Solver struct {
	manager *smt.Manager[yices2.TermT]
	ctx     yices2.ContextT
}

func NewSolver(manager *smt.Manager[yices2.TermT]) *Solver {
	s := &Solver{
		manager: manager,
		ctx:     yices2.ContextT{},
	}
	yices2.InitContext(yices2.ConfigT{}, &s.ctx)
	return s
}

func (s *Solver) Assert(fs ...smt.BooleanFormula) error {
	terms := make([]yices2.TermT, len(fs))
	for i, f := range fs {
		terms[i] = s.manager.Creator().ExtractInfo(f)
	}
	if code := yices2.AssertFormulas(s.ctx, terms); code < 0 {
		return yicesErr("assert")
	}
	return nil
}

// Check decides the asserted formulas. A sat result carries a model; the
// caller owns it and must Close it.
func (s *Solver) Check() (Status, *Model, error) {
	status := yices2.CheckContext(s.ctx, yices2.ParamT{})
	switch status {
	case yices2.StatusSat:
		model := yices2.GetModel(s.ctx, 1)
		if model == nil {
			return StatusUnknown, nil, yicesErr("get model")
		}
		return StatusSat, &Model{manager: s.manager, model: model}, nil
	case yices2.StatusUnsat:
		return StatusUnsat, nil, nil
	case yices2.StatusInterrupted:
		return StatusUnknown, nil, errors.Wrap(smt.ErrInterrupted, "check")
	case yices2.StatusError:
		return StatusUnknown, nil, yicesErr("check")
	}
	log.Debugf("check returned status %v", status)
	return StatusUnknown, nil, nil
}

func (s *Solver) Push() error {
	if code := yices2.Push(s.ctx); code < 0 {
		return yicesErr("push")
	}
	return nil
}

func (s *Solver) Pop() error {
	if code := yices2.Pop(s.ctx); code < 0 {
		return yicesErr("pop")
	}
	return nil
}

// Model is a satisfying assignment.
type Model struct {
	manager *smt.Manager[yices2.TermT]
	model   *yices2.ModelT
}

func (m *Model) Close() {
	if m.model != nil {
		yices2.CloseModel(m.model)
		m.model = nil
	}
}

func (m *Model) String() string {
	return yices2.ModelToString(*m.model, 80, 30, 0)
}

// DefinedTerms lists the terms the model assigns values to.
func (m *Model) DefinedTerms() []smt.Formula {
	terms := yices2.ModelCollectDefinedTerms(*m.model)
	fs := make([]smt.Formula, len(terms))
	for i, t := range terms {
		fs[i] = m.manager.Creator().EncapsulateWithTypeOf(t)
	}
	return fs
}

// BooleanValue evaluates a boolean formula in the model.
func (m *Model) BooleanValue(f smt.BooleanFormula) (bool, error) {
	var v int32
	t := m.manager.Creator().ExtractInfo(f)
	if code := yices2.GetBoolValue(*m.model, t, &v); code != 0 {
		return false, yicesErr("boolean model value")
	}
	return v != 0, nil
}

// BitvectorValue evaluates a bitvector formula in the model as an unsigned
// integer.
func (m *Model) BitvectorValue(f smt.BitvectorFormula) (*big.Int, error) {
	t := m.manager.Creator().ExtractInfo(f)
	width := int(yices2.TermBitsize(t))
	bits := make([]int32, width)
	if code := yices2.GetBvValue(*m.model, t, bits); code != 0 {
		return nil, yicesErr("bitvector model value")
	}
	value := new(big.Int)
	for i := 0; i < width; i++ {
		if bits[i] != 0 {
			value.SetBit(value, i, 1)
		}
	}
	return value, nil
}
