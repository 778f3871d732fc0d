package smt

import "github.com/pkg/errors"

// FunctionManager declares and applies uninterpreted functions.
type FunctionManager[T comparable] struct {
	creator *Creator[T]
	backend FunctionBackend[T]
}

func NewFunctionManager[T comparable](creator *Creator[T], backend FunctionBackend[T]) *FunctionManager[T] {
	return &FunctionManager[T]{creator: creator, backend: backend}
}

func (m *FunctionManager[T]) Creator() *Creator[T] { return m.creator }

func (m *FunctionManager[T]) DeclareFunction(name string, result Type, args ...Type) (FunctionDeclaration, error) {
	if name == "" {
		return FunctionDeclaration{}, errInvalidf("function name is empty")
	}
	return m.backend.DeclareFunction(name, result, args)
}

// CallFunction applies a declared function. Argument count and types must
// match the declaration.
func (m *FunctionManager[T]) CallFunction(decl FunctionDeclaration, args ...Formula) (Formula, error) {
	if len(args) != len(decl.ArgumentTypes) {
		return nil, errInvalidf("function %s expects %d arguments, got %d",
			decl.Name, len(decl.ArgumentTypes), len(args))
	}
	for i, arg := range args {
		argType := m.creator.GetFormulaType(arg)
		if !argType.Equals(decl.ArgumentTypes[i]) {
			return nil, errInvalidf("function %s argument %d has type %s, want %s",
				decl.Name, i, argType, decl.ArgumentTypes[i])
		}
	}
	t, err := m.backend.ApplyFunction(decl, m.creator.extractAll(args))
	if err != nil {
		return nil, errors.Wrapf(err, "applying function %s", decl.Name)
	}
	return m.creator.Encapsulate(decl.ResultType, t), nil
}

// DeclareAndCallFunction declares an uninterpreted function from the argument
// types and applies it in one step.
func (m *FunctionManager[T]) DeclareAndCallFunction(name string, result Type, args ...Formula) (Formula, error) {
	argTypes := make([]Type, len(args))
	for i, arg := range args {
		argTypes[i] = m.creator.GetFormulaType(arg)
	}
	decl, err := m.DeclareFunction(name, result, argTypes...)
	if err != nil {
		return nil, err
	}
	return m.CallFunction(decl, args...)
}
