package smt

import "github.com/pkg/errors"

// Visit decomposes one level of f and dispatches to the matching visitor
// method.
func Visit[T comparable, R any](c *Creator[T], f Formula, v FormulaVisitor[R]) (R, error) {
	var zero R
	t := c.ExtractInfo(f)
	shape, err := c.Backend().Decompose(t)
	if err != nil {
		return zero, errors.Wrap(err, "decomposing formula")
	}
	switch shape.Kind {
	case ConstantShape:
		return v.VisitConstant(f, shape.Value)
	case FreeVariableShape:
		return v.VisitFreeVariable(f, shape.Name)
	case BoundVariableShape:
		return v.VisitBoundVariable(f, shape.Index)
	case FuncAppShape:
		args := make([]Formula, len(shape.Args))
		for i, a := range shape.Args {
			args[i] = c.EncapsulateWithTypeOf(a)
		}
		return v.VisitFuncApp(f, args, shape.Decl, rebuilder(c, t, len(args)))
	case QuantifierShape:
		bound := make([]Formula, len(shape.Bound))
		for i, b := range shape.Bound {
			bound[i] = c.EncapsulateWithTypeOf(b)
		}
		body := c.EncapsulateBoolean(shape.Body)
		return v.VisitQuantifier(f.(BooleanFormula), shape.Quantifier, bound, body)
	}
	return zero, errors.Errorf("unknown term shape %d", shape.Kind)
}

// rebuilder wraps the backend's ReplaceArgs as a Rebuild closure for the
// original term.
func rebuilder[T comparable](c *Creator[T], original T, arity int) Rebuild {
	return func(args []Formula) (Formula, error) {
		if len(args) != arity {
			return nil, errInvalidf("rebuild expects %d arguments, got %d", arity, len(args))
		}
		t, err := c.Backend().ReplaceArgs(original, c.extractAll(args))
		if err != nil {
			return nil, err
		}
		return c.EncapsulateWithTypeOf(t), nil
	}
}

// VisitRecursively walks the formula DAG pre-order. Each distinct subterm is
// visited once even when it is shared. The visitor's TraversalProcess result
// prunes (Skip) or stops (Abort) the walk.
func VisitRecursively[T comparable](c *Creator[T], f Formula, v FormulaVisitor[TraversalProcess]) error {
	b := c.Backend()
	seen := map[T]struct{}{}
	stack := []T{c.ExtractInfo(f)}
	for len(stack) > 0 {
		t := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}

		wrapped := c.EncapsulateWithTypeOf(t)
		proc, err := Visit[T, TraversalProcess](c, wrapped, v)
		if err != nil {
			return err
		}
		switch proc {
		case TraversalAbort:
			return nil
		case TraversalSkip:
			continue
		}

		shape, err := b.Decompose(t)
		if err != nil {
			return errors.Wrap(err, "decomposing formula")
		}
		switch shape.Kind {
		case FuncAppShape:
			for i := len(shape.Args) - 1; i >= 0; i-- {
				stack = append(stack, shape.Args[i])
			}
		case QuantifierShape:
			stack = append(stack, shape.Body)
		}
	}
	return nil
}

// TransformRecursively rewrites the formula DAG bottom-up. Children are
// transformed before their parents and each distinct subterm is transformed
// once; shared subterms stay shared in the result.
func TransformRecursively[T comparable](c *Creator[T], f Formula, tr FormulaTransformer) (Formula, error) {
	b := c.Backend()
	done := map[T]Formula{}

	type frame struct {
		term     T
		expanded bool
	}
	stack := []frame{{term: c.ExtractInfo(f)}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		t := top.term
		if _, ok := done[t]; ok {
			stack = stack[:len(stack)-1]
			continue
		}

		shape, err := b.Decompose(t)
		if err != nil {
			return nil, errors.Wrap(err, "decomposing formula")
		}

		if !top.expanded {
			top.expanded = true
			pending := false
			switch shape.Kind {
			case FuncAppShape:
				for i := len(shape.Args) - 1; i >= 0; i-- {
					if _, ok := done[shape.Args[i]]; !ok {
						stack = append(stack, frame{term: shape.Args[i]})
						pending = true
					}
				}
			case QuantifierShape:
				if _, ok := done[shape.Body]; !ok {
					stack = append(stack, frame{term: shape.Body})
					pending = true
				}
			}
			if pending {
				continue
			}
		}
		stack = stack[:len(stack)-1]

		wrapped := c.EncapsulateWithTypeOf(t)
		var result Formula
		switch shape.Kind {
		case ConstantShape:
			result, err = tr.TransformConstant(wrapped, shape.Value)
		case FreeVariableShape:
			result, err = tr.TransformFreeVariable(wrapped, shape.Name)
		case BoundVariableShape:
			result, err = tr.TransformBoundVariable(wrapped, shape.Index)
		case FuncAppShape:
			args := make([]Formula, len(shape.Args))
			for i, a := range shape.Args {
				args[i] = done[a]
			}
			result, err = tr.TransformFuncApp(wrapped, args, shape.Decl, rebuilder(c, t, len(args)))
		case QuantifierShape:
			bound := make([]Formula, len(shape.Bound))
			for i, bv := range shape.Bound {
				bound[i] = c.EncapsulateWithTypeOf(bv)
			}
			body := done[shape.Body].(BooleanFormula)
			result, err = tr.TransformQuantifier(wrapped.(BooleanFormula), shape.Quantifier, bound, body, rebuilder(c, t, 1))
		default:
			err = errors.Errorf("unknown term shape %d", shape.Kind)
		}
		if err != nil {
			return nil, err
		}
		done[t] = result
	}

	return done[c.ExtractInfo(f)], nil
}

type variableCollector[T comparable] struct {
	TraversalVisitor
	creator    *Creator[T]
	includeUFs bool
	found      map[string]Formula
}

func (v *variableCollector[T]) VisitFreeVariable(f Formula, name string) (TraversalProcess, error) {
	v.found[name] = f
	return TraversalContinue, nil
}

func (v *variableCollector[T]) VisitFuncApp(f Formula, args []Formula, decl FuncDecl, rebuild Rebuild) (TraversalProcess, error) {
	if v.includeUFs && decl.Kind == UFKind {
		v.found[decl.Name] = f
	}
	return TraversalContinue, nil
}

// ExtractVariables collects the free variables of a formula by name.
func ExtractVariables[T comparable](c *Creator[T], f Formula) (map[string]Formula, error) {
	v := &variableCollector[T]{creator: c, found: map[string]Formula{}}
	if err := VisitRecursively(c, f, v); err != nil {
		return nil, err
	}
	return v.found, nil
}

// ExtractVariablesAndUFs collects free variables and applied uninterpreted
// functions by name.
func ExtractVariablesAndUFs[T comparable](c *Creator[T], f Formula) (map[string]Formula, error) {
	v := &variableCollector[T]{creator: c, includeUFs: true, found: map[string]Formula{}}
	if err := VisitRecursively(c, f, v); err != nil {
		return nil, err
	}
	return v.found, nil
}
