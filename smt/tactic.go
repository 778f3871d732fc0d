package smt

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Tactic is a named formula rewrite.
type Tactic string

const (
	// TacticNNF pushes negations down to the atoms.
	TacticNNF Tactic = "nnf"
	// TacticTseitinCNF converts to an equisatisfiable conjunctive normal
	// form, introducing fresh variables for subformulas.
	TacticTseitinCNF Tactic = "tseitin-cnf"
	// TacticQELight is light quantifier elimination. It has no generic
	// fallback and needs backend support.
	TacticQELight Tactic = "qe-light"
)

// ApplyTactic rewrites f with the given tactic. Backends providing
// TacticApplier are preferred; otherwise nnf and tseitin-cnf run generically
// over the visitor protocol and qe-light fails as unsupported.
func (m *Manager[T]) ApplyTactic(ctx context.Context, f BooleanFormula, tactic Tactic) (BooleanFormula, error) {
	t := m.creator.ExtractInfo(f)
	if applier, ok := m.creator.Backend().(TacticApplier[T]); ok {
		out, handled, err := applier.ApplyTactic(ctx, t, tactic)
		if err != nil {
			return nil, err
		}
		if handled {
			return m.creator.EncapsulateBoolean(out), nil
		}
	}
	switch tactic {
	case TacticNNF:
		out, err := m.nnf(ctx, t)
		if err != nil {
			return nil, err
		}
		return m.creator.EncapsulateBoolean(out), nil
	case TacticTseitinCNF:
		out, err := m.tseitinCNF(ctx, t)
		if err != nil {
			return nil, err
		}
		return m.creator.EncapsulateBoolean(out), nil
	case TacticQELight:
		return nil, errors.Wrapf(ErrUnsupportedOperation, "tactic %s", tactic)
	}
	return nil, errInvalidf("unknown tactic %q", tactic)
}

type nnfKey[T comparable] struct {
	term    T
	negated bool
}

type nnfRewriter[T comparable] struct {
	creator *Creator[T]
	bools   BooleanBackend[T]
	quants  QuantifiedBackend[T]
	memo    map[nnfKey[T]]T
}

func (m *Manager[T]) nnf(ctx context.Context, t T) (T, error) {
	r := &nnfRewriter[T]{
		creator: m.creator,
		bools:   m.booleans.backend,
		memo:    map[nnfKey[T]]T{},
	}
	if m.quantified != nil {
		r.quants = m.quantified.backend
	}
	return r.push(ctx, t, false)
}

// push rewrites t into negation normal form, negating it on the way when
// negated is set.
func (r *nnfRewriter[T]) push(ctx context.Context, t T, negated bool) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, errors.Wrap(ErrInterrupted, "nnf")
	}
	key := nnfKey[T]{term: t, negated: negated}
	if out, ok := r.memo[key]; ok {
		return out, nil
	}

	shape, err := r.creator.Backend().Decompose(t)
	if err != nil {
		return zero, err
	}

	var out T
	switch shape.Kind {
	case ConstantShape:
		if v, ok := shape.Value.(bool); ok && negated {
			out = r.bools.MakeBoolean(!v)
		} else {
			out, err = r.atom(t, negated)
		}

	case FuncAppShape:
		out, err = r.pushApp(ctx, t, shape, negated)

	case QuantifierShape:
		q := shape.Quantifier
		if negated {
			if q == Forall {
				q = Exists
			} else {
				q = Forall
			}
		}
		body, berr := r.push(ctx, shape.Body, negated)
		if berr != nil {
			return zero, berr
		}
		if r.quants == nil {
			return zero, errors.Wrap(ErrUnsupportedTheory, "nnf over quantifier")
		}
		out, err = r.quants.MakeQuantifier(q, shape.Bound, body)

	default:
		out, err = r.atom(t, negated)
	}
	if err != nil {
		return zero, err
	}
	r.memo[key] = out
	return out, nil
}

func (r *nnfRewriter[T]) pushApp(ctx context.Context, t T, shape TermShape[T], negated bool) (T, error) {
	var zero T
	args := shape.Args

	switch shape.Decl.Kind {
	case NotKind:
		return r.push(ctx, args[0], !negated)

	case AndKind, OrKind:
		parts := make([]T, len(args))
		for i, a := range args {
			p, err := r.push(ctx, a, negated)
			if err != nil {
				return zero, err
			}
			parts[i] = p
		}
		conj := shape.Decl.Kind == AndKind
		if negated {
			conj = !conj
		}
		if conj {
			return r.bools.And(parts)
		}
		return r.bools.Or(parts)

	case ImpliesKind:
		// a => b is !a | b
		na, err := r.push(ctx, args[0], !negated)
		if err != nil {
			return zero, err
		}
		b, err := r.push(ctx, args[1], negated)
		if err != nil {
			return zero, err
		}
		if negated {
			return r.bools.And([]T{na, b})
		}
		return r.bools.Or([]T{na, b})

	case XorKind:
		return r.caseSplit(ctx, args[0], args[1], !negated)

	case EqKind:
		if r.creator.Backend().TypeOf(args[0]).Kind == BooleanTypeKind {
			return r.caseSplit(ctx, args[0], args[1], negated)
		}
		return r.atom(t, negated)

	case IteKind:
		if r.creator.Backend().TypeOf(t).Kind != BooleanTypeKind {
			return r.atom(t, negated)
		}
		// ite(c, a, b) is (c & a) | (!c & b)
		cPos, err := r.push(ctx, args[0], false)
		if err != nil {
			return zero, err
		}
		cNeg, err := r.push(ctx, args[0], true)
		if err != nil {
			return zero, err
		}
		a, err := r.push(ctx, args[1], negated)
		if err != nil {
			return zero, err
		}
		b, err := r.push(ctx, args[2], negated)
		if err != nil {
			return zero, err
		}
		left, err := r.bools.And([]T{cPos, a})
		if err != nil {
			return zero, err
		}
		right, err := r.bools.And([]T{cNeg, b})
		if err != nil {
			return zero, err
		}
		return r.bools.Or([]T{left, right})
	}
	return r.atom(t, negated)
}

// caseSplit builds the NNF of a equivalence (samePolarity=true gives
// equivalence, false gives xor): (a & b) | (!a & !b) respectively
// (a & !b) | (!a & b).
func (r *nnfRewriter[T]) caseSplit(ctx context.Context, a, b T, samePolarity bool) (T, error) {
	var zero T
	aPos, err := r.push(ctx, a, false)
	if err != nil {
		return zero, err
	}
	aNeg, err := r.push(ctx, a, true)
	if err != nil {
		return zero, err
	}
	bPos, err := r.push(ctx, b, false)
	if err != nil {
		return zero, err
	}
	bNeg, err := r.push(ctx, b, true)
	if err != nil {
		return zero, err
	}
	if !samePolarity {
		bPos, bNeg = bNeg, bPos
	}
	left, err := r.bools.And([]T{aPos, bPos})
	if err != nil {
		return zero, err
	}
	right, err := r.bools.And([]T{aNeg, bNeg})
	if err != nil {
		return zero, err
	}
	return r.bools.Or([]T{left, right})
}

// atom keeps a non-boolean-structure node as is, wrapping it in a negation
// when required.
func (r *nnfRewriter[T]) atom(t T, negated bool) (T, error) {
	if !negated {
		return t, nil
	}
	return r.bools.Not(t)
}

type cnfBuilder[T comparable] struct {
	creator *Creator[T]
	bools   BooleanBackend[T]
	clauses []T
	memo    map[T]T
	fresh   int
}

// tseitinCNF converts to CNF after an NNF pass, introducing one fresh
// variable per conjunction and disjunction. The result is equisatisfiable,
// not equivalent.
func (m *Manager[T]) tseitinCNF(ctx context.Context, t T) (T, error) {
	var zero T
	normalized, err := m.nnf(ctx, t)
	if err != nil {
		return zero, err
	}
	b := &cnfBuilder[T]{
		creator: m.creator,
		bools:   m.booleans.backend,
		memo:    map[T]T{},
	}
	root, err := b.literal(ctx, normalized)
	if err != nil {
		return zero, err
	}
	return m.booleans.backend.And(append([]T{root}, b.clauses...))
}

// literal returns a literal equisatisfiable with t, emitting defining clauses
// for every composite node.
func (b *cnfBuilder[T]) literal(ctx context.Context, t T) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, errors.Wrap(ErrInterrupted, "tseitin-cnf")
	}
	if lit, ok := b.memo[t]; ok {
		return lit, nil
	}

	shape, err := b.creator.Backend().Decompose(t)
	if err != nil {
		return zero, err
	}
	kind := OtherKind
	if shape.Kind == FuncAppShape {
		kind = shape.Decl.Kind
	}
	if kind != AndKind && kind != OrKind {
		b.memo[t] = t
		return t, nil
	}

	lits := make([]T, len(shape.Args))
	for i, a := range shape.Args {
		l, err := b.literal(ctx, a)
		if err != nil {
			return zero, err
		}
		lits[i] = l
	}

	b.fresh++
	p, err := b.bools.MakeVariable(fmt.Sprintf("_cnf_%d", b.fresh))
	if err != nil {
		return zero, err
	}
	notP, err := b.bools.Not(p)
	if err != nil {
		return zero, err
	}

	if kind == AndKind {
		// p -> li for each literal, and l1 & .. & ln -> p.
		back := []T{p}
		for _, l := range lits {
			cl, err := b.bools.Or([]T{notP, l})
			if err != nil {
				return zero, err
			}
			b.clauses = append(b.clauses, cl)
			nl, err := b.bools.Not(l)
			if err != nil {
				return zero, err
			}
			back = append(back, nl)
		}
		cl, err := b.bools.Or(back)
		if err != nil {
			return zero, err
		}
		b.clauses = append(b.clauses, cl)
	} else {
		// p -> l1 | .. | ln, and li -> p for each literal.
		cl, err := b.bools.Or(append([]T{notP}, lits...))
		if err != nil {
			return zero, err
		}
		b.clauses = append(b.clauses, cl)
		for _, l := range lits {
			nl, err := b.bools.Not(l)
			if err != nil {
				return zero, err
			}
			cl, err := b.bools.Or([]T{p, nl})
			if err != nil {
				return zero, err
			}
			b.clauses = append(b.clauses, cl)
		}
	}

	b.memo[t] = p
	return p, nil
}
