package tree

import (
	"github.com/pkg/errors"

	"gosmt/smt"
)

// Config controls environment construction.
type Config struct {
	// NonLinearArithmetic keeps products and quotients of two non-literal
	// numerals as real arithmetic terms. When disabled they are approximated
	// by uninterpreted functions.
	NonLinearArithmetic bool
}

// NewManager builds a complete formula manager over a fresh tree environment.
// All theories are available.
func NewManager(cfg Config) (*smt.Manager[*Node], error) {
	env := NewEnv()
	creator := smt.NewCreator[*Node](env)

	functions := smt.NewFunctionManager[*Node](creator, funcOps{env: env})
	booleans := smt.NewBooleanManager[*Node](creator, boolOps{env: env})

	integers, err := smt.NewIntegerManager[*Node](
		creator, numOps{env: env, typ: smt.IntegerType}, funcOps{env: env}, cfg.NonLinearArithmetic)
	if err != nil {
		return nil, errors.Wrap(err, "building integer manager")
	}
	rationals, err := smt.NewRationalManager[*Node](
		creator, numOps{env: env, typ: smt.RationalType}, funcOps{env: env}, cfg.NonLinearArithmetic)
	if err != nil {
		return nil, errors.Wrap(err, "building rational manager")
	}

	return smt.NewManager(creator, booleans, functions, smt.Theories[*Node]{
		Integers:       integers,
		Rationals:      rationals,
		Bitvectors:     smt.NewBitvectorManager[*Node](creator, bvOps{env: env}),
		FloatingPoints: smt.NewFloatingPointManager[*Node](creator, fpOps{env: env}),
		Arrays:         smt.NewArrayManager[*Node](creator, arrayOps{env: env}),
		Quantified:     smt.NewQuantifiedManager[*Node](creator, quantOps{env: env}),
	})
}
