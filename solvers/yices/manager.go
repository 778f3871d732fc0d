package yices

import (
	yices2 "github.com/ianamason/yices2_go_bindings/yices_api"

	"gosmt/smt"
)

// NewManager builds a formula manager over a fresh yices environment. Only
// boolean, bitvector and uninterpreted-function theories are available;
// asking the manager for the others yields unsupported-theory errors.
func NewManager() (*smt.Manager[yices2.TermT], error) {
	env := NewEnv()
	creator := smt.NewCreator[yices2.TermT](env)
	return smt.NewManager(
		creator,
		smt.NewBooleanManager[yices2.TermT](creator, boolOps{env: env}),
		smt.NewFunctionManager[yices2.TermT](creator, funcOps{env: env}),
		smt.Theories[yices2.TermT]{
			Bitvectors: smt.NewBitvectorManager[yices2.TermT](creator, bvOps{env: env}),
		},
	)
}
