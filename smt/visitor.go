package smt

// Quantifier selects between universal and existential quantification.
type Quantifier int

const (
	Forall Quantifier = iota
	Exists
)

func (q Quantifier) String() string {
	if q == Exists {
		return "Exists"
	}
	return "Forall"
}

// TraversalProcess steers VisitRecursively.
type TraversalProcess int

const (
	// TraversalContinue descends into the children of the current formula.
	TraversalContinue TraversalProcess = iota
	// TraversalSkip does not descend but continues with pending siblings.
	TraversalSkip
	// TraversalAbort stops the whole traversal.
	TraversalAbort
)

// Rebuild reconstructs a function application (or quantified body) with new
// arguments. It is handed to visitors so they can rebuild the node they are
// looking at without knowing the backend.
type Rebuild func(args []Formula) (Formula, error)

// FormulaVisitor inspects one level of a formula. Visit dispatches to exactly
// one method per call.
type FormulaVisitor[R any] interface {
	// VisitConstant handles literal values: booleans, numerals, bitvector and
	// floating-point constants. value is *big.Rat for numerals, bool for
	// booleans, *big.Int for bitvectors.
	VisitConstant(f Formula, value any) (R, error)

	// VisitFreeVariable handles free variables and nullary UF applications.
	VisitFreeVariable(f Formula, name string) (R, error)

	// VisitBoundVariable handles variables bound by an enclosing quantifier.
	// index is the de Bruijn index.
	VisitBoundVariable(f Formula, index int) (R, error)

	// VisitFuncApp handles a function application with at least the operator
	// decomposed. rebuild reconstructs the same application from new args.
	VisitFuncApp(f Formula, args []Formula, decl FuncDecl, rebuild Rebuild) (R, error)

	// VisitQuantifier handles a quantified formula. bound holds the bound
	// variables as formulas, body the quantified body.
	VisitQuantifier(f BooleanFormula, q Quantifier, bound []Formula, body BooleanFormula) (R, error)
}

// FormulaTransformer produces a replacement formula per visited node. It is
// the visitor shape consumed by TransformRecursively: children are already
// transformed when a node is visited.
type FormulaTransformer interface {
	TransformConstant(f Formula, value any) (Formula, error)
	TransformFreeVariable(f Formula, name string) (Formula, error)
	TransformBoundVariable(f Formula, index int) (Formula, error)

	// TransformFuncApp receives the application with already-transformed
	// args; rebuild reapplies the original operator to any argument list.
	TransformFuncApp(f Formula, args []Formula, decl FuncDecl, rebuild Rebuild) (Formula, error)

	// TransformQuantifier receives the quantifier with an already-transformed
	// body; rebuild requantifies a replacement body.
	TransformQuantifier(f BooleanFormula, q Quantifier, bound []Formula, body BooleanFormula, rebuild Rebuild) (Formula, error)
}

// IdentityTransformer rebuilds every node from its (possibly transformed)
// children and changes nothing else. Embed it and override the cases of
// interest.
type IdentityTransformer struct{}

func (IdentityTransformer) TransformConstant(f Formula, value any) (Formula, error) {
	return f, nil
}

func (IdentityTransformer) TransformFreeVariable(f Formula, name string) (Formula, error) {
	return f, nil
}

func (IdentityTransformer) TransformBoundVariable(f Formula, index int) (Formula, error) {
	return f, nil
}

func (IdentityTransformer) TransformFuncApp(f Formula, args []Formula, decl FuncDecl, rebuild Rebuild) (Formula, error) {
	return rebuild(args)
}

func (IdentityTransformer) TransformQuantifier(f BooleanFormula, q Quantifier, bound []Formula, body BooleanFormula, rebuild Rebuild) (Formula, error) {
	return rebuild([]Formula{body})
}

// TraversalVisitor visits every node and always continues. Embed it and
// override the cases of interest.
type TraversalVisitor struct{}

func (TraversalVisitor) VisitConstant(f Formula, value any) (TraversalProcess, error) {
	return TraversalContinue, nil
}

func (TraversalVisitor) VisitFreeVariable(f Formula, name string) (TraversalProcess, error) {
	return TraversalContinue, nil
}

func (TraversalVisitor) VisitBoundVariable(f Formula, index int) (TraversalProcess, error) {
	return TraversalContinue, nil
}

func (TraversalVisitor) VisitFuncApp(f Formula, args []Formula, decl FuncDecl, rebuild Rebuild) (TraversalProcess, error) {
	return TraversalContinue, nil
}

func (TraversalVisitor) VisitQuantifier(f BooleanFormula, q Quantifier, bound []Formula, body BooleanFormula) (TraversalProcess, error) {
	return TraversalContinue, nil
}
