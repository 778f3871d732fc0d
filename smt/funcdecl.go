package smt

// FuncDeclKind classifies the head symbol of a function application for
// introspection. Anything outside the closed set maps to OtherKind.
type FuncDeclKind int

const (
	OtherKind FuncDeclKind = iota
	AndKind
	OrKind
	NotKind
	ImpliesKind
	IteKind
	XorKind
	DistinctKind
	AddKind
	SubKind
	MulKind
	DivKind
	ModuloKind
	UFKind
	EqKind
	LtKind
	LteKind
	GtKind
	GteKind
	VarKind
)

func (k FuncDeclKind) String() string {
	switch k {
	case AndKind:
		return "And"
	case OrKind:
		return "Or"
	case NotKind:
		return "Not"
	case ImpliesKind:
		return "Implies"
	case IteKind:
		return "Ite"
	case XorKind:
		return "Xor"
	case DistinctKind:
		return "Distinct"
	case AddKind:
		return "Add"
	case SubKind:
		return "Sub"
	case MulKind:
		return "Mul"
	case DivKind:
		return "Div"
	case ModuloKind:
		return "Modulo"
	case UFKind:
		return "UF"
	case EqKind:
		return "Eq"
	case LtKind:
		return "Lt"
	case LteKind:
		return "Lte"
	case GtKind:
		return "Gt"
	case GteKind:
		return "Gte"
	case VarKind:
		return "Var"
	}
	return "Other"
}

// FuncDecl describes the head symbol of a function application as seen by a
// visitor: its name and its classified kind.
type FuncDecl struct {
	Name string
	Kind FuncDeclKind
}

// FunctionDeclaration is a declared uninterpreted function. The symbol field
// carries the backend handle and is only meaningful to the environment that
// declared it.
type FunctionDeclaration struct {
	Name          string
	ResultType    Type
	ArgumentTypes []Type

	symbol any
}

// Symbol returns the backend-specific declaration handle.
func (d FunctionDeclaration) Symbol() any { return d.symbol }

// NewFunctionDeclaration is used by backends to attach their native symbol to
// a declaration.
func NewFunctionDeclaration(name string, result Type, args []Type, symbol any) FunctionDeclaration {
	return FunctionDeclaration{Name: name, ResultType: result, ArgumentTypes: args, symbol: symbol}
}
