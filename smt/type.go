package smt

import "fmt"

type TypeKind int

const (
	BooleanTypeKind TypeKind = iota
	IntegerTypeKind
	RationalTypeKind
	BitvectorTypeKind
	FloatingPointTypeKind
	ArrayTypeKind
)

// Type describes the theory and shape of a formula. It is a closed tagged
// union: Kind selects which of the remaining fields carry information.
type Type struct {
	Kind     TypeKind
	Width    int // bitvector width
	Exponent int // floating point
	Mantissa int // floating point
	Index    *Type
	Element  *Type
}

var (
	BooleanType  = Type{Kind: BooleanTypeKind}
	IntegerType  = Type{Kind: IntegerTypeKind}
	RationalType = Type{Kind: RationalTypeKind}
)

func BitvectorType(width int) Type {
	return Type{Kind: BitvectorTypeKind, Width: width}
}

func FloatingPointType(exponent, mantissa int) Type {
	return Type{Kind: FloatingPointTypeKind, Exponent: exponent, Mantissa: mantissa}
}

func ArrayType(index, element Type) Type {
	i, e := index, element
	return Type{Kind: ArrayTypeKind, Index: &i, Element: &e}
}

// Equals compares types structurally. Plain == on Type only works for types
// without array components.
func (t Type) Equals(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case BitvectorTypeKind:
		return t.Width == o.Width
	case FloatingPointTypeKind:
		return t.Exponent == o.Exponent && t.Mantissa == o.Mantissa
	case ArrayTypeKind:
		return t.Index.Equals(*o.Index) && t.Element.Equals(*o.Element)
	default:
		return true
	}
}

func (t Type) IsNumeral() bool {
	return t.Kind == IntegerTypeKind || t.Kind == RationalTypeKind
}

func (t Type) String() string {
	switch t.Kind {
	case BooleanTypeKind:
		return "Boolean"
	case IntegerTypeKind:
		return "Integer"
	case RationalTypeKind:
		return "Rational"
	case BitvectorTypeKind:
		return fmt.Sprintf("Bitvector<%d>", t.Width)
	case FloatingPointTypeKind:
		return fmt.Sprintf("FloatingPoint<%d,%d>", t.Exponent, t.Mantissa)
	case ArrayTypeKind:
		return fmt.Sprintf("Array<%s,%s>", t.Index, t.Element)
	}
	return fmt.Sprintf("UnknownType(%d)", int(t.Kind))
}
