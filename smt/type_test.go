package smt

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_typeEquals(t *testing.T) {
	assert.True(t, BooleanType.Equals(BooleanType))
	assert.False(t, BooleanType.Equals(IntegerType))

	assert.True(t, BitvectorType(8).Equals(BitvectorType(8)))
	assert.False(t, BitvectorType(8).Equals(BitvectorType(16)))

	assert.True(t, FloatingPointType(8, 24).Equals(FloatingPointType(8, 24)))
	assert.False(t, FloatingPointType(8, 24).Equals(FloatingPointType(11, 53)))

	nested := ArrayType(IntegerType, ArrayType(IntegerType, BooleanType))
	assert.True(t, nested.Equals(ArrayType(IntegerType, ArrayType(IntegerType, BooleanType))))
	assert.False(t, nested.Equals(ArrayType(IntegerType, BooleanType)))
}

func Test_typeString(t *testing.T) {
	assert.Equal(t, "Boolean", BooleanType.String())
	assert.Equal(t, "Integer", IntegerType.String())
	assert.Equal(t, "Rational", RationalType.String())
	assert.Equal(t, "Bitvector<8>", BitvectorType(8).String())
	assert.Equal(t, "FloatingPoint<8,24>", FloatingPointType(8, 24).String())
	assert.Equal(t, "Array<Integer,Boolean>", ArrayType(IntegerType, BooleanType).String())
}

func Test_typeIsNumeral(t *testing.T) {
	assert.True(t, IntegerType.IsNumeral())
	assert.True(t, RationalType.IsNumeral())
	assert.False(t, BooleanType.IsNumeral())
	assert.False(t, BitvectorType(4).IsNumeral())
}

func Test_funcDeclKindString(t *testing.T) {
	assert.Equal(t, "And", AndKind.String())
	assert.Equal(t, "UF", UFKind.String())
	assert.Equal(t, "Other", OtherKind.String())
}
