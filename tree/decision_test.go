package tree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariableBranch(t *testing.T) {
	d := VariableBranch(7, 3.5, true)

	assert.Equal(t, BranchVariable, d.Type)
	assert.Equal(t, int32(7), d.VariableIndex)
	assert.Equal(t, 3.5, d.BoundValue)
	assert.True(t, d.IsUpperBound)

	// Fields of other kinds keep their declared defaults.
	assert.Equal(t, int32(-1), d.ItemI)
	assert.Equal(t, int32(-1), d.ItemJ)
	assert.Equal(t, int32(-1), d.ArcIndex)
	assert.Equal(t, int32(-1), d.SourceNode)
	assert.Equal(t, int32(-1), d.ResourceIndex)
	assert.True(t, math.IsInf(d.UpperBound, 1))
	assert.Nil(t, d.CustomIntData)
	assert.Nil(t, d.CustomFloatData)
}

func TestRyanFosterBranch(t *testing.T) {
	d := RyanFosterBranch(2, 9, true)

	assert.Equal(t, BranchRyanFoster, d.Type)
	assert.Equal(t, int32(2), d.ItemI)
	assert.Equal(t, int32(9), d.ItemJ)
	assert.True(t, d.SameColumn)
	assert.Equal(t, int32(-1), d.VariableIndex)
}

func TestArcBranch(t *testing.T) {
	d := ArcBranch(14, 3, false)

	assert.Equal(t, BranchArc, d.Type)
	assert.Equal(t, int32(14), d.ArcIndex)
	assert.Equal(t, int32(3), d.SourceNode)
	assert.False(t, d.ArcRequired)
}

func TestResourceBranch(t *testing.T) {
	d := ResourceBranch(1, 2.0, 8.0)

	assert.Equal(t, BranchResource, d.Type)
	assert.Equal(t, int32(1), d.ResourceIndex)
	assert.Equal(t, 2.0, d.LowerBound)
	assert.Equal(t, 8.0, d.UpperBound)
}

func TestCustomBranch(t *testing.T) {
	ints := []int32{1, 2, 3}
	floats := []float64{0.5}

	d := CustomBranch(ints, floats)

	assert.Equal(t, BranchCustom, d.Type)
	assert.Equal(t, []int32{1, 2, 3}, d.CustomIntData)
	assert.Equal(t, []float64{0.5}, d.CustomFloatData)

	// Payloads are copied, not aliased.
	ints[0] = 99
	assert.Equal(t, int32(1), d.CustomIntData[0])
}

func TestBranchTypeString(t *testing.T) {
	tests := []struct {
		typ  BranchType
		want string
	}{
		{BranchVariable, "VARIABLE"},
		{BranchRyanFoster, "RYAN_FOSTER"},
		{BranchArc, "ARC"},
		{BranchResource, "RESOURCE"},
		{BranchCustom, "CUSTOM"},
		{BranchType(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.typ.String())
	}
}
