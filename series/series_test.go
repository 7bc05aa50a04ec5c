package series

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNormalizeRows(t *testing.T) {
	a := mat.NewDense(4, 2, []float64{1, 2, 3, 4, 5, 6, 7, 8})
	b := mat.NewDense(3, 2, []float64{9, 10, 11, 12, 13, 14})

	c, err := Normalize([]mat.Matrix{a, b}, ObsRows)
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())
	assert.Equal(t, []int{4, 3}, c.NObs)
	assert.Equal(t, 2, c.NVar)
	assert.True(t, mat.Equal(a, c.Trials[0]))
	assert.True(t, mat.Equal(b, c.Trials[1]))

	// The collection owns its data.
	c.Trials[0].Set(0, 0, -1)
	assert.Equal(t, 1.0, a.At(0, 0), "caller matrix must not change")
}

func TestNormalizeColumns(t *testing.T) {
	// 2 variables × 3 observations.
	a := mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6})

	c, err := Normalize(Table(a), ObsCols)
	require.NoError(t, err)

	assert.Equal(t, []int{3}, c.NObs)
	assert.Equal(t, 2, c.NVar)
	want := mat.NewDense(3, 2, []float64{1, 4, 2, 5, 3, 6})
	assert.True(t, mat.Equal(want, c.Trials[0]), "got %v", mat.Formatted(c.Trials[0]))
}

func TestNormalizeErrors(t *testing.T) {
	tests := []struct {
		name   string
		tables []mat.Matrix
		dim    Dim
		want   error
	}{
		{
			name:   "invalid dim",
			tables: Table(mat.NewDense(2, 1, nil)),
			dim:    3,
			want:   ErrInvalidDim,
		},
		{
			name: "no trials",
			dim:  ObsRows,
			want: ErrEmpty,
		},
		{
			name:   "nil trial",
			tables: []mat.Matrix{mat.NewDense(2, 1, nil), nil},
			dim:    ObsRows,
			want:   ErrEmpty,
		},
		{
			name:   "empty trial",
			tables: []mat.Matrix{&mat.Dense{}},
			dim:    ObsRows,
			want:   ErrEmpty,
		},
		{
			name:   "variable count differs",
			tables: []mat.Matrix{mat.NewDense(5, 2, nil), mat.NewDense(5, 3, nil)},
			dim:    ObsRows,
			want:   ErrShapeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.tables, tt.dim)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPair(t *testing.T) {
	x, err := Normalize([]mat.Matrix{mat.NewDense(5, 1, nil), mat.NewDense(6, 1, nil), mat.NewDense(7, 1, nil)}, ObsRows)
	require.NoError(t, err)

	y, err := Normalize([]mat.Matrix{mat.NewDense(5, 2, nil), mat.NewDense(6, 2, nil), mat.NewDense(7, 2, nil)}, ObsRows)
	require.NoError(t, err)
	assert.NoError(t, Pair(x, y))

	short, err := Normalize([]mat.Matrix{mat.NewDense(5, 2, nil), mat.NewDense(6, 2, nil)}, ObsRows)
	require.NoError(t, err)
	err = Pair(x, short)
	require.ErrorIs(t, err, ErrShapeMismatch)
	var se *ShapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "trials", se.What)
	assert.Equal(t, 3, se.Expected)
	assert.Equal(t, 2, se.Got)

	uneven, err := Normalize([]mat.Matrix{mat.NewDense(5, 2, nil), mat.NewDense(6, 2, nil), mat.NewDense(8, 2, nil)}, ObsRows)
	require.NoError(t, err)
	err = Pair(x, uneven)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "observations", se.What)
	assert.Equal(t, 2, se.Index)
	assert.EqualError(t, err, "series: trial 2: observations must have size 7, got 8")
}
