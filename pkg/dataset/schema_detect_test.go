package dataset

import (
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scenarioCSV = "a,b,c\n1,2.5,x\n3,,y\n,4.1,z\n"

func TestReadInfersSchema(t *testing.T) {
	ds, err := Read("scenario", strings.NewReader(scenarioCSV))
	require.NoError(t, err)

	assert.Equal(t, Schema{
		{Name: "a", Kind: KindInt},
		{Name: "b", Kind: KindFloat},
		{Name: "c", Kind: KindStr},
	}, ds.Schema())
	assert.Equal(t, 3, ds.Len())

	a, _ := ds.Column("a")
	assert.Equal(t, []int64{1, 3, 0}, a.(*IntColumn).Values())
	assert.True(t, a.IsNull(2))

	b, _ := ds.Column("b")
	assert.Equal(t, []float64{2.5, 0, 4.1}, b.(*FloatColumn).Values())
	assert.True(t, b.IsNull(1))
}

func TestReadWidening(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		want   Kind
	}{
		{"ints", []string{"1", "-2", "+3"}, KindInt},
		{"int then float", []string{"1", "2.5"}, KindFloat},
		{"float then int", []string{"2.5", "1"}, KindFloat},
		{"str is absorbing", []string{"1", "x", "2", "3.5"}, KindStr},
		{"nulls ignored", []string{"", "4", ""}, KindInt},
		{"all null", []string{"", ""}, KindStr},
		{"no rows", nil, KindStr},
		{"int overflow", []string{"1", "99999999999999999999"}, KindFloat},
		{"float overflow", []string{"1.5", "1e400"}, KindFloat},
		{"digit separators", []string{"1_000"}, KindStr},
		{"separated float", []string{"2.5", "1_000.5"}, KindStr},
		{"hex float", []string{"0x1p-2"}, KindStr},
		{"hex with separator", []string{"0x_1p0"}, KindStr},
		{"signed hex float", []string{"-0X1P4"}, KindStr},
		{"special floats", []string{"inf", "-Infinity", "NaN"}, KindFloat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// quote every field: encoding/csv skips blank lines
			var sb strings.Builder
			sb.WriteString("v\n")
			for _, v := range tt.values {
				sb.WriteString(`"` + v + `"` + "\n")
			}

			ds, err := Read("w", strings.NewReader(sb.String()))
			require.NoError(t, err)
			assert.Equal(t, tt.want, ds.Schema()[0].Kind)
			assert.Equal(t, len(tt.values), ds.Len())
		})
	}
}

func TestInferKindsPermutationInvariant(t *testing.T) {
	values := []string{"1", "2.5", "", "7"}
	perms := [][]int{
		{0, 1, 2, 3},
		{3, 2, 1, 0},
		{1, 0, 3, 2},
		{2, 3, 0, 1},
	}
	for _, p := range perms {
		rows := make([][]string, len(p))
		for i, idx := range p {
			rows[i] = []string{values[idx]}
		}
		kinds, err := InferKinds(1, rows)
		require.NoError(t, err)
		assert.Equal(t, []Kind{KindFloat}, kinds)
	}

	kinds, err := InferKinds(1, [][]string{{"x"}, {"1"}})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindStr}, kinds)
	kinds, err = InferKinds(1, [][]string{{"1"}, {"x"}})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindStr}, kinds)
}

func TestInferKindsRowTooWide(t *testing.T) {
	_, err := InferKinds(1, [][]string{{"1"}, {"2", "3"}})
	assert.ErrorIs(t, err, csv.ErrFieldCount)

	// short rows leave the missing columns unseen
	kinds, err := InferKinds(2, [][]string{{"1"}})
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindInt, KindStr}, kinds)
}

func TestReadRoundTripCast(t *testing.T) {
	input := "i,f\n10,1e3\n-4,0.25\n0,-7\n"
	ds, err := Read("cast", strings.NewReader(input))
	require.NoError(t, err)

	i, _ := ds.Column("i")
	f, _ := ds.Column("f")
	assert.Equal(t, []int64{10, -4, 0}, i.(*IntColumn).Values())
	assert.Equal(t, []float64{1000, 0.25, -7}, f.(*FloatColumn).Values())
}

func TestReadKeepsNonDecimalText(t *testing.T) {
	input := "n,big
1_000,1e400
0x1p-2,-1e400
"
	ds, err := Read("text", strings.NewReader(input))
	require.NoError(t, err)

	n, _ := ds.Column("n")
	assert.Equal(t, KindStr, n.Kind())
	assert.Equal(t, []string{"1_000", "0x1p-2"}, n.(*StrColumn).Values())

	big, _ := ds.Column("big")
	require.Equal(t, KindFloat, big.Kind())
	assert.True(t, math.IsInf(big.(*FloatColumn).Values()[0], 1))
	assert.True(t, math.IsInf(big.(*FloatColumn).Values()[1], -1))

	var buf strings.Builder
	require.NoError(t, ds.WriteCSV(&buf))
	assert.Contains(t, buf.String(), "1_000,")
	assert.Contains(t, buf.String(), "0x1p-2,")
}

func TestCastColumnInvariant(t *testing.T) {
	raw := &StrColumn{}
	raw.Append("x")
	_, err := castColumn(raw, KindInt)
	assert.ErrorIs(t, err, ErrInvariant)
	_, err = castColumn(raw, KindFloat)
	assert.ErrorIs(t, err, ErrInvariant)

	hex := &StrColumn{}
	hex.Append("0x1p-2")
	_, err = castColumn(hex, KindFloat)
	assert.ErrorIs(t, err, ErrInvariant)
}

func TestReadFieldCountMismatch(t *testing.T) {
	_, err := Read("bad", strings.NewReader("a,b\n1,2\n3\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, csv.ErrFieldCount)
}

func TestReadHeaderErrors(t *testing.T) {
	_, err := Read("empty", strings.NewReader(""))
	assert.Error(t, err)

	_, err = Read("dup", strings.NewReader("a,a\n1,2\n"))
	assert.ErrorIs(t, err, ErrDuplicateColumn)
}

func TestReadComma(t *testing.T) {
	ds, err := Read("semi", strings.NewReader("a;b\n1;x\n"), WithComma(';'))
	require.NoError(t, err)
	assert.Equal(t, Schema{{Name: "a", Kind: KindInt}, {Name: "b", Kind: KindStr}}, ds.Schema())
}
