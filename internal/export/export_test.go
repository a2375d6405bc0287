package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/KaramelBytes/benford-cli/internal/benford"
	"github.com/KaramelBytes/benford-cli/internal/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() *dataset.Table {
	return &dataset.Table{
		Name:   "sales.csv",
		Header: []string{"region", "amount"},
		Rows: [][]string{
			{"north", "120"},
			{"south", ""},
			{"east", "33.5"},
		},
	}
}

func TestAugmentAlignsByRow(t *testing.T) {
	src := sampleTable()
	adj := benford.Series{IDs: []int{0, 2}, Values: []float64{150.25, 3.25}}
	out, err := Augment(src, "amount", adj)
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "amount", "amount_benford"}, out.Header)
	assert.Equal(t, []string{"north", "120", "150.25"}, out.Rows[0])
	assert.Equal(t, []string{"south", "", ""}, out.Rows[1])
	assert.Equal(t, []string{"east", "33.5", "3.25"}, out.Rows[2])
	// source untouched
	assert.Len(t, src.Header, 2)
	assert.Len(t, src.Rows[0], 2)
}

func TestAugmentRejectsBadIDs(t *testing.T) {
	_, err := Augment(sampleTable(), "amount", benford.Series{IDs: []int{7}, Values: []float64{1}})
	assert.Error(t, err)
	_, err = Augment(sampleTable(), "amount", benford.Series{IDs: []int{0}, Values: nil})
	assert.Error(t, err)
}

func TestWriteCSVHasBOM(t *testing.T) {
	out, err := Augment(sampleTable(), "amount", benford.Series{IDs: []int{0}, Values: []float64{1e21}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, out))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))

	recs, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\ufeff"))).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 4)
	assert.Equal(t, "amount_benford", recs[0][2])
	assert.Equal(t, "1000000000000000000000", recs[1][2])
}

func TestWriteXLSXRoundTrip(t *testing.T) {
	out, err := Augment(sampleTable(), "amount", benford.Series{IDs: []int{0, 2}, Values: []float64{150.25, 3.25}})
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, out))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"region", "amount", "amount_benford"}, rows[0])
	assert.Equal(t, "150.25", rows[1][2])
	assert.Equal(t, "3.25", rows[3][2])
}

func TestPreview(t *testing.T) {
	out, err := Augment(sampleTable(), "amount", benford.Series{IDs: []int{0, 2}, Values: []float64{150.25, 3.25}})
	require.NoError(t, err)
	header, rows, err := Preview(out, "AMOUNT", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "amount_benford"}, header)
	assert.Equal(t, [][]string{{"120", "150.25"}, {"", ""}}, rows)

	_, _, err = Preview(sampleTable(), "amount", 2)
	assert.ErrorIs(t, err, dataset.ErrColumnNotFound)
}

func TestAugmentAvoidsHeaderCollision(t *testing.T) {
	src := &dataset.Table{
		Header: []string{"amount", "Amount_Benford", "amount_benford__2"},
		Rows:   [][]string{{"120", "old", "older"}, {"45", "old", "older"}},
	}
	out, err := Augment(src, "amount", benford.Series{IDs: []int{0, 1}, Values: []float64{150, 40}})
	require.NoError(t, err)
	assert.Equal(t, "amount_benford__3", out.Header[3])
	assert.Equal(t, []string{"120", "old", "older", "150"}, out.Rows[0])

	header, rows, err := Preview(out, "amount", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"amount", "amount_benford__3"}, header)
	assert.Equal(t, [][]string{{"120", "150"}, {"45", "40"}}, rows)
}
