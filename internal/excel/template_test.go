package excel

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildTemplateRoundTrip(t *testing.T) {
	buf, err := BuildTemplate()
	require.NoError(t, err)
	require.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 3, "header plus sample rows")

	assert.Equal(t, []string{"Product Name", "Category", "Quantity Sold", "Revenue", "Sales Date"}, rows[0])

	// The generated template must import cleanly through the mapper.
	sales, rowErrors, err := MapRows(rows)
	require.NoError(t, err)
	require.Empty(t, rowErrors)
	require.Len(t, sales, 2)
	assert.Equal(t, "Laptop", sales[0].ProductName)
	assert.Equal(t, 120000.0, sales[0].Revenue)
}
