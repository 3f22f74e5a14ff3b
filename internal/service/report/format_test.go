package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatCLP(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "$0"},
		{123, "$123"},
		{1000, "$1.000"},
		{2409642, "$2.409.642"},
		{-4500, "-$4.500"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatCLP(tc.amount))
	}
}

func TestReadTotalCost(t *testing.T) {
	dir := t.TempDir()

	t.Run("extracts the digits", func(t *testing.T) {
		path := filepath.Join(dir, "_resumen_A.txt")
		require.NoError(t, os.WriteFile(path, []byte("Costo total (CLP): 2409642\n"), 0o644))

		amount, err := ReadTotalCost(path)
		require.NoError(t, err)
		assert.Equal(t, int64(2409642), amount)
	})

	t.Run("no digits is an error", func(t *testing.T) {
		path := filepath.Join(dir, "_resumen_B.txt")
		require.NoError(t, os.WriteFile(path, []byte("sin costo\n"), 0o644))

		_, err := ReadTotalCost(path)
		assert.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := ReadTotalCost(filepath.Join(dir, "nope.txt"))
		assert.Error(t, err)
	})
}
