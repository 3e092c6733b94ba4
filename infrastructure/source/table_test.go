package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadTable(t *testing.T) {
	data := "\ufeffemail;nome;area\na@x.com;Ana;Eng\nb@x.com;\"Bo; Jr\"\n"

	rows, err := ReadTable([]byte(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 1, rows[0].Number)
	assert.Equal(t, map[string]string{"email": "a@x.com", "nome": "Ana", "area": "Eng"}, rows[0].Values)

	assert.Equal(t, 2, rows[1].Number)
	assert.Equal(t, "Bo; Jr", rows[1].Values["nome"])
	assert.Equal(t, "", rows[1].Values["area"], "short rows are padded")
}

func TestReadTable_KeepsValueSpacing(t *testing.T) {
	rows, err := ReadTable([]byte(" email ;comment\na@x.com;  spaced  \n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "  spaced  ", rows[0].Values["comment"])
	assert.Equal(t, "a@x.com", rows[0].Values["email"])
}

func TestReadTable_Empty(t *testing.T) {
	_, err := ReadTable(nil)
	require.ErrorIs(t, err, ErrEmptyTable)
}

func TestReadTable_HeaderOnly(t *testing.T) {
	rows, err := ReadTable([]byte("email;nome\n"))
	require.NoError(t, err)
	assert.Empty(t, rows)
}
