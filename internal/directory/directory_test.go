package directory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna-totem/engine/internal/model"
)

func TestParseAndLookup(t *testing.T) {
	raw := []byte(`[
		{"id": "1042", "name": "ANA", "surname": "ROBLES GARCÍA", "fullName": "ANA ROBLES GARCÍA", "role": "empleado", "hire_date": "2020-03-15"},
		{"id": "1100", "name": "LUIS", "surname": "MENDOZA", "role": "director"},
		{"id": "", "name": "SIN ID", "role": "empleado"}
	]`)
	d, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Size())

	p, ok := d.Lookup("1042")
	require.True(t, ok)
	assert.Equal(t, "ANA ROBLES GARCÍA", p.Name)
	assert.Equal(t, model.RoleEmployee, p.Role)
	require.NotNil(t, p.HireDate)
	assert.Equal(t, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC), *p.HireDate)

	dir, ok := d.Lookup("1100")
	require.True(t, ok)
	assert.Equal(t, model.RoleDirector, dir.Role)
	assert.Equal(t, "LUIS MENDOZA", dir.Name)
	assert.Nil(t, dir.HireDate)

	_, ok = d.Lookup("2000")
	assert.False(t, ok)
}

func TestParseKeepsFirstDuplicate(t *testing.T) {
	raw := []byte(`[
		{"id": "1042", "fullName": "PRIMERA", "role": "empleado"},
		{"id": "1042", "fullName": "SEGUNDA", "role": "empleado"}
	]`)
	d, err := Parse(raw)
	require.NoError(t, err)
	p, _ := d.Lookup("1042")
	assert.Equal(t, "PRIMERA", p.Name)
}

func TestParseRejectsBadHireDate(t *testing.T) {
	raw := []byte(`[{"id": "1042", "fullName": "ANA", "role": "empleado", "hire_date": "15/03/2020"}]`)
	_, err := Parse(raw)
	assert.Error(t, err)
}

func TestParseRejectsEmptyDirectory(t *testing.T) {
	_, err := Parse([]byte(`[]`))
	assert.Error(t, err)
}
