package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/helixml/pulse/domain/survey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRow() Row {
	return Row{Number: 1, Values: map[string]string{
		"email":                         "a@x.com",
		"nome":                          "Ana",
		"email_corporativo":             "ana@corp.com",
		"area":                          "Engenharia",
		"cargo":                         "Dev",
		"tempo_de_empresa":              "entre 1 e 2 anos",
		"n0_empresa":                    "Acme",
		"Data da Resposta":              "15/03/2024",
		"eNPS":                          "10",
		"Feedback":                      "-",
		"Aprendizado e Desenvolvimento": " 4 ",
		"[Aberta] eNPS":                 " Great place! ",
		"Comentários - Feedback":        "-",
		"coluna_desconhecida":           "ignored",
	}}
}

func TestValidator_Validate(t *testing.T) {
	rec, err := NewValidator(DefaultMapping()).Validate(validRow())
	require.NoError(t, err)

	assert.Equal(t, 1, rec.Row)
	assert.Equal(t, "a@x.com", rec.Email)
	assert.Equal(t, "Engenharia", rec.Department)
	assert.Equal(t, "Ana", rec.Profile.Name)
	assert.Equal(t, "ana@corp.com", rec.Profile.CorporateEmail)
	assert.Equal(t, "Acme", rec.Profile.Hierarchy.Company)
	assert.Equal(t, time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC), rec.Date)

	enps, ok := rec.Scores.Get(survey.MetricENPS)
	require.True(t, ok)
	assert.Equal(t, 10, enps)
	learning, ok := rec.Scores.Get(survey.MetricLearning)
	require.True(t, ok)
	assert.Equal(t, 4, learning)
	_, ok = rec.Scores.Get(survey.MetricFeedback)
	assert.False(t, ok, "placeholder metric is absent")
	assert.Equal(t, 2, rec.Scores.Len())

	comment, ok := rec.Texts.Get(survey.TextENPS)
	require.True(t, ok)
	assert.Equal(t, " Great place! ", comment, "text keeps its spacing")
	_, ok = rec.Texts.Get(survey.TextFeedback)
	assert.False(t, ok, "placeholder text is absent")
}

func TestValidator_DateForms(t *testing.T) {
	tests := []struct {
		value string
		want  time.Time
	}{
		{"15/03/2024", time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)},
		{"05/03/2024", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"5/3/2024", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"05/3/2024", time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{"1/1/2022", time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			row := validRow()
			row.Values["Data da Resposta"] = tt.value

			rec, err := NewValidator(DefaultMapping()).Validate(row)

			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.Date)
		})
	}
}

func TestValidator_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		header string
		value  string
		field  Field
	}{
		{"malformed email", "email", "not-an-email", FieldEmail},
		{"display name email", "email", "Ana <a@x.com>", FieldEmail},
		{"email without domain dot", "email", "a@localhost", FieldEmail},
		{"missing email", "email", "", FieldEmail},
		{"missing department", "area", "-", FieldDepartment},
		{"missing name", "nome", " ", FieldName},
		{"iso date", "Data da Resposta", "2024-03-15", FieldResponseDate},
		{"impossible date", "Data da Resposta", "31/02/2024", FieldResponseDate},
		{"non numeric metric", "eNPS", "dez", MetricField(survey.MetricENPS)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := validRow()
			row.Number = 7
			row.Values[tt.header] = tt.value

			_, err := NewValidator(DefaultMapping()).Validate(row)

			require.ErrorIs(t, err, ErrValidation)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Equal(t, 7, verr.Row)
			assert.Equal(t, tt.value, verr.Value)
		})
	}
}

func TestMapping_ResolveNormalisesHeaders(t *testing.T) {
	m := DefaultMapping()

	// "Contribuição" spelled with a combining cedilla and tilde (NFD).
	decomposed := "Contribuic\u0327a\u0303o"
	f, ok := m.Resolve(decomposed)
	require.True(t, ok)
	assert.Equal(t, MetricField(survey.MetricContribution), f)

	f, ok = m.Resolve("  DATA DA RESPOSTA ")
	require.True(t, ok)
	assert.Equal(t, FieldResponseDate, f)

	_, ok = m.Resolve("unknown")
	assert.False(t, ok)
}

func TestLoadMapping_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("department: Department\nresponse_date: Answered On\n"), 0o644))

	m, err := LoadMapping(path)
	require.NoError(t, err)

	assert.Equal(t, "Department", m.Header(FieldDepartment))
	f, ok := m.Resolve("answered on")
	require.True(t, ok)
	assert.Equal(t, FieldResponseDate, f)
	_, ok = m.Resolve("area")
	assert.False(t, ok, "replaced header no longer resolves")
}

func TestLoadMapping_UnknownField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "headers.yaml")
	require.NoError(t, os.WriteFile(path, []byte("salary: Salário\n"), 0o644))

	_, err := LoadMapping(path)
	require.Error(t, err)
}

func TestLoadMapping_EmptyPathIsDefault(t *testing.T) {
	m, err := LoadMapping("")
	require.NoError(t, err)
	assert.Equal(t, "nome", m.Header(FieldName))
}
