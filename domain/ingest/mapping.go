// Package ingest turns raw survey export rows into validated records.
package ingest

import (
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/helixml/pulse/domain/survey"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Field is an internal record field that an export column maps onto.
type Field string

// Profile and key fields.
const (
	FieldEmail          Field = "email"
	FieldName           Field = "name"
	FieldCorporateEmail Field = "corporate_email"
	FieldPhone          Field = "phone"
	FieldDepartment     Field = "department"
	FieldRole           Field = "role"
	FieldFunction       Field = "function"
	FieldLocation       Field = "location"
	FieldTenure         Field = "tenure"
	FieldGender         Field = "gender"
	FieldGeneration     Field = "generation"
	FieldCompanyLevel   Field = "company_level_0"
	FieldDirectorate    Field = "directorate_level_1"
	FieldManagement     Field = "management_level_2"
	FieldCoordination   Field = "coordination_level_3"
	FieldArea           Field = "area_level_4"
	FieldResponseDate   Field = "response_date"
)

// MetricField returns the record field for a metric.
func MetricField(m survey.Metric) Field { return Field(m) }

// TextField returns the record field for a text answer.
func TextField(f survey.TextField) Field { return Field(f) }

// defaultHeaders are the column headers of the upstream export.
var defaultHeaders = map[Field]string{
	FieldEmail:          "email",
	FieldName:           "nome",
	FieldCorporateEmail: "email_corporativo",
	FieldPhone:          "celular",
	FieldDepartment:     "area",
	FieldRole:           "cargo",
	FieldFunction:       "funcao",
	FieldLocation:       "localidade",
	FieldTenure:         "tempo_de_empresa",
	FieldGender:         "genero",
	FieldGeneration:     "geracao",
	FieldCompanyLevel:   "n0_empresa",
	FieldDirectorate:    "n1_diretoria",
	FieldManagement:     "n2_gerencia",
	FieldCoordination:   "n3_coordenacao",
	FieldArea:           "n4_area",
	FieldResponseDate:   "Data da Resposta",

	MetricField(survey.MetricRoleInterest):       "Interesse no Cargo",
	MetricField(survey.MetricContribution):       "Contribuição",
	MetricField(survey.MetricLearning):           "Aprendizado e Desenvolvimento",
	MetricField(survey.MetricFeedback):           "Feedback",
	MetricField(survey.MetricManagerInteraction): "Interação com Gestor",
	MetricField(survey.MetricCareerClarity):      "Clareza sobre Possibilidades de Carreira",
	MetricField(survey.MetricPermanence):         "Expectativa de Permanência",
	MetricField(survey.MetricENPS):               "eNPS",

	TextField(survey.TextRoleInterest):       "Comentários - Interesse no Cargo",
	TextField(survey.TextContribution):       "Comentários - Contribuição",
	TextField(survey.TextLearning):           "Comentários - Aprendizado e Desenvolvimento",
	TextField(survey.TextFeedback):           "Comentários - Feedback",
	TextField(survey.TextManagerInteraction): "Comentários - Interação com Gestor",
	TextField(survey.TextCareerClarity):      "Comentários - Clareza sobre Possibilidades de Carreira",
	TextField(survey.TextPermanence):         "Comentários - Expectativa de Permanência",
	TextField(survey.TextENPS):               "[Aberta] eNPS",
}

// Mapping resolves export column headers to record fields. Headers match
// after Unicode NFC normalisation, case folding, and trimming, so exports
// that differ only in accent encoding or letter case still line up.
type Mapping struct {
	headers map[Field]string
	lookup  map[string]Field
}

// DefaultMapping returns the mapping for the upstream export.
func DefaultMapping() Mapping {
	return newMapping(defaultHeaders)
}

func newMapping(headers map[Field]string) Mapping {
	lookup := make(map[string]Field, len(headers))
	for field, header := range headers {
		lookup[NormalizeHeader(header)] = field
	}
	return Mapping{headers: maps.Clone(headers), lookup: lookup}
}

// WithOverrides returns a copy where each given field reads from a
// different header. Unknown fields are rejected.
func (m Mapping) WithOverrides(overrides map[string]string) (Mapping, error) {
	headers := maps.Clone(m.headers)
	for field, header := range overrides {
		if _, ok := headers[Field(field)]; !ok {
			return Mapping{}, fmt.Errorf("override header for %q: unknown field", field)
		}
		if strings.TrimSpace(header) == "" {
			return Mapping{}, fmt.Errorf("override header for %q: empty header", field)
		}
		headers[Field(field)] = header
	}
	return newMapping(headers), nil
}

// Header returns the export header a field is read from.
func (m Mapping) Header(f Field) string { return m.headers[f] }

// Resolve returns the field a header maps to.
func (m Mapping) Resolve(header string) (Field, bool) {
	f, ok := m.lookup[NormalizeHeader(header)]
	return f, ok
}

// LoadMapping reads YAML overrides of the form `field: Header` from path
// and applies them to the default mapping. An empty path yields the default.
func LoadMapping(path string) (Mapping, error) {
	if path == "" {
		return DefaultMapping(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Mapping{}, fmt.Errorf("read header mapping: %w", err)
	}
	var overrides map[string]string
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return Mapping{}, fmt.Errorf("parse header mapping %s: %w", path, err)
	}
	return DefaultMapping().WithOverrides(overrides)
}

// NormalizeHeader canonicalises a column header for comparison.
func NormalizeHeader(h string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(h)))
}
