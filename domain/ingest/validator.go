package ingest

import (
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/helixml/pulse/domain/survey"
)

// DateLayout is the day/month/year pattern of the response date column.
// Day and month may be written with or without a leading zero.
const DateLayout = "2/1/2006"

// placeholder is the value exports use for an unanswered column.
const placeholder = "-"

// ErrValidation matches every ValidationError with errors.Is.
var ErrValidation = errors.New("row validation failed")

// ValidationError rejects a single row and names the offending field.
type ValidationError struct {
	Row    int
	Field  Field
	Value  string
	Reason string
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: field %s: %s (value %q)", e.Row, e.Field, e.Reason, e.Value)
}

// Is matches ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Validator maps raw rows onto records.
type Validator struct {
	mapping Mapping
}

// NewValidator creates a Validator using the given header mapping.
func NewValidator(mapping Mapping) Validator {
	return Validator{mapping: mapping}
}

// Validate converts one row. Blank and placeholder values become absent.
// Email, name, department, and response date are required.
func (v Validator) Validate(row Row) (Record, error) {
	values, raw := v.fields(row)
	fail := func(f Field, reason string) (Record, error) {
		return Record{}, &ValidationError{Row: row.Number, Field: f, Value: raw[f], Reason: reason}
	}

	email, ok := values[FieldEmail]
	if !ok {
		return fail(FieldEmail, "required")
	}
	if !validEmail(email) {
		return fail(FieldEmail, "malformed email address")
	}

	name, ok := values[FieldName]
	if !ok {
		return fail(FieldName, "required")
	}

	department, ok := values[FieldDepartment]
	if !ok {
		return fail(FieldDepartment, "required")
	}

	rawDate, ok := values[FieldResponseDate]
	if !ok {
		return fail(FieldResponseDate, "required")
	}
	date, err := time.Parse(DateLayout, rawDate)
	if err != nil {
		return fail(FieldResponseDate, "expected DD/MM/YYYY")
	}

	scores := make(map[survey.Metric]int)
	for _, m := range survey.AllMetrics() {
		value, ok := values[MetricField(m)]
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fail(MetricField(m), "not an integer")
		}
		scores[m] = n
	}

	texts := make(map[survey.TextField]string)
	for _, f := range survey.AllTextFields() {
		if text, ok := values[TextField(f)]; ok {
			texts[f] = text
		}
	}

	return Record{
		Row:        row.Number,
		Email:      email,
		Department: department,
		Profile: survey.Profile{
			Name:           name,
			CorporateEmail: values[FieldCorporateEmail],
			Phone:          values[FieldPhone],
			Role:           values[FieldRole],
			Function:       values[FieldFunction],
			Location:       values[FieldLocation],
			Tenure:         values[FieldTenure],
			Gender:         values[FieldGender],
			Generation:     values[FieldGeneration],
			Hierarchy: survey.Hierarchy{
				Company:      values[FieldCompanyLevel],
				Directorate:  values[FieldDirectorate],
				Management:   values[FieldManagement],
				Coordination: values[FieldCoordination],
				Area:         values[FieldArea],
			},
		},
		Date:   survey.Day(date),
		Scores: survey.NewScores(scores),
		Texts:  survey.NewTexts(texts),
	}, nil
}

// fields resolves headers and drops absent values. Text answers keep their
// original spacing; every other value is trimmed. The second map holds the
// raw value of every mapped column for error reporting.
func (v Validator) fields(row Row) (map[Field]string, map[Field]string) {
	out := make(map[Field]string, len(row.Values))
	raws := make(map[Field]string, len(row.Values))
	for header, raw := range row.Values {
		field, ok := v.mapping.Resolve(header)
		if !ok {
			continue
		}
		raws[field] = raw
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || trimmed == placeholder {
			continue
		}
		if isTextField(field) {
			out[field] = raw
			continue
		}
		out[field] = trimmed
	}
	return out, raws
}

func isTextField(f Field) bool {
	return survey.TextField(f).IsValid()
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	return at > 0 && strings.Contains(s[at+1:], ".")
}
