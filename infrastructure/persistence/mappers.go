package persistence

import (
	"time"

	"github.com/helixml/pulse/domain/sentiment"
	"github.com/helixml/pulse/domain/survey"
)

// DepartmentMapper maps between domain Department and DepartmentModel.
type DepartmentMapper struct{}

// ToDomain converts a DepartmentModel to a domain Department.
func (DepartmentMapper) ToDomain(m DepartmentModel) survey.Department {
	return survey.ReconstructDepartment(m.ID, m.Name, m.CreatedAt)
}

// ToModel converts a domain Department to a DepartmentModel.
func (DepartmentMapper) ToModel(d survey.Department) DepartmentModel {
	return DepartmentModel{
		ID:        d.ID(),
		Name:      d.Name(),
		CreatedAt: d.CreatedAt(),
	}
}

// EmployeeMapper maps between domain Employee and EmployeeModel.
type EmployeeMapper struct{}

// ToDomain converts an EmployeeModel to a domain Employee.
func (EmployeeMapper) ToDomain(m EmployeeModel) survey.Employee {
	profile := survey.Profile{
		Name:           m.Name,
		CorporateEmail: deref(m.CorporateEmail),
		Phone:          deref(m.Phone),
		Role:           deref(m.Role),
		Function:       deref(m.Function),
		Location:       deref(m.Location),
		Tenure:         deref(m.Tenure),
		Gender:         deref(m.Gender),
		Generation:     deref(m.Generation),
		Hierarchy: survey.Hierarchy{
			Company:      deref(m.CompanyLevel0),
			Directorate:  deref(m.DirectorateL1),
			Management:   deref(m.ManagementL2),
			Coordination: deref(m.CoordinationL3),
			Area:         deref(m.AreaLevel4),
		},
	}
	return survey.ReconstructEmployee(m.ID, m.Email, m.DepartmentID, profile, m.TenureRank, m.CreatedAt, m.UpdatedAt)
}

// ToModel converts a domain Employee to an EmployeeModel.
func (EmployeeMapper) ToModel(e survey.Employee) EmployeeModel {
	p := e.Profile()
	return EmployeeModel{
		ID:             e.ID(),
		Email:          e.Email(),
		Name:           p.Name,
		CorporateEmail: optional(p.CorporateEmail),
		Phone:          optional(p.Phone),
		DepartmentID:   e.DepartmentID(),
		Role:           optional(p.Role),
		Function:       optional(p.Function),
		Location:       optional(p.Location),
		Tenure:         optional(p.Tenure),
		TenureRank:     e.TenureRank(),
		Gender:         optional(p.Gender),
		Generation:     optional(p.Generation),
		CompanyLevel0:  optional(p.Hierarchy.Company),
		DirectorateL1:  optional(p.Hierarchy.Directorate),
		ManagementL2:   optional(p.Hierarchy.Management),
		CoordinationL3: optional(p.Hierarchy.Coordination),
		AreaLevel4:     optional(p.Hierarchy.Area),
		CreatedAt:      e.CreatedAt(),
		UpdatedAt:      e.UpdatedAt(),
	}
}

// SurveyMapper maps between domain Survey and SurveyModel.
type SurveyMapper struct{}

// ToDomain converts a SurveyModel to a domain Survey. A date that fails to
// parse maps to the zero time.
func (SurveyMapper) ToDomain(m SurveyModel) survey.Survey {
	date, _ := time.Parse(survey.DateLayout, m.Date)
	return survey.ReconstructSurvey(m.ID, date, m.Name, m.CreatedAt)
}

// ToModel converts a domain Survey to a SurveyModel.
func (SurveyMapper) ToModel(s survey.Survey) SurveyModel {
	return SurveyModel{
		ID:        s.ID(),
		Date:      survey.DateKey(s.Date()),
		Name:      s.Name(),
		CreatedAt: s.CreatedAt(),
	}
}

// ResponseMapper maps between domain Response and ResponseModel.
type ResponseMapper struct{}

// ToDomain converts a ResponseModel to a domain Response.
func (ResponseMapper) ToDomain(m ResponseModel) survey.Response {
	scores := make(map[survey.Metric]int, len(survey.AllMetrics()))
	for metric, slot := range m.metricSlots() {
		if *slot != nil {
			scores[metric] = **slot
		}
	}
	texts := make(map[survey.TextField]string, len(survey.AllTextFields()))
	for field, slot := range m.textSlots() {
		if *slot != nil {
			texts[field] = **slot
		}
	}
	return survey.ReconstructResponse(
		m.ID, m.EmployeeID, m.SurveyID,
		survey.NewScores(scores), survey.NewTexts(texts),
		m.CreatedAt, m.UpdatedAt,
	)
}

// ToModel converts a domain Response to a ResponseModel.
func (ResponseMapper) ToModel(r survey.Response) ResponseModel {
	m := ResponseModel{
		ID:         r.ID(),
		EmployeeID: r.EmployeeID(),
		SurveyID:   r.SurveyID(),
		CreatedAt:  r.CreatedAt(),
		UpdatedAt:  r.UpdatedAt(),
	}
	for metric, slot := range m.metricSlots() {
		if v, ok := r.Scores().Get(metric); ok {
			*slot = &v
		}
	}
	for field, slot := range m.textSlots() {
		if v, ok := r.Texts().Get(field); ok {
			*slot = &v
		}
	}
	return m
}

func (m *ResponseModel) metricSlots() map[survey.Metric]**int {
	return map[survey.Metric]**int{
		survey.MetricRoleInterest:       &m.RoleInterest,
		survey.MetricContribution:       &m.Contribution,
		survey.MetricLearning:           &m.Learning,
		survey.MetricFeedback:           &m.FeedbackScore,
		survey.MetricManagerInteraction: &m.ManagerInteraction,
		survey.MetricCareerClarity:      &m.CareerClarity,
		survey.MetricPermanence:         &m.Permanence,
		survey.MetricENPS:               &m.ENPS,
	}
}

func (m *ResponseModel) textSlots() map[survey.TextField]**string {
	return map[survey.TextField]**string{
		survey.TextRoleInterest:       &m.RoleInterestComment,
		survey.TextContribution:       &m.ContributionComment,
		survey.TextLearning:           &m.LearningComment,
		survey.TextFeedback:           &m.FeedbackComment,
		survey.TextManagerInteraction: &m.ManagerInteractionComment,
		survey.TextCareerClarity:      &m.CareerClarityComment,
		survey.TextPermanence:         &m.PermanenceComment,
		survey.TextENPS:               &m.ENPSComment,
	}
}

// SentimentMapper maps between domain sentiment Record and SentimentModel.
type SentimentMapper struct{}

// ToDomain converts a SentimentModel to a domain Record.
func (SentimentMapper) ToDomain(m SentimentModel) sentiment.Record {
	return sentiment.ReconstructRecord(
		m.ID, m.ResponseID,
		survey.TextField(m.FieldName),
		sentiment.Label(m.SentimentLabel),
		m.SentimentScore,
		m.SentimentRating,
		m.CreatedAt, m.UpdatedAt,
	)
}

// ToModel converts a domain Record to a SentimentModel.
func (SentimentMapper) ToModel(r sentiment.Record) SentimentModel {
	return SentimentModel{
		ID:              r.ID(),
		ResponseID:      r.ResponseID(),
		FieldName:       string(r.Field()),
		SentimentLabel:  string(r.Label()),
		SentimentScore:  r.Score(),
		SentimentRating: r.Rating(),
		CreatedAt:       r.CreatedAt(),
		UpdatedAt:       r.UpdatedAt(),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
