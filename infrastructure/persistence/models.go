package persistence

import "time"

// DepartmentModel is the GORM model for departments.
type DepartmentModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Name      string    `gorm:"size:255;not null;uniqueIndex:idx_departments_name"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name.
func (DepartmentModel) TableName() string { return "departments" }

// EmployeeModel is the GORM model for employees.
type EmployeeModel struct {
	ID             int64            `gorm:"primaryKey;autoIncrement"`
	Email          string           `gorm:"size:255;not null;uniqueIndex:idx_employees_email"`
	Name           string           `gorm:"size:255;not null"`
	CorporateEmail *string          `gorm:"size:255"`
	Phone          *string          `gorm:"size:64"`
	DepartmentID   int64            `gorm:"not null;index:idx_employees_department"`
	Department     *DepartmentModel `gorm:"foreignKey:DepartmentID;constraint:OnDelete:RESTRICT"`
	Role           *string          `gorm:"size:255"`
	Function       *string          `gorm:"size:255"`
	Location       *string          `gorm:"size:255"`
	Tenure         *string          `gorm:"size:255"`
	TenureRank     int              `gorm:"not null;default:0"`
	Gender         *string          `gorm:"size:64"`
	Generation     *string          `gorm:"size:64"`
	CompanyLevel0  *string          `gorm:"column:company_level_0;size:255"`
	DirectorateL1  *string          `gorm:"column:directorate_level_1;size:255"`
	ManagementL2   *string          `gorm:"column:management_level_2;size:255"`
	CoordinationL3 *string          `gorm:"column:coordination_level_3;size:255"`
	AreaLevel4     *string          `gorm:"column:area_level_4;size:255"`
	CreatedAt      time.Time        `gorm:"not null"`
	UpdatedAt      time.Time        `gorm:"not null"`
}

// TableName returns the table name.
func (EmployeeModel) TableName() string { return "employees" }

// SurveyModel is the GORM model for surveys. Date holds the calendar date
// as YYYY-MM-DD so equality lookups behave the same on every driver.
type SurveyModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_surveys_date"`
	Name      string    `gorm:"size:64;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name.
func (SurveyModel) TableName() string { return "surveys" }

// ResponseModel is the GORM model for survey responses.
type ResponseModel struct {
	ID         int64            `gorm:"primaryKey;autoIncrement"`
	EmployeeID int64            `gorm:"not null;uniqueIndex:idx_responses_employee_survey,priority:1"`
	Employee   *EmployeeModel   `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	SurveyID   int64            `gorm:"not null;uniqueIndex:idx_responses_employee_survey,priority:2;index:idx_responses_survey"`
	Survey     *SurveyModel     `gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Sentiments []SentimentModel `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`

	RoleInterest       *int
	Contribution       *int
	Learning           *int
	FeedbackScore      *int
	ManagerInteraction *int
	CareerClarity      *int
	Permanence         *int
	ENPS               *int `gorm:"column:enps"`

	RoleInterestComment       *string `gorm:"type:text"`
	ContributionComment       *string `gorm:"type:text"`
	LearningComment           *string `gorm:"type:text"`
	FeedbackComment           *string `gorm:"type:text"`
	ManagerInteractionComment *string `gorm:"type:text"`
	CareerClarityComment      *string `gorm:"type:text"`
	PermanenceComment         *string `gorm:"type:text"`
	ENPSComment               *string `gorm:"column:enps_comment;type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name.
func (ResponseModel) TableName() string { return "responses" }

// SentimentModel is the GORM model for per-field response sentiment.
type SentimentModel struct {
	ID              int64     `gorm:"primaryKey;autoIncrement"`
	ResponseID      int64     `gorm:"not null;uniqueIndex:idx_sentiments_response_field,priority:1"`
	FieldName       string    `gorm:"size:64;not null;uniqueIndex:idx_sentiments_response_field,priority:2"`
	SentimentLabel  string    `gorm:"size:16;not null"`
	SentimentScore  float64   `gorm:"not null"`
	SentimentRating int       `gorm:"not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name.
func (SentimentModel) TableName() string { return "response_sentiments" }
