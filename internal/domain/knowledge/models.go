package knowledge

import (
	"time"

	"gorm.io/datatypes"
)

// ProcessType classifies the business processes the interviewer can ask
// about. Keywords drive requirement-to-type matching.
type ProcessType struct {
	ID          int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string         `gorm:"uniqueIndex;not null;column:name" json:"name"`
	Category    string         `gorm:"index;not null;column:category" json:"category"`
	Description string         `gorm:"column:description" json:"description"`
	Keywords    datatypes.JSON `gorm:"column:keywords" json:"keywords"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (ProcessType) TableName() string { return "process_type" }

// BestPractice is one curated recommendation source. Confidence follows the
// domain scale [0,1] and is bulk-adjustable as feedback accumulates.
type BestPractice struct {
	ID            int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	ProcessTypeID *int64         `gorm:"index;column:process_type_id" json:"processTypeId,omitempty"`
	Category      string         `gorm:"index;not null;column:category" json:"category"`
	Title         string         `gorm:"not null;column:title" json:"title"`
	Description   string         `gorm:"column:description" json:"description"`
	Confidence    float64        `gorm:"not null;column:confidence" json:"confidence"`
	Source        string         `gorm:"column:source" json:"source"`
	Tags          datatypes.JSON `gorm:"column:tags" json:"tags"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (BestPractice) TableName() string { return "best_practice" }

// IndustryTemplate is a pre-assembled step plan for a known industry.
// Steps holds serialized step recommendations in the wire shape used by
// generated templates.
type IndustryTemplate struct {
	ID                    int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Industry              string         `gorm:"index;not null;column:industry" json:"industry"`
	Name                  string         `gorm:"not null;column:name" json:"name"`
	Description           string         `gorm:"column:description" json:"description"`
	Complexity            string         `gorm:"not null;column:complexity" json:"complexity"`
	EstimatedDurationDays int            `gorm:"not null;column:estimated_duration_days" json:"estimatedDurationDays"`
	Steps                 datatypes.JSON `gorm:"column:steps" json:"steps"`
	Confidence            float64        `gorm:"not null;column:confidence" json:"confidence"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updatedAt"`
}

func (IndustryTemplate) TableName() string { return "industry_template" }
