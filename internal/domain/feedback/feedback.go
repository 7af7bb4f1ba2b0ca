package feedback

import (
	"time"

	"gorm.io/datatypes"
)

// FeedbackType is the submitter's own classification of the feedback.
type FeedbackType string

const (
	TypePositive   FeedbackType = "positive"
	TypeNegative   FeedbackType = "negative"
	TypeNeutral    FeedbackType = "neutral"
	TypeSuggestion FeedbackType = "suggestion"
)

// Feedback is one submitted evaluation of an interview session or its
// generated template. Priority is assigned at submission time and drives the
// processing queue order; Processed flips when a reviewer consumes the entry.
type Feedback struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"feedbackId"`
	SessionID string         `gorm:"type:uuid;index;not null;column:session_id" json:"sessionId"`
	UserID    int64          `gorm:"index;not null;column:user_id" json:"userId"`
	Type      FeedbackType   `gorm:"not null;column:type" json:"type"`
	Category  string         `gorm:"column:category" json:"category,omitempty"`
	Rating    int            `gorm:"not null;column:rating" json:"rating"`
	Message   string         `gorm:"column:message" json:"message,omitempty"`
	Metadata  datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`
	Priority  int            `gorm:"not null;column:priority" json:"priority"`
	Processed bool           `gorm:"not null;default:false;column:processed" json:"processed"`

	SubmittedAt time.Time `gorm:"not null;default:now()" json:"submittedAt"`
}

func (Feedback) TableName() string { return "feedback" }
