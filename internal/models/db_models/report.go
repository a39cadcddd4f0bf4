package db_models

import "github.com/google/uuid"

const (
	ReportKindLost  = "lost"
	ReportKindFound = "found"
)

const (
	ReportStatusActive   = "active"
	ReportStatusResolved = "resolved"
	ReportStatusClosed   = "closed"
)

// Report is a lost or found item/person entry. Category, color, brand and
// neighborhood annotations live inside Description as free text, they are
// not separate columns.
type Report struct {
	BaseModel
	Title       string
	Description string
	Kind        string `gorm:"index"`
	Status      string `gorm:"index;default:active"`

	Location string
	City     string `gorm:"index"`
	District string

	ContactPhone string
	ContactEmail string

	ImagePath string

	UserID   uuid.UUID `gorm:"type:uuid;index"`
	IsUrgent bool

	// Missing-person fields. Kind of a missing-person report is fixed at
	// creation (disappearance -> lost, sighting -> found).
	IsMissingChild        bool
	ChildName             string
	ChildAge              int
	ChildGender           string
	ChildHeight           int
	ChildWeight           int
	ChildHairColor        string
	ChildEyeColor         string
	ChildPhysicalFeatures string
	MissingDate           int64 `gorm:"default:0"` // unix day resolution, 0 = unset
	LastSeenLocation      string
	LastSeenClothing      string
}

func (Report) TableName() string {
	return "reports"
}

// OppositeKind returns the kind a candidate must carry to correspond with
// this report.
func (r *Report) OppositeKind() string {
	if r.Kind == ReportKindLost {
		return ReportKindFound
	}
	return ReportKindLost
}

func (r *Report) HasImage() bool {
	return r.ImagePath != ""
}
