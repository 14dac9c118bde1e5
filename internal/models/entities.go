package models

import (
	"errors"
	"math"
)

var (
	ErrNoMeasurement      = errors.New("growth record needs at least one measurement")
	ErrInvalidMeasurement = errors.New("measurement must be a finite number")
)

// User is an account profile. FamilyID links partners sharing children.
type User struct {
	ID              string
	Email           string
	DisplayName     string
	ProfileImageURL string
	CreatedAt       Millis
	UpdatedAt       Millis
	FamilyID        string
	IsPartner       bool

	// Synced is false while the last local write has not reached the remote store.
	Synced bool
}

// Child is the root of every child-scoped record.
type Child struct {
	ID              string
	UserID          string
	Name            string
	BirthDate       Date
	Gender          Gender
	ProfileImageURL string
	CreatedAt       Millis
	UpdatedAt       Millis
	Synced          bool
}

// Diary is a dated journal entry. MediaIDs is ordered and may repeat ids.
type Diary struct {
	ID        string
	ChildID   string
	Title     string
	Content   string
	MediaIDs  []string
	Date      Date
	CreatedAt Millis
	UpdatedAt Millis
	Synced    bool
}

// Media is a photo, video or ultrasound echo. While Uploaded is false the
// binary may still live at LocalPath and URL may be empty.
type Media struct {
	ID           string
	ChildID      string
	Type         MediaType
	URL          string
	ThumbnailURL string
	Caption      string
	TakenAt      Millis
	UploadedAt   Millis
	Uploaded     bool
	LocalPath    string
}

// GrowthRecord holds one set of measurements. Nil means not measured.
type GrowthRecord struct {
	ID                string
	ChildID           string
	Height            *float64 // cm
	Weight            *float64 // kg
	HeadCircumference *float64 // cm
	RecordedAt        Date
	Notes             string
	CreatedAt         Millis
	Synced            bool
}

// Validate checks that at least one measurement is present and that every
// present one is finite.
func (g GrowthRecord) Validate() error {
	if g.Height == nil && g.Weight == nil && g.HeadCircumference == nil {
		return ErrNoMeasurement
	}
	for _, v := range []*float64{g.Height, g.Weight, g.HeadCircumference} {
		if v != nil && !Finite(*v) {
			return ErrInvalidMeasurement
		}
	}
	return nil
}

// Finite reports whether v is neither NaN nor an infinity.
func Finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

type Event struct {
	ID          string
	ChildID     string
	Title       string
	Description string
	EventDate   Date
	MediaIDs    []string
	Type        EventType
	CreatedAt   Millis
	UpdatedAt   Millis
	Synced      bool
}

type Milestone struct {
	ID          string
	ChildID     string
	Type        MilestoneType
	Title       string
	Description string
	AchievedAt  Date
	MediaIDs    []string
	CreatedAt   Millis
	Synced      bool
}
