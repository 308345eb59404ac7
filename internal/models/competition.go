package models

import (
	"crypto/rand"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SelectionsPerParticipant is the fixed number of golfers every participant
// picks. Enforced at participant creation.
const SelectionsPerParticipant = 4

// Competition is one sweepstake tied to a major. Participants join with an
// access code; the competition locks when the tournament tees off.
type Competition struct {
	ID           uuid.UUID     `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	Title        string        `gorm:"not null" json:"title"`
	MajorType    string        `gorm:"type:varchar(32);not null;index" json:"major_type"`
	StartDate    time.Time     `gorm:"not null" json:"start_date"`
	EndDate      time.Time     `gorm:"not null" json:"end_date"`
	AccessCode   string        `gorm:"type:varchar(8);uniqueIndex;not null" json:"access_code"`
	CreatedBy    string        `gorm:"not null;index" json:"created_by"`
	Participants []Participant `gorm:"constraint:OnDelete:CASCADE" json:"participants,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

func (c *Competition) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Locked reports whether the tournament has started; entries are frozen
// from that point on.
func (c *Competition) Locked(now time.Time) bool {
	return !now.Before(c.StartDate)
}

// Finished reports whether the tournament is over.
func (c *Competition) Finished(now time.Time) bool {
	return now.After(c.EndDate)
}

// Participant is one entrant in a competition, owning exactly
// SelectionsPerParticipant picks.
type Participant struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	CompetitionID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"competition_id"`
	Username         string            `gorm:"not null" json:"username"`
	PlayerSelections []PlayerSelection `gorm:"constraint:OnDelete:CASCADE" json:"player_selections,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
}

func (p *Participant) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PlayerSelection is one picked golfer. The join against live data happens
// by normalized display name at read time; there is no foreign key into the
// feed, so a name mismatch simply means no live data for the pick.
type PlayerSelection struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ParticipantID uuid.UUID `gorm:"type:uuid;not null;index" json:"participant_id"`
	PlayerName    string    `gorm:"not null" json:"player_name"`
	CreatedAt     time.Time `json:"created_at"`
}

func (s *PlayerSelection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

const accessCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateAccessCode returns a 6-character upper-case alphanumeric code used
// in share links. Uniqueness is backed by the database index, not the
// generator.
func GenerateAccessCode() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken;
		// fall back to a deterministic-but-valid code.
		return "AAAAAA"
	}
	for i, b := range buf {
		buf[i] = accessCodeCharset[int(b)%len(accessCodeCharset)]
	}
	return string(buf)
}
