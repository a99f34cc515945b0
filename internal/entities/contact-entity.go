package entities

import (
	"strings"
	"time"

	"github.com/aarondl/null/v8"
)

// Contact is a callable customer record. Created by import, mutated by the
// outcome state machine and the maintenance sweep, never deleted.
//
// Assignment (AssignedOperatorID) is the durable responsibility link set by
// outcome transitions. The lock pair (LockedByID/LockedAt) is transient
// call-session state and lives at most LockTTLMinutes.
type Contact struct {
	ID           uint64
	CustomerCode null.String // unique when present
	PriorityCode string      // last two digits drive routing filters
	Salutation   string
	Title        string
	FirstName    string
	LastName     string
	LastOrder    string      // free-text date from the source export
	Ranking      null.String // free-text numeric field ordering tier 3
	Phone1       string
	Phone2       string
	BirthDate    null.Time
	LastContact  string
	Campaign     string
	Street       string
	City         string
	Zip          string
	Recency      string

	VIP        bool
	VIPAddedAt null.Time
	VIPNote    string

	PermanentlyBlocked bool
	NoAnswerStreak     int
	Active             bool
	DeactivatedUntil   null.Time
	LastSaleAt         null.Time

	AssignedOperatorID null.Uint64
	AssignedAt         null.Time

	LockedByID null.Uint64
	LockedAt   null.Time

	ImportedAt null.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c *Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// LockedByOther reports whether a different operator holds a lock that is
// still younger than ttl.
func (c *Contact) LockedByOther(operatorID uint64, now time.Time, ttl time.Duration) bool {
	if !c.LockedByID.Valid || c.LockedByID.Uint64 == operatorID {
		return false
	}
	return c.LockedAt.Valid && c.LockedAt.Time.After(now.Add(-ttl))
}
