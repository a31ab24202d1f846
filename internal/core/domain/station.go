package domain

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxStationNameLength is the longest station name accepted, in characters.
const MaxStationNameLength = 120

var ErrStationNotFound = errors.New("station not found")

// Station is a train station record. ManagerID is a non-owning reference to
// the user allowed to modify this station in addition to admins.
type Station struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	ManagerID *int64 `json:"managerId,omitempty"`
}

// StationInput carries the mutable fields of a station for create and update.
type StationInput struct {
	Name      string
	Address   string
	ManagerID *int64
}

// Validate enforces the field rules shared by create and update.
func (in StationInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return NewValidationError("name", "name is required")
	case utf8.RuneCountInString(in.Name) > MaxStationNameLength:
		return NewValidationError("name", "name must be at most 120 characters")
	case strings.TrimSpace(in.Address) == "":
		return NewValidationError("address", "address is required")
	case in.ManagerID != nil && *in.ManagerID <= 0:
		return NewValidationError("managerId", "managerId must be a positive user id")
	}
	return nil
}

// Apply returns a copy of s with the input fields replaced. The id is kept.
func (in StationInput) Apply(s Station) Station {
	s.Name = in.Name
	s.Address = in.Address
	s.ManagerID = cloneID(in.ManagerID)
	return s
}

// ManagedBy reports whether userID is the recorded manager of the station.
func (s Station) ManagedBy(userID int64) bool {
	return s.ManagerID != nil && *s.ManagerID == userID
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
