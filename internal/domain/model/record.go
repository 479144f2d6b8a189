// Package model contains the domain models passed between the pairing stages.
package model

import "github.com/okian/duet/internal/domain/attribute"

// RawRecord is one questionnaire submission as received from the intake
// form. Field names mirror the submission payload.
type RawRecord struct {
	DeviceID           string `json:"deviceId" yaml:"deviceId"`       // submission identity
	DisplayName        string `json:"displayName" yaml:"displayName"` // name or nickname
	MainDomain         string `json:"mainDomain" yaml:"mainDomain"`
	SecondDomain       string `json:"secondDomain" yaml:"secondDomain"`
	WorkStyle          string `json:"workStyle" yaml:"workStyle"`
	TeamStyle          string `json:"teamStyle" yaml:"teamStyle"`
	WorkPace           string `json:"workPace" yaml:"workPace"`
	TeamRole           string `json:"teamRole" yaml:"teamRole"`
	MotivationSource   string `json:"motivationSource" yaml:"motivationSource"`
	PressureResponse   string `json:"pressureResponse" yaml:"pressureResponse"`
	ConflictStyle      string `json:"conflictStyle" yaml:"conflictStyle"`
	CommunicationStyle string `json:"communicationStyle" yaml:"communicationStyle"`
	LifeInterest       string `json:"lifeInterest" yaml:"lifeInterest"`
	ImportanceLevel    string `json:"importanceLevel" yaml:"importanceLevel"`
	// CreatedAt is the submission time in epoch milliseconds. Anything that
	// is not a number makes the record ineligible.
	CreatedAt any `json:"createdAt" yaml:"createdAt"`
}

// Value returns the raw answer stored for d.
func (r RawRecord) Value(d attribute.Dimension) string {
	switch d {
	case attribute.PrimaryDomain:
		return r.MainDomain
	case attribute.SecondaryDomain:
		return r.SecondDomain
	case attribute.WorkStyle:
		return r.WorkStyle
	case attribute.TeamStyle:
		return r.TeamStyle
	case attribute.WorkPace:
		return r.WorkPace
	case attribute.TeamRole:
		return r.TeamRole
	case attribute.MotivationSource:
		return r.MotivationSource
	case attribute.PressureResponse:
		return r.PressureResponse
	case attribute.ConflictStyle:
		return r.ConflictStyle
	case attribute.CommunicationStyle:
		return r.CommunicationStyle
	case attribute.LifeInterest:
		return r.LifeInterest
	case attribute.ImportanceLevel:
		return r.ImportanceLevel
	default:
		return ""
	}
}

// SetValue stores raw for d. Unknown dimensions are ignored.
func (r *RawRecord) SetValue(d attribute.Dimension, raw string) {
	switch d {
	case attribute.PrimaryDomain:
		r.MainDomain = raw
	case attribute.SecondaryDomain:
		r.SecondDomain = raw
	case attribute.WorkStyle:
		r.WorkStyle = raw
	case attribute.TeamStyle:
		r.TeamStyle = raw
	case attribute.WorkPace:
		r.WorkPace = raw
	case attribute.TeamRole:
		r.TeamRole = raw
	case attribute.MotivationSource:
		r.MotivationSource = raw
	case attribute.PressureResponse:
		r.PressureResponse = raw
	case attribute.ConflictStyle:
		r.ConflictStyle = raw
	case attribute.CommunicationStyle:
		r.CommunicationStyle = raw
	case attribute.LifeInterest:
		r.LifeInterest = raw
	case attribute.ImportanceLevel:
		r.ImportanceLevel = raw
	}
}
