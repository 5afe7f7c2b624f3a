package models

import (
	"encoding/json"
	"io"
	"strconv"
	"time"
)

// UserProfile is the profile returned by login or signup. The client keeps it
// for display only.
type UserProfile struct {
	ID                    string     `json:"id,omitempty"`
	Email                 string     `json:"email"`
	FullName              string     `json:"full_name"`
	DateOfBirth           *time.Time `json:"date_of_birth,omitempty"`
	Location              string     `json:"location"`
	GraduationDate        *time.Time `json:"graduation_date,omitempty"`
	GraduationInstitution string     `json:"graduation_institution"`
	TransportationMode    string     `json:"transportation_mode"`
	ResumeReference       string     `json:"resume_reference,omitempty"`
}

// UserPayload mirrors the "user" object of an auth response.
type UserPayload struct {
	ID                    json.Number `json:"id"`
	Email                 string      `json:"email"`
	FullName              string      `json:"full_name"`
	DateOfBirth           *string     `json:"date_of_birth"`
	Location              string      `json:"location"`
	GraduationDate        *string     `json:"graduation_date"`
	GraduationInstitution string      `json:"graduation_institution"`
	TransportationMode    string      `json:"transportation_mode"`
	ResumeURL             *string     `json:"resume_url"`
}

// Profile converts the payload. Unparsable dates are dropped.
func (p UserPayload) Profile() UserProfile {
	profile := UserProfile{
		ID:                    p.ID.String(),
		Email:                 p.Email,
		FullName:              p.FullName,
		Location:              p.Location,
		GraduationInstitution: p.GraduationInstitution,
		TransportationMode:    p.TransportationMode,
	}
	if p.DateOfBirth != nil {
		profile.DateOfBirth = parseProfileDate(*p.DateOfBirth)
	}
	if p.GraduationDate != nil {
		profile.GraduationDate = parseProfileDate(*p.GraduationDate)
	}
	if p.ResumeURL != nil {
		profile.ResumeReference = *p.ResumeURL
	}
	return profile
}

// AuthResponse is the body of a successful login or signup.
type AuthResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	User        UserPayload `json:"user"`
}

// SignupDraft carries the fields a user fills in before creating an account.
type SignupDraft struct {
	Email                 string
	FullName              string
	DateOfBirth           *time.Time
	Location              string
	GraduationDate        *time.Time
	GraduationInstitution string
	TransportationMode    string
}

// Fields returns the multipart text fields for the signup form.
func (d SignupDraft) Fields() []Field {
	fields := []Field{
		{Name: "email", Value: d.Email},
		{Name: "full_name", Value: d.FullName},
		{Name: "location", Value: d.Location},
		{Name: "graduation_institution", Value: d.GraduationInstitution},
		{Name: "transportation_mode", Value: d.TransportationMode},
	}
	if dob := FormatDate(d.DateOfBirth); dob != "" {
		fields = append(fields, Field{Name: "date_of_birth", Value: dob})
	}
	if grad := FormatDate(d.GraduationDate); grad != "" {
		fields = append(fields, Field{Name: "graduation_date", Value: grad})
	}
	return fields
}

// Fill copies draft values into empty profile fields.
func (d SignupDraft) Fill(profile UserProfile) UserProfile {
	if profile.Email == "" {
		profile.Email = d.Email
	}
	if profile.FullName == "" {
		profile.FullName = d.FullName
	}
	if profile.DateOfBirth == nil {
		profile.DateOfBirth = d.DateOfBirth
	}
	if profile.Location == "" {
		profile.Location = d.Location
	}
	if profile.GraduationDate == nil {
		profile.GraduationDate = d.GraduationDate
	}
	if profile.GraduationInstitution == "" {
		profile.GraduationInstitution = d.GraduationInstitution
	}
	if profile.TransportationMode == "" {
		profile.TransportationMode = d.TransportationMode
	}
	return profile
}

// Field is a multipart text part.
type Field struct {
	Name  string
	Value string
}

// Resume is an optional file attached to signup.
type Resume struct {
	FileName    string
	ContentType string
	Content     io.Reader
}

func parseProfileDate(value string) *time.Time {
	ts, err := ParseTimestamp(value)
	if err != nil {
		return nil
	}
	day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return &day
}

// FormatID renders a numeric identifier for display and storage.
func FormatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
