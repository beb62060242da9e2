// Package roster defines the people and cohorts a school schedules
// classes for.
package roster

import (
	"strings"
	"time"

	"github.com/abhisek/drivedesk/internal/curriculum"
	"github.com/abhisek/drivedesk/internal/validate"
)

// StudentStatus is the enrolment state of a student.
type StudentStatus string

const (
	StudentActive    StudentStatus = "active"
	StudentGraduated StudentStatus = "graduated"
	StudentInactive  StudentStatus = "inactive"
)

// Student is an enrolled learner driver.
type Student struct {
	ID             string        `json:"id"`
	FirstName      string        `json:"first_name" validate:"notblank,max=100"`
	LastName       string        `json:"last_name" validate:"notblank,max=100"`
	Email          string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string        `json:"phone,omitempty" validate:"omitempty,max=32"`
	PermitNumber   string        `json:"permit_number,omitempty" validate:"omitempty,max=32"`
	GroupID        string        `json:"group_id,omitempty"`
	CompletedHours float64       `json:"completed_hours" validate:"gte=0"`
	CurrentPhase   *int          `json:"current_phase,omitempty" validate:"omitempty,min=1,max=4"`
	Status         StudentStatus `json:"status" validate:"omitempty,oneof=active graduated inactive"`
	CreatedAt      time.Time     `json:"created_at"`
}

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// PhaseOverride returns the stored phase as a curriculum phase, or nil when
// none is recorded.
func (s Student) PhaseOverride() *curriculum.Phase {
	if s.CurrentPhase == nil {
		return nil
	}
	p := curriculum.Phase(*s.CurrentPhase)
	return &p
}

// Validate checks the student's fields.
func (s Student) Validate() error {
	return validate.Struct(s)
}

// Instructor teaches theory and accompanies practical sessions.
type Instructor struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name" validate:"notblank,max=100"`
	LastName  string `json:"last_name" validate:"notblank,max=100"`
	Email     string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Active    bool   `json:"active"`
}

func (i Instructor) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

func (i Instructor) Validate() error {
	return validate.Struct(i)
}

// Group is a cohort that attends theory classes together.
type Group struct {
	ID        string `json:"id"`
	Name      string `json:"name" validate:"notblank,max=100"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

func (g Group) Validate() error {
	return validate.Struct(g)
}
