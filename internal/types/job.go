// Package types provides the job, application and form payloads shared by the
// backend client, the admin workflow and the web handlers.
package types

import (
	"slices"
	"strings"
)

// JobType is the employment type of a posting.
type JobType string

// Supported job types.
const (
	FullTime   JobType = "Full-Time"
	PartTime   JobType = "Part-Time"
	Contract   JobType = "Contract"
	Internship JobType = "Internship"
)

// JobTypes lists the job types in display order.
func JobTypes() []JobType {
	return []JobType{FullTime, PartTime, Contract, Internship}
}

// Valid reports whether t is one of the supported job types.
func (t JobType) Valid() bool {
	return slices.Contains(JobTypes(), t)
}

// Job is a single posting as returned by the backend.
type Job struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Company          string   `json:"company"`
	CompanyLogo      string   `json:"companyLogo,omitempty"`
	Description      string   `json:"description"`
	Department       string   `json:"department"`
	Location         string   `json:"location"`
	Type             JobType  `json:"type"`
	Requirements     []string `json:"requirements"`
	Responsibilities []string `json:"responsibilities"`
	Salary           string   `json:"salary,omitempty"`
	Benefits         []string `json:"benefits,omitempty"`
	MapURL           string   `json:"mapUrl,omitempty"`
}

// JobInput is the payload for creating a job.
type JobInput struct {
	Title            string   `json:"title" validate:"required,nonblank"`
	Company          string   `json:"company" validate:"required,nonblank"`
	CompanyLogo      string   `json:"companyLogo,omitempty" validate:"omitempty,url"`
	Description      string   `json:"description" validate:"required,nonblank"`
	Department       string   `json:"department" validate:"required,nonblank"`
	Location         string   `json:"location" validate:"required,nonblank"`
	Type             JobType  `json:"type" validate:"required,jobtype"`
	Requirements     []string `json:"requirements" validate:"required,min=1,dive,nonblank"`
	Responsibilities []string `json:"responsibilities" validate:"required,min=1,dive,nonblank"`
	Salary           string   `json:"salary,omitempty"`
	Benefits         []string `json:"benefits,omitempty" validate:"omitempty,dive,nonblank"`
	MapURL           string   `json:"mapUrl,omitempty" validate:"omitempty,url"`
}

// Validate checks the create payload. Failures are returned as FieldErrors.
func (in *JobInput) Validate() error {
	return validateStruct(in, jobMessages)
}

// JobUpdate is a partial job payload. Nil fields are left untouched by the
// backend and are not serialized.
type JobUpdate struct {
	Title            *string   `json:"title,omitempty" validate:"omitempty,nonblank"`
	Company          *string   `json:"company,omitempty" validate:"omitempty,nonblank"`
	CompanyLogo      *string   `json:"companyLogo,omitempty" validate:"omitempty,url"`
	Description      *string   `json:"description,omitempty" validate:"omitempty,nonblank"`
	Department       *string   `json:"department,omitempty" validate:"omitempty,nonblank"`
	Location         *string   `json:"location,omitempty" validate:"omitempty,nonblank"`
	Type             *JobType  `json:"type,omitempty" validate:"omitempty,jobtype"`
	Requirements     *[]string `json:"requirements,omitempty" validate:"omitempty,min=1,dive,nonblank"`
	Responsibilities *[]string `json:"responsibilities,omitempty" validate:"omitempty,min=1,dive,nonblank"`
	Salary           *string   `json:"salary,omitempty"`
	Benefits         *[]string `json:"benefits,omitempty" validate:"omitempty,dive,nonblank"`
	MapURL           *string   `json:"mapUrl,omitempty" validate:"omitempty,url"`
}

// Validate checks the fields that are set.
func (u *JobUpdate) Validate() error {
	return validateStruct(u, jobMessages)
}

// IsEmpty reports whether the update changes nothing.
func (u JobUpdate) IsEmpty() bool {
	return u.Title == nil && u.Company == nil && u.CompanyLogo == nil &&
		u.Description == nil && u.Department == nil && u.Location == nil &&
		u.Type == nil && u.Requirements == nil && u.Responsibilities == nil &&
		u.Salary == nil && u.Benefits == nil && u.MapURL == nil
}

// Apply returns a copy of job with the set fields of u applied.
func (u JobUpdate) Apply(job Job) Job {
	out := job
	setString(&out.Title, u.Title)
	setString(&out.Company, u.Company)
	setString(&out.CompanyLogo, u.CompanyLogo)
	setString(&out.Description, u.Description)
	setString(&out.Department, u.Department)
	setString(&out.Location, u.Location)
	setString(&out.Salary, u.Salary)
	setString(&out.MapURL, u.MapURL)
	if u.Type != nil {
		out.Type = *u.Type
	}
	setList(&out.Requirements, u.Requirements)
	setList(&out.Responsibilities, u.Responsibilities)
	setList(&out.Benefits, u.Benefits)
	return out
}

// Changed returns the JSON names of the fields the update sets, in a stable order.
func (u JobUpdate) Changed() []string {
	var names []string
	add := func(set bool, name string) {
		if set {
			names = append(names, name)
		}
	}
	add(u.Title != nil, "title")
	add(u.Company != nil, "company")
	add(u.CompanyLogo != nil, "companyLogo")
	add(u.Description != nil, "description")
	add(u.Department != nil, "department")
	add(u.Location != nil, "location")
	add(u.Type != nil, "type")
	add(u.Requirements != nil, "requirements")
	add(u.Responsibilities != nil, "responsibilities")
	add(u.Salary != nil, "salary")
	add(u.Benefits != nil, "benefits")
	add(u.MapURL != nil, "mapUrl")
	return names
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setList(dst *[]string, src *[]string) {
	if src != nil {
		*dst = slices.Clone(*src)
	}
}

// jobMessages maps field/tag pairs to the messages shown next to form fields.
var jobMessages = map[string]string{
	"title":            "Job title is required",
	"company":          "Company name is required",
	"description":      "Description is required",
	"department":       "Department is required",
	"location":         "Location is required",
	"type":             "Job type is required",
	"type.jobtype":     "Job type must be one of " + joinTypes(),
	"requirements":     "Requirements are required",
	"responsibilities": "Responsibilities are required",
	"benefits":         "Benefits cannot contain empty entries",
	"mapUrl":           "Must be a valid URL",
	"companyLogo":      "Must be a valid URL",
}

func joinTypes() string {
	names := make([]string, 0, len(JobTypes()))
	for _, t := range JobTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
