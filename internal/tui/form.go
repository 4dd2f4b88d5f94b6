package tui

import (
	"strings"

	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/types"
	"github.com/charmbracelet/bubbles/textinput"
)

// formField names one input of the job form. Key matches the field names
// used in types.FieldErrors.
type formField struct {
	Key         string
	Label       string
	Placeholder string
	get         func(admin.JobForm) string
	set         func(*admin.JobForm, string)
}

var formFields = []formField{
	{"title", "Job Title", "", func(f admin.JobForm) string { return f.Title }, func(f *admin.JobForm, v string) { f.Title = v }},
	{"company", "Company", "", func(f admin.JobForm) string { return f.Company }, func(f *admin.JobForm, v string) { f.Company = v }},
	{"companyLogo", "Company Logo URL", "default logo", func(f admin.JobForm) string { return f.CompanyLogo }, func(f *admin.JobForm, v string) { f.CompanyLogo = v }},
	{"description", "Description", "Markdown is supported", func(f admin.JobForm) string { return f.Description }, func(f *admin.JobForm, v string) { f.Description = v }},
	{"department", "Department", "", func(f admin.JobForm) string { return f.Department }, func(f *admin.JobForm, v string) { f.Department = v }},
	{"location", "Location", "", func(f admin.JobForm) string { return f.Location }, func(f *admin.JobForm, v string) { f.Location = v }},
	{"type", "Job Type", jobTypeHint(), func(f admin.JobForm) string { return f.Type }, func(f *admin.JobForm, v string) { f.Type = v }},
	{"requirements", "Requirements", "e.g., React, Node.js, MongoDB", func(f admin.JobForm) string { return f.Requirements }, func(f *admin.JobForm, v string) { f.Requirements = v }},
	{"responsibilities", "Responsibilities", "comma separated", func(f admin.JobForm) string { return f.Responsibilities }, func(f *admin.JobForm, v string) { f.Responsibilities = v }},
	{"salary", "Salary", "", func(f admin.JobForm) string { return f.Salary }, func(f *admin.JobForm, v string) { f.Salary = v }},
	{"benefits", "Benefits", "comma separated", func(f admin.JobForm) string { return f.Benefits }, func(f *admin.JobForm, v string) { f.Benefits = v }},
	{"mapUrl", "Map URL", "", func(f admin.JobForm) string { return f.MapURL }, func(f *admin.JobForm, v string) { f.MapURL = v }},
}

func jobTypeHint() string {
	names := make([]string, 0, len(types.JobTypes()))
	for _, t := range types.JobTypes() {
		names = append(names, string(t))
	}
	return strings.Join(names, " | ")
}

// jobForm is the text-input rendering of an admin.JobForm.
type jobForm struct {
	inputs []textinput.Model
	focus  int
}

func newJobForm(values admin.JobForm) jobForm {
	inputs := make([]textinput.Model, len(formFields))
	for i, field := range formFields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = field.Placeholder
		input.CharLimit = 0
		input.SetValue(field.get(values))
		inputs[i] = input
	}
	form := jobForm{inputs: inputs}
	form.inputs[0].Focus()
	return form
}

// Value collects the inputs into an admin.JobForm.
func (form jobForm) Value() admin.JobForm {
	var out admin.JobForm
	for i, field := range formFields {
		field.set(&out, form.inputs[i].Value())
	}
	return out
}

func (form *jobForm) move(delta int) {
	form.inputs[form.focus].Blur()
	form.focus = (form.focus + delta + len(form.inputs)) % len(form.inputs)
	form.inputs[form.focus].Focus()
}
