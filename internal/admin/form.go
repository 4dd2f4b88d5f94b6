package admin

import (
	"slices"
	"strings"

	"github.com/Smithk0/job-fr/internal/types"
)

// DefaultCompanyLogoURL is the logo attached to new postings when none is given.
const DefaultCompanyLogoURL = "https://storage.eliteresidences.cloud/bintu.png"

// JobForm is the flat representation of a job used by the create and edit
// forms. List fields are comma separated.
type JobForm struct {
	Title            string
	Company          string
	CompanyLogo      string
	Description      string
	Department       string
	Location         string
	Type             string
	Requirements     string
	Responsibilities string
	Salary           string
	Benefits         string
	MapURL           string
}

// ParseList splits a comma-separated field, trimming entries and dropping
// empty ones.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList is the inverse of ParseList for display.
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}

// FormFromJob pre-populates a form from an existing job.
func FormFromJob(job types.Job) JobForm {
	return JobForm{
		Title:            job.Title,
		Company:          job.Company,
		CompanyLogo:      job.CompanyLogo,
		Description:      job.Description,
		Department:       job.Department,
		Location:         job.Location,
		Type:             string(job.Type),
		Requirements:     JoinList(job.Requirements),
		Responsibilities: JoinList(job.Responsibilities),
		Salary:           job.Salary,
		Benefits:         JoinList(job.Benefits),
		MapURL:           job.MapURL,
	}
}

// ToInput converts the form to a create payload. An empty logo is replaced by
// defaultLogo.
func (f JobForm) ToInput(defaultLogo string) types.JobInput {
	logo := strings.TrimSpace(f.CompanyLogo)
	if logo == "" {
		logo = defaultLogo
	}
	return types.JobInput{
		Title:            strings.TrimSpace(f.Title),
		Company:          strings.TrimSpace(f.Company),
		CompanyLogo:      logo,
		Description:      strings.TrimSpace(f.Description),
		Department:       strings.TrimSpace(f.Department),
		Location:         strings.TrimSpace(f.Location),
		Type:             types.JobType(strings.TrimSpace(f.Type)),
		Requirements:     ParseList(f.Requirements),
		Responsibilities: ParseList(f.Responsibilities),
		Salary:           strings.TrimSpace(f.Salary),
		Benefits:         ParseList(f.Benefits),
		MapURL:           strings.TrimSpace(f.MapURL),
	}
}

// Validate checks every field and returns the per-field messages, or nil.
func (f JobForm) Validate() types.FieldErrors {
	in := f.ToInput(DefaultCompanyLogoURL)
	err := in.Validate()
	if err == nil {
		return nil
	}
	if fe, ok := err.(types.FieldErrors); ok {
		return fe
	}
	return types.FieldErrors{"form": err.Error()}
}

// Diff returns the update that turns orig into the job described by the form.
// Only fields whose value changed are set.
func (f JobForm) Diff(orig types.Job) types.JobUpdate {
	var upd types.JobUpdate
	in := f.ToInput(orig.CompanyLogo)

	diffString(&upd.Title, orig.Title, in.Title)
	diffString(&upd.Company, orig.Company, in.Company)
	diffString(&upd.CompanyLogo, orig.CompanyLogo, in.CompanyLogo)
	diffString(&upd.Description, orig.Description, in.Description)
	diffString(&upd.Department, orig.Department, in.Department)
	diffString(&upd.Location, orig.Location, in.Location)
	diffString(&upd.Salary, orig.Salary, in.Salary)
	diffString(&upd.MapURL, orig.MapURL, in.MapURL)
	if in.Type != orig.Type {
		t := in.Type
		upd.Type = &t
	}
	diffList(&upd.Requirements, orig.Requirements, in.Requirements)
	diffList(&upd.Responsibilities, orig.Responsibilities, in.Responsibilities)
	diffList(&upd.Benefits, orig.Benefits, in.Benefits)
	return upd
}

func diffString(dst **string, before, after string) {
	if before != after {
		v := after
		*dst = &v
	}
}

// diffList compares after against before as the form showed it. Entries that
// contain commas do not survive JoinList then ParseList, so an untouched field
// must not count as changed.
func diffList(dst **[]string, before, after []string) {
	if slices.Equal(before, after) || slices.Equal(ParseList(JoinList(before)), after) {
		return
	}
	v := after
	if v == nil {
		v = []string{}
	}
	*dst = &v
}
