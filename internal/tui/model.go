// Package tui is a terminal rendition of the admin dashboard. It drives an
// admin.Dashboard: every operation runs as a bubbletea command and state
// changes arrive as snapshots from the dashboard's change callback.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Smithk0/job-fr/internal/admin"
	"github.com/Smithk0/job-fr/internal/types"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type mode int

const (
	modeList mode = iota
	modeConfirm
	modeEdit
	modeCreate
)

// snapshotMsg carries a dashboard state change into the message loop.
type snapshotMsg admin.Snapshot

type loadDoneMsg struct{ err error }

type deleteDoneMsg struct{ err error }

type editDoneMsg struct{ err error }

type createDoneMsg struct {
	job *types.Job
	err error
}

// Config wires the model to its collaborators.
type Config struct {
	Dashboard *admin.Dashboard
	// Creator and Credentials are used to post new jobs. Posting is
	// disabled when Creator is nil.
	Creator     admin.Creator
	Credentials admin.CredentialSource
	LogoURL     string
	Context     context.Context
}

// Model is the bubbletea model of the admin dashboard.
type Model struct {
	dash    *admin.Dashboard
	creator admin.Creator
	creds   admin.CredentialSource
	logoURL string
	ctx     context.Context

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	updates chan admin.Snapshot

	snap   admin.Snapshot
	cursor int
	mode   mode

	form       jobForm
	formErrors types.FieldErrors
	formError  string
	notice     string

	width  int
	height int
}

// NewModel creates a Model over cfg.Dashboard and subscribes to its changes.
func NewModel(cfg Config) Model {
	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}

	updates := make(chan admin.Snapshot, 1)
	cfg.Dashboard.OnChange(func(s admin.Snapshot) { pushLatest(updates, s) })

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(accentColor)

	return Model{
		dash:    cfg.Dashboard,
		creator: cfg.Creator,
		creds:   cfg.Credentials,
		logoURL: cfg.LogoURL,
		ctx:     ctx,
		keys:    DefaultKeyMap,
		help:    help.New(),
		spinner: spin,
		updates: updates,
		snap:    cfg.Dashboard.Snapshot(),
	}
}

// pushLatest replaces any undelivered snapshot with s.
func pushLatest(ch chan admin.Snapshot, s admin.Snapshot) {
	for {
		select {
		case ch <- s:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func listen(ch <-chan admin.Snapshot) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-ch)
	}
}

// Init implements tea.Model. It starts the first load.
func (model Model) Init() tea.Cmd {
	return tea.Batch(listen(model.updates), model.load())
}

func (model Model) load() tea.Cmd {
	dash, ctx := model.dash, model.ctx
	return func() tea.Msg {
		return loadDoneMsg{err: dash.Load(ctx)}
	}
}

// Update implements tea.Model.
func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		model.width = msg.Width
		model.height = msg.Height
		model.help.Width = msg.Width
		return model, nil

	case snapshotMsg:
		model.setSnapshot(admin.Snapshot(msg))
		cmds := []tea.Cmd{listen(model.updates)}
		if model.snap.SpinnerVisible {
			cmds = append(cmds, model.spinner.Tick)
		}
		return model, tea.Batch(cmds...)

	case spinner.TickMsg:
		if !model.snap.SpinnerVisible {
			return model, nil
		}
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(msg)
		return model, cmd

	case loadDoneMsg:
		model.setSnapshot(model.dash.Snapshot())
		return model, nil

	case deleteDoneMsg:
		model.setSnapshot(model.dash.Snapshot())
		if msg.err == nil {
			model.mode = modeList
			model.notice = "Job deleted."
		}
		return model, nil

	case editDoneMsg:
		model.setSnapshot(model.dash.Snapshot())
		if msg.err == nil {
			model.mode = modeList
			model.notice = "Job updated."
			return model, nil
		}
		model.formErrors = model.snap.EditFieldErrors
		model.formError = model.snap.EditError
		return model, nil

	case createDoneMsg:
		if msg.err == nil {
			model.mode = modeList
			model.notice = "Job posted successfully."
			return model, model.load()
		}
		var fe types.FieldErrors
		if errors.As(msg.err, &fe) {
			model.formErrors = fe
			model.formError = ""
		} else {
			model.formErrors = nil
			model.formError = admin.Message(msg.err, "Failed to post job.")
		}
		return model, nil

	case tea.KeyMsg:
		if key.Matches(msg, model.keys.ForceQuit) {
			return model, tea.Quit
		}
		switch model.mode {
		case modeConfirm:
			return model.handleConfirmKeys(msg)
		case modeEdit, modeCreate:
			return model.handleFormKeys(msg)
		default:
			return model.handleListKeys(msg)
		}
	}
	return model, nil
}

func (model *Model) setSnapshot(s admin.Snapshot) {
	model.snap = s
	if model.cursor >= len(s.Jobs) {
		model.cursor = max(len(s.Jobs)-1, 0)
	}
}

func (model Model) selected() (types.Job, bool) {
	if model.cursor < 0 || model.cursor >= len(model.snap.Jobs) {
		return types.Job{}, false
	}
	return model.snap.Jobs[model.cursor], true
}

func (model Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(msg, model.keys.Up):
		if model.cursor > 0 {
			model.cursor--
		}

	case key.Matches(msg, model.keys.Down):
		if model.cursor < len(model.snap.Jobs)-1 {
			model.cursor++
		}

	case key.Matches(msg, model.keys.Refresh):
		model.notice = ""
		return model, model.load()

	case key.Matches(msg, model.keys.Help):
		model.help.ShowAll = !model.help.ShowAll

	case key.Matches(msg, model.keys.New):
		if model.creator == nil {
			model.notice = "Posting jobs is not available."
			return model, nil
		}
		model.notice = ""
		model.mode = modeCreate
		model.form = newJobForm(admin.JobForm{CompanyLogo: model.logoURL})
		model.formErrors, model.formError = nil, ""

	case key.Matches(msg, model.keys.Edit):
		job, ok := model.selected()
		if !ok {
			return model, nil
		}
		values, err := model.dash.BeginEdit(job.ID)
		if err != nil {
			model.notice = err.Error()
			return model, nil
		}
		model.notice = ""
		model.mode = modeEdit
		model.form = newJobForm(values)
		model.formErrors, model.formError = nil, ""
		model.setSnapshot(model.dash.Snapshot())

	case key.Matches(msg, model.keys.Delete):
		job, ok := model.selected()
		if !ok {
			return model, nil
		}
		if err := model.dash.RequestDelete(job.ID); err != nil {
			model.notice = err.Error()
			return model, nil
		}
		model.notice = ""
		model.mode = modeConfirm
		model.setSnapshot(model.dash.Snapshot())
	}
	return model, nil
}

func (model Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Confirm):
		if model.snap.Deleting {
			return model, nil
		}
		dash, ctx := model.dash, model.ctx
		return model, func() tea.Msg {
			return deleteDoneMsg{err: dash.ConfirmDelete(ctx)}
		}

	case key.Matches(msg, model.keys.Cancel):
		if model.snap.Deleting {
			return model, nil
		}
		model.dash.CancelDelete()
		model.mode = modeList
		model.setSnapshot(model.dash.Snapshot())
	}
	return model, nil
}

func (model Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		if model.mode == modeEdit {
			model.dash.CancelEdit()
			model.setSnapshot(model.dash.Snapshot())
		}
		model.mode = modeList
		return model, nil

	case key.Matches(msg, model.keys.Submit):
		return model.submitForm()

	case msg.Type == tea.KeyEnter:
		if model.form.focus == len(model.form.inputs)-1 {
			return model.submitForm()
		}
		model.form.move(1)
		return model, nil

	case key.Matches(msg, model.keys.NextField):
		model.form.move(1)
		return model, nil

	case key.Matches(msg, model.keys.PrevField):
		model.form.move(-1)
		return model, nil
	}

	var cmd tea.Cmd
	model.form.inputs[model.form.focus], cmd = model.form.inputs[model.form.focus].Update(msg)
	return model, cmd
}

func (model Model) submitForm() (tea.Model, tea.Cmd) {
	form := model.form.Value()
	dash, ctx := model.dash, model.ctx

	if model.mode == modeEdit {
		if model.snap.Saving {
			return model, nil
		}
		return model, func() tea.Msg {
			return editDoneMsg{err: dash.SubmitEdit(ctx, form)}
		}
	}

	creator, creds, logoURL := model.creator, model.creds, model.logoURL
	return model, func() tea.Msg {
		job, err := admin.Create(ctx, creator, creds, form, logoURL)
		return createDoneMsg{job: job, err: err}
	}
}

var (
	accentColor = lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#A78BFA"}
	errorColor  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	faintColor  = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	faintStyle    = lipgloss.NewStyle().Foreground(faintColor)
	errorStyle    = lipgloss.NewStyle().Foreground(errorColor)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accentColor).Padding(0, 1)
)

// View implements tea.Model.
func (model Model) View() string {
	var sections []string
	sections = append(sections, titleStyle.Render("Manage Jobs")+"  "+faintStyle.Render("Admin Dashboard | Elite Residences"))

	if model.notice != "" {
		sections = append(sections, model.notice)
	}

	switch model.mode {
	case modeEdit:
		sections = append(sections, model.renderForm("Update Job"))
	case modeCreate:
		sections = append(sections, model.renderForm("Post a New Job"))
	default:
		sections = append(sections, model.renderList())
		if model.mode == modeConfirm {
			sections = append(sections, model.renderConfirm())
		}
	}

	sections = append(sections, model.help.View(model.keys))
	return strings.Join(sections, "\n\n")
}

func (model Model) renderList() string {
	var lines []string
	if model.snap.SpinnerVisible {
		lines = append(lines, model.spinner.View()+" Loading jobs...")
	}
	if model.snap.LoadError != "" {
		lines = append(lines, errorStyle.Render(model.snap.LoadError))
	}
	if model.snap.Empty() {
		lines = append(lines, faintStyle.Render(admin.EmptyMessage))
		return strings.Join(lines, "\n")
	}
	if len(model.snap.Jobs) == 0 {
		return strings.Join(lines, "\n")
	}

	titleWidth, companyWidth := model.columnWidths()
	lines = append(lines, headerStyle.Render(row("Title", "Company", "Location", titleWidth, companyWidth)))
	for i, job := range model.snap.Jobs {
		line := row(job.Title, job.Company, job.Location, titleWidth, companyWidth)
		if i == model.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (model Model) columnWidths() (int, int) {
	titleWidth, companyWidth := len("Title"), len("Company")
	for _, job := range model.snap.Jobs {
		titleWidth = max(titleWidth, lipgloss.Width(job.Title))
		companyWidth = max(companyWidth, lipgloss.Width(job.Company))
	}
	return titleWidth, companyWidth
}

func row(title, company, location string, titleWidth, companyWidth int) string {
	return lipgloss.NewStyle().Width(titleWidth+2).Render(title) +
		lipgloss.NewStyle().Width(companyWidth+2).Render(company) +
		location
}

func (model Model) renderConfirm() string {
	lines := []string{
		titleStyle.Render("Confirm Deletion"),
		"Are you sure you want to delete this job? This action cannot be undone.",
	}
	if job, ok := model.snap.DeleteJob(); ok {
		lines = append(lines, faintStyle.Render(job.Title))
	}
	if model.snap.DeleteError != "" {
		lines = append(lines, errorStyle.Render(model.snap.DeleteError))
	}
	if model.snap.Deleting {
		lines = append(lines, "Deleting...")
	} else {
		lines = append(lines, "y delete  n cancel")
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (model Model) renderForm(heading string) string {
	lines := []string{titleStyle.Render(heading)}
	if model.formError != "" {
		lines = append(lines, errorStyle.Render(model.formError))
	}
	for i, field := range formFields {
		label := fmt.Sprintf("%-17s", field.Label)
		if i == model.form.focus {
			label = titleStyle.Render(label)
		}
		lines = append(lines, label+" "+model.form.inputs[i].View())
		if msg := model.formErrors[field.Key]; msg != "" {
			lines = append(lines, strings.Repeat(" ", 18)+errorStyle.Render(msg))
		}
	}
	if model.mode == modeEdit && model.snap.Saving {
		lines = append(lines, "Saving...")
	} else {
		lines = append(lines, faintStyle.Render("tab next  C-s save  esc cancel"))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

// Run starts the TUI and blocks until the user quits.
func Run(cfg Config, opts ...tea.ProgramOption) error {
	_, err := tea.NewProgram(NewModel(cfg), opts...).Run()
	return err
}
