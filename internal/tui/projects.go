package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
	"github.com/Sid-Romero/tech-roadmap/internal/store"
)

var projectCategories = []string{"Network", "Infra", "Cloud", "Security", "Expert"}

var complexityLabels = map[int]string{
	1: "1 · trivial",
	2: "2 · easy",
	3: "3 · moderate",
	4: "4 · hard",
	5: "5 · epic",
}

type projectsModel struct {
	store  *store.Store
	width  int
	height int

	projects []roadmap.Project
	cursor   int

	viewingDetail bool
	detailID      string
	taskCursor    int

	formActive bool
	form       *huh.Form
	formType   string // "create", "edit", "subtask", "resource"
	editingID  string

	// Form field pointers (survive value copies)
	formTitle       *string
	formDescription *string
	formCategory    *string
	formTech        *string
	formComplexity  *int
	formPriority    *string
	formGitHub      *string
	formNotes       *string
	formText        *string
	formLabel       *string
	formURL         *string
}

func newProjectsModel(s *store.Store, projects []roadmap.Project) projectsModel {
	title, desc, cat, tech, prio, github, notes := "", "", projectCategories[0], "", string(roadmap.PriorityMedium), "", ""
	text, label, url := "", "", ""
	complexity := 3
	return projectsModel{
		store:           s,
		projects:        projects,
		formTitle:       &title,
		formDescription: &desc,
		formCategory:    &cat,
		formTech:        &tech,
		formComplexity:  &complexity,
		formPriority:    &prio,
		formGitHub:      &github,
		formNotes:       &notes,
		formText:        &text,
		formLabel:       &label,
		formURL:         &url,
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

// setProjects swaps in a refreshed collection and revalidates cursors.
func (p *projectsModel) setProjects(projects []roadmap.Project) {
	p.projects = projects
	if p.cursor >= len(p.projects) {
		p.cursor = max(0, len(p.projects)-1)
	}
	if p.viewingDetail {
		detail, ok := p.detail()
		if !ok {
			p.viewingDetail = false
			return
		}
		if p.taskCursor >= len(detail.Checklist) {
			p.taskCursor = max(0, len(detail.Checklist)-1)
		}
	}
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, err := p.store.ListProjects()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Load error: %v", err), isError: true}
		}
		return projectsMsg{projects: projects}
	}
}

func (p projectsModel) detail() (roadmap.Project, bool) {
	for _, proj := range p.projects {
		if proj.ID == p.detailID {
			return proj, true
		}
	}
	return roadmap.Project{}, false
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	if p.viewingDetail {
		return p.updateDetail(keyMsg)
	}
	return p.updateList(keyMsg)
}

func (p projectsModel) updateList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingDetail = true
			p.detailID = p.projects[p.cursor].ID
			p.taskCursor = 0
		}
	case key.Matches(msg, keys.New):
		return p.showCreateForm()
	case key.Matches(msg, keys.Edit):
		if len(p.projects) > 0 {
			return p.showEditForm(p.projects[p.cursor])
		}
	case key.Matches(msg, keys.Delete):
		if len(p.projects) > 0 {
			proj := p.projects[p.cursor]
			projects, err := p.store.DeleteProject(proj.ID)
			if err != nil {
				return p, toast(fmt.Sprintf("Delete error: %v", err), true)
			}
			return p, tea.Batch(
				func() tea.Msg { return projectsMsg{projects: projects} },
				toast("Deleted "+proj.Title, false),
			)
		}
	}
	return p, nil
}

func (p projectsModel) updateDetail(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	detail, ok := p.detail()
	if !ok {
		p.viewingDetail = false
		return p, nil
	}

	switch {
	case key.Matches(msg, keys.Back):
		p.viewingDetail = false
	case key.Matches(msg, keys.Up):
		if p.taskCursor > 0 {
			p.taskCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.taskCursor < len(detail.Checklist)-1 {
			p.taskCursor++
		}
	case key.Matches(msg, keys.Advance):
		if p.taskCursor < len(detail.Checklist) {
			detail.Checklist[p.taskCursor].Completed = !detail.Checklist[p.taskCursor].Completed
			return p, p.saveProject(detail, "")
		}
	case key.Matches(msg, keys.Delete):
		if p.taskCursor < len(detail.Checklist) {
			detail.Checklist = append(detail.Checklist[:p.taskCursor], detail.Checklist[p.taskCursor+1:]...)
			return p, p.saveProject(detail, "Subtask removed")
		}
	case key.Matches(msg, keys.AddItem):
		return p.showSubtaskForm()
	case key.Matches(msg, keys.AddLink):
		return p.showResourceForm()
	case key.Matches(msg, keys.Edit):
		return p.showEditForm(detail)
	}
	return p, nil
}

func (p projectsModel) saveProject(proj roadmap.Project, note string) tea.Cmd {
	projects, err := p.store.UpdateProject(proj)
	if err != nil {
		return toast(fmt.Sprintf("Save error: %v", err), true)
	}
	cmds := []tea.Cmd{
		func() tea.Msg { return projectsMsg{projects: projects} },
	}
	if note != "" {
		cmds = append(cmds, toast(note, false))
	}
	return tea.Batch(cmds...)
}

// ============================================================
// Forms
// ============================================================

func (p projectsModel) projectForm() *huh.Form {
	catOptions := make([]huh.Option[string], len(projectCategories))
	for i, c := range projectCategories {
		catOptions[i] = huh.NewOption(c, c)
	}
	complexityOptions := make([]huh.Option[int], 0, 5)
	for i := 1; i <= 5; i++ {
		complexityOptions = append(complexityOptions, huh.NewOption(complexityLabels[i], i))
	}
	prioOptions := []huh.Option[string]{
		huh.NewOption("low", string(roadmap.PriorityLow)),
		huh.NewOption("medium", string(roadmap.PriorityMedium)),
		huh.NewOption("high", string(roadmap.PriorityHigh)),
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(p.formTitle),
			huh.NewInput().Title("Description").Value(p.formDescription),
			huh.NewSelect[string]().Title("Category").Options(catOptions...).Value(p.formCategory),
			huh.NewInput().Title("Tech stack (comma-separated)").Value(p.formTech),
			huh.NewSelect[int]().Title("Complexity").Options(complexityOptions...).Value(p.formComplexity),
			huh.NewSelect[string]().Title("Priority").Options(prioOptions...).Value(p.formPriority),
			huh.NewInput().Title("GitHub URL").Value(p.formGitHub),
			huh.NewInput().Title("Notes").Value(p.formNotes),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

func (p projectsModel) showCreateForm() (projectsModel, tea.Cmd) {
	*p.formTitle = ""
	*p.formDescription = ""
	*p.formCategory = projectCategories[0]
	*p.formTech = ""
	*p.formComplexity = 3
	*p.formPriority = string(roadmap.PriorityMedium)
	*p.formGitHub = ""
	*p.formNotes = ""
	p.formType = "create"
	p.form = p.projectForm()
	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showEditForm(proj roadmap.Project) (projectsModel, tea.Cmd) {
	*p.formTitle = proj.Title
	*p.formDescription = proj.Description
	*p.formCategory = proj.Category
	*p.formTech = strings.Join(proj.TechStack, ", ")
	*p.formComplexity = proj.Complexity
	*p.formPriority = string(proj.Priority)
	*p.formGitHub = proj.GitHubURL
	*p.formNotes = proj.Notes
	p.formType = "edit"
	p.editingID = proj.ID
	p.form = p.projectForm()
	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showSubtaskForm() (projectsModel, tea.Cmd) {
	*p.formText = ""
	p.formType = "subtask"
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Subtask").Value(p.formText),
		),
	).WithShowHelp(true).WithShowErrors(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showResourceForm() (projectsModel, tea.Cmd) {
	*p.formLabel = ""
	*p.formURL = ""
	p.formType = "resource"
	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Label").Value(p.formLabel),
			huh.NewInput().Title("URL").Value(p.formURL),
		),
	).WithShowHelp(true).WithShowErrors(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		switch p.formType {
		case "create":
			return p.commitCreate()
		case "edit":
			return p.commitEdit()
		case "subtask":
			return p.commitSubtask()
		case "resource":
			return p.commitResource()
		}
	}

	return p, cmd
}

func (p projectsModel) commitCreate() (projectsModel, tea.Cmd) {
	if *p.formTitle == "" {
		return p, nil
	}
	draft := roadmap.Project{
		Title:       *p.formTitle,
		Description: *p.formDescription,
		Category:    *p.formCategory,
		TechStack:   splitList(*p.formTech),
		Complexity:  *p.formComplexity,
		Priority:    roadmap.Priority(*p.formPriority),
		GitHubURL:   *p.formGitHub,
		Notes:       *p.formNotes,
	}
	projects, err := p.store.CreateProject(draft)
	if err != nil {
		return p, toast(fmt.Sprintf("Create error: %v", err), true)
	}
	return p, tea.Batch(
		func() tea.Msg { return projectsMsg{projects: projects} },
		toast("Created "+draft.Title, false),
	)
}

func (p projectsModel) commitEdit() (projectsModel, tea.Cmd) {
	if *p.formTitle == "" {
		return p, nil
	}
	var proj roadmap.Project
	found := false
	for _, candidate := range p.projects {
		if candidate.ID == p.editingID {
			proj = candidate
			found = true
			break
		}
	}
	if !found {
		return p, nil
	}
	proj.Title = *p.formTitle
	proj.Description = *p.formDescription
	proj.Category = *p.formCategory
	proj.TechStack = splitList(*p.formTech)
	proj.Complexity = *p.formComplexity
	proj.Priority = roadmap.Priority(*p.formPriority)
	proj.GitHubURL = *p.formGitHub
	proj.Notes = *p.formNotes
	return p, p.saveProject(proj, "Saved "+proj.Title)
}

func (p projectsModel) commitSubtask() (projectsModel, tea.Cmd) {
	detail, ok := p.detail()
	if !ok || *p.formText == "" {
		return p, nil
	}
	detail.Checklist = append(detail.Checklist, roadmap.SubTask{
		ID:   uuid.NewString(),
		Text: *p.formText,
	})
	return p, p.saveProject(detail, "Subtask added")
}

func (p projectsModel) commitResource() (projectsModel, tea.Cmd) {
	detail, ok := p.detail()
	if !ok || *p.formLabel == "" {
		return p, nil
	}
	detail.Resources = append(detail.Resources, roadmap.Resource{
		ID:    uuid.NewString(),
		Label: *p.formLabel,
		URL:   *p.formURL,
	})
	return p, p.saveProject(detail, "Resource added")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// ============================================================
// Rendering
// ============================================================

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		switch p.formType {
		case "edit":
			title = titleStyle.Render("Edit Project")
		case "subtask":
			title = titleStyle.Render("New Subtask")
		case "resource":
			title = titleStyle.Render("New Resource")
		}
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", p.form.View())
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingDetail {
		return p.renderDetail()
	}
	return p.renderList()
}

func (p projectsModel) renderList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title, "")

	header := mutedStyle.Render(fmt.Sprintf("  %-2s %-28s %-10s %-8s %-6s %-7s %s",
		"", "Title", "Category", "Priority", "Cmplx", "Hours", "Checklist"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		glyph := nodeStyle(proj.Status).Render(statusGlyph(proj.Status))
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		done := 0
		for _, t := range proj.Checklist {
			if t.Completed {
				done++
			}
		}
		row := style.Render(fmt.Sprintf("%s%s %-28s %-10s %-8s %-6d %-7s %d/%d",
			cursor, glyph,
			truncate(proj.Title, 28),
			truncate(proj.Category, 10),
			proj.Priority,
			proj.Complexity,
			fmt.Sprintf("%.1fh", proj.TimeSpentHours),
			done, len(proj.Checklist)))
		rows = append(rows, row)
	}

	rows = append(rows, "", mutedStyle.Render("enter: detail  n: new  e: edit  d: delete"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderDetail() string {
	detail, ok := p.detail()
	if !ok {
		return panelStyle.Width(p.width - 4).Render(mutedStyle.Render("Project not found"))
	}
	w := p.width - 4

	var rows []string
	glyph := nodeStyle(detail.Status).Render(statusGlyph(detail.Status))
	rows = append(rows, fmt.Sprintf("%s %s", glyph, titleStyle.Render(detail.Title)))
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("%s · %s · %s · complexity %d",
		detail.Category, statusLabel(detail.Status), detail.Priority, detail.Complexity)))
	rows = append(rows, "")

	if detail.Description != "" {
		rows = append(rows, normalItemStyle.Render(detail.Description), "")
	}
	if len(detail.TechStack) > 0 {
		rows = append(rows, highlightStyle.Render("Tech: ")+strings.Join(detail.TechStack, ", "), "")
	}

	rows = append(rows, accentStyle.Render(fmt.Sprintf("Checklist (%d)", len(detail.Checklist))))
	if len(detail.Checklist) == 0 {
		rows = append(rows, mutedStyle.Render("  nothing yet, press a to add"))
	}
	for i, task := range detail.Checklist {
		box := "[ ]"
		if task.Completed {
			box = successStyle.Render("[✓]")
		}
		cursor := "  "
		style := normalItemStyle
		if i == p.taskCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %s", cursor, box, task.Text)))
	}
	rows = append(rows, "")

	if len(detail.Resources) > 0 {
		rows = append(rows, accentStyle.Render("Resources"))
		for _, r := range detail.Resources {
			rows = append(rows, fmt.Sprintf("  %s %s", highlightStyle.Render(r.Label), mutedStyle.Render(r.URL)))
		}
		rows = append(rows, "")
	}

	if len(detail.Sessions) > 0 {
		rows = append(rows, accentStyle.Render(fmt.Sprintf("Sessions (%d · %s total)",
			len(detail.Sessions), formatSeconds(detail.TotalSessionSeconds()))))
		shown := detail.Sessions
		if len(shown) > 3 {
			shown = shown[len(shown)-3:]
		}
		for _, s := range shown {
			day := time.UnixMilli(s.StartTime).Local().Format("Jan 02 15:04")
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %s  %s  %s", day, formatSeconds(s.DurationSeconds), s.Type)))
		}
		rows = append(rows, "")
	}

	if detail.GitHubURL != "" {
		rows = append(rows, mutedStyle.Render("GitHub: "+detail.GitHubURL))
	}
	if detail.Notes != "" {
		rows = append(rows, mutedStyle.Render("Notes: "+detail.Notes))
	}

	rows = append(rows, "", mutedStyle.Render("space: toggle  a: add subtask  r: add resource  d: remove subtask  e: edit  esc: back"))
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
