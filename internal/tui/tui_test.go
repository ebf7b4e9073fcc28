package tui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Sid-Romero/tech-roadmap/internal/gamify"
	"github.com/Sid-Romero/tech-roadmap/internal/graph"
	"github.com/Sid-Romero/tech-roadmap/internal/roadmap"
	"github.com/Sid-Romero/tech-roadmap/internal/store"
	"github.com/Sid-Romero/tech-roadmap/internal/timer"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// newSeededApp builds an App over a fresh store pre-filled with the
// starter roadmap.
func newSeededApp(t *testing.T) (App, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	projects, err := s.SeedStarter()
	if err != nil {
		t.Fatalf("seed starter: %v", err)
	}
	awards := gamify.NewEngine(s)
	tracker := timer.New(s, awards, timer.DefaultSettings())
	g := graph.NewEngine(s, projects)
	return NewApp(s, g, tracker, awards), s
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// ============================================================
// Helper functions
// ============================================================

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00:00"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{86400, "24:00:00"},
		{-90, "-00:01:30"},
	}
	for _, tt := range tests {
		got := formatSeconds(tt.secs)
		if got != tt.want {
			t.Errorf("formatSeconds(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "0.0h"},
		{3600, "1.0h"},
		{5400, "1.5h"},
		{7200, "2.0h"},
	}
	for _, tt := range tests {
		got := formatHours(tt.secs)
		if got != tt.want {
			t.Errorf("formatHours(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello world", 5, "hell…"},
		{"", 3, ""},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestPad(t *testing.T) {
	if got := pad("ab", 4); got != "ab  " {
		t.Errorf("pad(ab, 4) = %q", got)
	}
	if got := pad("abcdef", 4); got != "abcd" {
		t.Errorf("pad(abcdef, 4) = %q", got)
	}
}

func TestStatusGlyph(t *testing.T) {
	tests := []struct {
		status roadmap.Status
		want   string
	}{
		{roadmap.StatusDone, "✓"},
		{roadmap.StatusInProgress, "●"},
		{roadmap.StatusUnlocked, "○"},
		{roadmap.StatusLocked, "■"},
	}
	for _, tt := range tests {
		if got := statusGlyph(tt.status); got != tt.want {
			t.Errorf("statusGlyph(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		status roadmap.Status
		want   string
	}{
		{roadmap.StatusDone, "done"},
		{roadmap.StatusInProgress, "active"},
		{roadmap.StatusUnlocked, "unlocked"},
		{roadmap.StatusLocked, "locked"},
	}
	for _, tt := range tests {
		if got := statusLabel(tt.status); got != tt.want {
			t.Errorf("statusLabel(%s) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestAwardStatus(t *testing.T) {
	if got := awardStatus(nil); got != "" {
		t.Fatalf("awardStatus(nil) = %q", got)
	}

	a := &gamify.Award{XP: 800, TotalXP: 800, Level: 3, LeveledUp: true,
		Unlocked: []roadmap.Badge{{ID: "b_first_step", Title: "Hello World"}}}
	got := awardStatus(a)
	for _, want := range []string{"+800 XP", "Level up! Now level 3", "Badge unlocked: Hello World"} {
		if !stringContains(got, want) {
			t.Errorf("awardStatus missing %q in %q", want, got)
		}
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	expected := []string{"Tree", "Projects", "Timer", "Profile", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewTree != 0 || viewProjects != 1 || viewTimer != 2 || viewProfile != 3 || viewSettings != 4 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _ := newSeededApp(t)

	if app.activeView != viewTree {
		t.Fatal("default view should be the tree")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
}

func TestAppIsFormActiveDefault(t *testing.T) {
	app, _ := newSeededApp(t)

	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app, _ := newSeededApp(t)
	m, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	app = m.(App)

	views := []viewState{viewTree, viewProjects, viewTimer, viewProfile, viewSettings}
	for _, v := range views {
		app.activeView = v
		output := app.View()
		if output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _ := newSeededApp(t)
	app.width = 120
	app.height = 40

	header := app.renderHeader()
	for _, name := range viewNames {
		if !stringContains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppRenderFooter(t *testing.T) {
	app, _ := newSeededApp(t)
	app.width = 120
	app.height = 40

	footer := app.renderFooter()
	if footer == "" {
		t.Fatal("footer should not be empty")
	}
}

func TestAppLoadingState(t *testing.T) {
	app, _ := newSeededApp(t)
	output := app.View()
	if output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _ := newSeededApp(t)
	app.width = 120
	app.height = 40
	app.status = "test status"

	footer := app.renderFooter()
	if !stringContains(footer, "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppStatusFromMsg(t *testing.T) {
	app, _ := newSeededApp(t)
	m, _ := app.Update(statusMsg{text: "boom", isError: true})
	app = m.(App)

	if app.status != "boom" || !app.statusErr {
		t.Fatalf("status not applied: %q err=%v", app.status, app.statusErr)
	}
}

func TestAppTabKeys(t *testing.T) {
	app, _ := newSeededApp(t)

	m, _ := app.Update(keyMsg("3"))
	app = m.(App)
	if app.activeView != viewTimer {
		t.Fatalf("key 3 should open the timer view, got %d", app.activeView)
	}

	m, _ = app.Update(keyMsg("tab"))
	app = m.(App)
	if app.activeView != viewProfile {
		t.Fatalf("tab should cycle to profile, got %d", app.activeView)
	}
}

func TestAppProjectsMsgRoutesEverywhere(t *testing.T) {
	app, _ := newSeededApp(t)

	fresh := []roadmap.Project{{ID: "x1", Title: "Only One", Status: roadmap.StatusUnlocked}}
	m, _ := app.Update(projectsMsg{projects: fresh})
	app = m.(App)

	if len(app.graph.Projects()) != 1 {
		t.Fatal("graph should hold the refreshed collection")
	}
	if len(app.projects.projects) != 1 {
		t.Fatal("projects view should hold the refreshed collection")
	}
	if app.tree.selectedID != "x1" {
		t.Fatalf("tree selection should fall back to first project, got %q", app.tree.selectedID)
	}
}

func TestAppExportPicker(t *testing.T) {
	app, _ := newSeededApp(t)

	m, _ := app.Update(keyMsg("E"))
	app = m.(App)
	if !app.exportPicking {
		t.Fatal("E should open the export picker")
	}

	for i := 0; i < 3; i++ {
		m, _ = app.Update(keyMsg("down"))
		app = m.(App)
	}
	if app.exportCursor != 1 {
		t.Fatalf("cursor should clamp at 1, got %d", app.exportCursor)
	}

	m, _ = app.Update(keyMsg("up"))
	app = m.(App)
	m, _ = app.Update(keyMsg("up"))
	app = m.(App)
	if app.exportCursor != 0 {
		t.Fatalf("cursor should clamp at 0, got %d", app.exportCursor)
	}

	m, _ = app.Update(keyMsg("esc"))
	app = m.(App)
	if app.exportPicking {
		t.Fatal("esc should close the export picker")
	}
}

// stringContains checks if s contains substr; styled output keeps the
// raw text so a plain scan is enough.
func stringContains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}

// ============================================================
// Tree model
// ============================================================

func TestTreeInitialSelection(t *testing.T) {
	app, _ := newSeededApp(t)
	projects := app.graph.Projects()
	if len(projects) == 0 {
		t.Fatal("seed produced no projects")
	}
	if app.tree.selectedID != projects[0].ID {
		t.Fatalf("selection should start on the first project, got %q", app.tree.selectedID)
	}
}

func TestTreeSelectionWraps(t *testing.T) {
	app, _ := newSeededApp(t)
	tree := app.tree
	projects := app.graph.Projects()

	for range projects {
		tree, _ = tree.update(keyMsg("right"))
	}
	if tree.selectedID != projects[0].ID {
		t.Fatalf("stepping through all projects should wrap, got %q", tree.selectedID)
	}

	tree, _ = tree.update(keyMsg("left"))
	if tree.selectedID != projects[len(projects)-1].ID {
		t.Fatalf("stepping left from the first project should wrap to the last, got %q", tree.selectedID)
	}
}

func TestTreeMoveStagesWithoutPersisting(t *testing.T) {
	app, s := newSeededApp(t)
	tree := app.tree
	orig, _ := tree.selected()

	tree, _ = tree.update(keyMsg("m"))
	if !tree.capturing() {
		t.Fatal("move should capture input")
	}

	tree, _ = tree.update(keyMsg("right"))
	_, staged, moving := app.graph.Moving()
	if !moving || staged.X != orig.Position.X+moveStep {
		t.Fatalf("staged position not tracking pointer: %+v", staged)
	}

	fromStore, err := s.GetProject(orig.ID)
	if err != nil {
		t.Fatal(err)
	}
	if fromStore.Position != orig.Position {
		t.Fatal("position must not persist before the gesture ends")
	}

	tree, _ = tree.update(keyMsg("esc"))
	if tree.capturing() {
		t.Fatal("esc should end the gesture")
	}
	if _, _, still := app.graph.Moving(); still {
		t.Fatal("cancel should clear the staged move")
	}
}

func TestTreeMovePersistsOnEnter(t *testing.T) {
	app, s := newSeededApp(t)
	tree := app.tree
	orig, _ := tree.selected()

	tree, _ = tree.update(keyMsg("m"))
	tree, _ = tree.update(keyMsg("right"))
	tree, _ = tree.update(keyMsg("down"))
	tree, cmd := tree.update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("finishing a drag should produce commands")
	}
	if tree.capturing() {
		t.Fatal("gesture should be over")
	}

	fromStore, err := s.GetProject(orig.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := roadmap.Coordinates{X: orig.Position.X + moveStep, Y: orig.Position.Y + moveStep}
	if fromStore.Position != want {
		t.Fatalf("position = %+v, want %+v", fromStore.Position, want)
	}

	inGraph, _ := app.graph.Project(orig.ID)
	if inGraph.Position != want {
		t.Fatal("graph copy should be refreshed after the commit")
	}
}

func TestTreeMoveClickDoesNotPersist(t *testing.T) {
	app, s := newSeededApp(t)
	tree := app.tree
	orig, _ := tree.selected()

	tree, _ = tree.update(keyMsg("m"))
	tree, cmd := tree.update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("a click without displacement should mutate nothing")
	}
	if tree.capturing() {
		t.Fatal("gesture should be over")
	}

	fromStore, _ := s.GetProject(orig.ID)
	if fromStore.Position != orig.Position {
		t.Fatal("click must not change the stored position")
	}
}

func TestTreeConnectAddsDependency(t *testing.T) {
	app, s := newSeededApp(t)
	tree := app.tree
	tree.selectedID = "p1_3"

	tree, _ = tree.update(keyMsg("c"))
	if !tree.capturing() {
		t.Fatal("connect should capture input")
	}
	tree, _ = tree.update(keyMsg("tab")) // snap to the next node, p2_1
	tree, cmd := tree.update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("a successful link should produce commands")
	}

	child, err := s.GetProject("p2_1")
	if err != nil {
		t.Fatal(err)
	}
	found := false
	for _, dep := range child.Dependencies {
		if dep == "p1_3" {
			found = true
		}
	}
	if !found {
		t.Fatalf("p2_1 should now depend on p1_3, deps = %v", child.Dependencies)
	}
}

func TestTreeConnectDuplicateIsSilent(t *testing.T) {
	app, s := newSeededApp(t)
	tree := app.tree
	tree.selectedID = "p1_1"

	tree, _ = tree.update(keyMsg("c"))
	tree, _ = tree.update(keyMsg("tab")) // p1_2, which already depends on p1_1
	tree, cmd := tree.update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("duplicate link should be a silent no-op")
	}
	if tree.capturing() {
		t.Fatal("gesture should be over")
	}

	child, _ := s.GetProject("p1_2")
	if len(child.Dependencies) != 1 || child.Dependencies[0] != "p1_1" {
		t.Fatalf("dependencies changed: %v", child.Dependencies)
	}
}

func TestTreeConnectCycleBlocked(t *testing.T) {
	app, s := newSeededApp(t)
	tree := app.tree
	tree.selectedID = "p1_2" // depends on p1_1

	tree, _ = tree.update(keyMsg("c"))
	// Walk the pointer from p1_2 (350,100) onto p1_1 (100,100).
	for i := 0; i < 10; i++ {
		tree, _ = tree.update(keyMsg("left"))
	}
	tree, cmd := tree.update(keyMsg("enter"))
	if cmd != nil {
		t.Fatal("reverse link should be a silent no-op")
	}

	parent, _ := s.GetProject("p1_1")
	if len(parent.Dependencies) != 0 {
		t.Fatalf("p1_1 should have no dependencies, got %v", parent.Dependencies)
	}
}

func TestTreeDetachRemovesDependency(t *testing.T) {
	app, s := newSeededApp(t)
	tree := app.tree
	tree.selectedID = "p1_2"

	tree, _ = tree.update(keyMsg("x"))
	if tree.mode != treeDetach {
		t.Fatal("x should open the detach picker")
	}
	tree, cmd := tree.update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("detach should produce commands")
	}

	child, _ := s.GetProject("p1_2")
	if len(child.Dependencies) != 0 {
		t.Fatalf("dependency should be gone, got %v", child.Dependencies)
	}
	inGraph, _ := app.graph.Project("p1_2")
	if len(inGraph.Dependencies) != 0 {
		t.Fatal("graph copy should be refreshed after the detach")
	}
}

func TestTreeDetachWithoutDeps(t *testing.T) {
	app, _ := newSeededApp(t)
	tree := app.tree
	tree.selectedID = "p1_1"

	tree, cmd := tree.update(keyMsg("x"))
	if tree.mode != treeBrowse {
		t.Fatal("no deps means no picker")
	}
	if cmd == nil {
		t.Fatal("expected a hint toast")
	}
}

func TestTreeStatusLifecycleAwardsXP(t *testing.T) {
	s := newTestStore(t)
	projects, err := s.CreateProject(roadmap.Project{
		Title:      "Packet Sniffer",
		Category:   "Network",
		Status:     roadmap.StatusUnlocked,
		Complexity: 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	p := projects[0]

	awards := gamify.NewEngine(s)
	tracker := timer.New(s, awards, timer.DefaultSettings())
	g := graph.NewEngine(s, projects)
	tree := newTreeModel(s, g, awards, tracker)

	// In the app the projectsMsg from each change refreshes the graph;
	// replay that here between keypresses.
	syncGraph := func() {
		ps, err := s.ListProjects()
		if err != nil {
			t.Fatal(err)
		}
		g.SetProjects(ps)
	}

	// unlocked -> in_progress: no completion
	tree, cmd := tree.update(keyMsg(" "))
	if cmd == nil {
		t.Fatal("status change should produce commands")
	}
	got, _ := s.GetProject(p.ID)
	if got.Status != roadmap.StatusInProgress {
		t.Fatalf("status = %s, want in_progress", got.Status)
	}
	profile, _ := s.GetProfile()
	if profile.XP != 0 {
		t.Fatalf("no XP expected yet, got %d", profile.XP)
	}

	// in_progress -> done: completion award
	syncGraph()
	tree, _ = tree.update(keyMsg(" "))
	got, _ = s.GetProject(p.ID)
	if got.Status != roadmap.StatusDone {
		t.Fatalf("status = %s, want done", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("CompletedAt should be stamped on completion")
	}

	wantXP := gamify.CompletionXP(2, 0) // 500 base + 2*150
	profile, _ = s.GetProfile()
	if profile.XP != wantXP {
		t.Fatalf("XP = %d, want %d", profile.XP, wantXP)
	}
	if !profile.HasBadge("b_first_step") {
		t.Fatal("first completed project should unlock the first-step badge")
	}

	// done -> in_progress: correction, stamp and XP survive
	stamped := *got.CompletedAt
	syncGraph()
	tree, _ = tree.update(keyMsg("S"))
	got, _ = s.GetProject(p.ID)
	if got.Status != roadmap.StatusInProgress {
		t.Fatalf("status = %s, want in_progress after regress", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(stamped) {
		t.Fatal("CompletedAt must survive regression")
	}
	profile, _ = s.GetProfile()
	if profile.XP != wantXP {
		t.Fatalf("regression must not change XP, got %d", profile.XP)
	}
}

func TestTreeTrackBindsTracker(t *testing.T) {
	app, _ := newSeededApp(t)
	tree := app.tree
	first := tree.selectedID

	tree, cmd := tree.update(keyMsg("t"))
	if cmd == nil {
		t.Fatal("tracking should confirm with a toast")
	}
	if app.tracker.State() != timer.StateRunning {
		t.Fatal("tracker should be running")
	}
	if id := app.tracker.ProjectID(); id == nil || *id != first {
		t.Fatal("tracker bound to the wrong project")
	}

	// Tracking a different project while bound is refused.
	tree, _ = tree.update(keyMsg("right"))
	tree, cmd = tree.update(keyMsg("t"))
	if cmd == nil {
		t.Fatal("expected an error toast")
	}
	if id := app.tracker.ProjectID(); id == nil || *id != first {
		t.Fatal("binding should not change while tracking")
	}
}

// ============================================================
// Timer view
// ============================================================

func TestTimerViewPickerFlow(t *testing.T) {
	app, _ := newSeededApp(t)
	tv := app.timerView
	projects := app.graph.Projects()

	tv, _ = tv.update(keyMsg("s"))
	if !tv.picking {
		t.Fatal("s should open the project picker")
	}

	tv, _ = tv.update(keyMsg("down"))
	tv, cmd := tv.update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("starting should confirm with a toast")
	}
	if tv.picking {
		t.Fatal("picker should close on selection")
	}
	if app.tracker.State() != timer.StateRunning {
		t.Fatal("tracker should be running")
	}
	if id := app.tracker.ProjectID(); id == nil || *id != projects[1].ID {
		t.Fatal("tracker bound to the wrong project")
	}
}

func TestTimerViewPauseResume(t *testing.T) {
	app, _ := newSeededApp(t)
	tv := app.timerView
	id := app.graph.Projects()[0].ID
	app.tracker.Start(&id, nil)

	tv, _ = tv.update(keyMsg(" "))
	if app.tracker.State() != timer.StatePaused {
		t.Fatal("space should pause a running tracker")
	}

	tv, _ = tv.update(keyMsg(" "))
	if app.tracker.State() != timer.StateRunning {
		t.Fatal("space should resume a paused tracker")
	}
}

func TestTimerViewStopRecordsSession(t *testing.T) {
	app, s := newSeededApp(t)
	tv := app.timerView

	tv, _ = tv.update(keyMsg("s"))
	tv, _ = tv.update(keyMsg("enter")) // first project
	for i := 0; i < 72; i++ {
		app.tracker.Tick()
	}

	tv, cmd := tv.update(keyMsg("x"))
	if cmd == nil {
		t.Fatal("stop should produce commands")
	}
	if app.tracker.State() != timer.StateIdle {
		t.Fatal("tracker should be idle after stop")
	}

	records, err := s.ListSessionRecords()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 session, got %d", len(records))
	}
	if records[0].DurationSeconds != 72 {
		t.Fatalf("duration = %d, want 72", records[0].DurationSeconds)
	}
	if records[0].Type != roadmap.SessionFocus {
		t.Fatalf("type = %s, want focus", records[0].Type)
	}

	profile, _ := s.GetProfile()
	if profile.XP != gamify.FocusXP(72) {
		t.Fatalf("XP = %d, want %d", profile.XP, gamify.FocusXP(72))
	}
}

func TestTimerViewStopWhenIdle(t *testing.T) {
	app, s := newSeededApp(t)
	tv := app.timerView

	if _, cmd := tv.update(keyMsg("x")); cmd != nil {
		t.Fatal("stopping an idle tracker should be a no-op")
	}
	records, _ := s.ListSessionRecords()
	if len(records) != 0 {
		t.Fatal("no session should be recorded")
	}
}

func TestTimerViewModeCycles(t *testing.T) {
	app, _ := newSeededApp(t)
	tv := app.timerView

	tv, _ = tv.update(keyMsg("m"))
	if app.tracker.Mode() != timer.ModePomodoro {
		t.Fatalf("mode = %s, want pomodoro", app.tracker.Mode())
	}
	tv, _ = tv.update(keyMsg("m"))
	if app.tracker.Mode() != timer.ModeBreak {
		t.Fatalf("mode = %s, want break", app.tracker.Mode())
	}
	tv, _ = tv.update(keyMsg("m"))
	if app.tracker.Mode() != timer.ModeFocus {
		t.Fatalf("mode = %s, want focus", app.tracker.Mode())
	}
}

func TestNextMode(t *testing.T) {
	tests := []struct {
		in, want timer.Mode
	}{
		{timer.ModeFocus, timer.ModePomodoro},
		{timer.ModePomodoro, timer.ModeBreak},
		{timer.ModeBreak, timer.ModeFocus},
		{timer.Mode("bogus"), timer.ModeFocus},
	}
	for _, tt := range tests {
		if got := nextMode(tt.in); got != tt.want {
			t.Errorf("nextMode(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

// ============================================================
// Settings
// ============================================================

func TestSecsToMin(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1500", "25"},
		{"300", "5"},
		{"0", "0"},
		{"invalid", "invalid"},
	}
	for _, tt := range tests {
		got := secsToMin(tt.in)
		if got != tt.want {
			t.Errorf("secsToMin(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"25", 1500, true},
		{" 10 ", 600, true},
		{"0", 0, false},
		{"-5", 0, false},
		{"abc", 0, false},
	}
	for _, tt := range tests {
		got, ok := parseMinutes(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("parseMinutes(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{store.SettingPomodoroDuration, "1500", "25 min"},
		{store.SettingBreakDuration, "300", "5 min"},
		{store.SettingDurationGoal, "3600", "60 min"},
		{store.SettingCountdown, "1", "on"},
		{store.SettingCountdown, "0", "off"},
		{store.SettingPomodoroDuration, "invalid", "invalid"},
	}
	for _, tt := range tests {
		got := formatSettingValue(tt.key, tt.val)
		if got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}

func TestSettingsSaveAppliesToTracker(t *testing.T) {
	s := newTestStore(t)
	awards := gamify.NewEngine(s)
	tracker := timer.New(s, awards, timer.DefaultSettings())
	sm := newSettingsModel(s, tracker)

	*sm.pomodoroMin = "30"
	*sm.breakMin = "10"
	*sm.goalMin = "90"
	*sm.countdown = true

	cmd := sm.saveSettings()
	if cmd == nil {
		t.Fatal("save should confirm with a toast")
	}
	if msg, ok := cmd().(statusMsg); !ok || msg.isError {
		t.Fatalf("unexpected save outcome: %+v", msg)
	}

	checks := map[string]string{
		store.SettingPomodoroDuration: "1800",
		store.SettingBreakDuration:    "600",
		store.SettingDurationGoal:     "5400",
		store.SettingCountdown:        "1",
	}
	for key, want := range checks {
		got, err := s.GetSetting(key)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("setting %s = %q, want %q", key, got, want)
		}
	}

	applied := tracker.Settings()
	if applied.PomodoroSeconds != 1800 || applied.BreakSeconds != 600 ||
		applied.GoalSeconds != 5400 || !applied.Countdown {
		t.Fatalf("tracker settings not patched: %+v", applied)
	}
}

func TestSettingsShowFormLoadsStoredValues(t *testing.T) {
	s := newTestStore(t)
	if err := s.SetSetting(store.SettingPomodoroDuration, "1800"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting(store.SettingCountdown, "1"); err != nil {
		t.Fatal(err)
	}

	awards := gamify.NewEngine(s)
	tracker := timer.New(s, awards, timer.DefaultSettings())
	sm := newSettingsModel(s, tracker)
	sm, _ = sm.update(sm.refresh()())

	sm, _ = sm.showForm()
	if !sm.formActive {
		t.Fatal("form should be active")
	}
	if *sm.pomodoroMin != "30" {
		t.Fatalf("pomodoro minutes = %q, want 30", *sm.pomodoroMin)
	}
	if !*sm.countdown {
		t.Fatal("countdown flag should load as true")
	}
}

// ============================================================
// Profile view
// ============================================================

func TestXPProgress(t *testing.T) {
	tests := []struct {
		xp, level int
		want      float64
	}{
		{0, 1, 0},
		{50, 1, 0.5},
		{100, 2, 0},
		{250, 2, 0.5},
		{1000, 1, 1}, // clamped
	}
	for _, tt := range tests {
		got := xpProgress(tt.xp, tt.level)
		if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("xpProgress(%d, %d) = %f, want %f", tt.xp, tt.level, got, tt.want)
		}
	}
}

func TestFocusWeekWindow(t *testing.T) {
	now := time.Date(2025, 6, 15, 13, 45, 0, 0, time.UTC)
	from, to := focusWeek(now)

	wantFrom := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	if !from.Equal(wantFrom) || !to.Equal(wantTo) {
		t.Fatalf("window = [%v, %v), want [%v, %v)", from, to, wantFrom, wantTo)
	}
}

func TestRenderXPBarWidth(t *testing.T) {
	bar := renderXPBar(20, 50, 1)
	if w := lipgloss.Width(bar); w != 20 {
		t.Fatalf("bar width = %d, want 20", w)
	}
}

func TestProfileViewShowsRankAndBadges(t *testing.T) {
	s := newTestStore(t)
	pm := newProfileModel(s, nil)
	pm.setSize(100, 40)
	pm.profile = &roadmap.Profile{XP: 0, Level: 1, UnlockedBadges: []string{"b_first_step"}}

	out := pm.view()
	if !stringContains(out, "Script Kiddie") {
		t.Fatal("view should show the starting rank")
	}
	if !stringContains(out, "Hello World") {
		t.Fatal("view should list badges")
	}
}

func TestProfileDataMsgUpdates(t *testing.T) {
	s := newTestStore(t)
	pm := newProfileModel(s, nil)
	pm.setSize(100, 40)

	profile := &roadmap.Profile{XP: 1200, Level: 4}
	days := []store.DailyFocus{{Date: "2025-06-02", TotalSeconds: 1800, SessionCount: 2}}
	pm, _ = pm.update(profileDataMsg{profile: profile, days: days})

	if pm.profile == nil || pm.profile.XP != 1200 {
		t.Fatal("profile not applied")
	}
	if len(pm.days) != 1 {
		t.Fatal("daily focus not applied")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	bindings := keys.ShortHelp()
	if len(bindings) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test, just verify they render)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"timer", func() string { return timerStyle.Render("test") }},
		{"timerRunning", func() string { return timerRunningStyle.Render("test") }},
		{"timerPaused", func() string { return timerPausedStyle.Render("test") }},
		{"timerOverrun", func() string { return timerOverrunStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
		{"edge", func() string { return edgeStyle.Render("test") }},
		{"edgeActive", func() string { return edgeActiveStyle.Render("test") }},
		{"edgePending", func() string { return edgePendingStyle.Render("test") }},
		{"nodeSelected", func() string { return nodeSelectedStyle.Render("test") }},
		{"nodeMoving", func() string { return nodeMovingStyle.Render("test") }},
	}

	for _, s := range styles {
		result := s.fn()
		if result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}

	for _, status := range []roadmap.Status{roadmap.StatusLocked, roadmap.StatusUnlocked, roadmap.StatusInProgress, roadmap.StatusDone} {
		if nodeStyle(status).Render("test") == "" {
			t.Fatalf("nodeStyle(%s) rendered empty", status)
		}
	}
}
