package ui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/comments"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/config"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/loader"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/session"
)

func testDay(d int) time.Time {
	return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC)
}

func testRecord(aircraft, ata string, reported time.Time, action string, res model.ResolutionType) model.WorkOrderRecord {
	return model.WorkOrderRecord{
		Aircraft:       aircraft,
		WorkOrder:      "WO-" + reported.Format("0201"),
		ATA:            ata,
		ATACorrected:   ata,
		ATASystem:      ata[:2],
		Description:    "DEFECT ON " + ata + ".",
		Action:         action,
		ResolutionType: res,
		ReportedAt:     reported,
	}
}

func testRecords() []model.WorkOrderRecord {
	return []model.WorkOrderRecord{
		// Red flag: reset-only repeat.
		testRecord("VN-A321", "21-23", testDay(1), "RESET CB.", model.ResolutionPilotReport),
		testRecord("VN-A321", "21-23", testDay(5), "RESET CB.", model.ResolutionPilotReport),
		// Recurring but clean: corrective held.
		testRecord("VN-A322", "27-51", testDay(2), "RESET CB.", model.ResolutionPilotReport),
		testRecord("VN-A322", "27-51", testDay(6), "REPLACED ACTUATOR.", model.ResolutionMaintenance),
		// Single event.
		testRecord("VN-A323", "29-10", testDay(3), "RESET CB.", model.ResolutionMaintenance),
	}
}

func testModel(t *testing.T) *Model {
	t.Helper()
	store, err := comments.Open(filepath.Join(t.TempDir(), "comments.db"))
	if err != nil {
		t.Fatalf("open comment store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m, err := NewModel(Deps{
		Records:   testRecords(),
		Store:     store,
		Auth:      session.NewAuthenticator(&config.Config{Reviewer: "Engineer"}),
		Analysis:  analysis.DefaultConfig(),
		ExportDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewModel failed: %v", err)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModelSkipsLoginWithoutCredentials(t *testing.T) {
	m := testModel(t)
	if m.state != stateBrowse {
		t.Errorf("state = %d, want browse", m.state)
	}
	if m.session == nil || !m.session.Anonymous {
		t.Error("anonymous session expected when no credentials are configured")
	}
	if len(m.rows) != 3 {
		t.Errorf("rows = %d, want 3 groups", len(m.rows))
	}
	if len(m.visible) != 3 {
		t.Errorf("visible = %d, want all rows", len(m.visible))
	}
}

func TestCursorMovement(t *testing.T) {
	m := testModel(t)

	m.Update(keyMsg("j"))
	m.Update(keyMsg("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d after jj, want 2", m.cursor)
	}
	// Clamped at the end of the list.
	m.Update(keyMsg("j"))
	if m.cursor != 2 {
		t.Errorf("cursor = %d, should clamp at last row", m.cursor)
	}
	m.Update(keyMsg("k"))
	m.Update(keyMsg("k"))
	m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("cursor = %d, should clamp at first row", m.cursor)
	}
}

func TestFuzzyFilter(t *testing.T) {
	m := testModel(t)

	m.Update(keyMsg("/"))
	if !m.filtering {
		t.Fatal("/ should enter filter mode")
	}
	for _, r := range "corrective" {
		m.Update(keyMsg(string(r)))
	}

	if len(m.visible) != 1 {
		t.Fatalf("filter left %d rows visible, want 1", len(m.visible))
	}
	if got := m.rows[m.visible[0]].Group.Aircraft; got != "VN-A322" {
		t.Errorf("visible row aircraft = %s, want VN-A322", got)
	}

	// Escape clears the filter.
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.filtering || len(m.visible) != 3 {
		t.Errorf("esc should clear filter: filtering=%v visible=%d", m.filtering, len(m.visible))
	}
}

func TestSelectedFollowsFilter(t *testing.T) {
	m := testModel(t)
	m.cursor = 1
	g := m.selected()
	if g == nil {
		t.Fatal("selected returned nil with rows present")
	}
	if g.Key != m.rows[m.visible[1]].Group.Key {
		t.Errorf("selected group = %s", g.Key)
	}
}

func TestDetailMarkdownIncludesRecommendationAndComment(t *testing.T) {
	m := testModel(t)
	if _, err := m.deps.Store.Upsert("VN-A321_21-23", "Controller on order.", "Engineer"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	var flagged *analysis.DefectGroup
	for i := range m.report.Groups {
		if m.report.Groups[i].Key == "VN-A321_21-23" {
			flagged = &m.report.Groups[i]
		}
	}
	if flagged == nil {
		t.Fatal("red-flag group missing from report")
	}

	md := m.detailMarkdown(flagged)
	if !strings.Contains(md, "VN-A321 / ATA 21-23") {
		t.Errorf("markdown missing header: %q", md)
	}
	if !strings.Contains(md, "**Recommendation**") {
		t.Errorf("markdown missing recommendation: %q", md)
	}
	if !strings.Contains(md, "Controller on order.") {
		t.Errorf("markdown missing stored comment: %q", md)
	}
}

func TestDetailMarkdownForCleanGroup(t *testing.T) {
	m := testModel(t)

	var clean *analysis.DefectGroup
	for i := range m.report.Groups {
		if m.report.Groups[i].Key == "VN-A322_27-51" {
			clean = &m.report.Groups[i]
		}
	}
	if clean == nil {
		t.Fatal("clean group missing from report")
	}

	md := m.detailMarkdown(clean)
	if !strings.Contains(md, "**History**") {
		t.Errorf("clean group should fall back to history view: %q", md)
	}
	if strings.Contains(md, "**Recommendation**") {
		t.Errorf("clean group should not carry a recommendation: %q", md)
	}
}

func TestReloadSwapsReport(t *testing.T) {
	m := testModel(t)

	m.Update(ReloadMsg{Result: &loader.Result{
		Records: []model.WorkOrderRecord{
			testRecord("VN-A323", "29-10", testDay(7), "RESET CB.", model.ResolutionMaintenance),
		},
	}})

	if len(m.rows) != 1 {
		t.Fatalf("rows = %d after reload, want 1", len(m.rows))
	}
	if m.rows[0].Group.Aircraft != "VN-A323" {
		t.Errorf("reloaded group aircraft = %s", m.rows[0].Group.Aircraft)
	}
	if m.statusErr || !strings.Contains(m.status, "re-analyzed") {
		t.Errorf("reload status = %q", m.status)
	}
}

func TestRebuildRowsMarksCommentedGroups(t *testing.T) {
	m := testModel(t)
	if _, err := m.deps.Store.Upsert("VN-A321_21-23", "noted", "Engineer"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	m.rebuildRows()

	for _, row := range m.rows {
		want := row.Group.Key == "VN-A321_21-23"
		if row.HasComment != want {
			t.Errorf("HasComment for %s = %v, want %v", row.Group.Key, row.HasComment, want)
		}
	}
}

func TestCtrlCQuitsWhileFiltering(t *testing.T) {
	m := testModel(t)

	m.Update(keyMsg("/"))
	if !m.filtering {
		t.Fatal("/ should enter filter mode")
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c during filtering returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("ctrl+c during filtering should quit")
	}
}

func TestSearchValueMarksRecurringGroups(t *testing.T) {
	m := testModel(t)

	for _, row := range m.rows {
		has := strings.Contains(row.SearchValue(), "recurring")
		if has != row.Group.Recurring {
			t.Errorf("SearchValue for %s: recurring token = %v, want %v",
				row.Group.Key, has, row.Group.Recurring)
		}
	}

	// "recurring" as a filter query selects exactly the gated groups.
	m.Update(keyMsg("/"))
	for _, r := range "recurring" {
		m.Update(keyMsg(string(r)))
	}
	if len(m.visible) != 2 {
		t.Fatalf("recurring filter left %d rows, want 2", len(m.visible))
	}
	for _, i := range m.visible {
		if !m.rows[i].Group.Recurring {
			t.Errorf("recurring filter matched non-recurring group %s", m.rows[i].Group.Key)
		}
	}
}

func TestGroupRowSearchValue(t *testing.T) {
	m := testModel(t)
	v := m.rows[0].SearchValue()
	for _, want := range []string{m.rows[0].Group.Aircraft, m.rows[0].Group.ATA, m.rows[0].Group.Conclusion.Label()} {
		if !strings.Contains(v, want) {
			t.Errorf("SearchValue %q missing %q", v, want)
		}
	}
}

func TestGroupRowRenderTruncates(t *testing.T) {
	m := testModel(t)
	line := m.rows[0].Render(20, false)
	if strings.Contains(line, "\n") {
		t.Errorf("row render should be a single line: %q", line)
	}
}
