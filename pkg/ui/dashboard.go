// Package ui implements the terminal dashboard: a login gate, the defect
// group list with fuzzy filtering, a detail panel with the generated
// recommendation, and the comment editor backed by the comment store.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/analysis"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/comments"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/export"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/loader"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/model"
	"github.com/vanvietpfiev/repetitive-defect-monitoring/pkg/session"
)

type state int

const (
	stateLogin state = iota
	stateBrowse
	stateComment
)

// Deps carries everything the dashboard operates on.
type Deps struct {
	Records   []model.WorkOrderRecord
	RowErrors []loader.RowError
	Store     *comments.Store
	Auth      *session.Authenticator
	Analysis  analysis.Config
	ExportDir string
}

// ReloadMsg is sent from outside the program (watch mode) when the input
// export changed on disk.
type ReloadMsg struct {
	Result *loader.Result
}

type commentSavedMsg struct{ err error }

type exportDoneMsg struct {
	dir string
	err error
}

// Model is the root bubbletea model.
type Model struct {
	deps    Deps
	report  *analysis.Report
	session *session.Session

	state   state
	login   LoginModel
	comment CommentInputModel

	rows    []GroupRow
	visible []int // indexes into rows after filtering
	cursor  int   // index into visible

	filter    textinput.Model
	filtering bool

	detail   viewport.Model
	renderer *glamour.TermRenderer

	status    string
	statusErr bool

	width  int
	height int
	ready  bool
}

// NewModel builds the dashboard over an initial analysis run.
func NewModel(deps Deps) (*Model, error) {
	report, err := analysis.Analyze(deps.Records, deps.Analysis)
	if err != nil {
		return nil, err
	}

	filter := textinput.New()
	filter.Placeholder = "filter aircraft, ATA, conclusion..."
	filter.CharLimit = 64

	m := &Model{
		deps:   deps,
		report: report,
		filter: filter,
	}

	if deps.Auth.Required() {
		m.state = stateLogin
		m.login = NewLoginModel("")
	} else {
		m.state = stateBrowse
		m.session = deps.Auth.AnonymousSession()
	}

	m.rebuildRows()
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.state == stateLogin {
		return m.login.Init()
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case ReloadMsg:
		m.applyReload(msg.Result)
		return m, nil

	case commentSavedMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("comment not saved: %v", msg.err), true)
		} else {
			m.setStatus("Comment saved", false)
			m.rebuildRows()
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("export failed: %v", msg.err), true)
		} else {
			m.setStatus("Report exported to "+msg.dir, false)
		}
		return m, nil
	}

	switch m.state {
	case stateLogin:
		return m.updateLogin(msg)
	case stateComment:
		return m.updateComment(msg)
	default:
		return m.updateBrowse(msg)
	}
}

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg)

	if m.login.Done() {
		username, password := m.login.Credentials()
		sess, err := m.deps.Auth.Login(username, password)
		if err != nil {
			m.login = NewLoginModel(err.Error())
			m.login.SetSize(m.width, m.height)
			return m, m.login.Init()
		}
		m.session = sess
		m.state = stateBrowse
		m.setStatus("Signed in as "+sess.Author(), false)
		m.refreshDetail()
	}
	return m, cmd
}

func (m *Model) updateComment(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)

	if m.comment.Cancelled() {
		m.state = stateBrowse
		return m, nil
	}
	if m.comment.Submitted() {
		m.state = stateBrowse
		key, text := m.comment.GroupKey(), m.comment.Text()
		author := m.session.Author()
		store := m.deps.Store
		return m, func() tea.Msg {
			_, err := store.Upsert(key, text, author)
			return commentSavedMsg{err: err}
		}
	}
	return m, cmd
}

func (m *Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd
	}

	if m.filtering {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.filtering = false
			m.filter.SetValue("")
			m.filter.Blur()
			m.applyFilter()
		case "enter":
			m.filtering = false
			m.filter.Blur()
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.moveCursor(-1)
	case "down", "j":
		m.moveCursor(1)
	case "pgup":
		m.detail.HalfPageUp()
	case "pgdown":
		m.detail.HalfPageDown()
	case "/":
		m.filtering = true
		m.filter.Focus()
		return m, textinput.Blink
	case "c":
		if g := m.selected(); g != nil {
			existing := ""
			if c, found, err := m.deps.Store.Lookup(g.Key); err != nil {
				m.setStatus(fmt.Sprintf("comment lookup failed: %v", err), true)
				return m, nil
			} else if found {
				existing = c.Text
			}
			m.comment = NewCommentInputModel(g.Key, g.Aircraft+" / ATA "+g.ATA, existing)
			m.comment.SetSize(m.width, m.height)
			m.state = stateComment
			return m, m.comment.Init()
		}
	case "e":
		return m, m.exportCmd()
	case "y":
		if g := m.selected(); g != nil {
			if err := clipboard.WriteAll(timelinePlain(g)); err != nil {
				m.setStatus(fmt.Sprintf("clipboard unavailable: %v", err), true)
			} else {
				m.setStatus("Timeline copied to clipboard", false)
			}
		}
	case "ctrl+l":
		if m.deps.Auth.Required() {
			session.Logout(m.session)
			m.session = nil
			m.state = stateLogin
			m.login = NewLoginModel("")
			m.login.SetSize(m.width, m.height)
			return m, m.login.Init()
		}
	}
	return m, nil
}

func (m *Model) exportCmd() tea.Cmd {
	report := m.report
	store := m.deps.Store
	dir := m.deps.ExportDir
	return func() tea.Msg {
		stored, err := store.All()
		if err != nil {
			return exportDoneMsg{err: err}
		}
		if err := export.WriteBundle(dir, report, stored); err != nil {
			return exportDoneMsg{err: err}
		}
		return exportDoneMsg{dir: dir}
	}
}

// applyReload swaps in a fresh load of the input export.
func (m *Model) applyReload(res *loader.Result) {
	report, err := analysis.Analyze(res.Records, m.deps.Analysis)
	if err != nil {
		m.setStatus(fmt.Sprintf("re-analysis failed: %v", err), true)
		return
	}
	m.deps.Records = res.Records
	m.deps.RowErrors = res.RowErrors
	m.report = report
	m.rebuildRows()
	m.setStatus(fmt.Sprintf("Input changed on disk: re-analyzed %d work orders", report.TotalWorkOrders()), false)
}

func (m *Model) rebuildRows() {
	annotated := map[string]bool{}
	if stored, err := m.deps.Store.All(); err == nil {
		for key := range stored {
			annotated[key] = true
		}
	}

	m.rows = m.rows[:0]
	for i := range m.report.Groups {
		g := &m.report.Groups[i]
		m.rows = append(m.rows, GroupRow{Group: g, HasComment: annotated[g.Key]})
	}
	m.applyFilter()
}

func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.filter.Value())
	m.visible = m.visible[:0]

	if query == "" {
		for i := range m.rows {
			m.visible = append(m.visible, i)
		}
	} else {
		haystack := make([]string, len(m.rows))
		for i, row := range m.rows {
			haystack[i] = row.SearchValue()
		}
		for _, match := range fuzzy.Find(query, haystack) {
			m.visible = append(m.visible, match.Index)
		}
	}

	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
	m.refreshDetail()
}

func (m *Model) moveCursor(delta int) {
	if len(m.visible) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	m.refreshDetail()
}

func (m *Model) selected() *analysis.DefectGroup {
	if m.cursor >= len(m.visible) {
		return nil
	}
	return m.rows[m.visible[m.cursor]].Group
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.statusErr = isErr
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.login.SetSize(width, height)
	m.comment.SetSize(width, height)

	detailWidth := width - m.listWidth() - 6
	if detailWidth < 20 {
		detailWidth = 20
	}
	m.detail = viewport.New(detailWidth, height-7)

	if r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(detailWidth-2),
	); err == nil {
		m.renderer = r
	}
	m.refreshDetail()
}

func (m *Model) listWidth() int {
	w := m.width * 2 / 5
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) refreshDetail() {
	g := m.selected()
	if g == nil {
		m.detail.SetContent(MutedStyle.Render("No defect groups match."))
		return
	}

	md := m.detailMarkdown(g)
	if m.renderer != nil {
		if out, err := m.renderer.Render(md); err == nil {
			m.detail.SetContent(out)
			m.detail.GotoTop()
			return
		}
	}
	m.detail.SetContent(md)
	m.detail.GotoTop()
}

func (m *Model) detailMarkdown(g *analysis.DefectGroup) string {
	if rec := analysis.Recommend(g); rec != nil {
		return rec.Markdown + m.commentSection(g)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s / ATA %s\n\n", g.Aircraft, g.ATA)
	fmt.Fprintf(&b, "**Conclusion**: %s\n\n", g.Conclusion.Label())
	if g.Recurring {
		b.WriteString("**Recurring** within the configured threshold and window\n\n")
	}
	b.WriteString("**History**\n\n")
	for _, e := range g.Events {
		fmt.Fprintf(&b, "- %s: %s -> %s (%s)\n",
			e.Record.ReportedAt.Format("02/01/2006"),
			analysis.FirstSentence(e.Record.Description),
			analysis.FirstSentence(e.Record.Action),
			e.Verdict)
	}
	if g.Intervals.Count > 0 {
		fmt.Fprintf(&b, "\n*Mean interval %.1f days over %d occurrences*\n", g.Intervals.MeanDays, g.RepeatCount())
	}
	return b.String() + m.commentSection(g)
}

func (m *Model) commentSection(g *analysis.DefectGroup) string {
	c, found, err := m.deps.Store.Lookup(g.Key)
	if err != nil || !found || strings.TrimSpace(c.Text) == "" {
		return ""
	}
	return fmt.Sprintf("\n---\n\n**Engineering note** (%s, %s):\n\n%s\n",
		c.Author, c.UpdatedAt.Format("02/01/2006"), c.Text)
}

func timelinePlain(g *analysis.DefectGroup) string {
	if rec := analysis.Recommend(g); rec != nil {
		return rec.TimelinePlain
	}
	var lines []string
	for _, e := range g.Events {
		lines = append(lines, fmt.Sprintf("%s: %s -> %s",
			e.Record.ReportedAt.Format("02/01/2006"),
			analysis.FirstSentence(e.Record.Description),
			analysis.FirstSentence(e.Record.Action)))
	}
	return strings.Join(lines, "\n")
}

// View implements tea.Model.
func (m *Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.state {
	case stateLogin:
		return m.login.View()
	case stateComment:
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.comment.View())
	}

	header := m.viewHeader()
	list := m.viewList()
	detail := PanelStyle.Width(m.detail.Width + 2).Render(m.detail.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, list, detail)
	footer := m.viewFooter()

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func (m *Model) viewHeader() string {
	flags := m.report.RedFlags()
	summary := fmt.Sprintf("%d groups  %d recurring  %d red flags  %d work orders",
		len(m.report.Groups), m.report.RecurringCount(), len(flags), m.report.TotalWorkOrders())
	if n := len(m.deps.RowErrors); n > 0 {
		summary += fmt.Sprintf("  %d unparsable rows", n)
	}

	left := TitleStyle.Render("Repetitive Defect Monitor")
	right := SubtextStyle.Render(summary)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) viewList() string {
	width := m.listWidth()
	height := m.height - 7
	if height < 3 {
		height = 3
	}

	var b strings.Builder
	if m.filtering || m.filter.Value() != "" {
		b.WriteString(m.filter.View())
		b.WriteString("\n")
		height--
	}

	start := 0
	if m.cursor >= height {
		start = m.cursor - height + 1
	}
	for i := start; i < len(m.visible) && i < start+height; i++ {
		b.WriteString(m.rows[m.visible[i]].Render(width-2, i == m.cursor))
		b.WriteString("\n")
	}
	if len(m.visible) == 0 {
		b.WriteString(MutedStyle.Render("no matches"))
	}

	return PanelStyle.Width(width).Height(height + 1).Render(strings.TrimRight(b.String(), "\n"))
}

func (m *Model) viewFooter() string {
	hints := "[j/k] navigate  [/] filter  [c] comment  [e] export  [y] copy timeline  [q] quit"
	if m.deps.Auth.Required() {
		hints += "  [ctrl+l] logout"
	}
	line := HintStyle.Render(hints)
	if m.status != "" {
		style := StatusOKStyle
		if m.statusErr {
			style = StatusErrStyle
		}
		line = style.Render(m.status) + "  " + line
	}
	return line
}
