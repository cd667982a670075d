// Package tui is the interactive terminal front end. It renders three
// panes over one projected model: the favorites list, the course list,
// and the route readout for the selected course. Favorites support
// mouse drag reordering with a tap-versus-drag gate.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"github.com/scenemap/scenemap/pkg/app"
	"github.com/scenemap/scenemap/pkg/course"
	"github.com/scenemap/scenemap/pkg/drag"
	"github.com/scenemap/scenemap/pkg/engine"
	"github.com/scenemap/scenemap/pkg/order"
	"github.com/scenemap/scenemap/pkg/place"
	"github.com/scenemap/scenemap/pkg/projector"
)

type mode int

const (
	modeNormal mode = iota
	modeSpots
	modeConfirm
	modeInsert
)

// favTop is the screen row of the first favorites row: one header line
// and one pane title line above it.
const favTop = 2

type modelMsg struct{ m projector.Model }
type noticeMsg struct{ text string }
type errMsg struct{ err error }
type signedInMsg struct{}

// Model contains UI state.
type Model struct {
	svc *app.Service
	ctx context.Context

	updates     chan projector.Model
	notices     chan string
	orderEvents <-chan order.Event

	projected projector.Model
	drag      *drag.Input

	input textinput.Model

	mode  mode
	focus int // 0: favorites, 1: courses

	favIndex    int
	courseIndex int
	spotIndex   int

	// pending last-spot removal awaiting confirmation
	confirmCourse string
	confirmSpot   string

	status string

	termWidth  int
	termHeight int
}

// New creates a UI model backed by the Service and subscribes it to
// projector updates and coordinator notices.
func New(svc *app.Service) Model {
	ti := textinput.New()
	ti.Placeholder = "New course title"
	ti.CharLimit = 128
	ti.Prompt = ""

	m := Model{
		svc:     svc,
		ctx:     context.Background(),
		updates: make(chan projector.Model, 8),
		notices: make(chan string, 8),
		drag:    drag.NewInput(drag.DefaultConfig),
		input:   ti,
		status:  "loading",
	}
	svc.Projector.Register(projector.ViewFunc(func(pm projector.Model) {
		select {
		case m.updates <- pm:
		default:
		}
	}))
	svc.Coordinator.Notices = engine.NoticeFunc(func(text string) {
		select {
		case m.notices <- text:
		default:
		}
	})
	if events, err := svc.Watch(m.ctx); err == nil {
		m.orderEvents = events
	}
	return m
}

// Init signs in and starts the update subscriptions.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.signIn(), m.waitModel(), m.waitNotice()}
	if m.orderEvents != nil {
		cmds = append(cmds, m.waitOrder())
	}
	return tea.Batch(cmds...)
}

type orderChangedMsg struct{}

// waitOrder picks up order records written by another process sharing
// the same store.
func (m Model) waitOrder() tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-m.orderEvents; !ok {
			return nil
		}
		return orderChangedMsg{}
	}
}

func (m Model) signIn() tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.SignIn(m.ctx); err != nil {
			return errMsg{err}
		}
		return signedInMsg{}
	}
}

func (m Model) waitModel() tea.Cmd {
	return func() tea.Msg {
		return modelMsg{<-m.updates}
	}
}

func (m Model) waitNotice() tea.Cmd {
	return func() tea.Msg {
		return noticeMsg{<-m.notices}
	}
}

// Update handles messages and keybindings.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height

	case signedInMsg:
		m.status = "ready"

	case errMsg:
		switch {
		case errors.Is(msg.err, engine.ErrBusy):
			m.status = "busy, try again"
		case errors.Is(msg.err, engine.ErrUnauthenticated):
			m.status = "not signed in"
		default:
			m.status = "ERR: " + msg.err.Error()
		}

	case noticeMsg:
		m.status = msg.text
		cmds = append(cmds, m.waitNotice())

	case confirmMsg:
		m.mode = modeConfirm
		m.confirmCourse = msg.courseID
		m.confirmSpot = msg.spotID

	case modelMsg:
		m.projected = msg.m
		m.clampSelection()
		cmds = append(cmds, m.waitModel())

	case orderChangedMsg:
		m.svc.Projector.Notify()
		cmds = append(cmds, m.waitOrder())

	case tea.BlurMsg:
		// Terminal lost focus mid-gesture; release events may never
		// arrive, so abandon the drag.
		if m.drag.Dragging() {
			m.drag.Cancel()
			m.status = "drag cancelled"
		}

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button != tea.MouseLeft {
			break
		}
		if idx, ok := m.favoriteRowAt(mouse.X, mouse.Y); ok {
			err := m.drag.Press(order.Favorites, m.favoriteIDs(), idx,
				drag.Geometry{Top: favTop, RowHeight: 1}, mouse.X, mouse.Y, time.Now())
			if err == nil {
				m.focus = 0
				m.favIndex = idx
			}
		}

	case tea.MouseMotionMsg:
		mouse := msg.Mouse()
		m.drag.Move(mouse.X, mouse.Y, time.Now())

	case tea.MouseReleaseMsg:
		mouse := msg.Mouse()
		res := m.drag.Release(mouse.X, mouse.Y, time.Now())
		switch res.Kind {
		case drag.Tap:
			m.focus = 0
			m.favIndex = res.Index
		case drag.Commit:
			cmds = append(cmds, m.reorderFavorites(res.Order))
		}

	case tea.KeyPressMsg:
		cmds = append(cmds, m.handleKey(msg)...)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyPressMsg) []tea.Cmd {
	var cmds []tea.Cmd

	if m.mode == modeInsert {
		switch msg.String() {
		case "enter":
			title := strings.TrimSpace(m.input.Value())
			m.mode = modeNormal
			m.input.Reset()
			m.input.Blur()
			if title != "" && len(m.projected.Favorites) > 0 {
				cmds = append(cmds, m.saveDraft(title, m.projected.Favorites))
			}
		case "esc":
			m.mode = modeNormal
			m.input.Reset()
			m.input.Blur()
			m.status = "new course cancelled"
		default:
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			cmds = append(cmds, cmd)
		}
		return cmds
	}

	if m.mode == modeConfirm {
		switch msg.String() {
		case "y", "enter":
			courseID, spotID := m.confirmCourse, m.confirmSpot
			m.mode = modeNormal
			m.confirmCourse, m.confirmSpot = "", ""
			cmds = append(cmds, m.removeSpot(courseID, spotID, true))
		case "n", "esc", "q":
			m.mode = modeNormal
			m.confirmCourse, m.confirmSpot = "", ""
			m.status = "kept course"
		}
		return cmds
	}

	switch msg.String() {
	case "esc":
		if m.drag.Dragging() {
			m.drag.Cancel()
			m.status = "drag cancelled"
			return cmds
		}
		if m.mode == modeSpots {
			m.mode = modeNormal
		}

	case "q", "ctrl+c":
		cmds = append(cmds, tea.Quit)

	case "tab":
		m.mode = modeNormal
		m.focus = (m.focus + 1) % 2

	case "j", "down":
		m.moveCursor(1)
	case "k", "up":
		m.moveCursor(-1)

	case "J":
		cmds = append(cmds, m.moveSelected(1)...)
	case "K":
		cmds = append(cmds, m.moveSelected(-1)...)

	case "enter":
		if m.focus == 1 && len(m.projected.Courses) > 0 {
			m.mode = modeSpots
			m.spotIndex = 0
		}

	case "x":
		if m.focus == 0 {
			if r, ok := m.selectedFavorite(); ok {
				cmds = append(cmds, m.removeFavorite(r.ID))
			}
		}

	case "d":
		if m.mode == modeSpots {
			if c, ok := m.selectedCourse(); ok && m.spotIndex < len(c.Spots) {
				cmds = append(cmds, m.removeSpot(c.ID, c.Spots[m.spotIndex].ID, false))
			}
		}

	case "D":
		if m.focus == 1 {
			if c, ok := m.selectedCourse(); ok {
				cmds = append(cmds, m.deleteCourse(c.ID))
			}
		}

	case "n":
		// New course from the current favorites, in display order.
		if len(m.projected.Favorites) > 0 {
			m.mode = modeInsert
			m.input.SetValue("")
			if cmd := m.input.Focus(); cmd != nil {
				cmds = append(cmds, cmd)
			}
			cmds = append(cmds, textinput.Blink)
		}

	case "r":
		cmds = append(cmds, func() tea.Msg {
			if err := m.svc.Load(m.ctx); err != nil {
				return errMsg{err}
			}
			return nil
		})
	}

	return cmds
}

func (m *Model) moveCursor(delta int) {
	if m.mode == modeSpots {
		if c, ok := m.selectedCourse(); ok {
			m.spotIndex = clamp(m.spotIndex+delta, len(c.Spots))
		}
		return
	}
	if m.focus == 0 {
		m.favIndex = clamp(m.favIndex+delta, len(m.projected.Favorites))
		return
	}
	m.courseIndex = clamp(m.courseIndex+delta, len(m.projected.Courses))
	m.spotIndex = 0
}

// moveSelected is the keyboard reorder path: swap the selected row with
// its neighbor and persist the whole order.
func (m *Model) moveSelected(delta int) []tea.Cmd {
	if m.mode == modeSpots {
		c, ok := m.selectedCourse()
		if !ok {
			return nil
		}
		ids := spotIDs(c.Spots)
		j := m.spotIndex + delta
		if j < 0 || j >= len(ids) {
			return nil
		}
		ids[m.spotIndex], ids[j] = ids[j], ids[m.spotIndex]
		m.spotIndex = j
		courseID := c.ID
		return []tea.Cmd{func() tea.Msg {
			if err := m.svc.Coordinator.ReorderCourseSpots(m.ctx, courseID, ids); err != nil {
				return errMsg{err}
			}
			return nil
		}}
	}

	if m.focus != 0 {
		return nil
	}
	ids := m.favoriteIDs()
	j := m.favIndex + delta
	if j < 0 || j >= len(ids) {
		return nil
	}
	ids[m.favIndex], ids[j] = ids[j], ids[m.favIndex]
	m.favIndex = j
	return []tea.Cmd{m.reorderFavorites(ids)}
}

func (m Model) reorderFavorites(ids []string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Coordinator.ReorderFavorites(m.ctx, ids); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) removeFavorite(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Coordinator.RemoveFavorite(m.ctx, id); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) removeSpot(courseID, spotID string, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		err := m.svc.Coordinator.RemoveCourseSpot(m.ctx, courseID, spotID, confirmed)
		if errors.Is(err, engine.ErrLastSpot) {
			return confirmMsg{courseID: courseID, spotID: spotID}
		}
		if err != nil {
			return errMsg{err}
		}
		return nil
	}
}

type confirmMsg struct {
	courseID string
	spotID   string
}

func (m Model) saveDraft(title string, spots []place.Record) tea.Cmd {
	return func() tea.Msg {
		draft := course.Course{Title: title, Spots: spots}
		if _, err := m.svc.Coordinator.SaveDraft(m.ctx, draft); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m Model) deleteCourse(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.svc.Coordinator.DeleteCourse(m.ctx, id); err != nil {
			return errMsg{err}
		}
		return nil
	}
}

func (m *Model) clampSelection() {
	m.favIndex = clamp(m.favIndex, len(m.projected.Favorites))
	m.courseIndex = clamp(m.courseIndex, len(m.projected.Courses))
	if c, ok := m.selectedCourse(); ok {
		m.spotIndex = clamp(m.spotIndex, len(c.Spots))
	}
}

func (m *Model) selectedFavorite() (place.Record, bool) {
	if m.favIndex < 0 || m.favIndex >= len(m.projected.Favorites) {
		return place.Record{}, false
	}
	return m.projected.Favorites[m.favIndex], true
}

func (m *Model) selectedCourse() (courseView, bool) {
	if m.courseIndex < 0 || m.courseIndex >= len(m.projected.Courses) {
		return courseView{}, false
	}
	c := m.projected.Courses[m.courseIndex]
	return courseView{ID: c.ID, Title: c.Title, Spots: c.Spots}, true
}

type courseView struct {
	ID    string
	Title string
	Spots []place.Record
}

func (m *Model) favoriteIDs() []string {
	return spotIDs(m.projected.Favorites)
}

func spotIDs(items []place.Record) []string {
	ids := make([]string, len(items))
	for i, r := range items {
		ids[i] = r.ID
	}
	return ids
}

// favoriteRowAt maps a screen position to a favorites row.
func (m *Model) favoriteRowAt(x, y int) (int, bool) {
	if x < 0 || x >= m.favPaneWidth() {
		return 0, false
	}
	idx := y - favTop
	if idx < 0 || idx >= len(m.projected.Favorites) {
		return 0, false
	}
	return idx, true
}

func (m *Model) favPaneWidth() int {
	w := m.termWidth / 3
	if w < 28 {
		w = 28
	}
	return w
}

func clamp(i, n int) int {
	if n == 0 {
		return 0
	}
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	selStyle    = lipgloss.NewStyle().Reverse(true)
	dragStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	faintStyle  = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the three panes and the status line.
func (m Model) View() string {
	favWidth := m.favPaneWidth()
	fav := m.viewFavorites(favWidth)
	courses := m.viewCourses()
	route := m.viewRoute()

	gap := lipgloss.NewStyle().Padding(0, 1).Render(" ")
	body := lipgloss.JoinHorizontal(lipgloss.Top, fav, gap, courses, gap, route)

	status := m.status
	if m.mode == modeConfirm {
		status = "removing the last spot deletes the course, y/n?"
	}
	if m.mode == modeInsert {
		body += "\n\nNew course: " + m.input.View()
	}
	return " \n" + body + "\n\n" + statusStyle.Render(status)
}

func (m Model) viewFavorites(width int) string {
	var b strings.Builder
	title := "Favorites"
	if m.focus == 0 {
		title = "» " + title
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	items := m.projected.Favorites
	draggedID := ""
	if m.drag.Dragging() {
		// Show the working order, not the committed one.
		byID := make(map[string]place.Record, len(items))
		for _, r := range items {
			byID[r.ID] = r
		}
		preview := m.drag.Preview()
		reordered := make([]place.Record, 0, len(preview))
		for _, id := range preview {
			if r, ok := byID[id]; ok {
				reordered = append(reordered, r)
			}
		}
		items = reordered
		draggedID = m.drag.DraggedID()
	}

	if len(items) == 0 {
		b.WriteString(faintStyle.Render(" none"))
		return lipgloss.NewStyle().Width(width).Render(b.String())
	}

	for i, r := range items {
		line := fmt.Sprintf("%2d. %s", i+1, r.Title)
		switch {
		case r.ID == draggedID:
			line = dragStyle.Render(line)
		case m.focus == 0 && !m.drag.Dragging() && i == m.favIndex:
			line = selStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return lipgloss.NewStyle().Width(width).Render(b.String())
}

func (m Model) viewCourses() string {
	var b strings.Builder
	title := "Courses"
	if m.focus == 1 {
		title = "» " + title
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	if len(m.projected.Courses) == 0 {
		b.WriteString(faintStyle.Render(" none"))
		return b.String()
	}
	for i, c := range m.projected.Courses {
		line := fmt.Sprintf("%s (%d)", c.Title, len(c.Spots))
		if m.focus == 1 && i == m.courseIndex {
			line = selStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func (m Model) viewRoute() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Route") + "\n")

	c, ok := m.selectedCourse()
	if !ok || len(c.Spots) == 0 {
		b.WriteString(faintStyle.Render(" none"))
		return b.String()
	}

	sep := " -> "
	if m.drag.Dragging() {
		// Dashed while a gesture is in flight.
		sep = " -- "
	}
	names := make([]string, 0, len(c.Spots))
	for i, r := range c.Spots {
		name := r.Title
		if name == "" {
			name = r.ID
		}
		if m.mode == modeSpots && i == m.spotIndex {
			name = selStyle.Render(name)
		}
		names = append(names, name)
	}
	b.WriteString(strings.Join(names, sep) + "\n")

	if m.mode == modeSpots {
		b.WriteString(faintStyle.Render("\nJ/K reorder, d remove, esc back"))
	}
	return b.String()
}

// Run starts the program with mouse tracking enabled.
func Run(svc *app.Service) error {
	p := tea.NewProgram(New(svc),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
