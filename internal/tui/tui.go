// Package tui is the interactive play surface: a Bubble Tea model
// driving the game controller through category choice, rounds, round
// review, and the final recap.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/fmkparty/fmk/internal/game"
	"github.com/fmkparty/fmk/internal/person"
)

// Screen identifies which view the model is showing.
type Screen int

const (
	ScreenCategories Screen = iota
	ScreenRound
	ScreenReview
	ScreenRecap
)

// CategoryItem is one entry in the category picker. Custom lists carry
// their people inline; catalog categories are resolved by the
// controller from the id.
type CategoryItem struct {
	ID          string
	Name        string
	PeopleCount int
	People      []person.Person
}

// TimerTickMsg carries the remaining countdown seconds.
type TimerTickMsg struct{ Remaining int }

// TimerExpiredMsg signals the decision timer ran out and the round was
// auto-completed.
type TimerExpiredMsg struct{}

// Model is the Bubble Tea model for a play session.
type Model struct {
	ctrl   *game.Controller
	logger *log.Logger

	categories []CategoryItem
	players    []person.Player
	timerCfg   game.TimerConfig
	genders    []person.Gender
	ageRange   [2]int

	// playerFilters overrides the session filters per player id in
	// pass-and-play, sourced from saved player profiles.
	playerFilters map[string]PlayerFilters

	screen       Screen
	cursor       int
	personCursor int
	remaining    int
	saveErr      error
	quitting     bool

	recapViewport viewport.Model

	// notify pushes messages into the running program from timer
	// callbacks. Set by SetNotify before the program starts.
	notify func(tea.Msg)

	width  int
	height int
}

// New builds the play model. players is empty for solo mode.
func New(ctrl *game.Controller, categories []CategoryItem, players []person.Player,
	genders []person.Gender, ageRange [2]int, timerCfg game.TimerConfig, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)
	return &Model{
		ctrl:          ctrl,
		logger:        logger.WithPrefix("tui"),
		categories:    categories,
		players:       players,
		timerCfg:      timerCfg,
		genders:       genders,
		ageRange:      ageRange,
		screen:        ScreenCategories,
		recapViewport: vp,
		notify:        func(tea.Msg) {},
	}
}

// PlayerFilters are one player's selection constraints.
type PlayerFilters struct {
	Genders  []person.Gender
	AgeRange [2]int
}

// SetNotify wires timer callbacks into the running program. Call with
// tea.Program.Send before Run.
func (m *Model) SetNotify(fn func(tea.Msg)) { m.notify = fn }

// SetPlayerFilters installs per-player filter overrides keyed by
// player id.
func (m *Model) SetPlayerFilters(filters map[string]PlayerFilters) {
	m.playerFilters = filters
}

// currentFilters resolves the filters for the upcoming round: the
// current player's own settings in pass-and-play, else the session
// defaults.
func (m *Model) currentFilters() ([]person.Gender, [2]int) {
	if p, ok := m.ctrl.CurrentPlayer(); ok {
		if f, ok := m.playerFilters[p.ID]; ok {
			return f.Genders, f.AgeRange
		}
	}
	return m.genders, m.ageRange
}

// Screen returns the current view, for tests and the caller.
func (m *Model) Screen() Screen { return m.screen }

// SaveErr returns the history write failure from ending the game, if
// any.
func (m *Model) SaveErr() error { return m.saveErr }

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.recapViewport.Width = max(msg.Width-4, 10)
		m.recapViewport.Height = max(msg.Height-6, 3)

	case TimerTickMsg:
		m.remaining = msg.Remaining
		return m, nil

	case TimerExpiredMsg:
		// The controller already sealed the round on expiry.
		m.remaining = 0
		m.afterRoundSealed()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.recapViewport, cmd = m.recapViewport.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key := msg.String(); key == "ctrl+c" {
		return m.quit()
	}

	switch m.screen {
	case ScreenCategories:
		return m.handleCategoriesKey(msg)
	case ScreenRound:
		return m.handleRoundKey(msg)
	case ScreenReview:
		return m.handleReviewKey(msg)
	case ScreenRecap:
		return m.handleRecapKey(msg)
	}
	return m, nil
}

func (m *Model) handleCategoriesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.categories)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.startSession(m.categories[m.cursor])
	}
	return m, nil
}

func (m *Model) handleRoundKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	unassigned := m.ctrl.UnassignedPeople()
	if m.personCursor >= len(unassigned) {
		m.personCursor = 0
	}

	switch msg.String() {
	case "q", "esc":
		m.endGame()
		return m, nil
	case "left", "h":
		if m.personCursor > 0 {
			m.personCursor--
		}
	case "right", "l", "tab":
		if m.personCursor < len(unassigned)-1 {
			m.personCursor++
		}
	case "f", "m", "x":
		if len(unassigned) == 0 {
			return m, nil
		}
		m.assign(unassigned[m.personCursor], keyAssignment(msg.String()))
	case "r":
		if len(unassigned) == 0 {
			return m, nil
		}
		old := unassigned[m.personCursor]
		genders, ageRange := m.currentFilters()
		if !m.ctrl.ReplacePerson(old, genders, ageRange) {
			m.logger.Debug("No replacement available", "person", old.ID)
		}
	}
	return m, nil
}

func (m *Model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "n", " ":
		m.ctrl.CompleteRound()
		m.afterRoundSealed()
	case "e", "q", "esc":
		m.ctrl.CompleteRound()
		m.endGame()
	}
	return m, nil
}

func (m *Model) handleRecapKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "enter":
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)
	}
	var cmd tea.Cmd
	m.recapViewport, cmd = m.recapViewport.Update(msg)
	return m, cmd
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	// A reviewed round is decided, so seal it. An undecided round is
	// discarded. The recap screen has already ended the game.
	if m.screen == ScreenReview {
		m.ctrl.CompleteRound()
	}
	if m.screen != ScreenCategories && m.screen != ScreenRecap {
		m.saveErr = m.ctrl.EndGame(context.Background())
	}
	m.quitting = true
	return m, tea.Sequence(tea.ClearScreen, tea.Quit)
}

// startSession begins a session for the picked category and loads the
// first round.
func (m *Model) startSession(item CategoryItem) {
	mode := game.Solo
	if len(m.players) > 1 {
		mode = game.PassAndPlay
	}
	m.ctrl.StartGame(item.ID, item.Name, mode, m.players, m.timerCfg, item.People)
	m.loadRound()
}

// loadRound selects the next triplet, or ends the session when the
// pool has run dry.
func (m *Model) loadRound() {
	genders, ageRange := m.currentFilters()
	if !m.ctrl.LoadNextRound(genders, ageRange) {
		m.endGame()
		return
	}
	m.screen = ScreenRound
	m.personCursor = 0
	m.remaining = 0
	m.ctrl.StartRoundTimer(
		func(remaining int) { m.notify(TimerTickMsg{Remaining: remaining}) },
		func() { m.notify(TimerExpiredMsg{}) },
	)
}

func (m *Model) assign(p person.Person, a game.Assignment) {
	m.ctrl.SelectPerson(p)
	m.ctrl.AssignPerson(p, a)
	m.personCursor = 0
	if m.ctrl.State().Status == game.StatusReviewing {
		m.ctrl.StopRoundTimer()
		m.screen = ScreenReview
	}
}

// afterRoundSealed routes to the next round or the recap once a round
// has been completed.
func (m *Model) afterRoundSealed() {
	genders, ageRange := m.currentFilters()
	if m.ctrl.CanContinue(genders, ageRange) {
		m.loadRound()
		return
	}
	m.endGame()
}

func (m *Model) endGame() {
	m.saveErr = m.ctrl.EndGame(context.Background())
	m.screen = ScreenRecap
	m.recapViewport.SetContent(game.SummaryText(m.ctrl.State().Session))
	m.recapViewport.GotoTop()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case ScreenCategories:
		body = m.viewCategories()
	case ScreenRound:
		body = m.viewRound()
	case ScreenReview:
		body = m.viewReview()
	case ScreenRecap:
		body = m.viewRecap()
	}
	return body
}

func (m *Model) viewCategories() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("FMK: Pick a category"))
	b.WriteString("\n\n")
	for i, c := range m.categories {
		line := fmt.Sprintf("%s (%d people)", c.Name, c.PeopleCount)
		if i == m.cursor {
			b.WriteString(CursorStyle.Render("> " + line))
		} else {
			b.WriteString(PersonStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if err := m.ctrl.State().Err; err != "" {
		b.WriteString("\n" + ErrorStyle.Render(err) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("↑↓ move • Enter play • q quit"))
	return b.String()
}

func (m *Model) viewRound() string {
	state := m.ctrl.State()
	if state.CurrentRound == nil {
		return "Loading..."
	}

	var b strings.Builder
	title := fmt.Sprintf("Round %d", state.Session.CurrentRoundIndex+1)
	if p, ok := state.Session.CurrentPlayer(); ok {
		title += ": " + p.Name
		b.WriteString(TitleStyle.Render(title))
		b.WriteString("  " + PlayerTurnStyle.Render(fmt.Sprintf("(pass the device to %s)", p.Name)))
	} else {
		b.WriteString(TitleStyle.Render(title))
	}
	if m.remaining > 0 {
		style := TimerStyle
		if m.remaining <= 5 {
			style = TimerLowStyle
		}
		b.WriteString("  " + style.Render(fmt.Sprintf("%ds", m.remaining)))
	}
	b.WriteString("\n\n")

	unassigned := m.ctrl.UnassignedPeople()
	cards := make([]string, 0, len(state.CurrentRound.People))
	for _, p := range state.CurrentRound.People {
		cards = append(cards, m.renderPersonCard(state, p, unassigned))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	b.WriteString("\n")

	remaining := m.ctrl.RemainingAssignments()
	labels := make([]string, len(remaining))
	for i, a := range remaining {
		labels[i] = assignmentStyle(a).Render("[" + string(a) + "]")
	}
	b.WriteString("Remaining: " + strings.Join(labels, " ") + "\n")

	if state.Err != "" {
		b.WriteString(ErrorStyle.Render(state.Err) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("←→ move • f fuck • m marry • x kill • r replace • q end game"))
	return b.String()
}

func (m *Model) renderPersonCard(state game.State, p person.Person, unassigned []person.Person) string {
	var b strings.Builder

	selected := false
	for i, u := range unassigned {
		if u.ID == p.ID && i == m.personCursor {
			selected = true
		}
	}
	name := p.Name
	if selected {
		b.WriteString(CursorStyle.Render("> " + name))
	} else {
		b.WriteString(PersonStyle.Render(name))
	}
	b.WriteString("\n")

	if age, ok := p.Age(time.Now()); ok {
		b.WriteString(HelpStyle.Render(fmt.Sprintf("age %d", age)) + "\n")
	}
	for _, pa := range state.CurrentRound.Assignments {
		if pa.Person.ID == p.ID {
			b.WriteString(assignmentStyle(pa.Assignment).Render(strings.ToUpper(string(pa.Assignment))) + "\n")
		}
	}

	style := PaneStyle
	if selected {
		style = style.BorderForeground(lipgloss.Color("#04B575"))
	}
	return style.Width(24).Render(b.String())
}

func (m *Model) viewReview() string {
	state := m.ctrl.State()
	if state.CurrentRound == nil {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Round complete"))
	b.WriteString("\n\n")
	for _, pa := range state.CurrentRound.Assignments {
		b.WriteString(fmt.Sprintf("  %s %s\n",
			assignmentStyle(pa.Assignment).Render(strings.ToUpper(string(pa.Assignment))+":"),
			pa.Person.Name))
	}
	b.WriteString("\n" + HelpStyle.Render("Enter next round • e end game"))
	return b.String()
}

func (m *Model) viewRecap() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Game over"))
	b.WriteString("\n\n")
	b.WriteString(m.recapViewport.View())
	if m.saveErr != nil {
		b.WriteString("\n" + ErrorStyle.Render("history not saved: "+m.saveErr.Error()))
	}
	b.WriteString("\n" + HelpStyle.Render("↑↓ scroll • q quit"))
	return b.String()
}

// keyAssignment maps an assignment key to its value. x kills, because k
// is taken by list navigation.
func keyAssignment(key string) game.Assignment {
	switch key {
	case "f":
		return game.Fuck
	case "m":
		return game.Marry
	default:
		return game.Kill
	}
}
