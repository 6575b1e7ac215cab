package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/stats"
	"github.com/andst/staffboard/internal/storage"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// loadedMsg carries a fresh snapshot for month.
type loadedMsg struct {
	month   string
	records []model.Record
	targets map[model.Category]int
	err     error
}

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	ctx   context.Context
	cache *storage.Cache
	now   func() time.Time

	// Data
	records []model.Record
	targets map[model.Category]int

	// Selection
	category model.Category
	month    time.Time // first day of the selected month

	// UI state
	width      int
	height     int
	loading    bool
	err        error
	message    string
	messageExp time.Time

	// Configuration
	refreshInterval time.Duration
	staffLimit      int
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Cache *storage.Cache
	// Context bounds every load. Nil uses context.Background.
	Context context.Context
	// Now is the clock. Nil uses time.Now.
	Now             func() time.Time
	RefreshInterval time.Duration
	StaffLimit      int
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.StaffLimit == 0 {
		config.StaffLimit = 10
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	if config.Context == nil {
		config.Context = context.Background()
	}

	now := config.Now()
	return &DashboardModel{
		ctx:             config.Context,
		cache:           config.Cache,
		now:             config.Now,
		category:        model.CategoryApp,
		month:           time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		targets:         make(map[model.Category]int),
		refreshInterval: config.RefreshInterval,
		staffLimit:      config.StaffLimit,
	}
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.loadCmd(),
	)
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		if !m.messageExp.IsZero() && time.Time(msg).After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		return m, m.tickCmd()

	case loadedMsg:
		// A slower load for a month no longer selected is dropped.
		if msg.month != m.monthLabel() {
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.records = msg.records
			m.targets = msg.targets
		}
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit

	case "tab", "shift+tab":
		if m.category == model.CategoryApp {
			m.category = model.CategorySurvey
		} else {
			m.category = model.CategoryApp
		}
		return m, nil

	case "left", "h":
		m.month = m.month.AddDate(0, -1, 0)
		return m, m.loadCmd()

	case "right", "l":
		m.month = m.month.AddDate(0, 1, 0)
		return m, m.loadCmd()

	case "r":
		m.cache.Invalidate()
		m.setMessage("Reloaded", time.Second)
		return m, m.loadCmd()
	}

	return m, nil
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	month := m.monthLabel()
	sections := []string{m.renderHeader(), Tabs(m.category)}

	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	progress := stats.Summary(m.records, month, m.category, m.targets[m.category])
	sections = append(sections, ProgressComponent{Progress: progress, Width: m.width}.View())

	f := stats.ForMonth(month, m.category)
	half := m.width / 2
	weekly := WeeklyComponent{Weeks: stats.SortedWeeklyTotals(m.records, f), Category: m.category, Width: half}.View()
	staff := StaffComponent{Totals: stats.StaffTotals(m.records, f), Width: half, Limit: m.staffLimit}.View()
	sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, weekly, staff))

	if m.category == model.CategoryApp {
		sections = append(sections, CompositionComponent{Composition: stats.CompositionTotals(m.records, f), Width: m.width}.View())
	}

	sections = append(sections, HelpBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("staffboard")
	sub := m.monthLabel()
	if m.loading {
		sub += "  loading..."
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", StyleSubtitle.Render(sub))
}

func (m *DashboardModel) monthLabel() string {
	return m.month.Format(model.MonthLayout)
}

// loadCmd reads records and both targets of the selected month.
func (m *DashboardModel) loadCmd() tea.Cmd {
	m.loading = true
	month := m.monthLabel()
	ctx, cache := m.ctx, m.cache
	return func() tea.Msg {
		msg := loadedMsg{month: month, targets: make(map[model.Category]int)}
		msg.records, msg.err = cache.Records(ctx)
		if msg.err != nil {
			return msg
		}
		for _, c := range model.Categories {
			target, err := cache.GetTarget(ctx, month, string(c))
			if err != nil {
				msg.err = err
				return msg
			}
			msg.targets[c] = target
		}
		return msg
	}
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = m.now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the dashboard TUI.
func Run(config DashboardConfig) error {
	m := NewDashboardModel(config)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	return err
}
