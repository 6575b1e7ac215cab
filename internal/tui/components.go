package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/andst/staffboard/internal/model"
	"github.com/andst/staffboard/internal/output"
	"github.com/andst/staffboard/internal/stats"
)

// boxWidth leaves room for the border and padding.
func boxWidth(width int) int {
	return max(width-4, 20)
}

// ProgressComponent shows monthly progress toward the target.
type ProgressComponent struct {
	Progress stats.Progress
	Width    int
}

// View renders the progress component.
func (pc ProgressComponent) View() string {
	p := pc.Progress
	var content strings.Builder

	content.WriteString(StyleTitle.Render(fmt.Sprintf("%s progress, %s", p.Category, p.Month)))
	content.WriteString("\n")

	if p.Target <= 0 {
		content.WriteString(fmt.Sprintf("Total %s\n", StyleCount.Render(output.FormatCount(p.Total))))
		content.WriteString(StyleMuted.Render("No target set. Use 'staffboard target set'."))
		return StyleBox.Width(boxWidth(pc.Width)).Render(content.String())
	}

	content.WriteString(ColoredBar(p.Rate, max(pc.Width-20, 10), CategoryColor(p.Category)))
	content.WriteString("  " + output.FormatRate(p.Rate) + "\n")
	text := fmt.Sprintf("%s / %s", output.FormatCount(p.Total), output.FormatCount(p.Target))
	if p.Complete {
		content.WriteString(StyleSuccess.Render(text + "  ✓ target reached"))
		return StyleCompleteBox.Width(boxWidth(pc.Width)).Render(content.String())
	}
	content.WriteString(StyleSubtitle.Render(fmt.Sprintf("%s  (%s to go)", text, output.FormatCount(p.Remaining))))
	return StyleBox.Width(boxWidth(pc.Width)).Render(content.String())
}

// WeeklyComponent shows the totals of each ISO week in the month.
type WeeklyComponent struct {
	Weeks    []stats.WeekTotal
	Category model.Category
	Width    int
}

// View renders the weekly component.
func (wc WeeklyComponent) View() string {
	var content strings.Builder
	content.WriteString(StyleTitle.Render("Weekly totals"))
	content.WriteString("\n")

	if len(wc.Weeks) == 0 {
		content.WriteString(StyleMuted.Render("No records this month"))
		return StyleBox.Width(boxWidth(wc.Width)).Render(content.String())
	}

	peak := 0
	for _, w := range wc.Weeks {
		peak = max(peak, w.Total)
	}
	barWidth := max(wc.Width/2-16, 8)
	for i, w := range wc.Weeks {
		if i > 0 {
			content.WriteString("\n")
		}
		pct := 0.0
		if peak > 0 {
			pct = float64(w.Total) * 100 / float64(peak)
		}
		content.WriteString(fmt.Sprintf("%-4s %s %s", w.Label, ColoredBar(pct, barWidth, CategoryColor(wc.Category)), StyleCount.Render(output.FormatCount(w.Total))))
	}
	return StyleBox.Width(boxWidth(wc.Width)).Render(content.String())
}

// StaffComponent shows the top of the staff ranking.
type StaffComponent struct {
	Totals []stats.StaffTotal
	Width  int
	Limit  int
}

// View renders the staff ranking.
func (sc StaffComponent) View() string {
	var content strings.Builder
	content.WriteString(StyleTitle.Render("Staff ranking"))
	content.WriteString("\n")

	totals := sc.Totals
	if sc.Limit > 0 && len(totals) > sc.Limit {
		totals = totals[:sc.Limit]
	}
	if len(totals) == 0 {
		content.WriteString(StyleMuted.Render("No records this month"))
	}

	nameWidth := 0
	for _, t := range totals {
		nameWidth = max(nameWidth, lipgloss.Width(t.Name))
	}
	for i, t := range totals {
		if i > 0 {
			content.WriteString("\n")
		}
		name := t.Name + strings.Repeat(" ", nameWidth-lipgloss.Width(t.Name))
		content.WriteString(fmt.Sprintf("%2d. %s  %s", t.Rank, StyleName.Render(name), StyleCount.Render(output.FormatCount(t.Total))))
	}
	return StyleBox.Width(boxWidth(sc.Width)).Render(content.String())
}

// CompositionComponent shows the app breakdown by type.
type CompositionComponent struct {
	Composition stats.Composition
	Width       int
}

// View renders the composition.
func (cc CompositionComponent) View() string {
	c := cc.Composition
	var content strings.Builder
	content.WriteString(StyleTitle.Render("Composition"))
	content.WriteString("\n")

	if c.Total() == 0 {
		content.WriteString(StyleMuted.Render("No app records this month"))
		return StyleBox.Width(boxWidth(cc.Width)).Render(content.String())
	}
	for i, part := range []struct {
		typ model.ActivityType
		n   int
	}{{model.TypeNew, c.New}, {model.TypeExist, c.Exist}, {model.TypeLine, c.Line}} {
		if i > 0 {
			content.WriteString("\n")
		}
		share := c.Share(part.typ)
		content.WriteString(fmt.Sprintf("%-6s %s %6s %s", part.typ, ProgressBar(share, 16), output.FormatRate(share), StyleCount.Render(output.FormatCount(part.n))))
	}
	return StyleBox.Width(boxWidth(cc.Width)).Render(content.String())
}

// Tabs renders the category tabs with active highlighted.
func Tabs(active model.Category) string {
	var tabs []string
	for _, c := range model.Categories {
		style := StyleTab
		if c == active {
			style = StyleActiveTab.Foreground(CategoryColor(c))
		}
		tabs = append(tabs, style.Render(string(c)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"tab", "category"},
		{"←/→", "month"},
		{"r", "reload"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, StyleHelpKey.Render(k.key)+" "+StyleHelpDesc.Render(k.desc))
	}
	return StyleHelp.Render(strings.Join(parts, "  •  "))
}
