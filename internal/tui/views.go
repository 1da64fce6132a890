package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/instrumenta/internal/domain"
	"github.com/mmcdole/instrumenta/internal/notify"
	"github.com/mmcdole/instrumenta/internal/query"
	"github.com/mmcdole/instrumenta/internal/tui/styles"
)

// chromeHeight is the header, footer and search line.
const chromeHeight = 4

func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render(m.title)
	ref := m.Reference
	counts := fmt.Sprintf("%d familles · %d groupes · %d localités · %d rythmes · %d matériaux",
		len(ref.Families), len(ref.EthnicGroups), len(ref.Localities), len(ref.Rhythms), len(ref.Materials))
	line := title + "  " + styles.DimStyle.Render(counts)
	if ref.IsError {
		line += "  " + styles.ErrorStyle.Render("reference data incomplete")
	}
	return line
}

func (m Model) renderList() string {
	var b strings.Builder

	if m.State == StateSearching || m.SearchInput.Value() != "" {
		b.WriteString(m.SearchInput.View())
		if m.session.IsSearching() {
			b.WriteString(" " + styles.DimStyle.Render("searching..."))
		}
		b.WriteString("\n")
	}

	if len(m.Matches) == 0 {
		if m.Loading {
			b.WriteString(styles.DimStyle.Render("Loading instruments..."))
		} else {
			b.WriteString(styles.DimStyle.Render("No instruments"))
		}
		return b.String()
	}

	visible := max(m.Height-chromeHeight-len(m.Toasts), 1)
	start := 0
	if m.Cursor >= visible {
		start = m.Cursor - visible + 1
	}
	end := min(start+visible, len(m.Matches))
	width := max(m.Width-4, 10)

	for i := start; i < end; i++ {
		match := m.Matches[i]
		name := styles.Truncate(match.Instrument.Name, width)
		indexes := match.MatchedIndexes
		if name != match.Instrument.Name {
			indexes = nil
		}
		b.WriteString(styles.Highlight(name, indexes, i == m.Cursor))
		if year := match.Instrument.CreationYear; year != nil {
			b.WriteString(styles.DimStyle.Render(fmt.Sprintf(" (%d)", *year)))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) renderDetail() string {
	if m.Detail == nil {
		return styles.DimStyle.Render("Loading details...")
	}
	d := m.Detail
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render(d.Instrument.Name))
	if d.Instrument.CreationYear != nil {
		b.WriteString(styles.SubtitleStyle.Render(fmt.Sprintf("  %d", *d.Instrument.CreationYear)))
	}
	b.WriteString("\n")
	if d.Instrument.Description != "" {
		b.WriteString(lipgloss.NewStyle().Width(max(m.Width-4, 20)).Render(d.Instrument.Description))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	r := d.Relations
	section := func(label string, names []string) {
		if len(names) == 0 {
			return
		}
		b.WriteString(styles.AccentStyle.Render(label) + "  " + strings.Join(names, ", ") + "\n")
	}
	section("Famille", names(r.Families, func(f domain.Family) string { return string(f.Name) }))
	section("Groupes ethniques", names(r.EthnicGroups, func(g domain.EthnicGroup) string { return g.Name }))
	section("Localités", names(r.Localities, func(l domain.Locality) string { return l.Name }))
	section("Rythmes", names(r.Rhythms, func(x domain.Rhythm) string { return x.Name }))
	section("Matériaux", names(r.Materials, func(x domain.Material) string { return x.Name }))
	section("Techniques", names(r.Techniques, func(x domain.Technique) string { return x.Name }))
	section("Artisans", names(r.Artisans, func(x domain.Artisan) string { return x.Name }))
	section("Timbres", names(r.Timbres, func(x domain.Timbre) string { return x.Description }))
	section("Patrimoine", names(r.Heritages, func(x domain.Heritage) string { return x.Name }))
	if r.Count() == 0 {
		b.WriteString(styles.DimStyle.Render("No relations"))
	}
	return strings.TrimRight(b.String(), "\n")
}

func names[T any](items []T, name func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, name(it))
	}
	return out
}

func (m Model) renderInspector() string {
	if m.cache == nil {
		return ""
	}
	now := m.now()
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Query cache") + "\n")
	for _, snap := range m.cache.Inspect() {
		b.WriteString(formatSnapshot(snap, now) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSnapshot(snap query.Snapshot, now time.Time) string {
	st := snap.State
	status := st.Status.String()
	switch st.Status {
	case query.StatusSuccess:
		status = styles.SuccessStyle.Render(status)
	case query.StatusError:
		status = styles.ErrorStyle.Render(status)
	case query.StatusLoading:
		status = styles.InfoStyle.Render(status)
	}

	flags := []string{}
	if st.IsFetching {
		flags = append(flags, "fetching")
	}
	if st.IsStale {
		flags = append(flags, "stale")
	}
	if st.FailureCount > 0 {
		flags = append(flags, fmt.Sprintf("failures=%d", st.FailureCount))
	}
	age := "-"
	if st.HasData() {
		age = now.Sub(st.UpdatedAt).Truncate(time.Second).String()
	}
	return fmt.Sprintf("%-48s %s %s %s", snap.Key, status, styles.DimStyle.Render(age), styles.DimStyle.Render(strings.Join(flags, " ")))
}

func (m Model) renderConfirm() string {
	name := ""
	if m.Detail != nil {
		name = m.Detail.Instrument.Name
	} else if it, ok := m.Selected(); ok {
		name = it.Name
	}
	return styles.ActiveBorder.Padding(0, 1).Render(
		fmt.Sprintf("Delete %s? %s", styles.TitleStyle.Render(name), styles.DimStyle.Render("(y/n)")))
}

func (m Model) renderToasts() string {
	if len(m.Toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(m.Toasts))
	for _, t := range m.Toasts {
		style := styles.ToastStyle.BorderForeground(styles.Green)
		if t.Kind == notify.KindError {
			style = styles.ToastStyle.BorderForeground(styles.Red)
		}
		lines = append(lines, style.Render(t.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) renderFooter() string {
	var parts []string
	switch m.State {
	case StateBrowsing, StateSearching:
		pages := max(m.paginator.TotalPages(), 1)
		parts = append(parts, styles.DimBadgeStyle.Render(fmt.Sprintf("page %d/%d", m.paginator.Page(), pages)))
		parts = append(parts, styles.DimStyle.Render(fmt.Sprintf("%d total", m.paginator.Total())))
		if m.prefs.Family != "" {
			parts = append(parts, styles.BadgeStyle.Render(m.prefs.Family))
		}
		parts = append(parts, help(Keys.Search.Help().Key, "search"), help("f", "family"), help("h/l", "page"), help("enter", "details"), help("x", "delete"))
		if m.devTools {
			parts = append(parts, help("i", "cache"))
		}
		parts = append(parts, help("q", "quit"))
	case StateDetail:
		parts = append(parts, help("esc", "back"), help("x", "delete"))
	default:
		parts = append(parts, help("esc", "back"))
	}
	if m.StatusMsg != "" {
		style := styles.DimStyle
		if m.StatusIsErr {
			style = styles.ErrorStyle
		}
		parts = append(parts, style.Render(m.StatusMsg))
	}
	return strings.Join(parts, "  ")
}

func help(k, desc string) string {
	return styles.HelpKeyStyle.Render(k) + " " + styles.HelpDescStyle.Render(desc)
}
