package tui

import "github.com/charmbracelet/lipgloss"

const helpText = "↑/↓ select • / filter • r refresh • q quit"

// View renders the current view (Bubble Tea interface).
func (m DashboardModel) View() string {
	switch m.state {
	case ViewStateQuitting:
		return ""
	case ViewStateLoading:
		return m.spinner.View() + " Loading life expectancy data..."
	default:
		return m.renderReadyView()
	}
}

func (m DashboardModel) renderReadyView() string {
	banner := RenderStatusBanner(m.result.Status, true)
	help := SubtleStyle.Render(helpText)

	if m.SelectionDisabled() {
		guidance := BoxStyle.Width(max(m.width-borderPadding*2, minChartWidth)).Render(EmptyGuidance(m.result.Status))
		return lipgloss.JoinVertical(lipgloss.Left, banner, "", guidance, "", help)
	}

	series := m.result.Dataset.ForCountry(m.selected)
	chartW := max(m.width-listWidth-sidePanelW-borderPadding*3, minChartWidth)

	chart := BoxStyle.Render(RenderChart(series, chartW, chartHeight))
	detail := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, m.renderSidePanel(), " ", chart),
		ValueStyle.Render(InsightLine(series)),
	)
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.list.View(), " ", detail)

	return lipgloss.JoinVertical(lipgloss.Left, banner, "", body, "", help)
}

func (m DashboardModel) renderSidePanel() string {
	if m.selected == "" {
		return BoxStyle.Width(sidePanelW - borderPadding).Render(SubtleStyle.Render("Select a country"))
	}
	if m.infoLoading {
		return BoxStyle.Width(sidePanelW - borderPadding).Render(
			HeaderStyle.Render(m.selected) + "\n" + SubtleStyle.Render("Loading country info..."))
	}
	return renderInfoPanel(m.selected, m.info)
}
