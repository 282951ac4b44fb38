package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/resource"
	"github.com/rileyhilliard/infradash/internal/status"
	"github.com/rileyhilliard/infradash/internal/util"
)

const cardWidth = 30

// renderOverview renders one card per family in a grid.
func (m Model) renderOverview(st dashboard.ViewState) string {
	var cards []string
	for _, f := range resource.Families() {
		cards = append(cards, renderFamilyCard(st.Overview.Get(f), st.Snapshots))
	}

	summaryLine := LabelStyle.Render(fmt.Sprintf("%d of %d families healthy", st.Overview.HealthyCount(), len(resource.Families())))
	return summaryLine + "\n\n" + m.layoutCards(cards)
}

// renderFamilyCard renders the health, count and a one-line fact for a family.
func renderFamilyCard(sum status.FamilySummary, s resource.Snapshots) string {
	style := CardStyle.Width(cardWidth).BorderForeground(HealthColor(sum.Health))

	title := TitleStyle.Render(sum.Family.Title()) + MutedStyle.Render(" "+sum.Family.Service())
	lines := []string{
		title,
		HealthBadge(sum.Health),
		LabelStyle.Render(countLabel(sum)) + ValueStyle.Render(fmt.Sprintf("%d", sum.Count)),
	}
	if fact := status.Describe(sum.Family, s); fact != "" {
		lines = append(lines, MutedStyle.Render(util.Truncate(fact, cardWidth-2)))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func countLabel(sum status.FamilySummary) string {
	switch sum.Family {
	case resource.FamilyCompute:
		return "instances  "
	case resource.FamilyLoadBalancer:
		return "healthy tgt "
	case resource.FamilyNetwork:
		return "subnets    "
	}
	return "resources  "
}

// layoutCards arranges cards in rows based on terminal width.
func (m Model) layoutCards(cards []string) string {
	if len(cards) == 0 {
		return ""
	}

	cardsPerRow := 1
	if m.width > 0 {
		effective := cardWidth + 3
		cardsPerRow = m.width / effective
		if cardsPerRow < 1 {
			cardsPerRow = 1
		}
	}

	var rows []string
	for i := 0; i < len(cards); i += cardsPerRow {
		end := i + cardsPerRow
		if end > len(cards) {
			end = len(cards)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
