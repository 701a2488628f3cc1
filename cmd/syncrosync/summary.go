package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/msptools/syncrosync/internal/reconcile"
)

var (
	createdStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	})
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	})
	failedStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	})
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// printSummary renders the run tally. In dry-run mode only the missing
// counts mean anything, so the created/skipped/failed columns are
// replaced with the would-create counts.
func printSummary(res reconcile.Result, dryRun bool) {
	if quietFlag {
		return
	}

	if dryRun {
		fmt.Println(headerStyle.Render("Dry run; nothing written."))
		fmt.Printf("  customers missing: %d\n", res.CustomersMissing)
		fmt.Printf("  tickets missing:   %d\n", res.TicketsMissing)
		return
	}

	fmt.Println(headerStyle.Render("Run complete."))
	printLine("customers", res.CustomersCreated, res.CustomersSkipped, res.CustomersFailed)
	printLine("tickets", res.TicketsCreated, res.TicketsSkipped, res.TicketsFailed)
	printLine("comments", res.CommentsCreated, res.CommentsSkipped, res.CommentsFailed)
}

func printLine(kind string, created, skipped, failed int) {
	line := fmt.Sprintf("  %-10s %s", kind, createdStyle.Render(fmt.Sprintf("%d created", created)))
	if skipped > 0 {
		line += skippedStyle.Render(fmt.Sprintf(", %d skipped", skipped))
	}
	if failed > 0 {
		line += failedStyle.Render(fmt.Sprintf(", %d failed", failed))
	}
	fmt.Println(line)
}
