// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/expense"
	"taskdeck/internal/service"
)

// FormatTodoLine formats one todo row.
// Format: "{N:>4}  [{x| }] {TITLE}  ({category}, {priority}[, due DATE])"
func FormatTodoLine(w io.Writer, num int, item service.TodoItem) {
	mark := " "
	title := normalizeTitle(item.Title)
	if item.Completed {
		mark = "x"
		title = doneStyle.Render(title)
	}

	meta := string(item.Category) + ", " + priorityStyles[string(item.Priority)].Render(string(item.Priority))
	if item.DueDate != nil {
		meta += ", due " + item.DueDate.Format("2006-01-02")
	}

	fmt.Fprintf(w, "%4d  [%s] %s  %s\n", num, mark, title, mutedStyle.Render("("+meta+")"))
}

// FormatTodoID prints the row number to server-ID mapping used by show/edit.
func FormatTodoID(w io.Writer, num int, item service.TodoItem) {
	fmt.Fprintf(w, "%4d  %s\n", num, item.ID)
}

// FormatTodoDetail formats the full record of a single todo.
func FormatTodoDetail(w io.Writer, item service.TodoItem) {
	fmt.Fprintln(w, headerStyle.Render(normalizeTitle(item.Title)))
	if item.Description != "" {
		fmt.Fprintln(w, item.Description)
	}
	status := "pending"
	if item.Completed {
		status = "completed"
	}
	fmt.Fprintf(w, "id:        %s\n", item.ID)
	fmt.Fprintf(w, "status:    %s\n", status)
	fmt.Fprintf(w, "category:  %s\n", item.Category)
	fmt.Fprintf(w, "priority:  %s\n", priorityStyles[string(item.Priority)].Render(string(item.Priority)))
	if item.DueDate != nil {
		fmt.Fprintf(w, "due:       %s\n", item.DueDate.Format("2006-01-02"))
	}
	if !item.CreatedAt.IsZero() {
		fmt.Fprintf(w, "created:   %s\n", item.CreatedAt.Format("2006-01-02 15:04"))
	}
}

// FormatPageFooter prints the pagination line under a listing.
func FormatPageFooter(w io.Writer, page, totalPages, total int) {
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("page %d of %d (%d items)", page, totalPages, total)))
}

// barWidth is the character width of the stats progress bar.
const barWidth = 20

// FormatStats renders the aggregate counts with a completion bar.
func FormatStats(w io.Writer, stats service.TodoStats) {
	pct := stats.CompletionPercent()
	filled := barWidth * pct / 100

	bar := barFilledStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))

	fmt.Fprintf(w, "%d total, %d completed\n", stats.Total, stats.Completed)
	fmt.Fprintf(w, "%s %d%%\n", bar, pct)
}

// FormatSession prints the identity block for whoami.
func FormatSession(w io.Writer, sess service.UserSession) {
	fmt.Fprintln(w, headerStyle.Render(sess.Name))
	fmt.Fprintf(w, "email:   %s\n", sess.Email)
	if sess.City != "" {
		fmt.Fprintf(w, "city:    %s\n", sess.City)
	}
	if sess.Mobile != "" {
		fmt.Fprintf(w, "mobile:  %s\n", sess.Mobile)
	}
	if sess.Role != "" {
		fmt.Fprintf(w, "role:    %s\n", sess.Role)
	}
	if !sess.JoinDate.IsZero() {
		fmt.Fprintf(w, "joined:  %s\n", sess.JoinDate.Format("2006-01-02"))
	}
}

// FormatExpenseLine formats one expense row.
// Format: "{N:>4}  {DATE}  {AMOUNT:>10}  {CATEGORY:<13}  {DESCRIPTION}"
func FormatExpenseLine(w io.Writer, num int, e expense.Expense) {
	fmt.Fprintf(w, "%4d  %s  %10.2f  %-13s  %s\n", num, e.Date, e.Amount, e.Category, e.Description)
}

// FormatExpenseSummary renders ledger totals, categories in fixed order,
// zero-total categories omitted.
func FormatExpenseSummary(w io.Writer, s expense.Summary) {
	fmt.Fprintf(w, "total:       %10.2f\n", s.Total)
	fmt.Fprintf(w, "this month:  %10.2f\n", s.ThisMonth)
	for _, c := range expense.Categories() {
		if amt := s.ByCategory[c]; amt != 0 {
			fmt.Fprintf(w, "  %-18s %10.2f\n", c.Label(), amt)
		}
	}
}

// normalizeTitle normalizes a title for single-line display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
