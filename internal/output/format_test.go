package output_test

import (
	"strings"
	"testing"
	"time"

	"taskdeck/internal/expense"
	"taskdeck/internal/output"
	"taskdeck/internal/service"
)

func TestFormatTodoLine(t *testing.T) {
	var b strings.Builder
	due := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	output.FormatTodoLine(&b, 3, service.TodoItem{
		Title:    "buy milk",
		Category: service.CategoryShopping,
		Priority: service.PriorityLow,
		DueDate:  &due,
	})

	got := b.String()
	if !strings.Contains(got, "   3  [ ] buy milk") {
		t.Errorf("unexpected row %q", got)
	}
	if !strings.Contains(got, "(shopping, low, due 2024-06-01)") {
		t.Errorf("expected meta block, got %q", got)
	}
}

func TestFormatTodoLineCompleted(t *testing.T) {
	var b strings.Builder
	output.FormatTodoLine(&b, 1, service.TodoItem{Title: "done", Completed: true,
		Category: service.CategoryWork, Priority: service.PriorityHigh})

	if !strings.Contains(b.String(), "[x]") {
		t.Errorf("expected completed mark, got %q", b.String())
	}
}

func TestFormatTodoLineUntitled(t *testing.T) {
	var b strings.Builder
	output.FormatTodoLine(&b, 1, service.TodoItem{Title: "  \n ",
		Category: service.CategoryOther, Priority: service.PriorityMedium})

	if !strings.Contains(b.String(), "(untitled)") {
		t.Errorf("expected placeholder title, got %q", b.String())
	}
}

func TestFormatTodoLineMultiline(t *testing.T) {
	var b strings.Builder
	output.FormatTodoLine(&b, 1, service.TodoItem{Title: "line one\nline two",
		Category: service.CategoryOther, Priority: service.PriorityMedium})

	got := b.String()
	if strings.Count(got, "\n") != 1 {
		t.Errorf("expected a single output line, got %q", got)
	}
	if !strings.Contains(got, "line one line two") {
		t.Errorf("expected newlines flattened, got %q", got)
	}
}

func TestFormatStats(t *testing.T) {
	var b strings.Builder
	output.FormatStats(&b, service.TodoStats{Total: 4, Completed: 2})

	got := b.String()
	if !strings.Contains(got, "4 total, 2 completed") {
		t.Errorf("expected counts, got %q", got)
	}
	if !strings.Contains(got, "50%") {
		t.Errorf("expected percentage, got %q", got)
	}
	if strings.Count(got, "█") != 10 || strings.Count(got, "░") != 10 {
		t.Errorf("expected half-filled bar, got %q", got)
	}
}

func TestFormatStatsEmpty(t *testing.T) {
	var b strings.Builder
	output.FormatStats(&b, service.TodoStats{})

	got := b.String()
	if !strings.Contains(got, "0 total, 0 completed") || !strings.Contains(got, "0%") {
		t.Errorf("expected zeroed stats, got %q", got)
	}
	if strings.Count(got, "█") != 0 {
		t.Errorf("expected empty bar, got %q", got)
	}
}

func TestFormatExpenseSummaryOmitsZeroCategories(t *testing.T) {
	var b strings.Builder
	output.FormatExpenseSummary(&b, expense.Summary{
		Total:     600,
		ThisMonth: 100,
		ByCategory: map[expense.Category]float64{
			expense.CategoryFood: 600,
		},
	})

	got := b.String()
	if !strings.Contains(got, "Food & Dining") {
		t.Errorf("expected food row, got %q", got)
	}
	if strings.Contains(got, "Transportation") {
		t.Errorf("expected zero categories omitted, got %q", got)
	}
}
