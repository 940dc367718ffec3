package commands_test

import (
	"strings"
	"testing"

	"taskdeck/internal/commands"
	"taskdeck/internal/exitcode"
)

func TestExpenseAddAndList(t *testing.T) {
	dir := t.TempDir()

	stdout, stderr, code := runCommandIn(t, dir, &commands.ExpenseCmd{}, nil,
		[]string{"add", "--amount", "250", "--category", "food", "--date", "2024-05-01", "team", "lunch"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr)
	}
	if stdout != "recorded 250.00 (food)\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	stdout, _, code = runCommandIn(t, dir, &commands.ExpenseCmd{}, nil, []string{"list"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "2024-05-01") || !strings.Contains(stdout, "team lunch") {
		t.Errorf("expected recorded expense in listing, got %q", stdout)
	}
}

func TestExpenseListEmpty(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ExpenseCmd{}, nil, []string{"list"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if stdout != "no expenses recorded\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}
}

func TestExpenseListCategoryFilter(t *testing.T) {
	dir := t.TempDir()

	for _, argv := range [][]string{
		{"add", "--amount", "100", "--category", "food", "snacks"},
		{"add", "--amount", "900", "--category", "bills", "electricity"},
	} {
		if _, stderr, code := runCommandIn(t, dir, &commands.ExpenseCmd{}, nil, argv, true); code != exitcode.Success {
			t.Fatalf("seed add failed: %d (%q)", code, stderr)
		}
	}

	stdout, _, code := runCommandIn(t, dir, &commands.ExpenseCmd{}, nil, []string{"list", "--category", "bills"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "electricity") || strings.Contains(stdout, "snacks") {
		t.Errorf("expected only bills listed, got %q", stdout)
	}
}

func TestExpenseAddValidation(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ExpenseCmd{}, nil, []string{"add", "lunch"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error without amount, got %d", code)
	}
	if !strings.Contains(stderr, "positive amount") {
		t.Errorf("unexpected stderr %q", stderr)
	}

	_, stderr, code = runCommand(t, &commands.ExpenseCmd{}, nil,
		[]string{"add", "--amount", "50", "--category", "gadgets", "thing"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error for unknown category, got %d", code)
	}
	if !strings.Contains(stderr, "unknown category") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExpenseRmByRowNumber(t *testing.T) {
	dir := t.TempDir()

	if _, _, code := runCommandIn(t, dir, &commands.ExpenseCmd{}, nil,
		[]string{"add", "--amount", "100", "coffee"}, true); code != exitcode.Success {
		t.Fatal("seed add failed")
	}

	stdout, stderr, code := runCommandIn(t, dir, &commands.ExpenseCmd{}, nil, []string{"rm", "1"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d (stderr %q)", code, stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("unexpected stdout %q", stdout)
	}

	stdout, _, _ = runCommandIn(t, dir, &commands.ExpenseCmd{}, nil, []string{"list"}, false)
	if stdout != "no expenses recorded\n" {
		t.Errorf("expected empty ledger, got %q", stdout)
	}
}

func TestExpenseRmOutOfRange(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ExpenseCmd{}, nil, []string{"rm", "3"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if !strings.Contains(stderr, "out of range") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestExpenseSummary(t *testing.T) {
	dir := t.TempDir()

	for _, argv := range [][]string{
		{"add", "--amount", "100", "--category", "food", "--date", "2020-01-05", "snacks"},
		{"add", "--amount", "900", "--category", "bills", "--date", "2020-01-15", "electricity"},
	} {
		if _, _, code := runCommandIn(t, dir, &commands.ExpenseCmd{}, nil, argv, true); code != exitcode.Success {
			t.Fatal("seed add failed")
		}
	}

	stdout, _, code := runCommandIn(t, dir, &commands.ExpenseCmd{}, nil, []string{"summary"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected success, got %d", code)
	}
	if !strings.Contains(stdout, "total:          1000.00") {
		t.Errorf("expected total, got %q", stdout)
	}
	if !strings.Contains(stdout, "Food & Dining") || !strings.Contains(stdout, "Bills & Utilities") {
		t.Errorf("expected category labels, got %q", stdout)
	}
}

func TestExpenseUnknownSubcommand(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.ExpenseCmd{}, nil, []string{"frobnicate"}, false)
	if code != exitcode.UserError {
		t.Errorf("expected user error, got %d", code)
	}
	if !strings.Contains(stderr, "unknown expense subcommand") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}
