package commands

import (
	"context"
	"errors"
	"testing"

	"taskdeck/internal/service"
	"taskdeck/internal/testutil"
	"taskdeck/internal/todo"
)

func TestIsAllDigits(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", true},
		{"42", true},
		{"", false},
		{"1a", false},
		{"-1", false},
		{"64fe01", false},
	}
	for _, tt := range tests {
		if got := isAllDigits(tt.in); got != tt.want {
			t.Errorf("isAllDigits(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveTodoRefByID(t *testing.T) {
	svc := testutil.NewFakeService()
	id := svc.AddTodo("by id", service.CategoryWork, service.PriorityLow, false)
	mgr := todo.NewManager(svc)

	item, err := resolveTodoRef(context.Background(), mgr, id)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if item.Title != "by id" {
		t.Errorf("unexpected item %+v", item)
	}
}

func TestResolveTodoRefByRowNumber(t *testing.T) {
	svc := testutil.NewFakeService()
	for i := 0; i < 12; i++ {
		svc.AddTodo("item", service.CategoryWork, service.PriorityLow, false)
	}
	mgr := todo.NewManager(svc)

	// Row 11 sits on page 2 at the default limit of 10.
	item, err := resolveTodoRef(context.Background(), mgr, "11")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if item.ID == "" {
		t.Errorf("expected resolved item, got %+v", item)
	}
	if got := mgr.Query().Page; got != 2 {
		t.Errorf("expected manager moved to page 2, got %d", got)
	}
}

func TestResolveTodoRefOutOfRange(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTodo("only", service.CategoryWork, service.PriorityLow, false)
	mgr := todo.NewManager(svc)

	_, err := resolveTodoRef(context.Background(), mgr, "7")
	if !errors.Is(err, errRefOutOfRange) {
		t.Errorf("expected errRefOutOfRange, got %v", err)
	}
}

func TestResolveTodoRefUnderFilter(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTodo("pending one", service.CategoryWork, service.PriorityLow, false)
	svc.AddTodo("done one", service.CategoryWork, service.PriorityLow, true)
	mgr := todo.NewManager(svc)
	mgr.SetStatus(service.StatusCompleted)

	// Under the completed filter, row 1 is the completed item.
	item, err := resolveTodoRef(context.Background(), mgr, "1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if item.Title != "done one" {
		t.Errorf("expected filtered row 1, got %+v", item)
	}
}

func TestParseDue(t *testing.T) {
	d, err := parseDue("2024-06-01")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d == nil || d.Format("2006-01-02") != "2024-06-01" {
		t.Errorf("unexpected date %v", d)
	}

	if d, err := parseDue(""); err != nil || d != nil {
		t.Errorf("expected empty input to yield nil, got %v %v", d, err)
	}

	if _, err := parseDue("01/06/2024"); err == nil {
		t.Error("expected error for malformed date")
	}
}
