// Package expense is the local expense ledger. Expenses never touch the
// remote API; they live entirely in the local store, the way the suite
// kept them in browser storage.
package expense

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskdeck/internal/session"
)

// Category classifies an expense.
type Category string

// The fixed category set.
const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryShopping      Category = "shopping"
	CategoryBills         Category = "bills"
	CategoryHealth        Category = "health"
	CategoryOther         Category = "other"
)

// Categories lists all categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFood, CategoryTransport, CategoryEntertainment,
		CategoryShopping, CategoryBills, CategoryHealth, CategoryOther,
	}
}

// Labels for display.
var labels = map[Category]string{
	CategoryFood:          "Food & Dining",
	CategoryTransport:     "Transportation",
	CategoryEntertainment: "Entertainment",
	CategoryShopping:      "Shopping",
	CategoryBills:         "Bills & Utilities",
	CategoryHealth:        "Health & Medical",
	CategoryOther:         "Other",
}

// Label returns the display label for c.
func (c Category) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Expense is one recorded expense.
type Expense struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    Category  `json:"category"`
	Date        string    `json:"date"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"createdAt"`
}

var (
	// ErrInvalidExpense blocks adding an expense without description or a
	// positive amount.
	ErrInvalidExpense = errors.New("description and a positive amount are required")

	// ErrNotFound is returned when deleting an unknown expense.
	ErrNotFound = errors.New("expense not found")
)

// The ledger never expires; the TTL just has to outlive any session.
const ledgerTTL = 100 * 365 * 24 * time.Hour

// Ledger reads and writes the expense list through the local store.
type Ledger struct {
	store session.Store
	now   func() time.Time
}

// NewLedger creates a ledger backed by store.
func NewLedger(store session.Store) *Ledger {
	return &Ledger{store: store, now: time.Now}
}

func (l *Ledger) load() []Expense {
	var expenses []Expense
	l.store.Read(session.ExpensesKey, &expenses)
	return expenses
}

func (l *Ledger) save(expenses []Expense) error {
	return l.store.Write(session.ExpensesKey, expenses, ledgerTTL)
}

// Add records a new expense and returns it. Date defaults to today,
// category to "other".
func (l *Ledger) Add(description string, amount float64, category Category, date string) (Expense, error) {
	if strings.TrimSpace(description) == "" || amount <= 0 {
		return Expense{}, ErrInvalidExpense
	}
	if category == "" {
		category = CategoryOther
	}
	if !category.Valid() {
		return Expense{}, errors.New("unknown category: " + string(category))
	}
	if date == "" {
		date = l.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return Expense{}, errors.New("date must be YYYY-MM-DD")
	}

	exp := Expense{
		ID:          uuid.NewString(),
		Description: strings.TrimSpace(description),
		Amount:      amount,
		Category:    category,
		Date:        date,
		CreatedAt:   l.now(),
	}

	expenses := append([]Expense{exp}, l.load()...)
	if err := l.save(expenses); err != nil {
		return Expense{}, err
	}
	return exp, nil
}

// List returns expenses, newest first, optionally filtered by category.
func (l *Ledger) List(category Category) []Expense {
	expenses := l.load()
	if category != "" {
		filtered := expenses[:0]
		for _, e := range expenses {
			if e.Category == category {
				filtered = append(filtered, e)
			}
		}
		expenses = filtered
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CreatedAt.After(expenses[j].CreatedAt)
	})
	return expenses
}

// Delete removes an expense by ID.
func (l *Ledger) Delete(id string) error {
	expenses := l.load()
	for i, e := range expenses {
		if e.ID == id {
			expenses = append(expenses[:i], expenses[i+1:]...)
			return l.save(expenses)
		}
	}
	return ErrNotFound
}

// Summary aggregates the ledger.
type Summary struct {
	Total      float64
	ThisMonth  float64
	ByCategory map[Category]float64
}

// Summarize computes overall, current-month and per-category totals.
func (l *Ledger) Summarize() Summary {
	now := l.now()
	monthPrefix := now.Format("2006-01")

	s := Summary{ByCategory: make(map[Category]float64)}
	for _, e := range l.load() {
		s.Total += e.Amount
		s.ByCategory[e.Category] += e.Amount
		if strings.HasPrefix(e.Date, monthPrefix) {
			s.ThisMonth += e.Amount
		}
	}
	return s
}
