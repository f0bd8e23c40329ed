package schema

import (
	"errors"
	"strings"
	"sync"
	"testing"
)

func TestPlanColumnsPreservesCaseAndOrder(t *testing.T) {
	columns, err := PlanColumns([]string{"Name", "Age"})
	if err != nil {
		t.Fatalf("plan returned error: %v", err)
	}
	if len(columns) != 2 || columns[0] != "Name" || columns[1] != "Age" {
		t.Fatalf("unexpected columns: %v", columns)
	}
}

func TestPlanColumnsSanitizesUnsafeCharacters(t *testing.T) {
	columns, err := PlanColumns([]string{"O'Brien", "unit price ($)", `quo"ted`})
	if err != nil {
		t.Fatalf("plan returned error: %v", err)
	}
	want := []string{"O_Brien", "unit_price", "quo_ted"}
	for i, col := range columns {
		if col != want[i] {
			t.Fatalf("column %d: expected %q, got %q", i, want[i], col)
		}
		if err := ValidateIdentifier(col); err != nil {
			t.Fatalf("sanitized column %q failed validation: %v", col, err)
		}
	}
}

func TestPlanColumnsBlankHeader(t *testing.T) {
	columns, err := PlanColumns([]string{"a", "", "   "})
	if err != nil {
		t.Fatalf("plan returned error: %v", err)
	}
	if columns[1] != "column_2" || columns[2] != "column_3" {
		t.Fatalf("unexpected placeholder columns: %v", columns)
	}
}

func TestPlanColumnsSuffixesReservedID(t *testing.T) {
	columns, err := PlanColumns([]string{"id", "Name"})
	if err != nil {
		t.Fatalf("plan returned error: %v", err)
	}
	if columns[0] != "id_1" {
		t.Fatalf("expected reserved id header to become id_1, got %q", columns[0])
	}
}

func TestPlanColumnsDuplicateFails(t *testing.T) {
	_, err := PlanColumns([]string{"a b", "a-b"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if conflict.Column != "a_b" {
		t.Fatalf("unexpected conflicting column: %q", conflict.Column)
	}
}

func TestPlanColumnsReservedSuffixCollisionFails(t *testing.T) {
	_, err := PlanColumns([]string{"id", "id_1"})
	var conflict *ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
}

func TestNewTableNameIsValidIdentifier(t *testing.T) {
	name := NewTableName()
	if !strings.HasPrefix(name, "upload_") {
		t.Fatalf("unexpected table name prefix: %q", name)
	}
	if err := ValidateIdentifier(name); err != nil {
		t.Fatalf("generated name %q failed validation: %v", name, err)
	}
}

func TestNewTableNameUniqueUnderConcurrency(t *testing.T) {
	const workers = 50
	const perWorker = 20

	var mu sync.Mutex
	seen := make(map[string]struct{}, workers*perWorker)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				name := NewTableName()
				mu.Lock()
				if _, dup := seen[name]; dup {
					mu.Unlock()
					t.Errorf("duplicate table name generated: %s", name)
					return
				}
				seen[name] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Fatalf("expected %d distinct names, got %d", workers*perWorker, len(seen))
	}
}

func TestQuoteIdentifier(t *testing.T) {
	if got := QuoteIdentifier("users"); got != `"users"` {
		t.Fatalf("unexpected quoting: %s", got)
	}
	if got := QuoteIdentifier(`my"table`); got != `"my""table"` {
		t.Fatalf("embedded quotes must be doubled, got %s", got)
	}
}

func TestValidateIdentifier(t *testing.T) {
	valid := []string{"users", "Name", "column_2", "123abc", strings.Repeat("a", 63)}
	for _, name := range valid {
		if err := ValidateIdentifier(name); err != nil {
			t.Fatalf("expected %q to be valid: %v", name, err)
		}
	}

	invalid := []string{"", "my table", "my-table", "a.b", "foo;bar", `foo"bar`, strings.Repeat("a", 64)}
	for _, name := range invalid {
		if err := ValidateIdentifier(name); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}
