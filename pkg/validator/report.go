// pkg/validator/report.go
package validator

import (
	"fmt"
	"strings"
	"time"
)

// Report is the structured result of one validation pass: per-class counts
// and row-level detail, plus per-table row totals.
type Report struct {
	GeneratedAt time.Time
	byClass     map[Class][]Violation
	totals      map[string]int
	tableOrder  []string
}

// NewReport creates an empty report stamped with the current time.
func NewReport() *Report {
	return &Report{
		GeneratedAt: time.Now(),
		byClass:     make(map[Class][]Violation),
		totals:      make(map[string]int),
	}
}

// SetTotal records the row count of a table.
func (r *Report) SetTotal(table string, rows int) {
	if _, seen := r.totals[table]; !seen {
		r.tableOrder = append(r.tableOrder, table)
	}
	r.totals[table] = rows
}

// Add appends one violation.
func (r *Report) Add(v Violation) {
	r.byClass[v.Class] = append(r.byClass[v.Class], v)
}

// Count returns the number of violations in a class.
func (r *Report) Count(class Class) int {
	return len(r.byClass[class])
}

// Violations returns the violations of a class in detection order.
func (r *Report) Violations(class Class) []Violation {
	return r.byClass[class]
}

// TotalViolations returns the count across all classes.
func (r *Report) TotalViolations() int {
	total := 0
	for _, vs := range r.byClass {
		total += len(vs)
	}
	return total
}

// HardViolations returns the count excluding soft warnings.
func (r *Report) HardViolations() int {
	return r.TotalViolations() - r.Count(ClassMissingQuantity)
}

// Render writes the human-readable quality report artifact. sampleLimit caps
// the row identifiers listed per class; zero lists every row.
func (r *Report) Render(sampleLimit int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Data Quality Validation Report - Generated on: %s\n",
		r.GeneratedAt.Format("2006-01-02 15:04:05"))
	b.WriteString(strings.Repeat("=", 70) + "\n")
	b.WriteString("Validation rules applied:\n")
	b.WriteString("1. Required scalar fields must be non-empty.\n")
	b.WriteString("2. Ingredient quantity may be empty (soft warning, counted).\n")
	b.WriteString("3. Difficulty must be one of Easy, Medium, Hard.\n")
	b.WriteString("4. Interaction type must be one of VIEW, LIKE, COOK_ATTEMPT.\n")
	b.WriteString("5. Only COOK_ATTEMPT interactions may carry a rating.\n")
	b.WriteString("6. Foreign keys must resolve to an existing recipe/user.\n")
	b.WriteString("7. Step numbers per recipe must form 1..N with no gaps.\n")
	b.WriteString(strings.Repeat("-", 70) + "\n")

	for _, table := range r.tableOrder {
		fmt.Fprintf(&b, "Table %s: %d rows\n", table, r.totals[table])
	}
	b.WriteString(strings.Repeat("-", 70) + "\n")

	for _, class := range Classes() {
		violations := r.byClass[class]
		fmt.Fprintf(&b, "\n[%s] %d violation(s)\n", class, len(violations))
		if len(violations) == 0 {
			continue
		}

		shown := violations
		if sampleLimit > 0 && len(shown) > sampleLimit {
			shown = shown[:sampleLimit]
		}
		for _, v := range shown {
			fmt.Fprintf(&b, "  %s id=%s | %s\n", v.Table, v.RowKey, v.Detail)
		}
		if len(violations) > len(shown) {
			fmt.Fprintf(&b, "  ... %d more\n", len(violations)-len(shown))
		}
	}

	b.WriteString("\n" + strings.Repeat("=", 70) + "\n")
	if r.HardViolations() == 0 {
		b.WriteString("Data quality check PASSED. No hard violations found.\n")
	} else {
		fmt.Fprintf(&b, "Data quality check found %d hard violation(s) and %d warning(s).\n",
			r.HardViolations(), r.Count(ClassMissingQuantity))
	}

	return b.String()
}
