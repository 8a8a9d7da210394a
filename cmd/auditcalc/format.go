package main

import (
	"fmt"
	"strings"

	"github.com/ChicagoDave/auditcalc/pkg/report"
	"github.com/ChicagoDave/auditcalc/pkg/validation"
)

func printValidationReport(r *validation.Report) {
	if len(r.Errors) > 0 {
		fmt.Printf("ERRORS (%d):\n", len(r.Errors))
		for _, e := range r.Errors {
			fmt.Printf("  [%s] %s\n", e.Level, e.Message)
			if e.Path != "" {
				fmt.Printf("    -> %s = %v\n", e.Path, e.ActualValue)
			}
			if e.Expected != "" {
				fmt.Printf("    expected: %s\n", e.Expected)
			}
			if e.ConflictWith != "" {
				fmt.Printf("    conflicts with: %s\n", e.ConflictWith)
			}
			for _, s := range e.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Warnings) > 0 {
		fmt.Printf("WARNINGS (%d):\n", len(r.Warnings))
		for _, w := range r.Warnings {
			fmt.Printf("  [%s] %s\n", w.Level, w.Message)
			if w.Path != "" {
				fmt.Printf("    -> %s = %v\n", w.Path, w.ActualValue)
			}
			if w.ConflictWith != "" {
				fmt.Printf("    conflicts with: %s\n", w.ConflictWith)
			}
			for _, s := range w.Suggestions {
				fmt.Printf("    * %s\n", s)
			}
		}
		fmt.Println()
	}

	if len(r.Info) > 0 {
		fmt.Printf("INFO (%d):\n", len(r.Info))
		for _, i := range r.Info {
			fmt.Printf("  [%s] %s\n", i.Level, i.Message)
		}
		fmt.Println()
	}

	if r.Valid {
		fmt.Printf("Result: VALID (%s)\n", r.Summary)
	} else {
		fmt.Printf("Result: INVALID (%s)\n", r.Summary)
	}
}

func printReport(r *report.Report) {
	title := "Energy Audit"
	if r.Name != "" {
		title += ": " + r.Name
	}
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))

	for _, t := range r.Tables {
		fmt.Println()
		printTable(t)
	}

	fmt.Println()
	fmt.Println("Summary")
	fmt.Println("-------")
	for _, l := range r.Summary {
		fmt.Printf("  %-28s $%16s\n", l.Label+":", l.Cost.StringFixed(2))
	}
	fmt.Printf("  %-28s $%16s\n", "Total annual cost:", r.TotalCost.StringFixed(2))
}

func printTable(t report.Table) {
	fmt.Println(t.Name)
	fmt.Printf("%-26s", "")
	for _, c := range t.Columns {
		fmt.Printf(" %22s", c.Header)
	}
	fmt.Println()
	fmt.Printf("%-26s", strings.Repeat("-", 26))
	for range t.Columns {
		fmt.Printf(" %22s", strings.Repeat("-", 22))
	}
	fmt.Println()

	for _, row := range t.Rows {
		label := row.Label
		if row.Total {
			label = strings.ToUpper(label)
		}
		fmt.Printf("%-26s", label)
		for i, v := range row.Values {
			fmt.Printf(" %22s", v.StringFixed(t.Columns[i].Places))
		}
		fmt.Println()
	}
}
