// Package report lays audit results out as tables and writes them as XLSX or
// PDF documents.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ChicagoDave/auditcalc/pkg/audit"
)

// Column is a value column of a table. Places is the number of decimal places
// values are rounded to.
type Column struct {
	Header string
	Places int32
}

// Row is a labelled line of values, one per column.
type Row struct {
	Label  string
	Values []decimal.Decimal
	Total  bool
}

// Table is one section of the report.
type Table struct {
	Name    string
	Columns []Column
	Rows    []Row
}

// Line is one utility in the cost summary.
type Line struct {
	Label string
	Cost  decimal.Decimal
}

// Report is an audit laid out for export.
type Report struct {
	Name      string
	Summary   []Line
	TotalCost decimal.Decimal
	Tables    []Table
}

const (
	cents    = 2
	quantity = 3
)

var costColumn = Column{Header: "Cost ($/yr)", Places: cents}

// Build lays out every section present in res. Values are rounded half away
// from zero; costs to cents.
func Build(res *audit.Results) *Report {
	rep := &Report{Name: res.Name, TotalCost: decimal.Zero}

	if s := res.Electricity; s != nil {
		t := Table{Name: "Electricity", Columns: []Column{
			{"Energy use (kWh/yr)", quantity}, costColumn, {"Power (kW)", quantity},
		}}
		for i, r := range s.Entries {
			t.add(entryLabel(i), false, r.EnergyUse, r.EnergyCost, r.Power)
		}
		t.add("Total", true, s.Total.EnergyUse, s.Total.EnergyCost, s.Total.Power)
		rep.addTable(t, s.Total.EnergyCost)
	}

	if s := res.NaturalGas; s != nil {
		t := Table{Name: "Natural gas", Columns: []Column{
			{"Energy use (MMBtu/yr)", quantity}, costColumn,
			{"Heat flow (MMBtu/h)", quantity}, {"Total flow (kscf/h)", quantity},
		}}
		for i, r := range s.Entries {
			t.add(entryLabel(i), false, r.EnergyUse, r.EnergyCost, r.HeatFlow, r.TotalFlow)
		}
		t.add("Total", true, s.Total.EnergyUse, s.Total.EnergyCost, s.Total.HeatFlow, s.Total.TotalFlow)
		rep.addTable(t, s.Total.EnergyCost)
	}

	if s := res.CompressedAir; s != nil {
		t := Table{Name: "Compressed air", Columns: []Column{
			{"Energy use (kWh/yr)", quantity}, costColumn, {"Flow (scfm)", quantity},
			{"Single nozzle flow (scfm)", quantity}, {"Consumption (scf/yr)", quantity},
		}}
		for i, r := range s.Entries {
			t.add(entryLabel(i), false, r.EnergyUse, r.EnergyCost, r.FlowRate, r.SingleNozzleFlowRate, r.Consumption)
		}
		tot := s.Total
		t.add("Total", true, tot.EnergyUse, tot.EnergyCost, tot.FlowRate, tot.SingleNozzleFlowRate, tot.Consumption)
		rep.addTable(t, tot.EnergyCost)
	}

	if s := res.PressureReduction; s != nil {
		t := Table{Name: "Pressure reduction", Columns: []Column{
			{"Energy use (kWh/yr)", quantity}, costColumn,
		}}
		for i, r := range s.Entries {
			t.add(entryLabel(i), false, r.EnergyUse, r.EnergyCost)
		}
		t.add("Baseline", true, s.Baseline.EnergyUse, s.Baseline.EnergyCost)
		t.add("Modification", true, s.Modification.EnergyUse, s.Modification.EnergyCost)
		t.add("Savings", true, s.Savings.EnergyUse, s.Savings.EnergyCost)
		rep.Tables = append(rep.Tables, t)
		// A pressure study compares scenarios of equipment that is already
		// costed elsewhere, so only its savings reach the summary.
		rep.Summary = append(rep.Summary, Line{Label: "Pressure reduction savings", Cost: round(s.Savings.EnergyCost, cents)})
	}

	if s := res.Water; s != nil {
		t := Table{Name: "Water", Columns: []Column{
			{"Water use (gal/yr)", quantity}, costColumn,
		}}
		for i, r := range s.Entries {
			t.add(entryLabel(i), false, r.WaterUse, r.WaterCost)
		}
		t.add("Total", true, s.Total.WaterUse, s.Total.WaterCost)
		rep.addTable(t, s.Total.WaterCost)
	}

	if len(res.Pipes) > 0 {
		t := Table{Name: "Pipes", Columns: []Column{
			{"Heat loss (W/m)", quantity}, {"Annual heat loss (Wh/yr)", 0},
			{"Surface temperature (K)", 1}, {"Iterations", 0},
		}}
		for _, p := range res.Pipes {
			t.add(p.Name, false, p.HeatLossPerLength, p.AnnualHeatLoss, p.SurfaceTemperature, float64(p.Iterations))
		}
		rep.Tables = append(rep.Tables, t)
	}

	if len(res.Tanks) > 0 {
		t := Table{Name: "Tanks", Columns: []Column{
			{"Heat loss (W)", quantity}, {"Annual heat loss (Wh/yr)", 0},
			{"Side (W)", quantity}, {"Top (W)", quantity}, {"Bottom (W)", quantity},
		}}
		for _, k := range res.Tanks {
			t.add(k.Name, false, k.HeatLoss, k.AnnualHeatLoss, k.Side, k.Top, k.Bottom)
		}
		rep.Tables = append(rep.Tables, t)
	}

	return rep
}

func (t *Table) add(label string, total bool, values ...float64) {
	row := Row{Label: label, Total: total, Values: make([]decimal.Decimal, len(values))}
	for i, v := range values {
		row.Values[i] = round(v, t.Columns[i].Places)
	}
	t.Rows = append(t.Rows, row)
}

// addTable appends a utility table and its annual cost to the summary.
func (r *Report) addTable(t Table, cost float64) {
	r.Tables = append(r.Tables, t)
	c := round(cost, cents)
	r.Summary = append(r.Summary, Line{Label: t.Name, Cost: c})
	r.TotalCost = r.TotalCost.Add(c)
}

func round(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

func entryLabel(i int) string { return fmt.Sprintf("Entry %d", i+1) }
