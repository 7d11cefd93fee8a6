package adjustment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CommissionTable maps a named field-visit category to its fixed payout.
// The amounts are business-negotiated rates, not derived figures: they are
// carried as data and must never be recomputed. Selecting a visit type
// overrides any manually entered amount.
type CommissionTable struct {
	rates map[string]float64
}

// Built-in price list, used when no config file is supplied.
var defaultVisitRates = map[string]float64{
	"View car in Bangkok – Completed":     600,
	"View car in Bangkok – Not completed": 300,
	"View car upcountry – Completed":      1000,
	"View car upcountry – Not completed":  500,
	"Vehicle inspection – Completed":      800,
	"Document delivery – Completed":       200,
}

func DefaultCommissionTable() *CommissionTable {
	rates := make(map[string]float64, len(defaultVisitRates))
	for k, v := range defaultVisitRates {
		rates[k] = v
	}
	return &CommissionTable{rates: rates}
}

type commissionFile struct {
	VisitTypes []struct {
		Name   string  `yaml:"name"`
		Amount float64 `yaml:"amount"`
	} `yaml:"visit_types"`
}

// LoadCommissionTable reads a versionable YAML price list:
//
//	visit_types:
//	  - name: "View car in Bangkok – Completed"
//	    amount: 600
func LoadCommissionTable(path string) (*CommissionTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read commission table: %w", err)
	}

	var file commissionFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse commission table: %w", err)
	}
	if len(file.VisitTypes) == 0 {
		return nil, fmt.Errorf("commission table %s has no visit types", path)
	}

	rates := make(map[string]float64, len(file.VisitTypes))
	for _, vt := range file.VisitTypes {
		if vt.Name == "" || vt.Amount <= 0 {
			return nil, fmt.Errorf("commission table entry %q has invalid amount %v", vt.Name, vt.Amount)
		}
		rates[vt.Name] = vt.Amount
	}

	return &CommissionTable{rates: rates}, nil
}

// Rate returns the fixed payout for a visit type.
func (t *CommissionTable) Rate(visitType string) (float64, bool) {
	rate, ok := t.rates[visitType]
	return rate, ok
}

// VisitTypes lists the known visit type names.
func (t *CommissionTable) VisitTypes() []string {
	names := make([]string, 0, len(t.rates))
	for name := range t.rates {
		names = append(names, name)
	}
	return names
}
