package status

import (
	"github.com/rileyhilliard/infradash/internal/resource"
)

// FamilySummary is the count and derived health of one family.
type FamilySummary struct {
	Family resource.Family `json:"-" yaml:"-"`
	Name   string          `json:"family" yaml:"family"`
	Health Health          `json:"health" yaml:"health"`
	Count  int             `json:"count" yaml:"count"`
}

// Overview summarizes every family. It is built in one piece by Aggregate
// and never patched afterwards.
type Overview struct {
	Families []FamilySummary `json:"families" yaml:"families"`
}

// Aggregate derives the overview for all six families. Missing families
// surface as Unknown with zero counts.
func Aggregate(s resource.Snapshots) Overview {
	fams := resource.Families()
	out := Overview{Families: make([]FamilySummary, 0, len(fams))}
	for _, f := range fams {
		sum := Derive(f, s)
		sum.Name = f.String()
		out.Families = append(out.Families, sum)
	}
	return out
}

// Get returns the summary for f. The zero Overview reports Unknown/0 for every family.
func (o Overview) Get(f resource.Family) FamilySummary {
	for _, sum := range o.Families {
		if sum.Family == f {
			return sum
		}
	}
	return FamilySummary{Family: f, Name: f.String()}
}

// HealthyCount returns how many families are Healthy.
func (o Overview) HealthyCount() int {
	n := 0
	for _, sum := range o.Families {
		if sum.Health == Healthy {
			n++
		}
	}
	return n
}

// Worst returns the most severe health across families: Unhealthy beats
// Unknown beats Healthy. An empty overview is Unknown.
func (o Overview) Worst() Health {
	if len(o.Families) == 0 {
		return Unknown
	}
	worst := Healthy
	for _, sum := range o.Families {
		switch sum.Health {
		case Unhealthy:
			return Unhealthy
		case Unknown:
			worst = Unknown
		}
	}
	return worst
}

// Totals counts individual resources the way the backend's status document
// does: one per instance and one per present singleton, with instances
// healthy when their health status is "healthy".
type Totals struct {
	Resources int `json:"resources" yaml:"resources"`
	Healthy   int `json:"healthy" yaml:"healthy"`
}

// ResourceTotals computes Totals for a snapshot set.
func ResourceTotals(s resource.Snapshots) Totals {
	var t Totals
	for _, inst := range s.Compute {
		t.Resources++
		if inst.HealthStatus == "healthy" {
			t.Healthy++
		}
	}
	for _, f := range resource.Families() {
		if f == resource.FamilyCompute || !s.Has(f) {
			continue
		}
		t.Resources++
		if Derive(f, s).Health == Healthy {
			t.Healthy++
		}
	}
	return t
}
