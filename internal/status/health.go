// Package status derives per-family health and the overview summary from
// partially populated resource snapshots. Every function here is total and
// pure: absent data yields Unknown and zero counts, and inputs are never modified.
package status

import (
	"github.com/rileyhilliard/infradash/internal/resource"
)

// Health is the derived classification of one family.
type Health int

const (
	Unknown Health = iota
	Healthy
	Unhealthy
)

// String returns a lowercase name for the health value.
func (h Health) String() string {
	switch h {
	case Healthy:
		return "healthy"
	case Unhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Label returns a display label for the health value.
func (h Health) Label() string {
	switch h {
	case Healthy:
		return "Healthy"
	case Unhealthy:
		return "Unhealthy"
	default:
		return "Unknown"
	}
}

// MarshalText lets health values render by name in JSON and YAML output.
func (h Health) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// Values the backend uses for a healthy family.
const (
	activeState      = "active"
	availableStatus  = "available"
	deployedStatus   = "Deployed"
	availableNetwork = "available"
)

// classify maps a possibly-absent discriminating field to a health value.
// Only the expected value is Healthy. An absent field or any other value,
// such as "provisioning" or "stopped", is Unknown.
func classify(value *string, healthy string) Health {
	if value != nil && *value == healthy {
		return Healthy
	}
	return Unknown
}

// Derive computes the summary for one family.
func Derive(f resource.Family, s resource.Snapshots) FamilySummary {
	sum := FamilySummary{Family: f}

	switch f {
	case resource.FamilyCompute:
		sum.Count = len(s.Compute)
		if sum.Count > 0 {
			sum.Health = Healthy
		}

	case resource.FamilyLoadBalancer:
		if s.LoadBalancer == nil {
			return sum
		}
		sum.Health = classify(s.LoadBalancer.State, activeState)
		sum.Count = HealthyTargets(s.LoadBalancer)

	case resource.FamilyDatabase:
		if s.Database == nil {
			return sum
		}
		sum.Health = classify(s.Database.Status, availableStatus)
		sum.Count = 1

	case resource.FamilyNetwork:
		if s.Network == nil {
			return sum
		}
		sum.Health = classify(s.Network.State, availableNetwork)
		sum.Count = len(s.Network.Subnets)

	case resource.FamilyStorage:
		if s.Storage == nil {
			return sum
		}
		sum.Health = Healthy
		sum.Count = 1

	case resource.FamilyContentDelivery:
		if s.ContentDelivery == nil {
			return sum
		}
		sum.Health = classify(s.ContentDelivery.Status, deployedStatus)
		sum.Count = 1
	}

	return sum
}

// HealthyTargets sums healthyTargetCount across target groups, treating missing counts as 0.
func HealthyTargets(lb *resource.LoadBalancer) int {
	total := 0
	for _, tg := range lb.GetTargetGroups() {
		total += tg.GetHealthyTargetCount()
	}
	return total
}
