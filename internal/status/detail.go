package status

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rileyhilliard/infradash/internal/resource"
)

// TargetCounts are the summed target counts of a load balancer.
type TargetCounts struct {
	Healthy   int
	Unhealthy int
}

// Total returns healthy plus unhealthy targets.
func (c TargetCounts) Total() int { return c.Healthy + c.Unhealthy }

// TargetTotals sums target counts across every target group.
func TargetTotals(lb *resource.LoadBalancer) TargetCounts {
	var c TargetCounts
	for _, tg := range lb.GetTargetGroups() {
		c.Healthy += tg.GetHealthyTargetCount()
		c.Unhealthy += tg.GetUnhealthyTargetCount()
	}
	return c
}

// StateCount is the number of items in one state.
type StateCount struct {
	State string
	Count int
}

// InstancesByState counts instances per state, sorted by descending count
// then state name. Instances without a state count as "unknown".
func InstancesByState(instances []resource.Instance) []StateCount {
	counts := make(map[string]int)
	for _, inst := range instances {
		state := inst.State
		if state == "" {
			state = "unknown"
		}
		counts[state]++
	}
	return sortedCounts(counts)
}

// SubnetCounts splits subnets by public IP mapping.
type SubnetCounts struct {
	Public  int
	Private int
}

// SubnetsByType counts public and private subnets. A subnet is public when
// it maps public IPs on launch.
func SubnetsByType(n *resource.Network) SubnetCounts {
	var c SubnetCounts
	for _, s := range n.GetSubnets() {
		if s.IsPublic() {
			c.Public++
		} else {
			c.Private++
		}
	}
	return c
}

// GatewayAttached reports whether the network has an attached internet gateway.
// The second result is false when the gateway descriptor is absent.
func GatewayAttached(n *resource.Network) (attached, known bool) {
	if n == nil || n.InternetGateway == nil {
		return false, false
	}
	return n.InternetGateway.State == "available" || n.InternetGateway.State == "attached", true
}

// OriginCount returns the number of distribution origins.
func OriginCount(d *resource.Distribution) int {
	if d == nil {
		return 0
	}
	return len(d.Origins)
}

// Describe returns a short fact about a family's snapshot, such as the most
// common instance state or the distribution domain. It is empty when the
// snapshot is absent or carries nothing worth showing.
func Describe(f resource.Family, s resource.Snapshots) string {
	switch f {
	case resource.FamilyCompute:
		if states := InstancesByState(s.Compute); len(states) > 0 {
			return fmt.Sprintf("%d %s", states[0].Count, states[0].State)
		}
	case resource.FamilyLoadBalancer:
		if s.LoadBalancer != nil {
			t := TargetTotals(s.LoadBalancer)
			return fmt.Sprintf("%d/%d targets healthy", t.Healthy, t.Total())
		}
	case resource.FamilyDatabase:
		if s.Database != nil {
			return strings.TrimSpace(s.Database.Engine + " " + s.Database.EngineVersion)
		}
	case resource.FamilyNetwork:
		if s.Network != nil {
			return s.Network.CIDRBlock
		}
	case resource.FamilyStorage:
		if s.Storage != nil {
			return s.Storage.BucketName
		}
	case resource.FamilyContentDelivery:
		if s.ContentDelivery != nil {
			return s.ContentDelivery.DomainName
		}
	}
	return ""
}

func sortedCounts(counts map[string]int) []StateCount {
	out := make([]StateCount, 0, len(counts))
	for state, n := range counts {
		out = append(out, StateCount{State: state, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].State < out[j].State
	})
	return out
}
