package dashboard

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/infradash/internal/resource"
)

// View is one screen of the dashboard: the overview or a single family.
type View int

const (
	Overview View = iota
	Compute
	LoadBalancer
	Database
	Network
	Storage
	ContentDelivery
)

var allViews = []View{Overview, Compute, LoadBalancer, Database, Network, Storage, ContentDelivery}

// Views returns every view in tab order.
func Views() []View {
	out := make([]View, len(allViews))
	copy(out, allViews)
	return out
}

// Family returns the resource family a single-family view shows.
// The overview has none.
func (v View) Family() (resource.Family, bool) {
	switch v {
	case Compute:
		return resource.FamilyCompute, true
	case LoadBalancer:
		return resource.FamilyLoadBalancer, true
	case Database:
		return resource.FamilyDatabase, true
	case Network:
		return resource.FamilyNetwork, true
	case Storage:
		return resource.FamilyStorage, true
	case ContentDelivery:
		return resource.FamilyContentDelivery, true
	}
	return 0, false
}

// ViewFor returns the single-family view for f.
func ViewFor(f resource.Family) View {
	for _, v := range allViews[1:] {
		if fam, _ := v.Family(); fam == f {
			return v
		}
	}
	return Overview
}

func (v View) String() string {
	if v == Overview {
		return "overview"
	}
	if f, ok := v.Family(); ok {
		return f.String()
	}
	return fmt.Sprintf("view(%d)", int(v))
}

// Title is the tab label.
func (v View) Title() string {
	if v == Overview {
		return "Overview"
	}
	if f, ok := v.Family(); ok {
		return f.Title()
	}
	return v.String()
}

// Valid reports whether v is a known view.
func (v View) Valid() bool {
	return v >= Overview && v <= ContentDelivery
}

// ParseView accepts "overview" or any family name or alias (ec2, alb, ...).
func ParseView(s string) (View, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "overview" {
		return Overview, nil
	}
	f, err := resource.ParseFamily(s)
	if err != nil {
		return Overview, fmt.Errorf("unknown view %q", s)
	}
	return ViewFor(f), nil
}
