// Package resource holds the status documents the backend returns for each
// infrastructure family. Every field may be absent; pointer fields and nil
// slices model absence, and the getters return zero values for them.
package resource

import (
	"fmt"
	"strings"
)

// Family identifies one of the six resource families.
type Family int

const (
	FamilyCompute Family = iota
	FamilyLoadBalancer
	FamilyDatabase
	FamilyNetwork
	FamilyStorage
	FamilyContentDelivery
)

var allFamilies = []Family{
	FamilyCompute,
	FamilyLoadBalancer,
	FamilyDatabase,
	FamilyNetwork,
	FamilyStorage,
	FamilyContentDelivery,
}

// Families returns every family in display order.
func Families() []Family {
	out := make([]Family, len(allFamilies))
	copy(out, allFamilies)
	return out
}

// String returns the canonical lowercase name used in flags and config.
func (f Family) String() string {
	switch f {
	case FamilyCompute:
		return "compute"
	case FamilyLoadBalancer:
		return "load-balancer"
	case FamilyDatabase:
		return "database"
	case FamilyNetwork:
		return "network"
	case FamilyStorage:
		return "storage"
	case FamilyContentDelivery:
		return "cdn"
	default:
		return "unknown"
	}
}

// Title returns a human-readable family name.
func (f Family) Title() string {
	switch f {
	case FamilyCompute:
		return "Compute"
	case FamilyLoadBalancer:
		return "Load Balancer"
	case FamilyDatabase:
		return "Database"
	case FamilyNetwork:
		return "Network"
	case FamilyStorage:
		return "Storage"
	case FamilyContentDelivery:
		return "Content Delivery"
	default:
		return "Unknown"
	}
}

// Service returns the backing AWS service name.
func (f Family) Service() string {
	switch f {
	case FamilyCompute:
		return "EC2"
	case FamilyLoadBalancer:
		return "ALB"
	case FamilyDatabase:
		return "RDS"
	case FamilyNetwork:
		return "VPC"
	case FamilyStorage:
		return "S3"
	case FamilyContentDelivery:
		return "CloudFront"
	default:
		return ""
	}
}

// ParseFamily accepts the canonical name or the service alias, case-insensitively.
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "compute", "ec2":
		return FamilyCompute, nil
	case "load-balancer", "loadbalancer", "alb":
		return FamilyLoadBalancer, nil
	case "database", "rds":
		return FamilyDatabase, nil
	case "network", "vpc":
		return FamilyNetwork, nil
	case "storage", "s3":
		return FamilyStorage, nil
	case "cdn", "content-delivery", "cloudfront":
		return FamilyContentDelivery, nil
	}
	return 0, fmt.Errorf("unknown resource family %q", s)
}
