package tui

import (
	"fmt"
	"strings"

	"github.com/rileyhilliard/infradash/internal/dashboard"
	"github.com/rileyhilliard/infradash/internal/resource"
	"github.com/rileyhilliard/infradash/internal/status"
	"github.com/rileyhilliard/infradash/internal/util"
)

// renderDetail renders the single-family panel of the selected view.
func (m Model) renderDetail(st dashboard.ViewState) string {
	width := m.width - 2
	if width < 50 {
		width = 50
	}
	if width > 110 {
		width = 110
	}

	sum := st.Summary()
	header := HealthBadge(sum.Health)
	s := st.Snapshots

	var sections []string
	switch st.View {
	case dashboard.Compute:
		sections = computeSections(s.Compute, header, width)
	case dashboard.LoadBalancer:
		sections = loadBalancerSections(s.LoadBalancer, header, width)
	case dashboard.Database:
		sections = databaseSections(s.Database, header, width)
	case dashboard.Network:
		sections = networkSections(s.Network, header, width)
	case dashboard.Storage:
		sections = storageSections(s.Storage, header, width)
	case dashboard.ContentDelivery:
		sections = distributionSections(s.ContentDelivery, header, width)
	}
	return strings.Join(sections, "\n")
}

func absentSection(title, header string, width int) []string {
	return []string{Section(title, header, []string{MutedStyle.Render("No data reported by the backend")}, width)}
}

func computeSections(instances []resource.Instance, header string, width int) []string {
	if instances == nil {
		return absentSection("EC2 Instances", header, width)
	}

	var byState []string
	for _, sc := range status.InstancesByState(instances) {
		byState = append(byState, fmt.Sprintf("%s %d", sc.State, sc.Count))
	}
	summary := []string{KeyValue("Instances", fmt.Sprintf("%d", len(instances)))}
	if len(byState) > 0 {
		summary = append(summary, KeyValue("By state", strings.Join(byState, ", ")))
	}

	var rows []string
	for _, inst := range instances {
		rows = append(rows, fmt.Sprintf("%-20s %-12s %-10s %-15s %s",
			util.Truncate(inst.Name(), 20), inst.InstanceType, inst.State, inst.PrivateIP, inst.AvailabilityZone))
	}
	if len(rows) == 0 {
		rows = []string{MutedStyle.Render("No instances")}
	}

	return []string{
		Section("EC2 Instances", header, summary, width),
		Section("Instances", "", rows, width),
	}
}

func loadBalancerSections(lb *resource.LoadBalancer, header string, width int) []string {
	if lb == nil {
		return absentSection("Application Load Balancer", header, width)
	}

	totals := status.TargetTotals(lb)
	scheme := lb.Scheme
	if lb.InternetFacing() {
		scheme += " (public)"
	}
	info := []string{
		KeyValue("Name", lb.Name()),
		KeyValue("DNS", lb.DNSName),
		KeyValue("State", lb.GetState()),
		KeyValue("Scheme", scheme),
		KeyValue("Zones", util.JoinOrNone(lb.AvailabilityZones)),
		KeyValue("Targets", fmt.Sprintf("%d healthy / %d unhealthy", totals.Healthy, totals.Unhealthy)),
	}

	var groups []string
	barWidth := 20
	for _, tg := range lb.GetTargetGroups() {
		pct := tg.HealthPercentage()
		port := ""
		if tg.Port != nil {
			port = fmt.Sprintf(":%d", *tg.Port)
		}
		groups = append(groups, fmt.Sprintf("%-24s %s%s  %s %3.0f%%",
			util.Truncate(tg.Name, 24), tg.Protocol, port, Bar(barWidth, pct, ScoreColor(pct)), pct))
	}
	if len(groups) == 0 {
		groups = []string{MutedStyle.Render("No target groups")}
	}

	return []string{
		Section("Application Load Balancer", header, info, width),
		Section("Target Groups", fmt.Sprintf("%d", len(lb.GetTargetGroups())), groups, width),
	}
}

func databaseSections(db *resource.Database, header string, width int) []string {
	if db == nil {
		return absentSection("RDS Database", header, width)
	}

	multiAZ := "-"
	if db.MultiAZ != nil {
		multiAZ = fmt.Sprintf("%t", *db.MultiAZ)
	}
	storage := db.StorageType
	if db.AllocatedStorage != nil {
		storage = fmt.Sprintf("%d GiB %s", *db.AllocatedStorage, db.StorageType)
	}

	return []string{Section("RDS Database", header, []string{
		KeyValue("Identifier", db.Identifier),
		KeyValue("Status", db.GetStatus()),
		KeyValue("Engine", strings.TrimSpace(db.Engine+" "+db.EngineVersion)),
		KeyValue("Class", db.InstanceClass),
		KeyValue("Endpoint", db.Address()),
		KeyValue("Multi-AZ", multiAZ),
		KeyValue("Zone", db.AvailabilityZone),
		KeyValue("Storage", storage),
	}, width)}
}

func networkSections(n *resource.Network, header string, width int) []string {
	if n == nil {
		return absentSection("VPC", header, width)
	}

	types := status.SubnetsByType(n)
	gateway := "unknown"
	if attached, known := status.GatewayAttached(n); known {
		gateway = "detached"
		if attached {
			gateway = "attached"
		}
	}

	info := []string{
		KeyValue("VPC", n.VPCID),
		KeyValue("Name", n.Name),
		KeyValue("CIDR", n.CIDRBlock),
		KeyValue("State", n.GetState()),
		KeyValue("Subnets", fmt.Sprintf("%d public / %d private", types.Public, types.Private)),
		KeyValue("Internet gateway", gateway),
		KeyValue("NAT gateways", fmt.Sprintf("%d", len(n.NATGateways))),
	}

	var subnets []string
	for _, sn := range n.GetSubnets() {
		kind := "private"
		if sn.IsPublic() {
			kind = "public"
		}
		pct := sn.IPUsagePercentage()
		name := sn.Name
		if name == "" {
			name = sn.SubnetID
		}
		subnets = append(subnets, fmt.Sprintf("%-22s %-18s %-8s %s %3.0f%%",
			util.Truncate(name, 22), sn.CIDRBlock, kind, Bar(12, pct, UsageColor(pct)), pct))
	}
	if len(subnets) == 0 {
		subnets = []string{MutedStyle.Render("No subnets")}
	}

	return []string{
		Section("VPC", header, info, width),
		Section("Subnets", fmt.Sprintf("%d", len(n.GetSubnets())), subnets, width),
	}
}

func storageSections(b *resource.Bucket, header string, width int) []string {
	if b == nil {
		return absentSection("S3 Bucket", header, width)
	}
	return []string{Section("S3 Bucket", header, []string{
		KeyValue("Bucket", b.BucketName),
		KeyValue("Region", b.Region),
		KeyValue("Public access", b.PublicAccessStatus),
		KeyValue("Policy", b.BucketPolicyStatus),
		KeyValue("Website", boolText(b.WebsiteHosting, b.WebsiteEndpoint)),
		KeyValue("Encryption", boolText(b.EncryptionEnabled, "")),
		KeyValue("Versioning", boolText(b.VersioningEnabled, "")),
	}, width)}
}

func distributionSections(d *resource.Distribution, header string, width int) []string {
	if d == nil {
		return absentSection("CloudFront", header, width)
	}

	var origins []string
	for _, o := range d.Origins {
		origins = append(origins, fmt.Sprintf("%-24s %s", util.Truncate(o.OriginID, 24), o.DomainName))
	}
	if len(origins) == 0 {
		origins = []string{MutedStyle.Render("No origins")}
	}

	return []string{
		Section("CloudFront", header, []string{
			KeyValue("Distribution", d.DistributionID),
			KeyValue("URL", d.URL()),
			KeyValue("Status", d.GetStatus()),
			KeyValue("Enabled", boolText(d.Enabled, "")),
			KeyValue("Price class", d.PriceClass),
		}, width),
		Section("Origins", fmt.Sprintf("%d", status.OriginCount(d)), origins, width),
	}
}

func boolText(b *bool, detail string) string {
	if b == nil {
		return "-"
	}
	if !*b {
		return "no"
	}
	if detail != "" {
		return "yes (" + detail + ")"
	}
	return "yes"
}
