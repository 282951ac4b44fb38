package resource

import (
	"fmt"
	"strings"
)

// Instance describes one compute instance.
type Instance struct {
	InstanceID       string            `json:"instanceId,omitempty" yaml:"instance_id,omitempty"`
	PrivateIP        string            `json:"privateIp,omitempty" yaml:"private_ip,omitempty"`
	PublicIP         string            `json:"publicIp,omitempty" yaml:"public_ip,omitempty"`
	InstanceType     string            `json:"instanceType,omitempty" yaml:"instance_type,omitempty"`
	AvailabilityZone string            `json:"availabilityZone,omitempty" yaml:"availability_zone,omitempty"`
	State            string            `json:"state,omitempty" yaml:"state,omitempty"`
	AMIID            string            `json:"amiId,omitempty" yaml:"ami_id,omitempty"`
	Architecture     string            `json:"architecture,omitempty" yaml:"architecture,omitempty"`
	LaunchTime       Timestamp         `json:"launchTime" yaml:"launch_time,omitempty"`
	Tags             map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	HealthStatus     string            `json:"healthStatus,omitempty" yaml:"health_status,omitempty"`
}

// Name returns the Name tag, falling back to the instance ID.
func (i Instance) Name() string {
	if name := i.Tags["Name"]; name != "" {
		return name
	}
	return i.InstanceID
}

// LoadBalancer describes the application load balancer.
type LoadBalancer struct {
	ARN               string        `json:"arn,omitempty" yaml:"arn,omitempty"`
	DNSName           string        `json:"dnsName,omitempty" yaml:"dns_name,omitempty"`
	State             *string       `json:"state,omitempty" yaml:"state,omitempty"`
	Type              string        `json:"type,omitempty" yaml:"type,omitempty"`
	Scheme            string        `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	AvailabilityZones []string      `json:"availabilityZones,omitempty" yaml:"availability_zones,omitempty"`
	TargetGroups      []TargetGroup `json:"targetGroups,omitempty" yaml:"target_groups,omitempty"`
	CreatedTime       Timestamp     `json:"createdTime" yaml:"created_time,omitempty"`
}

// GetState returns the state, or "" when the load balancer or its state is absent.
func (lb *LoadBalancer) GetState() string {
	if lb == nil || lb.State == nil {
		return ""
	}
	return *lb.State
}

// GetTargetGroups returns the target groups, nil-safe.
func (lb *LoadBalancer) GetTargetGroups() []TargetGroup {
	if lb == nil {
		return nil
	}
	return lb.TargetGroups
}

// Name extracts the load balancer name from its ARN
// (arn:...:loadbalancer/app/<name>/<id>).
func (lb *LoadBalancer) Name() string {
	if lb == nil || lb.ARN == "" {
		return ""
	}
	parts := strings.Split(lb.ARN, "/")
	if len(parts) >= 3 {
		return parts[2]
	}
	if len(parts) == 2 {
		return parts[1]
	}
	return ""
}

// InternetFacing reports whether the scheme is internet-facing.
func (lb *LoadBalancer) InternetFacing() bool {
	return lb != nil && strings.EqualFold(lb.Scheme, "internet-facing")
}

// TargetGroup is one target group behind the load balancer.
type TargetGroup struct {
	ARN                  string   `json:"arn,omitempty" yaml:"arn,omitempty"`
	Name                 string   `json:"name,omitempty" yaml:"name,omitempty"`
	Protocol             string   `json:"protocol,omitempty" yaml:"protocol,omitempty"`
	Port                 *int     `json:"port,omitempty" yaml:"port,omitempty"`
	HealthCheckPath      string   `json:"healthCheckPath,omitempty" yaml:"health_check_path,omitempty"`
	HealthyTargetCount   *int     `json:"healthyTargetCount,omitempty" yaml:"healthy_target_count,omitempty"`
	UnhealthyTargetCount *int     `json:"unhealthyTargetCount,omitempty" yaml:"unhealthy_target_count,omitempty"`
	Targets              []Target `json:"targets,omitempty" yaml:"targets,omitempty"`
}

// GetHealthyTargetCount returns the healthy count, 0 when absent.
func (tg TargetGroup) GetHealthyTargetCount() int {
	if tg.HealthyTargetCount == nil {
		return 0
	}
	return *tg.HealthyTargetCount
}

// GetUnhealthyTargetCount returns the unhealthy count, 0 when absent.
func (tg TargetGroup) GetUnhealthyTargetCount() int {
	if tg.UnhealthyTargetCount == nil {
		return 0
	}
	return *tg.UnhealthyTargetCount
}

// HealthPercentage returns the share of healthy targets, 0 with no targets.
func (tg TargetGroup) HealthPercentage() float64 {
	total := tg.GetHealthyTargetCount() + tg.GetUnhealthyTargetCount()
	if total == 0 {
		return 0
	}
	return float64(tg.GetHealthyTargetCount()) / float64(total) * 100
}

// Target is one registered target and its health.
type Target struct {
	TargetID     string `json:"targetId,omitempty" yaml:"target_id,omitempty"`
	TargetType   string `json:"targetType,omitempty" yaml:"target_type,omitempty"`
	HealthStatus string `json:"healthStatus,omitempty" yaml:"health_status,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
	Port         *int   `json:"port,omitempty" yaml:"port,omitempty"`
}

// Database describes the relational database instance.
type Database struct {
	Identifier       string    `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Endpoint         string    `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Port             *int      `json:"port,omitempty" yaml:"port,omitempty"`
	Engine           string    `json:"engine,omitempty" yaml:"engine,omitempty"`
	EngineVersion    string    `json:"engineVersion,omitempty" yaml:"engine_version,omitempty"`
	InstanceClass    string    `json:"instanceClass,omitempty" yaml:"instance_class,omitempty"`
	Status           *string   `json:"status,omitempty" yaml:"status,omitempty"`
	MultiAZ          *bool     `json:"multiAZ,omitempty" yaml:"multi_az,omitempty"`
	AvailabilityZone string    `json:"availabilityZone,omitempty" yaml:"availability_zone,omitempty"`
	CreatedTime      Timestamp `json:"createdTime" yaml:"created_time,omitempty"`
	StorageType      string    `json:"storageType,omitempty" yaml:"storage_type,omitempty"`
	AllocatedStorage *int      `json:"allocatedStorage,omitempty" yaml:"allocated_storage,omitempty"`
}

// GetStatus returns the status, or "" when absent.
func (db *Database) GetStatus() string {
	if db == nil || db.Status == nil {
		return ""
	}
	return *db.Status
}

// Address returns endpoint:port, or just the endpoint when the port is absent.
func (db *Database) Address() string {
	if db == nil || db.Endpoint == "" {
		return ""
	}
	if db.Port == nil {
		return db.Endpoint
	}
	return fmt.Sprintf("%s:%d", db.Endpoint, *db.Port)
}

// Bucket describes the object storage bucket. Its presence alone means healthy.
type Bucket struct {
	BucketName         string    `json:"bucketName,omitempty" yaml:"bucket_name,omitempty"`
	Region             string    `json:"region,omitempty" yaml:"region,omitempty"`
	CreationDate       Timestamp `json:"creationDate" yaml:"creation_date,omitempty"`
	PublicAccessStatus string    `json:"publicAccessStatus,omitempty" yaml:"public_access_status,omitempty"`
	WebsiteHosting     *bool     `json:"websiteHosting,omitempty" yaml:"website_hosting,omitempty"`
	WebsiteEndpoint    string    `json:"websiteEndpoint,omitempty" yaml:"website_endpoint,omitempty"`
	BucketPolicyStatus string    `json:"bucketPolicyStatus,omitempty" yaml:"bucket_policy_status,omitempty"`
	EncryptionEnabled  *bool     `json:"encryptionEnabled,omitempty" yaml:"encryption_enabled,omitempty"`
	VersioningEnabled  *bool     `json:"versioningEnabled,omitempty" yaml:"versioning_enabled,omitempty"`
}

// Distribution describes the content delivery distribution.
type Distribution struct {
	DistributionID          string    `json:"distributionId,omitempty" yaml:"distribution_id,omitempty"`
	DomainName              string    `json:"domainName,omitempty" yaml:"domain_name,omitempty"`
	Status                  *string   `json:"status,omitempty" yaml:"status,omitempty"`
	Enabled                 *bool     `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Comment                 string    `json:"comment,omitempty" yaml:"comment,omitempty"`
	LastModifiedTime        Timestamp `json:"lastModifiedTime" yaml:"last_modified_time,omitempty"`
	Origins                 []Origin  `json:"origins,omitempty" yaml:"origins,omitempty"`
	PriceClass              string    `json:"priceClass,omitempty" yaml:"price_class,omitempty"`
	DefaultRootObject       string    `json:"defaultRootObject,omitempty" yaml:"default_root_object,omitempty"`
	CustomErrorPagesEnabled *bool     `json:"customErrorPagesEnabled,omitempty" yaml:"custom_error_pages_enabled,omitempty"`
}

// GetStatus returns the status, or "" when absent.
func (d *Distribution) GetStatus() string {
	if d == nil || d.Status == nil {
		return ""
	}
	return *d.Status
}

// URL returns the https URL of the distribution domain.
func (d *Distribution) URL() string {
	if d == nil || d.DomainName == "" {
		return ""
	}
	return "https://" + d.DomainName
}

// Origin is one origin of the distribution.
type Origin struct {
	OriginID             string `json:"originId,omitempty" yaml:"origin_id,omitempty"`
	DomainName           string `json:"domainName,omitempty" yaml:"domain_name,omitempty"`
	OriginType           string `json:"originType,omitempty" yaml:"origin_type,omitempty"`
	OriginPath           string `json:"originPath,omitempty" yaml:"origin_path,omitempty"`
	CustomHeaders        string `json:"customHeaders,omitempty" yaml:"custom_headers,omitempty"`
	HTTPPort             *int   `json:"httpPort,omitempty" yaml:"http_port,omitempty"`
	HTTPSPort            *int   `json:"httpsPort,omitempty" yaml:"https_port,omitempty"`
	OriginProtocolPolicy string `json:"originProtocolPolicy,omitempty" yaml:"origin_protocol_policy,omitempty"`
}

// Network describes the VPC and its subnets and gateways.
type Network struct {
	VPCID              string           `json:"vpcId,omitempty" yaml:"vpc_id,omitempty"`
	CIDRBlock          string           `json:"cidrBlock,omitempty" yaml:"cidr_block,omitempty"`
	State              *string          `json:"state,omitempty" yaml:"state,omitempty"`
	IsDefault          *bool            `json:"isDefault,omitempty" yaml:"is_default,omitempty"`
	Name               string           `json:"name,omitempty" yaml:"name,omitempty"`
	Subnets            []Subnet         `json:"subnets,omitempty" yaml:"subnets,omitempty"`
	InternetGateway    *InternetGateway `json:"internetGateway,omitempty" yaml:"internet_gateway,omitempty"`
	NATGateways        []NATGateway     `json:"natGateways,omitempty" yaml:"nat_gateways,omitempty"`
	RouteTableCount    *int             `json:"routeTableCount,omitempty" yaml:"route_table_count,omitempty"`
	SecurityGroupCount *int             `json:"securityGroupCount,omitempty" yaml:"security_group_count,omitempty"`
}

// GetState returns the state, or "" when absent.
func (n *Network) GetState() string {
	if n == nil || n.State == nil {
		return ""
	}
	return *n.State
}

// GetSubnets returns the subnets, nil-safe.
func (n *Network) GetSubnets() []Subnet {
	if n == nil {
		return nil
	}
	return n.Subnets
}

// Subnet is one subnet of the VPC.
type Subnet struct {
	SubnetID                string `json:"subnetId,omitempty" yaml:"subnet_id,omitempty"`
	CIDRBlock               string `json:"cidrBlock,omitempty" yaml:"cidr_block,omitempty"`
	AvailabilityZone        string `json:"availabilityZone,omitempty" yaml:"availability_zone,omitempty"`
	State                   string `json:"state,omitempty" yaml:"state,omitempty"`
	MapPublicIPOnLaunch     *bool  `json:"mapPublicIpOnLaunch,omitempty" yaml:"map_public_ip_on_launch,omitempty"`
	AvailableIPAddressCount *int   `json:"availableIpAddressCount,omitempty" yaml:"available_ip_address_count,omitempty"`
	Name                    string `json:"name,omitempty" yaml:"name,omitempty"`
	SubnetType              string `json:"subnetType,omitempty" yaml:"subnet_type,omitempty"`
}

// usableIPsPerSubnet is the usable address count of a /24 after the five AWS reservations.
const usableIPsPerSubnet = 251

// IsPublic reports whether instances launched here get a public IP.
func (s Subnet) IsPublic() bool {
	return s.MapPublicIPOnLaunch != nil && *s.MapPublicIPOnLaunch
}

// IPUsagePercentage estimates address usage assuming a /24. Unknown counts report 0.
func (s Subnet) IPUsagePercentage() float64 {
	if s.AvailableIPAddressCount == nil {
		return 0
	}
	used := usableIPsPerSubnet - *s.AvailableIPAddressCount
	return float64(used) / usableIPsPerSubnet * 100
}

// InternetGateway is the VPC's internet gateway.
type InternetGateway struct {
	InternetGatewayID string `json:"internetGatewayId,omitempty" yaml:"internet_gateway_id,omitempty"`
	State             string `json:"state,omitempty" yaml:"state,omitempty"`
	AttachedVPCID     string `json:"attachedVpcId,omitempty" yaml:"attached_vpc_id,omitempty"`
	Name              string `json:"name,omitempty" yaml:"name,omitempty"`
}

// NATGateway is one NAT gateway of the VPC.
type NATGateway struct {
	NATGatewayID     string    `json:"natGatewayId,omitempty" yaml:"nat_gateway_id,omitempty"`
	State            string    `json:"state,omitempty" yaml:"state,omitempty"`
	SubnetID         string    `json:"subnetId,omitempty" yaml:"subnet_id,omitempty"`
	AvailabilityZone string    `json:"availabilityZone,omitempty" yaml:"availability_zone,omitempty"`
	PublicIP         string    `json:"publicIp,omitempty" yaml:"public_ip,omitempty"`
	PrivateIP        string    `json:"privateIp,omitempty" yaml:"private_ip,omitempty"`
	CreateTime       Timestamp `json:"createTime" yaml:"create_time,omitempty"`
	Name             string    `json:"name,omitempty" yaml:"name,omitempty"`
	ConnectivityType string    `json:"connectivityType,omitempty" yaml:"connectivity_type,omitempty"`
}
