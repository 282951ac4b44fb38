package resource

// ConnectedStatus is the connection-status value that means reachable.
const ConnectedStatus = "connected"

// Snapshots bundles the latest snapshot of each family. A nil field means the
// family's document was absent.
type Snapshots struct {
	Compute         []Instance    `json:"compute,omitempty" yaml:"compute,omitempty"`
	LoadBalancer    *LoadBalancer `json:"loadBalancer,omitempty" yaml:"load_balancer,omitempty"`
	Database        *Database     `json:"database,omitempty" yaml:"database,omitempty"`
	Network         *Network      `json:"network,omitempty" yaml:"network,omitempty"`
	Storage         *Bucket       `json:"storage,omitempty" yaml:"storage,omitempty"`
	ContentDelivery *Distribution `json:"contentDelivery,omitempty" yaml:"content_delivery,omitempty"`
}

// Has reports whether the snapshot for f is present.
func (s Snapshots) Has(f Family) bool {
	switch f {
	case FamilyCompute:
		return s.Compute != nil
	case FamilyLoadBalancer:
		return s.LoadBalancer != nil
	case FamilyDatabase:
		return s.Database != nil
	case FamilyNetwork:
		return s.Network != nil
	case FamilyStorage:
		return s.Storage != nil
	case FamilyContentDelivery:
		return s.ContentDelivery != nil
	}
	return false
}

// Only returns a copy holding just the snapshot for f.
func (s Snapshots) Only(f Family) Snapshots {
	var out Snapshots
	switch f {
	case FamilyCompute:
		out.Compute = s.Compute
	case FamilyLoadBalancer:
		out.LoadBalancer = s.LoadBalancer
	case FamilyDatabase:
		out.Database = s.Database
	case FamilyNetwork:
		out.Network = s.Network
	case FamilyStorage:
		out.Storage = s.Storage
	case FamilyContentDelivery:
		out.ContentDelivery = s.ContentDelivery
	}
	return out
}

// Merge returns s with every family present in other taken from other.
func (s Snapshots) Merge(other Snapshots) Snapshots {
	for _, f := range allFamilies {
		if other.Has(f) {
			s = s.with(f, other)
		}
	}
	return s
}

func (s Snapshots) with(f Family, src Snapshots) Snapshots {
	switch f {
	case FamilyCompute:
		s.Compute = src.Compute
	case FamilyLoadBalancer:
		s.LoadBalancer = src.LoadBalancer
	case FamilyDatabase:
		s.Database = src.Database
	case FamilyNetwork:
		s.Network = src.Network
	case FamilyStorage:
		s.Storage = src.Storage
	case FamilyContentDelivery:
		s.ContentDelivery = src.ContentDelivery
	}
	return s
}

// InfrastructureStatus is the aggregate document bundling every family.
type InfrastructureStatus struct {
	Status               string        `json:"status,omitempty"`
	Message              string        `json:"message,omitempty"`
	LastUpdated          Timestamp     `json:"lastUpdated"`
	EC2Instances         []Instance    `json:"ec2Instances,omitempty"`
	LoadBalancer         *LoadBalancer `json:"loadBalancer,omitempty"`
	Database             *Database     `json:"database,omitempty"`
	Storage              *Bucket       `json:"storage,omitempty"`
	CDN                  *Distribution `json:"cdn,omitempty"`
	Network              *Network      `json:"network,omitempty"`
	Progress             *int          `json:"progress,omitempty"`
	TotalResourceCount   *int          `json:"totalResourceCount,omitempty"`
	HealthyResourceCount *int          `json:"healthyResourceCount,omitempty"`
}

// Snapshots extracts the per-family snapshots. A nil document yields no snapshots.
func (s *InfrastructureStatus) Snapshots() Snapshots {
	if s == nil {
		return Snapshots{}
	}
	return Snapshots{
		Compute:         s.EC2Instances,
		LoadBalancer:    s.LoadBalancer,
		Database:        s.Database,
		Network:         s.Network,
		Storage:         s.Storage,
		ContentDelivery: s.CDN,
	}
}

// ConnectionStatus is the connectivity ping document.
type ConnectionStatus struct {
	Status    string    `json:"status,omitempty"`
	Message   string    `json:"message,omitempty"`
	Progress  *int      `json:"progress,omitempty"`
	Timestamp Timestamp `json:"timestamp"`
}

// Connected reports whether the backend says the infrastructure is reachable.
func (c *ConnectionStatus) Connected() bool {
	return c != nil && c.Status == ConnectedStatus
}

// HealthReport is the backend's own component health summary.
type HealthReport struct {
	Status     string                     `json:"status,omitempty" yaml:"status,omitempty"`
	Timestamp  Timestamp                  `json:"timestamp" yaml:"timestamp,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty" yaml:"components,omitempty"`
	Error      string                     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Up reports whether the backend reported status UP.
func (h *HealthReport) Up() bool {
	return h != nil && h.Status == "UP"
}

// ComponentHealth is one entry of HealthReport.Components.
type ComponentHealth struct {
	Status   string `json:"status,omitempty" yaml:"status,omitempty"`
	Count    *int   `json:"count,omitempty" yaml:"count,omitempty"`
	Healthy  *int   `json:"healthy,omitempty" yaml:"healthy,omitempty"`
	DNS      string `json:"dns,omitempty" yaml:"dns,omitempty"`
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	Bucket   string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
}
