package probe

import (
	"time"
)

// Status is the state of a connection check.
type Status int

const (
	Idle Status = iota
	Checking
	Connected
	Disconnected
	Failed
)

// String returns a lowercase name for the status.
func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Checking:
		return "checking"
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further automatic transition follows.
func (s Status) Terminal() bool {
	return s == Connected || s == Disconnected || s == Failed
}

// Reason explains a Failed check.
type Reason int

const (
	ReasonNone Reason = iota
	// ReasonTimeout means the real query did not finish within the budget.
	ReasonTimeout
	// ReasonTransport means the query could not complete or returned garbage.
	ReasonTransport
	// ReasonInvalid means the check was started with a non-positive timeout.
	ReasonInvalid
)

func (r Reason) String() string {
	switch r {
	case ReasonTimeout:
		return "timeout"
	case ReasonTransport:
		return "transport"
	case ReasonInvalid:
		return "invalid"
	default:
		return "none"
	}
}

// Check is a snapshot of one probe run. Listeners and callers always receive
// copies; the probe replaces its check wholesale on every change.
type Check struct {
	ID         string
	Status     Status
	Progress   int
	Message    string
	Phase      int // 1-based index of the last reported phase, 0 before the first
	Reason     Reason
	Detail     string // underlying error text for Failed checks
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the run took, or zero while it is still going.
func (c Check) Duration() time.Duration {
	if c.FinishedAt.IsZero() {
		return 0
	}
	return c.FinishedAt.Sub(c.StartedAt)
}

// Phase is one simulated step of the check.
type Phase struct {
	Name     string
	Progress int
	Message  string
}

// DefaultPhases returns the five standard phases, one per resource group.
func DefaultPhases() []Phase {
	return []Phase{
		{Name: "compute", Progress: 20, Message: "Checking EC2 instance connectivity..."},
		{Name: "load-balancer", Progress: 40, Message: "Checking ALB health checks..."},
		{Name: "database", Progress: 60, Message: "Checking RDS connectivity..."},
		{Name: "storage", Progress: 80, Message: "Checking S3 and CloudFront..."},
		{Name: "network", Progress: 100, Message: "Checking VPC network state..."},
	}
}

// Messages for states that are not tied to a phase.
const (
	MsgStarting     = "Checking AWS resource connectivity..."
	MsgConnected    = "Connected to AWS resources"
	MsgDisconnected = "AWS resources are not connected"
)
