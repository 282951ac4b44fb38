// Package cli implements the infradash command-line interface.
//
// Every command is built by a constructor taking the shared global flags, so
// NewRootCmd returns an independent command tree. Commands load the config,
// build an API client, and delegate to the probe, dashboard, and votes
// packages for the actual work.
//
// # Command Structure
//
//	infradash probe              - Staged connectivity check
//	infradash status [view]      - One-shot health table (or --json/--yaml)
//	infradash dashboard          - Full-screen dashboard
//	infradash health             - Backend and votes service health
//	infradash votes [list|show|cast|create|deactivate|forget]
//	infradash config [init|set|show|path]
//	infradash version
//	infradash completion <shell>
//
// # Flag Handling
//
// Global flags (--config, --server, --no-color) are defined on the root
// command. --server overrides server.url after the config is loaded, so it
// wins over both the file and INFRADASH_SERVER_URL.
//
// # Exit Codes
//
// Commands that already reported their outcome (a disconnected probe, an
// unhealthy backend) return an errors.ExitError so Execute exits non-zero
// without printing anything else.
package cli
