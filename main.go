// =============================================================================
// Kebab Dashboard - Main Entry Point
// =============================================================================
//
// USAGE:
//   kebab-dashboard serve     - Run the web dashboard
//   kebab-dashboard export    - Write a transaction report to the export dir
//   kebab-dashboard summary   - Print the aggregated transactions
//   kebab-dashboard session   - Check a raw session token
//   kebab-dashboard version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : core logic (transactions, aggregation, reports, session,
//                  backend client, catalog, weather, HTTP server)
//   - pkg/       : shared logger and export file helpers
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/kebab-dashboard/cmd"
)

func main() {
	cmd.Execute()
}
