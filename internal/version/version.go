// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Device sensor feed over WebSocket, pointing trail on the star map
// 0.2.0 - Star map view, habitable-zone rings, log-period animation mode
// 0.1.0 - Initial release: catalog browser, system view, headless summary
