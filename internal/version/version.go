// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Body facts via OpenAI-compatible endpoint, metrics endpoint, snapshot command
// 0.2.0 - Procedural shading: lit hemispheres, gas giant bands, rings, home world
// 0.1.0 - Initial release: orbiting bodies, pan/zoom/focus camera, mouse selection
