// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Festival rule files with live reload, TUI festivals view, metrics endpoint
// 0.2.0 - Vimshottari Dasha with Antardashas, tithi and nakshatra end times
// 0.1.0 - Initial release: panchang elements, choghadiya, Rahu Kalam, festival scan
