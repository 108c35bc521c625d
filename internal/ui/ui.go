// Package ui embeds the static dashboard.
package ui

import "embed"

//go:embed dist
var DistFS embed.FS
