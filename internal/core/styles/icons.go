package styles

// Group header markers
var (
	IconExpanded  = "▾"
	IconCollapsed = "▸"
)

// Notification icons
var (
	IconNotifyInfo    = "●"
	IconNotifyWarning = "▲"
	IconNotifyError   = "✖"
)

// IconCatalog prefixes the screen title.
var IconCatalog = "☰"
