package tui

// BuildInfo holds build-time metadata shown in the status line.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// Label returns a short version string, or "" when no version is set.
func (b BuildInfo) Label() string {
	if b.Version == "" {
		return ""
	}
	if b.Commit == "" || b.Commit == "none" {
		return b.Version
	}
	commit := b.Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return b.Version + " (" + commit + ")"
}
