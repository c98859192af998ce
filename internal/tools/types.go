package tools

// Target is one editor binary to probe.
type Target struct {
	Name        string
	Binary      string
	Terminal    bool
	VersionArgs [][]string
}

// CheckResult reports whether a target's binary is usable.
type CheckResult struct {
	Target
	Installed bool
	Path      string
	Version   string
	Source    string // the command that produced Version
	Err       string
}
