package ui

import "os"

// nfEnabled reports whether Nerd Font glyphs should be drawn. They are on by
// default; NERDFONT=0 falls back to plain text.
func nfEnabled() bool {
	return os.Getenv("NERDFONT") != "0"
}

func nf(icon, fallback string) string {
	if nfEnabled() {
		return icon
	}
	return fallback
}

func IconBranch() string  { return nf(" ", "") } // nf-dev-git_branch
func IconEditor() string  { return nf(" ", "") } // fa-pencil_square_o
func IconBackend() string { return nf(" ", "") } // nf-oct-cpu
