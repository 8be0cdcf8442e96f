// Package platform carries the runtime context ToolForge threads
// through its constructors: the current operating system, the default
// shell dialect, and the definition store location. Keeping this an
// explicit value rather than process-wide state makes components
// testable and safe to use with several contexts in one process.
package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

// Platform is the execution context for one engine instance.
type Platform struct {
	// OS is the normalized platform name ("linux", "darwin",
	// "windows", "freebsd", ...).
	OS string

	// Shell is the default dialect name used when a caller does not
	// request one.
	Shell string

	// StoreDir is the tool definition store directory.
	StoreDir string
}

// UnsupportedError reports a platform name no component recognizes.
type UnsupportedError struct {
	Name string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("unsupported platform %q", e.Name)
}

var knownPlatforms = map[string]string{
	"linux":   "linux",
	"darwin":  "darwin",
	"macos":   "darwin",
	"osx":     "darwin",
	"windows": "windows",
	"freebsd": "freebsd",
	"openbsd": "openbsd",
	"netbsd":  "netbsd",
}

// Normalize maps a platform name or alias to its canonical form.
// Unknown names are configuration errors, not guesses.
func Normalize(name string) (string, error) {
	canonical, ok := knownPlatforms[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return "", &UnsupportedError{Name: name}
	}
	return canonical, nil
}

// Detect builds a Platform from the running process: GOOS, the $SHELL
// basename (powershell on Windows, sh otherwise), and the XDG data
// directory for the definition store.
func Detect() *Platform {
	return &Platform{
		OS:       runtime.GOOS,
		Shell:    defaultShell(),
		StoreDir: filepath.Join(xdg.DataHome, "toolforge", "tools"),
	}
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "powershell"
	}
	if sh := os.Getenv("SHELL"); sh != "" {
		return filepath.Base(sh)
	}
	return "sh"
}

// Matches reports whether name (or one of its aliases) refers to this
// platform.
func (p *Platform) Matches(name string) bool {
	canonical, err := Normalize(name)
	if err != nil {
		return false
	}
	return canonical == p.OS
}

// ExecutableSuffixes returns the candidate filename suffixes for
// executables on this platform, most specific first.
func (p *Platform) ExecutableSuffixes() []string {
	if p.OS == "windows" {
		return []string{".exe", ".bat", ".cmd", ""}
	}
	return []string{""}
}

// ResolveExecutable finds the absolute path of an executable. When
// searchGlobs are given they are checked in order before PATH; each
// glob's matches are probed for <name><suffix>. PATH lookup falls back
// to exec.LookPath with the platform's suffix conventions.
func (p *Platform) ResolveExecutable(name string, searchGlobs []string) (string, error) {
	for _, glob := range searchGlobs {
		matches, err := filepath.Glob(glob)
		if err != nil {
			return "", fmt.Errorf("invalid search glob %q: %w", glob, err)
		}
		for _, dir := range matches {
			for _, suffix := range p.ExecutableSuffixes() {
				candidate := filepath.Join(dir, name+suffix)
				if isExecutable(candidate) {
					return filepath.Abs(candidate)
				}
			}
		}
	}

	for _, suffix := range p.ExecutableSuffixes() {
		if path, err := exec.LookPath(name + suffix); err == nil {
			return filepath.Abs(path)
		}
	}
	return "", fmt.Errorf("executable %q not found", name)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
