package tui

import (
	"runtime"
	"strings"
)

// OSType represents the operating system type
type OSType int

const (
	OSMac OSType = iota
	OSLinux
	OSWindows
	OSUnknown
)

// GetOS returns the current operating system type
func GetOS() OSType {
	switch runtime.GOOS {
	case "darwin":
		return OSMac
	case "linux":
		return OSLinux
	case "windows":
		return OSWindows
	default:
		return OSUnknown
	}
}

// ShortcutKey represents a keyboard shortcut with OS-specific variations
type ShortcutKey struct {
	Mac     string
	Linux   string
	Windows string
	Default string // Fallback if OS-specific not defined
}

// Get returns the appropriate shortcut for the current OS
func (s ShortcutKey) Get() string {
	os := GetOS()
	switch os {
	case OSMac:
		if s.Mac != "" {
			return s.Mac
		}
	case OSLinux:
		if s.Linux != "" {
			return s.Linux
		}
	case OSWindows:
		if s.Windows != "" {
			return s.Windows
		}
	}
	return s.Default
}

// Shortcuts are the builder and list keybindings.
var Shortcuts = struct {
	Save          ShortcutKey
	Delete        ShortcutKey
	Run           ShortcutKey
	Copy          ShortcutKey
	Validate      ShortcutKey
	Manual        ShortcutKey
	SwitchPane    ShortcutKey
	ReverseSwitch ShortcutKey
	ReorderUp     ShortcutKey
	ReorderDown   ShortcutKey
	New           ShortcutKey
	Archive       ShortcutKey
	Theme         ShortcutKey
	Quit          ShortcutKey
	Cancel        ShortcutKey
	Confirm       ShortcutKey
}{
	Save: ShortcutKey{
		Mac:     "ctrl+s",
		Linux:   "alt+s", // ctrl+s is XOFF
		Windows: "alt+s",
		Default: "ctrl+s",
	},
	Delete: ShortcutKey{
		Mac:     "ctrl+d",
		Linux:   "alt+d", // ctrl+d is EOF
		Windows: "alt+d",
		Default: "ctrl+d",
	},
	Run: ShortcutKey{
		Mac:     "ctrl+r",
		Linux:   "alt+r",
		Windows: "alt+r",
		Default: "ctrl+r",
	},
	Copy:          ShortcutKey{Default: "y"},
	Validate:      ShortcutKey{Default: "v"},
	Manual:        ShortcutKey{Default: "m"},
	SwitchPane:    ShortcutKey{Default: "tab"},
	ReverseSwitch: ShortcutKey{Mac: "shift+tab", Linux: "shift+tab", Windows: "backtab", Default: "shift+tab"},
	ReorderUp:     ShortcutKey{Default: "K"},
	ReorderDown:   ShortcutKey{Default: "J"},
	New:           ShortcutKey{Default: "n"},
	Archive:       ShortcutKey{Default: "a"},
	Theme:         ShortcutKey{Default: "T"},
	Quit:          ShortcutKey{Default: "ctrl+c"},
	Cancel:        ShortcutKey{Default: "esc"},
	Confirm:       ShortcutKey{Default: "enter"},
}

// Matches reports whether a key press is this shortcut on the current OS.
// The default binding is always accepted as well.
func (s ShortcutKey) Matches(key string) bool {
	return key == s.Get() || key == s.Default
}

// FormatShortcutForHelp formats a shortcut key for display in help text
func FormatShortcutForHelp(key ShortcutKey) string {
	shortcut := key.Get()
	// Convert common representations to display format
	// Use M- prefix for Alt on Linux/Windows (common terminal convention)
	if GetOS() == OSLinux || GetOS() == OSWindows {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "M-")
	} else {
		shortcut = strings.ReplaceAll(shortcut, "alt+", "⌥")
	}
	shortcut = strings.ReplaceAll(shortcut, "ctrl+", "^")
	shortcut = strings.ReplaceAll(shortcut, "shift+", "⇧")
	shortcut = strings.ReplaceAll(shortcut, "cmd+", "⌘")

	// Handle function keys - capitalize them for display
	if strings.HasPrefix(shortcut, "f") && len(shortcut) <= 3 {
		return strings.ToUpper(shortcut)
	}

	// Handle delete key
	if shortcut == "delete" {
		return "Del"
	}

	return shortcut
}