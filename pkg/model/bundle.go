package model

import (
	"path/filepath"
	"strings"
)

const (
	// DefaultProfile is the profile of bundle configurations which do not declare any
	DefaultProfile = "default"

	// ConfigFileName is the name of the configuration files describing bundles
	ConfigFileName = "spkl.json"
)

// Mode tells in which direction a synchronization cycle runs
type Mode string

const (
	// ModeUnpack pulls a bundle from the remote service into the local tree
	ModeUnpack Mode = "unpack"

	// ModePackAndUpload pushes the local tree to the remote service
	ModePackAndUpload Mode = "import"
)

func (m Mode) String() string {
	return string(m)
}

// BundleConfig maps a remote bundle to a package folder on disk.
//
// It is immutable once loaded: one instance drives one synchronization cycle.
type BundleConfig struct {
	Profile           string `json:"profile,omitempty" yaml:"profile,omitempty"`
	UniqueName        string `json:"solution_uniquename" yaml:"solution_uniquename"`
	PackagePath       string `json:"packagepath" yaml:"packagepath"`
	IncrementOnImport bool   `json:"increment_on_import,omitempty" yaml:"increment_on_import,omitempty"`
	_                 struct{}
}

// MatchesProfile tells if the bundle configuration belongs to a profile.
//
// Entries may list several comma-separated profiles. Entries without a profile
// belong to the default profile.
func (b BundleConfig) MatchesProfile(profile string) bool {
	if profile == "" {
		profile = DefaultProfile
	}
	if strings.TrimSpace(b.Profile) == "" {
		return strings.EqualFold(profile, DefaultProfile)
	}
	for _, p := range strings.Split(b.Profile, ",") {
		if strings.EqualFold(strings.TrimSpace(p), profile) {
			return true
		}
	}
	return false
}

// BundleConfigs is the content of a configuration file
type BundleConfigs struct {
	Solutions []BundleConfig `json:"solutions" yaml:"solutions"`
	_         struct{}
}

// ConfigFile is a loaded configuration file, located in folder Path
type ConfigFile struct {
	// Path is the folder holding the configuration file: package paths are relative to it
	Path      string
	Solutions []BundleConfig
}

// SolutionConfigs returns the bundle configurations selected by a profile
func (c ConfigFile) SolutionConfigs(profile string) []BundleConfig {
	selected := make([]BundleConfig, 0, len(c.Solutions))
	for _, s := range c.Solutions {
		if s.MatchesProfile(profile) {
			selected = append(selected, s)
		}
	}
	return selected
}

// PackageFolder resolves the package folder of a bundle configuration
func (c ConfigFile) PackageFolder(b BundleConfig) string {
	if filepath.IsAbs(b.PackagePath) {
		return filepath.Clean(b.PackagePath)
	}
	return filepath.Join(c.Path, filepath.FromSlash(b.PackagePath))
}

// BundleIdentity is the remote identity of a bundle.
//
// It is a snapshot valid for a single cycle: the version may change remotely between cycles.
type BundleIdentity struct {
	UniqueName string `json:"uniquename" yaml:"uniquename"`
	Version    string `json:"version" yaml:"version"`
}
