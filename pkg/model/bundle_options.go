package model

// BundleConfigOption is a functor to build a bundle configuration with some options
type BundleConfigOption func(*BundleConfig)

// UniqueName defines the unique name of the remote bundle
func UniqueName(n string) BundleConfigOption {
	return func(b *BundleConfig) {
		b.UniqueName = n
	}
}

// PackagePath defines the package folder, relative to the configuration file
func PackagePath(p string) BundleConfigOption {
	return func(b *BundleConfig) {
		b.PackagePath = p
	}
}

// IncrementOnImport bumps the build segment of the version before packing
func IncrementOnImport(enabled bool) BundleConfigOption {
	return func(b *BundleConfig) {
		b.IncrementOnImport = enabled
	}
}

// Profile restricts the bundle configuration to some profiles (comma-separated)
func Profile(p string) BundleConfigOption {
	return func(b *BundleConfig) {
		b.Profile = p
	}
}

// NewBundleConfig builds a bundle configuration
func NewBundleConfig(opts ...BundleConfigOption) BundleConfig {
	var b BundleConfig
	for _, apply := range opts {
		apply(&b)
	}
	return b
}
