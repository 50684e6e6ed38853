// Package config discovers and loads bundle configuration files.
//
// Configuration files are named spkl.json. They may be written in JSON or YAML:
//
//	{
//	  "solutions": [
//	    {
//	      "profile": "default,ci",
//	      "solution_uniquename": "contoso",
//	      "packagepath": "package",
//	      "increment_on_import": true
//	    }
//	  ]
//	}
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/oneconcern/solsync/pkg/config/status"
	"github.com/oneconcern/solsync/pkg/model"
	"github.com/spf13/afero"
)

// folders never searched for configuration files
var skipped = map[string]bool{
	".git":         true,
	"node_modules": true,
	"bin":          true,
	"obj":          true,
}

// FindConfig loads every configuration file found under folder, in lexical order
func FindConfig(fs afero.Fs, folder string) ([]model.ConfigFile, error) {
	var paths []string
	err := afero.Walk(fs, folder, func(pth string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if pth != folder && skipped[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.EqualFold(info.Name(), model.ConfigFileName) {
			paths = append(paths, pth)
		}
		return nil
	})
	if err != nil {
		return nil, status.ErrNoConfig.Wrap(err)
	}
	if len(paths) == 0 {
		return nil, status.ErrNoConfig.WrapMessage("no %s under %s", model.ConfigFileName, folder)
	}

	configs := make([]model.ConfigFile, 0, len(paths))
	for _, pth := range paths {
		cfg, err := Load(fs, pth)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// Load a single configuration file
func Load(fs afero.Fs, pth string) (model.ConfigFile, error) {
	content, err := afero.ReadFile(fs, pth)
	if err != nil {
		return model.ConfigFile{}, status.ErrInvalidConfig.Wrap(err)
	}

	var bundles model.BundleConfigs
	if err = yaml.Unmarshal(content, &bundles); err != nil {
		return model.ConfigFile{}, status.ErrInvalidConfig.WrapMessage("%s: %v", pth, err)
	}
	for i, b := range bundles.Solutions {
		if strings.TrimSpace(b.UniqueName) == "" {
			return model.ConfigFile{}, status.ErrInvalidConfig.WrapMessage("%s: solution #%d has no solution_uniquename", pth, i+1)
		}
		if strings.TrimSpace(b.PackagePath) == "" {
			return model.ConfigFile{}, status.ErrInvalidConfig.WrapMessage("%s: solution %q has no packagepath", pth, b.UniqueName)
		}
	}

	return model.ConfigFile{
		Path:      filepath.Dir(pth),
		Solutions: bundles.Solutions,
	}, nil
}
