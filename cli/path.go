package cli

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zlang-dev/zlang/pkg"
)

// baseConfig is the base name of the configuration file.
const baseConfig = "config"

// defaultDirMode is the default permission mode for created directories.
var defaultDirMode os.FileMode = 0o700

// basePrefix returns the base prefix string used to construct the paths to
// the configuration and cache directories.
//
// By default, basePrefix is the base name of the executable file with any
// leading dots removed; it falls back to [pkg.Name] when the executable
// cannot be resolved.
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]

		exe, err := os.Executable()
		if err == nil {
			id = exe
		}

		ext := filepath.Ext(filepath.Base(id))
		id = strings.TrimSuffix(filepath.Base(id), ext)
		id = strings.TrimLeft(id, ".")

		if id == "" {
			return pkg.Name
		}

		return id
	},
)

// configDir returns the configuration directory path.
var configDir = sync.OnceValue(
	func() string {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".config")
			} else {
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, basePrefix())
	},
)

// cacheDir returns the cache directory path used for transient files such
// as the REPL history database.
var cacheDir = sync.OnceValue(
	func() string {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir, err = os.UserHomeDir()
			if err == nil {
				dir = filepath.Join(dir, ".cache")
			} else {
				dir, err = os.Getwd()
				if err != nil {
					dir = "."
				}
			}
		}

		return filepath.Join(dir, basePrefix())
	},
)

// configPath returns the absolute path to a file or directory formed by
// joining the configuration directory path with the given path elements.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

// mkdirAllRequired creates all required runtime directories.
func mkdirAllRequired() error {
	err := os.MkdirAll(configDir(), defaultDirMode)
	if err != nil {
		return err
	}

	return os.MkdirAll(cacheDir(), defaultDirMode)
}
