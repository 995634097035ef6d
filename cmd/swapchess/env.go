package main

import (
	"errors"
	"flag"
	"fmt"
	iofs "io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// envPrefix marks environment variables that supply flag defaults, such as
// SWAPCHESS_ENGINE for -engine.
const envPrefix = "SWAPCHESS_"

// noEnv lists flags that only make sense on the command line.
var noEnv = map[string]bool{"h": true, "version": true, "env": true}

// envKey returns the environment variable for a flag name.
func envKey(name string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

// applyEnvDefaults fills every flag not given on the command line from the
// environment, then from the env file at path. A missing file is ignored.
func applyEnvDefaults(fs *flag.FlagSet, path string) error {
	fileEnv := map[string]string{}
	if path != "" {
		m, err := godotenv.Read(path)
		switch {
		case errors.Is(err, iofs.ErrNotExist):
		case err != nil:
			return fmt.Errorf("reading %s: %w", path, err)
		default:
			fileEnv = m
		}
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	var err error
	fs.VisitAll(func(f *flag.Flag) {
		if err != nil || explicit[f.Name] || noEnv[f.Name] {
			return
		}
		key := envKey(f.Name)
		value, ok := os.LookupEnv(key)
		if !ok {
			value, ok = fileEnv[key]
		}
		if !ok {
			return
		}
		if serr := fs.Set(f.Name, value); serr != nil {
			err = fmt.Errorf("%s: %w", key, serr)
		}
	})
	return err
}
