// Copyright 2025 MediaGenAI, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config defines the application configuration. This file
// implements the hierarchical TOML loader: a base file is read first and
// an environment-specific file overlays it, with the directory prefix and
// runtime name taken from environment variables.
package config

import (
	"errors"
	"log"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Configuration loading constants.
const (
	ConfigFileBaseName  = ".env"                   // Base name for config files (".env.toml").
	ConfigFileExtension = ".toml"                  // Extension for config files.
	ConfigSeparator     = "."                      // Separator in overlay names (".env.local.toml").
	EnvConfigFilePrefix = "TRAILER_CONFIG_PREFIX"  // Directory holding the config files.
	EnvConfigRuntime    = "TRAILER_RUNTIME"        // Runtime name selecting the overlay file.
)

// fileExists reports whether a file or directory exists at the path.
func fileExists(in string) bool {
	_, err := os.Stat(in)
	return !errors.Is(err, os.ErrNotExist)
}

// Load populates the given config from the base file and then from the
// environment-specific overlay, if either exists. Values in the overlay
// win. The runtime defaults to "local" when TRAILER_RUNTIME is unset.
//
// Inputs:
//   - baseConfig: A pointer to the target configuration struct.
func Load(baseConfig interface{}) {
	prefix := os.Getenv(EnvConfigFilePrefix)
	if len(prefix) > 0 && !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix = prefix + string(os.PathSeparator)
	}

	runtime := os.Getenv(EnvConfigRuntime)
	if runtime == "" {
		runtime = "local"
	}

	baseFile := prefix + ConfigFileBaseName + ConfigFileExtension
	overlayFile := prefix + ConfigFileBaseName + ConfigSeparator + runtime + ConfigFileExtension

	if fileExists(baseFile) {
		if _, err := toml.DecodeFile(baseFile, baseConfig); err != nil {
			log.Fatalf("failed to decode base configuration file %s with error: %s", baseFile, err)
		}
	}

	if fileExists(overlayFile) {
		if _, err := toml.DecodeFile(overlayFile, baseConfig); err != nil {
			log.Fatalf("failed to decode environment configuration file %s with error: %s", overlayFile, err)
		}
	}
}
