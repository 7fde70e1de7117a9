package config

import (
	"path/filepath"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/gddload/gddload/pkg/errors"
)

const (
	// UserConfigPath is the default path to the gddload user config.
	UserConfigPath = "~/.gddload.yaml"

	// InitialUserConfigVersion is the first version of the gddload user
	// config. Config files that do not specify a version will default to
	// this version.
	InitialUserConfigVersion = "v1"

	// SupportedUserConfigVersion is the supported version of the gddload
	// user config of the current gddload binary.
	SupportedUserConfigVersion = "v1"
)

// User contains the persistent settings shared by all runs: the service
// account key used for Drive access, and the default download destination.
type User struct {
	Version     string `json:"version,omitempty"`
	Credentials string `json:"credentials,omitempty"`
	SavePath    string `json:"save_path,omitempty"`
}

func (u User) getVersion() string {
	return u.Version
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// ParseUser attempts to parse the User stored in the default path.
// A missing config file surfaces as errors.FileNotFound; callers that can
// run from flags alone treat that as an empty config.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config := User{Version: InitialUserConfigVersion}
	if err := parseConfig(path, &config, SupportedUserConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return User{}, err
		}
		return User{}, errors.WithContext(err, "parse")
	}

	config.Credentials, err = homedirExpand(config.Credentials)
	if err != nil {
		return User{}, errors.WithContext(err, "expand credentials path")
	}

	config.SavePath, err = homedirExpand(config.SavePath)
	if err != nil {
		return User{}, errors.WithContext(err, "expand save path")
	}

	// Evaluate relative paths relative to the config path.
	if config.Credentials != "" && !filepath.IsAbs(config.Credentials) {
		config.Credentials = filepath.Join(filepath.Dir(path), config.Credentials)
	}
	return config, nil
}

// WriteUser writes the given user config to disk.
func WriteUser(cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetUserConfigPath returns the path to the user's global gddload
// configuration. This path is expanded, so it can be directly passed to file
// operations.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}
