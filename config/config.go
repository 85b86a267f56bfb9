// Copyright 2020, Square, Inc.

// Package config handles the imageflow-d config file.
package config

import (
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

const (
	DEFAULT_LISTEN_ADDRESS = "127.0.0.1:9654"
)

// The config used by imageflow-d. This is read from in
// cmd/imageflow-d/main.go.
type Daemon struct {
	// The config that the web server will run with.
	Server `yaml:"server"`
}

// Configuration for the web server.
type Server struct {
	// The address the server will listen on (ex: "127.0.0.1:9654").
	ListenAddress string `yaml:"listen_address"`
}

// Defaults returns a Daemon config with default values, used when no config
// file is given or a field is unset.
func Defaults() Daemon {
	return Daemon{
		Server: Server{
			ListenAddress: DEFAULT_LISTEN_ADDRESS,
		},
	}
}

// Load loads a configuration file into the struct pointed to by the
// configStruct argument.
func Load(configFile string, configStruct interface{}) error {
	// Make sure the file exists.
	_, err := os.Stat(configFile)
	if err != nil {
		return err
	}

	// Read the file.
	data, err := ioutil.ReadFile(configFile)
	if err != nil {
		return err
	}

	// Unmarshal the contents of the file into the provided struct.
	err = yaml.Unmarshal(data, configStruct)
	if err != nil {
		return err
	}

	return nil
}
