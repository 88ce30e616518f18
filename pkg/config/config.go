// Copyright 2026 The KuiBa Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/BurntSushi/toml"
	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/pingcap/errors"
	"go.uber.org/zap/zapcore"
)

// ErrConfigFile is returned when a configuration file cannot be read,
// decoded or validated.
var ErrConfigFile = errors.Normalize("invalid configuration file %s: %s", errors.RFCCodeText("KuiBa:Config:ErrConfigFile"))

// Config contains configuration options.
type Config struct {
	Log    Log    `toml:"log" json:"log"`
	Status Status `toml:"status" json:"status"`
	// GUC holds the runtime parameters, keyed by parameter name. It is
	// applied by the parameter store, not merged like the other sections.
	GUC map[string]interface{} `toml:"guc" json:"-"`
}

// Log is the log section of config.
type Log struct {
	// Log level.
	Level string `toml:"level" json:"level"`
	// Log format. one of json, text, or console.
	Format string `toml:"format" json:"format"`
	// Disable automatic timestamps in output.
	DisableTimestamp bool `toml:"disable-timestamp" json:"disable-timestamp"`
	// File log config.
	File logutil.FileLogConfig `toml:"file" json:"file"`
}

// Status is the status section of the config.
type Status struct {
	ReportStatus bool   `toml:"report-status" json:"report-status"`
	StatusHost   string `toml:"status-host" json:"status-host"`
	StatusPort   uint   `toml:"status-port" json:"status-port"`
}

var defaultConf = Config{
	Log: Log{
		Level:  logutil.DefaultLogLevel,
		Format: logutil.DefaultLogFormat,
		File:   logutil.NewFileLogConfig(logutil.DefaultLogMaxSize),
	},
	Status: Status{
		ReportStatus: true,
		StatusHost:   "0.0.0.0",
		StatusPort:   10080,
	},
}

var globalConf atomic.Pointer[Config]

func init() {
	StoreGlobalConfig(NewConfig())
}

// NewConfig creates a new config instance with default value.
func NewConfig() *Config {
	conf := defaultConf
	conf.GUC = make(map[string]interface{})
	return &conf
}

// GetGlobalConfig returns the global configuration for this server.
// It should store configuration from command line and configuration file.
// Other parts of the system can read the global configuration use this function.
func GetGlobalConfig() *Config {
	return globalConf.Load()
}

// StoreGlobalConfig stores a new config to the globalConf. It mostly uses in the test to avoid some data races.
func StoreGlobalConfig(config *Config) {
	globalConf.Store(config)
}

// Load loads config options from a toml file. Keys the server does not
// know are rejected.
func (c *Config) Load(confFile string) error {
	metaData, err := toml.DecodeFile(confFile, c)
	if err != nil {
		return ErrConfigFile.GenWithStackByArgs(confFile, err.Error())
	}
	if undecoded := metaData.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, item := range undecoded {
			keys = append(keys, item.String())
		}
		return ErrConfigFile.GenWithStackByArgs(confFile, "unknown configuration options: "+strings.Join(keys, ", "))
	}
	return nil
}

// Valid checks if this config is valid.
func (c *Config) Valid() error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return errors.Errorf("invalid log level %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json", "console":
	default:
		return errors.Errorf("invalid log format %q, must be one of text, json or console", c.Log.Format)
	}
	if c.Status.StatusPort > 65535 {
		return errors.Errorf("status-port should be less than or equal to 65535")
	}
	_, err := c.GUCSource()
	return err
}

// GUCSource converts the [guc] table into a parameter source. TOML
// integers, floats, booleans and strings become literals; anything else
// is an error.
func (c *Config) GUCSource() (guc.Source, error) {
	src := make(guc.Source, len(c.GUC))
	names := make([]string, 0, len(c.GUC))
	for name := range c.GUC {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		switch v := c.GUC[name].(type) {
		case string:
			src[name] = v
		case int64:
			src[name] = strconv.FormatInt(v, 10)
		case float64:
			src[name] = strconv.FormatFloat(v, 'g', -1, 64)
		case bool:
			src[name] = strconv.FormatBool(v)
		default:
			return nil, errors.Errorf("guc.%s: unsupported value %v of type %T", name, v, v)
		}
	}
	return src, nil
}

// ToLogConfig converts *Log to *logutil.LogConfig.
func (l *Log) ToLogConfig() *logutil.LogConfig {
	return logutil.NewLogConfig(l.Level, l.Format, l.File, l.DisableTimestamp)
}

// StatusAddr returns the listen address of the status server.
func (s *Status) StatusAddr() string {
	return fmt.Sprintf("%s:%d", s.StatusHost, s.StatusPort)
}
