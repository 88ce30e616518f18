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

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/kuiba-db/kuiba/pkg/config"
	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/guc/vardef"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/kuiba-db/kuiba/pkg/util/versioninfo"
	"github.com/pingcap/errors"
	"github.com/pingcap/log"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	flagConfig   = "config"
	flagLogLevel = "log-level"
)

func main() {
	rootCmd := newRootCommand()
	// Outputs cmd.Print to stdout.
	rootCmd.SetOut(os.Stdout)
	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		log.Error("kuiba-server failed", zap.Error(err))
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "kuiba-server",
		Short:        "kuiba-server runs the KuiBa runtime parameter service.",
		Args:         cobra.NoArgs,
		Version:      versioninfo.Info(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			b, err := bootstrapFromFlags(ctx, cmd, true)
			if err != nil {
				return err
			}
			return runServer(ctx, b)
		},
	}
	cmd.PersistentFlags().StringP(flagConfig, "c", "", "path of the configuration file")
	cmd.PersistentFlags().String(flagLogLevel, "", "log level, overrides the configuration file")
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.AddCommand(newShowAllCommand())
	return cmd
}

// bootstrap is the state the server starts from.
type bootstrap struct {
	cfg    *config.Config
	store  *guc.Store
	source *config.FileSource
}

func bootstrapFromFlags(ctx context.Context, cmd *cobra.Command, initLogger bool) (*bootstrap, error) {
	path, err := cmd.Flags().GetString(flagConfig)
	if err != nil {
		return nil, errors.Trace(err)
	}
	level, err := cmd.Flags().GetString(flagLogLevel)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return newBootstrap(ctx, path, level, initLogger)
}

// newBootstrap loads the configuration file, builds the parameter store
// and applies the file's [guc] table with the startup loader. The store is
// left in its startup phase.
func newBootstrap(ctx context.Context, path, level string, initLogger bool) (*bootstrap, error) {
	cfg := config.NewConfig()
	if path != "" {
		if err := cfg.Load(path); err != nil {
			return nil, err
		}
	}
	if level != "" {
		cfg.Log.Level = level
	}
	if err := cfg.Valid(); err != nil {
		return nil, errors.Annotate(err, "invalid configuration")
	}
	if initLogger {
		if err := logutil.InitLogger(cfg.Log.ToLogConfig()); err != nil {
			return nil, err
		}
	}
	config.StoreGlobalConfig(cfg)

	store, err := vardef.NewStore()
	if err != nil {
		return nil, errors.Annotate(err, "build parameter catalog")
	}
	src, err := cfg.GUCSource()
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err := store.LoadStartup(ctx, src); err != nil {
		return nil, err
	}
	return &bootstrap{cfg: cfg, store: store, source: config.NewFileSource(path)}, nil
}
