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
	"time"

	"github.com/kuiba-db/kuiba/pkg/guc"
	"github.com/kuiba-db/kuiba/pkg/guc/vardef"
	"github.com/kuiba-db/kuiba/pkg/metrics"
	"github.com/kuiba-db/kuiba/pkg/server"
	"github.com/kuiba-db/kuiba/pkg/util/logutil"
	"github.com/kuiba-db/kuiba/pkg/util/versioninfo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const gracefulShutdownTimeout = 10 * time.Second

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterMetrics(reg)
	metrics.RegisterServerMetrics(reg)
	return reg
}

// runServer ends the startup phase and serves until ctx is done. SIGHUP
// reloads the configuration file.
func runServer(ctx context.Context, b *bootstrap) error {
	reloader := guc.NewReloader(b.store, b.source)
	unsubscribe := b.store.Emitter().Subscribe(guc.ListenerFunc(func(name, value string) {
		logutil.BgLogger().Info("reported parameter changed", zap.String("name", name), zap.String("value", value))
	}))
	defer unsubscribe()

	undo, err := maxprocs.Set(maxprocs.Logger(logutil.BgLogger().Sugar().Infof))
	if err != nil {
		logutil.BgLogger().Warn("failed to set GOMAXPROCS", zap.Error(err))
	}
	defer undo()

	b.store.Start()
	vardef.LogStorageLayout(b.store)
	metrics.ServerEventCounter.WithLabelValues(metrics.ServerStart).Inc()
	logutil.BgLogger().Info("kuiba-server started",
		zap.String("version", versioninfo.KuiBaReleaseVersion),
		zap.String("git-hash", versioninfo.KuiBaGitHash),
		zap.String("config", b.source.Path()),
		zap.Int("parameters", b.store.Catalog().Len()))

	g, gctx := errgroup.WithContext(ctx)
	if b.cfg.Status.ReportStatus {
		srv := server.NewServer(b.cfg, b.store, reloader, newRegistry())
		if err := srv.Listen(); err != nil {
			return err
		}
		g.Go(srv.Serve)
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
			defer cancel()
			return srv.Close(shutdownCtx)
		})
	}
	g.Go(func() error {
		sc := make(chan os.Signal, 1)
		signal.Notify(sc, syscall.SIGHUP)
		defer signal.Stop(sc)
		return reloadLoop(gctx, reloader, sc)
	})

	err = g.Wait()
	metrics.ServerEventCounter.WithLabelValues(metrics.ServerStop).Inc()
	logutil.BgLogger().Info("kuiba-server stopped", zap.Error(err))
	return err
}

// reloadLoop reloads once per value received on signals. A failed reload
// is logged and never stops the server.
func reloadLoop(ctx context.Context, reloader *guc.Reloader, signals <-chan os.Signal) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case sig := <-signals:
			metrics.ServerEventCounter.WithLabelValues(metrics.ServerReload).Inc()
			logger := logutil.Logger(logutil.WithCategory(ctx, "reload"))
			logger.Info("reloading configuration", zap.Stringer("signal", sig))
			report, err := reloader.Reload(ctx)
			if err == nil {
				err = report.Err()
			}
			if err != nil {
				logger.Warn("configuration reload incomplete", zap.Error(err))
			}
		}
	}
}
