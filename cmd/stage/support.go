// Copyright 2025 Zintix Labs
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
	"flag"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/zintix-labs/gamedock/config"
	"github.com/zintix-labs/gamedock/demo"
	"github.com/zintix-labs/gamedock/perf"
	"github.com/zintix-labs/gamedock/report"
	"github.com/zintix-labs/gamedock/server/logger"
	"github.com/zintix-labs/gamedock/staging"
)

type options struct {
	configPath  string
	platform    string
	bundleDir   string
	documentDir string
	root        string
	concurrency int
	format      string
	progress    bool
	pprofMode   string
	pprofDir    string
	logMode     string

	stdout io.Writer
	stderr io.Writer
	bundle fs.FS
}

func bindFlags(args []string) (*options, *config.Config, error) {
	def := config.Default()
	o := &options{stdout: os.Stdout, stderr: os.Stderr, bundle: demo.Bundle()}
	fset := flag.NewFlagSet("stage", flag.ContinueOnError)
	fset.StringVar(&o.configPath, "config", "", "yaml config file")
	fset.StringVar(&o.platform, "platform", "", "platform override: ios|android|<goos>")
	fset.StringVar(&o.bundleDir, "bundle-dir", "", "mounted bundle directory (empty = embedded demo game)")
	fset.StringVar(&o.documentDir, "document-dir", def.Dirs.DocumentDir, "writable storage directory")
	fset.StringVar(&o.root, "root", def.RootDirectoryName, "game directory inside the bundle")
	fset.IntVar(&o.concurrency, "concurrency", def.Concurrency, "concurrent file copies")
	fset.StringVar(&o.format, "format", "text", "report format: text|yaml|json")
	fset.BoolVar(&o.progress, "progress", true, "show progress bar on stderr")
	fset.StringVar(&o.pprofMode, "p", "", "pprof: '', cpu, heap, allocs")
	fset.StringVar(&o.pprofDir, "pprof-dir", perf.DefaultDir, "pprof output directory")
	fset.StringVar(&o.logMode, "log-mode", logger.ModeSilence.String(), "log mode: dev|prod|silence")
	if err := fset.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	fset.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "platform":
			cfg.Platform = o.platform
		case "bundle-dir":
			cfg.Dirs.MainBundleDir = o.bundleDir
		case "document-dir":
			cfg.Dirs.DocumentDir = o.documentDir
		case "root":
			cfg.RootDirectoryName = o.root
		case "concurrency":
			cfg.Concurrency = o.concurrency
		}
	})
	cfg.LogMode = o.logMode
	if err := cfg.Valid(); err != nil {
		return nil, nil, err
	}
	return o, cfg, nil
}

func run(ctx context.Context, args []string) error {
	o, cfg, err := bindFlags(args)
	if err != nil {
		return err
	}
	return stage(ctx, o, cfg)
}

func stage(ctx context.Context, o *options, cfg *config.Config) error {
	render, err := report.ByName(o.format)
	if err != nil {
		return err
	}
	log, ah := logger.NewAsyncTo(o.stderr, 1024, cfg.Mode())
	defer ah.Close()

	layout := cfg.Layout()
	sOpts := staging.Options{Concurrency: cfg.Concurrency, Log: log}

	var bar *report.Progress
	if o.progress {
		total, err := staging.Count(ctx, sourceFor(layout, o.bundle), layout.Source)
		if err != nil {
			log.Warn("count source failed", slog.Any("err", err))
		}
		bar = report.NewProgress(total, o.stderr)
		sOpts.Observers = append(sOpts.Observers, bar)
	}

	var res *staging.Result
	file, err := perf.Run(o.pprofDir, o.pprofMode, func() error {
		var runErr error
		res, runErr = staging.Run(ctx, layout, o.bundle, sOpts)
		return runErr
	})
	if bar != nil {
		bar.Finish()
	}
	if file != "" {
		log.Info("profile written", slog.String("file", file))
	}
	if res != nil {
		if werr := render.Write(o.stdout, report.Summarize(res)); werr != nil && err == nil {
			err = werr
		}
	}
	return err
}

// sourceFor 依 layout 取得與 staging.Run 相同的來源（供 Count 預估總量）。
func sourceFor(l staging.Layout, bundle fs.FS) staging.Source {
	if l.Scheme == staging.SchemeMounted {
		return staging.Mounted(staging.Disk{})
	}
	return staging.Packaged(bundle)
}
