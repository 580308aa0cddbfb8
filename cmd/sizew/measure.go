package main

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/sizew/sizew/internal/measurement"
	"github.com/sizew/sizew/internal/sizecache"
	"github.com/sizew/sizew/pkg/configuration"
	"github.com/sizew/sizew/pkg/filesystem"
	"github.com/sizew/sizew/pkg/logging"
)

func measureMain(command *cobra.Command, arguments []string) error {
	if len(arguments) != 1 {
		return errors.New("measure requires exactly one directory argument")
	}
	path := arguments[0]

	options, err := configuration.Load(rootConfiguration.configPath)
	if err != nil {
		return errors.Wrap(err, "unable to load configuration")
	}
	options = options.WithDefaults()

	// An explicit --log-level takes precedence over the configuration
	// file's logLevel, which itself defaults to "info".
	levelName := options.LogLevel
	if command.Flags().Changed("log-level") {
		levelName = rootConfiguration.logLevel
	}
	level, ok := logging.NameToLevel(levelName)
	if !ok {
		return errors.Errorf("invalid log level: %s", levelName)
	}
	logging.RootLogger.SetLevel(level)

	cachePath := options.CacheFilePath
	if cachePath == "" {
		cachePath = filesystem.DefaultCacheFilePath()
	}

	cache := sizecache.Load(cachePath, logging.RootLogger)

	engine := measurement.NewEngine(cache, measurement.DefaultSource, logging.RootLogger, measurement.Options{
		LWTTolerance:          time.Duration(options.LWTTolerance),
		CheckRateGrowthFactor: options.CheckRateGrowthFactor,
		CheckRateShrinkFactor: options.CheckRateShrinkFactor,
		MinCheckRate:          options.MinCheckRate,
		MaxCheckRate:          options.MaxCheckRate,
		DefaultCheckRate:      options.DefaultCheckRate,
	})

	total, err := engine.Measure(
		context.Background(),
		path,
		measureConfiguration.recursive,
		measureConfiguration.bypassCache,
		measureConfiguration.recalculate,
	)
	if err != nil {
		return errors.Wrap(err, "measurement failed")
	}

	if !measureConfiguration.bypassCache {
		sizecache.Save(cache, cachePath, measureConfiguration.recursive, logging.RootLogger)
	}

	if measureConfiguration.human {
		fmt.Println(humanize.Bytes(total))
	} else {
		fmt.Println(total)
	}

	return nil
}

var measureCommand = &cobra.Command{
	Use:   "measure <path>",
	Short: "Measure the size of a directory, consulting and updating the size cache",
	Args:  cobra.ExactArgs(1),
	Run:   mainify(measureMain),
}

var measureConfiguration struct {
	// help indicates whether help information should be shown.
	help bool
	// recursive descends into subdirectories; without it, only path's own
	// files are counted.
	recursive bool
	// bypassCache disables all cache reads and writes for this invocation.
	bypassCache bool
	// recalculate forces a full recompute at every visited node while still
	// writing results back to the cache.
	recalculate bool
	// human renders the result with humanize.Bytes instead of a raw byte
	// count.
	human bool
}

func init() {
	flags := measureCommand.Flags()
	flags.SortFlags = false

	flags.BoolVarP(&measureConfiguration.help, "help", "h", false, "Show help information")
	flags.BoolVarP(&measureConfiguration.recursive, "recursive", "r", false, "Recurse into subdirectories")
	flags.BoolVar(&measureConfiguration.bypassCache, "bypass-cache", false, "Ignore and do not update the size cache for this invocation")
	flags.BoolVar(&measureConfiguration.recalculate, "recalculate", false, "Force a full recompute at every visited directory, still updating the cache")
	flags.BoolVar(&measureConfiguration.human, "human", false, "Render the result in human-readable units")
}
