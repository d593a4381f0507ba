package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"calbook/internal/config"
	appLog "calbook/internal/log"
	"calbook/internal/store"
)

const usage = `calbook - local calendar with recurring events

usage: calbook [flags] <command> [args]

commands:
  add                add an event
  edit <id>          edit an event (occurrence ids accepted)
  rm <id>            delete an event and its whole series
  mv <id> <date>     move an event's anchor date
  list               list stored base events
  day [date]         show occurrences for one day
  week [date]        show occurrences for the week containing date
  month [date]       show occurrences for the month containing date
  search <term>      search expanded occurrences
  export             write the calendar as ICS to stdout or -o file
  import <file>      import events from an ICS file
  watch              re-render today's agenda on a schedule

flags:
`

// flagConfig holds global CLI flag values.
type flagConfig struct {
	configPath string
	dataPath   string
	logLevel   string
}

func main() {
	flags, args := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// CLI flags override config file and environment.
	if flags.dataPath != "" {
		conf.DataPath = flags.dataPath
	}
	if flags.logLevel != "" {
		conf.LogLevel = flags.logLevel
	}
	appLog.SetLevelFromString(conf.LogLevel)

	appLog.Debug("effective config",
		"data_path", conf.DataPath,
		"horizon_months", conf.HorizonMonths,
		"week_start", conf.WeekStart,
		"watch", conf.WatchCron,
	)

	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
		os.Exit(2)
	}

	st, err := store.Open(conf.DataPath)
	if err != nil {
		appLog.Error("failed to open event store", err, "data_path", conf.DataPath)
		os.Exit(1)
	}

	app := &cli{conf: conf, store: st, gateway: store.NewGateway(st)}

	if err := app.run(args[0], args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "calbook:", err)
		os.Exit(1)
	}
}

func parseFlags() (flagConfig, []string) {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", defaultConfigPath(), "Path to config file")
	flag.StringVar(&cfg.dataPath, "data", "", "Path to event store file (overrides config if set)")
	flag.StringVar(&cfg.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config if set)")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}

	flag.Parse()

	return cfg, flag.Args()
}

func defaultConfigPath() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".calbook", "config.yaml")
	}
	return "calbook-config.yaml"
}
