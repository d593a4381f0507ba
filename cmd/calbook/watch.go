package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	appLog "calbook/internal/log"
	"calbook/internal/model"
	"calbook/internal/query"
	"calbook/internal/store"
)

// cmdWatch re-renders today's agenda on the configured cron schedule
// until interrupted. The store file is re-read on every tick so edits
// made from another terminal show up.
func (c *cli) cmdWatch(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: calbook watch")
	}

	render := func() {
		st, err := store.Open(c.conf.DataPath)
		if err != nil {
			appLog.Error("watch: reload failed", err, "data_path", c.conf.DataPath)
			return
		}
		now := time.Now()
		occs := query.ForWindow(st.Events(), query.Day(now), "", "", c.expandConfig())
		fmt.Printf("\n=== agenda for %s ===\n", model.FormatDate(now))
		printAgenda(os.Stdout, query.Day(now), occs)
	}

	sched := cron.New()
	if _, err := sched.AddFunc(c.conf.WatchCron, render); err != nil {
		return fmt.Errorf("bad watch schedule %q: %w", c.conf.WatchCron, err)
	}

	appLog.Info("watch started", "schedule", c.conf.WatchCron)
	render()
	sched.Start()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	appLog.Info("signal received, stopping watch", "signal", sig.String())

	<-sched.Stop().Done()
	return nil
}

// printAgenda renders a window's occurrences, one per line, grouped by
// date in expansion order.
func printAgenda(w io.Writer, win query.Window, occs []model.Occurrence) {
	if len(occs) == 0 {
		fmt.Fprintf(w, "no events between %s and %s\n",
			model.FormatDate(win.Start), model.FormatDate(win.End))
		return
	}
	for _, o := range occs {
		fmt.Fprintf(w, "%s %s  %-30s [%s]  id=%s\n", o.Date, o.Time, o.Title, o.Category, o.ID)
	}
}
