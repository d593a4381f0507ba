package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"calbook/internal/config"
	"calbook/internal/expand"
	"calbook/internal/model"
	"calbook/internal/query"
	"calbook/internal/store"
)

// cli bundles the loaded config with the store and its mutation
// gateway; each subcommand is a method on it.
type cli struct {
	conf    *config.Config
	store   *store.Store
	gateway *store.Gateway
}

func (c *cli) run(command string, args []string) error {
	switch command {
	case "add":
		return c.cmdAdd(args)
	case "edit":
		return c.cmdEdit(args)
	case "rm":
		return c.cmdRemove(args)
	case "mv":
		return c.cmdMove(args)
	case "list":
		return c.cmdList(args)
	case "day", "week", "month":
		return c.cmdView(command, args)
	case "search":
		return c.cmdSearch(args)
	case "export":
		return c.cmdExport(args)
	case "import":
		return c.cmdImport(args)
	case "watch":
		return c.cmdWatch(args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func (c *cli) expandConfig() expand.Config {
	return expand.Config{HorizonMonths: c.conf.HorizonMonths}
}

// eventFlags registers the event field flags shared by add and edit.
func eventFlags(fs *flag.FlagSet) (title, date, tod, desc, recur, unit, end, color, category *string, interval *int) {
	title = fs.String("title", "", "event title")
	date = fs.String("date", "", "anchor date, yyyy-MM-dd")
	tod = fs.String("time", "09:00", "time of day, HH:mm")
	desc = fs.String("desc", "", "description")
	recur = fs.String("recur", "none", "recurrence: none, daily, weekly, monthly, custom")
	interval = fs.Int("interval", 1, "custom recurrence interval")
	unit = fs.String("unit", "days", "custom recurrence unit: days, weeks, months")
	end = fs.String("end", "", "recurrence end date (exclusive), yyyy-MM-dd")
	color = fs.String("color", "", "display color")
	category = fs.String("category", "", "category tag")
	return
}

func (c *cli) cmdAdd(args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	title, date, tod, desc, recur, unit, end, color, category, interval := eventFlags(fs)
	force := fs.Bool("force", false, "save even if the time slot conflicts")
	if err := fs.Parse(args); err != nil {
		return err
	}

	in := model.Input{
		Title:       *title,
		Date:        *date,
		Time:        *tod,
		Description: *desc,
		Recurrence:  model.Recurrence(*recur),
		EndDate:     *end,
		Color:       *color,
		Category:    *category,
	}
	if in.Recurrence == model.RecurrenceCustom {
		in.Custom = &model.CustomRecurrence{Interval: *interval, Unit: model.RecurrenceUnit(*unit)}
	}
	if in.Date == "" {
		in.Date = model.FormatDate(time.Now())
	}
	if in.Color == "" {
		in.Color = c.conf.DefaultColor
	}
	if in.Category == "" {
		in.Category = c.conf.DefaultCategory
	}

	if !*force {
		candidate := model.Occurrence{ID: "pending", Date: in.Date, Time: in.Time}
		if err := c.checkConflicts(candidate, ""); err != nil {
			return err
		}
	}

	ev, err := c.gateway.Create(in)
	if err != nil {
		return err
	}
	fmt.Printf("added %s (%s %s) id=%s\n", ev.Title, ev.Date, ev.Time, ev.ID)
	return nil
}

func (c *cli) cmdEdit(args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	title, date, tod, desc, recur, unit, end, color, category, interval := eventFlags(fs)
	force := fs.Bool("force", false, "save even if the time slot conflicts")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: calbook edit [flags] <id>")
	}

	base, err := c.gateway.Resolve(fs.Arg(0))
	if err != nil {
		return err
	}

	// Only flags the user actually set become part of the patch.
	var patch model.Patch
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			patch.Title = title
		case "date":
			patch.Date = date
		case "time":
			patch.Time = tod
		case "desc":
			patch.Description = desc
		case "recur":
			r := model.Recurrence(*recur)
			patch.Recurrence = &r
		case "end":
			patch.EndDate = end
		case "color":
			patch.Color = color
		case "category":
			patch.Category = category
		case "interval", "unit":
			patch.Custom = &model.CustomRecurrence{Interval: *interval, Unit: model.RecurrenceUnit(*unit)}
		}
	})

	if !*force {
		merged := patch.Apply(base)
		candidate := model.Occurrence{ID: base.ID, Date: merged.Date, Time: merged.Time}
		if err := c.checkConflicts(candidate, base.ID); err != nil {
			return err
		}
	}

	ev, err := c.gateway.Update(base.ID, patch)
	if err != nil {
		return err
	}
	fmt.Printf("updated %s id=%s\n", ev.Title, ev.ID)
	return nil
}

// checkConflicts aggregates the current store, restricts it to the
// candidate's date, and fails with a description of every clash. The
// save is simply not performed; -force overrides.
func (c *cli) checkConflicts(candidate model.Occurrence, excludeID string) error {
	occs := expand.Aggregate(c.store.Events(), c.expandConfig())
	conflicts := query.FindConflicts(candidate, query.OnDate(occs, candidate.Date), excludeID)
	if len(conflicts) == 0 {
		return nil
	}
	for _, o := range conflicts {
		fmt.Fprintf(os.Stderr, "conflict: %s at %s %s (id=%s)\n", o.Title, o.Date, o.Time, o.ID)
	}
	return fmt.Errorf("%d time conflict(s) on %s at %s; use -force to save anyway",
		len(conflicts), candidate.Date, candidate.Time)
}

func (c *cli) cmdRemove(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: calbook rm <id>")
	}
	if err := c.gateway.Delete(args[0]); err != nil {
		return err
	}
	fmt.Println("deleted", args[0])
	return nil
}

func (c *cli) cmdMove(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: calbook mv <id> <date>")
	}
	ev, err := c.gateway.DragMove(args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Printf("moved %s to %s\n", ev.Title, ev.Date)
	return nil
}

func (c *cli) cmdList(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: calbook list")
	}
	events := c.store.Events()
	if len(events) == 0 {
		fmt.Println("no events")
		return nil
	}
	for _, ev := range events {
		line := fmt.Sprintf("%s %s  %-30s %s", ev.Date, ev.Time, ev.Title, ev.Recurrence)
		if ev.Recurrence == model.RecurrenceCustom && ev.Custom != nil {
			line += fmt.Sprintf(" (every %d %s)", ev.Custom.Interval, ev.Custom.Unit)
		}
		if ev.EndDate != "" {
			line += " until " + ev.EndDate
		}
		fmt.Printf("%s  id=%s\n", line, ev.ID)
	}
	return nil
}

func (c *cli) cmdView(view string, args []string) error {
	fs := flag.NewFlagSet(view, flag.ExitOnError)
	search := fs.String("search", "", "free-text filter over title and description")
	category := fs.String("category", query.CategoryAll, "category filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	anchor := time.Now()
	if fs.NArg() > 0 {
		parsed, err := model.ParseDate(fs.Arg(0))
		if err != nil {
			return fmt.Errorf("bad date %q: want yyyy-MM-dd", fs.Arg(0))
		}
		anchor = parsed
	}

	var w query.Window
	switch view {
	case "day":
		w = query.Day(anchor)
	case "week":
		w = query.Week(anchor, c.conf.WeekStartsMonday())
	case "month":
		w = query.Month(anchor)
	}

	occs := query.ForWindow(c.store.Events(), w, *search, *category, c.expandConfig())
	printAgenda(os.Stdout, w, occs)
	return nil
}

func (c *cli) cmdSearch(args []string) error {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	category := fs.String("category", query.CategoryAll, "category filter")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: calbook search [flags] <term>")
	}

	occs := query.Filter(expand.Aggregate(c.store.Events(), c.expandConfig()), fs.Arg(0), *category)
	if len(occs) == 0 {
		fmt.Println("no matches")
		return nil
	}
	for _, o := range occs {
		fmt.Printf("%s %s  %s  [%s]  id=%s\n", o.Date, o.Time, o.Title, o.Category, o.ID)
	}
	return nil
}
