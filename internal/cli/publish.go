package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/lunch-line/internal/calendar"
	"github.com/pfrederiksen/lunch-line/internal/config"
	"github.com/pfrederiksen/lunch-line/internal/logger"
	"github.com/pfrederiksen/lunch-line/internal/menu"
	"github.com/pfrederiksen/lunch-line/internal/publisher"
	"github.com/pfrederiksen/lunch-line/internal/storage"
)

// DefaultICSFile is written inside the data directory unless --ics is given
const DefaultICSFile = "lunch-line.ics"

type publishFlags struct {
	dryRun bool
	all    bool
}

func newPublishCmd(a *app) *cobra.Command {
	var flags publishFlags

	cmd := &cobra.Command{
		Use:   "publish <menu.pdf>",
		Short: "Publish the meals of a menu PDF as calendar events",
		Long: `Publish parses a menu PDF and writes its meals as all-day events to an
iCalendar file. Days already published with the same meals are skipped
unless --all is given; if nothing is new the command exits with status 3.

The calendar file and the published-days ledger always hold every meal of
the menu. --meals, --keywords, --from, --to and --weekdays-only narrow only
the events that are printed and announced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runPublish(cmd, args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the events instead of writing them")
	cmd.Flags().BoolVar(&flags.all, "all", false, "Publish every day, including ones already published")
	cmd.Flags().String("ics", "", "Output .ics path (config: ics_path, default: <data-dir>/lunch-line.ics)")
	cmd.Flags().String("calendar-name", config.DefaultCalendarName, "Calendar display name (config: calendar_name)")
	cmd.Flags().String("notify", "", "Comma-separated targets to announce new meals to: twitter, telegram (config: notify)")

	return cmd
}

func (a *app) runPublish(cmd *cobra.Command, path string, flags publishFlags) error {
	f, err := a.buildFilter()
	if err != nil {
		return err
	}

	result, err := a.parseMenu(path)
	if err != nil {
		return err
	}
	// The ledger and the calendar file track the whole menu; the filter only
	// narrows what is printed and announced
	current := result.Menu

	store, err := a.storage()
	if err != nil {
		return err
	}

	previous, err := store.LoadSnapshot()
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}

	var diff *menu.DiffResult
	if flags.all {
		diff = menu.Diff(nil, current)
	} else {
		diff = menu.Diff(previous, current)
	}

	out := &PublishOutput{
		PublishedAt: time.Now().UTC(),
		Source:      result.Source,
		DryRun:      flags.dryRun,
		NewDays:     diff.NewDays,
		ChangedDays: diff.ChangedDays,
		Changes:     diff.Changes,
	}

	if diff.Empty() {
		if err := WritePublish(cmd.OutOrStdout(), out, a.format()); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return &exitError{code: ExitNothingNew}
	}

	out.Events = calendar.Events(f.Apply(diff.Pending(current)))

	if flags.dryRun {
		if err := publisher.NewDryRunPublisher(cmd.OutOrStdout()).Publish(out.Events); err != nil {
			return fmt.Errorf("publishing: %w", err)
		}
		return nil
	}

	// The calendar file holds every known day, not only the pending ones
	merged := menu.CreateSnapshot(previous, current, "")
	events := calendar.Events(merged.Days)
	if len(events) == 0 {
		logger.Warn("No dated meals to publish", logger.Fields{
			"source": result.Source,
			"days":   len(merged.Days),
		})
		if err := WritePublish(cmd.OutOrStdout(), out, a.format()); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}
		return &exitError{code: ExitNothingNew}
	}

	icsPath, err := storage.ExpandHome(a.cfg.ICSPath)
	if err != nil {
		return err
	}
	if icsPath == "" {
		icsPath = filepath.Join(store.DataDir(), DefaultICSFile)
	}

	pub := publisher.NewICSFilePublisher(icsPath, a.cfg.CalendarName)
	if err := pub.Publish(events); err != nil {
		return fmt.Errorf("publishing: %w", err)
	}
	out.Path = pub.Path()

	if err := a.notify(out); err != nil {
		return err
	}

	if err := store.SaveSnapshot(merged); err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	logger.Info("Menu published", logger.Fields{
		"new_days":     len(diff.NewDays),
		"changed_days": len(diff.ChangedDays),
		"events":       len(out.Events),
		"notified":     len(out.Notified),
	})

	if err := WritePublish(cmd.OutOrStdout(), out, a.format()); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// notify announces the pending events to every configured target
func (a *app) notify(out *PublishOutput) error {
	targets, err := a.cfg.NotifyTargets()
	if err != nil {
		return err
	}
	if len(out.Events) == 0 {
		return nil
	}

	for _, target := range targets {
		pub, err := a.notifier(target)
		if err != nil {
			return fmt.Errorf("notifying %s: %w", target, err)
		}
		if err := pub.Publish(out.Events); err != nil {
			return fmt.Errorf("notifying %s: %w", target, err)
		}
		out.Notified = append(out.Notified, target)
	}
	return nil
}
