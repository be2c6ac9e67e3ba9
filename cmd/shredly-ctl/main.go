// Shredly-ctl is the command-line client for a running shredly daemon.
// It drives the workout timer over HTTP and streams live events over
// WebSocket.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/wabbazzar/shredly2-sub003/internal/ctl"
)

func main() {
	var (
		host    = pflag.StringP("host", "H", "http://127.0.0.1:8080", "Shredly daemon URL")
		apiKey  = pflag.StringP("api-key", "k", os.Getenv("SHREDLY_API_KEY"), "API key for control commands")
		jsonOut = pflag.Bool("json", false, "Output raw JSON instead of formatted text")
		filter  = pflag.StringSlice("filter", nil, "Event types to show in watch (e.g. --filter phase_change,set_complete)")
	)

	// Stop parsing global flags at the first non-flag argument (the
	// command name), so subcommand flags like --reps are not rejected.
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	if pflag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	cmd := pflag.Arg(0)
	subArgs := pflag.Args()[1:]

	var err error
	switch cmd {
	// Query commands
	case "status":
		err = ctl.Status(*host, *jsonOut)

	case "exercises":
		opts := ctl.ExercisesOptions{JSON: *jsonOut}
		exFlags := pflag.NewFlagSet("exercises", pflag.ContinueOnError)
		exFlags.StringVar(&opts.Category, "category", "", "Filter by category")
		exFlags.StringVar(&opts.Equipment, "equipment", "", "Filter by equipment")
		exFlags.StringVar(&opts.MuscleGroup, "muscle-group", "", "Filter by muscle group")
		_ = exFlags.Parse(subArgs)
		err = ctl.Exercises(*host, opts)

	case "logs":
		opts := ctl.LogsOptions{JSON: *jsonOut}
		logFlags := pflag.NewFlagSet("logs", pflag.ContinueOnError)
		logFlags.StringVar(&opts.Start, "start", "", "Range start (YYYY-MM-DD)")
		logFlags.StringVar(&opts.End, "end", "", "Range end (YYYY-MM-DD)")
		_ = logFlags.Parse(subArgs)
		err = ctl.Logs(*host, opts)

	case "sets":
		if len(subArgs) < 1 {
			fmt.Fprintln(os.Stderr, "usage: shredly-ctl sets <session-id>")
			os.Exit(2)
		}
		err = ctl.Sets(*host, subArgs[0], *jsonOut)

	case "watch":
		err = ctl.Watch(*host, ctl.WatchOptions{Filter: *filter, JSON: *jsonOut})

	// Control commands
	case "start":
		err = ctl.Start(*host, *apiKey, *jsonOut)

	case "pause":
		err = ctl.Pause(*host, *apiKey, *jsonOut)

	case "resume":
		err = ctl.Resume(*host, *apiKey, *jsonOut)

	case "skip":
		err = ctl.Skip(*host, *apiKey, *jsonOut)

	case "stop":
		err = ctl.Stop(*host, *apiKey, *jsonOut)

	case "entry":
		err = ctl.Entry(*host, *apiKey, *jsonOut)

	case "log":
		opts := ctl.LogOptions{JSON: *jsonOut}
		logFlags := pflag.NewFlagSet("log", pflag.ContinueOnError)
		logFlags.IntVar(&opts.Reps, "reps", 0, "Reps completed")
		logFlags.Float64Var(&opts.Weight, "weight", 0, "Weight used (kg)")
		logFlags.IntVar(&opts.RPE, "rpe", 0, "Rate of perceived exertion (1-10)")
		logFlags.StringVar(&opts.Notes, "notes", "", "Free-form notes")
		_ = logFlags.Parse(subArgs)
		err = ctl.Log(*host, *apiKey, opts)

	case "audio":
		if len(subArgs) < 1 || (subArgs[0] != "on" && subArgs[0] != "off") {
			fmt.Fprintln(os.Stderr, "usage: shredly-ctl audio on|off")
			os.Exit(2)
		}
		err = ctl.Audio(*host, *apiKey, subArgs[0] == "on", *jsonOut)

	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprint(os.Stderr, `shredly-ctl - control a running shredly daemon

Usage:
  shredly-ctl [flags] <command> [command flags]

Query commands:
  status                     Current timer phase, remaining time, counters
  exercises [--category ...] Browse the exercise catalog
  logs [--start --end]       Completed exercise sessions
  sets <session-id>          Sets logged during one session
  watch [--filter ...]       Stream live timer events

Control commands (require --api-key or SHREDLY_API_KEY):
  start | pause | resume | skip | stop | entry
  log --reps N [--weight KG] [--rpe N] [--notes TEXT]
  audio on|off

Flags:
  -H, --host      Daemon URL (default http://127.0.0.1:8080)
  -k, --api-key   API key for control commands
      --json      Raw JSON output
      --filter    Event filter for watch
`)
}
