package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"

	_ "github.com/glebarez/go-sqlite"
	"github.com/hashicorp/logutils"
	"github.com/jessevdk/go-flags"

	"github.com/bobylevd/team-balancer/app/cmd"
)

type commands struct {
	Bot     cmd.Bot     `command:"bot"     description:"run discord bot"`
	Serve   cmd.Serve   `command:"serve"   description:"run HTTP API"`
	Suggest cmd.Suggest `command:"suggest" description:"print team suggestions"`
	Import  cmd.Import  `command:"import"  description:"import a roster file"`

	Verbose bool `short:"v" long:"verbose" env:"TEAMBALANCER_VERBOSE" description:"log drafts, moves and requests"`
}

var version = "unknown"

// buildVersion prefers the module version stamped by go install.
func buildVersion() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		return bi.Main.Version
	}
	return version
}

func main() {
	fmt.Fprintf(os.Stderr, "teambalancer, version: %s\n", buildVersion())

	var opts commands
	p := flags.NewParser(&opts, flags.Default)
	p.CommandHandler = func(c flags.Commander, args []string) error {
		log.SetFlags(logFlags(opts.Verbose))
		log.SetOutput(levelFilter(opts.Verbose, os.Stderr))
		log.Printf("[DEBUG] verbose logging for team balancer %s", buildVersion())

		if cs, ok := c.(interface{ Set(cmd.CommonOpts) }); ok {
			cs.Set(cmd.CommonOpts{Version: buildVersion()})
		}

		if err := c.Execute(args); err != nil {
			log.Printf("[ERROR] team balancer stopped: %v", err)
			return err
		}
		return nil
	}

	if _, err := p.Parse(); err != nil {
		if errors.Is(err, flags.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}
}

// levelFilter passes INFO and above, DEBUG too when verbose.
func levelFilter(verbose bool, w io.Writer) *logutils.LevelFilter {
	level := logutils.LogLevel("INFO")
	if verbose {
		level = "DEBUG"
	}
	return &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR"},
		MinLevel: level,
		Writer:   w,
	}
}

func logFlags(verbose bool) int {
	if verbose {
		return log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile
	}
	return log.Ldate | log.Ltime
}
