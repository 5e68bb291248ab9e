// Linux host keypad daemon: keys via GPIO or evdev, keys out via USB HID gadget.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/juju/errors"
	"github.com/temoto/keypad/cmd/keypad/subcmd"
	"github.com/temoto/keypad/config"
	"github.com/temoto/keypad/log2"
)

var log = log2.NewStderr(log2.LDebug)

var modules = []subcmd.Mod{
	{Name: "run", Usage: "main loop (default)", Main: runMain},
	{Name: "check", Usage: "validate config and print screens", Main: checkMain},
}

func main() {
	cmdline := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	cmdline.Usage = func() {
		fmt.Fprintf(cmdline.Output(), "usage: %s [flags] [command]\ncommands:\n%sflags:\n", os.Args[0], subcmd.Usage(modules))
		cmdline.PrintDefaults()
	}
	flagConfig := cmdline.String("config", "keypad.hcl", "")
	flagDebug := cmdline.Bool("debug", false, "")
	_ = cmdline.Parse(os.Args[1:])

	command := "run"
	if cmdline.NArg() > 0 {
		command = cmdline.Arg(0)
	}
	mod, err := subcmd.Parse(command, modules)
	if err != nil {
		log.Fatal(err)
	}

	if subcmd.SdNotify(log, "start") {
		// we're under systemd, assume systemd journal logging, remove timestamp
		log.SetFlags(log2.LServiceFlags)
	} else {
		log.SetFlags(log2.LInteractiveFlags)
	}
	if !*flagDebug {
		log.SetLevel(log2.LInfo)
	}

	c := config.MustReadConfig(log, config.NewOsFullReader(), *flagConfig)
	log.Debugf("config=%+v", c)

	if err := mod.Main(context.Background(), log, c); err != nil {
		log.Fatal(errors.ErrorStack(err))
	}
}
