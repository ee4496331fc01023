package cli

import (
	"flag"
	"fmt"
	"os"
	"oscrelay/internal/global"
	"oscrelay/internal/install"
)

// Setup/installation options
func SetupMode(commandname string, args []string) {
	var newConf bool
	var installService bool
	var uninstallService bool
	var templateConfPath string

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	commandFlags.BoolVar(&installService, "install", false, "Install/Upgrade the relay as a systemd service")
	commandFlags.BoolVar(&uninstallService, "uninstall", false, "Remove the relay service")
	commandFlags.StringVar(&templateConfPath, "c", "", "Path to template config file")
	commandFlags.StringVar(&templateConfPath, "config", "", "Path to template config file")
	commandFlags.BoolVar(&newConf, "config-template", false, "Create new template config for the relay (using config-path argument)")

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	if len(args) < 1 {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}
	commandFlags.Parse(args[0:])

	var err error

	if newConf {
		err = install.CreateTemplateConfig(templateConfPath)
	} else if installService {
		install.Run()
	} else if uninstallService {
		install.Remove()
	} else {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
