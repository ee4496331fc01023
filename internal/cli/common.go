package cli

import (
	"flag"
	"oscrelay/internal/global"
)

func SetGlobalArguments(fs *flag.FlagSet) {
	fs.IntVar(&global.Verbosity, "v", global.VerbosityStandard, "Increase detailed progress messages (Higher is more verbose) <0...5>")
	fs.IntVar(&global.Verbosity, "verbosity", global.VerbosityStandard, "Increase detailed progress messages (Higher is more verbose) <0...5>")
}

func SetCommon(fs *flag.FlagSet, configPath *string) {
	fs.StringVar(configPath, "c", global.DefaultConfigPath, "Path to the configuration file")
	fs.StringVar(configPath, "config", global.DefaultConfigPath, "Path to the configuration file")
}

// Reports whether a flag was given on the command line
func isFlagSet(fs *flag.FlagSet, names ...string) (set bool) {
	fs.Visit(func(arg *flag.Flag) {
		for _, name := range names {
			if arg.Name == name {
				set = true
			}
		}
	})
	return
}
