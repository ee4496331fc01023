package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"oscrelay/internal/global"
	"oscrelay/internal/lifecycle"
	"oscrelay/internal/logctx"
	"oscrelay/internal/relay"
)

// Command line overrides for the relay config
type relayOptions struct {
	scListenIP   string
	scIP         string
	scInputPort  int
	scOutputPort int
	scPrefix     string
	maListenIP   string
	maIP         string
	maInputPort  int
	maOutputPort int
	maPrefix     string
	verbose      bool
	metricServer bool
	mirror       string
	capture      string
}

func setRelayArguments(commandFlags *flag.FlagSet, opts *relayOptions) {
	commandFlags.StringVar(&opts.scListenIP, "sc-listen-ip", global.DefaultPeerAListenIP, "Address to receive ShowCockpit traffic on")
	commandFlags.StringVar(&opts.scIP, "sc-ip", global.DefaultPeerASendIP, "ShowCockpit address to deliver translated traffic to")
	commandFlags.IntVar(&opts.scInputPort, "sc-input-port", global.DefaultPeerASendPort, "Port ShowCockpit listens on")
	commandFlags.IntVar(&opts.scOutputPort, "sc-output-port", global.DefaultPeerAListenPort, "Port ShowCockpit sends to")
	commandFlags.StringVar(&opts.scPrefix, "sc-datapool-base", global.DefaultPeerAPrefix, "Address prefix used by ShowCockpit")
	commandFlags.StringVar(&opts.maListenIP, "ma-listen-ip", global.DefaultPeerBListenIP, "Address to receive grandMA3 traffic on")
	commandFlags.StringVar(&opts.maIP, "ma-ip", global.DefaultPeerBSendIP, "grandMA3 address to deliver translated traffic to")
	commandFlags.IntVar(&opts.maInputPort, "ma-input-port", global.DefaultPeerBSendPort, "Port grandMA3 listens on")
	commandFlags.IntVar(&opts.maOutputPort, "ma-output-port", global.DefaultPeerBListenPort, "Port grandMA3 sends to")
	commandFlags.StringVar(&opts.maPrefix, "ma-datapool-base", global.DefaultPeerBPrefix, "Address prefix used by grandMA3")
	commandFlags.BoolVar(&opts.verbose, "verbose", false, "Print every relayed message")
	commandFlags.BoolVar(&opts.metricServer, "metric-server", false, "Serve metrics over HTTP on localhost")
	commandFlags.StringVar(&opts.mirror, "mirror", "", "Logstash/Beats address (host:port) to mirror relayed messages to")
	commandFlags.StringVar(&opts.capture, "capture", "", "File to append a line per relayed message to")
}

func RelayMode(ctx context.Context, commandname string, args []string) {
	var configPath string
	var opts relayOptions

	commandFlags := flag.NewFlagSet(commandname, flag.ExitOnError)
	SetGlobalArguments(commandFlags)
	SetCommon(commandFlags, &configPath)
	setRelayArguments(commandFlags, &opts)

	commandFlags.Usage = func() {
		PrintHelpMenu(commandFlags, commandname, global.CmdOpts)
	}
	commandFlags.Parse(args[0:])

	if isFlagSet(commandFlags, "v", "verbosity") {
		logctx.SetLogLevel(ctx, global.Verbosity)
	}
	configRequired := isFlagSet(commandFlags, "c", "config")

	// Reloads re-read the file but keep the command line overrides
	loader := func() (cfg relay.Config, err error) {
		cfg, err = loadRelayConfig(configPath, configRequired)
		if err != nil {
			return
		}
		applyOverrides(commandFlags, &opts, &cfg)
		return
	}

	sup := newSupervisor(loader)
	err := sup.start(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting relay: %v\n", err)
		os.Exit(1)
	}

	err = lifecycle.NotifyReady(ctx)
	if err != nil {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.WarnLog, "Systemd notify ready failed: %v\n", err)
	}

	go lifecycle.SignalHandler(ctx, sup)

	if lifecycle.IsTerminal(os.Stdin) {
		go func() {
			quit := lifecycle.WaitForQuit(ctx, os.Stdin, os.Stdout)
			if quit {
				sup.Shutdown()
			}
		}()
	}

	<-sup.Done()
}

// Reads the config file. A missing file is only an error when it was asked for explicitly.
func loadRelayConfig(configPath string, required bool) (cfg relay.Config, err error) {
	jsonCfg, err := relay.LoadConfig(configPath)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			err = nil
		}
		return
	}

	cfg, err = jsonCfg.NewDaemonConf()
	return
}

// Flags given explicitly win over config file values
func applyOverrides(commandFlags *flag.FlagSet, opts *relayOptions, cfg *relay.Config) {
	commandFlags.Visit(func(arg *flag.Flag) {
		switch arg.Name {
		case "sc-listen-ip":
			cfg.PeerA.ListenIP = opts.scListenIP
		case "sc-ip":
			cfg.PeerA.SendIP = opts.scIP
		case "sc-input-port":
			cfg.PeerA.SendPort = opts.scInputPort
		case "sc-output-port":
			cfg.PeerA.ListenPort = opts.scOutputPort
		case "sc-datapool-base":
			cfg.PeerA.Prefix = opts.scPrefix
		case "ma-listen-ip":
			cfg.PeerB.ListenIP = opts.maListenIP
		case "ma-ip":
			cfg.PeerB.SendIP = opts.maIP
		case "ma-input-port":
			cfg.PeerB.SendPort = opts.maInputPort
		case "ma-output-port":
			cfg.PeerB.ListenPort = opts.maOutputPort
		case "ma-datapool-base":
			cfg.PeerB.Prefix = opts.maPrefix
		case "verbose":
			cfg.Verbose = opts.verbose
		case "metric-server":
			cfg.MetricQueryServerEnabled = opts.metricServer
		case "mirror":
			cfg.MirrorEndpoint = opts.mirror
		case "capture":
			cfg.CaptureFile = opts.capture
		}
	})
}
