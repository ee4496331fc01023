package cli

import "oscrelay/internal/global"

func DefineOptions() (cmdOpts *global.CommandSet) {
	// Root level
	root := &global.CommandSet{
		Description:     "OSC Relay (oscrelay)",
		FullDescription: "  Relays OSC messages between two peers, translating address namespaces and keywords",
		CommandName:     RootCLICommand,
		ChildCommands:   make(map[string]*global.CommandSet),
	}

	// Relaying
	root.ChildCommands["relay"] = &global.CommandSet{
		CommandName:     "relay",
		UsageOption:     "[options]",
		Description:     "Run the Relay",
		FullDescription: "Listens for both peers, rewrites every message for the opposite peer and forwards it",
		ChildCommands:   nil,
	}

	// Setup
	root.ChildCommands["configure"] = &global.CommandSet{
		CommandName:     "configure",
		Description:     "Setup Actions",
		FullDescription: "Configure various aspects of installation, generation, and runtime",
		ChildCommands:   nil,
	}

	// Version Info
	root.ChildCommands["version"] = &global.CommandSet{
		CommandName:     "version",
		Description:     "Show Version Information",
		FullDescription: "Display meta information about program",
	}

	cmdOpts = root
	return
}
