package install

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"oscrelay/internal/global"
	"oscrelay/internal/relay"
	"strings"

	"golang.org/x/term"
)

func installConfig() (err error) {
	configFilePath := global.DefaultConfigPath

	// Don't overwrite existing
	_, err = os.Stat(configFilePath)
	if err == nil {
		// No terminal - no overwrite
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Printf("Existing configuration file present, not overwriting\n")
			return
		}

		fmt.Printf("Configuration file already exists at '%s'. Are you SURE you want to overwrite it? (yes/no): ", configFilePath)
		reader := bufio.NewReader(os.Stdin)
		input, _ := reader.ReadString('\n')
		input = strings.TrimSpace(input)

		if strings.ToLower(input) != "yes" {
			fmt.Printf("Not overwriting configuration file\n")
			return
		}
	}

	err = CreateTemplateConfig(configFilePath)
	if err != nil {
		return
	}

	fmt.Printf("Successfully wrote template configuration file to '%s'\n", configFilePath)
	return
}

func uninstallConfig() (err error) {
	err = os.Remove(global.DefaultConfigPath)
	if err != nil && !os.IsNotExist(err) {
		err = fmt.Errorf("failed to remove configuration file: %w", err)
		return
	}
	err = nil

	fmt.Printf("Successfully removed configuration file '%s'\n", global.DefaultConfigPath)
	return
}

// Writes a relay config holding every default value
func CreateTemplateConfig(filepath string) (err error) {
	if filepath == "" {
		err = fmt.Errorf("specify template file path via the --config/-c arguments")
		return
	}

	newCfg := relay.DefaultJSONConfig()
	newCfg.Metrics.EnableQueryServer = false

	confBytes, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		err = fmt.Errorf("error marshaling new config: %w", err)
		return
	}
	confBytes = append(confBytes, []byte("\n")...)

	err = os.WriteFile(filepath, confBytes, 0640)
	if err != nil {
		err = fmt.Errorf("failed to write config to file: %w", err)
		return
	}
	return
}
