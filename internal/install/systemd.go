package install

import (
	"fmt"
	"os"
	"os/exec"
	"oscrelay/internal/global"
	"path/filepath"
	"strings"
)

// Service unit running the relay in the foreground under systemd supervision
func renderUnit(binaryPath, configPath string) (unit string) {
	unit = fmt.Sprintf(`[Unit]
Description=OSC relay between two show control peers
After=network-online.target
Wants=network-online.target

[Service]
Type=notify
ExecStart=%s relay --config %s
ExecReload=/bin/kill -HUP $MAINPID
Restart=on-failure
RestartSec=2
DynamicUser=yes
NoNewPrivileges=yes
ProtectSystem=strict
ProtectHome=yes

[Install]
WantedBy=multi-user.target
`, binaryPath, configPath)
	return
}

func installService() (err error) {
	unitName := filepath.Base(global.DefaultUnitPath)

	unitFile := renderUnit(global.DefaultBinaryPath, global.DefaultConfigPath)
	err = os.WriteFile(global.DefaultUnitPath, []byte(unitFile), 0644)
	if err != nil {
		return
	}

	// Reload for new unit file
	command := exec.Command("systemctl", "daemon-reload")
	output, err := command.CombinedOutput()
	if err != nil {
		err = fmt.Errorf("failed to reload systemd units: %w: %s", err, string(output))
		return
	}

	// Check if enabled
	command = exec.Command("systemctl", "is-enabled", unitName)
	output, err = command.CombinedOutput()
	if err != nil {
		if !strings.Contains(string(output), "disabled") {
			err = fmt.Errorf("failed to check systemd service enablement status: %w: %s", err, string(output))
			return
		}
		// Disabled status is exit code 1
		err = nil
	}
	enableStatus := strings.Trim(string(output), "\n")

	if strings.ToLower(enableStatus) != "enabled" {
		command := exec.Command("systemctl", "enable", unitName)
		output, err = command.CombinedOutput()
		if err != nil {
			err = fmt.Errorf("failed to enable systemd service: %w: %s", err, string(output))
			return
		}
	}

	fmt.Printf("Successfully installed Systemd service\n")
	fmt.Printf("  IMPORTANT: modify the configuration to your needs and start the service with 'systemctl start %s'\n", unitName)
	return
}

func uninstallService() (err error) {
	unitName := filepath.Base(global.DefaultUnitPath)

	// Stopping also disables; errors mean the unit is already gone
	command := exec.Command("systemctl", "disable", "--now", unitName)
	output, err := command.CombinedOutput()
	if err != nil && !strings.Contains(string(output), "not loaded") && !strings.Contains(string(output), "does not exist") {
		err = fmt.Errorf("failed to disable systemd service: %w: %s", err, string(output))
		return
	}
	err = nil

	err = os.Remove(global.DefaultUnitPath)
	if err != nil && !os.IsNotExist(err) {
		return
	}
	err = nil

	command = exec.Command("systemctl", "daemon-reload")
	output, err = command.CombinedOutput()
	if err != nil {
		err = fmt.Errorf("failed to reload systemd units: %w: %s", err, string(output))
		return
	}

	fmt.Printf("Successfully uninstalled systemd service\n")
	return
}
