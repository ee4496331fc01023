package install

import (
	"oscrelay/internal/relay"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateTemplateConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oscrelay.json")
	if err := CreateTemplateConfig(path); err != nil {
		t.Fatalf("create template: %v", err)
	}

	// The template must load back through the normal config path
	jsonCfg, err := relay.LoadConfig(path)
	if err != nil {
		t.Fatalf("load template: %v", err)
	}
	cfg, err := jsonCfg.NewDaemonConf()
	if err != nil {
		t.Fatalf("convert template: %v", err)
	}
	if cfg.PeerA.ListenPort != 8100 || cfg.PeerB.ListenPort != 8001 {
		t.Fatalf("unexpected template ports %+v %+v", cfg.PeerA, cfg.PeerB)
	}
	if len(cfg.Keywords) != 1 || cfg.Keywords[0].A != "Swop" {
		t.Fatalf("unexpected template keywords %+v", cfg.Keywords)
	}
}

func TestCreateTemplateConfig_NoPath(t *testing.T) {
	if err := CreateTemplateConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestRenderUnit(t *testing.T) {
	unit := renderUnit("/opt/bin/oscrelay", "/etc/relay.json")

	for _, want := range []string{
		"Type=notify",
		"ExecStart=/opt/bin/oscrelay relay --config /etc/relay.json",
		"ExecReload=/bin/kill -HUP $MAINPID",
		"WantedBy=multi-user.target",
	} {
		if !strings.Contains(unit, want) {
			t.Fatalf("unit missing %q:\n%s", want, unit)
		}
	}
}
