package relay

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfig_Comments(t *testing.T) {
	content := `{
	// peer A is ShowCockpit
	"peerA": {"name": "SC", "listenPort": 9100, "namespacePrefix": "/1.1."},
	"peerB": {"name": "MA", "sendPort": 9000,},
	"keywords": [{"a": "Swop", "b": "Swap"}, {"a": "Go", "b": "Goto"}],
	"metrics": {"collectionInterval": "5s", "maximumRetention": "10m"},
	"mirror": {"beatsAddress": "127.0.0.1:5044"}
}`
	path := filepath.Join(t.TempDir(), "relay.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	jsonCfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg, err := jsonCfg.NewDaemonConf()
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	if cfg.PeerA.ListenPort != 9100 || cfg.PeerA.Prefix != "/1.1." {
		t.Fatalf("unexpected peer A %+v", cfg.PeerA)
	}
	if cfg.PeerB.SendPort != 9000 {
		t.Fatalf("unexpected peer B %+v", cfg.PeerB)
	}
	if len(cfg.Keywords) != 2 || cfg.Keywords[1].B != "Goto" {
		t.Fatalf("unexpected keywords %+v", cfg.Keywords)
	}
	if cfg.MetricCollectionInterval != 5*time.Second || cfg.MetricMaxAge != 10*time.Minute {
		t.Fatalf("unexpected metric durations %v %v", cfg.MetricCollectionInterval, cfg.MetricMaxAge)
	}
	if cfg.MirrorEndpoint != "127.0.0.1:5044" {
		t.Fatalf("unexpected mirror endpoint %q", cfg.MirrorEndpoint)
	}

	// Unset values are filled in by defaults
	cfg.setDefaults()
	if cfg.PeerA.SendPort != 8101 || cfg.PeerB.Prefix != "/14.14." {
		t.Fatalf("defaults not applied: %+v %+v", cfg.PeerA, cfg.PeerB)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadConfig(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"peerA": [}`), 0600)
	if _, err := LoadConfig(bad); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestNewDaemonConf_BadDuration(t *testing.T) {
	var jsonCfg JSONConfig
	jsonCfg.Metrics.Interval = "soon"
	if _, err := jsonCfg.NewDaemonConf(); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestDefaultJSONConfig(t *testing.T) {
	jsonCfg := DefaultJSONConfig()
	cfg, err := jsonCfg.NewDaemonConf()
	if err != nil {
		t.Fatalf("default config does not parse: %v", err)
	}
	if err = cfg.validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.PeerA.Name != "SC" || cfg.PeerB.Name != "MA" {
		t.Fatalf("unexpected names %q %q", cfg.PeerA.Name, cfg.PeerB.Name)
	}
}
