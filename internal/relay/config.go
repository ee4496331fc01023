package relay

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"oscrelay/internal/global"
	"oscrelay/internal/translate"
	"time"

	"github.com/tidwall/jsonc"
)

// Loads JSON config from file. Comments and trailing commas are accepted.
func LoadConfig(path string) (cfg JSONConfig, err error) {
	configFile, err := os.ReadFile(path)
	if err != nil {
		err = fmt.Errorf("failed to read config file: %w", err)
		return
	}

	err = json.Unmarshal(jsonc.ToJSON(configFile), &cfg)
	if err != nil {
		err = fmt.Errorf("invalid config syntax in '%s': %w", path, err)
		return
	}
	return
}

// Parses JSON config into daemon config
func (cfg JSONConfig) NewDaemonConf() (config Config, err error) {
	config.PeerA = Peer(cfg.PeerA)
	config.PeerB = Peer(cfg.PeerB)
	config.Keywords = append([]translate.KeywordPair(nil), cfg.Keywords...)
	config.Verbose = cfg.Verbose

	config.MetricQueryServerEnabled = cfg.Metrics.EnableQueryServer
	config.MetricQueryServerPort = cfg.Metrics.QueryServerPort
	if cfg.Metrics.MaxAge != "" {
		config.MetricMaxAge, err = time.ParseDuration(cfg.Metrics.MaxAge)
		if err != nil {
			err = fmt.Errorf("failed to parse metric max age time: %w", err)
			return
		}
	}
	if cfg.Metrics.Interval != "" {
		config.MetricCollectionInterval, err = time.ParseDuration(cfg.Metrics.Interval)
		if err != nil {
			err = fmt.Errorf("failed to parse metric collection interval time: %w", err)
			return
		}
	}

	config.MirrorEndpoint = cfg.Mirror.BeatsAddress
	config.CaptureFile = cfg.Mirror.CaptureFile
	return
}

// Default config in JSON form, used for templates
func DefaultJSONConfig() (cfg JSONConfig) {
	var config Config
	config.setDefaults()

	cfg.PeerA = JSONPeer(config.PeerA)
	cfg.PeerB = JSONPeer(config.PeerB)
	cfg.Keywords = config.Keywords
	cfg.Metrics.Interval = config.MetricCollectionInterval.String()
	cfg.Metrics.MaxAge = config.MetricMaxAge.String()
	cfg.Metrics.QueryServerPort = config.MetricQueryServerPort
	return
}

// Sets defaults for any missing values
func (cfg *Config) setDefaults() {
	// Peer A
	if cfg.PeerA.Name == "" {
		cfg.PeerA.Name = global.DefaultPeerAName
	}
	if cfg.PeerA.ListenIP == "" {
		cfg.PeerA.ListenIP = global.DefaultPeerAListenIP
	}
	if cfg.PeerA.ListenPort == 0 {
		cfg.PeerA.ListenPort = global.DefaultPeerAListenPort
	}
	if cfg.PeerA.SendIP == "" {
		cfg.PeerA.SendIP = global.DefaultPeerASendIP
	}
	if cfg.PeerA.SendPort == 0 {
		cfg.PeerA.SendPort = global.DefaultPeerASendPort
	}
	if cfg.PeerA.Prefix == "" {
		cfg.PeerA.Prefix = global.DefaultPeerAPrefix
	}

	// Peer B
	if cfg.PeerB.Name == "" {
		cfg.PeerB.Name = global.DefaultPeerBName
	}
	if cfg.PeerB.ListenIP == "" {
		cfg.PeerB.ListenIP = global.DefaultPeerBListenIP
	}
	if cfg.PeerB.ListenPort == 0 {
		cfg.PeerB.ListenPort = global.DefaultPeerBListenPort
	}
	if cfg.PeerB.SendIP == "" {
		cfg.PeerB.SendIP = global.DefaultPeerBSendIP
	}
	if cfg.PeerB.SendPort == 0 {
		cfg.PeerB.SendPort = global.DefaultPeerBSendPort
	}
	if cfg.PeerB.Prefix == "" {
		cfg.PeerB.Prefix = global.DefaultPeerBPrefix
	}

	// Vocabulary
	if cfg.Keywords == nil {
		cfg.Keywords = []translate.KeywordPair{{A: global.DefaultKeywordA, B: global.DefaultKeywordB}}
	}

	// Metrics
	if cfg.MetricMaxAge == 0 {
		cfg.MetricMaxAge = global.DefaultMetricRetention
	}
	if cfg.MetricQueryServerPort == 0 {
		cfg.MetricQueryServerPort = global.HTTPListenPort
	}
	if cfg.MetricCollectionInterval == 0 {
		cfg.MetricCollectionInterval = global.DefaultMetricInterval
	}
}

// Rejects configurations the relay cannot run with
func (cfg Config) validate() (err error) {
	for _, peer := range []Peer{cfg.PeerA, cfg.PeerB} {
		for _, addr := range []string{peer.ListenIP, peer.SendIP} {
			if net.ParseIP(addr) == nil {
				if _, lookupErr := net.LookupHost(addr); lookupErr != nil {
					err = fmt.Errorf("peer %s: invalid address %q", peer.Name, addr)
					return
				}
			}
		}
		for _, port := range []int{peer.ListenPort, peer.SendPort} {
			if port < 1 || port > 65535 {
				err = fmt.Errorf("peer %s: port %d out of range", peer.Name, port)
				return
			}
		}
	}
	if cfg.PeerA.Name == cfg.PeerB.Name {
		err = fmt.Errorf("peers must have distinct names, both are %q", cfg.PeerA.Name)
		return
	}
	if cfg.MetricCollectionInterval < 0 || cfg.MetricMaxAge < 0 {
		err = fmt.Errorf("metric durations must not be negative")
		return
	}
	return
}
