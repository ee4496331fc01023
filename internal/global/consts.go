package global

import "time"

const (
	// Descriptive Names for available verbosity levels
	VerbosityNone int = iota
	VerbosityStandard
	VerbosityProgress
	VerbosityData
	VerbosityFullData
	VerbosityDebug

	// Descriptive names for available severity levels
	ErrorLog string = "Error"
	WarnLog  string = "Warn"
	InfoLog  string = "Info"
)

const (
	ProgVersion  string = "v0.3.0"
	ProgBaseName string = "oscrelay"

	// Context keys
	LoggerKey  CtxKey = "logger"  // Event queue (mostly for variable log verbosity handling)
	LogTagsKey CtxKey = "logtags" // List of tags in order of broad->specific appended/popped at various parts of the program

	DefaultConfigPath string = "/etc/oscrelay.json"
	DefaultBinaryPath string = "/usr/local/bin/oscrelay"
	DefaultUnitPath   string = "/etc/systemd/system/oscrelay.service"

	// Peer A (ShowCockpit) defaults
	DefaultPeerAName       string = "SC"
	DefaultPeerAListenIP   string = "127.0.0.1"
	DefaultPeerAListenPort int    = 8100 // ShowCockpit sends on
	DefaultPeerASendIP     string = "127.0.0.1"
	DefaultPeerASendPort   int    = 8101 // ShowCockpit listens on
	DefaultPeerAPrefix     string = "/13.13."

	// Peer B (grandMA3) defaults
	DefaultPeerBName       string = "MA"
	DefaultPeerBListenIP   string = "127.0.0.1"
	DefaultPeerBListenPort int    = 8001 // MA3 sends on
	DefaultPeerBSendIP     string = "127.0.0.1"
	DefaultPeerBSendPort   int    = 8000 // MA3 listens on
	DefaultPeerBPrefix     string = "/14.14."

	// Keyword vocabulary defaults (peer A word -> peer B word)
	DefaultKeywordA string = "Swop"
	DefaultKeywordB string = "Swap"

	// Largest possible UDP payload
	MaxDatagramSize int = 65535

	// Timeout values
	DrainNoticeTimeout time.Duration = 2 * time.Second // Warn when senders take longer than this to flush
	AuxShutdownTimeout time.Duration = 5 * time.Second // Upper wait for metric/mirror workers

	// Pause between failing socket reads, doubled per consecutive failure
	ReadRetryMinDelay time.Duration = 10 * time.Millisecond
	ReadRetryMaxDelay time.Duration = 1 * time.Second
	ReadErrorLogEvery int           = 100 // Log every nth consecutive read failure after the first

	// Share of free system memory queued messages may use before warnings are raised
	QueueMemoryWarnPercent float64 = 25.0

	// Audit mirror
	MirrorBatchSize   int           = 64
	MirrorDialTimeout time.Duration = 3 * time.Second
	CaptureBatchSize  int           = 20

	// Metrics
	DefaultMetricInterval  time.Duration = 15 * time.Second
	DefaultMetricRetention time.Duration = 1 * time.Hour

	// Metric HTTP server
	HTTPListenPort   int           = 18100                 // Default listen port
	HTTPListenAddr   string        = "localhost"           // Metric queries only exposed to local machine
	HTTPReadTimeout  time.Duration = 30 * time.Second
	HTTPWriteTimeout time.Duration = 10 * time.Second
	HTTPIdleTimeout  time.Duration = 180 * time.Second
	DiscoveryPath    string        = "/discover"
	DataPath         string        = "/data"
	AggregationPath  string        = "/aggregate"

	// Metric aggregation types
	MetricSum        string  = "sum"
	MetricAvg        string  = "avg"
	MetricMin        string  = "min"
	MetricMax        string  = "max"
	MetricTrimmedAvg string  = "trimmed-avg"
	MetricTrimShare  float64 = 0.1 // Share cut from each end for trimmed-avg

	// Namespacing Name Components
	NSMetric    string = "Metrics"
	NSMetricSrv string = "Server"
	NSTest      string = "Test"
	NSCLI       string = "CLI"
	NSRelay     string = "Relay"
	NSQueue     string = "Queue"
	NSListen    string = "Listener"
	NSSend      string = "Sender"
	NSMirror    string = "Mirror"
	NSCapture   string = "Capture"
	NSConsole   string = "Console"
)
