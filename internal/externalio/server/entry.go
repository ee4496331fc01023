// HTTP server to expose discovery and querying of metric data to other programs only on the local system
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"oscrelay/internal/global"
	"oscrelay/internal/logctx"
	"strconv"
	"strings"
)

// Sets up HTTP listener configuration for metric querying
func SetupListener(ctx context.Context, port int, search DataSearcher, discover Discoverer, aggregation AggSearcher) (server *http.Server) {
	requestMultiplexer := http.NewServeMux()

	index := []endpoint{
		{
			Path:        global.DiscoveryPath + "/{namespace...}",
			Description: "Lists available metrics without data",
			Parameters:  []string{"name", "description", "unit", "type"},
		},
		{
			Path:        global.DataPath + "/{namespace...}",
			Description: "Returns metric data points in a time range",
			Parameters:  []string{"name", "starttime", "endtime"},
		},
		{
			Path:        global.AggregationPath + "/{namespace...}",
			Description: "Reduces one metric in a time range to a single value (sum, avg, min, max, trimmed-avg)",
			Parameters:  []string{"name", "aggregation", "starttime", "endtime"},
		},
	}

	// Root index
	requestMultiplexer.HandleFunc("/", func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if clientRequest.URL.Path != "/" {
			serverResponder.WriteHeader(http.StatusNotFound)
			return
		}
		jResp(ctx, serverResponder, index)
	})

	// Metric Discovery Requests
	discoveryHandler := func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleDiscovery(ctx, discover, serverResponder, clientRequest)
	}
	requestMultiplexer.HandleFunc(global.DiscoveryPath, discoveryHandler)
	requestMultiplexer.HandleFunc(global.DiscoveryPath+"/", discoveryHandler)

	// Metric Data Requests
	dataHandler := func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleData(ctx, search, serverResponder, clientRequest)
	}
	requestMultiplexer.HandleFunc(global.DataPath, dataHandler)
	requestMultiplexer.HandleFunc(global.DataPath+"/", dataHandler)

	// Metric Aggregation Requests
	aggregationHandler := func(serverResponder http.ResponseWriter, clientRequest *http.Request) {
		if clientRequest.Method != http.MethodGet {
			serverResponder.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handleAggregation(ctx, aggregation, serverResponder, clientRequest)
	}
	requestMultiplexer.HandleFunc(global.AggregationPath, aggregationHandler)
	requestMultiplexer.HandleFunc(global.AggregationPath+"/", aggregationHandler)

	// Server configuration
	server = &http.Server{
		Addr:         global.HTTPListenAddr + ":" + strconv.Itoa(port),
		Handler:      requestMultiplexer,
		ReadTimeout:  global.HTTPReadTimeout,
		WriteTimeout: global.HTTPWriteTimeout,
		IdleTimeout:  global.HTTPIdleTimeout,
		ErrorLog:     log.New(httpLogWriter{ctx: ctx}, "", 0),
	}
	return
}

// Starts the metric HTTP server and waits for requests
func Start(ctx context.Context, server *http.Server) {
	logctx.LogEvent(ctx, global.VerbosityStandard, global.InfoLog,
		"Metric query server starting on %s (http://%s/)\n", server.Addr, server.Addr)
	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog,
			"Metric query server failed to start: %v\n", err)
	}
}

// Splits the path remainder after prefix into namespace components
func namespaceFromPath(path, prefix string) (namespace []string) {
	raw := strings.Trim(strings.TrimPrefix(path, prefix), "/")
	if raw == "" {
		return
	}
	namespace = strings.Split(raw, "/")
	return
}

// Encodes JSON and sends as response body
func jResp(ctx context.Context, serverResponder http.ResponseWriter, content any) {
	buf := new(bytes.Buffer)
	if err := json.NewEncoder(buf).Encode(content); err != nil {
		serverResponder.WriteHeader(http.StatusInternalServerError)
		logctx.LogEvent(ctx, global.VerbosityStandard, global.ErrorLog, "Failed marshaling metric results: %v\n", err)
		return
	}
	serverResponder.Header().Set("Content-Type", "application/json")
	serverResponder.WriteHeader(http.StatusOK)
	serverResponder.Write(buf.Bytes())
}

// Logs HTTP server errors to internal program buffer (via context logger)
func (logWriter httpLogWriter) Write(p []byte) (n int, err error) {
	n = len(p)
	if n == 0 {
		return
	}
	logctx.LogEvent(logWriter.ctx, global.VerbosityStandard, global.ErrorLog,
		"%s\n", strings.TrimSpace(string(p)))
	return
}
