package server

import (
	"context"
	"fmt"
	"net/http"
	"oscrelay/internal/global"
	"oscrelay/internal/metrics"
	"time"
)

// Handles metric search requests based on time for data
func handleData(baseCtx context.Context, search DataSearcher, serverResponder http.ResponseWriter, clientRequest *http.Request) {
	reqNamespace := namespaceFromPath(clientRequest.URL.Path, global.DataPath)
	reqName := clientRequest.FormValue("name")

	now := time.Now()
	reqStartTime, reqEndTime, err := parseTimeRange(now,
		clientRequest.FormValue("starttime"),
		clientRequest.FormValue("endtime"))
	if err != nil {
		serverResponder.WriteHeader(http.StatusBadRequest)
		return
	}

	rawResults := search(reqName, reqNamespace, reqStartTime, reqEndTime)

	var results []metrics.JMetric
	for _, rawResult := range rawResults {
		results = append(results, rawResult.Convert())
	}

	if len(results) == 0 {
		jResp(baseCtx, serverResponder, Jerror{Msg: "Search returned no results"})
	} else {
		jResp(baseCtx, serverResponder, results)
	}
}

// Start accepts empty (last minute), a relative duration into the past, or RFC3339.
// End accepts empty or "now", or RFC3339.
func parseTimeRange(now time.Time, rawStart, rawEnd string) (start, end time.Time, err error) {
	switch {
	case rawStart == "":
		start = now.Add(-1 * time.Minute)
	case rawStart[0] == '-' || rawStart[0] == '+':
		dur, parseErr := time.ParseDuration(rawStart)
		if parseErr != nil {
			// Unparsable relative time falls back to last minute
			start = now.Add(-1 * time.Minute)
		} else if dur > 0 {
			err = fmt.Errorf("start time %q is in the future", rawStart)
			return
		} else {
			start = now.Add(dur)
		}
	default:
		start, err = time.Parse(time.RFC3339Nano, rawStart)
		if err != nil {
			return
		}
	}

	if rawEnd == "" || rawEnd == "now" {
		end = now
	} else {
		end, err = time.Parse(time.RFC3339Nano, rawEnd)
		if err != nil {
			return
		}
	}
	return
}
