package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

var daemonClient = &http.Client{Timeout: 5 * time.Second}

func daemonURL(path string) string {
	return fmt.Sprintf("http://localhost:%d%s", cfg.DaemonPort, path)
}

// callDaemon sends a request to the running daemon and decodes the JSON
// reply into out, which may be nil.
func callDaemon(method, path string, out any) error {
	req, err := http.NewRequest(method, daemonURL(path), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := daemonClient.Do(req)
	if err != nil {
		return fmt.Errorf("daemon not running on port %d: %w", cfg.DaemonPort, err)
	}

	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return fmt.Errorf("daemon returned %s: %s", resp.Status, apiErr.Error)
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode daemon response: %w", err)
	}

	return nil
}
