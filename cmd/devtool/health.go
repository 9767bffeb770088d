package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/osse101/RedeemBot_Go/internal/handler"
)

const slowResponseThreshold = time.Second

type HealthCheckCommand struct{}

func (c *HealthCheckCommand) Name() string {
	return "health-check"
}

func (c *HealthCheckCommand) Description() string {
	return "Check /healthz, /readyz and /version of a running instance [base-url]"
}

func (c *HealthCheckCommand) Run(args []string) error {
	baseURL := getEnv("API_URL", defaultAPIURL)
	if len(args) > 0 {
		baseURL = args[0]
	}

	PrintHeader(fmt.Sprintf("Health Check (%s)", baseURL))
	client := &http.Client{Timeout: 5 * time.Second}

	for _, path := range []string{"/healthz", "/readyz"} {
		start := time.Now()
		var resp handler.HealthResponse
		status, err := getJSON(client, baseURL+path, &resp)
		duration := time.Since(start)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if status != http.StatusOK {
			return fmt.Errorf("%s returned %d: %s", path, status, resp.Message)
		}
		if duration > slowResponseThreshold {
			PrintWarning("%s ok but slow (%v)", path, duration)
		} else {
			PrintSuccess("%s ok (%v)", path, duration)
		}
	}

	var info handler.VersionInfo
	if _, err := getJSON(client, baseURL+"/version", &info); err != nil {
		PrintWarning("version unavailable: %v", err)
		return nil
	}
	PrintInfo("version %s (%s, commit %s)", info.Version, info.GoVersion, info.GitCommit)
	return nil
}

func getJSON(client *http.Client, url string, out interface{}) (int, error) {
	resp, err := client.Get(url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
