package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/duskforge/riftgate/internal/handlers"
	"github.com/duskforge/riftgate/pkg/run"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func createRun(client *http.Client, baseURL, seed string) (*handlers.RunSummary, error) {
	body, err := json.Marshal(handlers.CreateRunRequest{Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(baseURL+"/v1/runs", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var summary handlers.RunSummary
	if err := decodeResponse(resp, http.StatusCreated, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func getRun(client *http.Client, baseURL string, runID uuid.UUID) (*handlers.RunSummary, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/runs/%s", baseURL, runID))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var summary handlers.RunSummary
	if err := decodeResponse(resp, http.StatusOK, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func previewSide(client *http.Client, baseURL string, runID uuid.UUID, side run.Side) (run.BranchChoice, error) {
	resp, err := client.Get(fmt.Sprintf("%s/v1/runs/%s/preview?side=%s", baseURL, runID, side))
	if err != nil {
		return run.BranchChoice{}, fmt.Errorf("failed to send request: %w", err)
	}

	var choice run.BranchChoice
	if err := decodeResponse(resp, http.StatusOK, &choice); err != nil {
		return run.BranchChoice{}, err
	}
	return choice, nil
}

func selectSide(client *http.Client, baseURL string, runID uuid.UUID, side run.Side, fastForward bool) (*handlers.SelectResponse, error) {
	body, err := json.Marshal(handlers.SelectRequest{Side: side.String(), FastForward: fastForward})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(fmt.Sprintf("%s/v1/runs/%s/select", baseURL, runID), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var selection handlers.SelectResponse
	if err := decodeResponse(resp, http.StatusOK, &selection); err != nil {
		return nil, err
	}
	return &selection, nil
}

func markCleared(client *http.Client, baseURL string, runID uuid.UUID, key string) (*handlers.RunSummary, error) {
	body, err := json.Marshal(handlers.ClearedRequest{Encounter: key})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := client.Post(fmt.Sprintf("%s/v1/runs/%s/cleared", baseURL, runID), "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var summary handlers.RunSummary
	if err := decodeResponse(resp, http.StatusOK, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

func decodeResponse(resp *http.Response, wantStatus int, v any) error {
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		var errorResp ErrorResponse
		if err := json.Unmarshal(body, &errorResp); err != nil {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
		}
		return fmt.Errorf("API error: %s", errorResp.Error)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
