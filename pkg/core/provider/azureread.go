package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"finextract/pkg/models"
)

// Read operation states reported by the Azure Read API. The operation is a
// state machine: notStarted and running cause a fixed-interval wait before
// the next poll; succeeded and failed are terminal.
const (
	azureStatusNotStarted = "notStarted"
	azureStatusRunning    = "running"
	azureStatusSucceeded  = "succeeded"
	azureStatusFailed     = "failed"
)

type azureReadResult struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		ReadResults []struct {
			Page  int `json:"page"`
			Lines []struct {
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"readResults"`
	} `json:"analyzeResult"`
}

// AzureReadBackend extracts text with the Azure Computer Vision Read API.
// Submission returns an operation URL which is polled until a terminal
// state. The poll interval and sleep function are injectable so tests never
// wait on a wall clock.
type AzureReadBackend struct {
	endpoint     string
	key          string
	httpClient   *http.Client
	pollInterval time.Duration
	sleep        func(time.Duration)
}

func NewAzureReadBackend(endpoint, key string) (*AzureReadBackend, error) {
	if endpoint == "" || key == "" {
		return nil, &ConfigError{Backend: "azure-read", Missing: "AZURE_COMPUTER_VISION_ENDPOINT and AZURE_COMPUTER_VISION_KEY"}
	}
	return &AzureReadBackend{
		endpoint:     strings.TrimRight(endpoint, "/"),
		key:          key,
		httpClient:   &http.Client{},
		pollInterval: time.Second,
		sleep:        time.Sleep,
	}, nil
}

var _ TextExtractor = (*AzureReadBackend)(nil)

func (a *AzureReadBackend) ExtractText(ctx context.Context, document []byte) (*TextResult, error) {
	start := time.Now()

	operationURL, err := a.submit(ctx, document)
	if err != nil {
		return nil, err
	}

	result, err := a.pollUntilDone(ctx, operationURL)
	if err != nil {
		return nil, err
	}
	end := time.Now()

	var sb strings.Builder
	pages := result.AnalyzeResult.ReadResults
	sort.SliceStable(pages, func(i, j int) bool { return pages[i].Page < pages[j].Page })
	for _, page := range pages {
		for _, line := range page.Lines {
			sb.WriteString(line.Text)
			sb.WriteString("\n")
		}
	}

	return &TextResult{
		Text: sb.String(),
		Timing: models.Timing{
			Start:      start.UnixMilli(),
			End:        end.UnixMilli(),
			DurationMS: end.Sub(start).Milliseconds(),
		},
	}, nil
}

// submit starts the read operation and returns the polling URL from the
// Operation-Location header.
func (a *AzureReadBackend) submit(ctx context.Context, document []byte) (string, error) {
	url := a.endpoint + "/vision/v3.2/read/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(document))
	if err != nil {
		return "", &BackendError{Backend: "azure-read", Message: "request construction failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/pdf")
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)

	res, err := a.httpClient.Do(req)
	if err != nil {
		return "", &BackendError{Backend: "azure-read", Message: "submit failed", Err: err}
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	if res.StatusCode != http.StatusAccepted {
		return "", &BackendError{Backend: "azure-read", Message: fmt.Sprintf("submit status=%d", res.StatusCode)}
	}
	location := res.Header.Get("Operation-Location")
	if location == "" {
		return "", &BackendError{Backend: "azure-read", Message: "missing Operation-Location header"}
	}
	return location, nil
}

// pollUntilDone drives the operation state machine. notStarted/running wait
// one interval and poll again; succeeded yields the result; failed is
// terminal and polls no further.
func (a *AzureReadBackend) pollUntilDone(ctx context.Context, operationURL string) (*azureReadResult, error) {
	for {
		result, err := a.poll(ctx, operationURL)
		if err != nil {
			return nil, err
		}

		switch result.Status {
		case azureStatusSucceeded:
			return result, nil
		case azureStatusFailed:
			return nil, &BackendError{Backend: "azure-read", Message: "read operation failed"}
		case azureStatusNotStarted, azureStatusRunning:
			if err := ctx.Err(); err != nil {
				return nil, &BackendError{Backend: "azure-read", Message: "poll cancelled", Err: err}
			}
			a.sleep(a.pollInterval)
		default:
			return nil, &BackendError{Backend: "azure-read", Message: fmt.Sprintf("unknown operation status %q", result.Status)}
		}
	}
}

func (a *AzureReadBackend) poll(ctx context.Context, operationURL string) (*azureReadResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	if err != nil {
		return nil, &BackendError{Backend: "azure-read", Message: "poll request construction failed", Err: err}
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", a.key)

	res, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &BackendError{Backend: "azure-read", Message: "poll failed", Err: err}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &BackendError{Backend: "azure-read", Message: "poll response read failed", Err: err}
	}
	if res.StatusCode != http.StatusOK {
		return nil, &BackendError{Backend: "azure-read", Message: fmt.Sprintf("poll status=%d", res.StatusCode)}
	}

	var result azureReadResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &BackendError{Backend: "azure-read", Message: "poll response decoding failed", Err: err}
	}
	return &result, nil
}
