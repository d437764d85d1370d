package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// scriptedReadServer serves the analyze submission plus a fixed sequence of
// poll statuses, recording how often it was polled.
func scriptedReadServer(t *testing.T, statuses []string, finalBody string) (*httptest.Server, *int) {
	t.Helper()
	polls := 0

	mux := http.NewServeMux()
	var server *httptest.Server
	mux.HandleFunc("/vision/v3.2/read/analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Ocp-Apim-Subscription-Key") == "" {
			t.Error("submit request is missing the subscription key")
		}
		w.Header().Set("Operation-Location", server.URL+"/vision/v3.2/read/analyzeResults/op-1")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/vision/v3.2/read/analyzeResults/op-1", func(w http.ResponseWriter, r *http.Request) {
		if polls >= len(statuses) {
			t.Errorf("poll %d exceeds the scripted sequence", polls+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		status := statuses[polls]
		polls++

		if status == azureStatusSucceeded && finalBody != "" {
			w.Write([]byte(finalBody))
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	})
	server = httptest.NewServer(mux)
	return server, &polls
}

func newTestReadBackend(serverURL string) (*AzureReadBackend, *int) {
	waits := 0
	backend := &AzureReadBackend{
		endpoint:     serverURL,
		key:          "test-key",
		httpClient:   http.DefaultClient,
		pollInterval: time.Second,
		sleep:        func(time.Duration) { waits++ },
	}
	return backend, &waits
}

func TestAzureReadPollsUntilSucceeded(t *testing.T) {
	finalBody := `{
		"status": "succeeded",
		"analyzeResult": {
			"readResults": [
				{"page": 2, "lines": [{"text": "second page"}]},
				{"page": 1, "lines": [{"text": "Revenue from operations"}, {"text": "5,000.00"}]}
			]
		}
	}`
	server, polls := scriptedReadServer(t, []string{azureStatusRunning, azureStatusRunning, azureStatusSucceeded}, finalBody)
	defer server.Close()

	backend, waits := newTestReadBackend(server.URL)
	result, err := backend.ExtractText(context.Background(), []byte("%PDF-fake"))
	if err != nil {
		t.Fatalf("ExtractText returned error: %v", err)
	}

	want := "Revenue from operations\n5,000.00\nsecond page\n"
	if result.Text != want {
		t.Errorf("text = %q, want %q (pages must come back in ascending order)", result.Text, want)
	}
	if *polls != 3 {
		t.Errorf("polled %d times, want 3", *polls)
	}
	if *waits != 2 {
		t.Errorf("waited %d times, want exactly 2 (one per non-terminal poll)", *waits)
	}
}

func TestAzureReadNotStartedCountsAsWait(t *testing.T) {
	finalBody := `{"status": "succeeded", "analyzeResult": {"readResults": [{"page": 1, "lines": [{"text": "x"}]}]}}`
	server, _ := scriptedReadServer(t, []string{azureStatusNotStarted, azureStatusSucceeded}, finalBody)
	defer server.Close()

	backend, waits := newTestReadBackend(server.URL)
	if _, err := backend.ExtractText(context.Background(), []byte("%PDF-fake")); err != nil {
		t.Fatalf("ExtractText returned error: %v", err)
	}
	if *waits != 1 {
		t.Errorf("waited %d times, want 1", *waits)
	}
}

func TestAzureReadFailedIsTerminal(t *testing.T) {
	server, polls := scriptedReadServer(t, []string{azureStatusRunning, azureStatusFailed}, "")
	defer server.Close()

	backend, waits := newTestReadBackend(server.URL)
	_, err := backend.ExtractText(context.Background(), []byte("%PDF-fake"))
	if err == nil {
		t.Fatal("expected an error for a failed read operation")
	}
	var backendErr *BackendError
	if !errors.As(err, &backendErr) {
		t.Fatalf("expected *BackendError, got %T", err)
	}
	if *polls != 2 {
		t.Errorf("polled %d times, want 2 (no polling past the terminal state)", *polls)
	}
	if *waits != 1 {
		t.Errorf("waited %d times, want 1", *waits)
	}
}

func TestAzureReadRequiresCredentials(t *testing.T) {
	if _, err := NewAzureReadBackend("", ""); err == nil {
		t.Fatal("expected a config error without credentials")
	} else {
		var cfgErr *ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected *ConfigError, got %T", err)
		}
	}
}
