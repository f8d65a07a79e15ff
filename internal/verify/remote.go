package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/veridash/veridash/internal/models"
)

const maxRemoteResponse = 16 * 1024 * 1024

// Remote is the verification backend that delegates to an external
// HTTP service. Text payloads are sent as JSON, file payloads as
// multipart form data.
type Remote struct {
	baseURL string
	client  *http.Client
}

// NewRemote creates a remote backend for the given service URL.
func NewRemote(baseURL string, timeout time.Duration) (*Remote, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("remote verifier URL is required")
	}
	return &Remote{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}, nil
}

// Name returns the backend name.
func (r *Remote) Name() string { return "remote" }

// Verify posts the payload to the external service and parses the
// returned report, rejecting malformed responses at the boundary.
func (r *Remote) Verify(ctx context.Context, payload *models.SubmissionPayload) (*models.VerificationReport, error) {
	var req *http.Request
	var err error

	switch payload.Type {
	case models.PayloadText:
		req, err = r.textRequest(ctx, payload.Text)
	case models.PayloadFile:
		req, err = r.fileRequest(ctx, payload.File)
	default:
		return nil, fmt.Errorf("unknown payload type: %q", payload.Type)
	}
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verification request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteResponse))
	if err != nil {
		return nil, fmt.Errorf("failed to read verification response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("verification service returned %d: %s", resp.StatusCode, errorMessage(body))
	}

	return models.ParseReport(body)
}

func (r *Remote) textRequest(ctx context.Context, text string) (*http.Request, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (r *Remote) fileRequest(ctx context.Context, file *models.FileBlob) (*http.Request, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", file.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/verify-file", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req, nil
}

// errorMessage extracts a human-readable message from an error body.
func errorMessage(body []byte) string {
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, msg := range []string{parsed.Error, parsed.Message, parsed.Detail} {
			if msg != "" {
				return msg
			}
		}
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
