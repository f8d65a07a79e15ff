package verify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/veridash/veridash/internal/models"
	"github.com/veridash/veridash/internal/verify"
)

func remoteReportBody() string {
	return `{
		"trust_score": 0.75,
		"status": "completed",
		"results": {"citations": [], "facts": [], "links": []},
		"metadata": {
			"total_citations": 0, "verified_citations": 0, "fake_citations": 0,
			"suspicious_citations": 0, "total_facts": 0, "true_facts": 0,
			"false_facts": 0, "mixed_facts": 0, "total_links": 0,
			"working_links": 0, "broken_links": 0, "processing_time": 0.5,
			"file_name": null, "analyzed_at": "2024-05-10T12:00:00Z"
		}
	}`
}

func TestRemoteVerifyText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/verify", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req struct {
			Text string `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "hello world", req.Text)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(remoteReportBody()))
	}))
	defer server.Close()

	remote, err := verify.NewRemote(server.URL, 5*time.Second)
	require.NoError(t, err)

	report, err := remote.Verify(context.Background(), &models.SubmissionPayload{
		Type: models.PayloadText,
		Text: "hello world",
	})
	require.NoError(t, err)
	require.Equal(t, 0.75, report.TrustScore)
	require.Equal(t, models.ReportCompleted, report.Status)
}

func TestRemoteVerifyFileUsesMultipart(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/verify-file", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "paper.pdf", header.Filename)

		w.Write([]byte(remoteReportBody()))
	}))
	defer server.Close()

	remote, err := verify.NewRemote(server.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = remote.Verify(context.Background(), &models.SubmissionPayload{
		Type: models.PayloadFile,
		File: &models.FileBlob{
			Name:     "paper.pdf",
			Size:     4,
			MimeType: "application/pdf",
			Data:     []byte("%PDF"),
		},
	})
	require.NoError(t, err)
}

func TestRemoteSurfacesServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": "models are still loading"}`))
	}))
	defer server.Close()

	remote, err := verify.NewRemote(server.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = remote.Verify(context.Background(), &models.SubmissionPayload{
		Type: models.PayloadText,
		Text: "hello",
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "models are still loading")
}

func TestRemoteRejectsMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Unknown enum value must be rejected at the model boundary.
		body := remoteReportBody()
		w.Write([]byte(body[:len(body)-1] + `,"status":"almost"}`))
	}))
	defer server.Close()

	remote, err := verify.NewRemote(server.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = remote.Verify(context.Background(), &models.SubmissionPayload{
		Type: models.PayloadText,
		Text: "hello",
	})
	require.Error(t, err)
}

func TestRemoteRequiresURL(t *testing.T) {
	_, err := verify.NewRemote("", time.Second)
	require.Error(t, err)
}
