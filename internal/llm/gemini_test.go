package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGemini_SendsPayloadAndExtractsText(t *testing.T) {
	var gotPath, gotKey, gotQuery string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		gotQuery = r.URL.RawQuery
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"Galaxy Gala is stellar."}]}}],
			"usageMetadata":{"promptTokenCount":3,"candidatesTokenCount":5,"totalTokenCount":8}}`)
	}))
	defer srv.Close()

	c := NewGemini("secret", srv.URL, "gemini-test", 5*time.Second)
	resp, err := c.Generate(context.Background(), "be brief", "tell me")
	require.NoError(t, err)

	require.Equal(t, "/models/gemini-test:generateContent", gotPath)
	require.Equal(t, "secret", gotKey)
	require.Empty(t, gotQuery)
	require.Equal(t, "Galaxy Gala is stellar.", resp.Content)
	require.Equal(t, 8, resp.TotalTokens)

	contents := gotBody["contents"].([]any)
	part := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)
	require.Equal(t, "tell me", part["text"])
	sys := gotBody["system_instruction"].(map[string]any)["parts"].([]any)[0].(map[string]any)
	require.Equal(t, "be brief", sys["text"])
}

func TestGemini_MissingCandidateReturnsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	}))
	defer srv.Close()

	resp, err := NewGemini("k", srv.URL, "", time.Second).Generate(context.Background(), "", "hi")
	require.NoError(t, err)
	require.Equal(t, NoAnswer, resp.Content)
}

func TestGemini_OmitsEmptySystemInstruction(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &gotBody)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	_, err := NewGemini("k", srv.URL, "", time.Second).Generate(context.Background(), "", "hi")
	require.NoError(t, err)
	_, present := gotBody["system_instruction"]
	require.False(t, present)
}

func TestGemini_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewGemini("k", srv.URL, "", time.Second).Generate(context.Background(), "", "hi")
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusTooManyRequests, se.Code)
}

func TestGemini_BadJSONIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	}))
	defer srv.Close()

	_, err := NewGemini("k", srv.URL, "", time.Second).Generate(context.Background(), "", "hi")
	require.Error(t, err)
}

func TestGemini_TransportErrorOmitsKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	_, err := NewGemini("SUPERSECRETKEY", base, "gemini-test", time.Second).Generate(context.Background(), "", "hi")
	require.Error(t, err)
	require.NotContains(t, err.Error(), "SUPERSECRETKEY")
}
