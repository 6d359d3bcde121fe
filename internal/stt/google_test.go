package stt

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGoogleSpeech_Transcribe(t *testing.T) {
	var gotBody recognizeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"alternatives": []map[string]interface{}{
					{"transcript": "four", "confidence": 0.92},
				}},
			},
		})
	}))
	defer srv.Close()

	g := NewGoogleSpeech("key", 16000)
	g.SetEndpoint(srv.URL)

	audio := []byte{1, 2, 3, 4}
	transcript, err := g.Transcribe(context.Background(), audio)
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if transcript != "four" {
		t.Errorf("transcript = %q, want 'four'", transcript)
	}
	if gotBody.Config.Encoding != "LINEAR16" {
		t.Errorf("encoding = %q, want LINEAR16", gotBody.Config.Encoding)
	}
	if gotBody.Config.Model != "latest_short" {
		t.Errorf("model = %q, want latest_short", gotBody.Config.Model)
	}
	if gotBody.Audio.Content != base64.StdEncoding.EncodeToString(audio) {
		t.Error("audio content not base64-encoded request bytes")
	}
}

func TestGoogleSpeech_NoResultsIsEmptyTranscript(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	g := NewGoogleSpeech("key", 16000)
	g.SetEndpoint(srv.URL)

	transcript, err := g.Transcribe(context.Background(), []byte{1})
	if err != nil {
		t.Fatalf("Transcribe() error: %v", err)
	}
	if transcript != "" {
		t.Errorf("transcript = %q, want empty for no results", transcript)
	}
}

func TestGoogleSpeech_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad audio", http.StatusBadRequest)
	}))
	defer srv.Close()

	g := NewGoogleSpeech("key", 16000)
	g.SetEndpoint(srv.URL)

	if _, err := g.Transcribe(context.Background(), []byte{1}); err == nil {
		t.Error("Transcribe() should fail on upstream error")
	}
}
