package intent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func chatServer(t *testing.T, reply string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer g-key" {
			t.Errorf("Authorization = %q", got)
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), "Change my shop name") {
			t.Errorf("prompt missing command text: %s", body)
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gemini-2.0-flash",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestInterpreter(baseURL, key string) *ChatInterpreter {
	return NewChatInterpreter(ChatOptions{APIKey: key, BaseURL: baseURL + "/", Model: "gemini-2.0-flash"})
}

func TestChatInterpreter_MapsShopName(t *testing.T) {
	srv := chatServer(t, "```json\n{\"intent\": \"shop_name\", \"content\": \"Meera's Flowers\"}\n```", nil)
	defer srv.Close()

	in, err := newTestInterpreter(srv.URL, "g-key").Interpret(context.Background(), "Change my shop name to Meera's Flowers")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if in != (Intent{KindShopName, "Meera's Flowers"}) {
		t.Fatalf("intent = %+v", in)
	}
}

func TestChatInterpreter_MalformedReplyIsUnknown(t *testing.T) {
	srv := chatServer(t, "Sure! I'll change the shop name.", nil)
	defer srv.Close()

	in, err := newTestInterpreter(srv.URL, "g-key").Interpret(context.Background(), "Change my shop name please")
	if err != nil {
		t.Fatalf("Interpret: %v", err)
	}
	if in != Unknown {
		t.Fatalf("intent = %+v, want Unknown", in)
	}
}

func TestChatInterpreter_MissingKey(t *testing.T) {
	var hits atomic.Int32
	srv := chatServer(t, "{}", &hits)
	defer srv.Close()

	_, err := newTestInterpreter(srv.URL, "").Interpret(context.Background(), "Change my shop name")
	if !errors.Is(err, ErrMissingCredentials) {
		t.Fatalf("err = %v, want ErrMissingCredentials", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("service called without a key")
	}
}

func TestChatInterpreter_ServiceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"message": "bad request", "type": "invalid_request_error"}}`)
	}))
	defer srv.Close()

	_, err := newTestInterpreter(srv.URL, "g-key").Interpret(context.Background(), "x")
	if !errors.Is(err, ErrInterpretationFailed) {
		t.Fatalf("err = %v, want ErrInterpretationFailed", err)
	}
}
