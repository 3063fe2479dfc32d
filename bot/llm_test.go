package bot

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLLM(t *testing.T, handler http.HandlerFunc) (*LLMClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewLLMClient("test-key", WithBaseURL(srv.URL)), srv
}

func TestGenerateReplyRequestBody(t *testing.T) {
	var gotBody, gotAuth, gotPath string
	client, _ := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		io.WriteString(w, `{"choices":[{"message":{"content":"  Ahoy!  "}}]}`)
	})

	cfg := Config{Persona: "p", SystemPrompt: "sp", Model: "m"}
	history := []string{"User: hi"}
	memories := []Entry{{ChatID: 1, Text: "likes tea", CreatedAt: time.Now()}}

	reply, err := client.GenerateReply(context.Background(), cfg, history, memories, "hello")
	if err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}
	if reply != "Ahoy!" {
		t.Errorf("reply = %q, want trimmed %q", reply, "Ahoy!")
	}
	if gotPath != "/chat/completions" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("authorization = %q", gotAuth)
	}

	want := `{"model":"m","messages":[` +
		`{"role":"system","content":"sp\nPersona: p"},` +
		`{"role":"system","content":"Relevant persona memories (optional):\n- likes tea"},` +
		`{"role":"user","content":"User: hi"},` +
		`{"role":"user","content":"hello"}],` +
		`"temperature":0.8,"max_tokens":512}`
	if gotBody != want {
		t.Errorf("request body =\n%s\nwant\n%s", gotBody, want)
	}
}

func TestGenerateReplyNoMemories(t *testing.T) {
	var gotBody string
	client, _ := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	})

	cfg := Config{Persona: "p", SystemPrompt: "sp", Model: "m"}
	if _, err := client.GenerateReply(context.Background(), cfg, nil, nil, "q"); err != nil {
		t.Fatalf("GenerateReply: %v", err)
	}

	want := `{"model":"m","messages":[` +
		`{"role":"system","content":"sp\nPersona: p"},` +
		`{"role":"system","content":"Relevant persona memories (optional):\nNone"},` +
		`{"role":"user","content":"q"}],` +
		`"temperature":0.8,"max_tokens":512}`
	if gotBody != want {
		t.Errorf("request body =\n%s\nwant\n%s", gotBody, want)
	}
}

func TestGenerateSummaryRequestBody(t *testing.T) {
	var gotBody string
	client, _ := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		io.WriteString(w, `{"choices":[{"message":{"content":"They met at noon."}}]}`)
	})

	summary, err := client.GenerateSummary(context.Background(), []string{"a", "b"}, "pirate", "m")
	if err != nil {
		t.Fatalf("GenerateSummary: %v", err)
	}
	if summary != "They met at noon." {
		t.Errorf("summary = %q", summary)
	}

	want := `{"model":"m","messages":[` +
		`{"role":"system","content":"Summarize the following chat messages into a short paragraph ` +
		`of durable facts worth remembering. Write in third person. Persona context: pirate"},` +
		`{"role":"user","content":"a\nb"}],` +
		`"temperature":0.3,"max_tokens":256}`
	if gotBody != want {
		t.Errorf("request body =\n%s\nwant\n%s", gotBody, want)
	}
}

func TestGenerateReplyAPIError(t *testing.T) {
	client, _ := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"rate limited"}}`)
	})

	_, err := client.GenerateReply(context.Background(), Config{Model: "m"}, nil, nil, "q")
	if err == nil {
		t.Fatal("expected error from API error response")
	}
}

func TestGenerateReplyEmptyChoices(t *testing.T) {
	client, _ := newTestLLM(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"choices":[]}`)
	})

	_, err := client.GenerateReply(context.Background(), Config{Model: "m"}, nil, nil, "q")
	if err == nil {
		t.Fatal("expected error on empty choices")
	}
}
