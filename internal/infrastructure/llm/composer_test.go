package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func fiveHeadlines() []string {
	return []string{
		"Acme acquires Globex",
		"Initech raises Series C",
		"Hooli launches platform",
		"Study shows cloud spend up",
		"The long road to profitability",
	}
}

func TestComposeReturnsTrimmedSubject(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply("\"Acme buys Globex, and more\"\n")))
	}))
	defer server.Close()

	client := NewComposerClient(capabilityConfig(server.URL))
	subject, err := client.Compose(context.Background(), fiveHeadlines())
	if err != nil {
		t.Fatalf("Compose error: %v", err)
	}
	if subject != "Acme buys Globex, and more" {
		t.Fatalf("unexpected subject: %q", subject)
	}
}

func TestComposeRequiresFiveHeadlines(t *testing.T) {
	t.Parallel()

	client := NewComposerClient(capabilityConfig("http://unused"))
	if _, err := client.Compose(context.Background(), fiveHeadlines()[:3]); err == nil {
		t.Fatal("expected error for wrong headline count")
	}
}
