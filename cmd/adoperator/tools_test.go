package main

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/nao1215/adoperator/internal/push"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// TestComplianceCmd tests the local and remote compliance checks.
func TestComplianceCmd(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		stdin   string
		want    string
		wantErr string
	}{
		{
			name: "risky text from argument",
			args: []string{"compliance", "Cura garantida em 7 dias"},
			want: "cura",
		},
		{
			name:  "clean text from stdin",
			args:  []string{"compliance"},
			stdin: "Uma rotina simples para a pele\n",
			want:  "Nenhum termo de risco encontrado.",
		},
		{
			name:    "empty stdin",
			args:    []string{"compliance"},
			stdin:   "  \n",
			wantErr: "no text to check",
		},
		{
			name: "remote check",
			args: []string{"compliance", "--remote", "Cura garantida"},
			want: "Score: 85, riscos: 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := newFakeBackend(t)

			res := runCLI(t, b.URL(), t.TempDir(), tt.stdin, tt.args...)
			if tt.wantErr != "" {
				if res.err == nil || !strings.Contains(res.err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, res.err)
				}
				return
			}
			if res.err != nil {
				t.Fatalf("unexpected error: %v", res.err)
			}
			if !strings.Contains(strings.ToLower(res.stdout), strings.ToLower(tt.want)) {
				t.Errorf("expected output to contain %q, got %q", tt.want, res.stdout)
			}
		})
	}
}

// TestMediaUploadCmd tests the local checks made before an upload.
func TestMediaUploadCmd(t *testing.T) {
	t.Parallel()

	writeFile := func(t *testing.T, name string, data []byte) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, data, 0600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
		return path
	}

	t.Run("dry run inspects without uploading", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		path := writeFile(t, "foto.png", pngHeader)

		res := runCLI(t, b.URL(), t.TempDir(), "", "media", "upload", "--dry-run", path)
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stdout, "foto.png: image/png") {
			t.Errorf("unexpected output: %q", res.stdout)
		}
		for _, call := range b.Calls() {
			if strings.Contains(call, "/media/upload") {
				t.Errorf("expected no upload, got %s", call)
			}
		}
	})

	t.Run("uploads an image", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		dir := t.TempDir()
		login(t, b, dir)
		path := writeFile(t, "foto.png", pngHeader)

		res := runCLI(t, b.URL(), dir, "", "media", "upload", path)
		if res.err != nil {
			t.Fatalf("unexpected error: %v\nstderr: %s", res.err, res.stderr)
		}
		if !strings.Contains(res.stdout, "uploaded as m2") {
			t.Errorf("unexpected output: %q", res.stdout)
		}
	})

	t.Run("rejects unsupported files and keeps going", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		text := writeFile(t, "notes.txt", []byte("plain text"))
		image := writeFile(t, "foto.png", pngHeader)

		res := runCLI(t, b.URL(), t.TempDir(), "", "media", "upload", "--dry-run", text, image)
		if res.err == nil {
			t.Fatal("expected error for the text file")
		}
		if !strings.Contains(res.stdout, "foto.png") {
			t.Errorf("expected the image to be inspected, got %q", res.stdout)
		}
	})

	t.Run("lists uploaded media", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		dir := t.TempDir()
		login(t, b, dir)

		res := runCLI(t, b.URL(), dir, "", "media", "list")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stdout, "foto.png") {
			t.Errorf("unexpected output: %q", res.stdout)
		}
	})
}

// workerStub records the notifications delivered to the local worker.
type workerStub struct {
	mu       sync.Mutex
	payloads []push.Payload
}

func newWorkerStub(t *testing.T) (*workerStub, string) {
	t.Helper()
	w := &workerStub{}
	srv := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Path != push.WorkerPushPath {
			http.NotFound(rw, r)
			return
		}
		data, _ := io.ReadAll(r.Body)
		var p push.Payload
		if err := json.Unmarshal(data, &p); err != nil {
			http.Error(rw, err.Error(), http.StatusBadRequest)
			return
		}
		w.mu.Lock()
		w.payloads = append(w.payloads, p)
		w.mu.Unlock()
		rw.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)

	return w, strings.TrimPrefix(srv.URL, "http://")
}

func (w *workerStub) Payloads() []push.Payload {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]push.Payload(nil), w.payloads...)
}

// writeListenConfig writes a configuration file pointing the worker at addr.
func writeListenConfig(t *testing.T, addr string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".adoperator")
	content := "defaults:\n  listen: \"" + addr + "\"\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// TestPushCmd tests the notification opt-in commands.
func TestPushCmd(t *testing.T) {
	t.Parallel()

	t.Run("status before any decision", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)

		res := runCLI(t, b.URL(), t.TempDir(), "", "push", "status")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		for _, want := range []string{"Permission:   default", "Subscription: none"} {
			if !strings.Contains(res.stdout, want) {
				t.Errorf("expected %q, got %q", want, res.stdout)
			}
		}
	})

	t.Run("dismiss hides the prompt", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		dir := t.TempDir()

		res := runCLI(t, b.URL(), dir, "", "push", "dismiss")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stdout, "Prompt hidden for") {
			t.Errorf("unexpected output: %q", res.stdout)
		}

		res = runCLI(t, b.URL(), dir, "", "push", "status")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stdout, "Dismissed:") || !strings.Contains(res.stdout, "Prompt due:   false") {
			t.Errorf("unexpected status after dismiss: %q", res.stdout)
		}
	})

	t.Run("enable subscribes and confirms on the worker", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		dir := t.TempDir()
		login(t, b, dir)
		worker, addr := newWorkerStub(t)
		cfg := writeListenConfig(t, addr)

		res := runCLI(t, b.URL(), dir, "", "--config", cfg, "push", "enable", "--yes")
		if res.err != nil {
			t.Fatalf("unexpected error: %v\nstderr: %s", res.err, res.stderr)
		}
		if !strings.Contains(res.stdout, push.ConfirmationBody) {
			t.Errorf("expected confirmation, got %q", res.stdout)
		}
		payloads := worker.Payloads()
		if len(payloads) != 1 || payloads[0].Body != push.ConfirmationBody {
			t.Errorf("expected one confirmation on the worker, got %+v", payloads)
		}

		res = runCLI(t, b.URL(), dir, "", "--config", cfg, "push", "status")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stdout, "Permission:   granted") ||
			!strings.Contains(res.stdout, addr+push.WorkerPushPath) {
			t.Errorf("unexpected status after enable: %q", res.stdout)
		}
	})

	t.Run("declining the permission fails", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		dir := t.TempDir()
		login(t, b, dir)

		res := runCLI(t, b.URL(), dir, "n\n", "push", "enable")
		if res.err == nil || !strings.Contains(res.err.Error(), "not enabled") {
			t.Fatalf("expected not enabled error, got %v", res.err)
		}
		if slices.Contains(b.Calls(), "POST /push/subscribe") {
			t.Error("expected no subscription")
		}
	})

	t.Run("prompt succeeds when the subscription is rejected", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		dir := t.TempDir()
		login(t, b, dir)
		b.failSubscribe = true

		res := runCLI(t, b.URL(), dir, "s\n", "push", "prompt")
		if res.err != nil {
			t.Fatalf("unexpected error: %v\nstderr: %s", res.err, res.stderr)
		}
		if !slices.Contains(b.Calls(), "POST /push/subscribe") {
			t.Error("expected a subscription attempt")
		}
		if strings.Contains(res.stdout, push.ConfirmationBody) {
			t.Errorf("unexpected confirmation: %q", res.stdout)
		}
	})

	t.Run("explicit enable reports a rejected subscription", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		dir := t.TempDir()
		login(t, b, dir)
		b.failSubscribe = true

		res := runCLI(t, b.URL(), dir, "", "push", "enable", "--yes")
		if res.err == nil || !strings.Contains(res.err.Error(), "not enabled") {
			t.Fatalf("expected not enabled error, got %v", res.err)
		}
	})

	t.Run("send falls back to stderr without a worker", func(t *testing.T) {
		t.Parallel()
		b := newFakeBackend(t)
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			t.Fatalf("failed to reserve a port: %v", err)
		}
		addr := ln.Addr().String()
		if err := ln.Close(); err != nil {
			t.Fatalf("failed to release the port: %v", err)
		}
		cfg := writeListenConfig(t, addr)

		res := runCLI(t, b.URL(), t.TempDir(), "", "--config", cfg, "push", "send", "--title", "Radar", "--body", "Nova tendência")
		if res.err != nil {
			t.Fatalf("unexpected error: %v", res.err)
		}
		if !strings.Contains(res.stderr, "🔔 Radar: Nova tendência") {
			t.Errorf("expected printed notification, got %q", res.stderr)
		}
	})
}

// TestConsole tests the prompts read from stdin.
func TestConsole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  bool
		err   error
	}{
		{name: "portuguese yes", input: "s\n", want: true},
		{name: "english yes", input: "YES\n", want: true},
		{name: "anything else", input: "talvez\n", want: false},
		{name: "answer without newline", input: "sim", want: true},
		{name: "no input", input: "", err: errNoInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var out strings.Builder
			c := newConsole(&out, strings.NewReader(tt.input))

			got, err := c.Confirm("Continuar?")
			if !errors.Is(err, tt.err) {
				t.Fatalf("expected error %v, got %v", tt.err, err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %t, want %t", got, tt.want)
			}
			if !strings.Contains(out.String(), "Continuar? [s/N]: ") {
				t.Errorf("unexpected prompt %q", out.String())
			}
		})
	}

	t.Run("loading prints each message once", func(t *testing.T) {
		t.Parallel()
		var out strings.Builder
		c := newConsole(&out, strings.NewReader(""))
		c.Loading("Analisando")
		c.Loading("Analisando")
		c.Loading("")
		c.Loading("Gerando")
		if got, want := out.String(), "… Analisando\n… Gerando\n"; got != want {
			t.Errorf("unexpected output %q, want %q", got, want)
		}
	})
}
