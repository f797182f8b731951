package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Stage payloads served by the fake backend.
const (
	strategyJSON   = `{"dor_central":"queda de cabelo","nivel_consciencia":3,"angulo_venda":"prova social"}`
	adsJSON        = `{"anuncios":[{"numero":1,"hook":"Pare de perder cabelo","copy":"Copy 1"},{"numero":2,"hook":"Fios mais fortes","copy":"Copy 2"}]}`
	simulationJSON = `{"simulacao":[{"perfil":"Cético","probabilidade_clique":"baixa","decisao_provavel":"ignora"}],"tendencia_geral":"positiva"}`
	decisionJSON   = `{"veredito":{"anuncio_numero":1,"pontuacao_final":87,"frase_principal":"O anúncio 1 vence pela clareza"},"ranking":[{"anuncio_numero":1,"pontuacao":87},{"anuncio_numero":2,"pontuacao":61}]}`
	tableJSON      = `{"perfis":[{"nome":"Cético","abordagem":"prova"}]}`
)

const testToken = "tok-123"

// fakeBackend is a single-analysis AdOperator backend.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	product  json.RawMessage
	status   string
	payloads map[string]json.RawMessage
	calls    []string

	// unauthorized makes every authenticated call answer 401.
	unauthorized bool

	// failSubscribe makes the push subscription answer 500.
	failSubscribe bool
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, payloads: make(map[string]json.RawMessage)}
	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", http.HandlerFunc(b.serve)))
	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) URL() string {
	return b.srv.URL + "/api"
}

func (b *fakeBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *fakeBackend) reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func (b *fakeBackend) stage(key, status, body string) string {
	b.payloads[key] = json.RawMessage(body)
	b.status = status
	return body
}

func (b *fakeBackend) record() string {
	fields := map[string]json.RawMessage{
		"id":      json.RawMessage(`"a1"`),
		"status":  json.RawMessage(`"` + b.status + `"`),
		"product": b.product,
	}
	for k, v := range b.payloads {
		fields[k] = v
	}
	data, err := json.Marshal(fields)
	if err != nil {
		b.t.Errorf("failed to encode record: %v", err)
	}
	return string(data)
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	route := r.Method + " " + r.URL.Path
	b.calls = append(b.calls, route)

	switch route {
	case "POST /auth/login":
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["password"] != "secret" {
			b.reply(w, http.StatusUnauthorized, `{"detail":"Credenciais inválidas"}`)
			return
		}
		b.reply(w, http.StatusOK, `{"token":"`+testToken+`","user":{"id":"u1","name":"Ana","email":"`+in["email"]+`"}}`)
		return
	case "GET /public/pub-1":
		b.reply(w, http.StatusOK, b.record())
		return
	case "POST /compliance/check":
		b.reply(w, http.StatusOK, `{"riscos":[{"termo":"cura","sugestao":"auxilia","severidade":"alta"}],"score":85,"total_riscos":1}`)
		return
	}

	if b.unauthorized || r.Header.Get("Authorization") != "Bearer "+testToken {
		b.reply(w, http.StatusUnauthorized, `{"detail":"Token inválido"}`)
		return
	}

	switch route {
	case "GET /auth/me":
		b.reply(w, http.StatusOK, `{"id":"u1","name":"Ana","email":"ana@example.com"}`)
	case "POST /analyses":
		body, _ := io.ReadAll(r.Body)
		b.product = json.RawMessage(bytes.TrimSpace(body))
		b.status = "created"
		b.payloads = make(map[string]json.RawMessage)
		b.reply(w, http.StatusOK, b.record())
	case "GET /analyses":
		if b.product == nil {
			b.reply(w, http.StatusOK, `[]`)
			return
		}
		b.reply(w, http.StatusOK, "["+b.record()+"]")
	case "GET /analyses/a1":
		b.reply(w, http.StatusOK, b.record())
	case "DELETE /analyses/a1":
		b.product = nil
		b.reply(w, http.StatusOK, `{"success":true}`)
	case "PATCH /analyses/a1/product":
		body, _ := io.ReadAll(r.Body)
		b.product = json.RawMessage(bytes.TrimSpace(body))
		b.reply(w, http.StatusOK, `{"success":true}`)
	case "POST /analyses/a1/parse":
		b.reply(w, http.StatusOK, b.stage("strategic_analysis", "parsed", strategyJSON))
	case "POST /analyses/a1/generate":
		b.reply(w, http.StatusOK, b.stage("ad_variations", "generated", adsJSON))
	case "POST /analyses/a1/simulate":
		b.reply(w, http.StatusOK, b.stage("audience_simulation", "simulated", simulationJSON))
	case "POST /analyses/a1/decide":
		b.reply(w, http.StatusOK, b.stage("decision", "completed", decisionJSON))
	case "POST /analyses/a1/strategy-table":
		b.payloads["strategy_table"] = json.RawMessage(tableJSON)
		b.reply(w, http.StatusOK, tableJSON)
	case "POST /analyses/a1/share":
		b.reply(w, http.StatusOK, `{"public_token":"pub-1"}`)
	case "POST /push/subscribe":
		if b.failSubscribe {
			b.reply(w, http.StatusInternalServerError, `{"detail":"Erro interno"}`)
			return
		}
		b.reply(w, http.StatusOK, `{"success":true}`)
	case "POST /media/upload":
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			b.reply(w, http.StatusBadRequest, `{"detail":"invalid upload"}`)
			return
		}
		b.reply(w, http.StatusOK, `{"id":"m2","filename":"m2.png","type":"image","size":16,"original_name":"foto.png"}`)
	case "GET /media/user/list":
		b.reply(w, http.StatusOK, `[{"id":"m1","filename":"x.png","type":"image","size":42,"original_name":"foto.png"}]`)
	default:
		if strings.HasPrefix(r.URL.Path, "/analyses/") {
			b.reply(w, http.StatusNotFound, `{"detail":"Análise não encontrada"}`)
			return
		}
		b.reply(w, http.StatusNotFound, `{"detail":"Not Found"}`)
	}
}

// result is the captured output of one CLI invocation.
type result struct {
	stdout string
	stderr string
	err    error
}

// runCLI runs the root command against url with state kept in dbDir.
func runCLI(t *testing.T, url, dbDir, stdin string, args ...string) result {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--api-url", url, "--db-dir", dbDir}, args...))

	err := cmd.Execute()
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// login signs in on the fake backend.
func login(t *testing.T, b *fakeBackend, dbDir string) {
	t.Helper()
	res := runCLI(t, b.URL(), dbDir, "secret\n", "login", "-e", "ana@example.com")
	if res.err != nil {
		t.Fatalf("login failed: %v\nstderr: %s", res.err, res.stderr)
	}
}
