package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/zlang-dev/zlang/lang"
	"github.com/zlang-dev/zlang/log"
)

// Web serves the browser playground: an editor page and a JSON execute
// endpoint.
type Web struct {
	Addr string `default:":5000" help:"Listen address" short:"a"`
}

// Run executes the web command.
func (w *Web) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              w.Addr,
		Handler:           NewPlaygroundMux(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		_ = server.Close()
	}()

	log.InfoContext(ctx, "playground listening",
		slog.String("addr", w.Addr),
	)

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// executeRequest is the body of POST /execute.
type executeRequest struct {
	Code string `json:"code"`
}

// executeResponse is the JSON reply of POST /execute. Exactly one of
// Output and Error is set.
type executeResponse struct {
	Success bool   `json:"success"`
	Output  string `json:"output,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewPlaygroundMux builds the playground HTTP handler. Each execute
// request runs in a fresh interpreter with file-mode semantics.
func NewPlaygroundMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", handleIndex)
	mux.HandleFunc("POST /execute", handleExecute)
	mux.HandleFunc("OPTIONS /execute", func(w http.ResponseWriter, _ *http.Request) {
		writeCORS(w)
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(playgroundPage))
}

func handleExecute(w http.ResponseWriter, r *http.Request) {
	var req executeRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, executeResponse{
			Success: false,
			Error:   "invalid request body",
		})

		return
	}

	writeJSON(w, executeCode(req.Code))
}

// executeCode runs a playground submission and captures its bruh output.
func executeCode(code string) executeResponse {
	if strings.TrimSpace(code) == "" {
		return executeResponse{
			Success: true,
			Output:  "// Enter some ZLang code and hit Run!",
		}
	}

	var buf bytes.Buffer

	in := lang.New(lang.WithStdout(&buf))

	if _, err := in.Execute(code); err != nil {
		return executeResponse{Success: false, Error: err.Error()}
	}

	output := strings.TrimRight(buf.String(), "\n")
	if output == "" {
		output = "// Code executed successfully (no output)"
	}

	return executeResponse{Success: true, Output: output}
}

func writeJSON(w http.ResponseWriter, resp executeResponse) {
	writeCORS(w)
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func writeCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// playgroundPage is the embedded editor page.
const playgroundPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>ZLang Playground</title>
<style>
  body { font-family: monospace; margin: 2rem auto; max-width: 52rem; background: #1e1e2e; color: #cdd6f4; }
  h1 { color: #f9e2af; }
  textarea { width: 100%; height: 18rem; background: #11111b; color: #cdd6f4; border: 1px solid #45475a; padding: 0.75rem; font: inherit; }
  button { margin-top: 0.5rem; padding: 0.5rem 1.5rem; background: #a6e3a1; border: none; cursor: pointer; font: inherit; }
  pre { background: #11111b; border: 1px solid #45475a; padding: 0.75rem; min-height: 4rem; white-space: pre-wrap; }
  pre.err { color: #f38ba8; }
</style>
</head>
<body>
<h1>ZLang Playground</h1>
<textarea id="code" spellcheck="false">bet greeting = "no cap"
flex yell(s) { vibe uppercase(s) + "!" }
bruh yell(greeting)</textarea>
<br>
<button id="run">Run</button>
<pre id="out"></pre>
<script>
const out = document.getElementById('out');
document.getElementById('run').addEventListener('click', async () => {
  out.textContent = '...';
  out.className = '';
  try {
    const res = await fetch('/execute', {
      method: 'POST',
      headers: {'Content-Type': 'application/json'},
      body: JSON.stringify({code: document.getElementById('code').value}),
    });
    const body = await res.json();
    if (body.success) {
      out.textContent = body.output;
    } else {
      out.textContent = body.error;
      out.className = 'err';
    }
  } catch (err) {
    out.textContent = String(err);
    out.className = 'err';
  }
});
</script>
</body>
</html>
`
