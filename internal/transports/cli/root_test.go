package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"edrplugins/internal/app"
	"edrplugins/internal/config"
	"edrplugins/internal/core"
	"edrplugins/internal/playbook"
	"edrplugins/internal/storage"
	"edrplugins/pkg/logger"
)

func newTestApp(t *testing.T) *app.App {
	t.Helper()
	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	a, err := app.NewApp(context.Background(), cfg, logger.Discard())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func execRoot(t *testing.T, a *app.App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := New(a, "test")
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootVersion(t *testing.T) {
	withConfig(t, "")
	out, err := execRoot(t, newTestApp(t), "version")
	if err != nil || out != "test\n" {
		t.Fatalf("unexpected version output: %q %v", out, err)
	}
}

func TestRootActions(t *testing.T) {
	withConfig(t, "")
	out, err := execRoot(t, newTestApp(t), "actions")
	if err != nil {
		t.Fatalf("actions: %v", err)
	}
	var got []actionInfo
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0] != (actionInfo{Name: "isolate", Rollback: "unisolate"}) || got[1] != (actionInfo{Name: "unisolate", Rollback: "isolate"}) {
		t.Fatalf("unexpected actions: %#v", got)
	}
}

func TestRootIsolateSubcommand(t *testing.T) {
	withConfig(t, "")
	out, err := execRoot(t, newTestApp(t), "isolate", "endpoint_id=host-42")
	if err != nil {
		t.Fatalf("isolate: %v", err)
	}
	if !strings.HasPrefix(out, `{"status":"success"`) {
		t.Fatalf("unexpected output: %q", out)
	}

	out, err = execRoot(t, newTestApp(t), "unisolate")
	if ExitCode(err) != 1 {
		t.Fatalf("expected exit 1, got %v", err)
	}
	if !strings.Contains(out, "Missing parameter: endpoint_id") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRootAuditDisabled(t *testing.T) {
	withConfig(t, "")
	_, err := execRoot(t, newTestApp(t), "audit")
	if !errors.Is(err, errAuditDisabled) {
		t.Fatalf("expected errAuditDisabled, got %v", err)
	}
}

func TestRootAuditQuery(t *testing.T) {
	withConfig(t, "audit:\n  enabled: true\n  sqlite_path: "+t.TempDir()+"/audit.db\n")
	a := newTestApp(t)
	if _, err := execRoot(t, a, "isolate", "endpoint_id=host-1"); err != nil {
		t.Fatalf("isolate: %v", err)
	}
	if _, err := execRoot(t, a, "isolate", "endpoint_id=host-2"); err != nil {
		t.Fatalf("isolate: %v", err)
	}

	out, err := execRoot(t, a, "audit", "--target", "host-2", "--since", "1h")
	if err != nil {
		t.Fatalf("audit: %v", err)
	}
	var events []struct {
		Action string `json:"action"`
		Target string `json:"target"`
	}
	if err := json.Unmarshal([]byte(out), &events); err != nil {
		t.Fatalf("decode: %v (%q)", err, out)
	}
	if len(events) != 1 || events[0].Target != "host-2" || events[0].Action != "isolate" {
		t.Fatalf("unexpected events: %#v", events)
	}
}

func TestCtlActionWithBadConfigWritesJSON(t *testing.T) {
	withConfig(t, "edr:\n  vendor: acme\n")
	var stdout, stderr bytes.Buffer
	code := RunCtl(context.Background(), []string{"isolate", "endpoint_id=h1"}, &stdout, &stderr, "test")
	if code != 4 {
		t.Fatalf("expected exit 4, got %d", code)
	}
	want := `{"status":"error","message":"Invalid plugin configuration.","details":null}` + "\n"
	if stdout.String() != want {
		t.Fatalf("unexpected stdout:\n got %q\nwant %q", stdout.String(), want)
	}
	if !strings.Contains(stderr.String(), "load config") {
		t.Fatalf("expected diagnostic, got %q", stderr.String())
	}
}

func TestCtlOtherCommandWithBadConfig(t *testing.T) {
	withConfig(t, "edr:\n  vendor: acme\n")
	var stdout, stderr bytes.Buffer
	code := RunCtl(context.Background(), []string{"actions"}, &stdout, &stderr, "test")
	if code != 4 || stdout.Len() != 0 {
		t.Fatalf("expected exit 4 without stdout, got %d %q", code, stdout.String())
	}
	if !strings.Contains(stderr.String(), "startup failed") {
		t.Fatalf("expected startup error on stderr, got %q", stderr.String())
	}
}

func TestCtlIsolate(t *testing.T) {
	withConfig(t, "")
	var stdout, stderr bytes.Buffer
	code := RunCtl(context.Background(), []string{"isolate", "endpoint_id=host-42"}, &stdout, &stderr, "test")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d (stderr=%s)", code, stderr.String())
	}
	if strings.Count(stdout.String(), "\n") != 1 || !strings.Contains(stdout.String(), `"endpoint_id":"host-42"`) {
		t.Fatalf("unexpected stdout: %q", stdout.String())
	}
}

func TestRootRunPlaybook(t *testing.T) {
	dir := t.TempDir()
	withConfig(t, `
safety:
  policies:
    - name: critical_asset_check
      action: isolate
      param: endpoint_id
      targets: ["dc-01"]
audit:
  enabled: true
  sqlite_path: `+dir+`/audit.db
`)
	pbPath := filepath.Join(dir, "pb.yaml")
	body := `
name: remediate_compromised_host
steps:
  - name: Protect domain controller
    action: isolate
    parameters:
      endpoint_id: dc-01
  - name: Isolate workstation
    action: isolate
    parameters:
      endpoint_id: ws-7
  - name: Broken step
    action: unisolate
`
	if err := os.WriteFile(pbPath, []byte(body), 0o600); err != nil {
		t.Fatalf("write playbook: %v", err)
	}

	a := newTestApp(t)
	out, err := execRoot(t, a, "run", pbPath)
	if ExitCode(err) != core.ExitPlaybook {
		t.Fatalf("expected playbook exit code, got %v", err)
	}
	var rep playbook.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode report: %v (%q)", err, out)
	}
	if len(rep.Steps) != 3 || rep.Failed != 1 {
		t.Fatalf("unexpected report: %#v", rep)
	}
	if rep.Steps[0].Status != playbook.StatusSkippedPolicy || rep.Steps[1].Status != playbook.StatusSuccess || rep.Steps[2].Status != playbook.StatusFailed {
		t.Fatalf("unexpected statuses: %#v", rep.Steps)
	}

	events, err := a.Store.QueryAudit(context.Background(), storage.AuditQuery{})
	if err != nil {
		t.Fatalf("query audit: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected every step to be audited, got %#v", events)
	}
}

func TestRootRunMissingPlaybook(t *testing.T) {
	withConfig(t, "")
	_, err := execRoot(t, newTestApp(t), "run", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || ExitCode(err) != 1 {
		t.Fatalf("expected load error, got %v", err)
	}
}
