package cli

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"edrplugins/internal/app"
	"edrplugins/internal/config"
	"edrplugins/internal/core"
	"edrplugins/internal/modules/host"
	"edrplugins/internal/storage"
	"edrplugins/pkg/logger"
	"edrplugins/pkg/sdk"
)

const auditTimeout = 2 * time.Second

// Invoke выполняет одно действие: разбор аргументов, проверка политик,
// вызов действия, ровно одна строка JSON в stdout, аудит. Возвращает код выхода.
func Invoke(ctx context.Context, a *app.App, action string, args []string, stdout, stderr io.Writer) int {
	reqID := uuid.NewString()
	lg := a.Logger.With("request_id", reqID, "action", action)
	ctx = logger.WithContext(ctx, lg)

	params := sdk.ParseArgs(args, lg)

	var resp core.Response
	var err error
	if a.Guard != nil {
		err = a.Guard.Check(action, params)
	}
	if err == nil {
		resp, err = a.Registry.Execute(ctx, action, params)
	}

	code := respond(stdout, stderr, resp, err)
	if err != nil {
		lg.Error("action failed", "exit_code", code, "err", err)
	} else {
		lg.Info("action submitted")
	}
	writeAudit(ctx, a, lg, action, reqID, params, code)
	return code
}

func respond(stdout, stderr io.Writer, resp core.Response, err error) int {
	if err == nil {
		return sdk.Success(stdout, resp.Message, resp.Details)
	}
	f := core.AsFailure(err)
	return sdk.Error(stdout, stderr, f.Message, f.ExitCode, f.Diagnostic)
}

func writeAudit(ctx context.Context, a *app.App, lg *slog.Logger, action, reqID string, params sdk.Params, code int) {
	if a.Audit == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditTimeout)
	defer cancel()

	status := string(sdk.StatusSuccess)
	if code != core.ExitOK {
		status = string(sdk.StatusError)
	}
	ev := storage.AuditEvent{
		Action:    action,
		Target:    auditTarget(a.Registry, action, params),
		Status:    status,
		ExitCode:  code,
		RequestID: reqID,
		Payload:   buildAuditPayload(action, params),
	}
	if id, err := host.Describe(ctx); err == nil {
		ev.Host = id.String()
	} else {
		lg.Debug("host identity unavailable", "err", err)
	}
	if err := a.Audit.Write(ctx, ev); err != nil {
		lg.Warn("audit write failed", "err", err)
	}
}

func auditTarget(r *core.Registry, action string, params sdk.Params) string {
	prov, ok := r.Lookup(action)
	if !ok {
		return ""
	}
	t, ok := prov.(core.Targeted)
	if !ok {
		return ""
	}
	return params[t.TargetParam()]
}

func buildAuditPayload(action string, params sdk.Params) []byte {
	payload, _ := json.Marshal(map[string]interface{}{
		"action": action,
		"params": params,
	})
	return payload
}

// RunPlugin служит точкой входа отдельного бинарника плагина. Конфигурация
// берется из EDR_PLUGIN_CONFIG; ошибки запуска также отдаются одной строкой JSON.
func RunPlugin(ctx context.Context, action string, args []string, stdout, stderr io.Writer) int {
	a, lg, f := bootstrap(ctx, stderr)
	if f != nil {
		return sdk.Error(stdout, stderr, f.Message, f.ExitCode, f.Diagnostic)
	}
	defer closeApp(a, lg)

	cmd := NewPluginCommand(a, action)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return ExitCode(cmd.ExecuteContext(ctx))
}

// bootstrap загружает конфиг и строит приложение. Ошибка запуска
// возвращается как *core.Failure, чтобы ее можно было отдать строкой JSON.
func bootstrap(ctx context.Context, stderr io.Writer) (*app.App, *slog.Logger, *core.Failure) {
	cfg, cfgErr := config.FromEnv()
	if cfgErr != nil {
		cfg = config.Default()
	}
	lg := logger.New(stderr, cfg.Agent.LogLevel, cfg.Agent.LogFormat)
	if cfgErr != nil {
		return nil, lg, &core.Failure{
			Message:    "Invalid plugin configuration.",
			ExitCode:   core.ExitInternal,
			Diagnostic: "load config: " + cfgErr.Error(),
			Err:        cfgErr,
		}
	}
	a, err := app.NewApp(ctx, cfg, lg)
	if err != nil {
		return nil, lg, &core.Failure{
			Message:    "Plugin initialization failed.",
			ExitCode:   core.ExitInternal,
			Diagnostic: err.Error(),
			Err:        err,
		}
	}
	return a, lg, nil
}

func closeApp(a *app.App, lg *slog.Logger) {
	if err := a.Close(); err != nil {
		lg.Warn("close app", "err", err)
	}
}
