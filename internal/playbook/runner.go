package playbook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"edrplugins/internal/core"
	"edrplugins/pkg/logger"
	"edrplugins/pkg/sdk"
)

// Статусы шагов.
const (
	StatusSuccess       = "success"
	StatusFailed        = "failed"
	StatusSkippedPolicy = "skipped_policy"
)

// Outcome описывает результат одного вызова действия.
type Outcome struct {
	Action    string `json:"action"`
	Status    string `json:"status"`
	Message   string `json:"message"`
	ExitCode  int    `json:"exit_code"`
	RequestID string `json:"request_id"`
}

// StepResult описывает результат шага и, если был, его отката.
type StepResult struct {
	Name string `json:"name"`
	Outcome
	Rollback *Outcome `json:"rollback,omitempty"`
}

// Report описывает итог выполнения плейбука.
type Report struct {
	Playbook string       `json:"playbook"`
	Steps    []StepResult `json:"steps"`
	Failed   int          `json:"failed"`
	Halted   bool         `json:"halted"`
}

// Hook вызывается после каждого выполненного действия, включая откаты.
type Hook func(ctx context.Context, action, requestID string, params sdk.Params, exitCode int)

// Runner выполняет шаги плейбука через реестр действий.
type Runner struct {
	Registry *core.Registry
	Guard    core.Guard
	Logger   *slog.Logger
	OnAction Hook
}

// Run выполняет шаги по порядку. Шаг, запрещенный политикой, пропускается.
// Для неудачного шага выполняется обратное действие с теми же параметрами.
func (r *Runner) Run(ctx context.Context, pb Playbook) Report {
	rep := Report{Playbook: pb.Name, Steps: make([]StepResult, 0, len(pb.Steps))}
	for i, step := range pb.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		params := sdk.Params(step.Parameters)
		if params == nil {
			params = sdk.Params{}
		}
		res := StepResult{Name: name}

		if r.Guard != nil {
			if err := r.Guard.Check(step.Action, params); err != nil {
				f := core.AsFailure(err)
				res.Outcome = Outcome{Action: step.Action, Status: StatusSkippedPolicy, Message: f.Message, ExitCode: f.ExitCode, RequestID: uuid.NewString()}
				r.logger().Warn("step blocked by safety policy", "step", name, "action", step.Action, "request_id", res.RequestID)
				r.notify(ctx, res.Outcome, params)
				rep.Steps = append(rep.Steps, res)
				continue
			}
		}

		var err error
		res.Outcome, err = r.execute(ctx, name, step.Action, params)
		if err != nil {
			rep.Failed++
			res.Rollback = r.rollback(ctx, name, step.Action, params, err)
		}
		rep.Steps = append(rep.Steps, res)

		if err != nil && step.OnFailure == OnFailureStop {
			r.logger().Error("playbook halted", "step", name)
			rep.Halted = true
			break
		}
	}
	return rep
}

func (r *Runner) execute(ctx context.Context, step, action string, params sdk.Params) (Outcome, error) {
	out := Outcome{Action: action, RequestID: uuid.NewString()}
	lg := r.logger().With("request_id", out.RequestID, "action", action, "step", step)
	ctx = logger.WithContext(ctx, lg)
	lg.Info("executing action", "args", params.Pairs())

	resp, err := r.Registry.Execute(ctx, action, params)
	if err != nil {
		f := core.AsFailure(err)
		out.Status, out.Message, out.ExitCode = StatusFailed, f.Message, f.ExitCode
		lg.Error("action failed", "exit_code", f.ExitCode, "err", err)
	} else {
		out.Status, out.Message, out.ExitCode = StatusSuccess, resp.Message, core.ExitOK
		lg.Info("action submitted")
	}
	r.notify(ctx, out, params)
	return out, err
}

func (r *Runner) rollback(ctx context.Context, step, action string, params sdk.Params, cause error) *Outcome {
	inv, ok := r.Registry.Inverse(action)
	if !ok {
		r.logger().Warn("no rollback action defined, manual intervention required", "step", step, "action", action)
		return nil
	}
	if errors.Is(cause, core.ErrMissingParam) {
		r.logger().Error("rollback skipped: step parameters are incomplete", "step", step, "rollback", inv)
		return nil
	}
	r.logger().Warn("rolling back failed step", "step", step, "action", action, "rollback", inv)
	out, _ := r.execute(ctx, step, inv, params)
	return &out
}

func (r *Runner) notify(ctx context.Context, out Outcome, params sdk.Params) {
	if r.OnAction != nil {
		r.OnAction(ctx, out.Action, out.RequestID, params, out.ExitCode)
	}
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return logger.Discard()
	}
	return r.Logger
}
