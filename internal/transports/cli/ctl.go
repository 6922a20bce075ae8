package cli

import (
	"context"
	"errors"
	"io"

	"edrplugins/internal/modules/endpoint"
	"edrplugins/pkg/sdk"
)

// RunCtl служит точкой входа edrctl. Для команд-действий (isolate, unisolate)
// ошибка запуска отдается так же, как в отдельных бинарниках: одной строкой JSON.
func RunCtl(ctx context.Context, args []string, stdout, stderr io.Writer, version string) int {
	a, lg, f := bootstrap(ctx, stderr)
	if f != nil {
		if len(args) > 0 && isPluginAction(args[0]) {
			return sdk.Error(stdout, stderr, f.Message, f.ExitCode, f.Diagnostic)
		}
		lg.Error("startup failed", "err", f)
		return f.ExitCode
	}
	defer closeApp(a, lg)

	root := New(a, version)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	var ee *ExitError
	if err != nil && !errors.As(err, &ee) {
		lg.Error("command failed", "err", err)
	}
	return ExitCode(err)
}

func isPluginAction(name string) bool {
	switch name {
	case endpoint.ActionIsolate, endpoint.ActionUnisolate:
		return true
	default:
		return false
	}
}

