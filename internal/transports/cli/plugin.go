package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"edrplugins/internal/app"
	"edrplugins/internal/core"
)

// ExitError передает код выхода из команды в main.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string { return fmt.Sprintf("exit status %d", e.Code) }

// ExitCode переводит ошибку cobra в код выхода процесса.
func ExitCode(err error) int {
	if err == nil {
		return core.ExitOK
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return core.ExitUsage
}

// NewPluginCommand создает команду действия. Разбор флагов отключен:
// все аргументы передаются как есть в формате key=value.
func NewPluginCommand(a *app.App, action string) *cobra.Command {
	return &cobra.Command{
		Use:                action + " key=value...",
		Short:              pluginShort(action),
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			code := Invoke(cmd.Context(), a, action, args, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if code != core.ExitOK {
				return &ExitError{Code: code}
			}
			return nil
		},
	}
}

func pluginShort(action string) string {
	switch action {
	case "isolate":
		return "Изолировать узел от сети (endpoint_id=...)"
	case "unisolate":
		return "Снять сетевую изоляцию с узла (endpoint_id=...)"
	default:
		return "Выполнить действие " + action
	}
}
