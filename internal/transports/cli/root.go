package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"edrplugins/internal/app"
	"edrplugins/internal/core"
	"edrplugins/internal/playbook"
	"edrplugins/internal/storage"
	"edrplugins/pkg/logger"
	"edrplugins/pkg/sdk"
)

var errAuditDisabled = errors.New("audit store is disabled (set audit.enabled in config)")

// New создает корневую CLI-команду edrctl.
func New(a *app.App, version string) *cobra.Command {
	root := &cobra.Command{
		Use:           "edrctl",
		Short:         "Действия изоляции узлов через EDR",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	root.AddCommand(newVersionCmd(version))
	root.AddCommand(newActionsCmd(a))
	root.AddCommand(newAuditCmd(a))
	root.AddCommand(newRunCmd(a))
	for _, name := range a.Registry.Providers() {
		root.AddCommand(NewPluginCommand(a, name))
	}

	return root
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Показать версию",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", version)
		},
	}
}

type actionInfo struct {
	Name     string `json:"name"`
	Rollback string `json:"rollback,omitempty"`
}

func newActionsCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "actions",
		Short: "Список действий и их откатов",
		RunE: func(cmd *cobra.Command, args []string) error {
			names := a.Registry.Providers()
			out := make([]actionInfo, 0, len(names))
			for _, name := range names {
				info := actionInfo{Name: name}
				if inv, ok := a.Registry.Inverse(name); ok {
					info.Rollback = inv
				}
				out = append(out, info)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}

func newAuditCmd(a *app.App) *cobra.Command {
	var (
		action string
		target string
		since  time.Duration
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Показать журнал выполненных действий",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.Store == nil {
				return errAuditDisabled
			}
			q := storage.AuditQuery{Action: action, Target: target, Limit: limit}
			if since > 0 {
				q.From = time.Now().UTC().Add(-since)
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
			defer cancel()

			events, err := a.Store.QueryAudit(ctx, q)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		},
	}
	cmd.Flags().StringVar(&action, "action", "", "фильтр по действию")
	cmd.Flags().StringVar(&target, "target", "", "фильтр по цели (endpoint_id)")
	cmd.Flags().DurationVar(&since, "since", 0, "только события за указанный период")
	cmd.Flags().IntVar(&limit, "limit", a.Config.Audit.QueryLimit, "максимум записей (до 200)")
	return cmd
}

func newRunCmd(a *app.App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <playbook.yaml>",
		Short: "Выполнить плейбук с проверкой политик и откатом неудачных шагов",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, err := playbook.Load(args[0])
			if err != nil {
				return err
			}
			runner := &playbook.Runner{
				Registry: a.Registry,
				Guard:    a.Guard,
				Logger:   a.Logger.With("playbook", pb.Name),
				OnAction: func(ctx context.Context, action, requestID string, params sdk.Params, exitCode int) {
					writeAudit(ctx, a, logger.FromContext(ctx, a.Logger), action, requestID, params, exitCode)
				},
			}
			rep := runner.Run(cmd.Context(), pb)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
			if rep.Failed > 0 {
				return &ExitError{Code: core.ExitPlaybook}
			}
			return nil
		},
	}
}
