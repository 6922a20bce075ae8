package endpoint

import (
	"context"
	"fmt"

	"edrplugins/internal/core"
	"edrplugins/internal/edr"
	"edrplugins/pkg/sdk"
)

// ParamEndpointID задает единственный параметр, который читают действия модуля.
const ParamEndpointID = "endpoint_id"

// Имена действий.
const (
	ActionIsolate   = "isolate"
	ActionUnisolate = "unisolate"
)

// Details описывает полезную нагрузку успешного ответа.
type Details struct {
	EndpointID string `json:"endpoint_id"`
}

type kind struct {
	name    string
	inverse string
	verb    string
	message string
	call    func(c edr.Client, ctx context.Context, id string) error
}

var (
	isolateKind = kind{
		name:    ActionIsolate,
		inverse: ActionUnisolate,
		verb:    "isolate",
		message: "Successfully submitted network isolation request for endpoint '%s'.",
		call:    edr.Client.Isolate,
	}
	unisolateKind = kind{
		name:    ActionUnisolate,
		inverse: ActionIsolate,
		verb:    "unisolate",
		message: "Successfully submitted request to UNISOLATE endpoint '%s'.",
		call:    edr.Client.Unisolate,
	}
)

// Module изолирует или снимает изоляцию с узла через EDR-клиент.
type Module struct {
	kind   kind
	client edr.Client
}

// NewIsolate создает действие сетевой изоляции узла.
func NewIsolate(client edr.Client) *Module {
	return &Module{kind: isolateKind, client: client}
}

// NewUnisolate создает действие снятия изоляции.
func NewUnisolate(client edr.Client) *Module {
	return &Module{kind: unisolateKind, client: client}
}

func (m *Module) Name() string { return m.kind.name }

// Inverse возвращает действие для отката.
func (m *Module) Inverse() string { return m.kind.inverse }

// TargetParam возвращает параметр, идентифицирующий цель действия.
func (m *Module) TargetParam() string { return ParamEndpointID }

func (m *Module) Init(ctx context.Context) error {
	if m.client == nil {
		return fmt.Errorf("%s: edr client is nil", m.kind.name)
	}
	return nil
}

func (m *Module) Execute(ctx context.Context, params sdk.Params) (core.Response, error) {
	id, ok := params.Get(ParamEndpointID)
	if !ok {
		return core.Response{}, core.MissingParam(ParamEndpointID)
	}
	if err := m.kind.call(m.client, ctx, id); err != nil {
		return core.Response{}, &core.Failure{
			Message:    fmt.Sprintf("Failed to %s endpoint '%s'.", m.kind.verb, id),
			ExitCode:   core.ExitUpstream,
			Diagnostic: fmt.Sprintf("edr %s %s: %v", m.kind.verb, id, err),
			Err:        err,
		}
	}
	return core.Response{
		Message: fmt.Sprintf(m.kind.message, id),
		Details: Details{EndpointID: id},
	}, nil
}
