package edr

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"edrplugins/internal/config"
	"edrplugins/pkg/logger"
)

// Client выполняет сетевую изоляцию узлов через EDR-вендора.
type Client interface {
	Isolate(ctx context.Context, endpointID string) error
	Unisolate(ctx context.Context, endpointID string) error
}

// Call фиксирует обращение к симулятору.
type Call struct {
	Op         string
	EndpointID string
}

// Simulator не обращается к вендору, а только пишет в лог, что было бы сделано.
// Строка симуляции пишется при любом уровне логирования логгером из контекста,
// если он там есть.
type Simulator struct {
	log *slog.Logger

	mu    sync.Mutex
	calls []Call
}

// NewSimulator создает симулятор EDR.
func NewSimulator(lg *slog.Logger) *Simulator {
	if lg == nil {
		lg = slog.Default()
	}
	return &Simulator{log: lg}
}

// New выбирает реализацию клиента по вендору из конфигурации.
func New(cfg config.Config, lg *slog.Logger) (Client, error) {
	switch cfg.EDR.Vendor {
	case config.VendorSimulated:
		return NewSimulator(lg), nil
	default:
		return nil, fmt.Errorf("edr vendor %q is not supported", cfg.EDR.Vendor)
	}
}

func (s *Simulator) Isolate(ctx context.Context, endpointID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.record("isolate", endpointID)
	logger.Notice(ctx, logger.FromContext(ctx, s.log), "simulation: would trigger network isolation", "endpoint_id", endpointID)
	return nil
}

func (s *Simulator) Unisolate(ctx context.Context, endpointID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.record("unisolate", endpointID)
	logger.Notice(ctx, logger.FromContext(ctx, s.log), "simulation: would remove network isolation", "endpoint_id", endpointID)
	return nil
}

// Calls возвращает копию журнала вызовов.
func (s *Simulator) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Simulator) record(op, endpointID string) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Op: op, EndpointID: endpointID})
	s.mu.Unlock()
}
