package core

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"edrplugins/pkg/sdk"
)

var (
	errProviderExists   = errors.New("provider already registered")
	errUnknownProvider  = errors.New("unknown provider")
	errInvalidArguments = errors.New("invalid arguments")

	// ErrMissingParam означает, что обязательный параметр не передан.
	ErrMissingParam = errors.New("missing parameter")
	// ErrBlocked означает отказ политики безопасности.
	ErrBlocked = errors.New("blocked by safety policy")
)

// Registry хранит зарегистрированные действия и выполняет их.
type Registry struct {
	providers map[string]CommandProvider
}

// NewRegistry создает пустой реестр действий.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]CommandProvider)}
}

// Register добавляет действие; имя должно быть уникальным.
func (r *Registry) Register(ctx context.Context, provider CommandProvider) error {
	if provider == nil {
		return fmt.Errorf("provider is nil: %w", errInvalidArguments)
	}
	name := provider.Name()
	if name == "" {
		return fmt.Errorf("provider name is empty: %w", errInvalidArguments)
	}
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("%s: %w", name, errProviderExists)
	}
	if err := provider.Init(ctx); err != nil {
		return fmt.Errorf("init %s: %w", name, err)
	}
	r.providers[name] = provider
	return nil
}

// Execute вызывает действие по имени.
func (r *Registry) Execute(ctx context.Context, name string, params sdk.Params) (Response, error) {
	prov, ok := r.providers[name]
	if !ok {
		return Response{}, &Failure{
			Message:  "Unknown action: " + name,
			ExitCode: ExitInternal,
			Err:      fmt.Errorf("%s: %w", name, errUnknownProvider),
		}
	}
	return prov.Execute(ctx, params)
}

// Lookup возвращает действие по имени.
func (r *Registry) Lookup(name string) (CommandProvider, bool) {
	prov, ok := r.providers[name]
	return prov, ok
}

// Inverse возвращает имя зарегистрированного действия, откатывающего name.
func (r *Registry) Inverse(name string) (string, bool) {
	prov, ok := r.providers[name]
	if !ok {
		return "", false
	}
	rev, ok := prov.(Reversible)
	if !ok {
		return "", false
	}
	inv := rev.Inverse()
	if _, registered := r.providers[inv]; !registered {
		return "", false
	}
	return inv, true
}

// Providers возвращает отсортированный список действий.
func (r *Registry) Providers() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
