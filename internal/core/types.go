package core

import (
	"context"
	"errors"

	"edrplugins/pkg/sdk"
)

// Коды выхода плагинов.
const (
	ExitOK       = 0
	ExitUsage    = 1
	ExitBlocked  = 2
	ExitUpstream = 3
	ExitInternal = 4
	// ExitPlaybook означает, что хотя бы один шаг плейбука завершился ошибкой.
	ExitPlaybook = 5
)

// Response описывает успешный результат действия.
type Response struct {
	Message string
	Details interface{}
}

// CommandProvider определяет контракт для действий-плагинов.
type CommandProvider interface {
	Name() string
	Init(ctx context.Context) error
	Execute(ctx context.Context, params sdk.Params) (Response, error)
}

// Reversible реализуют действия, у которых есть обратное (для отката).
type Reversible interface {
	Inverse() string
}

// Failure описывает ошибку, которую плагин отдает в виде JSON-ответа.
type Failure struct {
	Message    string
	ExitCode   int
	Diagnostic string
	Err        error
}

func (f *Failure) Error() string {
	if f.Err != nil {
		return f.Message + ": " + f.Err.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.Err }

// MissingParam возвращает ошибку отсутствующего обязательного параметра.
func MissingParam(name string) *Failure {
	return &Failure{Message: "Missing parameter: " + name, ExitCode: ExitUsage, Err: ErrMissingParam}
}

// Targeted реализуют действия, у которых есть параметр-цель (для аудита).
type Targeted interface {
	TargetParam() string
}

// AsFailure приводит ошибку к *Failure; прочие ошибки считаются внутренними.
func AsFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Message: "Action failed.", ExitCode: ExitInternal, Diagnostic: err.Error(), Err: err}
}
