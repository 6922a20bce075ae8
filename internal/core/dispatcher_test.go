package core

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"edrplugins/pkg/sdk"
)

type fakeProvider struct {
	name    string
	inverse string
	execErr error
}

func (f *fakeProvider) Name() string                   { return f.name }
func (f *fakeProvider) Init(ctx context.Context) error { return nil }
func (f *fakeProvider) Execute(ctx context.Context, params sdk.Params) (Response, error) {
	if f.execErr != nil {
		return Response{}, f.execErr
	}
	return Response{Message: "ok", Details: params["target"]}, nil
}

type reversibleProvider struct{ fakeProvider }

func (r *reversibleProvider) Inverse() string { return r.inverse }

func TestRegisterAndExecute(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	if err := r.Register(ctx, &fakeProvider{name: "test"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	resp, err := r.Execute(ctx, "test", sdk.Params{"target": "h1"})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if resp.Message != "ok" || resp.Details != "h1" {
		t.Fatalf("unexpected response: %#v", resp)
	}
}

func TestDuplicateProvider(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	prov := &fakeProvider{name: "dup"}
	if err := r.Register(ctx, prov); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(ctx, prov); !errors.Is(err, errProviderExists) {
		t.Fatalf("expected errProviderExists, got %v", err)
	}
}

func TestRegisterInvalid(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(context.Background(), nil); !errors.Is(err, errInvalidArguments) {
		t.Fatalf("expected errInvalidArguments, got %v", err)
	}
	if err := r.Register(context.Background(), &fakeProvider{}); !errors.Is(err, errInvalidArguments) {
		t.Fatalf("expected errInvalidArguments for empty name, got %v", err)
	}
}

func TestUnknownProvider(t *testing.T) {
	r := NewRegistry()
	_, err := r.Execute(context.Background(), "none", nil)
	if !errors.Is(err, errUnknownProvider) {
		t.Fatalf("expected errUnknownProvider, got %v", err)
	}
	var f *Failure
	if !errors.As(err, &f) || f.ExitCode != ExitInternal {
		t.Fatalf("expected internal failure, got %#v", err)
	}
}

func TestInverse(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	_ = r.Register(ctx, &reversibleProvider{fakeProvider{name: "isolate", inverse: "unisolate"}})
	if _, ok := r.Inverse("isolate"); ok {
		t.Fatalf("inverse must be registered to be reported")
	}
	_ = r.Register(ctx, &reversibleProvider{fakeProvider{name: "unisolate", inverse: "isolate"}})
	_ = r.Register(ctx, &fakeProvider{name: "log"})

	if inv, ok := r.Inverse("isolate"); !ok || inv != "unisolate" {
		t.Fatalf("unexpected inverse: %q %v", inv, ok)
	}
	if _, ok := r.Inverse("log"); ok {
		t.Fatalf("non-reversible action must not report inverse")
	}
	if got := r.Providers(); !reflect.DeepEqual(got, []string{"isolate", "log", "unisolate"}) {
		t.Fatalf("unexpected providers: %v", got)
	}
}

func TestMissingParam(t *testing.T) {
	f := MissingParam("endpoint_id")
	if f.Message != "Missing parameter: endpoint_id" || f.ExitCode != ExitUsage {
		t.Fatalf("unexpected failure: %#v", f)
	}
	if !errors.Is(f, ErrMissingParam) {
		t.Fatalf("expected ErrMissingParam")
	}
}

func TestAsFailure(t *testing.T) {
	f := MissingParam("endpoint_id")
	if AsFailure(f) != f {
		t.Fatalf("failure must be returned as is")
	}
	boom := errors.New("boom")
	got := AsFailure(fmt.Errorf("wrap: %w", boom))
	if got.ExitCode != ExitInternal || got.Message != "Action failed." || !errors.Is(got, boom) {
		t.Fatalf("unexpected failure: %#v", got)
	}
}
