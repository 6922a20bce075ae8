package core

import (
	"fmt"

	"edrplugins/internal/config"
	"edrplugins/pkg/sdk"
)

// Guard решает, можно ли выполнить действие с данными параметрами.
type Guard interface {
	Check(action string, params sdk.Params) error
}

type rule struct {
	name    string
	param   string
	targets map[string]struct{}
}

// PolicyGuard запрещает действия над защищенными целями.
type PolicyGuard struct {
	rules map[string][]rule
}

// NewPolicyGuard строит guard из политик конфигурации.
func NewPolicyGuard(policies []config.Policy) *PolicyGuard {
	rules := make(map[string][]rule, len(policies))
	for _, p := range policies {
		targets := make(map[string]struct{}, len(p.Targets))
		for _, t := range p.Targets {
			if t == "" {
				continue
			}
			targets[t] = struct{}{}
		}
		rules[p.Action] = append(rules[p.Action], rule{name: p.Name, param: p.Param, targets: targets})
	}
	return &PolicyGuard{rules: rules}
}

// Check возвращает *Failure, если действие затрагивает защищенную цель.
func (g *PolicyGuard) Check(action string, params sdk.Params) error {
	for _, r := range g.rules[action] {
		value, ok := params.Get(r.param)
		if !ok {
			continue
		}
		if _, protected := r.targets[value]; !protected {
			continue
		}
		msg := fmt.Sprintf("Action blocked by safety policy '%s': %s '%s' is protected.", r.name, r.param, value)
		return &Failure{
			Message:    msg,
			ExitCode:   ExitBlocked,
			Diagnostic: fmt.Sprintf("safety check violation: %s %s=%s", action, r.param, value),
			Err:        ErrBlocked,
		}
	}
	return nil
}
