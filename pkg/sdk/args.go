package sdk

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"edrplugins/pkg/logger"
)

// Params хранит аргументы плагина в виде key=value.
type Params map[string]string

// Get возвращает значение параметра и признак его наличия.
func (p Params) Get(key string) (string, bool) {
	v, ok := p[key]
	return v, ok
}

// Pairs возвращает аргументы обратно в формате key=value, отсортированные по ключу.
func (p Params) Pairs() []string {
	out := make([]string, 0, len(p))
	for k, v := range p {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}

// ParseArgs разбирает аргументы командной строки (без имени программы).
// Токены без '=' пропускаются с предупреждением (пишется при любом уровне логирования),
// повторный ключ перезаписывает предыдущий.
func ParseArgs(args []string, lg *slog.Logger) Params {
	params := make(Params, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			if lg != nil {
				logger.Notice(context.Background(), lg, "malformed argument ignored", "arg", arg)
			}
			continue
		}
		params[key] = value
	}
	return params
}
