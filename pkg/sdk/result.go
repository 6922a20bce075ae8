package sdk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Status описывает итог выполнения плагина.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result описывает стандартизированный ответ плагина; Details зависит от действия.
type Result[T any] struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
	Details *T     `json:"details"`
}

// Success пишет успешный ответ в stdout и возвращает код выхода 0.
func Success[T any](stdout io.Writer, message string, details T) int {
	WriteResult(stdout, Result[T]{Status: StatusSuccess, Message: message, Details: &details})
	return 0
}

// Error пишет ответ с ошибкой в stdout, диагностику (если есть) в stderr
// и возвращает переданный код выхода.
func Error(stdout, stderr io.Writer, message string, exitCode int, stderrMessage string) int {
	WriteResult(stdout, Result[struct{}]{Status: StatusError, Message: message})
	if stderrMessage != "" && stderr != nil {
		fmt.Fprintln(stderr, stderrMessage)
	}
	return exitCode
}

// WriteResult сериализует ответ одной строкой JSON.
// Ошибка сериализации превращается в пустую строку.
func WriteResult[T any](w io.Writer, res Result[T]) {
	line, err := Marshal(res)
	if err != nil {
		line = nil
	}
	line = append(line, '\n')
	_, _ = w.Write(line)
}

// Marshal кодирует ответ без экранирования HTML и без завершающего перевода строки.
func Marshal[T any](res Result[T]) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(res); err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
