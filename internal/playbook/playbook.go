package playbook

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OnFailureStop останавливает плейбук после неудачного шага.
const OnFailureStop = "stop"

// Step описывает один шаг плейбука.
type Step struct {
	Name       string            `yaml:"name"`
	Action     string            `yaml:"action"`
	Parameters map[string]string `yaml:"parameters"`
	OnFailure  string            `yaml:"on_failure"`
}

// Playbook описывает последовательность действий реагирования.
type Playbook struct {
	Name  string `yaml:"name"`
	Steps []Step `yaml:"steps"`
}

// Load читает плейбук из файла YAML.
func Load(path string) (Playbook, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- путь к плейбуку задается оператором.
	if err != nil {
		return Playbook{}, fmt.Errorf("read playbook: %w", err)
	}
	return Parse(data)
}

// Parse разбирает и проверяет плейбук.
func Parse(data []byte) (Playbook, error) {
	var pb Playbook
	if len(data) == 0 {
		return pb, errors.New("playbook is empty")
	}
	if err := yaml.Unmarshal(data, &pb); err != nil {
		return pb, fmt.Errorf("parse playbook: %w", err)
	}
	if err := pb.Validate(); err != nil {
		return pb, err
	}
	return pb, nil
}

// Validate проверяет обязательные поля.
func (p Playbook) Validate() error {
	if len(p.Steps) == 0 {
		return errors.New("playbook has no steps")
	}
	for i, s := range p.Steps {
		if s.Action == "" {
			return fmt.Errorf("step #%d (%s): action is required", i+1, s.Name)
		}
		switch s.OnFailure {
		case "", OnFailureStop, "continue":
		default:
			return fmt.Errorf("step #%d (%s): unknown on_failure %q", i+1, s.Name, s.OnFailure)
		}
	}
	return nil
}
