package host

import (
	"context"
	"fmt"
	"os"

	"github.com/shirou/gopsutil/v3/host"
)

// Identity описывает узел, с которого отправлено действие.
type Identity struct {
	Hostname string `json:"hostname"`
	Platform string `json:"platform"`
	Kernel   string `json:"kernel"`
}

// String возвращает короткое имя для аудита.
func (i Identity) String() string {
	if i.Platform == "" {
		return i.Hostname
	}
	return fmt.Sprintf("%s (%s)", i.Hostname, i.Platform)
}

// Describe собирает сведения о текущем узле. Если gopsutil не смог
// прочитать данные, используется os.Hostname.
func Describe(ctx context.Context) (Identity, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		name, hErr := os.Hostname()
		if hErr != nil {
			return Identity{}, fmt.Errorf("host info: %w", err)
		}
		return Identity{Hostname: name}, nil
	}
	return Identity{
		Hostname: info.Hostname,
		Platform: info.Platform,
		Kernel:   info.KernelVersion,
	}, nil
}
