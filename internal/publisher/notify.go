package publisher

import (
	"fmt"
	"strings"
)

// Notification targets that receive newly published meals
const (
	TargetTwitter  = "twitter"
	TargetTelegram = "telegram"
)

// Targets lists the supported notification targets
var Targets = []string{TargetTwitter, TargetTelegram}

// ForTarget creates the publisher for a notification target. Credentials
// come from the environment.
func ForTarget(target string) (Publisher, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case TargetTwitter:
		p, err := NewTwitterPublisher()
		if err != nil {
			return nil, err
		}
		return p, nil
	case TargetTelegram:
		p, err := NewTelegramPublisher()
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown notification target %q (must be one of %s)", target, strings.Join(Targets, ", "))
	}
}
