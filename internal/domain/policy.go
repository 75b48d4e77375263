package domain

import (
	"fmt"
	"strings"
)

// CancellationPolicy named penalty schedule applied on cancellation
type CancellationPolicy string

const (
	PolicyFlexible CancellationPolicy = "flexible"
	PolicyModerate CancellationPolicy = "moderate"
	PolicyStrict   CancellationPolicy = "strict"
)

// ParseCancellationPolicy converts a policy name, accepting the Spanish aliases
func ParseCancellationPolicy(raw string) (CancellationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "flexible":
		return PolicyFlexible, nil
	case "moderate", "moderada":
		return PolicyModerate, nil
	case "strict", "estricta":
		return PolicyStrict, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, raw)
}
