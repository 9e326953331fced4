package utils

import "github.com/google/uuid"

// GenerateID generates a unique id for a kernel instance. Instance ids only
// appear in logs and telemetry; they never influence scheduling, so replay
// determinism is unaffected.
func GenerateID() string {
	return uuid.NewString()
}
