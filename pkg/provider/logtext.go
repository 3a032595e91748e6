package provider

import (
	"math/rand"
	"strings"
)

var logLevels = []string{"INFO", "INFO", "INFO", "INFO", "WARN", "WARN", "ERROR", "DEBUG"}

var logPhrases = []string{
	"request completed successfully",
	"connection pool exhausted, waiting for a free slot",
	"retrying upstream call after transient failure",
	"cache miss, falling back to origin",
	"slow query detected",
	"handler panicked and was recovered",
	"configuration reloaded",
	"health check passed",
	"rate limit applied to client",
	"shutting down worker",
	"lease renewed",
	"checkpoint persisted",
}

// logTextHelper generates synthetic level/message pairs. Messages are padded
// to a target byte length so batches carry realistic log-sized payloads.
type logTextHelper struct {
	rng *rand.Rand
}

func newLogTextHelper(seed int64) *logTextHelper {
	return &logTextHelper{rng: rand.New(rand.NewSource(seed))}
}

// generate returns a log level and a message of roughly targetLen bytes.
func (h *logTextHelper) generate(targetLen int) (level, message string) {
	level = logLevels[h.rng.Intn(len(logLevels))]

	var sb strings.Builder
	sb.Grow(targetLen + 64)
	for sb.Len() < targetLen {
		if sb.Len() > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(logPhrases[h.rng.Intn(len(logPhrases))])
	}
	return level, sb.String()
}
