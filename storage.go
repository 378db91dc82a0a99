package beantab

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Storage keys of the client-side state.
const (
	editsStorageKey      = "beantab.modifiedCells"
	extraDatesStorageKey = "beantab.additionalDates"
)

// Storage is a durable key-value store for client-side state.
//
// It is best effort: the callers in this package treat every error, including
// a missing key, as "nothing stored".
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// loadJSON reads key into v. It reports false when nothing usable is stored.
func loadJSON(s Storage, key string, v any, logger *zap.Logger) bool {
	if s == nil {
		return false
	}
	raw, err := s.Get(key)
	if err != nil {
		logger.Debug("no stored state", zap.String("key", key), zap.Error(err))
		return false
	}
	if raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		logger.Debug("ignoring corrupt stored state", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// storeJSON writes v under key, failures are logged and otherwise ignored.
func storeJSON(s Storage, key string, v any, logger *zap.Logger) {
	if s == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		logger.Debug("cannot encode state", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.Set(key, string(raw)); err != nil {
		logger.Debug("cannot store state", zap.String("key", key), zap.Error(err))
	}
}
