package state

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// newLocalEnv creates environment usable before configuration is loaded.
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		Log:   zap.NewNop(),
		RunID: uuid.NewString(),
		start: time.Now(),
	}
}
