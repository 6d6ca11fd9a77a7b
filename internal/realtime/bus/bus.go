package bus

import (
	"context"

	"github.com/yungbote/cargoledger-backend/internal/realtime"
)

// Bus relays stream messages between instances so every hub sees every write.
type Bus interface {
	realtime.Publisher
	StartForwarder(ctx context.Context, onMsg func(m realtime.Message)) error
	Close() error
}
