package redis

import "github.com/prodlens/backend/internal/domain"

// Operation names used in Error.Op
const (
	OpPing  = "ping"
	OpGet   = "get"
	OpSet   = "set"
	OpMGet  = "mget"
	OpZAdd  = "zadd"
	OpRange = "zrange"
	OpCodec = "codec"
)

// Error wraps a failed store operation. It matches domain.ErrStore.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, domain.ErrStore) match any store error.
func (e *Error) Is(target error) bool { return target == domain.ErrStore }
