package chat

import "context"

// System defines the public contract for chat domain operations.
type System interface {
	Handler() *Handler

	Query(ctx context.Context, cmd QueryCommand) (*QueryResult, error)
}
