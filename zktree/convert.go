package zktree

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-zookeeper/zk"

	"github.com/arloliu/elector/types"
)

// mapError normalises zk errors to the types tree errors, keeping the original in the chain.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, zk.ErrNoNode):
		return fmt.Errorf("%w: %w", types.ErrNoNode, err)
	case errors.Is(err, zk.ErrNodeExists):
		return fmt.Errorf("%w: %w", types.ErrNodeExists, err)
	case errors.Is(err, zk.ErrClosing), errors.Is(err, zk.ErrConnectionClosed):
		return fmt.Errorf("%w: %w", types.ErrClientClosed, err)
	default:
		return err
	}
}

func mapEvent(ev zk.Event) types.TreeEvent {
	out := types.TreeEvent{Path: ev.Path, Err: ev.Err}

	switch ev.Type {
	case zk.EventNodeCreated:
		out.Type = types.TreeEventNodeCreated
	case zk.EventNodeDeleted:
		out.Type = types.TreeEventNodeDeleted
	case zk.EventNodeDataChanged:
		out.Type = types.TreeEventNodeDataChanged
	case zk.EventNodeChildrenChanged:
		out.Type = types.TreeEventNodeChildrenChanged
	case zk.EventNotWatching:
		out.Type = types.TreeEventNotWatching
	default:
		out.Type = types.TreeEventUnknown
	}

	return out
}

// printfLogger routes zk library output through a types.Logger.
type printfLogger struct {
	log types.Logger
}

// Printf implements zk.Logger.
func (l printfLogger) Printf(format string, args ...any) {
	l.log.Debug(fmt.Sprintf(format, args...), "component", "zk")
}
