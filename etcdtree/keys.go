package etcdtree

import (
	"fmt"
	"strings"

	clientv3 "go.etcd.io/etcd/client/v3"

	"github.com/arloliu/elector/types"
)

func formatSequential(prefix string, seq int64) string {
	return fmt.Sprintf("%s%010d", prefix, seq)
}

func parentOf(p string) string {
	i := strings.LastIndex(p, "/")
	if i <= 0 {
		return "/"
	}

	return p[:i]
}

func childPrefix(path string) string {
	if path == "/" {
		return "/"
	}

	return path + "/"
}

// childName returns the leaf name of key when it is a direct child of parent.
func childName(parent, key string) (string, bool) {
	prefix := childPrefix(parent)
	if !strings.HasPrefix(key, prefix) {
		return "", false
	}
	name := key[len(prefix):]
	if name == "" || strings.Contains(name, "/") {
		return "", false
	}

	return name, true
}

// childEvent matches creations and deletions of direct children of parent.
func childEvent(parent string, ev *clientv3.Event) (types.TreeEvent, bool) {
	if _, ok := childName(parent, string(ev.Kv.Key)); !ok {
		return types.TreeEvent{}, false
	}
	if ev.Type == clientv3.EventTypePut && !ev.IsCreate() {
		return types.TreeEvent{}, false
	}

	return types.TreeEvent{Type: types.TreeEventNodeChildrenChanged, Path: parent}, true
}

func nodeEvent(ev *clientv3.Event) types.TreeEvent {
	te := types.TreeEvent{Path: string(ev.Kv.Key)}

	switch {
	case ev.Type == clientv3.EventTypeDelete:
		te.Type = types.TreeEventNodeDeleted
	case ev.IsCreate():
		te.Type = types.TreeEventNodeCreated
	default:
		te.Type = types.TreeEventNodeDataChanged
	}

	return te
}
