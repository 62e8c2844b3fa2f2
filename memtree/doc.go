// Package memtree provides an in-process coordination tree.
//
// A Tree holds nodes and watches in memory. Each Client obtained from
// Tree.NewClient behaves like one coordination-service session: the ephemeral
// nodes it creates are removed when it is closed, and its outstanding watches
// fire with TreeEventNotWatching.
//
// The tree is meant for tests and single-process demos. It supports fault
// injection (InjectError) and an operation interceptor (SetInterceptor) that
// runs before each client operation, which makes it possible to force races
// such as a predecessor vanishing between a child listing and the watch arm.
//
// Example:
//
//	tree := memtree.New()
//	a := tree.NewClient()
//	b := tree.NewClient()
//
//	s1, _ := elector.NewSession(cfg, elector.Dial(func(context.Context, elector.Logger) (elector.TreeClient, error) {
//	    return a, nil
//	}))
//	s2, _ := elector.NewSession(cfg, elector.Shared(b))
package memtree
