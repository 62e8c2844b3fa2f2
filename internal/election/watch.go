package election

import (
	"context"

	"github.com/arloliu/elector/types"
)

// ArmWatch arms the one-shot existence watch on the predecessor node.
//
// A missing predecessor at arm time means the node vanished between the
// re-list and this call. The update that removed it was missed, so the error
// is types.ErrSiblingVanished rather than a silent re-list.
//
// Parameters:
//   - ctx: Context for the tree operation
//   - client: Coordination client
//   - electionPath: Absolute election path
//   - predecessor: Candidate id to watch (must not be empty)
//
// Returns:
//   - <-chan types.TreeEvent: Channel that fires once on the next change of the predecessor
//   - error: types.ErrSiblingVanished or *types.CoordinationError
func ArmWatch(ctx context.Context, client types.TreeClient, electionPath, predecessor string) (<-chan types.TreeEvent, error) {
	p := CandidatePath(electionPath, predecessor)

	exists, watch, err := client.ExistsW(ctx, p)
	if err != nil {
		return nil, types.NewCoordinationError("exists", p, err)
	}

	if !exists {
		return nil, types.ErrSiblingVanished
	}

	return watch, nil
}

// List lists the candidate ids under the election path and arms a one-shot
// watch on the child set.
//
// Returns:
//   - []string: Candidate ids carrying prefix, unsorted
//   - <-chan types.TreeEvent: Child-set watch
//   - error: *types.CoordinationError on failure
func List(ctx context.Context, client types.TreeClient, electionPath, prefix string) ([]string, <-chan types.TreeEvent, error) {
	children, watch, err := client.ChildrenW(ctx, electionPath)
	if err != nil {
		return nil, nil, types.NewCoordinationError("children", electionPath, err)
	}

	return FilterCandidates(children, prefix), watch, nil
}
