package election

import (
	"bytes"
	"context"
	"errors"
	"path"

	"github.com/arloliu/elector/types"
)

// Register creates the session's candidate node.
//
// The election path is created first (idempotent), then one ephemeral-sequential
// node named <electionPath>/<prefix><sequence>. The trailing segment of the
// returned path is the candidate id.
//
// Parameters:
//   - ctx: Context for the tree operations
//   - client: Coordination client
//   - electionPath: Absolute election path
//   - prefix: Candidate name prefix (e.g., "p_")
//   - data: Node payload
//
// Returns:
//   - string: The candidate id (leaf name)
//   - error: *types.CoordinationError on failure
func Register(ctx context.Context, client types.TreeClient, electionPath, prefix string, data []byte) (string, error) {
	if err := client.MkdirAll(ctx, electionPath); err != nil {
		return "", types.NewCoordinationError("mkdirp", electionPath, err)
	}

	nodePrefix := path.Join(electionPath, prefix)
	if prefix == "" {
		nodePrefix = electionPath + "/"
	}

	created, err := client.CreateEphemeralSequential(ctx, nodePrefix, data)
	if err != nil {
		return "", types.NewCoordinationError("create", nodePrefix, err)
	}

	return path.Base(created), nil
}

// CandidatePath joins the election path and a candidate id.
func CandidatePath(electionPath, candidateID string) string {
	return path.Join(electionPath, candidateID)
}

// FindOwned returns the candidate ids under electionPath whose payload equals data.
//
// It recovers a node whose create outcome was lost, e.g. a create that went
// through after its caller gave up. Nodes removed while scanning are skipped.
func FindOwned(ctx context.Context, client types.TreeClient, electionPath, prefix string, data []byte) ([]string, error) {
	children, err := client.Children(ctx, electionPath)
	if err != nil {
		if errors.Is(err, types.ErrNoNode) {
			return nil, nil
		}

		return nil, types.NewCoordinationError("children", electionPath, err)
	}

	var owned []string
	for _, id := range FilterCandidates(children, prefix) {
		p := CandidatePath(electionPath, id)
		got, err := client.GetData(ctx, p)
		if errors.Is(err, types.ErrNoNode) {
			continue
		}
		if err != nil {
			return owned, types.NewCoordinationError("get", p, err)
		}
		if bytes.Equal(got, data) {
			owned = append(owned, id)
		}
	}

	return owned, nil
}
