package classifier

import (
	"fmt"

	"medai.local/assistant/internal/utils"
)

const leaf = -1

// DecisionTree walks a CART tree. Leaf probabilities are precomputed at load.
type DecisionTree struct {
	nodes  []node
	leaves map[int]Prediction
}

func newDecisionTree(nodes []node) (*DecisionTree, error) {
	t := &DecisionTree{
		nodes:  nodes,
		leaves: make(map[int]Prediction),
	}
	for i, n := range nodes {
		if n.Left == leaf || n.Right == leaf {
			if n.Left != n.Right {
				return nil, fmt.Errorf("node %d has only one child", i)
			}
			probs, err := utils.Normalize(n.Value[:])
			if err != nil {
				return nil, fmt.Errorf("leaf %d: %w", i, err)
			}
			t.leaves[i] = newPrediction(probs)
			continue
		}
		if n.Feature < 0 || n.Feature >= NumFeatures {
			return nil, fmt.Errorf("node %d splits on feature %d, out of range", i, n.Feature)
		}
		// Children must come after their parent so every walk terminates.
		for _, child := range []int{n.Left, n.Right} {
			if child <= i || child >= len(nodes) {
				return nil, fmt.Errorf("node %d has invalid child %d", i, child)
			}
		}
	}
	return t, nil
}

// Score follows x[feature] <= threshold to the left until a leaf.
func (t *DecisionTree) Score(v FeatureVector) Prediction {
	i := 0
	for {
		n := t.nodes[i]
		if n.Left == leaf {
			return t.leaves[i]
		}
		if v[n.Feature] <= n.Threshold {
			i = n.Left
		} else {
			i = n.Right
		}
	}
}
