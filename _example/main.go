package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math"
	"sort"

	"github.com/hupe1980/openbp"
	"github.com/hupe1980/openbp/tree"
)

// A small 0/1 knapsack solved by branch and bound on top of the search-tree
// engine. The "relaxation" is the classic fractional knapsack bound; values
// are negated so the whole run is a minimization.
var (
	weights  = []float64{4, 5, 6, 3, 5}
	values   = []float64{10, 11, 13, 7, 9}
	capacity = 14.0
)

type relaxation struct {
	bound      float64 // negated fractional value
	fractional int32   // item split by the capacity, -1 if none
	integer    bool
	infeasible bool
}

// solve computes the fractional knapsack bound under the node's forced
// include/exclude decisions.
func solve(decisions []tree.BranchingDecision) relaxation {
	forced := map[int32]bool{} // item -> included
	for _, d := range decisions {
		forced[d.VariableIndex] = !d.IsUpperBound
	}

	remaining := capacity
	var value float64
	var free []int32

	for i := range weights {
		idx := int32(i)
		in, fixed := forced[idx]
		switch {
		case fixed && in:
			remaining -= weights[i]
			value += values[i]
		case !fixed:
			free = append(free, idx)
		}
	}
	if remaining < 0 {
		return relaxation{infeasible: true}
	}

	sort.Slice(free, func(a, b int) bool {
		return values[free[a]]/weights[free[a]] > values[free[b]]/weights[free[b]]
	})

	fractional := int32(-1)
	for _, idx := range free {
		w := weights[idx]
		if w <= remaining {
			remaining -= w
			value += values[idx]
			continue
		}
		if remaining > 0 {
			value += values[idx] * remaining / w
			fractional = idx
		}
		break
	}

	return relaxation{
		bound:      -value,
		fractional: fractional,
		integer:    fractional == -1,
	}
}

func main() {
	ctx := context.Background()

	c := openbp.New(func(o *openbp.Options) {
		o.Strategy = "best_first"
		o.Logger = openbp.NewTextLogger(slog.LevelInfo)
	})

	fmt.Println("--- Solve ---")
	fmt.Println("Items:", len(weights))
	fmt.Println("Capacity:", capacity)
	fmt.Println()

	for {
		node := c.NextNode()
		if node == nil {
			break
		}

		rel := solve(node.AllDecisions())
		if rel.infeasible {
			if err := c.Finish(ctx, node, tree.StatusPrunedInfeasible); err != nil {
				log.Fatal(err)
			}
			continue
		}

		node.SetLowerBound(rel.bound)
		node.SetLPValue(rel.bound)

		if rel.integer {
			node.SetInteger(true)
			if err := c.Finish(ctx, node, tree.StatusInteger); err != nil {
				log.Fatal(err)
			}
			if c.Tree().Incumbent() == nil ||
				rel.bound < c.Tree().Incumbent().LPValue() {
				if _, err := c.AcceptIncumbent(node); err != nil {
					log.Fatal(err)
				}
			}
			continue
		}

		if rel.bound >= c.Tree().GlobalUpperBound()-1e-6 {
			if err := c.Finish(ctx, node, tree.StatusPrunedBound); err != nil {
				log.Fatal(err)
			}
			continue
		}

		// Branch on the fractional item: out or in.
		_, err := c.Expand(node, []tree.BranchingDecision{
			tree.VariableBranch(rel.fractional, 0, true),
			tree.VariableBranch(rel.fractional, 1, false),
		})
		if err != nil {
			log.Fatal(err)
		}
		if err := c.Finish(ctx, node, tree.StatusBranched); err != nil {
			log.Fatal(err)
		}
	}

	stats := c.Stats()
	fmt.Println("\n--- Result ---")
	fmt.Println("Best value:", -c.Tree().GlobalUpperBound())
	fmt.Println("Nodes created:", stats.NodesCreated)
	fmt.Println("Nodes processed:", stats.NodesProcessed)
	fmt.Println("Pruned by bound:", stats.NodesPrunedBound)
	fmt.Println("Max depth:", stats.MaxDepth)

	incumbent := c.Tree().Incumbent()
	if incumbent == nil {
		log.Fatal("no incumbent found")
	}
	rel := solve(incumbent.AllDecisions())
	if math.Abs(rel.bound-incumbent.LPValue()) > 1e-9 {
		log.Fatal("incumbent relaxation mismatch")
	}
	fmt.Println("Path to incumbent:", c.Tree().PathToRoot(incumbent.ID()))
}
