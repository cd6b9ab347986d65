// Package feedback is the corpus-acceptance hook §4.J describes:
// register an accepted value's sub-nodes with the chunk store and
// attribute whatever mutation kinds produced it to the stats bag.
// Grounded on hive/index's pooled-entry-reuse idiom
// (AcquireNumericIndex/ReleaseNumericIndex) — the pending-kind list here
// is a caller-owned, caller-reused slice rather than allocated fresh per
// acceptance, the same allocation-avoidance an index pool gives a hot
// path.
package feedback

import (
	"github.com/autarkie-go/autarkie/pkg/chunkstore"
	"github.com/autarkie-go/autarkie/pkg/node"
	"github.com/autarkie-go/autarkie/pkg/stats"
	"github.com/autarkie-go/autarkie/pkg/visitor"
)

// Accept runs on acceptance of a new corpus entry or solution: it
// registers value with the chunk store (which walks it via
// SerializeSubnodes and writes any not-yet-seen sub-node chunk), then
// attributes every kind in pending to bag. It must be total — the only
// error it can return is the chunk store's I/O error, which is fatal
// per §7's error taxonomy, never a silently-swallowed local failure.
func Accept(store *chunkstore.Store, value node.Node, v *visitor.Visitor, render chunkstore.RenderConverter, isSolution bool, bag *stats.Bag, pending []stats.Kind) error {
	if err := store.Register(value, v, render, isSolution); err != nil {
		return err
	}
	for _, kind := range pending {
		bag.Record(kind)
	}
	return nil
}

// RareShareThreshold is the default novelty score below which a value is
// proactively shared with other workers rather than waiting for this
// worker's own Accept to fire.
const RareShareThreshold = 0.1

// RareShare writes value's sub-nodes into the chunk store when
// noveltyScore is below threshold, mirroring original_source's
// hooks/rare_share.rs cross-core exchange of rare inputs. No new
// transport is needed: §5 already makes the chunk directory the shared
// substrate every worker scans on startup, so sharing is just
// registering early. Returns whether the share happened.
func RareShare(store *chunkstore.Store, value node.Node, v *visitor.Visitor, render chunkstore.RenderConverter, noveltyScore, threshold float64) (bool, error) {
	if noveltyScore >= threshold {
		return false, nil
	}
	if err := store.Register(value, v, render, false); err != nil {
		return false, err
	}
	return true, nil
}
