package stake

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"
	"strings"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("stakeflow/stake")

// Overrides replace the snapshot stake of individual participants. An
// override applies even if the participant is absent from the snapshot.
type Overrides map[ID]uint64

// Stats summarises the positive stakes of a snapshot.
type Stats struct {
	Total uint64
	Min   uint64
	Max   uint64
}

func (s Stats) String() string {
	return fmt.Sprintf("(%d, %d, %d)", s.Total, s.Min, s.Max)
}

// ComputeStats aggregates the total, minimum and maximum stake over the
// snapshot with overrides applied. Each overridden participant counts once,
// with its override value. Participants with zero stake are ignored
// entirely; if no participant has positive stake all stats are zero.
//
// The total saturates at math.MaxUint64.
func ComputeStats(snapshot *Snapshot, overrides Overrides) Stats {
	var (
		stats     Stats
		found     bool
		saturated bool
	)
	include := func(v uint64) {
		if v == 0 {
			return
		}
		total, carry := bits.Add64(stats.Total, v, 0)
		if carry != 0 {
			total, saturated = math.MaxUint64, true
		}
		stats.Total = total
		if !found {
			stats.Min, stats.Max, found = v, v, true
			return
		}
		stats.Min = min(stats.Min, v)
		stats.Max = max(stats.Max, v)
	}
	for id, v := range snapshot.All() {
		if _, overridden := overrides[id]; overridden {
			continue
		}
		include(v)
	}
	for _, v := range overrides {
		include(v)
	}
	if saturated {
		log.Warnw("total stake saturated", "participants", snapshot.Len(), "overrides", len(overrides))
	}
	return stats
}

// ParseOverrides parses overrides given as "<base58 id>=<stake>" pairs.
func ParseOverrides(pairs []string) (Overrides, error) {
	overrides := make(Overrides, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("override %q: expected <id>=<stake>", pair)
		}
		id, err := ParseID(strings.TrimSpace(key))
		if err != nil {
			return nil, fmt.Errorf("override %q: %w", pair, err)
		}
		amount, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("override %q: invalid stake: %w", pair, err)
		}
		if _, exists := overrides[id]; exists {
			return nil, fmt.Errorf("override %q: duplicate override for %s", pair, id)
		}
		overrides[id] = amount
	}
	return overrides, nil
}
