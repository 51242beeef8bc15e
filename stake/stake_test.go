package stake_test

import (
	"github.com/filecoin-project/go-stakeflow/stake"
)

// idOf returns a distinct participant ID whose first byte is b.
func idOf(b byte) stake.ID {
	var id stake.ID
	id[0] = b
	id[stake.IDLength-1] = 0xff
	return id
}
