package scoring

import "errors"

// ErrTableMisconfigured reports a weight table that cannot score every
// option pair. It is a programming fault and must not be masked as zero
// compatibility.
var ErrTableMisconfigured = errors.New("scoring table misconfigured")
