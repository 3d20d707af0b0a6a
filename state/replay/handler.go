package replay

import (
	"errors"
	"fmt"

	"fedid/engine/actors"
	"fedid/engine/library"
)

var ErrActionReplayed = errors.New("action was already applied to this identity")

// Enabled reports whether replays are rejected. By default an action can be used more than once.
func Enabled() bool {
	return actors.MakeOrGetConfig().GetBool("replayProtection")
}

// Check fails if replay protection is on and identity already consumed action.
func Check(identity, action library.Address) error {
	if !Enabled() {
		return nil
	}
	if WasConsumed(identity, action) {
		return fmt.Errorf("%w: %s on %s", ErrActionReplayed, action, identity)
	}
	return nil
}

// Record notes that identity accepted action. Callers hold the identity's write lock, so a
// Check followed by Record cannot interleave with another Handle on the same identity.
func Record(identity, action library.Address) {
	startDb()
	currentState.mutex.Lock()
	defer currentState.mutex.Unlock()
	currentState.upsert(identity, action)
}
