// Package master implements a stub allocation coordinator used in tests. The
// reward amount handed out on the next settlement is set explicitly via
// SetAllocation. It also records voting power updates, so it can double as a
// fan-out subscriber.
package master

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	pendingKey = 'p'

	powerPrefix = 'w'
)

// SetAllocation stores the reward amount reported on the next settlement.
func SetAllocation(amount int) {
	storage.Put(storage.GetContext(), []byte{pendingKey}, amount)
}

// UpdateAllocation consumes the pending reward amount and hands it back to
// the pool together with the untouched hook.
func UpdateAllocation(pool interop.Hash160, hookData []byte) {
	ctx := storage.GetContext()
	amount := pending(ctx)
	storage.Delete(ctx, []byte{pendingKey})
	contract.Call(pool, "notifyAllocation", contract.All, amount, hookData)
}

// Allocate reports a reward settlement with no hook attached.
func Allocate(pool interop.Hash160, amount int) {
	contract.Call(pool, "notifyAllocation", contract.All, amount, []byte{})
}

// UpdateVotingPower records the reported power of the account.
func UpdateVotingPower(account interop.Hash160, power int) {
	storage.Put(storage.GetContext(), append([]byte{powerPrefix}, account...), power)
}

// PowerOf returns the last power recorded for the account.
func PowerOf(account interop.Hash160) int {
	val := storage.Get(storage.GetReadOnlyContext(), append([]byte{powerPrefix}, account...))
	if val == nil {
		return 0
	}
	return val.(int)
}

func pending(ctx storage.Context) int {
	val := storage.Get(ctx, []byte{pendingKey})
	if val == nil {
		return 0
	}
	return val.(int)
}
