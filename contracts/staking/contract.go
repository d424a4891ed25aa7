package staking

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/stakevote/stakevote-contract/common"
	"github.com/stakevote/stakevote-contract/contracts/staking/stakingconst"
)

// RewardPool is the global accounting record of the staking contract.
type RewardPool struct {
	// Residue accumulates rewards allocated while the pool was empty. It is
	// folded into the accumulator on the next non-empty allocation.
	Residue int
	// TotalStaked is the sum of all locked positions.
	TotalStaked int
	// AccRewardPerShare is the all-time reward per staked unit, scaled by
	// stakingconst.RewardScale.
	AccRewardPerShare int
}

// Position is a single account's stake record.
type Position struct {
	// Locked is the amount of stake tokens held for the account.
	Locked int
	// Debt is the accumulator baseline of the position in reward token
	// units. Pending rewards are
	// Locked*AccRewardPerShare/RewardScale - Debt.
	Debt int
}

// allocationHook is the deferred half of a deposit or withdrawal. It is
// serialized and routed through the coordinator, which hands it back via
// NotifyAllocation together with the reward amount settled for this pool.
type allocationHook struct {
	Kind    int
	Account interop.Hash160
	Amount  int
}

const (
	hookDeposit  = 1
	hookWithdraw = 2
)

const (
	ownerKey       = 'o'
	stakeTokenKey  = 't'
	rewardTokenKey = 'g'
	masterKey      = 'm'
	pausedKey      = 'x'
	poolKey        = 'p'

	positionPrefix   = 'a'
	subscriberPrefix = 's'
)

const (
	// ErrStopped is returned when a state-changing method is called on a
	// stopped contract.
	ErrStopped = "contract is stopped"
	// ErrInsufficientStake is returned on an attempt to redeem more than
	// the account has locked.
	ErrInsufficientStake = "insufficient stake to redeem"
	// ErrUnknownCoordinator is returned when NotifyAllocation is called by
	// anyone but the allocation coordinator or the owner.
	ErrUnknownCoordinator = "allocation notice from unknown coordinator"
	// ErrUnknownToken is returned when a NEP-17 transfer of anything but
	// the stake or reward token hits the contract.
	ErrUnknownToken = "unsupported token"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	ctx := storage.GetContext()
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		Owner       interop.Hash160
		StakeToken  interop.Hash160
		RewardToken interop.Hash160
		Master      interop.Hash160
		Subscribers []interop.Hash160
	})

	if len(args.Owner) != interop.Hash160Len {
		panic("invalid owner address")
	}
	if len(args.StakeToken) != interop.Hash160Len || len(args.RewardToken) != interop.Hash160Len {
		panic("invalid token address")
	}
	if args.StakeToken.Equals(args.RewardToken) {
		panic("stake and reward tokens must differ")
	}
	if len(args.Master) != interop.Hash160Len {
		panic("invalid coordinator address")
	}

	storage.Put(ctx, []byte{ownerKey}, args.Owner)
	storage.Put(ctx, []byte{stakeTokenKey}, args.StakeToken)
	storage.Put(ctx, []byte{rewardTokenKey}, args.RewardToken)
	storage.Put(ctx, []byte{masterKey}, args.Master)
	common.SetSerialized(ctx, []byte{poolKey}, RewardPool{})

	for i := 0; i < len(args.Subscribers); i++ {
		addSubscriber(ctx, args.Subscribers[i])
	}

	runtime.Log("staking contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	management.UpdateWithData(nefFile, manifest, common.AppendVersion(data))
	runtime.Log("staking contract updated")
}

// OnNEP17Payment is the entry point of the deposit flow. A transfer of the
// stake token starts a deferred deposit: the hook is routed through the
// coordinator and comes back via NotifyAllocation. A transfer of the reward
// token is accepted silently as a pool top-up. Anything else aborts the
// transfer.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	ctx := storage.GetReadOnlyContext()
	caller := runtime.GetCallingScriptHash()

	rewardToken := storage.Get(ctx, []byte{rewardTokenKey}).(interop.Hash160)
	if caller.Equals(rewardToken) {
		return
	}

	stakeToken := storage.Get(ctx, []byte{stakeTokenKey}).(interop.Hash160)
	if !caller.Equals(stakeToken) {
		common.AbortWithMessage(ErrUnknownToken)
	}
	if isPaused(ctx) {
		common.AbortWithMessage(ErrStopped)
	}
	if amount <= 0 {
		common.AbortWithMessage("zero deposit")
	}

	dispatchHook(ctx, allocationHook{
		Kind:    hookDeposit,
		Account: from,
		Amount:  amount,
	})
}

// Redeem starts a deferred withdrawal of the given amount of stake tokens.
// It can be invoked only by the account owner. The withdrawal itself happens
// when the coordinator calls back via NotifyAllocation.
func Redeem(account interop.Hash160, amount int) {
	common.CheckOwnerWitness(account)
	if amount <= 0 {
		panic("non-positive redeem amount")
	}

	ctx := storage.GetReadOnlyContext()
	if isPaused(ctx) {
		panic(ErrStopped)
	}

	dispatchHook(ctx, allocationHook{
		Kind:    hookWithdraw,
		Account: account,
		Amount:  amount,
	})
}

// RedeemAll starts a deferred withdrawal of the whole position as it will be
// recorded at settlement time. It can be invoked only by the account owner.
func RedeemAll(account interop.Hash160) {
	common.CheckOwnerWitness(account)

	ctx := storage.GetReadOnlyContext()
	if isPaused(ctx) {
		panic(ErrStopped)
	}

	dispatchHook(ctx, allocationHook{
		Kind:    hookWithdraw,
		Account: account,
		Amount:  stakingconst.RedeemAll,
	})
}

// dispatchHook hands a serialized continuation to the allocation coordinator.
// The coordinator settles the reward amount due to this pool and calls
// NotifyAllocation back with the hook untouched.
func dispatchHook(ctx storage.Context, hook allocationHook) {
	master := storage.Get(ctx, []byte{masterKey}).(interop.Hash160)
	contract.Call(master, "updateAllocation", contract.All,
		runtime.GetExecutingScriptHash(), std.Serialize(hook))
}

// NotifyAllocation is the execution half of the allocation protocol. The
// coordinator reports the reward amount settled for this pool together with
// the continuation hook (if any) that triggered the settlement. It can be
// invoked only by the coordinator contract or by the owner. The reward is
// folded into the accumulator before the hook runs, so the triggering
// deposit or withdrawal never earns from it.
func NotifyAllocation(amount int, hookData []byte) {
	ctx := storage.GetContext()
	caller := runtime.GetCallingScriptHash()
	master := storage.Get(ctx, []byte{masterKey}).(interop.Hash160)
	if !caller.Equals(master) && !runtime.CheckWitness(ownerAddress(ctx)) {
		panic(ErrUnknownCoordinator)
	}
	if isPaused(ctx) {
		panic(ErrStopped)
	}
	if amount < 0 {
		panic("negative allocation")
	}

	pool := getPool(ctx)
	pool = updateRewards(pool, amount)

	if len(hookData) != 0 {
		hook := std.Deserialize(hookData).(allocationHook)
		switch hook.Kind {
		case hookDeposit:
			pool = depositHook(ctx, pool, hook.Account, hook.Amount)
		case hookWithdraw:
			pool = redeemHook(ctx, pool, hook.Account, hook.Amount)
		default:
			panic("malformed allocation hook")
		}
	}

	common.SetSerialized(ctx, []byte{poolKey}, pool)
}

// updateRewards folds a newly allocated reward amount into the pool
// accumulator. A zero allocation is a no-op. Rewards allocated to an empty
// pool are kept as residue and folded in on the next non-zero allocation.
func updateRewards(pool RewardPool, amount int) RewardPool {
	if amount == 0 {
		return pool
	}
	if pool.TotalStaked == 0 {
		pool.Residue += amount
		return pool
	}
	pool.AccRewardPerShare += (amount + pool.Residue) * stakingconst.RewardScale / pool.TotalStaked
	pool.Residue = 0
	return pool
}

func depositHook(ctx storage.Context, pool RewardPool, account interop.Hash160, amount int) RewardPool {
	pos := getPosition(ctx, account)
	settleRewards(ctx, pool, account, pos)

	pos.Locked += amount
	pos.Debt = pos.Locked * pool.AccRewardPerShare / stakingconst.RewardScale
	pool.TotalStaked += amount
	putPosition(ctx, account, pos)

	runtime.Notify("Deposit", account, amount, pos.Locked)
	fanOut(ctx, account, pos.Locked)
	return pool
}

func redeemHook(ctx storage.Context, pool RewardPool, account interop.Hash160, amount int) RewardPool {
	pos := getPosition(ctx, account)
	if amount == stakingconst.RedeemAll {
		amount = pos.Locked
	}
	if amount > pos.Locked {
		panic(ErrInsufficientStake)
	}
	settleRewards(ctx, pool, account, pos)

	pos.Locked -= amount
	pos.Debt = pos.Locked * pool.AccRewardPerShare / stakingconst.RewardScale
	pool.TotalStaked -= amount
	putPosition(ctx, account, pos)

	if amount > 0 {
		stakeToken := storage.Get(ctx, []byte{stakeTokenKey}).(interop.Hash160)
		if !contract.Call(stakeToken, "transfer", contract.All,
			runtime.GetExecutingScriptHash(), account, amount, nil).(bool) {
			panic("stake transfer failed")
		}
	}

	runtime.Notify("Withdraw", account, amount, pos.Locked)
	fanOut(ctx, account, pos.Locked)
	return pool
}

// settleRewards pays out the rewards pending for a position against the
// current accumulator. Callers re-baseline Debt themselves after resizing
// the position.
func settleRewards(ctx storage.Context, pool RewardPool, account interop.Hash160, pos Position) {
	pending := pos.Locked*pool.AccRewardPerShare/stakingconst.RewardScale - pos.Debt
	if pending <= 0 {
		return
	}

	rewardToken := storage.Get(ctx, []byte{rewardTokenKey}).(interop.Hash160)
	if !contract.Call(rewardToken, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), account, pending, nil).(bool) {
		panic("reward transfer failed")
	}
	runtime.Notify("RewardPaid", account, pending)
}

// EmergencyRedeem returns the whole locked stake to the account, forfeiting
// any pending rewards. An empty position makes it do nothing. It works on a
// stopped contract, does not touch the coordinator and does not notify
// subscribers. It can be invoked only by the account owner.
func EmergencyRedeem(account interop.Hash160) {
	common.CheckOwnerWitness(account)

	ctx := storage.GetContext()
	pos := getPosition(ctx, account)
	if pos.Locked == 0 {
		return
	}

	pool := getPool(ctx)
	pool.TotalStaked -= pos.Locked
	common.SetSerialized(ctx, []byte{poolKey}, pool)

	amount := pos.Locked
	storage.Delete(ctx, positionKey(account))

	stakeToken := storage.Get(ctx, []byte{stakeTokenKey}).(interop.Hash160)
	if !contract.Call(stakeToken, "transfer", contract.All,
		runtime.GetExecutingScriptHash(), account, amount, nil).(bool) {
		panic("stake transfer failed")
	}

	runtime.Notify("EmergencyWithdraw", account, amount)
}

// fanOut pushes the new voting power of an account to every subscribed
// contract in subscription order.
func fanOut(ctx storage.Context, account interop.Hash160, power int) {
	it := storage.Find(ctx, []byte{subscriberPrefix}, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		key := iterator.Value(it).([]byte)
		sub := interop.Hash160(key[1:]) // skip the index byte
		contract.Call(sub, "updateVotingPower", contract.All, account, power)
	}
}

// AddSubscribers adds contracts to the voting power fan-out list. New
// subscribers must expose an updateVotingPower method with two parameters.
// It can be invoked only by the owner.
func AddSubscribers(subs []interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ownerAddress(ctx))

	for i := 0; i < len(subs); i++ {
		addSubscriber(ctx, subs[i])
	}
}

func addSubscriber(ctx storage.Context, sub interop.Hash160) {
	if len(sub) != interop.Hash160Len {
		panic("invalid subscriber address")
	}
	if !management.HasMethod(sub, "updateVotingPower", 2) {
		panic("subscriber does not implement updateVotingPower method")
	}

	var count int
	it := storage.Find(ctx, []byte{subscriberPrefix}, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		key := iterator.Value(it).([]byte)
		if sub.Equals(key[1:]) {
			panic("contract is already subscribed")
		}
		count++
	}

	key := append([]byte{subscriberPrefix, byte(count)}, sub...)
	storage.Put(ctx, key, []byte{})
	runtime.Notify("Subscribe", sub)
}

// RemoveSubscribers removes contracts from the voting power fan-out list.
// It can be invoked only by the owner.
func RemoveSubscribers(subs []interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ownerAddress(ctx))

	for i := 0; i < len(subs); i++ {
		sub := subs[i]
		it := storage.Find(ctx, []byte{subscriberPrefix}, storage.KeysOnly)
		for iterator.Next(it) {
			key := iterator.Value(it).([]byte)
			if sub.Equals(key[2:]) { // skip the prefix and index bytes
				storage.Delete(ctx, key)
				runtime.Notify("Unsubscribe", sub)
				break
			}
		}
	}
}

// Pause stops deposits, redeems and allocation notices. EmergencyRedeem
// keeps working. It can be invoked only by the owner.
func Pause() {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ownerAddress(ctx))
	storage.Put(ctx, []byte{pausedKey}, []byte{1})
	runtime.Log("staking contract stopped")
}

// Resume re-enables a stopped contract. It can be invoked only by the owner.
func Resume() {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ownerAddress(ctx))
	storage.Delete(ctx, []byte{pausedKey})
	runtime.Log("staking contract resumed")
}

// ChangeOwner transfers contract administration to another account. It can
// be invoked only by the current owner.
func ChangeOwner(owner interop.Hash160) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ownerAddress(ctx))
	if len(owner) != interop.Hash160Len {
		panic("invalid owner address")
	}
	storage.Put(ctx, []byte{ownerKey}, owner)
}

// TotalStaked returns the sum of all locked positions.
func TotalStaked() int {
	ctx := storage.GetReadOnlyContext()
	return getPool(ctx).TotalStaked
}

// BalanceOf returns the locked stake of the account. This is the account's
// voting power as reported to subscribers.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return getPosition(ctx, account).Locked
}

// PendingRewards returns the reward amount the account would receive on the
// next settlement against the current accumulator.
func PendingRewards(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	pool := getPool(ctx)
	pos := getPosition(ctx, account)
	pending := pos.Locked*pool.AccRewardPerShare/stakingconst.RewardScale - pos.Debt
	if pending < 0 {
		return 0
	}
	return pending
}

// Subscribers returns the voting power fan-out list in subscription order.
func Subscribers() []interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	var subs []interop.Hash160
	it := storage.Find(ctx, []byte{subscriberPrefix}, storage.KeysOnly|storage.RemovePrefix)
	for iterator.Next(it) {
		key := iterator.Value(it).([]byte)
		subs = append(subs, interop.Hash160(key[1:]))
	}
	return subs
}

// IsPaused returns true if the contract is stopped.
func IsPaused() bool {
	return isPaused(storage.GetReadOnlyContext())
}

// StakeToken returns the script hash of the staked NEP-17 token.
func StakeToken() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), []byte{stakeTokenKey}).(interop.Hash160)
}

// RewardToken returns the script hash of the reward NEP-17 token.
func RewardToken() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), []byte{rewardTokenKey}).(interop.Hash160)
}

// Master returns the script hash of the allocation coordinator contract.
func Master() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), []byte{masterKey}).(interop.Hash160)
}

// Owner returns the script hash of the contract administrator.
func Owner() interop.Hash160 {
	return ownerAddress(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func getPool(ctx storage.Context) RewardPool {
	data := storage.Get(ctx, []byte{poolKey}).([]byte)
	return std.Deserialize(data).(RewardPool)
}

func positionKey(account interop.Hash160) []byte {
	return append([]byte{positionPrefix}, account...)
}

func getPosition(ctx storage.Context, account interop.Hash160) Position {
	data := storage.Get(ctx, positionKey(account))
	if data == nil {
		return Position{}
	}
	return std.Deserialize(data.([]byte)).(Position)
}

func putPosition(ctx storage.Context, account interop.Hash160, pos Position) {
	if pos.Locked == 0 {
		storage.Delete(ctx, positionKey(account))
		return
	}
	common.SetSerialized(ctx, positionKey(account), pos)
}

func isPaused(ctx storage.Context) bool {
	return storage.Get(ctx, []byte{pausedKey}) != nil
}

func ownerAddress(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{ownerKey}).(interop.Hash160)
}
