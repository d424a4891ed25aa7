package staking_test

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stakevote/stakevote-contract/common"
	"github.com/stakevote/stakevote-contract/contracts/staking"
	"github.com/stretchr/testify/require"
)

const (
	stakingPath = "."
	tokenPath   = "../../internal/testcontracts/token"
	masterPath  = "../../internal/testcontracts/master"
)

type stakingEnv struct {
	e       *neotest.Executor
	staking *neotest.ContractInvoker
	token   *neotest.ContractInvoker
	master  *neotest.ContractInvoker

	stakingHash util.Uint160
	tokenHash   util.Uint160
	masterHash  util.Uint160
}

func newStakingEnv(t *testing.T) *stakingEnv {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)

	ctrToken := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	ctrMaster := neotest.CompileFile(t, e.CommitteeHash, masterPath, path.Join(masterPath, "config.yml"))
	ctrStaking := neotest.CompileFile(t, e.CommitteeHash, stakingPath, path.Join(stakingPath, "config.yml"))

	e.DeployContract(t, ctrToken, e.CommitteeHash)
	e.DeployContract(t, ctrMaster, nil)

	gasHash, err := e.Chain.GetNativeContractScriptHash(nativenames.Gas)
	require.NoError(t, err)

	e.DeployContract(t, ctrStaking, []interface{}{
		e.CommitteeHash,
		ctrToken.Hash,
		gasHash,
		ctrMaster.Hash,
		[]interface{}{},
	})

	// Top up the reward balance of the pool.
	vc := e.CommitteeInvoker(gasHash).WithSigners(e.Validator)
	vc.Invoke(t, true, "transfer",
		e.Validator.ScriptHash(), ctrStaking.Hash, int64(1000_0000_0000), nil)

	return &stakingEnv{
		e:           e,
		staking:     e.CommitteeInvoker(ctrStaking.Hash),
		token:       e.CommitteeInvoker(ctrToken.Hash),
		master:      e.CommitteeInvoker(ctrMaster.Hash),
		stakingHash: ctrStaking.Hash,
		tokenHash:   ctrToken.Hash,
		masterHash:  ctrMaster.Hash,
	}
}

func (env *stakingEnv) newStaker(t *testing.T, amount int64) neotest.Signer {
	acc := env.staking.NewAccount(t)
	env.token.Invoke(t, stackitem.Null{}, "mint", acc.ScriptHash(), amount)
	return acc
}

func (env *stakingEnv) deposit(t *testing.T, acc neotest.Signer, amount int64) *state.AppExecResult {
	c := env.token.WithSigners(acc)
	h := c.Invoke(t, true, "transfer", acc.ScriptHash(), env.stakingHash, amount, nil)
	return c.CheckHalt(t, h)
}

func (env *stakingEnv) allocate(t *testing.T, amount int64) {
	env.master.Invoke(t, stackitem.Null{}, "allocate", env.stakingHash, amount)
}

func findEvent(t *testing.T, aer *state.AppExecResult, name string) *stackitem.Array {
	for _, ev := range aer.Events {
		if ev.Name == name {
			return ev.Item
		}
	}
	t.Fatalf("no %s event", name)
	return nil
}

func requireNoEvent(t *testing.T, aer *state.AppExecResult, name string) {
	for _, ev := range aer.Events {
		require.NotEqual(t, name, ev.Name)
	}
}

func TestStakingDeposit(t *testing.T) {
	env := newStakingEnv(t)
	acc := env.newStaker(t, 500)

	aer := env.deposit(t, acc, 200)
	ev := findEvent(t, aer, "Deposit").Value().([]stackitem.Item)
	requireHash(t, acc.ScriptHash(), ev[0])
	requireInt(t, 200, ev[1])
	requireInt(t, 200, ev[2])

	env.staking.Invoke(t, int64(200), "balanceOf", acc.ScriptHash())
	env.staking.Invoke(t, int64(200), "totalStaked")
	env.staking.Invoke(t, int64(0), "pendingRewards", acc.ScriptHash())
}

func TestStakingResidue(t *testing.T) {
	env := newStakingEnv(t)
	acc := env.newStaker(t, 100)

	// Rewards allocated to an empty pool are not lost.
	env.allocate(t, 100)

	aer := env.deposit(t, acc, 100)
	requireNoEvent(t, aer, "RewardPaid")
	env.staking.Invoke(t, int64(0), "pendingRewards", acc.ScriptHash())

	env.allocate(t, 50)
	env.staking.Invoke(t, int64(150), "pendingRewards", acc.ScriptHash())

	c := env.staking.WithSigners(acc)
	h := c.Invoke(t, stackitem.Null{}, "redeemAll", acc.ScriptHash())
	aer = c.CheckHalt(t, h)
	reward := findEvent(t, aer, "RewardPaid").Value().([]stackitem.Item)
	requireInt(t, 150, reward[1])
	withdraw := findEvent(t, aer, "Withdraw").Value().([]stackitem.Item)
	requireInt(t, 100, withdraw[1])
	requireInt(t, 0, withdraw[2])

	env.staking.Invoke(t, int64(0), "totalStaked")
	env.token.Invoke(t, int64(100), "balanceOf", acc.ScriptHash())
}

func TestStakingProportionalRewards(t *testing.T) {
	env := newStakingEnv(t)
	acc1 := env.newStaker(t, 100)
	acc2 := env.newStaker(t, 300)

	env.deposit(t, acc1, 100)
	env.allocate(t, 100)
	env.deposit(t, acc2, 300)
	env.allocate(t, 100)

	// acc1 earns the whole first allocation and a quarter of the second.
	env.staking.Invoke(t, int64(125), "pendingRewards", acc1.ScriptHash())
	env.staking.Invoke(t, int64(75), "pendingRewards", acc2.ScriptHash())

	c1 := env.staking.WithSigners(acc1)
	aer := c1.CheckHalt(t, c1.Invoke(t, stackitem.Null{}, "redeemAll", acc1.ScriptHash()))
	requireInt(t, 125, findEvent(t, aer, "RewardPaid").Value().([]stackitem.Item)[1])

	c2 := env.staking.WithSigners(acc2)
	aer = c2.CheckHalt(t, c2.Invoke(t, stackitem.Null{}, "redeemAll", acc2.ScriptHash()))
	requireInt(t, 75, findEvent(t, aer, "RewardPaid").Value().([]stackitem.Item)[1])

	env.staking.Invoke(t, int64(0), "totalStaked")
}

func TestStakingPartialRedeem(t *testing.T) {
	env := newStakingEnv(t)
	acc := env.newStaker(t, 100)
	env.deposit(t, acc, 100)

	c := env.staking.WithSigners(acc)
	c.Invoke(t, stackitem.Null{}, "redeem", acc.ScriptHash(), int64(40))
	env.staking.Invoke(t, int64(60), "balanceOf", acc.ScriptHash())
	env.token.Invoke(t, int64(40), "balanceOf", acc.ScriptHash())

	c.InvokeFail(t, staking.ErrInsufficientStake, "redeem", acc.ScriptHash(), int64(100))
	env.staking.Invoke(t, int64(60), "balanceOf", acc.ScriptHash())
}

func TestStakingRedeemWitness(t *testing.T) {
	env := newStakingEnv(t)
	acc := env.newStaker(t, 100)
	env.deposit(t, acc, 100)

	other := env.staking.NewAccount(t)
	c := env.staking.WithSigners(other)
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "redeem", acc.ScriptHash(), int64(50))
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "redeemAll", acc.ScriptHash())
	c.InvokeFail(t, common.ErrOwnerWitnessFailed, "emergencyRedeem", acc.ScriptHash())
}

func TestStakingNotifyAllocationAuth(t *testing.T) {
	env := newStakingEnv(t)

	acc := env.staking.NewAccount(t)
	c := env.staking.WithSigners(acc)
	c.InvokeFail(t, staking.ErrUnknownCoordinator, "notifyAllocation", int64(100), []byte{})

	// The owner may report allocations directly.
	env.staking.Invoke(t, stackitem.Null{}, "notifyAllocation", int64(100), []byte{})
}

func TestStakingPause(t *testing.T) {
	env := newStakingEnv(t)
	acc := env.newStaker(t, 200)
	env.deposit(t, acc, 100)
	env.allocate(t, 30)

	acc2 := env.staking.NewAccount(t)
	env.staking.WithSigners(acc2).InvokeFail(t, common.ErrOwnerWitnessFailed, "pause")

	env.staking.Invoke(t, stackitem.Null{}, "pause")
	env.staking.Invoke(t, true, "isPaused")

	c := env.staking.WithSigners(acc)
	c.InvokeFail(t, staking.ErrStopped, "redeem", acc.ScriptHash(), int64(10))
	c.InvokeFail(t, staking.ErrStopped, "redeemAll", acc.ScriptHash())
	env.master.InvokeFail(t, staking.ErrStopped, "allocate", env.stakingHash, int64(10))

	// EmergencyRedeem keeps working and forfeits pending rewards.
	h := c.Invoke(t, stackitem.Null{}, "emergencyRedeem", acc.ScriptHash())
	aer := c.CheckHalt(t, h)
	requireNoEvent(t, aer, "RewardPaid")
	requireInt(t, 100, findEvent(t, aer, "EmergencyWithdraw").Value().([]stackitem.Item)[1])

	env.staking.Invoke(t, int64(0), "totalStaked")
	env.token.Invoke(t, int64(200), "balanceOf", acc.ScriptHash())

	env.staking.Invoke(t, stackitem.Null{}, "resume")
	env.staking.Invoke(t, false, "isPaused")
	env.deposit(t, acc, 100)
	env.staking.Invoke(t, int64(100), "totalStaked")
}

func TestStakingSubscribers(t *testing.T) {
	env := newStakingEnv(t)

	acc := env.staking.NewAccount(t)
	env.staking.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"addSubscribers", []interface{}{env.masterHash})

	// The stake token has no updateVotingPower method.
	env.staking.InvokeFail(t, "subscriber does not implement updateVotingPower method",
		"addSubscribers", []interface{}{env.tokenHash})

	env.staking.Invoke(t, stackitem.Null{}, "addSubscribers", []interface{}{env.masterHash})
	env.staking.InvokeFail(t, "contract is already subscribed",
		"addSubscribers", []interface{}{env.masterHash})
	env.staking.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray(env.masterHash.BytesBE()),
	}), "subscribers")

	staker := env.newStaker(t, 100)
	env.deposit(t, staker, 100)
	env.master.Invoke(t, int64(100), "powerOf", staker.ScriptHash())

	c := env.staking.WithSigners(staker)
	c.Invoke(t, stackitem.Null{}, "redeem", staker.ScriptHash(), int64(30))
	env.master.Invoke(t, int64(70), "powerOf", staker.ScriptHash())

	env.staking.Invoke(t, stackitem.Null{}, "removeSubscribers", []interface{}{env.masterHash})
	env.staking.Invoke(t, stackitem.Null{}, "subscribers")

	c.Invoke(t, stackitem.Null{}, "redeem", staker.ScriptHash(), int64(30))
	env.master.Invoke(t, int64(70), "powerOf", staker.ScriptHash())
}

func TestStakingChangeOwner(t *testing.T) {
	env := newStakingEnv(t)

	acc := env.staking.NewAccount(t)
	env.staking.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"changeOwner", acc.ScriptHash())

	env.staking.Invoke(t, stackitem.Null{}, "changeOwner", acc.ScriptHash())
	env.staking.Invoke(t, stackitem.NewByteArray(acc.ScriptHash().BytesBE()), "owner")

	env.staking.InvokeFail(t, common.ErrOwnerWitnessFailed, "pause")
	env.staking.WithSigners(acc).Invoke(t, stackitem.Null{}, "pause")
}

func TestStakingZeroAllocation(t *testing.T) {
	env := newStakingEnv(t)
	acc := env.newStaker(t, 100)

	env.allocate(t, 100)
	env.deposit(t, acc, 100)
	env.staking.Invoke(t, int64(0), "pendingRewards", acc.ScriptHash())

	// A zero allocation changes nothing, the residue waits for the next
	// non-zero one.
	env.allocate(t, 0)
	env.staking.Invoke(t, int64(0), "pendingRewards", acc.ScriptHash())

	env.allocate(t, 50)
	env.staking.Invoke(t, int64(150), "pendingRewards", acc.ScriptHash())
}

func TestStakingSettlementRounding(t *testing.T) {
	env := newStakingEnv(t)
	acc1 := env.newStaker(t, 5)
	acc2 := env.newStaker(t, 3)
	env.deposit(t, acc1, 5)
	env.deposit(t, acc2, 3)

	// 4 over a stake of 8 leaves the accumulator at half a reward unit
	// per staked token.
	env.allocate(t, 4)

	c1 := env.staking.WithSigners(acc1)
	h := c1.Invoke(t, stackitem.Null{}, "redeem", acc1.ScriptHash(), int64(2))
	aer := c1.CheckHalt(t, h)
	requireInt(t, 2, findEvent(t, aer, "RewardPaid").Value().([]stackitem.Item)[1])

	env.allocate(t, 3)

	// The re-baselined position of 3 is floored once, at re-baseline time,
	// so the next settlement pays 3-1 and not floor(1.5).
	env.staking.Invoke(t, int64(2), "pendingRewards", acc1.ScriptHash())

	h = c1.Invoke(t, stackitem.Null{}, "redeemAll", acc1.ScriptHash())
	aer = c1.CheckHalt(t, h)
	requireInt(t, 2, findEvent(t, aer, "RewardPaid").Value().([]stackitem.Item)[1])

	c2 := env.staking.WithSigners(acc2)
	h = c2.Invoke(t, stackitem.Null{}, "redeemAll", acc2.ScriptHash())
	aer = c2.CheckHalt(t, h)
	requireInt(t, 3, findEvent(t, aer, "RewardPaid").Value().([]stackitem.Item)[1])
}

func TestStakingEmergencyRedeemEmpty(t *testing.T) {
	env := newStakingEnv(t)

	acc := env.staking.NewAccount(t)
	c := env.staking.WithSigners(acc)
	h := c.Invoke(t, stackitem.Null{}, "emergencyRedeem", acc.ScriptHash())
	aer := c.CheckHalt(t, h)
	requireNoEvent(t, aer, "EmergencyWithdraw")
}

func requireInt(t *testing.T, expected int64, item stackitem.Item) {
	actual, err := item.TryInteger()
	require.NoError(t, err)
	require.Equal(t, expected, actual.Int64())
}

func requireHash(t *testing.T, expected util.Uint160, item stackitem.Item) {
	actual, err := item.TryBytes()
	require.NoError(t, err)
	require.Equal(t, expected.BytesBE(), actual)
}
