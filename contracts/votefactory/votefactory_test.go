package votefactory_test

import (
	"encoding/json"
	"math/big"
	"path"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/core/interop/storage"
	"github.com/nspcc-dev/neo-go/pkg/core/native/nativenames"
	"github.com/nspcc-dev/neo-go/pkg/core/state"
	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/neotest/chain"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/stakevote/stakevote-contract/common"
	"github.com/stakevote/stakevote-contract/contracts/votefactory"
	"github.com/stretchr/testify/require"
)

const (
	factoryPath = "."
	votePath    = "../vote"
	stakingPath = "../staking"
	tokenPath   = "../../internal/testcontracts/token"
	masterPath  = "../../internal/testcontracts/master"

	voteTemplateName = "stakevote-vote-template"
)

type factoryEnv struct {
	e       *neotest.Executor
	factory *neotest.ContractInvoker
	staking *neotest.ContractInvoker
	token   *neotest.ContractInvoker

	factoryHash util.Uint160
	stakingHash util.Uint160

	voteNEFChecksum uint32
	pollCount       int
}

func newFactoryEnv(t *testing.T) *factoryEnv {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)

	ctrToken := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	ctrMaster := neotest.CompileFile(t, e.CommitteeHash, masterPath, path.Join(masterPath, "config.yml"))
	ctrStaking := neotest.CompileFile(t, e.CommitteeHash, stakingPath, path.Join(stakingPath, "config.yml"))
	ctrFactory := neotest.CompileFile(t, e.CommitteeHash, factoryPath, path.Join(factoryPath, "config.yml"))
	ctrVote := neotest.CompileFile(t, e.CommitteeHash, votePath, path.Join(votePath, "config.yml"))

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
	e.DeployContract(t, ctrFactory, []interface{}{
		e.CommitteeHash,
		ctrStaking.Hash,
	})

	env := &factoryEnv{
		e:               e,
		factory:         e.CommitteeInvoker(ctrFactory.Hash),
		staking:         e.CommitteeInvoker(ctrStaking.Hash),
		token:           e.CommitteeInvoker(ctrToken.Hash),
		factoryHash:     ctrFactory.Hash,
		stakingHash:     ctrStaking.Hash,
		voteNEFChecksum: ctrVote.NEF.Checksum,
	}

	env.staking.Invoke(t, stackitem.Null{}, "addSubscribers", []interface{}{ctrFactory.Hash})
	env.setPollContract(t, ctrVote)
	return env
}

// setPollContract stores the compiled poll template in the factory with the
// manifest split around the contract name.
func (env *factoryEnv) setPollContract(t *testing.T, ctr *neotest.Contract) {
	nefBytes, err := ctr.NEF.Bytes()
	require.NoError(t, err)

	rawManifest, err := json.Marshal(ctr.Manifest)
	require.NoError(t, err)

	parts := strings.SplitN(string(rawManifest), voteTemplateName, 2)
	require.Len(t, parts, 2)

	env.factory.Invoke(t, stackitem.Null{}, "setPollContract", nefBytes, parts[0], parts[1])
}

func (env *factoryEnv) newPoll(t *testing.T, title string, duration, quorum, minThreshold int64, choices []string) util.Uint160 {
	env.pollCount++
	name := "stakevote-poll-" + strconv.Itoa(env.pollCount)
	expected := state.CreateContractHash(env.factoryHash, env.voteNEFChecksum, name)

	args := make([]interface{}, len(choices))
	for i := range choices {
		args[i] = choices[i]
	}
	env.factory.Invoke(t, stackitem.NewByteArray(expected.BytesBE()), "newPoll",
		title, "A poll about "+title, env.e.CommitteeHash,
		duration, quorum, minThreshold, args)
	return expected
}

func (env *factoryEnv) activePolls(t *testing.T) []stackitem.Item {
	s, err := env.factory.TestInvoke(t, "activePolls")
	require.NoError(t, err)
	iter, ok := s.Pop().Value().(*storage.Iterator)
	require.True(t, ok)

	var items []stackitem.Item
	for iter.Next() {
		items = append(items, iter.Value())
	}
	return items
}

func TestFactoryNewPoll(t *testing.T) {
	env := newFactoryEnv(t)

	hash := env.newPoll(t, "Pizza", 3600, 50, 0, []string{"Yes", "No"})

	polls := env.activePolls(t)
	require.Len(t, polls, 1)
	rec := polls[0].Value().([]stackitem.Item)
	raw, err := rec[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, hash.BytesBE(), raw)

	// The deployed instance is a live contract.
	poll := env.e.CommitteeInvoker(hash)
	poll.Invoke(t, stackitem.NewArray([]stackitem.Item{
		stackitem.NewByteArray([]byte("Yes")),
		stackitem.NewByteArray([]byte("No")),
	}), "choices")
}

func TestFactoryNewPollWithoutTemplate(t *testing.T) {
	bc, acc := chain.NewSingle(t)
	e := neotest.NewExecutor(t, bc, acc, acc)

	ctrStaking := neotest.CompileFile(t, e.CommitteeHash, stakingPath, path.Join(stakingPath, "config.yml"))
	ctrFactory := neotest.CompileFile(t, e.CommitteeHash, factoryPath, path.Join(factoryPath, "config.yml"))

	// The factory only stores the staking hash, nothing is called on it
	// before the first voting power update.
	e.DeployContract(t, ctrFactory, []interface{}{
		e.CommitteeHash,
		ctrStaking.Hash,
	})

	c := e.CommitteeInvoker(ctrFactory.Hash)
	c.InvokeFail(t, votefactory.ErrNoTemplate, "newPoll",
		"Pizza", "A poll about pizza", e.CommitteeHash,
		int64(3600), int64(50), int64(0), []interface{}{"Yes", "No"})
}

func TestFactoryRegisterChallenge(t *testing.T) {
	env := newFactoryEnv(t)

	// No NewPoll is pending, so there is nothing to match against.
	env.factory.InvokeFail(t, votefactory.ErrChallengeMismatch, "register",
		int64(time.Now().UnixMilli()+3600_000), []byte{1, 2, 3})
	require.Empty(t, env.activePolls(t))
}

func TestFactoryPollValidation(t *testing.T) {
	env := newFactoryEnv(t)

	env.factory.InvokeFail(t, "poll must have at least 2 choices", "newPoll",
		"Pizza", "A poll about pizza", env.e.CommitteeHash,
		int64(3600), int64(50), int64(0), []interface{}{"Yes"})
	env.factory.InvokeFail(t, "poll title must be at least 2 characters long", "newPoll",
		"P", "A poll about pizza", env.e.CommitteeHash,
		int64(3600), int64(50), int64(0), []interface{}{"Yes", "No"})
	env.factory.InvokeFail(t, "poll description must be at least 3 characters long", "newPoll",
		"Pizza", "!", env.e.CommitteeHash,
		int64(3600), int64(50), int64(0), []interface{}{"Yes", "No"})

	// A failed deployment leaves no stray registrations behind.
	require.Empty(t, env.activePolls(t))
}

func TestFactoryDefaultConfig(t *testing.T) {
	env := newFactoryEnv(t)

	env.factory.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(1_209_600),
		stackitem.Make(34),
		stackitem.Make(0),
	}), "defaultConfig")

	acc := env.factory.NewAccount(t)
	env.factory.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"setDefaultConfig", int64(3600), int64(50), int64(10))
	env.factory.InvokeFail(t, "quorum out of range",
		"setDefaultConfig", int64(3600), int64(101), int64(0))

	env.factory.Invoke(t, stackitem.Null{}, "setDefaultConfig",
		int64(3600), int64(50), int64(10))
	env.factory.Invoke(t, stackitem.NewStruct([]stackitem.Item{
		stackitem.Make(3600),
		stackitem.Make(50),
		stackitem.Make(10),
	}), "defaultConfig")

	// Sentinel parameters take the stored defaults, explicit zeroes stay
	// zero.
	hash := env.newPoll(t, "Default", votefactory.UseDefault, votefactory.UseDefault,
		votefactory.UseDefault, []string{"Yes", "No"})
	requirePollConfig(t, env, hash, 50, 10)

	hash = env.newPoll(t, "Zero", 3600, 0, 0, []string{"Yes", "No"})
	requirePollConfig(t, env, hash, 0, 0)

	env.factory.InvokeFail(t, "quorum out of range", "newPoll",
		"Pizza", "A poll about pizza", env.e.CommitteeHash,
		int64(3600), int64(101), int64(0), []interface{}{"Yes", "No"})
}

func requirePollConfig(t *testing.T, env *factoryEnv, hash util.Uint160, quorum, minThreshold int64) {
	s, err := env.e.CommitteeInvoker(hash).TestInvoke(t, "status")
	require.NoError(t, err)
	md := s.Pop().Value().([]stackitem.Item)
	require.Equal(t, big.NewInt(quorum), md[3].Value())
	require.Equal(t, big.NewInt(minThreshold), md[4].Value())
}

func TestFactoryPruning(t *testing.T) {
	env := newFactoryEnv(t)

	env.newPoll(t, "Short", 1, 50, 0, []string{"Yes", "No"})
	require.Len(t, env.activePolls(t), 1)

	time.Sleep(2 * time.Second)
	env.e.AddNewBlock(t)

	// Deploying the next poll prunes the expired one.
	hash := env.newPoll(t, "Long", 3600, 50, 0, []string{"Yes", "No"})

	polls := env.activePolls(t)
	require.Len(t, polls, 1)
	rec := polls[0].Value().([]stackitem.Item)
	raw, err := rec[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, hash.BytesBE(), raw)
}

func TestFactoryUpdateVotingPowerAuth(t *testing.T) {
	env := newFactoryEnv(t)

	acc := env.factory.NewAccount(t)
	env.factory.WithSigners(acc).InvokeFail(t, votefactory.ErrNotStaking,
		"updateVotingPower", acc.ScriptHash(), int64(100))
	env.factory.InvokeFail(t, votefactory.ErrNotStaking,
		"updateVotingPower", acc.ScriptHash(), int64(100))
}

func TestFactoryChangeOwner(t *testing.T) {
	env := newFactoryEnv(t)

	acc := env.factory.NewAccount(t)
	env.factory.WithSigners(acc).InvokeFail(t, common.ErrOwnerWitnessFailed,
		"changeOwner", acc.ScriptHash())

	env.factory.Invoke(t, stackitem.Null{}, "changeOwner", acc.ScriptHash())
	env.factory.Invoke(t, stackitem.NewByteArray(acc.ScriptHash().BytesBE()), "owner")
	env.factory.InvokeFail(t, common.ErrOwnerWitnessFailed,
		"setDefaultConfig", int64(3600), int64(50), int64(0))
}
