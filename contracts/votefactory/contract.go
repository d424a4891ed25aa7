package votefactory

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/iterator"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/stakevote/stakevote-contract/common"
)

// UseDefault makes NewPoll take the stored default for the duration, quorum
// or minimal threshold parameter it is passed as.
const UseDefault = -1

// PollConfig carries the default parameters applied to a new poll when the
// creator passes UseDefault.
type PollConfig struct {
	// Duration is the poll lifetime in seconds.
	Duration int
	// Quorum is the minimal participation percentage for a poll to pass.
	Quorum int
	// MinThreshold is the minimal winning tally for a poll to pass.
	MinThreshold int
}

// PollRecord is an entry of the active poll set.
type PollRecord struct {
	// Hash is the script hash of the poll contract.
	Hash interop.Hash160
	// EndTime is the poll deadline as millisecond wall clock time.
	EndTime int
}

// pollTemplate is the compiled poll contract deployed for every new poll.
// The manifest is stored split around the contract name, a unique name per
// poll gives every instance a distinct contract hash.
type pollTemplate struct {
	NEF            []byte
	ManifestPrefix string
	ManifestSuffix string
}

const (
	ownerKey     = 'o'
	stakingKey   = 's'
	challengeKey = 'c'
	counterKey   = 'i'
	templateKey  = 't'
	configKey    = 'd'

	pollPrefix = 'p'
)

const (
	// Default poll parameters, see PollConfig.
	defaultDuration     = 1_209_600 // two weeks, in seconds
	defaultQuorum       = 34
	defaultMinThreshold = 0
)

const (
	// ErrChallengeMismatch is returned when a registering contract fails to
	// present the preimage of the pending challenge.
	ErrChallengeMismatch = "challenge did not match the pending registration"
	// ErrNoTemplate is returned by NewPoll before the poll contract
	// template is set.
	ErrNoTemplate = "poll contract template is not set"
	// ErrNotStaking is returned when updateVotingPower is called by anyone
	// but the staking contract.
	ErrNotStaking = "voting power update from unknown contract"
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
		Owner   interop.Hash160
		Staking interop.Hash160
	})

	if len(args.Owner) != interop.Hash160Len {
		panic("invalid owner address")
	}
	if len(args.Staking) != interop.Hash160Len {
		panic("invalid staking contract address")
	}

	storage.Put(ctx, []byte{ownerKey}, args.Owner)
	storage.Put(ctx, []byte{stakingKey}, args.Staking)
	common.SetSerialized(ctx, []byte{configKey}, PollConfig{
		Duration:     defaultDuration,
		Quorum:       defaultQuorum,
		MinThreshold: defaultMinThreshold,
	})

	runtime.Log("vote factory contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by the committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	management.UpdateWithData(nefFile, manifest, common.AppendVersion(data))
	runtime.Log("vote factory contract updated")
}

// SetPollContract stores the compiled poll contract deployed for every new
// poll. The manifest is given split around the contract name. It can be
// invoked only by the owner.
func SetPollContract(nef []byte, manifestPrefix, manifestSuffix string) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ownerAddress(ctx))
	if len(nef) == 0 {
		panic("empty NEF")
	}

	common.SetSerialized(ctx, []byte{templateKey}, pollTemplate{
		NEF:            nef,
		ManifestPrefix: manifestPrefix,
		ManifestSuffix: manifestSuffix,
	})
}

// SetDefaultConfig replaces the default poll parameters applied when a poll
// creator passes UseDefault. It can be invoked only by the owner.
func SetDefaultConfig(duration, quorum, minThreshold int) {
	ctx := storage.GetContext()
	common.CheckOwnerWitness(ownerAddress(ctx))
	if duration <= 0 {
		panic("non-positive default duration")
	}
	if quorum < 0 || quorum > 100 {
		panic("quorum out of range")
	}
	if minThreshold < 0 {
		panic("negative minimal threshold")
	}

	common.SetSerialized(ctx, []byte{configKey}, PollConfig{
		Duration:     duration,
		Quorum:       quorum,
		MinThreshold: minThreshold,
	})
}

// NewPoll deploys a new poll contract with the given metadata and returns its
// script hash. Passing UseDefault as duration, quorum or minThreshold takes
// the factory default, an explicit zero stays zero. The new poll registers
// itself back during deployment by
// presenting the preimage of a challenge generated here, a deployment that
// does not register aborts the whole call. Expired polls are pruned first.
func NewPoll(title, description string, author interop.Hash160, duration, quorum, minThreshold int, choices []string) interop.Hash160 {
	ctx := storage.GetContext()
	prunePolls(ctx)

	tmplData := storage.Get(ctx, []byte{templateKey})
	if tmplData == nil {
		panic(ErrNoTemplate)
	}
	tmpl := std.Deserialize(tmplData.([]byte)).(pollTemplate)

	def := defaultConfig(ctx)
	if duration == UseDefault {
		duration = def.Duration
	}
	if quorum == UseDefault {
		quorum = def.Quorum
	}
	if minThreshold == UseDefault {
		minThreshold = def.MinThreshold
	}
	if duration <= 0 {
		panic("non-positive duration")
	}
	if quorum < 0 || quorum > 100 {
		panic("quorum out of range")
	}
	if minThreshold < 0 {
		panic("negative minimal threshold")
	}

	nonce := std.Serialize(runtime.GetRandom())
	storage.Put(ctx, []byte{challengeKey}, crypto.Sha256(nonce))

	id := common.GetWithDefault(ctx, []byte{counterKey}, 0) + 1
	storage.Put(ctx, []byte{counterKey}, id)
	manifest := tmpl.ManifestPrefix + "stakevote-poll-" + std.Itoa10(id) + tmpl.ManifestSuffix

	staking := storage.Get(ctx, []byte{stakingKey}).(interop.Hash160)
	deployed := management.DeployWithData(tmpl.NEF, []byte(manifest), []any{
		runtime.GetExecutingScriptHash(),
		nonce,
		staking,
		title,
		description,
		author,
		duration,
		quorum,
		minThreshold,
		choices,
	})

	// Register clears the challenge on success.
	if storage.Get(ctx, []byte{challengeKey}) != nil {
		panic("poll contract did not register")
	}

	runtime.Notify("NewPoll", deployed.Hash, title, author)
	return deployed.Hash
}

// Register adds the calling contract to the active poll set. The caller must
// present the preimage of the challenge generated by the pending NewPoll
// call, so only the contract deployed by this factory can register.
func Register(endTime int, challenge []byte) {
	ctx := storage.GetContext()
	pending := storage.Get(ctx, []byte{challengeKey})
	if pending == nil {
		panic(ErrChallengeMismatch)
	}
	if !crypto.Sha256(challenge).Equals(pending.(interop.Hash256)) {
		panic(ErrChallengeMismatch)
	}
	if endTime <= runtime.GetTime() {
		panic("poll ends in the past")
	}
	storage.Delete(ctx, []byte{challengeKey})

	var count int
	it := storage.Find(ctx, []byte{pollPrefix}, storage.KeysOnly)
	for iterator.Next(it) {
		count++
	}

	poll := runtime.GetCallingScriptHash()
	key := append([]byte{pollPrefix, byte(count)}, poll...)
	common.SetSerialized(ctx, key, PollRecord{
		Hash:    poll,
		EndTime: endTime,
	})
}

// UpdateVotingPower relays the new voting power of an account to every active
// poll. Expired polls are pruned first. It can be invoked only by the staking
// contract.
func UpdateVotingPower(account interop.Hash160, power int) {
	ctx := storage.GetContext()
	staking := storage.Get(ctx, []byte{stakingKey}).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(staking) {
		panic(ErrNotStaking)
	}

	prunePolls(ctx)

	it := storage.Find(ctx, []byte{pollPrefix}, storage.ValuesOnly|storage.DeserializeValues)
	for iterator.Next(it) {
		rec := iterator.Value(it).(PollRecord)
		contract.Call(rec.Hash, "updateVotingPower", contract.All, account, power)
	}
}

// prunePolls drops polls whose end time has passed. Finalization of an
// expired poll does not need the factory, so pruned polls stay queryable on
// their own.
func prunePolls(ctx storage.Context) {
	now := runtime.GetTime()
	it := storage.Find(ctx, []byte{pollPrefix}, storage.None)
	for iterator.Next(it) {
		kv := iterator.Value(it).(struct {
			key []byte
			val []byte
		})
		rec := std.Deserialize(kv.val).(PollRecord)
		if rec.EndTime <= now {
			storage.Delete(ctx, kv.key)
		}
	}
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

// ActivePolls returns an iterator over PollRecord entries of polls that have
// registered and have not been pruned yet. An expired poll stays listed
// until the next state-changing call prunes it.
func ActivePolls() iterator.Iterator {
	ctx := storage.GetReadOnlyContext()
	return storage.Find(ctx, []byte{pollPrefix}, storage.ValuesOnly|storage.DeserializeValues)
}

// DefaultConfig returns the default poll parameters.
func DefaultConfig() PollConfig {
	return defaultConfig(storage.GetReadOnlyContext())
}

// StakingPool returns the script hash of the staking contract feeding voting
// power updates.
func StakingPool() interop.Hash160 {
	return storage.Get(storage.GetReadOnlyContext(), []byte{stakingKey}).(interop.Hash160)
}

// Owner returns the script hash of the contract administrator.
func Owner() interop.Hash160 {
	return ownerAddress(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func defaultConfig(ctx storage.Context) PollConfig {
	data := storage.Get(ctx, []byte{configKey}).([]byte)
	return std.Deserialize(data).(PollConfig)
}

func ownerAddress(ctx storage.Context) interop.Hash160 {
	return storage.Get(ctx, []byte{ownerKey}).(interop.Hash160)
}
