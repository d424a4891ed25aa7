package vote

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/stakevote/stakevote-contract/common"
)

// Metadata is the immutable description of the poll.
type Metadata struct {
	Title       string
	Description string
	Author      interop.Hash160
	// Quorum is the minimal participation percentage for the poll to pass.
	Quorum int
	// MinThreshold is the minimal winning tally for the poll to pass.
	MinThreshold int
	// EndTime is the poll deadline as millisecond wall clock time.
	EndTime int
}

// Ballot is a single account's recorded vote. The weight tracks the voter's
// locked stake until the poll ends.
type Ballot struct {
	Choice int
	Weight int
}

// Result is the outcome of a finalized poll.
type Result struct {
	// Valid is true if the poll reached its quorum and threshold.
	Valid bool
	// Participation is the percentage of eligible stake that voted.
	Participation int
	Choices       []string
	Tally         []int
}

const (
	factoryKey  = 'f'
	stakingKey  = 's'
	metadataKey = 'm'
	choicesKey  = 'c'
	tallyKey    = 't'
	endedKey    = 'e'
	resultKey   = 'r'

	ballotPrefix = 'b'
)

const (
	// ErrAlreadyEnded is returned on an attempt to vote on or finalize an
	// already finalized poll.
	ErrAlreadyEnded = "vote has already ended"
	// ErrNotYetEnded is returned on an attempt to finalize a poll before
	// its deadline.
	ErrNotYetEnded = "vote has not ended yet"
	// ErrUnknownChoice is returned when the voted choice is out of range.
	ErrUnknownChoice = "choice does not exist in this poll"
	// ErrNotFinalized is returned by Tally before finalization.
	ErrNotFinalized = "poll is not finalized"
	// ErrInvalidPoll is returned by Tally when the poll failed its quorum
	// or threshold.
	ErrInvalidPoll = "poll did not reach quorum or threshold"
	// ErrNotFactory is returned when updateVotingPower is called by anyone
	// but the factory.
	ErrNotFactory = "voting power update from unknown contract"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		panic("poll contract cannot be updated")
	}

	args := data.(struct {
		Factory      interop.Hash160
		Nonce        []byte
		Staking      interop.Hash160
		Title        string
		Description  string
		Author       interop.Hash160
		Duration     int
		Quorum       int
		MinThreshold int
		Choices      []string
	})

	if len(args.Title) < 2 {
		panic("poll title must be at least 2 characters long")
	}
	if len(args.Description) < 3 {
		panic("poll description must be at least 3 characters long")
	}
	if len(args.Choices) < 2 {
		panic("poll must have at least 2 choices")
	}
	if args.Duration <= 0 {
		panic("non-positive poll duration")
	}
	if args.Quorum < 0 || args.Quorum > 100 {
		panic("quorum out of range")
	}
	if args.MinThreshold < 0 {
		panic("negative minimal threshold")
	}
	if len(args.Author) != interop.Hash160Len {
		panic("invalid author address")
	}

	ctx := storage.GetContext()
	endTime := runtime.GetTime() + args.Duration*1000

	storage.Put(ctx, []byte{factoryKey}, args.Factory)
	storage.Put(ctx, []byte{stakingKey}, args.Staking)
	common.SetSerialized(ctx, []byte{metadataKey}, Metadata{
		Title:        args.Title,
		Description:  args.Description,
		Author:       args.Author,
		Quorum:       args.Quorum,
		MinThreshold: args.MinThreshold,
		EndTime:      endTime,
	})
	common.SetSerialized(ctx, []byte{choicesKey}, args.Choices)

	tally := make([]int, len(args.Choices))
	common.SetSerialized(ctx, []byte{tallyKey}, tally)

	contract.Call(args.Factory, "register", contract.All, endTime, args.Nonce)
}

// Vote records the voter's choice weighted by the stake currently locked in
// the staking contract. A repeated vote moves the previous weight to the new
// choice. It can be invoked only by the voter until the poll is finalized.
func Vote(voter interop.Hash160, choice int) {
	common.CheckOwnerWitness(voter)

	ctx := storage.GetContext()
	if isEnded(ctx) {
		panic(ErrAlreadyEnded)
	}

	tally := getTally(ctx)
	if choice < 0 || choice >= len(tally) {
		panic(ErrUnknownChoice)
	}

	staking := storage.Get(ctx, []byte{stakingKey}).(interop.Hash160)
	power := contract.Call(staking, "balanceOf", contract.ReadOnly, voter).(int)

	key := ballotKey(voter)
	if old := storage.Get(ctx, key); old != nil {
		prev := std.Deserialize(old.([]byte)).(Ballot)
		tally[prev.Choice] -= prev.Weight
	}
	tally[choice] += power
	common.SetSerialized(ctx, []byte{tallyKey}, tally)
	common.SetSerialized(ctx, key, Ballot{
		Choice: choice,
		Weight: power,
	})

	runtime.Notify("Voted", voter, choice, power)
}

// UpdateVotingPower reweighs the voter's recorded ballot after a stake
// change. Accounts that have not voted and finalized polls are left alone.
// It can be invoked only by the factory.
func UpdateVotingPower(voter interop.Hash160, power int) {
	ctx := storage.GetContext()
	factory := storage.Get(ctx, []byte{factoryKey}).(interop.Hash160)
	if !runtime.GetCallingScriptHash().Equals(factory) {
		panic(ErrNotFactory)
	}
	if isEnded(ctx) {
		return
	}

	key := ballotKey(voter)
	old := storage.Get(ctx, key)
	if old == nil {
		return
	}
	prev := std.Deserialize(old.([]byte)).(Ballot)

	tally := getTally(ctx)
	tally[prev.Choice] += power - prev.Weight
	common.SetSerialized(ctx, []byte{tallyKey}, tally)
	common.SetSerialized(ctx, key, Ballot{
		Choice: prev.Choice,
		Weight: power,
	})
}

// Finalize closes the poll after its deadline and computes the outcome. The
// poll passes if the voted share of the currently staked total exceeds the
// quorum percentage and the winning tally exceeds the minimal threshold.
// Anyone can invoke it, exactly once.
func Finalize() Result {
	ctx := storage.GetContext()
	if isEnded(ctx) {
		panic(ErrAlreadyEnded)
	}

	meta := getMetadata(ctx)
	if runtime.GetTime() < meta.EndTime {
		panic(ErrNotYetEnded)
	}

	tally := getTally(ctx)
	var voted, winner int
	for i := 0; i < len(tally); i++ {
		voted += tally[i]
		if tally[i] > winner {
			winner = tally[i]
		}
	}

	staking := storage.Get(ctx, []byte{stakingKey}).(interop.Hash160)
	eligible := contract.Call(staking, "totalStaked", contract.ReadOnly).(int)

	var participation int
	if eligible > 0 {
		participation = 100 * voted / eligible
	}

	res := Result{
		Valid:         participation > meta.Quorum && winner > meta.MinThreshold,
		Participation: participation,
		Choices:       getChoices(ctx),
		Tally:         tally,
	}

	storage.Put(ctx, []byte{endedKey}, []byte{1})
	common.SetSerialized(ctx, []byte{resultKey}, res)
	runtime.Notify("Finalized", res.Valid, participation)
	return res
}

// Choices returns the choice list of the poll.
func Choices() []string {
	return getChoices(storage.GetReadOnlyContext())
}

// Tally returns the weight accumulated per choice. It is available only for
// finalized polls that reached quorum and threshold.
func Tally() []int {
	ctx := storage.GetReadOnlyContext()
	if !isEnded(ctx) {
		panic(ErrNotFinalized)
	}
	res := getResult(ctx)
	if !res.Valid {
		panic(ErrInvalidPoll)
	}
	return res.Tally
}

// FinalResult returns the stored outcome of a finalized poll.
func FinalResult() Result {
	ctx := storage.GetReadOnlyContext()
	if !isEnded(ctx) {
		panic(ErrNotFinalized)
	}
	return getResult(ctx)
}

// HasVoted returns true if the account has a recorded ballot.
func HasVoted(voter interop.Hash160) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, ballotKey(voter)) != nil
}

// VoteOf returns the recorded ballot of the voter. It can be invoked only by
// the voter, ballots of other accounts stay private until finalization.
func VoteOf(voter interop.Hash160) Ballot {
	common.CheckOwnerWitness(voter)

	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, ballotKey(voter))
	if data == nil {
		panic("no ballot recorded")
	}
	return std.Deserialize(data.([]byte)).(Ballot)
}

// Status returns the poll metadata.
func Status() Metadata {
	return getMetadata(storage.GetReadOnlyContext())
}

// Ended returns true if the poll has been finalized.
func Ended() bool {
	return isEnded(storage.GetReadOnlyContext())
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

func ballotKey(voter interop.Hash160) []byte {
	return append([]byte{ballotPrefix}, voter...)
}

func getMetadata(ctx storage.Context) Metadata {
	data := storage.Get(ctx, []byte{metadataKey}).([]byte)
	return std.Deserialize(data).(Metadata)
}

func getChoices(ctx storage.Context) []string {
	data := storage.Get(ctx, []byte{choicesKey}).([]byte)
	return std.Deserialize(data).([]string)
}

func getTally(ctx storage.Context) []int {
	data := storage.Get(ctx, []byte{tallyKey}).([]byte)
	return std.Deserialize(data).([]int)
}

func getResult(ctx storage.Context) Result {
	data := storage.Get(ctx, []byte{resultKey}).([]byte)
	return std.Deserialize(data).(Result)
}

func isEnded(ctx storage.Context) bool {
	return storage.Get(ctx, []byte{endedKey}) != nil
}
