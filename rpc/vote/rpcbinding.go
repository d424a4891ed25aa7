// Package vote contains RPC wrappers for StakeVote Poll contract.
package vote

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
	"unicode/utf8"
)

// VoteBallot is a contract-specific vote.Ballot type used by its methods.
type VoteBallot struct {
	Choice *big.Int
	Weight *big.Int
}

// VoteMetadata is a contract-specific vote.Metadata type used by its methods.
type VoteMetadata struct {
	Title string
	Description string
	Author util.Uint160
	Quorum *big.Int
	MinThreshold *big.Int
	EndTime *big.Int
}

// VoteResult is a contract-specific vote.Result type used by its methods.
type VoteResult struct {
	Valid bool
	Participation *big.Int
	Choices []string
	Tally []*big.Int
}

// VotedEvent represents "Voted" event emitted by the contract.
type VotedEvent struct {
	Voter util.Uint160
	Choice *big.Int
	Power *big.Int
}

// FinalizedEvent represents "Finalized" event emitted by the contract.
type FinalizedEvent struct {
	Valid bool
	Participation *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Choices invokes `choices` method of contract.
func (c *ContractReader) Choices() ([]string, error) {
	return unwrap.ArrayOfUTF8Strings(c.invoker.Call(c.hash, "choices"))
}

// Ended invokes `ended` method of contract.
func (c *ContractReader) Ended() (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "ended"))
}

// FinalResult invokes `finalResult` method of contract.
func (c *ContractReader) FinalResult() (*VoteResult, error) {
	return itemToVoteResult(unwrap.Item(c.invoker.Call(c.hash, "finalResult")))
}

// HasVoted invokes `hasVoted` method of contract.
func (c *ContractReader) HasVoted(voter util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasVoted", voter))
}

// Status invokes `status` method of contract.
func (c *ContractReader) Status() (*VoteMetadata, error) {
	return itemToVoteMetadata(unwrap.Item(c.invoker.Call(c.hash, "status")))
}

// Tally invokes `tally` method of contract.
func (c *ContractReader) Tally() ([]*big.Int, error) {
	return itemToBigIntArray(unwrap.Item(c.invoker.Call(c.hash, "tally")))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Finalize creates a transaction invoking `finalize` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Finalize() (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "finalize")
}

// FinalizeTransaction creates a transaction invoking `finalize` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) FinalizeTransaction() (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "finalize")
}

// FinalizeUnsigned creates a transaction invoking `finalize` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) FinalizeUnsigned() (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "finalize", nil)
}

// UpdateVotingPower creates a transaction invoking `updateVotingPower` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateVotingPower(voter util.Uint160, power *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateVotingPower", voter, power)
}

// UpdateVotingPowerTransaction creates a transaction invoking `updateVotingPower` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateVotingPowerTransaction(voter util.Uint160, power *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateVotingPower", voter, power)
}

// UpdateVotingPowerUnsigned creates a transaction invoking `updateVotingPower` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateVotingPowerUnsigned(voter util.Uint160, power *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateVotingPower", nil, voter, power)
}

// Vote creates a transaction invoking `vote` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Vote(voter util.Uint160, choice *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "vote", voter, choice)
}

// VoteTransaction creates a transaction invoking `vote` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) VoteTransaction(voter util.Uint160, choice *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "vote", voter, choice)
}

// VoteUnsigned creates a transaction invoking `vote` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) VoteUnsigned(voter util.Uint160, choice *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "vote", nil, voter, choice)
}

// VoteOf creates a transaction invoking `voteOf` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) VoteOf(voter util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "voteOf", voter)
}

// VoteOfTransaction creates a transaction invoking `voteOf` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) VoteOfTransaction(voter util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "voteOf", voter)
}

// VoteOfUnsigned creates a transaction invoking `voteOf` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) VoteOfUnsigned(voter util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "voteOf", nil, voter)
}

func itemToBigIntArray(item stackitem.Item, err error) ([]*big.Int, error) {
	if err != nil {
		return nil, err
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return nil, errors.New("not an array")
	}
	res := make([]*big.Int, len(arr))
	for i := range res {
		res[i], err = arr[i].TryInteger()
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
	}
	return res, nil
}

// itemToVoteBallot converts stack item into *VoteBallot.
func itemToVoteBallot(item stackitem.Item, err error) (*VoteBallot, error) {
	if err != nil {
		return nil, err
	}
	var res = new(VoteBallot)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of VoteBallot from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *VoteBallot) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Choice, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Choice: %w", err)
	}

	index++
	res.Weight, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Weight: %w", err)
	}

	return nil
}

// itemToVoteMetadata converts stack item into *VoteMetadata.
func itemToVoteMetadata(item stackitem.Item, err error) (*VoteMetadata, error) {
	if err != nil {
		return nil, err
	}
	var res = new(VoteMetadata)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of VoteMetadata from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *VoteMetadata) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 6 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Title, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Title: %w", err)
	}

	index++
	res.Description, err = func (item stackitem.Item) (string, error) {
		b, err := item.TryBytes()
		if err != nil {
			return "", err
		}
		if !utf8.Valid(b) {
			return "", errors.New("not a UTF-8 string")
		}
		return string(b), nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Description: %w", err)
	}

	index++
	res.Author, err = func (item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Author: %w", err)
	}

	index++
	res.Quorum, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Quorum: %w", err)
	}

	index++
	res.MinThreshold, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field MinThreshold: %w", err)
	}

	index++
	res.EndTime, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field EndTime: %w", err)
	}

	return nil
}

// itemToVoteResult converts stack item into *VoteResult.
func itemToVoteResult(item stackitem.Item, err error) (*VoteResult, error) {
	if err != nil {
		return nil, err
	}
	var res = new(VoteResult)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of VoteResult from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *VoteResult) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Valid, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field Valid: %w", err)
	}

	index++
	res.Participation, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Participation: %w", err)
	}

	index++
	res.Choices, err = func (item stackitem.Item) ([]string, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]string, len(arr))
		for i := range res {
			b, err := arr[i].TryBytes()
			if err != nil {
				return nil, err
			}
			if !utf8.Valid(b) {
				return nil, errors.New("not a UTF-8 string")
			}
			res[i] = string(b)
		}
		return res, nil
	} (arr[index])
	if err != nil {
		return fmt.Errorf("field Choices: %w", err)
	}

	index++
	res.Tally, err = itemToBigIntArray(arr[index], nil)
	if err != nil {
		return fmt.Errorf("field Tally: %w", err)
	}

	return nil
}
