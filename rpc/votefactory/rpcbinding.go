// Package votefactory contains RPC wrappers for StakeVote Factory contract.
package votefactory

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// VotefactoryPollConfig is a contract-specific votefactory.PollConfig type used by its methods.
type VotefactoryPollConfig struct {
	Duration *big.Int
	Quorum *big.Int
	MinThreshold *big.Int
}

// VotefactoryPollRecord is a contract-specific votefactory.PollRecord type used by its methods.
type VotefactoryPollRecord struct {
	Hash util.Uint160
	EndTime *big.Int
}

// NewPollEvent represents "NewPoll" event emitted by the contract.
type NewPollEvent struct {
	Poll util.Uint160
	Title string
	Author util.Uint160
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
	CallAndExpandIterator(contract util.Uint160, method string, maxItems int, params ...any) (*result.Invoke, error)
	TerminateSession(sessionID uuid.UUID) error
	TraverseIterator(sessionID uuid.UUID, iterator *result.Iterator, num int) ([]stackitem.Item, error)
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

// ActivePolls invokes `activePolls` method of contract.
func (c *ContractReader) ActivePolls() (uuid.UUID, result.Iterator, error) {
	return unwrap.SessionIterator(c.invoker.Call(c.hash, "activePolls"))
}

// ActivePollsExpanded is similar to ActivePolls (uses the same contract
// method), but can be useful if the server used doesn't support sessions and
// doesn't expand iterators. It creates a script that will get the specified
// number of result items from the iterator right in the VM and return them to
// you. It's only limited by VM stack and GAS available for RPC invocations.
func (c *ContractReader) ActivePollsExpanded(_numOfIteratorItems int) ([]stackitem.Item, error) {
	return unwrap.Array(c.invoker.CallAndExpandIterator(c.hash, "activePolls", _numOfIteratorItems))
}

// DefaultConfig invokes `defaultConfig` method of contract.
func (c *ContractReader) DefaultConfig() (*VotefactoryPollConfig, error) {
	return itemToVotefactoryPollConfig(unwrap.Item(c.invoker.Call(c.hash, "defaultConfig")))
}

// Owner invokes `owner` method of contract.
func (c *ContractReader) Owner() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "owner"))
}

// StakingPool invokes `stakingPool` method of contract.
func (c *ContractReader) StakingPool() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "stakingPool"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// ChangeOwner creates a transaction invoking `changeOwner` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ChangeOwner(owner util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "changeOwner", owner)
}

// ChangeOwnerTransaction creates a transaction invoking `changeOwner` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ChangeOwnerTransaction(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "changeOwner", owner)
}

// ChangeOwnerUnsigned creates a transaction invoking `changeOwner` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ChangeOwnerUnsigned(owner util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "changeOwner", nil, owner)
}

// NewPoll creates a transaction invoking `newPoll` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) NewPoll(title string, description string, author util.Uint160, duration *big.Int, quorum *big.Int, minThreshold *big.Int, choices []string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "newPoll", title, description, author, duration, quorum, minThreshold, choices)
}

// NewPollTransaction creates a transaction invoking `newPoll` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) NewPollTransaction(title string, description string, author util.Uint160, duration *big.Int, quorum *big.Int, minThreshold *big.Int, choices []string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "newPoll", title, description, author, duration, quorum, minThreshold, choices)
}

// NewPollUnsigned creates a transaction invoking `newPoll` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) NewPollUnsigned(title string, description string, author util.Uint160, duration *big.Int, quorum *big.Int, minThreshold *big.Int, choices []string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "newPoll", nil, title, description, author, duration, quorum, minThreshold, choices)
}

// Register creates a transaction invoking `register` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Register(endTime *big.Int, challenge []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "register", endTime, challenge)
}

// RegisterTransaction creates a transaction invoking `register` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RegisterTransaction(endTime *big.Int, challenge []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "register", endTime, challenge)
}

// RegisterUnsigned creates a transaction invoking `register` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RegisterUnsigned(endTime *big.Int, challenge []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "register", nil, endTime, challenge)
}

// SetDefaultConfig creates a transaction invoking `setDefaultConfig` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetDefaultConfig(duration *big.Int, quorum *big.Int, minThreshold *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setDefaultConfig", duration, quorum, minThreshold)
}

// SetDefaultConfigTransaction creates a transaction invoking `setDefaultConfig` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetDefaultConfigTransaction(duration *big.Int, quorum *big.Int, minThreshold *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setDefaultConfig", duration, quorum, minThreshold)
}

// SetDefaultConfigUnsigned creates a transaction invoking `setDefaultConfig` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetDefaultConfigUnsigned(duration *big.Int, quorum *big.Int, minThreshold *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setDefaultConfig", nil, duration, quorum, minThreshold)
}

// SetPollContract creates a transaction invoking `setPollContract` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SetPollContract(nef []byte, manifestPrefix string, manifestSuffix string) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "setPollContract", nef, manifestPrefix, manifestSuffix)
}

// SetPollContractTransaction creates a transaction invoking `setPollContract` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SetPollContractTransaction(nef []byte, manifestPrefix string, manifestSuffix string) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "setPollContract", nef, manifestPrefix, manifestSuffix)
}

// SetPollContractUnsigned creates a transaction invoking `setPollContract` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SetPollContractUnsigned(nef []byte, manifestPrefix string, manifestSuffix string) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "setPollContract", nil, nef, manifestPrefix, manifestSuffix)
}

// UpdateVotingPower creates a transaction invoking `updateVotingPower` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateVotingPower(account util.Uint160, power *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateVotingPower", account, power)
}

// UpdateVotingPowerTransaction creates a transaction invoking `updateVotingPower` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateVotingPowerTransaction(account util.Uint160, power *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateVotingPower", account, power)
}

// UpdateVotingPowerUnsigned creates a transaction invoking `updateVotingPower` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateVotingPowerUnsigned(account util.Uint160, power *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateVotingPower", nil, account, power)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// itemToVotefactoryPollConfig converts stack item into *VotefactoryPollConfig.
func itemToVotefactoryPollConfig(item stackitem.Item, err error) (*VotefactoryPollConfig, error) {
	if err != nil {
		return nil, err
	}
	var res = new(VotefactoryPollConfig)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of VotefactoryPollConfig from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *VotefactoryPollConfig) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err error
	)
	index++
	res.Duration, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Duration: %w", err)
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

	return nil
}

// itemToVotefactoryPollRecord converts stack item into *VotefactoryPollRecord.
func itemToVotefactoryPollRecord(item stackitem.Item, err error) (*VotefactoryPollRecord, error) {
	if err != nil {
		return nil, err
	}
	var res = new(VotefactoryPollRecord)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of VotefactoryPollRecord from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *VotefactoryPollRecord) FromStackItem(item stackitem.Item) error {
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
	res.Hash, err = func (item stackitem.Item) (util.Uint160, error) {
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
		return fmt.Errorf("field Hash: %w", err)
	}

	index++
	res.EndTime, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field EndTime: %w", err)
	}

	return nil
}
