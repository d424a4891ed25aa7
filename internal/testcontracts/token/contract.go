// Package token implements a minimal NEP-17 token used as the stake token in
// tests.
package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	ownerKey  = 'o'
	supplyKey = 's'

	balancePrefix = 'b'
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		return
	}
	owner := data.(interop.Hash160)
	storage.Put(storage.GetContext(), []byte{ownerKey}, owner)
}

func Symbol() string {
	return "STK"
}

func Decimals() int {
	return 8
}

func TotalSupply() int {
	return getInt(storage.GetReadOnlyContext(), []byte{supplyKey})
}

func BalanceOf(account interop.Hash160) int {
	return getInt(storage.GetReadOnlyContext(), balanceKey(account))
}

func Transfer(from, to interop.Hash160, amount int, data any) bool {
	if amount < 0 {
		panic("negative amount")
	}
	if !from.Equals(runtime.GetCallingScriptHash()) && !runtime.CheckWitness(from) {
		return false
	}

	ctx := storage.GetContext()
	fromBalance := getInt(ctx, balanceKey(from))
	if fromBalance < amount {
		return false
	}

	putInt(ctx, balanceKey(from), fromBalance-amount)
	putInt(ctx, balanceKey(to), getInt(ctx, balanceKey(to))+amount)
	runtime.Notify("Transfer", from, to, amount)

	if management.GetContract(to) != nil {
		contract.Call(to, "onNEP17Payment", contract.All, from, amount, data)
	}
	return true
}

// Mint credits the account out of thin air. It can be invoked only by the
// owner set at deployment.
func Mint(to interop.Hash160, amount int) {
	ctx := storage.GetContext()
	owner := storage.Get(ctx, []byte{ownerKey}).(interop.Hash160)
	if !runtime.CheckWitness(owner) {
		panic("witness check failed")
	}
	if amount <= 0 {
		panic("non-positive amount")
	}

	putInt(ctx, balanceKey(to), getInt(ctx, balanceKey(to))+amount)
	putInt(ctx, []byte{supplyKey}, getInt(ctx, []byte{supplyKey})+amount)
	var from interop.Hash160
	runtime.Notify("Transfer", from, to, amount)
}

func balanceKey(account interop.Hash160) []byte {
	return append([]byte{balancePrefix}, account...)
}

func getInt(ctx storage.Context, key []byte) int {
	val := storage.Get(ctx, key)
	if val == nil {
		return 0
	}
	return val.(int)
}

func putInt(ctx storage.Context, key []byte, value int) {
	storage.Put(ctx, key, value)
}
