// Command dump prints the current state of StakeVote contracts: the staking
// pool totals and every active poll with its metadata.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/util"
	stakingrpc "github.com/stakevote/stakevote-contract/rpc/staking"
	voterpc "github.com/stakevote/stakevote-contract/rpc/vote"
	factoryrpc "github.com/stakevote/stakevote-contract/rpc/votefactory"
)

func main() {
	neoRPCEndpoint := flag.String("rpc", "", "Network address of the Neo RPC server")
	stakingFlag := flag.String("staking", "", "Script hash of the staking contract (LE hex)")
	factoryFlag := flag.String("factory", "", "Script hash of the vote factory contract (LE hex)")

	flag.Parse()

	switch {
	case *neoRPCEndpoint == "":
		log.Fatal("missing Neo RPC endpoint")
	case *stakingFlag == "":
		log.Fatal("missing staking contract hash")
	case *factoryFlag == "":
		log.Fatal("missing vote factory contract hash")
	}

	stakingHash, err := util.Uint160DecodeStringLE(*stakingFlag)
	if err != nil {
		log.Fatal(fmt.Errorf("invalid staking contract hash: %w", err))
	}
	factoryHash, err := util.Uint160DecodeStringLE(*factoryFlag)
	if err != nil {
		log.Fatal(fmt.Errorf("invalid vote factory contract hash: %w", err))
	}

	if err := dump(*neoRPCEndpoint, stakingHash, factoryHash); err != nil {
		log.Fatal(err)
	}
}

func dump(endpoint string, stakingHash, factoryHash util.Uint160) error {
	c, err := rpcclient.New(context.Background(), endpoint, rpcclient.Options{})
	if err != nil {
		return fmt.Errorf("create RPC client: %w", err)
	}
	defer c.Close()

	inv := invoker.New(c, nil)

	if err := dumpStaking(inv, stakingHash); err != nil {
		return err
	}
	return dumpPolls(inv, factoryHash)
}

func dumpStaking(inv *invoker.Invoker, hash util.Uint160) error {
	r := stakingrpc.NewReader(inv, hash)

	total, err := r.TotalStaked()
	if err != nil {
		return fmt.Errorf("get total staked: %w", err)
	}
	paused, err := r.IsPaused()
	if err != nil {
		return fmt.Errorf("get paused flag: %w", err)
	}
	subs, err := r.Subscribers()
	if err != nil {
		return fmt.Errorf("get subscribers: %w", err)
	}

	fmt.Printf("staking %s\n", hash.StringLE())
	fmt.Printf("  total staked: %s\n", total)
	fmt.Printf("  paused: %t\n", paused)
	for _, sub := range subs {
		fmt.Printf("  subscriber: %s\n", sub.StringLE())
	}
	return nil
}

func dumpPolls(inv *invoker.Invoker, hash util.Uint160) error {
	r := factoryrpc.NewReader(inv, hash)

	// Not every RPC server keeps iterator sessions, expansion works
	// everywhere and the active poll set is small.
	const maxPolls = 1024
	items, err := r.ActivePollsExpanded(maxPolls)
	if err != nil {
		return fmt.Errorf("get active polls: %w", err)
	}

	fmt.Printf("factory %s, %d active polls\n", hash.StringLE(), len(items))
	for _, item := range items {
		var rec factoryrpc.VotefactoryPollRecord
		if err := rec.FromStackItem(item); err != nil {
			return fmt.Errorf("decode poll record: %w", err)
		}

		pr := voterpc.NewReader(inv, rec.Hash)
		meta, err := pr.Status()
		if err != nil {
			return fmt.Errorf("get poll %s status: %w", rec.Hash.StringLE(), err)
		}
		choices, err := pr.Choices()
		if err != nil {
			return fmt.Errorf("get poll %s choices: %w", rec.Hash.StringLE(), err)
		}

		fmt.Printf("  poll %s\n", rec.Hash.StringLE())
		fmt.Printf("    title: %s\n", meta.Title)
		fmt.Printf("    author: %s\n", meta.Author.StringLE())
		fmt.Printf("    ends: %s (quorum %s%%, threshold %s)\n",
			meta.EndTime, meta.Quorum, meta.MinThreshold)
		for i, choice := range choices {
			fmt.Printf("    choice %d: %s\n", i, choice)
		}
	}
	return nil
}
