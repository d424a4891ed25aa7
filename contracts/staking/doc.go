/*
Package staking implements Staking contract of the StakeVote system.

Staking contract holds NEP-17 stake token deposits and streams reward tokens
to depositors proportionally to their stake. Rewards are tracked with a single
scaled accumulator, so the cost of an allocation does not depend on the number
of stakers. Rewards allocated while the pool is empty are kept as residue and
folded into the accumulator on the next non-empty allocation, nothing is ever
silently lost.

Deposits and withdrawals are two-phase. A stake token transfer (or a Redeem
call) only records the intent as a serialized hook and hands it to the
allocation coordinator contract. The coordinator settles the reward amount due
to this pool and calls NotifyAllocation back with the hook, which is executed
after the reward is folded in. This ordering guarantees that the triggering
deposit or withdrawal never earns from the allocation settled alongside it.

Every change of a locked position is fanned out to subscriber contracts via
their updateVotingPower method, in subscription order. The vote factory
contract is the expected subscriber, turning locked stake into live voting
power of active polls.

The contract can be stopped by the owner. A stopped contract rejects deposits,
redeems and allocation notices, but EmergencyRedeem keeps working: it returns
the whole stake to the account, forfeiting pending rewards.

# Contract notifications

Deposit notification. Produced when a deposit hook is executed.

	Deposit:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: locked
	    type: Integer

Withdraw notification. Produced when a withdrawal hook is executed.

	Withdraw:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: locked
	    type: Integer

RewardPaid notification. Produced when pending rewards are transferred to an
account during settlement.

	RewardPaid:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer

EmergencyWithdraw notification. Produced when an account abandons its rewards
and takes the stake back directly.

	EmergencyWithdraw:
	  - name: account
	    type: Hash160
	  - name: amount
	    type: Integer

Subscribe and Unsubscribe notifications. Produced when the fan-out list
changes.

	Subscribe:
	  - name: contract
	    type: Hash160

	Unsubscribe:
	  - name: contract
	    type: Hash160
*/
package staking
