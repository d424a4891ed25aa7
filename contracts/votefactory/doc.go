/*
Package votefactory implements Vote Factory contract of the StakeVote system.

Vote Factory deploys poll contracts and keeps the set of active polls. It is
the single subscriber the staking contract needs: a voting power update is
relayed to every active poll, so votes already cast keep tracking the voter's
locked stake.

Poll self-registration is challenge based. NewPoll stores the hash of a fresh
random nonce and passes the nonce to the deployed instance, which presents it
back via Register within the same invocation. Only a contract deployed by
this factory can know the preimage, so nothing else can enter the active set,
and a poll template that fails to register aborts the whole NewPoll call.

Expired polls are pruned lazily on NewPoll and on voting power updates.
Pruning only drops the factory's bookkeeping entry, finalization and tally
queries go to the poll contract directly.

# Contract notifications

NewPoll notification. Produced when a poll contract is deployed and has
registered.

	NewPoll:
	  - name: poll
	    type: Hash160
	  - name: title
	    type: String
	  - name: author
	    type: Hash160
*/
package votefactory
