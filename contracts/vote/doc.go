/*
Package vote implements Poll contract of the StakeVote system.

A Poll contract is an ephemeral single-question ballot box deployed by the
Vote Factory. During deployment it validates its metadata, computes the
deadline and registers itself back at the factory by presenting the challenge
nonce passed in the deployment data. A poll that fails any of these steps
aborts the factory's NewPoll call.

Voting power is the stake locked in the staking contract. A ballot records
the choice and the weight at the moment of voting, and the factory reweighs
recorded ballots on every stake change, so a cast vote keeps tracking its
voter's stake until the deadline. Repeated voting moves the whole weight to
the new choice.

After the deadline anyone can call Finalize exactly once. The poll passes if
the voted share of the currently staked total exceeds the quorum percentage
and the winning tally exceeds the minimal threshold. Per-choice tallies stay
private before finalization and are released by Tally only for polls that
passed, FinalResult releases the outcome of any finalized poll.

# Contract notifications

Voted notification. Produced when a ballot is cast or moved.

	Voted:
	  - name: voter
	    type: Hash160
	  - name: choice
	    type: Integer
	  - name: power
	    type: Integer

Finalized notification. Produced when the poll is closed.

	Finalized:
	  - name: valid
	    type: Boolean
	  - name: participation
	    type: Integer
*/
package vote
