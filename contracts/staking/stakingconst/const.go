// Package stakingconst contains constants of the Staking contract usable
// both in the contract itself and in regular Go code importing it.
package stakingconst

// RewardScale is the fixed-point scale of the pool reward accumulator.
// All reward-per-share values are carried multiplied by this constant and
// divided back on settlement. Integer (floor) division only, the dust lost
// to rounding is bounded by the scale.
const RewardScale = 1_000_000_000_000_000_000 // 10 ^ 18

// RedeemAll is the amount value of the withdrawal hook denoting the whole
// position as recorded at settlement time.
const RedeemAll = -1
