package codes

import (
	"fmt"
	"strconv"
)

// ErrorCode is a domain failure reported by the oracle program.
// Values start at 6000 like Anchor custom errors.
type ErrorCode int

const (
	InvalidName ErrorCode = 6000 + iota
	InvalidDescription
	InvalidRewardRate
	InvalidPda
	AmountMustBePositive
	MathOverflow
	MathUnderflow
	WithdrawalLocked
	InsufficientUnlockedTokens
	AccountBlacklisted
	NoUnlockedTokens
	ZeroWeightAfterUpdate
	AlreadyVoted
	TooManyVotes
	TooManyTargets
	InvalidAuthority
)

var names = map[ErrorCode]string{
	InvalidName:                "InvalidName",
	InvalidDescription:         "InvalidDescription",
	InvalidRewardRate:          "InvalidRewardRate",
	InvalidPda:                 "InvalidPda",
	AmountMustBePositive:       "AmountMustBePositive",
	MathOverflow:               "MathOverflow",
	MathUnderflow:              "MathUnderflow",
	WithdrawalLocked:           "WithdrawalLocked",
	InsufficientUnlockedTokens: "InsufficientUnlockedTokens",
	AccountBlacklisted:         "AccountBlacklisted",
	NoUnlockedTokens:           "NoUnlockedTokens",
	ZeroWeightAfterUpdate:      "ZeroWeightAfterUpdate",
	AlreadyVoted:               "AlreadyVoted",
	TooManyVotes:               "TooManyVotes",
	TooManyTargets:             "TooManyTargets",
	InvalidAuthority:           "InvalidAuthority",
}

var messages = map[ErrorCode]string{
	InvalidName:                "Invalid oracle name provided",
	InvalidDescription:         "Invalid oracle description provided",
	InvalidRewardRate:          "Reward rate must be less than or equal to denominator",
	InvalidPda:                 "Provided account does not match derived PDA",
	AmountMustBePositive:       "Amount must be positive",
	MathOverflow:               "Math overflow",
	MathUnderflow:              "Math underflow",
	WithdrawalLocked:           "Withdrawal still locked",
	InsufficientUnlockedTokens: "Insufficient unlocked tokens",
	AccountBlacklisted:         "Account is blacklisted",
	NoUnlockedTokens:           "No unlocked tokens available",
	ZeroWeightAfterUpdate:      "Weight updates resulted in zero total weight",
	AlreadyVoted:               "User has already voted on this target",
	TooManyVotes:               "Exceeded vote capacity for user",
	TooManyTargets:             "Exceeded governance target capacity",
	InvalidAuthority:           "Account authority does not match expected value",
}

// Name returns the identifier of the code, e.g. "MathOverflow".
func (e ErrorCode) Name() string {
	if n, ok := names[e]; ok {
		return n
	}

	return "Unknown"
}

// Message returns the human readable description.
func (e ErrorCode) Message() string {
	if m, ok := messages[e]; ok {
		return m
	}

	return "unknown error " + strconv.Itoa(int(e))
}

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name(), int(e), e.Message())
}

// Valid reports whether e is a known code.
func (e ErrorCode) Valid() bool {
	_, ok := names[e]
	return ok
}

// Require returns code when cond does not hold.
func Require(cond bool, code ErrorCode) error {
	if cond {
		return nil
	}

	return code
}

// From extracts an ErrorCode from err, unwrapping when needed.
func From(err error) (ErrorCode, bool) {
	for err != nil {
		if code, ok := err.(ErrorCode); ok {
			return code, true
		}

		u, ok := err.(interface{ Unwrap() error })
		if ok {
			err = u.Unwrap()
			continue
		}

		c, ok := err.(interface{ Cause() error })
		if !ok {
			break
		}
		err = c.Cause()
	}

	return 0, false
}
