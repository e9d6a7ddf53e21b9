package auction

import "errors"

// Lookup errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrBidNotFound     = errors.New("bid not found")
)

// Bid validation errors
var (
	ErrAuctionClosed = errors.New("auction has ended")
	ErrSelfBid       = errors.New("cannot bid on your own auction")
	ErrInvalidAmount = errors.New("bid amount must be positive")
	ErrBidTooHigh    = errors.New("bid must be lower than the current lowest bid")
	ErrDuplicateBid  = errors.New("an active bid already exists for this auction")
)

// Withdrawal errors
var (
	ErrNotBidOwner  = errors.New("bid belongs to another user")
	ErrBidWithdrawn = errors.New("bid already withdrawn")
)

// ErrConcurrentUpdate means the guarded floor update matched no row: the
// floor moved below the accepted amount after validation. The whole
// transaction rolls back and the caller may retry.
var ErrConcurrentUpdate = errors.New("auction floor changed concurrently")
