// Package auction holds the reverse-auction rules: when a listing is
// biddable, what floor a new bid must undercut, and whether a
// prospective bid may be accepted. Everything operates on snapshots
// with the clock passed in, so the rules stay independent of storage
// and request plumbing.
package auction

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tolmol/bidbazaar/internal/models"
)

// TimeRemaining returns how long the auction stays open, zero once it
// has ended.
func TimeRemaining(a *models.Auction, now time.Time) time.Duration {
	if remaining := a.EndTime.Sub(now); remaining > 0 {
		return remaining
	}
	return 0
}

// IsExpired reports whether the deadline has passed. Nothing stored
// flips at the deadline; expiry is always computed from the clock.
func IsExpired(a *models.Auction, now time.Time) bool {
	return now.After(a.EndTime)
}

// IsBiddable reports whether new bids may be accepted right now.
func IsBiddable(a *models.Auction, now time.Time) bool {
	return a.IsActive && !IsExpired(a, now)
}

// FloorPrice returns the threshold a new bid must strictly undercut:
// the current lowest bid, or the starting price before any bid exists.
func FloorPrice(a *models.Auction) decimal.Decimal {
	if a.CurrentLowestBid.Valid {
		return a.CurrentLowestBid.Decimal
	}
	return a.StartingPrice
}

// ValidateBid decides whether bidderID may place amount against the
// given auction snapshot. Checks run in precedence order: closed
// auction, self-bid, non-positive amount, amount not below the floor.
// A nil return means the bid may be accepted at this snapshot; the
// store re-runs this under a row lock before persisting.
func ValidateBid(a *models.Auction, bidderID int, amount decimal.Decimal, now time.Time) error {
	if !IsBiddable(a, now) {
		return ErrAuctionClosed
	}
	if a.CreatorID == bidderID {
		return ErrSelfBid
	}
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if amount.GreaterThanOrEqual(FloorPrice(a)) {
		return ErrBidTooHigh
	}
	return nil
}
