package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents a registered account. Service providers may create
// auction listings; every account may bid.
type User struct {
	ID                int       `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	PasswordHash      string    `json:"-"`
	IsServiceProvider bool      `json:"is_service_provider"`
	CreatedAt         time.Time `json:"created_at"`
}

// Auction is a reverse-auction listing: bids descend and the lowest
// active bid wins. CurrentLowestBid is unset until the first accepted
// bid; until then the starting price is the floor new bids must
// undercut. Expiry is derived from EndTime on read; IsActive records
// owner cancellation only and never mirrors the clock.
type Auction struct {
	ID               int                 `json:"id"`
	Title            string              `json:"title"`
	Description      string              `json:"description"`
	Category         string              `json:"category"`
	Location         string              `json:"location"`
	State            string              `json:"state,omitempty"`
	StartingPrice    decimal.Decimal     `json:"starting_price"`
	CurrentLowestBid decimal.NullDecimal `json:"current_lowest_bid"`
	EndTime          time.Time           `json:"end_time"`
	IsActive         bool                `json:"is_active"`
	BidCount         int                 `json:"bid_count"`
	CreatorID        int                 `json:"creator_id"`
	CreatedAt        time.Time           `json:"created_at"`
}

// Bid statuses. A withdrawn bid no longer holds the floor and frees its
// bidder to bid on the auction again.
const (
	BidStatusActive    = "active"
	BidStatusWithdrawn = "withdrawn"
)

// Bid is an offer to perform the auctioned service for Amount. Bidder
// identity is withheld from public payloads.
type Bid struct {
	ID        int             `json:"id"`
	AuctionID int             `json:"auction_id"`
	BidderID  int             `json:"-"`
	Amount    decimal.Decimal `json:"amount"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}
