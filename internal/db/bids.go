package db

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tolmol/bidbazaar/internal/auction"
	"github.com/tolmol/bidbazaar/internal/models"
)

// PlaceBid validates amount against the auction's floor price and, on
// success, records the bid and moves the floor down in one transaction.
// The auction row is locked for the duration, so concurrent bids on the
// same auction serialize: the loser revalidates against the winner's
// floor and fails with ErrBidTooHigh unless it undercuts it.
func (db *DB) PlaceBid(ctx context.Context, auctionID, bidderID int, amount decimal.Decimal, now time.Time) (*models.Bid, error) {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	a := &models.Auction{}
	err = tx.QueryRow(ctx,
		"SELECT "+auctionColumns+" FROM auctions WHERE id = $1 FOR UPDATE",
		auctionID).Scan(auctionFields(a)...)
	if err != nil {
		if isNoRows(err) {
			return nil, auction.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}

	if err := auction.ValidateBid(a, bidderID, amount, now); err != nil {
		return nil, err
	}

	var hasActive bool
	err = tx.QueryRow(ctx,
		"SELECT EXISTS(SELECT 1 FROM bids WHERE auction_id = $1 AND bidder_id = $2 AND status = $3)",
		auctionID, bidderID, models.BidStatusActive).Scan(&hasActive)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bids: %w", err)
	}
	if hasActive {
		return nil, auction.ErrDuplicateBid
	}

	bid := &models.Bid{}
	err = tx.QueryRow(ctx,
		`INSERT INTO bids (auction_id, bidder_id, amount, status)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, auction_id, bidder_id, amount, status, created_at`,
		auctionID, bidderID, amount, models.BidStatusActive).Scan(
		&bid.ID, &bid.AuctionID, &bid.BidderID, &bid.Amount, &bid.Status, &bid.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create bid: %w", err)
	}

	// The row lock already serializes bidders; the guard clause is the
	// backstop that keeps the floor strictly decreasing if the row ever
	// changes between validation and this update.
	tag, err := tx.Exec(ctx,
		`UPDATE auctions SET current_lowest_bid = $1, bid_count = bid_count + 1
		 WHERE id = $2 AND (current_lowest_bid IS NULL OR current_lowest_bid > $1)`,
		amount, auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update auction floor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, auction.ErrConcurrentUpdate
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return bid, nil
}

// WithdrawBid marks a bid withdrawn if it belongs to the user and is
// still active, recomputes the auction's floor as the minimum remaining
// active amount (or null), and decrements the bid counter.
func (db *DB) WithdrawBid(ctx context.Context, bidID, bidderID int) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	b := &models.Bid{}
	err = tx.QueryRow(ctx,
		"SELECT id, auction_id, bidder_id, amount, status FROM bids WHERE id = $1 FOR UPDATE",
		bidID).Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.Status)
	if err != nil {
		if isNoRows(err) {
			return auction.ErrBidNotFound
		}
		return fmt.Errorf("failed to get bid: %w", err)
	}

	if b.BidderID != bidderID {
		return auction.ErrNotBidOwner
	}
	if b.Status != models.BidStatusActive {
		return auction.ErrBidWithdrawn
	}

	// Lock the auction row before touching its floor, so a concurrent
	// PlaceBid on the same auction serializes with the recompute.
	var auctionID int
	err = tx.QueryRow(ctx, "SELECT id FROM auctions WHERE id = $1 FOR UPDATE", b.AuctionID).Scan(&auctionID)
	if err != nil {
		return fmt.Errorf("failed to lock auction: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE bids SET status = $1 WHERE id = $2", models.BidStatusWithdrawn, bidID); err != nil {
		return fmt.Errorf("failed to withdraw bid: %w", err)
	}

	var newFloor decimal.NullDecimal
	err = tx.QueryRow(ctx,
		"SELECT MIN(amount) FROM bids WHERE auction_id = $1 AND status = $2",
		b.AuctionID, models.BidStatusActive).Scan(&newFloor)
	if err != nil {
		return fmt.Errorf("failed to recompute floor: %w", err)
	}

	if _, err := tx.Exec(ctx,
		"UPDATE auctions SET current_lowest_bid = $1, bid_count = bid_count - 1 WHERE id = $2",
		newFloor, b.AuctionID); err != nil {
		return fmt.Errorf("failed to update auction floor: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListBidsForAuction retrieves an auction's bids, newest first.
func (db *DB) ListBidsForAuction(ctx context.Context, auctionID int) ([]models.Bid, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, auction_id, bidder_id, amount, status, created_at
		 FROM bids WHERE auction_id = $1 ORDER BY created_at DESC`,
		auctionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var bids []models.Bid
	for rows.Next() {
		var b models.Bid
		if err := rows.Scan(&b.ID, &b.AuctionID, &b.BidderID, &b.Amount, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		bids = append(bids, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bids, nil
}

// BidWithAuction pairs a bid with the auction it was placed on, for
// dashboard views.
type BidWithAuction struct {
	Bid     models.Bid
	Auction models.Auction
}

// ListBidsByBidder retrieves a user's bids joined with their auctions,
// newest bid first.
func (db *DB) ListBidsByBidder(ctx context.Context, bidderID int) ([]BidWithAuction, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT b.id, b.auction_id, b.bidder_id, b.amount, b.status, b.created_at,
		        a.id, a.title, a.description, a.category, a.location, a.state,
		        a.starting_price, a.current_lowest_bid, a.end_time, a.is_active,
		        a.bid_count, a.creator_id, a.created_at
		 FROM bids b JOIN auctions a ON b.auction_id = a.id
		 WHERE b.bidder_id = $1 ORDER BY b.created_at DESC`,
		bidderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bids: %w", err)
	}
	defer rows.Close()

	var results []BidWithAuction
	for rows.Next() {
		var r BidWithAuction
		fields := []any{&r.Bid.ID, &r.Bid.AuctionID, &r.Bid.BidderID, &r.Bid.Amount, &r.Bid.Status, &r.Bid.CreatedAt}
		fields = append(fields, auctionFields(&r.Auction)...)
		if err := rows.Scan(fields...); err != nil {
			return nil, fmt.Errorf("failed to scan bid: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
