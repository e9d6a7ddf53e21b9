package db

import (
	"context"
	"fmt"
	"time"

	"github.com/tolmol/bidbazaar/internal/auction"
	"github.com/tolmol/bidbazaar/internal/models"
)

const auctionColumns = `id, title, description, category, location, state,
	starting_price, current_lowest_bid, end_time, is_active, bid_count,
	creator_id, created_at`

// AuctionFilter narrows ListAuctions. Zero values mean "no filter".
type AuctionFilter struct {
	Search   string
	Category string
	Location string
	Limit    int
	Offset   int
}

// CreateAuction inserts a new auction listing
func (db *DB) CreateAuction(ctx context.Context, a *models.Auction) (*models.Auction, error) {
	created := &models.Auction{}
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO auctions (title, description, category, location, state, starting_price, end_time, creator_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+auctionColumns,
		a.Title, a.Description, a.Category, a.Location, a.State,
		a.StartingPrice, a.EndTime, a.CreatorID).Scan(auctionFields(created)...)
	if err != nil {
		return nil, fmt.Errorf("failed to create auction: %w", err)
	}
	return created, nil
}

// GetAuction retrieves an auction by id
func (db *DB) GetAuction(ctx context.Context, id int) (*models.Auction, error) {
	a := &models.Auction{}
	err := db.Pool.QueryRow(ctx,
		"SELECT "+auctionColumns+" FROM auctions WHERE id = $1", id).Scan(auctionFields(a)...)
	if err != nil {
		if isNoRows(err) {
			return nil, auction.ErrAuctionNotFound
		}
		return nil, fmt.Errorf("failed to get auction: %w", err)
	}
	return a, nil
}

// ListAuctions returns biddable auctions matching the filter, newest
// first, plus the total match count for pagination.
func (db *DB) ListAuctions(ctx context.Context, f AuctionFilter, now time.Time) ([]models.Auction, int, error) {
	where := "is_active AND end_time > $1"
	args := []any{now}

	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		where += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d)", len(args), len(args))
	}
	if f.Category != "" {
		args = append(args, f.Category)
		where += fmt.Sprintf(" AND category = $%d", len(args))
	}
	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		where += fmt.Sprintf(" AND (location ILIKE $%d OR state ILIKE $%d)", len(args), len(args))
	}

	var total int
	if err := db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM auctions WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count auctions: %w", err)
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf("SELECT "+auctionColumns+" FROM auctions WHERE "+where+
		" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list auctions: %w", err)
	}
	defer rows.Close()

	var auctions []models.Auction
	for rows.Next() {
		var a models.Auction
		if err := rows.Scan(auctionFields(&a)...); err != nil {
			return nil, 0, fmt.Errorf("failed to scan auction: %w", err)
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return auctions, total, nil
}

// ListAuctionsByCreator retrieves all auctions created by a user,
// newest first, including expired and canceled ones.
func (db *DB) ListAuctionsByCreator(ctx context.Context, creatorID int) ([]models.Auction, error) {
	rows, err := db.Pool.Query(ctx,
		"SELECT "+auctionColumns+" FROM auctions WHERE creator_id = $1 ORDER BY created_at DESC",
		creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list auctions: %w", err)
	}
	defer rows.Close()

	var auctions []models.Auction
	for rows.Next() {
		var a models.Auction
		if err := rows.Scan(auctionFields(&a)...); err != nil {
			return nil, fmt.Errorf("failed to scan auction: %w", err)
		}
		auctions = append(auctions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return auctions, nil
}

// CancelAuction deactivates an auction if it belongs to the user and is
// still active. Deactivation is the stored counterpart to expiry, which
// stays derived from end_time.
func (db *DB) CancelAuction(ctx context.Context, auctionID, creatorID int) error {
	tag, err := db.Pool.Exec(ctx,
		"UPDATE auctions SET is_active = FALSE WHERE id = $1 AND creator_id = $2 AND is_active",
		auctionID, creatorID)
	if err != nil {
		return fmt.Errorf("failed to cancel auction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return auction.ErrAuctionNotFound
	}
	return nil
}

func auctionFields(a *models.Auction) []any {
	return []any{
		&a.ID, &a.Title, &a.Description, &a.Category, &a.Location, &a.State,
		&a.StartingPrice, &a.CurrentLowestBid, &a.EndTime, &a.IsActive,
		&a.BidCount, &a.CreatorID, &a.CreatedAt,
	}
}
