package auction

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tolmol/bidbazaar/internal/models"
)

func testAuction(startingPrice int64, currentBid *int64, endsIn time.Duration, active bool) *models.Auction {
	a := &models.Auction{
		ID:            1,
		CreatorID:     10,
		StartingPrice: decimal.NewFromInt(startingPrice),
		EndTime:       time.Now().Add(endsIn),
		IsActive:      active,
	}
	if currentBid != nil {
		a.CurrentLowestBid = decimal.NewNullDecimal(decimal.NewFromInt(*currentBid))
	}
	return a
}

func int64p(v int64) *int64 { return &v }

func TestFloorPrice(t *testing.T) {
	a := testAuction(1000, nil, time.Hour, true)
	if !FloorPrice(a).Equal(decimal.NewFromInt(1000)) {
		t.Errorf("expected floor 1000 before any bid, got %s", FloorPrice(a))
	}

	a = testAuction(1000, int64p(750), time.Hour, true)
	if !FloorPrice(a).Equal(decimal.NewFromInt(750)) {
		t.Errorf("expected floor 750 after a bid, got %s", FloorPrice(a))
	}
}

func TestTimeRemaining(t *testing.T) {
	now := time.Now()

	a := testAuction(1000, nil, time.Hour, true)
	if remaining := TimeRemaining(a, now); remaining <= 0 || remaining > time.Hour {
		t.Errorf("expected remaining in (0, 1h], got %v", remaining)
	}

	a = testAuction(1000, nil, -time.Minute, true)
	if remaining := TimeRemaining(a, now); remaining != 0 {
		t.Errorf("expected zero remaining after deadline, got %v", remaining)
	}
}

func TestIsBiddable(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		auction  *models.Auction
		biddable bool
	}{
		{"ActiveAndOpen", testAuction(1000, nil, time.Hour, true), true},
		{"Expired", testAuction(1000, nil, -time.Minute, true), false},
		{"Canceled", testAuction(1000, nil, time.Hour, false), false},
		{"CanceledAndExpired", testAuction(1000, nil, -time.Minute, false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBiddable(tt.auction, now); got != tt.biddable {
				t.Errorf("expected biddable=%v, got %v", tt.biddable, got)
			}
		})
	}
}

func TestValidateBid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		auction  *models.Auction
		bidderID int
		amount   int64
		wantErr  error
	}{
		{"Success", testAuction(1000, nil, time.Hour, true), 20, 999, nil},
		{"SuccessAgainstCurrentBid", testAuction(1000, int64p(800), time.Hour, true), 20, 500, nil},
		{"Expired", testAuction(1000, nil, -time.Minute, true), 20, 999, ErrAuctionClosed},
		{"Canceled", testAuction(1000, nil, time.Hour, false), 20, 999, ErrAuctionClosed},
		{"SelfBid", testAuction(1000, nil, time.Hour, true), 10, 999, ErrSelfBid},
		{"ZeroAmount", testAuction(1000, nil, time.Hour, true), 20, 0, ErrInvalidAmount},
		{"NegativeAmount", testAuction(1000, nil, time.Hour, true), 20, -50, ErrInvalidAmount},
		{"EqualToStartingPrice", testAuction(1000, nil, time.Hour, true), 20, 1000, ErrBidTooHigh},
		{"EqualToCurrentBid", testAuction(1000, int64p(800), time.Hour, true), 20, 800, ErrBidTooHigh},
		{"AboveCurrentBid", testAuction(1000, int64p(800), time.Hour, true), 20, 900, ErrBidTooHigh},
		// Precedence: a closed auction wins over every other failure,
		// self-bid wins over amount checks.
		{"ExpiredSelfBid", testAuction(1000, nil, -time.Minute, true), 10, -1, ErrAuctionClosed},
		{"SelfBidBadAmount", testAuction(1000, nil, time.Hour, true), 10, -1, ErrSelfBid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBid(tt.auction, tt.bidderID, decimal.NewFromInt(tt.amount), now)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// The floor must strictly decrease across a sequence of accepted bids:
// starting at 1000, a bid of 999 is accepted, repeats of 999 or 1000
// are rejected, and 500 is accepted.
func TestValidateBid_DescendingSequence(t *testing.T) {
	now := time.Now()
	a := testAuction(1000, nil, time.Hour, true)

	if err := ValidateBid(a, 20, decimal.NewFromInt(999), now); err != nil {
		t.Fatalf("expected first bid of 999 to pass, got %v", err)
	}
	a.CurrentLowestBid = decimal.NewNullDecimal(decimal.NewFromInt(999))

	if err := ValidateBid(a, 21, decimal.NewFromInt(999), now); !errors.Is(err, ErrBidTooHigh) {
		t.Errorf("expected repeat of 999 to fail with ErrBidTooHigh, got %v", err)
	}
	if err := ValidateBid(a, 21, decimal.NewFromInt(1000), now); !errors.Is(err, ErrBidTooHigh) {
		t.Errorf("expected 1000 to fail with ErrBidTooHigh, got %v", err)
	}

	if err := ValidateBid(a, 21, decimal.NewFromInt(500), now); err != nil {
		t.Fatalf("expected bid of 500 to pass, got %v", err)
	}
	a.CurrentLowestBid = decimal.NewNullDecimal(decimal.NewFromInt(500))

	if !FloorPrice(a).Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected final floor 500, got %s", FloorPrice(a))
	}
}
