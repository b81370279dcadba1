package models

import (
	stderrors "errors"
	"testing"

	"github.com/shopspring/decimal"

	"tokensim/internal/errors"
)

func newTestToken() Token {
	return NewToken("Test Token", "TST",
		decimal.NewFromInt(1_000_000),
		decimal.NewFromInt(5),
		decimal.NewFromInt(1),
		decimal.NewFromFloat(1.0),
		4)
}

func TestNewToken(t *testing.T) {
	token := newTestToken()

	if !token.CirculatingSupply.Equal(token.TotalSupply) {
		t.Errorf("circulating supply = %s, want %s", token.CirculatingSupply, token.TotalSupply)
	}
	if !token.BurnedToDate().IsZero() {
		t.Errorf("burned to date = %s, want 0", token.BurnedToDate())
	}
	if err := token.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestTokenValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Token)
	}{
		{"empty name", func(tok *Token) { tok.Name = "" }},
		{"negative supply", func(tok *Token) {
			tok.TotalSupply = decimal.NewFromInt(-1)
			tok.CirculatingSupply = decimal.NewFromInt(-1)
		}},
		{"airdrop over 100", func(tok *Token) { tok.AirdropPercentage = decimal.NewFromInt(101) }},
		{"negative airdrop", func(tok *Token) { tok.AirdropPercentage = decimal.NewFromInt(-1) }},
		{"burn rate over 100", func(tok *Token) { tok.BurnRate = decimal.NewFromInt(150) }},
		{"zero price", func(tok *Token) { tok.InitialPrice = decimal.Zero }},
		{"negative price", func(tok *Token) { tok.InitialPrice = decimal.NewFromInt(-1) }},
		{"circulating above total", func(tok *Token) { tok.CirculatingSupply = tok.TotalSupply.Add(decimal.NewFromInt(1)) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := newTestToken()
			tt.mutate(&token)
			err := token.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !stderrors.Is(err, errors.ErrInvalidToken) {
				t.Errorf("error %v does not wrap ErrInvalidToken", err)
			}
		})
	}
}

func TestTokenBurn(t *testing.T) {
	token := newTestToken()

	burned, err := token.Burn(decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("Burn() error = %v", err)
	}
	if !burned.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("burned = %s, want 1000", burned)
	}
	if !token.CirculatingSupply.Equal(decimal.NewFromInt(999_000)) {
		t.Errorf("circulating supply = %s, want 999000", token.CirculatingSupply)
	}
	if !token.BurnedToDate().Equal(decimal.NewFromInt(1000)) {
		t.Errorf("burned to date = %s, want 1000", token.BurnedToDate())
	}
}

func TestTokenBurnSaturates(t *testing.T) {
	token := newTestToken()
	token.CirculatingSupply = decimal.NewFromInt(100)

	burned, err := token.Burn(decimal.NewFromInt(500))
	if err != nil {
		t.Fatalf("Burn() error = %v", err)
	}
	if !burned.Equal(decimal.NewFromInt(100)) {
		t.Errorf("burned = %s, want 100 (saturated)", burned)
	}
	if !token.CirculatingSupply.IsZero() {
		t.Errorf("circulating supply = %s, want 0", token.CirculatingSupply)
	}
}

func TestTokenBurnExhaustedSupply(t *testing.T) {
	token := newTestToken()
	token.CirculatingSupply = decimal.Zero

	_, err := token.Burn(decimal.NewFromInt(1))
	if !stderrors.Is(err, errors.ErrInsufficientSupply) {
		t.Errorf("Burn() error = %v, want ErrInsufficientSupply", err)
	}
}

func TestTokenBurnZeroAmount(t *testing.T) {
	token := newTestToken()
	token.CirculatingSupply = decimal.Zero

	// A zero burn against an exhausted supply is not an error.
	burned, err := token.Burn(decimal.Zero)
	if err != nil {
		t.Fatalf("Burn(0) error = %v", err)
	}
	if !burned.IsZero() {
		t.Errorf("burned = %s, want 0", burned)
	}
}

func TestAirdropAllocation(t *testing.T) {
	token := newTestToken() // 5% of 1,000,000 = 50,000 across 100 users

	got := token.AirdropAllocation(100)
	if !got.Equal(decimal.NewFromInt(500)) {
		t.Errorf("AirdropAllocation(100) = %s, want 500", got)
	}
}

func TestAirdropAllocationZero(t *testing.T) {
	token := newTestToken()
	token.AirdropPercentage = decimal.Zero

	if got := token.AirdropAllocation(100); !got.IsZero() {
		t.Errorf("AirdropAllocation with no airdrop = %s, want 0", got)
	}
	token.AirdropPercentage = decimal.NewFromInt(5)
	if got := token.AirdropAllocation(0); !got.IsZero() {
		t.Errorf("AirdropAllocation with no users = %s, want 0", got)
	}
}
