package api

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cre8tar/c8r/internal/governance"
	"github.com/cre8tar/c8r/internal/ledger"
	"github.com/cre8tar/c8r/internal/staking"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   int
		wantDomain bool
	}{
		{
			name:       "insufficient balance",
			err:        ledger.ErrInsufficientBalance,
			wantCode:   -32061,
			wantDomain: true,
		},
		{
			name:       "wrapped domain error",
			err:        fmt.Errorf("stake failed: %w", staking.ErrPositionLocked),
			wantCode:   -32062,
			wantDomain: true,
		},
		{
			name:       "already voted",
			err:        governance.ErrAlreadyVoted,
			wantCode:   -32068,
			wantDomain: true,
		},
		{
			name:       "infrastructure error",
			err:        errors.New("connection refused"),
			wantCode:   ErrServerError,
			wantDomain: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg, domain := classify(tt.err)
			if code != tt.wantCode {
				t.Errorf("classify() code = %d, want %d", code, tt.wantCode)
			}
			if domain != tt.wantDomain {
				t.Errorf("classify() domain = %v, want %v", domain, tt.wantDomain)
			}
			if msg == "" {
				t.Error("classify() returned empty message")
			}
		})
	}
}

func TestDomainCodesDistinct(t *testing.T) {
	seen := make(map[int]error)
	for _, dc := range domainCodes {
		if prev, ok := seen[dc.code]; ok {
			t.Errorf("code %d assigned to both %v and %v", dc.code, prev, dc.err)
		}
		seen[dc.code] = dc.err
	}
}
