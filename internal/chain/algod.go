// Package chain reads ticket ownership and node health from an Algorand
// node through algod.
package chain

import (
	"context"
	"errors"
	"fmt"

	"github.com/algorand/go-algorand-sdk/v2/client/v2/algod"
	"github.com/algorand/go-algorand-sdk/v2/types"
)

var ErrInvalidAddress = errors.New("invalid Algorand address")

// ValidateAddress checks the checksum-encoded account address.
func ValidateAddress(addr string) error {
	if _, err := types.DecodeAddress(addr); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return nil
}

type AlgodLedger struct {
	client *algod.Client
}

func NewAlgodLedger(address, token string) (*AlgodLedger, error) {
	c, err := algod.MakeClient(address, token)
	if err != nil {
		return nil, fmt.Errorf("create algod client: %w", err)
	}
	return &AlgodLedger{client: c}, nil
}

func (l *AlgodLedger) LastRound(ctx context.Context) (uint64, error) {
	st, err := l.client.Status().Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("algod status: %w", err)
	}
	return st.LastRound, nil
}

// HoldsAsset reports whether the account has opted in to assetID. Any
// holding record counts, matching the ticket contract's check.
func (l *AlgodLedger) HoldsAsset(ctx context.Context, address string, assetID uint64) (bool, error) {
	if err := ValidateAddress(address); err != nil {
		return false, err
	}
	info, err := l.client.AccountInformation(address).Do(ctx)
	if err != nil {
		return false, fmt.Errorf("account information: %w", err)
	}
	for _, h := range info.Assets {
		if h.AssetId == assetID {
			return true, nil
		}
	}
	return false, nil
}
