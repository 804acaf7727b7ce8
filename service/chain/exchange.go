package chain

import (
	"crypto/ecdsa"
	"math/big"

	ethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"golang.org/x/xerrors"

	baseabi "github.com/brickmark/goapi/base/abi"
	bCtx "github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/base/log"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/exchange"
	"github.com/brickmark/goapi/domain/listing"
	"github.com/brickmark/goapi/domain/trade"
)

const defaultCurrencyDecimals = 18

// ExchangeCfg binds one settlement contract deployment per chain
type ExchangeCfg struct {
	Contracts map[domain.ChainId]domain.Address
	// RelayerKey signs settlement transactions on behalf of the platform
	RelayerKey *ecdsa.PrivateKey
	// CurrencyDecimals shifts decimal amounts into the settlement currency's
	// base units, zero means 18
	CurrencyDecimals int32
}

type exchangeImpl struct {
	client        Client
	deedABI       ethabi.ABI
	settlementABI ethabi.ABI
	cfg           *ExchangeCfg
	decimals      int32
}

// NewExchange returns the on-chain implementation of the engine's ownership
// verifier and trade executor
func NewExchange(client Client, cfg *ExchangeCfg) interface {
	exchange.OwnershipVerifier
	exchange.Executor
} {
	decimals := cfg.CurrencyDecimals
	if decimals == 0 {
		decimals = defaultCurrencyDecimals
	}
	return &exchangeImpl{
		client:        client,
		deedABI:       baseabi.DeedTokenABI,
		settlementABI: baseabi.SettlementABI,
		cfg:           cfg,
		decimals:      decimals,
	}
}

func (im *exchangeImpl) VerifyOwnership(c bCtx.Ctx, asset domain.AssetId, claimedOwner domain.Address) (bool, error) {
	tokenId, ok := new(big.Int).SetString(string(asset.TokenId), 10)
	if !ok {
		return false, xerrors.Errorf("invalid token id %s: %w", asset.TokenId, domain.ErrBadParamInput)
	}

	unpacked, err := im.client.Call(c, int32(asset.ChainId), common.HexToAddress(string(asset.Contract)), nil, im.deedABI, "ownerOf", tokenId)
	if err != nil {
		c.WithFields(log.Fields{
			"asset": asset.String(),
			"err":   err,
		}).Error("ownerOf call failed")
		return false, err
	}

	owner := unpacked[0].(common.Address)
	return domain.Address(owner.Hex()).Equals(claimedOwner), nil
}

func (im *exchangeImpl) Execute(c bCtx.Ctx, t *trade.Trade) (string, error) {
	contractAddr, ok := im.cfg.Contracts[t.Asset.ChainId]
	if !ok {
		return "", ErrUnsupportedChain
	}

	tokenId, ok := new(big.Int).SetString(string(t.Asset.TokenId), 10)
	if !ok {
		return "", xerrors.Errorf("invalid token id %s: %w", t.Asset.TokenId, domain.ErrBadParamInput)
	}

	price, err := toBaseUnits(t.TotalValue, im.decimals)
	if err != nil {
		return "", err
	}

	txHash, err := im.client.Transact(c, int32(t.Asset.ChainId), common.HexToAddress(string(contractAddr)), im.cfg.RelayerKey, im.settlementABI, "settle",
		tradeIdToBytes32(t.Id),
		common.HexToAddress(string(t.Asset.Contract)),
		tokenId,
		common.HexToAddress(string(t.Buyer)),
		common.HexToAddress(string(t.Seller)),
		big.NewInt(t.Quantity),
		price,
	)
	if err != nil {
		return "", err
	}
	return txHash, nil
}

func (im *exchangeImpl) Cancel(c bCtx.Ctx, l *listing.Listing) error {
	contractAddr, ok := im.cfg.Contracts[l.Asset.ChainId]
	if !ok {
		return ErrUnsupportedChain
	}

	_, err := im.client.Transact(c, int32(l.Asset.ChainId), common.HexToAddress(string(contractAddr)), im.cfg.RelayerKey, im.settlementABI, "cancelListing",
		listingIdToBytes32(l.Id),
	)
	return err
}

// toBaseUnits converts a decimal amount string into the currency's integral
// base units. Amounts with more precision than the currency carries on chain
// are rejected rather than silently truncated.
func toBaseUnits(value string, decimals int32) (*big.Int, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, xerrors.Errorf("invalid amount %s: %w", value, domain.ErrBadParamInput)
	}

	shifted := d.Shift(decimals)
	if !shifted.IsInteger() {
		return nil, xerrors.Errorf("amount %s exceeds %d decimals: %w", value, decimals, domain.ErrBadParamInput)
	}
	return shifted.BigInt(), nil
}

func tradeIdToBytes32(id trade.Id) [32]byte {
	var b [32]byte
	copy(b[:], id)
	return b
}

func listingIdToBytes32(id listing.Id) [32]byte {
	var b [32]byte
	copy(b[:], id)
	return b
}
