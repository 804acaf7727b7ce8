package chain

import (
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	bCtx "github.com/brickmark/goapi/base/ctx"
	"github.com/brickmark/goapi/domain"
	"github.com/brickmark/goapi/domain/trade"
)

func TestToBaseUnits(t *testing.T) {
	req := require.New(t)

	v, err := toBaseUnits("10.5", 18)
	req.NoError(err)
	req.Equal("10500000000000000000", v.String())

	v, err = toBaseUnits("1000", 6)
	req.NoError(err)
	req.Equal("1000000000", v.String())

	v, err = toBaseUnits("0.000001", 6)
	req.NoError(err)
	req.Equal("1", v.String())

	// more precision than the currency carries
	_, err = toBaseUnits("0.0000001", 6)
	req.Error(err)

	_, err = toBaseUnits("not a number", 18)
	req.Error(err)
}

type fakeClient struct {
	params []interface{}
}

func (f *fakeClient) Call(c bCtx.Ctx, chainId int32, addr common.Address, blk *big.Int, _abi abi.ABI, method string, params ...interface{}) ([]interface{}, error) {
	return nil, nil
}

func (f *fakeClient) Transact(c bCtx.Ctx, chainId int32, addr common.Address, key *ecdsa.PrivateKey, _abi abi.ABI, method string, params ...interface{}) (string, error) {
	f.params = params
	return "0xhash", nil
}

func TestExecuteFractionalTotal(t *testing.T) {
	req := require.New(t)

	client := &fakeClient{}
	subject := NewExchange(client, &ExchangeCfg{
		Contracts: map[domain.ChainId]domain.Address{
			1: "0xsettlement",
		},
	})

	txHash, err := subject.Execute(bCtx.Background(), &trade.Trade{
		Id:         "trade1",
		Buyer:      "0xbuyer",
		Seller:     "0xseller",
		Quantity:   1,
		TotalValue: "10.5",
		Asset: domain.AssetId{
			ChainId:  1,
			Contract: "0xdeed",
			TokenId:  "7",
		},
	})
	req.NoError(err)
	req.Equal("0xhash", txHash)

	req.Len(client.params, 7)
	price := client.params[6].(*big.Int)
	req.Equal("10500000000000000000", price.String())
}
