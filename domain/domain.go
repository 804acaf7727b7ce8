package domain

import (
	"fmt"
	"strings"
)

// ChainId identifies the network a tokenized asset lives on
type ChainId int32

// Address is a hex encoded account or contract address
type Address string

const EmptyAddress = Address("0x0000000000000000000000000000000000000000")

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerPtr() *Address {
	res := a.ToLower()
	return &res
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

func (a Address) Equals(b Address) bool {
	return a.ToLowerStr() == b.ToLowerStr()
}

// TokenId is the token identifier inside a deed contract, decimal string form
type TokenId string

// AssetId points at one tokenized property deed
type AssetId struct {
	ChainId  ChainId `json:"chainId" bson:"chainId"`
	Contract Address `json:"contract" bson:"contract"`
	TokenId  TokenId `json:"tokenId" bson:"tokenId"`
}

func (a AssetId) ToLower() AssetId {
	a.Contract = a.Contract.ToLower()
	return a
}

func (a AssetId) String() string {
	return fmt.Sprintf("%d:%s:%s", a.ChainId, a.Contract.ToLowerStr(), a.TokenId)
}

// Table names a mongo collection
type Table string

const (
	TableListings Table = "listings"
	TableBids     Table = "bids"
	TableTrades   Table = "trades"
)
