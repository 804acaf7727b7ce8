package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// SettlementABI is the marketplace settlement contract surface
var SettlementABI abi.ABI

var settlementABI = `[{"type":"function","name":"settle","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"bytes32","name":"_tradeId"},{"type":"address","name":"_collection"},{"type":"uint256","name":"_tokenId"},{"type":"address","name":"_buyer"},{"type":"address","name":"_seller"},{"type":"uint256","name":"_quantity"},{"type":"uint256","name":"_price"}],"outputs":[]},{"type":"function","name":"cancelListing","constant":false,"stateMutability":"nonpayable","payable":false,"inputs":[{"type":"bytes32","name":"_listingId"}],"outputs":[]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(settlementABI))
	if err != nil {
		panic("Failed to parse settlement abi")
	}
	SettlementABI = _abi
}
