package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// DeedTokenABI is the erc721 surface of the property deed registry
var DeedTokenABI abi.ABI

var deedTokenABI = `[{"type":"function","name":"ownerOf","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"uint256","name":"_tokenId"}],"outputs":[{"type":"address"}]},{"type":"function","name":"supportsInterface","constant":true,"stateMutability":"view","payable":false,"inputs":[{"type":"bytes4","name":"interfaceID"}],"outputs":[{"type":"bool"}]}]`

func init() {
	_abi, err := abi.JSON(strings.NewReader(deedTokenABI))
	if err != nil {
		panic("Failed to parse deed token abi")
	}
	DeedTokenABI = _abi
}
