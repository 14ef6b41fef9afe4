package balance

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/mcoot/wagerpong/internal/model"
)

// erc20ABI covers the read-only calls used to value a wallet
const erc20ABI = `[
	{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"}
]`

// ERC20 reads wallet balances from a token contract
type ERC20 struct {
	caller ethereum.ContractCaller
	token  common.Address
	abi    abi.ABI

	mu       sync.Mutex
	decimals *uint8 // cached after the first successful lookup
}

// DialERC20 connects to an Ethereum RPC endpoint and binds the token contract
func DialERC20(rpcURL, tokenAddress string) (*ERC20, error) {
	if !common.IsHexAddress(tokenAddress) {
		return nil, fmt.Errorf("token address %q: %w", tokenAddress, model.ErrInvalidAddress)
	}
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", rpcURL, err)
	}
	return NewERC20(client, common.HexToAddress(tokenAddress))
}

// NewERC20 binds the token contract over an existing caller
func NewERC20(caller ethereum.ContractCaller, token common.Address) (*ERC20, error) {
	parsed, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		return nil, err
	}
	return &ERC20{
		caller: caller,
		token:  token,
		abi:    parsed,
	}, nil
}

// Balance returns the identity's token balance scaled by the token's decimals.
// The identity must be a hex wallet address.
func (e *ERC20) Balance(ctx context.Context, id model.PlayerID) (float64, error) {
	if !common.IsHexAddress(string(id)) {
		return 0, model.ErrInvalidAddress
	}

	decimals, err := e.tokenDecimals(ctx)
	if err != nil {
		return 0, err
	}

	out, err := e.call(ctx, "balanceOf", common.HexToAddress(string(id)))
	if err != nil {
		return 0, err
	}
	raw, ok := out[0].(*big.Int)
	if !ok {
		return 0, fmt.Errorf("balanceOf: unexpected output %T", out[0])
	}

	scale := new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	balance, _ := new(big.Float).Quo(new(big.Float).SetInt(raw), scale).Float64()
	return balance, nil
}

func (e *ERC20) tokenDecimals(ctx context.Context) (uint8, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.decimals != nil {
		return *e.decimals, nil
	}

	out, err := e.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decimals: unexpected output %T", out[0])
	}
	e.decimals = &d
	return d, nil
}

func (e *ERC20) call(ctx context.Context, method string, args ...any) ([]any, error) {
	data, err := e.abi.Pack(method, args...)
	if err != nil {
		return nil, err
	}
	res, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &e.token, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	out, err := e.abi.Unpack(method, res)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%s: empty result", method)
	}
	return out, nil
}
