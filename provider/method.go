// Package provider defines the Provider Adapter contract: the interface
// every scanner (Etherscan-family, Blockscout, Moralis-style) implements,
// the closed set of logical methods they bind, the process-wide adapter
// registry, and the error taxonomy adapters and the client raise.
package provider

// LogicalMethod names a provider-agnostic explorer operation. The set is
// closed; providers advertise which values they implement via
// SupportedMethods.
type LogicalMethod string

const (
	AccountBalance        LogicalMethod = "ACCOUNT_BALANCE"
	AccountTransactions    LogicalMethod = "ACCOUNT_TRANSACTIONS"
	AccountInternalTxs     LogicalMethod = "ACCOUNT_INTERNAL_TXS"
	AccountERC20Transfers  LogicalMethod = "ACCOUNT_ERC20_TRANSFERS"
	TokenBalance           LogicalMethod = "TOKEN_BALANCE"
	TxByHash               LogicalMethod = "TX_BY_HASH"
	TxReceiptStatus        LogicalMethod = "TX_RECEIPT_STATUS"
	BlockByNumber          LogicalMethod = "BLOCK_BY_NUMBER"
	BlockReward            LogicalMethod = "BLOCK_REWARD"
	EventLogs              LogicalMethod = "EVENT_LOGS"
	ContractABI            LogicalMethod = "CONTRACT_ABI"
	ContractSource         LogicalMethod = "CONTRACT_SOURCE"
	GasOracle              LogicalMethod = "GAS_ORACLE"
	EthPrice               LogicalMethod = "ETH_PRICE"
	EthSupply              LogicalMethod = "ETH_SUPPLY"
)

// RangeScopedMethods are the LogicalMethods the Aggregator knows how to
// harvest over a block interval.
var RangeScopedMethods = map[LogicalMethod]bool{
	AccountTransactions:   true,
	AccountInternalTxs:    true,
	AccountERC20Transfers: true,
	EventLogs:             true,
}
