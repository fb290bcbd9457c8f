package rpc

// RPCError represents a JSON-RPC error response
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// AccountValue is the decoded value of one account from getAccountInfo /
// getProgramAccounts. Data arrives as [base64-string, "base64"].
type AccountValue struct {
	Lamports uint64 `json:"lamports"`
	Owner    string `json:"owner"`
	Data     []any  `json:"data"`
}

// AccountInfoResponse is the response from getAccountInfo
type AccountInfoResponse struct {
	Result struct {
		Context struct {
			Slot uint64 `json:"slot"`
		} `json:"context"`
		Value *AccountValue `json:"value"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// KeyedAccount pairs an account's address with its raw data.
type KeyedAccount struct {
	Pubkey string
	Data   []byte
}

// ProgramAccountsResponse is the response from getProgramAccounts
type ProgramAccountsResponse struct {
	Result []struct {
		Pubkey  string       `json:"pubkey"`
		Account AccountValue `json:"account"`
	} `json:"result"`
	Error *RPCError `json:"error"`
}

// RentExemptionResponse is the response from getMinimumBalanceForRentExemption
type RentExemptionResponse struct {
	Result uint64    `json:"result"`
	Error  *RPCError `json:"error"`
}
