package cw721

type InstantiateMsg struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
	Minter string `json:"minter"`
}

type ExecuteMsg struct {
	Mint        *MintMsg        `json:"mint,omitempty"`
	TransferNft *TransferNftMsg `json:"transfer_nft,omitempty"`
}

type MintMsg struct {
	TokenID  string `json:"token_id"`
	Owner    string `json:"owner"`
	TokenURI string `json:"token_uri,omitempty"`
}

type TransferNftMsg struct {
	Recipient string `json:"recipient"`
	TokenID   string `json:"token_id"`
}

type QueryMsg struct {
	NumTokens    *struct{}       `json:"num_tokens,omitempty"`
	AllTokens    *AllTokensQuery `json:"all_tokens,omitempty"`
	Tokens       *TokensQuery    `json:"tokens,omitempty"`
	OwnerOf      *OwnerOfQuery   `json:"owner_of,omitempty"`
	NftInfo      *NftInfoQuery   `json:"nft_info,omitempty"`
	Minter       *struct{}       `json:"minter,omitempty"`
	ContractInfo *struct{}       `json:"contract_info,omitempty"`
}

type AllTokensQuery struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type TokensQuery struct {
	Owner      string `json:"owner"`
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

type OwnerOfQuery struct {
	TokenID string `json:"token_id"`
}

type NftInfoQuery struct {
	TokenID string `json:"token_id"`
}

type NumTokensResponse struct {
	Count uint64 `json:"count"`
}

type TokensResponse struct {
	Tokens []string `json:"tokens"`
}

type OwnerOfResponse struct {
	Owner string `json:"owner"`
}

type NftInfoResponse struct {
	TokenURI string `json:"token_uri,omitempty"`
}

type MinterResponse struct {
	Minter string `json:"minter"`
}

type ContractInfoResponse struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}
