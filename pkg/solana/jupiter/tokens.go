package jupiter

// TokenInfo is display metadata for a mint involved in a swap.
type TokenInfo struct {
	Address  string
	Symbol   string
	Name     string
	Decimals uint8
}

// Mints commonly seen on Jupiter routes. Swaps over anything else still
// decode, they just render with the raw mint address.
var knownMints = map[string]TokenInfo{
	"So11111111111111111111111111111111111111112": {
		Symbol: "SOL", Name: "Wrapped SOL", Decimals: 9,
	},
	"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v": {
		Symbol: "USDC", Name: "USD Coin", Decimals: 6,
	},
	"Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB": {
		Symbol: "USDT", Name: "Tether USD", Decimals: 6,
	},
	"mSoLzYCxHdYgdzU16g5QSh3i5K3z3KZK7ytfqcJm7So": {
		Symbol: "mSOL", Name: "Marinade Staked SOL", Decimals: 9,
	},
	"7vfCXTUXx5WJV5JADk17DUJ4ksgau7utNKj4b963voxs": {
		Symbol: "ETH", Name: "Ether (Wormhole)", Decimals: 8,
	},
	"DezXAZ8z7PnrnRJjz3wXBoRgixCa6xjnB7YaB1pPB263": {
		Symbol: "BONK", Name: "Bonk", Decimals: 5,
	},
	"JUPyiwrYJFskUPiHa7hkeR8VUtAeFoSYbKedZNsDvCN": {
		Symbol: "JUP", Name: "Jupiter", Decimals: 6,
	},
	"HZ1JovNiVvGrGNiiYvEozEVgZ58xaU3RKwX8eACQBCt3": {
		Symbol: "PYTH", Name: "Pyth Network", Decimals: 6,
	},
}

// Program addresses that show up in route account lists and must never be
// mistaken for mints during account scanning.
var notMints = map[string]struct{}{
	"TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA":  {},
	"11111111111111111111111111111111":             {},
	"ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL": {},
	"JUP6LkbZbjS1jKKwapdHNy74zcZ3tLUZoi5QNyVTaV4":  {},
	"whirLbMiicVdio4qvUfM5KAg6Ct8VwpYzGff3uctyCc":  {},
	"675kPX9MHTjS2zt1qfr1NYHuzeLXfQM9H24wFSUt1Mp8": {},
	"CAMMCzo5YL8w4VFF8KVHrK22GGUsp5VTaW7grrKgrWqK": {},
	"MemoSq4gqABAXKb96qnH8TysNcWxMyWCqXgDLGmfcHr":  {},
}

// LookupToken returns display metadata for a mint. Unknown mints fall back
// to the raw address with an "Unknown" symbol so rendering never blocks on
// an incomplete token table.
func LookupToken(mint string) TokenInfo {
	if info, ok := knownMints[mint]; ok {
		info.Address = mint
		return info
	}
	return TokenInfo{
		Address: mint,
		Symbol:  "Unknown",
		Name:    "Unknown Token",
	}
}
