package domain

// Pubkey is a hex-encoded compressed secp256k1 public key identifying a
// lightning node.
type Pubkey string

type AccountLevel int

const (
	AccountLevelOne AccountLevel = 1
	AccountLevelTwo AccountLevel = 2
)

// WalletDescriptor identifies a wallet and its denomination. Created by
// lookup, never mutated.
type WalletDescriptor struct {
	ID        string
	Currency  WalletCurrency
	AccountID string
}

type Account struct {
	ID       string
	Level    AccountLevel
	Username string
}
