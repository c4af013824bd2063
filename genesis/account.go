package genesis

// Type URLs of the account variants written to app_state.auth.accounts.
const (
	BaseAccountType            = "/cosmos.auth.v1beta1.BaseAccount"
	PeriodicVestingAccountType = "/cosmos.vesting.v1beta1.PeriodicVestingAccount"
)

// Field order below follows the JSON key order so that typed records encode
// exactly like the sorted-key template around them.

// Coin is an amount of a single denom, both encoded as strings
type Coin struct {
	Amount string `json:"amount"`
	Denom  string `json:"denom"`
}

// Balance is a bank balance record
type Balance struct {
	Address string `json:"address"`
	Coins   []Coin `json:"coins"`
}

// BaseAccount is an account without any lock, spendable from genesis
type BaseAccount struct {
	Type          string `json:"@type"`
	AccountNumber string `json:"account_number"`
	Address       string `json:"address"`
	PubKey        any    `json:"pub_key"`
	Sequence      string `json:"sequence"`
}

// NewBaseAccount returns a fresh base account for address
func NewBaseAccount(address string) BaseAccount {
	return BaseAccount{
		Type:          BaseAccountType,
		AccountNumber: "0",
		Address:       address,
		Sequence:      "0",
	}
}

// VestingPeriod unlocks Amount after Length seconds from the previous period
type VestingPeriod struct {
	Amount []Coin `json:"amount"`
	Length string `json:"length"`
}

// embeddedBaseAccount is BaseAccount without the type URL, as nested inside
// vesting accounts
type embeddedBaseAccount struct {
	AccountNumber string `json:"account_number"`
	Address       string `json:"address"`
	PubKey        any    `json:"pub_key"`
	Sequence      string `json:"sequence"`
}

// BaseVestingAccount holds the fields shared by all vesting account kinds
type BaseVestingAccount struct {
	BaseAccount      embeddedBaseAccount `json:"base_account"`
	DelegatedFree    []Coin              `json:"delegated_free"`
	DelegatedVesting []Coin              `json:"delegated_vesting"`
	EndTime          string              `json:"end_time"`
	OriginalVesting  []Coin              `json:"original_vesting"`
}

// PeriodicVestingAccount unlocks its original vesting in fixed periods
type PeriodicVestingAccount struct {
	Type               string             `json:"@type"`
	BaseVestingAccount BaseVestingAccount `json:"base_vesting_account"`
	StartTime          string             `json:"start_time"`
	VestingPeriods     []VestingPeriod    `json:"vesting_periods"`
}

// NewPeriodicVestingAccount builds a periodic vesting account. Times are unix
// seconds rendered as decimal strings.
func NewPeriodicVestingAccount(address string, originalVesting []Coin, startTime, endTime string, periods []VestingPeriod) PeriodicVestingAccount {
	return PeriodicVestingAccount{
		Type: PeriodicVestingAccountType,
		BaseVestingAccount: BaseVestingAccount{
			BaseAccount: embeddedBaseAccount{
				AccountNumber: "0",
				Address:       address,
				Sequence:      "0",
			},
			DelegatedFree:    []Coin{},
			DelegatedVesting: []Coin{},
			EndTime:          endTime,
			OriginalVesting:  originalVesting,
		},
		StartTime:      startTime,
		VestingPeriods: periods,
	}
}
