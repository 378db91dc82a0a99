package emulator

import "github.com/etnz/beantab"

// Demo returns a small ledger to play with.
func Demo() beantab.BalancesData {
	bal := func(account, currency, day string, n float64, t beantab.BalanceType) beantab.Balance {
		return beantab.Balance{Account: account, Currency: currency, Date: day, Number: beantab.Num(n), Type: t}
	}
	return beantab.BalancesData{
		Balances: []beantab.Balance{
			bal("Assets:Bank:Checking", "EUR", "2024-01-31", 1520.35, beantab.Regular),
			bal("Assets:Bank:Checking", "EUR", "2024-02-29", 1380.10, beantab.Regular),
			bal("Assets:Bank:Checking", "USD", "2024-01-31", 200, beantab.Regular),
			bal("Assets:Bank:Savings", "EUR", "2024-01-31", 10000, beantab.Padded),
			bal("Assets:Bank:Savings", "EUR", "2024-02-29", 10050, beantab.Padded),
			bal("Assets:Broker:ETF", "EUR", "2024-02-29", 8421.77, beantab.Valuation),
			bal("Liabilities:CreditCard", "EUR", "2024-02-29", -312.40, beantab.Padded),
		},
		Accounts: []beantab.Account{
			{Account: "Assets:Bank:Checking", DefaultBalanceType: beantab.Regular, Currencies: []string{"EUR", "USD"}},
			{Account: "Assets:Bank:Savings", DefaultBalanceType: beantab.Padded, Currencies: []string{"EUR"}},
			{Account: "Assets:Broker:ETF", DefaultBalanceType: beantab.Valuation, Currencies: []string{"EUR"}},
			{Account: "Liabilities:CreditCard", DefaultBalanceType: beantab.Regular, Currencies: []string{"EUR"}},
		},
		BalanceErrors: []beantab.BalanceError{
			{Account: "Assets:Bank:Checking", Currency: "EUR", Date: "2024-02-29", Message: "Balance failed for 'Assets:Bank:Checking': expected 1380.10 EUR != accumulated 1375.10 EUR (5.00 too much)"},
		},
	}
}
