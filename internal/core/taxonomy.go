package core

// Category and payment-method suggestion sets offered by the entry form.
// These are suggestions only; the store accepts any non-empty category and
// any payment method including none.

var (
	incomeCategories  = []string{"Salary", "Trading", "Other"}
	expenseCategories = []string{"Food", "Transport", "Cloth", "Loan", "Other"}
	paymentMethods    = []string{"Cash", "Card", "UPI", "Wallet"}
)

// CategorySuggestions returns the suggested categories for a type.
func CategorySuggestions(t TxType) []string {
	switch t {
	case Income:
		return append([]string(nil), incomeCategories...)
	case Expense:
		return append([]string(nil), expenseCategories...)
	default:
		return nil
	}
}

// PaymentMethodSuggestions returns the suggested payment methods.
func PaymentMethodSuggestions() []string {
	return append([]string(nil), paymentMethods...)
}
