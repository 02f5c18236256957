package core

// Default category sets offered by the entry forms. Categories stay
// free-form strings; these are only the suggested values.
var (
	DefaultExpenseCategories = []string{
		"Food & Drinks",
		"Transport",
		"Shopping",
		"Entertainment",
		"Bills",
		"Healthcare",
		"Education",
		"Other",
	}

	DefaultIncomeCategories = []string{
		"Salary",
		"Freelance",
		"Business",
		"Investment",
		"Gift",
		"Other",
	}
)
