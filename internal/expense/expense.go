package expense

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the label an expense is filed under.
type Category string

const (
	CategoryRent          Category = "Rent"
	CategoryEMI           Category = "EMI"
	CategoryLoan          Category = "Loan"
	CategoryTransport     Category = "Transport"
	CategoryGroceries     Category = "Groceries"
	CategoryShopping      Category = "Shopping"
	CategoryEntertainment Category = "Entertainment"
	CategoryCinema        Category = "Cinema"
	CategoryFoodDelivery  Category = "Swiggy / Zomato"
	CategoryBeef          Category = "Beef"
	CategoryChicken       Category = "Chicken"
	CategoryFish          Category = "Fish"
	CategoryPharmacy      Category = "Pharmacy"
	CategoryRecharge      Category = "Recharge"
	CategoryOther         Category = "Other"
)

// CategorySetVersion identifies the revision of Categories. Bump it whenever a label is
// added or removed so stored data can be reconciled against older clients.
const CategorySetVersion = 2

// Categories is the closed, ordered set of labels offered when recording an expense.
var Categories = []Category{
	CategoryRent,
	CategoryEMI,
	CategoryLoan,
	CategoryTransport,
	CategoryGroceries,
	CategoryShopping,
	CategoryEntertainment,
	CategoryCinema,
	CategoryFoodDelivery,
	CategoryBeef,
	CategoryChicken,
	CategoryFish,
	CategoryPharmacy,
	CategoryRecharge,
	CategoryOther,
}

// DefaultCategory is preselected by entry forms.
const DefaultCategory = CategoryGroceries

// Known reports whether c belongs to Categories.
func (c Category) Known() bool {
	for _, k := range Categories {
		if k == c {
			return true
		}
	}

	return false
}

// Expense is a single recorded spending transaction.
type Expense struct {
	ID        uuid.UUID
	Owner     uuid.UUID
	Amount    decimal.Decimal
	Category  Category
	Note      *string
	Date      string // YYYY-MM-DD
	CreatedAt time.Time
	IsRegret  bool
}

// NoteText returns the note or an empty string.
func (e *Expense) NoteText() string {
	if e.Note == nil {
		return ""
	}

	return *e.Note
}

// CreateParams holds the user-supplied fields of a new expense. ID, CreatedAt and
// the owner are assigned at write time.
type CreateParams struct {
	Amount   decimal.Decimal
	Category Category
	Note     *string
	Date     string
	IsRegret bool
}
