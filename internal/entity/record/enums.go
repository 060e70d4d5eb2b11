package record

import "strings"

type Category string

const (
	LPG            Category = "LPG"
	Petrol         Category = "Petrol"
	Maintenance    Category = "Maintenance"
	Tools          Category = "Tools"
	Food           Category = "Food"
	Transportation Category = "Transportation"
	Insurance      Category = "Insurance"
	Permits        Category = "Permits"
	Rent           Category = "Rent"
	Utilities      Category = "Utilities"
	Medical        Category = "Medical"
	Education      Category = "Education"
	Entertainment  Category = "Entertainment"
	OtherCategory  Category = "Other"
)

var Categories = []Category{
	LPG, Petrol, Maintenance, Tools, Food, Transportation, Insurance,
	Permits, Rent, Utilities, Medical, Education, Entertainment, OtherCategory,
}

const DefaultCategory = LPG

type EarningType string

const (
	Regular  EarningType = "Regular"
	Bonus    EarningType = "Bonus"
	Tips     EarningType = "Tips"
	Overtime EarningType = "Overtime"
	Advance  EarningType = "Advance"
)

var EarningTypes = []EarningType{Regular, Bonus, Tips, Overtime, Advance}

const DefaultEarningType = Regular

type PaymentMethod string

const (
	UPI          PaymentMethod = "UPI"
	Cash         PaymentMethod = "Cash"
	App          PaymentMethod = "App"
	BankTransfer PaymentMethod = "BankTransfer"
	Card         PaymentMethod = "Card"
	OtherMethod  PaymentMethod = "Other"
)

var PaymentMethods = []PaymentMethod{UPI, Cash, App, BankTransfer, Card, OtherMethod}

const (
	DefaultEarningPayment = UPI
	DefaultExpensePayment = Cash
)

// ParseCategory matches name against the known categories, ignoring case.
func ParseCategory(name string) (Category, bool) {
	return parseEnum(Categories, name)
}

func ParseEarningType(name string) (EarningType, bool) {
	return parseEnum(EarningTypes, name)
}

func ParsePaymentMethod(name string) (PaymentMethod, bool) {
	return parseEnum(PaymentMethods, name)
}

func parseEnum[T ~string](values []T, name string) (T, bool) {
	name = strings.TrimSpace(name)
	for _, v := range values {
		if strings.EqualFold(string(v), name) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Names returns the string form of every value, in declaration order.
func Names[T ~string](values []T) []string {
	res := make([]string, 0, len(values))
	for _, v := range values {
		res = append(res, string(v))
	}
	return res
}
