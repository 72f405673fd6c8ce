package lib

import "fmt"

// FormatRupees renders an amount in paise: 25000 -> "₹250", 9950 -> "₹99.50".
func FormatRupees(paise int64) string {
	return "₹" + FormatAmount(paise)
}

// FormatAmount renders paise as a rupee amount without the symbol.
func FormatAmount(paise int64) string {
	sign := ""
	if paise < 0 {
		sign = "-"
		paise = -paise
	}
	if paise%100 == 0 {
		return fmt.Sprintf("%s%d", sign, paise/100)
	}
	return fmt.Sprintf("%s%d.%02d", sign, paise/100, paise%100)
}
