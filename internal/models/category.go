package models

// Category is the tier a star reaches by accumulated XP.
type Category string

const (
	CategoryUnawakened  Category = "Unawakened"
	CategoryTemptress   Category = "Temptress"
	CategoryEnchantress Category = "Enchantress"
	CategoryGoddess     Category = "Goddess"
)

func CategoryOf(xp int) Category {
	switch {
	case xp >= 101:
		return CategoryGoddess
	case xp >= 11:
		return CategoryEnchantress
	case xp >= 1:
		return CategoryTemptress
	default:
		return CategoryUnawakened
	}
}
