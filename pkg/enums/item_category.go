package enums

// ItemCategory values the categorize insight mode is allowed to return.
// Item.Category itself stays free text; this list only constrains the AI.
type ItemCategory string

const (
	ItemCategoryCannedGoods ItemCategory = "Canned Goods"
	ItemCategorySnacks      ItemCategory = "Snacks"
	ItemCategoryBeverages   ItemCategory = "Beverages"
	ItemCategoryToiletries  ItemCategory = "Toiletries"
	ItemCategoryCondiments  ItemCategory = "Condiments"
	ItemCategoryRice        ItemCategory = "Rice"
	ItemCategoryHousehold   ItemCategory = "Household"
	ItemCategoryOthers      ItemCategory = "Others"
)

// DefaultItemCategory is assigned when a seller leaves category blank.
const DefaultItemCategory = "General"

// ItemCategories returns the fixed label set in prompt order.
func ItemCategories() []ItemCategory {
	return []ItemCategory{
		ItemCategoryCannedGoods,
		ItemCategorySnacks,
		ItemCategoryBeverages,
		ItemCategoryToiletries,
		ItemCategoryCondiments,
		ItemCategoryRice,
		ItemCategoryHousehold,
		ItemCategoryOthers,
	}
}
