package recipe

// QuickVariant 快速版本
func QuickVariant(base Recipe) Recipe {
	v := base.Clone()
	v.Name = "Quick " + base.Name
	v.CookingTime = "15 minutes"
	v.Difficulty = "Easy"
	v.Tags = append(v.Tags, "Quick", "Under 30 Minutes")
	return v
}

// DeluxeVariant 豪華版本
func DeluxeVariant(base Recipe) Recipe {
	v := base.Clone()
	v.Name = "Deluxe " + base.Name
	v.CookingTime = "45 minutes"
	v.Difficulty = "Medium"
	v.Tags = append(v.Tags, "Gourmet", "Special Occasion")
	return v
}
