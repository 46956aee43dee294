package models

type Category struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	SubCategories []string `json:"subCategories"`
}

// Categories drives every category page of the storefront.
var Categories = []Category{
	{Name: "Dog Supplies", Slug: "dog-supplies", SubCategories: []string{"Dog Food", "Dog Toys", "Dog Grooming", "Dog Beds and Accessories"}},
	{Name: "Cat Supplies", Slug: "cat-supplies", SubCategories: []string{"Cat Food", "Cat Toys", "Cat Grooming", "Cat Beds and Accessories"}},
	{Name: "Bird Supplies", Slug: "bird-supplies", SubCategories: []string{"Bird Cages", "Bird Food", "Bird Toys", "Bird Accessories"}},
	{Name: "Fish Supplies", Slug: "fish-supplies", SubCategories: []string{"Fish Food", "Fish Tanks"}},
	{Name: "Reptile Supplies", Slug: "reptile-supplies", SubCategories: []string{"Reptile Food", "Reptile Habitats"}},
	{Name: "Small Animals", Slug: "small-pet-supplies", SubCategories: []string{"Small Animal Food", "Small Animal Beds"}},
}

// CategoryBySlug returns the entry for a page slug.
func CategoryBySlug(slug string) (Category, bool) {
	for _, c := range Categories {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}
