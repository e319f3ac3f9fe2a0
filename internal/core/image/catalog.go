package image

import "strings"

// DefaultImage 最後的保底圖片
const DefaultImage = "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=800&h=600&fit=crop"

func photo(id string) string {
	return "https://images.unsplash.com/photo-" + id + "?w=800&h=600&fit=crop"
}

var (
	photoSalad     = photo("1546069901-ba9599a7e63c")
	photoGrill     = photo("1555939594-58d7cb561ad1")
	photoBowl      = photo("1540189549336-e6e99c3679fe")
	photoPizza     = photo("1565299624946-b28f40a0ae38")
	photoDessert   = photo("1565958011703-44f9829ba187")
	photoBreakfast = photo("1482049016688-2d3e1b311543")
	photoPancake   = photo("1484723091739-30a097e8f929")
	photoSalmon    = photo("1467003909585-2f8a72700288")
	photoSoup      = photo("1485921325833-c519f76c4927")
	photoPasta     = photo("1473093295043-cdd812d0e601")
)

// genericPool 通用食物圖片池
var genericPool = []string{
	photoSalad,
	photoGrill,
	photoBowl,
	photoPizza,
	photoDessert,
	photoBreakfast,
	photoPancake,
	photoSalmon,
	photoSoup,
	photoPasta,
}

// categoryImages 關鍵字對應的固定圖片
var categoryImages = map[string]string{
	"pasta":     photoPasta,
	"spaghetti": photoPasta,
	"noodle":    photoPasta,
	"lasagna":   photoPasta,
	"pizza":     photoPizza,
	"salad":     photoSalad,
	"vegan":     photoBowl,
	"bowl":      photoBowl,
	"curry":     photoBowl,
	"rice":      photoBowl,
	"vegetable": photoBowl,
	"chicken":   photoGrill,
	"beef":      photoGrill,
	"pork":      photoGrill,
	"steak":     photoGrill,
	"bbq":       photoGrill,
	"kebab":     photoGrill,
	"taco":      photoGrill,
	"burger":    photoGrill,
	"fish":      photoSalmon,
	"salmon":    photoSalmon,
	"shrimp":    photoSalmon,
	"seafood":   photoSalmon,
	"sushi":     photoSalmon,
	"soup":      photoSoup,
	"stew":      photoSoup,
	"chili":     photoSoup,
	"ramen":     photoSoup,
	"cake":      photoDessert,
	"dessert":   photoDessert,
	"cookie":    photoDessert,
	"pie":       photoDessert,
	"chocolate": photoDessert,
	"breakfast": photoBreakfast,
	"egg":       photoBreakfast,
	"toast":     photoBreakfast,
	"sandwich":  photoBreakfast,
	"pancake":   photoPancake,
	"waffle":    photoPancake,
}

// vocabulary 可辨識的料理詞彙，包含分類表以外的字
var vocabulary = func() map[string]bool {
	words := map[string]bool{
		"tofu": true, "lentil": true, "bean": true, "mushroom": true,
		"potato": true, "tomato": true, "avocado": true, "quinoa": true,
		"lamb": true, "turkey": true, "duck": true, "tuna": true,
		"risotto": true, "paella": true, "burrito": true, "enchilada": true,
		"omelette": true, "smoothie": true, "muffin": true, "bread": true,
		"stir": true, "fry": true, "roast": true, "grilled": true,
		"italian": true, "mexican": true, "thai": true, "indian": true,
		"japanese": true, "chinese": true, "mediterranean": true, "french": true,
	}
	for k := range categoryImages {
		words[k] = true
	}
	return words
}()

var stopWords = map[string]bool{
	"with":   true,
	"and":    true,
	"the":    true,
	"for":    true,
	"from":   true,
	"recipe": true,
}

// normalizeWord 將複數形式對應回詞彙
func normalizeWord(w string) (string, bool) {
	if vocabulary[w] {
		return w, true
	}
	for _, suffix := range []string{"es", "s"} {
		if base := strings.TrimSuffix(w, suffix); base != w && vocabulary[base] {
			return base, true
		}
	}
	return w, false
}
