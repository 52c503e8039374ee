// internal/translation/dictionaries.go
package translation

// Term dictionaries per target language. Substitution is case-insensitive
// on word boundaries, longest term first, so "saturated fat" wins over
// "fat".
var dictionaries = map[string]map[string]string{
	"pt": {
		"contains":      "Contém",
		"ingredients":   "Ingredientes",
		"allergens":     "Alergênicos",
		"warning":       "Aviso",
		"may contain":   "Pode conter",
		"water":         "Água",
		"sugar":         "Açúcar",
		"salt":          "Sal",
		"milk":          "Leite",
		"whole milk":    "Leite integral",
		"eggs":          "Ovos",
		"egg":           "Ovo",
		"wheat":         "Trigo",
		"wheat flour":   "Farinha de trigo",
		"gluten":        "Glúten",
		"soy":           "Soja",
		"peanuts":       "Amendoim",
		"tree nuts":     "Nozes",
		"fish":          "Peixe",
		"shellfish":     "Crustáceos",
		"apple juice":   "Suco de maçã",
		"orange juice":  "Suco de laranja",
		"cocoa":         "Cacau",
		"chocolate":     "Chocolate",
		"vegetable oil": "Óleo vegetal",
		"energy":        "Valor energético",
		"fat":           "Gorduras totais",
		"saturated fat": "Gorduras saturadas",
		"carbohydrates": "Carboidratos",
		"sugars":        "Açúcares",
		"protein":       "Proteínas",
		"keep refrigerated": "Manter refrigerado",
		"best before":       "Consumir antes de",
		"not suitable for":  "Não recomendado para",
	},
	"zh": {
		"contains":      "含有",
		"ingredients":   "配料",
		"allergens":     "过敏原",
		"warning":       "警告",
		"may contain":   "可能含有",
		"water":         "水",
		"sugar":         "糖",
		"salt":          "食盐",
		"milk":          "牛奶",
		"eggs":          "鸡蛋",
		"egg":           "鸡蛋",
		"wheat":         "小麦",
		"wheat flour":   "小麦粉",
		"gluten":        "麸质",
		"soy":           "大豆",
		"peanuts":       "花生",
		"tree nuts":     "坚果",
		"fish":          "鱼",
		"shellfish":     "贝类",
		"apple juice":   "苹果汁",
		"cocoa":         "可可",
		"energy":        "能量",
		"fat":           "脂肪",
		"saturated fat": "饱和脂肪",
		"carbohydrates": "碳水化合物",
		"sugars":        "糖",
		"protein":       "蛋白质",
	},
	"ja": {
		"contains":      "含む",
		"ingredients":   "原材料",
		"allergens":     "アレルギー物質",
		"warning":       "警告",
		"may contain":   "含む可能性があります",
		"water":         "水",
		"sugar":         "砂糖",
		"salt":          "食塩",
		"milk":          "乳",
		"eggs":          "卵",
		"egg":           "卵",
		"wheat":         "小麦",
		"wheat flour":   "小麦粉",
		"gluten":        "グルテン",
		"soy":           "大豆",
		"peanuts":       "落花生",
		"tree nuts":     "ナッツ類",
		"fish":          "魚",
		"shellfish":     "甲殻類",
		"apple juice":   "りんご果汁",
		"cocoa":         "カカオ",
		"energy":        "エネルギー",
		"fat":           "脂質",
		"saturated fat": "飽和脂肪酸",
		"carbohydrates": "炭水化物",
		"sugars":        "糖類",
		"protein":       "たんぱく質",
	},
}
