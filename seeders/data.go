package seeders

type ingredientSeed struct {
	Name       string
	QuantityMg float64
}

type shiftSeed struct {
	WorkDate  string
	StartTime string
	EndTime   string
	Headcount int
}

type orderSeed struct {
	Name           string
	CustomerName   string
	CapsuleCount   int
	CompletionDate string
	Ingredients    []ingredientSeed
	Shifts         []shiftSeed
}

// demoOrdersData покрывает все три статуса: без смен, со сменами и завершенные.
var demoOrdersData = []orderSeed{
	{
		Name:         "Витамин D3 2000 МЕ",
		CustomerName: "Аптека Здоровье",
		CapsuleCount: 60000,
		Ingredients: []ingredientSeed{
			{Name: "Холекальциферол", QuantityMg: 0.05},
			{Name: "Масло MCT", QuantityMg: 250},
		},
		Shifts: []shiftSeed{
			{WorkDate: "2025-01-06", StartTime: "09:00", EndTime: "17:00", Headcount: 3},
			{WorkDate: "2025-01-07", StartTime: "09:00", EndTime: "12:00", Headcount: 2},
		},
	},
	{
		Name:           "Омега-3 1000 мг",
		CustomerName:   "NutriLab",
		CapsuleCount:   120000,
		CompletionDate: "2025-01-10",
		Ingredients: []ingredientSeed{
			{Name: "Рыбий жир", QuantityMg: 1000},
			{Name: "Токоферол", QuantityMg: 5},
		},
		Shifts: []shiftSeed{
			{WorkDate: "2025-01-02", StartTime: "08:30", EndTime: "18:00", Headcount: 4},
			{WorkDate: "2025-01-03", StartTime: "08:30", EndTime: "18:00", Headcount: 4},
			{WorkDate: "2025-01-08", StartTime: "13:00", EndTime: "16:10", Headcount: 2},
		},
	},
	{
		Name:         "Магний B6",
		CustomerName: "Аптека Здоровье",
		CapsuleCount: 30000,
		Ingredients: []ingredientSeed{
			{Name: "Магния цитрат", QuantityMg: 400},
			{Name: "Пиридоксин", QuantityMg: 10},
		},
	},
	{
		Name:         "Коэнзим Q10",
		CustomerName: "BioForm",
		CapsuleCount: 45000,
		Ingredients: []ingredientSeed{
			{Name: "Убихинон", QuantityMg: 100},
		},
	},
	{
		Name:           "Цинк + C",
		CustomerName:   "NutriLab",
		CapsuleCount:   80000,
		CompletionDate: "2024-12-20",
		Ingredients: []ingredientSeed{
			{Name: "Цинка пиколинат", QuantityMg: 25},
			{Name: "Аскорбиновая кислота", QuantityMg: 250},
		},
		Shifts: []shiftSeed{
			{WorkDate: "2024-12-18", StartTime: "10:00", EndTime: "14:00", Headcount: 5},
		},
	},
}
