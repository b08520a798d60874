package catalog

// staticBooks is the bundled fallback catalog, served when the backend is
// unreachable so the shop stays browsable offline.
var staticBooks = []Book{
	{
		ID:          "1",
		Title:       "The Pragmatic Programmer",
		Author:      "Andrew Hunt, David Thomas",
		Price:       599,
		Category:    "Technology",
		Stock:       12,
		Description: "Your journey to mastery, 20th anniversary edition.",
	},
	{
		ID:          "2",
		Title:       "Clean Code",
		Author:      "Robert C. Martin",
		Price:       499,
		Category:    "Technology",
		Stock:       8,
		Description: "A handbook of agile software craftsmanship.",
	},
	{
		ID:          "3",
		Title:       "The Alchemist",
		Author:      "Paulo Coelho",
		Price:       299,
		Category:    "Fiction",
		Stock:       20,
		Description: "A fable about following your dream.",
	},
	{
		ID:          "4",
		Title:       "Sapiens",
		Author:      "Yuval Noah Harari",
		Price:       450,
		Category:    "History",
		Stock:       15,
		Description: "A brief history of humankind.",
	},
	{
		ID:          "5",
		Title:       "Atomic Habits",
		Author:      "James Clear",
		Price:       350,
		Category:    "Self-Help",
		Stock:       25,
		Description: "Tiny changes, remarkable results.",
	},
	{
		ID:          "6",
		Title:       "The Midnight Library",
		Author:      "Matt Haig",
		Price:       320,
		Category:    "Fiction",
		Stock:       10,
		Description: "Between life and death there is a library.",
	},
	{
		ID:          "7",
		Title:       "Thinking, Fast and Slow",
		Author:      "Daniel Kahneman",
		Price:       525,
		Category:    "Psychology",
		Stock:       6,
		Description: "The two systems that drive the way we think.",
	},
	{
		ID:          "8",
		Title:       "A Brief History of Time",
		Author:      "Stephen Hawking",
		Price:       399,
		Category:    "Science",
		Stock:       9,
		Description: "From the Big Bang to black holes.",
	},
}

// StaticBooks returns a copy of the bundled catalog.
func StaticBooks() []Book {
	out := make([]Book, len(staticBooks))
	copy(out, staticBooks)
	return out
}
