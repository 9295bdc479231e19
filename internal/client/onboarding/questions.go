package onboarding

// Option is one selectable questionnaire answer.
type Option struct {
	Key   string
	Label string
}

// StartOption is a where-do-we-start choice with explanatory copy.
type StartOption struct {
	Key         string
	Title       string
	Description string
}

// Questionnaire answer banks. Keys are the wire values the backend expects.
var (
	Reasons = []Option{
		{Key: "exercise_mind", Label: "Exercise my mind"},
		{Key: "travel", Label: "Prepare for travel"},
		{Key: "career", Label: "Boost my professional career"},
		{Key: "fun", Label: "For fun"},
		{Key: "studies", Label: "Enhance studies"},
		{Key: "connect", Label: "Connect with people"},
		{Key: "other", Label: "Other (write your answer)"},
	}

	DailyGoals = []Option{
		{Key: "15", Label: "15 minutes per day"},
		{Key: "30", Label: "30 minutes per day"},
		{Key: "60", Label: "1 hour per day"},
	}

	KnowledgeLevels = []Option{
		{Key: "starting", Label: "I am just starting to learn"},
		{Key: "common_words", Label: "I know some common words"},
		{Key: "simple_conversations", Label: "I can have simple conversations"},
		{Key: "several_topics", Label: "I can converse on several topics"},
		{Key: "debate", Label: "I can debate in detail on most topics"},
	}

	StartPreferences = []StartOption{
		{
			Key:         "beginning",
			Title:       "Recommended: From the beginning",
			Description: "Complete the easiest lesson to avoid doubts at more advanced levels.",
		},
		{
			Key:         "discover",
			Title:       "Discover my level",
			Description: "Daily Spanish will recommend where to start based on test results.",
		},
	}
)

// TestQuestion is one placement test question.
type TestQuestion struct {
	ID      string
	Title   string
	Options []Option
}

// PlacementQuestions is the short level test. Every question must be
// answered before submission.
var PlacementQuestions = []TestQuestion{
	{
		ID:    "q1",
		Title: "Choose the correct form: Yo ___ estudiante.",
		Options: []Option{
			{Key: "soy", Label: "soy"},
			{Key: "eres", Label: "eres"},
			{Key: "es", Label: "es"},
			{Key: "somos", Label: "somos"},
		},
	},
	{
		ID:    "q2",
		Title: "Choose the correct verb: Yo ___ 25 años.",
		Options: []Option{
			{Key: "tengo", Label: "tengo"},
			{Key: "soy", Label: "soy"},
			{Key: "hago", Label: "hago"},
			{Key: "estoy", Label: "estoy"},
		},
	},
	{
		ID:    "q3",
		Title: "Choose the correct preposition: Vivo ___ Madrid.",
		Options: []Option{
			{Key: "en", Label: "en"},
			{Key: "a", Label: "a"},
			{Key: "de", Label: "de"},
			{Key: "con", Label: "con"},
		},
	},
	{
		ID:    "q4",
		Title: "Choose the correct verb: Yo ___ aprender español.",
		Options: []Option{
			{Key: "quiero", Label: "quiero"},
			{Key: "quieres", Label: "quieres"},
			{Key: "quiere", Label: "quiere"},
			{Key: "queremos", Label: "queremos"},
		},
	},
	{
		ID:    "q5",
		Title: "Choose the correct past tense: Ayer yo ___ al museo.",
		Options: []Option{
			{Key: "fui", Label: "fui"},
			{Key: "voy", Label: "voy"},
			{Key: "iba", Label: "iba"},
			{Key: "he ido", Label: "he ido"},
		},
	},
	{
		ID:    "q6",
		Title: "Choose the correct form: Ahora ___ en casa.",
		Options: []Option{
			{Key: "estoy", Label: "estoy"},
			{Key: "soy", Label: "soy"},
			{Key: "fui", Label: "fui"},
			{Key: "seré", Label: "seré"},
		},
	},
	{
		ID:    "q7",
		Title: "Choose the correct conjugation: Nosotros ___ español.",
		Options: []Option{
			{Key: "hablamos", Label: "hablamos"},
			{Key: "hablo", Label: "hablo"},
			{Key: "hablas", Label: "hablas"},
			{Key: "hablan", Label: "hablan"},
		},
	},
	{
		ID:    "q8",
		Title: "Choose the infinitive: Voy a ___ un café.",
		Options: []Option{
			{Key: "comprar", Label: "comprar"},
			{Key: "compro", Label: "compro"},
			{Key: "compré", Label: "compré"},
			{Key: "comprando", Label: "comprando"},
		},
	},
	{
		ID:    "q9",
		Title: "Choose the correct connector: No voy ___ estoy cansado.",
		Options: []Option{
			{Key: "porque", Label: "porque"},
			{Key: "pero", Label: "pero"},
			{Key: "aunque", Label: "aunque"},
			{Key: "si", Label: "si"},
		},
	},
	{
		ID:    "q10",
		Title: "Choose the correct word: ___ tengo clase.",
		Options: []Option{
			{Key: "mañana", Label: "mañana"},
			{Key: "ayer", Label: "ayer"},
			{Key: "noche", Label: "noche"},
			{Key: "tarde", Label: "tarde"},
		},
	},
}
