package agents

// Starter is a suggested opening prompt shown by chat clients
type Starter struct {
	Label   string `json:"label"`
	Message string `json:"message"`
}

// DefaultStarters covers one question per source plus a cross-source digest
var DefaultStarters = []Starter{
	{
		Label:   "Today's AI digest",
		Message: "Give me a short digest of what is new in AI today across Hugging Face papers, trending Spaces, Hacker News and arXiv.",
	},
	{
		Label:   "Trending papers",
		Message: "What are the most upvoted papers on Hugging Face today? Summarize the top five in one sentence each.",
	},
	{
		Label:   "Demos to try",
		Message: "Which Hugging Face Spaces are trending right now, and what do they let me do?",
	},
	{
		Label:   "Hacker News pulse",
		Message: "What AI stories are people discussing on Hacker News right now?",
	},
	{
		Label:   "Latest on agents",
		Message: "Find the latest arXiv papers about LLM agents and explain the main ideas.",
	},
}
