package chatbot

// ChatModels lists the chat models this assistant knows how to drive, keyed
// by model id with a short description for UI listings.
func ChatModels() map[string]string {
	return map[string]string{
		"gemini-2.5-flash":      "Latest fast and versatile model.",
		"gemini-2.5-flash-lite": "A lighter, faster version of Gemini 2.5 Flash for quicker responses.",
		"gemini-2.5-pro":        "Latest most capable model for complex reasoning and understanding.",
	}
}

// EmbeddingModels lists the embedding models available to the knowledge index.
func EmbeddingModels() map[string]string {
	return map[string]string{
		"models/embedding-001":      "Google's default embedding model.",
		"models/text-embedding-004": "Google's latest, optimized embedding model.",
	}
}
