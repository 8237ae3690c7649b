package i18n

// loadEnglishMessages loads all English translations.
func loadEnglishMessages() {
	messages[LangEN] = map[string]string{
		// Common
		"app.name":        "Nexus Sapiens",
		"app.description": "Your terminal AI mentor",
		"app.version":     "Nexus Sapiens v%s",

		// Welcome and exit
		"welcome":      "Welcome to Nexus Sapiens v%s",
		"welcome.help": "Type /help for commands, Ctrl+D or /exit to quit",
		"goodbye":      "Goodbye!",

		// Chat
		"chat.prompt":    "You> ",
		"chat.cancelled": "(Cancelled)",
		"chat.thinking":  "Thinking...",

		// Errors shown to users. The fallback never echoes provider detail.
		"chat.error.fallback": "Sorry, something went wrong. Please try again.",
		"chat.error.busy":     "Wait for the current response to finish.",
		"chat.error.apikey":   "API key missing. Set NEXUS_GEMINI_API_KEY.",

		// Agent greetings
		"agent.stratego.greeting": "Hi, I'm Stratego. What goal shall we plan today?",
		"agent.mentor.greeting":   "Hi, I'm your mentor. What do you need to learn?",
		"agent.forge.greeting":    "Hi, I'm Forge. Give me a technical problem and we'll take it apart.",
		"agent.sabio.greeting":    "Hi, I'm Sabio. Ask me anything, no rush.",
		"agent.chispa.greeting":   "Hey! I'm Chispa. Shall we explore a new idea?",

		// Learning
		"learn.challenge.done":   "Challenge completed: %s",
		"learn.skill.locked":     "Skill locked: complete %s first",
		"learn.skill.unlocked":   "Skill unlocked: %s",
		"learn.rank.current":     "Current rank: %s (%d challenges completed)",
		"learn.course.imported":  "Course imported: %s (%d lessons)",
		"learn.progress.title":   "Your progress:",
		"learn.challenges.title": "Available challenges:",
		"learn.course.part":      "Part %d",

		// Speech
		"speech.enabled":  "Read-aloud enabled",
		"speech.disabled": "Read-aloud disabled",

		// Errors (CLI surface)
		"error.config": "Error loading config: %v",
		"error.agent":  "Unknown agent: %s",
		"error.input":  "Error reading input: %v",

		// Language
		"lang.changed":     "Language changed to: %s",
		"lang.unsupported": "Unsupported language: %s",
		"lang.available":   "Available languages: %s",
	}
}
