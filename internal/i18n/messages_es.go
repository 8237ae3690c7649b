package i18n

// loadSpanishMessages loads all Spanish translations.
func loadSpanishMessages() {
	messages[LangES] = map[string]string{
		// Common
		"app.name":        "Nexus Sapiens",
		"app.description": "Tu mentor de IA en la terminal",
		"app.version":     "Nexus Sapiens v%s",

		// Welcome and exit
		"welcome":      "Bienvenido a Nexus Sapiens v%s",
		"welcome.help": "Escribe /help para ver los comandos, Ctrl+D o /exit para salir",
		"goodbye":      "¡Hasta pronto!",

		// Chat
		"chat.prompt":    "Tú> ",
		"chat.cancelled": "(Cancelado)",
		"chat.thinking":  "Pensando...",

		// Errors shown to users. The fallback never echoes provider detail.
		"chat.error.fallback": "Lo siento, ha ocurrido un error. Inténtalo de nuevo.",
		"chat.error.busy":     "Espera a que termine la respuesta actual.",
		"chat.error.apikey":   "Falta la clave de API. Configura NEXUS_GEMINI_API_KEY.",

		// Agent greetings
		"agent.stratego.greeting": "Hola, soy Stratego. ¿Qué objetivo quieres planificar hoy?",
		"agent.mentor.greeting":   "Hola, soy tu mentora. ¿Qué necesitas aprender?",
		"agent.forge.greeting":    "Hola, soy Forge. Dame un problema técnico y lo desarmamos juntos.",
		"agent.sabio.greeting":    "Hola, soy Sabio. Pregunta lo que quieras, sin prisa.",
		"agent.chispa.greeting":   "¡Hola! Soy Chispa. ¿Exploramos una idea nueva?",

		// Learning
		"learn.challenge.done":   "Reto completado: %s",
		"learn.skill.locked":     "Habilidad bloqueada: completa primero %s",
		"learn.skill.unlocked":   "Habilidad desbloqueada: %s",
		"learn.rank.current":     "Rango actual: %s (%d retos completados)",
		"learn.course.imported":  "Curso importado: %s (%d lecciones)",
		"learn.progress.title":   "Tu progreso:",
		"learn.challenges.title": "Retos disponibles:",
		"learn.course.part":      "Parte %d",

		// Speech
		"speech.enabled":  "Lectura en voz alta activada",
		"speech.disabled": "Lectura en voz alta desactivada",

		// Errors (CLI surface)
		"error.config": "Error al cargar la configuración: %v",
		"error.agent":  "Agente desconocido: %s",
		"error.input":  "Error al leer la entrada: %v",

		// Language
		"lang.changed":     "Idioma cambiado a: %s",
		"lang.unsupported": "Idioma no soportado: %s",
		"lang.available":   "Idiomas disponibles: %s",
	}
}
