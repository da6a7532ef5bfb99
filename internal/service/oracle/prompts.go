package oracle

// Instructions and inputs for each oracle operation. Templates use eino's
// FString syntax, so literal braces must not appear outside placeholders.

const personalitySystemPrompt = "You are an expert in human behavior."

const personalityUserPrompt = "Generate a one-paragraph personality description for a person " +
	"calling a suicide hotline. Include their background, age, " +
	"emotional state, and reasons they might be feeling distressed."

const openingSystemPrompt = "You are a suicidal hotline caller. Here is your personality: {personality}. " +
	"Begin the conversation by expressing your feelings and asking for help."

const replySystemPrompt = "You are a suicidal hotline caller. Here is your personality: {personality}. " +
	"Given the conversation so far below and the counselor's latest message, respond as the caller in character."

const assessSystemPrompt = "You are a mental health assessor. You will be given a conversation between a caller and a counselor in the input. " +
	"Rate the caller's current mental health on a scale of 1 to 10, where 1 is very low and 10 is perfectly healthy. Respond with only the integer."

// assessWindow is how many trailing history entries the assessor sees.
const assessWindow = 3
