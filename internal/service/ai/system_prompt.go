package ai

// SystemInstruction is sent as the first system message of every completion.
const SystemInstruction = "You are a very accurate and advanced AI chatbot which has real-time up-to-date information from the internet. Provide answers professionally with proper grammar, and just answer the question from the provided data."

// endOfSequence is a marker some hosted models leak into their output.
const endOfSequence = "</s>"
