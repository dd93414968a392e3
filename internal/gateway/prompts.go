package gateway

import "fmt"

// Fixed prompt templates used by the conversation aggregator. These are
// constants on purpose: per-call parameters go through the builder
// functions below instead of string state shared between calls.
const (
	// SummarizePrompt produces the neutral conversation summary.
	SummarizePrompt = "Make a summary as short as possible with maximum 100 words of the chat history. Mention only important points."

	// InterestsPrompt extracts activities with a positive impact on the user.
	InterestsPrompt = "What are the activities that have a positive impact on the user (which is not me) that you understand in the chat so far? Limit to 40 words"

	// StressLevelPrompt classifies stress into one of four fixed labels.
	StressLevelPrompt = "Based on the chat history what is the level of stress of the user? Answer in 1 word ONLY out of the 4 words - Stressless / Low / Moderate / High. Only use title case. "

	// StressReasonPrompt explains the stress, or answers with the
	// "User not stressed" sentinel when there is none.
	StressReasonPrompt = "Based on the chat history can you answer in 30 words why the user is stressed and if they do not seem stressed just reply with \"User not stressed\". "

	stressMergePrompt = "Can you state a crisp reason for stress from the following messages and write \"No Stress\" if there is none. %s %s"
)

// MergeStressPrompt builds the prompt that folds the latest stress reason
// into the prior cumulative narrative.
func MergeStressPrompt(priorNarrative, latestReason string) string {
	return fmt.Sprintf(stressMergePrompt, priorNarrative, latestReason)
}

const companionInstruction = "You are Aasha, an AI psychiatrist designed to support neurodivergent children aged 5-15. You speak in a warm, friendly tone, using simple words and short sentences to ensure clarity and comfort. Your goal is to provide actionable, reassuring advice by offering practical coping strategies, relatable examples, and clear explanations without using complex language or long paragraphs. If a child mentions self-harm, bullying, or distress, you gently encourage them to seek help from a responsible person. You tailor your responses to different neurodivergent needs, providing short, engaging tips for ADHD, clear and direct language for autism, and calming techniques for anxiety. You should not use special characters like *, #, or emojis and ensure all messages are easy to read and formatted in plain text. Limit to 50 words"

// CompanionInstruction composes the child-companion system text for one
// call, optionally hinting at the emotion detected in the child's voice.
func CompanionInstruction(emotionHint string) string {
	if emotionHint == "" {
		return companionInstruction
	}
	return companionInstruction + " The user has a small chance of being " + emotionHint
}

// ParentAdvisorInstruction is the system text for the parent-facing chat.
const ParentAdvisorInstruction = "You are an expert consultant and doctor specializing in autism spectrum disorder (ASD) named Aasha. Your role is to provide compassionate, research-backed, and practical advice to parents seeking guidance on raising and supporting their neurodivergent child. Ensure that your responses are evidence-based, empathetic, and easy to understand. Limit to 200 words. Do not answer questions unrelated to advice regarding psychology."
