package core

import "medai.local/assistant/internal/store"

// BuildTranscript replays the intake conversation for a payload. Questions
// whose key was not submitted are skipped together with their answer.
func BuildTranscript(p *Payload, questions []Question, diagnosisText string) []store.ChatMessage {
	messages := make([]store.ChatMessage, 0, 5+2*len(questions))
	bot := func(content string) {
		messages = append(messages, store.ChatMessage{Type: store.MessageTypeBot, Content: content})
	}

	bot(GreetingMessage)
	bot(DisclaimerMessage)
	for _, q := range questions {
		if !p.Has(q.Key) {
			continue
		}
		bot(q.Text)
		messages = append(messages, store.ChatMessage{Type: store.MessageTypeUser, Content: p.Answer(q.Key)})
	}
	bot(AnalyzingMessage)
	bot(diagnosisText)
	bot(ClosingDisclaimer)
	return messages
}
