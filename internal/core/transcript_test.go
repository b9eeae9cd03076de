package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medai.local/assistant/internal/store"
)

const diagnosisText = "Diagnosis: Positive for Diabetes (Confidence: 80.00%)"

func TestBuildTranscriptAllQuestions(t *testing.T) {
	p := mustPayload(t, `{"gender":"Female","age":50,"pregnancies":6,"glucose":148,"bp":72,"skin":35,"insulin":0,"bmi":33.6,"dpf":0.627}`)

	msgs := BuildTranscript(p, Questions, diagnosisText)
	require.Len(t, msgs, 2+2*9+3)

	assert.Equal(t, store.ChatMessage{Type: store.MessageTypeBot, Content: GreetingMessage}, msgs[0])
	assert.Equal(t, store.ChatMessage{Type: store.MessageTypeBot, Content: DisclaimerMessage}, msgs[1])
	for i, q := range Questions {
		assert.Equal(t, store.ChatMessage{Type: store.MessageTypeBot, Content: q.Text}, msgs[2+2*i])
		assert.Equal(t, store.MessageTypeUser, msgs[3+2*i].Type)
		assert.Equal(t, p.Answer(q.Key), msgs[3+2*i].Content)
	}
	assert.Equal(t, "Female", msgs[3].Content)
	assert.Equal(t, "6", msgs[7].Content)
	assert.Equal(t, AnalyzingMessage, msgs[20].Content)
	assert.Equal(t, diagnosisText, msgs[21].Content)
	assert.Equal(t, ClosingDisclaimer, msgs[22].Content)
}

func TestBuildTranscriptSkipsMissingPregnancies(t *testing.T) {
	p := mustPayload(t, `{"gender":"Male","age":50,"glucose":148,"bp":72,"skin":35,"insulin":0,"bmi":33.6,"dpf":0.627}`)

	msgs := BuildTranscript(p, Questions, diagnosisText)
	require.Len(t, msgs, 21)
	for _, m := range msgs {
		assert.NotEqual(t, "How many times have you been pregnant?", m.Content)
	}
	// age answer is directly followed by the glucose question
	assert.Equal(t, "50", msgs[5].Content)
	assert.Equal(t, Questions[3].Text, msgs[6].Content)
}

func TestBuildTranscriptIsDeterministic(t *testing.T) {
	p := mustPayload(t, `{"dpf":0.627,"bmi":33.6,"age":50,"glucose":148,"bp":72,"skin":35,"insulin":0}`)

	first := BuildTranscript(p, Questions, diagnosisText)
	second := BuildTranscript(p, Questions, diagnosisText)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2+2*7+3)
}
