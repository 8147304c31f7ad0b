// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt builds the natural-language prompts sent to the model.
// Every builder is a pure function of its inputs; none of them calls the
// model or touches the filesystem.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/persona-engine/pkg/types"
)

// discoveryTmpl instructs the model to identify distinct client types from
// the knowledge base and agent persona, returned as a JSON array.
var discoveryTmpl = template.Must(template.New("discovery").Parse(`Based on the following knowledge base and agent persona information, identify exactly {{.Count}} distinct client types that would use these financial services. For each client type, provide:
1. A short identifier (2-3 words with underscores, e.g. "rookie_trader")
2. A detailed description of this client type (150-200 words)

Knowledge Base:
{{.KnowledgeBase}}

Agent Persona:
{{.AgentPersona}}

Return your answer in valid JSON format with an array of exactly {{.Count}} objects containing "client_type" and "description" fields:
[
    {
        "client_type": "client_type_identifier",
        "description": "Detailed description of this client type"
    },
    ...
]
Do not include any text outside the JSON array.
`))

// questionsTmpl instructs the model to generate realistic client questions
// for one persona, returned as a JSON array of question/context objects.
var questionsTmpl = template.Must(template.New("questions").Parse(`You are a financial services analyst creating questions that a {{.Description}} client might ask.

Knowledge Base:
{{.KnowledgeBase}}

Agent Persona:
{{.AgentPersona}}

Please generate exactly {{.Count}} realistic questions that this client type might ask about the financial services described in the knowledge base. Each question must end with a question mark. For each question, provide relevant context (2-3 sentences) that would help an agent prepare a response.

Return the questions in JSON format:
[
    {
        "question": "question text here",
        "context": "relevant context here that would help prepare a response"
    },
    ...
]

Each question should be specific and realistic. The context should provide relevant background information. Do not include any text outside the JSON array.
`))

// answerTmpl instructs the model to answer one client question grounded in
// the knowledge base, returned as a single JSON object.
var answerTmpl = template.Must(template.New("answer").Parse(`You are a financial services sales assistant responding to a client question.
Use the knowledge base to provide accurate information and follow the agent persona for tone and style. Tailor your response to the specific client type.

Knowledge Base:
{{.KnowledgeBase}}

Agent Persona:
{{.AgentPersona}}

Client Type:
{{.Description}}

Question:
{{.Question}}

Provide a detailed, helpful response and list 3-5 key points covered in your response.
Format your response as valid JSON with:
{"response": "Your detailed response", "key_points": ["point 1", "point 2", ...]}
Do not include any text outside the JSON object.
`))

// clientAnalysisTmpl asks the model to score one persona's description,
// questions, and responses, returned as a single JSON object.
var clientAnalysisTmpl = template.Must(template.New("clientAnalysis").Parse(`You are an expert financial services analyst tasked with evaluating the quality of AI-generated client personas, questions, and responses for a BFSI (Banking, Financial Services, and Insurance) sales chatbot.

Analyze the following client type, description, and question-answer samples. Provide an in-depth assessment of their quality, relevance, and effectiveness for a sales context.

Client Type: {{.ClientType}}

Description:
{{.Description}}

Sample Questions and Responses:
{{.Samples}}

Your analysis should include:
1. Evaluation of the client type description (quality rating 1-10, detailed feedback)
2. Evaluation of the questions (quality rating 1-10, detailed feedback)
3. Evaluation of the responses (quality rating 1-10, detailed feedback)
4. Specific suggestions for improvement

Focus on assessing:
- Relevance to financial services sales
- Accuracy and depth of financial knowledge
- Appropriateness for the client type
- Natural language quality
- Sales effectiveness
- Potential issues or concerns

Format your response as a valid JSON object with the following structure:
{
    "description_quality": <rating 1-10>,
    "description_feedback": "<detailed feedback>",
    "question_quality": <rating 1-10>,
    "question_feedback": "<detailed feedback>",
    "response_quality": <rating 1-10>,
    "response_feedback": "<detailed feedback>",
    "improvement_suggestions": ["suggestion1", "suggestion2", ...]
}
Do not include any text outside the JSON object.
`))

// overallAnalysisTmpl asks the model to roll the per-persona analyses up
// into one assessment of the whole prompt set.
var overallAnalysisTmpl = template.Must(template.New("overallAnalysis").Parse(`You are an expert financial services analyst tasked with providing an overall assessment of a set of AI-generated BFSI (Banking, Financial Services, and Insurance) sales chatbot prompts.

Analyze the following individual client type analyses and create a comprehensive overall assessment of the entire prompt set.

Owner: {{.Owner}}

Individual Client Type Analyses:
{{.Analyses}}

Your overall analysis should include:
1. An overall quality rating (1-10)
2. Major strengths across the entire prompt set
3. Major weaknesses or areas for improvement
4. Strategic improvement suggestions
5. A brief executive summary (1-2 paragraphs)

Format your response as a valid JSON object with the following structure:
{
    "overall_quality": <rating 1-10>,
    "strengths": ["strength1", "strength2", ...],
    "weaknesses": ["weakness1", "weakness2", ...],
    "improvement_suggestions": ["suggestion1", "suggestion2", ...],
    "summary": "<executive summary>"
}
Do not include any text outside the JSON object.
`))

// DiscoverPersonas builds the persona-discovery prompt requesting exactly
// count client types.
func DiscoverPersonas(knowledgeBase, agentPersona string, count int) (string, error) {
	return render(discoveryTmpl, struct {
		KnowledgeBase, AgentPersona string
		Count                       int
	}{knowledgeBase, agentPersona, count})
}

// GenerateQuestions builds the question-generation prompt for one persona
// requesting exactly count questions.
func GenerateQuestions(knowledgeBase, agentPersona string, persona types.Persona, count int) (string, error) {
	return render(questionsTmpl, struct {
		KnowledgeBase, AgentPersona, Description string
		Count                                    int
	}{knowledgeBase, agentPersona, persona.Description, count})
}

// GenerateAnswer builds the answer-generation prompt for one question.
func GenerateAnswer(knowledgeBase, agentPersona string, persona types.Persona, question string) (string, error) {
	return render(answerTmpl, struct {
		KnowledgeBase, AgentPersona, Description, Question string
	}{knowledgeBase, agentPersona, persona.Description, question})
}

// AnalyzeClientType builds the per-persona analysis prompt over a sample of
// question/answer pairs.
func AnalyzeClientType(persona types.Persona, questions []types.Question, answers []types.Answer) (string, error) {
	return render(clientAnalysisTmpl, struct {
		ClientType, Description, Samples string
	}{persona.ID, persona.Description, formatSamples(questions, answers)})
}

// AnalyzeOverall builds the rollup analysis prompt from the per-persona
// analyses.
func AnalyzeOverall(owner string, analyses []types.ClientTypeAnalysis) (string, error) {
	return render(overallAnalysisTmpl, struct {
		Owner, Analyses string
	}{owner, formatAnalyses(analyses)})
}

// formatSamples renders question/answer pairs as numbered examples.
// Answers are matched to questions by exact text; unmatched questions show
// an empty response rather than a guessed one.
func formatSamples(questions []types.Question, answers []types.Answer) string {
	byText := make(map[string]types.Answer, len(answers))
	for _, a := range answers {
		byText[a.Question] = a
	}

	var b strings.Builder
	for i, q := range questions {
		a := byText[q.Text]
		fmt.Fprintf(&b, "\nExample %d:\nQuestion: %s\nContext: %s\nResponse: %s\nKey Points: %s\n",
			i+1, q.Text, q.Context, a.Response, strings.Join(a.KeyPoints, ", "))
	}
	return b.String()
}

// formatAnalyses renders per-persona analyses as labeled blocks.
func formatAnalyses(analyses []types.ClientTypeAnalysis) string {
	var b strings.Builder
	for _, a := range analyses {
		fmt.Fprintf(&b, "\nClient Type: %s\nDescription Quality: %d/10\nDescription Feedback: %s\nQuestion Quality: %d/10\nQuestion Feedback: %s\nResponse Quality: %d/10\nResponse Feedback: %s\nImprovement Suggestions: %s\n",
			a.ClientType,
			a.DescriptionQuality, a.DescriptionFeedback,
			a.QuestionQuality, a.QuestionFeedback,
			a.ResponseQuality, a.ResponseFeedback,
			strings.Join(a.ImprovementSuggestions, ", "))
	}
	return b.String()
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
