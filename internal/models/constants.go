package models

// AnswerPromptTemplate is filled with context, question text, the kind's
// missing-info rule and the kind's format rule, in that order.
const AnswerPromptTemplate = `
You are an assistant that answers questions ONLY using the provided context.
Do NOT use any external knowledge.
Do NOT add explanations or extra text.

Context:
%s

Question:
%s

Rules:
- Follow the answer format.
- %s

Answer format:
- %s

Answer:
`
