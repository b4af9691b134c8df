// Package prompt fills a form aggregate from the terminal. Each field is
// asked in declaration order, validated as soon as it is answered and asked
// again while it stays invalid. Prompts go through a PromptDriver so the loop
// can be driven by scripted answers in tests.
package prompt
