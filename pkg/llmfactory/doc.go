// Package llmfactory provides configuration and a factory for model backends,
// supporting OpenAI, Perplexity, Anthropic, Google AI and Bedrock providers and model selection by name or type.
package llmfactory
