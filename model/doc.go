// Package model defines the provider‑agnostic abstraction used to generate
// strategy text with a hosted language model.
//
// Core goals:
//   - Keep request/response shapes minimal and transport independent
//   - Hide vendor SDKs behind one interface so the advisor tiers stay decoupled
//   - Facilitate lightweight mocking for tests (MockModel)
//
// Providers (Gemini, OpenAI or any OpenAI‑compatible endpoint such as
// OpenRouter, Anthropic) live in sub-packages and implement Model.
package model
