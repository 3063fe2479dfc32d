// Package bot implements the persona chat bot built on top of the seri
// serialization engine.
//
// The bot keeps a per-chat persona memory and bounded message history,
// decides probabilistically whether to answer, and generates replies through
// an OpenRouter-compatible chat-completions API. Every JSON payload the bot
// produces (LLM requests, Telegram API calls, the configuration file, the
// persisted memory snapshot) is serialized with explicit seri descriptors;
// encoding/json appears only on the decode side, where responses from
// external services are parsed.
//
// Components:
//
//	Manager    configuration with JSONC file loading and atomic saves
//	Memory     persona memories + chat history, gzip snapshots with checksums
//	LLMClient  chat-completions client (replies and history summaries)
//	Telegram   minimal Bot API plumbing (getUpdates long polling, sendMessage)
//	Bot        command dispatch and the reply/auto-summarize flow
package bot
