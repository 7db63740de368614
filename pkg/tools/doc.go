/*
Package tools is the engine-facing tool API: start_game, get_scene,
choose_option and reset_game.

Service methods never return Go errors. Failures are reported inside the
response as a stable code, a human message and, for no_match, the labels the
caller can re-prompt with. Transports (HTTP, MCP) marshal these responses as
they are.
*/
package tools
