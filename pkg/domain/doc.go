/*
Package domain contains the core domain models of the Narrator engine.

It defines the story graph, the per-player session state and the payloads handed
to narration layers. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Story: The immutable scene graph loaded once at startup.
  - Scene: A node of the graph (narration, stage lines and choices).
  - Choice: An edge descriptor whose label is matched against player utterances.
  - Session: One player's traversal through the story, with an append-only history.
  - ScenePayload: The normalized view of a scene returned to callers (see FormatScene).
*/
package domain
