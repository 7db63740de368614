/*
Package narrator is a story navigation engine for voice and chat driven
interactive fiction.

A story is a directed graph of scenes. Each scene offers a small set of
choices, and players answer in free-form language. The engine keeps one
session per player, resolves each utterance to a choice with a three stage
matcher (containment, then string similarity, then token overlap) and moves
the session along the graph.

# Usage

	engine, err := narrator.New("story.json", narrator.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}

	start, _ := engine.Start(ctx, "")
	res, err := engine.Choose(ctx, start.SessionID, "let's talk to ravi")
	var noMatch *domain.NoMatchError
	if errors.As(err, &noMatch) {
		// Re-prompt with noMatch.AvailableChoices.
	}

A story that cannot be loaded does not stop the engine: it runs on an empty
story and LoadError reports the cause.

# Concurrency

Every operation on a session runs under that session's lock, so concurrent
calls for the same player are applied one after another while different
players proceed in parallel. With a Redis store and locker the same holds
across replicas.
*/
package narrator
