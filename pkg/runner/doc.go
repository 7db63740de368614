/*
Package runner implements the interactive play loop and input hygiene for the
narrator engine.

It acts as the bridge between the engine and a player at a terminal or a
program on the other end of a pipe. The runner shows the current scene,
reads an utterance, applies it, and re-prompts with the available choices
when nothing matched.

# Key Components

  - Runner: the loop. It starts a session or resumes one by id.
  - IOHandler: decouples how scenes are shown and utterances are read.
  - TextHandler: numbered choices and markdown narration for terminals.
  - JSONHandler: one JSON object per line for headless use.
  - Sanitizer: size limit, UTF-8 validation and control character stripping.

# Usage

	r := runner.NewRunner(engine,
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
