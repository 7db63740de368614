/*
Package matcher resolves a free-form utterance to one of a scene's choices.

Resolution runs three tiers in order and the first success wins:

 1. Containment: the lowercased utterance contains a candidate, or is contained by one.
 2. Similarity: the Ratcliff/Obershelp ratio between utterance and candidate clears the cutoff.
 3. Token overlap: enough of a candidate's significant words appear in the utterance.

Candidates are the label and the id of every well-formed choice, in scene order,
label first. Ties in any tier go to the earliest candidate, so resolution is
deterministic for a given scene, utterance and configuration.
*/
package matcher
